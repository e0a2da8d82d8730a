package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no session exists for the given ID.
var ErrNotFound = errors.New("session not found")

// Session holds server-side state for one browser session. Notification
// read-state is tracked here rather than in the database: marking a
// notification read only affects the session it was marked in.
type Session struct {
	UserID            string    `json:"user_id,omitempty"`
	Username          string    `json:"username,omitempty"`
	FullName          string    `json:"full_name,omitempty"`
	RoleID            int       `json:"role_id,omitempty"`
	ReadNotifications []int64   `json:"read_notifications,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// IsAuthenticated reports whether the session belongs to a logged-in user.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.UserID != ""
}

// MarkRead records a notification ID as read. Returns false if it was
// already marked.
func (s *Session) MarkRead(id int64) bool {
	for _, existing := range s.ReadNotifications {
		if existing == id {
			return false
		}
	}
	s.ReadNotifications = append(s.ReadNotifications, id)
	return true
}

// HasRead reports whether the notification ID is marked read in this session.
func (s *Session) HasRead(id int64) bool {
	for _, existing := range s.ReadNotifications {
		if existing == id {
			return true
		}
	}
	return false
}

// Store persists sessions keyed by opaque session ID.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, id string, sess *Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}
