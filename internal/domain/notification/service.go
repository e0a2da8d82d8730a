package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hivcare/hivcare/internal/platform/session"
	"github.com/hivcare/hivcare/pkg/metrics"
)

type Service struct {
	repo   Repository
	col    *metrics.Collector
	logger zerolog.Logger
}

func NewService(repo Repository, col *metrics.Collector, logger zerolog.Logger) *Service {
	return &Service{repo: repo, col: col, logger: logger}
}

// Notify stores a new notification for a user.
func (s *Service) Notify(ctx context.Context, userID uuid.UUID, title, body, kind string) (*Notification, error) {
	n := &Notification{UserID: userID, Title: title, Body: body, Kind: kind}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// List returns the user's notifications with IsRead computed from the
// session's read list.
func (s *Service) List(ctx context.Context, userID uuid.UUID, sess *session.Session) ([]*Notification, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, n := range items {
		n.IsRead = sess != nil && sess.HasRead(n.ID)
	}
	return items, nil
}

// MarkRead records id as read in the session after checking the
// notification belongs to the caller. Returns true when the read list
// changed and the session needs saving.
func (s *Service) MarkRead(ctx context.Context, userID uuid.UUID, id int64, sess *session.Session) (bool, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if n.UserID != userID {
		return false, ErrNotFound
	}
	if !sess.MarkRead(id) {
		return false, nil
	}
	if s.col != nil {
		s.col.NotificationsMarked.Inc()
	}
	return true, nil
}

// MarkAllRead records every notification of the user as read in the
// session. Returns true when anything changed.
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID, sess *session.Session) (bool, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	changed := false
	for _, n := range items {
		if sess.MarkRead(n.ID) {
			changed = true
			if s.col != nil {
				s.col.NotificationsMarked.Inc()
			}
		}
	}
	return changed, nil
}
