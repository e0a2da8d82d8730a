package notification

import (
	"time"

	"github.com/google/uuid"
)

// Notification kinds.
const (
	KindAppointmentReminder = "appointment_reminder"
	KindRegimen             = "regimen"
	KindSystem              = "system"
)

// Notification maps to the notifications table. Read-state is not a column:
// it lives in the caller's session as a list of read ids and disappears when
// the session ends. IDs are sequential so that list stays compact.
type Notification struct {
	ID        int64     `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"userId"`
	Title     string    `db:"title" json:"title"`
	Body      string    `db:"body" json:"body"`
	Kind      string    `db:"kind" json:"kind"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	// Computed from the session, never persisted.
	IsRead bool `db:"-" json:"isRead"`
}
