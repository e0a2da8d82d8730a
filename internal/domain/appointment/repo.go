package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository is the appointments persistence interface. Conflict queries
// only consider non-cancelled rows.
type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	ListByCreator(ctx context.Context, createdBy uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	ListWithNotesByCreator(ctx context.Context, createdBy uuid.UUID) ([]*Appointment, error)
	ListByContact(ctx context.Context, phone, email string) ([]*Appointment, error)

	// Conflict-check queries.
	ExactDuplicate(ctx context.Context, createdBy, doctorID uuid.UUID, date time.Time, timeStr string) (*Appointment, error)
	CountSameDayWithDoctor(ctx context.Context, createdBy, doctorID uuid.UUID, date time.Time) (int, error)
	ListOwnOnDate(ctx context.Context, createdBy uuid.UUID, date time.Time) ([]*Appointment, error)
	CountAtSlot(ctx context.Context, doctorID uuid.UUID, date time.Time, timeStr string, excludeCreator *uuid.UUID) (int, error)
	CountUpcoming(ctx context.Context, createdBy uuid.UUID, from, to time.Time) (int, error)

	// Availability queries.
	ListDoctorTimesOnDate(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]string, error)
}

// FacilityRepository resolves the clinic facility rows.
type FacilityRepository interface {
	// DefaultFacility returns the first facility, creating a "default" row
	// when the table is empty.
	DefaultFacility(ctx context.Context) (*Facility, error)
}
