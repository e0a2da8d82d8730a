package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, upd ProfileUpdate) error
	UpdatePassword(ctx context.Context, id uuid.UUID, password string) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type DoctorRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	// ListActive returns doctors whose profile is available and whose user
	// row is active, optionally filtered by a case-insensitive substring
	// against specialty or full name.
	ListActive(ctx context.Context, filter string) ([]*Doctor, error)
}
