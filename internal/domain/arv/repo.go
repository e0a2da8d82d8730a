package arv

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RegimenRepository reads the regimen catalog.
type RegimenRepository interface {
	List(ctx context.Context) ([]*Regimen, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Regimen, error)
}

// PatientRegimenRepository tracks which regimen each patient is on.
type PatientRegimenRepository interface {
	Create(ctx context.Context, pr *PatientRegimen) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*PatientRegimen, error)
	GetActive(ctx context.Context, userID uuid.UUID) (*PatientRegimen, error)
	Stop(ctx context.Context, id uuid.UUID, at time.Time) error
}
