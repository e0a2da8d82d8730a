package arv

import (
	"time"

	"github.com/google/uuid"
)

// Regimen lines.
const (
	LineFirst  = "first"
	LineSecond = "second"
)

// Patient regimen statuses.
const (
	StatusActive  = "active"
	StatusStopped = "stopped"
)

// Regimen is one catalog entry, e.g. TDF/3TC/DTG.
type Regimen struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Name        string    `db:"name" json:"name"`
	Line        string    `db:"line" json:"line"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// PatientRegimen is one row of a patient's regimen history.
type PatientRegimen struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	UserID    uuid.UUID  `db:"user_id" json:"userId"`
	RegimenID uuid.UUID  `db:"regimen_id" json:"regimenId"`
	StartedAt time.Time  `db:"started_at" json:"startedAt"`
	StoppedAt *time.Time `db:"stopped_at" json:"stoppedAt,omitempty"`
	Status    string     `db:"status" json:"status"`

	// Joined from arv_regimens.
	RegimenCode string `db:"regimen_code" json:"regimenCode,omitempty"`
	RegimenName string `db:"regimen_name" json:"regimenName,omitempty"`
}

// AssignRequest is the body of a regimen assignment.
type AssignRequest struct {
	RegimenID string `json:"regimenId"`
}
