package appointment

import (
	"time"

	"github.com/google/uuid"
)

// Appointment types.
const (
	TypeInPerson = "in-person"
	TypeOnline   = "online"
)

// Appointment statuses. Cancellation is a status, never a delete.
const (
	StatusScheduled = "Scheduled"
	StatusConfirmed = "Confirmed"
	StatusCompleted = "Completed"
	StatusCancelled = "Cancelled"
	StatusNoShow    = "No-show"
)

var validStatuses = map[string]bool{
	StatusScheduled: true,
	StatusConfirmed: true,
	StatusCompleted: true,
	StatusCancelled: true,
	StatusNoShow:    true,
}

// ValidStatus reports whether s is one of the known appointment statuses.
func ValidStatus(s string) bool { return validStatuses[s] }

// Appointment maps to the appointments table. PatientID is always written
// null on create (the patients table is a parallel, effectively unused table
// and its FK would reject real user ids); identity for anonymous bookings
// lives in the inline contact fields instead. Notes is free text and also
// carries video-call links and CD4=/VL= lab tokens.
type Appointment struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	DoctorID        uuid.UUID  `db:"doctor_id" json:"doctorId"`
	PatientID       *uuid.UUID `db:"patient_id" json:"patientId,omitempty"`
	FacilityID      uuid.UUID  `db:"facility_id" json:"facilityId"`
	AppointmentDate time.Time  `db:"appointment_date" json:"appointmentDate"`
	AppointmentTime string     `db:"appointment_time" json:"appointmentTime"`
	Type            string     `db:"type" json:"type"`
	Status          string     `db:"status" json:"status"`
	FullName        string     `db:"full_name" json:"fullName"`
	PhoneNumber     string     `db:"phone_number" json:"phoneNumber"`
	Email           *string    `db:"email" json:"email,omitempty"`
	IsAnonymous     bool       `db:"is_anonymous" json:"isAnonymous"`
	Purpose         *string    `db:"purpose" json:"purpose,omitempty"`
	CreatedBy       *uuid.UUID `db:"created_by" json:"createdBy,omitempty"`
	Notes           *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updatedAt"`

	// Joined from doctors/users for list responses.
	DoctorName string `db:"doctor_name" json:"doctorName,omitempty"`
}

// Facility maps to the facilities table. A "default" row is lazily created
// at booking time if none exists yet.
type Facility struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Address   *string   `db:"address" json:"address,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// PatientInfo is the contact block of a booking request.
type PatientInfo struct {
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
	Purpose     string `json:"purpose"`
	IsAnonymous bool   `json:"isAnonymous"`
}

// CreateRequest is the POST /appointments (and /consultations) body.
type CreateRequest struct {
	DoctorID        string      `json:"doctorId"`
	AppointmentDate string      `json:"appointmentDate"`
	AppointmentTime string      `json:"appointmentTime"`
	PatientInfo     PatientInfo `json:"patientInfo"`
}

// CreateResult is the success payload of a booking.
type CreateResult struct {
	Success       bool      `json:"success"`
	AppointmentID uuid.UUID `json:"appointmentId"`
	Status        string    `json:"status"`
	Warnings      []string  `json:"warnings"`
}
