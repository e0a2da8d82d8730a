package appointment

import "errors"

var (
	ErrNotFound          = errors.New("appointment not found")
	ErrDoctorNotFound    = errors.New("doctor not found")
	ErrDoctorUnavailable = errors.New("doctor not available")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidTime       = errors.New("invalid time")
	ErrPastDate          = errors.New("date is in the past")
	ErrWeekend           = errors.New("clinic closed on weekends")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrDuplicate         = errors.New("duplicate appointment")

	// ErrForeignKey is returned by the repository when an insert hits a
	// foreign key violation; creation retries once with created_by nulled.
	ErrForeignKey = errors.New("foreign key violation")
)
