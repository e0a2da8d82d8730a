package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hivcare/hivcare/pkg/metrics"
	"github.com/hivcare/hivcare/pkg/pagination"
)

type Service struct {
	repo       Repository
	facilities FacilityRepository
	doctors    DoctorDirectory
	checker    *ConflictChecker
	filter     availabilityFilter
	notifier   Notifier
	col        *metrics.Collector
	logger     zerolog.Logger

	// now is swapped out in tests.
	now func() time.Time
}

func NewService(repo Repository, facilities FacilityRepository, doctors DoctorDirectory, notifier Notifier, col *metrics.Collector, logger zerolog.Logger) *Service {
	return &Service{
		repo:       repo,
		facilities: facilities,
		doctors:    doctors,
		checker:    NewConflictChecker(repo, doctors, col, logger),
		filter:     availabilityFilter{repo: repo, logger: logger},
		notifier:   notifier,
		col:        col,
		logger:     logger,
		now:        time.Now,
	}
}

// Timeslots returns the slot lists for a YYYY-MM-DD date string.
func (s *Service) Timeslots(dateStr string) (SlotResult, error) {
	date, err := ParseDate(dateStr)
	if err != nil {
		return SlotResult{}, err
	}
	return Timeslots(date, s.now()), nil
}

// AvailableDoctors lists bookable doctors, optionally filtered by a
// specialty/name substring. When both date and time are supplied, doctors
// already booked at or within 30 minutes of that instant are dropped;
// otherwise all are returned with AvailabilityChecked false.
func (s *Service) AvailableDoctors(ctx context.Context, dateStr, timeStr, specialty string) ([]*AvailableDoctor, error) {
	docs, err := s.doctors.ListAvailable(ctx, specialty)
	if err != nil {
		return nil, err
	}

	checkSlot := dateStr != "" && timeStr != ""
	var date time.Time
	if checkSlot {
		if date, err = ParseDate(dateStr); err != nil {
			return nil, err
		}
	}

	out := make([]*AvailableDoctor, 0, len(docs))
	for _, d := range docs {
		if !d.IsAvailable {
			continue
		}
		if checkSlot && !s.filter.freeAt(ctx, d.ID, date, timeStr) {
			continue
		}
		out = append(out, backfill(d, checkSlot))
	}
	return out, nil
}

// ValidateResult is the POST /appointments/validate response.
type ValidateResult struct {
	IsValid     bool       `json:"isValid"`
	Message     string     `json:"message,omitempty"`
	Duplicate   *Duplicate `json:"duplicate,omitempty"`
	Warnings    []Warning  `json:"warnings"`
	Suggestions []string   `json:"suggestions"`
}

const (
	msgInvalidSlot = "Khung giờ không hợp lệ, vui lòng chọn một khung giờ của phòng khám"
)

// Validate runs every pre-booking check, including slot-set membership,
// which Create itself does not re-check.
func (s *Service) Validate(ctx context.Context, req CreateRequest, createdBy *uuid.UUID) (ValidateResult, error) {
	invalid := func(msg string) ValidateResult {
		return ValidateResult{IsValid: false, Message: msg, Warnings: []Warning{}, Suggestions: []string{}}
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return ValidateResult{}, ErrDoctorNotFound
	}
	date, err := ParseDate(req.AppointmentDate)
	if err != nil {
		return ValidateResult{}, err
	}

	slots := Timeslots(date, s.now())
	if !slots.Available {
		return invalid(slots.Message), nil
	}
	if !IsValidSlot(req.AppointmentTime) {
		return invalid(msgInvalidSlot), nil
	}

	check := s.checker.Check(ctx, createdBy, doctorID, date, req.AppointmentTime)
	return ValidateResult{
		IsValid:     check.IsValid,
		Duplicate:   check.Duplicate,
		Warnings:    check.Warnings,
		Suggestions: check.Suggestions,
	}, nil
}

// Create books an appointment. Date must be a weekday that is not in the
// past; the slot-set membership is deliberately not re-checked here, only
// Validate does that. Anonymous callers pass createdBy nil. On an exact
// duplicate the returned *Duplicate is non-nil and err is ErrDuplicate.
func (s *Service) Create(ctx context.Context, req CreateRequest, createdBy *uuid.UUID, apptType string, notes *string) (*CreateResult, *Duplicate, error) {
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, nil, ErrDoctorNotFound
	}
	doctor, err := s.doctors.GetDoctor(ctx, doctorID)
	if err != nil {
		return nil, nil, err
	}
	if !doctor.IsAvailable {
		return nil, nil, ErrDoctorUnavailable
	}

	date, err := ParseDate(req.AppointmentDate)
	if err != nil {
		return nil, nil, err
	}
	if _, err := ParseClock(req.AppointmentTime); err != nil {
		return nil, nil, err
	}
	// Rebuild the parsed date in the clock's zone so "today" means the same
	// thing here as it does in Timeslots.
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	if day.Before(today) {
		return nil, nil, ErrPastDate
	}
	if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return nil, nil, ErrWeekend
	}

	check := s.checker.Check(ctx, createdBy, doctorID, date, req.AppointmentTime)
	if !check.IsValid {
		return nil, check.Duplicate, ErrDuplicate
	}

	facility, err := s.facilities.DefaultFacility(ctx)
	if err != nil {
		return nil, nil, err
	}

	a := &Appointment{
		DoctorID:        doctorID,
		PatientID:       nil, // always null, see Appointment doc
		FacilityID:      facility.ID,
		AppointmentDate: date,
		AppointmentTime: req.AppointmentTime,
		Type:            apptType,
		Status:          StatusScheduled,
		FullName:        req.PatientInfo.FullName,
		PhoneNumber:     req.PatientInfo.PhoneNumber,
		IsAnonymous:     req.PatientInfo.IsAnonymous,
		CreatedBy:       createdBy,
		Notes:           notes,
	}
	if req.PatientInfo.Email != "" {
		a.Email = &req.PatientInfo.Email
	}
	if req.PatientInfo.Purpose != "" {
		a.Purpose = &req.PatientInfo.Purpose
	}

	if err := s.repo.Create(ctx, a); err != nil {
		if !errors.Is(err, ErrForeignKey) || a.CreatedBy == nil {
			return nil, nil, err
		}
		// Schema workaround: the created_by FK occasionally rejects valid
		// users; retry once without attribution rather than failing the
		// booking.
		s.logger.Warn().Str("created_by", a.CreatedBy.String()).
			Msg("created_by FK rejected, retrying with null")
		a.CreatedBy = nil
		if err := s.repo.Create(ctx, a); err != nil {
			return nil, nil, err
		}
	}

	if s.col != nil {
		s.col.AppointmentsTotal.WithLabelValues(apptType).Inc()
	}
	s.notifyBooked(ctx, a, doctor.FullName)
	return &CreateResult{
		Success:       true,
		AppointmentID: a.ID,
		Status:        a.Status,
		Warnings:      check.WarningMessages(),
	}, nil, nil
}

// MyAppointments lists the caller's bookings, newest first.
func (s *Service) MyAppointments(ctx context.Context, userID uuid.UUID, p pagination.Params) ([]*Appointment, int, error) {
	return s.repo.ListByCreator(ctx, userID, p.Limit, p.Offset)
}

// LookupByContact lists bookings matching a phone number or email.
func (s *Service) LookupByContact(ctx context.Context, phone, email string) ([]*Appointment, error) {
	return s.repo.ListByContact(ctx, phone, email)
}

// UpdateStatus transitions an appointment's status. Cancellation is also a
// status value; nothing is ever deleted.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Appointment, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}
