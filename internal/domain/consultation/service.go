package consultation

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hivcare/hivcare/internal/domain/appointment"
	"github.com/hivcare/hivcare/pkg/metrics"
)

// BookResult is the consultation booking payload: a normal booking result
// plus the generated meeting link.
type BookResult struct {
	appointment.CreateResult
	MeetingLink string `json:"meetingLink"`
}

// Consultation is one entry of the contact lookup response.
type Consultation struct {
	*appointment.Appointment
	MeetingLink string `json:"meetingLink"`
}

// Service books online consultations on top of the appointment domain.
type Service struct {
	appts  *appointment.Service
	col    *metrics.Collector
	logger zerolog.Logger
}

func NewService(appts *appointment.Service, col *metrics.Collector, logger zerolog.Logger) *Service {
	return &Service{appts: appts, col: col, logger: logger}
}

// Book creates an online appointment and stores the meeting link in notes.
func (s *Service) Book(ctx context.Context, req appointment.CreateRequest, createdBy *uuid.UUID) (*BookResult, *appointment.Duplicate, error) {
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, nil, appointment.ErrDoctorNotFound
	}
	url := MeetingURL(doctorID, req.AppointmentDate, req.AppointmentTime)
	notes := MeetingNotes(url)

	res, dup, err := s.appts.Create(ctx, req, createdBy, appointment.TypeOnline, &notes)
	if err != nil {
		return nil, dup, err
	}
	if s.col != nil {
		s.col.ConsultationsBooked.Inc()
	}
	return &BookResult{CreateResult: *res, MeetingLink: url}, nil, nil
}

// Lookup lists a patient's online consultations by phone or email, the
// contact-based identity channel for callers without an account.
func (s *Service) Lookup(ctx context.Context, phone, email string) ([]*Consultation, error) {
	appts, err := s.appts.LookupByContact(ctx, phone, email)
	if err != nil {
		return nil, err
	}
	out := make([]*Consultation, 0, len(appts))
	for _, a := range appts {
		if a.Type != appointment.TypeOnline {
			continue
		}
		out = append(out, &Consultation{
			Appointment: a,
			MeetingLink: ExtractMeetingURL(a.Notes),
		})
	}
	return out, nil
}
