package medicalrecord

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hivcare/hivcare/internal/domain/appointment"
)

// AppointmentSource supplies a user's annotated appointments; satisfied by
// the appointment repository.
type AppointmentSource interface {
	ListWithNotesByCreator(ctx context.Context, createdBy uuid.UUID) ([]*appointment.Appointment, error)
}

// Service builds medical records from appointment notes. With mock enabled
// it serves canned demo records instead, regardless of the caller.
type Service struct {
	appts  AppointmentSource
	mock   bool
	logger zerolog.Logger
}

func NewService(appts AppointmentSource, mock bool, logger zerolog.Logger) *Service {
	return &Service{appts: appts, mock: mock, logger: logger}
}

// RecordsFor returns the user's records, newest first. Appointments whose
// notes carry no CD4/VL tokens are skipped.
func (s *Service) RecordsFor(ctx context.Context, userID uuid.UUID) ([]*Record, error) {
	if s.mock {
		return mockRecords(), nil
	}

	appts, err := s.appts.ListWithNotesByCreator(ctx, userID)
	if err != nil {
		return nil, err
	}

	records := make([]*Record, 0, len(appts))
	for _, a := range appts {
		if a.Notes == nil {
			continue
		}
		cd4, vl := ParseLabValues(*a.Notes)
		if cd4 == nil && vl == nil {
			continue
		}
		records = append(records, &Record{
			AppointmentID: a.ID,
			Date:          a.AppointmentDate,
			Time:          a.AppointmentTime,
			DoctorName:    a.DoctorName,
			CD4Count:      cd4,
			ViralLoad:     vl,
			Notes:         *a.Notes,
		})
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.After(records[j].Date)
		}
		return records[i].Time > records[j].Time
	})
	return records, nil
}

func intPtr(n int) *int { return &n }

// mockRecords is the demo dataset served when the mock flag is on.
func mockRecords() []*Record {
	return []*Record{
		{
			AppointmentID: uuid.MustParse("11111111-1111-1111-1111-111111111111"),
			Date:          time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
			Time:          "09:00",
			DoctorName:    "BS Trần Thị B",
			CD4Count:      intPtr(520),
			ViralLoad:     intPtr(40),
			Notes:         "Tái khám định kỳ. CD4=520, VL=40",
		},
		{
			AppointmentID: uuid.MustParse("22222222-2222-2222-2222-222222222222"),
			Date:          time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
			Time:          "10:30",
			DoctorName:    "BS Trần Thị B",
			CD4Count:      intPtr(410),
			ViralLoad:     intPtr(180),
			Notes:         "Bắt đầu phác đồ mới. CD4=410, VL=180",
		},
	}
}
