package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hivcare/hivcare/internal/domain/notification"
)

// Notifier records an in-app notice for a user; satisfied by
// notification.Service. A nil Notifier disables notices.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, title, body, kind string) (*notification.Notification, error)
}

// notifyBooked leaves a confirmation notice for the authenticated creator.
// Best effort: a booking never fails because its notice could not be
// written. Anonymous bookings have no account to notify.
func (s *Service) notifyBooked(ctx context.Context, a *Appointment, doctorName string) {
	if s.notifier == nil || a.CreatedBy == nil {
		return
	}
	body := fmt.Sprintf("Lịch hẹn với %s ngày %s lúc %s đã được ghi nhận",
		doctorName, a.AppointmentDate.Format("02/01/2006"), a.AppointmentTime)
	_, err := s.notifier.Notify(ctx, *a.CreatedBy,
		"Đặt lịch hẹn thành công", body, notification.KindAppointmentReminder)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("appointment_id", a.ID.String()).
			Msg("booking notice failed")
	}
}
