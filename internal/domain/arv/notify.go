package arv

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

// notifyRegimen leaves a notice about a regimen change. Best effort: the
// change itself is already committed when this runs.
func (s *Service) notifyRegimen(ctx context.Context, userID uuid.UUID, title, body string) {
	if s.notifier == nil {
		return
	}
	if _, err := s.notifier.Notify(ctx, userID, title, body, notification.KindRegimen); err != nil {
		s.logger.Warn().Err(err).
			Str("user_id", userID.String()).
			Msg("regimen notice failed")
	}
}

func assignedBody(code string) string {
	return fmt.Sprintf("Bạn đã được chỉ định phác đồ %s", code)
}

func stoppedBody(code string) string {
	return fmt.Sprintf("Phác đồ %s của bạn đã được dừng", code)
}
