package arv

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hivcare/hivcare/pkg/metrics"
)

type Service struct {
	regimens RegimenRepository
	patients PatientRegimenRepository
	notifier Notifier
	col      *metrics.Collector
	logger   zerolog.Logger
	now      func() time.Time
}

func NewService(regimens RegimenRepository, patients PatientRegimenRepository, notifier Notifier, col *metrics.Collector, logger zerolog.Logger) *Service {
	return &Service{regimens: regimens, patients: patients, notifier: notifier, col: col, logger: logger, now: time.Now}
}

// Catalog lists all regimens, first-line before second-line.
func (s *Service) Catalog(ctx context.Context) ([]*Regimen, error) {
	return s.regimens.List(ctx)
}

// Assign puts the patient on a regimen. An active regimen is stopped first,
// so assignment doubles as a switch.
func (s *Service) Assign(ctx context.Context, userID, regimenID uuid.UUID) (*PatientRegimen, error) {
	regimen, err := s.regimens.GetByID(ctx, regimenID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if active, err := s.patients.GetActive(ctx, userID); err == nil {
		if err := s.patients.Stop(ctx, active.ID, now); err != nil {
			return nil, err
		}
		s.logger.Info().
			Str("user_id", userID.String()).
			Str("from", active.RegimenCode).
			Str("to", regimen.Code).
			Msg("regimen switched")
	} else if !errors.Is(err, ErrNoActiveRegimen) {
		return nil, err
	}

	pr := &PatientRegimen{
		UserID:      userID,
		RegimenID:   regimenID,
		StartedAt:   now,
		Status:      StatusActive,
		RegimenCode: regimen.Code,
		RegimenName: regimen.Name,
	}
	if err := s.patients.Create(ctx, pr); err != nil {
		return nil, err
	}
	if s.col != nil {
		s.col.RegimenChangesTotal.Inc()
	}
	s.notifyRegimen(ctx, userID, "Phác đồ ARV mới", assignedBody(regimen.Code))
	return pr, nil
}

// History lists the patient's regimen rows, newest first.
func (s *Service) History(ctx context.Context, userID uuid.UUID) ([]*PatientRegimen, error) {
	return s.patients.ListByUser(ctx, userID)
}

// Stop ends the patient's active regimen without a replacement.
func (s *Service) Stop(ctx context.Context, userID uuid.UUID) (*PatientRegimen, error) {
	active, err := s.patients.GetActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	at := s.now()
	if err := s.patients.Stop(ctx, active.ID, at); err != nil {
		return nil, err
	}
	active.Status = StatusStopped
	active.StoppedAt = &at
	if s.col != nil {
		s.col.RegimenChangesTotal.Inc()
	}
	s.notifyRegimen(ctx, userID, "Dừng phác đồ ARV", stoppedBody(active.RegimenCode))
	return active, nil
}
