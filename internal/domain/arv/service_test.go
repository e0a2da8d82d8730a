package arv

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hivcare/hivcare/internal/domain/notification"
)

type mockRegimens struct{ regimens map[uuid.UUID]*Regimen }

func (m *mockRegimens) List(_ context.Context) ([]*Regimen, error) {
	var out []*Regimen
	for _, r := range m.regimens {
		out = append(out, r)
	}
	return out, nil
}

func (m *mockRegimens) GetByID(_ context.Context, id uuid.UUID) (*Regimen, error) {
	r, ok := m.regimens[id]
	if !ok {
		return nil, ErrRegimenNotFound
	}
	return r, nil
}

type mockPatientRegimens struct{ rows []*PatientRegimen }

func (m *mockPatientRegimens) Create(_ context.Context, pr *PatientRegimen) error {
	pr.ID = uuid.New()
	cp := *pr
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *mockPatientRegimens) ListByUser(_ context.Context, userID uuid.UUID) ([]*PatientRegimen, error) {
	var out []*PatientRegimen
	for _, pr := range m.rows {
		if pr.UserID == userID {
			out = append(out, pr)
		}
	}
	return out, nil
}

func (m *mockPatientRegimens) GetActive(_ context.Context, userID uuid.UUID) (*PatientRegimen, error) {
	for _, pr := range m.rows {
		if pr.UserID == userID && pr.Status == StatusActive {
			return pr, nil
		}
	}
	return nil, ErrNoActiveRegimen
}

func (m *mockPatientRegimens) Stop(_ context.Context, id uuid.UUID, at time.Time) error {
	for _, pr := range m.rows {
		if pr.ID == id && pr.Status == StatusActive {
			pr.Status = StatusStopped
			pr.StoppedAt = &at
			return nil
		}
	}
	return ErrNoActiveRegimen
}

type mockNotifier struct {
	notices []*notification.Notification
}

func (m *mockNotifier) Notify(_ context.Context, userID uuid.UUID, title, body, kind string) (*notification.Notification, error) {
	n := &notification.Notification{UserID: userID, Title: title, Body: body, Kind: kind}
	m.notices = append(m.notices, n)
	return n, nil
}

func newTestService() (*Service, uuid.UUID, uuid.UUID, *mockPatientRegimens) {
	first := &Regimen{ID: uuid.New(), Code: "TDF/3TC/DTG", Name: "Tenofovir + Lamivudine + Dolutegravir", Line: LineFirst}
	second := &Regimen{ID: uuid.New(), Code: "AZT/3TC/LPV-r", Name: "Zidovudine + Lamivudine + Lopinavir/ritonavir", Line: LineSecond}
	regimens := &mockRegimens{regimens: map[uuid.UUID]*Regimen{first.ID: first, second.ID: second}}
	patients := &mockPatientRegimens{}
	svc := NewService(regimens, patients, nil, nil, zerolog.New(os.Stderr))
	return svc, first.ID, second.ID, patients
}

func TestAssign_FirstRegimen(t *testing.T) {
	svc, firstID, _, patients := newTestService()
	user := uuid.New()

	pr, err := svc.Assign(context.Background(), user, firstID)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if pr.Status != StatusActive || pr.RegimenCode != "TDF/3TC/DTG" {
		t.Errorf("unexpected assignment: %+v", pr)
	}
	if len(patients.rows) != 1 {
		t.Errorf("expected 1 row, got %d", len(patients.rows))
	}
}

func TestAssign_SwitchStopsActive(t *testing.T) {
	svc, firstID, secondID, patients := newTestService()
	user := uuid.New()
	ctx := context.Background()

	if _, err := svc.Assign(ctx, user, firstID); err != nil {
		t.Fatalf("first Assign: %v", err)
	}
	pr, err := svc.Assign(ctx, user, secondID)
	if err != nil {
		t.Fatalf("switch Assign: %v", err)
	}
	if pr.RegimenCode != "AZT/3TC/LPV-r" {
		t.Errorf("unexpected new regimen: %+v", pr)
	}

	if len(patients.rows) != 2 {
		t.Fatalf("expected 2 stored rows, got %d", len(patients.rows))
	}
	history, _ := svc.History(ctx, user)
	if len(history) != 2 {
		t.Fatalf("expected 2 history rows, got %d", len(history))
	}
	active, stopped := 0, 0
	for _, row := range history {
		switch row.Status {
		case StatusActive:
			active++
		case StatusStopped:
			stopped++
			if row.StoppedAt == nil {
				t.Error("stopped row must carry stopped_at")
			}
		}
	}
	if active != 1 || stopped != 1 {
		t.Errorf("expected 1 active + 1 stopped, got %d/%d", active, stopped)
	}
}

func TestAssign_UnknownRegimen(t *testing.T) {
	svc, _, _, _ := newTestService()

	if _, err := svc.Assign(context.Background(), uuid.New(), uuid.New()); err != ErrRegimenNotFound {
		t.Errorf("expected ErrRegimenNotFound, got %v", err)
	}
}

func TestStop(t *testing.T) {
	svc, firstID, _, _ := newTestService()
	user := uuid.New()
	ctx := context.Background()

	if _, err := svc.Stop(ctx, user); err != ErrNoActiveRegimen {
		t.Errorf("expected ErrNoActiveRegimen, got %v", err)
	}

	if _, err := svc.Assign(ctx, user, firstID); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	pr, err := svc.Stop(ctx, user)
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if pr.Status != StatusStopped || pr.StoppedAt == nil {
		t.Errorf("unexpected stopped row: %+v", pr)
	}

	if _, err := svc.Stop(ctx, user); err != ErrNoActiveRegimen {
		t.Errorf("second Stop should fail, got %v", err)
	}
}

func TestAssignAndStop_LeaveNotices(t *testing.T) {
	svc, firstID, secondID, _ := newTestService()
	notifier := &mockNotifier{}
	svc.notifier = notifier
	user := uuid.New()
	ctx := context.Background()

	if _, err := svc.Assign(ctx, user, firstID); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if _, err := svc.Assign(ctx, user, secondID); err != nil {
		t.Fatalf("switch Assign: %v", err)
	}
	if _, err := svc.Stop(ctx, user); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	if len(notifier.notices) != 3 {
		t.Fatalf("expected 3 notices, got %d", len(notifier.notices))
	}
	for _, n := range notifier.notices {
		if n.UserID != user || n.Kind != notification.KindRegimen {
			t.Errorf("unexpected notice: %+v", n)
		}
	}
	if last := notifier.notices[2]; last.Title != "Dừng phác đồ ARV" {
		t.Errorf("unexpected stop notice: %+v", last)
	}
}
