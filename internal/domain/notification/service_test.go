package notification

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hivcare/hivcare/internal/platform/session"
)

type mockRepo struct {
	notifs []*Notification
	nextID int64
}

func (m *mockRepo) Create(_ context.Context, n *Notification) error {
	m.nextID++
	n.ID = m.nextID
	n.CreatedAt = time.Now()
	cp := *n
	m.notifs = append(m.notifs, &cp)
	return nil
}

func (m *mockRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*Notification, error) {
	var out []*Notification
	for _, n := range m.notifs {
		if n.UserID == userID {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockRepo) GetByID(_ context.Context, id int64) (*Notification, error) {
	for _, n := range m.notifs {
		if n.ID == id {
			cp := *n
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func newTestService() (*Service, *mockRepo) {
	repo := &mockRepo{}
	return NewService(repo, nil, zerolog.New(os.Stderr)), repo
}

func TestList_ReadStateFromSession(t *testing.T) {
	svc, _ := newTestService()
	user := uuid.New()
	ctx := context.Background()

	first, err := svc.Notify(ctx, user, "Nhắc lịch hẹn", "Bạn có lịch hẹn ngày mai", KindAppointmentReminder)
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if _, err := svc.Notify(ctx, user, "Phác đồ mới", "Phác đồ của bạn đã được cập nhật", KindRegimen); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	sess := &session.Session{UserID: user.String()}
	sess.MarkRead(first.ID)

	items, err := svc.List(ctx, user, sess)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(items))
	}
	for _, n := range items {
		want := n.ID == first.ID
		if n.IsRead != want {
			t.Errorf("notification %d: isRead = %v, want %v", n.ID, n.IsRead, want)
		}
	}
}

func TestList_NilSessionAllUnread(t *testing.T) {
	svc, _ := newTestService()
	user := uuid.New()
	ctx := context.Background()

	if _, err := svc.Notify(ctx, user, "T", "B", KindSystem); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	items, err := svc.List(ctx, user, nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if items[0].IsRead {
		t.Error("no session means nothing is read")
	}
}

func TestMarkRead(t *testing.T) {
	svc, _ := newTestService()
	user := uuid.New()
	other := uuid.New()
	ctx := context.Background()

	mine, _ := svc.Notify(ctx, user, "T", "B", KindSystem)
	theirs, _ := svc.Notify(ctx, other, "T", "B", KindSystem)

	sess := &session.Session{UserID: user.String()}

	changed, err := svc.MarkRead(ctx, user, mine.ID, sess)
	if err != nil || !changed {
		t.Fatalf("MarkRead: changed=%v err=%v", changed, err)
	}
	if !sess.HasRead(mine.ID) {
		t.Error("expected id in session read list")
	}

	// Marking again is a no-op.
	changed, err = svc.MarkRead(ctx, user, mine.ID, sess)
	if err != nil || changed {
		t.Errorf("second MarkRead: changed=%v err=%v", changed, err)
	}

	// Someone else's notification is not found.
	if _, err := svc.MarkRead(ctx, user, theirs.ID, sess); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.MarkRead(ctx, user, 9999, sess); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestMarkAllRead(t *testing.T) {
	svc, _ := newTestService()
	user := uuid.New()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Notify(ctx, user, "T", "B", KindSystem); err != nil {
			t.Fatalf("Notify: %v", err)
		}
	}

	sess := &session.Session{UserID: user.String()}
	changed, err := svc.MarkAllRead(ctx, user, sess)
	if err != nil || !changed {
		t.Fatalf("MarkAllRead: changed=%v err=%v", changed, err)
	}
	if len(sess.ReadNotifications) != 3 {
		t.Errorf("expected 3 read ids, got %d", len(sess.ReadNotifications))
	}

	items, _ := svc.List(ctx, user, sess)
	for _, n := range items {
		if !n.IsRead {
			t.Errorf("notification %d still unread", n.ID)
		}
	}

	changed, err = svc.MarkAllRead(ctx, user, sess)
	if err != nil || changed {
		t.Errorf("second MarkAllRead: changed=%v err=%v", changed, err)
	}
}
