package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestSession_MarkRead(t *testing.T) {
	sess := &Session{}

	if !sess.MarkRead(7) {
		t.Error("expected first MarkRead to return true")
	}
	if sess.MarkRead(7) {
		t.Error("expected second MarkRead of same ID to return false")
	}
	if !sess.HasRead(7) {
		t.Error("expected HasRead(7) to be true")
	}
	if sess.HasRead(8) {
		t.Error("expected HasRead(8) to be false")
	}
}

func TestSession_IsAuthenticated(t *testing.T) {
	var nilSess *Session
	if nilSess.IsAuthenticated() {
		t.Error("nil session should not be authenticated")
	}
	if (&Session{}).IsAuthenticated() {
		t.Error("anonymous session should not be authenticated")
	}
	if !(&Session{UserID: "u1"}).IsAuthenticated() {
		t.Error("session with user ID should be authenticated")
	}
}

func TestMemoryStore_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	sess := &Session{UserID: "u1", Username: "alice", ReadNotifications: []int64{1, 2}}
	if err := store.Save(ctx, "sid-1", sess, time.Minute); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Get(ctx, "sid-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.UserID != "u1" || got.Username != "alice" {
		t.Errorf("unexpected session: %+v", got)
	}
	if len(got.ReadNotifications) != 2 {
		t.Errorf("expected 2 read notifications, got %d", len(got.ReadNotifications))
	}

	// Mutating the returned copy must not affect the stored session.
	got.MarkRead(99)
	again, _ := store.Get(ctx, "sid-1")
	if again.HasRead(99) {
		t.Error("mutation of returned session leaked into store")
	}

	if err := store.Delete(ctx, "sid-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, "sid-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Save(ctx, "sid-2", &Session{}, -time.Second); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := store.Get(ctx, "sid-2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for expired session, got %v", err)
	}
}

func TestMiddleware_LoadsExistingSession(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Save(ctx, "sid-3", &Session{UserID: "u3"}, time.Minute); err != nil {
		t.Fatalf("Save: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "sid-3"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		sess := FromContext(c)
		if sess == nil || sess.UserID != "u3" {
			t.Errorf("expected session for u3, got %+v", sess)
		}
		if IDFromContext(c) != "sid-3" {
			t.Errorf("expected session id sid-3, got %q", IDFromContext(c))
		}
		return c.NoContent(http.StatusOK)
	}

	if err := Middleware(store)(handler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMiddleware_NoCookie(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		if FromContext(c) != nil {
			t.Error("expected no session without cookie")
		}
		return c.NoContent(http.StatusOK)
	}

	if err := Middleware(NewMemoryStore())(handler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsure_CreatesSessionAndCookie(t *testing.T) {
	store := NewMemoryStore()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	sess, id, err := Ensure(c, store, time.Minute)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if sess == nil || id == "" {
		t.Fatal("expected new session and ID")
	}

	// Cookie must be set on the response.
	found := false
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == CookieName && cookie.Value == id {
			found = true
			if !cookie.HttpOnly {
				t.Error("expected HttpOnly cookie")
			}
		}
	}
	if !found {
		t.Error("expected session cookie on response")
	}

	// The session must be persisted.
	if _, err := store.Get(context.Background(), id); err != nil {
		t.Errorf("expected persisted session, got %v", err)
	}

	// A second Ensure on the same context returns the same session.
	_, id2, err := Ensure(c, store, time.Minute)
	if err != nil {
		t.Fatalf("second Ensure: %v", err)
	}
	if id2 != id {
		t.Errorf("expected same session ID, got %q and %q", id, id2)
	}
}
