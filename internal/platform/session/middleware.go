package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// CookieName is the session cookie issued to browsers.
const CookieName = "hivcare_session"

const (
	ctxSessionKey   = "session"
	ctxSessionIDKey = "session_id"
)

// Middleware loads the session referenced by the request cookie, if any,
// and exposes it on the echo context. It never creates sessions; handlers
// that need one call Ensure.
func Middleware(store Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(CookieName)
			if err == nil && cookie.Value != "" {
				sess, getErr := store.Get(c.Request().Context(), cookie.Value)
				if getErr == nil {
					c.Set(ctxSessionKey, sess)
					c.Set(ctxSessionIDKey, cookie.Value)
				}
			}
			return next(c)
		}
	}
}

// FromContext returns the session loaded by Middleware, or nil.
func FromContext(c echo.Context) *Session {
	sess, _ := c.Get(ctxSessionKey).(*Session)
	return sess
}

// IDFromContext returns the session ID loaded by Middleware, or "".
func IDFromContext(c echo.Context) string {
	id, _ := c.Get(ctxSessionIDKey).(string)
	return id
}

// Ensure returns the request's session, creating and persisting a fresh one
// (and setting the cookie) when none exists yet.
func Ensure(c echo.Context, store Store, ttl time.Duration) (*Session, string, error) {
	if sess := FromContext(c); sess != nil {
		return sess, IDFromContext(c), nil
	}

	id := uuid.NewString()
	sess := &Session{CreatedAt: time.Now().UTC()}
	if err := store.Save(c.Request().Context(), id, sess, ttl); err != nil {
		return nil, "", err
	}

	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl / time.Second),
	})
	c.Set(ctxSessionKey, sess)
	c.Set(ctxSessionIDKey, id)

	return sess, id, nil
}
