package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hivcare/hivcare/internal/platform/session"
)

// Identity is the authenticated caller resolved from either a bearer token
// or the session cookie.
type Identity struct {
	UserID   string
	Username string
	FullName string
	RoleID   int
}

const ctxIdentityKey = "identity"

// Middleware resolves the caller's identity without requiring one. A valid
// bearer token wins; otherwise a logged-in session is used. Anonymous
// requests pass through — booking does not require an account.
//
// The session middleware must run before this one.
func Middleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if ident := resolveIdentity(c, secret); ident != nil {
				c.Set(ctxIdentityKey, ident)
				c.Set("user_id", ident.UserID)
			}
			return next(c)
		}
	}
}

// RequireAuth rejects requests that carry no resolved identity.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if FromContext(c) == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Chưa đăng nhập")
			}
			return next(c)
		}
	}
}

// FromContext returns the identity resolved by Middleware, or nil.
func FromContext(c echo.Context) *Identity {
	ident, _ := c.Get(ctxIdentityKey).(*Identity)
	return ident
}

func resolveIdentity(c echo.Context, secret []byte) *Identity {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			if claims, err := ParseToken(secret, parts[1]); err == nil {
				return &Identity{
					UserID:   claims.Subject,
					Username: claims.Username,
					FullName: claims.FullName,
					RoleID:   claims.RoleID,
				}
			}
		}
		// A malformed or expired token falls through to the session
		// channel rather than failing the request.
	}

	if sess := session.FromContext(c); sess.IsAuthenticated() {
		return &Identity{
			UserID:   sess.UserID,
			Username: sess.Username,
			FullName: sess.FullName,
			RoleID:   sess.RoleID,
		}
	}

	return nil
}
