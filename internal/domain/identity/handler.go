package identity

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hivcare/hivcare/internal/platform/auth"
	"github.com/hivcare/hivcare/internal/platform/session"
	"github.com/hivcare/hivcare/pkg/metrics"
)

const (
	msgBadCredentials = "Tên đăng nhập hoặc mật khẩu không đúng"
	msgUsernameTaken  = "Tên đăng nhập đã tồn tại"
	msgUserNotFound   = "Không tìm thấy người dùng"
	msgServerError    = "Đã xảy ra lỗi hệ thống"
)

type Handler struct {
	svc        *Service
	sessions   session.Store
	sessionTTL time.Duration
	jwtSecret  []byte
	col        *metrics.Collector
	logger     zerolog.Logger
}

func NewHandler(svc *Service, sessions session.Store, sessionTTL time.Duration, jwtSecret []byte, col *metrics.Collector, logger zerolog.Logger) *Handler {
	return &Handler{
		svc:        svc,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		jwtSecret:  jwtSecret,
		col:        col,
		logger:     logger,
	}
}

// countLogin records a login attempt by outcome ("success" or "failure").
func (h *Handler) countLogin(outcome string) {
	if h.col != nil {
		h.col.LoginAttemptsTotal.WithLabelValues(outcome).Inc()
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)
	g.GET("/profile/:id", h.GetProfile)
	g.PUT("/profile/:id", h.UpdateProfile)
}

func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	u, err := h.svc.Register(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return echo.NewHTTPError(http.StatusBadRequest, msgUsernameTaken)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success": true,
		"user":    u,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	u, err := h.svc.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			h.countLogin("failure")
			return echo.NewHTTPError(http.StatusUnauthorized, msgBadCredentials)
		}
		h.logger.Error().Err(err).Msg("login failed")
		return echo.NewHTTPError(http.StatusInternalServerError, msgServerError)
	}
	h.countLogin("success")

	token, err := auth.IssueToken(h.jwtSecret, u.ID.String(), u.Username, u.FullName, u.RoleID, h.sessionTTL)
	if err != nil {
		h.logger.Error().Err(err).Msg("issuing token failed")
		return echo.NewHTTPError(http.StatusInternalServerError, msgServerError)
	}

	// The session cookie is a second identity channel alongside the bearer
	// token; both carry the same user.
	sess, sid, err := session.Ensure(c, h.sessions, h.sessionTTL)
	if err != nil {
		h.logger.Error().Err(err).Msg("creating session failed")
		return echo.NewHTTPError(http.StatusInternalServerError, msgServerError)
	}
	sess.UserID = u.ID.String()
	sess.Username = u.Username
	sess.FullName = u.FullName
	sess.RoleID = u.RoleID
	if err := h.sessions.Save(c.Request().Context(), sid, sess, h.sessionTTL); err != nil {
		h.logger.Error().Err(err).Msg("saving session failed")
		return echo.NewHTTPError(http.StatusInternalServerError, msgServerError)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   token,
		"user":    u,
	})
}

func (h *Handler) Logout(c echo.Context) error {
	if sid := session.IDFromContext(c); sid != "" {
		if err := h.sessions.Delete(c.Request().Context(), sid); err != nil {
			h.logger.Warn().Err(err).Msg("deleting session failed")
		}
	}
	c.SetCookie(&http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}

func (h *Handler) GetProfile(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	u, err := h.svc.GetProfile(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, msgUserNotFound)
		}
		h.logger.Error().Err(err).Msg("get profile failed")
		return echo.NewHTTPError(http.StatusInternalServerError, msgServerError)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var upd ProfileUpdate
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	u, err := h.svc.UpdateProfile(c.Request().Context(), id, upd)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, msgUserNotFound)
		}
		h.logger.Error().Err(err).Msg("update profile failed")
		return echo.NewHTTPError(http.StatusInternalServerError, msgServerError)
	}
	return c.JSON(http.StatusOK, u)
}
