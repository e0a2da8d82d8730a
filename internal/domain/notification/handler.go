package notification

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hivcare/hivcare/internal/platform/auth"
	"github.com/hivcare/hivcare/internal/platform/session"
)

const (
	msgNotifNotFound = "Không tìm thấy thông báo"
	msgServerError   = "Đã xảy ra lỗi hệ thống"
)

type Handler struct {
	svc        *Service
	sessions   session.Store
	sessionTTL time.Duration
	logger     zerolog.Logger
}

func NewHandler(svc *Service, sessions session.Store, sessionTTL time.Duration, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, sessions: sessions, sessionTTL: sessionTTL, logger: logger}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.Use(auth.RequireAuth())
	g.GET("", h.List)
	g.POST("/:id/read", h.MarkRead)
	g.POST("/read-all", h.MarkAllRead)
}

func (h *Handler) userID(c echo.Context) (uuid.UUID, error) {
	ident := auth.FromContext(c)
	if ident == nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "Chưa đăng nhập")
	}
	id, err := uuid.Parse(ident.UserID)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "Chưa đăng nhập")
	}
	return id, nil
}

func (h *Handler) List(c echo.Context) error {
	userID, err := h.userID(c)
	if err != nil {
		return err
	}
	items, err := h.svc.List(c.Request().Context(), userID, session.FromContext(c))
	if err != nil {
		h.logger.Error().Err(err).Msg("listing notifications failed")
		return echo.NewHTTPError(http.StatusInternalServerError, msgServerError)
	}
	if items == nil {
		items = []*Notification{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":       true,
		"notifications": items,
	})
}

func (h *Handler) MarkRead(c echo.Context) error {
	userID, err := h.userID(c)
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgNotifNotFound)
	}

	// Bearer-only callers get a session created here so the read list has
	// somewhere to live.
	sess, sid, err := session.Ensure(c, h.sessions, h.sessionTTL)
	if err != nil {
		h.logger.Error().Err(err).Msg("creating session failed")
		return echo.NewHTTPError(http.StatusInternalServerError, msgServerError)
	}

	changed, err := h.svc.MarkRead(c.Request().Context(), userID, id, sess)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, msgNotifNotFound)
		}
		h.logger.Error().Err(err).Msg("marking notification failed")
		return echo.NewHTTPError(http.StatusInternalServerError, msgServerError)
	}
	if changed {
		if err := h.sessions.Save(c.Request().Context(), sid, sess, h.sessionTTL); err != nil {
			h.logger.Error().Err(err).Msg("saving session failed")
			return echo.NewHTTPError(http.StatusInternalServerError, msgServerError)
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}

func (h *Handler) MarkAllRead(c echo.Context) error {
	userID, err := h.userID(c)
	if err != nil {
		return err
	}
	sess, sid, err := session.Ensure(c, h.sessions, h.sessionTTL)
	if err != nil {
		h.logger.Error().Err(err).Msg("creating session failed")
		return echo.NewHTTPError(http.StatusInternalServerError, msgServerError)
	}

	changed, err := h.svc.MarkAllRead(c.Request().Context(), userID, sess)
	if err != nil {
		h.logger.Error().Err(err).Msg("marking notifications failed")
		return echo.NewHTTPError(http.StatusInternalServerError, msgServerError)
	}
	if changed {
		if err := h.sessions.Save(c.Request().Context(), sid, sess, h.sessionTTL); err != nil {
			h.logger.Error().Err(err).Msg("saving session failed")
			return echo.NewHTTPError(http.StatusInternalServerError, msgServerError)
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}
