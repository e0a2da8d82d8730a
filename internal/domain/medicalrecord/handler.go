package medicalrecord

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hivcare/hivcare/internal/platform/auth"
)

const msgServerError = "Đã xảy ra lỗi hệ thống"

type Handler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHandler(svc *Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/mine", h.Mine, auth.RequireAuth())
}

func (h *Handler) Mine(c echo.Context) error {
	ident := auth.FromContext(c)
	userID, err := uuid.Parse(ident.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Chưa đăng nhập")
	}

	records, err := h.svc.RecordsFor(c.Request().Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("loading medical records failed")
		return echo.NewHTTPError(http.StatusInternalServerError, msgServerError)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"records": records,
	})
}
