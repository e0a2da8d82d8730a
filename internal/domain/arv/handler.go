package arv

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hivcare/hivcare/internal/platform/auth"
)

const (
	msgRegimenNotFound = "Không tìm thấy phác đồ ARV"
	msgNoActiveRegimen = "Bệnh nhân chưa có phác đồ đang điều trị"
	msgBadPatientID    = "Mã bệnh nhân không hợp lệ"
	msgServerError     = "Đã xảy ra lỗi hệ thống"
)

type Handler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHandler(svc *Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/regimens", h.Catalog)
	g.POST("/patients/:id/regimens", h.Assign, auth.RequireAuth())
	g.GET("/patients/:id/regimens", h.History, auth.RequireAuth())
	g.POST("/patients/:id/regimens/stop", h.Stop, auth.RequireAuth())
}

func (h *Handler) Catalog(c echo.Context) error {
	regimens, err := h.svc.Catalog(c.Request().Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("listing regimens failed")
		return echo.NewHTTPError(http.StatusInternalServerError, msgServerError)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"regimens": regimens,
	})
}

func (h *Handler) Assign(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgBadPatientID)
	}
	var req AssignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	regimenID, err := uuid.Parse(req.RegimenID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgRegimenNotFound)
	}

	pr, err := h.svc.Assign(c.Request().Context(), userID, regimenID)
	if err != nil {
		if errors.Is(err, ErrRegimenNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, msgRegimenNotFound)
		}
		h.logger.Error().Err(err).Msg("assigning regimen failed")
		return echo.NewHTTPError(http.StatusInternalServerError, msgServerError)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success": true,
		"regimen": pr,
	})
}

func (h *Handler) History(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgBadPatientID)
	}
	items, err := h.svc.History(c.Request().Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("listing regimen history failed")
		return echo.NewHTTPError(http.StatusInternalServerError, msgServerError)
	}
	if items == nil {
		items = []*PatientRegimen{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"regimens": items,
	})
}

func (h *Handler) Stop(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgBadPatientID)
	}
	pr, err := h.svc.Stop(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNoActiveRegimen) {
			return echo.NewHTTPError(http.StatusNotFound, msgNoActiveRegimen)
		}
		h.logger.Error().Err(err).Msg("stopping regimen failed")
		return echo.NewHTTPError(http.StatusInternalServerError, msgServerError)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"regimen": pr,
	})
}
