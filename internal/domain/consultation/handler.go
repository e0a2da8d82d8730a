package consultation

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hivcare/hivcare/internal/domain/appointment"
	"github.com/hivcare/hivcare/internal/platform/auth"
)

const (
	msgDoctorNotFound    = "Không tìm thấy bác sĩ"
	msgDoctorUnavailable = "Bác sĩ hiện không nhận lịch hẹn"
	msgBadBookingTime    = "Ngày hoặc giờ hẹn không hợp lệ"
	msgMissingContact    = "Vui lòng cung cấp số điện thoại hoặc email"
	msgServerError       = "Đã xảy ra lỗi hệ thống"
)

type Handler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHandler(svc *Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.Book)
	g.GET("/lookup", h.Lookup)
}

func (h *Handler) Book(c echo.Context) error {
	var req appointment.CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var createdBy *uuid.UUID
	if ident := auth.FromContext(c); ident != nil {
		if id, err := uuid.Parse(ident.UserID); err == nil {
			createdBy = &id
		}
	}

	res, dup, err := h.svc.Book(c.Request().Context(), req, createdBy)
	if err != nil {
		switch {
		case errors.Is(err, appointment.ErrDuplicate):
			return c.JSON(http.StatusConflict, map[string]interface{}{
				"success":   false,
				"duplicate": dup,
				"message":   dup.Message,
			})
		case errors.Is(err, appointment.ErrDoctorNotFound):
			return echo.NewHTTPError(http.StatusNotFound, msgDoctorNotFound)
		case errors.Is(err, appointment.ErrDoctorUnavailable):
			return echo.NewHTTPError(http.StatusBadRequest, msgDoctorUnavailable)
		case errors.Is(err, appointment.ErrInvalidDate),
			errors.Is(err, appointment.ErrInvalidTime),
			errors.Is(err, appointment.ErrPastDate),
			errors.Is(err, appointment.ErrWeekend):
			return echo.NewHTTPError(http.StatusBadRequest, msgBadBookingTime)
		default:
			h.logger.Error().Err(err).Msg("booking consultation failed")
			return echo.NewHTTPError(http.StatusInternalServerError, msgServerError)
		}
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) Lookup(c echo.Context) error {
	phone := c.QueryParam("phone")
	email := c.QueryParam("email")
	if phone == "" && email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, msgMissingContact)
	}

	items, err := h.svc.Lookup(c.Request().Context(), phone, email)
	if err != nil {
		h.logger.Error().Err(err).Msg("consultation lookup failed")
		return echo.NewHTTPError(http.StatusInternalServerError, msgServerError)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":       true,
		"consultations": items,
	})
}
