package appointment

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hivcare/hivcare/internal/platform/auth"
	"github.com/hivcare/hivcare/pkg/pagination"
)

const (
	msgDoctorNotFound    = "Không tìm thấy bác sĩ"
	msgDoctorUnavailable = "Bác sĩ hiện không nhận lịch hẹn"
	msgInvalidDate       = "Ngày không hợp lệ, định dạng đúng là YYYY-MM-DD"
	msgInvalidTime       = "Giờ không hợp lệ, định dạng đúng là HH:MM"
	msgApptNotFound      = "Không tìm thấy lịch hẹn"
	msgInvalidStatus     = "Trạng thái không hợp lệ"
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
	g.GET("/timeslots", h.Timeslots)
	g.GET("/doctors/available", h.AvailableDoctors)
	g.POST("", h.Create)
	g.POST("/validate", h.Validate)
	g.GET("/my-appointments", h.MyAppointments, auth.RequireAuth())
	g.PUT("/:id/status", h.UpdateStatus)
}

func (h *Handler) Timeslots(c echo.Context) error {
	res, err := h.svc.Timeslots(c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidDate)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) AvailableDoctors(c echo.Context) error {
	docs, err := h.svc.AvailableDoctors(c.Request().Context(),
		c.QueryParam("date"), c.QueryParam("time"), c.QueryParam("specialty"))
	if err != nil {
		if errors.Is(err, ErrInvalidDate) {
			return echo.NewHTTPError(http.StatusBadRequest, msgInvalidDate)
		}
		h.logger.Error().Err(err).Msg("listing available doctors failed")
		return echo.NewHTTPError(http.StatusInternalServerError, msgServerError)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"doctors": docs,
	})
}

// creator returns the authenticated user's id, or nil for anonymous calls.
func creator(c echo.Context) *uuid.UUID {
	ident := auth.FromContext(c)
	if ident == nil {
		return nil
	}
	id, err := uuid.Parse(ident.UserID)
	if err != nil {
		return nil
	}
	return &id
}

func (h *Handler) Create(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return h.create(c, req, TypeInPerson, nil)
}

// create is shared with the consultation handler, which books with
// type=online and a notes payload carrying the meeting link.
func (h *Handler) create(c echo.Context, req CreateRequest, apptType string, notes *string) error {
	res, dup, err := h.svc.Create(c.Request().Context(), req, creator(c), apptType, notes)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicate):
			return c.JSON(http.StatusConflict, map[string]interface{}{
				"success":   false,
				"duplicate": dup,
				"message":   dup.Message,
			})
		case errors.Is(err, ErrDoctorNotFound):
			return echo.NewHTTPError(http.StatusNotFound, msgDoctorNotFound)
		case errors.Is(err, ErrDoctorUnavailable):
			return echo.NewHTTPError(http.StatusBadRequest, msgDoctorUnavailable)
		case errors.Is(err, ErrInvalidDate):
			return echo.NewHTTPError(http.StatusBadRequest, msgInvalidDate)
		case errors.Is(err, ErrInvalidTime):
			return echo.NewHTTPError(http.StatusBadRequest, msgInvalidTime)
		case errors.Is(err, ErrPastDate):
			return echo.NewHTTPError(http.StatusBadRequest, msgPastDate)
		case errors.Is(err, ErrWeekend):
			return echo.NewHTTPError(http.StatusBadRequest, msgWeekend)
		default:
			h.logger.Error().Err(err).Msg("creating appointment failed")
			return echo.NewHTTPError(http.StatusInternalServerError, msgServerError)
		}
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) Validate(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	res, err := h.svc.Validate(c.Request().Context(), req, creator(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrDoctorNotFound):
			return echo.NewHTTPError(http.StatusNotFound, msgDoctorNotFound)
		case errors.Is(err, ErrInvalidDate):
			return echo.NewHTTPError(http.StatusBadRequest, msgInvalidDate)
		default:
			h.logger.Error().Err(err).Msg("validating appointment failed")
			return echo.NewHTTPError(http.StatusInternalServerError, msgServerError)
		}
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) MyAppointments(c echo.Context) error {
	id := creator(c)
	if id == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Chưa đăng nhập")
	}
	p := pagination.FromContext(c)
	items, total, err := h.svc.MyAppointments(c.Request().Context(), *id, p)
	if err != nil {
		h.logger.Error().Err(err).Msg("listing appointments failed")
		return echo.NewHTTPError(http.StatusInternalServerError, msgServerError)
	}
	if items == nil {
		items = []*Appointment{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgApptNotFound)
	}
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatus):
			return echo.NewHTTPError(http.StatusBadRequest, msgInvalidStatus)
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, msgApptNotFound)
		default:
			h.logger.Error().Err(err).Msg("updating appointment status failed")
			return echo.NewHTTPError(http.StatusInternalServerError, msgServerError)
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":     true,
		"appointment": a,
	})
}
