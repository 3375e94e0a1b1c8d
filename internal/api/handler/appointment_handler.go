package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/visioncare/clinic-system/internal/core/domain"
	"github.com/visioncare/clinic-system/internal/core/ports"
)

// AppointmentHandler handles HTTP requests for appointments.
type AppointmentHandler struct {
	service ports.PatientService
}

func NewAppointmentHandler(service ports.PatientService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

type scheduleAppointmentRequest struct {
	PatientEmail     string    `json:"patient_email"     validate:"required,email"`
	OptometristEmail string    `json:"optometrist_email" validate:"required,email"`
	ScheduledAt      time.Time `json:"scheduled_at"      validate:"required"`
	Reason           string    `json:"reason,omitempty"`
}

type updateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=completed cancelled"`
}

// Schedule handles POST /appointments.
//
// @Summary      Schedule an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      scheduleAppointmentRequest  true  "Appointment details"
// @Success      201   {object}  domain.Appointment
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /appointments [post]
func (h *AppointmentHandler) Schedule(c echo.Context) error {
	var req scheduleAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	appointment, err := h.service.ScheduleAppointment(c.Request().Context(), ports.ScheduleAppointmentInput{
		PatientEmail:     req.PatientEmail,
		OptometristEmail: req.OptometristEmail,
		ScheduledAt:      req.ScheduledAt,
		Reason:           req.Reason,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, appointment)
}

// List handles GET /appointments?patient=<email>.
//
// @Summary      List a patient's appointments
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        patient  query     string  true  "Patient email"
// @Success      200      {array}   domain.Appointment
// @Failure      400      {object}  errorResponse
// @Router       /appointments [get]
func (h *AppointmentHandler) List(c echo.Context) error {
	patient := c.QueryParam("patient")
	if patient == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "patient query parameter is required"})
	}

	appointments, err := h.service.ListAppointments(c.Request().Context(), patient)
	if err != nil {
		return err
	}
	if appointments == nil {
		appointments = []*domain.Appointment{}
	}
	return c.JSON(http.StatusOK, appointments)
}

// UpdateStatus handles PATCH /appointments/:id/status.
//
// @Summary      Complete or cancel an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                          true  "Appointment id"
// @Param        body  body      updateAppointmentStatusRequest  true  "Target status"
// @Success      200   {object}  domain.Appointment
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /appointments/{id}/status [patch]
func (h *AppointmentHandler) UpdateStatus(c echo.Context) error {
	var req updateAppointmentStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	appointment, err := h.service.UpdateAppointmentStatus(
		c.Request().Context(),
		c.Param("id"),
		domain.AppointmentStatus(req.Status),
	)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, appointment)
}
