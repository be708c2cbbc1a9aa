package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/garage-scheduler/internal/api/dto"
	"github.com/spec-kit/garage-scheduler/internal/auth"
	"github.com/spec-kit/garage-scheduler/internal/domain"
	"github.com/spec-kit/garage-scheduler/internal/service"
	apperrors "github.com/spec-kit/garage-scheduler/pkg/util"
)

// AppointmentsHandler manages the appointment lifecycle endpoints.
type AppointmentsHandler struct {
	appointments *service.AppointmentService
	assignment   *service.AssignmentService
}

// NewAppointmentsHandler constructs handler.
func NewAppointmentsHandler(appointments *service.AppointmentService, assignment *service.AssignmentService) *AppointmentsHandler {
	return &AppointmentsHandler{appointments: appointments, assignment: assignment}
}

// BookForm handles GET /appointments/book. The form is public; submission
// requires authentication.
func (h *AppointmentsHandler) BookForm(c *fiber.Ctx) error {
	payload := fiber.Map{"page": "book"}
	if principal, ok := auth.PrincipalFromContext(c); ok {
		payload["user"] = dto.NewUserResponse(principal.User)
	}
	return c.JSON(payload)
}

// Book handles POST /appointments/book.
func (h *AppointmentsHandler) Book(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.BookAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	appt, err := h.appointments.Book(c.Context(), principal.User, service.BookingInput{
		VehicleNumber: req.VehicleNumber,
		ServiceType:   req.ServiceType,
		Date:          req.Date,
		Time:          req.Time,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data":        dto.NewAppointmentResponse(appt),
		"redirect_to": "/appointments/my",
	})
}

// My handles GET /appointments/my.
func (h *AppointmentsHandler) My(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	appts, err := h.appointments.ListMine(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAppointmentResponses(appts)})
}

// ListAll handles GET /appointments/list (admin): every appointment with
// identities resolved, plus the mechanics for the assignment dropdown.
func (h *AppointmentsHandler) ListAll(c *fiber.Ctx) error {
	appts, err := h.appointments.ListAll(c.Context())
	if err != nil {
		return err
	}
	mechanics, err := h.appointments.Mechanics(c.Context())
	if err != nil {
		return err
	}
	mechanicItems := make([]dto.UserResponse, 0, len(mechanics))
	for i := range mechanics {
		mechanicItems = append(mechanicItems, dto.NewUserResponse(&mechanics[i]))
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"appointments": dto.NewAppointmentDetailResponses(appts),
		"mechanics":    mechanicItems,
	}})
}

// Assign handles POST /appointments/admin/:id/assign.
func (h *AppointmentsHandler) Assign(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.MechanicID == "" {
		return apperrors.NewValidationError("mechanic_id required", nil)
	}

	appt, err := h.appointments.Assign(c.Context(), c.Params("id"), req.MechanicID, principal.User)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":        dto.NewAppointmentResponse(appt),
		"redirect_to": "/appointments/assigned",
	})
}

// MechanicAppointments handles GET /appointments/mechanic/appointments.
func (h *AppointmentsHandler) MechanicAppointments(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	appts, err := h.appointments.ListForMechanic(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAppointmentResponses(appts)})
}

// Complete handles POST /appointments/mechanic/appointments/:id/complete.
func (h *AppointmentsHandler) Complete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	appt, err := h.appointments.Complete(c.Context(), c.Params("id"), principal.User)
	if err != nil {
		return err
	}

	redirect := "/appointments/mechanic/appointments"
	if principal.User.Role == domain.RoleAdmin {
		redirect = "/appointments/assigned"
	}
	return c.JSON(fiber.Map{
		"data":        dto.NewAppointmentResponse(appt),
		"redirect_to": redirect,
	})
}

// Assigned handles GET /appointments/assigned (admin).
func (h *AppointmentsHandler) Assigned(c *fiber.Ctx) error {
	appts, err := h.appointments.ListAssigned(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAppointmentDetailResponses(appts)})
}

// Edit handles POST /appointments/:id/edit (admin status overwrite).
func (h *AppointmentsHandler) Edit(c *fiber.Ctx) error {
	var req dto.EditStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	appt, err := h.appointments.Edit(c.Context(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":        dto.NewAppointmentResponse(appt),
		"redirect_to": "/appointments/assigned",
	})
}

// Delete handles POST /appointments/:id/delete (admin hard delete).
func (h *AppointmentsHandler) Delete(c *fiber.Ctx) error {
	if err := h.appointments.Remove(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":        fiber.Map{"message": "appointment deleted"},
		"redirect_to": "/appointments/list",
	})
}

// History handles GET /appointments/mechanic/history.
func (h *AppointmentsHandler) History(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	appts, err := h.appointments.History(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAppointmentResponses(appts)})
}

// Suggest handles GET /appointments/admin/suggest (admin helper; not wired
// into booking).
func (h *AppointmentsHandler) Suggest(c *fiber.Ctx) error {
	mechanic, err := h.assignment.SuggestMechanic(c.Context(),
		c.Query("service_type"), c.Query("date"), c.Query("time"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(mechanic)})
}
