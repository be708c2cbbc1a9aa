package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/garage-scheduler/internal/api/dto"
	"github.com/spec-kit/garage-scheduler/internal/auth"
	"github.com/spec-kit/garage-scheduler/internal/domain"
	"github.com/spec-kit/garage-scheduler/internal/service"
	"github.com/spec-kit/garage-scheduler/internal/storage"
	apperrors "github.com/spec-kit/garage-scheduler/pkg/util"
)

// DashboardHandler serves the role-specific dashboard and profile pages.
type DashboardHandler struct {
	auth          *service.AuthService
	appointments  *service.AppointmentService
	notifications *service.NotificationService
	uploads       *storage.UploadStore
	cookieName    string
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(authService *service.AuthService, appointments *service.AppointmentService, notifications *service.NotificationService, uploads *storage.UploadStore, cookieName string) *DashboardHandler {
	return &DashboardHandler{
		auth:          authService,
		appointments:  appointments,
		notifications: notifications,
		uploads:       uploads,
		cookieName:    cookieName,
	}
}

// Dashboard handles GET /dashboard with a role-specific payload.
func (h *DashboardHandler) Dashboard(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	user := principal.User

	unread, err := h.notifications.UnreadCount(c.Context(), user.ID)
	if err != nil {
		return err
	}

	payload := fiber.Map{
		"user":   dto.NewUserResponse(user),
		"unread": unread,
	}

	switch user.Role {
	case domain.RoleCustomer:
		appts, err := h.appointments.ListMine(c.Context(), user.ID)
		if err != nil {
			return err
		}
		payload["appointments"] = dto.NewAppointmentResponses(appts)
	case domain.RoleMechanic:
		appts, err := h.appointments.ListForMechanic(c.Context(), user.ID)
		if err != nil {
			return err
		}
		payload["appointments"] = dto.NewAppointmentResponses(appts)
	case domain.RoleAdmin:
		appts, err := h.appointments.ListAll(c.Context())
		if err != nil {
			return err
		}
		payload["appointments"] = dto.NewAppointmentDetailResponses(appts)
	}

	return c.JSON(fiber.Map{"data": payload})
}

// Profile handles GET /dashboard/profile.
func (h *DashboardHandler) Profile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(principal.User)})
}

// UpdateProfile handles POST /dashboard/profile with an optional image.
func (h *DashboardHandler) UpdateProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	profileImage := ""
	if file, err := c.FormFile(profileImageField); err == nil && file != nil {
		name, err := h.uploads.SaveProfileImage(file)
		if err != nil {
			return apperrors.MapError(err)
		}
		profileImage = name
	}

	user, err := h.auth.UpdateProfile(c.Context(), principal.User.ID, req.Name, profileImage)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// ChangePassword handles POST /dashboard/profile/change-password.
func (h *DashboardHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.auth.ChangePassword(c.Context(), principal.User.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "password updated"}})
}

// DeleteAccount handles POST /dashboard/profile/delete. The session cookie
// is cleared alongside the record; any copy of the token dies on the next
// request when the account lookup fails.
func (h *DashboardHandler) DeleteAccount(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	if err := h.auth.DeleteAccount(c.Context(), principal.User.ID); err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Path:     "/",
	})
	return c.Redirect("/register", http.StatusFound)
}
