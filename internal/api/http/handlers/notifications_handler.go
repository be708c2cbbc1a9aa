package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/garage-scheduler/internal/api/dto"
	"github.com/spec-kit/garage-scheduler/internal/auth"
	"github.com/spec-kit/garage-scheduler/internal/service"
	apperrors "github.com/spec-kit/garage-scheduler/pkg/util"
)

// NotificationsHandler serves per-user notifications.
type NotificationsHandler struct {
	notifications *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notifications *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{notifications: notifications}
}

// List handles GET /notifications.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	notes, err := h.notifications.ListAll(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewNotificationResponses(notes)})
}

// Unread handles GET /notifications/unread, backing the navbar badge.
func (h *NotificationsHandler) Unread(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	notes, err := h.notifications.ListUnread(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	count, err := h.notifications.UnreadCount(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"count": count,
		"items": dto.NewNotificationResponses(notes),
	}})
}
