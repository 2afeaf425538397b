package handler

import (
	"errors"

	"pdv-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	notificationService service.NotificationService
}

func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// GetNotifications lists the authenticated user's unread notifications
// GET /api/v1/notifications
func (h *NotificationHandler) GetNotifications(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	notifications, unread, err := h.notificationService.ListUnread(actor.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"notifications": notifications, "unread_count": unread})
}

// MarkRead marks one notification read and returns the remaining count
// POST /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid notification ID"})
	}

	remaining, err := h.notificationService.MarkRead(id, actorFromCtx(c).ID)
	if err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"unread_count": remaining})
}

// MarkAllRead clears the authenticated user's unread notifications
// POST /api/v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	if err := h.notificationService.MarkAllRead(actorFromCtx(c).ID); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "All notifications marked as read"})
}
