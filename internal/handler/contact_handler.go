package handler

import (
	"pdv-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ContactHandler struct {
	contactService service.ContactService
}

func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// SubmitMessage receives a message from the public contact form
// POST /api/v1/contact
func (h *ContactHandler) SubmitMessage(c *fiber.Ctx) error {
	var req service.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	message, err := h.contactService.SubmitMessage(&req)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{
		"message": "Mensagem enviada com sucesso",
		"contact": message,
	})
}

// GetMessages lists stored contact messages
// GET /api/v1/contact
func (h *ContactHandler) GetMessages(c *fiber.Ctx) error {
	messages, err := h.contactService.GetMessages()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"messages": messages, "count": len(messages)})
}

// MarkRead flags a contact message as handled
// POST /api/v1/contact/:id/read
func (h *ContactHandler) MarkRead(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid message ID"})
	}

	if err := h.contactService.MarkRead(id); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Message marked as read"})
}
