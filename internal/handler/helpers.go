package handler

import (
	"pdv-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// actorFromCtx rebuilds the acting user from the locals set by the auth
// middleware.
func actorFromCtx(c *fiber.Ctx) service.Actor {
	actor := service.Actor{
		IPAddress: c.IP(),
		UserAgent: c.Get("User-Agent"),
	}
	if raw, ok := c.Locals("user_id").(string); ok {
		if id, err := uuid.Parse(raw); err == nil {
			actor.ID = id
		}
	}
	if name, ok := c.Locals("user_name").(string); ok {
		actor.Name = name
	}
	if email, ok := c.Locals("user_email").(string); ok {
		actor.Email = email
	}
	if role, ok := c.Locals("user_role").(string); ok {
		actor.Role = role
	}
	return actor
}

// idParam parses the :id route parameter as a UUID.
func idParam(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}
