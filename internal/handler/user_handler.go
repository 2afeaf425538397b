package handler

import (
	"errors"
	"strconv"

	"pdv-backend/internal/model"
	"pdv-backend/internal/repository"
	"pdv-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type UserHandler struct {
	userService  service.UserService
	auditService service.AuditService
}

func NewUserHandler(userService service.UserService, auditService service.AuditService) *UserHandler {
	return &UserHandler{userService: userService, auditService: auditService}
}

// UploadAvatar stores the caller's own profile picture
// POST /api/v1/auth/avatar
func (h *UserHandler) UploadAvatar(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	file, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "avatar file is required"})
	}

	path, err := saveUpload(c, file, "avatars", allowedImageExts)
	if err != nil {
		if errors.Is(err, errBadFileType) {
			return c.Status(400).JSON(fiber.Map{"error": "Use JPG, JPEG, PNG or WEBP"})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	user, err := h.userService.SetAvatar(actor.ID, path)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(user.ToResponse())
}

// GetUsers lists all accounts
// GET /api/v1/users
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.userService.GetUsers()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	responses := make([]model.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, user.ToResponse())
	}
	return c.JSON(fiber.Map{"users": responses, "count": len(responses)})
}

// GetUser returns a single account
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	user, err := h.userService.GetUser(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(user.ToResponse())
}

// CreateUser registers an account
// POST /api/v1/users
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req service.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	user, err := h.userService.CreateUser(&req, actorFromCtx(c))
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) || errors.Is(err, service.ErrUserCPFTaken) {
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(user.ToResponse())
}

// UpdateUser edits an account
// PUT /api/v1/users/:id
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var req service.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	user, err := h.userService.UpdateUser(id, &req, actorFromCtx(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrUserCPFTaken):
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(user.ToResponse())
}

// DeleteUser soft-deletes an account
// DELETE /api/v1/users/:id
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	if err := h.userService.DeleteUser(id, actorFromCtx(c)); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrSelfDeletion):
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "User removed successfully"})
}

// GetAuditLog lists the audit trail
// GET /api/v1/audit?action=&user_id=&limit=
func (h *UserHandler) GetAuditLog(c *fiber.Ctx) error {
	filter := repository.AuditFilter{Action: c.Query("action")}

	if raw := c.Query("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid user_id"})
		}
		filter.UserID = &id
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 || limit > 1000 {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid limit, use 1-1000"})
		}
		filter.Limit = limit
	}

	entries, err := h.auditService.ListEntries(filter)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"entries": entries, "count": len(entries)})
}
