package middleware

import (
	"strings"

	"pdv-backend/internal/model"
	"pdv-backend/internal/repository"
	"pdv-backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth validates the bearer token, checks the session against
// the database and sets user info in the request context. Accounts
// with the CUSTOMER role are turned away here: customers have no
// access to any page of the system.
func RequireAuth(userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := jwt.ValidateToken(parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "User not found"})
		}

		if !user.IsActive {
			return c.Status(401).JSON(fiber.Map{"error": "User account is inactive"})
		}

		if user.TokenVersion != claims.TokenVersion {
			return c.Status(401).JSON(fiber.Map{"error": "Session expired (logged in on another device)"})
		}

		if user.Role == model.RoleCustomer {
			return c.Status(403).JSON(fiber.Map{"error": "Clients have no system access. Contact the administrator."})
		}

		c.Locals("user_id", user.ID.String())
		c.Locals("user_email", user.Email)
		c.Locals("user_name", user.FullName)
		c.Locals("user_role", user.Role)

		return c.Next()
	}
}

// RequireRole checks the authenticated user's role against a static
// allow list. Pages not listed for a role are out of reach for it.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("user_role").(string)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No role found"})
		}

		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}

		return c.Status(403).JSON(fiber.Map{
			"error": "Insufficient permission: requires one of " + strings.Join(roles, ", "),
		})
	}
}
