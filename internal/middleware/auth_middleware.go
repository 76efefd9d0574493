package middleware

import (
	"strings"

	"go-staff-permissions/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth is middleware that validates JWT token and sets staff info in context
func RequireAuth(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := jwt.ValidateToken(secret, parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		c.Locals("staff_id", claims.StaffID.String())
		c.Locals("staff_email", claims.Email)
		c.Locals("staff_name", claims.Name)
		c.Locals("staff_permissions", claims.Permissions)

		return c.Next()
	}
}

// RequirePermission checks if the authenticated staff member holds the named permission
func RequirePermission(required string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		permissions, ok := c.Locals("staff_permissions").([]string)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No permissions found"})
		}

		for _, p := range permissions {
			if p == required {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden: requires '" + required + "' permission",
		})
	}
}

// RequireAnyPermission checks if the staff member holds at least one of the named permissions
func RequireAnyPermission(required ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		permissions, ok := c.Locals("staff_permissions").([]string)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No permissions found"})
		}

		for _, held := range permissions {
			for _, req := range required {
				if held == req {
					return c.Next()
				}
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden: requires one of " + strings.Join(required, ", ") + " permissions",
		})
	}
}
