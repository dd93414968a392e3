package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/saathi/saathi-backend/internal/auth"
)

const childIDKey = "child_id"

// ChildAuth requires a valid child session token and stores the child id
// on the request context.
func ChildAuth(jwtService *auth.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearer(c.Get("Authorization"))
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  fiber.StatusUnauthorized,
				"message": "Missing session token",
			})
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  fiber.StatusUnauthorized,
				"message": "Invalid session token",
			})
		}

		c.Locals(childIDKey, claims.ChildID)
		return c.Next()
	}
}

// OptionalChildAuth stores the child id when a valid token is present but
// lets the request through either way. Parent-facing task routes fall
// back to an explicit child_id parameter.
func OptionalChildAuth(jwtService *auth.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := extractBearer(c.Get("Authorization")); token != "" {
			if claims, err := jwtService.ValidateToken(token); err == nil {
				c.Locals(childIDKey, claims.ChildID)
			}
		}
		return c.Next()
	}
}

// ChildID returns the authenticated child id, falling back to the
// child_id query parameter for parent-scoped calls.
func ChildID(c *fiber.Ctx) string {
	if id, ok := c.Locals(childIDKey).(string); ok && id != "" {
		return id
	}
	return c.Query("child_id")
}

func extractBearer(header string) string {
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
