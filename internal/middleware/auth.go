package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"realty_gateway/pkg/utils/jwt"
)

// LocalsAdmin is the fiber locals key holding *jwt.Claims.
const LocalsAdmin = "admin"

// AuthMiddleware requires a valid admin bearer token.
func AuthMiddleware(tokens *jwt.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization token",
			})
		}

		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(LocalsAdmin, claims)
		return c.Next()
	}
}
