package controller

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"realty_gateway/internal/middleware"
	"realty_gateway/pkg/config"
	"realty_gateway/pkg/utils/jwt"
)

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthController logs in the single configured admin.
type AuthController struct {
	admin  config.AdminConfig
	tokens *jwt.Manager
	log    *slog.Logger
}

func NewAuthController(admin config.AdminConfig, tokens *jwt.Manager, log *slog.Logger) *AuthController {
	return &AuthController{admin: admin, tokens: tokens, log: log}
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	input := new(LoginInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if ac.admin.Email == "" || ac.admin.PasswordHash == "" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Admin login is not configured",
		})
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email != strings.ToLower(ac.admin.Email) ||
		bcrypt.CompareHashAndPassword([]byte(ac.admin.PasswordHash), []byte(input.Password)) != nil {
		ac.log.Warn("Failed admin login", "email", email, "ip", c.IP())
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	token, expiresAt, err := ac.tokens.GenerateToken(ac.admin.Email)
	if err != nil {
		ac.log.Error("Could not generate token", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not generate token",
		})
	}

	return c.JSON(fiber.Map{
		"token":      token,
		"expires_at": expiresAt,
	})
}

// Me returns the authenticated admin.
func (ac *AuthController) Me(c *fiber.Ctx) error {
	claims, ok := c.Locals(middleware.LocalsAdmin).(*jwt.Claims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}
	return c.JSON(fiber.Map{
		"email": claims.Email,
		"role":  claims.Role,
	})
}
