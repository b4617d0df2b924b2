package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "delice/internal/log"
	"delice/internal/store"
)

// RequireUser gates routes behind an active session.
func RequireUser(session *store.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !session.SignedIn() {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "login required"})
		}
		return c.Next()
	}
}

// RequireAdmin gates the admin surface behind the admin role.
func RequireAdmin(session *store.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !session.SignedIn() {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "login required"})
		}
		if u := session.User(); !u.IsAdmin() {
			applog.Security(c, "access.denied.admin", map[string]any{"email": u.Email})
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin only"})
		}
		return c.Next()
	}
}
