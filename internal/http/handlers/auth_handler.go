package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "delice/internal/log"
	"delice/internal/services"
	"delice/internal/store"
	"delice/internal/validate"
)

type AuthHandler struct {
	Auth    *services.AuthService
	Session *store.Session
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in credentials
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	email, ok := validate.Email(in.Email)
	if !ok || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "email and password required"})
	}
	sess, err := h.Auth.Login(c.Context(), email, in.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": email})
		return fail(c, err)
	}
	applog.Audit(c, "auth.login", map[string]any{"email": email})
	return c.JSON(fiber.Map{"user": sess.User})
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var in credentials
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	email, ok := validate.Email(in.Email)
	if !ok || !validate.Password(in.Password) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "valid email and password (8+ chars) required"})
	}
	sess, err := h.Auth.Signup(c.Context(), email, in.Password)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "auth.signup", map[string]any{"email": email})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": sess.User})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.Auth.Logout(c.Context(), h.Session.Token())
	applog.Audit(c, "auth.logout", nil)
	return c.JSON(fiber.Map{"ok": true})
}

// Me reports the mirrored session identity.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	if !h.Session.SignedIn() {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "login required"})
	}
	return c.JSON(fiber.Map{"user": h.Session.User()})
}
