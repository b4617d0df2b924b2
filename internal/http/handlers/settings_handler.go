package handlers

import (
	"github.com/gofiber/fiber/v2"

	"delice/internal/domain"
	applog "delice/internal/log"
	"delice/internal/services"
	"delice/internal/store"
)

type SettingsHandler struct {
	Settings *services.SettingsService
	Session  *store.Session
}

func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	v, err := h.Settings.Fetch(c.Context(), h.Session.Token())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(v)
}

func (h *SettingsHandler) Save(c *fiber.Ctx) error {
	var in domain.Settings
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	saved, err := h.Settings.Save(c.Context(), h.Session.Token(), in)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "settings.save", nil)
	return c.JSON(saved)
}
