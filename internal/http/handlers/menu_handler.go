package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"

	applog "delice/internal/log"
	"delice/internal/domain"
	"delice/internal/services"
	"delice/internal/store"
	"delice/internal/validate"
)

type MenuHandler struct {
	Menu    *services.MenuService
	Session *store.Session
}

func (h *MenuHandler) List(c *fiber.Ctx) error {
	items, err := h.Menu.Menu(c.Context(), h.Session.Token())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}

// Refresh forces a refetch, bypassing the cache.
func (h *MenuHandler) Refresh(c *fiber.Ctx) error {
	items, err := h.Menu.Refresh(c.Context(), h.Session.Token())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}

type menuItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Category    string `json:"category"`
	Available   *bool  `json:"available"`
}

func (r menuItemRequest) toDomain(id string) (domain.MenuItem, string) {
	name, ok := validate.Name(r.Name)
	if !ok {
		return domain.MenuItem{}, "name required"
	}
	price, ok := validate.Price(r.Price)
	if !ok {
		return domain.MenuItem{}, "valid price required"
	}
	available := true
	if r.Available != nil {
		available = *r.Available
	}
	return domain.MenuItem{
		ID:          id,
		Name:        name,
		Description: r.Description,
		Price:       price,
		Category:    r.Category,
		Available:   available,
	}, ""
}

func (h *MenuHandler) Create(c *fiber.Ctx) error {
	var in menuItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	it, msg := in.toDomain("")
	if msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}
	saved, err := h.Menu.Add(c.Context(), h.Session.Token(), it)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "menu.create", map[string]any{"id": saved.ID, "name": saved.Name})
	return c.Status(fiber.StatusCreated).JSON(saved)
}

func (h *MenuHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing item id"})
	}
	var in menuItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	it, msg := in.toDomain(id)
	if msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}
	saved, err := h.Menu.Update(c.Context(), h.Session.Token(), it)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "menu.update", map[string]any{"id": id})
	return c.JSON(saved)
}

func (h *MenuHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing item id"})
	}
	if err := h.Menu.Delete(c.Context(), h.Session.Token(), id); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "menu.delete", map[string]any{"id": id})
	return c.JSON(fiber.Map{"ok": true})
}

// UploadImage accepts a multipart photo, stores it remotely and points
// the item at its public URL.
func (h *MenuHandler) UploadImage(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing item id"})
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "image file required"})
	}
	f, err := fh.Open()
	if err != nil {
		return fail(c, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return fail(c, err)
	}
	contentType := fh.Header.Get("Content-Type")
	url, err := h.Menu.AttachImage(c.Context(), h.Session.Token(), id, data, contentType)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "menu.image", map[string]any{"id": id})
	return c.JSON(fiber.Map{"image_url": url})
}
