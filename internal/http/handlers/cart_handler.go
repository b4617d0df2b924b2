package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "delice/internal/log"
	"delice/internal/domain"
	"delice/internal/services"
	"delice/internal/store"
	"delice/internal/validate"
)

type CartHandler struct {
	Cart    *store.Cart
	Menu    *services.MenuService
	Session *store.Session
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	items, total := h.Cart.Snapshot()
	if items == nil {
		items = []domain.CartItem{}
	}
	return c.JSON(fiber.Map{"items": items, "total": total})
}

type addItemRequest struct {
	ID  string `json:"id"`
	Qty int    `json:"qty"`
}

// Add resolves the menu item by id so price and name always come from
// the menu, never from the caller.
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var in addItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	id, ok := validate.ID(in.ID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing item id"})
	}
	if in.Qty < 1 {
		in.Qty = 1
	}
	items, err := h.Menu.Menu(c.Context(), h.Session.Token())
	if err != nil {
		return fail(c, err)
	}
	var found *domain.MenuItem
	for i := range items {
		if items[i].ID == id {
			found = &items[i]
			break
		}
	}
	if found == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "menu item not found"})
	}
	if !found.Available {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "item unavailable"})
	}
	h.Cart.Add(domain.CartItem{
		ID:       found.ID,
		Name:     found.Name,
		Price:    found.Price,
		ImageURL: found.ImageURL,
		Category: found.Category,
	}, in.Qty)
	applog.Info(c, "cart.add", map[string]any{"id": id, "qty": in.Qty})
	return h.View(c)
}

type setQtyRequest struct {
	Qty int `json:"qty"`
}

// SetQuantity updates a line; zero or below removes it.
func (h *CartHandler) SetQuantity(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing item id"})
	}
	var in setQtyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	h.Cart.SetQuantity(id, in.Qty)
	return h.View(c)
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing item id"})
	}
	h.Cart.Remove(id)
	return h.View(c)
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	h.Cart.Clear()
	return h.View(c)
}
