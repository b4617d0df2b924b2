package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "delice/internal/log"
	"delice/internal/domain"
	"delice/internal/services"
	"delice/internal/store"
	"delice/internal/validate"
)

type OrderHandler struct {
	Orders  *services.OrderService
	Session *store.Session
}

// List fetches the caller's visible orders, newest first. A status
// query filters client-side over the fetched set.
func (h *OrderHandler) List(c *fiber.Ctx) error {
	orders, err := h.Orders.FetchAll(c.Context(), h.Session.Token())
	if err != nil {
		return fail(c, err)
	}
	if s := c.Query("status"); s != "" {
		st := domain.OrderStatus(s)
		if !st.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown status"})
		}
		orders = h.Orders.Store.Filter(st)
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return c.JSON(fiber.Map{"orders": orders})
}

// Advance moves an order one step along the fixed status cycle and
// echoes the status the remote side confirmed.
func (h *OrderHandler) Advance(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing order id"})
	}
	status, err := h.Orders.AdvanceStatus(c.Context(), h.Session.Token(), id)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "order.status.advance", map[string]any{"id": id, "status": status})
	return c.JSON(fiber.Map{"id": id, "status": status})
}
