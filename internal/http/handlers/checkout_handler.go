package handlers

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"delice/internal/checkout"
	applog "delice/internal/log"
	"delice/internal/services"
	"delice/internal/store"
	"delice/internal/validate"
)

type CheckoutHandler struct {
	Checkout *checkout.Coordinator
	Orders   *services.OrderService
	Session  *store.Session
}

type beginRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

// Begin starts a checkout attempt and hands back the hosted payment
// page URL the client must open.
func (h *CheckoutHandler) Begin(c *fiber.Ctx) error {
	var in beginRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if _, ok := validate.Phone(in.Phone); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid phone"})
	}
	res, err := h.Checkout.Begin(c.Context(), checkout.Contact{Name: in.Name, Phone: in.Phone, Notes: in.Notes})
	if err != nil {
		applog.Error(c, "checkout.begin.fail", err, nil)
		return fail(c, err)
	}
	applog.Audit(c, "checkout.begin", map[string]any{"order_id": res.OrderID, "reference": res.Reference})
	return c.JSON(res)
}

// Callback is the browser-facing redirect target of the hosted payment
// page. It renders an HTML result rather than JSON.
func (h *CheckoutHandler) Callback(c *fiber.Ctx) error {
	orderID := c.Query("order_id")
	if orderID == "" {
		return c.Status(fiber.StatusBadRequest).Render("callback", fiber.Map{
			"Paid": false, "Message": "Missing order reference",
		})
	}
	q := url.Values{}
	if v := c.Query("reference"); v != "" {
		q.Set("reference", v)
	}
	if v := c.Query("trxref"); v != "" {
		q.Set("trxref", v)
	}
	ref, err := h.Checkout.Complete(c.Context(), orderID, q)
	if err != nil {
		applog.Error(c, "checkout.verify.fail", err, map[string]any{"order_id": orderID})
		return c.Status(fiber.StatusPaymentRequired).Render("callback", fiber.Map{
			"Paid": false, "Message": err.Error(), "OrderID": orderID,
		})
	}
	applog.Audit(c, "checkout.complete", map[string]any{"order_id": orderID, "reference": ref})
	return c.Render("callback", fiber.Map{
		"Paid": true, "Reference": ref, "OrderID": orderID,
	})
}

// Cancel ends an attempt the customer walked away from.
func (h *CheckoutHandler) Cancel(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing order id"})
	}
	err := h.Checkout.Cancel(id)
	if err != nil && !errors.Is(err, checkout.ErrCancelled) {
		return fail(c, err)
	}
	applog.Info(c, "checkout.cancel", map[string]any{"order_id": id})
	return c.JSON(fiber.Map{"cancelled": true, "message": checkout.ErrCancelled.Error()})
}
