package store

import (
	"sync"

	"delice/internal/domain"
)

// Cart holds the selected items in insertion order plus the derived
// total. Every mutation recomputes the total from the items; nothing
// ever sets it directly.
type Cart struct {
	mu    sync.Mutex
	items []domain.CartItem
	total float64
}

func NewCart() *Cart { return &Cart{} }

func (c *Cart) recompute() {
	sum := 0.0
	for _, it := range c.items {
		sum += it.Price * float64(it.Quantity)
	}
	c.total = sum
}

// Add merges by id: an existing entry gains qty, a new one is appended
// with it.
func (c *Cart) Add(item domain.CartItem, qty int) {
	if qty < 1 {
		qty = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == item.ID {
			c.items[i].Quantity += qty
			c.recompute()
			return
		}
	}
	item.Quantity = qty
	c.items = append(c.items, item)
	c.recompute()
}

// Remove deletes the entry when present; absent ids are a no-op.
func (c *Cart) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	c.recompute()
}

// SetQuantity sets an entry's quantity directly. Anything at or below
// zero removes the entry instead of keeping it around at zero.
func (c *Cart) SetQuantity(id string, qty int) {
	if qty <= 0 {
		c.Remove(id)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Quantity = qty
			break
		}
	}
	c.recompute()
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.total = 0
}

// Snapshot returns a copy of the items and the current total.
func (c *Cart) Snapshot() ([]domain.CartItem, float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.CartItem, len(c.items))
	copy(out, c.items)
	return out, c.total
}

// Lines freezes the cart into order line items.
func (c *Cart) Lines() []domain.OrderLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	lines := make([]domain.OrderLine, 0, len(c.items))
	for _, it := range c.items {
		lines = append(lines, domain.OrderLine{ID: it.ID, Name: it.Name, Qty: it.Quantity, Price: it.Price})
	}
	return lines
}
