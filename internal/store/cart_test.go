package store_test

import (
	"math"
	"testing"

	"delice/internal/domain"
	"delice/internal/store"
)

func item(id string, price float64) domain.CartItem {
	return domain.CartItem{ID: id, Name: id, Price: price, Category: "meals"}
}

func checkTotal(t *testing.T, c *store.Cart) {
	t.Helper()
	items, total := c.Snapshot()
	sum := 0.0
	for _, it := range items {
		sum += it.Price * float64(it.Quantity)
	}
	if math.Abs(sum-total) > 1e-9 {
		t.Fatalf("total %v != sum(price*qty) %v", total, sum)
	}
}

func TestCartTotalInvariantAcrossOps(t *testing.T) {
	c := store.NewCart()
	c.Add(item("meal-1", 129.99), 1)
	checkTotal(t, c)
	c.Add(item("drink-1", 38.00), 2)
	checkTotal(t, c)
	c.SetQuantity("meal-1", 3)
	checkTotal(t, c)
	c.Remove("drink-1")
	checkTotal(t, c)
	c.Remove("never-there") // no-op, no error
	checkTotal(t, c)
	c.Clear()
	checkTotal(t, c)
}

func TestCartAddMergesById(t *testing.T) {
	c := store.NewCart()
	c.Add(item("a", 10), 1)
	c.Add(item("a", 10), 1)
	items, total := c.Snapshot()
	if len(items) != 1 {
		t.Fatalf("expected one merged entry, got %d", len(items))
	}
	if items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", items[0].Quantity)
	}
	if total != 20 {
		t.Fatalf("expected total 20, got %v", total)
	}
}

func TestCartSetQuantityZeroRemoves(t *testing.T) {
	c := store.NewCart()
	c.Add(item("a", 10), 2)
	c.SetQuantity("a", 0)
	items, total := c.Snapshot()
	if len(items) != 0 || total != 0 {
		t.Fatalf("zero quantity should remove the entry, got %d items total %v", len(items), total)
	}

	c.Add(item("b", 5), 1)
	c.SetQuantity("b", -3)
	if items, _ := c.Snapshot(); len(items) != 0 {
		t.Fatal("negative quantity should remove the entry")
	}
}

func TestCartClear(t *testing.T) {
	c := store.NewCart()
	c.Add(item("a", 10), 2)
	c.Add(item("b", 3.5), 1)
	c.Clear()
	items, total := c.Snapshot()
	if len(items) != 0 || total != 0 {
		t.Fatalf("clear left %d items, total %v", len(items), total)
	}
}

func TestCartKeepsInsertionOrder(t *testing.T) {
	c := store.NewCart()
	c.Add(item("a", 1), 1)
	c.Add(item("b", 1), 1)
	c.Add(item("a", 1), 1) // merge must not reorder
	c.Add(item("c", 1), 1)
	items, _ := c.Snapshot()
	want := []string{"a", "b", "c"}
	if len(items) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(items))
	}
	for i, id := range want {
		if items[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, items[i].ID)
		}
	}
}

func TestCartLinesSnapshot(t *testing.T) {
	c := store.NewCart()
	c.Add(item("a", 129.99), 2)
	lines := c.Lines()
	if len(lines) != 1 || lines[0].Qty != 2 || lines[0].Price != 129.99 {
		t.Fatalf("unexpected lines %+v", lines)
	}
}
