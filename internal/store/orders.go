package store

import (
	"sync"

	"delice/internal/domain"
)

// Orders holds the orders visible to the current caller, newest first.
// Statuses are remote-authoritative: ApplyStatus records what the
// remote side confirmed, never a local guess.
type Orders struct {
	mu     sync.Mutex
	orders []domain.Order
}

func NewOrders() *Orders { return &Orders{} }

func (s *Orders) Set(orders []domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = orders
}

// Prepend puts a freshly created order at the head of the list.
func (s *Orders) Prepend(o domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append([]domain.Order{o}, s.orders...)
}

func (s *Orders) ApplyStatus(id string, status domain.OrderStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].Status = status
			return
		}
	}
}

func (s *Orders) Get(id string) (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID == id {
			return o, true
		}
	}
	return domain.Order{}, false
}

func (s *Orders) All() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// Filter is the admin view's client-side predicate; it never triggers
// a fetch. An empty status returns everything.
func (s *Orders) Filter(status domain.OrderStatus) []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == "" {
		out := make([]domain.Order, len(s.orders))
		copy(out, s.orders)
		return out
	}
	out := []domain.Order{}
	for _, o := range s.orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out
}
