package services

import (
	"context"

	"delice/internal/backend"
	"delice/internal/checkout"
	"delice/internal/domain"
	"delice/internal/store"
)

type OrderService struct {
	Backend *backend.Client
	Store   *store.Orders
}

func NewOrderService(b *backend.Client, st *store.Orders) *OrderService {
	return &OrderService{Backend: b, Store: st}
}

// FetchAll loads the caller's visible orders newest-first. No retry on
// failure; the store keeps whatever it had.
func (s *OrderService) FetchAll(ctx context.Context, token string) ([]domain.Order, error) {
	orders, err := s.Backend.ListOrders(ctx, token)
	if err != nil {
		return nil, err
	}
	s.Store.Set(orders)
	return orders, nil
}

// Create inserts a pending order and records the local snapshot of its
// line items (the remote insert stays minimal).
func (s *OrderService) Create(ctx context.Context, token string, contact checkout.Contact, lines []domain.OrderLine, total float64) (domain.Order, error) {
	order, err := s.Backend.CreateOrder(ctx, token, contact.Name, contact.Phone, contact.Notes, total, domain.TypeTakeout)
	if err != nil {
		return domain.Order{}, err
	}
	order.Items = lines
	order.Total = total
	s.Store.Prepend(order)
	return order, nil
}

// AdvanceStatus asks the remote side for the next status in the fixed
// cycle and applies whatever it confirmed, not the local guess.
func (s *OrderService) AdvanceStatus(ctx context.Context, token, id string) (domain.OrderStatus, error) {
	cur, ok := s.Store.Get(id)
	if !ok {
		// Not in local state; refetch once so the admin view can act on it.
		if _, err := s.FetchAll(ctx, token); err != nil {
			return "", err
		}
		cur, ok = s.Store.Get(id)
		if !ok {
			return "", &backend.RemoteError{Status: 404, Message: "order not found"}
		}
	}
	confirmed, err := s.Backend.UpdateOrderStatus(ctx, token, id, cur.Status.Next())
	if err != nil {
		return "", err
	}
	s.Store.ApplyStatus(id, confirmed)
	return confirmed, nil
}
