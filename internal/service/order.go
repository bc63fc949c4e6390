package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/shopcart/internal/events"
	"github.com/Skotchmaster/shopcart/internal/models"
	"github.com/Skotchmaster/shopcart/internal/repo"
	"github.com/Skotchmaster/shopcart/pkg/logging"
)

type OrderService struct {
	Repo    *repo.GormRepo
	Catalog ProductResolver
	Events  events.Publisher
	// Now defaults to time.Now in UTC.
	Now func() time.Time
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// PlaceOrder turns the user's cart into an order and empties the cart. Prices
// come from the catalog at this moment; an unknown product fails the whole
// checkout rather than being charged as zero.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uuid.UUID) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.place")

	exists, items, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if !exists || len(items) == 0 {
		return nil, fmt.Errorf("cart is empty: %w", ErrInvalidState)
	}

	ids := make([]uuid.UUID, len(items))
	for i, it := range items {
		ids[i] = it.ProductID
	}
	products, err := resolveAll(ctx, s.Catalog, ids)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		UserID:      userID,
		Status:      models.OrderStatusPlaced,
		TotalAmount: decimal.Zero,
		CreatedAt:   s.now(),
		Items:       make([]models.OrderItem, 0, len(items)),
	}
	for i, it := range items {
		p := products[i]
		if p == nil {
			return nil, fmt.Errorf("product %s no longer exists: %w", it.ProductID, ErrResolution)
		}

		line := lineTotal(p.Price, it.Quantity)
		order.Items = append(order.Items, models.OrderItem{
			ProductID: it.ProductID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Quantity:  it.Quantity,
			LineTotal: line,
		})
		order.TotalAmount = order.TotalAmount.Add(line)
	}

	if err := s.Repo.PlaceOrder(ctx, order, items); err != nil {
		if errors.Is(err, repo.ErrCartChanged) {
			return nil, fmt.Errorf("cart changed during checkout, retry: %w", ErrConflict)
		}
		return nil, fmt.Errorf("save order: %w", err)
	}

	l.Info("order_placed", "order_id", order.ID, "items", len(order.Items), "total", order.TotalAmount.String())
	publish(ctx, s.Events, events.TopicOrder, userID.String(), events.Event{
		Type:    "order_placed",
		UserID:  userID.String(),
		OrderID: order.ID.String(),
		Payload: map[string]any{
			"totalAmount": order.TotalAmount,
			"items":       len(order.Items),
		},
		OccurredAt: order.CreatedAt,
	})

	return order, nil
}

// ListOrders returns the user's orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	orders, err := s.Repo.ListOrders(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}
