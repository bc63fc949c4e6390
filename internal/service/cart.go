package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Skotchmaster/shopcart/internal/events"
	"github.com/Skotchmaster/shopcart/internal/repo"
	"github.com/Skotchmaster/shopcart/internal/transport"
	"github.com/Skotchmaster/shopcart/pkg/logging"
)

// CartService mutators never fail on a missing cart or line: they leave the
// cart as is and return its current view.
type CartService struct {
	Repo    *repo.GormRepo
	Catalog ProductResolver
	Events  events.Publisher
}

func ParseProductID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("productId must be a valid id: %w", ErrValidation)
	}
	return id, nil
}

func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*transport.CartView, error) {
	exists, items, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if !exists {
		return transport.EmptyCartView(), nil
	}
	return buildView(ctx, s.Catalog, items)
}

func (s *CartService) AddItem(ctx context.Context, userID, productID uuid.UUID) (*transport.CartView, error) {
	if productID == uuid.Nil {
		return nil, fmt.Errorf("productId required: %w", ErrValidation)
	}

	if err := s.Repo.AddItem(ctx, userID, productID); err != nil {
		return nil, fmt.Errorf("add item: %w", err)
	}

	s.emit(ctx, "item_added", userID, productID)
	return s.GetCart(ctx, userID)
}

func (s *CartService) IncreaseQty(ctx context.Context, userID, productID uuid.UUID) (*transport.CartView, error) {
	found, err := s.Repo.IncreaseItem(ctx, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("increase item: %w", err)
	}
	if found {
		s.emit(ctx, "item_increased", userID, productID)
	} else {
		logging.FromContext(ctx).Debug("increase_qty_noop", "product_id", productID)
	}
	return s.GetCart(ctx, userID)
}

func (s *CartService) DecreaseQty(ctx context.Context, userID, productID uuid.UUID) (*transport.CartView, error) {
	found, err := s.Repo.DecreaseItem(ctx, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("decrease item: %w", err)
	}
	if found {
		s.emit(ctx, "item_decreased", userID, productID)
	} else {
		logging.FromContext(ctx).Debug("decrease_qty_noop", "product_id", productID)
	}
	return s.GetCart(ctx, userID)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*transport.CartView, error) {
	found, err := s.Repo.RemoveItem(ctx, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("remove item: %w", err)
	}
	if found {
		s.emit(ctx, "item_removed", userID, productID)
	}
	return s.GetCart(ctx, userID)
}

func (s *CartService) emit(ctx context.Context, typ string, userID, productID uuid.UUID) {
	publish(ctx, s.Events, events.TopicCart, userID.String(), events.Event{
		Type:      typ,
		UserID:    userID.String(),
		ProductID: productID.String(),
	})
}
