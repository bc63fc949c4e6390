package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/Skotchmaster/shopcart/internal/events"
	"github.com/Skotchmaster/shopcart/internal/models"
	"github.com/Skotchmaster/shopcart/internal/transport"
	"github.com/Skotchmaster/shopcart/pkg/logging"
)

const resolveConcurrency = 8

// ProductResolver returns ErrNotFound (wrapped) for unknown ids.
type ProductResolver interface {
	Resolve(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// resolveAll looks up every id concurrently. The result is index-aligned with
// ids; unknown products are left nil. Any other failure aborts the batch.
func resolveAll(ctx context.Context, catalog ProductResolver, ids []uuid.UUID) ([]*models.Product, error) {
	out := make([]*models.Product, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveConcurrency)

	for idx := range ids {
		idx := idx
		g.Go(func() error {
			p, err := catalog.Resolve(ctx, ids[idx])
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					return nil
				}
				return fmt.Errorf("resolve product %s: %w", ids[idx], err)
			}
			out[idx] = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func lineTotal(price decimal.Decimal, qty uint) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(qty)))
}

// buildView resolves the lines and totals them; unresolved products count 0.
func buildView(ctx context.Context, catalog ProductResolver, items []models.CartItem) (*transport.CartView, error) {
	view := transport.EmptyCartView()
	if len(items) == 0 {
		return view, nil
	}

	ids := make([]uuid.UUID, len(items))
	for i, it := range items {
		ids[i] = it.ProductID
	}

	products, err := resolveAll(ctx, catalog, ids)
	if err != nil {
		return nil, err
	}

	view.Items = make([]transport.CartLine, len(items))
	for i, it := range items {
		view.Items[i] = transport.CartLine{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Product:   products[i],
		}
		if products[i] != nil {
			view.TotalAmount = view.TotalAmount.Add(lineTotal(products[i].Price, it.Quantity))
		}
	}
	return view, nil
}

// publish is best effort: failures are logged and never reach the caller.
func publish(ctx context.Context, p events.Publisher, topic, key string, ev events.Event) {
	if p == nil {
		return
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := p.PublishEvent(pubCtx, topic, key, ev); err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "topic", topic, "type", ev.Type, "error", err)
	}
}
