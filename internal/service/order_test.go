package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shopcart/internal/events"
	"github.com/Skotchmaster/shopcart/internal/models"
)

func TestOrderService_PlaceOrder_EmptyCart(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	t.Run("no cart", func(t *testing.T) {
		userID := uuid.New()
		order, err := f.orders.PlaceOrder(ctx, userID)
		require.ErrorIs(t, err, ErrInvalidState)
		assert.Nil(t, order)
		assert.Zero(t, f.countOrders(t, userID))
	})

	t.Run("emptied cart", func(t *testing.T) {
		userID := uuid.New()
		p := f.product(t, "Thing", "1")
		f.mustAdd(t, userID, p.ID)
		_, err := f.cart.RemoveItem(ctx, userID, p.ID)
		require.NoError(t, err)

		order, err := f.orders.PlaceOrder(ctx, userID)
		require.ErrorIs(t, err, ErrInvalidState)
		assert.Nil(t, order)
		assert.Zero(t, f.countOrders(t, userID))
	})
}

func TestOrderService_PlaceOrder_TotalsAndClearsCart(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	a := f.product(t, "A", "10")
	b := f.product(t, "B", "5")

	f.mustAdd(t, userID, a.ID)
	f.mustAdd(t, userID, a.ID)
	f.mustAdd(t, userID, b.ID)

	order, err := f.orders.PlaceOrder(ctx, userID)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, order.ID)
	assert.Equal(t, userID, order.UserID)
	assert.Equal(t, models.OrderStatusPlaced, order.Status)
	assert.True(t, dec("25").Equal(order.TotalAmount), order.TotalAmount.String())
	require.Len(t, order.Items, 2)
	assert.Equal(t, a.ID, order.Items[0].ProductID)
	assert.EqualValues(t, 2, order.Items[0].Quantity)
	assert.True(t, dec("20").Equal(order.Items[0].LineTotal))
	assert.Equal(t, "B", order.Items[1].Name)

	view, err := f.cart.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.True(t, view.TotalAmount.IsZero())

	var carts int64
	require.NoError(t, f.db.Model(&models.Cart{}).Where("user_id = ?", userID).Count(&carts).Error)
	assert.EqualValues(t, 1, carts, "cart is emptied, not deleted")

	assert.Equal(t, []string{"order_placed"}, f.events.Types(events.TopicOrder))
}

func TestOrderService_PlaceOrder_TotalIsFrozen(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	p := f.product(t, "Lamp", "12")
	f.mustAdd(t, userID, p.ID)

	placed, err := f.orders.PlaceOrder(ctx, userID)
	require.NoError(t, err)

	require.NoError(t, f.db.Model(&models.Product{}).Where("id = ?", p.ID).Update("price", dec("99")).Error)

	orders, err := f.orders.ListOrders(ctx, userID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, placed.ID, orders[0].ID)
	assert.True(t, dec("12").Equal(orders[0].TotalAmount))
	require.Len(t, orders[0].Items, 1)
	assert.True(t, dec("12").Equal(orders[0].Items[0].UnitPrice))
}

func TestOrderService_PlaceOrder_UnresolvableProduct(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	known := f.product(t, "Known", "3")
	ghost := uuid.New()

	f.mustAdd(t, userID, known.ID)
	f.mustAdd(t, userID, ghost)
	before := quantities(t, f, userID)

	order, err := f.orders.PlaceOrder(ctx, userID)
	require.ErrorIs(t, err, ErrResolution)
	assert.Nil(t, order)

	assert.Zero(t, f.countOrders(t, userID))
	assert.Equal(t, before, quantities(t, f, userID))
	assert.Empty(t, f.events.Types(events.TopicOrder))
}

type failingResolver struct{ err error }

func (r failingResolver) Resolve(context.Context, uuid.UUID) (*models.Product, error) {
	return nil, r.err
}

func TestOrderService_PlaceOrder_StoreErrorSurfaces(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	f.mustAdd(t, userID, uuid.New())

	boom := errors.New("catalog down")
	svc := &OrderService{Repo: f.repo, Catalog: failingResolver{err: boom}}

	_, err := svc.PlaceOrder(ctx, userID)
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrResolution)
	assert.Zero(t, f.countOrders(t, userID))
}

func TestOrderService_ListOrders_NewestFirst(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	otherUser := uuid.New()
	p := f.product(t, "Sock", "2")

	var placed []uuid.UUID
	for i := 0; i < 3; i++ {
		f.mustAdd(t, userID, p.ID)
		o, err := f.orders.PlaceOrder(ctx, userID)
		require.NoError(t, err)
		placed = append(placed, o.ID)
	}
	f.mustAdd(t, otherUser, p.ID)
	_, err := f.orders.PlaceOrder(ctx, otherUser)
	require.NoError(t, err)

	orders, err := f.orders.ListOrders(ctx, userID)
	require.NoError(t, err)
	require.Len(t, orders, 3)

	assert.Equal(t, []uuid.UUID{placed[2], placed[1], placed[0]}, []uuid.UUID{orders[0].ID, orders[1].ID, orders[2].ID})
	for i := 1; i < len(orders); i++ {
		assert.True(t, orders[i-1].CreatedAt.After(orders[i].CreatedAt))
	}
	for _, o := range orders {
		assert.Len(t, o.Items, 1)
	}
}

func TestOrderService_ListOrders_NoneIsEmptySlice(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	orders, err := f.orders.ListOrders(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}
