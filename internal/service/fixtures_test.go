package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/shopcart/internal/events"
	"github.com/Skotchmaster/shopcart/internal/models"
	"github.com/Skotchmaster/shopcart/internal/repo"
	"github.com/Skotchmaster/shopcart/internal/testdb"
	"github.com/Skotchmaster/shopcart/internal/transport"
)

type fixture struct {
	db      *gorm.DB
	repo    *repo.GormRepo
	events  *events.Recorder
	catalog *CatalogService
	cart    *CartService
	orders  *OrderService
	auth    *AuthService
	google  *fakeGoogle
}

// fakeGoogle accepts only the credentials it was given.
type fakeGoogle struct {
	mu  sync.Mutex
	ids map[string]transport.GoogleIdentity
}

func (g *fakeGoogle) issue(credential string, id transport.GoogleIdentity) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ids[credential] = id
}

func (g *fakeGoogle) Verify(_ context.Context, credential string) (*transport.GoogleIdentity, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, ok := g.ids[credential]
	if !ok {
		return nil, errors.New("invalid signature")
	}
	return &id, nil
}

// stepClock hands out strictly increasing timestamps.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testdb.Open(t)
	r := &repo.GormRepo{DB: db}
	rec := &events.Recorder{}
	catalog := &CatalogService{Repo: r, Events: rec}
	google := &fakeGoogle{ids: map[string]transport.GoogleIdentity{}}
	clock := &stepClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}

	return &fixture{
		db:      db,
		repo:    r,
		events:  rec,
		catalog: catalog,
		cart:    &CartService{Repo: r, Catalog: catalog, Events: rec},
		orders:  &OrderService{Repo: r, Catalog: catalog, Events: rec, Now: clock.Now},
		auth:    &AuthService{Repo: r, JWTSecret: []byte("test-jwt-secret"), TokenTTL: time.Hour, Events: rec, Google: google},
		google:  google,
	}
}

func (f *fixture) product(t *testing.T, name, price string) models.Product {
	t.Helper()

	p := models.Product{Name: name, Price: decimal.RequireFromString(price), Category: "misc"}
	require.NoError(t, f.repo.CreateProduct(context.Background(), &p))
	return p
}

func (f *fixture) mustAdd(t *testing.T, userID, productID uuid.UUID) *transport.CartView {
	t.Helper()

	view, err := f.cart.AddItem(context.Background(), userID, productID)
	require.NoError(t, err)
	return view
}

func (f *fixture) countOrders(t *testing.T, userID uuid.UUID) int64 {
	t.Helper()

	var n int64
	require.NoError(t, f.db.Model(&models.Order{}).Where("user_id = ?", userID).Count(&n).Error)
	return n
}

func quantities(t *testing.T, f *fixture, userID uuid.UUID) map[uuid.UUID]uint {
	t.Helper()

	_, items, err := f.repo.GetCart(context.Background(), userID)
	require.NoError(t, err)
	out := make(map[uuid.UUID]uint, len(items))
	for _, it := range items {
		out[it.ProductID] = it.Quantity
	}
	return out
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
