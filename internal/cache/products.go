package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/Skotchmaster/shopcart/internal/models"
)

var ErrMiss = errors.New("cache miss")

func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// ProductCache stores catalog entries as JSON under product:<id>.
type ProductCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewProductCache(rdb *redis.Client, ttl time.Duration) *ProductCache {
	return &ProductCache{rdb: rdb, ttl: ttl}
}

func key(id uuid.UUID) string {
	return "product:" + id.String()
}

func (c *ProductCache) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	raw, err := c.rdb.Get(ctx, key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, err
	}

	var p models.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode cached product %s: %w", id, err)
	}
	return &p, nil
}

func (c *ProductCache) Set(ctx context.Context, p *models.Product) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key(p.ID), raw, c.ttl).Err()
}
