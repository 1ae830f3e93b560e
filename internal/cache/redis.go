package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/actuallystonmai/upsell-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

const defaultTTL = 10 * time.Minute

// Cache holds catalog snapshots per store.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func buildKey(storeID string) string {
	return fmt.Sprintf("catalog:store:%s", storeID)
}

// Get a catalog snapshot. A miss returns nil, false.
func (c *Cache) GetCatalog(ctx context.Context, storeID string) ([]domain.Product, bool, error) {
	key := buildKey(storeID)
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get catalog from cache: %w", err)
	}

	var products []domain.Product
	if err := json.Unmarshal(val, &products); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal catalog %s: %w", key, err)
	}
	return products, true, nil
}

// Store a catalog snapshot
func (c *Cache) SetCatalog(ctx context.Context, storeID string, products []domain.Product) error {
	val, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	if err := c.client.Set(ctx, buildKey(storeID), val, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set catalog in cache: %w", err)
	}
	return nil
}

// Drop a store's snapshot: used after product sync
func (c *Cache) InvalidateCatalog(ctx context.Context, storeID string) error {
	if err := c.client.Del(ctx, buildKey(storeID)).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", buildKey(storeID), err)
	}
	return nil
}

// Ping connectivity
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
