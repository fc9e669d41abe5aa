package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ipetrenko/storefront/internal/models"
	"github.com/redis/go-redis/v9"
)

const productListPrefix = "products:creator:%d"

// DefaultProductCacheTTL bounds staleness if an invalidation is missed.
const DefaultProductCacheTTL = 5 * time.Minute

type RedisProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisProductCache(client *redis.Client) *RedisProductCache {
	return &RedisProductCache{client: client, ttl: DefaultProductCacheTTL}
}

func (c *RedisProductCache) Get(ctx context.Context, creatorID int64) ([]*models.Product, error) {
	key := fmt.Sprintf(productListPrefix, creatorID)

	jsonData, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached products: %w", err)
	}

	var products []*models.Product
	if err := json.Unmarshal([]byte(jsonData), &products); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached products: %w", err)
	}
	return products, nil
}

func (c *RedisProductCache) Set(ctx context.Context, creatorID int64, products []*models.Product) error {
	jsonData, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to marshal products: %w", err)
	}

	key := fmt.Sprintf(productListPrefix, creatorID)
	if err := c.client.Set(ctx, key, jsonData, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache products: %w", err)
	}
	return nil
}

func (c *RedisProductCache) Invalidate(ctx context.Context, creatorID int64) error {
	key := fmt.Sprintf(productListPrefix, creatorID)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate product cache: %w", err)
	}
	return nil
}
