// README: Redis cache in front of catalog list reads.
package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	tariffsKey = "catalog:tariffs:active"
	methodsKey = "catalog:payment_methods:active"
)

// Cache holds serialized catalog listings with a short TTL. Reference data
// is admin-maintained and read-mostly, so staleness within the TTL is fine.
type Cache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCache(redis *redis.Client, ttl time.Duration) *Cache {
	return &Cache{redis: redis, ttl: ttl}
}

func (c *Cache) getList(ctx context.Context, key string, out any) bool {
	val, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(val, out) == nil
}

func (c *Cache) setList(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	// Best effort: a failed cache write never fails the read path.
	_ = c.redis.Set(ctx, key, b, c.ttl).Err()
}

func (c *Cache) GetTariffs(ctx context.Context) ([]Tariff, bool) {
	var out []Tariff
	ok := c.getList(ctx, tariffsKey, &out)
	return out, ok
}

func (c *Cache) SetTariffs(ctx context.Context, tariffs []Tariff) {
	c.setList(ctx, tariffsKey, tariffs)
}

func (c *Cache) GetPaymentMethods(ctx context.Context) ([]PaymentMethod, bool) {
	var out []PaymentMethod
	ok := c.getList(ctx, methodsKey, &out)
	return out, ok
}

func (c *Cache) SetPaymentMethods(ctx context.Context, methods []PaymentMethod) {
	c.setList(ctx, methodsKey, methods)
}
