package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"comparaparqueaderos/internal/db"
)

const keyPrefix = "cp:"

// kv is the part of the go-redis client the cache needs.
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisOfferCache keeps listing rows as JSON with a fixed TTL.
type RedisOfferCache struct {
	client kv
	ttl    time.Duration
}

func NewRedisClient(addr, password string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr, Password: password})
}

func NewRedisOfferCache(client kv, ttl time.Duration) *RedisOfferCache {
	return &RedisOfferCache{client: client, ttl: ttl}
}

func (c *RedisOfferCache) GetOffers(ctx context.Context, key string) ([]db.ParkingOffer, bool, error) {
	raw, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: get %s: %w", key, err)
	}
	var offers []db.ParkingOffer
	if err := json.Unmarshal(raw, &offers); err != nil {
		return nil, false, fmt.Errorf("cache: decode %s: %w", key, err)
	}
	return offers, true, nil
}

func (c *RedisOfferCache) SetOffers(ctx context.Context, key string, offers []db.ParkingOffer) error {
	raw, err := json.Marshal(offers)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, keyPrefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: set %s: %w", key, err)
	}
	return nil
}
