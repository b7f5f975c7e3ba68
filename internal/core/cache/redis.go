package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Cache is a read-through redis cache; concurrent misses on one key share a single load.
type Cache struct {
	RDB redis.UniversalClient
	sf  singleflight.Group

	mu   sync.Mutex
	gens map[string]uint64
}

func NewWithClient(rdb redis.UniversalClient) *Cache {
	return &Cache{RDB: rdb, gens: map[string]uint64{}}
}

// GetOrLoad serves key from redis or runs load. A load that overlaps an Invalidate of
// the same key is returned to the caller but not written back.
func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if b, err := c.RDB.Get(ctx, key).Bytes(); err == nil {
		return b, nil
	}
	v, err, _ := c.sf.Do(key, func() (any, error) {
		gen := c.generation(key)
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		c.mu.Lock()
		if c.gens[key] == gen {
			_ = c.RDB.Set(ctx, key, b, ttl).Err()
		}
		c.mu.Unlock()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (c *Cache) generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[key]
}

// Invalidate drops keys; errors are returned so callers may log them.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		c.gens[k]++
	}
	return c.RDB.Del(ctx, keys...).Err()
}
