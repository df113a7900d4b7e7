package utils

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultCacheTTL = time.Hour

// Cache is a JSON cache over Redis. A Cache without a client is a no-op that always misses.
type Cache struct {
	rc *redis.Client
}

// NewCache creates a Cache; rc may be nil.
func NewCache(rc *redis.Client) *Cache {
	return &Cache{rc: rc}
}

// GetJSON loads key into dst and reports whether it was a hit.
func (c *Cache) GetJSON(ctx context.Context, key string, dst interface{}) bool {
	if c == nil || c.rc == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	b, err := c.rc.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			Sugar.Debugf("cache get miss key=%s err=%v", key, err)
		}
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		Sugar.Warnf("cache decode failed key=%s err=%v", key, err)
		return false
	}
	return true
}

// SetJSON marshals v and stores it under key; ttl <= 0 uses one hour.
func (c *Cache) SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	if c == nil || c.rc == nil {
		return
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.rc.Set(ctx, key, b, ttl).Err(); err != nil {
		Sugar.Warnf("cache set failed key=%s err=%v", key, err)
	}
}

// Generation reads the counter stored under key, 0 when unset.
// ok is false when the cache is disabled or unreachable; callers should not cache then.
func (c *Cache) Generation(ctx context.Context, key string) (gen int64, ok bool) {
	if c == nil || c.rc == nil {
		return 0, false
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	gen, err := c.rc.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, true
	}
	if err != nil {
		Sugar.Warnf("cache generation read failed key=%s err=%v", key, err)
		return 0, false
	}
	return gen, true
}

// Bump increments the counter under key. Entries written under an older generation are never read again.
func (c *Cache) Bump(ctx context.Context, key string) {
	if c == nil || c.rc == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.rc.Incr(ctx, key).Err(); err != nil {
		Sugar.Warnf("cache bump failed key=%s err=%v", key, err)
	}
}

// InvalidateByPrefix deletes keys that match the given prefix using SCAN.
func (c *Cache) InvalidateByPrefix(ctx context.Context, prefix string) {
	if c == nil || c.rc == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var cursor uint64
	for i := 0; i < 10; i++ { // limit rounds to avoid long loops
		keys, cur, err := c.rc.Scan(ctx, cursor, prefix+"*", 1000).Result()
		if err != nil {
			Sugar.Warnf("cache scan failed prefix=%s err=%v", prefix, err)
			return
		}
		cursor = cur
		if len(keys) > 0 {
			pipe := c.rc.Pipeline()
			for _, k := range keys {
				pipe.Del(ctx, k)
			}
			_, _ = pipe.Exec(ctx)
		}
		if cursor == 0 {
			return
		}
	}
}
