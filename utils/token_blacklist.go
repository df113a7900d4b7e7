package utils

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "session:revoked:"

// TokenBlacklist remembers signed-out token ids until they would have expired anyway.
// It uses Redis when a client is given and an in-memory map otherwise.
type TokenBlacklist struct {
	rc *redis.Client

	mu      sync.RWMutex
	entries map[string]time.Time
}

// NewTokenBlacklist creates a blacklist; rc may be nil.
func NewTokenBlacklist(rc *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{rc: rc, entries: map[string]time.Time{}}
}

// Revoke blacklists the token id until expiresAt.
func (b *TokenBlacklist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 || tokenID == "" {
		return nil
	}
	if b.rc != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return b.rc.Set(ctx, blacklistPrefix+tokenID, "1", ttl).Err()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.cleanupLocked()
	b.entries[tokenID] = expiresAt
	return nil
}

// IsRevoked checks if a token id was revoked before its natural expiration.
// A Redis error fails open so an outage does not sign everyone out.
func (b *TokenBlacklist) IsRevoked(ctx context.Context, tokenID string) bool {
	if b.rc != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		n, err := b.rc.Exists(ctx, blacklistPrefix+tokenID).Result()
		if err != nil {
			Sugar.Warnf("token blacklist lookup failed: %v", err)
			return false
		}
		return n > 0
	}

	b.mu.RLock()
	expiresAt, ok := b.entries[tokenID]
	b.mu.RUnlock()
	return ok && time.Now().Before(expiresAt)
}

func (b *TokenBlacklist) cleanupLocked() {
	now := time.Now()
	for id, exp := range b.entries {
		if now.After(exp) {
			delete(b.entries, id)
		}
	}
}
