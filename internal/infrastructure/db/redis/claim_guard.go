package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultClaimTTL = 30 * time.Second

// ClaimGuard reserves unique account values (email, telephone) for the
// duration of a write so concurrent requests cannot both pass the
// check-then-insert window.
// Key format: claim:<kind>:<value>
type ClaimGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewClaimGuard creates a ClaimGuard; ttl <= 0 falls back to defaultClaimTTL.
func NewClaimGuard(client *redis.Client, ttl time.Duration) *ClaimGuard {
	if ttl <= 0 {
		ttl = defaultClaimTTL
	}
	return &ClaimGuard{client: client, ttl: ttl}
}

// Acquire reports whether the caller now holds the claim. A claim left behind
// by a crashed request expires after the TTL.
func (g *ClaimGuard) Acquire(ctx context.Context, kind, value string) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.key(kind, value), "1", g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim acquire: %w", err)
	}
	return ok, nil
}

// Release drops the claim.
func (g *ClaimGuard) Release(ctx context.Context, kind, value string) error {
	if err := g.client.Del(ctx, g.key(kind, value)).Err(); err != nil {
		return fmt.Errorf("claim release: %w", err)
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (g *ClaimGuard) Ping(ctx context.Context) error {
	return g.client.Ping(ctx).Err()
}

func (g *ClaimGuard) key(kind, value string) string {
	return fmt.Sprintf("claim:%s:%s", kind, value)
}
