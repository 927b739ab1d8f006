package brainstorm

import (
	"context"
	"time"

	"github.com/Monmon-1020/CampusFlow/storage"
)

const (
	rateLimitWindow = 30 * time.Second
	rateLimitMax    = 3
)

// rateLimiter throttles idea submissions per (session, real user) with a
// fixed window: a counter under a short-TTL key, reset on the first increment
// of a new window. Bursts across a window boundary are accepted behavior.
type rateLimiter struct {
	store  storage.EphemeralStore
	window time.Duration
	max    int64
}

func newRateLimiter(store storage.EphemeralStore) *rateLimiter {
	return &rateLimiter{store: store, window: rateLimitWindow, max: rateLimitMax}
}

func (r *rateLimiter) allow(ctx context.Context, sessionID, userID string) (bool, error) {
	key := rateKey(sessionID, userID)
	count, err := r.store.IncrBy(ctx, key, 1)
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := r.store.ExpireIn(ctx, key, r.window); err != nil {
			return false, err
		}
	}
	return count <= r.max, nil
}
