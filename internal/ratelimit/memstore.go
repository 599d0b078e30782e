package ratelimit

import (
	"context"
	"time"

	limiter "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// MemoryLimiter implements Limiter on top of an in-process counter store.
// All registries in this service are process-local, so the rate limiter is
// too.
type MemoryLimiter struct {
	store limiter.Store
}

// NewMemoryLimiter constructs a limiter backed by an in-memory store.
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{store: memory.NewStore()}
}

// Allow consumes one token for key within the window.
func (m *MemoryLimiter) Allow(ctx context.Context, key string, window time.Duration, maxRequests int) (bool, int, time.Time, error) {
	instance := limiter.New(m.store, limiter.Rate{Period: window, Limit: int64(maxRequests)})
	lctx, err := instance.Get(ctx, key)
	if err != nil {
		return false, 0, time.Time{}, err
	}
	return !lctx.Reached, int(lctx.Remaining), time.Unix(lctx.Reset, 0), nil
}
