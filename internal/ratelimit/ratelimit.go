package ratelimit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bmohak/echo/pkg/logging"
)

// Counter is the store behind the limiter windows. Implemented by the Redis
// cache in production and by an in-memory map in tests.
type Counter interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	GetInt(ctx context.Context, key string) (int64, error)
}

// Result is the outcome of a limiter check. ResetAt tells the client when the
// current window closes; it is advisory, there is no server-side retry.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Limiter is a sliding-window rate limiter. The estimate weighs the previous
// fixed window by the fraction of it still inside the sliding window, so a
// burst at a window boundary cannot double the effective limit.
type Limiter struct {
	counter Counter
	name    string
	limit   int
	window  time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

// New creates a limiter allowing limit operations per window, namespaced by name
func New(counter Counter, name string, limit int, window time.Duration) *Limiter {
	return &Limiter{
		counter: counter,
		name:    name,
		limit:   limit,
		window:  window,
		now:     time.Now,
		logger:  logging.WithComponent("ratelimit"),
	}
}

// Check counts one operation for key and reports whether it is allowed.
// Counter failures fail open: limiting is backpressure, not access control.
func (l *Limiter) Check(ctx context.Context, key string) Result {
	if l == nil || l.counter == nil {
		return Result{Allowed: true}
	}

	now := l.now()
	curStart := now.Truncate(l.window)
	prevStart := curStart.Add(-l.window)

	curKey := l.windowKey(key, curStart)
	prevKey := l.windowKey(key, prevStart)

	cur, err := l.counter.Incr(ctx, curKey, 2*l.window)
	if err != nil {
		l.logger.Warn("limiter counter unavailable, allowing request",
			zap.String("limiter", l.name), zap.Error(err))
		return Result{Allowed: true, ResetAt: curStart.Add(l.window)}
	}

	prev, err := l.counter.GetInt(ctx, prevKey)
	if err != nil {
		prev = 0
	}

	// Weighted count over the trailing window
	elapsed := float64(now.Sub(curStart)) / float64(l.window)
	estimated := float64(prev)*(1-elapsed) + float64(cur)

	remaining := l.limit - int(estimated)
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   estimated <= float64(l.limit),
		Remaining: remaining,
		ResetAt:   curStart.Add(l.window),
	}
}

func (l *Limiter) windowKey(key string, start time.Time) string {
	return fmt.Sprintf("ratelimit:%s:%s:%d", l.name, key, start.Unix())
}
