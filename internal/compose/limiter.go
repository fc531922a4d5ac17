package compose

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"bartender/internal/services"
)

// Limiter bounds concurrent compositions. Callers that cannot get a slot
// within the queue timeout fail with services.ErrBusy.
type Limiter struct {
	sem      *semaphore.Weighted
	capacity int64
	timeout  time.Duration
	inFlight atomic.Int64
	waiting  atomic.Int64
}

// NewLimiter allows capacity concurrent holders; capacity < 1 is treated as 1.
// A non-positive timeout waits until the caller's context ends.
func NewLimiter(capacity int, timeout time.Duration) *Limiter {
	if capacity < 1 {
		capacity = 1
	}
	return &Limiter{
		sem:      semaphore.NewWeighted(int64(capacity)),
		capacity: int64(capacity),
		timeout:  timeout,
	}
}

// Acquire waits for a slot and returns its release function.
func (l *Limiter) Acquire(ctx context.Context) (func(), error) {
	waitCtx := ctx
	if l.timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	l.waiting.Add(1)
	err := l.sem.Acquire(waitCtx, 1)
	l.waiting.Add(-1)
	if err != nil {
		if ctx.Err() != nil {
			return nil, services.Wrap(services.ErrTimeout, "compose", "queue", "request cancelled while queued", ctx.Err())
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, services.Wrap(services.ErrBusy, "compose", "queue",
				fmt.Sprintf("no encode slot free within %s", l.timeout), nil)
		}
		return nil, services.Wrap(services.ErrBusy, "compose", "queue", "acquire encode slot", err)
	}
	l.inFlight.Add(1)
	var once atomic.Bool
	return func() {
		if once.CompareAndSwap(false, true) {
			l.inFlight.Add(-1)
			l.sem.Release(1)
		}
	}, nil
}

// LimiterStats is a point-in-time view of limiter usage.
type LimiterStats struct {
	Capacity int64 `json:"capacity"`
	InFlight int64 `json:"in_flight"`
	Waiting  int64 `json:"waiting"`
}

// Stats reports current usage.
func (l *Limiter) Stats() LimiterStats {
	return LimiterStats{Capacity: l.capacity, InFlight: l.inFlight.Load(), Waiting: l.waiting.Load()}
}
