// Package ratelimit implements a fixed-window request limiter partitioned by
// client key. Each partition's window starts at its first request, so two
// partitions may be independently phased. Fixed windows are an approximation:
// a client can burst up to twice the permit count across a window boundary.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter counts requests per partition key over a fixed window and rejects
// immediately once the permit count is exhausted; there is no queueing.
// Partitions are created lazily and reclaimed by the sweep loop, so the map
// stays bounded under client-address churn.
type Limiter struct {
	window  time.Duration
	permits int
	parts   sync.Map // key string -> *partition

	now func() time.Time
}

type partition struct {
	mu    sync.Mutex
	start time.Time
	count int
	// gone marks a partition removed by the sweeper. A request that raced
	// the sweep re-fetches instead of counting against a detached entry.
	gone bool
}

func New(window time.Duration, permits int) *Limiter {
	return &Limiter{window: window, permits: permits, now: time.Now}
}

// Allow records one request for key and reports whether it is admitted. On
// rejection, retryAfter carries the window duration as the client hint.
func (l *Limiter) Allow(key string) (ok bool, retryAfter time.Duration) {
	for {
		v, _ := l.parts.LoadOrStore(key, &partition{})
		p := v.(*partition)

		p.mu.Lock()
		if p.gone {
			p.mu.Unlock()
			continue
		}

		now := l.now()
		if p.start.IsZero() || now.Sub(p.start) >= l.window {
			p.start = now
			p.count = 0
		}
		p.count++
		admitted := p.count <= l.permits
		p.mu.Unlock()

		if admitted {
			return true, 0
		}
		return false, l.window
	}
}

// Run sweeps stale partitions on the given interval until ctx is done.
func (l *Limiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.sweep()
		}
	}
}

// staleAfter is the number of windows a partition may sit idle before the
// sweeper reclaims it.
const staleAfter = 3

func (l *Limiter) sweep() {
	cutoff := l.now().Add(-time.Duration(staleAfter) * l.window)

	l.parts.Range(func(key, v any) bool {
		p := v.(*partition)
		p.mu.Lock()
		if p.start.Before(cutoff) {
			p.gone = true
			l.parts.Delete(key)
		}
		p.mu.Unlock()
		return true
	})
}
