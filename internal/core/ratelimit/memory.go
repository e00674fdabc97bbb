package ratelimit

import (
	"context"
	"sync"
	"time"
)

const (
	DefaultLimit  = 2
	DefaultWindow = 20 * time.Minute
)

type entry struct {
	count       int
	windowStart time.Time
}

// MemoryLimiter is an in-process fixed-window limiter. State lives only in
// process memory: a restart resets every counter, which is the documented
// behaviour of this deployment.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	limit   int
	window  time.Duration
	now     func() time.Time
}

// MemoryOption customises a MemoryLimiter at construction time.
type MemoryOption func(*MemoryLimiter)

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(l *MemoryLimiter) { l.now = now }
}

// NewMemoryLimiter creates a limiter admitting limit events per window per
// key. Non-positive arguments fall back to the defaults (2 per 20 minutes).
func NewMemoryLimiter(limit int, window time.Duration, opts ...MemoryOption) *MemoryLimiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	l := &MemoryLimiter{
		entries: make(map[string]*entry),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Admit records an admission attempt for key and reports whether it is
// allowed. The read-modify-write of the key's entry happens under the
// limiter mutex, so two concurrent requests can never both take the last
// slot.
func (l *MemoryLimiter) Admit(_ context.Context, key string) (Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e := l.liveEntry(key, now)
	if e == nil {
		e = &entry{windowStart: now}
		l.entries[key] = e
	}
	e.count++

	return Result{
		Allowed:    e.count <= l.limit,
		Remaining:  remaining(l.limit, e.count),
		ResetAfter: resetAfter(e.windowStart, l.window, now),
	}, nil
}

// Status reports the key's current window without counting as an attempt.
func (l *MemoryLimiter) Status(_ context.Context, key string) (Status, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e := l.liveEntry(key, now)
	if e == nil {
		return Status{Remaining: l.limit, Limit: l.limit}, nil
	}

	rem := remaining(l.limit, e.count)
	return Status{
		Remaining:  rem,
		Limit:      l.limit,
		ResetAfter: resetAfter(e.windowStart, l.window, now),
		IsLimited:  rem == 0,
	}, nil
}

// StartSweeper evicts expired entries every interval until ctx is cancelled.
// Eviction is advisory: a missing entry is equivalent to a fresh window, so
// the sweep can never flip an admit/deny decision.
func (l *MemoryLimiter) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
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
	}()
}

// liveEntry returns the entry for key if its window is still open, evicting
// it lazily otherwise. Caller must hold the mutex.
func (l *MemoryLimiter) liveEntry(key string, now time.Time) *entry {
	e, ok := l.entries[key]
	if !ok {
		return nil
	}
	if now.Sub(e.windowStart) >= l.window {
		delete(l.entries, key)
		return nil
	}
	return e
}

func (l *MemoryLimiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, e := range l.entries {
		if now.Sub(e.windowStart) >= l.window {
			delete(l.entries, key)
		}
	}
}

func remaining(limit, count int) int {
	if count >= limit {
		return 0
	}
	return limit - count
}

func resetAfter(windowStart time.Time, window time.Duration, now time.Time) time.Duration {
	left := window - now.Sub(windowStart)
	if left < 0 {
		return 0
	}
	return left
}
