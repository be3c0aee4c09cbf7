// Package ratelimit bounds lookup traffic per identity with a fixed window.
// Limiting is a traffic concern, not an access-control one: limiter failures
// fail open (with logging), while the membership gate stays fail-closed.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"dialbook/internal/domain"
)

// Limiter decides whether an identity may perform another lookup right now.
type Limiter interface {
	Allow(ctx context.Context, identity domain.Identity) bool
}

// Window describes a fixed-window budget.
type Window struct {
	Limit  int
	Period time.Duration
}

// MemoryLimiter is the single-process fixed-window implementation.
type MemoryLimiter struct {
	window Window
	clock  func() time.Time

	mu      sync.Mutex
	buckets map[domain.Identity]*bucket
}

type bucket struct {
	windowStart time.Time
	count       int
}

type MemoryOption func(*MemoryLimiter)

// WithClock sets the clock function for testability.
func WithClock(clock func() time.Time) MemoryOption {
	return func(l *MemoryLimiter) {
		if clock != nil {
			l.clock = clock
		}
	}
}

func NewMemory(window Window, opts ...MemoryOption) *MemoryLimiter {
	l := &MemoryLimiter{
		window:  window,
		clock:   time.Now,
		buckets: make(map[domain.Identity]*bucket),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *MemoryLimiter) Allow(_ context.Context, identity domain.Identity) bool {
	if l.window.Limit <= 0 {
		return true
	}

	now := l.clock()
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[identity]
	if !ok || now.Sub(b.windowStart) >= l.window.Period {
		l.buckets[identity] = &bucket{windowStart: now, count: 1}
		return true
	}
	if b.count >= l.window.Limit {
		return false
	}
	b.count++
	return true
}
