package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"dialbook/internal/domain"
)

func TestMemoryLimiterEnforcesWindow(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewMemory(Window{Limit: 3, Period: time.Minute},
		WithClock(func() time.Time { return now }))

	ctx := context.Background()
	identity := domain.Identity(1001)

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow(ctx, identity), "request %d within budget", i+1)
	}
	assert.False(t, limiter.Allow(ctx, identity), "over-budget request denied")
}

func TestMemoryLimiterResetsAfterPeriod(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewMemory(Window{Limit: 1, Period: time.Minute},
		WithClock(func() time.Time { return now }))

	ctx := context.Background()
	identity := domain.Identity(1001)

	assert.True(t, limiter.Allow(ctx, identity))
	assert.False(t, limiter.Allow(ctx, identity))

	now = now.Add(time.Minute)
	assert.True(t, limiter.Allow(ctx, identity), "fresh window after the period elapses")
}

func TestMemoryLimiterIsolatesIdentities(t *testing.T) {
	limiter := NewMemory(Window{Limit: 1, Period: time.Minute})
	ctx := context.Background()

	assert.True(t, limiter.Allow(ctx, domain.Identity(1)))
	assert.False(t, limiter.Allow(ctx, domain.Identity(1)))
	assert.True(t, limiter.Allow(ctx, domain.Identity(2)), "other identities keep their own budget")
}

func TestMemoryLimiterDisabledWhenLimitUnset(t *testing.T) {
	limiter := NewMemory(Window{})
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		assert.True(t, limiter.Allow(ctx, domain.Identity(1)))
	}
}
