//go:build integration

package ratelimit_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"dialbook/internal/domain"
	"dialbook/internal/ratelimit"
	"dialbook/pkg/testutil/containers"
)

type RedisLimiterSuite struct {
	suite.Suite
	redis *containers.RedisContainer
}

func TestRedisLimiterSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisLimiterSuite))
}

func (s *RedisLimiterSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
}

func (s *RedisLimiterSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisLimiterSuite) newLimiter(window ratelimit.Window) *ratelimit.RedisLimiter {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return ratelimit.NewRedis(s.redis.Client, window, logger)
}

func (s *RedisLimiterSuite) TestEnforcesSharedWindow() {
	ctx := context.Background()
	limiter := s.newLimiter(ratelimit.Window{Limit: 3, Period: time.Minute})
	identity := domain.Identity(1001)

	for i := 0; i < 3; i++ {
		s.True(limiter.Allow(ctx, identity))
	}
	s.False(limiter.Allow(ctx, identity))

	// A second limiter instance sees the same window state.
	other := s.newLimiter(ratelimit.Window{Limit: 3, Period: time.Minute})
	s.False(other.Allow(ctx, identity))
}

func (s *RedisLimiterSuite) TestIsolatesIdentities() {
	ctx := context.Background()
	limiter := s.newLimiter(ratelimit.Window{Limit: 1, Period: time.Minute})

	s.True(limiter.Allow(ctx, domain.Identity(1)))
	s.False(limiter.Allow(ctx, domain.Identity(1)))
	s.True(limiter.Allow(ctx, domain.Identity(2)))
}

func (s *RedisLimiterSuite) TestWindowExpires() {
	ctx := context.Background()
	limiter := s.newLimiter(ratelimit.Window{Limit: 1, Period: time.Second})
	identity := domain.Identity(1001)

	s.True(limiter.Allow(ctx, identity))
	s.False(limiter.Allow(ctx, identity))

	time.Sleep(1100 * time.Millisecond)
	s.True(limiter.Allow(ctx, identity))
}
