package ratelimit_test

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardkeeper/card-indexer/internal/config"
	"github.com/cardkeeper/card-indexer/internal/domain"
	"github.com/cardkeeper/card-indexer/internal/logger"
	"github.com/cardkeeper/card-indexer/internal/mocks"
	"github.com/cardkeeper/card-indexer/internal/ratelimit"
)

const healthCheckInterval = time.Hour

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

// testProxyMocks contains all the mocks needed for testing the proxy
type testProxyMocks struct {
	ctrl             *gomock.Controller
	redisClient      *mocks.MockRedisClient
	redisRateLimiter *mocks.MockRedisRateLimiter
	clock            *mocks.MockClock
}

func setupTestProxy(t *testing.T) *testProxyMocks {
	ctrl := gomock.NewController(t)

	return &testProxyMocks{
		ctrl:             ctrl,
		redisClient:      mocks.NewMockRedisClient(ctrl),
		redisRateLimiter: mocks.NewMockRedisRateLimiter(ctrl),
		clock:            mocks.NewMockClock(ctrl),
	}
}

func tearDownTestProxy(m *testProxyMocks) {
	m.ctrl.Finish()
}

func testConfig() config.RateLimiterConfig {
	return config.RateLimiterConfig{
		MaxWorkers:          4,
		MaxQueueSize:        100,
		EnableLocalFallback: true,
		HealthCheckInterval: healthCheckInterval,
	}.WithProvider("cardinfo", config.RateLimitConfig{
		RequestsPerSecond: 100,
		Burst:             100,
		MaxQueueTime:      time.Second,
	})
}

func never() <-chan time.Time {
	return make(chan time.Time)
}

func fired(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}

// newProxy builds a proxy whose health monitor never fires
func newProxy(t *testing.T, m *testProxyMocks, cfg config.RateLimiterConfig, pingErr error) ratelimit.Proxy {
	m.redisClient.EXPECT().Ping(gomock.Any()).Return(pingErr)
	m.redisClient.EXPECT().NewRateLimiter().Return(m.redisRateLimiter)
	m.clock.EXPECT().After(healthCheckInterval).Return(never()).AnyTimes()

	p, err := ratelimit.NewProxy(cfg, m.redisClient, m.clock)
	require.NoError(t, err)
	return p
}

func echo(value string) ratelimit.RequestFunc {
	return func(ctx context.Context) (any, error) {
		return value, nil
	}
}

func TestNewProxy(t *testing.T) {
	t.Run("redis available", func(t *testing.T) {
		m := setupTestProxy(t)
		defer tearDownTestProxy(m)

		p := newProxy(t, m, testConfig(), nil)
		assert.NoError(t, p.Close())
	})

	t.Run("redis unavailable without fallback", func(t *testing.T) {
		m := setupTestProxy(t)
		defer tearDownTestProxy(m)

		cfg := testConfig()
		cfg.EnableLocalFallback = false
		m.redisClient.EXPECT().Ping(gomock.Any()).Return(errors.New("connection refused"))

		p, err := ratelimit.NewProxy(cfg, m.redisClient, m.clock)
		assert.Error(t, err)
		assert.Nil(t, p)
	})

	t.Run("no providers", func(t *testing.T) {
		m := setupTestProxy(t)
		defer tearDownTestProxy(m)

		_, err := ratelimit.NewProxy(config.RateLimiterConfig{}, m.redisClient, m.clock)
		require.Error(t, err)
		assert.Equal(t, domain.ErrorKindContract, domain.KindOf(err))
	})

	t.Run("invalid rate", func(t *testing.T) {
		m := setupTestProxy(t)
		defer tearDownTestProxy(m)

		cfg := config.RateLimiterConfig{}.WithProvider("cardinfo", config.RateLimitConfig{RequestsPerSecond: 0})

		_, err := ratelimit.NewProxy(cfg, m.redisClient, m.clock)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "requests_per_second must be positive")
	})
}

func TestProxy_Request(t *testing.T) {
	t.Run("token granted", func(t *testing.T) {
		m := setupTestProxy(t)
		defer tearDownTestProxy(m)

		p := newProxy(t, m, testConfig(), nil)
		defer func() { _ = p.Close() }()

		m.redisRateLimiter.EXPECT().
			Allow(gomock.Any(), "card-indexer:limiter:cardinfo", redis_rate.PerSecond(100)).
			Return(&redis_rate.Result{Allowed: 1}, nil)

		got, err := ratelimit.Request(context.Background(), p, "cardinfo", func(ctx context.Context) ([]string, error) {
			return []string{"Metal Raiders"}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"Metal Raiders"}, got)
	})

	t.Run("unknown provider", func(t *testing.T) {
		m := setupTestProxy(t)
		defer tearDownTestProxy(m)

		p := newProxy(t, m, testConfig(), nil)
		defer func() { _ = p.Close() }()

		_, err := p.Request(context.Background(), "wiki", echo("x"))
		require.Error(t, err)
		assert.Equal(t, domain.ErrorKindContract, domain.KindOf(err))
	})

	t.Run("request error returned", func(t *testing.T) {
		m := setupTestProxy(t)
		defer tearDownTestProxy(m)

		p := newProxy(t, m, testConfig(), nil)
		defer func() { _ = p.Close() }()

		m.redisRateLimiter.EXPECT().
			Allow(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&redis_rate.Result{Allowed: 1}, nil)

		upstream := errors.New("upstream 500")
		_, err := p.Request(context.Background(), "cardinfo", func(ctx context.Context) (any, error) {
			return nil, upstream
		})
		assert.ErrorIs(t, err, upstream)
	})

	t.Run("waits out a denied token", func(t *testing.T) {
		m := setupTestProxy(t)
		defer tearDownTestProxy(m)

		p := newProxy(t, m, testConfig(), nil)
		defer func() { _ = p.Close() }()

		gomock.InOrder(
			m.redisRateLimiter.EXPECT().
				Allow(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(&redis_rate.Result{Allowed: 0, RetryAfter: 200 * time.Millisecond}, nil),
			m.redisRateLimiter.EXPECT().
				Allow(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(&redis_rate.Result{Allowed: 1}, nil),
		)
		m.clock.EXPECT().
			After(gomock.Not(healthCheckInterval)).
			DoAndReturn(func(d time.Duration) <-chan time.Time {
				assert.GreaterOrEqual(t, d, 100*time.Millisecond)
				assert.LessOrEqual(t, d, 300*time.Millisecond)
				return fired(d)
			})

		got, err := p.Request(context.Background(), "cardinfo", echo("ok"))
		require.NoError(t, err)
		assert.Equal(t, "ok", got)
	})

	t.Run("queue time exceeded is transient", func(t *testing.T) {
		m := setupTestProxy(t)
		defer tearDownTestProxy(m)

		cfg := testConfig().WithProvider("cardinfo", config.RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             100,
			MaxQueueTime:      50 * time.Millisecond,
		})
		p := newProxy(t, m, cfg, nil)
		defer func() { _ = p.Close() }()

		m.redisRateLimiter.EXPECT().
			Allow(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&redis_rate.Result{Allowed: 0, RetryAfter: time.Minute}, nil)
		m.clock.EXPECT().After(gomock.Not(healthCheckInterval)).Return(never())

		_, err := p.Request(context.Background(), "cardinfo", echo("never"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ratelimit.ErrQueueTimeout)
		assert.Equal(t, domain.ErrorKindTransient, domain.KindOf(err))
	})

	t.Run("caller cancellation wins", func(t *testing.T) {
		m := setupTestProxy(t)
		defer tearDownTestProxy(m)

		p := newProxy(t, m, testConfig(), nil)
		defer func() { _ = p.Close() }()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := p.Request(ctx, "cardinfo", echo("never"))
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("redis failure falls back to local limiting", func(t *testing.T) {
		m := setupTestProxy(t)
		defer tearDownTestProxy(m)

		p := newProxy(t, m, testConfig(), nil)
		defer func() { _ = p.Close() }()

		// Only the first request reaches Redis
		m.redisRateLimiter.EXPECT().
			Allow(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("connection reset")).
			Times(1)

		for range 3 {
			got, err := p.Request(context.Background(), "cardinfo", echo("ok"))
			require.NoError(t, err)
			assert.Equal(t, "ok", got)
		}
	})

	t.Run("redis failure without fallback", func(t *testing.T) {
		m := setupTestProxy(t)
		defer tearDownTestProxy(m)

		cfg := testConfig()
		cfg.EnableLocalFallback = false
		p := newProxy(t, m, cfg, nil)
		defer func() { _ = p.Close() }()

		m.redisRateLimiter.EXPECT().
			Allow(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("connection reset"))

		_, err := p.Request(context.Background(), "cardinfo", echo("never"))
		assert.ErrorContains(t, err, "redis rate limiter unavailable")
	})

	t.Run("starts locally when redis is down", func(t *testing.T) {
		m := setupTestProxy(t)
		defer tearDownTestProxy(m)

		p := newProxy(t, m, testConfig(), errors.New("connection refused"))
		defer func() { _ = p.Close() }()

		got, err := p.Request(context.Background(), "cardinfo", echo("ok"))
		require.NoError(t, err)
		assert.Equal(t, "ok", got)
	})
}

func TestProxy_RedisRestored(t *testing.T) {
	m := setupTestProxy(t)
	defer tearDownTestProxy(m)

	restored := make(chan struct{})
	var checks atomic.Int32

	gomock.InOrder(
		m.redisClient.EXPECT().Ping(gomock.Any()).Return(errors.New("connection refused")),
		m.redisClient.EXPECT().Ping(gomock.Any()).Return(nil),
	)
	m.redisClient.EXPECT().NewRateLimiter().Return(m.redisRateLimiter)
	m.clock.EXPECT().
		After(healthCheckInterval).
		DoAndReturn(func(d time.Duration) <-chan time.Time {
			switch checks.Add(1) {
			case 1:
				return fired(d)
			case 2:
				close(restored)
			}
			return never()
		}).
		AnyTimes()

	p, err := ratelimit.NewProxy(testConfig(), m.redisClient, m.clock)
	require.NoError(t, err)
	defer func() { _ = p.Close() }()

	select {
	case <-restored:
	case <-time.After(5 * time.Second):
		t.Fatal("health check did not run")
	}

	m.redisRateLimiter.EXPECT().
		Allow(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&redis_rate.Result{Allowed: 1}, nil)

	_, err = p.Request(context.Background(), "cardinfo", echo("ok"))
	assert.NoError(t, err)
}

func TestProxy_Close(t *testing.T) {
	m := setupTestProxy(t)
	defer tearDownTestProxy(m)

	p := newProxy(t, m, testConfig(), nil)

	assert.NoError(t, p.Close())
	assert.NoError(t, p.Close())

	_, err := p.Request(context.Background(), "cardinfo", echo("never"))
	assert.ErrorIs(t, err, ratelimit.ErrProxyClosed)
}

func TestRequest_NilProxy(t *testing.T) {
	got, err := ratelimit.Request(context.Background(), nil, "cardinfo", func(ctx context.Context) (int, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}
