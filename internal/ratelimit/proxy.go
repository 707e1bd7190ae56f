package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/go-redis/redis_rate/v10"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/cardkeeper/card-indexer/internal/adapter"
	"github.com/cardkeeper/card-indexer/internal/config"
	"github.com/cardkeeper/card-indexer/internal/domain"
	"github.com/cardkeeper/card-indexer/internal/logger"
)

var (
	// ErrProxyClosed is returned for requests submitted after Close
	ErrProxyClosed = errors.New("rate limit proxy is closed")

	// ErrQueueTimeout is returned when a request waited longer than the provider's max queue time
	ErrQueueTimeout = errors.New("rate limit queue time exceeded")
)

// RequestFunc performs the upstream call once a token is held
type RequestFunc func(ctx context.Context) (any, error)

type requestResult struct {
	value any
	err   error
}

// Proxy throttles calls to upstream providers against a budget shared by every process
//
//go:generate mockgen -source=proxy.go -destination=../mocks/ratelimit_proxy.go -package=mocks -mock_names=Proxy=MockRateLimitProxy
type Proxy interface {
	// Request runs fn once a token for providerName is acquired
	Request(ctx context.Context, providerName string, fn RequestFunc) (any, error)

	// Close stops accepting requests and waits for in-flight ones
	Close() error
}

type proxy struct {
	config         config.RateLimiterConfig
	pool           pond.ResultPool[*requestResult]
	limiters       map[string]*providerLimiter
	redis          adapter.RedisClient
	clock          adapter.Clock
	redisAvailable atomic.Bool
	closed         atomic.Bool
	closeOnce      sync.Once
	done           chan struct{}
}

// providerLimiter holds the token sources of a single provider
type providerLimiter struct {
	name        string
	config      config.RateLimitConfig
	distributed adapter.RedisRateLimiter

	// local takes over while Redis is down, at a reduced rate
	local *rate.Limiter

	// preFilter keeps a single process from hammering Redis with denied calls
	preFilter *rate.Limiter
}

// NewProxy creates a rate limiting proxy backed by rc. The caller keeps ownership of rc.
func NewProxy(cfg config.RateLimiterConfig, rc adapter.RedisClient, clock adapter.Clock) (Proxy, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, domain.NewError(domain.ErrorKindContract, "", fmt.Errorf("invalid rate limiter configuration: %w", err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	redisAvailable := true
	if err := rc.Ping(ctx); err != nil {
		if !cfg.EnableLocalFallback {
			return nil, fmt.Errorf("redis unavailable and local fallback disabled: %w", err)
		}
		redisAvailable = false
		logger.Warn("Redis unavailable, rate limiting locally", zap.Error(err))
	}

	distributed := rc.NewRateLimiter()
	limiters := make(map[string]*providerLimiter, len(cfg.Providers))
	for name, pc := range cfg.Providers {
		localRate := max(float64(pc.RequestsPerSecond)*cfg.LocalFallbackMultiplier, 1.0)
		limiters[name] = &providerLimiter{
			name:        name,
			config:      pc,
			distributed: distributed,
			local:       rate.NewLimiter(rate.Limit(localRate), pc.Burst),
			preFilter:   rate.NewLimiter(rate.Limit(pc.RequestsPerSecond), pc.Burst),
		}
	}

	p := &proxy{
		config:   cfg,
		pool:     pond.NewResultPool[*requestResult](cfg.MaxWorkers, pond.WithQueueSize(cfg.MaxQueueSize)),
		limiters: limiters,
		redis:    rc,
		clock:    clock,
		done:     make(chan struct{}),
	}
	p.redisAvailable.Store(redisAvailable)

	go p.monitorRedis()

	logger.Info("Rate limit proxy initialized",
		zap.Int("maxWorkers", cfg.MaxWorkers),
		zap.Int("maxQueueSize", cfg.MaxQueueSize),
		zap.Int("providers", len(cfg.Providers)),
		zap.Bool("localFallback", cfg.EnableLocalFallback),
	)

	return p, nil
}

// Request runs fn through p and returns its typed result. A nil proxy calls fn directly.
func Request[T any](ctx context.Context, p Proxy, providerName string, fn func(ctx context.Context) (T, error)) (T, error) {
	if p == nil {
		return fn(ctx)
	}

	var zero T
	result, err := p.Request(ctx, providerName, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}
	return result.(T), nil
}

func (p *proxy) Request(ctx context.Context, providerName string, fn RequestFunc) (any, error) {
	if p.closed.Load() {
		return nil, ErrProxyClosed
	}

	limiter, ok := p.limiters[providerName]
	if !ok {
		return nil, domain.NewError(domain.ErrorKindContract, "", fmt.Errorf("rate limit provider %q not configured", providerName))
	}

	// The queue deadline bounds token acquisition only; fn runs under the caller's ctx
	task := p.pool.Submit(func() *requestResult {
		if err := p.acquire(ctx, limiter); err != nil {
			return &requestResult{err: err}
		}
		value, err := fn(ctx)
		return &requestResult{value: value, err: err}
	})

	result, err := task.Wait()
	if err != nil {
		return nil, err
	}
	return result.value, result.err
}

// acquire blocks until limiter grants a token or the queue deadline passes
func (p *proxy) acquire(ctx context.Context, limiter *providerLimiter) error {
	queueCtx, cancel := context.WithTimeout(ctx, limiter.config.MaxQueueTime)
	defer cancel()

	for {
		if err := queueCtx.Err(); err != nil {
			return p.queueError(ctx, limiter, err)
		}

		if p.redisAvailable.Load() {
			allowed, retryAfter, err := p.tryDistributed(queueCtx, limiter)
			switch {
			case err != nil && queueCtx.Err() != nil:
				return p.queueError(ctx, limiter, queueCtx.Err())
			case err != nil:
				if !p.config.EnableLocalFallback {
					return fmt.Errorf("redis rate limiter unavailable: %w", err)
				}
				p.redisAvailable.Store(false)
				logger.Warn("Redis rate limiter failed, rate limiting locally",
					zap.String("provider", limiter.name),
					zap.Error(err))
			case allowed:
				return nil
			default:
				// Spread retries over 50-150% of the advertised wait
				wait := time.Duration(float64(retryAfter) * (0.5 + rand.Float64())) //nolint:gosec,G404
				select {
				case <-queueCtx.Done():
					return p.queueError(ctx, limiter, queueCtx.Err())
				case <-p.clock.After(wait):
				}
				continue
			}
		}

		if p.config.EnableLocalFallback {
			if err := limiter.local.Wait(queueCtx); err != nil {
				return p.queueError(ctx, limiter, err)
			}
			return nil
		}

		select {
		case <-queueCtx.Done():
			return p.queueError(ctx, limiter, queueCtx.Err())
		case <-p.clock.After(100 * time.Millisecond):
		}
	}
}

// queueError keeps caller cancellation distinct from an exhausted queue budget
func (p *proxy) queueError(ctx context.Context, limiter *providerLimiter, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return domain.NewError(domain.ErrorKindTransient, "",
		fmt.Errorf("%w: provider %s after %s: %v", ErrQueueTimeout, limiter.name, limiter.config.MaxQueueTime, err))
}

func (p *proxy) tryDistributed(ctx context.Context, limiter *providerLimiter) (bool, time.Duration, error) {
	if err := limiter.preFilter.Wait(ctx); err != nil {
		return false, 0, err
	}

	key := p.config.RedisKeyPrefix + limiter.name
	res, err := limiter.distributed.Allow(ctx, key, redis_rate.PerSecond(limiter.config.RequestsPerSecond))
	if err != nil {
		return false, 0, err
	}

	if res.Allowed == 0 {
		logger.Debug("Rate limit token unavailable",
			zap.String("provider", limiter.name),
			zap.Duration("retryAfter", res.RetryAfter))
		return false, max(res.RetryAfter, time.Millisecond), nil
	}

	return true, 0, nil
}

// monitorRedis re-enables the distributed limiter once Redis answers again
func (p *proxy) monitorRedis() {
	for {
		select {
		case <-p.done:
			return
		case <-p.clock.After(p.config.HealthCheckInterval):
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := p.redis.Ping(ctx)
		cancel()

		available := err == nil
		if p.redisAvailable.Swap(available) != available && available {
			logger.Info("Redis connection restored, rate limiting globally")
		}
	}
}

func (p *proxy) Close() error {
	var err error
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.done)

		logger.Info("Shutting down rate limit proxy")
		if waitErr := p.pool.Stop().Wait(); waitErr != nil {
			logger.Warn("Error waiting for in-flight requests", zap.Error(waitErr))
			err = waitErr
		}
	})
	return err
}

// validateConfig validates cfg and fills in defaults
func validateConfig(cfg *config.RateLimiterConfig) error {
	if len(cfg.Providers) == 0 {
		return errors.New("at least one provider must be configured")
	}

	providers := make(map[string]config.RateLimitConfig, len(cfg.Providers))
	for name, pc := range cfg.Providers {
		if pc.RequestsPerSecond <= 0 {
			return fmt.Errorf("provider %s: requests_per_second must be positive", name)
		}
		if pc.Burst <= 0 {
			pc.Burst = pc.RequestsPerSecond
		}
		if pc.MaxQueueTime <= 0 {
			pc.MaxQueueTime = 5 * time.Minute
		}
		providers[name] = pc
	}
	cfg.Providers = providers

	if cfg.RedisKeyPrefix == "" {
		cfg.RedisKeyPrefix = "card-indexer:limiter:"
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = runtime.NumCPU() * 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 1000
	}
	if cfg.LocalFallbackMultiplier <= 0 {
		cfg.LocalFallbackMultiplier = 0.5
	}
	if cfg.HealthCheckInterval <= 0 {
		cfg.HealthCheckInterval = 10 * time.Second
	}

	return nil
}
