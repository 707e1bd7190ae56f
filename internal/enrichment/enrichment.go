package enrichment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/cenkalti/backoff/v4"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/cardkeeper/card-indexer/internal/adapter"
	"github.com/cardkeeper/card-indexer/internal/domain"
	"github.com/cardkeeper/card-indexer/internal/logger"
	"github.com/cardkeeper/card-indexer/internal/providers/marketplace"
	"github.com/cardkeeper/card-indexer/internal/store"
	"github.com/cardkeeper/card-indexer/internal/store/schema"
)

const (
	// LAST_RUN_KEY is the key-value store key holding the latest run report
	LAST_RUN_KEY = "enrichment:last_run"

	DEFAULT_BATCH_SIZE       = 3
	DEFAULT_MAX_ATTEMPTS     = 2
	DEFAULT_RETRY_BASE_DELAY = 2 * time.Second
	DEFAULT_BATCH_PAUSE      = 5 * time.Second
)

// Config holds configuration for the marketplace enrichment batcher
type Config struct {
	BatchSize      int           // Editions resolved concurrently per batch
	MaxAttempts    int           // Attempts per edition, including the first
	RetryBaseDelay time.Duration // Delay before retry n is RetryBaseDelay * n
	BatchPause     time.Duration // Pause between batches
}

// Report summarizes one enrichment run
type Report struct {
	RunID       string    `json:"runId"`
	StartedAt   time.Time `json:"startedAt"`
	FinishedAt  time.Time `json:"finishedAt"`
	Processed   int       `json:"processed"`
	Succeeded   int       `json:"succeeded"`
	Failed      int       `json:"failed"`
	FailedCodes []string  `json:"failedCodes"`
	DurationMs  int64     `json:"durationMs"`
}

// Batcher back-fills marketplace URLs for editions that lack one
//
//go:generate mockgen -source=enrichment.go -destination=../mocks/enrichment.go -package=mocks -mock_names=Batcher=MockEnrichmentBatcher
type Batcher interface {
	// Run performs a full enrichment pass and blocks until it completes.
	// Returns domain.ErrRunInProgress when another run is active.
	Run(ctx context.Context) (*Report, error)
	// Start launches a full enrichment pass in the background and returns its run id.
	// Returns domain.ErrRunInProgress when another run is active.
	Start(ctx context.Context) (string, error)
	// EnrichOne resolves and persists the marketplace URL of a single edition code
	EnrichOne(ctx context.Context, code string) (string, error)
	// LatestReport returns the report of the last completed run, or nil if none exists
	LatestReport(ctx context.Context) (*Report, error)
}

type batcher struct {
	config   Config
	store    store.Store
	resolver marketplace.Resolver
	launcher adapter.BrowserLauncher
	clock    adapter.Clock
	json     adapter.JSON
	running  atomic.Bool
}

// NewBatcher creates a new marketplace enrichment batcher
func NewBatcher(
	config Config,
	st store.Store,
	resolver marketplace.Resolver,
	launcher adapter.BrowserLauncher,
	clock adapter.Clock,
	jsonAdapter adapter.JSON,
) Batcher {
	if config.BatchSize <= 0 {
		config.BatchSize = DEFAULT_BATCH_SIZE
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DEFAULT_MAX_ATTEMPTS
	}
	if config.RetryBaseDelay < 0 {
		config.RetryBaseDelay = DEFAULT_RETRY_BASE_DELAY
	}
	if config.BatchPause < 0 {
		config.BatchPause = DEFAULT_BATCH_PAUSE
	}

	return &batcher{
		config:   config,
		store:    st,
		resolver: resolver,
		launcher: launcher,
		clock:    clock,
		json:     jsonAdapter,
	}
}

// Run performs a full enrichment pass
func (b *batcher) Run(ctx context.Context) (*Report, error) {
	if !b.running.CompareAndSwap(false, true) {
		return nil, domain.ErrRunInProgress
	}
	defer b.running.Store(false)

	return b.run(ctx, b.newRunID())
}

// Start launches a full enrichment pass in the background
func (b *batcher) Start(ctx context.Context) (string, error) {
	if !b.running.CompareAndSwap(false, true) {
		return "", domain.ErrRunInProgress
	}

	runID := b.newRunID()
	go func() {
		defer b.running.Store(false)
		if _, err := b.run(ctx, runID); err != nil {
			logger.ErrorCtx(ctx, err, zap.String("run_id", runID))
		}
	}()

	return runID, nil
}

func (b *batcher) newRunID() string {
	return ulid.MustNewDefault(b.clock.Now()).String()
}

func (b *batcher) run(ctx context.Context, runID string) (*Report, error) {
	ctx = logger.WithFields(ctx, zap.String("run_id", runID))
	startTime := b.clock.Now()

	report := &Report{
		RunID:       runID,
		StartedAt:   startTime.UTC(),
		FailedCodes: []string{},
	}

	editions, err := b.store.GetEditionsMissingMarketplaceURL(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get editions missing marketplace url: %w", err)
	}

	logger.InfoCtx(ctx, "Starting enrichment run",
		zap.Int("editions", len(editions)),
		zap.Int("batch_size", b.config.BatchSize),
		zap.Int("max_attempts", b.config.MaxAttempts))

	if len(editions) > 0 {
		if err := b.enrichAll(ctx, editions, report); err != nil {
			return nil, err
		}
	}

	duration := b.clock.Since(startTime)
	report.FinishedAt = startTime.Add(duration).UTC()
	report.DurationMs = duration.Milliseconds()

	logger.InfoCtx(ctx, "Enrichment run completed",
		zap.Duration("duration", duration),
		zap.Int("processed", report.Processed),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("failed", report.Failed))

	if err := b.saveReport(ctx, report); err != nil {
		logger.WarnCtx(ctx, "Failed to persist enrichment report", zap.Error(err))
	}

	return report, nil
}

// enrichAll resolves every edition in fixed-size batches sharing one browser
func (b *batcher) enrichAll(ctx context.Context, editions []schema.CardEdition, report *Report) error {
	browser, err := b.launcher.Launch(ctx)
	if err != nil {
		return domain.NewError(domain.ErrorKindExternal, "", fmt.Errorf("failed to launch browser: %w", err))
	}
	defer func() {
		if err := browser.Close(); err != nil {
			logger.WarnCtx(ctx, "Failed to close browser", zap.Error(err))
		}
	}()

	pool := pond.NewPool(b.config.BatchSize, pond.WithContext(ctx))
	defer pool.StopAndWait()

	var mu sync.Mutex
	for start := 0; start < len(editions); start += b.config.BatchSize {
		end := min(start+b.config.BatchSize, len(editions))
		batch := editions[start:end]

		logger.InfoCtx(ctx, "Processing enrichment batch",
			zap.Int("from", start),
			zap.Int("to", end),
			zap.Int("total", len(editions)))

		group := pool.NewGroup()
		for _, edition := range batch {
			group.Submit(func() {
				_, err := b.enrich(ctx, browser, edition.CardNumber)

				mu.Lock()
				defer mu.Unlock()
				report.Processed++
				if err != nil {
					report.Failed++
					report.FailedCodes = append(report.FailedCodes, edition.CardNumber)
					return
				}
				report.Succeeded++
			})
		}
		if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			logger.WarnCtx(ctx, "Enrichment batch did not complete", zap.Error(err))
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		if end < len(editions) && !b.sleep(ctx, b.config.BatchPause) {
			return ctx.Err()
		}
	}

	return nil
}

// EnrichOne resolves and persists the marketplace URL of a single edition code
func (b *batcher) EnrichOne(ctx context.Context, code string) (string, error) {
	browser, err := b.launcher.Launch(ctx)
	if err != nil {
		return "", domain.NewError(domain.ErrorKindExternal, "", fmt.Errorf("failed to launch browser: %w", err))
	}
	defer func() {
		if err := browser.Close(); err != nil {
			logger.WarnCtx(ctx, "Failed to close browser", zap.Error(err))
		}
	}()

	return b.enrich(ctx, browser, code)
}

// enrich resolves one code with linear retry and persists the result
func (b *batcher) enrich(ctx context.Context, browser adapter.Browser, code string) (string, error) {
	var resolved string
	operation := func() error {
		u, err := b.resolver.Resolve(ctx, browser, code)
		if err != nil {
			if domain.KindOf(err) == domain.ErrorKindValidation || domain.KindOf(err) == domain.ErrorKindContract {
				return backoff.Permanent(err)
			}
			return err
		}
		resolved = u
		return nil
	}

	var attempt int
	notify := func(err error, next time.Duration) {
		attempt++
		logger.WarnCtx(ctx, "Marketplace lookup failed, retrying",
			zap.String("code", code),
			zap.Int("attempt", attempt),
			zap.Duration("next_retry_in", next),
			zap.Error(err))
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(NewLinearBackOff(b.config.RetryBaseDelay), uint64(b.config.MaxAttempts-1)), //nolint:gosec,G115 // MaxAttempts is at least 1
		ctx)

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		logger.ErrorCtx(ctx, err,
			zap.String("message", "Marketplace lookup exhausted"),
			zap.String("code", code),
			zap.Int("attempts", attempt+1))
		return "", err
	}

	if err := b.store.UpdateMarketplaceURLByCode(ctx, code, resolved); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("code", code))
		return "", err
	}

	logger.InfoCtx(ctx, "Resolved marketplace url", zap.String("code", code), zap.String("url", resolved))

	return resolved, nil
}

// LatestReport returns the report of the last completed run
func (b *batcher) LatestReport(ctx context.Context) (*Report, error) {
	value, err := b.store.GetKeyValue(ctx, LAST_RUN_KEY)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest enrichment report: %w", err)
	}
	if value == "" {
		return nil, nil
	}

	var report Report
	if err := b.json.Unmarshal([]byte(value), &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal enrichment report: %w", err)
	}

	return &report, nil
}

func (b *batcher) saveReport(ctx context.Context, report *Report) error {
	data, err := b.json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal enrichment report: %w", err)
	}
	return b.store.SetKeyValue(ctx, LAST_RUN_KEY, string(data))
}

// sleep sleeps for the given duration but can be interrupted by context cancellation
// Returns true if sleep completed normally, false if interrupted by context
func (b *batcher) sleep(ctx context.Context, duration time.Duration) bool {
	select {
	case <-b.clock.After(duration):
		return true
	case <-ctx.Done():
		return false
	}
}
