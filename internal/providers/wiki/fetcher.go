package wiki

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cardkeeper/card-indexer/internal/adapter"
	"github.com/cardkeeper/card-indexer/internal/domain"
	"github.com/cardkeeper/card-indexer/internal/logger"
)

const (
	// DEFAULT_PAGE_URL_TEMPLATE builds a set listing page URL from the escaped set name
	DEFAULT_PAGE_URL_TEMPLATE = "https://yugipedia.com/wiki/Set_Card_Lists:%s_(TCG-EN)"

	// DEFAULT_NAVIGATION_TIMEOUT bounds a single page navigation
	DEFAULT_NAVIGATION_TIMEOUT = 60 * time.Second
)

// transientReasons are browser network errors that are worth retrying; navigation timeouts are also transient
var transientReasons = map[string]struct{}{
	"net::ERR_SOCKET_NOT_CONNECTED":  {},
	"net::ERR_CONNECTION_RESET":      {},
	"net::ERR_CONNECTION_CLOSED":     {},
	"net::ERR_NAME_NOT_RESOLVED":     {},
	"net::ERR_CERT_VERIFIER_CHANGED": {},
	"net::ERR_TIMED_OUT":             {},
	"net::ERR_CONNECTION_TIMED_OUT":  {},
}

// Config holds the configuration for the set page fetcher
type Config struct {
	PageURLTemplate   string
	NavigationTimeout time.Duration
}

// Fetcher defines the interface for fetching set listing pages to enable mocking
//
//go:generate mockgen -source=fetcher.go -destination=../../mocks/wiki_fetcher.go -package=mocks -mock_names=Fetcher=MockWikiFetcher
type Fetcher interface {
	// FetchSetPage returns the HTML of a set's listing page.
	// Failures carry a domain error kind: transient for retryable network failures.
	FetchSetPage(ctx context.Context, setName string) (string, error)
}

type fetcher struct {
	launcher adapter.BrowserLauncher
	cfg      Config
}

// NewFetcher creates a new set page fetcher that launches one browser per fetch
func NewFetcher(cfg Config, launcher adapter.BrowserLauncher) Fetcher {
	if cfg.PageURLTemplate == "" {
		cfg.PageURLTemplate = DEFAULT_PAGE_URL_TEMPLATE
	}
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = DEFAULT_NAVIGATION_TIMEOUT
	}
	return &fetcher{launcher: launcher, cfg: cfg}
}

// PageURL returns the listing page URL for a set name
func PageURL(template string, setName string) string {
	return fmt.Sprintf(template, url.PathEscape(strings.ReplaceAll(strings.TrimSpace(setName), " ", "_")))
}

// FetchSetPage navigates to the set listing page and returns its HTML
func (f *fetcher) FetchSetPage(ctx context.Context, setName string) (string, error) {
	browser, err := f.launcher.Launch(ctx)
	if err != nil {
		return "", Classify(setName, fmt.Errorf("failed to launch browser: %w", err))
	}
	defer func() {
		if err := browser.Close(); err != nil {
			logger.WarnCtx(ctx, "failed to close browser", zap.Error(err), zap.String("set", setName))
		}
	}()

	page, err := browser.NewPage(ctx)
	if err != nil {
		return "", Classify(setName, err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			logger.WarnCtx(ctx, "failed to close page", zap.Error(err), zap.String("set", setName))
		}
	}()

	navCtx, cancel := context.WithTimeout(ctx, f.cfg.NavigationTimeout)
	defer cancel()

	pageURL := PageURL(f.cfg.PageURLTemplate, setName)
	logger.DebugCtx(ctx, "Navigating to set page", zap.String("set", setName), zap.String("url", pageURL))

	if err := page.Navigate(navCtx, pageURL); err != nil {
		return "", Classify(setName, fmt.Errorf("failed to navigate to %s: %w", pageURL, err))
	}

	html, err := page.HTML(navCtx)
	if err != nil {
		return "", Classify(setName, fmt.Errorf("failed to read page html: %w", err))
	}

	return html, nil
}

// Classify tags a navigation failure as transient when the browser reports a retryable
// network error or the navigation timed out; every other failure is external
func Classify(setName string, err error) error {
	if IsTransientNavigation(err) {
		return domain.NewError(domain.ErrorKindTransient, setName, err)
	}
	return domain.NewError(domain.ErrorKindExternal, setName, err)
}

// IsTransientNavigation reports whether err is a retryable navigation failure
func IsTransientNavigation(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	reason, ok := adapter.NavigationReason(err)
	if !ok {
		return false
	}
	_, transient := transientReasons[reason]
	return transient
}
