package marketplace

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cardkeeper/card-indexer/internal/adapter"
	"github.com/cardkeeper/card-indexer/internal/domain"
	"github.com/cardkeeper/card-indexer/internal/logger"
)

const (
	DEFAULT_SEARCH_URL          = "https://www.cardmarket.com/en/YuGiOh"
	DEFAULT_SEARCH_SELECTOR     = "input[name='searchString']"
	DEFAULT_PRODUCT_PATH_MARKER = "/Products/"
	DEFAULT_QUERY_PARAMS        = "language=1&minCondition=2"
	DEFAULT_NAVIGATION_TIMEOUT  = 30 * time.Second
)

var codeSanitizer = regexp.MustCompile(`[^A-Za-z0-9-]`)

// Config holds the configuration for the marketplace resolver
type Config struct {
	SearchURL         string
	SearchSelector    string
	ProductPathMarker string
	QueryParams       string
	NavigationTimeout time.Duration
}

// Resolver defines the interface for resolving marketplace product URLs to enable mocking
//
//go:generate mockgen -source=resolver.go -destination=../../mocks/marketplace_resolver.go -package=mocks -mock_names=Resolver=MockMarketplaceResolver
type Resolver interface {
	// Resolve searches the marketplace for an edition code in a new tab of browser and
	// returns the product URL with the configured query parameters appended
	Resolve(ctx context.Context, browser adapter.Browser, code string) (string, error)
}

type resolver struct {
	cfg Config
}

// NewResolver creates a new marketplace resolver
func NewResolver(cfg Config) Resolver {
	if cfg.SearchURL == "" {
		cfg.SearchURL = DEFAULT_SEARCH_URL
	}
	if cfg.SearchSelector == "" {
		cfg.SearchSelector = DEFAULT_SEARCH_SELECTOR
	}
	if cfg.ProductPathMarker == "" {
		cfg.ProductPathMarker = DEFAULT_PRODUCT_PATH_MARKER
	}
	if cfg.QueryParams == "" {
		cfg.QueryParams = DEFAULT_QUERY_PARAMS
	}
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = DEFAULT_NAVIGATION_TIMEOUT
	}
	return &resolver{cfg: cfg}
}

// SanitizeCode strips everything but letters, digits and dashes from an edition code
func SanitizeCode(code string) string {
	return codeSanitizer.ReplaceAllString(strings.TrimSpace(code), "")
}

// Resolve searches the marketplace for an edition code and returns the product URL
func (r *resolver) Resolve(ctx context.Context, browser adapter.Browser, code string) (string, error) {
	sanitized := SanitizeCode(code)
	if sanitized == "" {
		return "", domain.NewError(domain.ErrorKindValidation, "", fmt.Errorf("invalid edition code %q", code))
	}

	page, err := browser.NewPage(ctx)
	if err != nil {
		return "", domain.NewError(domain.ErrorKindExternal, "", err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			logger.WarnCtx(ctx, "failed to close page", zap.Error(err), zap.String("code", sanitized))
		}
	}()

	navCtx, cancel := context.WithTimeout(ctx, r.cfg.NavigationTimeout)
	defer cancel()

	if err := page.Navigate(navCtx, r.cfg.SearchURL); err != nil {
		return "", domain.NewError(domain.ErrorKindExternal, "", fmt.Errorf("failed to open marketplace search: %w", err))
	}

	if err := page.Submit(navCtx, r.cfg.SearchSelector, sanitized); err != nil {
		return "", domain.NewError(domain.ErrorKindExternal, "", fmt.Errorf("failed to search marketplace for %s: %w", sanitized, err))
	}

	current, err := page.URL(navCtx)
	if err != nil {
		return "", domain.NewError(domain.ErrorKindExternal, "", fmt.Errorf("failed to read marketplace url: %w", err))
	}

	if !strings.Contains(current, r.cfg.ProductPathMarker) {
		return "", domain.NewError(domain.ErrorKindExternal, "", fmt.Errorf("%w: %s landed on %s", domain.ErrMarketplaceURLNotFound, sanitized, current))
	}

	return AppendQuery(current, r.cfg.QueryParams)
}

// AppendQuery sets the parameters of rawQuery on rawURL, keeping any other existing parameters
func AppendQuery(rawURL string, rawQuery string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", domain.NewError(domain.ErrorKindExternal, "", fmt.Errorf("failed to parse marketplace url: %w", err))
	}

	extra, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "", domain.NewError(domain.ErrorKindContract, "", fmt.Errorf("failed to parse query params: %w", err))
	}

	query := u.Query()
	for key, values := range extra {
		query[key] = values
	}
	u.RawQuery = query.Encode()

	return u.String(), nil
}
