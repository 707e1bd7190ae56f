package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cardkeeper/card-indexer/internal/adapter"
	"github.com/cardkeeper/card-indexer/internal/domain"
	"github.com/cardkeeper/card-indexer/internal/enrichment"
	"github.com/cardkeeper/card-indexer/internal/logger"
	"github.com/cardkeeper/card-indexer/internal/messaging"
	"github.com/cardkeeper/card-indexer/internal/providers/cardinfo"
	"github.com/cardkeeper/card-indexer/internal/store"
	"github.com/cardkeeper/card-indexer/internal/store/schema"
)

const (
	EDITIONS_KEY_PREFIX        = "editions:"
	MARKETPLACE_URL_KEY_PREFIX = "marketplace-url:"

	DEFAULT_CACHE_TTL = time.Hour
)

// CardView is the card attributes merged into an edition read
type CardView struct {
	ID                int64    `json:"id"`
	Name              string   `json:"name"`
	Type              string   `json:"type"`
	FrameType         string   `json:"frameType"`
	Description       string   `json:"description"`
	Race              string   `json:"race"`
	Attribute         *string  `json:"attribute,omitempty"`
	Archetype         *string  `json:"archetype,omitempty"`
	ImageURL          *string  `json:"imageUrl,omitempty"`
	Attack            *int     `json:"atk,omitempty"`
	Defense           *int     `json:"def,omitempty"`
	Level             *int     `json:"level,omitempty"`
	LinkRating        *int     `json:"linkval,omitempty"`
	LinkMarkers       []string `json:"linkmarkers,omitempty"`
	PendulumText      *string  `json:"pendDesc,omitempty"`
	MonsterText       *string  `json:"monsterDesc,omitempty"`
	HumanReadableType string   `json:"humanReadableCardType"`
	CardSets          []string `json:"cardSets"`
}

// EditionView is one edition as returned to catalog readers
type EditionView struct {
	ID             int64     `json:"id"`
	CardNumber     string    `json:"cardNumber"`
	SetName        string    `json:"setName"`
	Name           string    `json:"name"`
	Rarities       []string  `json:"rarities"`
	MarketplaceURL *string   `json:"marketplaceUrl,omitempty"`
	Card           *CardView `json:"card,omitempty"`

	// Per-user annotations, never cached
	Count    int  `json:"count"`
	Wishlist bool `json:"wishlist"`
}

// Config holds configuration for the catalog service
type Config struct {
	CacheTTL time.Duration
}

// Service is the read and write surface over the harvested catalog
//
//go:generate mockgen -source=catalog.go -destination=../mocks/catalog.go -package=mocks -mock_names=Service=MockCatalogService
type Service interface {
	// GetByCardSetCode returns the editions with the given code annotated with the user's
	// collection entries. Returns domain.ErrEditionNotFound when the code is unknown.
	GetByCardSetCode(ctx context.Context, code string, userID string) ([]EditionView, error)

	// RequestHarvest enqueues a harvest of every set the code was printed in
	RequestHarvest(ctx context.Context, code string, socketID *string) (*domain.HarvestJob, error)

	// GetMarketplaceURL returns the marketplace URL of an edition, resolving it on demand
	GetMarketplaceURL(ctx context.Context, code string) (string, error)

	// SetCollectionEntry records the user's owned count and wishlist flag for an edition
	SetCollectionEntry(ctx context.Context, userID string, code string, count int, wishlist bool) error
}

type service struct {
	config    Config
	store     store.Store
	cardInfo  cardinfo.Client
	publisher messaging.Publisher
	batcher   enrichment.Batcher
	cache     adapter.RedisClient
	json      adapter.JSON
}

// NewService creates a new catalog service
func NewService(
	config Config,
	st store.Store,
	cardInfo cardinfo.Client,
	publisher messaging.Publisher,
	batcher enrichment.Batcher,
	cache adapter.RedisClient,
	jsonAdapter adapter.JSON,
) Service {
	if config.CacheTTL <= 0 {
		config.CacheTTL = DEFAULT_CACHE_TTL
	}

	return &service{
		config:    config,
		store:     st,
		cardInfo:  cardInfo,
		publisher: publisher,
		batcher:   batcher,
		cache:     cache,
		json:      jsonAdapter,
	}
}

// NormalizeCode trims and upper-cases an edition code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *service) GetByCardSetCode(ctx context.Context, code string, userID string) ([]EditionView, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, domain.NewError(domain.ErrorKindValidation, "", errors.New("edition code is required"))
	}

	views, err := s.cachedEditions(ctx, code)
	if err != nil {
		return nil, err
	}

	if userID == "" {
		return views, nil
	}

	ids := make([]int64, 0, len(views))
	for _, v := range views {
		ids = append(ids, v.ID)
	}
	entries, err := s.store.GetCollectionEntries(ctx, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get collection entries: %w", err)
	}
	for i := range views {
		if entry, ok := entries[views[i].ID]; ok {
			views[i].Count = entry.Count
			views[i].Wishlist = entry.Wishlist
		}
	}

	return views, nil
}

// cachedEditions reads the editions of code through the cache
func (s *service) cachedEditions(ctx context.Context, code string) ([]EditionView, error) {
	key := EDITIONS_KEY_PREFIX + code

	data, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		var views []EditionView
		if err := s.json.Unmarshal(data, &views); err == nil {
			logger.DebugCtx(ctx, "Editions served from cache", zap.String("code", code))
			return views, nil
		}
		logger.WarnCtx(ctx, "Discarding undecodable cache entry", zap.String("key", key))
	case !errors.Is(err, adapter.ErrCacheMiss):
		logger.WarnCtx(ctx, "Cache read failed", zap.String("key", key), zap.Error(err))
	}

	editions, err := s.store.GetEditionsByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get editions by code: %w", err)
	}
	if len(editions) == 0 {
		return nil, domain.ErrEditionNotFound
	}

	views := make([]EditionView, 0, len(editions))
	for _, e := range editions {
		views = append(views, toEditionView(e))
	}

	s.setCache(ctx, key, views)

	return views, nil
}

func (s *service) RequestHarvest(ctx context.Context, code string, socketID *string) (*domain.HarvestJob, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, domain.NewError(domain.ErrorKindValidation, "", errors.New("edition code is required"))
	}

	setNames, err := s.cardInfo.GetSetNamesByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	job := domain.HarvestJob{
		CardSetNames: setNames,
		CardSetCode:  code,
		SocketID:     socketID,
	}
	if err := s.publisher.PublishHarvestJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to publish harvest job: %w", err)
	}

	logger.InfoCtx(ctx, "Harvest requested",
		zap.String("code", code),
		zap.Strings("cardSetNames", setNames))

	return &job, nil
}

func (s *service) GetMarketplaceURL(ctx context.Context, code string) (string, error) {
	code = NormalizeCode(code)
	key := MARKETPLACE_URL_KEY_PREFIX + code

	data, err := s.cache.Get(ctx, key)
	if err == nil && len(data) > 0 {
		return string(data), nil
	}
	if err != nil && !errors.Is(err, adapter.ErrCacheMiss) {
		logger.WarnCtx(ctx, "Cache read failed", zap.String("key", key), zap.Error(err))
	}

	edition, err := s.store.GetEditionByCode(ctx, code)
	if err != nil {
		return "", fmt.Errorf("failed to get edition by code: %w", err)
	}
	if edition == nil {
		return "", domain.ErrEditionNotFound
	}

	var resolved string
	if edition.MarketplaceURL != nil && *edition.MarketplaceURL != "" {
		resolved = *edition.MarketplaceURL
	} else {
		resolved, err = s.batcher.EnrichOne(ctx, code)
		if err != nil {
			return "", err
		}
		// The cached edition rows still carry the empty URL
		if err := s.cache.Del(ctx, EDITIONS_KEY_PREFIX+code); err != nil {
			logger.WarnCtx(ctx, "Cache invalidation failed", zap.String("code", code), zap.Error(err))
		}
	}

	if err := s.cache.Set(ctx, key, []byte(resolved), s.config.CacheTTL); err != nil {
		logger.WarnCtx(ctx, "Cache write failed", zap.String("key", key), zap.Error(err))
	}

	return resolved, nil
}

func (s *service) SetCollectionEntry(ctx context.Context, userID string, code string, count int, wishlist bool) error {
	if userID == "" {
		return domain.NewError(domain.ErrorKindValidation, "", errors.New("user id is required"))
	}
	if count < 0 {
		return domain.NewError(domain.ErrorKindValidation, "", fmt.Errorf("count must not be negative, got %d", count))
	}

	code = NormalizeCode(code)
	edition, err := s.store.GetEditionByCode(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to get edition by code: %w", err)
	}
	if edition == nil {
		return domain.ErrEditionNotFound
	}

	return s.store.UpsertCollectionEntry(ctx, store.UpsertCollectionEntryInput{
		UserID:        userID,
		CardEditionID: edition.ID,
		Count:         count,
		Wishlist:      wishlist,
	})
}

func (s *service) setCache(ctx context.Context, key string, v any) {
	data, err := s.json.Marshal(v)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to marshal cache entry", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, data, s.config.CacheTTL); err != nil {
		logger.WarnCtx(ctx, "Cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func toEditionView(e schema.CardEdition) EditionView {
	view := EditionView{
		ID:             e.ID,
		CardNumber:     e.CardNumber,
		SetName:        e.SetName,
		Name:           e.Name,
		Rarities:       []string(e.Rarities),
		MarketplaceURL: e.MarketplaceURL,
	}
	if view.Rarities == nil {
		view.Rarities = []string{}
	}

	if c := e.Card; c != nil {
		view.Card = &CardView{
			ID:                c.ID,
			Name:              c.Name,
			Type:              c.Type,
			FrameType:         c.FrameType,
			Description:       c.Description,
			Race:              c.Race,
			Attribute:         c.Attribute,
			Archetype:         c.Archetype,
			ImageURL:          c.ImageURL,
			Attack:            c.Attack,
			Defense:           c.Defense,
			Level:             c.Level,
			LinkRating:        c.LinkRating,
			LinkMarkers:       []string(c.LinkMarkers),
			PendulumText:      c.PendulumText,
			MonsterText:       c.MonsterText,
			HumanReadableType: c.HumanReadableType,
			CardSets:          []string(c.CardSets),
		}
	}

	return view
}
