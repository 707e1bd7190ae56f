package store

import (
	"context"

	"github.com/cardkeeper/card-indexer/internal/domain"
	"github.com/cardkeeper/card-indexer/internal/store/schema"
)

// CreateEditionInput holds a validated edition ready to be persisted
type CreateEditionInput struct {
	CardNumber string
	SetName    string
	Name       string
	Rarities   []string
	CardID     int64
}

// UpsertCollectionEntryInput holds a user's annotation on an edition
type UpsertCollectionEntryInput struct {
	UserID        string
	CardEditionID int64
	Count         int
	Wishlist      bool
}

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// UpsertCardsForSet inserts unseen cards with every attribute and, for cards already known by name,
	// appends setName to their card sets when absent without touching any other column.
	// Returns the number of cards written.
	UpsertCardsForSet(ctx context.Context, setName string, cards []domain.Card) (int, error)
	// GetCardIDsByNames resolves card ids by name; unknown names are absent from the result
	GetCardIDsByNames(ctx context.Context, names []string) (map[string]int64, error)
	// InsertEditions bulk inserts editions, skipping any that already exist. Returns the number inserted.
	InsertEditions(ctx context.Context, editions []CreateEditionInput) (int64, error)

	// GetEditionsMissingMarketplaceURL returns every edition without a marketplace URL
	GetEditionsMissingMarketplaceURL(ctx context.Context) ([]schema.CardEdition, error)
	// UpdateMarketplaceURLByCode sets the marketplace URL of every edition with the given code
	UpdateMarketplaceURLByCode(ctx context.Context, code string, url string) error

	// GetEditionsByCode returns the editions with the given code, with their card preloaded
	GetEditionsByCode(ctx context.Context, code string) ([]schema.CardEdition, error)
	// GetEditionByCode returns the edition with the given code, or nil if none exists
	GetEditionByCode(ctx context.Context, code string) (*schema.CardEdition, error)

	// UpsertCollectionEntry creates or replaces a user's annotation on an edition
	UpsertCollectionEntry(ctx context.Context, input UpsertCollectionEntryInput) error
	// GetCollectionEntries returns a user's annotations keyed by edition id
	GetCollectionEntries(ctx context.Context, userID string, editionIDs []int64) (map[int64]schema.CollectionEntry, error)

	// SetKeyValue stores a value under key
	SetKeyValue(ctx context.Context, key string, value string) error
	// GetKeyValue returns the value stored under key, or "" if none exists
	GetKeyValue(ctx context.Context, key string) (string, error)
}
