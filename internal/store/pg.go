package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cardkeeper/card-indexer/internal/domain"
	"github.com/cardkeeper/card-indexer/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// UpsertCardsForSet inserts unseen cards and appends setName to the card sets of known ones
func (s *pgStore) UpsertCardsForSet(ctx context.Context, setName string, cards []domain.Card) (int, error) {
	if len(cards) == 0 {
		return 0, nil
	}

	// A single statement cannot touch the same conflicting row twice
	seen := make(map[string]struct{}, len(cards))
	records := make([]schema.Card, 0, len(cards))
	for _, card := range cards {
		if card.Name == "" {
			continue
		}
		if _, ok := seen[card.Name]; ok {
			continue
		}
		seen[card.Name] = struct{}{}
		records = append(records, cardRecord(setName, card))
	}
	if len(records) == 0 {
		return 0, nil
	}

	size := batchSize(len(records), cardFieldCount)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Only card_sets changes on conflict, and only when the set name is not already recorded
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "name"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"card_sets": gorm.Expr("CASE WHEN cards.card_sets @> EXCLUDED.card_sets THEN cards.card_sets ELSE cards.card_sets || EXCLUDED.card_sets END"),
			}),
		}).CreateInBatches(&records, size).Error; err != nil {
			return fmt.Errorf("failed to upsert cards: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return len(records), nil
}

// cardFieldCount is the number of columns bound per card insert
const cardFieldCount = 20

func cardRecord(setName string, card domain.Card) schema.Card {
	return schema.Card{
		ExternalID:        card.ExternalID,
		Name:              card.Name,
		Type:              card.Type,
		FrameType:         card.FrameType,
		Description:       card.Description,
		Race:              card.Race,
		Attribute:         card.Attribute,
		Archetype:         card.Archetype,
		ImageURL:          card.ImageURL,
		Attack:            card.Attack,
		Defense:           card.Defense,
		Level:             card.Level,
		LinkRating:        card.LinkRating,
		LinkMarkers:       card.LinkMarkers,
		PendulumText:      card.PendulumText,
		MonsterText:       card.MonsterText,
		HumanReadableType: card.HumanReadableType,
		CardSets:          []string{setName},
	}
}

// GetCardIDsByNames resolves card ids by name
func (s *pgStore) GetCardIDsByNames(ctx context.Context, names []string) (map[string]int64, error) {
	result := make(map[string]int64, len(names))
	if len(names) == 0 {
		return result, nil
	}

	var rows []struct {
		ID   int64
		Name string
	}
	err := s.db.WithContext(ctx).
		Model(&schema.Card{}).
		Select("id", "name").
		Where("name IN ?", names).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get card ids by names: %w", err)
	}

	for _, row := range rows {
		result[row.Name] = row.ID
	}

	return result, nil
}

// InsertEditions bulk inserts editions with ON CONFLICT DO NOTHING
func (s *pgStore) InsertEditions(ctx context.Context, editions []CreateEditionInput) (int64, error) {
	if len(editions) == 0 {
		return 0, nil
	}

	records := make([]schema.CardEdition, 0, len(editions))
	for _, e := range editions {
		records = append(records, schema.CardEdition{
			CardNumber: e.CardNumber,
			SetName:    e.SetName,
			Name:       e.Name,
			Rarities:   e.Rarities,
			CardID:     e.CardID,
		})
	}

	size := batchSize(len(records), editionFieldCount)

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&records, size)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to insert editions: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// editionFieldCount is the number of columns bound per edition insert
const editionFieldCount = 8

// GetEditionsMissingMarketplaceURL returns every edition without a marketplace URL
func (s *pgStore) GetEditionsMissingMarketplaceURL(ctx context.Context) ([]schema.CardEdition, error) {
	var editions []schema.CardEdition
	err := s.db.WithContext(ctx).
		Where("marketplace_url IS NULL").
		Order("id ASC").
		Find(&editions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get editions missing marketplace url: %w", err)
	}

	return editions, nil
}

// UpdateMarketplaceURLByCode sets the marketplace URL of every edition with the given code
func (s *pgStore) UpdateMarketplaceURLByCode(ctx context.Context, code string, url string) error {
	err := s.db.WithContext(ctx).
		Model(&schema.CardEdition{}).
		Where("card_number = ?", code).
		Updates(map[string]interface{}{
			"marketplace_url": url,
			"updated_at":      time.Now().UTC(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update marketplace url: %w", err)
	}

	return nil
}

// GetEditionsByCode returns the editions with the given code, with their card preloaded
func (s *pgStore) GetEditionsByCode(ctx context.Context, code string) ([]schema.CardEdition, error) {
	var editions []schema.CardEdition
	err := s.db.WithContext(ctx).
		Preload("Card").
		Where("card_number = ?", code).
		Order("id ASC").
		Find(&editions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get editions by code: %w", err)
	}

	return editions, nil
}

// GetEditionByCode returns the edition with the given code
func (s *pgStore) GetEditionByCode(ctx context.Context, code string) (*schema.CardEdition, error) {
	var edition schema.CardEdition
	err := s.db.WithContext(ctx).Where("card_number = ?", code).First(&edition).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get edition by code: %w", err)
	}

	return &edition, nil
}

// UpsertCollectionEntry creates or replaces a user's annotation on an edition
func (s *pgStore) UpsertCollectionEntry(ctx context.Context, input UpsertCollectionEntryInput) error {
	entry := schema.CollectionEntry{
		UserID:        input.UserID,
		CardEditionID: input.CardEditionID,
		Count:         input.Count,
		Wishlist:      input.Wishlist,
		UpdatedAt:     time.Now().UTC(),
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "card_edition_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"count", "wishlist", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to upsert collection entry: %w", err)
	}

	return nil
}

// GetCollectionEntries returns a user's annotations keyed by edition id
func (s *pgStore) GetCollectionEntries(ctx context.Context, userID string, editionIDs []int64) (map[int64]schema.CollectionEntry, error) {
	result := make(map[int64]schema.CollectionEntry, len(editionIDs))
	if userID == "" || len(editionIDs) == 0 {
		return result, nil
	}

	var entries []schema.CollectionEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND card_edition_id IN ?", userID, editionIDs).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get collection entries: %w", err)
	}

	for _, entry := range entries {
		result[entry.CardEditionID] = entry
	}

	return result, nil
}

// SetKeyValue stores a value under key
func (s *pgStore) SetKeyValue(ctx context.Context, key string, value string) error {
	kv := schema.KeyValueStore{
		Key:   key,
		Value: value,
	}

	err := s.db.WithContext(ctx).Save(&kv).Error
	if err != nil {
		return fmt.Errorf("failed to set key-value: %w", err)
	}

	return nil
}

// GetKeyValue retrieves a value by key from the key-value store
func (s *pgStore) GetKeyValue(ctx context.Context, key string) (string, error) {
	var kv schema.KeyValueStore
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get key-value: %w", err)
	}

	return kv.Value, nil
}
