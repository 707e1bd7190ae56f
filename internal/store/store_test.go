package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardkeeper/card-indexer/internal/domain"
)

// =============================================================================
// Test Data Builders
// =============================================================================

func intPtr(v int) *int {
	return &v
}

func strPtr(v string) *string {
	return &v
}

// buildTestCard creates a test card as returned by the card info provider
func buildTestCard(name string) domain.Card {
	return domain.Card{
		ExternalID:        int64(len(name)) * 1000,
		Name:              name,
		Type:              "Normal Monster",
		FrameType:         "normal",
		Description:       "A test card named " + name,
		Race:              "Fiend",
		Attribute:         strPtr("DARK"),
		Attack:            intPtr(1300),
		Defense:           intPtr(1400),
		Level:             intPtr(4),
		HumanReadableType: "Normal Monster",
	}
}

// seedEdition creates a card and one edition for it, returning the card id
func seedEdition(t *testing.T, store Store, setName, cardName, code string) int64 {
	ctx := context.Background()

	_, err := store.UpsertCardsForSet(ctx, setName, []domain.Card{buildTestCard(cardName)})
	require.NoError(t, err)

	ids, err := store.GetCardIDsByNames(ctx, []string{cardName})
	require.NoError(t, err)
	require.Contains(t, ids, cardName)

	inserted, err := store.InsertEditions(ctx, []CreateEditionInput{{
		CardNumber: code,
		SetName:    setName,
		Name:       cardName,
		Rarities:   []string{"Secret Rare", "Super Rare"},
		CardID:     ids[cardName],
	}})
	require.NoError(t, err)
	require.Equal(t, int64(1), inserted)

	return ids[cardName]
}

// =============================================================================
// Tests
// =============================================================================

func testUpsertCardsForSet(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("inserts new cards with their attributes", func(t *testing.T) {
		n, err := store.UpsertCardsForSet(ctx, "Metal Raiders", []domain.Card{
			buildTestCard("Feral Imp"),
			buildTestCard("Feral Imp"),
			buildTestCard("Winged Dragon"),
		})
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		editions, err := store.GetCardIDsByNames(ctx, []string{"Feral Imp", "Winged Dragon", "Unknown"})
		require.NoError(t, err)
		assert.Len(t, editions, 2)
		assert.NotContains(t, editions, "Unknown")
	})

	t.Run("appends a new set name once and keeps other attributes", func(t *testing.T) {
		changed := buildTestCard("Feral Imp")
		changed.Description = "should not overwrite"
		changed.Attack = intPtr(9999)

		_, err := store.UpsertCardsForSet(ctx, "Legend of Blue Eyes", []domain.Card{changed})
		require.NoError(t, err)
		_, err = store.UpsertCardsForSet(ctx, "Legend of Blue Eyes", []domain.Card{changed})
		require.NoError(t, err)
		_, err = store.UpsertCardsForSet(ctx, "Metal Raiders", []domain.Card{changed})
		require.NoError(t, err)

		ids, err := store.GetCardIDsByNames(ctx, []string{"Feral Imp"})
		require.NoError(t, err)

		_, err = store.InsertEditions(ctx, []CreateEditionInput{{
			CardNumber: "MRD-001",
			SetName:    "Metal Raiders",
			Name:       "Feral Imp",
			Rarities:   []string{"Common"},
			CardID:     ids["Feral Imp"],
		}})
		require.NoError(t, err)

		editions, err := store.GetEditionsByCode(ctx, "MRD-001")
		require.NoError(t, err)
		require.Len(t, editions, 1)
		require.NotNil(t, editions[0].Card)

		card := editions[0].Card
		assert.Equal(t, []string{"Metal Raiders", "Legend of Blue Eyes"}, []string(card.CardSets))
		assert.Equal(t, "A test card named Feral Imp", card.Description)
		require.NotNil(t, card.Attack)
		assert.Equal(t, 1300, *card.Attack)
	})

	t.Run("empty input is a no-op", func(t *testing.T) {
		n, err := store.UpsertCardsForSet(ctx, "Metal Raiders", nil)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func testInsertEditions(t *testing.T, store Store) {
	ctx := context.Background()

	cardID := seedEdition(t, store, "Metal Raiders", "Feral Imp", "MRD-001")

	t.Run("duplicate code is skipped", func(t *testing.T) {
		inserted, err := store.InsertEditions(ctx, []CreateEditionInput{
			{CardNumber: "MRD-001", SetName: "Metal Raiders", Name: "Feral Imp", Rarities: []string{"Common"}, CardID: cardID},
			{CardNumber: "MRD-002", SetName: "Metal Raiders", Name: "Feral Imp", Rarities: []string{"Common"}, CardID: cardID},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), inserted)

		edition, err := store.GetEditionByCode(ctx, "MRD-001")
		require.NoError(t, err)
		require.NotNil(t, edition)
		assert.Equal(t, []string{"Secret Rare", "Super Rare"}, []string(edition.Rarities))
	})

	t.Run("unknown code returns nil", func(t *testing.T) {
		edition, err := store.GetEditionByCode(ctx, "NOPE-000")
		require.NoError(t, err)
		assert.Nil(t, edition)
	})
}

func testMarketplaceURL(t *testing.T, store Store) {
	ctx := context.Background()

	seedEdition(t, store, "Metal Raiders", "Feral Imp", "MRD-001")
	seedEdition(t, store, "Metal Raiders", "Winged Dragon", "MRD-002")

	missing, err := store.GetEditionsMissingMarketplaceURL(ctx)
	require.NoError(t, err)
	require.Len(t, missing, 2)
	assert.Equal(t, "MRD-001", missing[0].CardNumber)

	url := "https://market.example/Products/Feral-Imp?language=1&minCondition=2"
	require.NoError(t, store.UpdateMarketplaceURLByCode(ctx, "MRD-001", url))
	require.NoError(t, store.UpdateMarketplaceURLByCode(ctx, "MRD-001", url))

	missing, err = store.GetEditionsMissingMarketplaceURL(ctx)
	require.NoError(t, err)
	require.Len(t, missing, 1)
	assert.Equal(t, "MRD-002", missing[0].CardNumber)

	edition, err := store.GetEditionByCode(ctx, "MRD-001")
	require.NoError(t, err)
	require.NotNil(t, edition.MarketplaceURL)
	assert.Equal(t, url, *edition.MarketplaceURL)
}

func testCollectionEntries(t *testing.T, store Store) {
	ctx := context.Background()

	seedEdition(t, store, "Metal Raiders", "Feral Imp", "MRD-001")
	edition, err := store.GetEditionByCode(ctx, "MRD-001")
	require.NoError(t, err)
	require.NotNil(t, edition)

	require.NoError(t, store.UpsertCollectionEntry(ctx, UpsertCollectionEntryInput{
		UserID:        "user-1",
		CardEditionID: edition.ID,
		Count:         2,
	}))
	require.NoError(t, store.UpsertCollectionEntry(ctx, UpsertCollectionEntryInput{
		UserID:        "user-1",
		CardEditionID: edition.ID,
		Count:         3,
		Wishlist:      true,
	}))

	entries, err := store.GetCollectionEntries(ctx, "user-1", []int64{edition.ID})
	require.NoError(t, err)
	require.Contains(t, entries, edition.ID)
	assert.Equal(t, 3, entries[edition.ID].Count)
	assert.True(t, entries[edition.ID].Wishlist)

	entries, err = store.GetCollectionEntries(ctx, "user-2", []int64{edition.ID})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func testKeyValueStore(t *testing.T, store Store) {
	ctx := context.Background()

	value, err := store.GetKeyValue(ctx, "enrichment:last_run")
	require.NoError(t, err)
	assert.Empty(t, value)

	require.NoError(t, store.SetKeyValue(ctx, "enrichment:last_run", `{"processed":1}`))
	require.NoError(t, store.SetKeyValue(ctx, "enrichment:last_run", `{"processed":2}`))

	value, err = store.GetKeyValue(ctx, "enrichment:last_run")
	require.NoError(t, err)
	assert.Equal(t, `{"processed":2}`, value)
}

// RunStoreTests runs every store test against the implementation returned by initDB
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store)
	}{
		{"UpsertCardsForSet", testUpsertCardsForSet},
		{"InsertEditions", testInsertEditions},
		{"MarketplaceURL", testMarketplaceURL},
		{"CollectionEntries", testCollectionEntries},
		{"KeyValueStore", testKeyValueStore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := initDB(t)
			defer cleanupDB(t)
			tt.fn(t, store)
		})
	}
}
