package reconciler

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cardkeeper/card-indexer/internal/diagnostics"
	"github.com/cardkeeper/card-indexer/internal/domain"
	"github.com/cardkeeper/card-indexer/internal/logger"
	"github.com/cardkeeper/card-indexer/internal/providers/cardinfo"
	"github.com/cardkeeper/card-indexer/internal/rarity"
	"github.com/cardkeeper/card-indexer/internal/store"
)

// Summary describes the outcome of reconciling one set
type Summary struct {
	SetName           string `json:"setName"`
	CardsUpserted     int    `json:"cardsUpserted"`
	EditionsAttempted int    `json:"editionsAttempted"`
	EditionsInserted  int64  `json:"editionsInserted"`
	EditionsInvalid   int    `json:"editionsInvalid"`
}

// Reconciler merges a harvested set into the catalog
//
//go:generate mockgen -source=reconciler.go -destination=../mocks/reconciler.go -package=mocks -mock_names=Reconciler=MockReconciler
type Reconciler interface {
	// Reconcile upserts the set's cards and inserts its valid editions.
	// Invalid editions are diverted to the diagnostics sink and never persisted.
	Reconcile(ctx context.Context, setName string, rows []domain.EditionRow) (Summary, error)
}

type reconciler struct {
	cardInfo cardinfo.Client
	store    store.Store
	sink     diagnostics.Sink
}

// NewReconciler creates a new catalog reconciler
func NewReconciler(cardInfo cardinfo.Client, store store.Store, sink diagnostics.Sink) Reconciler {
	return &reconciler{
		cardInfo: cardInfo,
		store:    store,
		sink:     sink,
	}
}

func (r *reconciler) Reconcile(ctx context.Context, setName string, rows []domain.EditionRow) (Summary, error) {
	summary := Summary{SetName: setName}

	// Step 1: card master data
	cards, err := r.cardInfo.GetCardsBySet(ctx, setName)
	if err != nil {
		return summary, err
	}

	upserted, err := r.store.UpsertCardsForSet(ctx, setName, cards)
	if err != nil {
		return summary, domain.NewError(domain.ErrorKindExternal, setName, fmt.Errorf("failed to upsert cards: %w", err))
	}
	summary.CardsUpserted = upserted

	logger.InfoCtx(ctx, "Upserted cards for set",
		zap.String("setName", setName),
		zap.Int("fetched", len(cards)),
		zap.Int("upserted", upserted))

	// Step 2: editions
	ids, err := r.store.GetCardIDsByNames(ctx, uniqueNames(rows))
	if err != nil {
		return summary, domain.NewError(domain.ErrorKindExternal, setName, fmt.Errorf("failed to resolve card ids: %w", err))
	}

	var valid []store.CreateEditionInput
	var invalid []domain.InvalidEdition
	for _, row := range rows {
		candidate := BuildCandidate(setName, row, ids)
		if missing := candidate.MissingFields(); len(missing) > 0 {
			invalid = append(invalid, domain.InvalidEdition{
				Candidate:     candidate,
				Row:           row,
				MissingFields: missing,
			})
			continue
		}
		valid = append(valid, store.CreateEditionInput{
			CardNumber: candidate.CardNumber,
			SetName:    candidate.SetName,
			Name:       candidate.Name,
			Rarities:   candidate.Rarities,
			CardID:     candidate.CardID,
		})
	}
	summary.EditionsAttempted = len(valid)
	summary.EditionsInvalid = len(invalid)

	if len(invalid) > 0 {
		logger.WarnCtx(ctx, "Skipping invalid editions",
			zap.String("setName", setName),
			zap.Int("count", len(invalid)))
		if err := r.sink.RecordInvalidEditions(ctx, invalid); err != nil {
			logger.WarnCtx(ctx, "Failed to record invalid editions", zap.String("setName", setName), zap.Error(err))
		}
	}

	inserted, err := r.store.InsertEditions(ctx, valid)
	if err != nil {
		return summary, domain.NewError(domain.ErrorKindExternal, setName, fmt.Errorf("failed to insert editions: %w", err))
	}
	summary.EditionsInserted = inserted

	logger.InfoCtx(ctx, "Reconciled set",
		zap.String("setName", setName),
		zap.Int("attempted", summary.EditionsAttempted),
		zap.Int64("inserted", summary.EditionsInserted),
		zap.Int("invalid", summary.EditionsInvalid))

	return summary, nil
}

// BuildCandidate maps a parsed row to an edition candidate using the resolved card ids
func BuildCandidate(setName string, row domain.EditionRow, cardIDs map[string]int64) domain.EditionCandidate {
	collection := row.CollectionName
	if collection == "" {
		collection = setName
	}

	rarities := rarity.Decompose(row.Rarity)
	if rarities == nil {
		rarities = []string{}
	}

	return domain.EditionCandidate{
		CardNumber: row.Code(),
		SetName:    collection,
		Name:       row.Name,
		Rarities:   rarities,
		CardID:     cardIDs[row.Name],
	}
}

func uniqueNames(rows []domain.EditionRow) []string {
	seen := make(map[string]struct{}, len(rows))
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.Name == "" {
			continue
		}
		if _, ok := seen[row.Name]; ok {
			continue
		}
		seen[row.Name] = struct{}{}
		names = append(names, row.Name)
	}
	return names
}
