package diagnostics_test

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardkeeper/card-indexer/internal/adapter"
	"github.com/cardkeeper/card-indexer/internal/diagnostics"
	"github.com/cardkeeper/card-indexer/internal/domain"
	"github.com/cardkeeper/card-indexer/internal/mocks"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestSink(t *testing.T, dir string) diagnostics.Sink {
	ctrl := gomock.NewController(t)
	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(fixedNow).AnyTimes()
	return diagnostics.NewFileSink(dir, adapter.NewFileSystem(), adapter.NewJSON(), clock)
}

func TestFailedSetPath(t *testing.T) {
	assert.Equal(t, filepath.Join("diag", "failed-sets", "Metal_Raiders.json"), diagnostics.FailedSetPath("diag", "Metal Raiders"))
	assert.Equal(t, filepath.Join("diag", "failed-sets", "Duel_Terminal_-_Preview_Wave_1.json"), diagnostics.FailedSetPath("diag", "Duel Terminal - Preview Wave 1"))
	assert.Equal(t, filepath.Join("diag", "failed-sets", "_.json"), diagnostics.FailedSetPath("diag", ""))
}

func TestRecordFailedSet_OverwritesPreviousRecord(t *testing.T) {
	dir := t.TempDir()
	sink := newTestSink(t, dir)
	ctx := context.Background()

	require.NoError(t, sink.RecordFailedSet(ctx, domain.FailedSet{
		SetName: "Metal Raiders",
		Kind:    domain.ErrorKindSchema,
		Error:   "no table found",
	}))
	require.NoError(t, sink.RecordFailedSet(ctx, domain.FailedSet{
		SetName: "Metal Raiders",
		Kind:    domain.ErrorKindExternal,
		Error:   "card info provider returned 500",
		Rows:    []domain.EditionRow{{CardNumber: "MRD-001", Name: "Feral Imp"}},
	}))

	data, err := os.ReadFile(diagnostics.FailedSetPath(dir, "Metal Raiders"))
	require.NoError(t, err)

	var got domain.FailedSet
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, domain.ErrorKindExternal, got.Kind)
	assert.Equal(t, "card info provider returned 500", got.Error)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, "MRD-001", got.Rows[0].CardNumber)
	assert.True(t, fixedNow.Equal(got.RecordedAt))
}

func TestRecordInvalidEditions_AppendsAcrossCalls(t *testing.T) {
	dir := t.TempDir()
	sink := newTestSink(t, dir)
	ctx := context.Background()

	first := domain.InvalidEdition{
		Candidate:     domain.EditionCandidate{CardNumber: "MRD-001", SetName: "Metal Raiders", Name: "Feral Imp"},
		MissingFields: []string{"rarities", "cardId"},
	}
	second := domain.InvalidEdition{
		Candidate:     domain.EditionCandidate{SetName: "Metal Raiders", Name: "Winged Dragon"},
		MissingFields: []string{"cardNumber"},
	}

	require.NoError(t, sink.RecordInvalidEditions(ctx, []domain.InvalidEdition{first}))
	require.NoError(t, sink.RecordInvalidEditions(ctx, []domain.InvalidEdition{second}))
	require.NoError(t, sink.RecordInvalidEditions(ctx, nil))

	f, err := os.Open(filepath.Join(dir, diagnostics.INVALID_EDITIONS_FILE))
	require.NoError(t, err)
	defer f.Close()

	var lines []domain.InvalidEdition
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var inv domain.InvalidEdition
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &inv))
		lines = append(lines, inv)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, lines, 2)
	assert.Equal(t, "Feral Imp", lines[0].Candidate.Name)
	assert.Equal(t, []string{"cardNumber"}, lines[1].MissingFields)
	assert.True(t, fixedNow.Equal(lines[1].RecordedAt))
}

func TestRecordInvalidEditions_OpenFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	fs := mocks.NewMockFileSystem(ctrl)
	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(fixedNow)

	fs.EXPECT().MkdirAll("diag", gomock.Any()).Return(nil)
	fs.EXPECT().OpenAppend(filepath.Join("diag", diagnostics.INVALID_EDITIONS_FILE), gomock.Any()).
		Return(nil, errors.New("read-only file system"))

	sink := diagnostics.NewFileSink("diag", fs, adapter.NewJSON(), clock)
	err := sink.RecordInvalidEditions(context.Background(), []domain.InvalidEdition{{MissingFields: []string{"name"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open invalid editions log")
}
