package diagnostics

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sync"

	"go.uber.org/zap"

	"github.com/cardkeeper/card-indexer/internal/adapter"
	"github.com/cardkeeper/card-indexer/internal/domain"
	"github.com/cardkeeper/card-indexer/internal/logger"
)

const (
	// FAILED_SETS_DIR is the directory, relative to the sink root, holding one file per failed set
	FAILED_SETS_DIR = "failed-sets"
	// INVALID_EDITIONS_FILE is the append-only log of rejected edition candidates
	INVALID_EDITIONS_FILE = "invalid-editions.jsonl"

	dirPerm  = 0o755
	filePerm = 0o644
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Sink records pipeline failures for later manual diagnosis
//
//go:generate mockgen -source=sink.go -destination=../mocks/diagnostics_sink.go -package=mocks -mock_names=Sink=MockDiagnosticsSink
type Sink interface {
	// RecordFailedSet writes the failure of a set, replacing any earlier record for that set
	RecordFailedSet(ctx context.Context, failed domain.FailedSet) error

	// RecordInvalidEditions appends the rejected edition candidates to the invalid edition log
	RecordInvalidEditions(ctx context.Context, invalid []domain.InvalidEdition) error
}

type fileSink struct {
	dir   string
	fs    adapter.FileSystem
	json  adapter.JSON
	clock adapter.Clock

	// appends to the invalid edition log are serialized within the process
	mu sync.Mutex
}

// NewFileSink creates a sink writing under dir
func NewFileSink(dir string, fs adapter.FileSystem, json adapter.JSON, clock adapter.Clock) Sink {
	return &fileSink{
		dir:   dir,
		fs:    fs,
		json:  json,
		clock: clock,
	}
}

// FailedSetPath returns the diagnostic file path of a set under dir
func FailedSetPath(dir, setName string) string {
	name := unsafeFileChars.ReplaceAllString(setName, "_")
	if name == "" {
		name = "_"
	}
	return filepath.Join(dir, FAILED_SETS_DIR, name+".json")
}

func (s *fileSink) RecordFailedSet(ctx context.Context, failed domain.FailedSet) error {
	if failed.RecordedAt.IsZero() {
		failed.RecordedAt = s.clock.Now().UTC()
	}

	data, err := s.json.Marshal(failed)
	if err != nil {
		return fmt.Errorf("failed to marshal failed set: %w", err)
	}

	if err := s.fs.MkdirAll(filepath.Join(s.dir, FAILED_SETS_DIR), dirPerm); err != nil {
		return fmt.Errorf("failed to create failed sets directory: %w", err)
	}

	path := FailedSetPath(s.dir, failed.SetName)
	if err := s.fs.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("failed to write failed set: %w", err)
	}

	logger.InfoCtx(ctx, "Recorded failed set",
		zap.String("setName", failed.SetName),
		zap.String("kind", string(failed.Kind)),
		zap.String("path", path))

	return nil
}

func (s *fileSink) RecordInvalidEditions(ctx context.Context, invalid []domain.InvalidEdition) error {
	if len(invalid) == 0 {
		return nil
	}

	now := s.clock.Now().UTC()
	var buf []byte
	for _, inv := range invalid {
		if inv.RecordedAt.IsZero() {
			inv.RecordedAt = now
		}
		line, err := s.json.Marshal(inv)
		if err != nil {
			return fmt.Errorf("failed to marshal invalid edition: %w", err)
		}
		buf = append(buf, line...)
		buf = append(buf, '\n')
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fs.MkdirAll(s.dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create diagnostics directory: %w", err)
	}

	f, err := s.fs.OpenAppend(filepath.Join(s.dir, INVALID_EDITIONS_FILE), filePerm)
	if err != nil {
		return fmt.Errorf("failed to open invalid editions log: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logger.WarnCtx(ctx, "Failed to close invalid editions log", zap.Error(cerr))
		}
	}()

	if _, err := f.Write(buf); err != nil {
		return fmt.Errorf("failed to append invalid editions: %w", err)
	}

	logger.InfoCtx(ctx, "Recorded invalid editions", zap.Int("count", len(invalid)))

	return nil
}
