package jetstream

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/cardkeeper/card-indexer/internal/adapter"
	"github.com/cardkeeper/card-indexer/internal/domain"
	"github.com/cardkeeper/card-indexer/internal/logger"
	"github.com/cardkeeper/card-indexer/internal/messaging"
)

// Config holds the configuration for NATS JetStream connection
type Config struct {
	URL             string
	StreamName      string
	JobsSubject     string
	MaxReconnects   int
	ReconnectWait   time.Duration
	ConnectionName  string
	DuplicateWindow time.Duration
}

type publisher struct {
	nc          adapter.NatsConn
	js          adapter.JetStream
	jobsSubject string
	json        adapter.JSON
}

// ConnectOptions returns the NATS options shared by publishers and consumers
func ConnectOptions(cfg Config) []nats.Option {
	return []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}
}

// EnsureStream creates or updates the stream carrying both the jobs and finished subjects
func EnsureStream(ctx context.Context, js adapter.JetStream, cfg Config) error {
	err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:       cfg.StreamName,
		Subjects:   []string{cfg.JobsSubject, domain.FinishedSubject(cfg.JobsSubject)},
		Retention:  jetstream.LimitsPolicy,
		Storage:    jetstream.FileStorage,
		Duplicates: cfg.DuplicateWindow,
	})
	if err != nil {
		return fmt.Errorf("failed to create or update stream %s: %w", cfg.StreamName, err)
	}
	return nil
}

// NewPublisher creates a new NATS JetStream publisher
func NewPublisher(ctx context.Context, cfg Config, natsJS adapter.NatsJetStream, jsonAdapter adapter.JSON) (messaging.Publisher, error) {
	nc, js, err := natsJS.Connect(cfg.URL, ConnectOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	if err := EnsureStream(ctx, js, cfg); err != nil {
		nc.Close()
		return nil, err
	}

	return newPublisher(nc, js, cfg.JobsSubject, jsonAdapter), nil
}

func newPublisher(nc adapter.NatsConn, js adapter.JetStream, jobsSubject string, jsonAdapter adapter.JSON) *publisher {
	return &publisher{
		nc:          nc,
		js:          js,
		jobsSubject: jobsSubject,
		json:        jsonAdapter,
	}
}

// PublishHarvestJob publishes a harvest job to NATS JetStream.
// Identical jobs share a message id so the stream drops duplicates inside its window.
func (p *publisher) PublishHarvestJob(ctx context.Context, job domain.HarvestJob) error {
	logger.DebugCtx(ctx, "Publishing harvest job", zap.Any("job", job))
	return p.publish(ctx, p.jobsSubject, job)
}

// PublishJobFinished publishes a completion message to NATS JetStream
func (p *publisher) PublishJobFinished(ctx context.Context, msg domain.JobFinished) error {
	logger.DebugCtx(ctx, "Publishing job finished", zap.Any("message", msg))
	return p.publish(ctx, domain.FinishedSubject(p.jobsSubject), msg)
}

func (p *publisher) publish(ctx context.Context, subject string, v any) error {
	data, err := p.json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	msgID, err := MessageID(p.json, v)
	if err != nil {
		return err
	}

	if _, err := p.js.Publish(ctx, subject, data, jetstream.WithMsgID(msgID)); err != nil {
		return fmt.Errorf("failed to publish message to %s: %w", subject, err)
	}

	return nil
}

// MessageID derives a deterministic message id from the canonical JSON form of v
func MessageID(json adapter.JSON, v any) (string, error) {
	canonical, err := json.MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize message: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// Close closes the NATS connection
func (p *publisher) Close() {
	if p.nc == nil {
		return
	}

	p.nc.Close()
}
