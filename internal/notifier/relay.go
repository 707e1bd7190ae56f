package notifier

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/cardkeeper/card-indexer/internal/adapter"
	"github.com/cardkeeper/card-indexer/internal/domain"
	"github.com/cardkeeper/card-indexer/internal/logger"
)

const DEFAULT_INACTIVE_THRESHOLD = time.Hour

var consumerNameUnsafe = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// RelayConfig holds the configuration for the completion relay consumer
type RelayConfig struct {
	StreamName      string
	FinishedSubject string
	ConsumerName    string
	// InstanceID gives each API replica its own durable consumer so every replica
	// sees every completion and the one holding the socket can target it
	InstanceID        string
	InactiveThreshold time.Duration // per-instance consumers are removed after this idle time
	AckWaitTimeout    time.Duration
	MaxDeliver        int
}

// DurableName returns the consumer name of this relay instance
func (c RelayConfig) DurableName() string {
	if c.InstanceID == "" {
		return c.ConsumerName
	}
	return c.ConsumerName + "-" + consumerNameUnsafe.ReplaceAllString(c.InstanceID, "-")
}

// Relay consumes completion messages and hands them to the notifier
type Relay interface {
	// Run consumes completion messages until ctx is cancelled
	Run(ctx context.Context) error
	// HandleMessage decodes a single completion message, notifies and settles it
	HandleMessage(ctx context.Context, msg adapter.Message)
}

type relay struct {
	js       adapter.JetStream
	notifier Notifier
	json     adapter.JSON
	config   RelayConfig
}

// NewRelay creates a relay reading from js
func NewRelay(cfg RelayConfig, js adapter.JetStream, n Notifier, jsonAdapter adapter.JSON) Relay {
	return &relay{
		js:       js,
		notifier: n,
		json:     jsonAdapter,
		config:   cfg,
	}
}

// Run starts consuming completion messages
func (r *relay) Run(ctx context.Context) error {
	logger.Info("Starting completion relay",
		zap.String("stream", r.config.StreamName),
		zap.String("consumer", r.config.DurableName()),
		zap.String("subject", r.config.FinishedSubject))

	consumerConfig := jetstream.ConsumerConfig{
		Durable:       r.config.DurableName(),
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       r.config.AckWaitTimeout,
		MaxDeliver:    r.config.MaxDeliver,
		FilterSubject: r.config.FinishedSubject,
		DeliverPolicy: jetstream.DeliverNewPolicy,
	}
	if r.config.InstanceID != "" {
		consumerConfig.InactiveThreshold = r.config.InactiveThreshold
		if consumerConfig.InactiveThreshold <= 0 {
			consumerConfig.InactiveThreshold = DEFAULT_INACTIVE_THRESHOLD
		}
	}

	consumer, err := r.js.CreateOrUpdateConsumer(ctx, r.config.StreamName, consumerConfig)
	if err != nil {
		return fmt.Errorf("failed to create/update consumer: %w", err)
	}

	sub, err := consumer.Consume(func(msg adapter.Message) {
		r.HandleMessage(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	defer sub.Stop()

	<-ctx.Done()
	logger.Info("Shutting down completion relay")
	return ctx.Err()
}

// HandleMessage decodes a completion message and forwards it to the notifier
func (r *relay) HandleMessage(ctx context.Context, msg adapter.Message) {
	var finished domain.JobFinished
	if err := r.json.Unmarshal(msg.Data(), &finished); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to unmarshal completion message"))
		if err := msg.Term(); err != nil {
			logger.ErrorCtx(ctx, err, zap.String("message", "Failed to terminate message"))
		}
		return
	}

	r.notifier.Notify(ctx, finished)

	if err := msg.Ack(); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to ACK message"))
	}
}
