package harvester

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/cardkeeper/card-indexer/internal/adapter"
	"github.com/cardkeeper/card-indexer/internal/diagnostics"
	"github.com/cardkeeper/card-indexer/internal/domain"
	"github.com/cardkeeper/card-indexer/internal/logger"
	"github.com/cardkeeper/card-indexer/internal/messaging"
	"github.com/cardkeeper/card-indexer/internal/parser"
	jsprovider "github.com/cardkeeper/card-indexer/internal/providers/jetstream"
	"github.com/cardkeeper/card-indexer/internal/providers/wiki"
	"github.com/cardkeeper/card-indexer/internal/reconciler"
)

// Config holds the configuration for the harvest worker
type Config struct {
	URL               string
	StreamName        string
	JobsSubject       string
	ConsumerName      string
	MaxReconnects     int
	ReconnectWait     time.Duration
	ConnectionName    string
	AckWaitTimeout    time.Duration
	MaxDeliver        int
	DuplicateWindow   time.Duration
	HeartbeatInterval time.Duration

	// Cooldown is the pause after a transient failure before the work-list continues
	Cooldown time.Duration
	// MaxTransientRetries caps requeues per set name; 0 retries without bound
	MaxTransientRetries int
}

// JobReport is the outcome of processing one harvest job
type JobReport struct {
	Completed []string
	Failed    map[string]error
	Summaries []reconciler.Summary
}

// Worker defines the interface for the harvest job worker
type Worker interface {
	// Run consumes harvest jobs until ctx is cancelled
	Run(ctx context.Context) error
	// HandleMessage processes a single delivery and settles it
	HandleMessage(ctx context.Context, msg adapter.Message)
	// ProcessJob harvests every set of the job. Only context cancellation is returned as an error.
	ProcessJob(ctx context.Context, job domain.HarvestJob) (JobReport, error)
	// Close closes the worker and cleans up resources
	Close()
}

type worker struct {
	nc         adapter.NatsConn
	js         adapter.JetStream
	fetcher    wiki.Fetcher
	parser     parser.Parser
	reconciler reconciler.Reconciler
	sink       diagnostics.Sink
	publisher  messaging.Publisher
	clock      adapter.Clock
	json       adapter.JSON
	config     Config
}

// NewWorker creates a new harvest worker
func NewWorker(
	cfg Config,
	natsJS adapter.NatsJetStream,
	fetcher wiki.Fetcher,
	p parser.Parser,
	r reconciler.Reconciler,
	sink diagnostics.Sink,
	publisher messaging.Publisher,
	clock adapter.Clock,
	jsonAdapter adapter.JSON,
) (Worker, error) {
	nc, js, err := natsJS.Connect(cfg.URL, jsprovider.ConnectOptions(jsprovider.Config{
		ConnectionName: cfg.ConnectionName,
		MaxReconnects:  cfg.MaxReconnects,
		ReconnectWait:  cfg.ReconnectWait,
	})...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	return &worker{
		nc:         nc,
		js:         js,
		fetcher:    fetcher,
		parser:     p,
		reconciler: r,
		sink:       sink,
		publisher:  publisher,
		clock:      clock,
		json:       jsonAdapter,
		config:     cfg,
	}, nil
}

// Run starts consuming harvest jobs
func (w *worker) Run(ctx context.Context) error {
	logger.Info("Starting harvest worker",
		zap.String("stream", w.config.StreamName),
		zap.String("consumer", w.config.ConsumerName),
		zap.String("subject", w.config.JobsSubject))

	err := jsprovider.EnsureStream(ctx, w.js, jsprovider.Config{
		StreamName:      w.config.StreamName,
		JobsSubject:     w.config.JobsSubject,
		DuplicateWindow: w.config.DuplicateWindow,
	})
	if err != nil {
		return err
	}

	consumerConfig := jetstream.ConsumerConfig{
		Durable:       w.config.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       w.config.AckWaitTimeout,
		MaxDeliver:    w.config.MaxDeliver,
		FilterSubject: w.config.JobsSubject,
	}

	consumer, err := w.js.CreateOrUpdateConsumer(ctx, w.config.StreamName, consumerConfig)
	if err != nil {
		return fmt.Errorf("failed to create/update consumer: %w", err)
	}

	consumerInfo, err := consumer.Info(ctx)
	if err != nil {
		return fmt.Errorf("failed to get consumer info: %w", err)
	}
	logger.Info("Consumer created/retrieved", zap.String("consumer", consumerInfo.Name))

	// One job at a time per process
	msgChan := make(chan adapter.Message)
	sub, err := consumer.Consume(func(msg adapter.Message) {
		select {
		case msgChan <- msg:
		case <-ctx.Done():
		}
	}, jetstream.PullMaxMessages(1))
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	defer sub.Stop()

	logger.Info("Started consuming harvest jobs")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutting down harvest worker")
			return ctx.Err()
		case msg := <-msgChan:
			w.HandleMessage(ctx, msg)
		}
	}
}

// HandleMessage decodes a harvest job, processes it and settles the delivery
func (w *worker) HandleMessage(ctx context.Context, msg adapter.Message) {
	info := &logger.JobInfo{Subject: msg.Subject()}
	if metadata, err := msg.Metadata(); err == nil && metadata != nil {
		info.Stream = metadata.Stream
		info.Consumer = metadata.Consumer
		info.Sequence = metadata.Sequence.Stream
		info.NumDelivered = metadata.NumDelivered
	}
	ctx = logger.WithFields(ctx, info.Fields()...)

	var job domain.HarvestJob
	if err := w.json.Unmarshal(msg.Data(), &job); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to unmarshal harvest job"))
		w.term(ctx, msg)
		return
	}
	if err := job.Validate(); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Rejecting harvest job"))
		w.term(ctx, msg)
		return
	}

	ctx = logger.WithFields(ctx, zap.String("cardSetCode", job.CardSetCode))
	logger.InfoCtx(ctx, "Received harvest job", zap.Strings("cardSetNames", job.CardSetNames))

	stop := w.heartbeat(ctx, msg)
	report, err := w.ProcessJob(ctx, job)
	stop()
	if err != nil {
		logger.WarnCtx(ctx, "Harvest job interrupted", zap.Error(err))
		w.nak(ctx, msg)
		return
	}

	if err := w.publishFinished(ctx, job); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to publish completion messages"))
		w.nak(ctx, msg)
		return
	}

	if err := msg.Ack(); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to ACK message"))
		return
	}

	logger.InfoCtx(ctx, "Harvest job finished",
		zap.Int("completed", len(report.Completed)),
		zap.Int("failed", len(report.Failed)))
}

// ProcessJob runs the work-list of the job. Sets fail in isolation; transient
// failures are appended back to the work-list after the cooldown.
func (w *worker) ProcessJob(ctx context.Context, job domain.HarvestJob) (JobReport, error) {
	report := JobReport{Failed: make(map[string]error)}

	queue := append([]string(nil), job.CardSetNames...)
	requeues := make(map[string]int)

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		setName := queue[0]
		queue = queue[1:]

		run := newSetRun(setName)
		summary, err := w.processSet(ctx, run)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return report, ctxErr
		}

		switch {
		case err == nil:
			run.transition(ctx, StateCompleted)
			report.Completed = append(report.Completed, setName)
			report.Summaries = append(report.Summaries, summary)

		case domain.IsTransient(err) && w.canRequeue(requeues[setName]):
			requeues[setName]++
			run.transition(ctx, StateRequeued)
			logger.WarnCtx(ctx, "Transient failure, requeueing set",
				zap.String("setName", setName),
				zap.Int("requeues", requeues[setName]),
				zap.Duration("cooldown", w.config.Cooldown),
				zap.Error(err))
			queue = append(queue, setName)

			select {
			case <-ctx.Done():
				return report, ctx.Err()
			case <-w.clock.After(w.config.Cooldown):
			}

		default:
			run.transition(ctx, StateFailed)
			report.Failed[setName] = err
			w.recordFailure(ctx, run, err)
		}
	}

	return report, nil
}

func (w *worker) canRequeue(requeues int) bool {
	return w.config.MaxTransientRetries == 0 || requeues < w.config.MaxTransientRetries
}

// processSet fetches, parses and reconciles a single set
func (w *worker) processSet(ctx context.Context, run *setRun) (reconciler.Summary, error) {
	run.transition(ctx, StateFetching)
	html, err := w.fetcher.FetchSetPage(ctx, run.setName)
	if err != nil {
		return reconciler.Summary{}, err
	}

	rows, err := w.parser.ParseEditionTable(run.setName, html)
	if err != nil {
		var derr *domain.Error
		if !errors.As(err, &derr) {
			err = domain.NewError(domain.ErrorKindSchema, run.setName, err)
		}
		return reconciler.Summary{}, err
	}
	run.rows = rows
	run.transition(ctx, StateParsed)

	summary, err := w.reconciler.Reconcile(ctx, run.setName, rows)
	if err != nil {
		return summary, err
	}
	run.transition(ctx, StateReconciled)

	return summary, nil
}

func (w *worker) recordFailure(ctx context.Context, run *setRun, err error) {
	logger.ErrorCtx(ctx, err,
		zap.String("message", "Set failed"),
		zap.String("setName", run.setName),
		zap.String("kind", string(domain.KindOf(err))))

	rows := run.rows
	if rows == nil {
		rows = []domain.EditionRow{}
	}
	failed := domain.FailedSet{
		SetName:    run.setName,
		Kind:       domain.KindOf(err),
		Error:      err.Error(),
		Rows:       rows,
		RecordedAt: w.clock.Now().UTC(),
	}
	if serr := w.sink.RecordFailedSet(ctx, failed); serr != nil {
		logger.WarnCtx(ctx, "Failed to record failed set", zap.String("setName", run.setName), zap.Error(serr))
	}
}

// publishFinished emits one completion message per requested set name
func (w *worker) publishFinished(ctx context.Context, job domain.HarvestJob) error {
	for _, setName := range job.CardSetNames {
		msg := domain.JobFinished{
			CollectionName: setName,
			CardSetCode:    job.CardSetCode,
			SocketID:       job.SocketID,
		}
		if err := w.publisher.PublishJobFinished(ctx, msg); err != nil {
			return fmt.Errorf("failed to publish job finished for %s: %w", setName, err)
		}
	}
	return nil
}

// heartbeat keeps the delivery alive while the job runs
func (w *worker) heartbeat(ctx context.Context, msg adapter.Message) func() {
	if w.config.HeartbeatInterval <= 0 {
		return func() {}
	}

	ticker := w.clock.NewTicker(w.config.HeartbeatInterval)
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C():
				if err := msg.InProgress(); err != nil {
					logger.WarnCtx(ctx, "Failed to extend ack deadline", zap.Error(err))
				}
			}
		}
	}()

	// stop returns once the goroutine has exited, so no InProgress follows Ack or Nak
	return func() {
		close(done)
		<-stopped
	}
}

func (w *worker) term(ctx context.Context, msg adapter.Message) {
	if err := msg.Term(); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to terminate message"))
	}
}

func (w *worker) nak(ctx context.Context, msg adapter.Message) {
	if err := msg.Nak(); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to NAK message"))
	}
}

// Close closes the worker and cleans up resources
func (w *worker) Close() {
	if w.nc == nil {
		return
	}

	w.nc.Close()
}
