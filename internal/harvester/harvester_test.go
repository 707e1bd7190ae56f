package harvester_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardkeeper/card-indexer/internal/adapter"
	"github.com/cardkeeper/card-indexer/internal/domain"
	"github.com/cardkeeper/card-indexer/internal/harvester"
	"github.com/cardkeeper/card-indexer/internal/logger"
	"github.com/cardkeeper/card-indexer/internal/mocks"
	"github.com/cardkeeper/card-indexer/internal/reconciler"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

const metalRaidersHTML = `<table class="sortable"><tr><th>Card number</th><th>Name</th><th>Rarity</th></tr>
<tr><td>MRD-001</td><td>"Feral Imp"</td><td>Secret RareSuper Rare</td></tr></table>`

// testWorkerMocks contains all the mocks needed for testing the worker
type testWorkerMocks struct {
	ctrl       *gomock.Controller
	natsJS     *mocks.MockNatsJetStream
	natsConn   *mocks.MockNatsConn
	jetStream  *mocks.MockJetStream
	fetcher    *mocks.MockWikiFetcher
	parser     *mocks.MockParser
	reconciler *mocks.MockReconciler
	sink       *mocks.MockDiagnosticsSink
	publisher  *mocks.MockPublisher
	clock      *mocks.MockClock
	config     harvester.Config
}

// setupTestWorker creates all the mocks for testing
func setupTestWorker(t *testing.T) *testWorkerMocks {
	ctrl := gomock.NewController(t)

	return &testWorkerMocks{
		ctrl:       ctrl,
		natsJS:     mocks.NewMockNatsJetStream(ctrl),
		natsConn:   mocks.NewMockNatsConn(ctrl),
		jetStream:  mocks.NewMockJetStream(ctrl),
		fetcher:    mocks.NewMockWikiFetcher(ctrl),
		parser:     mocks.NewMockParser(ctrl),
		reconciler: mocks.NewMockReconciler(ctrl),
		sink:       mocks.NewMockDiagnosticsSink(ctrl),
		publisher:  mocks.NewMockPublisher(ctrl),
		clock:      mocks.NewMockClock(ctrl),
		config: harvester.Config{
			URL:            "nats://localhost:4222",
			StreamName:     "SCRAPE_JOBS",
			JobsSubject:    "scrape-jobs",
			ConsumerName:   "harvest-worker",
			MaxReconnects:  10,
			ReconnectWait:  time.Second,
			ConnectionName: "test-harvest-worker",
			AckWaitTimeout: 5 * time.Minute,
			MaxDeliver:     -1,
			Cooldown:       30 * time.Second,
		},
	}
}

// tearDownTestWorker cleans up the test mocks
func tearDownTestWorker(m *testWorkerMocks) {
	m.ctrl.Finish()
}

func (m *testWorkerMocks) newWorker(t *testing.T) harvester.Worker {
	m.natsJS.EXPECT().Connect(m.config.URL, gomock.Any()).Return(m.natsConn, m.jetStream, nil)

	w, err := harvester.NewWorker(m.config, m.natsJS, m.fetcher, m.parser, m.reconciler, m.sink, m.publisher, m.clock, adapter.NewJSON())
	require.NoError(t, err)
	return w
}

func ready() <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return ch
}

func transientErr(setName string) error {
	return domain.NewError(domain.ErrorKindTransient, setName, errors.New("net::ERR_CONNECTION_RESET"))
}

func socketID(v string) *string {
	return &v
}

func TestNewWorker_ConnectError(t *testing.T) {
	m := setupTestWorker(t)
	defer tearDownTestWorker(m)

	m.natsJS.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(nil, nil, assert.AnError)

	w, err := harvester.NewWorker(m.config, m.natsJS, m.fetcher, m.parser, m.reconciler, m.sink, m.publisher, m.clock, adapter.NewJSON())
	assert.Error(t, err)
	assert.Nil(t, w)
	assert.Contains(t, err.Error(), "failed to connect to NATS")
}

func TestProcessJob_MetalRaiders(t *testing.T) {
	m := setupTestWorker(t)
	defer tearDownTestWorker(m)
	w := m.newWorker(t)

	ctx := context.Background()
	rows := []domain.EditionRow{{CardNumber: "MRD-001", Name: "Feral Imp", Rarity: "Secret RareSuper Rare", CollectionName: "Metal Raiders"}}
	summary := reconciler.Summary{SetName: "Metal Raiders", CardsUpserted: 1, EditionsAttempted: 1, EditionsInserted: 1}

	m.fetcher.EXPECT().FetchSetPage(gomock.Any(), "Metal Raiders").Return(metalRaidersHTML, nil)
	m.parser.EXPECT().ParseEditionTable("Metal Raiders", metalRaidersHTML).Return(rows, nil)
	m.reconciler.EXPECT().Reconcile(gomock.Any(), "Metal Raiders", rows).Return(summary, nil)

	report, err := w.ProcessJob(ctx, domain.HarvestJob{CardSetNames: []string{"Metal Raiders"}, CardSetCode: "MRD"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Metal Raiders"}, report.Completed)
	assert.Empty(t, report.Failed)
	assert.Equal(t, []reconciler.Summary{summary}, report.Summaries)
}

func TestProcessJob_TransientFailureIsRequeuedAfterCooldown(t *testing.T) {
	m := setupTestWorker(t)
	defer tearDownTestWorker(m)
	w := m.newWorker(t)

	ctx := context.Background()

	gomock.InOrder(
		m.fetcher.EXPECT().FetchSetPage(gomock.Any(), "Metal Raiders").Return("", transientErr("Metal Raiders")),
		m.clock.EXPECT().After(30*time.Second).Return(ready()),
		m.fetcher.EXPECT().FetchSetPage(gomock.Any(), "Spell Ruler").Return("<html/>", nil),
		m.parser.EXPECT().ParseEditionTable("Spell Ruler", "<html/>").Return(nil, nil),
		m.reconciler.EXPECT().Reconcile(gomock.Any(), "Spell Ruler", gomock.Any()).Return(reconciler.Summary{SetName: "Spell Ruler"}, nil),
		m.fetcher.EXPECT().FetchSetPage(gomock.Any(), "Metal Raiders").Return("<html/>", nil),
		m.parser.EXPECT().ParseEditionTable("Metal Raiders", "<html/>").Return(nil, nil),
		m.reconciler.EXPECT().Reconcile(gomock.Any(), "Metal Raiders", gomock.Any()).Return(reconciler.Summary{SetName: "Metal Raiders"}, nil),
	)

	report, err := w.ProcessJob(ctx, domain.HarvestJob{CardSetNames: []string{"Metal Raiders", "Spell Ruler"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Spell Ruler", "Metal Raiders"}, report.Completed)
	assert.Empty(t, report.Failed)
}

func TestProcessJob_TransientRetriesExhausted(t *testing.T) {
	m := setupTestWorker(t)
	m.config.MaxTransientRetries = 1
	defer tearDownTestWorker(m)
	w := m.newWorker(t)

	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	m.fetcher.EXPECT().FetchSetPage(gomock.Any(), "Metal Raiders").Return("", transientErr("Metal Raiders")).Times(2)
	m.clock.EXPECT().After(30 * time.Second).Return(ready())
	m.clock.EXPECT().Now().Return(now)
	m.sink.EXPECT().RecordFailedSet(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, failed domain.FailedSet) error {
			assert.Equal(t, "Metal Raiders", failed.SetName)
			assert.Equal(t, domain.ErrorKindTransient, failed.Kind)
			assert.Empty(t, failed.Rows)
			assert.Equal(t, now, failed.RecordedAt)
			return nil
		})

	report, err := w.ProcessJob(ctx, domain.HarvestJob{CardSetNames: []string{"Metal Raiders"}})
	require.NoError(t, err)
	assert.Empty(t, report.Completed)
	require.Contains(t, report.Failed, "Metal Raiders")
}

func TestProcessJob_FatalFailureIsIsolated(t *testing.T) {
	m := setupTestWorker(t)
	defer tearDownTestWorker(m)
	w := m.newWorker(t)

	ctx := context.Background()
	rows := []domain.EditionRow{{CardNumber: "SRL-001", Name: "Mystical Elf", Rarity: "Common", CollectionName: "Spell Ruler"}}
	reconcileErr := domain.NewError(domain.ErrorKindExternal, "Spell Ruler", errors.New("card info API returned 400"))

	m.fetcher.EXPECT().FetchSetPage(gomock.Any(), "Metal Raiders").Return("<html/>", nil)
	m.parser.EXPECT().ParseEditionTable("Metal Raiders", "<html/>").Return(nil, errors.New("no table found"))
	m.fetcher.EXPECT().FetchSetPage(gomock.Any(), "Spell Ruler").Return("<table/>", nil)
	m.parser.EXPECT().ParseEditionTable("Spell Ruler", "<table/>").Return(rows, nil)
	m.reconciler.EXPECT().Reconcile(gomock.Any(), "Spell Ruler", rows).Return(reconciler.Summary{}, reconcileErr)
	m.clock.EXPECT().Now().Return(time.Now()).Times(2)

	var recorded []domain.FailedSet
	m.sink.EXPECT().RecordFailedSet(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, failed domain.FailedSet) error {
			recorded = append(recorded, failed)
			return nil
		}).Times(2)

	report, err := w.ProcessJob(ctx, domain.HarvestJob{CardSetNames: []string{"Metal Raiders", "Spell Ruler"}})
	require.NoError(t, err)
	assert.Empty(t, report.Completed)
	assert.Len(t, report.Failed, 2)

	require.Len(t, recorded, 2)
	assert.Equal(t, domain.ErrorKindSchema, recorded[0].Kind)
	assert.Equal(t, domain.ErrorKindExternal, recorded[1].Kind)
	assert.Equal(t, rows, recorded[1].Rows)
}

func TestProcessJob_CancelledDuringCooldown(t *testing.T) {
	m := setupTestWorker(t)
	defer tearDownTestWorker(m)
	w := m.newWorker(t)

	ctx, cancel := context.WithCancel(context.Background())

	m.fetcher.EXPECT().FetchSetPage(gomock.Any(), "Metal Raiders").Return("", transientErr("Metal Raiders"))
	m.clock.EXPECT().After(30 * time.Second).DoAndReturn(func(time.Duration) <-chan time.Time {
		cancel()
		return make(chan time.Time)
	})

	_, err := w.ProcessJob(ctx, domain.HarvestJob{CardSetNames: []string{"Metal Raiders"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func expectMessage(ctrl *gomock.Controller, data string) *mocks.MockJetStreamMessage {
	msg := mocks.NewMockJetStreamMessage(ctrl)
	msg.EXPECT().Subject().Return("scrape-jobs").AnyTimes()
	msg.EXPECT().Metadata().Return(&jetstream.MsgMetadata{
		Stream:       "SCRAPE_JOBS",
		Consumer:     "harvest-worker",
		NumDelivered: 1,
	}, nil).AnyTimes()
	msg.EXPECT().Data().Return([]byte(data)).AnyTimes()
	return msg
}

func TestHandleMessage_InvalidPayloadIsTerminated(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "malformed json", data: `{"cardSetNames":`},
		{name: "no set names", data: `{"cardSetNames":[],"cardSetCode":"MRD"}`},
		{name: "blank set name", data: `{"cardSetNames":["  "],"cardSetCode":"MRD"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := setupTestWorker(t)
			defer tearDownTestWorker(m)
			w := m.newWorker(t)

			msg := expectMessage(m.ctrl, tt.data)
			msg.EXPECT().Term().Return(nil)

			w.HandleMessage(context.Background(), msg)
		})
	}
}

func TestHandleMessage_PublishesFinishedPerSetAndAcks(t *testing.T) {
	m := setupTestWorker(t)
	defer tearDownTestWorker(m)
	w := m.newWorker(t)

	msg := expectMessage(m.ctrl, `{"cardSetNames":["Metal Raiders","Spell Ruler"],"cardSetCode":"MRD","socketId":"abc123"}`)

	m.fetcher.EXPECT().FetchSetPage(gomock.Any(), "Metal Raiders").Return(metalRaidersHTML, nil)
	m.parser.EXPECT().ParseEditionTable("Metal Raiders", metalRaidersHTML).Return(nil, nil)
	m.reconciler.EXPECT().Reconcile(gomock.Any(), "Metal Raiders", gomock.Any()).Return(reconciler.Summary{}, nil)
	m.fetcher.EXPECT().FetchSetPage(gomock.Any(), "Spell Ruler").Return("", domain.NewError(domain.ErrorKindSchema, "Spell Ruler", errors.New("no table found")))
	m.clock.EXPECT().Now().Return(time.Now())
	m.sink.EXPECT().RecordFailedSet(gomock.Any(), gomock.Any()).Return(nil)

	gomock.InOrder(
		m.publisher.EXPECT().PublishJobFinished(gomock.Any(), domain.JobFinished{
			CollectionName: "Metal Raiders",
			CardSetCode:    "MRD",
			SocketID:       socketID("abc123"),
		}).Return(nil),
		m.publisher.EXPECT().PublishJobFinished(gomock.Any(), domain.JobFinished{
			CollectionName: "Spell Ruler",
			CardSetCode:    "MRD",
			SocketID:       socketID("abc123"),
		}).Return(nil),
		msg.EXPECT().Ack().Return(nil),
	)

	w.HandleMessage(context.Background(), msg)
}

func TestHandleMessage_PublishFailureNaks(t *testing.T) {
	m := setupTestWorker(t)
	defer tearDownTestWorker(m)
	w := m.newWorker(t)

	msg := expectMessage(m.ctrl, `{"cardSetNames":["Metal Raiders"],"cardSetCode":"MRD"}`)

	m.fetcher.EXPECT().FetchSetPage(gomock.Any(), "Metal Raiders").Return(metalRaidersHTML, nil)
	m.parser.EXPECT().ParseEditionTable("Metal Raiders", metalRaidersHTML).Return(nil, nil)
	m.reconciler.EXPECT().Reconcile(gomock.Any(), "Metal Raiders", gomock.Any()).Return(reconciler.Summary{}, nil)
	m.publisher.EXPECT().PublishJobFinished(gomock.Any(), gomock.Any()).Return(errors.New("nats: timeout"))
	msg.EXPECT().Nak().Return(nil)

	w.HandleMessage(context.Background(), msg)
}

func TestHandleMessage_HeartbeatExtendsDeadline(t *testing.T) {
	m := setupTestWorker(t)
	m.config.HeartbeatInterval = time.Minute
	defer tearDownTestWorker(m)
	w := m.newWorker(t)

	msg := expectMessage(m.ctrl, `{"cardSetNames":["Metal Raiders"],"cardSetCode":"MRD"}`)

	ticks := make(chan time.Time, 1)
	ticks <- time.Time{}
	ticker := mocks.NewMockTicker(m.ctrl)
	ticker.EXPECT().C().Return((<-chan time.Time)(ticks)).AnyTimes()
	m.clock.EXPECT().NewTicker(time.Minute).Return(ticker)

	beat := make(chan struct{})
	msg.EXPECT().InProgress().DoAndReturn(func() error {
		close(beat)
		return nil
	})

	m.fetcher.EXPECT().FetchSetPage(gomock.Any(), "Metal Raiders").DoAndReturn(
		func(context.Context, string) (string, error) {
			select {
			case <-beat:
			case <-time.After(5 * time.Second):
				t.Error("heartbeat did not fire")
			}
			return metalRaidersHTML, nil
		})
	m.parser.EXPECT().ParseEditionTable("Metal Raiders", metalRaidersHTML).Return(nil, nil)
	m.reconciler.EXPECT().Reconcile(gomock.Any(), "Metal Raiders", gomock.Any()).Return(reconciler.Summary{}, nil)
	// The heartbeat is fully stopped before the message is settled
	gomock.InOrder(
		ticker.EXPECT().Stop(),
		m.publisher.EXPECT().PublishJobFinished(gomock.Any(), gomock.Any()).Return(nil),
		msg.EXPECT().Ack().Return(nil),
	)

	w.HandleMessage(context.Background(), msg)
}

func TestRun_CreateConsumerError(t *testing.T) {
	m := setupTestWorker(t)
	defer tearDownTestWorker(m)
	w := m.newWorker(t)

	ctx := context.Background()

	m.jetStream.EXPECT().CreateOrUpdateStream(gomock.Any(), gomock.Any()).Return(nil)
	m.jetStream.EXPECT().
		CreateOrUpdateConsumer(gomock.Any(),
			"SCRAPE_JOBS",
			jetstream.ConsumerConfig{
				Durable:       m.config.ConsumerName,
				AckPolicy:     jetstream.AckExplicitPolicy,
				AckWait:       m.config.AckWaitTimeout,
				MaxDeliver:    m.config.MaxDeliver,
				FilterSubject: "scrape-jobs",
			}).
		Return(nil, assert.AnError)

	err := w.Run(ctx)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create/update consumer")
}

func TestRun_ConsumesUntilCancelled(t *testing.T) {
	m := setupTestWorker(t)
	defer tearDownTestWorker(m)
	w := m.newWorker(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := mocks.NewMockNatsConsumer(m.ctrl)
	consumeCtx := mocks.NewMockConsumeContext(m.ctrl)
	msg := expectMessage(m.ctrl, `{"cardSetNames":["Metal Raiders"],"cardSetCode":"MRD","socketId":"abc123"}`)

	m.jetStream.EXPECT().CreateOrUpdateStream(gomock.Any(), gomock.Any()).Return(nil)
	m.jetStream.EXPECT().CreateOrUpdateConsumer(gomock.Any(), "SCRAPE_JOBS", gomock.Any()).Return(consumer, nil)
	consumer.EXPECT().Info(gomock.Any()).Return(&jetstream.ConsumerInfo{Name: "harvest-worker"}, nil)
	consumer.EXPECT().Consume(gomock.Any(), gomock.Any()).DoAndReturn(
		func(handler adapter.MessageHandler, _ ...jetstream.PullConsumeOpt) (adapter.ConsumeContext, error) {
			go handler(msg)
			return consumeCtx, nil
		})
	consumeCtx.EXPECT().Stop()

	m.fetcher.EXPECT().FetchSetPage(gomock.Any(), "Metal Raiders").Return(metalRaidersHTML, nil)
	m.parser.EXPECT().ParseEditionTable("Metal Raiders", metalRaidersHTML).Return(nil, nil)
	m.reconciler.EXPECT().Reconcile(gomock.Any(), "Metal Raiders", gomock.Any()).Return(reconciler.Summary{}, nil)
	m.publisher.EXPECT().PublishJobFinished(gomock.Any(), domain.JobFinished{
		CollectionName: "Metal Raiders",
		CardSetCode:    "MRD",
		SocketID:       socketID("abc123"),
	}).Return(nil)
	msg.EXPECT().Ack().DoAndReturn(func() error {
		cancel()
		return nil
	})

	err := w.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, harvester.CanTransition(harvester.StateReceived, harvester.StateFetching))
	assert.True(t, harvester.CanTransition(harvester.StateFetching, harvester.StateRequeued))
	assert.True(t, harvester.CanTransition(harvester.StateReconciled, harvester.StateCompleted))
	assert.False(t, harvester.CanTransition(harvester.StateCompleted, harvester.StateFetching))
	assert.False(t, harvester.CanTransition(harvester.StateReceived, harvester.StateCompleted))
}
