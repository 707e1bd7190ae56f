package notifier_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardkeeper/card-indexer/internal/adapter"
	"github.com/cardkeeper/card-indexer/internal/domain"
	"github.com/cardkeeper/card-indexer/internal/mocks"
	"github.com/cardkeeper/card-indexer/internal/notifier"
)

func socketID(v string) *string {
	return &v
}

func TestNotify_TargetsConnectedSocket(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clients := mocks.NewMockSignalRClients(ctrl)
	registry := notifier.NewRegistry()
	hub := notifier.NewHub(registry)
	hub.OnConnected("abc123")

	msg := domain.JobFinished{CollectionName: "Metal Raiders", CardSetCode: "MRD", SocketID: socketID("abc123")}
	clients.EXPECT().SendTo("abc123", domain.NOTIFY_TARGET_SCRAPE_FINISHED, msg)

	notifier.NewNotifier(clients, registry).Notify(context.Background(), msg)
}

func TestNotify_BroadcastsOtherwise(t *testing.T) {
	tests := []struct {
		name     string
		socketID *string
	}{
		{name: "no socket id", socketID: nil},
		{name: "unknown socket id", socketID: socketID("gone")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			clients := mocks.NewMockSignalRClients(ctrl)
			registry := notifier.NewRegistry()

			msg := domain.JobFinished{CollectionName: "Metal Raiders", CardSetCode: "MRD", SocketID: tt.socketID}
			clients.EXPECT().Broadcast(domain.NOTIFY_TARGET_SCRAPE_FINISHED, msg)

			notifier.NewNotifier(clients, registry).Notify(context.Background(), msg)
		})
	}
}

func TestHub_TracksConnections(t *testing.T) {
	registry := notifier.NewRegistry()
	hub := notifier.NewHub(registry)

	hub.OnConnected("a")
	hub.OnConnected("b")
	assert.Equal(t, 2, registry.Count())
	assert.True(t, registry.IsConnected("a"))

	hub.OnDisconnected("a")
	assert.False(t, registry.IsConnected("a"))
	assert.Equal(t, 1, registry.Count())
}

func TestRelay_HandleMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	js := mocks.NewMockJetStream(ctrl)
	n := mocks.NewMockNotifier(ctrl)
	msg := mocks.NewMockJetStreamMessage(ctrl)

	msg.EXPECT().Data().Return([]byte(`{"collectionName":"Metal Raiders","cardSetCode":"MRD","socketId":"abc123"}`))
	gomock.InOrder(
		n.EXPECT().Notify(gomock.Any(), domain.JobFinished{
			CollectionName: "Metal Raiders",
			CardSetCode:    "MRD",
			SocketID:       socketID("abc123"),
		}),
		msg.EXPECT().Ack().Return(nil),
	)

	relay := notifier.NewRelay(notifier.RelayConfig{}, js, n, adapter.NewJSON())
	relay.HandleMessage(context.Background(), msg)
}

func TestRelay_HandleMessage_BadPayloadIsTerminated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	js := mocks.NewMockJetStream(ctrl)
	n := mocks.NewMockNotifier(ctrl)
	msg := mocks.NewMockJetStreamMessage(ctrl)

	msg.EXPECT().Data().Return([]byte(`not json`))
	msg.EXPECT().Term().Return(nil)

	relay := notifier.NewRelay(notifier.RelayConfig{}, js, n, adapter.NewJSON())
	relay.HandleMessage(context.Background(), msg)
}

func TestRelay_Run(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	js := mocks.NewMockJetStream(ctrl)
	consumer := mocks.NewMockNatsConsumer(ctrl)
	consumeCtx := mocks.NewMockConsumeContext(ctrl)
	n := mocks.NewMockNotifier(ctrl)
	msg := mocks.NewMockJetStreamMessage(ctrl)

	cfg := notifier.RelayConfig{
		StreamName:      "SCRAPE_JOBS",
		FinishedSubject: "scrape-jobs-finished",
		ConsumerName:    "notification-relay",
		InstanceID:      "api-7f9c.internal",
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	js.EXPECT().CreateOrUpdateConsumer(gomock.Any(), "SCRAPE_JOBS", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, cc jetstream.ConsumerConfig) (adapter.Consumer, error) {
			assert.Equal(t, "notification-relay-api-7f9c-internal", cc.Durable)
			assert.Equal(t, notifier.DEFAULT_INACTIVE_THRESHOLD, cc.InactiveThreshold)
			assert.Equal(t, "scrape-jobs-finished", cc.FilterSubject)
			assert.Equal(t, jetstream.AckExplicitPolicy, cc.AckPolicy)
			return consumer, nil
		})
	consumer.EXPECT().Consume(gomock.Any()).DoAndReturn(
		func(handler adapter.MessageHandler, _ ...jetstream.PullConsumeOpt) (adapter.ConsumeContext, error) {
			go handler(msg)
			return consumeCtx, nil
		})
	msg.EXPECT().Data().Return([]byte(`{"collectionName":"Metal Raiders","cardSetCode":"MRD"}`))
	n.EXPECT().Notify(gomock.Any(), gomock.Any())
	msg.EXPECT().Ack().DoAndReturn(func() error {
		cancel()
		return nil
	})
	consumeCtx.EXPECT().Stop()

	err := notifier.NewRelay(cfg, js, n, adapter.NewJSON()).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRelayConfig_DurableName(t *testing.T) {
	tests := []struct {
		name       string
		instanceID string
		expected   string
	}{
		{name: "shared consumer without instance", instanceID: "", expected: "notification-relay"},
		{name: "hostname suffix", instanceID: "api-0", expected: "notification-relay-api-0"},
		{name: "dots and wildcards replaced", instanceID: "pod.ns>*", expected: "notification-relay-pod-ns-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := notifier.RelayConfig{ConsumerName: "notification-relay", InstanceID: tt.instanceID}
			assert.Equal(t, tt.expected, cfg.DurableName())
		})
	}
}

func TestRelay_Run_ReplicasUseDistinctConsumers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	js := mocks.NewMockJetStream(ctrl)
	consumer := mocks.NewMockNatsConsumer(ctrl)
	consumeCtx := mocks.NewMockConsumeContext(ctrl)
	n := mocks.NewMockNotifier(ctrl)

	var durables []string
	js.EXPECT().CreateOrUpdateConsumer(gomock.Any(), "SCRAPE_JOBS", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, cc jetstream.ConsumerConfig) (adapter.Consumer, error) {
			durables = append(durables, cc.Durable)
			assert.Equal(t, 10*time.Minute, cc.InactiveThreshold)
			return consumer, nil
		}).Times(2)
	consumer.EXPECT().Consume(gomock.Any()).Return(consumeCtx, nil).Times(2)
	consumeCtx.EXPECT().Stop().Times(2)

	for _, instance := range []string{"api-0", "api-1"} {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		relay := notifier.NewRelay(notifier.RelayConfig{
			StreamName:        "SCRAPE_JOBS",
			FinishedSubject:   "scrape-jobs-finished",
			ConsumerName:      "notification-relay",
			InstanceID:        instance,
			InactiveThreshold: 10 * time.Minute,
		}, js, n, adapter.NewJSON())
		_ = relay.Run(ctx)
	}

	assert.Equal(t, []string{"notification-relay-api-0", "notification-relay-api-1"}, durables)
}
