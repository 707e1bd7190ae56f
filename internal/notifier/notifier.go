package notifier

import (
	"context"

	"go.uber.org/zap"

	"github.com/cardkeeper/card-indexer/internal/adapter"
	"github.com/cardkeeper/card-indexer/internal/domain"
	"github.com/cardkeeper/card-indexer/internal/logger"
)

// Notifier delivers harvest completion events to connected clients
//
//go:generate mockgen -source=notifier.go -destination=../mocks/notifier.go -package=mocks -mock_names=Notifier=MockNotifier
type Notifier interface {
	// Notify sends msg to the connection named by its socket id when that connection
	// is live, and to every client otherwise. Delivery is fire-and-forget.
	Notify(ctx context.Context, msg domain.JobFinished)
}

type notifier struct {
	clients  adapter.SignalRClients
	registry *Registry
}

// NewNotifier creates a new completion notifier
func NewNotifier(clients adapter.SignalRClients, registry *Registry) Notifier {
	return &notifier{
		clients:  clients,
		registry: registry,
	}
}

func (n *notifier) Notify(ctx context.Context, msg domain.JobFinished) {
	if msg.SocketID != nil && n.registry.IsConnected(*msg.SocketID) {
		logger.DebugCtx(ctx, "Notifying connection",
			zap.String("connectionId", *msg.SocketID),
			zap.String("collectionName", msg.CollectionName))
		n.clients.SendTo(*msg.SocketID, domain.NOTIFY_TARGET_SCRAPE_FINISHED, msg)
		return
	}

	logger.DebugCtx(ctx, "Broadcasting completion",
		zap.String("collectionName", msg.CollectionName),
		zap.Int("connections", n.registry.Count()))
	n.clients.Broadcast(domain.NOTIFY_TARGET_SCRAPE_FINISHED, msg)
}
