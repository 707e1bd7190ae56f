package messaging

import (
	"context"

	"github.com/cardkeeper/card-indexer/internal/domain"
)

// Publisher defines the interface for publishing pipeline messages to the message queue
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishHarvestJob enqueues a harvest job on the jobs subject
	PublishHarvestJob(ctx context.Context, job domain.HarvestJob) error
	// PublishJobFinished publishes a completion message on the finished subject
	PublishJobFinished(ctx context.Context, msg domain.JobFinished) error
	// Close closes the connection
	Close()
}
