package providers

import (
	"context"

	"github.com/chamorrodict/dictsearch/internal/domain/entities"
)

// EventBus announces finished evaluation runs to watchers.
type EventBus interface {
	// Publish sends a run to every subscriber of channel
	Publish(ctx context.Context, channel string, run *entities.EvaluationRun) error

	// Subscribe returns runs published on channel until ctx is done
	Subscribe(ctx context.Context, channel string) (<-chan *entities.EvaluationRun, error)

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannelRuns carries every stored evaluation run.
const EventChannelRuns = "eval:runs"
