package domain

import (
	"context"

	"property-poster/models"
)

// ResultRepository keeps the results of finished runs.
type ResultRepository interface {
	Save(ctx context.Context, run models.Run) error
}

// EventPublisher announces each posting result to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event PostedEvent) error
	Close() error
}
