package messaging

import (
	"context"

	"go.uber.org/zap"

	"ideaforge-backend/application/ports"
	"ideaforge-backend/domain/events"
)

// NoopPublisher logs events instead of publishing them. Used in development
// when no event bus is configured.
type NoopPublisher struct {
	logger *zap.Logger
}

// NewNoopPublisher creates a publisher that only logs
func NewNoopPublisher(logger *zap.Logger) ports.EventPublisher {
	return &NoopPublisher{logger: logger}
}

// Publish logs the event and drops it
func (p *NoopPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	p.logger.Debug("event dropped (no bus configured)",
		zap.String("eventType", event.GetEventType()),
		zap.String("aggregateID", event.GetAggregateID()),
	)
	return nil
}

// PublishBatch logs the events and drops them
func (p *NoopPublisher) PublishBatch(ctx context.Context, domainEvents []events.DomainEvent) error {
	for _, event := range domainEvents {
		if err := p.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}
