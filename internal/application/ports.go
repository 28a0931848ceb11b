package application

import (
	"context"

	bookingDomain "github.com/campusnest/service-housing/internal/domain/booking"
	"github.com/campusnest/service-housing/internal/events"
	"github.com/campusnest/service-housing/internal/platform/kafka"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Actor is the authenticated caller of a use case.
type Actor = bookingDomain.Actor

// EventPublisher publishes domain events. *kafka.Producer satisfies it.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// Transactor runs fn in one storage transaction. Repositories called with the
// ctx handed to fn take part in it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// PropertyCache holds public property detail payloads.
type PropertyCache interface {
	Get(ctx context.Context, id uuid.UUID, dest any) (bool, error)
	Set(ctx context.Context, id uuid.UUID, value any) error
	Invalidate(ctx context.Context, id uuid.UUID) error
}

// publishEvent emits a CloudEvent keyed by subject. Failures are logged and
// never fail the calling use case.
func publishEvent(ctx context.Context, publisher EventPublisher, logger *zap.Logger, topic, eventType, subject string, data interface{}) {
	cloudEvent, err := kafka.NewCloudEvent(events.Source, eventType, data)
	if err != nil {
		logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	cloudEvent.Subject = subject

	if err := publisher.PublishEvent(ctx, topic, cloudEvent); err != nil {
		logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

func invalidateProperty(ctx context.Context, cache PropertyCache, logger *zap.Logger, propertyID uuid.UUID) {
	if err := cache.Invalidate(ctx, propertyID); err != nil {
		logger.Error("failed to invalidate property cache",
			zap.String("property_id", propertyID.String()),
			zap.Error(err),
		)
	}
}
