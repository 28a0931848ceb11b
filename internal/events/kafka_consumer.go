package events

import (
	"context"

	"github.com/campusnest/service-housing/internal/platform/kafka"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// UserBookingCanceller withdraws a departed user's active bookings.
type UserBookingCanceller interface {
	CancelActiveBookingsForUser(ctx context.Context, userID uuid.UUID) (int, error)
}

// UserEventConsumer listens to identity events and cleans up bookings of deleted users.
type UserEventConsumer struct {
	consumer *kafka.Consumer
	service  UserBookingCanceller
	logger   *zap.Logger
}

// NewUserEventConsumer creates a new UserEventConsumer.
func NewUserEventConsumer(
	brokers []string,
	groupID string,
	service UserBookingCanceller,
	logger *zap.Logger,
) *UserEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, TopicUserEvents, logger)
	return &UserEventConsumer{
		consumer: consumer,
		service:  service,
		logger:   logger,
	}
}

// Start begins consuming user events. This blocks until the context is cancelled.
func (c *UserEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *UserEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *UserEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	return handleUserEvent(ctx, msg.Value, c.service, c.logger)
}

func handleUserEvent(ctx context.Context, value []byte, service UserBookingCanceller, logger *zap.Logger) error {
	cloudEvent, err := kafka.ParseCloudEvent(value)
	if err != nil {
		logger.Error("failed to parse cloud event from user topic",
			zap.Error(err),
			zap.String("raw", string(value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case UserDeleted:
		return handleUserDeleted(ctx, cloudEvent, service, logger)
	default:
		logger.Debug("ignoring unhandled user event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func handleUserDeleted(ctx context.Context, cloudEvent kafka.CloudEvent, service UserBookingCanceller, logger *zap.Logger) error {
	var evt UserDeletedEvent
	if err := cloudEvent.ParseData(&evt); err != nil || evt.UserID == uuid.Nil {
		logger.Error("failed to parse UserDeletedEvent data",
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	cancelled, err := service.CancelActiveBookingsForUser(ctx, evt.UserID)
	if err != nil {
		logger.Error("failed to cancel bookings of deleted user",
			zap.String("user_id", evt.UserID.String()),
			zap.Error(err),
		)
		return err
	}

	logger.Info("bookings of deleted user cancelled",
		zap.String("user_id", evt.UserID.String()),
		zap.Int("cancelled", cancelled),
	)
	return nil
}
