package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Producer publishes CloudEvents to Kafka topics.
type Producer struct {
	writer *kafkago.Writer
	logger *zap.Logger
}

// NewProducer creates a Producer; the topic is chosen per message.
func NewProducer(brokers []string, logger *zap.Logger) *Producer {
	return &Producer{
		writer: &kafkago.Writer{
			Addr:                   kafkago.TCP(brokers...),
			Balancer:               &kafkago.Hash{},
			RequiredAcks:           kafkago.RequireAll,
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
		},
		logger: logger,
	}
}

// PublishEvent writes the event keyed by its subject, so events of one
// aggregate stay ordered within a partition.
func (p *Producer) PublishEvent(ctx context.Context, topic string, event CloudEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal cloud event: %w", err)
	}

	msg := kafkago.Message{
		Topic: topic,
		Key:   []byte(event.Subject),
		Value: value,
		Headers: []kafkago.Header{
			{Key: "ce_type", Value: []byte(event.Type)},
			{Key: "ce_source", Value: []byte(event.Source)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to %s: %w", topic, err)
	}

	p.logger.Debug("event published",
		zap.String("topic", topic),
		zap.String("type", event.Type),
		zap.String("id", event.ID),
	)
	return nil
}

// Close flushes pending writes.
func (p *Producer) Close() error {
	return p.writer.Close()
}

// MessageHandler processes one message. A returned error is retried with
// backoff until the handler succeeds; wrap it with backoff.Permanent to skip
// the message instead.
type MessageHandler func(ctx context.Context, msg kafkago.Message) error

// MessageReader is the part of a kafka-go Reader the Consumer uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Consumer reads a single topic as part of a consumer group.
type Consumer struct {
	reader     MessageReader
	newBackOff func() backoff.BackOff
	logger     *zap.Logger
}

// ConsumerOption configures a Consumer.
type ConsumerOption func(*Consumer)

// WithRetryBackOff sets the policy used between handler retries. newBackOff
// is called once per message.
func WithRetryBackOff(newBackOff func() backoff.BackOff) ConsumerOption {
	return func(c *Consumer) {
		c.newBackOff = newBackOff
	}
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 0
	return b
}

// NewConsumer creates a Consumer for topic within groupID.
func NewConsumer(brokers []string, groupID, topic string, logger *zap.Logger, opts ...ConsumerOption) *Consumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	return NewReaderConsumer(reader, logger, opts...)
}

// NewReaderConsumer creates a Consumer over an existing reader.
func NewReaderConsumer(reader MessageReader, logger *zap.Logger, opts ...ConsumerOption) *Consumer {
	c := &Consumer{
		reader:     reader,
		newBackOff: defaultBackOff,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Consume blocks, dispatching messages to handler until ctx is cancelled.
// A message is committed only after its handler succeeds or gives up with a
// permanent error, so a failing message holds back the partition.
func (c *Consumer) Consume(ctx context.Context, handler MessageHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Error("failed to fetch message", zap.Error(err))
			continue
		}

		if err := c.handle(ctx, handler, msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Error("message skipped",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Error("failed to commit offset", zap.Error(err))
		}
	}
}

func (c *Consumer) handle(ctx context.Context, handler MessageHandler, msg kafkago.Message) error {
	op := func() error {
		return handler(ctx, msg)
	}
	notify := func(err error, wait time.Duration) {
		c.logger.Warn("message handler failed, retrying",
			zap.String("topic", msg.Topic),
			zap.Int64("offset", msg.Offset),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}
	return backoff.RetryNotify(op, backoff.WithContext(c.newBackOff(), ctx), notify)
}

// Close leaves the consumer group.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
