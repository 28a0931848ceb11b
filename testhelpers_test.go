//go:build integration

package main_test

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/campusnest/service-housing/internal/application"
	"github.com/campusnest/service-housing/internal/cache"
	housingEvents "github.com/campusnest/service-housing/internal/events"
	propertyDomain "github.com/campusnest/service-housing/internal/domain/property"
	roomDomain "github.com/campusnest/service-housing/internal/domain/room"
	"github.com/campusnest/service-housing/internal/platform/database"
	"github.com/campusnest/service-housing/internal/platform/kafka"
	"github.com/campusnest/service-housing/internal/repository"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	KafkaBrokers []string
	Cleanup      func()
}

// housingStack holds wired-up housing service components.
type housingStack struct {
	Properties      *repository.GormPropertyRepository
	Rooms           *repository.GormRoomRepository
	Bookings        *repository.GormBookingRepository
	Service         *application.BookingService
	Consumer        *housingEvents.UserEventConsumer
	CleanupProducer func()
}

// setupPostgres starts a PostgreSQL container and applies the SQL migrations.
func setupPostgres(t *testing.T) (*gorm.DB, func()) {
	t.Helper()
	ctx := context.Background()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_housing",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := database.PostgresConfig{
		Host:     pgHost,
		Port:     pgPort.Port(),
		User:     "test",
		Password: "test",
		DBName:   "test_housing",
		SSLMode:  "disable",
	}

	// Poll until the database accepts connections.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = database.Connect(cfg, zap.NewNop())
		return err == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, database.RunMigrations(cfg.DatabaseURL(), "migrations", zap.NewNop()))

	cleanup := func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}
	return db, cleanup
}

// setupContainers starts PostgreSQL and Kafka testcontainers.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()

	db, cleanupPG := setupPostgres(t)

	// Start Kafka container using confluent-local (supports KRaft natively).
	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	createTopics(t, kafkaBrokers, housingEvents.TopicBookingEvents, housingEvents.TopicUserEvents, housingEvents.TopicComplaintEvents)

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
		cleanupPG()
	}

	return &testInfra{
		DB:           db,
		KafkaBrokers: kafkaBrokers,
		Cleanup:      cleanup,
	}
}

// noopPublisher drops events for tests that run without a broker.
type noopPublisher struct{}

func (noopPublisher) PublishEvent(context.Context, string, kafka.CloudEvent) error { return nil }

// setupHousingStack wires the booking service against db. With no brokers the
// service publishes nowhere and no consumer is created.
func setupHousingStack(t *testing.T, db *gorm.DB, brokers []string) *housingStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	stack := &housingStack{
		Properties:      repository.NewGormPropertyRepository(db),
		Rooms:           repository.NewGormRoomRepository(db),
		Bookings:        repository.NewGormBookingRepository(db),
		CleanupProducer: func() {},
	}
	audits := repository.NewGormAuditRepository(db)

	var publisher application.EventPublisher = noopPublisher{}
	if len(brokers) > 0 {
		producer := kafka.NewProducer(brokers, logger)
		publisher = producer
		stack.CleanupProducer = func() { _ = producer.Close() }
	}

	stack.Service = application.NewBookingService(stack.Bookings, stack.Rooms, stack.Properties, audits, repository.NewGormTransactor(db), publisher, cache.Nop{}, logger)

	if len(brokers) > 0 {
		groupID := fmt.Sprintf("test-housing-%s", uuid.New().String()[:8])
		stack.Consumer = housingEvents.NewUserEventConsumer(brokers, groupID, stack.Service, logger)
	}
	return stack
}

// seedListedRoom stores an approved property with one room.
func seedListedRoom(t *testing.T, stack *housingStack, ownerID uuid.UUID, capacity, available int) (*propertyDomain.Property, *roomDomain.Room) {
	t.Helper()
	ctx := context.Background()

	prop, err := propertyDomain.NewProperty(ownerID, propertyDomain.Details{
		Name:           "Integration Hostel",
		NearestCollege: "Test University",
	})
	require.NoError(t, err)
	require.NoError(t, prop.Approve())
	require.NoError(t, stack.Properties.Save(ctx, prop))

	rm, err := roomDomain.NewRoom(prop.ID(), roomDomain.Spec{
		RoomType:       roomDomain.RoomTypeSharing,
		Capacity:       capacity,
		AvailableCount: available,
		MonthlyRent:    750000,
	})
	require.NoError(t, err)
	require.NoError(t, stack.Rooms.Save(ctx, rm))
	return prop, rm
}

// publishTestEvent publishes a CloudEvent to Kafka.
func publishTestEvent(t *testing.T, brokers []string, topic, source, eventType string, data interface{}) {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	producer := kafka.NewProducer(brokers, logger)
	defer func() { _ = producer.Close() }()

	ce, err := kafka.NewCloudEvent(source, eventType, data)
	require.NoError(t, err, "failed to create cloud event")

	err = producer.PublishEvent(context.Background(), topic, ce)
	require.NoError(t, err, "failed to publish event")
}

// waitForBookingStatus polls the bookings table until the status matches.
func waitForBookingStatus(t *testing.T, db *gorm.DB, bookingID uuid.UUID, expectedStatus string, timeout time.Duration) repository.BookingModel {
	t.Helper()
	var result repository.BookingModel
	require.Eventually(t, func() bool {
		var model repository.BookingModel
		if err := db.Where("id = ?", bookingID).First(&model).Error; err != nil {
			return false
		}
		if model.Status == expectedStatus {
			result = model
			return true
		}
		return false
	}, timeout, 200*time.Millisecond, "booking did not transition to %s", expectedStatus)
	return result
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the expected type.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType string, timeout time.Duration) kafka.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	groupID := fmt.Sprintf("test-assert-%s", uuid.New().String()[:8])
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		ce, err := kafka.ParseCloudEvent(msg.Value)
		if err != nil {
			continue
		}
		if ce.Type == expectedType {
			return ce
		}
	}
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	err = controllerConn.CreateTopics(topicConfigs...)
	require.NoError(t, err, "failed to create Kafka topics")

	// Give Kafka a moment to propagate topic metadata.
	time.Sleep(1 * time.Second)
}
