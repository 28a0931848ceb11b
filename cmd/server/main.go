package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campusnest/service-housing/internal/application"
	"github.com/campusnest/service-housing/internal/cache"
	"github.com/campusnest/service-housing/internal/config"
	housingEvents "github.com/campusnest/service-housing/internal/events"
	"github.com/campusnest/service-housing/internal/handler"
	"github.com/campusnest/service-housing/internal/platform/auth"
	"github.com/campusnest/service-housing/internal/platform/database"
	"github.com/campusnest/service-housing/internal/platform/health"
	"github.com/campusnest/service-housing/internal/platform/kafka"
	"github.com/campusnest/service-housing/internal/platform/logger"
	"github.com/campusnest/service-housing/internal/platform/middleware"
	"github.com/campusnest/service-housing/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const serviceName = "service-housing"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting "+serviceName,
		zap.String("port", cfg.Port),
		zap.String("env", cfg.AppEnv),
	)

	// Connect to database
	dbConfig := database.PostgresConfig{
		Host:     cfg.DBConfig.Host,
		Port:     cfg.DBConfig.Port,
		User:     cfg.DBConfig.User,
		Password: cfg.DBConfig.Password,
		DBName:   cfg.DBConfig.DBName,
		SSLMode:  cfg.DBConfig.SSLMode,
	}
	db, err := database.Connect(dbConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(
			&repository.PropertyModel{},
			&repository.RoomModel{},
			&repository.BookingModel{},
			&repository.AuditLogModel{},
			&repository.ReviewModel{},
			&repository.WishlistItemModel{},
			&repository.ComplaintModel{},
		); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(dbConfig.DatabaseURL(), cfg.MigrationsDir, log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(
		cfg.JWTConfig.Secret,
		cfg.JWTConfig.AccessTTL,
		cfg.JWTConfig.RefreshTTL,
	)

	// Initialize property cache; without a Redis address every read hits the database
	var propertyCache application.PropertyCache = cache.Nop{}
	if cfg.RedisConfig.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisConfig.Addr,
			Password: cfg.RedisConfig.Password,
			DB:       cfg.RedisConfig.DB,
		})
		defer func() { _ = redisClient.Close() }()

		pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("redis unreachable, continuing with cache calls failing soft", zap.Error(err))
		}
		pingCancel()
		propertyCache = cache.NewPropertyCache(redisClient, cfg.RedisConfig.TTL)
	}

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize repositories
	propertyRepo := repository.NewGormPropertyRepository(db)
	roomRepo := repository.NewGormRoomRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)
	auditRepo := repository.NewGormAuditRepository(db)
	reviewRepo := repository.NewGormReviewRepository(db)
	wishlistRepo := repository.NewGormWishlistRepository(db)
	complaintRepo := repository.NewGormComplaintRepository(db)

	// Initialize application services
	propertyService := application.NewPropertyService(propertyRepo, roomRepo, kafkaProducer, propertyCache, log)
	bookingService := application.NewBookingService(bookingRepo, roomRepo, propertyRepo, auditRepo, repository.NewGormTransactor(db), kafkaProducer, propertyCache, log)
	adminService := application.NewAdminService(propertyRepo, bookingRepo, complaintRepo, auditRepo, kafkaProducer, propertyCache, log)
	reviewService := application.NewReviewService(reviewRepo, bookingRepo, propertyRepo, kafkaProducer, log)
	wishlistService := application.NewWishlistService(wishlistRepo, propertyRepo, roomRepo, log)
	complaintService := application.NewComplaintService(complaintRepo, propertyRepo, auditRepo, kafkaProducer, log)

	// Initialize and start user event consumer in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	groupID := cfg.KafkaConfig.GroupPrefix + "housing-service"
	userConsumer := housingEvents.NewUserEventConsumer(
		cfg.KafkaConfig.Brokers,
		groupID,
		bookingService,
		log,
	)
	defer func() { _ = userConsumer.Close() }()

	go func() {
		log.Info("starting user event consumer")
		if err := userConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("user event consumer error", zap.Error(err))
		}
	}()

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins...))
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	health.NewHandler(db, serviceName).RegisterRoutes(router)

	// Register routes
	handler.NewPropertyHandler(propertyService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewBookingHandler(bookingService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewAdminHandler(adminService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewReviewHandler(reviewService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewWishlistHandler(wishlistService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewComplaintHandler(complaintService).RegisterRoutes(&router.RouterGroup, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down " + serviceName + "...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info(serviceName + " stopped")
}
