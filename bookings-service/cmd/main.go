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

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"staybnb/bookings-service/internal/app/bookings/config"
	"staybnb/bookings-service/internal/app/bookings/handler"
	clients "staybnb/bookings-service/internal/app/bookings/infrastructure/http"
	"staybnb/bookings-service/internal/app/bookings/infrastructure/messaging"
	"staybnb/bookings-service/internal/app/bookings/repository"
	"staybnb/bookings-service/internal/app/bookings/service"
	"staybnb/pkg/auth"
	"staybnb/pkg/federation"
	"staybnb/pkg/logger"
	"staybnb/pkg/metrics"
	"staybnb/pkg/serviceclient"
	"staybnb/pkg/tracing"
)

const serviceName = "bookings-service"

func main() {
	logger.Setup(serviceName)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	shutdownTracing, err := tracing.Init(context.Background(), serviceName)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to init tracing")
	}

	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	logger.Info().
		Str("host", cfg.Database.Host).
		Str("database", cfg.Database.DBName).
		Msg("Connected to PostgreSQL")
	metrics.WatchDbConnections(context.Background(), serviceName, 15*time.Second, func() (int, int) {
		sqlDB, err := db.DB()
		if err != nil {
			return 0, 0
		}
		stats := sqlDB.Stats()
		return stats.Idle, stats.InUse
	})

	if err := repository.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate database")
	}

	kafkaProducer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer kafkaProducer.Close()
	logger.Info().
		Str("topic", cfg.Kafka.Topic).
		Msg("Initialized Kafka producer")

	listingsClient := clients.NewListingsClient(
		serviceclient.New("listings-service", cfg.Listings.URL, serviceclient.WithTimeout(cfg.Listings.Timeout)),
	)
	paymentsClient := clients.NewPaymentsClient(
		serviceclient.New("payments-service", cfg.Payments.URL,
			serviceclient.WithTimeout(cfg.Payments.Timeout),
			serviceclient.WithRateLimit(cfg.Payments.RateLimit, cfg.Payments.Burst),
		),
	)
	reviewsClient := clients.NewReviewsClient(
		serviceclient.New("reviews-service", cfg.Reviews.URL, serviceclient.WithTimeout(cfg.Reviews.Timeout)),
	)

	bookingRepo := repository.NewBookingRepository(db)

	bookingsService := service.NewBookingsService(bookingRepo, listingsClient, reviewsClient)
	orchestrator := service.NewOrchestrator(bookingRepo, listingsClient, paymentsClient, kafkaProducer)

	entities := federation.NewResolver()
	bookingsService.RegisterEntities(entities)

	bookingsHandler := handler.NewBookingsHandler(bookingsService, orchestrator)
	router := handler.SetupRoutes(bookingsHandler, auth.NewJWTResolver(cfg.JWT.Secret), entities)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("Starting Bookings Service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Bookings Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := shutdownTracing(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to flush traces")
	}

	logger.Info().Msg("Bookings Service stopped gracefully")
}

func connectDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.New(logger.NewPrintfLogger(zerolog.WarnLevel), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}

	var db *gorm.DB
	var err error

	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
		if err == nil {
			sqlDB, sqlErr := db.DB()
			if sqlErr != nil {
				err = sqlErr
			} else {
				pingErr := sqlDB.Ping()
				if pingErr != nil {
					err = pingErr
				} else {
					sqlDB.SetMaxOpenConns(25)
					sqlDB.SetMaxIdleConns(5)
					sqlDB.SetConnMaxLifetime(5 * time.Minute)
					sqlDB.SetConnMaxIdleTime(1 * time.Minute)
					return db, nil
				}
			}
		}
		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to database, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}
