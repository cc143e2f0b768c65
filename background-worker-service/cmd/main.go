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

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"staybnb/background-worker-service/internal/app/background-worker/config"
	"staybnb/background-worker-service/internal/app/background-worker/handler"
	clients "staybnb/background-worker-service/internal/app/background-worker/infrastructure/http"
	"staybnb/background-worker-service/internal/app/background-worker/processor"
	"staybnb/background-worker-service/internal/app/background-worker/repository"
	"staybnb/background-worker-service/internal/app/background-worker/service"
	"staybnb/pkg/logger"
	"staybnb/pkg/metrics"
	"staybnb/pkg/serviceclient"
	"staybnb/pkg/tracing"
)

const serviceName = "background-worker"

func main() {
	logger.Setup(serviceName)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, serviceName)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to init tracing")
	}

	// === POSTGRESQL ===
	// таблица bookings принадлежит bookings-service, воркер меняет только статус
	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	logger.Info().
		Str("database", cfg.Database.DBName).
		Msg("Connected to PostgreSQL")
	metrics.WatchDbConnections(ctx, serviceName, 15*time.Second, func() (int, int) {
		sqlDB, err := db.DB()
		if err != nil {
			return 0, 0
		}
		stats := sqlDB.Stats()
		return stats.Idle, stats.InUse
	})

	// === REDIS ===
	redisClient, err := connectRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Str("address", cfg.Redis.Address()).Msg("Connected to Redis")

	bookingRepo := repository.NewBookingRepository(db)
	processedRepo := repository.NewProcessedEventRepository(redisClient, cfg.Redis.ProcessedTTL)

	paymentsClient := clients.NewPaymentsClient(
		serviceclient.New("payments-service", cfg.Payments.URL, serviceclient.WithTimeout(cfg.Payments.Timeout)),
	)

	lifecycleSvc := service.NewLifecycleService(bookingRepo)
	refundSvc := service.NewRefundService(paymentsClient, processedRepo)

	// === KAFKA CONSUMER ===
	kafkaConsumer := processor.NewKafkaConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.Topic,
		cfg.Kafka.GroupID,
		cfg.Kafka.MinBytes,
		cfg.Kafka.MaxBytes,
		refundSvc,
	)
	kafkaConsumer.Start(ctx)

	// === CRON ===
	cronScheduler := processor.NewCronScheduler(lifecycleSvc)
	if err := cronScheduler.Start(ctx, cfg.Lifecycle.Schedule); err != nil {
		logger.Fatal().Err(err).Str("schedule", cfg.Lifecycle.Schedule).Msg("Failed to start cron scheduler")
	}

	// === HEALTHCHECK ===
	mux := http.NewServeMux()
	handler.NewHealthCheckHandler(db, redisClient).RegisterRoutes(mux)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Health.Port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("address", httpServer.Addr).Msg("Starting healthcheck server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("Healthcheck server error")
		}
	}()

	logger.Info().
		Str("topic", cfg.Kafka.Topic).
		Str("group", cfg.Kafka.GroupID).
		Str("schedule", cfg.Lifecycle.Schedule).
		Msg("Background Worker is running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Background Worker...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// сначала останавливаем источники работы, потом отменяем контекст
	cronScheduler.Stop()
	kafkaConsumer.Stop()
	stop()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Healthcheck server forced to shutdown")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("Failed to flush traces")
	}

	logger.Info().Msg("Background Worker stopped gracefully")
}

func connectDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.New(logger.NewPrintfLogger(zerolog.WarnLevel), gormlogger.Config{
			SlowThreshold:             500 * time.Millisecond,
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
				if pingErr := sqlDB.Ping(); pingErr != nil {
					err = pingErr
				} else {
					sqlDB.SetMaxOpenConns(5)
					sqlDB.SetMaxIdleConns(2)
					sqlDB.SetConnMaxLifetime(5 * time.Minute)
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

func connectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	var err error
	for i := 0; i < 10; i++ {
		if err = client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to Redis, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect to Redis after 10 attempts: %w", err)
}
