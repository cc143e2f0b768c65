package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config содержит все настройки Background Worker Service
type Config struct {
	Database  DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Payments  ServiceConfig
	Lifecycle LifecycleConfig
	Health    HealthConfig
}

// DatabaseConfig - подключение к PostgreSQL bookings-service.
// Воркер только переводит бронирования в COMPLETED.
type DatabaseConfig struct {
	Host     string // Хост PostgreSQL
	Port     string // Порт PostgreSQL
	User     string // Имя пользователя БД
	Password string // Пароль БД
	DBName   string // Имя базы данных (bookings_service)
	SSLMode  string // Режим SSL (disable/require/verify-full)
}

// RedisConfig - множество обработанных событий возврата
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	ProcessedTTL time.Duration // сколько помнить обработанный возврат
}

// KafkaConfig - топик booking_events, интересует только BOOKING_REFUND_PENDING
type KafkaConfig struct {
	Brokers  []string
	Topic    string
	GroupID  string
	MinBytes int
	MaxBytes int
}

type ServiceConfig struct {
	URL     string
	Timeout time.Duration
}

// LifecycleConfig - расписание в формате cron с секундами
type LifecycleConfig struct {
	Schedule string
}

type HealthConfig struct {
	Port string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	_ = godotenv.Load()

	timeout, err := time.ParseDuration(getEnv("SERVICE_CLIENT_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVICE_CLIENT_TIMEOUT value: %w", err)
	}

	processedTTL, err := time.ParseDuration(getEnv("REFUND_PROCESSED_TTL", "168h"))
	if err != nil {
		return nil, fmt.Errorf("invalid REFUND_PROCESSED_TTL value: %w", err)
	}

	return &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "bookings_service"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvInt("REDIS_DB", 3),
			ProcessedTTL: processedTTL,
		},
		Kafka: KafkaConfig{
			Brokers:  strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			Topic:    getEnv("KAFKA_TOPIC", "booking_events"),
			GroupID:  getEnv("KAFKA_GROUP_ID", "background-worker-group"),
			MinBytes: getEnvInt("KAFKA_MIN_BYTES", 1),
			MaxBytes: getEnvInt("KAFKA_MAX_BYTES", 10e6),
		},
		Payments: ServiceConfig{
			URL:     getEnv("PAYMENTS_SERVICE_URL", "http://localhost:8085"),
			Timeout: timeout,
		},
		Lifecycle: LifecycleConfig{
			// каждые 10 минут
			Schedule: getEnv("BOOKING_LIFECYCLE_SCHEDULE", "0 */10 * * * *"),
		},
		Health: HealthConfig{
			Port: getEnv("HEALTH_PORT", "8086"),
		},
	}, nil
}

// DSN возвращает строку подключения к PostgreSQL в формате libpq
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Address возвращает адрес Redis в формате host:port
func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
