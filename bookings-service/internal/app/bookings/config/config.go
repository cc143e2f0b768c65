package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Kafka    KafkaConfig
	JWT      JWTConfig
	Listings ServiceConfig
	Payments PaymentsConfig
	Reviews  ServiceConfig
}

type ServerConfig struct {
	Host string // Адрес хоста (по умолчанию 0.0.0.0)
	Port string // Порт сервера (по умолчанию 8083)
}

type DatabaseConfig struct {
	Host     string // Хост PostgreSQL
	Port     string // Порт PostgreSQL
	User     string // Имя пользователя БД
	Password string // Пароль БД
	DBName   string // Имя базы данных
	SSLMode  string // Режим SSL (disable/require/verify-full)
}

type KafkaConfig struct {
	Brokers []string // Список брокеров Kafka (формат: host:port)
	Topic   string   // Топик для событий BOOKING_CREATED, BOOKING_REFUND_PENDING
}

type JWTConfig struct {
	Secret string // Секрет проверки JWT (совпадает с identity-service)
}

// ServiceConfig адрес соседнего сервиса
type ServiceConfig struct {
	URL     string
	Timeout time.Duration
}

// PaymentsConfig - списания идут через лимитер, чтобы не заваливать кошелек
type PaymentsConfig struct {
	URL       string
	Timeout   time.Duration
	RateLimit float64 // запросов в секунду
	Burst     int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	timeout, err := time.ParseDuration(getEnv("SERVICE_CLIENT_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVICE_CLIENT_TIMEOUT value: %w", err)
	}

	rateLimit, err := strconv.ParseFloat(getEnv("PAYMENTS_RATE_LIMIT", "50"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid PAYMENTS_RATE_LIMIT value: %w", err)
	}

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8083"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "bookings_service"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Kafka: KafkaConfig{
			Brokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			Topic:   getEnv("KAFKA_TOPIC", "booking_events"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		},
		Listings: ServiceConfig{
			URL:     getEnv("LISTINGS_SERVICE_URL", "http://localhost:8082"),
			Timeout: timeout,
		},
		Payments: PaymentsConfig{
			URL:       getEnv("PAYMENTS_SERVICE_URL", "http://localhost:8085"),
			Timeout:   timeout,
			RateLimit: rateLimit,
			Burst:     getEnvInt("PAYMENTS_RATE_BURST", 10),
		},
		Reviews: ServiceConfig{
			URL:     getEnv("REVIEWS_SERVICE_URL", "http://localhost:8084"),
			Timeout: timeout,
		},
	}, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *ServerConfig) Address() string {
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
