package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"staybnb/background-worker-service/internal/app/background-worker/entity"
	"staybnb/background-worker-service/internal/app/background-worker/service"
	"staybnb/pkg/logger"
	"staybnb/pkg/metrics"
)

const serviceName = "background-worker"

// messageReader часть kafka.Reader, которой пользуется consumer
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Stats() kafka.ReaderStats
	Close() error
}

const (
	defaultRetryMin = 500 * time.Millisecond
	defaultRetryMax = 30 * time.Second
)

// KafkaConsumer читает топик booking_events и передает события RefundService.
// Сообщение, которое не удалось обработать, повторяется до успеха:
// следующее сообщение не читается, offset не сдвигается.
type KafkaConsumer struct {
	reader    messageReader
	refundSvc service.RefundServiceInterface
	topic     string
	groupID   string
	retryMin  time.Duration
	retryMax  time.Duration
	stopChan  chan struct{}
	doneChan  chan struct{}
}

// NewKafkaConsumer создает новый Kafka consumer
func NewKafkaConsumer(
	brokers []string,
	topic string,
	groupID string,
	minBytes int,
	maxBytes int,
	refundSvc service.RefundServiceInterface,
) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: minBytes,
		MaxBytes: maxBytes,
		// отложенный возврат нельзя пропустить, читаем с начала
		StartOffset:    kafka.FirstOffset,
		CommitInterval: time.Second,
		ReadBackoffMin: 100 * time.Millisecond,
		ReadBackoffMax: 1 * time.Second,
		ErrorLogger:    logger.NewPrintfLogger(zerolog.ErrorLevel),
	})

	return newKafkaConsumer(reader, topic, groupID, refundSvc)
}

func newKafkaConsumer(reader messageReader, topic, groupID string, refundSvc service.RefundServiceInterface) *KafkaConsumer {
	return &KafkaConsumer{
		reader:    reader,
		refundSvc: refundSvc,
		topic:     topic,
		groupID:   groupID,
		retryMin:  defaultRetryMin,
		retryMax:  defaultRetryMax,
		stopChan:  make(chan struct{}),
		doneChan:  make(chan struct{}),
	}
}

// Start запускает consumer в отдельной горутине
func (c *KafkaConsumer) Start(ctx context.Context) {
	logger.Info().
		Str("topic", c.topic).
		Str("group", c.groupID).
		Msg("Starting Kafka consumer")

	go c.consume(ctx)
}

// Stop останавливает consumer
func (c *KafkaConsumer) Stop() {
	logger.Info().Msg("Stopping Kafka consumer...")
	close(c.stopChan)
	<-c.doneChan
	c.reader.Close()
	logger.Info().Msg("Kafka consumer stopped")
}

// consume читает и обрабатывает сообщения из Kafka
func (c *KafkaConsumer) consume(ctx context.Context) {
	defer close(c.doneChan)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-c.stopChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	for {
		readCtx, readCancel := context.WithTimeout(ctx, 10*time.Second)
		message, err := c.reader.FetchMessage(readCtx)
		readCancel()

		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if readCtx.Err() == nil {
				metrics.RecordKafkaError(serviceName, c.topic, "fetch")
				logger.Error().Err(err).Msg("Error fetching message")
			}
			if !c.wait(ctx, time.Second) {
				return
			}
			continue
		}

		if !c.handle(ctx, message) {
			return
		}
	}
}

// handle обрабатывает сообщение до успеха и коммитит его.
// false означает остановку consumer до успешной обработки.
func (c *KafkaConsumer) handle(ctx context.Context, message kafka.Message) bool {
	backoff := c.retryMin
	for attempt := 1; ; attempt++ {
		timer := metrics.NewTimer()
		err := c.processMessage(ctx, message)
		if err == nil {
			metrics.RecordKafkaMessageConsumed(serviceName, c.topic, c.groupID, timer.Duration())
			if err := c.reader.CommitMessages(ctx, message); err != nil {
				metrics.RecordKafkaError(serviceName, c.topic, "commit")
				logger.Error().Err(err).Int64("offset", message.Offset).Msg("Error committing message")
			}
			return true
		}

		metrics.RecordKafkaError(serviceName, c.topic, "process")
		logger.Error().Err(err).
			Int64("offset", message.Offset).
			Int("partition", message.Partition).
			Int("attempt", attempt).
			Dur("retry_in", backoff).
			Msg("Error processing message, retrying")

		if !c.wait(ctx, backoff) {
			return false
		}
		backoff = min(backoff*2, c.retryMax)
	}
}

func (c *KafkaConsumer) wait(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// processMessage обрабатывает одно сообщение из Kafka
func (c *KafkaConsumer) processMessage(ctx context.Context, message kafka.Message) error {
	var event entity.BookingEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		// битое сообщение не исправится повторным чтением
		logger.Warn().Err(err).
			Int64("offset", message.Offset).
			Msg("Skipping undecodable booking event")
		return nil
	}

	logger.Debug().
		Str("event_type", event.EventType).
		Str("attempt_id", event.AttemptID.String()).
		Int64("offset", message.Offset).
		Int("partition", message.Partition).
		Msg("Received booking event")

	if err := c.refundSvc.ProcessBookingEvent(ctx, &event); err != nil {
		return fmt.Errorf("failed to process booking event: %w", err)
	}

	return nil
}

// GetStats возвращает статистику consumer
func (c *KafkaConsumer) GetStats() kafka.ReaderStats {
	return c.reader.Stats()
}
