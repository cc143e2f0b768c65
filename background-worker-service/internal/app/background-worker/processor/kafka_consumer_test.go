package processor

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"staybnb/background-worker-service/internal/app/background-worker/entity"
)

// MockRefundService мок для RefundServiceInterface
type MockRefundService struct {
	mock.Mock
}

func (m *MockRefundService) ProcessBookingEvent(ctx context.Context, event *entity.BookingEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// fakeReader отдает сообщения по порядку и запоминает коммиты
type fakeReader struct {
	mu       sync.Mutex
	messages []kafka.Message
	next     int
	fetched  []int64
	commits  []int64
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if r.next < len(r.messages) {
		message := r.messages[r.next]
		r.next++
		r.fetched = append(r.fetched, message.Offset)
		r.mu.Unlock()
		return message, nil
	}
	r.mu.Unlock()

	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.commits = append(r.commits, m.Offset)
	}
	return nil
}

func (r *fakeReader) Stats() kafka.ReaderStats {
	return kafka.ReaderStats{}
}

func (r *fakeReader) Close() error {
	return nil
}

func (r *fakeReader) committed() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.commits...)
}

func (r *fakeReader) fetchedOffsets() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.fetched...)
}

func newTestConsumer(reader messageReader, refundSvc *MockRefundService) *KafkaConsumer {
	consumer := newKafkaConsumer(reader, "booking_events", "test-group", refundSvc)
	consumer.retryMin = 5 * time.Millisecond
	consumer.retryMax = 20 * time.Millisecond
	return consumer
}

func refundPendingMessage(t *testing.T, event entity.BookingEvent) kafka.Message {
	t.Helper()
	value, err := json.Marshal(event)
	assert.NoError(t, err)
	return kafka.Message{
		Topic:     "booking_events",
		Partition: 0,
		Offset:    1,
		Key:       []byte(event.BookingID.String()),
		Value:     value,
	}
}

// ===================== NewKafkaConsumer Tests =====================

func TestNewKafkaConsumer(t *testing.T) {
	// Arrange
	refundSvc := new(MockRefundService)

	// Act
	consumer := NewKafkaConsumer([]string{"localhost:9092"}, "booking_events", "test-group", 1, 10e6, refundSvc)

	// Assert
	assert.NotNil(t, consumer)
	assert.NotNil(t, consumer.reader)
	assert.Equal(t, refundSvc, consumer.refundSvc)
	assert.Equal(t, "booking_events", consumer.topic)
	assert.Equal(t, "test-group", consumer.groupID)
	assert.NotNil(t, consumer.stopChan)
	assert.NotNil(t, consumer.doneChan)

	// Cleanup
	consumer.reader.Close()
}

// ===================== processMessage Tests =====================

func TestKafkaConsumer_ProcessMessage_RefundPending(t *testing.T) {
	// Arrange
	refundSvc := new(MockRefundService)
	consumer := &KafkaConsumer{refundSvc: refundSvc}

	ctx := context.Background()
	attemptID := uuid.New()
	guestID := uuid.New()

	message := refundPendingMessage(t, entity.BookingEvent{
		EventType:      entity.EventBookingRefundPending,
		AttemptID:      attemptID,
		BookingID:      uuid.New(),
		GuestID:        guestID,
		Amount:         450,
		IdempotencyKey: "booking:" + attemptID.String() + ":refund",
		Timestamp:      time.Now(),
	})

	refundSvc.On("ProcessBookingEvent", ctx, mock.MatchedBy(func(e *entity.BookingEvent) bool {
		return e.AttemptID == attemptID &&
			e.GuestID == guestID &&
			e.Amount == 450 &&
			e.EventType == entity.EventBookingRefundPending
	})).Return(nil)

	// Act
	err := consumer.processMessage(ctx, message)

	// Assert
	assert.NoError(t, err)
	refundSvc.AssertExpectations(t)
}

func TestKafkaConsumer_ProcessMessage_BookingCreatedPassedThrough(t *testing.T) {
	// Arrange
	refundSvc := new(MockRefundService)
	consumer := &KafkaConsumer{refundSvc: refundSvc}

	ctx := context.Background()
	message := refundPendingMessage(t, entity.BookingEvent{
		EventType: entity.EventBookingCreated,
		BookingID: uuid.New(),
		Status:    string(entity.BookingStatusUpcoming),
	})

	// фильтрация по типу события внутри сервиса
	refundSvc.On("ProcessBookingEvent", ctx, mock.Anything).Return(nil)

	// Act
	err := consumer.processMessage(ctx, message)

	// Assert
	assert.NoError(t, err)
	refundSvc.AssertExpectations(t)
}

func TestKafkaConsumer_ProcessMessage_ServiceError(t *testing.T) {
	// Arrange
	refundSvc := new(MockRefundService)
	consumer := &KafkaConsumer{refundSvc: refundSvc}

	ctx := context.Background()
	message := refundPendingMessage(t, entity.BookingEvent{
		EventType: entity.EventBookingRefundPending,
		AttemptID: uuid.New(),
	})

	refundSvc.On("ProcessBookingEvent", ctx, mock.Anything).Return(errors.New("payments unavailable"))

	// Act
	err := consumer.processMessage(ctx, message)

	// Assert
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to process booking event")
	assert.Contains(t, err.Error(), "payments unavailable")
}

func TestKafkaConsumer_ProcessMessage_InvalidJSONSkipped(t *testing.T) {
	// Arrange
	refundSvc := new(MockRefundService)
	consumer := &KafkaConsumer{refundSvc: refundSvc}

	// Act
	err := consumer.processMessage(context.Background(), kafka.Message{Value: []byte("invalid json {{{")})

	// Assert
	assert.NoError(t, err)
	refundSvc.AssertNotCalled(t, "ProcessBookingEvent", mock.Anything, mock.Anything)
}

func TestKafkaConsumer_ProcessMessage_EmptyMessageSkipped(t *testing.T) {
	// Arrange
	refundSvc := new(MockRefundService)
	consumer := &KafkaConsumer{refundSvc: refundSvc}

	// Act
	err := consumer.processMessage(context.Background(), kafka.Message{Value: []byte{}})

	// Assert
	assert.NoError(t, err)
	refundSvc.AssertNotCalled(t, "ProcessBookingEvent", mock.Anything, mock.Anything)
}

// ===================== Start/Stop Tests =====================

func TestKafkaConsumer_StartStop(t *testing.T) {
	// Arrange
	consumer := &KafkaConsumer{
		refundSvc: new(MockRefundService),
		stopChan:  make(chan struct{}),
		doneChan:  make(chan struct{}),
	}

	go func() {
		<-consumer.stopChan
		close(consumer.doneChan)
	}()

	// Act
	close(consumer.stopChan)

	// Assert
	select {
	case <-consumer.doneChan:
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop")
	}
}

// ===================== GetStats Tests =====================

func TestKafkaConsumer_GetStats(t *testing.T) {
	// Arrange
	consumer := NewKafkaConsumer([]string{"localhost:9092"}, "booking_events", "test-group", 1, 10e6, new(MockRefundService))

	// Act
	stats := consumer.GetStats()

	// Assert
	assert.Equal(t, "booking_events", stats.Topic)

	// Cleanup
	consumer.reader.Close()
}

// ===================== Retry Tests =====================

func TestKafkaConsumer_FailedRefundRetriedBeforeNextMessage(t *testing.T) {
	// Arrange
	refundSvc := new(MockRefundService)
	refund := refundPendingMessage(t, entity.BookingEvent{
		EventType: entity.EventBookingRefundPending,
		AttemptID: uuid.New(),
		GuestID:   uuid.New(),
		Amount:    300,
	})
	refund.Offset = 7
	created := refundPendingMessage(t, entity.BookingEvent{
		EventType: entity.EventBookingCreated,
		BookingID: uuid.New(),
	})
	created.Offset = 8

	reader := &fakeReader{messages: []kafka.Message{refund, created}}
	consumer := newTestConsumer(reader, refundSvc)

	isRefund := mock.MatchedBy(func(e *entity.BookingEvent) bool { return e.EventType == entity.EventBookingRefundPending })
	isCreated := mock.MatchedBy(func(e *entity.BookingEvent) bool { return e.EventType == entity.EventBookingCreated })
	refundSvc.On("ProcessBookingEvent", mock.Anything, isRefund).Return(errors.New("payments unavailable")).Twice()
	refundSvc.On("ProcessBookingEvent", mock.Anything, isRefund).Return(nil).Once()
	refundSvc.On("ProcessBookingEvent", mock.Anything, isCreated).Return(nil).Once()

	// Act
	consumer.Start(context.Background())
	assert.Eventually(t, func() bool { return len(reader.committed()) == 2 }, 2*time.Second, 5*time.Millisecond)
	consumer.Stop()

	// Assert: возврат повторен трижды, коммиты идут по порядку
	assert.Equal(t, []int64{7, 8}, reader.committed())
	assert.Equal(t, []int64{7, 8}, reader.fetchedOffsets())
	refundSvc.AssertNumberOfCalls(t, "ProcessBookingEvent", 4)
	refundSvc.AssertExpectations(t)
}

func TestKafkaConsumer_StopDuringRetryLeavesMessageUncommitted(t *testing.T) {
	// Arrange
	refundSvc := new(MockRefundService)
	refund := refundPendingMessage(t, entity.BookingEvent{
		EventType: entity.EventBookingRefundPending,
		AttemptID: uuid.New(),
	})
	refund.Offset = 3
	next := refundPendingMessage(t, entity.BookingEvent{EventType: entity.EventBookingCreated})
	next.Offset = 4

	reader := &fakeReader{messages: []kafka.Message{refund, next}}
	consumer := newTestConsumer(reader, refundSvc)

	var attempts atomic.Int32
	refundSvc.On("ProcessBookingEvent", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { attempts.Add(1) }).
		Return(errors.New("payments unavailable"))

	// Act
	consumer.Start(context.Background())
	assert.Eventually(t, func() bool { return attempts.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	consumer.Stop()

	// Assert
	assert.Empty(t, reader.committed())
	assert.Equal(t, []int64{3}, reader.fetchedOffsets())
}
