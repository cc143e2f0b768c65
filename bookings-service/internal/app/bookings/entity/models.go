package entity

import (
	"time"

	"github.com/google/uuid"

	"staybnb/pkg/availability"
	"staybnb/pkg/federation"
)

// BookingStatus статус бронирования
type BookingStatus string

const (
	BookingStatusUpcoming  BookingStatus = "UPCOMING"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusUpcoming, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// Booking бронирование объявления гостем на полуинтервал [CheckInDate, CheckOutDate).
// TotalCost фиксируется при создании и больше не меняется.
type Booking struct {
	ID           uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	ListingID    uuid.UUID     `json:"listingId" gorm:"type:uuid;not null;index:idx_bookings_listing"`
	GuestID      uuid.UUID     `json:"guestId" gorm:"type:uuid;not null;index"`
	CheckInDate  time.Time     `json:"checkInDate" gorm:"type:date;not null"`
	CheckOutDate time.Time     `json:"checkOutDate" gorm:"type:date;not null"`
	TotalCost    float64       `json:"totalCost" gorm:"type:decimal(10,2);not null"`
	Status       BookingStatus `json:"status" gorm:"type:varchar(20);not null"`
	CreatedAt    time.Time     `json:"createdAt" gorm:"autoCreateTime"`
}

// TableName указывает имя таблицы для GORM
func (Booking) TableName() string {
	return "bookings"
}

// Dates диапазон дат бронирования
func (b *Booking) Dates() availability.DateRange {
	return availability.NewDateRange(b.CheckInDate, b.CheckOutDate)
}

// Review отзыв из reviews-service, автор отдается ссылкой
type Review struct {
	Typename   string                `json:"__typename"`
	ID         string                `json:"id"`
	TargetType string                `json:"targetType"`
	Text       string                `json:"text"`
	Rating     int                   `json:"rating"`
	Author     federation.EntityStub `json:"author"`
}

const (
	EventBookingCreated       = "BOOKING_CREATED"
	EventBookingRefundPending = "BOOKING_REFUND_PENDING"
)

// BookingEvent событие бронирования для Kafka.
// Для BOOKING_REFUND_PENDING бронирования нет, BookingID пустой, ключ возврата в IdempotencyKey.
type BookingEvent struct {
	EventType      string        `json:"event_type"`
	AttemptID      uuid.UUID     `json:"attempt_id"`
	BookingID      uuid.UUID     `json:"booking_id"`
	ListingID      uuid.UUID     `json:"listing_id"`
	GuestID        uuid.UUID     `json:"guest_id"`
	Amount         float64       `json:"amount"`
	Status         BookingStatus `json:"status,omitempty"`
	IdempotencyKey string        `json:"idempotency_key,omitempty"`
	Timestamp      time.Time     `json:"timestamp"`
}
