package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusUpcoming  BookingStatus = "UPCOMING"
	BookingStatusCompleted BookingStatus = "COMPLETED"
)

// Booking столбцы таблицы bookings, которые нужны воркеру
type Booking struct {
	ID           uuid.UUID     `gorm:"type:uuid;primaryKey"`
	CheckOutDate time.Time     `gorm:"type:date"`
	Status       BookingStatus `gorm:"type:varchar(20)"`
}

func (Booking) TableName() string {
	return "bookings"
}

const (
	EventBookingCreated       = "BOOKING_CREATED"
	EventBookingRefundPending = "BOOKING_REFUND_PENDING"
)

// BookingEvent событие из топика booking_events
type BookingEvent struct {
	EventType      string    `json:"event_type"`
	AttemptID      uuid.UUID `json:"attempt_id"`
	BookingID      uuid.UUID `json:"booking_id"`
	ListingID      uuid.UUID `json:"listing_id"`
	GuestID        uuid.UUID `json:"guest_id"`
	Amount         float64   `json:"amount"`
	Status         string    `json:"status,omitempty"`
	IdempotencyKey string    `json:"idempotency_key,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}
