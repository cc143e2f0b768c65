package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TargetType на кого написан отзыв
type TargetType string

const (
	TargetListing TargetType = "LISTING"
	TargetHost    TargetType = "HOST"
	TargetGuest   TargetType = "GUEST"
)

func (t TargetType) Valid() bool {
	switch t {
	case TargetListing, TargetHost, TargetGuest:
		return true
	}
	return false
}

// Review отзыв по бронированию. На одно бронирование не больше одного отзыва каждого типа,
// это держит уникальный индекс (booking_id, target_type).
type Review struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	BookingID  string             `json:"bookingId" bson:"booking_id"`
	TargetType TargetType         `json:"targetType" bson:"target_type"`
	TargetID   string             `json:"targetId" bson:"target_id"` // объявление, хозяин или гость
	AuthorID   string             `json:"authorId" bson:"author_id"`
	Text       string             `json:"text" bson:"text"`
	Rating     int                `json:"rating" bson:"rating"` // Оценка от 1 до 5
	CreatedAt  time.Time          `json:"createdAt" bson:"created_at"`
}

const EventReviewCreated = "REVIEW_CREATED"

type ReviewEvent struct {
	EventType  string     `json:"event_type"`
	ReviewID   string     `json:"review_id"`
	BookingID  string     `json:"booking_id"`
	TargetType TargetType `json:"target_type"`
	TargetID   string     `json:"target_id"`
	AuthorID   string     `json:"author_id"`
	Rating     int        `json:"rating"`
	Timestamp  time.Time  `json:"timestamp"`
}
