package entity

import (
	"time"

	"staybnb/pkg/availability"
	"staybnb/pkg/federation"
)

// HumanDateLayout формат дат в ответах о бронировании (Sat Jun 01 2024)
const HumanDateLayout = "Mon Jan 02 2006"

// CreateBookingRequest даты в формате 2006-01-02
type CreateBookingRequest struct {
	ListingID    string `json:"listingId" validate:"required,uuid"`
	CheckInDate  string `json:"checkInDate" validate:"required"`
	CheckOutDate string `json:"checkOutDate" validate:"required"`
}

// DatesQuery параметры проверки доступности
type DatesQuery struct {
	CheckIn  string `form:"checkIn" validate:"required"`
	CheckOut string `form:"checkOut" validate:"required"`
}

// StatusQuery необязательный фильтр по статусу
type StatusQuery struct {
	Status BookingStatus `form:"status" validate:"omitempty,oneof=UPCOMING COMPLETED CANCELLED"`
}

// BookingResponse бронирование в том виде, в каком его видит клиент:
// объявление и гость ссылками, даты человекочитаемые
type BookingResponse struct {
	Typename       string                `json:"__typename"`
	ID             string                `json:"id"`
	Listing        federation.EntityStub `json:"listing"`
	Guest          federation.EntityStub `json:"guest"`
	CheckInDate    string                `json:"checkInDate"`
	CheckOutDate   string                `json:"checkOutDate"`
	TotalCost      float64               `json:"totalCost"`
	Status         BookingStatus         `json:"status"`
	LocationReview *Review               `json:"locationReview,omitempty"`
	HostReview     *Review               `json:"hostReview,omitempty"`
	GuestReview    *Review               `json:"guestReview,omitempty"`
}

func NewBookingResponse(b *Booking) *BookingResponse {
	if b == nil {
		return nil
	}
	return &BookingResponse{
		Typename:     federation.TypeBooking,
		ID:           b.ID.String(),
		Listing:      federation.ListingRef(b.ListingID.String()),
		Guest:        federation.GuestRef(b.GuestID.String()),
		CheckInDate:  HumanReadableDate(b.CheckInDate),
		CheckOutDate: HumanReadableDate(b.CheckOutDate),
		TotalCost:    b.TotalCost,
		Status:       b.Status,
	}
}

func NewBookingResponses(bookings []Booking) []BookingResponse {
	responses := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		responses = append(responses, *NewBookingResponse(&bookings[i]))
	}
	return responses
}

func HumanReadableDate(t time.Time) string {
	return t.Format(HumanDateLayout)
}

// BookedRange занятый диапазон объявления
type BookedRange struct {
	CheckInDate  string `json:"checkInDate"`
	CheckOutDate string `json:"checkOutDate"`
}

func NewBookedRanges(ranges []availability.DateRange) []BookedRange {
	result := make([]BookedRange, 0, len(ranges))
	for _, r := range ranges {
		result = append(result, BookedRange{
			CheckInDate:  r.CheckIn.Format(availability.DateLayout),
			CheckOutDate: r.CheckOut.Format(availability.DateLayout),
		})
	}
	return result
}

type AvailabilityResponse struct {
	Available bool `json:"available"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}

// IDResponse ответ внутренних запросов listing-id / guest-id
type IDResponse struct {
	ID string `json:"id"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
