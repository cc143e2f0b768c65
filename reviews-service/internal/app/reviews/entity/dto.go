package entity

import "staybnb/pkg/federation"

// ReviewInput текст и оценка одного отзыва
type ReviewInput struct {
	Text   string `json:"text" validate:"required,max=2000"`
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
}

// SubmitHostAndLocationRequest отзывы гостя после поездки
type SubmitHostAndLocationRequest struct {
	HostReview     ReviewInput `json:"hostReview"`
	LocationReview ReviewInput `json:"locationReview"`
}

// SubmitGuestReviewRequest отзыв хозяина о госте
type SubmitGuestReviewRequest struct {
	GuestReview ReviewInput `json:"guestReview"`
}

type TargetTypeQuery struct {
	TargetType TargetType `form:"targetType" validate:"required,oneof=LISTING HOST GUEST"`
}

// ReviewResponse отзыв наружу. Автор отдается ссылкой, гидратирует его identity-service.
type ReviewResponse struct {
	Typename   string                `json:"__typename"`
	ID         string                `json:"id"`
	TargetType TargetType            `json:"targetType"`
	Text       string                `json:"text"`
	Rating     int                   `json:"rating"`
	Author     federation.EntityStub `json:"author"`
}

type HostAndLocationPayload struct {
	HostReview     *ReviewResponse `json:"hostReview"`
	LocationReview *ReviewResponse `json:"locationReview"`
}

type GuestReviewPayload struct {
	GuestReview *ReviewResponse `json:"guestReview"`
}

// HostRating поле overallRating, которым reviews-service расширяет Host.
// Пока отзывов нет, рейтинг null.
type HostRating struct {
	Typename      string   `json:"__typename"`
	ID            string   `json:"id"`
	OverallRating *float64 `json:"overallRating"`
}

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
