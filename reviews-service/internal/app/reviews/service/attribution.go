package service

import (
	"staybnb/pkg/apperror"
	"staybnb/pkg/federation"
	"staybnb/reviews-service/internal/app/reviews/entity"
)

// ResolveAuthor тип автора обратен цели отзыва: объявление и хозяина оценивает гость,
// гостя оценивает хозяин. Автор не загружается, отдается только ссылка.
func ResolveAuthor(targetType entity.TargetType, authorID string) (federation.EntityStub, error) {
	switch targetType {
	case entity.TargetListing, entity.TargetHost:
		return federation.GuestRef(authorID), nil
	case entity.TargetGuest:
		return federation.HostRef(authorID), nil
	}
	return federation.EntityStub{}, apperror.InvalidState("Unknown review target type: " + string(targetType))
}

// NewReviewResponse отзыв со ссылкой на автора
func NewReviewResponse(review *entity.Review) (*entity.ReviewResponse, error) {
	author, err := ResolveAuthor(review.TargetType, review.AuthorID)
	if err != nil {
		return nil, err
	}
	return &entity.ReviewResponse{
		Typename:   federation.TypeReview,
		ID:         review.ID.Hex(),
		TargetType: review.TargetType,
		Text:       review.Text,
		Rating:     review.Rating,
		Author:     author,
	}, nil
}
