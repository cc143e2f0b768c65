package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"staybnb/pkg/apperror"
	"staybnb/pkg/auth"
	"staybnb/pkg/federation"
	"staybnb/pkg/logger"
	"staybnb/reviews-service/internal/app/reviews/entity"
	"staybnb/reviews-service/internal/app/reviews/service"
)

// ReviewHandler обрабатывает HTTP запросы отзывов
type ReviewHandler struct {
	reviewService service.ReviewServiceInterface
	validator     *validator.Validate
}

// NewReviewHandler создает новый handler с внедрением зависимостей
func NewReviewHandler(reviewService service.ReviewServiceInterface) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		validator:     validator.New(),
	}
}

// SubmitHostAndLocationReviews обрабатывает POST /reviews/booking/:bookingId/host-and-location
func (h *ReviewHandler) SubmitHostAndLocationReviews(c *gin.Context) {
	var req entity.SubmitHostAndLocationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.reviewService.SubmitHostAndLocationReviews(c.Request.Context(), auth.FromContext(c), c.Param("bookingId"), &req)
	if err != nil {
		h.fail(c, err, "Failed to submit reviews")
		return
	}
	federation.RespondResult(c, result)
}

// SubmitGuestReview обрабатывает POST /reviews/booking/:bookingId/guest
func (h *ReviewHandler) SubmitGuestReview(c *gin.Context) {
	var req entity.SubmitGuestReviewRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.reviewService.SubmitGuestReview(c.Request.Context(), auth.FromContext(c), c.Param("bookingId"), &req)
	if err != nil {
		h.fail(c, err, "Failed to submit review")
		return
	}
	federation.RespondResult(c, result)
}

// GetReview обрабатывает GET /reviews/:id
func (h *ReviewHandler) GetReview(c *gin.Context) {
	review, err := h.reviewService.GetReview(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to get review")
		return
	}
	c.JSON(http.StatusOK, review)
}

// GetReviewForBooking обрабатывает GET /reviews/booking/:bookingId?targetType=.
// Если отзыва нет, тело ответа null.
func (h *ReviewHandler) GetReviewForBooking(c *gin.Context) {
	var query entity.TargetTypeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Bad Request", Message: "Invalid query parameters"})
		return
	}
	if !h.validate(c, &query) {
		return
	}

	review, err := h.reviewService.GetReviewForBooking(c.Request.Context(), c.Param("bookingId"), query.TargetType)
	if err != nil {
		h.fail(c, err, "Failed to get review for booking")
		return
	}
	c.JSON(http.StatusOK, review)
}

// GetHostRating обрабатывает GET /hosts/:id/rating
func (h *ReviewHandler) GetHostRating(c *gin.Context) {
	rating, err := h.reviewService.GetHostRating(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to get host rating")
		return
	}
	c.JSON(http.StatusOK, rating)
}

func (h *ReviewHandler) fail(c *gin.Context, err error, msg string) {
	if apperror.KindOf(err) == apperror.KindInternal {
		logger.Error().Err(err).Msg(msg)
	}
	federation.RespondError(c, err)
}

func (h *ReviewHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Bad Request", Message: "Invalid request body"})
		return false
	}
	return h.validate(c, req)
}

func (h *ReviewHandler) validate(c *gin.Context, req any) bool {
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Bad Request", Message: formatValidationError(err)})
		return false
	}
	return true
}

// formatValidationError имя поля с путем: "HostReview.Rating validation failed"
func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		_, field, _ := strings.Cut(validationErrors[0].StructNamespace(), ".")
		return field + " validation failed"
	}
	return "Validation failed"
}
