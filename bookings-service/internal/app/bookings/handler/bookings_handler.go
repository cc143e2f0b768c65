package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"staybnb/bookings-service/internal/app/bookings/entity"
	"staybnb/bookings-service/internal/app/bookings/service"
	"staybnb/pkg/apperror"
	"staybnb/pkg/auth"
	"staybnb/pkg/federation"
	"staybnb/pkg/logger"
)

// BookingsHandler обрабатывает HTTP запросы бронирований
type BookingsHandler struct {
	bookingsService service.BookingsServiceInterface
	orchestrator    service.BookingOrchestrator
	validator       *validator.Validate
}

func NewBookingsHandler(bookingsService service.BookingsServiceInterface, orchestrator service.BookingOrchestrator) *BookingsHandler {
	return &BookingsHandler{
		bookingsService: bookingsService,
		orchestrator:    orchestrator,
		validator:       validator.New(),
	}
}

// CreateBooking обрабатывает POST /bookings.
// Отказы саги приходят конвертом с кодом, HTTP статус берется из него.
func (h *BookingsHandler) CreateBooking(c *gin.Context) {
	var req entity.CreateBookingRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.orchestrator.CreateBooking(c.Request.Context(), auth.FromContext(c), &req)
	if err != nil {
		h.fail(c, err, "Failed to create booking")
		return
	}
	federation.RespondResult(c, result)
}

// GetBooking обрабатывает GET /bookings/:id
func (h *BookingsHandler) GetBooking(c *gin.Context) {
	booking, err := h.bookingsService.GetBooking(c.Request.Context(), auth.FromContext(c), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to get booking")
		return
	}
	c.JSON(http.StatusOK, booking)
}

// GetBookingsForListing обрабатывает GET /bookings/listing/:listingId?status=
func (h *BookingsHandler) GetBookingsForListing(c *gin.Context) {
	var query entity.StatusQuery
	if !h.bindQuery(c, &query) {
		return
	}

	bookings, err := h.bookingsService.GetBookingsForListing(c.Request.Context(), auth.FromContext(c), c.Param("listingId"), query.Status)
	if err != nil {
		h.fail(c, err, "Failed to get listing bookings")
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GuestBookings обработчики GET /bookings/guest, /guest/past, /guest/upcoming
func (h *BookingsHandler) GuestBookings(status entity.BookingStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookings, err := h.bookingsService.GetGuestBookings(c.Request.Context(), auth.FromContext(c), status)
		if err != nil {
			h.fail(c, err, "Failed to get guest bookings")
			return
		}
		c.JSON(http.StatusOK, bookings)
	}
}

// GetCurrentGuestBooking обрабатывает GET /bookings/guest/current
func (h *BookingsHandler) GetCurrentGuestBooking(c *gin.Context) {
	booking, err := h.bookingsService.GetCurrentGuestBooking(c.Request.Context(), auth.FromContext(c))
	if err != nil {
		h.fail(c, err, "Failed to get current booking")
		return
	}
	c.JSON(http.StatusOK, booking)
}

// IsListingAvailable обрабатывает GET /listings/:id/availability
func (h *BookingsHandler) IsListingAvailable(c *gin.Context) {
	var query entity.DatesQuery
	if !h.bindQuery(c, &query) {
		return
	}

	available, err := h.bookingsService.IsListingAvailable(c.Request.Context(), c.Param("id"), &query)
	if err != nil {
		h.fail(c, err, "Failed to check availability")
		return
	}
	c.JSON(http.StatusOK, entity.AvailabilityResponse{Available: available})
}

// GetBookedDates обрабатывает GET /listings/:id/booked-dates
func (h *BookingsHandler) GetBookedDates(c *gin.Context) {
	ranges, err := h.bookingsService.CurrentlyBookedDates(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to get booked dates")
		return
	}
	c.JSON(http.StatusOK, entity.NewBookedRanges(ranges))
}

// GetUpcomingCount обрабатывает GET /listings/:id/upcoming-count
func (h *BookingsHandler) GetUpcomingCount(c *gin.Context) {
	count, err := h.bookingsService.NumberOfUpcomingBookings(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to count upcoming bookings")
		return
	}
	c.JSON(http.StatusOK, entity.CountResponse{Count: count})
}

// GetListingID обрабатывает GET /bookings/:id/listing-id
func (h *BookingsHandler) GetListingID(c *gin.Context) {
	listingID, err := h.bookingsService.GetListingIDForBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to get listing for booking")
		return
	}
	c.JSON(http.StatusOK, entity.IDResponse{ID: listingID.String()})
}

// GetGuestID обрабатывает GET /bookings/:id/guest-id
func (h *BookingsHandler) GetGuestID(c *gin.Context) {
	guestID, err := h.bookingsService.GetGuestIDForBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to get guest for booking")
		return
	}
	c.JSON(http.StatusOK, entity.IDResponse{ID: guestID.String()})
}

func (h *BookingsHandler) fail(c *gin.Context, err error, msg string) {
	if apperror.KindOf(err) == apperror.KindInternal {
		logger.Error().Err(err).Msg(msg)
	}
	federation.RespondError(c, err)
}

func (h *BookingsHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Bad Request", Message: "Invalid request body"})
		return false
	}
	return h.validate(c, req)
}

func (h *BookingsHandler) bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Bad Request", Message: "Invalid query parameters"})
		return false
	}
	return h.validate(c, req)
}

func (h *BookingsHandler) validate(c *gin.Context, req any) bool {
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Bad Request", Message: formatValidationError(err)})
		return false
	}
	return true
}

func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		return validationErrors[0].Field() + " validation failed"
	}
	return "Validation failed"
}
