package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"staybnb/listings-service/internal/app/listings/entity"
	"staybnb/listings-service/internal/app/listings/service"
	"staybnb/pkg/apperror"
	"staybnb/pkg/auth"
	"staybnb/pkg/federation"
	"staybnb/pkg/logger"
)

type ListingsHandler struct {
	listingsService service.ListingsServiceInterface
	validator       *validator.Validate
}

func NewListingsHandler(listingsService service.ListingsServiceInterface) *ListingsHandler {
	return &ListingsHandler{
		listingsService: listingsService,
		validator:       validator.New(),
	}
}

// GetFeaturedListings обрабатывает GET /listings/featured
func (h *ListingsHandler) GetFeaturedListings(c *gin.Context) {
	listings, err := h.listingsService.GetFeaturedListings(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to get featured listings")
		return
	}
	c.JSON(http.StatusOK, listings)
}

// SearchListings обрабатывает GET /listings/search
func (h *ListingsHandler) SearchListings(c *gin.Context) {
	var query entity.SearchListingsQuery
	if !h.bindQuery(c, &query) {
		return
	}

	listings, err := h.listingsService.SearchListings(c.Request.Context(), &query)
	if err != nil {
		h.fail(c, err, "Failed to search listings")
		return
	}
	c.JSON(http.StatusOK, listings)
}

// GetHostListings обрабатывает GET /listings/host
func (h *ListingsHandler) GetHostListings(c *gin.Context) {
	listings, err := h.listingsService.GetHostListings(c.Request.Context(), auth.FromContext(c))
	if err != nil {
		h.fail(c, err, "Failed to get host listings")
		return
	}
	c.JSON(http.StatusOK, listings)
}

// GetListing обрабатывает GET /listings/:id
func (h *ListingsHandler) GetListing(c *gin.Context) {
	listing, err := h.listingsService.GetListing(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to get listing")
		return
	}
	c.JSON(http.StatusOK, listing)
}

// GetListingsForUser обрабатывает GET /users/:id/listings
func (h *ListingsHandler) GetListingsForUser(c *gin.Context) {
	hostID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Bad Request", Message: "Invalid user ID"})
		return
	}

	listings, err := h.listingsService.GetListingsForUser(c.Request.Context(), hostID)
	if err != nil {
		h.fail(c, err, "Failed to get listings for user")
		return
	}
	c.JSON(http.StatusOK, listings)
}

// GetAllAmenities обрабатывает GET /listings/amenities
func (h *ListingsHandler) GetAllAmenities(c *gin.Context) {
	amenities, err := h.listingsService.GetAllAmenities(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to get amenities")
		return
	}
	c.JSON(http.StatusOK, amenities)
}

// GetTotalCost обрабатывает GET /listings/:id/cost
func (h *ListingsHandler) GetTotalCost(c *gin.Context) {
	var req entity.CostRequest
	if !h.bindQuery(c, &req) {
		return
	}

	total, err := h.listingsService.GetTotalCost(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.fail(c, err, "Failed to calculate total cost")
		return
	}
	c.JSON(http.StatusOK, entity.CostResponse{TotalCost: total})
}

// CreateListing обрабатывает POST /listings
func (h *ListingsHandler) CreateListing(c *gin.Context) {
	var req entity.CreateListingRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.listingsService.CreateListing(c.Request.Context(), auth.FromContext(c), &req)
	if err != nil {
		h.fail(c, err, "Failed to create listing")
		return
	}
	federation.RespondResult(c, result)
}

// UpdateListing обрабатывает PATCH /listings/:id
func (h *ListingsHandler) UpdateListing(c *gin.Context) {
	var req entity.UpdateListingRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.listingsService.UpdateListing(c.Request.Context(), auth.FromContext(c), c.Param("id"), &req)
	if err != nil {
		h.fail(c, err, "Failed to update listing")
		return
	}
	federation.RespondResult(c, result)
}

func (h *ListingsHandler) fail(c *gin.Context, err error, msg string) {
	if apperror.KindOf(err) == apperror.KindInternal {
		logger.Error().Err(err).Msg(msg)
	}
	federation.RespondError(c, err)
}

func (h *ListingsHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Bad Request", Message: "Invalid request body"})
		return false
	}
	return h.validate(c, req)
}

func (h *ListingsHandler) bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Bad Request", Message: "Invalid query parameters"})
		return false
	}
	return h.validate(c, req)
}

func (h *ListingsHandler) validate(c *gin.Context, req any) bool {
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
