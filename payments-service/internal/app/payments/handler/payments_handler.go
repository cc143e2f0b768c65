package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"staybnb/payments-service/internal/app/payments/entity"
	"staybnb/payments-service/internal/app/payments/service"
	"staybnb/pkg/apperror"
	"staybnb/pkg/auth"
	"staybnb/pkg/federation"
	"staybnb/pkg/logger"
)

type PaymentsHandler struct {
	paymentsService service.PaymentsServiceInterface
	validator       *validator.Validate
}

func NewPaymentsHandler(paymentsService service.PaymentsServiceInterface) *PaymentsHandler {
	return &PaymentsHandler{
		paymentsService: paymentsService,
		validator:       validator.New(),
	}
}

// SubtractFunds обрабатывает POST /payments/subtract
func (h *PaymentsHandler) SubtractFunds(c *gin.Context) {
	var req entity.FundsRequest
	if !h.bind(c, &req) {
		return
	}

	movement, err := h.paymentsService.SubtractFunds(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err, "Failed to subtract funds")
		return
	}

	c.JSON(http.StatusOK, movement)
}

// AddFunds обрабатывает POST /payments/add
func (h *PaymentsHandler) AddFunds(c *gin.Context) {
	var req entity.FundsRequest
	if !h.bind(c, &req) {
		return
	}

	movement, err := h.paymentsService.AddFunds(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err, "Failed to add funds")
		return
	}

	c.JSON(http.StatusOK, movement)
}

// GetMyBalance обрабатывает GET /payments/balance
func (h *PaymentsHandler) GetMyBalance(c *gin.Context) {
	userID, err := uuid.Parse(auth.FromContext(c).UserID)
	if err != nil {
		federation.RespondError(c, apperror.Authentication())
		return
	}
	h.respondBalance(c, userID)
}

// GetBalance обрабатывает GET /payments/accounts/:userId/balance
func (h *PaymentsHandler) GetBalance(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Bad Request", Message: "Invalid user ID"})
		return
	}
	h.respondBalance(c, userID)
}

func (h *PaymentsHandler) respondBalance(c *gin.Context, userID uuid.UUID) {
	balance, err := h.paymentsService.GetBalance(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err, "Failed to get balance")
		return
	}
	c.JSON(http.StatusOK, balance)
}

func (h *PaymentsHandler) fail(c *gin.Context, err error, msg string) {
	if apperror.KindOf(err) == apperror.KindInternal {
		logger.Error().Err(err).Msg(msg)
	}
	federation.RespondError(c, err)
}

func (h *PaymentsHandler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Bad Request", Message: "Invalid request body"})
		return false
	}
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
