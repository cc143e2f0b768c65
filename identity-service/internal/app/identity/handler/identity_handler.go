package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"staybnb/identity-service/internal/app/identity/entity"
	"staybnb/identity-service/internal/app/identity/service"
	"staybnb/pkg/apperror"
	"staybnb/pkg/auth"
	"staybnb/pkg/federation"
	"staybnb/pkg/logger"
	"staybnb/pkg/metrics"
)

type IdentityHandler struct {
	identityService service.IdentityServiceInterface
	validator       *validator.Validate
}

func NewIdentityHandler(identityService service.IdentityServiceInterface) *IdentityHandler {
	return &IdentityHandler{
		identityService: identityService,
		validator:       validator.New(),
	}
}

// Register обрабатывает POST /auth/register
func (h *IdentityHandler) Register(c *gin.Context) {
	var req entity.RegisterRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.identityService.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserExists):
			respondError(c, http.StatusConflict, "Conflict", "User with this email already exists")
		case errors.Is(err, apperror.ErrInvalidState):
			respondError(c, http.StatusBadRequest, "Bad Request", err.Error())
		default:
			logger.Error().Err(err).Msg("Failed to register user")
			respondError(c, http.StatusInternalServerError, "Internal Server Error", "Failed to register user")
		}
		return
	}

	metrics.AuthRegistrations.WithLabelValues(resp.User.Role.String()).Inc()
	metrics.AuthTokensIssued.WithLabelValues("access").Inc()
	metrics.AuthTokensIssued.WithLabelValues("refresh").Inc()
	c.JSON(http.StatusCreated, resp)
}

// Login обрабатывает POST /auth/login
func (h *IdentityHandler) Login(c *gin.Context) {
	var req entity.LoginRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.identityService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			metrics.AuthLogins.WithLabelValues("failed").Inc()
			respondError(c, http.StatusUnauthorized, "Unauthorized", "Invalid email or password")
			return
		}
		logger.Error().Err(err).Msg("Failed to login")
		respondError(c, http.StatusInternalServerError, "Internal Server Error", "Failed to login")
		return
	}

	metrics.AuthLogins.WithLabelValues("success").Inc()
	metrics.AuthTokensIssued.WithLabelValues("access").Inc()
	metrics.AuthTokensIssued.WithLabelValues("refresh").Inc()
	c.JSON(http.StatusOK, resp)
}

// RefreshToken обрабатывает POST /auth/refresh
func (h *IdentityHandler) RefreshToken(c *gin.Context) {
	var req entity.RefreshRequest
	if !h.bind(c, &req) {
		return
	}

	tokens, err := h.identityService.RefreshTokens(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) || errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusUnauthorized, "Unauthorized", "Invalid or expired refresh token")
			return
		}
		logger.Error().Err(err).Msg("Failed to refresh token")
		respondError(c, http.StatusInternalServerError, "Internal Server Error", "Failed to refresh token")
		return
	}

	metrics.AuthTokensIssued.WithLabelValues("access").Inc()
	metrics.AuthTokensIssued.WithLabelValues("refresh").Inc()
	c.JSON(http.StatusOK, tokens)
}

// GetMe обрабатывает GET /auth/me
func (h *IdentityHandler) GetMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.identityService.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "Not Found", "User not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Internal Server Error", "Failed to get user info")
		return
	}

	c.JSON(http.StatusOK, user)
}

// Logout обрабатывает POST /auth/logout
func (h *IdentityHandler) Logout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	// Тело необязательно
	var req entity.LogoutRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.identityService.Logout(c.Request.Context(), userID, auth.TokenFromContext(c), req.RefreshToken); err != nil {
		logger.Error().Err(err).Msg("Failed to logout")
		respondError(c, http.StatusInternalServerError, "Internal Server Error", "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Successfully logged out"})
}

// Lookup обрабатывает GET /login/:id и отдает {id, role}
func (h *IdentityHandler) Lookup(c *gin.Context) {
	identity, err := h.identityService.Lookup(c.Request.Context(), c.Param("id"))
	if err != nil {
		federation.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, identity)
}

// ResolveIdentity обрабатывает GET /identity/resolve.
// Без заголовка отдает анонимную идентичность.
func (h *IdentityHandler) ResolveIdentity(c *gin.Context) {
	c.JSON(http.StatusOK, auth.FromContext(c))
}

func (h *IdentityHandler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return false
	}
	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, "Bad Request", formatValidationError(err))
		return false
	}
	return true
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, err := uuid.Parse(auth.FromContext(c).UserID)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", "You must be logged in")
		return uuid.Nil, false
	}
	return userID, true
}

func respondError(c *gin.Context, status int, title, message string) {
	c.JSON(status, entity.ErrorResponse{Error: title, Message: message})
}

// formatValidationError форматирует ошибки валидации
func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		return validationErrors[0].Field() + " validation failed"
	}
	return "Validation failed"
}
