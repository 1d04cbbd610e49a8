// File: internal/auth/handler.go
package auth

import (
	"voluntr_backend/internal/common"
	"voluntr_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for auth handlers.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for authentication operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/signup", h.signUp)
		authGroup.POST("/login", h.login)
	}
}

func (h *Handler) signUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Sign-up: Invalid request body", zap.Error(err))
		common.RespondWithError(c, common.BindingError(err))
		return
	}

	account, isNew, err := h.service.SignUp(c.Request.Context(), req.IDToken, req.FullName)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	response := SessionResponse{User: shared.ToUserResponse(account), IsNewUser: isNew}
	if isNew {
		common.RespondCreated(c, "User registered successfully.", response)
		return
	}
	common.RespondOK(c, "User already registered.", response)
}

func (h *Handler) login(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Login: Invalid request body", zap.Error(err))
		common.RespondWithError(c, common.BindingError(err))
		return
	}

	account, err := h.service.SignIn(c.Request.Context(), req.IDToken)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Login successful.", SessionResponse{User: shared.ToUserResponse(account)})
}
