// File: internal/friend/handler.go
package friend

import (
	"strconv"

	"voluntr_backend/internal/common"
	"voluntr_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for friend handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new friend handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the friend routes. Every route runs behind authMW;
// sendLimitMW guards request creation only.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc, sendLimitMW gin.HandlerFunc) {
	friendGroup := router.Group("/friends")
	friendGroup.Use(authMW)
	{
		friendGroup.GET("", h.listFriends)
		friendGroup.POST("/requests", sendLimitMW, h.sendRequest)
		friendGroup.GET("/requests", h.listPendingRequests)
		friendGroup.POST("/requests/:id/accept", h.acceptRequest)
		friendGroup.POST("/requests/:id/reject", h.rejectRequest)
	}
}

func (h *Handler) listFriends(c *gin.Context) {
	friends, err := h.service.ListFriends(c.Request.Context(), common.GetUserIDFromContext(c))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	profiles := make([]shared.PublicProfile, 0, len(friends))
	for i := range friends {
		profiles = append(profiles, shared.ToPublicProfile(&friends[i]))
	}
	common.RespondOK(c, "Friends retrieved successfully.", profiles)
}

func (h *Handler) sendRequest(c *gin.Context) {
	var req SendRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Send friend request: Invalid request body", zap.Error(err))
		common.RespondWithError(c, common.BindingError(err))
		return
	}

	created, err := h.service.SendRequest(c.Request.Context(), common.GetUserIDFromContext(c), req.FriendEmail)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Friend request sent.", ToRequestResponse(created))
}

func (h *Handler) listPendingRequests(c *gin.Context) {
	pending, err := h.service.ListPendingRequests(c.Request.Context(), common.GetUserIDFromContext(c))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Pending friend requests retrieved successfully.", pending)
}

func (h *Handler) acceptRequest(c *gin.Context) {
	h.decide(c, true)
}

func (h *Handler) rejectRequest(c *gin.Context) {
	h.decide(c, false)
}

func (h *Handler) decide(c *gin.Context, accept bool) {
	requestID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || requestID <= 0 {
		h.logger.Warn("Invalid friend request ID in URL parameter", zap.String("paramID", c.Param("id")))
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid friend request ID."))
		return
	}

	decided, err := h.service.DecideRequest(c.Request.Context(), common.GetUserIDFromContext(c), requestID, accept)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	message := "Friend request rejected."
	if accept {
		message = "Friend request accepted."
	}
	common.RespondOK(c, message, ToRequestResponse(decided))
}
