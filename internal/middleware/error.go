// File: internal/middleware/error.go
package middleware

import (
	"net/http"

	"voluntr_backend/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler creates a Gin middleware for centralized error handling of
// errors attached with c.Error and of unmatched routes.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		if len(c.Errors) > 0 {
			ginErr := c.Errors.Last()
			if apiErr, ok := common.IsAPIError(ginErr.Err); ok {
				c.AbortWithStatusJSON(apiErr.StatusCode, apiErr)
				return
			}
			logger.Error("Unhandled application error",
				zap.Error(ginErr.Err),
				zap.String("path", c.Request.URL.Path),
				zap.Any("meta", ginErr.Meta),
				zap.String("request_id", c.GetString(RequestIDContextKey)),
			)
			genericError := common.ErrInternalServer
			if gin.Mode() == gin.DebugMode {
				genericError = common.ErrInternalServer.WithDetails(ginErr.Err.Error())
			}
			c.AbortWithStatusJSON(genericError.StatusCode, genericError)
			return
		}
	}
}

// NoRoute answers unmatched paths with the standard error envelope.
func NoRoute(c *gin.Context) {
	notFoundErr := common.ErrNotFound.WithDetails("The requested endpoint does not exist.")
	c.AbortWithStatusJSON(notFoundErr.StatusCode, notFoundErr)
}

// NoMethod answers known paths called with the wrong method.
func NoMethod(c *gin.Context) {
	methodNotAllowedErr := common.NewAPIError(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "The method is not allowed for the requested URL.")
	c.AbortWithStatusJSON(methodNotAllowedErr.StatusCode, methodNotAllowedErr)
}
