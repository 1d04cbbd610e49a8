// File: internal/middleware/auth.go
package middleware

import (
	"context"

	"voluntr_backend/internal/common"
	"voluntr_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Authenticator resolves the caller from a raw Authorization header value.
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (*shared.Account, error)
}

// AuthMiddleware rejects requests whose caller cannot be resolved to an active
// account and stores the account in the gin context otherwise.
func AuthMiddleware(gate Authenticator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, err := gate.Authenticate(c.Request.Context(), c.GetHeader(common.AuthorizationHeader))
		if err != nil {
			logger.Debug("Request authentication failed",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetString(RequestIDContextKey)),
			)
			common.RespondWithError(c, err)
			return
		}

		common.SetAccountInContext(c, account)
		logger.Debug("User authenticated successfully",
			zap.Int64("userID", account.ID),
			zap.String("email", account.Email),
		)
		c.Next()
	}
}
