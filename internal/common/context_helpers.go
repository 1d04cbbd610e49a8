// File: internal/common/context_helpers.go
package common

import (
	"voluntr_backend/internal/shared"

	"github.com/gin-gonic/gin"
)

// GetUserIDFromContext retrieves the caller's account ID from the Gin context.
// Returns 0 if not found.
func GetUserIDFromContext(c *gin.Context) int64 {
	val, exists := c.Get(UserIDKey)
	if !exists {
		return 0
	}
	userID, ok := val.(int64)
	if !ok {
		return 0
	}
	return userID
}

// GetUserEmailFromContext retrieves the caller's normalized email from the Gin context.
func GetUserEmailFromContext(c *gin.Context) string {
	return c.GetString(UserEmailKey)
}

// GetAccountFromContext retrieves the account resolved by the auth gate.
func GetAccountFromContext(c *gin.Context) *shared.Account {
	val, exists := c.Get(AccountKey)
	if !exists {
		return nil
	}
	account, ok := val.(*shared.Account)
	if !ok {
		return nil
	}
	return account
}

// SetAccountInContext stores the caller identity for downstream handlers.
func SetAccountInContext(c *gin.Context, account *shared.Account) {
	c.Set(AccountKey, account)
	c.Set(UserIDKey, account.ID)
	c.Set(UserEmailKey, account.Email)
}
