// File: internal/common/context_keys.go
package common

const (
	// AuthorizationHeader is the header name for authorization token
	AuthorizationHeader = "Authorization"
	// AuthorizationTypeBearer is the only accepted authorization scheme
	AuthorizationTypeBearer = "Bearer"
	// UserIDKey is the context key for storing the authenticated account's ID
	UserIDKey = "userID"
	// UserEmailKey is the context key for storing the authenticated account's email
	UserEmailKey = "userEmail"
	// AccountKey is the context key for storing the resolved caller account
	AccountKey = "account"
	// LoggerKey is the context key RespondWithError looks for a request-scoped logger under
	LoggerKey = "logger"
)
