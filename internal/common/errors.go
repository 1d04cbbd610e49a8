// File: internal/common/errors.go
package common

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	// Ensure this is the correct import used by Gin for binding
	"github.com/go-playground/validator/v10"
)

// APIError represents a standard structure for API errors.
type APIError struct {
	StatusCode int         `json:"-"`
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("APIError: StatusCode=%d, Code=%s, Message=%s", e.StatusCode, e.Code, e.Message)
}

// Is reports whether target is an APIError of the same kind, so that
// errors.Is(err, ErrRequestNotFound) holds for copies made by WithDetails.
func (e *APIError) Is(target error) bool {
	var t *APIError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

func NewAPIError(statusCode int, code, message string) *APIError {
	return &APIError{StatusCode: statusCode, Code: code, Message: message}
}

// WithDetails returns a copy of the error carrying details. The sentinel is left untouched.
func (e *APIError) WithDetails(details interface{}) *APIError {
	cp := *e
	cp.Details = details
	return &cp
}

// Transport-level errors.
var (
	ErrBadRequest          = NewAPIError(http.StatusBadRequest, "BAD_REQUEST", "The request is invalid.")
	ErrUnauthorized        = NewAPIError(http.StatusUnauthorized, "UNAUTHORIZED", "Authentication is required and has failed or has not yet been provided.")
	ErrForbidden           = NewAPIError(http.StatusForbidden, "FORBIDDEN", "You do not have permission to access this resource.")
	ErrNotFound            = NewAPIError(http.StatusNotFound, "NOT_FOUND", "The requested resource could not be found.")
	ErrConflict            = NewAPIError(http.StatusConflict, "CONFLICT", "A conflict occurred with the current state of the resource.")
	ErrUnprocessableEntity = NewAPIError(http.StatusUnprocessableEntity, "UNPROCESSABLE_ENTITY", "The request was well-formed but was unable to be followed due to semantic errors.")
	ErrTooManyRequests     = NewAPIError(http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "Rate limit exceeded. Try again later.")
	ErrInternalServer      = NewAPIError(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An unexpected error occurred on the server.")
	ErrServiceUnavailable  = NewAPIError(http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "The server is currently unable to handle the request.")
)

// Credential errors.
var (
	ErrMissingCredential   = NewAPIError(http.StatusUnauthorized, "MISSING_CREDENTIAL", "Authorization header is required.")
	ErrMalformedCredential = NewAPIError(http.StatusUnauthorized, "MALFORMED_CREDENTIAL", "Authorization header must be a Bearer token.")
	ErrInvalidCredential   = NewAPIError(http.StatusUnauthorized, "INVALID_CREDENTIAL", "Invalid identity token.")
)

// Identity errors.
var (
	ErrMissingIdentityClaim = NewAPIError(http.StatusBadRequest, "MISSING_IDENTITY_CLAIM", "Identity token is missing the email claim.")
	ErrAccountNotFound      = NewAPIError(http.StatusNotFound, "ACCOUNT_NOT_FOUND", "User account not found.")
	ErrAccountInactive      = NewAPIError(http.StatusForbidden, "ACCOUNT_INACTIVE", "User account is inactive.")
)

// Relationship errors.
var (
	ErrSelfRequest      = NewAPIError(http.StatusBadRequest, "SELF_REQUEST", "Cannot send a friend request to yourself.")
	ErrTargetNotFound   = NewAPIError(http.StatusNotFound, "TARGET_NOT_FOUND", "No user exists with that email.")
	ErrAlreadyFriends   = NewAPIError(http.StatusConflict, "ALREADY_FRIENDS", "You are already friends with this user.")
	ErrDuplicateRequest = NewAPIError(http.StatusConflict, "DUPLICATE_REQUEST", "A friend request already exists between these users.")
	ErrRequestNotFound  = NewAPIError(http.StatusNotFound, "REQUEST_NOT_FOUND", "Friend request not found.")
)

func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func NewValidationAPIError(details interface{}) *APIError {
	return &APIError{
		StatusCode: http.StatusUnprocessableEntity,
		Code:       "VALIDATION_ERROR",
		Message:    "Input validation failed.",
		Details:    details,
	}
}

// FormatValidationErrors converts validator.ValidationErrors into a map.
func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	errorMap := make(map[string]string)
	for _, e := range errs {
		field := e.Field()
		var message string
		switch e.Tag() {
		case "required":
			message = fmt.Sprintf("The %s field is required.", strings.ToLower(field))
		case "email":
			message = fmt.Sprintf("The %s field must be a valid email address.", strings.ToLower(field))
		case "min":
			message = fmt.Sprintf("The %s field must be at least %s characters long.", strings.ToLower(field), e.Param())
		case "max":
			message = fmt.Sprintf("The %s field may not be greater than %s characters.", strings.ToLower(field), e.Param())
		default:
			message = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag.", field, e.Tag())
		}
		errorMap[field] = message
	}
	return errorMap
}

// BindingError converts a ShouldBindJSON failure into the matching APIError.
func BindingError(err error) *APIError {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return NewValidationAPIError(FormatValidationErrors(ve))
	}
	return ErrBadRequest.WithDetails(err.Error())
}
