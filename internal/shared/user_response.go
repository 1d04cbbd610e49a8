// File: internal/shared/user_response.go
package shared

import (
	"time"
)

// UserResponse defines the structure for account data sent in API responses.
type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FullName  *string   `json:"full_name,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PublicProfile is the subset of an account shown to other users.
type PublicProfile struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name,omitempty"`
}

// ToUserResponse converts a shared.Account to a UserResponse DTO.
func ToUserResponse(account *Account) UserResponse {
	return UserResponse{
		ID:        account.ID,
		Email:     account.Email,
		FullName:  account.FullName,
		IsActive:  account.IsActive,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}
}

// ToPublicProfile converts a shared.Account to its public view.
func ToPublicProfile(account *Account) PublicProfile {
	return PublicProfile{
		ID:       account.ID,
		Email:    account.Email,
		FullName: account.FullName,
	}
}
