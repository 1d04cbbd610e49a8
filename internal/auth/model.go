// File: internal/auth/model.go
package auth

import "voluntr_backend/internal/shared"

// SignUpRequest defines the structure for sign-up requests.
type SignUpRequest struct {
	IDToken  string `json:"id_token" binding:"required"`
	FullName string `json:"full_name" binding:"required,min=1,max=255"`
}

// SignInRequest defines the structure for login requests.
type SignInRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

// SessionResponse is returned by both sign-up and login.
type SessionResponse struct {
	User      shared.UserResponse `json:"user"`
	IsNewUser bool                `json:"is_new_user"`
}
