package user

import (
	"voluntr_backend/internal/shared"
)

// DBToShared converts a GORM user.User model to a shared.Account.
func DBToShared(dbUser *User) *shared.Account {
	if dbUser == nil {
		return nil
	}
	return &shared.Account{
		ID:        dbUser.ID,
		Email:     dbUser.Email,
		FullName:  dbUser.FullName,
		IsActive:  dbUser.IsActive,
		CreatedAt: dbUser.CreatedAt,
		UpdatedAt: dbUser.UpdatedAt,
	}
}
