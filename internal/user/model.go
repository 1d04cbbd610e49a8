// File: internal/user/model.go
package user

import (
	"strings"

	"voluntr_backend/internal/common" // For BaseModel
)

// User represents a local account in the database. Accounts are keyed by
// normalized email and are never deleted by this service.
type User struct {
	common.BaseModel          // Embeds ID, CreatedAt, UpdatedAt
	Email            string  `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email"`
	FullName         *string `gorm:"type:varchar(255)"` // Pointer to allow NULL
	IsActive         bool    `gorm:"not null;default:true"`
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// NormalizeEmail lower-cases and trims an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
