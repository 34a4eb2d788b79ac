package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ajdelacruz/saristore-backend/pkg/enums"
)

// User is an account that can own a store (seller) or shop (customer).
type User struct {
	ID                    uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Username              string         `gorm:"column:username;not null;uniqueIndex"`
	Email                 string         `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash          string         `gorm:"column:password_hash;not null"`
	Role                  enums.UserRole `gorm:"column:role;type:text;not null;default:'seller'"`
	EmailVerified         bool           `gorm:"column:email_verified;not null;default:false"`
	VerificationCode      *string        `gorm:"column:verification_code"`
	VerificationExpiresAt *time.Time     `gorm:"column:verification_expires_at"`
	CreatedAt             time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
