package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/ajdelacruz/saristore-backend/pkg/db/models"
	"github.com/ajdelacruz/saristore-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID            uuid.UUID      `json:"id"`
	Username      string         `json:"username"`
	Email         string         `json:"email"`
	Role          enums.UserRole `json:"role"`
	EmailVerified bool           `json:"email_verified"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Username              string
	Email                 string
	PasswordHash          string
	Role                  enums.UserRole
	VerificationCode      *string
	VerificationExpiresAt *time.Time
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		Role:          u.Role,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if role == "" {
		role = enums.UserRoleSeller
	}

	return &models.User{
		Username:              c.Username,
		Email:                 c.Email,
		PasswordHash:          c.PasswordHash,
		Role:                  role,
		VerificationCode:      c.VerificationCode,
		VerificationExpiresAt: c.VerificationExpiresAt,
	}
}
