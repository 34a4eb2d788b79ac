package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ajdelacruz/saristore-backend/pkg/enums"
)

// Notification is a store-scoped event flag raised by cart adds,
// checkouts, and chat handoffs. Unread means ReadAt is null.
type Notification struct {
	ID        uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID   uuid.UUID              `gorm:"column:store_id;type:uuid;not null;index"`
	Type      enums.NotificationType `gorm:"column:type;type:text;not null;default:'info'"`
	Message   string                 `gorm:"column:message;not null"`
	ReadAt    *time.Time             `gorm:"column:read_at"`
	CreatedAt time.Time              `gorm:"column:created_at;autoCreateTime"`
}
