package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ajdelacruz/saristore-backend/pkg/enums"
)

// ChatMessage is one line of a store<->guest conversation. GuestID is a
// client-generated identifier; the seller side is keyed by the store.
type ChatMessage struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID   uuid.UUID        `gorm:"column:store_id;type:uuid;not null;index"`
	GuestID   string           `gorm:"column:guest_id;not null;index"`
	Sender    enums.ChatSender `gorm:"column:sender;type:text;not null"`
	Content   string           `gorm:"column:content;not null"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
}
