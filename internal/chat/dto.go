package chat

import (
	"time"

	"github.com/google/uuid"

	"github.com/ajdelacruz/saristore-backend/pkg/db/models"
	"github.com/ajdelacruz/saristore-backend/pkg/enums"
)

// MessageDTO is the transport shape for a chat message.
type MessageDTO struct {
	ID        uuid.UUID        `json:"id"`
	StoreID   uuid.UUID        `json:"store_id"`
	GuestID   string           `json:"guest_id"`
	Sender    enums.ChatSender `json:"sender"`
	Content   string           `json:"content"`
	CreatedAt time.Time        `json:"created_at"`
}

// MessageFromModel maps a persisted chat message onto its DTO.
func MessageFromModel(m *models.ChatMessage) *MessageDTO {
	if m == nil {
		return nil
	}
	return &MessageDTO{
		ID:        m.ID,
		StoreID:   m.StoreID,
		GuestID:   m.GuestID,
		Sender:    m.Sender,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

// MessagesFromModels maps a slice of chat messages onto DTOs.
func MessagesFromModels(rows []models.ChatMessage) []MessageDTO {
	out := make([]MessageDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *MessageFromModel(&rows[i]))
	}
	return out
}
