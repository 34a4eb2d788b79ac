package chat

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ajdelacruz/saristore-backend/pkg/db/models"
)

// Repository exposes chat message persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a chat repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a chat message.
func (r *Repository) Create(ctx context.Context, message *models.ChatMessage) (*models.ChatMessage, error) {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}

// ListThread returns the conversation for one guest in time order.
func (r *Repository) ListThread(ctx context.Context, storeID uuid.UUID, guestID string) ([]models.ChatMessage, error) {
	var rows []models.ChatMessage
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND guest_id = ?", storeID, guestID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByStore returns every message across the store's guest threads in
// time order.
func (r *Repository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.ChatMessage, error) {
	var rows []models.ChatMessage
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// HasThread reports whether the guest has messaged the store before.
func (r *Repository) HasThread(ctx context.Context, storeID uuid.UUID, guestID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ChatMessage{}).
		Where("store_id = ? AND guest_id = ?", storeID, guestID).
		Count(&count).Error
	return count > 0, err
}
