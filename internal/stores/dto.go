package stores

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ajdelacruz/saristore-backend/pkg/db/models"
	"github.com/ajdelacruz/saristore-backend/pkg/types"
)

// StoreDTO is the transport shape for a seller's store.
type StoreDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ThemeColor  string    `json:"theme_color"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateStoreDTO holds the data required by the repo to persist a new store.
type CreateStoreDTO struct {
	OwnerID     uuid.UUID
	Name        string
	Description string
	ThemeColor  string
}

// ReportCache captures the cached AI forecast columns on a store row.
type ReportCache struct {
	Forecast    types.DecimalSlice
	HolidayNote *string
	Tips        []string
	Revenue     *decimal.Decimal
	GeneratedAt time.Time
}

func FromModel(s *models.Store) *StoreDTO {
	if s == nil {
		return nil
	}
	return &StoreDTO{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		ThemeColor:  s.ThemeColor,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func (c CreateStoreDTO) ToModel() *models.Store {
	theme := c.ThemeColor
	if theme == "" {
		theme = "#4f46e5"
	}
	return &models.Store{
		OwnerID:     c.OwnerID,
		Name:        c.Name,
		Description: c.Description,
		ThemeColor:  theme,
	}
}
