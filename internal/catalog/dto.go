package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ajdelacruz/saristore-backend/pkg/db/models"
)

// ItemDTO is the transport shape for a catalog item. Logo bytes are
// served from a dedicated endpoint, so only a flag travels here.
type ItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	StoreID   uuid.UUID       `json:"store_id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	CostPrice decimal.Decimal `json:"cost_price"`
	Position  int             `json:"position"`
	HasLogo   bool            `json:"has_logo"`
	CreatedAt time.Time       `json:"created_at"`
}

// CreateItemInput holds the validated payload to create an item.
type CreateItemInput struct {
	Name      string
	Category  string
	Quantity  int
	Price     decimal.Decimal
	CostPrice decimal.Decimal
}

// UpdateItemInput holds optional mutation values for an item.
type UpdateItemInput struct {
	Name      *string
	Category  *string
	Quantity  *int
	Price     *decimal.Decimal
	CostPrice *decimal.Decimal
}

// LogoInput carries an uploaded item image.
type LogoInput struct {
	Data        []byte
	ContentType string
}

// ItemFromModel maps the persisted row to its transport shape.
func ItemFromModel(m *models.Item) *ItemDTO {
	if m == nil {
		return nil
	}
	return &ItemDTO{
		ID:        m.ID,
		StoreID:   m.StoreID,
		Name:      m.Name,
		Category:  m.Category,
		Quantity:  m.Quantity,
		Price:     m.Price,
		CostPrice: m.CostPrice,
		Position:  m.Position,
		HasLogo:   len(m.LogoData) > 0,
		CreatedAt: m.CreatedAt,
	}
}

// ItemsFromModels maps a slice of rows preserving order.
func ItemsFromModels(rows []models.Item) []ItemDTO {
	out := make([]ItemDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *ItemFromModel(&rows[i]))
	}
	return out
}
