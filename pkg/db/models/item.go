package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is a catalog entry. Position is the seller-controlled display
// ordering key; it is unique per store in practice but not enforced by
// the schema, so reindexing is the only way gaps and duplicates close.
type Item struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID         uuid.UUID       `gorm:"column:store_id;type:uuid;not null;index"`
	Name            string          `gorm:"column:name;not null"`
	Category        string          `gorm:"column:category;not null;default:'General'"`
	Quantity        int             `gorm:"column:quantity;not null;default:0"`
	Price           decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	CostPrice       decimal.Decimal `gorm:"column:cost_price;type:numeric(12,2);not null"`
	Position        int             `gorm:"column:position;not null;default:0"`
	LogoData        []byte          `gorm:"column:logo_data"`
	LogoContentType *string         `gorm:"column:logo_content_type"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}
