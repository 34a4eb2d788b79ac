package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ajdelacruz/saristore-backend/pkg/enums"
)

// Order is immutable once created. Lines snapshot the item name, price,
// and cost at checkout time so later catalog edits never change what a
// historical order was worth.
type Order struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID      uuid.UUID         `gorm:"column:store_id;type:uuid;not null;index"`
	CustomerName string            `gorm:"column:customer_name;not null;default:'Guest'"`
	TotalAmount  decimal.Decimal   `gorm:"column:total_amount;type:numeric(14,2);not null"`
	Status       enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	OrderCode    string            `gorm:"column:order_code;not null"`
	OrderDate    time.Time         `gorm:"column:order_date;not null"`
	Lines        []OrderLine       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
}

// OrderLine is a point-in-time snapshot, not a live item reference.
type OrderLine struct {
	ID       uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID  uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ItemName string          `gorm:"column:item_name;not null"`
	Quantity int             `gorm:"column:quantity;not null"`
	Price    decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Cost     decimal.Decimal `gorm:"column:cost;type:numeric(12,2);not null"`
}

// LineTotal returns quantity x price for the snapshot.
func (l OrderLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LineProfit returns quantity x (price - cost) for the snapshot.
func (l OrderLine) LineProfit() decimal.Decimal {
	return l.Price.Sub(l.Cost).Mul(decimal.NewFromInt(int64(l.Quantity)))
}
