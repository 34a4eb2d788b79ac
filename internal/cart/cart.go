package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one item entry in a guest cart.
type Line struct {
	ItemID   uuid.UUID       `json:"item_id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Cart is the guest's pending purchase for a single store. It lives in
// Redis under a per-store, per-session key and expires when idle.
type Cart struct {
	StoreID   uuid.UUID `json:"store_id"`
	SessionID string    `json:"session_id"`
	Lines     []Line    `json:"lines"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Subtotal sums price times quantity across all lines.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// TotalQuantity counts units across all lines.
func (c *Cart) TotalQuantity() int {
	count := 0
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// lineIndex returns the index of the item in the cart, or -1.
func (c *Cart) lineIndex(itemID uuid.UUID) int {
	for i, line := range c.Lines {
		if line.ItemID == itemID {
			return i
		}
	}
	return -1
}
