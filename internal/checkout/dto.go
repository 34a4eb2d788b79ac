package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ajdelacruz/saristore-backend/pkg/db/models"
	"github.com/ajdelacruz/saristore-backend/pkg/enums"
)

// Input carries everything needed to place an order from a guest cart.
type Input struct {
	StoreID       uuid.UUID
	CartSessionID string
	CustomerName  string
}

// ReceiptLine mirrors a persisted order line for the receipt payload.
type ReceiptLine struct {
	ItemName string          `json:"item_name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Total    decimal.Decimal `json:"total"`
}

// Receipt is returned to the shopper once the order is committed.
type Receipt struct {
	OrderID      uuid.UUID         `json:"order_id"`
	OrderCode    string            `json:"order_code"`
	CustomerName string            `json:"customer_name"`
	Status       enums.OrderStatus `json:"status"`
	Total        decimal.Decimal   `json:"total"`
	OrderDate    time.Time         `json:"order_date"`
	Lines        []ReceiptLine     `json:"lines"`
}

// ReceiptFromOrder maps a persisted order onto the receipt payload.
func ReceiptFromOrder(order *models.Order) *Receipt {
	receipt := &Receipt{
		OrderID:      order.ID,
		OrderCode:    order.OrderCode,
		CustomerName: order.CustomerName,
		Status:       order.Status,
		Total:        order.TotalAmount,
		OrderDate:    order.OrderDate,
		Lines:        make([]ReceiptLine, 0, len(order.Lines)),
	}
	for _, line := range order.Lines {
		receipt.Lines = append(receipt.Lines, ReceiptLine{
			ItemName: line.ItemName,
			Quantity: line.Quantity,
			Price:    line.Price,
			Total:    line.LineTotal(),
		})
	}
	return receipt
}
