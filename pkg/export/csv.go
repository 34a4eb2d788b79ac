// Package export renders inventory and sales data into downloadable files.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/ajdelacruz/saristore-backend/pkg/db/models"
)

// InventoryCSV renders the store's items as a CSV document.
func InventoryCSV(storeName string, items []models.Item) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Name", "Category", "Quantity", "Price", "Cost Price", "Position"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, item := range items {
		row := []string{
			item.Name,
			item.Category,
			strconv.Itoa(item.Quantity),
			item.Price.StringFixed(2),
			item.CostPrice.StringFixed(2),
			strconv.Itoa(item.Position),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
