package export

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/ajdelacruz/saristore-backend/pkg/db/models"
	"github.com/jung-kurt/gofpdf"
)

// InventoryPDF renders the store's items as a simple tabular PDF report.
func InventoryPDF(storeName string, items []models.Item, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("%s inventory", storeName), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("%s - Inventory", storeName), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 6, "Generated "+generatedAt.Format("Jan 2, 2006 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	colWidths := []float64{70, 35, 20, 25, 25}
	headers := []string{"Name", "Category", "Qty", "Price", "Cost"}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(235, 235, 245)
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 8, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		pdf.CellFormat(colWidths[0], 7, item.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 7, item.Category, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[2], 7, strconv.Itoa(item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[3], 7, item.Price.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[4], 7, item.CostPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
