package insights

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ajdelacruz/saristore-backend/pkg/db/models"
	"github.com/ajdelacruz/saristore-backend/pkg/enums"
)

// itemCategories is the fixed label set used by the categorize mode.
var itemCategories = []string{
	"Canned Goods", "Snacks", "Beverages", "Toiletries",
	"Condiments", "Rice", "Household", "Others",
}

// inventorySummary serializes the catalog one line per item for the
// analysis prompts.
func inventorySummary(items []models.Item) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("- %s (%s): %d units @ SRP: %s / Cost: %s",
			item.Name, item.Category, item.Quantity,
			item.Price.StringFixed(2), item.CostPrice.StringFixed(2)))
	}
	return strings.Join(lines, "\n")
}

// insightPrompt maps each analysis mode onto its template.
func insightPrompt(mode enums.InsightMode, items []models.Item, input string) string {
	summary := inventorySummary(items)
	switch mode {
	case enums.InsightModeCategorize:
		return fmt.Sprintf("Categorize this item: '%s' into exactly ONE category: [%s]. Respond ONLY with category name.",
			input, strings.Join(itemCategories, ", "))
	case enums.InsightModeRestock:
		return fmt.Sprintf("Analyze this inventory:\n%s\nSuggest which items need restocking (< 5). Suggest 3 popular Filipino items to add.", summary)
	case enums.InsightModeDesign:
		return "Give me 3 creative tips to design a Filipino Sari-Sari store."
	case enums.InsightModeJoke:
		return "Tell me a joke about Sari-Sari stores."
	default:
		return fmt.Sprintf("Analyze this inventory:\n%s\n1. Total Value (Retail vs Cost).", summary)
	}
}

// forecastContext is the data snapshot serialized into the forecast
// prompt.
type forecastContext struct {
	Date            string                     `json:"date"`
	InventorySample []forecastInventoryLine    `json:"inventorySample"`
	PastSales       map[string]decimal.Decimal `json:"pastSales"`
	TotalRevenue    decimal.Decimal            `json:"totalRevenue"`
	TotalProfit     decimal.Decimal            `json:"totalProfit"`
}

type forecastInventoryLine struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Quantity int    `json:"quantity"`
}

const forecastSampleSize = 10

func forecastPrompt(now time.Time, items []models.Item, pastSales map[string]decimal.Decimal, revenue, profit decimal.Decimal) (string, error) {
	sample := make([]forecastInventoryLine, 0, forecastSampleSize)
	for _, item := range items {
		if len(sample) == forecastSampleSize {
			break
		}
		sample = append(sample, forecastInventoryLine{
			Name:     item.Name,
			Category: item.Category,
			Quantity: item.Quantity,
		})
	}

	raw, err := json.Marshal(forecastContext{
		Date:            now.Format("January 02, 2006"),
		InventorySample: sample,
		PastSales:       pastSales,
		TotalRevenue:    revenue,
		TotalProfit:     profit,
	})
	if err != nil {
		return "", fmt.Errorf("marshal forecast context: %w", err)
	}

	return fmt.Sprintf("You are Sari, a smart business analyst. Analyze this data: %s. "+
		"1. Predict next 7 days sales (decimal array). 2. Identify holidays. 3. Give tips. "+
		`Return JSON: { "forecast": [1.0, 2.0], "holidayNote": "text", "tips": ["tip1"] }`, raw), nil
}

func chatPrompt(message string) string {
	return "You are Sari, a helpful store assistant. Return ONLY raw JSON: " +
		`{ "handoff": boolean, "reply": "string" }` + "\nUser: " + message
}

func seedPrompt() string {
	return "Generate a JSON list of 5 Filipino Sari-Sari store items. Fields: Name, Category, Price, Cost, Quantity."
}
