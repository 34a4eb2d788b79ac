package insights

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// ForecastPayload is the structured shape the assistant is asked to
// return for sales forecasting.
type ForecastPayload struct {
	Forecast    []decimal.Decimal `json:"forecast"`
	HolidayNote string            `json:"holidayNote"`
	Tips        []string          `json:"tips"`
}

// ForecastOutcome is a tagged parse result. Payload is nil when the
// model's text could not be decoded, in which case Raw carries what it
// actually said.
type ForecastOutcome struct {
	Payload *ForecastPayload
	Raw     string
}

// Parsed reports whether the response decoded into a payload.
func (o ForecastOutcome) Parsed() bool {
	return o.Payload != nil
}

type chatPayload struct {
	Handoff bool   `json:"handoff"`
	Reply   string `json:"reply"`
}

// seedItem mirrors the JSON list the assistant returns for inventory
// seeding.
type seedItem struct {
	Name     string          `json:"Name"`
	Category string          `json:"Category"`
	Price    decimal.Decimal `json:"Price"`
	Cost     decimal.Decimal `json:"Cost"`
	Quantity int             `json:"Quantity"`
}

// stripCodeFences removes markdown fence markers the model tends to
// wrap JSON in, including a leading language tag.
func stripCodeFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}
	cleaned = strings.TrimPrefix(cleaned, "```")
	if idx := strings.Index(cleaned, "\n"); idx >= 0 && !strings.HasPrefix(cleaned, "{") && !strings.HasPrefix(cleaned, "[") {
		cleaned = cleaned[idx+1:]
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}

// parseForecast decodes the forecast payload, never failing: malformed
// text comes back as the Unparseable variant.
func parseForecast(raw string) ForecastOutcome {
	cleaned := stripCodeFences(raw)
	var payload ForecastPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return ForecastOutcome{Raw: raw}
	}
	if len(payload.Forecast) == 0 {
		return ForecastOutcome{Raw: raw}
	}
	return ForecastOutcome{Payload: &payload}
}

// parseChat decodes the handoff envelope. The second return reports
// whether the response actually decoded; a failure escalates to a human
// handoff with a canned reply. An assistant that parses fine and still
// asks for a handoff is not a parse failure.
func parseChat(raw string) (chatPayload, bool) {
	cleaned := stripCodeFences(raw)
	var payload chatPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil || strings.TrimSpace(payload.Reply) == "" {
		return chatPayload{Handoff: true, Reply: "Connecting you to the seller..."}, false
	}
	return payload, true
}

// parseSeedItems decodes the seed list, dropping entries without a name.
func parseSeedItems(raw string) []seedItem {
	cleaned := stripCodeFences(raw)
	var items []seedItem
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		return nil
	}
	out := items[:0]
	for _, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

// trimCategoryAnswer strips the quoting and trailing punctuation the
// model adds around a bare category label.
func trimCategoryAnswer(raw string) string {
	cleaned := strings.ReplaceAll(raw, `"`, "")
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	return strings.TrimSpace(cleaned)
}
