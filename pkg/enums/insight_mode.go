package enums

import "fmt"

// InsightMode selects which analysis prompt the AI gateway builds.
type InsightMode string

const (
	InsightModeSummary    InsightMode = "summary"
	InsightModeRestock    InsightMode = "restock"
	InsightModeCategorize InsightMode = "categorize"
	InsightModeDesign     InsightMode = "design"
	InsightModeJoke       InsightMode = "joke"
)

var validInsightModes = []InsightMode{
	InsightModeSummary,
	InsightModeRestock,
	InsightModeCategorize,
	InsightModeDesign,
	InsightModeJoke,
}

// String implements fmt.Stringer.
func (m InsightMode) String() string {
	return string(m)
}

// IsValid reports whether the value is a known InsightMode.
func (m InsightMode) IsValid() bool {
	for _, candidate := range validInsightModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseInsightMode converts raw input into an InsightMode. Empty and unknown
// values fall back to the summary mode, matching dashboard behavior.
func ParseInsightMode(value string) (InsightMode, error) {
	if value == "" {
		return InsightModeSummary, nil
	}
	for _, candidate := range validInsightModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid insight mode %q", value)
}
