package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// DecimalSlice persists a decimal array as a JSON column so the cached
// forecast survives round-trips on both Postgres (jsonb) and SQLite (text).
type DecimalSlice []decimal.Decimal

// Value implements driver.Valuer.
func (d DecimalSlice) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal decimal slice: %w", err)
	}
	return string(raw), nil
}

// Scan implements sql.Scanner.
func (d *DecimalSlice) Scan(src any) error {
	if src == nil {
		*d = nil
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported decimal slice source %T", src)
	}
	return json.Unmarshal(raw, d)
}

// Sum returns the total of all entries.
func (d DecimalSlice) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, v := range d {
		total = total.Add(v)
	}
	return total
}
