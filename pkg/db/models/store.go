package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/ajdelacruz/saristore-backend/pkg/types"
)

// Store is the seller tenant. The report_* columns cache the last AI
// forecast so dashboard loads don't re-invoke the generative API.
type Store struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID     uuid.UUID `gorm:"column:owner_id;type:uuid;not null;uniqueIndex"`
	Name        string    `gorm:"column:name;not null"`
	Description string    `gorm:"column:description;not null;default:''"`
	ThemeColor  string    `gorm:"column:theme_color;not null;default:'#4f46e5'"`

	ReportForecast    types.DecimalSlice `gorm:"column:report_forecast;type:jsonb"`
	ReportHolidayNote *string            `gorm:"column:report_holiday_note"`
	ReportTips        pq.StringArray     `gorm:"column:report_tips;type:text[]"`
	ReportRevenue     *decimal.Decimal   `gorm:"column:report_revenue;type:numeric(14,2)"`
	ReportGeneratedAt *time.Time         `gorm:"column:report_generated_at"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
