package orders

import (
	"context"
	"time"

	"github.com/ajdelacruz/saristore-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository exposes order persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an orders repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts the order together with its lines.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindByID loads an order with its lines, scoped to the store.
func (r *Repository) FindByID(ctx context.Context, storeID, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&order, "id = ? AND store_id = ?", orderID, storeID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByStore returns the store's orders, newest first, with lines.
func (r *Repository) ListByStore(ctx context.Context, storeID uuid.UUID, limit int) ([]models.Order, error) {
	query := r.db.WithContext(ctx).
		Preload("Lines").
		Where("store_id = ?", storeID).
		Order("order_date DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// CountByStore reports how many orders the store has received.
func (r *Repository) CountByStore(ctx context.Context, storeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("store_id = ?", storeID).
		Count(&count).Error
	return count, err
}

// UpdateStatus transitions an order's status scoped to the store.
func (r *Repository) UpdateStatus(ctx context.Context, storeID, orderID uuid.UUID, status string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND store_id = ?", orderID, storeID).
		UpdateColumn("status", status)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DailyTotal is one day's revenue bucket.
type DailyTotal struct {
	Day   time.Time       `gorm:"column:day"`
	Total decimal.Decimal `gorm:"column:total"`
}

// DailyTotals aggregates order revenue per day since the given time.
func (r *Repository) DailyTotals(ctx context.Context, storeID uuid.UUID, since time.Time) ([]DailyTotal, error) {
	var totals []DailyTotal
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("DATE_TRUNC('day', order_date) AS day, SUM(total_amount) AS total").
		Where("store_id = ? AND order_date >= ?", storeID, since).
		Group("day").
		Order("day ASC").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}

// RevenueSince sums order totals from the given time onward.
func (r *Repository) RevenueSince(ctx context.Context, storeID uuid.UUID, since time.Time) (decimal.Decimal, error) {
	var total *decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("SUM(total_amount)").
		Where("store_id = ? AND order_date >= ?", storeID, since).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if total == nil {
		return decimal.Zero, nil
	}
	return *total, nil
}
