package stores

import (
	"context"

	"github.com/ajdelacruz/saristore-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Repository exposes store persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a stores repo bound to the provided GORM DB.
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

// Create inserts a new store and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateStoreDTO) (*models.Store, error) {
	store := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(store).Error; err != nil {
		return nil, err
	}
	return store, nil
}

// FindByID loads a store by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).First(&store, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// FindByOwnerID loads the store owned by the provided user.
func (r *Repository) FindByOwnerID(ctx context.Context, ownerID uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).First(&store, "owner_id = ?", ownerID).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// ListAll returns every store ordered by name for the marketplace page.
func (r *Repository) ListAll(ctx context.Context) ([]models.Store, error) {
	var stores []models.Store
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// UpdateProfile overwrites the presentational fields of a store.
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, name, description, themeColor string) error {
	return r.db.WithContext(ctx).
		Model(&models.Store{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"name":        name,
			"description": description,
			"theme_color": themeColor,
		}).Error
}

// SaveReportCache persists the latest AI forecast snapshot on the store row.
func (r *Repository) SaveReportCache(ctx context.Context, id uuid.UUID, cache ReportCache) error {
	return r.db.WithContext(ctx).
		Model(&models.Store{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"report_forecast":     cache.Forecast,
			"report_holiday_note": cache.HolidayNote,
			"report_tips":         pq.StringArray(cache.Tips),
			"report_revenue":      cache.Revenue,
			"report_generated_at": cache.GeneratedAt,
		}).Error
}

// ClearReportCache wipes the cached forecast, forcing the next report to regenerate.
func (r *Repository) ClearReportCache(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Store{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"report_forecast":     nil,
			"report_holiday_note": nil,
			"report_tips":         nil,
			"report_revenue":      nil,
			"report_generated_at": nil,
		}).Error
}
