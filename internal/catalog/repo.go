package catalog

import (
	"context"

	"github.com/ajdelacruz/saristore-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository exposes item persistence for the seller catalog.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repo bound to the provided GORM DB.
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

// Create inserts a new item row.
func (r *Repository) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Update persists the full item row.
func (r *Repository) Update(ctx context.Context, item *models.Item) (*models.Item, error) {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes an item scoped to its store.
func (r *Repository) Delete(ctx context.Context, storeID, itemID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND store_id = ?", itemID, storeID).
		Delete(&models.Item{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteMany removes the given items scoped to the store, returning how many went away.
func (r *Repository) DeleteMany(ctx context.Context, storeID uuid.UUID, itemIDs []uuid.UUID) (int64, error) {
	if len(itemIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Where("store_id = ? AND id IN ?", storeID, itemIDs).
		Delete(&models.Item{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// FindByID loads an item scoped to its store.
func (r *Repository) FindByID(ctx context.Context, storeID, itemID uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).
		First(&item, "id = ? AND store_id = ?", itemID, storeID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// ListByStore returns all items for a store in display order. Ties on
// position break on id so the order is stable.
func (r *Repository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.Item, error) {
	var items []models.Item
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("position ASC, id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// MaxPosition returns the highest position currently used by the store.
func (r *Repository) MaxPosition(ctx context.Context, storeID uuid.UUID) (int, error) {
	var max *int
	if err := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("store_id = ?", storeID).
		Select("MAX(position)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

// UpdatePosition writes a single item's position scoped to the store.
func (r *Repository) UpdatePosition(ctx context.Context, storeID, itemID uuid.UUID, position int) error {
	return r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ? AND store_id = ?", itemID, storeID).
		UpdateColumn("position", position).Error
}

// UpdateLogo replaces the stored image blob for an item.
func (r *Repository) UpdateLogo(ctx context.Context, storeID, itemID uuid.UUID, data []byte, contentType string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ? AND store_id = ?", itemID, storeID).
		UpdateColumns(map[string]any{
			"logo_data":         data,
			"logo_content_type": contentType,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ItemFilter narrows and orders a storefront catalog view.
type ItemFilter struct {
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	OrderBy  string
}

// orderClauses whitelists the sortable columns so the order key never
// reaches the SQL string unchecked.
var orderClauses = map[string]string{
	"":           "position ASC, id ASC",
	"position":   "position ASC, id ASC",
	"price_asc":  "price ASC, id ASC",
	"price_desc": "price DESC, id ASC",
	"name":       "name ASC, id ASC",
}

// ListByStoreFiltered returns the store's items for the storefront view.
func (r *Repository) ListByStoreFiltered(ctx context.Context, storeID uuid.UUID, filter ItemFilter) ([]models.Item, error) {
	clause, ok := orderClauses[filter.OrderBy]
	if !ok {
		clause = orderClauses[""]
	}

	query := r.db.WithContext(ctx).Where("store_id = ?", storeID)
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}

	var items []models.Item
	if err := query.Order(clause).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Search matches items by name or category substring, case-insensitive,
// across all stores or scoped to one.
func (r *Repository) Search(ctx context.Context, storeID *uuid.UUID, term string, limit int) ([]models.Item, error) {
	pattern := "%" + term + "%"
	query := r.db.WithContext(ctx).
		Where("name ILIKE ? OR category ILIKE ?", pattern, pattern)
	if storeID != nil {
		query = query.Where("store_id = ?", *storeID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var items []models.Item
	if err := query.Order("name ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// SuggestNames returns distinct item names starting with the prefix.
func (r *Repository) SuggestNames(ctx context.Context, storeID *uuid.UUID, prefix string, limit int) ([]string, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Distinct("name").
		Where("name ILIKE ?", prefix+"%")
	if storeID != nil {
		query = query.Where("store_id = ?", *storeID)
	}

	var names []string
	if err := query.Order("name ASC").Limit(limit).Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

// FindLogo loads just the image columns for one item. The storefront
// serves logos by item id alone, so this lookup is not store scoped.
func (r *Repository) FindLogo(ctx context.Context, itemID uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).
		Select("id", "store_id", "logo_data", "logo_content_type").
		First(&item, "id = ?", itemID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// DecrementStock reduces an item's quantity only when enough stock
// remains. It reports false when the guard rejects the write, which
// callers treat as an oversell attempt.
func (r *Repository) DecrementStock(ctx context.Context, storeID, itemID uuid.UUID, quantity int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ? AND store_id = ? AND quantity >= ?", itemID, storeID, quantity).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// CountByStore reports how many items the store carries.
func (r *Repository) CountByStore(ctx context.Context, storeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("store_id = ?", storeID).
		Count(&count).Error
	return count, err
}
