package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/ajdelacruz/saristore-backend/pkg/db"
	"github.com/ajdelacruz/saristore-backend/pkg/db/models"
	"github.com/ajdelacruz/saristore-backend/pkg/enums"
	pkgerrors "github.com/ajdelacruz/saristore-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxLogoBytes = 2 << 20

// Service exposes seller catalog management with display-order bookkeeping.
type Service interface {
	CreateItem(ctx context.Context, storeID uuid.UUID, input CreateItemInput) (*ItemDTO, error)
	UpdateItem(ctx context.Context, storeID, itemID uuid.UUID, input UpdateItemInput) (*ItemDTO, error)
	DeleteItem(ctx context.Context, storeID, itemID uuid.UUID) error
	MassDelete(ctx context.Context, storeID uuid.UUID, itemIDs []uuid.UUID) (int64, error)
	GetItem(ctx context.Context, storeID, itemID uuid.UUID) (*ItemDTO, error)
	ListItems(ctx context.Context, storeID uuid.UUID) ([]ItemDTO, error)
	SwapPositions(ctx context.Context, storeID, firstID, secondID uuid.UUID) error
	Reindex(ctx context.Context, storeID uuid.UUID) (int, error)
	UploadLogo(ctx context.Context, storeID, itemID uuid.UUID, logo LogoInput) error
	GetLogo(ctx context.Context, storeID, itemID uuid.UUID) ([]byte, string, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

func (s *service) CreateItem(ctx context.Context, storeID uuid.UUID, input CreateItemInput) (*ItemDTO, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name required")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	if input.Price.IsNegative() || input.CostPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "prices cannot be negative")
	}
	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = enums.DefaultItemCategory
	}

	var created *models.Item
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		// New items always land at the end of the display order.
		max, err := repo.MaxPosition(ctx, storeID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve max position")
		}

		item := &models.Item{
			StoreID:   storeID,
			Name:      name,
			Category:  category,
			Quantity:  input.Quantity,
			Price:     input.Price,
			CostPrice: input.CostPrice,
			Position:  max + 1,
		}
		created, err = repo.Create(ctx, item)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create item")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ItemFromModel(created), nil
}

func (s *service) UpdateItem(ctx context.Context, storeID, itemID uuid.UUID, input UpdateItemInput) (*ItemDTO, error) {
	item, err := s.loadItem(ctx, storeID, itemID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name cannot be empty")
		}
		item.Name = name
	}
	if input.Category != nil {
		category := strings.TrimSpace(*input.Category)
		if category == "" {
			category = enums.DefaultItemCategory
		}
		item.Category = category
	}
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
		}
		item.Quantity = *input.Quantity
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		item.Price = *input.Price
	}
	if input.CostPrice != nil {
		if input.CostPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cost price cannot be negative")
		}
		item.CostPrice = *input.CostPrice
	}

	updated, err := s.repo.Update(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update item")
	}
	return ItemFromModel(updated), nil
}

// DeleteItem removes an item and leaves a gap in the display order.
// Gaps stay until the seller runs an explicit Reindex.
func (s *service) DeleteItem(ctx context.Context, storeID, itemID uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, storeID, itemID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete item")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	return nil
}

// MassDelete removes the given items, leaving display-order gaps like
// DeleteItem does.
func (s *service) MassDelete(ctx context.Context, storeID uuid.UUID, itemIDs []uuid.UUID) (int64, error) {
	if len(itemIDs) == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "no item ids provided")
	}

	removed, err := s.repo.DeleteMany(ctx, storeID, itemIDs)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete items")
	}
	return removed, nil
}

func (s *service) GetItem(ctx context.Context, storeID, itemID uuid.UUID) (*ItemDTO, error) {
	item, err := s.loadItem(ctx, storeID, itemID)
	if err != nil {
		return nil, err
	}
	return ItemFromModel(item), nil
}

func (s *service) ListItems(ctx context.Context, storeID uuid.UUID) ([]ItemDTO, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	rows, err := s.repo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}
	return ItemsFromModels(rows), nil
}

// SwapPositions exchanges the display positions of two items. Both items
// must belong to the same store; a swap touching another tenant's row is
// rejected before any write happens.
func (s *service) SwapPositions(ctx context.Context, storeID, firstID, secondID uuid.UUID) error {
	if firstID == secondID {
		return pkgerrors.New(pkgerrors.CodeValidation, "cannot swap an item with itself")
	}

	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		first, err := repo.FindByID(ctx, storeID, firstID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load first item")
		}
		second, err := repo.FindByID(ctx, storeID, secondID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load second item")
		}

		if err := repo.UpdatePosition(ctx, storeID, first.ID, second.Position); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write first position")
		}
		if err := repo.UpdatePosition(ctx, storeID, second.ID, first.Position); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write second position")
		}
		return nil
	})
}

// Reindex rewrites the store's display order to a dense 1..N sequence,
// ordering by (position, id) and touching only rows whose position
// actually changes. Returns the number of rewritten rows.
func (s *service) Reindex(ctx context.Context, storeID uuid.UUID) (int, error) {
	if storeID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}

	var changed int
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		changed, err = reindexStore(ctx, s.repo.WithTx(tx), storeID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return changed, nil
}

func (s *service) UploadLogo(ctx context.Context, storeID, itemID uuid.UUID, logo LogoInput) error {
	if len(logo.Data) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "logo data required")
	}
	if len(logo.Data) > maxLogoBytes {
		return pkgerrors.New(pkgerrors.CodeValidation, "logo exceeds maximum size")
	}
	contentType := strings.TrimSpace(logo.ContentType)
	if !strings.HasPrefix(contentType, "image/") {
		return pkgerrors.New(pkgerrors.CodeValidation, "logo must be an image")
	}

	updated, err := s.repo.UpdateLogo(ctx, storeID, itemID, logo.Data, contentType)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store logo")
	}
	if !updated {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	return nil
}

func (s *service) GetLogo(ctx context.Context, storeID, itemID uuid.UUID) ([]byte, string, error) {
	item, err := s.loadItem(ctx, storeID, itemID)
	if err != nil {
		return nil, "", err
	}
	if len(item.LogoData) == 0 {
		return nil, "", pkgerrors.New(pkgerrors.CodeNotFound, "item has no logo")
	}
	contentType := "application/octet-stream"
	if item.LogoContentType != nil && *item.LogoContentType != "" {
		contentType = *item.LogoContentType
	}
	return item.LogoData, contentType, nil
}

func (s *service) loadItem(ctx context.Context, storeID, itemID uuid.UUID) (*models.Item, error) {
	if storeID == uuid.Nil || itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store and item ids required")
	}
	item, err := s.repo.FindByID(ctx, storeID, itemID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	return item, nil
}

func reindexStore(ctx context.Context, repo *Repository, storeID uuid.UUID) (int, error) {
	items, err := repo.ListByStore(ctx, storeID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items for reindex")
	}

	changed := 0
	for i := range items {
		want := i + 1
		if items[i].Position == want {
			continue
		}
		if err := repo.UpdatePosition(ctx, storeID, items[i].ID, want); err != nil {
			return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rewrite position")
		}
		changed++
	}
	return changed, nil
}
