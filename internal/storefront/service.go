package storefront

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ajdelacruz/saristore-backend/internal/catalog"
	"github.com/ajdelacruz/saristore-backend/internal/stores"
	"github.com/ajdelacruz/saristore-backend/pkg/db"
	pkgerrors "github.com/ajdelacruz/saristore-backend/pkg/errors"
)

const (
	defaultSearchLimit = 50
	suggestionLimit    = 5
)

// CatalogQuery narrows a public store catalog view.
type CatalogQuery struct {
	Sort     string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// SearchQuery matches items across the marketplace or one store.
type SearchQuery struct {
	Term    string
	StoreID *uuid.UUID
	Limit   int
}

// StorePage bundles the store profile with its visible catalog.
type StorePage struct {
	Store *stores.StoreDTO  `json:"store"`
	Items []catalog.ItemDTO `json:"items"`
}

// Service exposes the customer-facing browse surface.
type Service interface {
	ListStores(ctx context.Context, viewerStoreID *uuid.UUID) ([]stores.StoreDTO, error)
	StoreCatalog(ctx context.Context, storeID uuid.UUID, query CatalogQuery) (*StorePage, error)
	Search(ctx context.Context, query SearchQuery) ([]catalog.ItemDTO, error)
	Suggest(ctx context.Context, term string, storeID *uuid.UUID) ([]string, error)
	ItemLogo(ctx context.Context, itemID uuid.UUID) ([]byte, string, error)
}

type service struct {
	items  *catalog.Repository
	stores *stores.Repository
}

// NewService wires storefront dependencies.
func NewService(items *catalog.Repository, storesRepo *stores.Repository) (Service, error) {
	if items == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog repository required")
	}
	if storesRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "stores repository required")
	}
	return &service{items: items, stores: storesRepo}, nil
}

// ListStores returns every store in the marketplace. When the viewer
// owns one of them it is moved to the front of the list.
func (s *service) ListStores(ctx context.Context, viewerStoreID *uuid.UUID) ([]stores.StoreDTO, error) {
	rows, err := s.stores.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stores")
	}

	out := make([]stores.StoreDTO, 0, len(rows))
	for i := range rows {
		dto := stores.FromModel(&rows[i])
		if viewerStoreID != nil && dto.ID == *viewerStoreID {
			out = append([]stores.StoreDTO{*dto}, out...)
			continue
		}
		out = append(out, *dto)
	}
	return out, nil
}

func (s *service) StoreCatalog(ctx context.Context, storeID uuid.UUID, query CatalogQuery) (*StorePage, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	if query.MinPrice != nil && query.MaxPrice != nil && query.MinPrice.GreaterThan(*query.MaxPrice) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min price exceeds max price")
	}

	store, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find store")
	}

	rows, err := s.items.ListByStoreFiltered(ctx, storeID, catalog.ItemFilter{
		MinPrice: query.MinPrice,
		MaxPrice: query.MaxPrice,
		OrderBy:  strings.TrimSpace(query.Sort),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}

	return &StorePage{
		Store: stores.FromModel(store),
		Items: catalog.ItemsFromModels(rows),
	}, nil
}

func (s *service) Search(ctx context.Context, query SearchQuery) ([]catalog.ItemDTO, error) {
	term := strings.TrimSpace(query.Term)
	if term == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "search term required")
	}
	limit := query.Limit
	if limit <= 0 || limit > defaultSearchLimit {
		limit = defaultSearchLimit
	}

	rows, err := s.items.Search(ctx, query.StoreID, term, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search items")
	}
	return catalog.ItemsFromModels(rows), nil
}

func (s *service) Suggest(ctx context.Context, term string, storeID *uuid.UUID) ([]string, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []string{}, nil
	}

	names, err := s.items.SuggestNames(ctx, storeID, term, suggestionLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "suggest items")
	}
	return names, nil
}

// ItemLogo serves the stored image for one item regardless of owner.
func (s *service) ItemLogo(ctx context.Context, itemID uuid.UUID) ([]byte, string, error) {
	if itemID == uuid.Nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}

	item, err := s.items.FindLogo(ctx, itemID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, "", pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item logo")
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
