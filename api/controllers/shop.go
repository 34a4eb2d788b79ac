package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ajdelacruz/saristore-backend/api/responses"
	"github.com/ajdelacruz/saristore-backend/internal/storefront"
	pkgAuth "github.com/ajdelacruz/saristore-backend/pkg/auth"
	"github.com/ajdelacruz/saristore-backend/pkg/config"
	pkgerrors "github.com/ajdelacruz/saristore-backend/pkg/errors"
	"github.com/ajdelacruz/saristore-backend/pkg/logger"
)

// MarketplaceStores lists every store. Logged in sellers see their own
// store first, so the token is parsed when present but never required.
func MarketplaceStores(svc storefront.Service, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront service unavailable"))
			return
		}

		var viewerStoreID *uuid.UUID
		if token, err := parseBearerToken(r); err == nil {
			if claims, err := pkgAuth.ParseAccessToken(cfg, token); err == nil && claims.StoreID != nil {
				viewerStoreID = claims.StoreID
			}
		}

		result, err := svc.ListStores(r.Context(), viewerStoreID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"stores": result})
	}
}

// ShopCatalog serves one store's public catalog. A q parameter turns
// the request into a search scoped to the store, otherwise sort and
// price window parameters shape the listing.
func ShopCatalog(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront service unavailable"))
			return
		}

		storeID, err := pathUUID(r, "storeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if term := strings.TrimSpace(r.URL.Query().Get("q")); term != "" {
			query := storefront.SearchQuery{Term: term, StoreID: &storeID}
			if limitStr := strings.TrimSpace(r.URL.Query().Get("limit")); limitStr != "" {
				limit, convErr := strconv.Atoi(limitStr)
				if convErr != nil || limit < 1 {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a positive integer"))
					return
				}
				query.Limit = limit
			}
			items, err := svc.Search(r.Context(), query)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, map[string]any{"items": items})
			return
		}

		query := storefront.CatalogQuery{Sort: strings.TrimSpace(r.URL.Query().Get("sort"))}

		minPrice, err := priceParam(r, "min_price")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		query.MinPrice = minPrice

		maxPrice, err := priceParam(r, "max_price")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		query.MaxPrice = maxPrice

		page, err := svc.StoreCatalog(r.Context(), storeID, query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

// ShopSearchSuggestions returns name completions for the search box.
func ShopSearchSuggestions(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront service unavailable"))
			return
		}

		term := strings.TrimSpace(r.URL.Query().Get("term"))

		var storeID *uuid.UUID
		if raw := strings.TrimSpace(r.URL.Query().Get("store_id")); raw != "" {
			parsed, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store_id"))
				return
			}
			storeID = &parsed
		}

		names, err := svc.Suggest(r.Context(), term, storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"suggestions": names})
	}
}

// ShopItemLogo streams the raw image bytes for an item.
func ShopItemLogo(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront service unavailable"))
			return
		}

		itemID, err := pathUUID(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		data, contentType, err := svc.ItemLogo(r.Context(), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "public, max-age=300")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

func priceParam(r *http.Request, name string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, name+" must be a number")
	}
	if value.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, name+" cannot be negative")
	}
	return &value, nil
}
