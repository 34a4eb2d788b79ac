package controllers

import (
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ajdelacruz/saristore-backend/api/responses"
	"github.com/ajdelacruz/saristore-backend/api/validators"
	"github.com/ajdelacruz/saristore-backend/internal/catalog"
	"github.com/ajdelacruz/saristore-backend/internal/insights"
	pkgerrors "github.com/ajdelacruz/saristore-backend/pkg/errors"
	"github.com/ajdelacruz/saristore-backend/pkg/logger"
)

// maxLogoBytes caps uploaded item images at 2 MiB.
const maxLogoBytes = 2 << 20

type createItemRequest struct {
	Name      string          `json:"name" validate:"required,min=1,max=120"`
	Category  string          `json:"category" validate:"omitempty,max=60"`
	Quantity  int             `json:"quantity" validate:"min=0"`
	Price     decimal.Decimal `json:"price"`
	CostPrice decimal.Decimal `json:"cost_price"`
}

type updateItemRequest struct {
	Name      *string          `json:"name" validate:"omitempty,min=1,max=120"`
	Category  *string          `json:"category" validate:"omitempty,max=60"`
	Quantity  *int             `json:"quantity" validate:"omitempty,min=0"`
	Price     *decimal.Decimal `json:"price"`
	CostPrice *decimal.Decimal `json:"cost_price"`
}

type swapItemsRequest struct {
	FirstID  string `json:"first_id" validate:"required,uuid"`
	SecondID string `json:"second_id" validate:"required,uuid"`
}

type massDeleteRequest struct {
	ItemIDs []string `json:"item_ids" validate:"required,min=1,dive,uuid"`
}

// DashboardListItems returns the seller's catalog in display order.
func DashboardListItems(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		storeID, err := storeIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.ListItems(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"items": items})
	}
}

// DashboardCreateItem adds a product at the end of the display order.
func DashboardCreateItem(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		storeID, err := storeIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if body.Price.IsNegative() || body.CostPrice.IsNegative() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "prices cannot be negative"))
			return
		}

		item, err := svc.CreateItem(r.Context(), storeID, catalog.CreateItemInput{
			Name:      body.Name,
			Category:  body.Category,
			Quantity:  body.Quantity,
			Price:     body.Price,
			CostPrice: body.CostPrice,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// DashboardUpdateItem applies a partial edit to one item.
func DashboardUpdateItem(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		storeID, err := storeIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := pathUUID(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if (body.Price != nil && body.Price.IsNegative()) ||
			(body.CostPrice != nil && body.CostPrice.IsNegative()) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "prices cannot be negative"))
			return
		}

		item, err := svc.UpdateItem(r.Context(), storeID, itemID, catalog.UpdateItemInput{
			Name:      body.Name,
			Category:  body.Category,
			Quantity:  body.Quantity,
			Price:     body.Price,
			CostPrice: body.CostPrice,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

// DashboardDeleteItem removes one item from the catalog.
func DashboardDeleteItem(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		storeID, err := storeIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := pathUUID(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteItem(r.Context(), storeID, itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// DashboardSwapItems exchanges the display positions of two items.
func DashboardSwapItems(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		storeID, err := storeIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body swapItemsRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		firstID, err := parseUUIDField(body.FirstID, "first_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		secondID, err := parseUUIDField(body.SecondID, "second_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SwapPositions(r.Context(), storeID, firstID, secondID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "swapped"})
	}
}

// DashboardReindexItems rewrites positions into a dense 1..n sequence.
func DashboardReindexItems(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		storeID, err := storeIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		count, err := svc.Reindex(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]int{"reindexed": count})
	}
}

// DashboardMassDeleteItems removes a batch of items in one call.
func DashboardMassDeleteItems(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		storeID, err := storeIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body massDeleteRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemIDs := make([]uuid.UUID, 0, len(body.ItemIDs))
		for _, raw := range body.ItemIDs {
			id, err := parseUUIDField(raw, "item_ids")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			itemIDs = append(itemIDs, id)
		}

		deleted, err := svc.MassDelete(r.Context(), storeID, itemIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]int64{"deleted": deleted})
	}
}

// DashboardSeedItems asks Sari for a starter Filipino sari-sari
// inventory and stores it.
func DashboardSeedItems(svc insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "insight service unavailable"))
			return
		}

		storeID, err := storeIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.SeedInventory(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"items": items})
	}
}

// DashboardUploadItemLogo stores an uploaded product image.
func DashboardUploadItemLogo(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		storeID, err := storeIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := pathUUID(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := r.ParseMultipartForm(maxLogoBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		file, header, err := r.FormFile("logo")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "logo file required"))
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxLogoBytes+1))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read logo file"))
			return
		}
		if len(data) > maxLogoBytes {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "logo exceeds the 2MB limit"))
			return
		}

		contentType := header.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "logo must be an image"))
			return
		}

		if err := svc.UploadLogo(r.Context(), storeID, itemID, catalog.LogoInput{
			Data:        data,
			ContentType: contentType,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "uploaded"})
	}
}
