package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/ajdelacruz/saristore-backend/api/responses"
	"github.com/ajdelacruz/saristore-backend/api/validators"
	"github.com/ajdelacruz/saristore-backend/internal/stores"
	"github.com/ajdelacruz/saristore-backend/pkg/db/models"
	pkgerrors "github.com/ajdelacruz/saristore-backend/pkg/errors"
	"github.com/ajdelacruz/saristore-backend/pkg/logger"
)

type ownerLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type updateStoreRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=80"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	ThemeColor  *string `json:"theme_color" validate:"omitempty,hexcolor"`
}

// DashboardHome returns the seller's store, creating a default one on
// first visit.
func DashboardHome(svc stores.Service, users ownerLookup, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || users == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store service unavailable"))
			return
		}

		userID, err := userIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := users.FindByID(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "load user"))
			return
		}

		store, err := svc.EnsureForOwner(r.Context(), userID, user.Username)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, store)
	}
}

// DashboardUpdateStore changes the seller's store profile.
func DashboardUpdateStore(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store service unavailable"))
			return
		}

		userID, err := userIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateStoreRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := svc.UpdateProfile(r.Context(), userID, stores.UpdateProfileInput{
			Name:        body.Name,
			Description: body.Description,
			ThemeColor:  body.ThemeColor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, store)
	}
}
