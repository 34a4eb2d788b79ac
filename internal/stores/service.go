package stores

import (
	"context"
	"regexp"
	"strings"

	"github.com/ajdelacruz/saristore-backend/pkg/db"
	pkgerrors "github.com/ajdelacruz/saristore-backend/pkg/errors"
	"github.com/google/uuid"
)

var themeColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Service exposes seller-facing store profile operations.
type Service interface {
	GetByOwner(ctx context.Context, ownerID uuid.UUID) (*StoreDTO, error)
	EnsureForOwner(ctx context.Context, ownerID uuid.UUID, username string) (*StoreDTO, error)
	UpdateProfile(ctx context.Context, ownerID uuid.UUID, input UpdateProfileInput) (*StoreDTO, error)
}

// UpdateProfileInput carries optional profile mutations.
type UpdateProfileInput struct {
	Name        *string
	Description *string
	ThemeColor  *string
}

type service struct {
	repo *Repository
}

// NewService constructs a stores service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "stores repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*StoreDTO, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id required")
	}
	store, err := s.repo.FindByOwnerID(ctx, ownerID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	return FromModel(store), nil
}

// EnsureForOwner returns the owner's store, creating a default one on
// the first dashboard visit.
func (s *service) EnsureForOwner(ctx context.Context, ownerID uuid.UUID, username string) (*StoreDTO, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id required")
	}
	store, err := s.repo.FindByOwnerID(ctx, ownerID)
	if err == nil {
		return FromModel(store), nil
	}
	if !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}

	name := strings.TrimSpace(username)
	if name == "" {
		name = "My"
	}
	created, err := s.repo.Create(ctx, CreateStoreDTO{
		OwnerID: ownerID,
		Name:    name + "'s Store",
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create store")
	}
	return FromModel(created), nil
}

func (s *service) UpdateProfile(ctx context.Context, ownerID uuid.UUID, input UpdateProfileInput) (*StoreDTO, error) {
	store, err := s.repo.FindByOwnerID(ctx, ownerID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}

	name := store.Name
	if input.Name != nil {
		name = strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name cannot be empty")
		}
	}
	description := store.Description
	if input.Description != nil {
		description = strings.TrimSpace(*input.Description)
	}
	theme := store.ThemeColor
	if input.ThemeColor != nil {
		theme = strings.TrimSpace(*input.ThemeColor)
		if !themeColorRe.MatchString(theme) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "theme color must be a #rrggbb value")
		}
	}

	if err := s.repo.UpdateProfile(ctx, store.ID, name, description, theme); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update store profile")
	}

	store.Name = name
	store.Description = description
	store.ThemeColor = theme
	return FromModel(store), nil
}
