package cart

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/ajdelacruz/saristore-backend/pkg/db"
	"github.com/ajdelacruz/saristore-backend/pkg/db/models"
	"github.com/ajdelacruz/saristore-backend/pkg/enums"
	pkgerrors "github.com/ajdelacruz/saristore-backend/pkg/errors"
)

// cartStore persists and retrieves guest carts.
type cartStore interface {
	Load(ctx context.Context, storeID uuid.UUID, sessionID string) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
	Delete(ctx context.Context, storeID uuid.UUID, sessionID string) error
}

// itemLoader resolves catalog items within their store.
type itemLoader interface {
	FindByID(ctx context.Context, storeID, itemID uuid.UUID) (*models.Item, error)
}

// storeNotifier publishes activity flags to the seller dashboard.
type storeNotifier interface {
	Notify(ctx context.Context, storeID uuid.UUID, kind enums.NotificationType, format string, args ...any) error
}

// Service defines guest cart operations.
type Service interface {
	Get(ctx context.Context, storeID uuid.UUID, sessionID string) (*Cart, error)
	AddItem(ctx context.Context, storeID uuid.UUID, sessionID string, itemID uuid.UUID, quantity int) (*Cart, error)
	UpdateQuantity(ctx context.Context, storeID uuid.UUID, sessionID string, itemID uuid.UUID, quantity int) (*Cart, error)
	RemoveItem(ctx context.Context, storeID uuid.UUID, sessionID string, itemID uuid.UUID) (*Cart, error)
	Clear(ctx context.Context, storeID uuid.UUID, sessionID string) error
}

type service struct {
	store    cartStore
	items    itemLoader
	notifier storeNotifier
}

// NewService wires cart dependencies.
func NewService(store cartStore, items itemLoader, notifier storeNotifier) (Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "cart store required")
	}
	if items == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "item loader required")
	}
	if notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifier required")
	}
	return &service{store: store, items: items, notifier: notifier}, nil
}

// Get returns the cart as the shopper should see it right now: every
// stored line is resolved against the live catalog, lines whose item
// has vanished are dropped from the view, and name/price come from the
// catalog row. The stored cart is not pruned; a vanished line only
// disappears from the returned copy.
func (s *service) Get(ctx context.Context, storeID uuid.UUID, sessionID string) (*Cart, error) {
	if err := validateSession(storeID, sessionID); err != nil {
		return nil, err
	}
	stored, err := s.store.Load(ctx, storeID, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	view := &Cart{
		StoreID:   stored.StoreID,
		SessionID: stored.SessionID,
		UpdatedAt: stored.UpdatedAt,
	}
	for _, line := range stored.Lines {
		item, err := s.items.FindByID(ctx, storeID, line.ItemID)
		if err != nil {
			if db.IsNotFound(err) {
				continue
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve cart line")
		}
		line.Name = item.Name
		line.Price = item.Price
		view.Lines = append(view.Lines, line)
	}
	return view, nil
}

func (s *service) AddItem(ctx context.Context, storeID uuid.UUID, sessionID string, itemID uuid.UUID, quantity int) (*Cart, error) {
	if err := validateSession(storeID, sessionID); err != nil {
		return nil, err
	}
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	// Adding always means at least one unit.
	if quantity < 1 {
		quantity = 1
	}

	item, err := s.items.FindByID(ctx, storeID, itemID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find item")
	}

	cart, err := s.store.Load(ctx, storeID, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	wanted := quantity
	idx := cart.lineIndex(itemID)
	if idx >= 0 {
		wanted += cart.Lines[idx].Quantity
	}
	if wanted > item.Quantity {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock").
			WithDetails(map[string]any{"item": item.Name, "available": item.Quantity})
	}

	// Price and name are snapshotted at add time so the cart stays
	// consistent even if the seller edits the item afterwards.
	if idx >= 0 {
		cart.Lines[idx].Quantity = wanted
		cart.Lines[idx].Name = item.Name
		cart.Lines[idx].Price = item.Price
	} else {
		cart.Lines = append(cart.Lines, Line{
			ItemID:   item.ID,
			Name:     item.Name,
			Quantity: quantity,
			Price:    item.Price,
		})
	}

	if err := s.store.Save(ctx, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	// Cart activity flags are best effort.
	_ = s.notifier.Notify(ctx, storeID, enums.NotificationTypeCart, "A shopper added %s to their cart", item.Name)
	return cart, nil
}

func (s *service) UpdateQuantity(ctx context.Context, storeID uuid.UUID, sessionID string, itemID uuid.UUID, quantity int) (*Cart, error) {
	if err := validateSession(storeID, sessionID); err != nil {
		return nil, err
	}
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	if quantity == 0 {
		return s.RemoveItem(ctx, storeID, sessionID, itemID)
	}

	cart, err := s.store.Load(ctx, storeID, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	idx := cart.lineIndex(itemID)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart")
	}

	item, err := s.items.FindByID(ctx, storeID, itemID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find item")
	}
	if quantity > item.Quantity {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock").
			WithDetails(map[string]any{"item": item.Name, "available": item.Quantity})
	}

	cart.Lines[idx].Quantity = quantity
	cart.Lines[idx].Price = item.Price
	if err := s.store.Save(ctx, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return cart, nil
}

func (s *service) RemoveItem(ctx context.Context, storeID uuid.UUID, sessionID string, itemID uuid.UUID) (*Cart, error) {
	if err := validateSession(storeID, sessionID); err != nil {
		return nil, err
	}
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}

	cart, err := s.store.Load(ctx, storeID, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	idx := cart.lineIndex(itemID)
	if idx < 0 {
		return cart, nil
	}
	cart.Lines = append(cart.Lines[:idx], cart.Lines[idx+1:]...)

	if len(cart.Lines) == 0 {
		if err := s.store.Delete(ctx, storeID, sessionID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart")
		}
		return cart, nil
	}
	if err := s.store.Save(ctx, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return cart, nil
}

func (s *service) Clear(ctx context.Context, storeID uuid.UUID, sessionID string) error {
	if err := validateSession(storeID, sessionID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, storeID, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart")
	}
	return nil
}

func validateSession(storeID uuid.UUID, sessionID string) error {
	if storeID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart session id required")
	}
	return nil
}
