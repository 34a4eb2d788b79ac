package checkout

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ajdelacruz/saristore-backend/internal/cart"
	"github.com/ajdelacruz/saristore-backend/internal/catalog"
	"github.com/ajdelacruz/saristore-backend/internal/orders"
	"github.com/ajdelacruz/saristore-backend/pkg/db"
	"github.com/ajdelacruz/saristore-backend/pkg/db/models"
	"github.com/ajdelacruz/saristore-backend/pkg/enums"
	pkgerrors "github.com/ajdelacruz/saristore-backend/pkg/errors"
	"github.com/ajdelacruz/saristore-backend/pkg/metrics"
)

const defaultCustomerName = "Guest"

// txRunner runs a function inside a database transaction.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// cartAccess is the slice of the cart service checkout needs.
type cartAccess interface {
	Get(ctx context.Context, storeID uuid.UUID, sessionID string) (*cart.Cart, error)
	Clear(ctx context.Context, storeID uuid.UUID, sessionID string) error
}

// storeNotifier publishes order flags to the seller dashboard.
type storeNotifier interface {
	Notify(ctx context.Context, storeID uuid.UUID, kind enums.NotificationType, format string, args ...any) error
}

// Service turns guest carts into persisted orders.
type Service interface {
	Checkout(ctx context.Context, input Input) (*Receipt, error)
	Receipt(ctx context.Context, storeID, orderID uuid.UUID) (*Receipt, error)
}

type service struct {
	tx       txRunner
	carts    cartAccess
	items    *catalog.Repository
	orders   *orders.Repository
	notifier storeNotifier
	metrics  *metrics.CheckoutMetrics
}

// NewService wires checkout dependencies.
func NewService(tx txRunner, carts cartAccess, items *catalog.Repository, ordersRepo *orders.Repository, notifier storeNotifier, checkoutMetrics *metrics.CheckoutMetrics) (Service, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if carts == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "cart service required")
	}
	if items == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog repository required")
	}
	if ordersRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "orders repository required")
	}
	if notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifier required")
	}
	if checkoutMetrics == nil {
		checkoutMetrics = &metrics.CheckoutMetrics{}
	}
	return &service{
		tx:       tx,
		carts:    carts,
		items:    items,
		orders:   ordersRepo,
		notifier: notifier,
		metrics:  checkoutMetrics,
	}, nil
}

// Checkout converts the guest cart into an order. Stock decrements,
// the order row, and its lines all commit or roll back together, so a
// single short line leaves every item's stock untouched.
func (s *service) Checkout(ctx context.Context, input Input) (*Receipt, error) {
	if input.StoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	if strings.TrimSpace(input.CartSessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session id required")
	}
	customerName := strings.TrimSpace(input.CustomerName)
	if customerName == "" {
		customerName = defaultCustomerName
	}

	current, err := s.carts.Get(ctx, input.StoreID, input.CartSessionID)
	if err != nil {
		return nil, err
	}
	if len(current.Lines) == 0 {
		s.metrics.IncRejected(input.StoreID.String(), "empty_cart")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	var order *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		itemsRepo := s.items.WithTx(tx)

		total := decimal.Zero
		lines := make([]models.OrderLine, 0, len(current.Lines))
		for _, line := range current.Lines {
			item, err := itemsRepo.FindByID(ctx, input.StoreID, line.ItemID)
			if err != nil {
				if db.IsNotFound(err) {
					// The seller removed the item while it sat in the
					// cart. Skip the line rather than failing checkout.
					continue
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find item")
			}

			ok, err := itemsRepo.DecrementStock(ctx, input.StoreID, item.ID, line.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock").
					WithDetails(map[string]any{"item": item.Name, "requested": line.Quantity})
			}

			// Snapshot the live catalog values, not the cart copy.
			lines = append(lines, models.OrderLine{
				ItemName: item.Name,
				Quantity: line.Quantity,
				Price:    item.Price,
				Cost:     item.CostPrice,
			})
			total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}
		if len(lines) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart has no purchasable items")
		}

		code, err := generateOrderCode()
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order code")
		}
		order = &models.Order{
			StoreID:      input.StoreID,
			CustomerName: customerName,
			TotalAmount:  total,
			Status:       enums.OrderStatusPending,
			OrderCode:    code,
			OrderDate:    time.Now().UTC(),
			Lines:        lines,
		}
		if _, err := s.orders.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		return nil
	})
	if err != nil {
		if coded := pkgerrors.As(err); coded != nil && coded.Code() == pkgerrors.CodeInsufficientStock {
			s.metrics.IncRejected(input.StoreID.String(), "insufficient_stock")
		}
		return nil, err
	}

	// The order is committed at this point. Cart cleanup and the seller
	// flag must not fail the checkout.
	_ = s.carts.Clear(ctx, input.StoreID, input.CartSessionID)
	_ = s.notifier.Notify(ctx, input.StoreID, enums.NotificationTypeOrder, "New order %s from %s", order.OrderCode, customerName)
	s.metrics.IncCompleted(input.StoreID.String())

	return ReceiptFromOrder(order), nil
}

// Receipt fetches a committed order with its lines.
func (s *service) Receipt(ctx context.Context, storeID, orderID uuid.UUID) (*Receipt, error) {
	if storeID == uuid.Nil || orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id and order id required")
	}
	order, err := s.orders.FindByID(ctx, storeID, orderID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find order")
	}
	return ReceiptFromOrder(order), nil
}

// generateOrderCode produces a short customer-facing label. Collisions
// are tolerable, the code is a reference string, not a key.
func generateOrderCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("OR-%04d", n.Int64()), nil
}
