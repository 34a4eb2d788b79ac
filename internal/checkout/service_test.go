package checkout

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ajdelacruz/saristore-backend/internal/cart"
	"github.com/ajdelacruz/saristore-backend/internal/catalog"
	"github.com/ajdelacruz/saristore-backend/internal/orders"
	"github.com/ajdelacruz/saristore-backend/pkg/db/models"
	"github.com/ajdelacruz/saristore-backend/pkg/enums"
	pkgerrors "github.com/ajdelacruz/saristore-backend/pkg/errors"
)

type recordingNotifier struct {
	messages []string
}

func (r *recordingNotifier) Notify(_ context.Context, _ uuid.UUID, _ enums.NotificationType, format string, _ ...any) error {
	r.messages = append(r.messages, format)
	return nil
}

type noopTxRunner struct{}

func (noopTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func emptyCartAccess(storeID uuid.UUID, sessionID string) *staticCart {
	return &staticCart{cart: &cart.Cart{StoreID: storeID, SessionID: sessionID}}
}

func TestCheckoutValidation(t *testing.T) {
	storeID := uuid.New()
	svc, err := NewService(noopTxRunner{}, emptyCartAccess(storeID, "sess"), catalog.NewRepository(nil), orders.NewRepository(nil), &recordingNotifier{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Checkout(context.Background(), Input{CartSessionID: "sess"})
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing store id, got %v", err)
	}

	_, err = svc.Checkout(context.Background(), Input{StoreID: storeID})
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing session id, got %v", err)
	}

	_, err = svc.Checkout(context.Background(), Input{StoreID: storeID, CartSessionID: "sess"})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty cart, got %v", err)
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	if _, err := NewService(nil, emptyCartAccess(uuid.New(), "s"), catalog.NewRepository(nil), orders.NewRepository(nil), &recordingNotifier{}, nil); err == nil {
		t.Fatal("expected error for nil tx runner")
	}
	if _, err := NewService(noopTxRunner{}, nil, catalog.NewRepository(nil), orders.NewRepository(nil), &recordingNotifier{}, nil); err == nil {
		t.Fatal("expected error for nil cart service")
	}
	if _, err := NewService(noopTxRunner{}, emptyCartAccess(uuid.New(), "s"), catalog.NewRepository(nil), orders.NewRepository(nil), nil, nil); err == nil {
		t.Fatal("expected error for nil notifier")
	}
}

func TestGenerateOrderCode(t *testing.T) {
	pattern := regexp.MustCompile(`^OR-\d{4}$`)
	for i := 0; i < 20; i++ {
		code, err := generateOrderCode()
		if err != nil {
			t.Fatalf("generate code: %v", err)
		}
		if !pattern.MatchString(code) {
			t.Fatalf("unexpected code %q", code)
		}
	}
}

func TestReceiptFromOrder(t *testing.T) {
	now := time.Now().UTC()
	order := &models.Order{
		ID:           uuid.New(),
		CustomerName: "Guest",
		TotalAmount:  decimal.NewFromInt(104),
		Status:       enums.OrderStatusPending,
		OrderCode:    "OR-0042",
		OrderDate:    now,
		Lines: []models.OrderLine{
			{ItemName: "Rice 1kg", Quantity: 2, Price: decimal.NewFromInt(52), Cost: decimal.NewFromInt(47)},
		},
	}

	receipt := ReceiptFromOrder(order)
	if receipt.OrderCode != "OR-0042" || receipt.Status != enums.OrderStatusPending {
		t.Fatalf("unexpected receipt header: %+v", receipt)
	}
	if len(receipt.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(receipt.Lines))
	}
	if !receipt.Lines[0].Total.Equal(decimal.NewFromInt(104)) {
		t.Fatalf("expected line total 104, got %s", receipt.Lines[0].Total)
	}
}
