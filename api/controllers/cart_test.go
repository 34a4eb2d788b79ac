package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/ajdelacruz/saristore-backend/api/middleware"
	"github.com/ajdelacruz/saristore-backend/internal/cart"
	pkgerrors "github.com/ajdelacruz/saristore-backend/pkg/errors"
)

type testCartService struct {
	getFn    func(ctx context.Context, storeID uuid.UUID, sessionID string) (*cart.Cart, error)
	addFn    func(ctx context.Context, storeID uuid.UUID, sessionID string, itemID uuid.UUID, quantity int) (*cart.Cart, error)
	updateFn func(ctx context.Context, storeID uuid.UUID, sessionID string, itemID uuid.UUID, quantity int) (*cart.Cart, error)
	removeFn func(ctx context.Context, storeID uuid.UUID, sessionID string, itemID uuid.UUID) (*cart.Cart, error)
	clearFn  func(ctx context.Context, storeID uuid.UUID, sessionID string) error
}

func (s *testCartService) Get(ctx context.Context, storeID uuid.UUID, sessionID string) (*cart.Cart, error) {
	if s.getFn != nil {
		return s.getFn(ctx, storeID, sessionID)
	}
	return &cart.Cart{StoreID: storeID, SessionID: sessionID}, nil
}

func (s *testCartService) AddItem(ctx context.Context, storeID uuid.UUID, sessionID string, itemID uuid.UUID, quantity int) (*cart.Cart, error) {
	if s.addFn != nil {
		return s.addFn(ctx, storeID, sessionID, itemID, quantity)
	}
	return &cart.Cart{StoreID: storeID, SessionID: sessionID}, nil
}

func (s *testCartService) UpdateQuantity(ctx context.Context, storeID uuid.UUID, sessionID string, itemID uuid.UUID, quantity int) (*cart.Cart, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, storeID, sessionID, itemID, quantity)
	}
	return &cart.Cart{StoreID: storeID, SessionID: sessionID}, nil
}

func (s *testCartService) RemoveItem(ctx context.Context, storeID uuid.UUID, sessionID string, itemID uuid.UUID) (*cart.Cart, error) {
	if s.removeFn != nil {
		return s.removeFn(ctx, storeID, sessionID, itemID)
	}
	return &cart.Cart{StoreID: storeID, SessionID: sessionID}, nil
}

func (s *testCartService) Clear(ctx context.Context, storeID uuid.UUID, sessionID string) error {
	if s.clearFn != nil {
		return s.clearFn(ctx, storeID, sessionID)
	}
	return nil
}

func cartRequest(method, path, body string, storeID uuid.UUID, sessionID string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req = req.WithContext(middleware.WithCartSession(req.Context(), sessionID))
	}
	return addRouteParam(req, "storeID", storeID.String())
}

func TestCartAddItem(t *testing.T) {
	storeID := uuid.New()
	itemID := uuid.New()
	var gotQuantity int
	svc := &testCartService{
		addFn: func(ctx context.Context, sid uuid.UUID, sessionID string, iid uuid.UUID, quantity int) (*cart.Cart, error) {
			if sid != storeID || iid != itemID {
				t.Fatalf("unexpected ids %s %s", sid, iid)
			}
			gotQuantity = quantity
			return &cart.Cart{StoreID: sid, SessionID: sessionID}, nil
		},
	}

	body := `{"item_id":"` + itemID.String() + `","quantity":3}`
	req := cartRequest(http.MethodPost, "/api/v1/shop/"+storeID.String()+"/cart/items", body, storeID, "sess-1")
	resp := httptest.NewRecorder()
	CartAddItem(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if gotQuantity != 3 {
		t.Fatalf("unexpected quantity %d", gotQuantity)
	}
}

func TestCartAddItemMissingSession(t *testing.T) {
	storeID := uuid.New()
	body := `{"item_id":"` + uuid.NewString() + `","quantity":1}`
	req := cartRequest(http.MethodPost, "/api/v1/shop/"+storeID.String()+"/cart/items", body, storeID, "")
	resp := httptest.NewRecorder()
	CartAddItem(&testCartService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartAddItemZeroQuantityReachesService(t *testing.T) {
	storeID := uuid.New()
	gotQuantity := -1
	svc := &testCartService{
		addFn: func(ctx context.Context, sid uuid.UUID, sessionID string, iid uuid.UUID, quantity int) (*cart.Cart, error) {
			gotQuantity = quantity
			return &cart.Cart{StoreID: sid, SessionID: sessionID}, nil
		},
	}
	body := `{"item_id":"` + uuid.NewString() + `","quantity":0}`
	req := cartRequest(http.MethodPost, "/api/v1/shop/"+storeID.String()+"/cart/items", body, storeID, "sess-1")
	resp := httptest.NewRecorder()
	CartAddItem(svc, testLogger())(resp, req)
	// The service clamps to one unit; the edge does not reject.
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if gotQuantity != 0 {
		t.Fatalf("expected raw quantity 0 passed through, got %d", gotQuantity)
	}
}

func TestCartAddItemInsufficientStock(t *testing.T) {
	storeID := uuid.New()
	svc := &testCartService{
		addFn: func(ctx context.Context, sid uuid.UUID, sessionID string, iid uuid.UUID, quantity int) (*cart.Cart, error) {
			return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "only 2 left")
		},
	}

	body := `{"item_id":"` + uuid.NewString() + `","quantity":5}`
	req := cartRequest(http.MethodPost, "/api/v1/shop/"+storeID.String()+"/cart/items", body, storeID, "sess-1")
	resp := httptest.NewRecorder()
	CartAddItem(svc, testLogger())(resp, req)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}

func TestCartUpdateItemZeroRemoves(t *testing.T) {
	storeID := uuid.New()
	itemID := uuid.New()
	var gotQuantity = -1
	svc := &testCartService{
		updateFn: func(ctx context.Context, sid uuid.UUID, sessionID string, iid uuid.UUID, quantity int) (*cart.Cart, error) {
			gotQuantity = quantity
			return &cart.Cart{StoreID: sid, SessionID: sessionID}, nil
		},
	}

	req := cartRequest(http.MethodPatch, "/api/v1/shop/"+storeID.String()+"/cart/items/"+itemID.String(), `{"quantity":0}`, storeID, "sess-1")
	req = addRouteParam(req, "itemID", itemID.String())
	resp := httptest.NewRecorder()
	CartUpdateItem(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if gotQuantity != 0 {
		t.Fatalf("unexpected quantity %d", gotQuantity)
	}
}

func TestCartClear(t *testing.T) {
	storeID := uuid.New()
	called := false
	svc := &testCartService{
		clearFn: func(ctx context.Context, sid uuid.UUID, sessionID string) error {
			called = true
			return nil
		},
	}

	req := cartRequest(http.MethodDelete, "/api/v1/shop/"+storeID.String()+"/cart", "", storeID, "sess-1")
	resp := httptest.NewRecorder()
	CartClear(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if !called {
		t.Fatal("expected clear called")
	}
}
