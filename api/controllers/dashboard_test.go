package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/ajdelacruz/saristore-backend/api/middleware"
	"github.com/ajdelacruz/saristore-backend/internal/stores"
	"github.com/ajdelacruz/saristore-backend/pkg/db/models"
)

type testStoreService struct {
	getFn    func(ctx context.Context, ownerID uuid.UUID) (*stores.StoreDTO, error)
	ensureFn func(ctx context.Context, ownerID uuid.UUID, username string) (*stores.StoreDTO, error)
	updateFn func(ctx context.Context, ownerID uuid.UUID, input stores.UpdateProfileInput) (*stores.StoreDTO, error)
}

func (s *testStoreService) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*stores.StoreDTO, error) {
	if s.getFn != nil {
		return s.getFn(ctx, ownerID)
	}
	return &stores.StoreDTO{}, nil
}

func (s *testStoreService) EnsureForOwner(ctx context.Context, ownerID uuid.UUID, username string) (*stores.StoreDTO, error) {
	if s.ensureFn != nil {
		return s.ensureFn(ctx, ownerID, username)
	}
	return &stores.StoreDTO{}, nil
}

func (s *testStoreService) UpdateProfile(ctx context.Context, ownerID uuid.UUID, input stores.UpdateProfileInput) (*stores.StoreDTO, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, ownerID, input)
	}
	return &stores.StoreDTO{}, nil
}

type testOwnerLookup struct {
	user *models.User
	err  error
}

func (l *testOwnerLookup) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return l.user, l.err
}

func TestDashboardHomeEnsuresStore(t *testing.T) {
	userID := uuid.New()
	storeID := uuid.New()
	svc := &testStoreService{
		ensureFn: func(ctx context.Context, ownerID uuid.UUID, username string) (*stores.StoreDTO, error) {
			if ownerID != userID {
				t.Fatalf("unexpected owner %s", ownerID)
			}
			if username != "aling.nena" {
				t.Fatalf("unexpected username %q", username)
			}
			return &stores.StoreDTO{ID: storeID, Name: "aling.nena's Store"}, nil
		},
	}
	users := &testOwnerLookup{user: &models.User{Username: "aling.nena"}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	resp := httptest.NewRecorder()
	DashboardHome(svc, users, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	var store stores.StoreDTO
	decodeData(t, resp, &store)
	if store.ID != storeID {
		t.Fatalf("unexpected store %s", store.ID)
	}
}

func TestDashboardHomeRequiresUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	resp := httptest.NewRecorder()
	DashboardHome(&testStoreService{}, &testOwnerLookup{}, testLogger())(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestDashboardUpdateStore(t *testing.T) {
	userID := uuid.New()
	var got stores.UpdateProfileInput
	svc := &testStoreService{
		updateFn: func(ctx context.Context, ownerID uuid.UUID, input stores.UpdateProfileInput) (*stores.StoreDTO, error) {
			got = input
			return &stores.StoreDTO{Name: "Nena's Tindahan"}, nil
		},
	}

	body := `{"name":"Nena's Tindahan","theme_color":"#ff6600"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/dashboard/store", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	resp := httptest.NewRecorder()
	DashboardUpdateStore(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if got.Name == nil || *got.Name != "Nena's Tindahan" {
		t.Fatalf("name not mapped: %v", got.Name)
	}
	if got.ThemeColor == nil || *got.ThemeColor != "#ff6600" {
		t.Fatalf("theme color not mapped: %v", got.ThemeColor)
	}
}
