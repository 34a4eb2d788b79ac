package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/ajdelacruz/saristore-backend/api/middleware"
	"github.com/ajdelacruz/saristore-backend/internal/notifications"
	"github.com/ajdelacruz/saristore-backend/pkg/enums"
)

type testNotificationsService struct {
	listFn        func(ctx context.Context, params notifications.ListParams) (*notifications.ListResult, error)
	markReadFn    func(ctx context.Context, storeID, notificationID uuid.UUID) error
	markAllReadFn func(ctx context.Context, storeID uuid.UUID) (int64, error)
}

func (s *testNotificationsService) Notify(ctx context.Context, storeID uuid.UUID, kind enums.NotificationType, format string, args ...any) error {
	return nil
}

func (s *testNotificationsService) List(ctx context.Context, params notifications.ListParams) (*notifications.ListResult, error) {
	if s.listFn != nil {
		return s.listFn(ctx, params)
	}
	return &notifications.ListResult{}, nil
}

func (s *testNotificationsService) UnreadCount(ctx context.Context, storeID uuid.UUID) (int64, error) {
	return 0, nil
}

func (s *testNotificationsService) MarkRead(ctx context.Context, storeID, notificationID uuid.UUID) error {
	if s.markReadFn != nil {
		return s.markReadFn(ctx, storeID, notificationID)
	}
	return nil
}

func (s *testNotificationsService) MarkAllRead(ctx context.Context, storeID uuid.UUID) (int64, error) {
	if s.markAllReadFn != nil {
		return s.markAllReadFn(ctx, storeID)
	}
	return 0, nil
}

func TestListNotificationsParsesQuery(t *testing.T) {
	storeID := uuid.New()
	var got notifications.ListParams
	svc := &testNotificationsService{
		listFn: func(ctx context.Context, params notifications.ListParams) (*notifications.ListResult, error) {
			got = params
			return &notifications.ListResult{Unread: 2}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/notifications?limit=10&unreadOnly=true&type=cart", nil)
	req = req.WithContext(middleware.WithStoreID(req.Context(), storeID.String()))
	resp := httptest.NewRecorder()
	ListNotifications(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if got.StoreID != storeID {
		t.Fatalf("unexpected store %s", got.StoreID)
	}
	if got.Limit != 10 || !got.UnreadOnly {
		t.Fatalf("query params not mapped: %+v", got)
	}
	if got.Type != enums.NotificationTypeCart {
		t.Fatalf("unexpected type %q", got.Type)
	}
}

func TestListNotificationsRejectsBadLimit(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/notifications?limit=zero", nil)
	req = req.WithContext(middleware.WithStoreID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()
	ListNotifications(&testNotificationsService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestListNotificationsMissingStore(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/notifications", nil)
	resp := httptest.NewRecorder()
	ListNotifications(&testNotificationsService{}, testLogger())(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestMarkNotificationRead(t *testing.T) {
	storeID := uuid.New()
	notificationID := uuid.New()
	called := false
	svc := &testNotificationsService{
		markReadFn: func(ctx context.Context, sid, nid uuid.UUID) error {
			called = true
			if sid != storeID || nid != notificationID {
				t.Fatalf("unexpected ids %s %s", sid, nid)
			}
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/dashboard/notifications/"+notificationID.String()+"/read", nil)
	req = req.WithContext(middleware.WithStoreID(req.Context(), storeID.String()))
	req = addRouteParam(req, "notificationID", notificationID.String())
	resp := httptest.NewRecorder()
	MarkNotificationRead(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if !called {
		t.Fatal("expected service called")
	}
}

func TestClearNotifications(t *testing.T) {
	storeID := uuid.New()
	svc := &testNotificationsService{
		markAllReadFn: func(ctx context.Context, sid uuid.UUID) (int64, error) {
			if sid != storeID {
				t.Fatalf("unexpected store %s", sid)
			}
			return 4, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/dashboard/notifications/clear", nil)
	req = req.WithContext(middleware.WithStoreID(req.Context(), storeID.String()))
	resp := httptest.NewRecorder()
	ClearNotifications(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var data map[string]int64
	decodeData(t, resp, &data)
	if data["cleared"] != 4 {
		t.Fatalf("unexpected cleared count %d", data["cleared"])
	}
}
