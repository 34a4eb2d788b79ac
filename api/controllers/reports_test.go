package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/ajdelacruz/saristore-backend/api/middleware"
	"github.com/ajdelacruz/saristore-backend/internal/catalog"
	"github.com/ajdelacruz/saristore-backend/internal/insights"
	"github.com/ajdelacruz/saristore-backend/internal/reports"
	"github.com/ajdelacruz/saristore-backend/pkg/enums"
)

type testReportsService struct {
	summaryFn  func(ctx context.Context, storeID uuid.UUID) (*reports.Summary, error)
	completeFn func(ctx context.Context, storeID, orderID uuid.UUID) error
	seedFn     func(ctx context.Context, storeID uuid.UUID) (int, error)
	csvFn      func(ctx context.Context, storeID uuid.UUID) ([]byte, string, error)
	pdfFn      func(ctx context.Context, storeID uuid.UUID) ([]byte, string, error)
}

func (s *testReportsService) Summary(ctx context.Context, storeID uuid.UUID) (*reports.Summary, error) {
	if s.summaryFn != nil {
		return s.summaryFn(ctx, storeID)
	}
	return &reports.Summary{}, nil
}

func (s *testReportsService) CompleteOrder(ctx context.Context, storeID, orderID uuid.UUID) error {
	if s.completeFn != nil {
		return s.completeFn(ctx, storeID, orderID)
	}
	return nil
}

func (s *testReportsService) SeedHistory(ctx context.Context, storeID uuid.UUID) (int, error) {
	if s.seedFn != nil {
		return s.seedFn(ctx, storeID)
	}
	return 0, nil
}

func (s *testReportsService) ExportCSV(ctx context.Context, storeID uuid.UUID) ([]byte, string, error) {
	if s.csvFn != nil {
		return s.csvFn(ctx, storeID)
	}
	return nil, "", nil
}

func (s *testReportsService) ExportPDF(ctx context.Context, storeID uuid.UUID) ([]byte, string, error) {
	if s.pdfFn != nil {
		return s.pdfFn(ctx, storeID)
	}
	return nil, "", nil
}

type testInsightsService struct {
	analyzeFn  func(ctx context.Context, storeID uuid.UUID, mode enums.InsightMode, input string) (string, error)
	forecastFn func(ctx context.Context, storeID uuid.UUID) (*insights.ForecastReport, error)
	chatFn     func(ctx context.Context, storeID uuid.UUID, guestID, message string) (*insights.ChatReply, error)
	seedFn     func(ctx context.Context, storeID uuid.UUID) ([]catalog.ItemDTO, error)
}

func (s *testInsightsService) Analyze(ctx context.Context, storeID uuid.UUID, mode enums.InsightMode, input string) (string, error) {
	if s.analyzeFn != nil {
		return s.analyzeFn(ctx, storeID, mode, input)
	}
	return "", nil
}

func (s *testInsightsService) Forecast(ctx context.Context, storeID uuid.UUID) (*insights.ForecastReport, error) {
	if s.forecastFn != nil {
		return s.forecastFn(ctx, storeID)
	}
	return &insights.ForecastReport{}, nil
}

func (s *testInsightsService) Chat(ctx context.Context, storeID uuid.UUID, guestID, message string) (*insights.ChatReply, error) {
	if s.chatFn != nil {
		return s.chatFn(ctx, storeID, guestID, message)
	}
	return &insights.ChatReply{}, nil
}

func (s *testInsightsService) SeedInventory(ctx context.Context, storeID uuid.UUID) ([]catalog.ItemDTO, error) {
	if s.seedFn != nil {
		return s.seedFn(ctx, storeID)
	}
	return nil, nil
}

func TestReportsExportCSVSetsDisposition(t *testing.T) {
	storeID := uuid.New()
	svc := &testReportsService{
		csvFn: func(ctx context.Context, sid uuid.UUID) ([]byte, string, error) {
			return []byte("Name,Category\n"), "nenas-tindahan-inventory.csv", nil
		},
	}

	req := sellerRequest(http.MethodGet, "/api/v1/reports/export/csv", "", storeID)
	resp := httptest.NewRecorder()
	ReportsExportCSV(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if got := resp.Header().Get("Content-Type"); got != "text/csv" {
		t.Fatalf("unexpected content type %q", got)
	}
	if got := resp.Header().Get("Content-Disposition"); !strings.Contains(got, "nenas-tindahan-inventory.csv") {
		t.Fatalf("unexpected disposition %q", got)
	}
}

func TestReportsExportPDF(t *testing.T) {
	storeID := uuid.New()
	svc := &testReportsService{
		pdfFn: func(ctx context.Context, sid uuid.UUID) ([]byte, string, error) {
			return []byte("%PDF-1.4"), "nenas-tindahan-inventory.pdf", nil
		},
	}

	req := sellerRequest(http.MethodGet, "/api/v1/reports/export/pdf", "", storeID)
	resp := httptest.NewRecorder()
	ReportsExportPDF(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if got := resp.Header().Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("unexpected content type %q", got)
	}
	if !strings.HasPrefix(resp.Body.String(), "%PDF") {
		t.Fatalf("body is not a pdf: %q", resp.Body.String())
	}
}

func TestReportsSeedHistory(t *testing.T) {
	storeID := uuid.New()
	svc := &testReportsService{
		seedFn: func(ctx context.Context, sid uuid.UUID) (int, error) {
			if sid != storeID {
				t.Fatalf("unexpected store %s", sid)
			}
			return 18, nil
		},
	}

	req := sellerRequest(http.MethodPost, "/api/v1/reports/seed-history", "", storeID)
	resp := httptest.NewRecorder()
	ReportsSeedHistory(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var data map[string]int
	decodeData(t, resp, &data)
	if data["orders_created"] != 18 {
		t.Fatalf("unexpected count %d", data["orders_created"])
	}
}

func TestReportsCompleteOrder(t *testing.T) {
	storeID := uuid.New()
	orderID := uuid.New()
	var gotStore, gotOrder uuid.UUID
	svc := &testReportsService{
		completeFn: func(ctx context.Context, sid, oid uuid.UUID) error {
			gotStore, gotOrder = sid, oid
			return nil
		},
	}

	req := sellerRequest(http.MethodPost, "/api/v1/reports/orders/"+orderID.String()+"/complete", "", storeID)
	req = addRouteParam(req, "orderID", orderID.String())
	resp := httptest.NewRecorder()
	ReportsCompleteOrder(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if gotStore != storeID || gotOrder != orderID {
		t.Fatalf("unexpected ids store=%s order=%s", gotStore, gotOrder)
	}
}

func TestReportsCompleteOrderRejectsBadID(t *testing.T) {
	storeID := uuid.New()
	req := sellerRequest(http.MethodPost, "/api/v1/reports/orders/not-a-uuid/complete", "", storeID)
	req = addRouteParam(req, "orderID", "not-a-uuid")
	resp := httptest.NewRecorder()
	ReportsCompleteOrder(&testReportsService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestDashboardInsightsDefaultsToSummary(t *testing.T) {
	storeID := uuid.New()
	var gotMode enums.InsightMode
	svc := &testInsightsService{
		analyzeFn: func(ctx context.Context, sid uuid.UUID, mode enums.InsightMode, input string) (string, error) {
			gotMode = mode
			return "Inventory looks healthy.", nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/insights", nil)
	req = req.WithContext(middleware.WithStoreID(req.Context(), storeID.String()))
	resp := httptest.NewRecorder()
	DashboardInsights(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if gotMode != enums.InsightModeSummary {
		t.Fatalf("unexpected mode %q", gotMode)
	}
}

func TestDashboardInsightsRejectsUnknownMode(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/insights?mode=horoscope", nil)
	req = req.WithContext(middleware.WithStoreID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()
	DashboardInsights(&testInsightsService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestReportsAnalyze(t *testing.T) {
	storeID := uuid.New()
	called := false
	svc := &testInsightsService{
		forecastFn: func(ctx context.Context, sid uuid.UUID) (*insights.ForecastReport, error) {
			called = true
			if sid != storeID {
				t.Fatalf("unexpected store %s", sid)
			}
			return &insights.ForecastReport{HolidayNote: "Fiesta week ahead"}, nil
		},
	}

	req := sellerRequest(http.MethodPost, "/api/v1/reports/analyze", "", storeID)
	resp := httptest.NewRecorder()
	ReportsAnalyze(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if !called {
		t.Fatal("expected forecast called")
	}
	var report insights.ForecastReport
	decodeData(t, resp, &report)
	if report.HolidayNote != "Fiesta week ahead" {
		t.Fatalf("unexpected note %q", report.HolidayNote)
	}
}
