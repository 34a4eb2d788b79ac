package reports

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ajdelacruz/saristore-backend/internal/catalog"
	"github.com/ajdelacruz/saristore-backend/internal/orders"
	"github.com/ajdelacruz/saristore-backend/internal/stores"
	"github.com/ajdelacruz/saristore-backend/pkg/db/models"
	"github.com/ajdelacruz/saristore-backend/pkg/enums"
	pkgerrors "github.com/ajdelacruz/saristore-backend/pkg/errors"
	"github.com/ajdelacruz/saristore-backend/pkg/types"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("SARISTORE_DB_DSN")
	if dsn == "" {
		t.Skip("SARISTORE_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

type savepointRunner struct {
	tx *gorm.DB
}

func (r savepointRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return r.tx.Transaction(func(inner *gorm.DB) error {
		return fn(inner)
	})
}

func mustCreateReportStore(t *testing.T, tx *gorm.DB) *models.Store {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Username:     fmt.Sprintf("ss_test_%s", uuid.NewString()),
		Email:        fmt.Sprintf("ss_test_%s@example.com", uuid.NewString()),
		PasswordHash: "hash",
	}
	if err := tx.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	store := &models.Store{ID: uuid.New(), OwnerID: user.ID, Name: "Report Test Store"}
	if err := tx.Create(store).Error; err != nil {
		t.Fatalf("create store: %v", err)
	}
	return store
}

func mustCreateReportItem(t *testing.T, tx *gorm.DB, storeID uuid.UUID, name string, quantity int, price int64) *models.Item {
	t.Helper()
	item := &models.Item{
		ID:        uuid.New(),
		StoreID:   storeID,
		Name:      name,
		Category:  "General",
		Quantity:  quantity,
		Price:     decimal.NewFromInt(price),
		CostPrice: decimal.NewFromInt(price - 5),
		Position:  1,
	}
	if err := tx.Create(item).Error; err != nil {
		t.Fatalf("create item: %v", err)
	}
	return item
}

func mustCreateOrder(t *testing.T, tx *gorm.DB, storeID uuid.UUID, itemName string, quantity int, price, cost int64, daysAgo int) {
	t.Helper()
	total := decimal.NewFromInt(price * int64(quantity))
	order := &models.Order{
		ID:           uuid.New(),
		StoreID:      storeID,
		CustomerName: "Guest",
		TotalAmount:  total,
		Status:       enums.OrderStatusCompleted,
		OrderCode:    "OR-1234",
		OrderDate:    time.Now().UTC().AddDate(0, 0, -daysAgo),
		Lines: []models.OrderLine{{
			ItemName: itemName,
			Quantity: quantity,
			Price:    decimal.NewFromInt(price),
			Cost:     decimal.NewFromInt(cost),
		}},
	}
	if err := tx.Create(order).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}
}

func buildReportService(t *testing.T, tx *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(savepointRunner{tx: tx}, orders.NewRepository(tx), catalog.NewRepository(tx), stores.NewRepository(tx))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc
}

func TestSummaryKPIs(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	ctx := context.Background()
	store := mustCreateReportStore(t, tx)
	mustCreateReportItem(t, tx, store.ID, "Rice 1kg", 20, 52)
	mustCreateReportItem(t, tx, store.ID, "Matches", 2, 5)
	mustCreateReportItem(t, tx, store.ID, "Dusty Toy", 15, 99)

	mustCreateOrder(t, tx, store.ID, "Rice 1kg", 2, 52, 47, 0)
	mustCreateOrder(t, tx, store.ID, "Rice 1kg", 1, 52, 47, 2)
	mustCreateOrder(t, tx, store.ID, "Rice 1kg", 1, 52, 47, 20)

	svc := buildReportService(t, tx)
	summary, err := svc.Summary(ctx, store.ID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	if !summary.TotalRevenue.Equal(decimal.NewFromInt(4 * 52)) {
		t.Fatalf("unexpected revenue %s", summary.TotalRevenue)
	}
	if !summary.TotalProfit.Equal(decimal.NewFromInt(4 * 5)) {
		t.Fatalf("unexpected profit %s", summary.TotalProfit)
	}
	// Only the orders from today and two days ago fall in the week window.
	if !summary.RevenueWeek.Equal(decimal.NewFromInt(3 * 52)) {
		t.Fatalf("unexpected week revenue %s", summary.RevenueWeek)
	}
	if summary.TotalOrders != 3 || len(summary.RecentOrders) != 3 {
		t.Fatalf("unexpected order counts: %d recent %d", summary.TotalOrders, len(summary.RecentOrders))
	}
	if len(summary.LowStock) != 1 || summary.LowStock[0].Name != "Matches" {
		t.Fatalf("unexpected low stock: %+v", summary.LowStock)
	}
	if len(summary.SlowMovers) != 1 || summary.SlowMovers[0].Name != "Dusty Toy" {
		t.Fatalf("unexpected slow movers: %+v", summary.SlowMovers)
	}
	if len(summary.SalesSeries) != 7 {
		t.Fatalf("expected 7 chart points, got %d", len(summary.SalesSeries))
	}
	// Today's bucket is the last point and holds the two-unit order.
	today := summary.SalesSeries[6]
	if !today.Total.Equal(decimal.NewFromInt(2 * 52)) {
		t.Fatalf("unexpected today's total %s", today.Total)
	}
	if summary.Forecast != nil {
		t.Fatal("no cached forecast expected")
	}
}

func TestSummaryReadsCachedForecast(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	ctx := context.Background()
	store := mustCreateReportStore(t, tx)
	generated := time.Now().UTC().Truncate(time.Second)
	revenue := decimal.NewFromInt(300)
	note := "Pasko season ahead"
	updates := map[string]any{
		"report_forecast":     types.DecimalSlice{decimal.NewFromInt(100), decimal.NewFromInt(200)},
		"report_holiday_note": &note,
		"report_tips":         pq.StringArray{"stock up on ham"},
		"report_revenue":      revenue,
		"report_generated_at": generated,
	}
	if err := tx.Model(store).UpdateColumns(updates).Error; err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	svc := buildReportService(t, tx)
	summary, err := svc.Summary(ctx, store.ID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Forecast == nil {
		t.Fatal("expected cached forecast")
	}
	if summary.Forecast.HolidayNote != "Pasko season ahead" || len(summary.Forecast.Forecast) != 2 {
		t.Fatalf("unexpected cache: %+v", summary.Forecast)
	}
	if summary.Forecast.Revenue == nil || !summary.Forecast.Revenue.Equal(revenue) {
		t.Fatalf("unexpected cached revenue: %+v", summary.Forecast.Revenue)
	}
}

func TestCompleteOrder(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	ctx := context.Background()
	store := mustCreateReportStore(t, tx)
	order := &models.Order{
		ID:           uuid.New(),
		StoreID:      store.ID,
		CustomerName: "Aling Nena",
		TotalAmount:  decimal.NewFromInt(104),
		Status:       enums.OrderStatusPending,
		OrderCode:    "OR-5678",
		OrderDate:    time.Now().UTC(),
	}
	if err := tx.Create(order).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}

	svc := buildReportService(t, tx)
	if err := svc.CompleteOrder(ctx, store.ID, order.ID); err != nil {
		t.Fatalf("complete order: %v", err)
	}

	reloaded, err := orders.NewRepository(tx).FindByID(ctx, store.ID, order.ID)
	if err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if reloaded.Status != enums.OrderStatusCompleted {
		t.Fatalf("unexpected status %q", reloaded.Status)
	}

	// An order belonging to another store is out of reach.
	err = svc.CompleteOrder(ctx, mustCreateReportStore(t, tx).ID, order.ID)
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found across stores, got %v", err)
	}
}

func TestSeedHistoryPopulatesOrders(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	ctx := context.Background()
	store := mustCreateReportStore(t, tx)

	// A previously cached forecast must not survive the rewrite.
	note := "stale note"
	cacheSeed := map[string]any{
		"report_forecast":     types.DecimalSlice{decimal.NewFromInt(100)},
		"report_holiday_note": &note,
		"report_tips":         pq.StringArray{"stale tip"},
		"report_revenue":      decimal.NewFromInt(100),
		"report_generated_at": time.Now().UTC(),
	}
	if err := tx.Model(store).UpdateColumns(cacheSeed).Error; err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	svc := buildReportService(t, tx)
	svc.(*service).rand = rand.New(rand.NewSource(1))

	created, err := svc.SeedHistory(ctx, store.ID)
	if err != nil {
		t.Fatalf("seed history: %v", err)
	}
	if created == 0 {
		t.Fatal("expected demo orders to be created")
	}

	// The empty catalog got a starter item before seeding.
	items, err := catalog.NewRepository(tx).ListByStore(ctx, store.ID)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Starter Pack" {
		t.Fatalf("expected a starter item, got %+v", items)
	}

	var count int64
	if err := tx.Model(&models.Order{}).Where("store_id = ?", store.ID).Count(&count).Error; err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if count != int64(created) {
		t.Fatalf("reported %d orders but found %d", created, count)
	}

	refreshed, err := stores.NewRepository(tx).FindByID(ctx, store.ID)
	if err != nil {
		t.Fatalf("reload store: %v", err)
	}
	if refreshed.ReportGeneratedAt != nil {
		t.Fatal("seeding must clear the cached forecast")
	}
}

func TestExports(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	ctx := context.Background()
	store := mustCreateReportStore(t, tx)
	mustCreateReportItem(t, tx, store.ID, "Rice 1kg", 20, 52)

	svc := buildReportService(t, tx)

	csvBytes, csvName, err := svc.ExportCSV(ctx, store.ID)
	if err != nil {
		t.Fatalf("export csv: %v", err)
	}
	if !bytes.Contains(csvBytes, []byte("Rice 1kg")) {
		t.Fatal("csv missing inventory row")
	}
	if csvName != "Report Test Store-inventory.csv" {
		t.Fatalf("unexpected csv filename %q", csvName)
	}

	pdfBytes, pdfName, err := svc.ExportPDF(ctx, store.ID)
	if err != nil {
		t.Fatalf("export pdf: %v", err)
	}
	if !bytes.HasPrefix(pdfBytes, []byte("%PDF")) {
		t.Fatal("pdf magic bytes missing")
	}
	if pdfName != "Report Test Store-inventory.pdf" {
		t.Fatalf("unexpected pdf filename %q", pdfName)
	}
}
