package reports

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ajdelacruz/saristore-backend/internal/catalog"
	"github.com/ajdelacruz/saristore-backend/internal/orders"
	"github.com/ajdelacruz/saristore-backend/internal/stores"
	"github.com/ajdelacruz/saristore-backend/pkg/db"
	"github.com/ajdelacruz/saristore-backend/pkg/db/models"
	"github.com/ajdelacruz/saristore-backend/pkg/enums"
	pkgerrors "github.com/ajdelacruz/saristore-backend/pkg/errors"
	"github.com/ajdelacruz/saristore-backend/pkg/export"
)

const (
	lowStockThreshold  = 5
	slowMoverThreshold = 10
	slowMoverLimit     = 5
	recentOrderLimit   = 20
	seedHistoryDays    = 30
)

// txRunner runs a function inside a database transaction.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// DailyPoint is one bucket of the 7-day sales series.
type DailyPoint struct {
	Label string          `json:"label"`
	Total decimal.Decimal `json:"total"`
}

// CachedForecast is the stored AI report read back from the store row.
type CachedForecast struct {
	Forecast    []decimal.Decimal `json:"forecast"`
	HolidayNote string            `json:"holiday_note"`
	Tips        []string          `json:"tips"`
	Revenue     *decimal.Decimal  `json:"revenue,omitempty"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// OrderSummary is one row of the recent order list.
type OrderSummary struct {
	ID           uuid.UUID         `json:"id"`
	OrderCode    string            `json:"order_code"`
	CustomerName string            `json:"customer_name"`
	Total        decimal.Decimal   `json:"total"`
	Status       enums.OrderStatus `json:"status"`
	OrderDate    time.Time         `json:"order_date"`
}

// Summary bundles the dashboard KPIs for one store.
type Summary struct {
	TotalRevenue decimal.Decimal   `json:"total_revenue"`
	TotalProfit  decimal.Decimal   `json:"total_profit"`
	RevenueWeek  decimal.Decimal   `json:"revenue_week"`
	TotalOrders  int64             `json:"total_orders"`
	RecentOrders []OrderSummary    `json:"recent_orders"`
	LowStock     []catalog.ItemDTO `json:"low_stock"`
	SlowMovers   []catalog.ItemDTO `json:"slow_movers"`
	SalesSeries  []DailyPoint      `json:"sales_series"`
	Forecast     *CachedForecast   `json:"forecast,omitempty"`
}

// Service builds the seller's reporting views.
type Service interface {
	Summary(ctx context.Context, storeID uuid.UUID) (*Summary, error)
	CompleteOrder(ctx context.Context, storeID, orderID uuid.UUID) error
	SeedHistory(ctx context.Context, storeID uuid.UUID) (int, error)
	ExportCSV(ctx context.Context, storeID uuid.UUID) ([]byte, string, error)
	ExportPDF(ctx context.Context, storeID uuid.UUID) ([]byte, string, error)
}

type service struct {
	tx     txRunner
	orders *orders.Repository
	items  *catalog.Repository
	stores *stores.Repository
	now    func() time.Time
	rand   *rand.Rand
}

// NewService wires reporting dependencies.
func NewService(tx txRunner, ordersRepo *orders.Repository, items *catalog.Repository, storesRepo *stores.Repository) (Service, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if ordersRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "orders repository required")
	}
	if items == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog repository required")
	}
	if storesRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "stores repository required")
	}
	return &service{
		tx:     tx,
		orders: ordersRepo,
		items:  items,
		stores: storesRepo,
		now:    time.Now,
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

func (s *service) Summary(ctx context.Context, storeID uuid.UUID) (*Summary, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}

	store, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find store")
	}

	history, err := s.orders.ListByStore(ctx, storeID, 0)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	items, err := s.items.ListByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}

	summary := &Summary{
		TotalRevenue: decimal.Zero,
		TotalProfit:  decimal.Zero,
		TotalOrders:  int64(len(history)),
		RecentOrders: make([]OrderSummary, 0, recentOrderLimit),
		LowStock:     []catalog.ItemDTO{},
		SlowMovers:   []catalog.ItemDTO{},
	}

	sold := make(map[string]struct{})
	for _, order := range history {
		summary.TotalRevenue = summary.TotalRevenue.Add(order.TotalAmount)
		for _, line := range order.Lines {
			summary.TotalProfit = summary.TotalProfit.Add(line.LineProfit())
			sold[line.ItemName] = struct{}{}
		}
		if len(summary.RecentOrders) < recentOrderLimit {
			summary.RecentOrders = append(summary.RecentOrders, OrderSummary{
				ID:           order.ID,
				OrderCode:    order.OrderCode,
				CustomerName: order.CustomerName,
				Total:        order.TotalAmount,
				Status:       order.Status,
				OrderDate:    order.OrderDate,
			})
		}
	}

	for i := range items {
		item := &items[i]
		if item.Quantity < lowStockThreshold {
			summary.LowStock = append(summary.LowStock, *catalog.ItemFromModel(item))
			continue
		}
		if _, wasSold := sold[item.Name]; !wasSold && item.Quantity > slowMoverThreshold && len(summary.SlowMovers) < slowMoverLimit {
			summary.SlowMovers = append(summary.SlowMovers, *catalog.ItemFromModel(item))
		}
	}

	summary.SalesSeries, err = s.salesSeries(ctx, storeID)
	if err != nil {
		return nil, err
	}

	// The headline week number is summed in SQL rather than from the
	// padded chart series.
	weekStart := s.now().UTC().AddDate(0, 0, -6).Truncate(24 * time.Hour)
	summary.RevenueWeek, err = s.orders.RevenueSince(ctx, storeID, weekStart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "week revenue")
	}

	if store.ReportGeneratedAt != nil {
		summary.Forecast = &CachedForecast{
			Forecast:    []decimal.Decimal(store.ReportForecast),
			Tips:        []string(store.ReportTips),
			Revenue:     store.ReportRevenue,
			GeneratedAt: *store.ReportGeneratedAt,
		}
		if store.ReportHolidayNote != nil {
			summary.Forecast.HolidayNote = *store.ReportHolidayNote
		}
	}

	return summary, nil
}

// salesSeries buckets the trailing week of revenue, padding days with
// no orders so the chart always has 7 points.
func (s *service) salesSeries(ctx context.Context, storeID uuid.UUID) ([]DailyPoint, error) {
	now := s.now().UTC()
	since := now.AddDate(0, 0, -6).Truncate(24 * time.Hour)
	totals, err := s.orders.DailyTotals(ctx, storeID, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "daily totals")
	}

	byDay := make(map[string]decimal.Decimal, len(totals))
	for _, bucket := range totals {
		byDay[bucket.Day.UTC().Format("2006-01-02")] = bucket.Total
	}

	series := make([]DailyPoint, 0, 7)
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		total := decimal.Zero
		if hit, ok := byDay[day.Format("2006-01-02")]; ok {
			total = hit
		}
		series = append(series, DailyPoint{Label: day.Format("Jan 02"), Total: total})
	}
	return series, nil
}

// CompleteOrder marks a pending order as completed from the dashboard
// order list.
func (s *service) CompleteOrder(ctx context.Context, storeID, orderID uuid.UUID) error {
	if storeID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	updated, err := s.orders.UpdateStatus(ctx, storeID, orderID, enums.OrderStatusCompleted.String())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	if !updated {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return nil
}

// SeedHistory generates a month of randomized demo orders so a new
// seller sees populated charts. An empty catalog gets a starter item
// first.
func (s *service) SeedHistory(ctx context.Context, storeID uuid.UUID) (int, error) {
	if storeID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}

	items, err := s.items.ListByStore(ctx, storeID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}

	created := 0
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		itemsRepo := s.items.WithTx(tx)
		ordersRepo := s.orders.WithTx(tx)

		// A month of synthetic history makes any cached forecast stale.
		if err := s.stores.WithTx(tx).ClearReportCache(ctx, storeID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cached forecast")
		}

		if len(items) == 0 {
			starter := &models.Item{
				StoreID:   storeID,
				Name:      "Starter Pack",
				Category:  enums.DefaultItemCategory,
				Quantity:  100,
				Price:     decimal.NewFromInt(100),
				CostPrice: decimal.NewFromInt(80),
				Position:  1,
			}
			if _, err := itemsRepo.Create(ctx, starter); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create starter item")
			}
			items = append(items, *starter)
		}

		now := s.now().UTC()
		for daysAgo := seedHistoryDays; daysAgo >= 1; daysAgo-- {
			for n := s.rand.Intn(3); n > 0; n-- {
				item := items[s.rand.Intn(len(items))]
				quantity := s.rand.Intn(4) + 1
				total := item.Price.Mul(decimal.NewFromInt(int64(quantity)))
				order := &models.Order{
					StoreID:      storeID,
					CustomerName: "Guest",
					TotalAmount:  total,
					Status:       enums.OrderStatusCompleted,
					OrderCode:    fmt.Sprintf("OR-%04d", s.rand.Intn(10000)),
					OrderDate:    now.AddDate(0, 0, -daysAgo),
					Lines: []models.OrderLine{{
						ItemName: item.Name,
						Quantity: quantity,
						Price:    item.Price,
						Cost:     item.CostPrice,
					}},
				}
				if _, err := ordersRepo.Create(ctx, order); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create demo order")
				}
				created++
			}
		}
		return nil
	})
	if err != nil {
		created = 0
	}
	return created, err
}

func (s *service) ExportCSV(ctx context.Context, storeID uuid.UUID) ([]byte, string, error) {
	store, items, err := s.inventoryForExport(ctx, storeID)
	if err != nil {
		return nil, "", err
	}
	payload, err := export.InventoryCSV(store.Name, items)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render csv")
	}
	return payload, exportFilename(store.Name, "csv"), nil
}

func (s *service) ExportPDF(ctx context.Context, storeID uuid.UUID) ([]byte, string, error) {
	store, items, err := s.inventoryForExport(ctx, storeID)
	if err != nil {
		return nil, "", err
	}
	payload, err := export.InventoryPDF(store.Name, items, s.now().UTC())
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render pdf")
	}
	return payload, exportFilename(store.Name, "pdf"), nil
}

func (s *service) inventoryForExport(ctx context.Context, storeID uuid.UUID) (*models.Store, []models.Item, error) {
	if storeID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	store, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find store")
	}
	items, err := s.items.ListByStore(ctx, storeID)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}
	return store, items, nil
}

func exportFilename(storeName, extension string) string {
	name := storeName
	if name == "" {
		name = "inventory"
	}
	return fmt.Sprintf("%s-inventory.%s", name, extension)
}
