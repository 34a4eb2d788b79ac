package insights

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ajdelacruz/saristore-backend/internal/catalog"
	"github.com/ajdelacruz/saristore-backend/internal/stores"
	"github.com/ajdelacruz/saristore-backend/pkg/db/models"
	"github.com/ajdelacruz/saristore-backend/pkg/enums"
	pkgerrors "github.com/ajdelacruz/saristore-backend/pkg/errors"
	"github.com/ajdelacruz/saristore-backend/pkg/metrics"
	"github.com/ajdelacruz/saristore-backend/pkg/types"
)

// minForecastOrders is the history floor below which forecasting is
// refused instead of burning an API call.
const minForecastOrders = 5

// textGenerator is the slice of the AI client the gateway needs.
type textGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// itemLister loads a store's catalog for prompt context.
type itemLister interface {
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.Item, error)
}

// orderLoader loads order history for forecasting.
type orderLoader interface {
	ListByStore(ctx context.Context, storeID uuid.UUID, limit int) ([]models.Order, error)
	CountByStore(ctx context.Context, storeID uuid.UUID) (int64, error)
}

// reportCacheWriter persists parsed forecasts onto the store row.
type reportCacheWriter interface {
	SaveReportCache(ctx context.Context, id uuid.UUID, cache stores.ReportCache) error
}

// exchangeRecorder persists assistant handoffs into the chat thread.
type exchangeRecorder interface {
	RecordExchange(ctx context.Context, storeID uuid.UUID, guestID, question, reply string) error
}

// itemCreator appends seeded items through the catalog so positions
// stay sequential.
type itemCreator interface {
	CreateItem(ctx context.Context, storeID uuid.UUID, input catalog.CreateItemInput) (*catalog.ItemDTO, error)
}

// ChatReply is the assistant's answer to a shopper message.
type ChatReply struct {
	Reply   string `json:"reply"`
	Handoff bool   `json:"handoff"`
}

// ForecastReport is the parsed and cached forecast returned to the
// dashboard.
type ForecastReport struct {
	Forecast          []decimal.Decimal `json:"forecast"`
	ForecastedRevenue decimal.Decimal   `json:"forecasted_revenue"`
	HolidayNote       string            `json:"holiday_note"`
	Tips              []string          `json:"tips"`
	GeneratedAt       time.Time         `json:"generated_at"`
}

// Service is the AI insight gateway.
type Service interface {
	Analyze(ctx context.Context, storeID uuid.UUID, mode enums.InsightMode, input string) (string, error)
	Forecast(ctx context.Context, storeID uuid.UUID) (*ForecastReport, error)
	Chat(ctx context.Context, storeID uuid.UUID, guestID, message string) (*ChatReply, error)
	SeedInventory(ctx context.Context, storeID uuid.UUID) ([]catalog.ItemDTO, error)
}

type service struct {
	generator textGenerator
	items     itemLister
	orders    orderLoader
	reports   reportCacheWriter
	chats     exchangeRecorder
	creator   itemCreator
	metrics   *metrics.AIMetrics
	now       func() time.Time
}

// NewService wires the insight gateway dependencies.
func NewService(generator textGenerator, items itemLister, orders orderLoader, reports reportCacheWriter, chats exchangeRecorder, creator itemCreator, aiMetrics *metrics.AIMetrics) (Service, error) {
	if generator == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "text generator required")
	}
	if items == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "item lister required")
	}
	if orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "order loader required")
	}
	if reports == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "report cache writer required")
	}
	if chats == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "exchange recorder required")
	}
	if creator == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "item creator required")
	}
	if aiMetrics == nil {
		aiMetrics = &metrics.AIMetrics{}
	}
	return &service{
		generator: generator,
		items:     items,
		orders:    orders,
		reports:   reports,
		chats:     chats,
		creator:   creator,
		metrics:   aiMetrics,
		now:       time.Now,
	}, nil
}

func (s *service) generate(ctx context.Context, operation, prompt string) (string, error) {
	start := s.now()
	raw, err := s.generator.GenerateContent(ctx, prompt)
	s.metrics.ObserveDuration(operation, s.now().Sub(start))
	if err != nil {
		s.metrics.IncFailure(operation)
		return "", err
	}
	s.metrics.IncSuccess(operation)
	return raw, nil
}

func (s *service) Analyze(ctx context.Context, storeID uuid.UUID, mode enums.InsightMode, input string) (string, error) {
	if storeID == uuid.Nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	if !mode.IsValid() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid insight mode")
	}
	if mode == enums.InsightModeCategorize && strings.TrimSpace(input) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "item name required for categorization")
	}

	var items []models.Item
	if mode != enums.InsightModeDesign && mode != enums.InsightModeJoke && mode != enums.InsightModeCategorize {
		rows, err := s.items.ListByStore(ctx, storeID)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
		}
		items = rows
	}

	raw, err := s.generate(ctx, mode.String(), insightPrompt(mode, items, strings.TrimSpace(input)))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "generate insight")
	}
	if mode == enums.InsightModeCategorize {
		return trimCategoryAnswer(raw), nil
	}
	return strings.TrimSpace(raw), nil
}

// Forecast asks the assistant for a 7-day sales projection and caches
// the parsed result on the store. An unparseable response leaves the
// previously cached report alone.
func (s *service) Forecast(ctx context.Context, storeID uuid.UUID) (*ForecastReport, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}

	count, err := s.orders.CountByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}
	if count < minForecastOrders {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Sari needs at least 5 orders before forecasting. Keep selling!")
	}

	orders, err := s.orders.ListByStore(ctx, storeID, 0)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	items, err := s.items.ListByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}

	now := s.now().UTC()
	revenue, profit := orderAggregates(orders)
	prompt, err := forecastPrompt(now, items, salesByDay(orders, now), revenue, profit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build forecast prompt")
	}

	raw, err := s.generate(ctx, "forecast", prompt)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "generate forecast")
	}

	outcome := parseForecast(raw)
	if !outcome.Parsed() {
		s.metrics.IncUnparseable("forecast")
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "Sari's forecast could not be understood, the previous report is unchanged").
			WithDetails(map[string]any{"raw": outcome.Raw})
	}

	forecasted := decimal.Zero
	for _, value := range outcome.Payload.Forecast {
		forecasted = forecasted.Add(value)
	}

	note := outcome.Payload.HolidayNote
	cache := stores.ReportCache{
		Forecast:    types.DecimalSlice(outcome.Payload.Forecast),
		HolidayNote: &note,
		Tips:        outcome.Payload.Tips,
		Revenue:     &forecasted,
		GeneratedAt: now,
	}
	if err := s.reports.SaveReportCache(ctx, storeID, cache); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cache forecast")
	}

	return &ForecastReport{
		Forecast:          outcome.Payload.Forecast,
		ForecastedRevenue: forecasted,
		HolidayNote:       outcome.Payload.HolidayNote,
		Tips:              outcome.Payload.Tips,
		GeneratedAt:       now,
	}, nil
}

// Chat answers a shopper. Any transport or parse failure downgrades to
// a human handoff instead of surfacing an error to the shopper.
func (s *service) Chat(ctx context.Context, storeID uuid.UUID, guestID, message string) (*ChatReply, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	if strings.TrimSpace(guestID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "guest id required")
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message required")
	}

	var payload chatPayload
	raw, err := s.generate(ctx, "chat", chatPrompt(message))
	if err != nil {
		payload = chatPayload{Handoff: true, Reply: "Connecting you to the seller..."}
	} else {
		var parsed bool
		payload, parsed = parseChat(raw)
		if !parsed {
			s.metrics.IncUnparseable("chat")
		}
	}

	if payload.Handoff {
		if err := s.chats.RecordExchange(ctx, storeID, guestID, message, payload.Reply); err != nil {
			return nil, err
		}
	}
	return &ChatReply{Reply: payload.Reply, Handoff: payload.Handoff}, nil
}

// SeedInventory asks the assistant for sample items and appends them to
// the catalog. A failed or malformed response seeds a single fallback
// item instead.
func (s *service) SeedInventory(ctx context.Context, storeID uuid.UUID) ([]catalog.ItemDTO, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}

	var seeds []seedItem
	raw, err := s.generate(ctx, "seed", seedPrompt())
	if err == nil {
		seeds = parseSeedItems(raw)
	}
	if len(seeds) == 0 {
		if err == nil {
			s.metrics.IncUnparseable("seed")
		}
		seeds = []seedItem{{
			Name:     "Sample Item",
			Category: enums.DefaultItemCategory,
			Price:    decimal.NewFromInt(10),
			Cost:     decimal.NewFromInt(8),
			Quantity: 50,
		}}
	}

	created := make([]catalog.ItemDTO, 0, len(seeds))
	for _, seed := range seeds {
		item, err := s.creator.CreateItem(ctx, storeID, catalog.CreateItemInput{
			Name:      seed.Name,
			Category:  seed.Category,
			Quantity:  seed.Quantity,
			Price:     seed.Price,
			CostPrice: seed.Cost,
		})
		if err != nil {
			return nil, err
		}
		created = append(created, *item)
	}
	return created, nil
}

// orderAggregates sums revenue and per-line profit across the history.
func orderAggregates(orders []models.Order) (decimal.Decimal, decimal.Decimal) {
	revenue := decimal.Zero
	profit := decimal.Zero
	for _, order := range orders {
		revenue = revenue.Add(order.TotalAmount)
		for _, line := range order.Lines {
			profit = profit.Add(line.LineProfit())
		}
	}
	return revenue, profit
}

// salesByDay buckets the last 7 days of order totals under short date
// labels.
func salesByDay(orders []models.Order, now time.Time) map[string]decimal.Decimal {
	sales := make(map[string]decimal.Decimal, 7)
	days := make(map[string]string, 7)
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		label := day.Format("Jan 02")
		sales[label] = decimal.Zero
		days[day.Format("2006-01-02")] = label
	}
	for _, order := range orders {
		if label, ok := days[order.OrderDate.UTC().Format("2006-01-02")]; ok {
			sales[label] = sales[label].Add(order.TotalAmount)
		}
	}
	return sales
}
