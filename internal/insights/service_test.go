package insights

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/ajdelacruz/saristore-backend/internal/catalog"
	"github.com/ajdelacruz/saristore-backend/internal/stores"
	"github.com/ajdelacruz/saristore-backend/pkg/db/models"
	"github.com/ajdelacruz/saristore-backend/pkg/enums"
	pkgerrors "github.com/ajdelacruz/saristore-backend/pkg/errors"
	"github.com/ajdelacruz/saristore-backend/pkg/metrics"
)

type scriptedGenerator struct {
	response string
	err      error
	prompts  []string
}

func (g *scriptedGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

type staticItems struct {
	items []models.Item
}

func (s *staticItems) ListByStore(_ context.Context, _ uuid.UUID) ([]models.Item, error) {
	return s.items, nil
}

type staticOrders struct {
	orders []models.Order
}

func (s *staticOrders) ListByStore(_ context.Context, _ uuid.UUID, _ int) ([]models.Order, error) {
	return s.orders, nil
}

func (s *staticOrders) CountByStore(_ context.Context, _ uuid.UUID) (int64, error) {
	return int64(len(s.orders)), nil
}

type recordingCache struct {
	saved []stores.ReportCache
}

func (r *recordingCache) SaveReportCache(_ context.Context, _ uuid.UUID, cache stores.ReportCache) error {
	r.saved = append(r.saved, cache)
	return nil
}

type recordingExchanges struct {
	questions []string
	replies   []string
}

func (r *recordingExchanges) RecordExchange(_ context.Context, _ uuid.UUID, _ string, question, reply string) error {
	r.questions = append(r.questions, question)
	r.replies = append(r.replies, reply)
	return nil
}

type recordingCreator struct {
	inputs []catalog.CreateItemInput
}

func (r *recordingCreator) CreateItem(_ context.Context, storeID uuid.UUID, input catalog.CreateItemInput) (*catalog.ItemDTO, error) {
	r.inputs = append(r.inputs, input)
	return &catalog.ItemDTO{
		ID:       uuid.New(),
		StoreID:  storeID,
		Name:     input.Name,
		Category: input.Category,
		Quantity: input.Quantity,
		Position: len(r.inputs),
	}, nil
}

type gatewayFixture struct {
	svc       Service
	generator *scriptedGenerator
	items     *staticItems
	orders    *staticOrders
	cache     *recordingCache
	exchanges *recordingExchanges
	creator   *recordingCreator
}

func buildGateway(t *testing.T) *gatewayFixture {
	t.Helper()
	f := &gatewayFixture{
		generator: &scriptedGenerator{},
		items:     &staticItems{},
		orders:    &staticOrders{},
		cache:     &recordingCache{},
		exchanges: &recordingExchanges{},
		creator:   &recordingCreator{},
	}
	svc, err := NewService(f.generator, f.items, f.orders, f.cache, f.exchanges, f.creator, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.svc = svc
	return f
}

func seedOrders(n int, total int64) []models.Order {
	orders := make([]models.Order, 0, n)
	for i := 0; i < n; i++ {
		orders = append(orders, models.Order{
			ID:          uuid.New(),
			TotalAmount: decimal.NewFromInt(total),
			OrderDate:   time.Now().UTC().AddDate(0, 0, -i),
			Lines: []models.OrderLine{
				{ItemName: "Rice", Quantity: 1, Price: decimal.NewFromInt(total), Cost: decimal.NewFromInt(total - 10)},
			},
		})
	}
	return orders
}

func TestAnalyzeSummaryIncludesInventory(t *testing.T) {
	f := buildGateway(t)
	f.items.items = []models.Item{{Name: "Rice 1kg", Category: "Staples", Quantity: 4, Price: decimal.NewFromInt(52), CostPrice: decimal.NewFromInt(47)}}
	f.generator.response = "Your inventory is worth more than it cost."

	answer, err := f.svc.Analyze(context.Background(), uuid.New(), enums.InsightModeSummary, "")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if answer != "Your inventory is worth more than it cost." {
		t.Fatalf("unexpected answer %q", answer)
	}
	if !strings.Contains(f.generator.prompts[0], "Rice 1kg (Staples): 4 units") {
		t.Fatalf("prompt missing inventory line: %q", f.generator.prompts[0])
	}
}

func TestAnalyzeCategorizeTrimsAnswer(t *testing.T) {
	f := buildGateway(t)
	f.generator.response = "\"Canned Goods.\"\n"

	answer, err := f.svc.Analyze(context.Background(), uuid.New(), enums.InsightModeCategorize, "Sardines")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if answer != "Canned Goods" {
		t.Fatalf("unexpected answer %q", answer)
	}
	if !strings.Contains(f.generator.prompts[0], "'Sardines'") {
		t.Fatalf("prompt missing item name: %q", f.generator.prompts[0])
	}
	if !strings.Contains(f.generator.prompts[0], "Canned Goods, Snacks") {
		t.Fatalf("prompt missing fixed labels: %q", f.generator.prompts[0])
	}
}

func TestAnalyzeValidation(t *testing.T) {
	f := buildGateway(t)

	_, err := f.svc.Analyze(context.Background(), uuid.New(), enums.InsightMode("weather"), "")
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unknown mode, got %v", err)
	}
	_, err = f.svc.Analyze(context.Background(), uuid.New(), enums.InsightModeCategorize, " ")
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for blank categorize input, got %v", err)
	}
}

func TestForecastRefusesThinHistory(t *testing.T) {
	f := buildGateway(t)
	f.orders.orders = seedOrders(4, 100)

	_, err := f.svc.Forecast(context.Background(), uuid.New())
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected refusal below 5 orders, got %v", err)
	}
	if len(f.generator.prompts) != 0 {
		t.Fatal("forecast must not call the API without enough history")
	}
}

func TestForecastCachesParsedResult(t *testing.T) {
	f := buildGateway(t)
	f.orders.orders = seedOrders(6, 100)
	f.items.items = []models.Item{{Name: "Rice", Category: "Staples", Quantity: 10}}
	f.generator.response = "```json\n{\"forecast\": [100, 150.5], \"holidayNote\": \"Undas is coming\", \"tips\": [\"stock candles\"]}\n```"

	report, err := f.svc.Forecast(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	if !report.ForecastedRevenue.Equal(decimal.NewFromFloat(250.5)) {
		t.Fatalf("unexpected forecasted revenue %s", report.ForecastedRevenue)
	}
	if report.HolidayNote != "Undas is coming" {
		t.Fatalf("unexpected note %q", report.HolidayNote)
	}
	if len(f.cache.saved) != 1 {
		t.Fatalf("expected one cache write, got %d", len(f.cache.saved))
	}
	saved := f.cache.saved[0]
	if len(saved.Forecast) != 2 || saved.Revenue == nil || !saved.Revenue.Equal(decimal.NewFromFloat(250.5)) {
		t.Fatalf("unexpected cached report: %+v", saved)
	}

	prompt := f.generator.prompts[0]
	if !strings.Contains(prompt, "You are Sari, a smart business analyst") {
		t.Fatalf("unexpected prompt: %q", prompt)
	}
	if !strings.Contains(prompt, "totalRevenue") {
		t.Fatalf("prompt missing context data: %q", prompt)
	}
}

func TestForecastUnparseableLeavesCacheAlone(t *testing.T) {
	f := buildGateway(t)
	f.orders.orders = seedOrders(6, 100)
	f.generator.response = "Sales will probably be fine."

	_, err := f.svc.Forecast(context.Background(), uuid.New())
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if len(f.cache.saved) != 0 {
		t.Fatal("unparseable forecast must not touch the cached report")
	}
}

func TestChatDirectAnswer(t *testing.T) {
	f := buildGateway(t)
	f.generator.response = `{"handoff": false, "reply": "Yes, we have sardines!"}`

	reply, err := f.svc.Chat(context.Background(), uuid.New(), "guest-1", "Do you have sardines?")
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if reply.Handoff || reply.Reply != "Yes, we have sardines!" {
		t.Fatalf("unexpected reply: %+v", reply)
	}
	if len(f.exchanges.questions) != 0 {
		t.Fatal("direct answers must not persist an exchange")
	}
}

func TestChatHandoffPersistsExchange(t *testing.T) {
	f := buildGateway(t)
	f.generator.response = `{"handoff": true, "reply": "Let me get the owner for you."}`

	reply, err := f.svc.Chat(context.Background(), uuid.New(), "guest-1", "Can I pay next week?")
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if !reply.Handoff {
		t.Fatal("expected handoff")
	}
	if len(f.exchanges.questions) != 1 || f.exchanges.questions[0] != "Can I pay next week?" {
		t.Fatalf("exchange not recorded: %+v", f.exchanges.questions)
	}
	if f.exchanges.replies[0] != "Let me get the owner for you." {
		t.Fatalf("unexpected recorded reply: %+v", f.exchanges.replies)
	}
}

func TestChatTransportFailureHandsOff(t *testing.T) {
	f := buildGateway(t)
	f.generator.err = errors.New("all keys exhausted")

	reply, err := f.svc.Chat(context.Background(), uuid.New(), "guest-1", "Hello?")
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if !reply.Handoff {
		t.Fatal("expected handoff on transport failure")
	}
	if len(f.exchanges.questions) != 1 {
		t.Fatal("failed calls must still record the exchange")
	}
}

func TestChatUnparseableCounterSkipsCleanHandoffs(t *testing.T) {
	reg := prometheus.NewRegistry()
	f := &gatewayFixture{
		generator: &scriptedGenerator{},
		items:     &staticItems{},
		orders:    &staticOrders{},
		cache:     &recordingCache{},
		exchanges: &recordingExchanges{},
		creator:   &recordingCreator{},
	}
	svc, err := NewService(f.generator, f.items, f.orders, f.cache, f.exchanges, f.creator, metrics.NewAIMetrics(reg))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A reply that decodes but asks for a human is a legitimate handoff.
	f.generator.response = `{"handoff": true, "reply": "Let me get the owner."}`
	if _, err := svc.Chat(context.Background(), uuid.New(), "guest-1", "Can I pay next week?"); err != nil {
		t.Fatalf("chat: %v", err)
	}
	if got := chatUnparseableCount(t, reg); got != 0 {
		t.Fatalf("clean handoff must not count as unparseable, got %f", got)
	}

	// Free text that refuses to decode is the real parse failure.
	f.generator.response = "sure, anytime you like"
	if _, err := svc.Chat(context.Background(), uuid.New(), "guest-1", "Can I pay next week?"); err != nil {
		t.Fatalf("chat: %v", err)
	}
	if got := chatUnparseableCount(t, reg); got != 1 {
		t.Fatalf("expected one unparseable chat, got %f", got)
	}
}

func chatUnparseableCount(t *testing.T, reg *prometheus.Registry) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() != "ai_response_unparseable" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "operation" && label.GetValue() == "chat" {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestSeedInventoryFromParsedList(t *testing.T) {
	f := buildGateway(t)
	f.generator.response = `[
		{"Name": "Skyflakes", "Category": "Snacks", "Price": 8, "Cost": 6, "Quantity": 30},
		{"Name": "Zonrox", "Category": "Household", "Price": 20, "Cost": 16, "Quantity": 12}
	]`

	created, err := f.svc.SeedInventory(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 seeded items, got %d", len(created))
	}
	if f.creator.inputs[1].Name != "Zonrox" || f.creator.inputs[1].Category != "Household" {
		t.Fatalf("unexpected create input: %+v", f.creator.inputs[1])
	}
}

func TestSeedInventoryFallsBack(t *testing.T) {
	f := buildGateway(t)
	f.generator.err = errors.New("quota exceeded")

	created, err := f.svc.SeedInventory(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(created) != 1 || created[0].Name != "Sample Item" {
		t.Fatalf("expected the fallback item, got %+v", created)
	}
	if f.creator.inputs[0].Quantity != 50 {
		t.Fatalf("unexpected fallback quantity: %+v", f.creator.inputs[0])
	}
}
