package portfolio

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/oliverwade/folio/internal/common"
	"github.com/oliverwade/folio/internal/interfaces"
	"github.com/oliverwade/folio/internal/models"
)

func approxEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

// --- in-memory stubs ---

type memPortfolioStore struct {
	instruments map[string]*models.Instrument
	positions   map[string]*models.Position
	deposits    map[string]*models.FixedDeposit
}

func newMemPortfolioStore() *memPortfolioStore {
	return &memPortfolioStore{
		instruments: map[string]*models.Instrument{},
		positions:   map[string]*models.Position{},
		deposits:    map[string]*models.FixedDeposit{},
	}
}

func (m *memPortfolioStore) SaveInstrument(_ context.Context, inst *models.Instrument) error {
	m.instruments[inst.Symbol] = inst
	return nil
}

func (m *memPortfolioStore) GetInstrument(_ context.Context, symbol string) (*models.Instrument, error) {
	inst, ok := m.instruments[symbol]
	if !ok {
		return nil, fmt.Errorf("instrument '%s' not found", symbol)
	}
	return inst, nil
}

func (m *memPortfolioStore) ListInstruments(_ context.Context) ([]*models.Instrument, error) {
	out := make([]*models.Instrument, 0, len(m.instruments))
	for _, inst := range m.instruments {
		out = append(out, inst)
	}
	return out, nil
}

func (m *memPortfolioStore) DeleteInstrument(_ context.Context, symbol string) error {
	delete(m.instruments, symbol)
	return nil
}

func (m *memPortfolioStore) SavePosition(_ context.Context, pos *models.Position) error {
	m.positions[pos.Symbol] = pos
	return nil
}

func (m *memPortfolioStore) GetPosition(_ context.Context, symbol string) (*models.Position, error) {
	pos, ok := m.positions[symbol]
	if !ok {
		return nil, fmt.Errorf("position '%s' not found", symbol)
	}
	return pos, nil
}

func (m *memPortfolioStore) ListPositions(_ context.Context) ([]*models.Position, error) {
	out := make([]*models.Position, 0, len(m.positions))
	for _, pos := range m.positions {
		out = append(out, pos)
	}
	return out, nil
}

func (m *memPortfolioStore) DeletePosition(_ context.Context, symbol string) error {
	delete(m.positions, symbol)
	return nil
}

func (m *memPortfolioStore) SaveDeposit(_ context.Context, dep *models.FixedDeposit) error {
	m.deposits[dep.ID] = dep
	return nil
}

func (m *memPortfolioStore) ListDeposits(_ context.Context) ([]*models.FixedDeposit, error) {
	out := make([]*models.FixedDeposit, 0, len(m.deposits))
	for _, dep := range m.deposits {
		out = append(out, dep)
	}
	return out, nil
}

func (m *memPortfolioStore) DeleteDeposit(_ context.Context, id string) error {
	delete(m.deposits, id)
	return nil
}

type memRateStore struct {
	snapshot *models.RateSnapshot
}

func (m *memRateStore) SaveRates(_ context.Context, snapshot *models.RateSnapshot) error {
	m.snapshot = snapshot
	return nil
}

func (m *memRateStore) GetRates(_ context.Context, base string) (*models.RateSnapshot, error) {
	if m.snapshot == nil {
		return nil, fmt.Errorf("rates for '%s' not found", base)
	}
	return m.snapshot, nil
}

type stubStorageManager struct {
	portfolioStore *memPortfolioStore
	rateStore      *memRateStore
}

func newStubStorage() *stubStorageManager {
	return &stubStorageManager{
		portfolioStore: newMemPortfolioStore(),
		rateStore:      &memRateStore{},
	}
}

func (s *stubStorageManager) PortfolioStore() interfaces.PortfolioStore { return s.portfolioStore }
func (s *stubStorageManager) RateStore() interfaces.RateStore           { return s.rateStore }
func (s *stubStorageManager) Close() error                              { return nil }

type stubRateService struct {
	table     models.RateTable
	fetchedAt time.Time
}

func (s *stubRateService) CurrentRates(_ context.Context) (models.RateTable, time.Time) {
	if s.table == nil {
		return models.NewRateTable("EUR"), time.Time{}
	}
	return s.table, s.fetchedAt
}

func (s *stubRateService) RefreshRates(_ context.Context) (models.RateTable, error) {
	return s.table, nil
}

type stubQuoteClient struct {
	quotes map[string]*models.Quote
	err    error
}

func (s *stubQuoteClient) GetQuote(_ context.Context, symbol string) (*models.Quote, error) {
	if s.err != nil {
		return nil, s.err
	}
	q, ok := s.quotes[symbol]
	if !ok {
		return nil, fmt.Errorf("no quote for %s", symbol)
	}
	return q, nil
}

func (s *stubQuoteClient) GetQuotes(_ context.Context, symbols []string) ([]*models.Quote, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*models.Quote, 0, len(symbols))
	for _, sym := range symbols {
		if q, ok := s.quotes[sym]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

func newTestService(storage *stubStorageManager, quotes interfaces.QuoteClient, rates interfaces.RateService) *Service {
	config := common.NewDefaultConfig()
	return NewService(storage, quotes, rates, config, common.NewSilentLogger())
}

func mustSave(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

// --- tests ---

func TestValuePortfolio_MixedCurrencies(t *testing.T) {
	ctx := context.Background()
	storage := newStubStorage()

	mustSave(t, storage.portfolioStore.SaveInstrument(ctx, &models.Instrument{
		Symbol: "TEST.L", Name: "Test plc", Kind: models.InstrumentKindEquity,
		Currency: "GBP", Price: 120, PreviousClose: 118,
	}))
	pos, err := models.NewPosition("TEST.L", 10, 100, 1.10, nil)
	if err != nil {
		t.Fatal(err)
	}
	mustSave(t, storage.portfolioStore.SavePosition(ctx, pos))

	rateService := &stubRateService{
		table:     models.RateTable{"EUR": 1, "GBP": 1 / 1.20},
		fetchedAt: time.Now().Add(-time.Hour),
	}
	svc := newTestService(storage, nil, rateService)

	valuation, err := svc.ValuePortfolio(ctx)
	if err != nil {
		t.Fatalf("ValuePortfolio: %v", err)
	}

	if len(valuation.Positions) != 1 {
		t.Fatalf("got %d positions, want 1", len(valuation.Positions))
	}
	vp := valuation.Positions[0]
	if !approxEqual(vp.CurrentValue, 1440, 0.01) {
		t.Errorf("CurrentValue = %.2f, want 1440", vp.CurrentValue)
	}
	if !approxEqual(vp.MarketImpact, 220, 0.01) {
		t.Errorf("MarketImpact = %.2f, want 220", vp.MarketImpact)
	}
	if !approxEqual(vp.FXImpact, 120, 0.01) {
		t.Errorf("FXImpact = %.2f, want 120", vp.FXImpact)
	}
	if !approxEqual(vp.Weight, 100, 0.01) {
		t.Errorf("Weight = %.2f, want 100 for a single position", vp.Weight)
	}
	if !approxEqual(valuation.Totals.Value, 1440, 0.01) {
		t.Errorf("Totals.Value = %.2f, want 1440", valuation.Totals.Value)
	}
	if !approxEqual(valuation.Totals.Gain, 340, 0.01) {
		t.Errorf("Totals.Gain = %.2f, want 340", valuation.Totals.Gain)
	}
	if valuation.RateAge <= 0 {
		t.Errorf("RateAge = %v, want positive for an hour-old snapshot", valuation.RateAge)
	}
}

func TestValuePortfolio_DropsOrphanPositions(t *testing.T) {
	ctx := context.Background()
	storage := newStubStorage()

	mustSave(t, storage.portfolioStore.SaveInstrument(ctx, &models.Instrument{
		Symbol: "KNOWN.DE", Kind: models.InstrumentKindEquity, Currency: "EUR", Price: 100,
	}))
	known, _ := models.NewPosition("KNOWN.DE", 10, 90, 1, nil)
	orphan, _ := models.NewPosition("GONE.DE", 5, 50, 1, nil)
	mustSave(t, storage.portfolioStore.SavePosition(ctx, known))
	mustSave(t, storage.portfolioStore.SavePosition(ctx, orphan))

	svc := newTestService(storage, nil, &stubRateService{})

	valuation, err := svc.ValuePortfolio(ctx)
	if err != nil {
		t.Fatalf("ValuePortfolio: %v", err)
	}

	if len(valuation.Positions) != 1 {
		t.Fatalf("got %d positions, want 1 (orphan dropped)", len(valuation.Positions))
	}
	if valuation.Positions[0].Symbol != "KNOWN.DE" {
		t.Errorf("kept %s, want KNOWN.DE", valuation.Positions[0].Symbol)
	}
	if !approxEqual(valuation.Totals.Value, 1000, 0.01) {
		t.Errorf("Totals.Value = %.2f, want 1000 without the orphan", valuation.Totals.Value)
	}
}

func TestValuePortfolio_IncludesDeposits(t *testing.T) {
	ctx := context.Background()
	storage := newStubStorage()

	dep, err := models.NewFixedDeposit("d1", "DKB", 10000, "USD", 3, "")
	if err != nil {
		t.Fatal(err)
	}
	mustSave(t, storage.portfolioStore.SaveDeposit(ctx, dep))

	rateService := &stubRateService{table: models.RateTable{"EUR": 1, "USD": 1.25}}
	svc := newTestService(storage, nil, rateService)

	valuation, err := svc.ValuePortfolio(ctx)
	if err != nil {
		t.Fatalf("ValuePortfolio: %v", err)
	}

	if len(valuation.Deposits) != 1 {
		t.Fatalf("got %d deposits, want 1", len(valuation.Deposits))
	}
	// 10000 USD at 1.25 USD/EUR = 8000 EUR
	if !approxEqual(valuation.Deposits[0].Value, 8000, 0.01) {
		t.Errorf("deposit Value = %.2f, want 8000", valuation.Deposits[0].Value)
	}
	// 300 USD interest = 240 EUR
	if !approxEqual(valuation.Totals.InterestIncome, 240, 0.01) {
		t.Errorf("InterestIncome = %.2f, want 240", valuation.Totals.InterestIncome)
	}
	if !approxEqual(valuation.Totals.Value, 8000, 0.01) {
		t.Errorf("Totals.Value = %.2f, want 8000", valuation.Totals.Value)
	}
}

func TestValuePortfolio_DividendIncomeInTotals(t *testing.T) {
	ctx := context.Background()
	storage := newStubStorage()

	mustSave(t, storage.portfolioStore.SaveInstrument(ctx, &models.Instrument{
		Symbol: "DIV.DE", Kind: models.InstrumentKindEquity, Currency: "EUR", Price: 100,
		Dividend: &models.DividendInfo{Amount: 0.60, Frequency: models.FrequencyQuarterly},
	}))
	pos, _ := models.NewPosition("DIV.DE", 50, 80, 1, nil)
	mustSave(t, storage.portfolioStore.SavePosition(ctx, pos))

	svc := newTestService(storage, nil, &stubRateService{})

	valuation, err := svc.ValuePortfolio(ctx)
	if err != nil {
		t.Fatalf("ValuePortfolio: %v", err)
	}

	// 0.60 x 4 x 50 shares
	if !approxEqual(valuation.Totals.DividendIncome, 120, 0.01) {
		t.Errorf("DividendIncome = %.2f, want 120", valuation.Totals.DividendIncome)
	}
	if !approxEqual(valuation.Totals.ProjectedIncome, 120, 0.01) {
		t.Errorf("ProjectedIncome = %.2f, want 120", valuation.Totals.ProjectedIncome)
	}
}

func TestAnalyzeRisk_UsesValuedPositions(t *testing.T) {
	ctx := context.Background()
	storage := newStubStorage()

	mustSave(t, storage.portfolioStore.SaveInstrument(ctx, &models.Instrument{
		Symbol: "BIG.DE", Name: "Big AG", Kind: models.InstrumentKindEquity,
		Currency: "EUR", Price: 100, Sector: "Technology", Country: "Germany",
	}))
	mustSave(t, storage.portfolioStore.SaveInstrument(ctx, &models.Instrument{
		Symbol: "SMALL.DE", Name: "Small AG", Kind: models.InstrumentKindEquity,
		Currency: "EUR", Price: 10, Sector: "Utilities", Country: "Germany",
	}))
	big, _ := models.NewPosition("BIG.DE", 90, 50, 1, nil)
	small, _ := models.NewPosition("SMALL.DE", 100, 5, 1, nil)
	mustSave(t, storage.portfolioStore.SavePosition(ctx, big))
	mustSave(t, storage.portfolioStore.SavePosition(ctx, small))

	svc := newTestService(storage, nil, &stubRateService{})

	analysis, err := svc.AnalyzeRisk(ctx)
	if err != nil {
		t.Fatalf("AnalyzeRisk: %v", err)
	}

	// BIG.DE is 9000 of 10000.
	if analysis.TopHolding.Name != "BIG.DE" {
		t.Errorf("TopHolding = %s, want BIG.DE", analysis.TopHolding.Name)
	}
	if !approxEqual(analysis.TopHolding.Percent, 90, 0.1) {
		t.Errorf("TopHolding.Percent = %.1f, want 90", analysis.TopHolding.Percent)
	}
	if analysis.Score >= 100 {
		t.Errorf("Score = %d, want penalty for 90%% concentration", analysis.Score)
	}
}

func TestAnalyzeRisk_EmptyPortfolio(t *testing.T) {
	svc := newTestService(newStubStorage(), nil, &stubRateService{})

	analysis, err := svc.AnalyzeRisk(context.Background())
	if err != nil {
		t.Fatalf("AnalyzeRisk: %v", err)
	}
	if analysis.Score != 100 {
		t.Errorf("Score = %d, want 100 for an empty portfolio", analysis.Score)
	}
}

func TestUpcomingIncome_MergesAndSorts(t *testing.T) {
	ctx := context.Background()
	storage := newStubStorage()
	asOf := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)

	early := time.Date(2026, time.July, 10, 0, 0, 0, 0, time.UTC)
	late := time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC)

	mustSave(t, storage.portfolioStore.SaveInstrument(ctx, &models.Instrument{
		Symbol: "A.DE", Kind: models.InstrumentKindEquity, Currency: "EUR", Price: 100,
		Dividend: &models.DividendInfo{Amount: 1, Schedule: []models.DividendDate{{PayDate: late}}},
	}))
	mustSave(t, storage.portfolioStore.SaveInstrument(ctx, &models.Instrument{
		Symbol: "B.DE", Kind: models.InstrumentKindEquity, Currency: "EUR", Price: 100,
		Dividend: &models.DividendInfo{Amount: 1, Schedule: []models.DividendDate{{PayDate: early}}},
	}))
	posA, _ := models.NewPosition("A.DE", 10, 90, 1, nil)
	posB, _ := models.NewPosition("B.DE", 10, 90, 1, nil)
	mustSave(t, storage.portfolioStore.SavePosition(ctx, posA))
	mustSave(t, storage.portfolioStore.SavePosition(ctx, posB))

	svc := newTestService(storage, nil, &stubRateService{})

	events, err := svc.UpcomingIncome(ctx, asOf)
	if err != nil {
		t.Fatalf("UpcomingIncome: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Symbol != "B.DE" || events[1].Symbol != "A.DE" {
		t.Errorf("events out of order: %s, %s", events[0].Symbol, events[1].Symbol)
	}
}

func TestSessions_PerInstrument(t *testing.T) {
	ctx := context.Background()
	storage := newStubStorage()

	mustSave(t, storage.portfolioStore.SaveInstrument(ctx, &models.Instrument{
		Symbol: "SAP.DE", Kind: models.InstrumentKindEquity, Currency: "EUR", Price: 100,
	}))
	mustSave(t, storage.portfolioStore.SaveInstrument(ctx, &models.Instrument{
		Symbol: "AAPL.US", Kind: models.InstrumentKindEquity, Currency: "USD", Price: 100,
	}))

	svc := newTestService(storage, nil, &stubRateService{})

	// Wednesday 10:00 UTC: XETRA open, NYSE not yet.
	now := time.Date(2026, time.September, 2, 10, 0, 0, 0, time.UTC)
	states, err := svc.Sessions(ctx, now)
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}

	if states["SAP.DE"] != models.SessionRegular {
		t.Errorf("SAP.DE = %s, want regular", states["SAP.DE"])
	}
	if states["AAPL.US"] != models.SessionPre {
		t.Errorf("AAPL.US = %s, want pre", states["AAPL.US"])
	}
}

func TestRefreshQuotes_UpdatesPrices(t *testing.T) {
	ctx := context.Background()
	storage := newStubStorage()

	mustSave(t, storage.portfolioStore.SaveInstrument(ctx, &models.Instrument{
		Symbol: "SAP.DE", Kind: models.InstrumentKindEquity, Currency: "EUR", Price: 100, PreviousClose: 99,
	}))

	quotes := &stubQuoteClient{quotes: map[string]*models.Quote{
		"SAP.DE": {Symbol: "SAP.DE", Price: 105, PreviousClose: 100, Currency: "EUR"},
	}}
	svc := newTestService(storage, quotes, &stubRateService{})

	updated, err := svc.RefreshQuotes(ctx)
	if err != nil {
		t.Fatalf("RefreshQuotes: %v", err)
	}
	if updated != 1 {
		t.Errorf("updated = %d, want 1", updated)
	}

	inst, err := storage.portfolioStore.GetInstrument(ctx, "SAP.DE")
	if err != nil {
		t.Fatal(err)
	}
	if inst.Price != 105 || inst.PreviousClose != 100 {
		t.Errorf("instrument = %v/%v, want 105/100", inst.Price, inst.PreviousClose)
	}
}

func TestRefreshQuotes_SkipsZeroPrices(t *testing.T) {
	ctx := context.Background()
	storage := newStubStorage()

	mustSave(t, storage.portfolioStore.SaveInstrument(ctx, &models.Instrument{
		Symbol: "SAP.DE", Kind: models.InstrumentKindEquity, Currency: "EUR", Price: 100,
	}))

	quotes := &stubQuoteClient{quotes: map[string]*models.Quote{
		"SAP.DE": {Symbol: "SAP.DE", Price: 0},
	}}
	svc := newTestService(storage, quotes, &stubRateService{})

	updated, err := svc.RefreshQuotes(ctx)
	if err != nil {
		t.Fatalf("RefreshQuotes: %v", err)
	}
	if updated != 0 {
		t.Errorf("updated = %d, want 0 for a zero price", updated)
	}

	inst, _ := storage.portfolioStore.GetInstrument(ctx, "SAP.DE")
	if inst.Price != 100 {
		t.Errorf("Price = %v, want untouched 100", inst.Price)
	}
}

func TestRefreshQuotes_NoProviderConfigured(t *testing.T) {
	svc := newTestService(newStubStorage(), nil, &stubRateService{})

	updated, err := svc.RefreshQuotes(context.Background())
	if err != nil {
		t.Fatalf("RefreshQuotes: %v", err)
	}
	if updated != 0 {
		t.Errorf("updated = %d, want 0 without a provider", updated)
	}
}
