// Package portfolio composes the per-position calculators into
// portfolio-wide valuations, risk analysis, income projections and market
// session views.
package portfolio

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/oliverwade/folio/internal/common"
	"github.com/oliverwade/folio/internal/dividends"
	"github.com/oliverwade/folio/internal/fx"
	"github.com/oliverwade/folio/internal/interfaces"
	"github.com/oliverwade/folio/internal/models"
	"github.com/oliverwade/folio/internal/risk"
	"github.com/oliverwade/folio/internal/sessions"
	"github.com/oliverwade/folio/internal/valuation"
)

// Service implements PortfolioService
type Service struct {
	storage   interfaces.StorageManager
	quotes    interfaces.QuoteClient
	rates     interfaces.RateService
	conv      fx.Converter
	valuator  *valuation.Valuator
	projector *dividends.Projector
	analyzer  *risk.Analyzer
	logger    *common.Logger
}

// NewService creates a new portfolio service. quotes may be nil when no
// provider is configured; RefreshQuotes then reports zero updates.
func NewService(
	storage interfaces.StorageManager,
	quotes interfaces.QuoteClient,
	rates interfaces.RateService,
	config *common.Config,
	logger *common.Logger,
) *Service {
	conv := fx.NewConverter(config.ReferenceCurrency)
	return &Service{
		storage:   storage,
		quotes:    quotes,
		rates:     rates,
		conv:      conv,
		valuator:  valuation.NewValuator(conv),
		projector: dividends.NewProjector(conv),
		analyzer:  risk.NewAnalyzer(risk.WithWorldUSWeight(config.WorldUSWeight)),
		logger:    logger,
	}
}

// ValuePortfolio runs a full valuation pass: every position joined with its
// instrument, valued and income-projected, plus fixed deposits, rolled up
// into portfolio totals. Positions whose instrument is missing from the
// catalog are dropped from all aggregates rather than failing the pass.
func (s *Service) ValuePortfolio(ctx context.Context) (*models.PortfolioValuation, error) {
	positions, instruments, deposits, err := s.loadRecords(ctx)
	if err != nil {
		return nil, err
	}

	table, fetchedAt := s.rates.CurrentRates(ctx)

	result := &models.PortfolioValuation{
		Reference: s.conv.Reference(),
		AsOf:      time.Now(),
		Positions: make([]models.ValuedPosition, 0, len(positions)),
		Deposits:  make([]models.ValuedDeposit, 0, len(deposits)),
	}
	if !fetchedAt.IsZero() {
		result.RateAge = time.Since(fetchedAt)
	}

	totals := models.Totals{}

	for _, pos := range positions {
		inst, ok := instruments[pos.Symbol]
		if !ok {
			// Transient consistency gap between positions and the
			// instrument catalog.
			s.logger.Warn().Str("symbol", pos.Symbol).Msg("Position references unknown instrument, dropped from aggregates")
			continue
		}

		vp := s.valuator.Valuate(pos, inst, table)
		result.Positions = append(result.Positions, vp)

		totals.EquityValue += vp.CurrentValue
		totals.CostBasis += vp.CostBasis
		totals.Gain += vp.Gain
		totals.DailyChange += vp.DailyChange
		totals.DividendIncome += s.projector.AnnualIncome(pos, inst, table)
	}

	for i := range result.Positions {
		if totals.EquityValue > 0 {
			result.Positions[i].Weight = result.Positions[i].CurrentValue / totals.EquityValue * 100
		}
	}

	for _, dep := range deposits {
		value := s.conv.Convert(dep.Amount, dep.Currency, s.conv.Reference(), table)
		interest := s.conv.Convert(dep.ProjectedInterest(), dep.Currency, s.conv.Reference(), table)
		result.Deposits = append(result.Deposits, models.ValuedDeposit{
			ID:                dep.ID,
			Bank:              dep.Bank,
			Kind:              dep.Kind,
			Currency:          dep.Currency,
			Amount:            dep.Amount,
			Value:             value,
			ProjectedInterest: interest,
		})
		totals.DepositValue += value
		totals.InterestIncome += interest
	}

	totals.Value = totals.EquityValue + totals.DepositValue
	totals.ProjectedIncome = totals.DividendIncome + totals.InterestIncome
	if totals.CostBasis > 0 {
		totals.GainPct = totals.Gain / totals.CostBasis * 100
	}
	if totals.Value > 0 {
		totals.DailyChangePct = totals.DailyChange / totals.Value * 100
	}
	result.Totals = totals

	s.logger.Info().
		Int("positions", len(result.Positions)).
		Int("deposits", len(result.Deposits)).
		Float64("value", totals.Value).
		Msg("Portfolio valued")

	return result, nil
}

// AnalyzeRisk values all positions and feeds them to the concentration
// analyzer.
func (s *Service) AnalyzeRisk(ctx context.Context) (*models.RiskAnalysis, error) {
	positions, instruments, _, err := s.loadRecords(ctx)
	if err != nil {
		return nil, err
	}

	table, _ := s.rates.CurrentRates(ctx)

	entries := make([]risk.Entry, 0, len(positions))
	for _, pos := range positions {
		inst, ok := instruments[pos.Symbol]
		if !ok {
			continue
		}
		vp := s.valuator.Valuate(pos, inst, table)
		entries = append(entries, risk.Entry{Instrument: inst, Value: vp.CurrentValue})
	}

	analysis := s.analyzer.Analyze(entries)

	s.logger.Info().
		Int("positions", len(entries)).
		Int("score", analysis.Score).
		Int("clusters", len(analysis.Clusters)).
		Msg("Risk analysis complete")

	return &analysis, nil
}

// UpcomingIncome merges the payout calendars of all positions, ascending by
// pay date.
func (s *Service) UpcomingIncome(ctx context.Context, asOf time.Time) ([]models.PayoutEvent, error) {
	positions, instruments, _, err := s.loadRecords(ctx)
	if err != nil {
		return nil, err
	}

	events := make([]models.PayoutEvent, 0)
	for _, pos := range positions {
		inst, ok := instruments[pos.Symbol]
		if !ok {
			continue
		}
		events = append(events, s.projector.UpcomingPayouts(pos, inst, asOf)...)
	}

	sort.Slice(events, func(i, j int) bool { return events[i].Date.Before(events[j].Date) })
	return events, nil
}

// Sessions estimates the trading-session state for every cataloged
// instrument.
func (s *Service) Sessions(ctx context.Context, now time.Time) (map[string]models.MarketSession, error) {
	instruments, err := s.storage.PortfolioStore().ListInstruments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list instruments: %w", err)
	}

	states := make(map[string]models.MarketSession, len(instruments))
	for _, inst := range instruments {
		states[inst.Symbol] = sessions.Estimate(inst.Symbol, inst.Currency, now)
	}
	return states, nil
}

// RefreshQuotes updates stored instrument prices from the quote provider and
// returns the number of instruments updated.
func (s *Service) RefreshQuotes(ctx context.Context) (int, error) {
	if s.quotes == nil {
		return 0, nil
	}

	instruments, err := s.storage.PortfolioStore().ListInstruments(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list instruments: %w", err)
	}
	if len(instruments) == 0 {
		return 0, nil
	}

	symbols := make([]string, 0, len(instruments))
	bySymbol := make(map[string]*models.Instrument, len(instruments))
	for _, inst := range instruments {
		symbols = append(symbols, inst.Symbol)
		bySymbol[inst.Symbol] = inst
	}

	quotes, err := s.quotes.GetQuotes(ctx, symbols)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch quotes: %w", err)
	}

	updated := 0
	for _, q := range quotes {
		inst, ok := bySymbol[q.Symbol]
		if !ok || q.Price <= 0 {
			continue
		}
		inst.Price = q.Price
		if q.PreviousClose > 0 {
			inst.PreviousClose = q.PreviousClose
		}
		if err := s.storage.PortfolioStore().SaveInstrument(ctx, inst); err != nil {
			s.logger.Warn().Err(err).Str("symbol", inst.Symbol).Msg("Failed to save refreshed quote")
			continue
		}
		updated++
	}

	s.logger.Info().Int("updated", updated).Msg("Quotes refreshed")
	return updated, nil
}

// loadRecords fetches the read-only snapshot a computation pass works from.
func (s *Service) loadRecords(ctx context.Context) ([]*models.Position, map[string]*models.Instrument, []*models.FixedDeposit, error) {
	store := s.storage.PortfolioStore()

	positions, err := store.ListPositions(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list positions: %w", err)
	}

	instruments, err := store.ListInstruments(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list instruments: %w", err)
	}

	deposits, err := store.ListDeposits(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list deposits: %w", err)
	}

	bySymbol := make(map[string]*models.Instrument, len(instruments))
	for _, inst := range instruments {
		bySymbol[inst.Symbol] = inst
	}

	return positions, bySymbol, deposits, nil
}

// Ensure Service implements PortfolioService
var _ interfaces.PortfolioService = (*Service)(nil)
