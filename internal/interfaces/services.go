package interfaces

import (
	"context"
	"time"

	"github.com/oliverwade/folio/internal/models"
)

// PortfolioService values the portfolio and derives risk, income and session
// views from it.
type PortfolioService interface {
	// ValuePortfolio runs a full valuation pass over positions and deposits.
	ValuePortfolio(ctx context.Context) (*models.PortfolioValuation, error)

	// AnalyzeRisk computes concentration clusters and the diversification
	// score over the valued equity/fund positions.
	AnalyzeRisk(ctx context.Context) (*models.RiskAnalysis, error)

	// UpcomingIncome returns the merged payout calendar across all
	// positions, ascending by pay date.
	UpcomingIncome(ctx context.Context, asOf time.Time) ([]models.PayoutEvent, error)

	// Sessions returns the estimated trading-session state per instrument.
	Sessions(ctx context.Context, now time.Time) (map[string]models.MarketSession, error)

	// RefreshQuotes updates stored instrument prices from the quote
	// provider.
	RefreshQuotes(ctx context.Context) (int, error)
}

// RateService owns the exchange-rate snapshot lifecycle.
type RateService interface {
	// CurrentRates returns the latest stored snapshot, or an identity table
	// when none has been fetched yet.
	CurrentRates(ctx context.Context) (models.RateTable, time.Time)

	// RefreshRates fetches a fresh table from the provider and stores it.
	// On failure the previous snapshot remains in effect.
	RefreshRates(ctx context.Context) (models.RateTable, error)
}
