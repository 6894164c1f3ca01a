package interfaces

import (
	"context"

	"github.com/oliverwade/folio/internal/models"
)

// QuoteClient fetches live price snapshots from a market-data provider.
type QuoteClient interface {
	// GetQuote returns the current price, previous close, currency and
	// timestamp for a symbol.
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)

	// GetQuotes fetches quotes for multiple symbols; missing symbols are
	// skipped, not errors.
	GetQuotes(ctx context.Context, symbols []string) ([]*models.Quote, error)
}

// RateClient fetches a full exchange-rate table from a reference-rate
// provider.
type RateClient interface {
	// GetRates returns units of each requested currency per 1 unit of base.
	GetRates(ctx context.Context, base string, symbols []string) (models.RateTable, error)
}
