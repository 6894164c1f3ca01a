package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Lot is a single purchase within a position, used for historically-accurate
// cost basis when trade history is tracked.
type Lot struct {
	Shares float64   `json:"shares"`
	Price  float64   `json:"price"` // native currency per share
	Date   time.Time `json:"date"`
}

// Position is a holding of an instrument.
// EntryRate is the FX rate in effect at entry, expressed as reference-currency
// units per one native-currency unit (e.g. EUR per GBP).
type Position struct {
	Symbol        string    `json:"symbol"`
	Shares        float64   `json:"shares"`
	AvgEntryPrice float64   `json:"avg_entry_price"` // native currency
	EntryRate     float64   `json:"entry_rate"`
	Lots          []Lot     `json:"lots,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// lotShareTolerance allows for float drift between the declared share count
// and the sum of lot shares.
const lotShareTolerance = 1e-6

// NewPosition creates a Position, validating invariants at creation time:
// shares non-negative, entry rate strictly positive, and when lots are
// tracked the share count must equal the sum of the lots.
func NewPosition(symbol string, shares, avgEntryPrice, entryRate float64, lots []Lot) (*Position, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("position symbol is required")
	}
	if math.IsNaN(shares) || shares < 0 {
		return nil, fmt.Errorf("position shares must be non-negative, got %v", shares)
	}
	if math.IsNaN(entryRate) || entryRate <= 0 {
		return nil, fmt.Errorf("position entry rate must be positive, got %v", entryRate)
	}
	if math.IsNaN(avgEntryPrice) || avgEntryPrice < 0 {
		return nil, fmt.Errorf("position entry price must be non-negative, got %v", avgEntryPrice)
	}
	if len(lots) > 0 {
		var lotShares float64
		for _, l := range lots {
			if math.IsNaN(l.Shares) || l.Shares < 0 || math.IsNaN(l.Price) || l.Price < 0 {
				return nil, fmt.Errorf("position lot has invalid shares/price")
			}
			lotShares += l.Shares
		}
		if math.Abs(lotShares-shares) > lotShareTolerance {
			return nil, fmt.Errorf("position shares %v do not match lot total %v", shares, lotShares)
		}
	}
	now := time.Now()
	return &Position{
		Symbol:        symbol,
		Shares:        shares,
		AvgEntryPrice: avgEntryPrice,
		EntryRate:     entryRate,
		Lots:          lots,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// CostBasisNative returns the cost basis in the instrument's native currency:
// the sum over lots when trade history is tracked, otherwise
// shares x average entry price.
func (p *Position) CostBasisNative() float64 {
	if len(p.Lots) > 0 {
		total := 0.0
		for _, l := range p.Lots {
			total += l.Shares * l.Price
		}
		return total
	}
	return p.Shares * p.AvgEntryPrice
}
