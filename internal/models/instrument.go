// Package models defines data structures for Folio
package models

import (
	"fmt"
	"strings"
	"time"
)

// InstrumentKind distinguishes single equities from collective funds/ETFs.
type InstrumentKind string

const (
	InstrumentKindEquity InstrumentKind = "equity"
	InstrumentKindFund   InstrumentKind = "fund"
)

// DividendFrequency is the payout cadence of an instrument.
type DividendFrequency string

const (
	FrequencyMonthly    DividendFrequency = "monthly"
	FrequencyQuarterly  DividendFrequency = "quarterly"
	FrequencySemiAnnual DividendFrequency = "semi_annual"
	FrequencyAnnual     DividendFrequency = "annual"
)

// Factor returns the number of payments per year for the frequency.
// Unknown or empty frequencies count as a single annual payment.
func (f DividendFrequency) Factor() float64 {
	switch f {
	case FrequencyMonthly:
		return 12
	case FrequencyQuarterly:
		return 4
	case FrequencySemiAnnual:
		return 2
	case FrequencyAnnual:
		return 1
	default:
		return 1
	}
}

// MaxDividendSchedule caps the explicit per-instrument payout date list.
const MaxDividendSchedule = 8

// Weight is a labeled percentage allocation (sector or country) within a fund.
// Weights are applied independently and need not sum to 100.
type Weight struct {
	Name string  `json:"name"`
	Pct  float64 `json:"pct"`
}

// DividendDate pairs an ex-dividend date with its payment date.
type DividendDate struct {
	ExDate  time.Time `json:"ex_date"`
	PayDate time.Time `json:"pay_date"`
}

// DividendInfo holds dividend metadata for an instrument.
// Amount is per payment (not per year) in the dividend currency; when both
// Amount and YieldPct are present, Amount wins.
type DividendInfo struct {
	Amount    float64           `json:"amount,omitempty"`    // per-payment amount
	YieldPct  float64           `json:"yield_pct,omitempty"` // trailing yield, percent
	Frequency DividendFrequency `json:"frequency,omitempty"`
	ExDate    *time.Time        `json:"ex_date,omitempty"`
	PayDate   *time.Time        `json:"pay_date,omitempty"`
	Schedule  []DividendDate    `json:"schedule,omitempty"` // explicit dated payments, ascending
	Currency  string            `json:"currency,omitempty"` // defaults to the quote currency
}

// Instrument represents a tradable security (equity or fund).
type Instrument struct {
	Symbol         string         `json:"symbol"`
	ISIN           string         `json:"isin,omitempty"`
	WKN            string         `json:"wkn,omitempty"` // local security code
	Name           string         `json:"name"`
	Kind           InstrumentKind `json:"kind"`
	Currency       string         `json:"currency"` // quote currency (may be GBX)
	Price          float64        `json:"price"`
	PreviousClose  float64        `json:"previous_close"`
	Sector         string         `json:"sector,omitempty"`
	Country        string         `json:"country,omitempty"`
	SectorWeights  []Weight       `json:"sector_weights,omitempty"`  // fund look-through
	CountryWeights []Weight       `json:"country_weights,omitempty"` // fund look-through
	Dividend       *DividendInfo  `json:"dividend,omitempty"`
	TargetPrice    float64        `json:"target_price,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// NewInstrument creates an Instrument, validating identity and currency.
func NewInstrument(symbol, name string, kind InstrumentKind, currency string) (*Instrument, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("instrument symbol is required")
	}
	if kind != InstrumentKindEquity && kind != InstrumentKindFund {
		return nil, fmt.Errorf("invalid instrument kind '%s'", kind)
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return nil, fmt.Errorf("instrument currency is required")
	}
	now := time.Now()
	return &Instrument{
		Symbol:    symbol,
		Name:      name,
		Kind:      kind,
		Currency:  currency,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Validate checks invariants on an instrument edited or imported as a whole.
func (i *Instrument) Validate() error {
	if strings.TrimSpace(i.Symbol) == "" {
		return fmt.Errorf("instrument symbol is required")
	}
	if i.Kind != InstrumentKindEquity && i.Kind != InstrumentKindFund {
		return fmt.Errorf("invalid instrument kind '%s'", i.Kind)
	}
	if strings.TrimSpace(i.Currency) == "" {
		return fmt.Errorf("instrument currency is required")
	}
	if i.Dividend != nil && len(i.Dividend.Schedule) > MaxDividendSchedule {
		return fmt.Errorf("dividend schedule exceeds %d entries", MaxDividendSchedule)
	}
	return nil
}

// IsFund reports whether the instrument is a collective fund/ETF.
func (i *Instrument) IsFund() bool {
	return i.Kind == InstrumentKindFund
}

// PayoutCurrency returns the currency dividends are paid in, defaulting to
// the quote currency when no dividend currency is set.
func (i *Instrument) PayoutCurrency() string {
	if i.Dividend != nil && i.Dividend.Currency != "" {
		return i.Dividend.Currency
	}
	return i.Currency
}
