package models

import "time"

// ValuedPosition joins a Position with its Instrument and the computed
// valuation figures. Recomputed on every valuation pass; never persisted.
type ValuedPosition struct {
	Symbol   string         `json:"symbol"`
	Name     string         `json:"name"`
	Kind     InstrumentKind `json:"kind"`
	Currency string         `json:"currency"` // quote currency as stored (may be GBX)
	Shares   float64        `json:"shares"`

	Price         float64 `json:"price"`
	PreviousClose float64 `json:"previous_close"`

	// Native-currency figures (quote currency, un-normalized)
	CurrentValueNative float64 `json:"current_value_native"`
	CostBasisNative    float64 `json:"cost_basis_native"`
	GainNative         float64 `json:"gain_native"`
	GainNativePct      float64 `json:"gain_native_pct"`
	DailyChangeNative  float64 `json:"daily_change_native"`

	// Reference-currency figures
	CurrentValue float64 `json:"current_value"`
	CostBasis    float64 `json:"cost_basis"`
	Gain         float64 `json:"gain"`
	GainPct      float64 `json:"gain_pct"`
	DailyChange  float64 `json:"daily_change"`

	// Gain decomposition: MarketImpact + FXImpact == Gain
	MarketImpact float64 `json:"market_impact"`
	FXImpact     float64 `json:"fx_impact"`

	// Rates used (reference units per native major unit)
	CurrentRate       float64 `json:"current_rate"`
	EntryRate         float64 `json:"entry_rate"`
	EntryRateRepaired bool    `json:"entry_rate_repaired,omitempty"`

	Weight  float64 `json:"weight"` // percent of equity value
	Sector  string  `json:"sector,omitempty"`
	Country string  `json:"country,omitempty"`
}

// ValuedDeposit is a fixed deposit converted to the reference currency with
// its projected annual interest.
type ValuedDeposit struct {
	ID                string      `json:"id"`
	Bank              string      `json:"bank"`
	Kind              DepositKind `json:"kind"`
	Currency          string      `json:"currency"`
	Amount            float64     `json:"amount"`             // principal, native
	Value             float64     `json:"value"`              // reference currency
	ProjectedInterest float64     `json:"projected_interest"` // reference currency
}

// Totals aggregates the whole portfolio in the reference currency.
type Totals struct {
	Value          float64 `json:"value"` // equities + funds + deposits
	EquityValue    float64 `json:"equity_value"`
	DepositValue   float64 `json:"deposit_value"`
	CostBasis      float64 `json:"cost_basis"`
	Gain           float64 `json:"gain"`
	GainPct        float64 `json:"gain_pct"`
	DailyChange    float64 `json:"daily_change"`
	DailyChangePct float64 `json:"daily_change_pct"`

	// Projected annual income, split by source
	DividendIncome  float64 `json:"dividend_income"`
	InterestIncome  float64 `json:"interest_income"`
	ProjectedIncome float64 `json:"projected_income"`
}

// PortfolioValuation is the full valuation pass output.
type PortfolioValuation struct {
	Reference string           `json:"reference"` // reference currency code
	AsOf      time.Time        `json:"as_of"`
	Positions []ValuedPosition `json:"positions"`
	Deposits  []ValuedDeposit  `json:"deposits,omitempty"`
	Totals    Totals           `json:"totals"`
	RateAge   time.Duration    `json:"-"` // age of the rate snapshot used
}

// PayoutEvent is a single upcoming dividend payment for a position.
type PayoutEvent struct {
	Symbol   string    `json:"symbol"`
	Date     time.Time `json:"date"`
	Amount   float64   `json:"amount"` // per-payment total for the position
	Currency string    `json:"currency"`
}
