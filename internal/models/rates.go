package models

import (
	"strings"
	"time"
)

// RateTable maps a currency code to the number of units of that currency per
// one unit of the reference currency. A table always carries an identity
// entry for the reference currency itself. The core treats every table as an
// immutable snapshot; refresh cadence is the caller's concern.
type RateTable map[string]float64

// NewRateTable returns a table seeded with the identity entry for the
// reference currency.
func NewRateTable(reference string) RateTable {
	return RateTable{strings.ToUpper(reference): 1}
}

// Rate returns the rate for a currency code. A missing or non-positive entry
// falls back to 1: the core favors producing a number over failing when the
// injected table is stale or partial.
func (t RateTable) Rate(code string) float64 {
	if r, ok := t[strings.ToUpper(code)]; ok && r > 0 {
		return r
	}
	return 1
}

// Has reports whether the table carries a usable entry for the code.
func (t RateTable) Has(code string) bool {
	r, ok := t[strings.ToUpper(code)]
	return ok && r > 0
}

// RateSnapshot is a persisted exchange-rate table with its provenance.
type RateSnapshot struct {
	Base      string    `json:"base"` // reference currency
	Rates     RateTable `json:"rates"`
	FetchedAt time.Time `json:"fetched_at"`
}
