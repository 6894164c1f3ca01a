// Package fx converts monetary amounts between currency codes via a single
// reference currency, using a caller-supplied rate table. There is exactly
// one converter in the codebase; every calculator receives the rate table
// explicitly, never through ambient state.
package fx

import (
	"strings"

	"github.com/oliverwade/folio/internal/models"
)

const (
	// DefaultReference is the currency all cross-instrument totals are
	// expressed in unless configured otherwise.
	DefaultReference = "EUR"

	// PenceCode is the minor-unit quotation used by London-listed
	// instruments: 100 GBX = 1 GBP.
	PenceCode  = "GBX"
	penceMajor = "GBP"
)

// Converter converts amounts between currencies via the reference currency.
// The zero value is not usable; construct with NewConverter.
type Converter struct {
	reference string
}

// NewConverter returns a Converter for the given reference currency,
// defaulting to DefaultReference when empty.
func NewConverter(reference string) Converter {
	reference = strings.ToUpper(strings.TrimSpace(reference))
	if reference == "" {
		reference = DefaultReference
	}
	return Converter{reference: reference}
}

// Reference returns the reference currency code.
func (c Converter) Reference() string {
	return c.reference
}

// NormalizeUnit maps a minor-unit quoted amount to its major currency:
// GBX amounts are divided by 100 and relabeled GBP. Other currencies pass
// through unchanged.
func NormalizeUnit(amount float64, currency string) (float64, string) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == PenceCode {
		return amount / 100, penceMajor
	}
	return amount, currency
}

// Convert converts amount from one currency code to another using the
// supplied rate table (units of currency per 1 reference unit).
//
// Missing rate entries fall back to 1 rather than failing: the valuation
// pass must always produce a number even against a stale or partial table.
func (c Converter) Convert(amount float64, from, to string, table models.RateTable) float64 {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == to {
		return amount
	}

	amount, from = NormalizeUnit(amount, from)

	toPence := to == PenceCode
	if toPence {
		to = penceMajor
	}

	result := amount
	if from != to {
		inReference := amount
		if from != c.reference {
			inReference = amount / table.Rate(from)
		}
		result = inReference
		if to != c.reference {
			result = inReference * table.Rate(to)
		}
	}

	if toPence {
		result *= 100
	}
	return result
}

// RateFor returns the live FX rate for one major unit of the currency,
// expressed as reference-currency units per native unit. The reference
// currency itself (and any currency missing from the table) rates 1.
// GBX rates are quoted per pence.
func (c Converter) RateFor(currency string, table models.RateTable) float64 {
	return c.Convert(1, currency, c.reference, table)
}
