// Package valuation computes per-position market values, cost bases and
// gain/loss figures, decomposing the reference-currency gain into a market
// component and an FX component.
package valuation

import (
	"math"

	"github.com/oliverwade/folio/internal/fx"
	"github.com/oliverwade/folio/internal/models"
)

// aboveReference lists currencies that have always traded above the EUR
// reference. A stored entry rate below 1 for one of these is almost
// certainly an inverted legacy record (native per reference instead of
// reference per native).
var aboveReference = map[string]bool{
	"GBP": true,
}

// RepairEntryRate applies the inverted-rate heuristic: when the stored entry
// rate for a currency known to trade above the reference currency is below 1,
// the reciprocal is returned with repaired=true. This is a best-effort repair
// of legacy data, not a guarantee; it is a named step so it can be tested in
// isolation and disabled per valuator.
func RepairEntryRate(rate float64, currency string) (repaired float64, applied bool) {
	if rate > 0 && rate < 1 && aboveReference[currency] {
		return 1 / rate, true
	}
	return rate, false
}

// Valuator values positions against a rate table. Pure and safe for
// concurrent use.
type Valuator struct {
	conv   fx.Converter
	repair bool
}

// Option configures a Valuator.
type Option func(*Valuator)

// WithoutEntryRateRepair disables the inverted-entry-rate heuristic.
func WithoutEntryRateRepair() Option {
	return func(v *Valuator) {
		v.repair = false
	}
}

// NewValuator creates a Valuator. Entry-rate repair is on by default.
func NewValuator(conv fx.Converter, opts ...Option) *Valuator {
	v := &Valuator{conv: conv, repair: true}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Valuate computes the full valuation for one position. It never fails:
// invalid numeric inputs degrade to zero figures.
func (v *Valuator) Valuate(pos *models.Position, inst *models.Instrument, table models.RateTable) models.ValuedPosition {
	shares := pos.Shares
	if math.IsNaN(shares) || shares < 0 {
		shares = 0
	}
	price := inst.Price
	if math.IsNaN(price) || price < 0 {
		price = 0
	}

	currentValueNative := shares * price
	costBasisNative := sanitizedCostBasis(pos, shares)

	// Minor-unit quotes are normalized to major units before combining with
	// an FX rate expressed in major-unit terms.
	normCurrent, major := fx.NormalizeUnit(currentValueNative, inst.Currency)
	normCost, _ := fx.NormalizeUnit(costBasisNative, inst.Currency)

	currentRate := 1.0
	entryRate := 1.0
	repaired := false
	if major != v.conv.Reference() {
		currentRate = v.conv.Convert(1, major, v.conv.Reference(), table)
		entryRate = pos.EntryRate
		if v.repair {
			entryRate, repaired = RepairEntryRate(entryRate, major)
		}
		if entryRate <= 0 || math.IsNaN(entryRate) {
			entryRate = 1
		}
	}

	currentValue := normCurrent * currentRate
	costBasis := normCost * entryRate
	gain := currentValue - costBasis

	// What today's native value would be worth had the exchange rate never
	// moved since entry. The remainder of the gain is FX movement.
	valueAtEntryRate := normCurrent * entryRate
	fxImpact := currentValue - valueAtEntryRate
	marketImpact := valueAtEntryRate - costBasis

	gainNative := currentValueNative - costBasisNative

	dailyChangeNative := 0.0
	if inst.PreviousClose > 0 {
		dailyChangeNative = (price - inst.PreviousClose) * shares
	}
	// Today's move is converted at the current rate, not the entry rate.
	normDaily, _ := fx.NormalizeUnit(dailyChangeNative, inst.Currency)
	dailyChange := normDaily * currentRate

	return models.ValuedPosition{
		Symbol:             inst.Symbol,
		Name:               inst.Name,
		Kind:               inst.Kind,
		Currency:           inst.Currency,
		Shares:             shares,
		Price:              price,
		PreviousClose:      inst.PreviousClose,
		CurrentValueNative: currentValueNative,
		CostBasisNative:    costBasisNative,
		GainNative:         gainNative,
		GainNativePct:      pct(gainNative, costBasisNative),
		DailyChangeNative:  dailyChangeNative,
		CurrentValue:       currentValue,
		CostBasis:          costBasis,
		Gain:               gain,
		GainPct:            pct(gain, costBasis),
		DailyChange:        dailyChange,
		MarketImpact:       marketImpact,
		FXImpact:           fxImpact,
		CurrentRate:        currentRate,
		EntryRate:          entryRate,
		EntryRateRepaired:  repaired,
		Sector:             inst.Sector,
		Country:            inst.Country,
	}
}

// sanitizedCostBasis mirrors Position.CostBasisNative but tolerates invalid
// numerics: NaN or negative lot values are skipped, and the average-cost
// fallback uses the already sanitized share count.
func sanitizedCostBasis(pos *models.Position, shares float64) float64 {
	if len(pos.Lots) > 0 {
		total := 0.0
		for _, l := range pos.Lots {
			v := l.Shares * l.Price
			if math.IsNaN(v) || v < 0 {
				continue
			}
			total += v
		}
		return total
	}
	price := pos.AvgEntryPrice
	if math.IsNaN(price) || price < 0 {
		price = 0
	}
	return shares * price
}

// pct computes gain/basis*100, defined as 0 for a zero basis.
func pct(gain, basis float64) float64 {
	if basis == 0 {
		return 0
	}
	return gain / basis * 100
}
