// Package dividends projects dividend income and upcoming payout events from
// per-instrument dividend metadata. All missing-data cases degrade to zero
// contribution; nothing here fails.
package dividends

import (
	"sort"
	"time"

	"github.com/oliverwade/folio/internal/fx"
	"github.com/oliverwade/folio/internal/models"
)

// Projector derives annual income and payout schedules for positions.
type Projector struct {
	conv fx.Converter
}

// NewProjector creates a Projector converting income into the reference
// currency of conv.
func NewProjector(conv fx.Converter) *Projector {
	return &Projector{conv: conv}
}

// PerPayment returns the amount paid per share per payment in the payout
// currency. The explicit per-payment amount wins over the trailing yield;
// with only a yield the per-payment amount is the annual amount divided by
// the frequency factor.
func (p *Projector) PerPayment(inst *models.Instrument) float64 {
	d := inst.Dividend
	if d == nil {
		return 0
	}
	if d.Amount > 0 {
		return d.Amount
	}
	if d.YieldPct > 0 {
		return inst.Price * d.YieldPct / 100 / d.Frequency.Factor()
	}
	return 0
}

// AnnualIncomeNative returns the projected annual dividend income for the
// position in the instrument's payout currency.
func (p *Projector) AnnualIncomeNative(pos *models.Position, inst *models.Instrument) float64 {
	d := inst.Dividend
	if d == nil || pos.Shares <= 0 {
		return 0
	}
	if d.Amount > 0 {
		// Amount is per payment, not per year.
		return d.Amount * d.Frequency.Factor() * pos.Shares
	}
	if d.YieldPct > 0 {
		return pos.Shares * inst.Price * d.YieldPct / 100
	}
	return 0
}

// AnnualIncome returns the projected annual dividend income converted to the
// reference currency.
func (p *Projector) AnnualIncome(pos *models.Position, inst *models.Instrument, table models.RateTable) float64 {
	native := p.AnnualIncomeNative(pos, inst)
	if native == 0 {
		return 0
	}
	return p.conv.Convert(native, p.payoutCurrency(pos, inst), p.conv.Reference(), table)
}

// payoutCurrency picks the currency income is denominated in. Yield-derived
// income is based on the quote price and therefore quoted in the instrument
// currency regardless of the dividend currency.
func (p *Projector) payoutCurrency(pos *models.Position, inst *models.Instrument) string {
	if inst.Dividend != nil && inst.Dividend.Amount > 0 {
		return inst.PayoutCurrency()
	}
	return inst.Currency
}

// UpcomingPayouts returns the position's future payout events on or after
// asOf, ascending by pay date. Instruments with an explicit dated schedule
// surface each future entry; instruments with only a single recurring pay
// date get synthesized occurrences per frequency (months wrap modulo 12).
// Instruments with no known date are excluded entirely.
func (p *Projector) UpcomingPayouts(pos *models.Position, inst *models.Instrument, asOf time.Time) []models.PayoutEvent {
	d := inst.Dividend
	if d == nil || pos.Shares <= 0 {
		return nil
	}
	perShare := p.PerPayment(inst)
	if perShare <= 0 {
		return nil
	}
	amount := perShare * pos.Shares
	currency := inst.PayoutCurrency()
	day := asOf.Truncate(24 * time.Hour)

	events := make([]models.PayoutEvent, 0, 4)

	if len(d.Schedule) > 0 {
		for _, entry := range d.Schedule {
			if entry.PayDate.Before(day) {
				continue
			}
			events = append(events, models.PayoutEvent{
				Symbol:   inst.Symbol,
				Date:     entry.PayDate,
				Amount:   amount,
				Currency: currency,
			})
		}
	} else if d.PayDate != nil {
		for _, date := range recurrences(*d.PayDate, d.Frequency, day) {
			events = append(events, models.PayoutEvent{
				Symbol:   inst.Symbol,
				Date:     date,
				Amount:   amount,
				Currency: currency,
			})
		}
	} else {
		// No date known: counted in the annual total, absent from the
		// schedule.
		return nil
	}

	sort.Slice(events, func(i, j int) bool { return events[i].Date.Before(events[j].Date) })
	return events
}

// monthOffsets returns the month offsets from the base month at which a
// payment recurs within a year.
func monthOffsets(freq models.DividendFrequency) []int {
	switch freq {
	case models.FrequencyMonthly:
		return []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	case models.FrequencyQuarterly:
		return []int{0, 3, 6, 9}
	case models.FrequencySemiAnnual:
		return []int{0, 6}
	default:
		return []int{0}
	}
}

// recurrences synthesizes the next occurrence of each offset month on or
// after asOf, keeping the base day-of-month clamped to the target month's
// last day.
func recurrences(base time.Time, freq models.DividendFrequency, asOf time.Time) []time.Time {
	dates := make([]time.Time, 0, 12)
	for _, off := range monthOffsets(freq) {
		month := time.Month((int(base.Month())-1+off)%12 + 1)
		date := clampedDate(asOf.Year(), month, base.Day())
		if date.Before(asOf) {
			date = clampedDate(asOf.Year()+1, month, base.Day())
		}
		dates = append(dates, date)
	}
	return dates
}

// clampedDate builds a UTC midnight date, pulling day back to the last day
// of the month when it would spill over (e.g. day 31 in a 30-day month).
func clampedDate(year int, month time.Month, day int) time.Time {
	if last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day(); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
