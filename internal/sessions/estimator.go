// Package sessions estimates the trading-session state of an instrument from
// its symbol, quote currency and the wall-clock time. It is a deterministic
// approximation: fixed UTC-equivalent windows and hard-coded holidays, no
// exchange-calendar service, no daylight-saving handling.
package sessions

import (
	"strings"
	"time"

	"github.com/oliverwade/folio/internal/models"
)

// holiday is a fixed-date market holiday.
type holiday struct {
	Month time.Month
	Day   int
}

// exchange is a trading venue with an open/close window expressed in
// UTC-equivalent minutes of day.
type exchange struct {
	Open     int
	Close    int
	Holidays []holiday
}

// globalHolidays close every recognized exchange.
var globalHolidays = []holiday{
	{time.January, 1},
	{time.December, 25},
}

var exchanges = map[string]exchange{
	"XETRA": {
		Open:  9 * 60,
		Close: 17*60 + 20,
		Holidays: []holiday{
			{time.December, 24},
			{time.December, 26},
			{time.December, 31},
			{time.October, 3},
		},
	},
	"LSE": {
		Open:  8 * 60,
		Close: 16*60 + 30,
		Holidays: []holiday{
			{time.December, 24},
			{time.December, 26},
		},
	},
	"EURONEXT": {
		Open:  8 * 60,
		Close: 16*60 + 30,
		Holidays: []holiday{
			{time.December, 26},
		},
	},
	"SIX": {
		Open:  8 * 60,
		Close: 16*60 + 20,
		Holidays: []holiday{
			{time.December, 24},
			{time.December, 26},
			{time.August, 1},
		},
	},
	"NYSE": {
		Open:  14*60 + 30,
		Close: 21 * 60,
		Holidays: []holiday{
			{time.June, 19},
			{time.July, 4},
		},
	},
}

// symbol suffix -> exchange
var suffixExchange = map[string]string{
	"DE": "XETRA",
	"F":  "XETRA",
	"L":  "LSE",
	"PA": "EURONEXT",
	"AS": "EURONEXT",
	"BR": "EURONEXT",
	"SW": "SIX",
	"US": "NYSE",
}

// quote currency -> exchange, used when the symbol carries no suffix
var currencyExchange = map[string]string{
	"EUR": "XETRA",
	"GBP": "LSE",
	"GBX": "LSE",
	"CHF": "SIX",
	"USD": "NYSE",
}

// Exchange infers the trading venue from the symbol's exchange suffix,
// falling back to the quote currency.
func Exchange(symbol, currency string) (string, bool) {
	if i := strings.LastIndexByte(symbol, '.'); i >= 0 && i < len(symbol)-1 {
		if name, ok := suffixExchange[strings.ToUpper(symbol[i+1:])]; ok {
			return name, true
		}
	}
	name, ok := currencyExchange[strings.ToUpper(strings.TrimSpace(currency))]
	return name, ok
}

// Estimate returns the session state for an instrument at the given time.
// Weekends and global holidays are always closed; unrecognized
// symbol/currency combinations default to closed.
func Estimate(symbol, currency string, now time.Time) models.MarketSession {
	now = now.UTC()

	if wd := now.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return models.SessionClosed
	}
	if isHoliday(globalHolidays, now) {
		return models.SessionClosed
	}

	name, ok := Exchange(symbol, currency)
	if !ok {
		return models.SessionClosed
	}
	ex := exchanges[name]
	if isHoliday(ex.Holidays, now) {
		return models.SessionClosed
	}

	minute := now.Hour()*60 + now.Minute()
	switch {
	case minute < ex.Open:
		return models.SessionPre
	case minute < ex.Close:
		return models.SessionRegular
	default:
		return models.SessionPost
	}
}

func isHoliday(days []holiday, t time.Time) bool {
	for _, h := range days {
		if t.Month() == h.Month && t.Day() == h.Day {
			return true
		}
	}
	return false
}
