package models

import "time"

// Quote is a price snapshot from a market-data provider.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	PreviousClose float64   `json:"previous_close"`
	Currency      string    `json:"currency"`
	Timestamp     time.Time `json:"timestamp"`
}

// MarketSession is the estimated trading-session state for an instrument.
type MarketSession string

const (
	SessionPre     MarketSession = "pre"
	SessionRegular MarketSession = "regular"
	SessionPost    MarketSession = "post"
	SessionClosed  MarketSession = "closed"
)

// IsLive reports whether a quote for this session state should be treated as
// a live price by presentation code.
func (s MarketSession) IsLive() bool {
	return s == SessionRegular
}
