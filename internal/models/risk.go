package models

// RiskSeverity tiers a flagged concentration cluster.
type RiskSeverity string

const (
	RiskSeverityLow    RiskSeverity = "low"
	RiskSeverityMedium RiskSeverity = "medium"
	RiskSeverityHigh   RiskSeverity = "high"
)

// RiskCluster is a flagged concentration (single holding, sector, country or
// sector-within-economy) with a severity tier.
type RiskCluster struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Value       float64      `json:"value"`   // reference currency
	Percent     float64      `json:"percent"` // of total portfolio value
	Severity    RiskSeverity `json:"severity"`
}

// Exposure is a labeled share of the portfolio.
type Exposure struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
}

// RiskAnalysis is the concentration-risk result for a portfolio.
// Score is 0-100, higher meaning better diversified; an empty portfolio is
// neutral (score 100, no clusters).
type RiskAnalysis struct {
	Score      int           `json:"score"`
	TotalValue float64       `json:"total_value"`
	TopHolding Exposure      `json:"top_holding"`
	TopSector  Exposure      `json:"top_sector"`
	TopCountry Exposure      `json:"top_country"`
	USExposure Exposure      `json:"us_exposure"` // blended look-through exposure
	Clusters   []RiskCluster `json:"clusters"`
}
