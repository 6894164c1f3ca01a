// Package risk computes concentration-risk clusters and a 0-100
// diversification score over valued positions.
package risk

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/oliverwade/folio/internal/models"
)

// WorldUSWeight is the share of a world/global fund's value attributed to the
// US when estimating look-through exposure. A modeling assumption, not a
// derived fact; overridable via WithWorldUSWeight.
const WorldUSWeight = 0.60

// Generic buckets that never count as a "dominant sector".
const (
	SectorFund  = "Fund"
	SectorOther = "Other"

	CountryUnknown = "Unknown"
	CountryWorld   = "World"
	CountryUS      = "USA"
)

// Cluster thresholds (percent of total portfolio value).
const (
	topHoldingAlertPct = 15.0
	topHoldingHighPct  = 25.0
	sectorAlertPct     = 25.0
	sectorHighPct      = 40.0
	usAlertPct         = 55.0
	usHighPct          = 70.0
	countryAlertPct    = 40.0
	usTechAlertPct     = 20.0
	usTechHighPct      = 35.0
)

// usIndexFunds are broad-market US index trackers counted toward the US tech
// cluster alongside explicit US technology positions.
var usIndexFunds = map[string]bool{
	"SPY": true, "VOO": true, "IVV": true, "VTI": true,
	"QQQ": true, "EQQQ": true, "VUSA": true, "CSPX": true, "SXR8": true,
}

// Entry is one valued position fed into the analyzer, normalized to the
// reference currency.
type Entry struct {
	Instrument *models.Instrument
	Value      float64
}

// Analyzer computes concentration risk. Pure and safe for concurrent use.
type Analyzer struct {
	worldUSWeight float64
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithWorldUSWeight overrides the world-fund US attribution weight (0..1).
func WithWorldUSWeight(w float64) Option {
	return func(a *Analyzer) {
		if w >= 0 && w <= 1 {
			a.worldUSWeight = w
		}
	}
}

// NewAnalyzer creates an Analyzer with the default blend weight.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{worldUSWeight: WorldUSWeight}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze computes the risk analysis for the given valued positions.
// An empty portfolio (or one with zero total value) is neutral: score 100,
// no clusters.
func (a *Analyzer) Analyze(entries []Entry) models.RiskAnalysis {
	total := 0.0
	for _, e := range entries {
		if e.Instrument != nil && e.Value > 0 {
			total += e.Value
		}
	}
	if total <= 0 {
		return models.RiskAnalysis{Score: 100, Clusters: []models.RiskCluster{}}
	}

	var top Entry
	sectors := map[string]float64{}
	countries := map[string]float64{}
	usTech := 0.0

	for _, e := range entries {
		if e.Instrument == nil || e.Value <= 0 {
			continue
		}
		if e.Value > top.Value {
			top = e
		}
		accumulateSector(sectors, e)
		accumulateCountry(countries, e)
		usTech += usTechValue(e)
	}

	topPct := top.Value / total * 100
	topIsFund := top.Instrument.IsFund()

	topSectorName, topSectorValue := dominant(sectors, SectorFund, SectorOther)
	topCountryName, topCountryValue := dominant(countries, CountryWorld, CountryUS)
	topSectorPct := topSectorValue / total * 100
	topCountryPct := topCountryValue / total * 100

	usValue := countries[CountryUS] + a.worldUSWeight*countries[CountryWorld]
	usPct := usValue / total * 100
	usTechPct := usTech / total * 100

	clusters := make([]models.RiskCluster, 0, 4)

	// Single-holding concentration — funds are internally diversified and
	// exempt.
	if topPct > topHoldingAlertPct && !topIsFund {
		clusters = append(clusters, models.RiskCluster{
			Name:        "single_holding",
			Description: fmt.Sprintf("%s makes up %.1f%% of the portfolio", top.Instrument.Name, topPct),
			Value:       top.Value,
			Percent:     topPct,
			Severity:    severity(topPct, topHoldingHighPct),
		})
	}

	// Sector concentration, ignoring the generic fund/other buckets.
	if topSectorName != "" && topSectorPct > sectorAlertPct {
		clusters = append(clusters, models.RiskCluster{
			Name:        "sector",
			Description: fmt.Sprintf("%s holds %.1f%% of the portfolio", topSectorName, topSectorPct),
			Value:       topSectorValue,
			Percent:     topSectorPct,
			Severity:    severity(topSectorPct, sectorHighPct),
		})
	}

	// Blended US exposure, falling back to a plain country cluster when the
	// US blend is unremarkable but another single country dominates.
	if usPct > usAlertPct {
		clusters = append(clusters, models.RiskCluster{
			Name:        "us_exposure",
			Description: fmt.Sprintf("Estimated US exposure is %.1f%% including world funds", usPct),
			Value:       usValue,
			Percent:     usPct,
			Severity:    severity(usPct, usHighPct),
		})
	} else if topCountryName != "" && topCountryPct > countryAlertPct {
		clusters = append(clusters, models.RiskCluster{
			Name:        "country",
			Description: fmt.Sprintf("%s holds %.1f%% of the portfolio", topCountryName, topCountryPct),
			Value:       topCountryValue,
			Percent:     topCountryPct,
			Severity:    models.RiskSeverityMedium,
		})
	}

	// US technology, including broad US index trackers.
	if usTechPct > usTechAlertPct {
		clusters = append(clusters, models.RiskCluster{
			Name:        "us_technology",
			Description: fmt.Sprintf("US technology and US index funds hold %.1f%% of the portfolio", usTechPct),
			Value:       usTech,
			Percent:     usTechPct,
			Severity:    severity(usTechPct, usTechHighPct),
		})
	}

	return models.RiskAnalysis{
		Score:      score(topPct, topIsFund, topSectorName, topSectorPct, usTechPct, usPct),
		TotalValue: total,
		TopHolding: models.Exposure{Name: top.Instrument.Symbol, Value: top.Value, Percent: topPct},
		TopSector:  models.Exposure{Name: topSectorName, Value: topSectorValue, Percent: topSectorPct},
		TopCountry: models.Exposure{Name: topCountryName, Value: topCountryValue, Percent: topCountryPct},
		USExposure: models.Exposure{Name: CountryUS, Value: usValue, Percent: usPct},
		Clusters:   clusters,
	}
}

// score starts at 100 and applies independent additive penalties, clamped to
// [0, 100] and rounded.
func score(topPct float64, topIsFund bool, sectorName string, sectorPct, usTechPct, usPct float64) int {
	s := 100.0
	if topPct > 10 && !topIsFund {
		s -= 1.5 * (topPct - 10)
	}
	if sectorName != "" && sectorPct > 20 {
		s -= sectorPct - 20
	}
	if usTechPct > 20 {
		s -= usTechPct - 15
	}
	if usPct > 60 {
		s -= usPct - 60
	}
	return int(math.Round(math.Min(100, math.Max(0, s))))
}

func severity(pct, highAt float64) models.RiskSeverity {
	if pct > highAt {
		return models.RiskSeverityHigh
	}
	return models.RiskSeverityMedium
}

// accumulateSector buckets an entry's value by sector. Funds with declared
// sector weights distribute their value across the labels; funds without
// land in the generic fund bucket.
func accumulateSector(sectors map[string]float64, e Entry) {
	inst := e.Instrument
	if inst.IsFund() {
		if len(inst.SectorWeights) > 0 {
			for _, w := range inst.SectorWeights {
				sectors[NormalizeSector(w.Name)] += e.Value * w.Pct / 100
			}
			return
		}
		sectors[SectorFund] += e.Value
		return
	}
	sectors[NormalizeSector(inst.Sector)] += e.Value
}

// accumulateCountry buckets an entry's value by country, mirroring
// accumulateSector.
func accumulateCountry(countries map[string]float64, e Entry) {
	inst := e.Instrument
	if inst.IsFund() {
		if len(inst.CountryWeights) > 0 {
			for _, w := range inst.CountryWeights {
				countries[NormalizeCountry(w.Name)] += e.Value * w.Pct / 100
			}
			return
		}
		countries[CountryUnknown] += e.Value
		return
	}
	countries[NormalizeCountry(inst.Country)] += e.Value
}

// usTechValue returns the portion of an entry counting toward the US tech
// cluster: explicit US technology equities plus recognized broad US index
// trackers.
func usTechValue(e Entry) float64 {
	inst := e.Instrument
	if usIndexFunds[strings.ToUpper(baseSymbol(inst.Symbol))] {
		return e.Value
	}
	if NormalizeCountry(inst.Country) == CountryUS && NormalizeSector(inst.Sector) == "Technology" {
		return e.Value
	}
	return 0
}

// baseSymbol strips an exchange suffix ("VUSA.L" -> "VUSA").
func baseSymbol(symbol string) string {
	if i := strings.IndexByte(symbol, '.'); i > 0 {
		return symbol[:i]
	}
	return symbol
}

// dominant returns the largest bucket, skipping the excluded labels.
func dominant(buckets map[string]float64, exclude ...string) (string, float64) {
	skip := map[string]bool{}
	for _, x := range exclude {
		skip[x] = true
	}
	names := make([]string, 0, len(buckets))
	for name := range buckets {
		names = append(names, name)
	}
	sort.Strings(names) // deterministic tie-break
	best, bestValue := "", 0.0
	for _, name := range names {
		if skip[name] {
			continue
		}
		if buckets[name] > bestValue {
			best, bestValue = name, buckets[name]
		}
	}
	return best, bestValue
}

// NormalizeSector folds sector label variants into canonical names.
func NormalizeSector(sector string) string {
	switch strings.ToLower(strings.TrimSpace(sector)) {
	case "":
		return SectorOther
	case "technology", "tech", "information technology", "it":
		return "Technology"
	case "health", "healthcare", "health care":
		return "Healthcare"
	case "financials", "financial", "financial services", "banks":
		return "Financials"
	case "consumer", "consumer cyclical", "consumer discretionary":
		return "Consumer Cyclical"
	case "consumer defensive", "consumer staples":
		return "Consumer Defensive"
	case "industrials", "industrial":
		return "Industrials"
	case "energy":
		return "Energy"
	case "utilities":
		return "Utilities"
	case "real estate", "reit":
		return "Real Estate"
	case "communication services", "telecom", "telecommunications":
		return "Communication Services"
	case "materials", "basic materials":
		return "Basic Materials"
	default:
		return strings.TrimSpace(sector)
	}
}

// NormalizeCountry folds country label variants into canonical names.
func NormalizeCountry(country string) string {
	switch strings.ToLower(strings.TrimSpace(country)) {
	case "":
		return CountryUnknown
	case "usa", "us", "united states", "united states of america":
		return CountryUS
	case "world", "global", "international", "developed world":
		return CountryWorld
	case "uk", "united kingdom", "great britain":
		return "United Kingdom"
	case "germany", "deutschland":
		return "Germany"
	case "switzerland":
		return "Switzerland"
	case "europe", "eurozone":
		return "Europe"
	default:
		return strings.TrimSpace(country)
	}
}
