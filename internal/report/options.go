package report

import (
	"time"

	"MarketAnalyst/internal/calculator"
)

// DefaultChartWindow is the number of most recent points kept in chart series.
const DefaultChartWindow = 180

// Options carries the calendar, rate and window assumptions of a report.
// Zero fields fall back to DefaultOptions.
type Options struct {
	TradingDays         int
	RiskFreeRate        float64
	ChartWindow         int
	VolatilityWindow    int
	RSIPeriod           int
	BollingerPeriod     int
	BollingerMultiplier float64
	AnomalyThreshold    float64
	AnomalyLimit        int
	// MaxSeriesLength keeps only the most recent points when positive.
	MaxSeriesLength int
	Now             func() time.Time
}

// DefaultOptions returns the reference assumptions: a 252-day year, a 4%
// risk-free rate and a 180-point chart window.
func DefaultOptions() Options {
	return Options{
		TradingDays:         calculator.TradingDays,
		RiskFreeRate:        calculator.DefaultRiskFreeRate,
		ChartWindow:         DefaultChartWindow,
		VolatilityWindow:    calculator.DefaultVolatilityWindow,
		RSIPeriod:           calculator.DefaultRSIPeriod,
		BollingerPeriod:     calculator.DefaultBollingerPeriod,
		BollingerMultiplier: calculator.DefaultBollingerMultiplier,
		AnomalyThreshold:    calculator.DefaultAnomalyThreshold,
		AnomalyLimit:        calculator.DefaultAnomalyLimit,
		Now:                 time.Now,
	}
}

// WithDefaults fills every zero field from DefaultOptions. RiskFreeRate is
// kept as given, since 0 is a meaningful rate.
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.TradingDays <= 0 {
		o.TradingDays = d.TradingDays
	}
	if o.ChartWindow <= 0 {
		o.ChartWindow = d.ChartWindow
	}
	if o.VolatilityWindow <= 0 {
		o.VolatilityWindow = d.VolatilityWindow
	}
	if o.RSIPeriod <= 0 {
		o.RSIPeriod = d.RSIPeriod
	}
	if o.BollingerPeriod <= 0 {
		o.BollingerPeriod = d.BollingerPeriod
	}
	if o.BollingerMultiplier <= 0 {
		o.BollingerMultiplier = d.BollingerMultiplier
	}
	if o.AnomalyThreshold <= 0 {
		o.AnomalyThreshold = d.AnomalyThreshold
	}
	if o.AnomalyLimit <= 0 {
		o.AnomalyLimit = d.AnomalyLimit
	}
	if o.Now == nil {
		o.Now = d.Now
	}
	return o
}
