package calculator

import (
	"math"

	"MarketAnalyst/internal/model"
)

const DefaultRiskFreeRate = 0.04

// RiskParams holds the calendar and rate assumptions of the risk aggregator.
type RiskParams struct {
	TradingDays  int
	RiskFreeRate float64
}

// CalculateRisk aggregates return, volatility and risk-adjusted ratios.
// Sharpe is unavailable when annualised volatility is 0; Sortino when the
// downside deviation is 0 or no negative return exists.
func CalculateRisk(series model.PriceSeries, returns model.ReturnSeries, drawdowns model.DrawdownResult, params RiskParams) model.Value[model.RiskResult] {
	if len(returns) == 0 || len(series) == 0 {
		return model.Unavailable[model.RiskResult](model.ReasonInsufficientHistory)
	}

	values := returns.Values()
	days := float64(params.TradingDays)
	averageDaily := mean(values)
	stdDaily := stdDev(values)
	annualizedReturn := math.Pow(1+averageDaily, days) - 1
	volAnnualized := stdDaily * math.Sqrt(days)
	excess := annualizedReturn - params.RiskFreeRate

	result := model.RiskResult{
		AverageDaily:         model.Number(averageDaily),
		AnnualizedReturn:     model.Number(annualizedReturn),
		VolatilityDaily:      model.Number(stdDaily),
		VolatilityAnnualized: model.Number(volAnnualized),
		MaxDrawdown:          drawdowns.MaxDrawdown,
		DaysSample:           len(series),
	}

	if volAnnualized == 0 {
		result.Sharpe = model.Unavailable[float64](model.ReasonZeroVariance)
	} else {
		result.Sharpe = model.Available(excess / volAnnualized)
	}

	var downside []float64
	for _, v := range values {
		if v < 0 {
			downside = append(downside, v)
		}
	}
	switch downsideStd := stdDev(downside); {
	case len(downside) == 0:
		result.Sortino = model.Unavailable[float64](model.ReasonNoNegativeReturns)
	case downsideStd == 0:
		result.Sortino = model.Unavailable[float64](model.ReasonZeroVariance)
	default:
		result.Sortino = model.Available(excess / (downsideStd * math.Sqrt(days)))
	}

	start, end := series[0].Close, series.Last().Close
	if start == 0 {
		result.BuyHoldReturn = model.Unavailable[float64](model.ReasonZeroBasePrice)
	} else {
		result.BuyHoldReturn = model.Available(end/start - 1)
	}
	return model.Available(result)
}
