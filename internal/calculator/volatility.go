package calculator

import (
	"math"

	"MarketAnalyst/internal/model"
)

const (
	TradingDays             = 252
	DefaultVolatilityWindow = 21
)

// CalculateVolatility returns the sample standard deviation of the last
// window returns and of the whole history, each also annualised by
// sqrt(tradingDays). A window longer than the history uses what exists.
func CalculateVolatility(returns model.ReturnSeries, window, tradingDays int) model.Value[model.VolatilityResult] {
	if len(returns) == 0 {
		return model.Unavailable[model.VolatilityResult](model.ReasonInsufficientHistory)
	}
	values := returns.Values()
	annualize := math.Sqrt(float64(tradingDays))

	windowVol := stdDev(takeLast(values, window))
	fullVol := stdDev(values)
	return model.Available(model.VolatilityResult{
		Window:         window,
		WindowVol:      windowVol,
		AnnualizedVol:  windowVol * annualize,
		FullVol:        fullVol,
		FullAnnualized: fullVol * annualize,
	})
}
