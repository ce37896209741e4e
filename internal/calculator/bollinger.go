package calculator

import "MarketAnalyst/internal/model"

const (
	DefaultBollingerPeriod     = 20
	DefaultBollingerMultiplier = 2.0
)

// CalculateBollinger computes bands over the last period closes.
// Bandwidth is deviation/middle and is left unguarded: a zero middle band
// produces ±Inf or NaN.
func CalculateBollinger(closes []float64, period int, multiplier float64) model.Value[model.BollingerResult] {
	if period <= 0 || len(closes) < period {
		return model.Unavailable[model.BollingerResult](model.ReasonInsufficientHistory)
	}
	window := takeLast(closes, period)
	middle := mean(window)
	deviation := stdDev(window)
	return model.Available(model.BollingerResult{
		Middle:    middle,
		Upper:     middle + multiplier*deviation,
		Lower:     middle - multiplier*deviation,
		Bandwidth: model.Number(deviation / middle),
	})
}
