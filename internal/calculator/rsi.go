package calculator

import "MarketAnalyst/internal/model"

const DefaultRSIPeriod = 14

// CalculateRSI computes the Wilder-smoothed RSI over the given period and
// returns its value at the last point. Requires more than period points.
// A zero average loss yields exactly 100.
func CalculateRSI(series model.PriceSeries, period int) model.Value[float64] {
	if period <= 0 || len(series) <= period {
		return model.Unavailable[float64](model.ReasonInsufficientHistory)
	}

	closes := series.Closes()

	// Initial average gain/loss over the first `period` changes
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change >= 0 {
			avgGain += change
		} else {
			avgLoss -= change // make positive
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	// Wilder smoothing for remaining bars
	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change >= 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return model.Available(100.0)
	}
	rs := avgGain / avgLoss
	return model.Available(100.0 - 100.0/(1.0+rs))
}
