package calculator

import (
	"math"

	"MarketAnalyst/internal/model"
)

// SimpleReturns computes (close[i]-close[i-1])/close[i-1], dated at point i.
// A zero prior close yields 0.
func SimpleReturns(series model.PriceSeries) model.ReturnSeries {
	return pairwise(series, func(prev, curr float64) float64 {
		return (curr - prev) / prev
	})
}

// LogReturns computes ln(close[i]/close[i-1]) under the same zero guard.
func LogReturns(series model.PriceSeries) model.ReturnSeries {
	return pairwise(series, func(prev, curr float64) float64 {
		return math.Log(curr / prev)
	})
}

func pairwise(series model.PriceSeries, fn func(prev, curr float64) float64) model.ReturnSeries {
	if len(series) < 2 {
		return model.ReturnSeries{}
	}
	out := make(model.ReturnSeries, 0, len(series)-1)
	for i := 1; i < len(series); i++ {
		prev, curr := series[i-1].Close, series[i].Close
		value := 0.0
		if prev != 0 {
			value = fn(prev, curr)
		}
		out = append(out, model.ReturnPoint{Date: series[i].Date, Value: value})
	}
	return out
}
