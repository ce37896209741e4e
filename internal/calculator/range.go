package calculator

import (
	"errors"
	"math"

	"MarketAnalyst/internal/model"
)

// RangeDays is the 52-week lookback in trading days.
const RangeDays = 252

// CalculateRange scans the most recent `days` points and returns the
// high/low range together with the last close's position inside it.
func CalculateRange(series model.PriceSeries, days int) model.Value[model.RangeResult] {
	if len(series) == 0 || days <= 0 {
		return model.Unavailable[model.RangeResult](model.ReasonEmptySeries)
	}
	window := takeLast(series, days)
	high := math.Inf(-1)
	low := math.Inf(1)
	for _, p := range window {
		if p.High > high {
			high = p.High
		}
		if p.Low < low {
			low = p.Low
		}
	}
	pos, err := CalculatePosition(series.Last().Close, high, low)
	if err != nil {
		pos = 0.5
	}
	return model.Available(model.RangeResult{Days: len(window), High: high, Low: low, Position: pos})
}

// CalculatePosition returns where the current price sits within the range (0.0~1.0).
func CalculatePosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}
