package calculator

import (
	"errors"

	"gonum.org/v1/gonum/floats"
)

const (
	ShortSMAPeriod = 50
	LongSMAPeriod  = 200
)

// CalculateSMA computes the simple moving average of the given prices over the specified period.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	return smaAt(prices, len(prices)-1, period)
}

// SMAAt returns the SMA of the window ending at index, if the window is complete.
func SMAAt(values []float64, index, period int) (float64, bool) {
	if period <= 0 || index < 0 || index >= len(values) {
		return 0, false
	}
	v, err := smaAt(values, index, period)
	return v, err == nil
}

func smaAt(values []float64, index, period int) (float64, error) {
	start := index - period + 1
	if start < 0 {
		return 0, errors.New("not enough data for SMA calculation")
	}
	return floats.Sum(values[start:index+1]) / float64(period), nil
}

// SMASeries returns the SMA at every index, nil where the window is incomplete.
func SMASeries(values []float64, period int) []*float64 {
	out := make([]*float64, len(values))
	for i := range values {
		if v, ok := SMAAt(values, i, period); ok {
			out[i] = &v
		}
	}
	return out
}

// emaAt advances an EMA by one index. The EMA is undefined before
// index period-1, equals the SMA of the first period values at period-1,
// and follows (price-prev)*2/(period+1)+prev afterwards. Without a previous
// value past the seed index, the price itself seeds the recursion.
func emaAt(values []float64, index, period int, prev float64, prevOK bool) (float64, bool) {
	if index < 0 || index >= len(values) {
		return 0, false
	}
	switch {
	case index+1 == period:
		return SMAAt(values, index, period)
	case index+1 < period:
		return 0, false
	case !prevOK:
		return values[index], true
	}
	multiplier := 2.0 / float64(period+1)
	return (values[index]-prev)*multiplier + prev, true
}
