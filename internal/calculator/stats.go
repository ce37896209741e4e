package calculator

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// mean returns the arithmetic mean, 0 for an empty slice.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// variance is the sample variance (Bessel's correction), 0 with fewer than two
// values. Inputs holding ±Inf have no finite spread and also yield 0, so
// callers report them under the same zero_variance rule as a flat series.
func variance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	v := stat.Variance(values, nil)
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}

func stdDev(values []float64) float64 {
	return math.Sqrt(variance(values))
}

func takeLast[T any](values []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}
