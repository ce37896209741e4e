package calculator

import (
	"math"
	"time"

	"MarketAnalyst/internal/model"
)

// ADFCriticalValue approximates the 5% critical value of the unit-root test.
const ADFCriticalValue = -2.86

// AutocorrelationLags are the lags reported by AnalyzeSeasonality.
var AutocorrelationLags = []int{1, 5, 10}

const adfMinPoints = 10

type bucket struct {
	key    int
	values []float64
}

// AnalyzeSeasonality buckets returns by UTC weekday and calendar month,
// measures autocorrelation at fixed lags and runs the simplified ADF test.
func AnalyzeSeasonality(returns model.ReturnSeries) model.Value[model.SeasonalityResult] {
	if len(returns) == 0 {
		return model.Unavailable[model.SeasonalityResult](model.ReasonInsufficientHistory)
	}

	var weekdays, months []*bucket
	weekdayIndex := map[int]*bucket{}
	monthIndex := map[int]*bucket{}
	for _, r := range returns {
		weekdays = addToBucket(weekdays, weekdayIndex, int(r.Date.Weekday()), r.Value)
		months = addToBucket(months, monthIndex, int(r.Date.Month()), r.Value)
	}

	values := returns.Values()
	acf := make([]model.Autocorrelation, 0, len(AutocorrelationLags))
	for _, lag := range AutocorrelationLags {
		acf = append(acf, model.Autocorrelation{Lag: lag, Value: Autocorrelation(values, lag)})
	}

	return model.Available(model.SeasonalityResult{
		Weekday:         bestWorst(weekdays, func(k int) string { return time.Weekday(k).String() }),
		Month:           bestWorst(months, func(k int) string { return time.Month(k).String() }),
		Autocorrelation: acf,
		// The unit-root test runs on the return series itself.
		ADF: ADFTest(values),
	})
}

func addToBucket(list []*bucket, index map[int]*bucket, key int, value float64) []*bucket {
	b, ok := index[key]
	if !ok {
		b = &bucket{key: key}
		index[key] = b
		list = append(list, b)
	}
	b.values = append(b.values, value)
	return list
}

// bestWorst picks the highest and lowest bucket average; ties go to the
// bucket seen first.
func bestWorst(buckets []*bucket, name func(int) string) model.Seasonal {
	var out model.Seasonal
	for i, b := range buckets {
		avg := mean(b.values)
		if i == 0 || avg > out.Best.Value {
			out.Best = model.BucketAverage{Name: name(b.key), Value: avg}
		}
		if i == 0 || avg < out.Worst.Value {
			out.Worst = model.BucketAverage{Name: name(b.key), Value: avg}
		}
	}
	return out
}

// Autocorrelation is the normalized-covariance estimator at the given lag.
// It is unavailable when the series is not longer than lag or has zero variance.
func Autocorrelation(values []float64, lag int) model.Value[float64] {
	if lag < 0 || len(values) <= lag {
		return model.Unavailable[float64](model.ReasonInsufficientHistory)
	}
	m := mean(values)
	var numerator, denominator float64
	for i := lag; i < len(values); i++ {
		numerator += (values[i] - m) * (values[i-lag] - m)
	}
	for _, v := range values {
		denominator += (v - m) * (v - m)
	}
	if denominator == 0 {
		return model.Unavailable[float64](model.ReasonZeroVariance)
	}
	return model.Available(numerator / denominator)
}

// ADFTest is a simplified Dickey-Fuller style approximation, not a full
// ADF test: first differences are regressed on the lagged level through
// the origin (no drift, trend or augmentation lags) and the slope's
// t-statistic is compared with the fixed ADFCriticalValue.
func ADFTest(values []float64) model.Value[model.ADFResult] {
	if len(values) < adfMinPoints {
		return model.Unavailable[model.ADFResult](model.ReasonInsufficientHistory)
	}

	n := len(values) - 1
	dy := make([]float64, n)
	yLag := make([]float64, n)
	var sumXY, sumXX float64
	for i := 1; i < len(values); i++ {
		dy[i-1] = values[i] - values[i-1]
		yLag[i-1] = values[i-1]
		sumXY += yLag[i-1] * dy[i-1]
		sumXX += yLag[i-1] * yLag[i-1]
	}
	if sumXX == 0 {
		return model.Unavailable[model.ADFResult](model.ReasonZeroVariance)
	}

	phi := sumXY / sumXX
	var ssr float64
	for i := range dy {
		residual := dy[i] - phi*yLag[i]
		ssr += residual * residual
	}
	se := math.Sqrt(ssr / float64(n-1) / sumXX)
	if se == 0 {
		return model.Unavailable[model.ADFResult](model.ReasonZeroResidualVariance)
	}

	statistic := phi / se
	return model.Available(model.ADFResult{
		Statistic:     statistic,
		CriticalValue: ADFCriticalValue,
		Stationary:    statistic < ADFCriticalValue,
	})
}
