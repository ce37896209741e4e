package calculator

import (
	"math"
	"sort"

	"MarketAnalyst/internal/model"
)

const (
	DefaultAnomalyThreshold = 2.0
	DefaultAnomalyLimit     = 3
)

// DetectAnomalies returns at most limit returns whose z-score magnitude is at
// least threshold, largest first. A zero-variance series has no anomalies.
func DetectAnomalies(returns model.ReturnSeries, threshold float64, limit int) []model.Anomaly {
	anomalies := []model.Anomaly{}
	if len(returns) == 0 {
		return anomalies
	}
	values := returns.Values()
	mu := mean(values)
	sigma := stdDev(values)
	if sigma == 0 {
		return anomalies
	}

	for _, r := range returns {
		z := (r.Value - mu) / sigma
		if math.Abs(z) >= threshold {
			anomalies = append(anomalies, model.Anomaly{Date: r.Date, Value: r.Value, ZScore: z})
		}
	}
	sort.SliceStable(anomalies, func(i, j int) bool {
		return math.Abs(anomalies[i].ZScore) > math.Abs(anomalies[j].ZScore)
	})
	return takeFirst(anomalies, limit)
}

func takeFirst[T any](values []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(values) <= n {
		return values
	}
	return values[:n]
}
