package calculator

import "MarketAnalyst/internal/model"

// DetectCross compares SMA50 and SMA200 at every index where both exist and
// reports a crossover only if it happened between the last two such indices.
func DetectCross(series model.PriceSeries) model.Value[model.CrossResult] {
	if len(series) < LongSMAPeriod {
		return model.Unavailable[model.CrossResult](model.ReasonInsufficientHistory)
	}
	closes := series.Closes()

	type diffPoint struct {
		date model.Date
		diff float64
	}
	diffs := make([]diffPoint, 0, len(closes)-LongSMAPeriod+1)
	for i := LongSMAPeriod - 1; i < len(closes); i++ {
		short, ok1 := SMAAt(closes, i, ShortSMAPeriod)
		long, ok2 := SMAAt(closes, i, LongSMAPeriod)
		if !ok1 || !ok2 {
			continue
		}
		diffs = append(diffs, diffPoint{date: series[i].Date, diff: short - long})
	}
	if len(diffs) == 0 {
		return model.Unavailable[model.CrossResult](model.ReasonInsufficientHistory)
	}

	last := diffs[len(diffs)-1]
	prev := last
	if len(diffs) > 1 {
		prev = diffs[len(diffs)-2]
	}

	result := model.CrossResult{Status: model.TrendBearish}
	if last.diff >= 0 {
		result.Status = model.TrendBullish
	}

	var signal model.CrossSignal
	switch {
	case prev.diff <= 0 && last.diff > 0:
		signal = model.GoldenCross
	case prev.diff >= 0 && last.diff < 0:
		signal = model.DeathCross
	}
	if signal != "" {
		date := last.date
		result.LastSignal = &signal
		result.LastSignalDate = &date
	}

	result.SMA50, _ = CalculateSMA(closes, ShortSMAPeriod)
	result.SMA200, _ = CalculateSMA(closes, LongSMAPeriod)
	return model.Available(result)
}
