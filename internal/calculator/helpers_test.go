package calculator

import (
	"time"

	"MarketAnalyst/internal/model"
)

var seriesStart = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// seriesFromCloses builds a daily series starting 2024-01-01 with volume 1000.
func seriesFromCloses(closes ...float64) model.PriceSeries {
	series := make(model.PriceSeries, len(closes))
	for i, c := range closes {
		series[i] = model.PricePoint{
			Date:   model.NewDate(seriesStart.AddDate(0, 0, i)),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		}
	}
	return series
}

func linearCloses(n int, base, step float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = base + step*float64(i)
	}
	return closes
}

func returnsFrom(values ...float64) model.ReturnSeries {
	out := make(model.ReturnSeries, len(values))
	for i, v := range values {
		out[i] = model.ReturnPoint{Date: model.NewDate(seriesStart.AddDate(0, 0, i+1)), Value: v}
	}
	return out
}
