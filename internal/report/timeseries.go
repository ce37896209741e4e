package report

import (
	"MarketAnalyst/internal/calculator"
	"MarketAnalyst/internal/model"
)

// buildTimeseries prepares chart series, each limited to the last window points.
func buildTimeseries(series model.PriceSeries, returns model.ReturnSeries, drawdowns model.DrawdownResult, window int) model.Timeseries {
	closes := series.Closes()
	sma50 := calculator.SMASeries(closes, calculator.ShortSMAPeriod)
	sma200 := calculator.SMASeries(closes, calculator.LongSMAPeriod)

	start := tailStart(len(series), window)
	ts := model.Timeseries{
		PriceLine:   make([]model.PriceLinePoint, 0, len(series)-start),
		PriceCandle: make([]model.CandlePoint, 0, len(series)-start),
		Volume:      make([]model.SeriesPoint, 0, len(series)-start),
	}
	for i := start; i < len(series); i++ {
		p := series[i]
		ts.PriceLine = append(ts.PriceLine, model.PriceLinePoint{
			Date:   p.Date,
			Price:  p.Close,
			SMA50:  sma50[i],
			SMA200: sma200[i],
		})
		ts.PriceCandle = append(ts.PriceCandle, model.CandlePoint{
			Date:  p.Date,
			Open:  p.Open,
			High:  p.High,
			Low:   p.Low,
			Close: p.Close,
		})
		ts.Volume = append(ts.Volume, model.SeriesPoint{Date: p.Date, Value: model.Number(p.Volume)})
	}

	ts.Returns = make([]model.SeriesPoint, 0, window)
	for _, r := range returns[tailStart(len(returns), window):] {
		ts.Returns = append(ts.Returns, model.SeriesPoint{Date: r.Date, Value: model.Number(r.Value)})
	}

	ts.Drawdowns = make([]model.SeriesPoint, 0, window)
	for _, d := range drawdowns.Series[tailStart(len(drawdowns.Series), window):] {
		ts.Drawdowns = append(ts.Drawdowns, model.SeriesPoint{Date: d.Date, Value: model.Number(d.Drawdown)})
	}
	return ts
}

func tailStart(n, window int) int {
	if n <= window {
		return 0
	}
	return n - window
}
