package strategy

import (
	"MarketAnalyst/internal/calculator"
	"MarketAnalyst/internal/model"
)

// position is the state of the single long-only position.
type position int

const (
	flat position = iota
	long
)

// BacktestCross simulates the SMA50/SMA200 crossover strategy from the first
// index where both averages exist. It enters fully when SMA50 > SMA200 while
// flat and exits when SMA50 < SMA200 while invested; an open position is
// marked to the final close. No costs, slippage or sizing are modelled.
func BacktestCross(series model.PriceSeries) model.Value[model.BacktestResult] {
	if len(series) < calculator.LongSMAPeriod {
		return model.Unavailable[model.BacktestResult](model.ReasonInsufficientHistory)
	}
	closes := series.Closes()
	first := calculator.LongSMAPeriod - 1
	last := len(closes) - 1

	state := flat
	entryPrice := 0.0
	capital := 1.0
	for i := first; i <= last; i++ {
		short, ok1 := calculator.SMAAt(closes, i, calculator.ShortSMAPeriod)
		long200, ok2 := calculator.SMAAt(closes, i, calculator.LongSMAPeriod)
		if !ok1 || !ok2 {
			continue
		}
		switch {
		case short > long200 && state == flat:
			state = long
			entryPrice = closes[i]
		case short < long200 && state == long:
			capital *= closes[i] / entryPrice
			state = flat
		}
	}
	if state == long {
		capital *= closes[last] / entryPrice
	}

	return model.Available(model.BacktestResult{
		StrategyReturn: model.Number(capital - 1),
		BuyHoldReturn:  model.Number(closes[last]/closes[first] - 1),
		StartDate:      series[first].Date,
		EndDate:        series[last].Date,
	})
}
