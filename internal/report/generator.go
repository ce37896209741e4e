package report

import (
	"fmt"

	"MarketAnalyst/internal/calculator"
	"MarketAnalyst/internal/model"
	"MarketAnalyst/internal/strategy"
)

// NoDataFormat is the narrative of a report built from an empty series.
const NoDataFormat = "No historical data found for **%s**."

// Generate builds the report for one company document. It is pure apart from
// reading opts.Now, and never fails: invalid rows are dropped and indicators
// lacking history are reported as unavailable.
func Generate(doc *model.CompanyDocument, opts Options) *model.Report {
	opts = opts.WithDefaults()
	series := calculator.Normalize(doc.HistoricalData)
	if opts.MaxSeriesLength > 0 && len(series) > opts.MaxSeriesLength {
		series = series[len(series)-opts.MaxSeriesLength:]
	}

	r := &model.Report{
		Company:     doc.Company,
		GeneratedAt: opts.Now().UTC(),
	}
	if len(series) == 0 {
		r.SummaryText = fmt.Sprintf(NoDataFormat, doc.Company)
		return r
	}

	r.Metrics = Compute(series, model.ParseAggregateSignal(doc.TechnicalData), opts)
	r.SummaryText = Narrative(doc.Company, r.Metrics, opts)
	return r
}

// Compute runs every analytic module over a non-empty normalized series.
func Compute(series model.PriceSeries, signal *model.AggregateSignal, opts Options) *model.Metrics {
	opts = opts.WithDefaults()
	closes := series.Closes()
	simple := calculator.SimpleReturns(series)
	logReturns := calculator.LogReturns(series)
	drawdowns := calculator.CalculateDrawdowns(series)
	risk := calculator.CalculateRisk(series, simple, drawdowns, calculator.RiskParams{
		TradingDays:  opts.TradingDays,
		RiskFreeRate: opts.RiskFreeRate,
	})

	m := &model.Metrics{
		Latest:          latest(series),
		Returns:         returnsSummary(simple, logReturns, risk),
		Range52w:        calculator.CalculateRange(series, calculator.RangeDays),
		Volatility:      calculator.CalculateVolatility(simple, opts.VolatilityWindow, opts.TradingDays),
		Drawdowns:       drawdowns,
		RSI:             calculator.CalculateRSI(series, opts.RSIPeriod),
		MACD:            calculator.CalculateMACD(closes),
		Bollinger:       calculator.CalculateBollinger(closes, opts.BollingerPeriod, opts.BollingerMultiplier),
		Crosses:         calculator.DetectCross(series),
		Backtest:        strategy.BacktestCross(series),
		Volume:          calculator.AnalyzeVolume(series),
		Seasonality:     calculator.AnalyzeSeasonality(simple),
		Anomalies:       calculator.DetectAnomalies(simple, opts.AnomalyThreshold, opts.AnomalyLimit),
		Risk:            risk,
		AggregateSignal: signal,
	}
	m.Timeseries = buildTimeseries(series, simple, drawdowns, opts.ChartWindow)
	return m
}

func latest(series model.PriceSeries) model.Latest {
	last := series.Last()
	out := model.Latest{
		Date:   last.Date,
		Close:  last.Close,
		Open:   last.Open,
		Change: model.Unavailable[float64](model.ReasonInsufficientHistory),
	}
	if len(series) > 1 {
		prev := series[len(series)-2]
		if prev.Close == 0 {
			out.Change = model.Unavailable[float64](model.ReasonZeroBasePrice)
		} else {
			out.Change = model.Available((last.Close - prev.Close) / prev.Close)
		}
	}
	return out
}

func returnsSummary(simple, logReturns model.ReturnSeries, risk model.Value[model.RiskResult]) model.ReturnsSummary {
	out := model.ReturnsSummary{
		LatestReturn:     lastReturn(simple),
		LatestLog:        lastReturn(logReturns),
		AverageDaily:     model.Unavailable[float64](risk.Reason()),
		AnnualizedReturn: model.Unavailable[float64](risk.Reason()),
	}
	if r, ok := risk.Get(); ok {
		out.AverageDaily = model.Available(float64(r.AverageDaily))
		out.AnnualizedReturn = model.Available(float64(r.AnnualizedReturn))
	}
	return out
}

func lastReturn(returns model.ReturnSeries) model.Value[float64] {
	if len(returns) == 0 {
		return model.Unavailable[float64](model.ReasonInsufficientHistory)
	}
	return model.Available(returns[len(returns)-1].Value)
}
