package model

import (
	"encoding/json"
	"time"
)

// Report is the output of one report generation.
type Report struct {
	Company     string    `json:"company"`
	GeneratedAt time.Time `json:"generatedAt"`
	SummaryText string    `json:"summaryText"`
	// Metrics is nil when the series was empty; it then serialises as {}.
	Metrics *Metrics `json:"-"`
}

func (r Report) MarshalJSON() ([]byte, error) {
	type alias Report
	var metrics any = struct{}{}
	if r.Metrics != nil {
		metrics = r.Metrics
	}
	return json.Marshal(struct {
		alias
		Metrics any `json:"metrics"`
	}{alias(r), metrics})
}

// Latest describes the most recent observation.
type Latest struct {
	Date   Date           `json:"date"`
	Close  float64        `json:"close"`
	Open   float64        `json:"open"`
	Change Value[float64] `json:"change"`
}

// ReturnsSummary echoes headline return figures.
type ReturnsSummary struct {
	LatestReturn     Value[float64] `json:"latestReturn"`
	LatestLog        Value[float64] `json:"latestLog"`
	AverageDaily     Value[float64] `json:"averageDaily"`
	AnnualizedReturn Value[float64] `json:"annualizedReturn"`
}

// Metrics aggregates every indicator plus chart-ready series.
type Metrics struct {
	Latest          Latest                   `json:"latest"`
	Returns         ReturnsSummary           `json:"returns"`
	Range52w        Value[RangeResult]       `json:"range52w"`
	Volatility      Value[VolatilityResult]  `json:"volatility"`
	Drawdowns       DrawdownResult           `json:"drawdowns"`
	RSI             Value[float64]           `json:"rsi"`
	MACD            Value[MACDResult]        `json:"macd"`
	Bollinger       Value[BollingerResult]   `json:"bollinger"`
	Crosses         Value[CrossResult]       `json:"crosses"`
	Backtest        Value[BacktestResult]    `json:"backtest"`
	Volume          Value[VolumeResult]      `json:"volume"`
	Seasonality     Value[SeasonalityResult] `json:"seasonality"`
	Anomalies       []Anomaly                `json:"anomalies"`
	Risk            Value[RiskResult]        `json:"risk"`
	AggregateSignal *AggregateSignal         `json:"aggregateSignal,omitempty"`
	Timeseries      Timeseries               `json:"timeseries"`
}

// PriceLinePoint is one chart point with optional moving averages.
type PriceLinePoint struct {
	Date   Date     `json:"date"`
	Price  float64  `json:"price"`
	SMA50  *float64 `json:"sma50"`
	SMA200 *float64 `json:"sma200"`
}

// CandlePoint is one OHLC chart point.
type CandlePoint struct {
	Date  Date    `json:"date"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// SeriesPoint is a generic dated chart value.
type SeriesPoint struct {
	Date  Date   `json:"date"`
	Value Number `json:"value"`
}

// Timeseries holds chart windows, each limited to the most recent points.
type Timeseries struct {
	PriceLine   []PriceLinePoint `json:"priceLine"`
	PriceCandle []CandlePoint    `json:"priceCandle"`
	Returns     []SeriesPoint    `json:"returns"`
	Drawdowns   []SeriesPoint    `json:"drawdowns"`
	Volume      []SeriesPoint    `json:"volume"`
}
