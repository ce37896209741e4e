package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketAnalyst/internal/model"
)

var fixedNow = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

func testOptions() Options {
	opts := DefaultOptions()
	opts.Now = func() time.Time { return fixedNow }
	return opts
}

// makeDocument builds a document with one observation per calendar day,
// newest first, the way scraped pages usually arrive.
func makeDocument(company string, closes []float64) *model.CompanyDocument {
	start := time.Date(2023, time.January, 2, 0, 0, 0, 0, time.UTC)
	doc := &model.CompanyDocument{Company: company}
	for i := len(closes) - 1; i >= 0; i-- {
		c := closes[i]
		doc.HistoricalData = append(doc.HistoricalData, model.RawObservation{
			Date: start.AddDate(0, 0, i).Format(time.RFC3339),
			Raw: model.RawFields{
				LastClose: model.RawNumber(c),
				LastOpen:  model.RawNumber(c - 0.5),
				LastMax:   model.RawNumber(c + 1),
				LastMin:   model.RawNumber(c - 1),
				Volume:    model.RawNumber(float64(1000 + i)),
			},
		})
	}
	return doc
}

func linear(n int, base, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = base + step*float64(i)
	}
	return out
}

func TestGenerate_EmptySeries(t *testing.T) {
	doc := &model.CompanyDocument{
		Company: "ACME",
		HistoricalData: []model.RawObservation{
			{Date: "garbage", Raw: model.RawFields{LastClose: model.RawNumber(1)}},
		},
	}
	r := Generate(doc, testOptions())
	require.NotNil(t, r)
	assert.Nil(t, r.Metrics)
	assert.Equal(t, fmt.Sprintf(NoDataFormat, "ACME"), r.SummaryText)
	assert.Equal(t, fixedNow, r.GeneratedAt)

	b, err := json.Marshal(r)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, map[string]any{}, out["metrics"])
}

func TestGenerate_TwoPoints(t *testing.T) {
	r := Generate(makeDocument("TWO", []float64{100, 101}), testOptions())
	require.NotNil(t, r.Metrics)
	m := r.Metrics

	for name, ok := range map[string]bool{
		"rsi":       m.RSI.OK(),
		"macd":      m.MACD.OK(),
		"bollinger": m.Bollinger.OK(),
		"crosses":   m.Crosses.OK(),
		"backtest":  m.Backtest.OK(),
	} {
		assert.False(t, ok, name)
	}
	assert.Equal(t, model.ReasonInsufficientHistory, m.RSI.Reason())

	require.Len(t, m.Drawdowns.Series, 2)
	assert.Equal(t, 0.0, m.Drawdowns.Series[0].Drawdown)
	assert.Equal(t, 0.0, m.Drawdowns.Series[1].Drawdown)

	change, ok := m.Latest.Change.Get()
	require.True(t, ok)
	assert.InDelta(t, 0.01, change, 1e-12)
	assert.Equal(t, "2023-01-03", m.Latest.Date.String())

	vol, ok := m.Volatility.Get()
	require.True(t, ok)
	assert.Equal(t, 0.0, vol.WindowVol)

	assert.Empty(t, m.Anomalies)
	assert.Contains(t, r.SummaryText, "RSI (14): N/A (insufficient history)")
	assert.Contains(t, r.SummaryText, "No relevant anomalies detected")

	_, err := json.Marshal(r)
	require.NoError(t, err)
}

func TestGenerate_FullHistory(t *testing.T) {
	doc := makeDocument("LONG", linear(300, 100, 1))
	doc.TechnicalData = json.RawMessage(`{"indicators":{"summary":{"value":"Strong Buy","buy":"14","sell":"1"}}}`)

	r := Generate(doc, testOptions())
	m := r.Metrics
	require.NotNil(t, m)

	ts := m.Timeseries
	assert.Len(t, ts.PriceLine, DefaultChartWindow)
	assert.Len(t, ts.PriceCandle, DefaultChartWindow)
	assert.Len(t, ts.Returns, DefaultChartWindow)
	assert.Len(t, ts.Drawdowns, DefaultChartWindow)
	assert.Len(t, ts.Volume, DefaultChartWindow)
	assert.Equal(t, "2023-05-02", ts.PriceLine[0].Date.String()) // index 120
	assert.Nil(t, ts.PriceLine[0].SMA200)
	require.NotNil(t, ts.PriceLine[len(ts.PriceLine)-1].SMA200)
	assert.InDelta(t, 299.5, *ts.PriceLine[len(ts.PriceLine)-1].SMA200, 1e-9)
	assert.Equal(t, m.Latest.Date, ts.Returns[len(ts.Returns)-1].Date)

	rsi, ok := m.RSI.Get()
	require.True(t, ok)
	assert.Equal(t, 100.0, rsi)

	cross, ok := m.Crosses.Get()
	require.True(t, ok)
	assert.Equal(t, model.TrendBullish, cross.Status)

	bt, ok := m.Backtest.Get()
	require.True(t, ok)
	assert.InDelta(t, 399.0/299.0-1, float64(bt.BuyHoldReturn), 1e-12)

	risk, ok := m.Risk.Get()
	require.True(t, ok)
	assert.Equal(t, 300, risk.DaysSample)
	bh, _ := risk.BuyHoldReturn.Get()
	assert.InDelta(t, 2.99, bh, 1e-9)

	require.NotNil(t, m.AggregateSignal)
	assert.Equal(t, "Strong Buy", m.AggregateSignal.Value)

	text := r.SummaryText
	assert.True(t, strings.HasPrefix(text, "## Technical and quantitative state of **LONG**"))
	assert.Contains(t, text, "RSI (14): 100.0 (overbought)")
	assert.Contains(t, text, "bullish trend (SMA50 above SMA200)")
	assert.Contains(t, text, "### 8. Third-party aggregate signal")
	assert.Contains(t, text, "Aggregate signal: Strong Buy | Buy: 14 | Sell: 1")
	assert.Contains(t, text, "Buy & hold since start of series: 299.00%")
	for i := 1; i <= 7; i++ {
		assert.Contains(t, text, fmt.Sprintf("### %d. ", i))
	}
}

func TestGenerate_NoAggregateSectionWithoutSignal(t *testing.T) {
	r := Generate(makeDocument("PLAIN", linear(30, 10, 0.1)), testOptions())
	assert.NotContains(t, r.SummaryText, "### 8.")
	assert.Nil(t, r.Metrics.AggregateSignal)
}

func TestGenerate_Deterministic(t *testing.T) {
	doc := makeDocument("DET", linear(260, 50, -0.05))
	a, err := json.Marshal(Generate(doc, testOptions()))
	require.NoError(t, err)
	b, err := json.Marshal(Generate(doc, testOptions()))
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}

func TestGenerate_MaxSeriesLength(t *testing.T) {
	opts := testOptions()
	opts.MaxSeriesLength = 50
	r := Generate(makeDocument("CAP", linear(120, 10, 1)), opts)
	risk, ok := r.Metrics.Risk.Get()
	require.True(t, ok)
	assert.Equal(t, 50, risk.DaysSample)
	assert.Len(t, r.Metrics.Timeseries.PriceLine, 50)
}

func TestGenerate_ChartWindowOption(t *testing.T) {
	opts := testOptions()
	opts.ChartWindow = 10
	r := Generate(makeDocument("WIN", linear(40, 10, 1)), opts)
	assert.Len(t, r.Metrics.Timeseries.PriceLine, 10)
	assert.Len(t, r.Metrics.Timeseries.Returns, 10)
}

func TestOptions_WithDefaults(t *testing.T) {
	o := Options{RiskFreeRate: 0}.WithDefaults()
	assert.Equal(t, 252, o.TradingDays)
	assert.Equal(t, 0.0, o.RiskFreeRate)
	assert.Equal(t, DefaultChartWindow, o.ChartWindow)
	assert.NotNil(t, o.Now)
}

func TestGenerate_OverflowingReturnsEncode(t *testing.T) {
	r := Generate(makeDocument("PENNY", []float64{0.01, 10}), testOptions())

	risk, ok := r.Metrics.Risk.Get()
	require.True(t, ok)
	assert.False(t, risk.AnnualizedReturn.Finite(), "(1+999)^252 overflows")

	b, err := json.Marshal(r)
	require.NoError(t, err)

	var out struct {
		Metrics struct {
			Risk struct {
				Value map[string]any `json:"value"`
			} `json:"risk"`
			Timeseries struct {
				Returns []map[string]any `json:"returns"`
			} `json:"timeseries"`
		} `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Nil(t, out.Metrics.Risk.Value["annualizedReturn"])
	assert.InDelta(t, 999.0, out.Metrics.Risk.Value["averageDaily"], 1e-9)
	require.Len(t, out.Metrics.Timeseries.Returns, 1)
	assert.InDelta(t, 999.0, out.Metrics.Timeseries.Returns[0]["value"], 1e-9)
}

func TestWriteVolume_LargeAverage(t *testing.T) {
	m := &model.Metrics{Volume: model.Available(model.VolumeResult{Average20: 2e19, OBV: 1})}
	var b strings.Builder
	writeVolume(&b, m)
	assert.Contains(t, b.String(), "20-day average volume: 20,000,000,000,000,000,000")
}
