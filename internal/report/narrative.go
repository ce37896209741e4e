package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"MarketAnalyst/internal/model"
)

const notAvailable = "N/A"

// Narrative renders the fixed-section summary. It only formats values
// already present in m so text and metrics never disagree.
func Narrative(company string, m *model.Metrics, opts Options) string {
	opts = opts.WithDefaults()
	var b strings.Builder

	fmt.Fprintf(&b, "## Technical and quantitative state of **%s**\n", company)
	fmt.Fprintf(&b, "Last data point: %s (close %s)\n", m.Latest.Date, num(m.Latest.Close, 2))

	writeMomentum(&b, m, opts)
	writeVolatility(&b, m, opts)
	writeCrosses(&b, m)
	writeVolume(&b, m)
	writeSeasonality(&b, m)
	writeRisk(&b, m)
	writeAnomalies(&b, m, opts)

	if s := m.AggregateSignal; s != nil {
		b.WriteString("\n### 8. Third-party aggregate signal\n")
		fmt.Fprintf(&b, "- Aggregate signal: %s | Buy: %s | Sell: %s\n", s.Value, orNA(s.Buy), orNA(s.Sell))
	}

	return strings.TrimRight(b.String(), "\n")
}

func writeMomentum(b *strings.Builder, m *model.Metrics, opts Options) {
	b.WriteString("\n### 1. Time series and momentum\n")
	fmt.Fprintf(b, "- Latest daily return: %s (%s log)\n", pctValue(m.Returns.LatestReturn), pctValue(m.Returns.LatestLog))
	fmt.Fprintf(b, "- Average daily return: %s (%s annualized)\n", pctValue(m.Returns.AverageDaily), pctValue(m.Returns.AnnualizedReturn))

	if rsi, ok := m.RSI.Get(); ok {
		fmt.Fprintf(b, "- RSI (%d): %s (%s)\n", opts.RSIPeriod, num(rsi, 1), rsiLabel(rsi))
	} else {
		fmt.Fprintf(b, "- RSI (%d): %s (%s)\n", opts.RSIPeriod, notAvailable, reasonText(m.RSI.Reason()))
	}

	if macd, ok := m.MACD.Get(); ok {
		fmt.Fprintf(b, "- MACD (12-26-9): line %s, signal %s, histogram %s\n",
			num(macd.MACD, 3), num(macd.Signal, 3), num(macd.Histogram, 3))
	} else {
		fmt.Fprintf(b, "- MACD (12-26-9): %s (%s)\n", notAvailable, reasonText(m.MACD.Reason()))
	}

	label := fmt.Sprintf("%d, %gσ", opts.BollingerPeriod, opts.BollingerMultiplier)
	if bb, ok := m.Bollinger.Get(); ok {
		fmt.Fprintf(b, "- Bollinger Bands (%s): middle %s, upper %s, lower %s\n",
			label, num(bb.Middle, 2), num(bb.Upper, 2), num(bb.Lower, 2))
	} else {
		fmt.Fprintf(b, "- Bollinger Bands (%s): %s (%s)\n", label, notAvailable, reasonText(m.Bollinger.Reason()))
	}
}

func writeVolatility(b *strings.Builder, m *model.Metrics, opts Options) {
	b.WriteString("\n### 2. Volatility and drawdowns\n")
	if v, ok := m.Volatility.Get(); ok {
		fmt.Fprintf(b, "- %d-day volatility: %s (annualized %s)\n", v.Window, pct(v.WindowVol), pct(v.AnnualizedVol))
		fmt.Fprintf(b, "- Historical volatility: %s (annualized %s)\n", pct(v.FullVol), pct(v.FullAnnualized))
	} else {
		fmt.Fprintf(b, "- %d-day volatility: %s (%s)\n", opts.VolatilityWindow, notAvailable, reasonText(m.Volatility.Reason()))
	}

	dd := m.Drawdowns
	fmt.Fprintf(b, "- Current drawdown: %s; Maximum drawdown: %s\n", pct(dd.LatestDrawdown), pct(dd.MaxDrawdown))
	if dd.MaxDrawdownStart != nil && dd.MaxDrawdownTrough != nil {
		recovery := ", not yet fully recovered"
		if dd.RecoveryDate != nil {
			recovery = fmt.Sprintf(", recovered on %s", dd.RecoveryDate)
		}
		fmt.Fprintf(b, "  (from %s to %s%s)\n", dd.MaxDrawdownStart, dd.MaxDrawdownTrough, recovery)
	}
}

func writeCrosses(b *strings.Builder, m *model.Metrics) {
	b.WriteString("\n### 3. Crosses and strategies\n")
	if c, ok := m.Crosses.Get(); ok {
		fmt.Fprintf(b, "- SMA50: %s vs SMA200: %s → %s\n", num(c.SMA50, 2), num(c.SMA200, 2), trendText(c.Status))
		if c.LastSignal != nil && c.LastSignalDate != nil {
			fmt.Fprintf(b, "- Last signal: %s on %s\n", signalText(*c.LastSignal), c.LastSignalDate)
		}
	} else {
		fmt.Fprintf(b, "- SMA50: %s vs SMA200: %s → %s\n", notAvailable, notAvailable, reasonText(m.Crosses.Reason()))
	}
	if bt, ok := m.Backtest.Get(); ok {
		fmt.Fprintf(b, "- SMA50/200 backtest since %s: strategy %s, buy & hold %s\n",
			bt.StartDate, pct(float64(bt.StrategyReturn)), pct(float64(bt.BuyHoldReturn)))
	}
}

func writeVolume(b *strings.Builder, m *model.Metrics) {
	b.WriteString("\n### 4. Volume\n")
	v, ok := m.Volume.Get()
	if !ok {
		fmt.Fprintf(b, "- 20-day average volume: %s\n", notAvailable)
		return
	}
	fmt.Fprintf(b, "- 20-day average volume: %s\n", humanize.Commaf(math.Round(v.Average20)))
	if v.Peak != nil {
		fmt.Fprintf(b, "- Recent peak: %s (%sx the average) on %s\n",
			humanize.Commaf(v.Peak.Volume), num(v.Peak.Multiple, 2), v.Peak.Date)
	}
	fmt.Fprintf(b, "- OBV (cumulative volume trend): %s\n", humanize.Commaf(v.OBV))
}

func writeSeasonality(b *strings.Builder, m *model.Metrics) {
	b.WriteString("\n### 5. Seasonality and autocorrelation\n")
	s, ok := m.Seasonality.Get()
	if !ok {
		fmt.Fprintf(b, "- %s (%s)\n", notAvailable, reasonText(m.Seasonality.Reason()))
		return
	}
	fmt.Fprintf(b, "- Best weekday: %s (%s); Worst weekday: %s (%s)\n",
		s.Weekday.Best.Name, pct(s.Weekday.Best.Value), s.Weekday.Worst.Name, pct(s.Weekday.Worst.Value))
	fmt.Fprintf(b, "- Best month: %s (%s); Worst month: %s (%s)\n",
		s.Month.Best.Name, pct(s.Month.Best.Value), s.Month.Worst.Name, pct(s.Month.Worst.Value))

	var lags []string
	for _, a := range s.Autocorrelation {
		if v, ok := a.Value.Get(); ok {
			lags = append(lags, fmt.Sprintf("lag %d: %s", a.Lag, num(v, 3)))
		}
	}
	if len(lags) > 0 {
		fmt.Fprintf(b, "- Return autocorrelation: %s\n", strings.Join(lags, " | "))
	}

	if adf, ok := s.ADF.Get(); ok {
		verdict := "unit root not rejected"
		if adf.Stationary {
			verdict = "stationary series"
		}
		fmt.Fprintf(b, "- ADF test (simplified approximation): statistic %s vs critical %s → %s\n",
			num(adf.Statistic, 2), num(adf.CriticalValue, 2), verdict)
	}
}

func writeRisk(b *strings.Builder, m *model.Metrics) {
	b.WriteString("\n### 6. Performance and risk\n")
	r, ok := m.Risk.Get()
	if !ok {
		fmt.Fprintf(b, "- %s (%s)\n", notAvailable, reasonText(m.Risk.Reason()))
		return
	}
	fmt.Fprintf(b, "- Daily volatility: %s (annualized %s)\n", pct(float64(r.VolatilityDaily)), pct(float64(r.VolatilityAnnualized)))
	fmt.Fprintf(b, "- Sharpe ratio: %s | Sortino: %s\n", numValue(r.Sharpe, 2), numValue(r.Sortino, 2))
	fmt.Fprintf(b, "- Buy & hold since start of series: %s (sample of %d sessions)\n", pctValue(r.BuyHoldReturn), r.DaysSample)
}

func writeAnomalies(b *strings.Builder, m *model.Metrics, opts Options) {
	b.WriteString("\n### 7. Breaks and anomalies\n")
	if len(m.Anomalies) == 0 {
		fmt.Fprintf(b, "- No relevant anomalies detected (|z| ≥ %g) in the analysed window.\n", opts.AnomalyThreshold)
		return
	}
	for _, a := range m.Anomalies {
		fmt.Fprintf(b, "- %s: return %s (z-score %s)\n", a.Date, pct(a.Value), num(a.ZScore, 2))
	}
}

func rsiLabel(rsi float64) string {
	switch {
	case rsi < 30:
		return "oversold"
	case rsi > 70:
		return "overbought"
	default:
		return "neutral"
	}
}

func trendText(s model.TrendStatus) string {
	if s == model.TrendBullish {
		return "bullish trend (SMA50 above SMA200)"
	}
	return "bearish trend (SMA50 below SMA200)"
}

func signalText(s model.CrossSignal) string {
	if s == model.GoldenCross {
		return "golden cross (SMA50 > SMA200)"
	}
	return "death cross (SMA50 < SMA200)"
}

func reasonText(r model.Reason) string {
	switch r {
	case model.ReasonInsufficientHistory:
		return "insufficient history"
	case model.ReasonEmptySeries:
		return "no data"
	case model.ReasonZeroVariance:
		return "zero variance"
	case model.ReasonNoNegativeReturns:
		return "no negative returns"
	case model.ReasonZeroBasePrice:
		return "zero base price"
	case model.ReasonZeroResidualVariance:
		return "zero residual variance"
	default:
		return string(r)
	}
}
