package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketAnalyst/internal/model"
)

func TestCalculateSMA(t *testing.T) {
	v, err := CalculateSMA([]float64{1, 2, 3, 4, 5}, 3)
	require.NoError(t, err)
	assert.Equal(t, 4.0, v)

	_, err = CalculateSMA([]float64{1, 2}, 3)
	assert.Error(t, err)
	_, err = CalculateSMA([]float64{1, 2}, 0)
	assert.Error(t, err)

	sma := SMASeries([]float64{1, 2, 3, 4}, 2)
	require.Len(t, sma, 4)
	assert.Nil(t, sma[0])
	assert.Equal(t, 1.5, *sma[1])
	assert.Equal(t, 3.5, *sma[3])
}

func TestEMASeeding(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	_, ok := emaAt(values, 1, 3, 0, false)
	assert.False(t, ok, "undefined before period-1")

	seed, ok := emaAt(values, 2, 3, 0, false)
	require.True(t, ok)
	assert.Equal(t, 2.0, seed, "simple average at period-1")

	next, ok := emaAt(values, 3, 3, seed, true)
	require.True(t, ok)
	assert.Equal(t, (4-2.0)*0.5+2.0, next)
}

func TestCalculateRSI(t *testing.T) {
	t.Run("insufficient history", func(t *testing.T) {
		v := CalculateRSI(seriesFromCloses(linearCloses(14, 100, 1)...), 14)
		assert.False(t, v.OK())
		assert.Equal(t, model.ReasonInsufficientHistory, v.Reason())
	})

	t.Run("monotonic rise is 100", func(t *testing.T) {
		v := CalculateRSI(seriesFromCloses(linearCloses(40, 100, 1)...), 14)
		rsi, ok := v.Get()
		require.True(t, ok)
		assert.Equal(t, 100.0, rsi)
	})

	t.Run("monotonic fall is 0", func(t *testing.T) {
		rsi, ok := CalculateRSI(seriesFromCloses(linearCloses(40, 100, -1)...), 14).Get()
		require.True(t, ok)
		assert.Equal(t, 0.0, rsi)
	})

	t.Run("bounded", func(t *testing.T) {
		closes := make([]float64, 120)
		for i := range closes {
			closes[i] = 100 + 10*math.Sin(float64(i)/3)
		}
		rsi, ok := CalculateRSI(seriesFromCloses(closes...), 14).Get()
		require.True(t, ok)
		assert.GreaterOrEqual(t, rsi, 0.0)
		assert.LessOrEqual(t, rsi, 100.0)
	})

	t.Run("known value", func(t *testing.T) {
		// 14 deltas alternating +2/-1 then one -1 step
		closes := []float64{100}
		for i := 0; i < 14; i++ {
			if i%2 == 0 {
				closes = append(closes, closes[len(closes)-1]+2)
			} else {
				closes = append(closes, closes[len(closes)-1]-1)
			}
		}
		closes = append(closes, closes[len(closes)-1]-1)
		avgGain := (7 * 2.0) / 14
		avgLoss := (7 * 1.0) / 14
		avgGain = (avgGain * 13) / 14
		avgLoss = (avgLoss*13 + 1) / 14
		want := 100 - 100/(1+avgGain/avgLoss)

		rsi, ok := CalculateRSI(seriesFromCloses(closes...), 14).Get()
		require.True(t, ok)
		assert.InDelta(t, want, rsi, 1e-9)
	})
}

func TestCalculateMACD(t *testing.T) {
	assert.False(t, CalculateMACD(linearCloses(25, 100, 1)).OK())

	t.Run("first defined point seeds the signal", func(t *testing.T) {
		macd, ok := CalculateMACD(linearCloses(26, 100, 1)).Get()
		require.True(t, ok)
		assert.Equal(t, macd.MACD, macd.Signal)
		assert.Equal(t, 0.0, macd.Histogram)
	})

	t.Run("constant series is flat", func(t *testing.T) {
		closes := make([]float64, 60)
		for i := range closes {
			closes[i] = 50
		}
		macd, ok := CalculateMACD(closes).Get()
		require.True(t, ok)
		assert.InDelta(t, 0, macd.MACD, 1e-12)
		assert.InDelta(t, 0, macd.Signal, 1e-12)
	})

	t.Run("uptrend is positive", func(t *testing.T) {
		macd, ok := CalculateMACD(linearCloses(100, 100, 1)).Get()
		require.True(t, ok)
		assert.Greater(t, macd.MACD, 0.0)
		assert.InDelta(t, macd.MACD-macd.Signal, macd.Histogram, 1e-12)
	})
}

func TestCalculateBollinger(t *testing.T) {
	assert.False(t, CalculateBollinger(linearCloses(19, 1, 1), 20, 2).OK())

	closes := linearCloses(25, 1, 1) // last 20 are 6..25
	bb, ok := CalculateBollinger(closes, 20, 2).Get()
	require.True(t, ok)
	sd := math.Sqrt(35) // sample variance of 20 consecutive integers is 35
	assert.InDelta(t, 15.5, bb.Middle, 1e-12)
	assert.InDelta(t, 15.5+2*sd, bb.Upper, 1e-9)
	assert.InDelta(t, 15.5-2*sd, bb.Lower, 1e-9)
	assert.InDelta(t, sd/15.5, float64(bb.Bandwidth), 1e-9)
}

func TestCalculateBollinger_ZeroMiddle(t *testing.T) {
	zeros := make([]float64, 20)
	bb, ok := CalculateBollinger(zeros, 20, 2).Get()
	require.True(t, ok)
	assert.True(t, math.IsNaN(float64(bb.Bandwidth)))
	assert.False(t, bb.Bandwidth.Finite())

	symmetric := make([]float64, 20)
	for i := range symmetric {
		symmetric[i] = 1
		if i%2 == 0 {
			symmetric[i] = -1
		}
	}
	bb, ok = CalculateBollinger(symmetric, 20, 2).Get()
	require.True(t, ok)
	assert.True(t, math.IsInf(float64(bb.Bandwidth), 1))
}

func TestCalculateVolatility(t *testing.T) {
	assert.False(t, CalculateVolatility(nil, 21, 252).OK())

	single, ok := CalculateVolatility(returnsFrom(0.05), 21, 252).Get()
	require.True(t, ok)
	assert.Equal(t, 0.0, single.WindowVol)
	assert.Equal(t, 0.0, single.FullVol)

	returns := returnsFrom(0.01, -0.01, 0.02, -0.02, 0.03)
	v, ok := CalculateVolatility(returns, 3, 252).Get()
	require.True(t, ok)
	assert.InDelta(t, stdDev([]float64{0.02, -0.02, 0.03}), v.WindowVol, 1e-15)
	assert.InDelta(t, v.WindowVol*math.Sqrt(252), v.AnnualizedVol, 1e-15)
	assert.InDelta(t, stdDev(returns.Values()), v.FullVol, 1e-15)
	assert.InDelta(t, v.FullVol*math.Sqrt(252), v.FullAnnualized, 1e-15)
}

func TestCalculateDrawdowns(t *testing.T) {
	t.Run("always rising", func(t *testing.T) {
		dd := CalculateDrawdowns(seriesFromCloses(100, 110))
		require.Len(t, dd.Series, 2)
		assert.Equal(t, 0.0, dd.Series[0].Drawdown)
		assert.Equal(t, 0.0, dd.Series[1].Drawdown)
		assert.Equal(t, 0.0, dd.MaxDrawdown)
		assert.Nil(t, dd.RecoveryDate)
		assert.Nil(t, dd.MaxDrawdownTrough)
	})

	t.Run("trough and recovery", func(t *testing.T) {
		series := seriesFromCloses(100, 120, 90, 110, 125, 130)
		dd := CalculateDrawdowns(series)
		assert.InDelta(t, 90.0/120-1, dd.MaxDrawdown, 1e-12)
		require.NotNil(t, dd.MaxDrawdownStart)
		require.NotNil(t, dd.MaxDrawdownTrough)
		require.NotNil(t, dd.RecoveryDate)
		assert.Equal(t, series[1].Date, *dd.MaxDrawdownStart)
		assert.Equal(t, series[2].Date, *dd.MaxDrawdownTrough)
		assert.Equal(t, series[4].Date, *dd.RecoveryDate)
		assert.Equal(t, 0.0, dd.LatestDrawdown)
		for _, p := range dd.Series {
			assert.LessOrEqual(t, p.Drawdown, 0.0)
		}
	})

	t.Run("deeper trough resets recovery", func(t *testing.T) {
		series := seriesFromCloses(100, 80, 100, 110, 60, 90)
		dd := CalculateDrawdowns(series)
		assert.InDelta(t, 60.0/110-1, dd.MaxDrawdown, 1e-12)
		assert.Equal(t, series[3].Date, *dd.MaxDrawdownStart)
		assert.Equal(t, series[4].Date, *dd.MaxDrawdownTrough)
		assert.Nil(t, dd.RecoveryDate)
		assert.InDelta(t, 90.0/110-1, dd.LatestDrawdown, 1e-12)
	})

	t.Run("zero peak", func(t *testing.T) {
		dd := CalculateDrawdowns(seriesFromCloses(0, 0))
		assert.Equal(t, 0.0, dd.MaxDrawdown)
	})
}

func TestDetectCross(t *testing.T) {
	t.Run("insufficient", func(t *testing.T) {
		v := DetectCross(seriesFromCloses(linearCloses(199, 100, 1)...))
		assert.False(t, v.OK())
		assert.Equal(t, model.ReasonInsufficientHistory, v.Reason())
	})

	t.Run("uptrend without fresh cross", func(t *testing.T) {
		c, ok := DetectCross(seriesFromCloses(linearCloses(300, 100, 1)...)).Get()
		require.True(t, ok)
		assert.Equal(t, model.TrendBullish, c.Status)
		assert.Nil(t, c.LastSignal)
		assert.InDelta(t, 374.5, c.SMA50, 1e-9)
		assert.InDelta(t, 299.5, c.SMA200, 1e-9)
	})

	t.Run("golden cross on last point", func(t *testing.T) {
		// 200 flat points then a jump lifts SMA50 above SMA200 on the last point
		closes := make([]float64, 201)
		for i := range closes {
			closes[i] = 100
		}
		closes[200] = 200
		series := seriesFromCloses(closes...)
		c, ok := DetectCross(series).Get()
		require.True(t, ok)
		require.NotNil(t, c.LastSignal)
		assert.Equal(t, model.GoldenCross, *c.LastSignal)
		assert.Equal(t, series[200].Date, *c.LastSignalDate)
		assert.Equal(t, model.TrendBullish, c.Status)
	})

	t.Run("death cross on last point", func(t *testing.T) {
		closes := make([]float64, 201)
		for i := range closes {
			closes[i] = 100
		}
		closes[200] = 50
		c, ok := DetectCross(seriesFromCloses(closes...)).Get()
		require.True(t, ok)
		require.NotNil(t, c.LastSignal)
		assert.Equal(t, model.DeathCross, *c.LastSignal)
		assert.Equal(t, model.TrendBearish, c.Status)
	})

	t.Run("idempotent", func(t *testing.T) {
		series := seriesFromCloses(linearCloses(250, 300, -0.5)...)
		assert.Equal(t, DetectCross(series), DetectCross(series))
	})
}

func TestAnalyzeVolume(t *testing.T) {
	assert.False(t, AnalyzeVolume(nil).OK())

	series := seriesFromCloses(10, 11, 11, 10, 12)
	vols := []float64{100, 200, 300, 400, 500}
	for i := range series {
		series[i].Volume = vols[i]
	}
	v, ok := AnalyzeVolume(series).Get()
	require.True(t, ok)
	assert.Equal(t, 300.0, v.Average20)
	require.Len(t, v.Peaks, 3)
	assert.Equal(t, 500.0, v.Peaks[0].Volume)
	assert.Equal(t, 400.0, v.Peaks[1].Volume)
	assert.Equal(t, 300.0, v.Peaks[2].Volume)
	assert.InDelta(t, 500.0/300, v.Peak.Multiple, 1e-12)
	// +200 (rise), unchanged, -400 (fall), +500 (rise)
	assert.Equal(t, 300.0, v.OBV)
}

func TestAnalyzeVolume_TrailingWindow(t *testing.T) {
	closes := linearCloses(30, 10, 1)
	series := seriesFromCloses(closes...)
	for i := range series {
		series[i].Volume = float64(i + 1)
	}
	v, ok := AnalyzeVolume(series).Get()
	require.True(t, ok)
	assert.Equal(t, 20.5, v.Average20) // mean of 11..30
}

func TestDetectAnomalies(t *testing.T) {
	assert.Empty(t, DetectAnomalies(nil, 2, 3))
	assert.Empty(t, DetectAnomalies(returnsFrom(0.25, 0.25, 0.25), 2, 3))

	values := make([]float64, 40)
	values[10] = 0.5
	values[20] = -0.8
	values[30] = 0.3
	values[35] = -0.4
	anomalies := DetectAnomalies(returnsFrom(values...), 2, 3)
	require.Len(t, anomalies, 3)
	assert.Equal(t, -0.8, anomalies[0].Value)
	assert.Equal(t, 0.5, anomalies[1].Value)
	assert.Equal(t, -0.4, anomalies[2].Value)
	for i := 1; i < len(anomalies); i++ {
		assert.GreaterOrEqual(t, math.Abs(anomalies[i-1].ZScore), math.Abs(anomalies[i].ZScore))
	}
	for _, a := range anomalies {
		assert.GreaterOrEqual(t, math.Abs(a.ZScore), 2.0)
	}
}

func TestCalculateRange(t *testing.T) {
	series := seriesFromCloses(10, 20, 15)
	r, ok := CalculateRange(series, RangeDays).Get()
	require.True(t, ok)
	assert.Equal(t, 20.0, r.High)
	assert.Equal(t, 10.0, r.Low)
	assert.Equal(t, 0.5, r.Position)

	pos, err := CalculatePosition(5, 10, 10)
	require.NoError(t, err)
	assert.Equal(t, 0.5, pos)
	_, err = CalculatePosition(5, 1, 10)
	assert.Error(t, err)
}
