package calculator

import (
	"sort"

	"MarketAnalyst/internal/model"
)

const (
	volumeAverageWindow = 20
	volumePeakCount     = 3
)

// AnalyzeVolume computes the trailing 20-day average volume (all history
// when shorter), the three highest-volume days and on-balance volume.
func AnalyzeVolume(series model.PriceSeries) model.Value[model.VolumeResult] {
	if len(series) == 0 {
		return model.Unavailable[model.VolumeResult](model.ReasonEmptySeries)
	}

	average := mean(takeLast(series.Volumes(), volumeAverageWindow))

	peaks := make([]model.VolumePeak, len(series))
	for i, p := range series {
		multiple := 0.0
		if average != 0 {
			multiple = p.Volume / average
		}
		peaks[i] = model.VolumePeak{Date: p.Date, Volume: p.Volume, Multiple: multiple}
	}
	sort.SliceStable(peaks, func(i, j int) bool { return peaks[i].Volume > peaks[j].Volume })
	peaks = peaks[:min(volumePeakCount, len(peaks))]

	obv := 0.0
	for i := 1; i < len(series); i++ {
		switch {
		case series[i].Close > series[i-1].Close:
			obv += series[i].Volume
		case series[i].Close < series[i-1].Close:
			obv -= series[i].Volume
		}
	}

	peak := peaks[0]
	return model.Available(model.VolumeResult{
		Average20: average,
		Peak:      &peak,
		OBV:       obv,
		Peaks:     peaks,
	})
}
