package calculator

import "MarketAnalyst/internal/model"

const (
	MACDFastPeriod   = 12
	MACDSlowPeriod   = 26
	MACDSignalPeriod = 9
)

// CalculateMACD walks the 12/26 EMAs and the 9-period signal EMA once over
// the closes and returns the triple at the last point.
//
// The signal EMA reads the MACD line with undefined positions stored as 0
// and is only advanced once the MACD line is defined.
func CalculateMACD(closes []float64) model.Value[model.MACDResult] {
	n := len(closes)
	if n < MACDSlowPeriod {
		return model.Unavailable[model.MACDResult](model.ReasonInsufficientHistory)
	}

	macdLine := make([]float64, n)
	var (
		fast, slow, signal       float64
		fastOK, slowOK, signalOK bool
		macd                     float64
		macdOK                   bool
	)
	for i := 0; i < n; i++ {
		fast, fastOK = emaAt(closes, i, MACDFastPeriod, fast, fastOK)
		slow, slowOK = emaAt(closes, i, MACDSlowPeriod, slow, slowOK)
		macdOK = fastOK && slowOK
		if !macdOK {
			continue
		}
		macd = fast - slow
		macdLine[i] = macd
		signal, signalOK = emaAt(macdLine, i, MACDSignalPeriod, signal, signalOK)
	}

	if !macdOK || !signalOK {
		return model.Unavailable[model.MACDResult](model.ReasonInsufficientHistory)
	}
	return model.Available(model.MACDResult{
		MACD:      macd,
		Signal:    signal,
		Histogram: macd - signal,
	})
}
