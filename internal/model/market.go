package model

// PricePoint is one validated daily OHLCV observation.
type PricePoint struct {
	Date   Date    `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// PriceSeries is ordered ascending by date with unique dates.
type PriceSeries []PricePoint

// Closes extracts the close prices.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, p := range s {
		closes[i] = p.Close
	}
	return closes
}

// Volumes extracts the traded volumes.
func (s PriceSeries) Volumes() []float64 {
	volumes := make([]float64, len(s))
	for i, p := range s {
		volumes[i] = p.Volume
	}
	return volumes
}

// Last returns the most recent point. The series must be non-empty.
func (s PriceSeries) Last() PricePoint { return s[len(s)-1] }

// ReturnPoint is a period-over-period change dated at the later price.
type ReturnPoint struct {
	Date  Date    `json:"date"`
	Value float64 `json:"value"`
}

// ReturnSeries holds len(prices)-1 returns.
type ReturnSeries []ReturnPoint

// Values extracts the return values.
func (r ReturnSeries) Values() []float64 {
	values := make([]float64, len(r))
	for i, p := range r {
		values[i] = p.Value
	}
	return values
}
