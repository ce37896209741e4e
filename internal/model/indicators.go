package model

// VolatilityResult holds windowed and full-history return volatility.
type VolatilityResult struct {
	Window         int     `json:"window"`
	WindowVol      float64 `json:"windowVol"`
	AnnualizedVol  float64 `json:"annualizedVol"`
	FullVol        float64 `json:"fullVol"`
	FullAnnualized float64 `json:"fullAnnualized"`
}

// DrawdownPoint is the decline from the running peak at one date.
type DrawdownPoint struct {
	Date     Date    `json:"date"`
	Drawdown float64 `json:"drawdown"`
}

// DrawdownResult describes the drawdown curve and its worst episode.
// Start, trough and recovery dates are nil when the series never fell.
type DrawdownResult struct {
	Series            []DrawdownPoint `json:"series"`
	MaxDrawdown       float64         `json:"maxDrawdown"`
	MaxDrawdownStart  *Date           `json:"maxDrawdownStart"`
	MaxDrawdownTrough *Date           `json:"maxDrawdownTrough"`
	RecoveryDate      *Date           `json:"recoveryDate"`
	LatestDrawdown    float64         `json:"latestDrawdown"`
}

// MACDResult is the final MACD line, signal line and histogram.
type MACDResult struct {
	MACD      float64 `json:"macd"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// BollingerResult holds the bands over the trailing window.
// Bandwidth is non-finite when the middle band is zero.
type BollingerResult struct {
	Middle    float64 `json:"middle"`
	Upper     float64 `json:"upper"`
	Lower     float64 `json:"lower"`
	Bandwidth Number  `json:"bandwidth"`
}

// TrendStatus is the sign of SMA50 - SMA200.
type TrendStatus string

const (
	TrendBullish TrendStatus = "bullish"
	TrendBearish TrendStatus = "bearish"
)

// CrossSignal names a moving-average crossover.
type CrossSignal string

const (
	GoldenCross CrossSignal = "golden_cross"
	DeathCross  CrossSignal = "death_cross"
)

// CrossResult is the state of the SMA50/SMA200 pair at the last point.
type CrossResult struct {
	Status         TrendStatus  `json:"status"`
	LastSignal     *CrossSignal `json:"lastSignal"`
	LastSignalDate *Date        `json:"lastSignalDate"`
	SMA50          float64      `json:"sma50"`
	SMA200         float64      `json:"sma200"`
}

// BacktestResult compares the crossover strategy with buy-and-hold.
type BacktestResult struct {
	StrategyReturn Number `json:"strategyReturn"`
	BuyHoldReturn  Number `json:"buyHoldReturn"`
	StartDate      Date   `json:"startDate"`
	EndDate        Date   `json:"endDate"`
}

// VolumePeak is a high-volume day and its multiple over the average.
type VolumePeak struct {
	Date     Date    `json:"date"`
	Volume   float64 `json:"volume"`
	Multiple float64 `json:"multiple"`
}

// VolumeResult summarises traded volume and on-balance volume.
type VolumeResult struct {
	Average20 float64      `json:"average20"`
	Peak      *VolumePeak  `json:"peak"`
	OBV       float64      `json:"obv"`
	Peaks     []VolumePeak `json:"peaks"`
}

// BucketAverage is the mean return of one weekday or month bucket.
type BucketAverage struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Seasonal holds the best and worst bucket of one kind.
type Seasonal struct {
	Best  BucketAverage `json:"best"`
	Worst BucketAverage `json:"worst"`
}

// Autocorrelation is the sample autocorrelation at one lag.
type Autocorrelation struct {
	Lag   int            `json:"lag"`
	Value Value[float64] `json:"value"`
}

// ADFResult is the outcome of the simplified unit-root test.
type ADFResult struct {
	Statistic     float64 `json:"statistic"`
	CriticalValue float64 `json:"criticalValue5"`
	Stationary    bool    `json:"stationary"`
}

// SeasonalityResult groups calendar effects and serial dependence.
type SeasonalityResult struct {
	Weekday         Seasonal          `json:"weekday"`
	Month           Seasonal          `json:"month"`
	Autocorrelation []Autocorrelation `json:"autocorrelation"`
	ADF             Value[ADFResult]  `json:"adf"`
}

// Anomaly is a daily return far from the sample mean.
type Anomaly struct {
	Date   Date    `json:"date"`
	Value  float64 `json:"value"`
	ZScore float64 `json:"zScore"`
}

// RiskResult aggregates return and risk statistics.
type RiskResult struct {
	AverageDaily         Number         `json:"averageDaily"`
	AnnualizedReturn     Number         `json:"annualizedReturn"`
	VolatilityDaily      Number         `json:"volatilityDaily"`
	VolatilityAnnualized Number         `json:"volatilityAnnualized"`
	Sharpe               Value[float64] `json:"sharpe"`
	Sortino              Value[float64] `json:"sortino"`
	MaxDrawdown          float64        `json:"maxDrawdown"`
	BuyHoldReturn        Value[float64] `json:"buyHoldReturn"`
	DaysSample           int            `json:"daysSample"`
}

// RangeResult is the trailing high/low range and where the last close sits.
type RangeResult struct {
	Days     int     `json:"days"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Position float64 `json:"position"`
}
