package calculator

import "MarketAnalyst/internal/model"

// CalculateDrawdowns tracks the running peak close in one forward pass.
// The recovery date is the first later point closing at or above the peak
// that preceded the worst trough; finding a deeper trough restarts the search.
func CalculateDrawdowns(series model.PriceSeries) model.DrawdownResult {
	result := model.DrawdownResult{Series: make([]model.DrawdownPoint, 0, len(series))}
	if len(series) == 0 {
		return result
	}

	peak := series[0].Close
	peakDate := series[0].Date
	awaitingRecovery := false

	for _, p := range series {
		if p.Close > peak {
			peak = p.Close
			peakDate = p.Date
		}

		drawdown := 0.0
		if peak != 0 {
			drawdown = p.Close/peak - 1
		}
		result.Series = append(result.Series, model.DrawdownPoint{Date: p.Date, Drawdown: drawdown})

		if drawdown < result.MaxDrawdown {
			start, trough := peakDate, p.Date
			result.MaxDrawdown = drawdown
			result.MaxDrawdownStart = &start
			result.MaxDrawdownTrough = &trough
			result.RecoveryDate = nil
			awaitingRecovery = true
		}

		if awaitingRecovery && p.Close >= peak {
			recovered := p.Date
			result.RecoveryDate = &recovered
			awaitingRecovery = false
		}
	}

	result.LatestDrawdown = result.Series[len(result.Series)-1].Drawdown
	return result
}
