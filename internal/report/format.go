package report

import (
	"fmt"
	"math"

	"MarketAnalyst/internal/model"
)

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// pct formats a fraction as a percentage, N/A when non-finite.
func pct(v float64) string {
	if !finite(v) {
		return notAvailable
	}
	return fmt.Sprintf("%.2f%%", v*100)
}

func num(v float64, decimals int) string {
	if !finite(v) {
		return notAvailable
	}
	return fmt.Sprintf("%.*f", decimals, v)
}

func pctValue(v model.Value[float64]) string {
	if f, ok := v.Get(); ok {
		return pct(f)
	}
	return notAvailable
}

func numValue(v model.Value[float64], decimals int) string {
	if f, ok := v.Get(); ok {
		return num(f, decimals)
	}
	return notAvailable
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
