package calculator

import (
	"sort"
	"strings"
	"time"

	"MarketAnalyst/internal/model"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"Jan 2, 2006",
	"01/02/2006",
}

// ParseDate parses a scraped date string into a UTC calendar day.
func ParseDate(s string) (model.Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.Date{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return model.NewDate(t), true
		}
	}
	return model.Date{}, false
}

// Normalize validates raw observations and returns them sorted by date.
// Rows with an unparseable date or any non-numeric field are dropped.
// When several rows share a date, the last one in input order is kept.
func Normalize(raw []model.RawObservation) model.PriceSeries {
	points := make(model.PriceSeries, 0, len(raw))
	for _, obs := range raw {
		if p, ok := toPricePoint(obs); ok {
			points = append(points, p)
		}
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date.Time)
	})

	out := points[:0]
	for _, p := range points {
		if n := len(out); n > 0 && out[n-1].Date.Equal(p.Date.Time) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}

func toPricePoint(obs model.RawObservation) (model.PricePoint, bool) {
	closePrice, ok1 := model.ParseRawNumber(obs.Raw.LastClose)
	open, ok2 := model.ParseRawNumber(obs.Raw.LastOpen)
	high, ok3 := model.ParseRawNumber(obs.Raw.LastMax)
	low, ok4 := model.ParseRawNumber(obs.Raw.LastMin)
	volume, ok5 := model.ParseRawNumber(obs.Raw.Volume)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return model.PricePoint{}, false
	}
	date, ok := ParseDate(obs.Date)
	if !ok {
		return model.PricePoint{}, false
	}
	return model.PricePoint{
		Date:   date,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePrice,
		Volume: volume,
	}, true
}
