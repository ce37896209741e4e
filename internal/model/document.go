package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// RawFields carries the scraped numeric fields as untouched JSON tokens.
// Any of them may be missing, null, a number or a numeric string.
type RawFields struct {
	LastClose json.RawMessage `json:"last_close,omitempty"`
	LastOpen  json.RawMessage `json:"last_open,omitempty"`
	LastMax   json.RawMessage `json:"last_max,omitempty"`
	LastMin   json.RawMessage `json:"last_min,omitempty"`
	Volume    json.RawMessage `json:"volume,omitempty"`
}

// RawObservation is one scraped day, before validation.
type RawObservation struct {
	Date string    `json:"date"`
	Raw  RawFields `json:"raw"`
}

// CompanyDocument is the stored scrape for one company.
type CompanyDocument struct {
	Company        string           `json:"company"`
	HistoricalData []RawObservation `json:"historicalData"`
	TechnicalData  json.RawMessage  `json:"technicalData,omitempty"`
	CreatedAt      *time.Time       `json:"createdAt,omitempty"`
}

// RawNumber encodes f as a raw JSON number token.
func RawNumber(f float64) json.RawMessage {
	return json.RawMessage(strconv.FormatFloat(f, 'g', -1, 64))
}

// ParseRawNumber interprets a raw token as a finite number. JSON numbers
// and numeric strings are accepted; anything else is rejected.
func ParseRawNumber(raw json.RawMessage) (float64, bool) {
	b := bytes.TrimSpace(raw)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return 0, false
	}

	var text string
	if b[0] == '"' {
		if err := json.Unmarshal(b, &text); err != nil {
			return 0, false
		}
		text = strings.TrimSpace(text)
	} else {
		text = string(b)
	}
	if text == "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// AggregateSignal is the third-party technical summary echoed into reports.
type AggregateSignal struct {
	Value string `json:"value"`
	Buy   string `json:"buy"`
	Sell  string `json:"sell"`
}

// ParseAggregateSignal extracts indicators.summary.{value,buy,sell} from an
// opaque technical-data blob. It returns nil when no summary value exists.
func ParseAggregateSignal(technicalData json.RawMessage) *AggregateSignal {
	if len(bytes.TrimSpace(technicalData)) == 0 {
		return nil
	}
	var blob struct {
		Indicators struct {
			Summary struct {
				Value any `json:"value"`
				Buy   any `json:"buy"`
				Sell  any `json:"sell"`
			} `json:"summary"`
		} `json:"indicators"`
	}
	if err := json.Unmarshal(technicalData, &blob); err != nil {
		return nil
	}
	s := blob.Indicators.Summary
	value := echo(s.Value)
	if value == "" {
		return nil
	}
	return &AggregateSignal{Value: value, Buy: echo(s.Buy), Sell: echo(s.Sell)}
}

func echo(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if !x {
			return ""
		}
		return "true"
	default:
		return fmt.Sprint(x)
	}
}
