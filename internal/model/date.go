package model

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// DateLayout is the single serialisation rule for calendar dates.
const DateLayout = "2006-01-02"

// Date is a UTC calendar day.
type Date struct {
	time.Time
}

// NewDate truncates t to its UTC calendar day.
func NewDate(t time.Time) Date {
	u := t.UTC()
	return Date{time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)}
}

// MustDate parses a YYYY-MM-DD string, panicking on malformed input.
// Intended for fixtures and constants.
func MustDate(s string) Date {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(fmt.Sprintf("model: bad date %q: %v", s, err))
	}
	return Date{t}
}

func (d Date) String() string { return d.Format(DateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// Number is a float64 that may legitimately be non-finite (a division
// by a zero price). Non-finite values serialise as JSON null.
type Number float64

// Finite reports whether n is neither NaN nor infinite.
func (n Number) Finite() bool {
	f := float64(n)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Finite() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(n))
}

func (n *Number) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = Number(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}
