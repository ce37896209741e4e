package model

import (
	"encoding/json"
	"math"
)

// Reason explains why an indicator could not be computed.
type Reason string

const (
	ReasonEmptySeries          Reason = "empty_series"
	ReasonInsufficientHistory  Reason = "insufficient_history"
	ReasonZeroVariance         Reason = "zero_variance"
	ReasonNoNegativeReturns    Reason = "no_negative_returns"
	ReasonZeroBasePrice        Reason = "zero_base_price"
	ReasonZeroResidualVariance Reason = "zero_residual_variance"
)

// Value is the outcome of an indicator whose precondition may not hold.
// Either the value is available, or a Reason says why it is not.
type Value[T any] struct {
	value     T
	available bool
	reason    Reason
}

// Available wraps a computed value.
func Available[T any](v T) Value[T] {
	return Value[T]{value: v, available: true}
}

// Unavailable records why no value could be computed.
func Unavailable[T any](reason Reason) Value[T] {
	return Value[T]{reason: reason}
}

// Get returns the value and whether it is available.
func (v Value[T]) Get() (T, bool) { return v.value, v.available }

// OK reports whether the value is available.
func (v Value[T]) OK() bool { return v.available }

// Reason returns the unavailability reason, empty when available.
func (v Value[T]) Reason() Reason { return v.reason }

// OrZero returns the value, or the zero value of T when unavailable.
func (v Value[T]) OrZero() T { return v.value }

type valueJSON[T any] struct {
	Available bool   `json:"available"`
	Value     *T     `json:"value,omitempty"`
	Reason    Reason `json:"reason,omitempty"`
}

func (v Value[T]) MarshalJSON() ([]byte, error) {
	// a non-finite float (log return after a zero close) encodes as null
	if f, ok := any(v.value).(float64); ok && v.available {
		n := Number(f)
		return json.Marshal(valueJSON[Number]{Available: true, Value: &n})
	}
	out := valueJSON[T]{Available: v.available, Reason: v.reason}
	if v.available {
		val := v.value
		out.Value = &val
	}
	return json.Marshal(out)
}

func (v *Value[T]) UnmarshalJSON(data []byte) error {
	var in valueJSON[T]
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*v = Value[T]{available: in.Available, reason: in.Reason}
	switch {
	case !in.Available:
	case in.Value != nil:
		v.value = *in.Value
	default:
		// an available float encoded as null was non-finite
		if f, ok := any(&v.value).(*float64); ok {
			*f = math.NaN()
		}
	}
	return nil
}
