// Package metric provides Value, an exact decimal number that may be "not
// applicable".
//
// Financial ratios and averages are undefined when their denominator is empty
// (the average cost of a holding without purchases for instance). Value keeps
// that absence explicit so that a legitimate zero is never confused with a
// missing figure.
package metric

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Value is either a decimal number or NA.
// The zero value is NA.
type Value struct {
	value decimal.Decimal
	ok    bool
}

// NA is the "not applicable" Value.
var NA = Value{}

// Zero is the defined value 0.
var Zero = Value{value: decimal.Zero, ok: true}

// Of returns the defined Value v.
func Of[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](v T) Value {
	return Value{value: newDecimal(v), ok: true}
}

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	default:
		panic("unsupported type")
	}
}

// Parse parses a decimal string, the empty string and "n/a" are NA.
func Parse(s string) (Value, error) {
	if s == "" || s == "n/a" {
		return NA, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return NA, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return Of(d), nil
}

// Get returns the decimal value and true, or zero and false if v is NA.
func (v Value) Get() (decimal.Decimal, bool) { return v.value, v.ok }

// IsNA reports whether v is not applicable.
func (v Value) IsNA() bool { return !v.ok }

// IsZero reports whether v is defined and equal to zero.
func (v Value) IsZero() bool { return v.ok && v.value.IsZero() }

// IsNegative reports whether v is defined and strictly negative.
func (v Value) IsNegative() bool { return v.ok && v.value.IsNegative() }

// Or returns the value, or d if v is NA.
func (v Value) Or(d decimal.Decimal) decimal.Decimal {
	if !v.ok {
		return d
	}
	return v.value
}

// OrZero returns the value, or zero if v is NA.
func (v Value) OrZero() decimal.Decimal { return v.Or(decimal.Zero) }

// Float64 returns the nearest float64 and true, or 0 and false if v is NA.
func (v Value) Float64() (float64, bool) {
	if !v.ok {
		return 0, false
	}
	return v.value.InexactFloat64(), true
}

// Equal reports whether v and w are both NA or both defined and numerically equal.
func (v Value) Equal(w Value) bool {
	if v.ok != w.ok {
		return false
	}
	return !v.ok || v.value.Equal(w.value)
}

// Add returns v+w, NA if any operand is NA.
func (v Value) Add(w Value) Value {
	if !v.ok || !w.ok {
		return NA
	}
	return Value{value: v.value.Add(w.value), ok: true}
}

// Sub returns v-w, NA if any operand is NA.
func (v Value) Sub(w Value) Value {
	if !v.ok || !w.ok {
		return NA
	}
	return Value{value: v.value.Sub(w.value), ok: true}
}

// Mul returns v*w, NA if any operand is NA.
func (v Value) Mul(w Value) Value {
	if !v.ok || !w.ok {
		return NA
	}
	return Value{value: v.value.Mul(w.value), ok: true}
}

// Div returns v/w, NA if any operand is NA or if w is zero.
func (v Value) Div(w Value) Value {
	if !v.ok || !w.ok || w.value.IsZero() {
		return NA
	}
	return Value{value: v.value.Div(w.value), ok: true}
}

// Neg returns -v.
func (v Value) Neg() Value {
	if !v.ok {
		return NA
	}
	return Value{value: v.value.Neg(), ok: true}
}

// Round rounds v to places decimal places.
func (v Value) Round(places int32) Value {
	if !v.ok {
		return NA
	}
	return Value{value: v.value.Round(places), ok: true}
}

// Sum returns the sum of the defined values, or NA if none is defined.
func Sum(values ...Value) Value {
	total := NA
	for _, v := range values {
		if !v.ok {
			continue
		}
		total = Value{value: total.value.Add(v.value), ok: true}
	}
	return total
}

// String returns the decimal representation, or "n/a".
func (v Value) String() string {
	if !v.ok {
		return "n/a"
	}
	return v.value.String()
}

// MarshalJSON encodes NA as null and defined values as JSON numbers.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.ok {
		return []byte("null"), nil
	}
	return []byte(v.value.String()), nil
}

// UnmarshalJSON decodes null as NA, numbers and numeric strings as defined values.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = NA
		return nil
	}
	var d decimal.Decimal
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("invalid metric value %s: %w", data, err)
	}
	*v = Of(d)
	return nil
}

// check that Value is a valid json marshall/unmarshaller type.
var _ json.Marshaler = Value{}
var _ json.Unmarshaler = (*Value)(nil)
