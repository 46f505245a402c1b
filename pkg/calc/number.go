// Package calc implements the closed-form evaluators behind every calculator
// page: logarithms, quadratic and cubic roots, powers and roots, positional
// base conversion, primality and prime ranges.
//
// Evaluators are pure. They never return NaN or ±Inf to callers: a value
// that has no real answer is reported as an undefined Number.
package calc

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Dash is shown in place of an undefined value.
const Dash = "–"

// Number is either a finite real or undefined.
type Number struct {
	v  float64
	ok bool
}

// Num wraps v. Non-finite values become undefined.
func Num(v float64) Number {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Number{}
	}
	return Number{v: v, ok: true}
}

// Undefined returns the undefined Number.
func Undefined() Number {
	return Number{}
}

// Float64 returns the value and whether it is defined.
func (n Number) Float64() (float64, bool) {
	return n.v, n.ok
}

// Defined reports whether n holds a finite real.
func (n Number) Defined() bool {
	return n.ok
}

// String formats n with Format.
func (n Number) String() string {
	if !n.ok {
		return Dash
	}
	return Format(n.v)
}

// MarshalJSON encodes an undefined Number as null.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.ok {
		return []byte("null"), nil
	}
	return json.Marshal(n.v)
}

// UnmarshalJSON accepts a number or null.
func (n *Number) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = Number{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Num(v)
	return nil
}

// Format renders v the way every calculator page displays numbers: six
// fractional digits, switching to exponential notation below 1e-6 or at
// 1e6 and above. Exponents carry no zero padding ("1.000000e+6").
func Format(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Dash
	}
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	a := math.Abs(v)
	if a < 1e-6 || a >= 1e6 {
		return Exponential(v, 6)
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// Exponential formats v with prec mantissa digits and an unpadded exponent.
func Exponential(v float64, prec int) string {
	s := strconv.FormatFloat(v, 'e', prec, 64)
	i := strings.LastIndexAny(s, "+-")
	if i <= 0 || i+1 >= len(s) {
		return s
	}
	exp := strings.TrimLeft(s[i+1:], "0")
	if exp == "" {
		exp = "0"
	}
	return s[:i+1] + exp
}
