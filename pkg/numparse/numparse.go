// Package numparse turns raw form text into typed numeric values.
//
// Every failure is a *ValidationError carrying the user-facing message(s)
// that the view shows in its validation area. Callers halt the pipeline for
// the current recalculation when they get one.
package numparse

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// MaxSafeInteger is the largest integer handled by the integer range
// parsers. Beyond it float text no longer denotes a unique integer.
const MaxSafeInteger = 1<<53 - 1

// ValidationError reports invalid user input.
type ValidationError struct {
	Messages []string
}

// Invalid builds a ValidationError from messages.
func Invalid(msgs ...string) *ValidationError {
	return &ValidationError{Messages: msgs}
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, " ")
}

// Message returns the validation text carried by err, or "" when err is not
// a validation failure.
func Message(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	return ""
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Float parses trimmed numeric text. Empty text, non-numeric text and
// non-finite values are rejected. Integer literals with 0x, 0o or 0b
// prefixes are accepted.
func Float(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if v, ok := prefixedInt(s); ok {
		return v, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func prefixedInt(s string) (float64, bool) {
	body := strings.TrimLeft(s, "+-")
	if len(body) < 3 || body[0] != '0' {
		return 0, false
	}
	switch body[1] {
	case 'x', 'X', 'o', 'O', 'b', 'B':
	default:
		return 0, false
	}
	n, ok := new(big.Int).SetString(s, 0)
	if !ok || strings.Contains(s, "_") {
		return 0, false
	}
	f, _ := new(big.Float).SetInt(n).Float64()
	if math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Real parses a single finite real for the named field.
func Real(field, raw string) (float64, error) {
	v, ok := Float(raw)
	if !ok {
		return 0, Invalid(field + " must be a finite number.")
	}
	return v, nil
}

// LogInputs are the validated operands of the logarithm page.
type LogInputs struct {
	B float64
	X float64
}

// Log validates a logarithm base and argument. All applicable messages are
// collected so the user sees every problem at once.
func Log(rawB, rawX string) (LogInputs, error) {
	b, okB := Float(rawB)
	x, okX := Float(rawX)

	var msgs []string
	if !okB {
		msgs = append(msgs, "Base b must be a finite number.")
	}
	if !okX {
		msgs = append(msgs, "Number x must be a finite number.")
	}
	if okB && b <= 0 {
		msgs = append(msgs, "Base b must be > 0.")
	}
	if okB && b == 1 {
		msgs = append(msgs, "Base b must not equal 1.")
	}
	if okX && x <= 0 {
		msgs = append(msgs, "Number x must be > 0.")
	}
	if len(msgs) > 0 {
		return LogInputs{}, Invalid(msgs...)
	}
	return LogInputs{B: b, X: x}, nil
}

// Polynomial validates polynomial coefficients, highest degree first. kind
// names the polynomial in messages ("quadratic", "cubic").
func Polynomial(kind string, names []string, raws ...string) ([]float64, error) {
	out := make([]float64, len(raws))
	for i, raw := range raws {
		v, ok := Float(raw)
		if !ok {
			return nil, Invalid("Enter valid numeric coefficients " + strings.Join(names, ", ") + ".")
		}
		out[i] = v
	}
	if len(out) > 0 && out[0] == 0 {
		return nil, Invalid(names[0] + " must not be 0 for a " + kind + ".")
	}
	return out, nil
}

// Reals validates a group of finite reals sharing one message.
func Reals(msg string, raws ...string) ([]float64, error) {
	out := make([]float64, len(raws))
	for i, raw := range raws {
		v, ok := Float(raw)
		if !ok {
			return nil, Invalid(msg)
		}
		out[i] = v
	}
	return out, nil
}

// Base parses a positional numeral base in [2,36].
func Base(raw string) (int, error) {
	v, ok := Float(raw)
	if !ok || v != math.Trunc(v) || v < MinBase || v > MaxBase {
		return 0, Invalid("Bases must be between 2 and 36.")
	}
	return int(v), nil
}

// BigInt parses an arbitrary-precision integer with an optional sign and
// an optional 0x, 0o or 0b prefix.
func BigInt(raw string) (*big.Int, error) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.Contains(s, "_") {
		return nil, Invalid("Enter a valid integer.")
	}
	n, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, Invalid("Enter a valid integer.")
	}
	return n, nil
}

// Int parses numeric text and truncates it toward zero. The result must lie
// within ±MaxSafeInteger.
func Int(raw string) (int64, bool) {
	v, ok := Float(raw)
	if !ok {
		return 0, false
	}
	v = math.Trunc(v)
	if math.Abs(v) > MaxSafeInteger {
		return 0, false
	}
	return int64(v), true
}

// IntRange parses the two bounds of an integer range.
func IntRange(rawLo, rawHi string) (lo, hi int64, err error) {
	lo, okLo := Int(rawLo)
	hi, okHi := Int(rawHi)
	if !okLo || !okHi {
		return 0, 0, Invalid("Enter valid integers for start and end.")
	}
	return lo, hi, nil
}
