package numparse

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Alphabet is the digit alphabet shared by every base in [2,36].
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Base range accepted by Digits and Base.
const (
	MinBase = 2
	MaxBase = 36
)

// FractionPrecision is the number of decimal places kept when a Numeral is
// flattened into a single decimal.
const FractionPrecision = 40

// Numeral is an exact parsed value: Int + Num/Den, where Int, Num and Den
// are non-negative integers and Num < Den.
type Numeral struct {
	Neg bool
	Int decimal.Decimal
	Num decimal.Decimal
	Den decimal.Decimal
}

// IsZero reports whether the value is zero.
func (n Numeral) IsZero() bool {
	return n.Int.IsZero() && n.Num.IsZero()
}

// Decimal returns the value with the fraction rounded to FractionPrecision
// places.
func (n Numeral) Decimal() decimal.Decimal {
	v := n.Int
	if !n.Num.IsZero() {
		v = v.Add(n.Num.DivRound(n.Den, FractionPrecision))
	}
	if n.Neg {
		v = v.Neg()
	}
	return v
}

func (n Numeral) String() string {
	return n.Decimal().String()
}

// DigitValue returns the value of ch in Alphabet, case-insensitively, or -1.
func DigitValue(ch byte) int {
	if ch >= 'a' && ch <= 'z' {
		ch -= 'a' - 'A'
	}
	return strings.IndexByte(Alphabet, ch)
}

// Digits parses s as a signed numeral in base. At most one '.' separates
// the fractional digits and at least one digit must be present.
func Digits(s string, base int) (Numeral, error) {
	invalid := Invalid("Value is not valid for the chosen from-base.")
	if base < MinBase || base > MaxBase {
		return Numeral{}, Invalid("Bases must be between 2 and 36.")
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return Numeral{}, invalid
	}

	negative := false
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		negative = true
		s = s[1:]
	}

	b := decimal.NewFromInt(int64(base))
	intPart := decimal.Zero
	fracPart := decimal.Zero
	fracPow := decimal.NewFromInt(1)
	seenDot := false
	anyDigit := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '.' {
			if seenDot {
				return Numeral{}, invalid
			}
			seenDot = true
			continue
		}
		v := DigitValue(c)
		if v < 0 || v >= base {
			return Numeral{}, invalid
		}
		anyDigit = true
		d := decimal.NewFromInt(int64(v))
		if !seenDot {
			intPart = intPart.Mul(b).Add(d)
		} else {
			fracPow = fracPow.Mul(b)
			fracPart = fracPart.Mul(b).Add(d)
		}
	}
	if !anyDigit {
		return Numeral{}, invalid
	}

	return Numeral{Neg: negative, Int: intPart, Num: fracPart, Den: fracPow}, nil
}
