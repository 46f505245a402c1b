package calc

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ternarybob/mathcalc/pkg/numparse"
	"github.com/ternarybob/mathcalc/pkg/steps"
)

// MaxFractionDigits caps the fractional digits emitted by ToBase.
const MaxFractionDigits = 16

// BaseResult is a positional numeral converted between two bases.
type BaseResult struct {
	Input     string           `json:"input"`
	From      int              `json:"from"`
	To        int              `json:"to"`
	Value     numparse.Numeral `json:"-"`
	Decimal   string           `json:"decimal"`
	Converted string           `json:"converted"`
	RoundTrip string           `json:"round_trip"`
}

// ToBase renders n in base with at most maxFrac fractional digits. The
// fraction stops early once the remainder is exactly zero; otherwise the
// last digit is rounded half up and any carry propagates left.
func ToBase(n numparse.Numeral, base, maxFrac int) string {
	if n.IsZero() {
		return "0"
	}
	b := decimal.NewFromInt(int64(base))

	num, den := n.Num, n.Den
	var frac []int
	for i := 0; i < maxFrac && !num.IsZero(); i++ {
		digit, rem := num.Mul(b).QuoRem(den, 0)
		frac = append(frac, int(digit.IntPart()))
		num = rem
	}

	ip := n.Int
	if !num.IsZero() && num.Mul(decimal.NewFromInt(2)).GreaterThanOrEqual(den) {
		i := len(frac) - 1
		for ; i >= 0; i-- {
			frac[i]++
			if frac[i] < base {
				break
			}
			frac[i] = 0
		}
		if i < 0 {
			ip = ip.Add(decimal.NewFromInt(1))
		}
	}
	for len(frac) > 0 && frac[len(frac)-1] == 0 {
		frac = frac[:len(frac)-1]
	}
	if ip.IsZero() && len(frac) == 0 {
		return "0"
	}

	var intDigits []byte
	if ip.IsZero() {
		intDigits = []byte{'0'}
	}
	for !ip.IsZero() {
		q, r := ip.QuoRem(b, 0)
		intDigits = append(intDigits, numparse.Alphabet[r.IntPart()])
		ip = q
	}
	for i, j := 0, len(intDigits)-1; i < j; i, j = i+1, j-1 {
		intDigits[i], intDigits[j] = intDigits[j], intDigits[i]
	}

	var sb strings.Builder
	if n.Neg {
		sb.WriteByte('-')
	}
	sb.Write(intDigits)
	if len(frac) > 0 {
		sb.WriteByte('.')
		for _, d := range frac {
			sb.WriteByte(numparse.Alphabet[d])
		}
	}
	return sb.String()
}

// ConvertBase parses s in base from, renders it in base to and converts
// the result back to base from.
func ConvertBase(s string, from, to int) (BaseResult, error) {
	if from < numparse.MinBase || from > numparse.MaxBase || to < numparse.MinBase || to > numparse.MaxBase {
		return BaseResult{}, numparse.Invalid("Bases must be between 2 and 36.")
	}
	v, err := numparse.Digits(s, from)
	if err != nil {
		return BaseResult{}, err
	}
	out := ToBase(v, to, MaxFractionDigits)
	back, err := numparse.Digits(out, to)
	if err != nil {
		return BaseResult{}, err
	}
	return BaseResult{
		Input:     strings.TrimSpace(s),
		From:      from,
		To:        to,
		Value:     v,
		Decimal:   ToBase(v, 10, MaxFractionDigits),
		Converted: out,
		RoundTrip: ToBase(back, from, MaxFractionDigits),
	}, nil
}

// TraceBase appends the derivation of r to t.
func TraceBase(t *steps.Trace, r BaseResult) {
	t.Addf("Interpret '%s' in base %d.", r.Input, r.From)
	t.Addf("Decimal value = %s.", r.Decimal)
	t.Addf("Convert decimal to base %d → %s.", r.To, r.Converted)
	t.Addf("Round trip: %s in base %d back to base %d → %s.", r.Converted, r.To, r.From, r.RoundTrip)
}
