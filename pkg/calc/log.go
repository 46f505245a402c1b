package calc

import (
	"math"
	"strings"

	"github.com/ternarybob/mathcalc/pkg/steps"
)

// maxFactorable bounds the integers PrimeFactors is asked to factor from
// float input. Above it a float64 no longer denotes a unique integer.
const maxFactorable = 1<<53 - 1

// LogResult holds the three logarithms of x.
type LogResult struct {
	B      float64 `json:"b"`
	X      float64 `json:"x"`
	LnX    Number  `json:"ln_x"`
	Log10X Number  `json:"log10_x"`
	LogbX  Number  `json:"logb_x"`
}

// Logarithm computes ln(x), log10(x) and log_b(x) = ln(x)/ln(b). Inputs are
// expected to be validated: b > 0, b != 1, x > 0.
func Logarithm(b, x float64) LogResult {
	ln := math.Log(x)
	return LogResult{
		B:      b,
		X:      x,
		LnX:    Num(ln),
		Log10X: Num(math.Log10(x)),
		LogbX:  Num(ln / math.Log(b)),
	}
}

// LogB returns log_b(x). It is the exact function behind the log_b curve.
func LogB(b float64) func(float64) float64 {
	lnb := math.Log(b)
	return func(x float64) float64 {
		return math.Log(x) / lnb
	}
}

// PrimeFactors returns the prime factorization of n in ascending order with
// repetition. Values below 2 have no factors.
func PrimeFactors(n uint64) []uint64 {
	var out []uint64
	if n < 2 {
		return out
	}
	for n%2 == 0 {
		out = append(out, 2)
		n /= 2
	}
	for d := uint64(3); d <= n/d; d += 2 {
		for n%d == 0 {
			out = append(out, d)
			n /= d
		}
	}
	if n > 1 {
		out = append(out, n)
	}
	return out
}

// JSRound rounds half toward positive infinity.
func JSRound(v float64) float64 {
	return math.Floor(v + 0.5)
}

// ExactPower reports whether x is b^k for an integer k, within tol of
// log_b(x), and returns k.
func ExactPower(b, x, tol float64) (int64, bool) {
	k := math.Log(x) / math.Log(b)
	if math.IsNaN(k) || math.IsInf(k, 0) {
		return 0, false
	}
	r := JSRound(k)
	if math.Abs(k-r) < tol {
		return int64(r), true
	}
	return 0, false
}

// Power describes the integer power of b nearest to x.
type Power struct {
	K       Number  `json:"k"`
	Rounded float64 `json:"rounded"`
	Value   Number  `json:"value"`
	// Ratio is x / b^Rounded; undefined when b^Rounded is 0 or not finite.
	Ratio Number `json:"ratio"`
}

// NearestPower finds the integer k minimizing |log_b(x) - k| and the ratio
// that refines b^k back to x.
func NearestPower(b, x float64) Power {
	k := math.Log(x) / math.Log(b)
	r := JSRound(k)
	pw := math.Pow(b, r)
	p := Power{K: Num(k), Rounded: r, Value: Num(pw)}
	if pw != 0 && !math.IsInf(pw, 0) && !math.IsNaN(pw) {
		p.Ratio = Num(x / pw)
	}
	return p
}

// isFactorable reports whether v is an integer above 1 that can be factored.
func isFactorable(v float64) bool {
	return v > 1 && v == math.Trunc(v) && v <= maxFactorable
}

func joinFactors(fs []uint64) string {
	if len(fs) == 0 {
		return "prime"
	}
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = Plain(float64(f))
	}
	return strings.Join(parts, " · ")
}

// TraceLogarithm appends the derivation of r to t.
func TraceLogarithm(t *steps.Trace, r LogResult, opts Options) {
	opts = opts.normalized()
	b, x := r.B, r.X

	if isFactorable(b) && isFactorable(x) {
		t.Addf("Prime factors: b = %s = %s, x = %s = %s",
			Plain(b), joinFactors(PrimeFactors(uint64(b))),
			Plain(x), joinFactors(PrimeFactors(uint64(x))))
		if k, ok := ExactPower(b, x, opts.ExactPowerTolerance); ok {
			t.Addf("Exact power: x = b^%d = %s^%d = %s", k, Plain(b), k, Plain(x))
		}
	}

	t.Addf("Change of base: log_b(x) = ln(x)/ln(b) = log10(x)/log10(b) = %s", r.LogbX)
	t.Addf("Exponential relation: x = b^{log_b(x)} ⇒ %s = %s^{%s}", Format(x), Format(b), r.LogbX)

	p := NearestPower(b, x)
	t.Addf("Nearest integer power: k ≈ %s ⇒ round(k) = %s, b^{round(k)} = %s", p.K, Plain(p.Rounded), p.Value)
	if p.Ratio.Defined() {
		t.Addf("Refinement: x = b^{%s} · %s", Plain(p.Rounded), p.Ratio)
	}
}
