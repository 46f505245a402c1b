package calc

import (
	"math"

	"github.com/ternarybob/mathcalc/pkg/steps"
)

// NotReal is shown when a root has no real value.
const NotReal = "Not a real number"

// PowerResult holds a^b, the real n-th root of a and an illustrative
// compound growth a·(1+rate)^b.
type PowerResult struct {
	A      float64 `json:"a"`
	B      float64 `json:"b"`
	N      float64 `json:"n"`
	Rate   float64 `json:"rate"`
	Pow    Number  `json:"pow"`
	Root   Number  `json:"root"`
	Growth Number  `json:"growth"`
}

// NthRoot returns the sign-preserving real n-th root of a. It is undefined
// for n = 0 and for even integer n with negative a.
func NthRoot(a, n float64) Number {
	if n == 0 {
		return Undefined()
	}
	if n == math.Trunc(n) && math.Mod(n, 2) == 0 && a < 0 {
		return Undefined()
	}
	sign := 1.0
	if a < 0 {
		sign = -1
	}
	return Num(sign * math.Pow(math.Abs(a), 1/n))
}

// PowerRoot evaluates the power page.
func PowerRoot(a, b, n float64, opts Options) PowerResult {
	opts = opts.normalized()
	return PowerResult{
		A:      a,
		B:      b,
		N:      n,
		Rate:   opts.GrowthRate,
		Pow:    Num(math.Pow(a, b)),
		Root:   NthRoot(a, n),
		Growth: Num(a * math.Pow(1+opts.GrowthRate, b)),
	}
}

// RootText renders the root, or NotReal.
func (r PowerResult) RootText() string {
	if !r.Root.Defined() {
		return NotReal
	}
	return r.Root.String()
}

// TracePower appends the derivation of r to t.
func TracePower(t *steps.Trace, r PowerResult) {
	t.Addf("Power: a^b = %s^%s = %s", Format(r.A), Format(r.B), r.Pow)
	switch {
	case r.Root.Defined():
		t.Addf("nth root: a^(1/n) with a=%s, n=%s → %s", Plain(r.A), Plain(r.N), r.Root)
	case r.N == 0:
		t.Addf("nth root: a^(1/n) with a=%s, n=0 → undefined for n = 0", Plain(r.A))
	default:
		t.Addf("nth root: a^(1/n) with a=%s, n=%s → not real for even n and negative a", Plain(r.A), Plain(r.N))
	}
	t.Addf("Growth example: a*(1+r)^b with r=%s%% → %s", Plain(r.Rate*100), r.Growth)
}
