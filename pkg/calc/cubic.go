package calc

import (
	"math"
	"sort"

	"github.com/ternarybob/mathcalc/pkg/steps"
)

// CubicResult is the real-root analysis of a·x³ + b·x² + c·x + d with a != 0.
type CubicResult struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`
	D float64 `json:"d"`
	// P and Q are the coefficients of the depressed cubic t³ + p·t + q.
	P Number `json:"p"`
	Q Number `json:"q"`
	// Discriminant is (q/2)² + (p/3)³.
	Discriminant Number   `json:"discriminant"`
	Kind         RootKind `json:"kind"`
	// Roots are the real roots in ascending order.
	Roots []Number `json:"roots"`
}

// Cubic finds the real roots through the depressed form x = t - b/(3a).
// |Δ| < tol selects the repeated-root branch, then Δ > 0 selects Cardano's
// single real root, otherwise the trigonometric form gives three roots.
func Cubic(a, b, c, d float64, opts Options) CubicResult {
	opts = opts.normalized()

	A := b / a
	B := c / a
	C := d / a
	p := B - A*A/3
	q := 2*A*A*A/27 - A*B/3 + C
	disc := (q/2)*(q/2) + (p/3)*(p/3)*(p/3)
	shift := A / 3

	r := CubicResult{A: a, B: b, C: c, D: d, P: Num(p), Q: Num(q), Discriminant: Num(disc)}

	var roots []float64
	switch {
	case math.Abs(disc) < opts.CubicZeroTolerance:
		u := math.Cbrt(-q / 2)
		roots = []float64{2*u - shift, -u - shift}
		r.Kind = RepeatedReal
	case disc > 0:
		s := math.Sqrt(disc)
		u := math.Cbrt(-q/2 + s)
		v := math.Cbrt(-q/2 - s)
		roots = []float64{u + v - shift}
		r.Kind = OneReal
	default:
		rr := math.Sqrt(-p / 3)
		arg := (-q / 2) / (rr * rr * rr)
		arg = math.Max(-1, math.Min(1, arg))
		phi := math.Acos(arg)
		roots = []float64{
			2*rr*math.Cos(phi/3) - shift,
			2*rr*math.Cos((phi+2*math.Pi)/3) - shift,
			2*rr*math.Cos((phi+4*math.Pi)/3) - shift,
		}
		r.Kind = ThreeDistinct
	}

	sort.Float64s(roots)
	r.Roots = make([]Number, len(roots))
	for i, v := range roots {
		r.Roots[i] = Num(v)
	}
	return r
}

// Eval returns the polynomial value at x.
func (r CubicResult) Eval(x float64) float64 {
	return ((r.A*x+r.B)*x+r.C)*x + r.D
}

// RootsText renders the real roots comma separated.
func (r CubicResult) RootsText() string {
	out := ""
	for i, v := range r.Roots {
		if i > 0 {
			out += ", "
		}
		out += v.String()
	}
	if out == "" {
		return Dash
	}
	return out
}

// Center is the mean of the defined real roots, or 0.
func (r CubicResult) Center() float64 {
	sum, n := 0.0, 0
	for _, v := range r.Roots {
		if f, ok := v.Float64(); ok {
			sum += f
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// TraceCubic appends the derivation of r to t.
func TraceCubic(t *steps.Trace, r CubicResult) {
	t.Add("Use depressed cubic via x = t - b/(3a).")
	t.Addf("p = %s, q = %s, Δ = (q/2)^2 + (p/3)^3 = %s", r.P, r.Q, r.Discriminant)
	t.Add("Solve t^3 + pt + q = 0 using Cardano/trigonometric method depending on discriminant.")
	switch r.Kind {
	case OneReal:
		t.Add("One real root (two complex).")
	case RepeatedReal:
		t.Add("Multiple real roots (at least a double root).")
	default:
		t.Add("Three distinct real roots.")
	}
}
