package calc

import (
	"math"

	"github.com/ternarybob/mathcalc/pkg/steps"
)

// RootKind classifies the roots of a polynomial.
type RootKind string

const (
	TwoReal       RootKind = "two_real"
	DoubleRoot    RootKind = "double"
	ComplexPair   RootKind = "complex"
	OneReal       RootKind = "one_real"
	RepeatedReal  RootKind = "repeated"
	ThreeDistinct RootKind = "three_distinct"
)

// QuadraticResult is the analysis of a·x² + b·x + c with a != 0.
type QuadraticResult struct {
	A            float64  `json:"a"`
	B            float64  `json:"b"`
	C            float64  `json:"c"`
	Discriminant Number   `json:"discriminant"`
	VertexX      Number   `json:"vertex_x"`
	VertexY      Number   `json:"vertex_y"`
	Kind         RootKind `json:"kind"`
	// Roots holds the real roots in ascending order: two for TwoReal, one
	// for DoubleRoot, none for ComplexPair.
	Roots []Number `json:"roots"`
	// Re and Im describe the complex pair re ± im·i; Im is non-negative.
	Re Number `json:"re"`
	Im Number `json:"im"`
}

// Quadratic computes the discriminant, vertex and roots.
func Quadratic(a, b, c float64) QuadraticResult {
	d := b*b - 4*a*c
	vx := -b / (2 * a)
	r := QuadraticResult{
		A:            a,
		B:            b,
		C:            c,
		Discriminant: Num(d),
		VertexX:      Num(vx),
		VertexY:      Num(a*vx*vx + b*vx + c),
	}

	switch {
	case d > 0:
		s := math.Sqrt(d)
		x1 := (-b - s) / (2 * a)
		x2 := (-b + s) / (2 * a)
		if x1 > x2 {
			x1, x2 = x2, x1
		}
		r.Kind = TwoReal
		r.Roots = []Number{Num(x1), Num(x2)}
	case d == 0:
		r.Kind = DoubleRoot
		r.Roots = []Number{Num(vx)}
	default:
		r.Kind = ComplexPair
		r.Roots = []Number{}
		r.Re = Num(vx)
		r.Im = Num(math.Abs(math.Sqrt(-d) / (2 * a)))
	}
	return r
}

// Eval returns the polynomial value at x.
func (r QuadraticResult) Eval(x float64) float64 {
	return r.A*x*x + r.B*x + r.C
}

// RootsText renders the roots for display.
func (r QuadraticResult) RootsText() string {
	switch r.Kind {
	case TwoReal:
		return r.Roots[0].String() + ", " + r.Roots[1].String()
	case DoubleRoot:
		return r.Roots[0].String() + " (double)"
	default:
		return r.Re.String() + " ± " + r.Im.String() + "i"
	}
}

// VertexText renders the vertex as "(x, y)".
func (r QuadraticResult) VertexText() string {
	return "(" + r.VertexX.String() + ", " + r.VertexY.String() + ")"
}

// TraceQuadratic appends the derivation of r to t.
func TraceQuadratic(t *steps.Trace, r QuadraticResult) {
	t.Addf("Δ = b^2 - 4ac = %s - 4·%s·%s = %s", Format(r.B*r.B), Plain(r.A), Plain(r.C), r.Discriminant)
	t.Addf("Vertex x = -b/(2a) = %s/%s = %s", Plain(-r.B), Plain(2*r.A), r.VertexX)
	t.Addf("Vertex y = f(%s) = %s", r.VertexX, r.VertexY)
	switch r.Kind {
	case TwoReal:
		t.Add("Two real roots: x = (-b ± √Δ) / (2a)")
	case DoubleRoot:
		t.Add("One real double root: x = -b/(2a)")
	default:
		t.Add("Complex conjugate roots: x = -b/(2a) ± i·√(-Δ)/(2a)")
	}
}
