package calculator

import (
	"context"

	"github.com/ternarybob/mathcalc/pkg/calc"
	"github.com/ternarybob/mathcalc/pkg/chart"
	"github.com/ternarybob/mathcalc/pkg/numparse"
	"github.com/ternarybob/mathcalc/pkg/plot"
	"github.com/ternarybob/mathcalc/pkg/steps"
)

// QuadraticInput is the quadratic page state.
type QuadraticInput struct {
	A          string    `json:"a"`
	B          string    `json:"b"`
	C          string    `json:"c"`
	PreferRich bool      `json:"togglePlotly"`
	X          plot.Axis `json:"x"`
	Y          plot.Axis `json:"y"`
}

// DefaultQuadraticInput is x² - 3x + 2.
func DefaultQuadraticInput() QuadraticInput {
	return QuadraticInput{A: "1", B: "-3", C: "2", X: plot.AutoAxis, Y: plot.AutoAxis}
}

// QuadraticInputFromFields reads the quadratic page fields over the defaults.
func QuadraticInputFromFields(f Fields) QuadraticInput {
	d := DefaultQuadraticInput()
	return QuadraticInput{
		A:          f.Get("a", d.A),
		B:          f.Get("b", d.B),
		C:          f.Get("c", d.C),
		PreferRich: f.Bool("togglePlotly", d.PreferRich),
		X:          f.Axis("x"),
		Y:          f.Axis("y"),
	}
}

// curve samples a polynomial over x as the single plotted line.
func curve(name string, coeffs []float64, x plot.Domain, n int) (chart.Line, error) {
	fn := chart.Func{Kind: chart.FuncPoly, Coeffs: coeffs}
	s, err := plot.Sample(fn.Eval, x.Min, x.Max, n, plot.Linear)
	if err != nil {
		return chart.Line{}, err
	}
	return chart.Line{Key: "f", Name: name, Color: chart.ColorCurve, Series: s, Visible: true, Fn: fn}, nil
}

// Quadratic evaluates the quadratic page.
func Quadratic(_ context.Context, in QuadraticInput, opts Options) Page[calc.QuadraticResult] {
	co, err := numparse.Polynomial("quadratic", []string{"a", "b", "c"}, in.A, in.B, in.C)
	if err != nil {
		return invalid[calc.QuadraticResult](err)
	}

	r := calc.Quadratic(co[0], co[1], co[2])
	trace := steps.New()
	calc.TraceQuadratic(trace, r)

	vx, _ := r.VertexX.Float64()
	vy, _ := r.VertexY.Float64()
	xd := plot.ResolveLinearX(in.X, vx)
	line, err := curve("f(x)", co, xd, opts.samples(plot.QuadSamples))
	if err != nil {
		return failed[calc.QuadraticResult](err)
	}
	yd := plot.ResolveY(in.Y, plot.PolyPolicy, []plot.Series{line.Series}, vy)

	var markers []chart.Marker
	if r.VertexX.Defined() && r.VertexY.Defined() {
		markers = append(markers, chart.Marker{Name: "vertex", X: vx, Y: vy, Color: chart.ColorMarker})
	}

	return Page[calc.QuadraticResult]{
		Result: &r,
		Display: map[string]string{
			"discriminant": r.Discriminant.String(),
			"roots":        r.RootsText(),
			"vertex":       r.VertexText(),
		},
		Steps: trace,
		Figure: &chart.Figure{
			Title:   "y = ax² + bx + c",
			Lines:   []chart.Line{line},
			Markers: markers,
			X:       xd,
			Y:       yd,
			XScale:  plot.Linear,
			XLabel:  "x",
			YLabel:  "y",
			Grid:    true,
		},
		Range: &Ranges{X: xd, Y: yd},
	}
}

// CubicInput is the cubic page state.
type CubicInput struct {
	A          string    `json:"a"`
	B          string    `json:"b"`
	C          string    `json:"c"`
	D          string    `json:"d"`
	PreferRich bool      `json:"togglePlotly"`
	X          plot.Axis `json:"x"`
	Y          plot.Axis `json:"y"`
}

// DefaultCubicInput is x³ - 3x + 2.
func DefaultCubicInput() CubicInput {
	return CubicInput{A: "1", B: "0", C: "-3", D: "2", X: plot.AutoAxis, Y: plot.AutoAxis}
}

// CubicInputFromFields reads the cubic page fields over the defaults.
func CubicInputFromFields(f Fields) CubicInput {
	d := DefaultCubicInput()
	return CubicInput{
		A:          f.Get("a", d.A),
		B:          f.Get("b", d.B),
		C:          f.Get("c", d.C),
		D:          f.Get("d", d.D),
		PreferRich: f.Bool("togglePlotly", d.PreferRich),
		X:          f.Axis("x"),
		Y:          f.Axis("y"),
	}
}

// Cubic evaluates the cubic page.
func Cubic(_ context.Context, in CubicInput, opts Options) Page[calc.CubicResult] {
	co, err := numparse.Polynomial("cubic", []string{"a", "b", "c", "d"}, in.A, in.B, in.C, in.D)
	if err != nil {
		return invalid[calc.CubicResult](err)
	}

	r := calc.Cubic(co[0], co[1], co[2], co[3], opts.Calc)
	trace := steps.New()
	calc.TraceCubic(trace, r)

	xd := plot.ResolveLinearX(in.X, r.Center())
	line, err := curve("f(x)", co, xd, opts.samples(plot.CubicSamples))
	if err != nil {
		return failed[calc.CubicResult](err)
	}
	yd := plot.ResolveY(in.Y, plot.PolyPolicy, []plot.Series{line.Series}, 0)

	var markers []chart.Marker
	for _, root := range r.Roots {
		if x, ok := root.Float64(); ok {
			markers = append(markers, chart.Marker{Name: "root " + root.String(), X: x, Y: 0, Color: chart.ColorMarker})
		}
	}

	return Page[calc.CubicResult]{
		Result: &r,
		Display: map[string]string{
			"discriminant": r.Discriminant.String(),
			"roots":        r.RootsText(),
		},
		Steps: trace,
		Figure: &chart.Figure{
			Title:   "y = ax³ + bx² + cx + d",
			Lines:   []chart.Line{line},
			Markers: markers,
			X:       xd,
			Y:       yd,
			XScale:  plot.Linear,
			XLabel:  "x",
			YLabel:  "y",
			Grid:    true,
		},
		Range: &Ranges{X: xd, Y: yd},
	}
}
