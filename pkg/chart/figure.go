// Package chart draws figures produced by the calculator pipelines.
//
// Two strategies exist. The lite renderer emits a self-drawn SVG at once and
// needs nothing external. The rich renderer emits a Plotly figure and is
// only available after the charting library has been acquired by a Loader.
// Dual arbitrates between them with a bounded wait.
package chart

import (
	"math"

	"github.com/ternarybob/mathcalc/pkg/plot"
)

// Series colors.
const (
	ColorLn     = "#2b6cb0"
	ColorLog10  = "#b0652b"
	ColorLogB   = "#2b8a3e"
	ColorCurve  = "#7c93ff"
	ColorMarker = "#4ade80"
	ColorGuide  = "#888"
)

// Func kinds.
const (
	FuncLn    = "ln"
	FuncLog10 = "log10"
	FuncLogB  = "logb"
	FuncPoly  = "poly"
)

// Func is a serializable description of a plotted function so that hover
// readouts evaluate it exactly instead of interpolating samples.
type Func struct {
	Kind string  `json:"kind"`
	Base float64 `json:"base,omitempty"`
	// Coeffs are polynomial coefficients, highest degree first.
	Coeffs []float64 `json:"coeffs,omitempty"`
}

// Eval evaluates f at x. Undefined points yield NaN.
func (f Func) Eval(x float64) float64 {
	switch f.Kind {
	case FuncLn:
		return math.Log(x)
	case FuncLog10:
		return math.Log10(x)
	case FuncLogB:
		return math.Log(x) / math.Log(f.Base)
	case FuncPoly:
		y := 0.0
		for _, c := range f.Coeffs {
			y = y*x + c
		}
		return y
	}
	return math.NaN()
}

// Line is a plotted curve.
type Line struct {
	// Key labels the value in hover readouts ("ln", "log10", "log_b", "y").
	Key     string      `json:"key"`
	Name    string      `json:"name"`
	Color   string      `json:"color"`
	Series  plot.Series `json:"series"`
	Visible bool        `json:"visible"`
	Fn      Func        `json:"fn"`
}

// Marker is a highlighted point.
type Marker struct {
	Name  string  `json:"name"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color"`
}

// Figure is everything a renderer needs to draw one chart.
type Figure struct {
	Title   string   `json:"title"`
	Lines   []Line   `json:"lines"`
	Markers []Marker `json:"markers"`
	// Guide is the x of the dashed vertical guide, if any.
	Guide  *float64    `json:"guide,omitempty"`
	X      plot.Domain `json:"x"`
	Y      plot.Domain `json:"y"`
	XScale plot.Scale  `json:"x_scale"`
	XLabel string      `json:"x_label"`
	YLabel string      `json:"y_label"`

	// Grid draws y grid lines, plus decade x grid lines on log axes.
	Grid bool `json:"grid"`
}

// Visible returns the lines currently shown.
func (f Figure) Visible() []Line {
	var out []Line
	for _, l := range f.Lines {
		if l.Visible {
			out = append(out, l)
		}
	}
	return out
}

// VisibleSeries returns the samples of the visible lines.
func (f Figure) VisibleSeries() []plot.Series {
	var out []plot.Series
	for _, l := range f.Lines {
		if l.Visible {
			out = append(out, l.Series)
		}
	}
	return out
}

// GuideAt returns a pointer for Figure.Guide.
func GuideAt(x float64) *float64 {
	return &x
}
