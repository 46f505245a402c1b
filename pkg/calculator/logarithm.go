package calculator

import (
	"context"
	"strconv"

	"github.com/ternarybob/mathcalc/pkg/calc"
	"github.com/ternarybob/mathcalc/pkg/chart"
	"github.com/ternarybob/mathcalc/pkg/numparse"
	"github.com/ternarybob/mathcalc/pkg/plot"
	"github.com/ternarybob/mathcalc/pkg/steps"
)

// LogInput is the logarithm page state.
type LogInput struct {
	Base       string    `json:"base"`
	Number     string    `json:"number"`
	ShowLn     bool      `json:"toggleLn"`
	ShowLog10  bool      `json:"toggleLog10"`
	ShowLogB   bool      `json:"toggleLogb"`
	PreferRich bool      `json:"togglePlotly"`
	X          plot.Axis `json:"x"`
	Y          plot.Axis `json:"y"`
}

// DefaultLogInput is the logarithm page as first shown.
func DefaultLogInput() LogInput {
	return LogInput{
		Base:      "2",
		Number:    "8",
		ShowLn:    true,
		ShowLog10: true,
		ShowLogB:  true,
		X:         plot.AutoAxis,
		Y:         plot.AutoAxis,
	}
}

// LogInputFromFields reads the logarithm page fields over the defaults.
func LogInputFromFields(f Fields) LogInput {
	d := DefaultLogInput()
	return LogInput{
		Base:       f.Get("base", d.Base),
		Number:     f.Get("number", d.Number),
		ShowLn:     f.Bool("toggleLn", d.ShowLn),
		ShowLog10:  f.Bool("toggleLog10", d.ShowLog10),
		ShowLogB:   f.Bool("toggleLogb", d.ShowLogB),
		PreferRich: f.Bool("togglePlotly", d.PreferRich),
		X:          f.Axis("x"),
		Y:          f.Axis("y"),
	}
}

// logLines samples the three curves over x.
func logLines(b float64, in LogInput, x plot.Domain, n int) ([]chart.Line, error) {
	defs := []struct {
		key, name, color string
		fn               chart.Func
		show             bool
	}{
		{"ln", "ln(x)", chart.ColorLn, chart.Func{Kind: chart.FuncLn}, in.ShowLn},
		{"log10", "log10(x)", chart.ColorLog10, chart.Func{Kind: chart.FuncLog10}, in.ShowLog10},
		{"log_b", "log_b(x)", chart.ColorLogB, chart.Func{Kind: chart.FuncLogB, Base: b}, in.ShowLogB},
	}
	lines := make([]chart.Line, 0, len(defs))
	for _, d := range defs {
		s, err := plot.Sample(d.fn.Eval, x.Min, x.Max, n, plot.Log)
		if err != nil {
			return nil, err
		}
		lines = append(lines, chart.Line{Key: d.key, Name: d.name, Color: d.color, Series: s, Visible: d.show, Fn: d.fn})
	}
	return lines, nil
}

func logPoints(r calc.LogResult) []float64 {
	var out []float64
	for _, n := range []calc.Number{r.LnX, r.Log10X, r.LogbX} {
		if v, ok := n.Float64(); ok {
			out = append(out, v)
		}
	}
	return out
}

func visibleSeries(lines []chart.Line) []plot.Series {
	var out []plot.Series
	for _, l := range lines {
		if l.Visible {
			out = append(out, l.Series)
		}
	}
	return out
}

// Logarithm evaluates the logarithm page.
func Logarithm(_ context.Context, in LogInput, opts Options) Page[calc.LogResult] {
	v, err := numparse.Log(in.Base, in.Number)
	if err != nil {
		return invalid[calc.LogResult](err)
	}

	r := calc.Logarithm(v.B, v.X)
	trace := steps.New()
	calc.TraceLogarithm(trace, r, opts.Calc)

	xd := plot.ResolveLogX(in.X, v.X)
	lines, err := logLines(v.B, in, xd, opts.samples(plot.LogSamples))
	if err != nil {
		return failed[calc.LogResult](err)
	}
	yd := plot.ResolveY(in.Y, plot.LogPolicy, visibleSeries(lines), logPoints(r)...)

	var markers []chart.Marker
	for i, n := range []calc.Number{r.LnX, r.Log10X, r.LogbX} {
		if !lines[i].Visible {
			continue
		}
		if y, ok := n.Float64(); ok {
			markers = append(markers, chart.Marker{Name: lines[i].Name, X: v.X, Y: y, Color: lines[i].Color})
		}
	}

	fig := &chart.Figure{
		Title:   "log plots",
		Lines:   lines,
		Markers: markers,
		Guide:   chart.GuideAt(v.X),
		X:       xd,
		Y:       yd,
		XScale:  plot.Log,
		XLabel:  "x (log scale)",
		YLabel:  "y",
		Grid:    true,
	}
	return Page[calc.LogResult]{
		Result: &r,
		Display: map[string]string{
			"lnX":    r.LnX.String(),
			"log10X": r.Log10X.String(),
			"logbX":  r.LogbX.String(),
		},
		Steps:  trace,
		Figure: fig,
		Range:  &Ranges{X: xd, Y: yd},
	}
}

// FitLogarithm pins the automatic ranges for the current inputs as manual
// overrides, ignoring any overrides already present. Invalid inputs leave
// the input unchanged.
func FitLogarithm(in LogInput, opts Options) LogInput {
	v, err := numparse.Log(in.Base, in.Number)
	if err != nil {
		return in
	}
	r := calc.Logarithm(v.B, v.X)
	xd := plot.DecadeWindow(v.X)
	lines, err := logLines(v.B, in, xd, opts.samples(plot.LogSamples))
	if err != nil {
		return in
	}
	yd := plot.AutoY(plot.LogPolicy, visibleSeries(lines), logPoints(r)...)
	in.X, in.Y = plot.Fit(xd, yd)
	return in
}

// ResetLogRanges returns in with both axes back on automatic.
func ResetLogRanges(in LogInput) LogInput {
	in.X = plot.Axis{Auto: true, Min: in.X.Min, Max: in.X.Max}
	in.Y = plot.Axis{Auto: true, Min: in.Y.Min, Max: in.Y.Max}
	return in
}

// Fields flattens in back into page fields.
func (in LogInput) Fields() Fields {
	f := Fields{
		"base":         in.Base,
		"number":       in.Number,
		"toggleLn":     strconv.FormatBool(in.ShowLn),
		"toggleLog10":  strconv.FormatBool(in.ShowLog10),
		"toggleLogb":   strconv.FormatBool(in.ShowLogB),
		"togglePlotly": strconv.FormatBool(in.PreferRich),
	}
	f.setAxis("x", in.X)
	f.setAxis("y", in.Y)
	return f
}
