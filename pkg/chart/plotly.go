package chart

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"math"

	"github.com/ternarybob/mathcalc/pkg/plot"
)

// ScriptPath is where the acquired charting library is served from.
const ScriptPath = "/web/vendor/plotly.js"

// Plotly renders figures as interactive Plotly charts. It needs the
// library to have been acquired; the markup references it by ScriptPath.
type Plotly struct {
	Library *Library
	Height  int
}

// NewPlotly returns a rich renderer bound to lib.
func NewPlotly(lib *Library, height int) *Plotly {
	return &Plotly{Library: lib, Height: height}
}

func (p *Plotly) Strategy() Strategy { return StrategyRich }

// Trace is one Plotly scatter trace.
type Trace struct {
	Type          string         `json:"type"`
	Mode          string         `json:"mode"`
	Name          string         `json:"name"`
	XS            []*float64     `json:"x"`
	YS            []*float64     `json:"y"`
	Line          map[string]any `json:"line,omitempty"`
	Marker        map[string]any `json:"marker,omitempty"`
	Visible       any            `json:"visible"`
	HoverTemplate string         `json:"hovertemplate,omitempty"`
	HoverInfo     string         `json:"hoverinfo,omitempty"`
	ShowLegend    *bool          `json:"showlegend,omitempty"`
}

// PlotlyFigure is the JSON handed to Plotly.newPlot.
type PlotlyFigure struct {
	Data   []Trace        `json:"data"`
	Layout map[string]any `json:"layout"`
	Config map[string]any `json:"config"`
}

func finitePtrs(vs []float64) []*float64 {
	out := make([]*float64, len(vs))
	for i := range vs {
		if !plot.IsGap(vs[i]) {
			v := vs[i]
			out[i] = &v
		}
	}
	return out
}

// Figure converts fig to Plotly traces. Hidden lines stay in the legend as
// "legendonly" so the user can toggle them back.
func (p *Plotly) Figure(fig Figure) PlotlyFigure {
	var traces []Trace
	for _, l := range fig.Lines {
		var vis any = true
		if !l.Visible {
			vis = "legendonly"
		}
		traces = append(traces, Trace{
			Type:          "scatter",
			Mode:          "lines",
			Name:          l.Name,
			XS:            finitePtrs(l.Series.X),
			YS:            finitePtrs(l.Series.Y),
			Line:          map[string]any{"color": l.Color, "width": 2},
			Visible:       vis,
			HoverTemplate: l.Key + "=%{y:.6f}<extra></extra>",
		})
	}
	for _, m := range fig.Markers {
		if plot.IsGap(m.X) || plot.IsGap(m.Y) {
			continue
		}
		traces = append(traces, Trace{
			Type:          "scatter",
			Mode:          "markers",
			Name:          m.Name,
			XS:            finitePtrs([]float64{m.X}),
			YS:            finitePtrs([]float64{m.Y}),
			Marker:        map[string]any{"color": m.Color, "size": 9},
			Visible:       true,
			HoverTemplate: m.Name + "<br>x=%{x:.6f}<br>y=%{y:.6f}<extra></extra>",
		})
	}
	if fig.Guide != nil {
		hide := false
		traces = append(traces, Trace{
			Type:       "scatter",
			Mode:       "lines",
			Name:       "x",
			XS:         finitePtrs([]float64{*fig.Guide, *fig.Guide}),
			YS:         finitePtrs([]float64{fig.Y.Min, fig.Y.Max}),
			Line:       map[string]any{"color": ColorGuide, "dash": "dot", "width": 1},
			Visible:    true,
			HoverInfo:  "skip",
			ShowLegend: &hide,
		})
	}

	xaxis := map[string]any{
		"title": map[string]any{"text": fig.XLabel},
		"range": []float64{fig.X.Min, fig.X.Max},
	}
	if fig.XScale == plot.Log {
		xaxis["type"] = "log"
		xaxis["range"] = []float64{math.Log10(fig.X.Min), math.Log10(fig.X.Max)}
	}

	height := p.Height
	if height <= 0 {
		height = DefaultHeight
	}
	return PlotlyFigure{
		Data: traces,
		Layout: map[string]any{
			"height":        height,
			"hovermode":     "x unified",
			"margin":        map[string]any{"l": 50, "r": 10, "t": 10, "b": 40},
			"xaxis":         xaxis,
			"yaxis":         map[string]any{"title": map[string]any{"text": fig.YLabel}, "range": []float64{fig.Y.Min, fig.Y.Max}},
			"legend":        map[string]any{"orientation": "h"},
			"paper_bgcolor": "rgba(0,0,0,0)",
			"plot_bgcolor":  "rgba(0,0,0,0)",
		},
		Config: map[string]any{"displayModeBar": false, "responsive": true, "scrollZoom": true},
	}
}

// Render writes a container whose data-plotly attribute rich.js hands to
// Plotly.newPlot, plus the readout overlay element.
func (p *Plotly) Render(w io.Writer, fig Figure) error {
	data, err := json.Marshal(p.Figure(fig))
	if err != nil {
		return fmt.Errorf("encode plotly figure: %w", err)
	}
	_, err = fmt.Fprintf(w, `<div class="rich-plot" data-src="%s" data-plotly="%s"></div><div class="plot-readout" hidden></div>`+"\n",
		ScriptPath, html.EscapeString(string(data)))
	return err
}
