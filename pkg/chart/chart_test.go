package chart

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/mathcalc/pkg/plot"
)

func logFigure(t *testing.T) Figure {
	t.Helper()
	x := plot.DecadeWindow(8)
	lnFn := Func{Kind: FuncLn}
	logbFn := Func{Kind: FuncLogB, Base: 2}
	ln, err := plot.Sample(lnFn.Eval, x.Min, x.Max, plot.LogSamples, plot.Log)
	require.NoError(t, err)
	lb, err := plot.Sample(logbFn.Eval, x.Min, x.Max, plot.LogSamples, plot.Log)
	require.NoError(t, err)

	return Figure{
		Title: "log plots",
		Lines: []Line{
			{Key: "ln", Name: "ln(x)", Color: ColorLn, Series: ln, Visible: true, Fn: lnFn},
			{Key: "log_b", Name: "log_b(x)", Color: ColorLogB, Series: lb, Visible: false, Fn: logbFn},
		},
		Markers: []Marker{{Name: "ln", X: 8, Y: math.Log(8), Color: ColorLn}},
		Guide:   GuideAt(8),
		X:       x,
		Y:       plot.ResolveY(plot.AutoAxis, plot.LogPolicy, []plot.Series{ln}),
		XScale:  plot.Log,
		XLabel:  "x (log scale)",
		YLabel:  "y",
		Grid:    true,
	}
}

func polyFigure() Figure {
	fn := Func{Kind: FuncPoly, Coeffs: []float64{1, -3, 2}}
	x := plot.LinearWindow(1.5)
	s, _ := plot.Sample(fn.Eval, x.Min, x.Max, plot.QuadSamples, plot.Linear)
	return Figure{
		Lines:   []Line{{Key: "y", Name: "y = ax^2+bx+c", Color: ColorCurve, Series: s, Visible: true, Fn: fn}},
		Markers: []Marker{{Name: "vertex", X: 1.5, Y: -0.25, Color: ColorMarker}},
		X:       x,
		Y:       plot.ResolveY(plot.AutoAxis, plot.PolyPolicy, []plot.Series{s}, -0.25),
		XScale:  plot.Linear,
		XLabel:  "x",
		YLabel:  "y",
	}
}

func TestFunc_Eval(t *testing.T) {
	assert.InDelta(t, 3, Func{Kind: FuncLogB, Base: 2}.Eval(8), 1e-12)
	assert.InDelta(t, 1, Func{Kind: FuncLog10}.Eval(10), 1e-12)
	assert.Equal(t, 0.0, Func{Kind: FuncPoly, Coeffs: []float64{1, -3, 2}}.Eval(1))
	assert.True(t, math.IsNaN(Func{Kind: "nope"}.Eval(1)))
}

func TestTransform_RoundTrip(t *testing.T) {
	for _, fig := range []Figure{logFigure(t), polyFigure()} {
		tr := NewTransform(600, 400, fig)
		for _, x := range []float64{fig.X.Min, fig.X.Max, (fig.X.Min + fig.X.Max) / 2} {
			y := (fig.Y.Min + fig.Y.Max) / 3
			px, py := tr.ToPixel(x, y)
			bx, by := tr.FromPixel(px, py)
			assert.InEpsilon(t, x, bx, 1e-9)
			assert.InDelta(t, y, by, 1e-9)
		}
	}
}

func TestTransform_Bounds(t *testing.T) {
	fig := polyFigure()
	tr := NewTransform(100, 0, fig)
	assert.Equal(t, 300.0, tr.Width)
	assert.Equal(t, 400.0, tr.Height)

	px, _ := tr.ToPixel(fig.X.Min, 0)
	assert.InDelta(t, 50, px, 1e-9)
	px, _ = tr.ToPixel(fig.X.Max, 0)
	assert.InDelta(t, 290, px, 1e-9)

	gx, gy := tr.Clamp(-20, 1000)
	assert.Equal(t, 50.0, gx)
	assert.Equal(t, 360.0, gy)
}

func TestLite_Render(t *testing.T) {
	var buf bytes.Buffer
	fig := logFigure(t)
	require.NoError(t, NewLite(600, 400).Render(&buf, fig))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.Contains(t, out, `stroke-dasharray="3,3"`)
	assert.Contains(t, out, "x (log scale)")
	assert.Equal(t, 1, strings.Count(out, `class="series"`), "hidden series are not drawn")
	assert.Contains(t, out, `data-key="ln"`)
	assert.Contains(t, out, `class="marker"`)
	assert.Contains(t, out, "data-lite=")
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))
}

func TestLite_PathBreaksAtGaps(t *testing.T) {
	fig := polyFigure()
	fig.Lines[0].Series.Y[10] = plot.Gap
	tr := NewTransform(600, 400, fig)
	d := path(tr, fig.Lines[0].Series)
	assert.Equal(t, 2, strings.Count(d, "M "))
}

func TestOverlay_Move(t *testing.T) {
	fig := logFigure(t)
	tr := NewTransform(600, 400, fig)
	o := NewOverlay(tr, fig)

	gx, gy := tr.ToPixel(8, 0)
	h := o.Move(gx, gy)
	require.True(t, h.Visible)
	assert.InEpsilon(t, 8, h.X, 1e-9)
	assert.Equal(t, "x=8.000000  |  ln=2.079442", h.Text)
	assert.InDelta(t, gx+12, h.TipX, 1e-9)

	// near the right edge the tooltip flips to the left of the crosshair
	h = o.Move(590, 200)
	assert.InDelta(t, h.GuideX-212, h.TipX, 1e-9)

	// near the top it drops below the crosshair
	h = o.Move(300, 0)
	assert.Equal(t, 10.0, h.GuideY)
	assert.InDelta(t, 22, h.TipY, 1e-9)

	// outside the plot area the crosshair is clamped
	h = o.Move(-100, 1000)
	assert.Equal(t, 50.0, h.GuideX)
	assert.Equal(t, 360.0, h.GuideY)

	assert.False(t, o.Leave().Visible)
}

func TestPlotly_Figure(t *testing.T) {
	p := NewPlotly(&Library{Source: "test"}, 400)
	pf := p.Figure(logFigure(t))

	assert.Equal(t, "x unified", pf.Layout["hovermode"])
	require.Len(t, pf.Data, 4)
	assert.Equal(t, true, pf.Data[0].Visible)
	assert.Equal(t, "legendonly", pf.Data[1].Visible)
	assert.Equal(t, "markers", pf.Data[2].Mode)
	guide := pf.Data[3]
	assert.Equal(t, "dot", guide.Line["dash"])
	assert.Equal(t, "skip", guide.HoverInfo)

	xaxis := pf.Layout["xaxis"].(map[string]any)
	assert.Equal(t, "log", xaxis["type"])

	var buf bytes.Buffer
	require.NoError(t, p.Render(&buf, logFigure(t)))
	assert.Contains(t, buf.String(), `class="rich-plot"`)
	assert.Contains(t, buf.String(), ScriptPath)

	_, err := json.Marshal(pf)
	require.NoError(t, err)
}

func TestStatic_Render(t *testing.T) {
	var png bytes.Buffer
	s := NewStatic("png", 600, 400)
	require.NoError(t, s.Render(&png, logFigure(t)))
	assert.True(t, bytes.HasPrefix(png.Bytes(), []byte("\x89PNG")))
	assert.Equal(t, "image/png", s.ContentType())

	var svg bytes.Buffer
	s = NewStatic("SVG", 600, 400)
	require.NoError(t, s.Render(&svg, polyFigure()))
	assert.Contains(t, svg.String(), "<svg")
	assert.Equal(t, "image/svg+xml", s.ContentType())
}

func TestStatic_Chart(t *testing.T) {
	ch := NewStatic("png", 0, 0).Chart(logFigure(t))
	assert.Equal(t, DefaultWidth, ch.Width)
	// one visible line, one guide, one marker
	assert.Len(t, ch.Series, 3)
	require.NotEmpty(t, ch.XAxis.Ticks)
	assert.Equal(t, "0.01", ch.XAxis.Ticks[0].Label)
	assert.Equal(t, -2.0, ch.XAxis.Ticks[0].Value)
}

func TestStatic_Empty(t *testing.T) {
	fig := polyFigure()
	fig.Lines[0].Visible = false
	fig.Markers = nil
	var buf bytes.Buffer
	assert.Error(t, NewStatic("png", 0, 0).Render(&buf, fig))
}
