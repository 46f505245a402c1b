package chart

import (
	"fmt"
	"io"
	"math"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ternarybob/mathcalc/pkg/calc"
	"github.com/ternarybob/mathcalc/pkg/plot"
)

// Export formats of the static renderer.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// Static renders figures to PNG or SVG images with go-chart. Log axes are
// plotted in log10 space with decade tick labels.
type Static struct {
	Format string
	Width  int
	Height int
}

// NewStatic returns an image renderer. Unknown formats fall back to PNG.
func NewStatic(format string, w, h int) *Static {
	format = strings.ToLower(format)
	if format != FormatSVG {
		format = FormatPNG
	}
	return &Static{Format: format, Width: w, Height: h}
}

func (s *Static) Strategy() Strategy { return StrategyStatic }

// ContentType returns the MIME type of the output.
func (s *Static) ContentType() string {
	if s.Format == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

func hexColor(c string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(c, "#"))
}

func (s *Static) xval(fig Figure, x float64) float64 {
	if fig.XScale == plot.Log {
		return math.Log10(x)
	}
	return x
}

// decadeTicks labels every power of ten inside d, positioned in log10 space.
func decadeTicks(d plot.Domain) []gochart.Tick {
	lo := int(math.Ceil(plot.Log10(d.Min)))
	hi := int(math.Floor(plot.Log10(d.Max)))
	var ticks []gochart.Tick
	for k := lo; k <= hi; k++ {
		ticks = append(ticks, gochart.Tick{Value: float64(k), Label: calc.Plain(math.Pow10(k))})
	}
	return ticks
}

// Chart builds the go-chart description of fig.
func (s *Static) Chart(fig Figure) gochart.Chart {
	var series []gochart.Series
	for _, l := range fig.Visible() {
		style := gochart.Style{StrokeColor: hexColor(l.Color), StrokeWidth: 2}
		for i, seg := range l.Series.Segments() {
			if seg.Len() < 2 {
				continue
			}
			xs := make([]float64, seg.Len())
			for j, x := range seg.X {
				xs[j] = s.xval(fig, x)
			}
			name := l.Name
			if i > 0 {
				name = ""
			}
			series = append(series, gochart.ContinuousSeries{Name: name, XValues: xs, YValues: seg.Y, Style: style})
		}
	}

	if fig.Guide != nil && fig.X.Contains(*fig.Guide) {
		gx := s.xval(fig, *fig.Guide)
		series = append(series, gochart.ContinuousSeries{
			XValues: []float64{gx, gx},
			YValues: []float64{fig.Y.Min, fig.Y.Max},
			Style: gochart.Style{
				StrokeColor:     hexColor(ColorGuide),
				StrokeWidth:     1,
				StrokeDashArray: []float64{3, 3},
			},
		})
	}

	for _, m := range fig.Markers {
		if plot.IsGap(m.X) || plot.IsGap(m.Y) {
			continue
		}
		mx := s.xval(fig, m.X)
		// a single point series cannot be ranged; draw it twice
		series = append(series, gochart.ContinuousSeries{
			Name:    m.Name,
			XValues: []float64{mx, mx},
			YValues: []float64{m.Y, m.Y},
			Style: gochart.Style{
				StrokeColor: drawing.ColorTransparent,
				StrokeWidth: 0,
				DotWidth:    4,
				DotColor:    hexColor(m.Color),
			},
		})
	}

	xaxis := gochart.XAxis{
		Name:  fig.XLabel,
		Range: &gochart.ContinuousRange{Min: s.xval(fig, fig.X.Min), Max: s.xval(fig, fig.X.Max)},
	}
	if fig.XScale == plot.Log {
		xaxis.Ticks = decadeTicks(fig.X)
	}

	w, h := s.Width, s.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	ch := gochart.Chart{
		Title:      fig.Title,
		Width:      w,
		Height:     h,
		Background: gochart.Style{Padding: gochart.Box{Top: 14, Left: 16, Right: 12, Bottom: 14}},
		XAxis:      xaxis,
		YAxis: gochart.YAxis{
			Name:  fig.YLabel,
			Range: &gochart.ContinuousRange{Min: fig.Y.Min, Max: fig.Y.Max},
		},
		Series: series,
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}
	return ch
}

func (s *Static) Render(w io.Writer, fig Figure) error {
	ch := s.Chart(fig)
	if len(ch.Series) == 0 {
		return fmt.Errorf("render %s: figure has no drawable series", s.Format)
	}
	provider := gochart.PNG
	if s.Format == FormatSVG {
		provider = gochart.SVG
	}
	if err := ch.Render(provider, w); err != nil {
		return fmt.Errorf("render %s: %w", s.Format, err)
	}
	return nil
}
