package chart

import (
	"bufio"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ternarybob/mathcalc/pkg/plot"
)

// Strategy names the renderer that painted a chart.
type Strategy string

const (
	StrategyLite   Strategy = "lite"
	StrategyRich   Strategy = "rich"
	StrategyStatic Strategy = "static"
)

// Renderer paints a figure.
type Renderer interface {
	Strategy() Strategy
	Render(w io.Writer, fig Figure) error
}

// gridSteps is the number of y grid intervals.
const gridSteps = 8

const gridColor = "rgba(127,127,127,0.15)"

// Lite draws figures as standalone SVG. The root element carries the
// transform and the visible functions as data attributes so the browser
// can synthesize hover readouts without a charting library.
type Lite struct {
	Width  int
	Height int
}

// NewLite returns a lite renderer for a w×h canvas.
func NewLite(w, h int) *Lite {
	return &Lite{Width: w, Height: h}
}

func (l *Lite) Strategy() Strategy { return StrategyLite }

// Transform returns the pixel transform used for fig.
func (l *Lite) Transform(fig Figure) Transform {
	return NewTransform(l.Width, l.Height, fig)
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// path builds SVG path data, starting a new subpath after every gap.
func path(t Transform, s plot.Series) string {
	var sb strings.Builder
	pen := false
	for i := range s.X {
		if plot.IsGap(s.Y[i]) {
			pen = false
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		if pen {
			sb.WriteString("L ")
		} else {
			sb.WriteString("M ")
		}
		sb.WriteString(px(t.PX(s.X[i])))
		sb.WriteByte(' ')
		sb.WriteString(px(t.PY(s.Y[i])))
		pen = true
	}
	return sb.String()
}

type liteData struct {
	Transform Transform `json:"transform"`
	Lines     []liteFn  `json:"lines"`
}

type liteFn struct {
	Key string `json:"key"`
	Fn  Func   `json:"fn"`
}

func (l *Lite) Render(w io.Writer, fig Figure) error {
	t := l.Transform(fig)
	vis := fig.Visible()

	meta := liteData{Transform: t, Lines: make([]liteFn, 0, len(vis))}
	for _, ln := range vis {
		meta.Lines = append(meta.Lines, liteFn{Key: ln.Key, Fn: ln.Fn})
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encode lite metadata: %w", err)
	}

	bw := bufio.NewWriter(w)
	W, H := t.Width, t.Height
	left, right := t.Pad.Left, W-t.Pad.Right
	top, bottom := t.Pad.Top, H-t.Pad.Bottom

	fmt.Fprintf(bw, `<svg class="lite-plot" width="%s" height="%s" viewBox="0 0 %s %s" xmlns="http://www.w3.org/2000/svg" role="img" aria-label="%s" data-lite="%s">`+"\n",
		px(W), px(H), px(W), px(H), html.EscapeString(fig.Title), html.EscapeString(string(data)))
	fmt.Fprintf(bw, `<rect x="0" y="0" width="%s" height="%s" fill="transparent" stroke="%s"/>`+"\n", px(W), px(H), gridColor)

	if fig.Grid {
		for i := 0; i <= gridSteps; i++ {
			y := fig.Y.Min + float64(i)*(fig.Y.Max-fig.Y.Min)/gridSteps
			fmt.Fprintf(bw, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="1"/>`+"\n",
				px(left), px(t.PY(y)), px(right), px(t.PY(y)), gridColor)
		}
		if fig.XScale == plot.Log {
			lo := int(math.Floor(plot.Log10(fig.X.Min)))
			hi := int(math.Ceil(plot.Log10(fig.X.Max)))
			for k := lo; k <= hi; k++ {
				v := math.Pow10(k)
				if !fig.X.Contains(v) {
					continue
				}
				fmt.Fprintf(bw, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="1"/>`+"\n",
					px(t.PX(v)), px(top), px(t.PX(v)), px(bottom), gridColor)
			}
		}
	}

	if fig.Y.Contains(0) {
		fmt.Fprintf(bw, `<line class="axis" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s"/>`+"\n",
			px(left), px(t.PY(0)), px(right), px(t.PY(0)), ColorGuide)
	}
	if fig.XScale != plot.Log && fig.X.Contains(0) {
		fmt.Fprintf(bw, `<line class="axis" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s"/>`+"\n",
			px(t.PX(0)), px(top), px(t.PX(0)), px(bottom), ColorGuide)
	}

	fmt.Fprintf(bw, `<text x="%s" y="%s" text-anchor="middle" fill="currentColor" font-size="12">%s</text>`+"\n",
		px(W/2), px(H-8), html.EscapeString(fig.XLabel))
	fmt.Fprintf(bw, `<text x="12" y="%s" fill="currentColor" font-size="12">%s</text>`+"\n",
		px(top+12), html.EscapeString(fig.YLabel))

	for _, ln := range vis {
		d := path(t, ln.Series)
		if d == "" {
			continue
		}
		fmt.Fprintf(bw, `<path class="series" data-key="%s" d="%s" fill="none" stroke="%s" stroke-width="2"/>`+"\n",
			html.EscapeString(ln.Key), d, ln.Color)
	}

	if fig.Guide != nil && fig.X.Contains(*fig.Guide) {
		gx := t.PX(*fig.Guide)
		fmt.Fprintf(bw, `<line class="guide" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-dasharray="3,3"/>`+"\n",
			px(gx), px(top), px(gx), px(bottom), ColorGuide)
	}

	for _, m := range fig.Markers {
		if plot.IsGap(m.X) || plot.IsGap(m.Y) {
			continue
		}
		fmt.Fprintf(bw, `<circle class="marker" cx="%s" cy="%s" r="4" fill="%s"><title>%s</title></circle>`+"\n",
			px(t.PX(m.X)), px(t.PY(m.Y)), m.Color, html.EscapeString(m.Name))
	}

	bw.WriteString("</svg>\n")
	return bw.Flush()
}
