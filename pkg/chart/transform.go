package chart

import (
	"math"

	"github.com/ternarybob/mathcalc/pkg/plot"
)

// Size limits of the lite plot.
const (
	DefaultWidth  = 600
	DefaultHeight = 400
	MinSize       = 300
)

// Padding is the plot area inset in pixels.
type Padding struct {
	Left   float64 `json:"l"`
	Right  float64 `json:"r"`
	Top    float64 `json:"t"`
	Bottom float64 `json:"b"`
}

// DefaultPadding leaves room for the axis labels.
var DefaultPadding = Padding{Left: 50, Right: 10, Top: 10, Bottom: 40}

// Transform maps data coordinates to pixels and back.
type Transform struct {
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Pad    Padding     `json:"pad"`
	X      plot.Domain `json:"x"`
	Y      plot.Domain `json:"y"`
	XScale plot.Scale  `json:"scale"`
}

// NewTransform builds a transform for a w×h canvas. Sizes default to
// 600×400 when zero and are never smaller than 300.
func NewTransform(w, h int, fig Figure) Transform {
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return Transform{
		Width:  math.Max(float64(w), MinSize),
		Height: math.Max(float64(h), MinSize),
		Pad:    DefaultPadding,
		X:      fig.X,
		Y:      fig.Y,
		XScale: fig.XScale,
	}
}

// InnerWidth is the plot area width.
func (t Transform) InnerWidth() float64 {
	return t.Width - t.Pad.Left - t.Pad.Right
}

// InnerHeight is the plot area height.
func (t Transform) InnerHeight() float64 {
	return t.Height - t.Pad.Top - t.Pad.Bottom
}

func (t Transform) xt(x float64) float64 {
	if t.XScale == plot.Log {
		return math.Log(x)
	}
	return x
}

func (t Transform) xtInv(u float64) float64 {
	if t.XScale == plot.Log {
		return math.Exp(u)
	}
	return u
}

// PX maps a data x to a pixel column.
func (t Transform) PX(x float64) float64 {
	lo, hi := t.xt(t.X.Min), t.xt(t.X.Max)
	return t.Pad.Left + (t.xt(x)-lo)/(hi-lo)*t.InnerWidth()
}

// PY maps a data y to a pixel row.
func (t Transform) PY(y float64) float64 {
	return t.Pad.Top + (1-(y-t.Y.Min)/(t.Y.Max-t.Y.Min))*t.InnerHeight()
}

// ToPixel maps a data point to pixels.
func (t Transform) ToPixel(x, y float64) (float64, float64) {
	return t.PX(x), t.PY(y)
}

// FromPixel is the exact inverse of ToPixel.
func (t Transform) FromPixel(px, py float64) (float64, float64) {
	lo, hi := t.xt(t.X.Min), t.xt(t.X.Max)
	u := (px - t.Pad.Left) / t.InnerWidth()
	x := t.xtInv(lo + u*(hi-lo))
	v := 1 - (py-t.Pad.Top)/t.InnerHeight()
	y := t.Y.Min + v*(t.Y.Max-t.Y.Min)
	return x, y
}

// Clamp limits a pixel position to the padded plot area.
func (t Transform) Clamp(px, py float64) (float64, float64) {
	gx := math.Max(t.Pad.Left, math.Min(t.Width-t.Pad.Right, px))
	gy := math.Max(t.Pad.Top, math.Min(t.Height-t.Pad.Bottom, py))
	return gx, gy
}
