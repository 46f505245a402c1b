package chart

import (
	"strings"

	"github.com/ternarybob/mathcalc/pkg/calc"
	"github.com/ternarybob/mathcalc/pkg/plot"
)

// Tooltip geometry of the lite overlay.
const (
	tipOffset = 12
	tipWidth  = 200
	tipHeight = 26
)

// ReadoutSeparator joins the parts of a hover readout.
const ReadoutSeparator = "  |  "

// Hover is the overlay state for one pointer position.
type Hover struct {
	Visible bool `json:"visible"`
	// GuideX and GuideY are the clamped crosshair position in pixels.
	GuideX float64 `json:"guide_x"`
	GuideY float64 `json:"guide_y"`
	// X and Y are the data coordinates under the crosshair.
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Text string  `json:"text"`
	TipX float64 `json:"tip_x"`
	TipY float64 `json:"tip_y"`
}

// Overlay computes the synthesized hover interaction of a lite plot.
type Overlay struct {
	T     Transform
	Lines []Line
}

// NewOverlay builds the overlay for the visible lines of fig drawn with t.
func NewOverlay(t Transform, fig Figure) Overlay {
	return Overlay{T: t, Lines: fig.Visible()}
}

// Move returns the overlay for a pointer at (px, py) relative to the plot.
// The crosshair is clamped to the plot area; the readout lists x and every
// visible line's exact value there.
func (o Overlay) Move(px, py float64) Hover {
	gx, gy := o.T.Clamp(px, py)
	x, y := o.T.FromPixel(gx, gy)
	if o.T.XScale == plot.Log && !(x > 0) {
		return Hover{}
	}

	parts := []string{"x=" + calc.Format(x)}
	for _, l := range o.Lines {
		parts = append(parts, l.Key+"="+calc.Format(l.Fn.Eval(x)))
	}

	tx := gx + tipOffset
	ty := gy - tipOffset - tipHeight
	if tx+tipWidth > o.T.Width {
		tx = gx - tipOffset - tipWidth
	}
	if ty < 0 {
		ty = gy + tipOffset
	}

	return Hover{
		Visible: true,
		GuideX:  gx,
		GuideY:  gy,
		X:       x,
		Y:       y,
		Text:    strings.Join(parts, ReadoutSeparator),
		TipX:    tx,
		TipY:    ty,
	}
}

// Leave hides every overlay element.
func (o Overlay) Leave() Hover {
	return Hover{}
}
