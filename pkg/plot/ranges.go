package plot

import (
	"math"
	"strconv"

	"github.com/ternarybob/mathcalc/pkg/numparse"
)

// Axis is an axis override as typed by the user.
type Axis struct {
	Auto bool   `json:"auto"`
	Min  string `json:"min"`
	Max  string `json:"max"`
}

// AutoAxis is an axis with no override.
var AutoAxis = Axis{Auto: true}

// Domain is a resolved axis interval.
type Domain struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Manual bool    `json:"manual"`
}

// Contains reports whether v lies within d.
func (d Domain) Contains(v float64) bool {
	return v >= d.Min && v <= d.Max
}

// Policy controls automatic Y ranges.
type Policy struct {
	// Pad is the fraction of the data span added above and below.
	Pad float64
	// Fallback is used when the data span is empty or degenerate.
	Fallback Domain
}

var (
	// LogPolicy pads logarithm plots by 15%.
	LogPolicy = Policy{Pad: 0.15, Fallback: Domain{Min: -4, Max: 4}}
	// PolyPolicy pads polynomial plots by 10%.
	PolyPolicy = Policy{Pad: 0.10, Fallback: Domain{Min: -10, Max: 10}}
)

// manual returns the parsed bounds when the axis is a usable override.
func (a Axis) manual() (lo, hi float64, ok bool) {
	if a.Auto {
		return 0, 0, false
	}
	lo, okLo := numparse.Float(a.Min)
	hi, okHi := numparse.Float(a.Max)
	if !okLo || !okHi || hi <= lo {
		return 0, 0, false
	}
	return lo, hi, true
}

// Log10 is math.Log10 snapped to exact integers at powers of ten.
func Log10(x float64) float64 {
	lg := math.Log10(x)
	if r := math.Round(lg); math.Abs(lg-r) < 1e-12 {
		return r
	}
	return lg
}

// DecadeWindow spans two decades below and above the order of magnitude
// of x.
func DecadeWindow(x float64) Domain {
	lg := Log10(x)
	if IsGap(lg) {
		return Domain{Min: 1e-2, Max: 1e2}
	}
	return Domain{
		Min: math.Pow10(int(math.Floor(lg)) - 2),
		Max: math.Pow10(int(math.Ceil(lg)) + 2),
	}
}

// ResolveLogX resolves a log-scaled X axis around the input x.
func ResolveLogX(a Axis, x float64) Domain {
	if lo, hi, ok := a.manual(); ok && lo > 0 {
		return Domain{Min: lo, Max: hi, Manual: true}
	}
	return DecadeWindow(x)
}

// LinearWindow spans max(5, |center|+5) on each side of center.
func LinearWindow(center float64) Domain {
	if IsGap(center) {
		center = 0
	}
	span := math.Max(5, math.Abs(center)+5)
	return Domain{Min: center - span, Max: center + span}
}

// ResolveLinearX resolves a linear X axis around a notable point.
func ResolveLinearX(a Axis, center float64) Domain {
	if lo, hi, ok := a.manual(); ok {
		return Domain{Min: lo, Max: hi, Manual: true}
	}
	return LinearWindow(center)
}

// AutoY computes the padded range of the visible series plus extra points.
// An empty or flat range pads the policy fallback instead.
func AutoY(p Policy, series []Series, extra ...float64) Domain {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		if l, h, ok := s.Bounds(); ok {
			lo = math.Min(lo, l)
			hi = math.Max(hi, h)
		}
	}
	for _, v := range extra {
		if IsGap(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if IsGap(lo) || IsGap(hi) || hi <= lo {
		lo, hi = p.Fallback.Min, p.Fallback.Max
	}
	pad := (hi - lo) * p.Pad
	return Domain{Min: lo - pad, Max: hi + pad}
}

// ResolveY resolves a Y axis: the override when usable, else AutoY.
func ResolveY(a Axis, p Policy, series []Series, extra ...float64) Domain {
	if lo, hi, ok := a.manual(); ok {
		return Domain{Min: lo, Max: hi, Manual: true}
	}
	return AutoY(p, series, extra...)
}

// Pin turns a resolved domain into a manual axis override.
func Pin(d Domain) Axis {
	return Axis{
		Auto: false,
		Min:  strconv.FormatFloat(d.Min, 'g', -1, 64),
		Max:  strconv.FormatFloat(d.Max, 'g', -1, 64),
	}
}

// Fit pins freshly computed automatic domains as manual overrides. The
// current override state is ignored.
func Fit(x, y Domain) (Axis, Axis) {
	return Pin(x), Pin(y)
}
