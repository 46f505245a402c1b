// Package plot samples functions into series and resolves the axis domains
// a chart is drawn over.
package plot

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// Scale is the spacing of an axis.
type Scale string

const (
	Linear Scale = "linear"
	Log    Scale = "log"
)

// Default sample counts.
const (
	LogSamples   = 400
	QuadSamples  = 400
	CubicSamples = 500
)

// ErrSamples is returned for sample counts below two.
var ErrSamples = errors.New("plot: at least two samples are required")

// Gap marks a sample where the function is undefined.
var Gap = math.NaN()

// IsGap reports whether y is a gap marker.
func IsGap(y float64) bool {
	return math.IsNaN(y) || math.IsInf(y, 0)
}

// Series is a sampled curve. Y holds Gap where the function had no finite
// value.
type Series struct {
	X []float64
	Y []float64
}

// Sample evaluates fn at n points spanning [lo, hi], spaced according to
// scale.
func Sample(fn func(float64) float64, lo, hi float64, n int, scale Scale) (Series, error) {
	if n < 2 {
		return Series{}, ErrSamples
	}
	if IsGap(lo) || IsGap(hi) || hi <= lo {
		return Series{}, fmt.Errorf("plot: invalid domain [%v, %v]", lo, hi)
	}
	if scale == Log && lo <= 0 {
		return Series{}, fmt.Errorf("plot: log domain must be positive, got %v", lo)
	}

	s := Series{X: make([]float64, n), Y: make([]float64, n)}
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		var x float64
		if scale == Log {
			a, b := math.Log10(lo), math.Log10(hi)
			x = math.Pow(10, a+t*(b-a))
		} else {
			x = lo + t*(hi-lo)
		}
		y := fn(x)
		if IsGap(y) {
			y = Gap
		}
		s.X[i] = x
		s.Y[i] = y
	}
	return s, nil
}

// Len returns the number of samples.
func (s Series) Len() int {
	return len(s.X)
}

// Bounds returns the min and max of the finite y values.
func (s Series) Bounds() (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, y := range s.Y {
		if IsGap(y) {
			continue
		}
		lo = math.Min(lo, y)
		hi = math.Max(hi, y)
		ok = true
	}
	return lo, hi, ok
}

// Segments splits s at gaps into runs of finite samples.
func (s Series) Segments() []Series {
	var out []Series
	start := -1
	for i, y := range s.Y {
		if IsGap(y) {
			if start >= 0 {
				out = append(out, Series{X: s.X[start:i], Y: s.Y[start:i]})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, Series{X: s.X[start:], Y: s.Y[start:]})
	}
	return out
}

type seriesJSON struct {
	X []*float64 `json:"x"`
	Y []*float64 `json:"y"`
}

func nullable(vs []float64) []*float64 {
	out := make([]*float64, len(vs))
	for i := range vs {
		if !IsGap(vs[i]) {
			v := vs[i]
			out[i] = &v
		}
	}
	return out
}

// MarshalJSON encodes gaps as null.
func (s Series) MarshalJSON() ([]byte, error) {
	return json.Marshal(seriesJSON{X: nullable(s.X), Y: nullable(s.Y)})
}
