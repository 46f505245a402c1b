package calc

import (
	"math"
	"strconv"
)

// Plain renders v in its shortest round-tripping form, the way inputs are
// echoed back inside derivation lines ("8", "2.5", "1e+21").
func Plain(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Dash
	}
	if v == 0 {
		return "0"
	}
	a := math.Abs(v)
	if a >= 1e-7 && a < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return Exponential(v, -1)
}
