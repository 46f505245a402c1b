package calc

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/mathcalc/pkg/numparse"
	"github.com/ternarybob/mathcalc/pkg/steps"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{3, "3.000000"},
		{-0.25, "-0.250000"},
		{1e6, "1.000000e+6"},
		{123456789, "1.234568e+8"},
		{2.5e-7, "2.500000e-7"},
		{0, "0.000000e+0"},
		{math.Copysign(0, -1), "0.000000e+0"},
		{math.NaN(), Dash},
		{math.Inf(1), Dash},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.in), "Format(%v)", tt.in)
	}
}

func TestPlain(t *testing.T) {
	assert.Equal(t, "8", Plain(8))
	assert.Equal(t, "2.5", Plain(2.5))
	assert.Equal(t, "-3", Plain(-3))
	assert.Equal(t, "1e+21", Plain(1e21))
}

func TestNumber_Undefined(t *testing.T) {
	n := Num(math.NaN())
	assert.False(t, n.Defined())
	assert.Equal(t, Dash, n.String())

	data, err := json.Marshal(struct {
		V Number `json:"v"`
		W Number `json:"w"`
	}{V: n, W: Num(1.5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":null,"w":1.5}`, string(data))

	var back Number
	require.NoError(t, json.Unmarshal([]byte("2.5"), &back))
	v, ok := back.Float64()
	assert.True(t, ok)
	assert.Equal(t, 2.5, v)
}

func TestOptions_Normalized(t *testing.T) {
	o := Options{SieveChunk: 10}.normalized()
	assert.Equal(t, int64(10), o.SieveChunk)
	assert.Equal(t, DefaultCubicZeroTolerance, o.CubicZeroTolerance)
	assert.Equal(t, int64(DefaultSieveLimit), o.SieveLimit)
	assert.Equal(t, DefaultGrowthRate, o.GrowthRate)
}

func TestLogarithm_BaseTwo(t *testing.T) {
	r := Logarithm(2, 8)
	assert.Equal(t, "3.000000", r.LogbX.String())
	assert.Equal(t, "2.079442", r.LnX.String())
	assert.Equal(t, "0.903090", r.Log10X.String())

	k, ok := ExactPower(2, 8, DefaultExactPowerTolerance)
	assert.True(t, ok)
	assert.Equal(t, int64(3), k)

	tr := steps.New()
	TraceLogarithm(tr, r, DefaultOptions())
	lines := tr.Lines()
	require.GreaterOrEqual(t, len(lines), 5)
	assert.Equal(t, "Prime factors: b = 2 = 2, x = 8 = 2 · 2 · 2", lines[0])
	assert.Equal(t, "Exact power: x = b^3 = 2^3 = 8", lines[1])
	assert.Contains(t, lines[2], "Change of base: log_b(x) = ln(x)/ln(b)")
	assert.Contains(t, lines[2], "3.000000")
	assert.Equal(t, "Refinement: x = b^{3} · 1.000000", lines[len(lines)-1])
}

func TestLogarithm_ChangeOfBaseConsistency(t *testing.T) {
	for _, c := range []struct{ b, x float64 }{{2, 8}, {10, 0.001}, {0.5, 3}, {7.3, 1234.5}} {
		r := Logarithm(c.b, c.x)
		logb, _ := r.LogbX.Float64()
		ln, _ := r.LnX.Float64()
		lg, _ := r.Log10X.Float64()
		assert.InDelta(t, ln/math.Log(c.b), logb, 1e-12)
		assert.InDelta(t, lg/math.Log10(c.b), logb, 1e-12)
	}
}

func TestLogarithm_NotExact(t *testing.T) {
	_, ok := ExactPower(2, 10, DefaultExactPowerTolerance)
	assert.False(t, ok)

	tr := steps.New()
	TraceLogarithm(tr, Logarithm(2.5, 10), DefaultOptions())
	for _, l := range tr.Lines() {
		assert.NotContains(t, l, "Prime factors")
		assert.NotContains(t, l, "Exact power")
	}

	// exact powers of non-integer operands are not reported as steps
	for _, c := range []struct{ b, x float64 }{{0.5, 0.25}, {2, 0.125}, {1.5, 2.25}} {
		_, ok := ExactPower(c.b, c.x, DefaultExactPowerTolerance)
		require.True(t, ok, "%v", c)

		tr := steps.New()
		TraceLogarithm(tr, Logarithm(c.b, c.x), DefaultOptions())
		for _, l := range tr.Lines() {
			assert.NotContains(t, l, "Exact power", "%v", c)
		}
	}
}

func TestPrimeFactors(t *testing.T) {
	assert.Empty(t, PrimeFactors(1))
	assert.Equal(t, []uint64{2, 2, 3}, PrimeFactors(12))
	assert.Equal(t, []uint64{97}, PrimeFactors(97))
	assert.Equal(t, []uint64{3, 3, 7, 11}, PrimeFactors(693))
}

func TestNearestPower(t *testing.T) {
	p := NearestPower(2, 10)
	assert.Equal(t, 3.0, p.Rounded)
	assert.Equal(t, "8.000000", p.Value.String())
	assert.Equal(t, "1.250000", p.Ratio.String())

	// JavaScript-style rounding goes toward +Inf at .5
	assert.Equal(t, -2.0, JSRound(-2.5))
	assert.Equal(t, 3.0, JSRound(2.5))
}

func TestQuadratic_TwoRoots(t *testing.T) {
	r := Quadratic(1, -3, 2)
	assert.Equal(t, TwoReal, r.Kind)
	assert.Equal(t, "1.000000", r.Discriminant.String())
	assert.Equal(t, "1.000000, 2.000000", r.RootsText())
	assert.Equal(t, "(1.500000, -0.250000)", r.VertexText())

	tr := steps.New()
	TraceQuadratic(tr, r)
	lines := tr.Lines()
	require.Len(t, lines, 4)
	assert.Equal(t, "Δ = b^2 - 4ac = 9.000000 - 4·1·2 = 1.000000", lines[0])
	assert.Equal(t, "Two real roots: x = (-b ± √Δ) / (2a)", lines[3])
}

func TestQuadratic_DoubleAndComplex(t *testing.T) {
	d := Quadratic(1, -2, 1)
	assert.Equal(t, DoubleRoot, d.Kind)
	assert.Equal(t, "1.000000 (double)", d.RootsText())

	c := Quadratic(1, 0, 1)
	assert.Equal(t, ComplexPair, c.Kind)
	assert.Empty(t, c.Roots)
	assert.Equal(t, "0.000000e+0 ± 1.000000i", c.RootsText())

	neg := Quadratic(-2, 0, -8)
	im, ok := neg.Im.Float64()
	assert.True(t, ok)
	assert.Equal(t, 2.0, im)
}

func TestQuadratic_VertexIsExtremum(t *testing.T) {
	r := Quadratic(2, -4, 1)
	vx, _ := r.VertexX.Float64()
	vy, _ := r.VertexY.Float64()
	assert.InDelta(t, r.Eval(vx), vy, 1e-12)
	assert.Greater(t, r.Eval(vx+0.1), vy)
	assert.Greater(t, r.Eval(vx-0.1), vy)
}

func TestCubic_RepeatedRoot(t *testing.T) {
	r := Cubic(1, 0, -3, 2, DefaultOptions())
	assert.Equal(t, RepeatedReal, r.Kind)
	require.Len(t, r.Roots, 2)
	assert.Equal(t, "-2.000000", r.Roots[0].String())
	assert.Equal(t, "1.000000", r.Roots[1].String())
}

func TestCubic_OneAndThree(t *testing.T) {
	one := Cubic(1, 0, 0, -1, DefaultOptions())
	assert.Equal(t, OneReal, one.Kind)
	require.Len(t, one.Roots, 1)
	v, _ := one.Roots[0].Float64()
	assert.InDelta(t, 1.0, v, 1e-12)

	three := Cubic(1, -6, 11, -6, DefaultOptions())
	assert.Equal(t, ThreeDistinct, three.Kind)
	require.Len(t, three.Roots, 3)
	for i, want := range []float64{1, 2, 3} {
		got, _ := three.Roots[i].Float64()
		assert.InDelta(t, want, got, 1e-9)
		assert.InDelta(t, 0, three.Eval(got), 1e-9)
	}
	assert.InDelta(t, 2.0, three.Center(), 1e-9)

	tr := steps.New()
	TraceCubic(tr, three)
	assert.Equal(t, "Three distinct real roots.", tr.Lines()[tr.Len()-1])
}

func TestPowerRoot(t *testing.T) {
	r := PowerRoot(2, 10, 3, DefaultOptions())
	assert.Equal(t, "1024.000000", r.Pow.String())
	root, _ := r.Root.Float64()
	assert.InDelta(t, math.Cbrt(2), root, 1e-12)
	growth, _ := r.Growth.Float64()
	assert.InDelta(t, 2*math.Pow(1.05, 10), growth, 1e-12)
	assert.Equal(t, 0.05, r.Rate)

	tr := steps.New()
	TracePower(tr, r)
	assert.Equal(t, "Power: a^b = 2.000000^10.000000 = 1024.000000", tr.Lines()[0])
}

func TestNthRoot(t *testing.T) {
	v, ok := NthRoot(-8, 3).Float64()
	assert.True(t, ok)
	assert.InDelta(t, -2, v, 1e-12)

	assert.False(t, NthRoot(-16, 4).Defined())
	assert.False(t, NthRoot(5, 0).Defined())

	r := PowerRoot(-16, 2, 4, DefaultOptions())
	assert.Equal(t, NotReal, r.RootText())
	tr := steps.New()
	TracePower(tr, r)
	assert.Equal(t, "Power: a^b = -16.000000^2.000000 = 256.000000", tr.Lines()[0])
	assert.Contains(t, tr.Lines()[1], "not real for even n and negative a")
	assert.Equal(t, "Growth example: a*(1+r)^b with r=5% → -17.640000", tr.Lines()[2])
}

func TestConvertBase(t *testing.T) {
	r, err := ConvertBase("FF", 16, 2)
	require.NoError(t, err)
	assert.Equal(t, "11111111", r.Converted)
	assert.Equal(t, "255", r.Decimal)
	assert.Equal(t, "FF", r.RoundTrip)

	r, err = ConvertBase("0.1", 2, 10)
	require.NoError(t, err)
	assert.Equal(t, "0.5", r.Converted)

	r, err = ConvertBase("-a.8", 16, 10)
	require.NoError(t, err)
	assert.Equal(t, "-10.5", r.Converted)
	assert.Equal(t, "-A.8", r.RoundTrip)

	r, err = ConvertBase("z", 36, 10)
	require.NoError(t, err)
	assert.Equal(t, "35", r.Converted)
}

func TestConvertBase_Invalid(t *testing.T) {
	_, err := ConvertBase("G", 16, 10)
	require.Error(t, err)
	assert.Equal(t, "Value is not valid for the chosen from-base.", err.Error())

	_, err = ConvertBase("1.1.1", 2, 10)
	assert.Error(t, err)

	_, err = ConvertBase("10", 1, 10)
	require.Error(t, err)
	assert.Equal(t, "Bases must be between 2 and 36.", err.Error())
}

func TestToBase_FractionLimit(t *testing.T) {
	r, err := ConvertBase("0.1", 10, 3)
	require.NoError(t, err)
	// 0.1 has no finite base-3 expansion; 16 digits are kept.
	assert.Equal(t, "0.0022002200220022", r.Converted)
	assert.Equal(t, "0", ToBase(numparse.Numeral{Neg: true}, 2, MaxFractionDigits))
}

func TestConvertBase_ExactFractions(t *testing.T) {
	tests := []struct {
		in                   string
		from, to             int
		converted, roundTrip string
	}{
		{"0.1", 3, 3, "0.1", "0.1"},
		{"0.1", 7, 7, "0.1", "0.1"},
		{"0.2", 3, 9, "0.6", "0.2"},
		{"0.1", 3, 10, "0.3333333333333333", "0.1"},
		{"0.2", 3, 10, "0.6666666666666667", "0.2"},
		{"-2.1", 3, 10, "-2.3333333333333333", "-2.1"},
		{"0.F", 16, 2, "0.1111", "0.F"},
	}
	for _, tt := range tests {
		r, err := ConvertBase(tt.in, tt.from, tt.to)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.converted, r.Converted, "%s %d→%d", tt.in, tt.from, tt.to)
		assert.Equal(t, tt.roundTrip, r.RoundTrip, "%s %d→%d round trip", tt.in, tt.from, tt.to)
	}
}

func TestToBase_RoundingCarries(t *testing.T) {
	// 0.FFFF...F8 in base 16 rounds into the integer part at two digits
	v, err := numparse.Digits("0.FF8", 16)
	require.NoError(t, err)
	assert.Equal(t, "1", ToBase(v, 16, 2))
	assert.Equal(t, "0.FF8", ToBase(v, 16, 3))

	v, err = numparse.Digits("0.0001", 10)
	require.NoError(t, err)
	assert.Equal(t, "0", ToBase(v, 10, 2), "rounds to zero without a sign")
}
