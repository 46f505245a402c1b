package calculator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/mathcalc/pkg/calc"
	"github.com/ternarybob/mathcalc/pkg/chart"
	"github.com/ternarybob/mathcalc/pkg/plot"
)

func TestLogarithm_Defaults(t *testing.T) {
	p := Logarithm(context.Background(), DefaultLogInput(), DefaultOptions())
	require.True(t, p.OK(), p.Message())

	assert.Equal(t, "3.000000", p.Display["logbX"])
	assert.Equal(t, "2.079442", p.Display["lnX"])
	assert.Contains(t, p.Steps.Lines(), "Exact power: x = b^3 = 2^3 = 8")

	require.NotNil(t, p.Figure)
	assert.Equal(t, plot.Log, p.Figure.XScale)
	assert.InDelta(t, 0.01, p.Range.X.Min, 1e-15)
	assert.InDelta(t, 1000, p.Range.X.Max, 1e-9)
	assert.False(t, p.Range.X.Manual)
	assert.Len(t, p.Figure.Lines, 3)
	assert.Len(t, p.Figure.Markers, 3)
	require.NotNil(t, p.Figure.Guide)
	assert.Equal(t, 8.0, *p.Figure.Guide)
	assert.Less(t, p.Range.Y.Min, p.Range.Y.Max)
}

func TestLogarithm_Validation(t *testing.T) {
	in := DefaultLogInput()
	in.Base = "1"
	p := Logarithm(context.Background(), in, DefaultOptions())
	assert.False(t, p.OK())
	assert.Equal(t, "Base b must not equal 1.", p.Validation)
	assert.Nil(t, p.Result)
	assert.Nil(t, p.Figure)

	in = DefaultLogInput()
	in.Number = "-3"
	p = Logarithm(context.Background(), in, DefaultOptions())
	assert.Equal(t, "Number x must be > 0.", p.Validation)
}

func TestLogarithm_TogglesHideSeriesAndMarkers(t *testing.T) {
	in := DefaultLogInput()
	in.ShowLn = false
	in.ShowLog10 = false
	p := Logarithm(context.Background(), in, DefaultOptions())
	require.True(t, p.OK())

	vis := p.Figure.Visible()
	require.Len(t, vis, 1)
	assert.Equal(t, "log_b", vis[0].Key)
	require.Len(t, p.Figure.Markers, 1)
	assert.Equal(t, chart.ColorLogB, p.Figure.Markers[0].Color)
	// hidden results are still computed
	assert.Equal(t, "0.903090", p.Display["log10X"])
}

func TestLogarithm_ManualRanges(t *testing.T) {
	in := DefaultLogInput()
	in.X = plot.Axis{Min: "1", Max: "100"}
	in.Y = plot.Axis{Min: "-1", Max: "5"}
	p := Logarithm(context.Background(), in, DefaultOptions())
	require.True(t, p.OK())
	assert.Equal(t, plot.Domain{Min: 1, Max: 100, Manual: true}, p.Range.X)
	assert.Equal(t, plot.Domain{Min: -1, Max: 5, Manual: true}, p.Range.Y)

	// unusable bounds fall back to auto
	in.X = plot.Axis{Min: "-1", Max: "100"}
	p = Logarithm(context.Background(), in, DefaultOptions())
	assert.False(t, p.Range.X.Manual)
}

func TestFitLogarithm(t *testing.T) {
	in := DefaultLogInput()
	in.X = plot.Axis{Min: "5", Max: "6"}
	fit := FitLogarithm(in, DefaultOptions())

	assert.False(t, fit.X.Auto)
	assert.Equal(t, "0.01", fit.X.Min)
	assert.Equal(t, "1000", fit.X.Max)
	assert.False(t, fit.Y.Auto)

	p := Logarithm(context.Background(), fit, DefaultOptions())
	require.True(t, p.OK())
	assert.True(t, p.Range.X.Manual)
	assert.True(t, p.Range.Y.Manual)

	reset := ResetLogRanges(fit)
	assert.True(t, reset.X.Auto)
	assert.True(t, reset.Y.Auto)
	assert.Equal(t, fit.X.Min, reset.X.Min)

	bad := DefaultLogInput()
	bad.Base = "x"
	assert.Equal(t, bad, FitLogarithm(bad, DefaultOptions()))
}

func TestLogInput_Fields(t *testing.T) {
	in := DefaultLogInput()
	in.ShowLog10 = false
	in.PreferRich = true
	in.Y = plot.Axis{Min: "-2", Max: "2"}
	assert.Equal(t, in, LogInputFromFields(in.Fields()))
}

func TestQuadratic_Example(t *testing.T) {
	p := Quadratic(context.Background(), DefaultQuadraticInput(), DefaultOptions())
	require.True(t, p.OK(), p.Message())

	assert.Equal(t, "1.000000", p.Display["discriminant"])
	assert.Equal(t, "1.000000, 2.000000", p.Display["roots"])
	assert.Equal(t, "(1.500000, -0.250000)", p.Display["vertex"])

	require.Len(t, p.Figure.Markers, 1)
	assert.Equal(t, 1.5, p.Figure.Markers[0].X)
	assert.Equal(t, -0.25, p.Figure.Markers[0].Y)
	assert.Equal(t, plot.Domain{Min: -5, Max: 8}, p.Range.X)
	assert.Equal(t, plot.QuadSamples, p.Figure.Lines[0].Series.Len())
}

func TestQuadratic_Validation(t *testing.T) {
	in := DefaultQuadraticInput()
	in.A = "0"
	p := Quadratic(context.Background(), in, DefaultOptions())
	assert.Equal(t, "a must not be 0 for a quadratic.", p.Validation)

	in.A = "one"
	p = Quadratic(context.Background(), in, DefaultOptions())
	assert.Equal(t, "Enter valid numeric coefficients a, b, c.", p.Validation)
}

func TestCubic_Example(t *testing.T) {
	p := Cubic(context.Background(), DefaultCubicInput(), DefaultOptions())
	require.True(t, p.OK(), p.Message())

	assert.Equal(t, "-2.000000, 1.000000", p.Display["roots"])
	require.Len(t, p.Figure.Markers, 2)
	for _, m := range p.Figure.Markers {
		assert.Equal(t, 0.0, m.Y)
	}
	assert.Equal(t, plot.CubicSamples, p.Figure.Lines[0].Series.Len())
	assert.True(t, p.Range.X.Contains(-2))
	assert.True(t, p.Range.X.Contains(1))
}

func TestPower(t *testing.T) {
	p := Power(context.Background(), DefaultPowerInput(), DefaultOptions())
	require.True(t, p.OK())
	assert.Equal(t, "1024.000000", p.Display["pow"])
	assert.Equal(t, "1.259921", p.Display["root"])
	assert.Equal(t, "3.257789", p.Display["growth"])
	assert.Nil(t, p.Figure)

	p = Power(context.Background(), PowerInput{A: "-8", B: "2", N: "2"}, DefaultOptions())
	assert.Equal(t, calc.NotReal, p.Display["root"])

	p = Power(context.Background(), PowerInput{A: "2", B: "", N: "3"}, DefaultOptions())
	assert.Equal(t, "Enter valid numbers for a, b, n.", p.Validation)
}

func TestBase_Example(t *testing.T) {
	p := Base(context.Background(), DefaultBaseInput(), DefaultOptions())
	require.True(t, p.OK(), p.Message())
	assert.Equal(t, "255", p.Display["decimal"])
	assert.Equal(t, "11111111", p.Display["converted"])
	assert.Equal(t, "FF", p.Display["roundTrip"])
}

func TestBase_FailureClearsOutputs(t *testing.T) {
	p := Base(context.Background(), BaseInput{Value: "FG", From: "16", To: "2"}, DefaultOptions())
	assert.Equal(t, "Value is not valid for the chosen from-base.", p.Validation)
	assert.Equal(t, calc.Dash, p.Display["converted"])
	assert.Equal(t, calc.Dash, p.Display["roundTrip"])
	assert.Zero(t, p.Steps.Len())

}

func TestBase_BadBaseKeepsOutputs(t *testing.T) {
	for _, in := range []BaseInput{
		{Value: "1", From: "2", To: "37"},
		{Value: "1", From: "1", To: "10"},
	} {
		p := Base(context.Background(), in, DefaultOptions())
		assert.Equal(t, "Bases must be between 2 and 36.", p.Validation)
		assert.Nil(t, p.Display, "outputs are left as painted")
		assert.Nil(t, p.Steps)
	}
}

func TestBase_Presets(t *testing.T) {
	in := BaseInputFromFields(Fields{"value": "ff", "from": "2", "to": "2", "preset": "hex"})
	assert.Equal(t, "16", in.From)
	assert.Equal(t, "10", in.To)

	p := Base(context.Background(), in, DefaultOptions())
	require.True(t, p.OK())
	assert.Equal(t, "255", p.Display["converted"])

	assert.Equal(t, in, ApplyPreset(in, "nope"))
}

func TestPrime_Example(t *testing.T) {
	p := Prime(context.Background(), DefaultPrimeInput(), DefaultOptions())
	require.True(t, p.OK())
	assert.Equal(t, "Yes", p.Display["isPrime"])
	assert.Equal(t, "89 / 101", p.Display["neighbors"])
	assert.Equal(t, calc.Dash, p.Display["smallest"])

	p = Prime(context.Background(), PrimeInput{N: "91"}, DefaultOptions())
	assert.Equal(t, "No", p.Display["isPrime"])
	assert.Equal(t, "7", p.Display["smallest"])
	assert.Equal(t, "Prime factors: 7 · 13", p.Display["factors"])

	p = Prime(context.Background(), PrimeInput{N: "9.5"}, DefaultOptions())
	assert.Equal(t, "Enter a valid integer.", p.Validation)
}

func TestPrimeRange_Example(t *testing.T) {
	for _, in := range []RangeInput{{Lo: "10", Hi: "30"}, {Lo: "30", Hi: "10"}} {
		p := PrimeRange(context.Background(), in, DefaultOptions())
		require.True(t, p.OK())
		assert.Equal(t, "6", p.Display["count"])
		assert.Equal(t, "11, 13, 17, 19, 23, 29", p.Display["list"])
		assert.Equal(t, "11 / 29", p.Display["firstLast"])
	}

	p := PrimeRange(context.Background(), RangeInput{Lo: "24", Hi: "28"}, DefaultOptions())
	assert.Equal(t, "0", p.Display["count"])
	assert.Equal(t, "No primes in range.", p.Display["list"])

	p = PrimeRange(context.Background(), RangeInput{Lo: "a", Hi: "3"}, DefaultOptions())
	assert.Equal(t, "Enter valid integers for start and end.", p.Validation)
}

func TestPrimeRange_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	opts := DefaultOptions()
	opts.Calc.SieveLimit = 100
	opts.Calc.SieveChunk = 50

	p := PrimeRange(ctx, RangeInput{Lo: "1000", Hi: "2000"}, opts)
	assert.False(t, p.OK())
	assert.Contains(t, p.Error, "Unexpected error: sieve [1000, 2000] stopped")
}

func TestRun_RecoversPanic(t *testing.T) {
	boom := func(context.Context, int, Options) Page[int] { panic("boom") }
	p := Run(context.Background(), nil, "boom", boom, 1, DefaultOptions())
	assert.Equal(t, "Unexpected error: boom", p.Error)
	assert.False(t, p.OK())
}

func TestFields(t *testing.T) {
	f := Fields{"on": "on", "off": "false", "blank": "", "junk": "maybe"}
	assert.True(t, f.Bool("on", false))
	assert.False(t, f.Bool("off", true))
	assert.False(t, f.Bool("blank", true))
	assert.True(t, f.Bool("junk", true))
	assert.True(t, f.Bool("missing", true))
	assert.Equal(t, "d", f.Get("missing", "d"))

	a := Fields{"autoY": "false", "yMin": "1", "yMax": "2"}.Axis("y")
	assert.Equal(t, plot.Axis{Auto: false, Min: "1", Max: "2"}, a)
	assert.True(t, Fields{}.Axis("x").Auto)
}

func TestEvaluate(t *testing.T) {
	for _, c := range All() {
		v, err := Evaluate(context.Background(), nil, c.Name, c.Defaults(), DefaultOptions())
		require.NoError(t, err, c.Name)
		assert.True(t, v.OK(), "%s: %s", c.Name, v.Validation)
		assert.NotNil(t, v.Result, c.Name)
		assert.Equal(t, c.Plots, v.Figure != nil, c.Name)
	}

	_, err := Evaluate(context.Background(), nil, "nope", nil, DefaultOptions())
	assert.ErrorIs(t, err, ErrUnknown)
	assert.Len(t, Names(), 7)
}
