package calculator

import (
	"context"

	"github.com/ternarybob/mathcalc/pkg/calc"
	"github.com/ternarybob/mathcalc/pkg/numparse"
	"github.com/ternarybob/mathcalc/pkg/steps"
)

// PowerInput is the power and root page state.
type PowerInput struct {
	A string `json:"a"`
	B string `json:"b"`
	N string `json:"n"`
}

func DefaultPowerInput() PowerInput {
	return PowerInput{A: "2", B: "10", N: "3"}
}

func PowerInputFromFields(f Fields) PowerInput {
	d := DefaultPowerInput()
	return PowerInput{A: f.Get("a", d.A), B: f.Get("b", d.B), N: f.Get("n", d.N)}
}

// Power evaluates a^b, the real n-th root of a and the growth example.
func Power(_ context.Context, in PowerInput, opts Options) Page[calc.PowerResult] {
	v, err := numparse.Reals("Enter valid numbers for a, b, n.", in.A, in.B, in.N)
	if err != nil {
		return invalid[calc.PowerResult](err)
	}

	r := calc.PowerRoot(v[0], v[1], v[2], opts.Calc)
	trace := steps.New()
	calc.TracePower(trace, r)

	return Page[calc.PowerResult]{
		Result: &r,
		Display: map[string]string{
			"pow":    r.Pow.String(),
			"root":   r.RootText(),
			"growth": r.Growth.String(),
		},
		Steps: trace,
	}
}
