package calculator

import (
	"context"

	"github.com/ternarybob/mathcalc/pkg/calc"
	"github.com/ternarybob/mathcalc/pkg/numparse"
	"github.com/ternarybob/mathcalc/pkg/steps"
)

// BaseInput is the base conversion page state.
type BaseInput struct {
	Value string `json:"value"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// Presets set the source base of a common conversion to decimal.
var Presets = map[string]BaseInput{
	"bin": {From: "2", To: "10"},
	"oct": {From: "8", To: "10"},
	"hex": {From: "16", To: "10"},
}

func DefaultBaseInput() BaseInput {
	return BaseInput{Value: "FF", From: "16", To: "2"}
}

// BaseInputFromFields reads the base page fields over the defaults. A
// known "preset" field overrides both bases.
func BaseInputFromFields(f Fields) BaseInput {
	d := DefaultBaseInput()
	in := BaseInput{
		Value: f.Get("value", d.Value),
		From:  f.Get("from", d.From),
		To:    f.Get("to", d.To),
	}
	return ApplyPreset(in, f.Get("preset", ""))
}

// ApplyPreset replaces the bases of in with the named preset, if any.
func ApplyPreset(in BaseInput, name string) BaseInput {
	p, ok := Presets[name]
	if !ok {
		return in
	}
	in.From, in.To = p.From, p.To
	return in
}

// Fields writes in back as page fields. The preset is consumed.
func (in BaseInput) Fields() Fields {
	return Fields{"value": in.Value, "from": in.From, "to": in.To, "preset": ""}
}

// clearedBase is shown when conversion fails; dependent outputs are
// cleared instead of left stale.
func clearedBase(err error) Page[calc.BaseResult] {
	p := invalid[calc.BaseResult](err)
	p.Display = map[string]string{
		"decimal":   calc.Dash,
		"converted": calc.Dash,
		"roundTrip": calc.Dash,
	}
	p.Steps = steps.New()
	return p
}

// Base converts a numeral between two bases.
func Base(_ context.Context, in BaseInput, _ Options) Page[calc.BaseResult] {
	from, err := numparse.Base(in.From)
	if err != nil {
		return invalid[calc.BaseResult](err)
	}
	to, err := numparse.Base(in.To)
	if err != nil {
		return invalid[calc.BaseResult](err)
	}
	r, err := calc.ConvertBase(in.Value, from, to)
	if err != nil {
		if numparse.IsValidation(err) {
			return clearedBase(err)
		}
		return failed[calc.BaseResult](err)
	}

	trace := steps.New()
	calc.TraceBase(trace, r)
	return Page[calc.BaseResult]{
		Result: &r,
		Display: map[string]string{
			"decimal":   r.Decimal,
			"converted": r.Converted,
			"roundTrip": r.RoundTrip,
		},
		Steps: trace,
	}
}
