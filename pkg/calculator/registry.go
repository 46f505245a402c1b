package calculator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/mathcalc/pkg/chart"
	"github.com/ternarybob/mathcalc/pkg/steps"
)

// ErrUnknown is returned for a calculator name that is not registered.
var ErrUnknown = errors.New("unknown calculator")

// Field kinds.
const (
	KindText     = "text"
	KindCheckbox = "checkbox"
	KindSelect   = "select"
)

// Field describes one input of a calculator page.
type Field struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Kind    string   `json:"kind"`
	Default string   `json:"default"`
	Options []string `json:"options,omitempty"`
}

// Output labels one display value of a page.
type Output struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// View is the type-erased Page the surfaces render.
type View struct {
	Name       string            `json:"calculator"`
	Input      any               `json:"input"`
	Validation string            `json:"validation,omitempty"`
	Error      string            `json:"error,omitempty"`
	Result     any               `json:"result,omitempty"`
	Display    map[string]string `json:"display,omitempty"`
	Steps      *steps.Trace      `json:"steps,omitempty"`
	Figure     *chart.Figure     `json:"figure,omitempty"`
	Range      *Ranges           `json:"range,omitempty"`
	PreferRich bool              `json:"prefer_rich,omitempty"`
}

// OK reports whether the view holds results.
func (v View) OK() bool {
	return v.Validation == "" && v.Error == ""
}

func newView[I, R any](name string, in I, p Page[R], rich bool) View {
	v := View{
		Name:       name,
		Input:      in,
		Validation: p.Validation,
		Error:      p.Error,
		Display:    p.Display,
		Steps:      p.Steps,
		Figure:     p.Figure,
		Range:      p.Range,
		PreferRich: rich,
	}
	if p.Result != nil {
		v.Result = p.Result
	}
	return v
}

// Calculator is a registered page.
type Calculator struct {
	Name    string
	Title   string
	Summary string
	Fields  []Field
	Outputs []Output
	Plots   bool // draws a figure
	eval    func(ctx context.Context, logger arbor.ILogger, f Fields, opts Options) View
}

// Defaults returns the fields of the page as first shown.
func (c Calculator) Defaults() Fields {
	f := make(Fields, len(c.Fields))
	for _, fd := range c.Fields {
		f[fd.Name] = fd.Default
	}
	return f
}

// Evaluate runs the page over f with panic recovery.
func (c Calculator) Evaluate(ctx context.Context, logger arbor.ILogger, f Fields, opts Options) View {
	return c.eval(ctx, logger, f, opts)
}

func text(name, label, def string) Field {
	return Field{Name: name, Label: label, Kind: KindText, Default: def}
}

func checkbox(name, label string, on bool) Field {
	def := "false"
	if on {
		def = "true"
	}
	return Field{Name: name, Label: label, Kind: KindCheckbox, Default: def}
}

func axisFields(prefix string) []Field {
	up := strings.ToUpper(prefix[:1]) + prefix[1:]
	return []Field{
		checkbox("auto"+up, "Auto "+prefix, true),
		text(prefix+"Min", prefix+" min", ""),
		text(prefix+"Max", prefix+" max", ""),
	}
}

func logFields() []Field {
	d := DefaultLogInput()
	fs := []Field{
		text("base", "Base b", d.Base),
		text("number", "Number x", d.Number),
		checkbox("toggleLn", "ln(x)", d.ShowLn),
		checkbox("toggleLog10", "log10(x)", d.ShowLog10),
		checkbox("toggleLogb", "log_b(x)", d.ShowLogB),
		checkbox("togglePlotly", "Interactive chart", d.PreferRich),
	}
	fs = append(fs, axisFields("x")...)
	return append(fs, axisFields("y")...)
}

var registry = map[string]Calculator{
	"log": {
		Name:    "log",
		Title:   "Logarithm",
		Summary: "ln, log10 and log base b with change of base.",
		Fields:  logFields(),
		Plots:   true,
		Outputs: []Output{{"lnX", "ln(x)"}, {"log10X", "log10(x)"}, {"logbX", "log_b(x)"}},
		eval: func(ctx context.Context, logger arbor.ILogger, f Fields, opts Options) View {
			in := LogInputFromFields(f)
			return newView("log", in, Run(ctx, logger, "log", Logarithm, in, opts), in.PreferRich)
		},
	},
	"quadratic": {
		Name:    "quadratic",
		Title:   "Quadratic",
		Summary: "Discriminant, vertex and roots of ax² + bx + c.",
		Fields: []Field{
			text("a", "a", "1"), text("b", "b", "-3"), text("c", "c", "2"),
			checkbox("togglePlotly", "Interactive chart", false),
		},
		Plots:   true,
		Outputs: []Output{{"discriminant", "Discriminant Δ"}, {"roots", "Roots"}, {"vertex", "Vertex"}},
		eval: func(ctx context.Context, logger arbor.ILogger, f Fields, opts Options) View {
			in := QuadraticInputFromFields(f)
			return newView("quadratic", in, Run(ctx, logger, "quadratic", Quadratic, in, opts), in.PreferRich)
		},
	},
	"cubic": {
		Name:    "cubic",
		Title:   "Cubic",
		Summary: "Real roots of ax³ + bx² + cx + d.",
		Fields: []Field{
			text("a", "a", "1"), text("b", "b", "0"), text("c", "c", "-3"), text("d", "d", "2"),
			checkbox("togglePlotly", "Interactive chart", false),
		},
		Plots:   true,
		Outputs: []Output{{"discriminant", "Discriminant Δ"}, {"roots", "Real roots"}},
		eval: func(ctx context.Context, logger arbor.ILogger, f Fields, opts Options) View {
			in := CubicInputFromFields(f)
			return newView("cubic", in, Run(ctx, logger, "cubic", Cubic, in, opts), in.PreferRich)
		},
	},
	"power": {
		Name:    "power",
		Title:   "Power & Root",
		Summary: "a^b, the real n-th root of a and compound growth.",
		Fields:  []Field{text("a", "a", "2"), text("b", "b", "10"), text("n", "n", "3")},
		Outputs: []Output{{"pow", "a^b"}, {"root", "n-th root of a"}, {"growth", "Growth a·(1+r)^b"}},
		eval: func(ctx context.Context, logger arbor.ILogger, f Fields, opts Options) View {
			in := PowerInputFromFields(f)
			return newView("power", in, Run(ctx, logger, "power", Power, in, opts), false)
		},
	},
	"base": {
		Name:    "base",
		Title:   "Base Conversion",
		Summary: "Convert numerals between bases 2 to 36.",
		Fields: []Field{
			text("value", "Value", "FF"), text("from", "From base", "16"), text("to", "To base", "2"),
			{Name: "preset", Label: "Preset", Kind: KindSelect, Options: []string{"", "bin", "oct", "hex"}},
		},
		Outputs: []Output{{"decimal", "Decimal value"}, {"converted", "Converted"}, {"roundTrip", "Round trip"}},
		eval: func(ctx context.Context, logger arbor.ILogger, f Fields, opts Options) View {
			in := BaseInputFromFields(f)
			return newView("base", in, Run(ctx, logger, "base", Base, in, opts), false)
		},
	},
	"prime": {
		Name:    "prime",
		Title:   "Prime Tools",
		Summary: "Primality, neighbouring primes and factorization.",
		Fields:  []Field{text("n", "n", "97")},
		Outputs: []Output{{"isPrime", "Is prime?"}, {"smallest", "Smallest factor"}, {"neighbors", "Previous / next prime"}, {"factors", "Factorization"}},
		eval: func(ctx context.Context, logger arbor.ILogger, f Fields, opts Options) View {
			in := PrimeInputFromFields(f)
			return newView("prime", in, Run(ctx, logger, "prime", Prime, in, opts), false)
		},
	},
	"primes": {
		Name:    "primes",
		Title:   "Prime Range",
		Summary: "Every prime between two bounds.",
		Fields:  []Field{text("lo", "Start", "10"), text("hi", "End", "30")},
		Outputs: []Output{{"count", "Count"}, {"firstLast", "First / last"}, {"list", "Primes"}},
		eval: func(ctx context.Context, logger arbor.ILogger, f Fields, opts Options) View {
			in := RangeInputFromFields(f)
			return newView("primes", in, Run(ctx, logger, "primes", PrimeRange, in, opts), false)
		},
	},
}

// order is the navigation order of the pages.
var order = []string{"log", "quadratic", "cubic", "power", "base", "prime", "primes"}

// Lookup returns the named calculator.
func Lookup(name string) (Calculator, bool) {
	c, ok := registry[name]
	return c, ok
}

// All returns every calculator in navigation order.
func All() []Calculator {
	out := make([]Calculator, 0, len(order))
	for _, n := range order {
		out = append(out, registry[n])
	}
	return out
}

// Names returns the registered names sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Evaluate runs the named calculator over f.
func Evaluate(ctx context.Context, logger arbor.ILogger, name string, f Fields, opts Options) (View, error) {
	c, ok := Lookup(name)
	if !ok {
		return View{}, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	return c.Evaluate(ctx, logger, f, opts), nil
}
