// Package calculator turns the raw text of a calculator page into
// everything the page shows: results, a derivation trail, and a chart
// figure over resolved axis ranges.
//
// Each page is a pure function of its inputs, toggles and range overrides.
// The view layer only feeds fields in and paints the Page that comes out.
package calculator

import (
	"context"
	"fmt"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/mathcalc/pkg/calc"
	"github.com/ternarybob/mathcalc/pkg/chart"
	"github.com/ternarybob/mathcalc/pkg/numparse"
	"github.com/ternarybob/mathcalc/pkg/plot"
	"github.com/ternarybob/mathcalc/pkg/steps"
)

// Options tunes every page.
type Options struct {
	Calc calc.Options
	// Samples overrides the per-page sample counts when positive.
	Samples int
}

// DefaultOptions returns stock options.
func DefaultOptions() Options {
	return Options{Calc: calc.DefaultOptions()}
}

func (o Options) samples(def int) int {
	if o.Samples >= 2 {
		return o.Samples
	}
	return def
}

// Ranges are the resolved plot domains.
type Ranges struct {
	X plot.Domain `json:"x"`
	Y plot.Domain `json:"y"`
}

// Page is the output of one recalculation. On a validation failure only
// Validation is set (base conversion also sets cleared Display values); on
// an unexpected failure only Error is set.
type Page[R any] struct {
	Validation string            `json:"validation,omitempty"`
	Error      string            `json:"error,omitempty"`
	Result     *R                `json:"result,omitempty"`
	Display    map[string]string `json:"display,omitempty"`
	Steps      *steps.Trace      `json:"steps,omitempty"`
	Figure     *chart.Figure     `json:"figure,omitempty"`
	Range      *Ranges           `json:"range,omitempty"`
}

// OK reports whether the page holds results.
func (p Page[R]) OK() bool {
	return p.Validation == "" && p.Error == ""
}

// Message is the validation or error text, if any.
func (p Page[R]) Message() string {
	if p.Validation != "" {
		return p.Validation
	}
	return p.Error
}

// invalid builds a page for a validation failure.
func invalid[R any](err error) Page[R] {
	return Page[R]{Validation: numparse.Message(err)}
}

// failed turns an error into a page: validation failures are reported
// inline, anything else as an unexpected error.
func failed[R any](err error) Page[R] {
	if numparse.IsValidation(err) {
		return invalid[R](err)
	}
	return Page[R]{Error: "Unexpected error: " + err.Error()}
}

// Func is a page pipeline.
type Func[I, R any] func(ctx context.Context, in I, opts Options) Page[R]

// Run executes fn, turning a panic into an error page. Unexpected errors
// are logged with the calculator name; logger may be nil.
func Run[I, R any](ctx context.Context, logger arbor.ILogger, name string, fn Func[I, R], in I, opts Options) (page Page[R]) {
	defer func() {
		if rec := recover(); rec != nil {
			page = Page[R]{Error: fmt.Sprintf("Unexpected error: %v", rec)}
			if logger != nil {
				logger.Error().
					Str("calculator", name).
					Str("panic", fmt.Sprint(rec)).
					Str("stack", string(debug.Stack())).
					Msg("Recalculation panicked")
			}
		}
	}()

	page = fn(ctx, in, opts)
	if page.Error != "" && logger != nil {
		logger.Error().Str("calculator", name).Str("error", page.Error).Msg("Recalculation failed")
	}
	return page
}

// Fields are raw form values keyed by field name.
type Fields map[string]string

// Get returns the value of k, or def when absent.
func (f Fields) Get(k, def string) string {
	v, ok := f[k]
	if !ok {
		return def
	}
	return v
}

// Bool reads a checkbox-like value. Absent keys yield def.
func (f Fields) Bool(k string, def bool) bool {
	v, ok := f[k]
	if !ok {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "yes", "checked":
		return true
	case "":
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// Axis reads the auto flag and bounds of an axis whose fields share prefix
// ("x" → autoX, xMin, xMax).
func (f Fields) Axis(prefix string) plot.Axis {
	up := strings.ToUpper(prefix[:1]) + prefix[1:]
	return plot.Axis{
		Auto: f.Bool("auto"+up, true),
		Min:  f.Get(prefix+"Min", ""),
		Max:  f.Get(prefix+"Max", ""),
	}
}

func (f Fields) setAxis(prefix string, a plot.Axis) {
	up := strings.ToUpper(prefix[:1]) + prefix[1:]
	f["auto"+up] = strconv.FormatBool(a.Auto)
	f[prefix+"Min"] = a.Min
	f[prefix+"Max"] = a.Max
}
