// Package steps records the human-readable derivation of a result.
package steps

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Bullet prefixes each line when a trace is rendered as text.
const Bullet = "• "

// Trace is an ordered, append-only list of derivation lines. A new Trace is
// built for every recalculation.
type Trace struct {
	lines []string
}

// New returns an empty trace.
func New() *Trace {
	return &Trace{}
}

// Add appends a line verbatim.
func (t *Trace) Add(line string) {
	t.lines = append(t.lines, line)
}

// Addf appends a formatted line.
func (t *Trace) Addf(format string, args ...any) {
	t.lines = append(t.lines, fmt.Sprintf(format, args...))
}

// Len returns the number of lines.
func (t *Trace) Len() int {
	if t == nil {
		return 0
	}
	return len(t.lines)
}

// Lines returns a copy of the lines in order.
func (t *Trace) Lines() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.lines))
	copy(out, t.lines)
	return out
}

// String renders the trace as bulleted lines.
func (t *Trace) String() string {
	if t.Len() == 0 {
		return ""
	}
	var sb strings.Builder
	for i, l := range t.lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(Bullet)
		sb.WriteString(l)
	}
	return sb.String()
}

// MarshalJSON encodes the trace as an array of lines.
func (t *Trace) MarshalJSON() ([]byte, error) {
	lines := t.Lines()
	if lines == nil {
		lines = []string{}
	}
	return json.Marshal(lines)
}
