package api

import (
	"bytes"
	"context"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ternarybob/mathcalc/internal/settings"
	"github.com/ternarybob/mathcalc/pkg/calculator"
	"github.com/ternarybob/mathcalc/pkg/chart"
)

// pageData is what the page templates render.
type pageData struct {
	Version string
	Calcs   []calculator.Calculator
	Calc    calculator.Calculator
	Fields  calculator.Fields
	View    calculator.View
	Chart   template.HTML
	State   chart.RenderState
	// OOB marks result fragments for out-of-band swapping.
	OOB bool
}

// fieldData is one rendered input.
type fieldData struct {
	calculator.Field
	Calc    string
	Value   string
	Checked bool
}

// Field pairs an input definition with its current value.
func (p pageData) Field(f calculator.Field) fieldData {
	return fieldData{
		Field:   f,
		Calc:    p.Calc.Name,
		Value:   p.Fields.Get(f.Name, f.Default),
		Checked: p.Fields.Bool(f.Name, f.Default == "true"),
	}
}

// Output returns a display value, or an empty string.
func (p pageData) Output(key string) string {
	return p.View.Display[key]
}

// Message is the validation or error text of the view.
func (p pageData) Message() string {
	if p.View.Validation != "" {
		return p.View.Validation
	}
	return p.View.Error
}

// HasResults reports whether the result fragments should be repainted.
func (p pageData) HasResults() bool {
	return p.View.OK() || p.View.Display != nil
}

// drawChart paints the figure of v, if any.
func (s *Server) drawChart(ctx context.Context, v calculator.View) (template.HTML, chart.RenderState) {
	if v.Figure == nil {
		return "", chart.RenderState{}
	}
	var buf bytes.Buffer
	state, err := s.dual.Load().Draw(ctx, &buf, *v.Figure, v.PreferRich && s.rich.Load())
	if err != nil {
		s.logger.Warn().Err(err).Str("calculator", v.Name).Msg("Chart render failed")
		return "", state
	}
	// renderers escape all figure text
	return template.HTML(buf.String()), state
}

// evaluate runs calc over fields laid over its defaults and paints the chart.
func (s *Server) evaluate(ctx context.Context, c calculator.Calculator, f calculator.Fields) pageData {
	fields := c.Defaults()
	for k, v := range f {
		fields[k] = v
	}
	view := c.Evaluate(ctx, s.logger, fields, s.options())
	if in, ok := view.Input.(interface{ Fields() calculator.Fields }); ok {
		for k, v := range in.Fields() {
			fields[k] = v
		}
	}
	html, state := s.drawChart(ctx, view)
	return pageData{
		Version: version,
		Calcs:   calculator.All(),
		Calc:    c,
		Fields:  fields,
		View:    view,
		Chart:   html,
		State:   state,
	}
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error().Err(err).Str("template", name).Msg("Failed to render template")
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (calculator.Calculator, bool) {
	c, ok := calculator.Lookup(chi.URLParam(r, "calc"))
	if !ok {
		http.NotFound(w, r)
	}
	return c, ok
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, "index.html", pageData{Version: version, Calcs: calculator.All()})
}

// handleCalculatorPage renders a full page. Query parameters override the
// defaults so that a form submitted without scripting still works. The log
// page starts from the browser's stored settings.
func (s *Server) handleCalculatorPage(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}

	f := calculator.Fields{}
	if c.Name == settings.LogPage {
		f = s.settings.LoadLog(r.Context(), settings.ClientID(w, r)).Fields()
	}
	for k, v := range valuesFields(r.URL.Query()) {
		f[k] = v
	}

	s.render(w, "calculator.html", s.evaluate(r.Context(), c, f))
}

// handleRecalc answers an input change. The response body replaces the
// validation line; results are swapped out of band only when there is
// something to show, so a failed edit leaves the previous results intact.
func (s *Server) handleRecalc(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}
	f, err := formFields(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	data := s.evaluate(r.Context(), c, f)
	if c.Name == settings.LogPage {
		s.settings.SaveLog(r.Context(), settings.ClientID(w, r), calculator.LogInputFromFields(data.Fields))
	}
	data.OOB = true
	s.render(w, "recalc", data)
}

// handleBody repaints the whole calculator body, for inputs such as presets
// that rewrite other fields.
func (s *Server) handleBody(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}
	f, err := formFields(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.render(w, "calc-body", s.evaluate(r.Context(), c, f))
}

// handleLogFit pins the automatic log ranges as manual overrides and
// repaints the whole calculator body.
func (s *Server) handleLogFit(w http.ResponseWriter, r *http.Request) {
	s.rewriteLog(w, r, func(in calculator.LogInput) calculator.LogInput {
		return calculator.FitLogarithm(in, s.options())
	})
}

// handleLogReset returns both log axes to automatic.
func (s *Server) handleLogReset(w http.ResponseWriter, r *http.Request) {
	s.rewriteLog(w, r, calculator.ResetLogRanges)
}

func (s *Server) rewriteLog(w http.ResponseWriter, r *http.Request, fn func(calculator.LogInput) calculator.LogInput) {
	c, _ := calculator.Lookup(settings.LogPage)
	f, err := formFields(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	fields := c.Defaults()
	for k, v := range f {
		fields[k] = v
	}
	in := fn(calculator.LogInputFromFields(fields))
	s.settings.SaveLog(r.Context(), settings.ClientID(w, r), in)

	s.render(w, "calc-body", s.evaluate(r.Context(), c, in.Fields()))
}
