package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ternarybob/mathcalc/pkg/calculator"
	"github.com/ternarybob/mathcalc/pkg/chart"
)

// ReadoutRequest asks for the lite hover overlay at a pointer position.
type ReadoutRequest struct {
	Calculator string         `json:"calculator"`
	Fields     map[string]any `json:"fields"`
	PX         float64        `json:"px"`
	PY         float64        `json:"py"`
	Leave      bool           `json:"leave"`
}

// evaluateFields runs the named calculator over f laid over its defaults.
func (s *Server) evaluateFields(r *http.Request, name string, f calculator.Fields) (calculator.View, error) {
	c, ok := calculator.Lookup(name)
	if !ok {
		return calculator.View{}, calculator.ErrUnknown
	}
	fields := c.Defaults()
	for k, v := range f {
		fields[k] = v
	}
	return c.Evaluate(r.Context(), s.logger, fields, s.options()), nil
}

// handleEvaluate returns the full view of a calculator as JSON. Validation
// failures are reported in the body with status 200.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	f, err := requestFields(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := s.evaluateFields(r, chi.URLParam(r, "calc"), f)
	if errors.Is(err, calculator.ErrUnknown) {
		writeError(w, http.StatusNotFound, "Unknown calculator")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handlePlot renders the calculator's figure as a PNG or SVG image.
func (s *Server) handlePlot(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if format != chart.FormatPNG && format != chart.FormatSVG {
		writeError(w, http.StatusBadRequest, "Format must be png or svg")
		return
	}

	view, err := s.evaluateFields(r, chi.URLParam(r, "calc"), valuesFields(r.URL.Query()))
	if errors.Is(err, calculator.ErrUnknown) {
		writeError(w, http.StatusNotFound, "Unknown calculator")
		return
	}
	if !view.OK() {
		writeJSON(w, http.StatusUnprocessableEntity, view)
		return
	}
	if view.Figure == nil {
		writeError(w, http.StatusNotFound, "Calculator has no chart")
		return
	}

	st := chart.NewStatic(format, s.cfg.Chart.Width, s.cfg.Chart.Height)
	var buf bytes.Buffer
	if err := st.Render(&buf, *view.Figure); err != nil {
		s.logger.Error().Err(err).Str("calculator", view.Name).Str("format", format).Msg("Static render failed")
		writeError(w, http.StatusInternalServerError, "Failed to render chart")
		return
	}

	w.Header().Set("Content-Type", st.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	buf.WriteTo(w)
}

// handleReadout computes the lite overlay for a pointer position on the
// figure the given fields produce.
func (s *Server) handleReadout(w http.ResponseWriter, r *http.Request) {
	var req ReadoutRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	f, err := jsonFields(req.Fields)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := s.evaluateFields(r, req.Calculator, f)
	if errors.Is(err, calculator.ErrUnknown) {
		writeError(w, http.StatusNotFound, "Unknown calculator")
		return
	}
	if !view.OK() || view.Figure == nil {
		writeJSON(w, http.StatusUnprocessableEntity, view)
		return
	}

	t := chart.NewTransform(s.cfg.Chart.Width, s.cfg.Chart.Height, *view.Figure)
	o := chart.NewOverlay(t, *view.Figure)
	if req.Leave {
		writeJSON(w, http.StatusOK, o.Leave())
		return
	}
	writeJSON(w, http.StatusOK, o.Move(req.PX, req.PY))
}
