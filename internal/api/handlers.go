package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/ternarybob/mathcalc/pkg/calculator"
	"github.com/ternarybob/mathcalc/web"
)

// version is set via -ldflags at build time
var version = "dev"

// SetVersion sets the version string (called from main).
func SetVersion(v string) {
	version = v
}

// Version returns the version string.
func Version() string {
	return version
}

// Response types

// HealthResponse is the response for /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Library string `json:"chart_library"`
}

// VersionResponse is the response for /version.
type VersionResponse struct {
	Version string `json:"version"`
	Service string `json:"service"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CalculatorResponse describes a calculator in API responses.
type CalculatorResponse struct {
	Name    string              `json:"name"`
	Title   string              `json:"title"`
	Summary string              `json:"summary"`
	Plots   bool                `json:"plots"`
	Fields  []calculator.Field  `json:"fields"`
	Outputs []calculator.Output `json:"outputs"`
}

// Handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	lib := "disabled"
	switch {
	case s.loader == nil:
	case s.loader.Failed():
		lib = "unavailable"
	default:
		if l, ok := s.loader.Ready(); ok {
			lib = l.Source
		} else {
			lib = "pending"
		}
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Library: lib})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{
		Version: version,
		Service: "mathcalc",
	})
}

func (s *Server) handleListCalculators(w http.ResponseWriter, r *http.Request) {
	all := calculator.All()
	resp := make([]CalculatorResponse, 0, len(all))
	for _, c := range all {
		resp = append(resp, CalculatorResponse{
			Name:    c.Name,
			Title:   c.Title,
			Summary: c.Summary,
			Plots:   c.Plots,
			Fields:  c.Fields,
			Outputs: c.Outputs,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWebRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/web/", http.StatusFound)
}

func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := web.Asset(strings.TrimPrefix(r.URL.Path, "/web/static/"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// handleVendorLibrary serves the acquired charting library. It is absent
// until a source has been loaded.
func (s *Server) handleVendorLibrary(w http.ResponseWriter, r *http.Request) {
	if s.loader == nil {
		http.NotFound(w, r)
		return
	}
	lib, ok := s.loader.Ready()
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/javascript")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("X-Library-Source", lib.Source)
	w.Header().Set("Content-Length", strconv.Itoa(len(lib.Script)))
	w.Write(lib.Script)
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
