// Package api provides the web pages and JSON API for mathcalc.
package api

import (
	"fmt"
	"html/template"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/mathcalc/internal/config"
	"github.com/ternarybob/mathcalc/internal/settings"
	"github.com/ternarybob/mathcalc/pkg/calculator"
	"github.com/ternarybob/mathcalc/pkg/chart"
	"github.com/ternarybob/mathcalc/web"
)

// Server represents the API server.
type Server struct {
	cfg      *config.Config
	logger   arbor.ILogger
	router   chi.Router
	settings *settings.Scoped
	loader   *chart.Loader
	mcp      http.Handler
	tmpl     *template.Template

	// hot-reloadable state
	opts atomic.Pointer[calculator.Options]
	dual atomic.Pointer[chart.Dual]
	rich atomic.Bool
}

// NewServer creates a new API server. loader and mcp may be nil: without a
// loader charts are always lite, without mcp the /mcp endpoint is absent.
func NewServer(cfg *config.Config, logger arbor.ILogger, store *settings.Scoped, loader *chart.Loader, mcp http.Handler) (*Server, error) {
	tmpl, err := web.ParseTemplates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		settings: store,
		loader:   loader,
		mcp:      mcp,
		tmpl:     tmpl,
	}
	s.apply(cfg)
	s.setupRouter()
	return s, nil
}

// apply installs the hot-reloadable parts of cfg.
func (s *Server) apply(cfg *config.Config) {
	opts := cfg.CalculatorOptions()
	s.opts.Store(&opts)

	d := chart.NewDual(s.loader, chart.NewLite(cfg.Chart.Width, cfg.Chart.Height), cfg.Chart.FallbackWait)
	if cfg.Chart.FetchTimeout > 0 {
		d.LoadTimeout = cfg.Chart.FetchTimeout
	}
	if cfg.Chart.RetryAfter > 0 {
		d.RetryAfter = cfg.Chart.RetryAfter
	}
	if old := s.dual.Load(); old != nil {
		d.Carry(old)
	}
	s.dual.Store(d)
	s.rich.Store(cfg.Chart.RichEnabled && s.loader != nil)
}

// Reload swaps in the calculator and chart settings of cfg. Listen address
// and API settings need a restart.
func (s *Server) Reload(cfg *config.Config) {
	s.apply(cfg)
	if s.logger != nil {
		s.logger.Info().
			Str("fallback_wait", cfg.Chart.FallbackWait.String()).
			Str("rich_enabled", fmt.Sprint(cfg.Chart.RichEnabled)).
			Msg("Configuration reloaded")
	}
}

func (s *Server) options() calculator.Options {
	return *s.opts.Load()
}

// setupRouter configures all routes.
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if s.cfg.Service.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.cfg.Service.RequestTimeout))
	}

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "Mcp-Session-Id", "HX-Request", "HX-Target", "HX-Trigger", "HX-Current-URL"},
		ExposedHeaders:   []string{"Link", "Mcp-Session-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health and version endpoints (no auth)
	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)

	// Web UI
	r.Get("/", s.handleWebRoot)
	r.Route("/web", func(r chi.Router) {
		r.Get("/", s.handleIndex)
		r.Get("/static/*", s.handleStatic)
		r.Get("/vendor/plotly.js", s.handleVendorLibrary)
		r.Post("/log/fit", s.handleLogFit)
		r.Post("/log/reset", s.handleLogReset)
		r.Get("/{calc}", s.handleCalculatorPage)
		r.Post("/{calc}/recalc", s.handleRecalc)
		r.Post("/{calc}/body", s.handleBody)
	})

	// JSON API and MCP, behind the optional API key
	r.Group(func(r chi.Router) {
		r.Use(s.apiKeyAuth)

		if s.cfg.API.Enabled {
			r.Route("/api", func(r chi.Router) {
				r.Get("/calculators", s.handleListCalculators)
				r.Post("/chart/readout", s.handleReadout)
				r.Get("/{calc}", s.handleEvaluate)
				r.Post("/{calc}", s.handleEvaluate)
				r.Get("/{calc}/plot.{format}", s.handlePlot)
			})
		}

		if s.mcp != nil && s.cfg.MCP.Enabled {
			r.Handle("/mcp", s.mcp)
		}
	})

	s.router = r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// apiKeyAuth is middleware that validates API key.
func (s *Server) apiKeyAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// No API key configured: open for localhost use
		if s.cfg.API.APIKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			apiKey = r.URL.Query().Get("api_key")
		}

		if apiKey != s.cfg.API.APIKey {
			writeError(w, http.StatusUnauthorized, "Invalid or missing API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}
