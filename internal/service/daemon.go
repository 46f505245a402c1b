// Package service provides the core service lifecycle management.
package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/mathcalc/internal/api"
	"github.com/ternarybob/mathcalc/internal/config"
	"github.com/ternarybob/mathcalc/internal/fileutil"
	"github.com/ternarybob/mathcalc/internal/mcp"
	"github.com/ternarybob/mathcalc/internal/settings"
	"github.com/ternarybob/mathcalc/pkg/calculator"
	"github.com/ternarybob/mathcalc/pkg/chart"
)

// Daemon manages the service lifecycle.
type Daemon struct {
	cfg     *config.Config
	cfgPath string
	logger  arbor.ILogger

	server   *http.Server
	listener net.Listener
	api      *api.Server
	store    settings.Store
	loader   *chart.Loader
	watcher  *config.Watcher
	cancel   context.CancelFunc
	pidPath  string

	stopCh    chan struct{}
	stoppedCh chan struct{}
	errCh     chan error
	mu        sync.Mutex
	running   bool
}

// NewDaemon creates a new daemon instance. cfgPath is watched for changes
// when it names an existing file.
func NewDaemon(cfg *config.Config, cfgPath string, logger arbor.ILogger) *Daemon {
	return &Daemon{
		cfg:       cfg,
		cfgPath:   cfgPath,
		logger:    logger,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
		errCh:     make(chan error, 1),
	}
}

// options returns the calculator options of the running configuration.
func (d *Daemon) options() calculator.Options {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg.CalculatorOptions()
}

// openStore opens the settings backend. A failure is logged and the pages
// run without persistence.
func (d *Daemon) openStore() settings.Store {
	store, err := settings.Open(d.cfg.Settings.Backend, d.cfg.SettingsPath())
	if err != nil {
		d.logger.Warn().Err(err).
			Str("backend", d.cfg.Settings.Backend).
			Str("path", d.cfg.SettingsPath()).
			Msg("Settings store unavailable - page settings will not persist")
		return nil
	}
	return store
}

// Start builds the components and starts serving.
func (d *Daemon) Start() error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return fmt.Errorf("daemon already running")
	}
	d.running = true
	d.mu.Unlock()

	// Ensure directories exist
	if err := d.cfg.EnsureDirectories(); err != nil {
		d.abort()
		return fmt.Errorf("ensure directories: %w", err)
	}

	// Write PID file
	d.pidPath = d.cfg.PIDPath()
	if err := d.writePID(); err != nil {
		d.abort()
		return fmt.Errorf("write PID: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel

	d.store = d.openStore()

	// Prefetch the charting library so the first rich draw does not wait
	if d.cfg.Chart.RichEnabled {
		d.loader = chart.NewRemoteLoader(d.logger, d.cfg.Chart.Sources, d.cfg.Chart.FetchTimeout)
		go func() {
			if _, err := d.loader.Load(ctx); err != nil && ctx.Err() == nil {
				d.logger.Warn().Err(err).Msg("Charting library prefetch failed - using lite charts")
			}
		}()
	}

	var mcpHandler http.Handler
	if d.cfg.MCP.Enabled {
		mcpHandler = mcp.NewHandler(d.logger, api.Version(), d.options, d.cfg.Chart.Width, d.cfg.Chart.Height).HTTPHandler()
	}

	srv, err := api.NewServer(d.cfg, d.logger, settings.NewScoped(d.store, d.logger), d.loader, mcpHandler)
	if err != nil {
		d.abort()
		return fmt.Errorf("create API server: %w", err)
	}
	d.api = srv

	if err := d.startWatcher(); err != nil {
		d.logger.Warn().Err(err).Str("path", d.cfgPath).Msg("Config watcher unavailable - reload requires restart")
	}

	ln, err := net.Listen("tcp", d.cfg.Address())
	if err != nil {
		d.abort()
		return fmt.Errorf("listen on %s: %w", d.cfg.Address(), err)
	}
	d.listener = ln

	d.server = &http.Server{
		Handler:      srv.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		d.logger.Info().Str("address", ln.Addr().String()).Msg("Starting server")
		if err := d.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			d.logger.Error().Err(err).Msg("Server error")
			d.errCh <- err
		}
	}()

	return nil
}

func (d *Daemon) startWatcher() error {
	if d.cfgPath == "" || !fileutil.IsFile(d.cfgPath) {
		return nil
	}
	w, err := config.NewWatcher(d.cfgPath, config.DefaultDebounce, d.reload)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	d.watcher = w
	return nil
}

// reload applies a changed configuration file. Invalid files keep the
// running configuration.
func (d *Daemon) reload(cfg *config.Config, err error) {
	if err != nil {
		d.logger.Warn().Err(err).Str("path", d.cfgPath).Msg("Config reload failed - keeping current configuration")
		return
	}

	d.mu.Lock()
	old := d.cfg
	d.cfg = cfg
	d.mu.Unlock()

	if old.Address() != cfg.Address() {
		d.logger.Warn().
			Str("current", old.Address()).
			Str("configured", cfg.Address()).
			Msg("Listen address changed - restart required")
	}
	if d.api != nil {
		d.api.Reload(cfg)
	}
}

// Addr returns the listening address once started.
func (d *Daemon) Addr() string {
	if d.listener == nil {
		return ""
	}
	return d.listener.Addr().String()
}

// Wait waits for the daemon to stop, handling signals.
func (d *Daemon) Wait() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		d.logger.Info().Str("signal", sig.String()).Msg("Received signal, shutting down")
	case <-d.stopCh:
		d.logger.Info().Msg("Stop requested, shutting down")
	case err := <-d.errCh:
		d.logger.Error().Err(err).Msg("Server failed, shutting down")
	}

	d.shutdown()
}

// Stop signals the daemon to stop and waits until it has.
func (d *Daemon) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	select {
	case <-d.stopCh:
	default:
		close(d.stopCh)
	}
	d.mu.Unlock()

	<-d.stoppedCh
}

// shutdown performs graceful shutdown.
func (d *Daemon) shutdown() {
	d.mu.Lock()
	running := d.running
	d.mu.Unlock()
	if !running {
		return
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if d.server != nil {
		if err := d.server.Shutdown(ctx); err != nil {
			d.logger.Warn().Err(err).Msg("Server shutdown error")
		}
	}
	d.cleanup()

	d.mu.Lock()
	d.running = false
	d.mu.Unlock()
	close(d.stoppedCh)
}

// abort undoes a failed Start.
func (d *Daemon) abort() {
	d.cleanup()
	d.mu.Lock()
	d.running = false
	d.mu.Unlock()
}

// cleanup releases everything Start acquired apart from the HTTP server.
func (d *Daemon) cleanup() {
	if d.watcher != nil {
		_ = d.watcher.Stop()
	}
	if d.cancel != nil {
		d.cancel()
	}
	if d.store != nil {
		if err := d.store.Close(); err != nil {
			d.logger.Warn().Err(err).Msg("Settings store close error")
		}
	}
	d.removePID()
}

// writePID writes the current process PID to a file.
func (d *Daemon) writePID() error {
	return fileutil.WriteFile(d.pidPath, []byte(strconv.Itoa(os.Getpid())))
}

// removePID removes the PID file.
func (d *Daemon) removePID() {
	if d.pidPath != "" {
		_ = os.Remove(d.pidPath)
	}
}

// IsRunning checks if a daemon is already running.
func IsRunning(cfg *config.Config) (bool, int) {
	pidPath := cfg.PIDPath()

	data, err := os.ReadFile(pidPath)
	if err != nil {
		return false, 0
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return false, 0
	}

	// Check if process exists by sending signal 0
	process, err := os.FindProcess(pid)
	if err != nil {
		return false, 0
	}

	err = process.Signal(syscall.Signal(0))
	if err != nil {
		// Process doesn't exist, clean up stale PID file
		_ = os.Remove(pidPath)
		return false, 0
	}

	return true, pid
}

// StopRunning stops a running daemon.
func StopRunning(cfg *config.Config) error {
	running, pid := IsRunning(cfg)
	if !running {
		return fmt.Errorf("daemon not running")
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find process: %w", err)
	}

	// Send SIGTERM
	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("send signal: %w", err)
	}

	// Wait for process to exit
	for i := 0; i < 30; i++ {
		time.Sleep(100 * time.Millisecond)
		if running, _ := IsRunning(cfg); !running {
			return nil
		}
	}

	// Force kill if still running
	if err := process.Kill(); err != nil {
		return fmt.Errorf("kill process: %w", err)
	}

	// Clean up PID file
	_ = os.Remove(cfg.PIDPath())

	return nil
}
