package chart

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/sync/singleflight"
)

// NoSourceNotice is shown when every library source failed.
const NoSourceNotice = "Could not load Plotly from any CDN. Use a local server or check network settings."

// DefaultSources are the library URLs tried in order.
var DefaultSources = []string{
	"https://cdn.plot.ly/plotly-latest.min.js",
	"https://cdn.jsdelivr.net/npm/plotly.js-dist-min@2.35.2/plotly.min.js",
	"https://unpkg.com/plotly.js-dist-min@2.35.2/plotly.min.js",
}

var (
	// ErrNoSource is returned when no provider produced the library.
	ErrNoSource = errors.New("chart: no library source available")
	// ErrCapability is returned when a source loaded but does not expose
	// the drawing entry point.
	ErrCapability = errors.New("chart: library does not expose newPlot")
)

// capability is the entry point a usable library must define.
var capability = []byte("newPlot")

// Library is an acquired copy of the charting library.
type Library struct {
	Source string
	Script []byte
}

// Provider acquires the charting library from one source.
type Provider interface {
	Name() string
	Acquire(ctx context.Context) (*Library, error)
}

// RemoteLibrary downloads the library script over HTTP.
type RemoteLibrary struct {
	URL    string
	Client *http.Client
	// MaxBytes bounds the download; zero means 16 MiB.
	MaxBytes int64
}

// NewRemoteLibrary returns a provider for url with the given timeout.
func NewRemoteLibrary(url string, timeout time.Duration) *RemoteLibrary {
	return &RemoteLibrary{URL: url, Client: &http.Client{Timeout: timeout}}
}

func (r *RemoteLibrary) Name() string { return r.URL }

func (r *RemoteLibrary) Acquire(ctx context.Context) (*Library, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", r.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", r.URL, resp.StatusCode)
	}

	limit := r.MaxBytes
	if limit <= 0 {
		limit = 16 << 20
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.URL, err)
	}
	if !bytes.Contains(body, capability) {
		return nil, fmt.Errorf("%s: %w", r.URL, ErrCapability)
	}
	return &Library{Source: r.URL, Script: body}, nil
}

// Loader tries providers in order until one yields the library. Concurrent
// attempts on the same source share one in-flight acquisition. The first
// success is cached for the life of the Loader.
type Loader struct {
	providers []Provider
	logger    arbor.ILogger
	group     singleflight.Group

	mu     sync.RWMutex
	lib    *Library
	failed bool
}

// NewLoader builds a loader over providers. logger may be nil.
func NewLoader(logger arbor.ILogger, providers ...Provider) *Loader {
	return &Loader{providers: providers, logger: logger}
}

// NewRemoteLoader builds a loader over RemoteLibrary providers for urls.
func NewRemoteLoader(logger arbor.ILogger, urls []string, timeout time.Duration) *Loader {
	ps := make([]Provider, 0, len(urls))
	for _, u := range urls {
		ps = append(ps, NewRemoteLibrary(u, timeout))
	}
	return NewLoader(logger, ps...)
}

// Ready returns the cached library, if any.
func (l *Loader) Ready() (*Library, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lib, l.lib != nil
}

// Failed reports whether the last full attempt exhausted every source.
func (l *Loader) Failed() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.failed && l.lib == nil
}

// Notice returns the user-visible message after a total failure, else "".
func (l *Loader) Notice() string {
	if l.Failed() {
		return NoSourceNotice
	}
	return ""
}

// Load returns the library, acquiring it if needed.
func (l *Loader) Load(ctx context.Context) (*Library, error) {
	if lib, ok := l.Ready(); ok {
		return lib, nil
	}

	var errs []error
	for _, p := range l.providers {
		v, err, shared := l.group.Do(p.Name(), func() (any, error) {
			return p.Acquire(ctx)
		})
		if err != nil {
			if l.logger != nil {
				l.logger.Debug().Str("source", p.Name()).Err(err).Msg("Chart library source failed")
			}
			errs = append(errs, err)
			continue
		}
		lib := v.(*Library)

		l.mu.Lock()
		if l.lib == nil {
			l.lib = lib
		}
		l.failed = false
		lib = l.lib
		l.mu.Unlock()

		if l.logger != nil && !shared {
			l.logger.Info().Str("source", lib.Source).Msg("Chart library loaded")
		}
		return lib, nil
	}

	l.mu.Lock()
	l.failed = true
	l.mu.Unlock()
	if len(errs) == 0 {
		return nil, ErrNoSource
	}
	joined := errors.Join(errs...)
	if l.logger != nil {
		l.logger.Warn().Err(joined).Msg("Chart library unavailable from every source")
	}
	return nil, fmt.Errorf("%w: %w", ErrNoSource, joined)
}
