package chart

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"
)

// Default timings of the dual strategy.
const (
	DefaultFallbackWait = 500 * time.Millisecond
	DefaultLoadTimeout  = 30 * time.Second
	DefaultRetryAfter   = time.Minute
)

// RenderState reports how a chart was painted.
type RenderState struct {
	Strategy Strategy `json:"strategy"`
	// Transform is set for lite renders so overlays can invert it.
	Transform *Transform `json:"transform,omitempty"`
	// Notice is the user-visible library failure message, if any.
	Notice string `json:"notice,omitempty"`
}

// Dual paints with the rich renderer when the library is available within
// Wait, and with the lite renderer otherwise. A library that arrives after
// the wait is only used by later draws.
type Dual struct {
	Loader      *Loader
	Lite        *Lite
	Wait        time.Duration
	LoadTimeout time.Duration
	RetryAfter  time.Duration
	Height      int

	mu       sync.Mutex
	pending  chan struct{}
	failedAt time.Time
	now      func() time.Time
}

// NewDual builds a dual renderer.
func NewDual(loader *Loader, lite *Lite, wait time.Duration) *Dual {
	if wait <= 0 {
		wait = DefaultFallbackWait
	}
	return &Dual{
		Loader:      loader,
		Lite:        lite,
		Wait:        wait,
		LoadTimeout: DefaultLoadTimeout,
		RetryAfter:  DefaultRetryAfter,
		now:         time.Now,
	}
}

// Carry adopts the failure time of a renderer d replaces, so a reload does
// not cut the retry window short. Loads still pending in old stay there.
func (d *Dual) Carry(old *Dual) {
	old.mu.Lock()
	failedAt := old.failedAt
	old.mu.Unlock()

	d.mu.Lock()
	d.failedAt = failedAt
	d.mu.Unlock()
}

func (d *Dual) clock() time.Time {
	if d.now != nil {
		return d.now()
	}
	return time.Now()
}

// acquire returns a channel closed when the current load finishes, starting
// one if none is pending. It returns nil while a recent total failure is
// within RetryAfter.
func (d *Dual) acquire() <-chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending != nil {
		return d.pending
	}
	if d.Loader.Failed() && d.clock().Sub(d.failedAt) < d.RetryAfter {
		return nil
	}

	done := make(chan struct{})
	d.pending = done
	timeout := d.LoadTimeout
	if timeout <= 0 {
		timeout = DefaultLoadTimeout
	}
	go func() {
		// detached from the request: a late library still serves later draws
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_, err := d.Loader.Load(ctx)

		d.mu.Lock()
		if err != nil {
			d.failedAt = d.clock()
		}
		d.pending = nil
		d.mu.Unlock()
		close(done)
	}()
	return done
}

// Draw paints fig to w.
func (d *Dual) Draw(ctx context.Context, w io.Writer, fig Figure, preferRich bool) (RenderState, error) {
	if preferRich && d.Loader != nil {
		if lib, ok := d.Loader.Ready(); ok {
			return d.rich(w, fig, lib)
		}
		if done := d.acquire(); done != nil {
			timer := time.NewTimer(d.Wait)
			defer timer.Stop()
			select {
			case <-done:
				if lib, ok := d.Loader.Ready(); ok {
					return d.rich(w, fig, lib)
				}
			case <-timer.C:
			case <-ctx.Done():
			}
		}
	}
	return d.lite(w, fig, preferRich)
}

func (d *Dual) rich(w io.Writer, fig Figure, lib *Library) (RenderState, error) {
	var buf bytes.Buffer
	if err := NewPlotly(lib, d.Height).Render(&buf, fig); err != nil {
		return d.lite(w, fig, true)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return RenderState{}, err
	}
	return RenderState{Strategy: StrategyRich}, nil
}

func (d *Dual) lite(w io.Writer, fig Figure, preferRich bool) (RenderState, error) {
	lite := d.Lite
	if lite == nil {
		lite = NewLite(DefaultWidth, DefaultHeight)
	}
	t := lite.Transform(fig)
	if err := lite.Render(w, fig); err != nil {
		return RenderState{}, err
	}
	state := RenderState{Strategy: StrategyLite, Transform: &t}
	if preferRich && d.Loader != nil {
		state.Notice = d.Loader.Notice()
	}
	return state, nil
}
