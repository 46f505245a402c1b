package settings

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/mathcalc/pkg/calculator"
)

// ClientCookie names the cookie that identifies a browser.
const ClientCookie = "mathcalc_client"

// Scoped wraps a Store so that no failure reaches the page. Errors are
// logged at warn level and reads fall back to defaults. A nil store
// behaves as an unavailable one.
type Scoped struct {
	store  Store
	logger arbor.ILogger
}

// NewScoped wraps store. logger may be nil.
func NewScoped(store Store, logger arbor.ILogger) *Scoped {
	return &Scoped{store: store, logger: logger}
}

func (s *Scoped) warn(err error, op, client, page string) {
	if s.logger == nil {
		return
	}
	s.logger.Warn().Err(err).Str("op", op).Str("client", client).Str("page", page).Msg("Settings store unavailable")
}

// Load returns the stored record, or nil.
func (s *Scoped) Load(ctx context.Context, client, page string) Record {
	if s == nil || s.store == nil || client == "" {
		return nil
	}
	rec, err := s.store.Get(ctx, client, page)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.warn(err, "get", client, page)
		}
		return nil
	}
	return rec
}

// Save writes rec, ignoring failures.
func (s *Scoped) Save(ctx context.Context, client, page string, rec Record) {
	if s == nil || s.store == nil || client == "" {
		return
	}
	if err := s.store.Put(ctx, client, page, rec); err != nil {
		s.warn(err, "put", client, page)
	}
}

// LoadLog restores the logarithm page over its defaults.
func (s *Scoped) LoadLog(ctx context.Context, client string) calculator.LogInput {
	def := LogSettingsOf(calculator.DefaultLogInput())
	return ApplyRecord(def, s.Load(ctx, client, LogPage)).Input()
}

// SaveLog persists the logarithm page.
func (s *Scoped) SaveLog(ctx context.Context, client string, in calculator.LogInput) {
	s.Save(ctx, client, LogPage, LogSettingsOf(in).Record())
}

// ClientID returns the client id carried by r, issuing a new cookie on w
// when r has none.
func ClientID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(ClientCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     ClientCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
