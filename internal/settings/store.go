// Package settings persists primitive page fields per browser client.
//
// Reads and writes go through Scoped, which never fails: an unavailable or
// corrupt store leaves the page on its defaults.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when no record exists for a client and page.
var ErrNotFound = errors.New("settings: record not found")

// Backends.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Record is a flat string-keyed record of primitives (string, bool,
// float64).
type Record map[string]any

// Store reads and writes one record per client and page.
type Store interface {
	Get(ctx context.Context, client, page string) (Record, error)
	Put(ctx context.Context, client, page string, rec Record) error
	Close() error
}

// Open returns the store for backend. path is used by the SQLite backend.
func Open(backend, path string) (Store, error) {
	switch strings.ToLower(backend) {
	case "", BackendSQLite:
		return NewSQLite(path)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown settings backend: %s", backend)
	}
}
