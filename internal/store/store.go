// Package store holds the durable key/value backends that keep the session
// token and the last-known profile across restarts.
package store

import (
	"context"
	"fmt"
	"strings"
)

// Store is a durable string key/value store.
type Store interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes keys; missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open returns the backend named by kind rooted at path.
func Open(kind, path string) (Store, func() error, error) {
	noop := func() error { return nil }
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", BackendFile:
		return NewFile(path), noop, nil
	case BackendSQLite:
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	case BackendMemory:
		return NewMemory(), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown store backend: %s", kind)
	}
}
