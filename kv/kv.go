// Package kv provides durable key-value stores for the client-side state of
// the grid: the pending edits and the user preferences.
package kv

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by Get when the key was never set.
var ErrNotFound = errors.New("key not found")

// Store is a string key-value store. Implementations are safe for
// concurrent use.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Close() error
}

// MemoryPath opens a Memory store.
const MemoryPath = ":memory:"

// Open opens the store at path, choosing the backend from the file
// extension: ".sqlite", ".sqlite3" and ".db3" are SQLite databases, anything
// else is a bbolt file. MemoryPath or "" opens a Memory store.
func Open(path string) (Store, error) {
	if path == "" || path == MemoryPath {
		return NewMemory(), nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sqlite", ".sqlite3", ".db3":
		return OpenSQLite(path)
	default:
		return OpenBolt(path)
	}
}

func notFound(key string) error { return fmt.Errorf("%w: %q", ErrNotFound, key) }
