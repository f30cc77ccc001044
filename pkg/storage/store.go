// Package storage is the small key/value persistence layer behind the
// suggestion history and the user settings.
//
// Two durable backends are provided: SQLite (the default, one file in the
// storage directory) and Badger (an embedded LSM store in a sub-directory).
// Writes are synchronous and last-write-wins.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Supported driver names.
const (
	DriverSQLite = "sqlite"
	DriverBadger = "badger"
)

// ErrNotFound is returned by Get when a key has never been written.
var ErrNotFound = errors.New("key not found")

// Store is a durable string-keyed byte store.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Clear() error
	Close() error
}

// Open creates (if needed) storageDir and opens the store for driver inside it.
func Open(driver, storageDir string) (Store, error) {
	if err := os.MkdirAll(storageDir, 0755); err != nil {
		return nil, fmt.Errorf("creating storage directory %s: %w", storageDir, err)
	}

	switch driver {
	case "", DriverSQLite:
		return NewSQLiteStore(filepath.Join(storageDir, "falcony.db"))
	case DriverBadger:
		return NewBadgerStore(filepath.Join(storageDir, "badger"), false)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

// LoadJSON decodes the value stored at key into v. It reports false without
// error when the key is missing.
func LoadJSON(s Store, key string, v any) (bool, error) {
	data, err := s.Get(key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decoding %s: %w", key, err)
	}
	return true, nil
}

// SaveJSON encodes v and stores it at key.
func SaveJSON(s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return s.Set(key, data)
}
