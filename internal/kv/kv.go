// Package kv provides the local key-value byte stores the tracker persists into.
//
// Three drivers are available:
//
//	file    one file per key under a directory (default)
//	sqlite  a single kv table in <dir>/streak.db (pure Go driver)
//	memory  process-local map, used by tests and --storage memory
package kv

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Driver identifies a concrete store implementation.
type Driver string

const (
	DriverFile   Driver = "file"
	DriverSQLite Driver = "sqlite"
	DriverMemory Driver = "memory"
)

// SQLiteFileName is the database file created by the sqlite driver.
const SQLiteFileName = "streak.db"

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("kv: key not found")

// Store is a minimal synchronous key-value byte store.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Keys() ([]string, error)
	Close() error
	Driver() Driver
}

// Open selects a Store implementation by driver name. dir is the storage
// directory for the file and sqlite drivers and is ignored by memory.
func Open(driver, dir string) (Store, error) {
	if driver == "" {
		driver = string(DriverFile)
	}
	switch Driver(driver) {
	case DriverFile:
		return NewFile(dir)
	case DriverSQLite:
		return NewSQLite(filepath.Join(dir, SQLiteFileName))
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
