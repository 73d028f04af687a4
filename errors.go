// errors.go
package themeprefs

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput       = errors.New("invalid input parameters")
	ErrInvalidPreference  = errors.New("invalid theme preference")
	ErrNotFound           = errors.New("preference not found")
	ErrPersistence        = errors.New("theme preference persistence failed")
	ErrMissingScope       = errors.New("theme controller not in scope")
	ErrStorageUnavailable = errors.New("storage backend unavailable")
	ErrCacheUnavailable   = errors.New("cache backend unavailable")
)

// PersistOp names the store interaction that failed.
type PersistOp string

const (
	PersistRead  PersistOp = "read"
	PersistWrite PersistOp = "write"
)

// PersistenceError describes a failed read or write against the durable store.
// It matches both ErrPersistence and the underlying cause with errors.Is.
type PersistenceError struct {
	Op  PersistOp
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("theme preference %s of %q failed: %v", e.Op, e.Key, e.Err)
}

// Unwrap exposes the sentinel and the cause.
func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}
