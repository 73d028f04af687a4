package storage

import (
	"context"
	"sync"

	"github.com/CreativeUnicorns/themeprefs"
)

// MemoryStorage implements Backend using an in-memory map.
// This is useful for testing or single-process deployments where preferences
// need not survive a restart.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]map[string]string // scope -> key -> value
	closed bool
}

// NewMemoryStorage creates a new instance of MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		values: make(map[string]map[string]string),
	}
}

// Get retrieves the value stored for scope and key.
func (s *MemoryStorage) Get(_ context.Context, scope, key string) (string, error) {
	if err := validateArgs(scope, key); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", themeprefs.ErrStorageUnavailable
	}
	v, ok := s.values[scope][key]
	if !ok {
		return "", themeprefs.ErrNotFound
	}
	return v, nil
}

// Set stores value under scope and key, replacing any previous value.
func (s *MemoryStorage) Set(_ context.Context, scope, key, value string) error {
	if err := validateArgs(scope, key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return themeprefs.ErrStorageUnavailable
	}
	if _, ok := s.values[scope]; !ok {
		s.values[scope] = make(map[string]string)
	}
	s.values[scope][key] = value
	return nil
}

// Delete removes the value stored for scope and key.
// It returns themeprefs.ErrNotFound if nothing was stored.
func (s *MemoryStorage) Delete(_ context.Context, scope, key string) error {
	if err := validateArgs(scope, key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return themeprefs.ErrStorageUnavailable
	}
	scoped, ok := s.values[scope]
	if !ok {
		return themeprefs.ErrNotFound
	}
	if _, ok := scoped[key]; !ok {
		return themeprefs.ErrNotFound
	}
	delete(scoped, key)
	// Drop empty scopes so abandoned sessions do not accumulate.
	if len(scoped) == 0 {
		delete(s.values, scope)
	}
	return nil
}

// Close marks the storage unavailable. It is idempotent.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
