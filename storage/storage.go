// storage/storage.go
package storage

import (
	"context"
	"fmt"

	"github.com/CreativeUnicorns/themeprefs"
)

// Backend is a durable key/value store partitioned by scope. A scope is the
// owner of a preference: a browser session or a named CLI profile.
// Get returns themeprefs.ErrNotFound for keys that were never written.
type Backend interface {
	Get(ctx context.Context, scope, key string) (string, error)
	Set(ctx context.Context, scope, key, value string) error
	Delete(ctx context.Context, scope, key string) error
	Close() error
}

// scopedStore binds a Backend to one scope.
type scopedStore struct {
	backend Backend
	scope   string
}

// Scoped returns the themeprefs.Store a single controller uses.
func Scoped(b Backend, scope string) themeprefs.Store {
	return &scopedStore{backend: b, scope: scope}
}

func (s *scopedStore) Get(ctx context.Context, key string) (string, error) {
	return s.backend.Get(ctx, s.scope, key)
}

func (s *scopedStore) Set(ctx context.Context, key, value string) error {
	return s.backend.Set(ctx, s.scope, key, value)
}

func validateArgs(scope, key string) error {
	if scope == "" || key == "" {
		return fmt.Errorf("%w: scope and key are required", themeprefs.ErrInvalidInput)
	}
	return nil
}
