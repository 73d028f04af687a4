// Package themeprefs defines interfaces for persistence, caching, environment
// detection and the visual root used by the theme controller.
package themeprefs

import (
	"context"
	"time"
)

// Store is the durable key/value mirror of the preference, already bound to
// a single scope. Get returns ErrNotFound when the key has never been written.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Cache defines the methods required for a caching backend.
// Get returns ErrNotFound on a miss or an expired entry.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Detector reports the host environment's colour-scheme preference.
// ok is false when the signal is unavailable.
type Detector interface {
	Detect(ctx context.Context) (prefersDark bool, ok bool)
}

// DetectorFunc adapts a function to the Detector interface.
type DetectorFunc func(ctx context.Context) (bool, bool)

// Detect calls f(ctx).
func (f DetectorFunc) Detect(ctx context.Context) (bool, bool) {
	return f(ctx)
}

// Marker is the top-level visual element whose dark-mode marker drives
// themed styling.
type Marker interface {
	SetDark(on bool)
}

// Provider is the capability handed to consumers: a read-only state and a
// toggle request. Both *Controller and the missing-scope fallback satisfy it.
type Provider interface {
	State() State
	Toggle(ctx context.Context)
}
