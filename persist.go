package themeprefs

import (
	"context"
	"errors"
	"fmt"
)

// PersistResult is the outcome of one interaction with the durable store.
// Failures are never returned to callers of the controller; they are kept
// here and logged so the best-effort policy stays observable.
type PersistResult struct {
	Op    PersistOp
	Key   string
	Value Preference
	// Err is nil on success, otherwise a *PersistenceError.
	Err error
}

// OK reports whether the store interaction succeeded.
func (r PersistResult) OK() bool {
	return r.Err == nil
}

// load reads the mirrored preference. found is false when the store is
// missing, empty, failing or holds something other than light or dark.
func (c *Controller) load(ctx context.Context) (pref Preference, found bool) {
	if c.config.store == nil {
		return PreferenceLight, false
	}

	res := PersistResult{Op: PersistRead, Key: c.config.key}
	raw, err := guard(func() (string, error) {
		return c.config.store.Get(ctx, c.config.key)
	})
	switch {
	case errors.Is(err, ErrNotFound):
		c.config.logger.Debug("No persisted theme preference", "key", c.config.key)
	case err != nil:
		res.Err = &PersistenceError{Op: PersistRead, Key: c.config.key, Err: err}
		c.config.logger.Warn("Failed to load theme preference", "key", c.config.key, "error", err)
	default:
		p, perr := ParsePreference(raw)
		if perr != nil {
			c.config.logger.Warn("Ignoring persisted theme preference", "key", c.config.key, "error", perr)
			break
		}
		res.Value = p
		pref, found = p, true
	}
	c.lastPersist.Store(&res)
	return pref, found
}

// save mirrors p to the store. Callers hold c.mu so writes land in the
// order the state changed.
func (c *Controller) save(ctx context.Context, p Preference) {
	if c.config.store == nil {
		return
	}

	res := PersistResult{Op: PersistWrite, Key: c.config.key, Value: p}
	_, err := guard(func() (string, error) {
		return "", c.config.store.Set(ctx, c.config.key, p.String())
	})
	if err != nil {
		res.Err = &PersistenceError{Op: PersistWrite, Key: c.config.key, Err: err}
		c.config.logger.Warn("Failed to save theme preference", "key", c.config.key, "theme", p, "error", err)
	}
	c.lastPersist.Store(&res)
}

// guard turns a panicking store call into an error.
func guard(fn func() (string, error)) (s string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrStorageUnavailable, r)
		}
	}()
	return fn()
}
