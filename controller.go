// controller.go
package themeprefs

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// Controller owns one session's theme preference. It resolves the initial
// value once, applies it to the visual root and flips it on request.
//
// State never blocks. Until resolution completes it reports (light, false)
// and Toggle does nothing.
type Controller struct {
	// mu serializes state commits, marker updates and store writes.
	mu          sync.Mutex
	state       atomic.Pointer[State]
	lastPersist atomic.Pointer[PersistResult]
	once        sync.Once
	ready       chan struct{}
	config      *Config
}

// New initializes a new Controller with the provided options.
func New(opts ...Option) *Controller {
	cfg := &Config{
		key: DefaultKey,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = DefaultLogger()
	}

	c := &Controller{
		config: cfg,
		ready:  make(chan struct{}),
	}
	initial := defaultState
	c.state.Store(&initial)
	return c
}

// State returns the current (preference, initialized) pair.
func (c *Controller) State() State {
	return *c.state.Load()
}

// Ready is closed once startup resolution has completed.
func (c *Controller) Ready() <-chan struct{} {
	return c.ready
}

// LastPersist returns the most recent store interaction, if any happened.
func (c *Controller) LastPersist() (PersistResult, bool) {
	res := c.lastPersist.Load()
	if res == nil {
		return PersistResult{}, false
	}
	return *res, true
}

// Start runs Resolve on its own goroutine and returns immediately.
func (c *Controller) Start(ctx context.Context) {
	go c.Resolve(ctx)
}

// Resolve determines the session's initial preference: the persisted value
// if there is a valid one, otherwise the detector's signal, otherwise light.
// It runs at most once per Controller and never fails; every problem is
// logged and resolution falls back to light.
func (c *Controller) Resolve(ctx context.Context) {
	c.once.Do(func() {
		defer close(c.ready)

		pref, fromStore := c.resolve(ctx)

		c.mu.Lock()
		defer c.mu.Unlock()

		if err := c.apply(pref); err != nil {
			c.config.logger.Warn("Failed to apply theme, falling back to light", "theme", pref, "error", err)
			pref, fromStore = PreferenceLight, false
			_ = c.apply(pref)
		}
		c.state.Store(&State{Preference: pref, Initialized: true})
		c.config.logger.Debug("Theme resolved", "theme", pref, "persisted", fromStore)

		if !fromStore {
			c.save(ctx, pref)
		}
	})
}

func (c *Controller) resolve(ctx context.Context) (pref Preference, fromStore bool) {
	defer func() {
		if r := recover(); r != nil {
			c.config.logger.Warn("Theme resolution failed, falling back to light", "error", fmt.Sprint(r))
			pref, fromStore = PreferenceLight, false
		}
	}()

	if p, ok := c.load(ctx); ok {
		return p, true
	}
	if c.config.detector != nil {
		if dark, ok := c.config.detector.Detect(ctx); ok {
			if dark {
				return PreferenceDark, false
			}
			return PreferenceLight, false
		}
	}
	return PreferenceLight, false
}

// Toggle flips light and dark, re-applies the visual marker and mirrors the
// new value to the store. Before resolution it is a no-op. Store failures
// are logged and do not undo the change.
func (c *Controller) Toggle(ctx context.Context) {
	if !c.State().Initialized {
		c.config.logger.Debug("Ignoring theme toggle before resolution")
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.state.Load().Preference.Opposite()
	if err := c.apply(next); err != nil {
		c.config.logger.Warn("Failed to apply theme", "theme", next, "error", err)
	}
	c.state.Store(&State{Preference: next, Initialized: true})
	c.config.logger.Debug("Theme toggled", "theme", next)

	c.save(ctx, next)
}

// apply sets the marker, converting a panic into an error.
func (c *Controller) apply(p Preference) (err error) {
	if c.config.marker == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("marker: %v", r)
		}
	}()
	c.config.marker.SetDark(p.IsDark())
	return nil
}
