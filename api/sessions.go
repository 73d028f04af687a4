package api

import (
	"context"
	"sync"
	"time"

	"github.com/CreativeUnicorns/themeprefs"
	"github.com/CreativeUnicorns/themeprefs/detect"
	"github.com/CreativeUnicorns/themeprefs/storage"
)

// baseClasses are always present on a session's root element.
var baseClasses = []string{"antialiased"}

// Session is one browser's theme scope.
type Session struct {
	ID         string
	Controller *themeprefs.Controller
	Root       *themeprefs.Root

	lastSeen time.Time
}

// Registry keeps a controller per live session and evicts idle ones.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session

	backend  storage.Backend
	fallback themeprefs.Detector
	ttl      time.Duration
	logger   themeprefs.Logger
	now      func() time.Time

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewRegistry starts a registry whose janitor evicts sessions idle for
// longer than ttl. Call Close to stop it.
func NewRegistry(backend storage.Backend, fallback themeprefs.Detector, ttl time.Duration, logger themeprefs.Logger) *Registry {
	r := &Registry{
		sessions: make(map[string]*Session),
		backend:  backend,
		fallback: fallback,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go r.janitor(janitorInterval(ttl))
	return r
}

func janitorInterval(ttl time.Duration) time.Duration {
	interval := ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	return interval
}

// Session returns the session for id, creating and resolving its controller
// on first use. hint is the colour-scheme signal of the creating request.
func (r *Registry) Session(ctx context.Context, id string, hint themeprefs.Detector) *Session {
	r.mu.Lock()
	sess, ok := r.sessions[id]
	if !ok {
		root := themeprefs.NewRoot(baseClasses...)
		sess = &Session{
			ID:   id,
			Root: root,
			Controller: themeprefs.New(
				themeprefs.WithStore(storage.Scoped(r.backend, id)),
				themeprefs.WithDetector(detect.Chain(hint, r.fallback)),
				themeprefs.WithMarker(root),
				themeprefs.WithLogger(r.logger),
			),
		}
		r.sessions[id] = sess
		r.logger.Debug("Session created", "session", id)
	}
	sess.lastSeen = r.now()
	r.mu.Unlock()

	// Concurrent first requests wait for the same resolution.
	sess.Controller.Resolve(context.WithoutCancel(ctx))
	return sess
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Close stops the janitor and forgets every session. Persisted preferences
// are kept.
func (r *Registry) Close() {
	r.closeOnce.Do(func() {
		close(r.stop)
		<-r.done
		r.mu.Lock()
		r.sessions = make(map[string]*Session)
		r.mu.Unlock()
	})
}

func (r *Registry) janitor(interval time.Duration) {
	defer close(r.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.evictIdle()
		case <-r.stop:
			return
		}
	}
}

func (r *Registry) evictIdle() {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()
	for id, sess := range r.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			r.logger.Debug("Session evicted", "session", id)
		}
	}
}
