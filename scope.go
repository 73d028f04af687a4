package themeprefs

import "context"

type scopeKey struct{}

// WithController returns a copy of ctx carrying p as the theme provider for
// everything downstream.
func WithController(ctx context.Context, p Provider) context.Context {
	return context.WithValue(ctx, scopeKey{}, p)
}

// FromContext returns the provider injected with WithController. Without
// one it logs ErrMissingScope and returns a fallback that reports
// (light, false) and ignores toggles, so callers never have to handle a
// missing theme.
func FromContext(ctx context.Context) Provider {
	if ctx != nil {
		if p, ok := ctx.Value(scopeKey{}).(Provider); ok && p != nil {
			return p
		}
	}
	logger := DefaultLogger()
	logger.Warn("Theme requested outside a controller scope, using light theme", "error", ErrMissingScope)
	return fallbackProvider{logger: logger}
}

// fallbackProvider stands in for a missing controller.
type fallbackProvider struct {
	logger Logger
}

func (fallbackProvider) State() State {
	return defaultState
}

func (f fallbackProvider) Toggle(context.Context) {
	f.logger.Warn("Theme toggle not available outside a controller scope", "error", ErrMissingScope)
}
