// Package themeprefs defines the core types used by the theme controller.
package themeprefs

// Preference is the theme a user sees. Only PreferenceLight and
// PreferenceDark are valid values.
type Preference string

const (
	// PreferenceLight is the light theme and the default for every session.
	PreferenceLight Preference = "light"
	// PreferenceDark is the dark theme.
	PreferenceDark Preference = "dark"
)

// DefaultKey is the store key under which the preference is mirrored.
const DefaultKey = "theme"

// String returns the literal stored in the durable store.
func (p Preference) String() string {
	return string(p)
}

// IsDark reports whether p is the dark theme.
func (p Preference) IsDark() bool {
	return p == PreferenceDark
}

// Opposite returns the other theme. An invalid value flips to dark, matching
// a light-by-default reading of anything that is not dark.
func (p Preference) Opposite() Preference {
	if p == PreferenceDark {
		return PreferenceLight
	}
	return PreferenceDark
}

// State is the read-only view of a controller.
// JSON tags match the payload served by the HTTP API.
type State struct {
	// Preference is the active theme. It is always PreferenceLight until
	// Initialized is true.
	Preference Preference `json:"theme"`
	// Initialized becomes true once startup resolution has completed and
	// never reverts.
	Initialized bool `json:"initialized"`
}

// defaultState is what every consumer observes before resolution and what
// the fallback provider reports.
var defaultState = State{Preference: PreferenceLight}

// Config holds the internal configuration for a Controller instance.
// It is populated by applying functional Options when a Controller is created with New().
type Config struct {
	// store mirrors the preference. Optional; without it nothing is persisted.
	store Store
	// detector reports the host colour-scheme preference. Optional.
	detector Detector
	// marker is the visual root the preference is applied to. Optional.
	marker Marker
	// logger receives warnings about persistence failures.
	logger Logger
	// key is the store key, DefaultKey unless overridden.
	key string
}

// Option defines the signature for a functional option that configures a Controller.
type Option func(*Config)

// WithStore sets the durable store the preference is read from at startup
// and written to on every toggle.
func WithStore(s Store) Option {
	return func(c *Config) {
		c.store = s
	}
}

// WithDetector sets the environment colour-scheme signal consulted when the
// store holds no preference.
func WithDetector(d Detector) Option {
	return func(c *Config) {
		c.detector = d
	}
}

// WithMarker sets the visual root that receives the dark-mode marker.
func WithMarker(m Marker) Option {
	return func(c *Config) {
		c.marker = m
	}
}

// WithLogger sets the Logger implementation for the Controller.
// If not set, the default slog logger writing to os.Stderr is used.
func WithLogger(l Logger) Option {
	return func(c *Config) {
		c.logger = l
	}
}

// WithKey overrides the store key. Empty keys are ignored.
func WithKey(key string) Option {
	return func(c *Config) {
		if key != "" {
			c.key = key
		}
	}
}
