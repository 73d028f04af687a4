// Package themeprefs resolves, persists and broadcasts a light/dark theme
// preference.
//
// A Controller reconciles a persisted choice with the host's colour-scheme
// signal once per session, applies the result to a visual root marker and
// flips it on request. Persistence is best-effort: storage backends
// (PostgreSQL, SQLite, in-memory) and caches (Redis, in-memory) can fail
// without ever interrupting the theme. Consumers receive the controller
// through a context.Context and fall back to the light theme when none is in
// scope.
package themeprefs
