package themeprefs

import (
	"slices"
	"strings"
	"sync"
)

// DarkClass is the marker class toggled on the visual root.
const DarkClass = "dark"

// Root is the class list of the top-level element. It is safe for
// concurrent use; the HTTP server renders it while controllers update it.
type Root struct {
	mu      sync.RWMutex
	classes []string
}

// NewRoot returns a Root carrying the given static classes.
func NewRoot(classes ...string) *Root {
	r := &Root{}
	for _, c := range classes {
		r.add(c)
	}
	return r
}

// SetDark adds or removes DarkClass.
func (r *Root) SetDark(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if on {
		r.add(DarkClass)
		return
	}
	r.classes = slices.DeleteFunc(r.classes, func(c string) bool { return c == DarkClass })
}

// Has reports whether class is present.
func (r *Root) Has(class string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Contains(r.classes, class)
}

// Classes renders the class attribute value.
func (r *Root) Classes() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return strings.Join(r.classes, " ")
}

// add must be called with mu held or before r is shared.
func (r *Root) add(class string) {
	class = strings.TrimSpace(class)
	if class == "" || slices.Contains(r.classes, class) {
		return
	}
	r.classes = append(r.classes, class)
}
