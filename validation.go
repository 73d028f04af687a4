// validation.go
package themeprefs

import (
	"fmt"
	"strings"
)

var validPreferences = map[Preference]bool{
	PreferenceLight: true,
	PreferenceDark:  true,
}

// IsValid reports whether p is one of the two known themes.
func (p Preference) IsValid() bool {
	return validPreferences[p]
}

// ParsePreference converts a stored or user supplied literal into a Preference.
// Surrounding whitespace and case are ignored; anything other than "light"
// or "dark" is rejected with ErrInvalidPreference.
func ParsePreference(s string) (Preference, error) {
	p := Preference(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return PreferenceLight, fmt.Errorf("%w: %q", ErrInvalidPreference, s)
	}
	return p, nil
}
