// Package detect provides sources for the host's colour-scheme preference.
//
// Every detector satisfies themeprefs.Detector and reports ok=false when its
// signal is unavailable, letting a Chain fall through to the next source.
package detect

import (
	"context"

	"github.com/CreativeUnicorns/themeprefs"
)

// Chain returns a detector that consults detectors in order and reports the
// first available signal.
func Chain(detectors ...themeprefs.Detector) themeprefs.Detector {
	return themeprefs.DetectorFunc(func(ctx context.Context) (bool, bool) {
		for _, d := range detectors {
			if d == nil {
				continue
			}
			if dark, ok := d.Detect(ctx); ok {
				return dark, true
			}
		}
		return false, false
	})
}

// Static always reports the given preference.
func Static(dark bool) themeprefs.Detector {
	return themeprefs.DetectorFunc(func(context.Context) (bool, bool) {
		return dark, true
	})
}

// None never reports a signal.
func None() themeprefs.Detector {
	return themeprefs.DetectorFunc(func(context.Context) (bool, bool) {
		return false, false
	})
}

// parse maps common spellings of a colour scheme to prefersDark.
func parse(v string) (dark bool, ok bool) {
	switch v {
	case "dark", "1", "true", "on", "yes":
		return true, true
	case "light", "0", "false", "off", "no":
		return false, true
	}
	return false, false
}
