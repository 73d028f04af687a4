package detect

import (
	"context"
	"os"
	"strings"

	"github.com/CreativeUnicorns/themeprefs"
)

// DefaultEnvVar is consulted by Env when no name is given.
const DefaultEnvVar = "THEMEPREFS_COLOR_SCHEME"

// Env reads the colour scheme from an environment variable holding "dark"
// or "light" (or a boolean spelling). Unset or unrecognised values report
// no signal.
func Env(name string) themeprefs.Detector {
	if name == "" {
		name = DefaultEnvVar
	}
	return themeprefs.DetectorFunc(func(context.Context) (bool, bool) {
		v, ok := os.LookupEnv(name)
		if !ok {
			return false, false
		}
		return parse(strings.ToLower(strings.TrimSpace(v)))
	})
}
