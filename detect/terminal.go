package detect

import (
	"context"
	"io"

	"github.com/muesli/termenv"

	"github.com/CreativeUnicorns/themeprefs"
)

// Terminal asks the terminal behind w for its background colour. Outputs
// that are not colour-capable terminals report no signal.
func Terminal(w io.Writer) themeprefs.Detector {
	return themeprefs.DetectorFunc(func(context.Context) (bool, bool) {
		out := termenv.NewOutput(w)
		if out.Profile == termenv.Ascii {
			return false, false
		}
		return out.HasDarkBackground(), true
	})
}
