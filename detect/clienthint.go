package detect

import (
	"context"
	"net/http"
	"strings"

	"github.com/CreativeUnicorns/themeprefs"
)

// ColorSchemeHint is the client hint carrying the browser's
// prefers-color-scheme media feature.
const ColorSchemeHint = "Sec-CH-Prefers-Color-Scheme"

// ClientHint reads the colour scheme from the request's
// Sec-CH-Prefers-Color-Scheme header. Browsers only send it after the server
// has listed it in Accept-CH.
func ClientHint(r *http.Request) themeprefs.Detector {
	var value string
	if r != nil {
		value = r.Header.Get(ColorSchemeHint)
	}
	return themeprefs.DetectorFunc(func(context.Context) (bool, bool) {
		v := strings.ToLower(strings.Trim(strings.TrimSpace(value), `"`))
		if v != "dark" && v != "light" {
			return false, false
		}
		return v == "dark", true
	})
}
