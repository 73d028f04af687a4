package api

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/CreativeUnicorns/themeprefs"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type pageData struct {
	Classes string
	Theme   themeprefs.Preference
}

// handlePage renders the root document with the session's root classes.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	state := themeprefs.FromContext(r.Context()).State()
	data := pageData{Theme: state.Preference}
	if sess, ok := sessionFromContext(r.Context()); ok {
		data.Classes = sess.Root.Classes()
	} else if state.Preference.IsDark() {
		data.Classes = themeprefs.DarkClass
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		s.respondWithError(w, r, http.StatusInternalServerError, "Failed to render page", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// handlePageToggle serves the page's toggle form.
func (s *Server) handlePageToggle(w http.ResponseWriter, r *http.Request) {
	themeprefs.FromContext(r.Context()).Toggle(r.Context())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
