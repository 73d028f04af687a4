package api

import (
	"encoding/json"
	"net/http"

	"github.com/CreativeUnicorns/themeprefs"
)

// handleGetTheme returns the session's current theme state.
func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	s.respondWithJSON(w, r, http.StatusOK, themeprefs.FromContext(r.Context()).State())
}

// handleToggleTheme flips the session's theme and returns the new state.
func (s *Server) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	p := themeprefs.FromContext(r.Context())
	p.Toggle(r.Context())
	s.respondWithJSON(w, r, http.StatusOK, p.State())
}

// respondWithError is a helper to send JSON error responses.
func (s *Server) respondWithError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	detail := map[string]string{"message": message}
	if err != nil {
		detail["details"] = err.Error()
	}
	s.logger.Error("API Error", "status", status, "message", message, "path", r.URL.Path, "error", err)
	respondWithJSONRaw(w, status, map[string]any{"error": detail})
}

// respondWithJSON is a helper to send JSON responses.
func (s *Server) respondWithJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.respondWithError(w, r, http.StatusInternalServerError, "Failed to marshal response", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// respondWithJSONRaw is a lower-level helper for error payloads.
func respondWithJSONRaw(w http.ResponseWriter, status int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"Critical: Failed to marshal error response"}}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
