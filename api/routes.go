package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(LoggerMiddleware(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(ClientHintMiddleware)

	s.router.Get("/api/v1/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	s.router.Group(func(r chi.Router) {
		r.Use(SessionMiddleware(s.registry, s.sealer, s.secure, s.logger))

		r.Get("/", s.handlePage)
		r.Post("/toggle", s.handlePageToggle)

		r.Route("/api/v1/theme", func(r chi.Router) {
			r.Use(middleware.SetHeader("Content-Type", "application/json"))
			r.Get("/", s.handleGetTheme)
			r.Post("/toggle", s.handleToggleTheme)
		})
	})
}
