package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/face-counter/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	peopleHandler := handlers.NewPeopleHandler(s.store, s.log)
	statsHandler := handlers.NewStatsHandler(s.store, s.log)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handlers.HealthCheck)
		r.Get("/stats", statsHandler.Get)

		r.Route("/people", func(r chi.Router) {
			r.Get("/", peopleHandler.List)
			r.Get("/{personID}", peopleHandler.Get)
			r.Get("/{personID}/image", peopleHandler.Image)
			r.Delete("/{personID}", peopleHandler.Delete)
		})
	})
}
