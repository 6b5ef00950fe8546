package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer, h.withTraceID, h.withLogging, withGZip)

	// control routes are never subject to fault injection
	router.Group(func(r chi.Router) {
		r.Post("/api/reset", h.reset)
		r.Post("/api/config", h.setConfig)
		r.Get("/api/version", h.getServerVersion)
	})

	router.Group(func(r chi.Router) {
		r.Use(h.chaos.middleware)
		r.Get("/api/health", h.health)
		r.Get("/api/board", h.getBoard)

		r.Group(func(r chi.Router) {
			r.Use(h.verifyBodyHash)

			r.Post("/api/lists", h.createEntity(kindList))
			r.Put("/api/lists/{id}", h.updateEntity(kindList))
			r.Post("/api/cards", h.createEntity(kindCard))
			r.Put("/api/cards/{id}", h.updateEntity(kindCard))
			r.Post("/api/reorder", h.reorder)
		})

		r.Delete("/api/lists/{id}", h.deleteEntity(kindList))
		r.Delete("/api/cards/{id}", h.deleteEntity(kindCard))
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
