package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/memarch/internal/httpserver/deps"
	"github.com/MrSnakeDoc/memarch/internal/httpserver/handlers"
)

func init() { Register("events", registerEvents) }

func registerEvents(r chi.Router, d deps.Deps) {
	r.Get("/api/events", handlers.ListEvents(d))
	r.Post("/api/events", handlers.CreateEvent(d))
	r.Get("/api/events/{id}", handlers.GetEvent(d))
	r.Put("/api/events/{id}", handlers.UpdateEvent(d))
	r.Delete("/api/events/{id}", handlers.DeleteEvent(d))
	r.Post("/api/events/{id}/done", handlers.CompleteEvent(d))
}
