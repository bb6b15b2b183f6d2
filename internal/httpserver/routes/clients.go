package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/memarch/internal/httpserver/deps"
	"github.com/MrSnakeDoc/memarch/internal/httpserver/handlers"
)

func init() { Register("clients", registerClients) }

func registerClients(r chi.Router, d deps.Deps) {
	r.Get("/api/clients", handlers.ListClients(d))
	r.Post("/api/clients", handlers.CreateClient(d))
	r.Get("/api/clients/{id}", handlers.GetClient(d))
	r.Put("/api/clients/{id}", handlers.UpdateClient(d))
	r.Delete("/api/clients/{id}", handlers.DeleteClient(d))
}
