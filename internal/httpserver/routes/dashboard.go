package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/memarch/internal/httpserver/deps"
	"github.com/MrSnakeDoc/memarch/internal/httpserver/handlers"
)

func init() { Register("dashboard", registerDashboard) }

func registerDashboard(r chi.Router, d deps.Deps) {
	r.Get("/api/dashboard", handlers.Dashboard(d))
}
