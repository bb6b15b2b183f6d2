package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/memarch/internal/httpserver/deps"
	"github.com/MrSnakeDoc/memarch/internal/httpserver/handlers"
)

func init() { Register("settings", registerSettings) }

func registerSettings(r chi.Router, d deps.Deps) {
	r.Get("/api/settings", handlers.GetSettings(d))
	r.Put("/api/settings/notifications", handlers.PutNotifications(d))
	r.Put("/api/settings/reminder-time", handlers.PutReminderTime(d))
}
