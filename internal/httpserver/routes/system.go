package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/memarch/internal/httpserver/deps"
	"github.com/MrSnakeDoc/memarch/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/memarch/internal/httpserver/mw"
)

func init() { Register("system", registerSystem) }

func registerSystem(r chi.Router, d deps.Deps) {
	r.Get("/api/notices", handlers.Notices(d))
	r.Get("/api/reminders", handlers.Reminders(d))

	limited := r.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:             3,
		RefillPerIPPerMin: 3,
		MaxEntries:        1024,
		IdleTTL:           15 * time.Minute,
		TrustProxy:        d.TrustProxy,
		Logger:            d.Logger,
		Metrics:           d.Metrics,
	}))
	limited.Post("/api/reset", handlers.Reset(d))
	limited.Post("/api/reminders/dispatch", handlers.Dispatch(d))
}
