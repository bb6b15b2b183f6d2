package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/memarch/internal/httpserver/deps"
	"github.com/MrSnakeDoc/memarch/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/memarch/internal/httpserver/mw"
)

func init() { Register("health", registerHealth) }

func registerHealth(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))

	internal := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger, d.Metrics))
	internal.Get("/readyz", handlers.Readyz(d))
	internal.Method(http.MethodGet, "/metrics", handlers.Metrics(d))
}
