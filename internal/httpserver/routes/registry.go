package routes

import (
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/memarch/internal/httpserver/deps"
	"github.com/MrSnakeDoc/memarch/internal/logger"
)

type (
	// Registrar mounts one API area (clients, events, settings...) on r.
	Registrar  func(r chi.Router, d deps.Deps)
	Middleware = func(http.Handler) http.Handler
)

type entry struct {
	area string
	reg  Registrar
	mws  []Middleware
}

var registry []entry

// Register adds an API area, applied in init order, with optional middlewares
// wrapping every route of the area.
func Register(area string, reg Registrar, mws ...Middleware) {
	registry = append(registry, entry{area: area, reg: reg, mws: mws})
}

// Areas lists the registered API areas, sorted.
func Areas() []string {
	out := make([]string, 0, len(registry))
	for _, e := range registry {
		out = append(out, e.area)
	}
	sort.Strings(out)
	return out
}

// RegisterAll mounts every area; called once from httpserver.NewRouter.
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, e := range registry {
		if len(e.mws) == 0 {
			e.reg(r, d)
			continue
		}
		e.reg(r.With(e.mws...), d)
	}

	if d.Logger == nil {
		return
	}
	n := 0
	_ = chi.Walk(r, func(string, string, http.Handler, ...func(http.Handler) http.Handler) error {
		n++
		return nil
	})
	d.Logger.Debug("api routes mounted",
		logger.String("areas", strings.Join(Areas(), ",")),
		logger.Int("routes", n))
}
