package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrSnakeDoc/memarch/internal/httpserver/deps"
)

type componentStatus struct {
	OK      bool   `json:"ok"`
	Backend string `json:"backend,omitempty"`
	Clients *int   `json:"clients,omitempty"`
	Events  *int   `json:"events,omitempty"`
	Error   string `json:"error,omitempty"`
}

type readyzResponse struct {
	Ready      bool                       `json:"ready"`
	Components map[string]componentStatus `json:"components"`
}

// Readyz reports ready only when the storage backend answers a ping.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storage := checkStorage(r.Context(), d)

		clients, events := 0, 0
		if d.Store != nil {
			clients, events = len(d.Store.Clients()), len(d.Store.Events())
		}

		resp := readyzResponse{
			Ready: storage.OK,
			Components: map[string]componentStatus{
				"storage": storage,
				"store":   {OK: d.Store != nil, Clients: &clients, Events: &events},
			},
		}

		status := http.StatusOK
		if !resp.Ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, resp)
	}
}

func checkStorage(ctx context.Context, d deps.Deps) componentStatus {
	if d.KV == nil {
		return componentStatus{OK: false, Backend: d.Backend, Error: "backend not initialized"}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.KV.Ping(ctx); err != nil {
		return componentStatus{OK: false, Backend: d.Backend, Error: err.Error()}
	}
	return componentStatus{OK: true, Backend: d.Backend}
}

// Metrics exposes the prometheus registry.
func Metrics(d deps.Deps) http.Handler {
	g := d.Gatherer
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
