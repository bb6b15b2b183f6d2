package mw

import (
	"net/http"

	"github.com/MrSnakeDoc/memarch/internal/logger"
	"github.com/MrSnakeDoc/memarch/internal/metrics"
)

// Guard labels used on memarch_http_rejected_total.
const (
	GuardRateLimit = "rate_limit"
	GuardCIDR      = "cidr"
)

// reject answers a refused request with the API's JSON error shape and
// records it under guard.
func reject(w http.ResponseWriter, r *http.Request, status int, guard, ip string, log logger.Logger, m *metrics.Metrics) {
	m.ObserveRejected(guard, r.URL.Path)
	if log != nil {
		log.Warn("request rejected",
			logger.String("guard", guard),
			logger.String("client_ip", ip),
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Int("status", status))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + http.StatusText(status) + `"}` + "\n"))
}
