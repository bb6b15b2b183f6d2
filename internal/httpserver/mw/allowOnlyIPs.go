package mw

import (
	"net/http"

	"github.com/MrSnakeDoc/memarch/internal/logger"
	"github.com/MrSnakeDoc/memarch/internal/metrics"
)

// AllowOnlyCIDRS restricts the operator endpoints (readiness, metrics) to the
// configured IPs/CIDRs. An empty list disables the check.
// trustProxy should be true when running behind a trusted reverse proxy/tunnel.
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	matcher := NewIPMatcher(allowed)
	if matcher.IsEmpty() {
		log.Debug("operator endpoints open: no MEMARCH_ALLOWED_CIDRS configured")
		return func(next http.Handler) http.Handler { return next }
	}

	log.Debug("operator endpoints restricted",
		logger.Int("rules", len(allowed)),
		logger.Bool("trust_proxy", trustProxy))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r, trustProxy)
			if !matcher.Allow(ip) {
				reject(w, r, http.StatusForbidden, GuardCIDR, ip, log, m)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
