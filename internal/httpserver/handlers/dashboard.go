package handlers

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/memarch/internal/domain"
	"github.com/MrSnakeDoc/memarch/internal/httpserver/deps"
)

const dateLayout = "2006-01-02"

type dashboardResponse struct {
	AsOf string `json:"asOf"`
	domain.Dashboard
}

// Dashboard returns the home screen lists. asOf=YYYY-MM-DD overrides today.
func Dashboard(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		asOf := d.Now()
		if raw := r.URL.Query().Get("asOf"); raw != "" {
			parsed, err := time.ParseInLocation(dateLayout, raw, d.Loc())
			if err != nil {
				writeError(w, http.StatusBadRequest, "asOf must be formatted YYYY-MM-DD")
				return
			}
			asOf = parsed
		}

		writeJSON(w, http.StatusOK, dashboardResponse{
			AsOf:      asOf.Format(dateLayout),
			Dashboard: domain.BuildDashboard(d.Store.Events(), asOf),
		})
	}
}

// parseDate accepts a calendar date in loc or a full RFC 3339 timestamp.
func parseDate(raw string, loc *time.Location) (time.Time, bool) {
	if t, err := time.ParseInLocation(dateLayout, raw, loc); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}
