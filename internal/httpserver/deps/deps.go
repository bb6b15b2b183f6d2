package deps

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MrSnakeDoc/memarch/internal/crm"
	"github.com/MrSnakeDoc/memarch/internal/logger"
	"github.com/MrSnakeDoc/memarch/internal/metrics"
	"github.com/MrSnakeDoc/memarch/internal/notify"
	"github.com/MrSnakeDoc/memarch/internal/storage"
)

// Dispatcher runs due reminders on demand.
type Dispatcher interface {
	Trigger() bool
}

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	TimeNow      func() time.Time // for testing, defaults to time.Now
	Location     *time.Location   // calendar days are read in this zone
	AllowedCIDRS []string         // IPs allowed to access readyz/metrics
	TrustProxy   bool             // true if running behind a trusted reverse proxy
	CORSOrigins  []string         // browser origins allowed to call /api

	Store      *crm.Store
	Scheduler  notify.Scheduler
	Dispatcher Dispatcher   // nil disables POST /api/reminders/dispatch
	Notices    *notify.Feed
	KV         storage.KV   // pinged by readyz
	Backend    string       // storage backend name reported by readyz
	Metrics    *metrics.Metrics
	Gatherer   prometheus.Gatherer // served on /metrics
}

// Now returns the current time in the configured location.
func (d Deps) Now() time.Time {
	now := time.Now
	if d.TimeNow != nil {
		now = d.TimeNow
	}
	return now().In(d.Loc())
}

// Loc returns the configured location, time.Local when unset.
func (d Deps) Loc() *time.Location {
	if d.Location != nil {
		return d.Location
	}
	return time.Local
}
