package notify

import (
	"sync"
	"time"

	"github.com/MrSnakeDoc/memarch/internal/logger"
)

// Notice is a short confirmation shown to the user after an action.
type Notice struct {
	At      time.Time `json:"at"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
}

// Feed keeps the most recent notices for the front-end to pick up.
// Older notices are dropped once the feed is full.
type Feed struct {
	mu      sync.Mutex
	notices []Notice
	limit   int
	logger  logger.Logger
	now     func() time.Time
}

// NewFeed creates a feed holding at most limit notices.
func NewFeed(limit int, log logger.Logger) *Feed {
	if limit <= 0 {
		limit = 50
	}
	return &Feed{limit: limit, logger: log, now: time.Now}
}

// Success records a confirmation.
func (f *Feed) Success(msg string) { f.push("success", msg) }

// Info records an informational notice.
func (f *Feed) Info(msg string) { f.push("info", msg) }

func (f *Feed) push(level, msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.notices = append(f.notices, Notice{At: f.now(), Level: level, Message: msg})
	if over := len(f.notices) - f.limit; over > 0 {
		f.notices = append([]Notice(nil), f.notices[over:]...)
	}
	f.logger.Info("notice", logger.String("level", level), logger.String("message", msg))
}

// Drain returns the buffered notices oldest first and empties the feed.
func (f *Feed) Drain() []Notice {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := f.notices
	f.notices = nil
	if out == nil {
		out = []Notice{}
	}
	return out
}
