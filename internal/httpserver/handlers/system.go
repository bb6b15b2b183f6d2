package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/memarch/internal/httpserver/deps"
	"github.com/MrSnakeDoc/memarch/internal/logger"
	"github.com/MrSnakeDoc/memarch/internal/notify"
)

type dispatchResponse struct {
	Triggered bool   `json:"triggered"`
	Message   string `json:"message"`
}

// Reset erases every client, memory and setting.
func Reset(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Logger.Warn("application reset requested",
			logger.String("remote_ip", r.RemoteAddr))
		if err := d.Store.Reset(r.Context()); err != nil {
			writeStoreError(w, d, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// Notices drains the pending user notices.
func Notices(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		notices := []notify.Notice{}
		if d.Notices != nil {
			notices = d.Notices.Drain()
		}
		writeJSON(w, http.StatusOK, notices)
	}
}

// Reminders lists scheduled reminders, soonest first.
func Reminders(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pending, err := d.Scheduler.Pending(r.Context())
		if err != nil {
			writeStoreError(w, d, err)
			return
		}
		writeJSON(w, http.StatusOK, pending)
	}
}

// Dispatch asks the reminder loop to deliver due reminders now.
func Dispatch(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Dispatcher == nil {
			writeError(w, http.StatusNotImplemented, "reminder dispatch is not available")
			return
		}

		if d.Dispatcher.Trigger() {
			d.Logger.Info("manual reminder dispatch triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusAccepted, dispatchResponse{Triggered: true, Message: "dispatch triggered"})
			return
		}

		d.Logger.Warn("reminder dispatch already queued",
			logger.String("remote_ip", r.RemoteAddr))
		writeJSON(w, http.StatusTooManyRequests, dispatchResponse{Message: "dispatch already queued, please wait"})
	}
}
