package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/memarch/internal/httpserver/deps"
)

type notificationsRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type reminderTimeRequest struct {
	ReminderTime string `json:"reminderTime" validate:"required,hhmm"`
}

func GetSettings(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Store.Preferences())
	}
}

// PutNotifications turns notifications on or off. Enabling answers 409
// when the platform refuses permission; the setting is then unchanged.
func PutNotifications(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req notificationsRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := validate.Struct(req); err != nil {
			writeStoreError(w, d, err)
			return
		}
		if err := d.Store.ToggleNotifications(r.Context(), *req.Enabled); err != nil {
			writeStoreError(w, d, err)
			return
		}
		writeJSON(w, http.StatusOK, d.Store.Preferences())
	}
}

func PutReminderTime(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reminderTimeRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := validate.Struct(req); err != nil {
			writeStoreError(w, d, err)
			return
		}
		if err := d.Store.SetReminderTime(r.Context(), req.ReminderTime); err != nil {
			writeStoreError(w, d, err)
			return
		}
		writeJSON(w, http.StatusOK, d.Store.Preferences())
	}
}
