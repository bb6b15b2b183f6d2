package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/MrSnakeDoc/memarch/internal/domain"
	"github.com/MrSnakeDoc/memarch/internal/httpserver/deps"
)

type eventRequest struct {
	ClientID     string             `json:"clientId"`
	ClientName   string             `json:"clientName"`
	EventType    domain.EventType   `json:"eventType"`
	Description  string             `json:"description"`
	ReminderDate string             `json:"reminderDate"`
	ReminderTime string             `json:"reminderTime"`
	Notes        string             `json:"notes"`
	Status       domain.EventStatus `json:"status"`
}

// fields converts the request and lists every invalid field by JSON name.
func (req eventRequest) fields(loc *time.Location) (domain.EventFields, map[string]string) {
	f := domain.EventFields{
		ClientID:     req.ClientID,
		ClientName:   req.ClientName,
		EventType:    req.EventType,
		Description:  req.Description,
		ReminderTime: req.ReminderTime,
		Notes:        req.Notes,
		Status:       req.Status,
	}
	problems := map[string]string{}

	switch t, ok := parseDate(req.ReminderDate, loc); {
	case req.ReminderDate == "":
		problems["reminderDate"] = "is required"
	case !ok:
		problems["reminderDate"] = "must be formatted YYYY-MM-DD"
	default:
		f.ReminderDate = t
	}

	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			problems["body"] = err.Error()
		}
		for field, msg := range fieldErrors(verrs) {
			problems[field] = msg
		}
	}
	return f, problems
}

// decodeEvent writes the 400 response itself and reports false on failure.
func decodeEvent(w http.ResponseWriter, r *http.Request, d deps.Deps) (domain.EventFields, bool) {
	var req eventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return domain.EventFields{}, false
	}

	f, problems := req.fields(d.Loc())
	if len(problems) > 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: problems})
		return domain.EventFields{}, false
	}
	return f, true
}

// ListEvents returns every memory, optionally filtered by status and client.
func ListEvents(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events := d.Store.Events()
		if status := r.URL.Query().Get("status"); status != "" {
			events = domain.ByStatus(events, domain.EventStatus(status))
		}
		if clientID := r.URL.Query().Get("clientId"); clientID != "" {
			events = domain.ForClient(events, clientID)
		}
		writeJSON(w, http.StatusOK, events)
	}
}

func CreateEvent(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fields, ok := decodeEvent(w, r, d)
		if !ok {
			return
		}
		e, err := d.Store.AddEvent(r.Context(), fields)
		if err != nil {
			writeStoreError(w, d, err)
			return
		}
		writeJSON(w, http.StatusCreated, e)
	}
}

func GetEvent(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, ok := d.Store.Event(chi.URLParam(r, "id"))
		if !ok {
			writeStoreError(w, d, domain.ErrEventNotFound)
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}

func UpdateEvent(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, ok := d.Store.Event(id); !ok {
			writeStoreError(w, d, domain.ErrEventNotFound)
			return
		}

		fields, ok := decodeEvent(w, r, d)
		if !ok {
			return
		}
		if err := d.Store.UpdateEvent(r.Context(), fields.WithID(id)); err != nil {
			writeStoreError(w, d, err)
			return
		}

		e, _ := d.Store.Event(id)
		writeJSON(w, http.StatusOK, e)
	}
}

func DeleteEvent(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, ok := d.Store.Event(id); !ok {
			writeStoreError(w, d, domain.ErrEventNotFound)
			return
		}
		if err := d.Store.DeleteEvent(r.Context(), id); err != nil {
			writeStoreError(w, d, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// CompleteEvent marks a memory done. Completing it twice is not an error.
func CompleteEvent(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, ok := d.Store.Event(id); !ok {
			writeStoreError(w, d, domain.ErrEventNotFound)
			return
		}
		if err := d.Store.MarkEventAsDone(r.Context(), id); err != nil {
			writeStoreError(w, d, err)
			return
		}
		e, _ := d.Store.Event(id)
		writeJSON(w, http.StatusOK, e)
	}
}
