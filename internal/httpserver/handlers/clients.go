package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/memarch/internal/domain"
	"github.com/MrSnakeDoc/memarch/internal/httpserver/deps"
)

type clientDetailResponse struct {
	domain.Client
	Events []domain.Event `json:"events"`
}

// ListClients returns every client, filtered by name when q is set.
func ListClients(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, domain.SearchClients(d.Store.Clients(), r.URL.Query().Get("q")))
	}
}

func CreateClient(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var fields domain.ClientFields
		if err := decodeJSON(w, r, &fields); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := validate.Struct(fields); err != nil {
			writeStoreError(w, d, err)
			return
		}

		c, err := d.Store.AddClient(r.Context(), fields)
		if err != nil {
			writeStoreError(w, d, err)
			return
		}
		writeJSON(w, http.StatusCreated, c)
	}
}

// GetClient returns the client with its memories, most recent first.
func GetClient(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		c, ok := d.Store.Client(id)
		if !ok {
			writeError(w, http.StatusNotFound, "client not found")
			return
		}
		writeJSON(w, http.StatusOK, clientDetailResponse{
			Client: c,
			Events: domain.ForClient(d.Store.Events(), id),
		})
	}
}

func UpdateClient(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, ok := d.Store.Client(id); !ok {
			writeError(w, http.StatusNotFound, "client not found")
			return
		}

		var fields domain.ClientFields
		if err := decodeJSON(w, r, &fields); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := validate.Struct(fields); err != nil {
			writeStoreError(w, d, err)
			return
		}

		c := fields.WithID(id)
		if err := d.Store.UpdateClient(r.Context(), c); err != nil {
			writeStoreError(w, d, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

// DeleteClient removes the client and all of its memories.
func DeleteClient(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, ok := d.Store.Client(id); !ok {
			writeError(w, http.StatusNotFound, "client not found")
			return
		}
		if err := d.Store.DeleteClient(r.Context(), id); err != nil {
			writeStoreError(w, d, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
