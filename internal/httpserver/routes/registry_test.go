package routes

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/memarch/internal/httpserver/deps"
	"github.com/MrSnakeDoc/memarch/internal/logger"
)

func TestAreasRegisteredByInit(t *testing.T) {
	assert.Equal(t, []string{"clients", "dashboard", "events", "health", "settings", "system"}, Areas())
}

func TestRegisterAllMountsEveryArea(t *testing.T) {
	r := chi.NewRouter()
	RegisterAll(r, deps.Deps{Logger: logger.Nop()})

	mounted := map[string]bool{}
	require.NoError(t, chi.Walk(r, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		mounted[method+" "+route] = true
		return nil
	}))

	for _, want := range []string{
		"GET /healthz",
		"GET /api/dashboard",
		"POST /api/clients",
		"POST /api/events",
		"POST /api/reset",
		"POST /api/reminders/dispatch",
	} {
		assert.True(t, mounted[want], "missing route %s", want)
	}
}
