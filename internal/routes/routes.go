package routes

import (
	"gpttransit/internal/handlers"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter mounts the chat API. apiKeys guards everything but /health.
func NewRouter(apiKeys []string, chat *handlers.ChatHandlers) http.Handler {
	r := chi.NewRouter()

	r.Use(handlers.WithRequestLogging())

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Group(func(r chi.Router) {
		r.Use(handlers.WithAPIKey(apiKeys))

		r.Post("/chat", chat.HandleChat)
		r.Get("/sessions/{id}/messages", chat.ListMessages)
		r.Delete("/sessions/{id}", chat.ClearSession)
		r.Post("/feedback", chat.HandleFeedback)
	})

	return r
}
