package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type StartResponse struct {
	Success bool `json:"success"`
}

// handleStart moves a session to playing. The observed design enforces no
// minimum player count; the creator decides when to start.
func handleStart(store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := userFromRequest(r, store); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing player token")
			return
		}

		sessionID := chi.URLParam(r, "sessionID")

		err := store.StartSession(r.Context(), sessionID)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		broker.Publish(sessionID, SSEEvent{Type: "game_started"})

		writeJSON(w, http.StatusOK, StartResponse{Success: true})
	}
}
