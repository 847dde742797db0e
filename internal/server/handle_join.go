package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type JoinResponse struct {
	Success bool   `json:"success"`
	Team    string `json:"team"`
}

func handleJoin(store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := userFromRequest(r, store)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing player token")
			return
		}

		sessionID := chi.URLParam(r, "sessionID")

		team, err := store.JoinSession(r.Context(), sessionID, user.ID)
		switch {
		case errors.Is(err, ErrNotFound):
			writeError(w, http.StatusNotFound, "session not found")
			return
		case errors.Is(err, ErrSessionFull):
			writeError(w, http.StatusConflict, "session is full")
			return
		case errors.Is(err, ErrAlreadyJoined):
			writeError(w, http.StatusConflict, "already in this session")
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		broker.Publish(sessionID, SSEEvent{
			Type:       "player_joined",
			PlayerName: user.Name,
			Team:       string(team),
		})

		writeJSON(w, http.StatusOK, JoinResponse{Success: true, Team: string(team)})
	}
}
