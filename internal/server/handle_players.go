package server

import (
	"net/http"
	"strings"
)

type RegisterPlayerRequest struct {
	Name string `json:"name"`
}

type RegisterPlayerResponse struct {
	Token    string `json:"token"`
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

// handleRegisterPlayer issues a guest identity: a display name in, a bearer
// token out. Session mutations require this token; reads do not.
func handleRegisterPlayer(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterPlayerRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}

		user, token, err := store.CreateUser(r.Context(), req.Name)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, RegisterPlayerResponse{
			Token:    token,
			PlayerID: user.ID,
			Name:     user.Name,
		})
	}
}
