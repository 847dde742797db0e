package server

import (
	"net/http"

	"github.com/geoparty/geoparty/internal/geoparty"
)

type CreateSessionRequest struct {
	GameMode string `json:"gameMode"`
	ViewMode string `json:"viewMode"`
}

type CreateSessionResponse struct {
	SessionID string `json:"sessionId"`
}

func handleCreateSession(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := userFromRequest(r, store)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing player token")
			return
		}

		var req CreateSessionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		mode := geoparty.GameMode(req.GameMode)
		if !mode.Valid() {
			writeError(w, http.StatusBadRequest, "gameMode must be 1v1, 2v2, or freeplay")
			return
		}
		view := geoparty.ViewMode(req.ViewMode)
		if req.ViewMode == "" {
			view = geoparty.ViewNormal
		}
		if !view.Valid() {
			writeError(w, http.StatusBadRequest, "viewMode must be normal, noMoving, or noZoom")
			return
		}

		sessionID, err := store.CreateSession(r.Context(), user.ID, mode, view)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, CreateSessionResponse{SessionID: sessionID})
	}
}
