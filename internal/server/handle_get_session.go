package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/geoparty/geoparty/internal/geoparty"
)

type SessionPlayerInfo struct {
	PlayerID        string `json:"playerId"`
	Name            string `json:"name"`
	Team            string `json:"team"`
	Score           int    `json:"score"`
	RoundsCompleted int    `json:"roundsCompleted"`
}

type SessionResponse struct {
	SessionID      string              `json:"sessionId"`
	CreatorID      string              `json:"creatorId"`
	GameMode       string              `json:"gameMode"`
	ViewMode       string              `json:"viewMode"`
	MaxPlayers     int                 `json:"maxPlayers"`
	CurrentPlayers int                 `json:"currentPlayers"`
	Status         string              `json:"status"`
	CreatedAt      string              `json:"createdAt"`
	StartedAt      *string             `json:"startedAt"`
	FinishedAt     *string             `json:"finishedAt"`
	Players        []SessionPlayerInfo `json:"players"`
}

// handleGetSession is the one unauthenticated read. When the store is
// unreachable the read degrades to not-found rather than failing the caller.
func handleGetSession(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")

		sess, err := store.GetSession(r.Context(), sessionID)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				logger.Error("session read failed", "session", sessionID, "error", err)
			}
			writeError(w, http.StatusNotFound, "session not found")
			return
		}

		players, err := store.ListSessionPlayers(r.Context(), sessionID)
		if err != nil {
			logger.Error("player list read failed", "session", sessionID, "error", err)
			players = nil
		}

		resp := sessionToResponse(sess)
		for _, p := range players {
			resp.Players = append(resp.Players, SessionPlayerInfo{
				PlayerID:        p.UserID,
				Name:            p.Name,
				Team:            string(p.Team),
				Score:           p.Score,
				RoundsCompleted: p.RoundsCompleted,
			})
		}
		if resp.Players == nil {
			resp.Players = []SessionPlayerInfo{}
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func sessionToResponse(sess geoparty.Session) SessionResponse {
	return SessionResponse{
		SessionID:      sess.ID,
		CreatorID:      sess.CreatorID,
		GameMode:       string(sess.GameMode),
		ViewMode:       string(sess.ViewMode),
		MaxPlayers:     sess.MaxPlayers,
		CurrentPlayers: sess.CurrentPlayers,
		Status:         string(sess.Status),
		CreatedAt:      sess.CreatedAt.Format(time.RFC3339Nano),
		StartedAt:      formatNullTime(sess.StartedAt),
		FinishedAt:     formatNullTime(sess.FinishedAt),
	}
}

func formatNullTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339Nano)
	return &s
}
