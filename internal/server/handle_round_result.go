package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/geoparty/geoparty/internal/geoparty"
)

type RoundResultRequest struct {
	RoundNumber int      `json:"roundNumber"`
	GuessLat    *float64 `json:"guessLat"`
	GuessLng    *float64 `json:"guessLng"`
	ActualLat   float64  `json:"actualLat"`
	ActualLng   float64  `json:"actualLng"`
	DistanceKM  *float64 `json:"distanceKm"`
	Points      int      `json:"points"`
}

type RoundResultResponse struct {
	Success bool `json:"success"`
}

// handleRoundResult persists one participant's round outcome. Each client
// computes its own distance and points; this path only records them.
// A missing guess is tolerated and recorded as a zero-point round.
func handleRoundResult(store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := userFromRequest(r, store)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing player token")
			return
		}

		var req RoundResultRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if req.RoundNumber < 1 || req.RoundNumber > geoparty.RoundsPerGame {
			writeError(w, http.StatusBadRequest, "roundNumber out of range")
			return
		}
		if req.Points < 0 || req.Points > geoparty.MaxPointsPerRound {
			writeError(w, http.StatusBadRequest, "points out of range")
			return
		}
		if (req.GuessLat == nil) != (req.GuessLng == nil) {
			writeError(w, http.StatusBadRequest, "guess coordinates must both be present or both absent")
			return
		}
		if req.GuessLat == nil {
			// No pin placed: the round is recorded but scores nothing.
			req.Points = 0
			req.DistanceKM = nil
		}

		sessionID := chi.URLParam(r, "sessionID")

		result := geoparty.RoundResult{
			SessionID:   sessionID,
			UserID:      user.ID,
			RoundNumber: req.RoundNumber,
			GuessLat:    req.GuessLat,
			GuessLng:    req.GuessLng,
			ActualLat:   req.ActualLat,
			ActualLng:   req.ActualLng,
			DistanceKM:  req.DistanceKM,
			Points:      req.Points,
		}

		err = store.SaveRoundResult(r.Context(), result)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		broker.Publish(sessionID, SSEEvent{
			Type:        "round_result",
			PlayerName:  user.Name,
			RoundNumber: req.RoundNumber,
			Points:      req.Points,
		})

		writeJSON(w, http.StatusOK, RoundResultResponse{Success: true})
	}
}
