package server

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, store Store, db *sql.DB) {
	broker := NewBroker()

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("GeoParty API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db))

	r.Route("/api", func(r chi.Router) {
		r.Post("/players", handleRegisterPlayer(store))

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", handleCreateSession(store))
			r.Get("/{sessionID}", handleGetSession(logger, store))
			r.Post("/{sessionID}/join", handleJoin(store, broker))
			r.Post("/{sessionID}/start", handleStart(store, broker))
			r.Post("/{sessionID}/rounds", handleRoundResult(store, broker))
			r.Get("/{sessionID}/events", handleEvents(store, broker))
		})
	})
}
