package server

import (
	"context"
	"errors"

	"github.com/geoparty/geoparty/internal/geoparty"
)

var (
	// ErrNotFound is returned when a referenced session code is unknown.
	ErrNotFound = errors.New("not found")
	// ErrSessionFull is returned when a join would exceed the session's
	// player capacity.
	ErrSessionFull = errors.New("session full")
	// ErrAlreadyJoined is returned when a user is already a member of the
	// session they try to join.
	ErrAlreadyJoined = errors.New("already joined")
)

// Store is the persistence capability consumed by the session coordinator.
// Capacity and existence checks live behind this boundary; the coordinator
// never computes distances or points itself.
type Store interface {
	CreateUser(ctx context.Context, name string) (user geoparty.User, token string, err error)
	UserFromToken(ctx context.Context, token string) (geoparty.User, error)

	// CreateSession persists a new waiting session under a fresh unique code
	// and adds the creator as its first player.
	CreateSession(ctx context.Context, creatorID string, mode geoparty.GameMode, view geoparty.ViewMode) (sessionID string, err error)
	GetSession(ctx context.Context, sessionID string) (geoparty.Session, error)
	ListSessionPlayers(ctx context.Context, sessionID string) ([]geoparty.SessionPlayer, error)

	// JoinSession atomically claims a capacity slot and assigns a team.
	// The check-then-increment must never admit more players than
	// maxPlayers, even under simultaneous joins.
	JoinSession(ctx context.Context, sessionID, userID string) (geoparty.Team, error)

	// StartSession moves a waiting session to playing. Starting a session
	// that is already playing is a no-op.
	StartSession(ctx context.Context, sessionID string) error

	// SaveRoundResult appends one round result and, in the same transaction,
	// updates the player's cumulative score and completed-round count. Once
	// every admitted player has finished the final round the session moves
	// to finished.
	SaveRoundResult(ctx context.Context, res geoparty.RoundResult) error
}
