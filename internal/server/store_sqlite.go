package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/geoparty/geoparty/internal/geoparty"
)

// SQLiteStore implements Store on a single SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Session codes are short, URL-safe, and opaque. Uniqueness is enforced by
// an existence check inside the create transaction, with the primary key
// as backstop.
const codeCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const codeLength = 8

func newSessionCode() string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeCharset[rand.Intn(len(codeCharset))]
	}
	return string(b)
}

func (s *SQLiteStore) CreateUser(ctx context.Context, name string) (geoparty.User, string, error) {
	user := geoparty.User{ID: uuid.NewString(), Name: name}
	token := uuid.NewString()

	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (id, name, token)
		VALUES (?, ?, ?)
		RETURNING created_at
	`, user.ID, user.Name, token).Scan(&createdAt)
	if err != nil {
		return geoparty.User{}, "", fmt.Errorf("creating user: %w", err)
	}
	user.CreatedAt = parseTime(createdAt)
	return user, token, nil
}

func (s *SQLiteStore) UserFromToken(ctx context.Context, token string) (geoparty.User, error) {
	var u geoparty.User
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, created_at FROM users WHERE token = ?
	`, token).Scan(&u.ID, &u.Name, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return u, errNoSession
	}
	if err != nil {
		return u, err
	}
	u.CreatedAt = parseTime(createdAt)
	return u, nil
}

func (s *SQLiteStore) CreateSession(ctx context.Context, creatorID string, mode geoparty.GameMode, view geoparty.ViewMode) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Retry code generation until it lands on an unused one. Collisions are
	// rare at this code length, so a handful of attempts is plenty.
	var code string
	for attempt := 0; ; attempt++ {
		code = newSessionCode()
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM game_sessions WHERE id = ?`, code,
		).Scan(&exists)
		if err != nil {
			return "", fmt.Errorf("checking session code: %w", err)
		}
		if exists == 0 {
			break
		}
		if attempt >= 5 {
			return "", errors.New("could not generate a unique session code")
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO game_sessions (id, creator_id, game_mode, view_mode, max_players, current_players, status)
		VALUES (?, ?, ?, ?, ?, 1, 'waiting')
	`, code, creatorID, string(mode), string(view), mode.MaxPlayers())
	if err != nil {
		return "", fmt.Errorf("creating session: %w", err)
	}

	// The creator always takes the first slot, deterministically team1
	// (solo in freeplay).
	team := geoparty.TeamOne
	if mode == geoparty.ModeFreeplay {
		team = geoparty.TeamSolo
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO session_players (session_id, user_id, team, score, rounds_completed)
		VALUES (?, ?, ?, 0, 0)
	`, code, creatorID, string(team))
	if err != nil {
		return "", fmt.Errorf("adding creator: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing session: %w", err)
	}
	return code, nil
}

func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (geoparty.Session, error) {
	var sess geoparty.Session
	var mode, view, status, createdAt string
	var startedAt, finishedAt sql.NullString

	err := s.db.QueryRowContext(ctx, `
		SELECT id, creator_id, game_mode, view_mode, max_players, current_players,
		       status, created_at, started_at, finished_at
		FROM game_sessions WHERE id = ?
	`, sessionID).Scan(
		&sess.ID, &sess.CreatorID, &mode, &view, &sess.MaxPlayers,
		&sess.CurrentPlayers, &status, &createdAt, &startedAt, &finishedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return sess, ErrNotFound
	}
	if err != nil {
		return sess, err
	}

	sess.GameMode = geoparty.GameMode(mode)
	sess.ViewMode = geoparty.ViewMode(view)
	sess.Status = geoparty.SessionStatus(status)
	sess.CreatedAt = parseTime(createdAt)
	sess.StartedAt = parseNullTime(startedAt)
	sess.FinishedAt = parseNullTime(finishedAt)
	return sess, nil
}

func (s *SQLiteStore) ListSessionPlayers(ctx context.Context, sessionID string) ([]geoparty.SessionPlayer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sp.session_id, sp.user_id, u.name, sp.team, sp.score, sp.rounds_completed, sp.joined_at
		FROM session_players sp
		JOIN users u ON u.id = sp.user_id
		WHERE sp.session_id = ?
		ORDER BY sp.joined_at
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []geoparty.SessionPlayer
	for rows.Next() {
		var p geoparty.SessionPlayer
		var team, joinedAt string
		if err := rows.Scan(&p.SessionID, &p.UserID, &p.Name, &team, &p.Score, &p.RoundsCompleted, &joinedAt); err != nil {
			return nil, err
		}
		p.Team = geoparty.Team(team)
		p.JoinedAt = parseTime(joinedAt)
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *SQLiteStore) JoinSession(ctx context.Context, sessionID, userID string) (geoparty.Team, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Claim a slot first. The conditional increment is the capacity guard:
	// SQLite serializes writers, so concurrent joins see each other's
	// increments and the session can never be overbooked.
	res, err := tx.ExecContext(ctx, `
		UPDATE game_sessions
		SET current_players = current_players + 1
		WHERE id = ? AND current_players < max_players
	`, sessionID)
	if err != nil {
		return "", fmt.Errorf("claiming slot: %w", err)
	}
	claimed, err := res.RowsAffected()
	if err != nil {
		return "", err
	}
	if claimed == 0 {
		// Authoritative recheck: distinguish an unknown code from a full
		// session.
		var exists int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM game_sessions WHERE id = ?`, sessionID,
		).Scan(&exists); err != nil {
			return "", err
		}
		if exists == 0 {
			return "", ErrNotFound
		}
		return "", ErrSessionFull
	}

	var joined int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM session_players WHERE session_id = ? AND user_id = ?
	`, sessionID, userID).Scan(&joined)
	if err != nil {
		return "", err
	}
	if joined > 0 {
		// Rolling back releases the claimed slot.
		return "", ErrAlreadyJoined
	}

	var mode string
	var maxPlayers, current int
	err = tx.QueryRowContext(ctx, `
		SELECT game_mode, max_players, current_players FROM game_sessions WHERE id = ?
	`, sessionID).Scan(&mode, &maxPlayers, &current)
	if err != nil {
		return "", err
	}

	// current already includes this join; preJoin is the player's slot index.
	// The first half of the slots are team1, the rest team2. With odd
	// capacity the extra slot goes to team2.
	preJoin := current - 1
	team := geoparty.TeamTwo
	switch {
	case geoparty.GameMode(mode) == geoparty.ModeFreeplay:
		team = geoparty.TeamSolo
	case 2*preJoin < maxPlayers:
		team = geoparty.TeamOne
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO session_players (session_id, user_id, team, score, rounds_completed)
		VALUES (?, ?, ?, 0, 0)
	`, sessionID, userID, string(team))
	if err != nil {
		return "", fmt.Errorf("adding player: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing join: %w", err)
	}
	return team, nil
}

func (s *SQLiteStore) StartSession(ctx context.Context, sessionID string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE game_sessions
		SET status = 'playing', started_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
		WHERE id = ? AND status = 'waiting'
	`, sessionID)
	if err != nil {
		return fmt.Errorf("starting session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists int
		if err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM game_sessions WHERE id = ?`, sessionID,
		).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return ErrNotFound
		}
		// Already playing or finished; starting again is a no-op.
	}
	return nil
}

func (s *SQLiteStore) SaveRoundResult(ctx context.Context, r geoparty.RoundResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM game_sessions WHERE id = ?`, r.SessionID,
	).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return ErrNotFound
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO round_results (session_id, user_id, round_number, guess_lat, guess_lng,
		                           actual_lat, actual_lng, distance_km, points)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.SessionID, r.UserID, r.RoundNumber, r.GuessLat, r.GuessLng,
		r.ActualLat, r.ActualLng, r.DistanceKM, r.Points)
	if err != nil {
		return fmt.Errorf("saving round result: %w", err)
	}

	// Cumulative score moves in the same transaction as the result insert,
	// so persisted results and displayed scores cannot diverge.
	res, err := tx.ExecContext(ctx, `
		UPDATE session_players
		SET score = score + ?, rounds_completed = rounds_completed + 1
		WHERE session_id = ? AND user_id = ?
	`, r.Points, r.SessionID, r.UserID)
	if err != nil {
		return fmt.Errorf("updating player score: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	// A playing session finishes once every admitted player has completed
	// the final round.
	var unfinished int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM session_players
		WHERE session_id = ? AND rounds_completed < ?
	`, r.SessionID, geoparty.RoundsPerGame).Scan(&unfinished)
	if err != nil {
		return err
	}
	if unfinished == 0 {
		_, err = tx.ExecContext(ctx, `
			UPDATE game_sessions
			SET status = 'finished', finished_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
			WHERE id = ? AND status = 'playing'
		`, r.SessionID)
		if err != nil {
			return fmt.Errorf("finishing session: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing round result: %w", err)
	}
	return nil
}

// Timestamps are stored as RFC3339 text (sqlite strftime with milliseconds).
func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func parseNullTime(ns sql.NullString) *time.Time {
	if !ns.Valid {
		return nil
	}
	t := parseTime(ns.String)
	return &t
}
