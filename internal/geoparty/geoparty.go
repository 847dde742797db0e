// Package geoparty defines the core domain types shared by the round engine
// and the session coordinator. It has zero external dependencies — everything
// here is pure Go.
package geoparty

import "time"

// GameMode selects the party format and fixes the player capacity.
type GameMode string

const (
	ModeOneVsOne GameMode = "1v1"
	ModeTwoVsTwo GameMode = "2v2"
	ModeFreeplay GameMode = "freeplay"
)

// MaxPlayers returns the session capacity for the mode: 2 for 1v1,
// 4 for 2v2, 1 for freeplay. Unknown modes default to freeplay.
func (m GameMode) MaxPlayers() int {
	switch m {
	case ModeOneVsOne:
		return 2
	case ModeTwoVsTwo:
		return 4
	default:
		return 1
	}
}

// Valid reports whether m is one of the three known modes.
func (m GameMode) Valid() bool {
	switch m {
	case ModeOneVsOne, ModeTwoVsTwo, ModeFreeplay:
		return true
	}
	return false
}

// ViewMode restricts how the panorama can be explored during a round.
type ViewMode string

const (
	ViewNormal   ViewMode = "normal"
	ViewNoMoving ViewMode = "noMoving"
	ViewNoZoom   ViewMode = "noZoom"
)

func (v ViewMode) Valid() bool {
	switch v {
	case ViewNormal, ViewNoMoving, ViewNoZoom:
		return true
	}
	return false
}

// Team is a player's slot within a session.
type Team string

const (
	TeamOne  Team = "team1"
	TeamTwo  Team = "team2"
	TeamSolo Team = "solo"
)

// SessionStatus is the coordinator-owned lifecycle of a session.
// Transitions only move forward: waiting → playing → finished.
type SessionStatus string

const (
	StatusWaiting  SessionStatus = "waiting"
	StatusPlaying  SessionStatus = "playing"
	StatusFinished SessionStatus = "finished"
)

// RoundsPerGame is the fixed length of a game. Once a participant completes
// this many rounds, no further rounds are created for them.
const RoundsPerGame = 5

// MaxPointsPerRound is the score for a perfect guess; cumulative score is
// therefore bounded by RoundsPerGame * MaxPointsPerRound.
const MaxPointsPerRound = 5000

type User struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

type Session struct {
	ID             string
	CreatorID      string
	GameMode       GameMode
	ViewMode       ViewMode
	MaxPlayers     int
	CurrentPlayers int
	Status         SessionStatus
	CreatedAt      time.Time
	StartedAt      *time.Time
	FinishedAt     *time.Time
}

type SessionPlayer struct {
	SessionID       string
	UserID          string
	Name            string
	Team            Team
	Score           int
	RoundsCompleted int
	JoinedAt        time.Time
}

// RoundResult is the write-once record of one participant's round.
// Guess coordinates and distance are absent when the player submitted
// without placing a pin; such rounds score zero points.
type RoundResult struct {
	SessionID   string
	UserID      string
	RoundNumber int
	GuessLat    *float64
	GuessLng    *float64
	ActualLat   float64
	ActualLng   float64
	DistanceKM  *float64
	Points      int
	CreatedAt   time.Time
}
