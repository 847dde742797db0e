// Package engine runs one participant's game: it picks targets, accepts a
// single guess per round, scores it, and advances through the fixed
// five-round sequence. Each participant gets their own Engine; the session
// coordinator never computes round outcomes itself.
package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/geoparty/geoparty/internal/geo"
	"github.com/geoparty/geoparty/internal/geoparty"
	"github.com/geoparty/geoparty/internal/imagery"
	"github.com/geoparty/geoparty/internal/scoring"
)

// Phase is the round state machine's current state.
type Phase string

const (
	PhaseAwaitingGuess Phase = "AwaitingGuess"
	PhaseGuessPlaced   Phase = "GuessPlaced"
	PhaseRoundComplete Phase = "RoundComplete"
	PhaseGameComplete  Phase = "GameComplete"
)

var (
	ErrNoGuess       = errors.New("no guess placed")
	ErrRoundComplete = errors.New("round already complete")
	ErrRoundActive   = errors.New("round still in progress")
	ErrGameComplete  = errors.New("game is complete")
)

// RoundView receives notifications for the map side effects of transitions
// (markers, the guess-to-truth line). Implementations own the widget
// handles; the engine never touches rendering state directly.
type RoundView interface {
	GuessPlaced(p geo.Point)
	RoundRevealed(guess, actual geo.Point)
	RoundCleared()
}

// Round is one guess-and-score cycle. Once complete it is never mutated
// again; the next round supersedes it.
type Round struct {
	Number     int
	Target     Location
	Guess      *geo.Point
	DistanceKM float64
	Points     int
	Complete   bool
}

// Result is the outcome reported when a round completes.
type Result struct {
	RoundNumber int
	Guess       geo.Point
	Target      Location
	DistanceKM  float64
	Points      int
}

// Summary is reported once after round five completes.
type Summary struct {
	Score             int
	TotalDistanceKM   float64
	AverageDistanceKM float64
}

// Config assembles an engine. Policy and Selector are required; View and
// Imagery are optional collaborators.
type Config struct {
	Rounds   int // defaults to geoparty.RoundsPerGame
	Policy   scoring.Policy
	Selector *Selector
	View     RoundView
	Imagery  imagery.Source
}

// Engine is the per-participant round state machine. User actions are
// serialized by the mutex: each click, submit, or advance runs to
// completion before the next is processed.
type Engine struct {
	mu  sync.Mutex
	cfg Config

	phase         Phase
	round         Round
	score         int
	totalDistance float64
}

// New starts a game at round one with a freshly selected target.
func New(cfg Config) *Engine {
	if cfg.Rounds <= 0 {
		cfg.Rounds = geoparty.RoundsPerGame
	}
	e := &Engine{cfg: cfg, phase: PhaseAwaitingGuess}
	e.round = Round{Number: 1, Target: cfg.Selector.Pick()}
	return e
}

// Phase returns the current state machine phase.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// CurrentRound returns a copy of the in-progress (or just-completed) round.
func (e *Engine) CurrentRound() Round {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.round
}

// Score returns the cumulative score across completed rounds.
func (e *Engine) Score() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.score
}

// PlaceGuess records a map click as the pending guess. Each call before
// submission replaces the previous pin — only the latest click counts.
// Rejected once the round is complete.
func (e *Engine) PlaceGuess(p geo.Point) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.phase {
	case PhaseGameComplete:
		return ErrGameComplete
	case PhaseRoundComplete:
		return ErrRoundComplete
	}

	e.round.Guess = &p
	e.phase = PhaseGuessPlaced
	if e.cfg.View != nil {
		e.cfg.View.GuessPlaced(p)
	}
	return nil
}

// SubmitGuess scores the pending guess against the target, accumulates it
// into the game state, and completes the round. Submitting without a guess
// is disallowed; re-submitting a completed round is an error and the
// recorded outcome stays immutable.
func (e *Engine) SubmitGuess() (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.phase {
	case PhaseGameComplete:
		return Result{}, ErrGameComplete
	case PhaseRoundComplete:
		return Result{}, ErrRoundComplete
	case PhaseAwaitingGuess:
		return Result{}, ErrNoGuess
	}

	guess := *e.round.Guess
	dist := geo.Distance(guess, e.round.Target.Point)
	pts := e.cfg.Policy.Points(dist)

	e.round.DistanceKM = dist
	e.round.Points = pts
	e.round.Complete = true
	e.score += pts
	e.totalDistance += dist
	e.phase = PhaseRoundComplete

	if e.cfg.View != nil {
		e.cfg.View.RoundRevealed(guess, e.round.Target.Point)
	}

	return Result{
		RoundNumber: e.round.Number,
		Guess:       guess,
		Target:      e.round.Target,
		DistanceKM:  dist,
		Points:      pts,
	}, nil
}

// NextRound advances past a completed round: a fresh target for rounds
// below the game length, or the game-complete state after the final round.
func (e *Engine) NextRound() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.phase {
	case PhaseGameComplete:
		return ErrGameComplete
	case PhaseAwaitingGuess, PhaseGuessPlaced:
		return ErrRoundActive
	}

	if e.cfg.View != nil {
		e.cfg.View.RoundCleared()
	}

	if e.round.Number >= e.cfg.Rounds {
		e.phase = PhaseGameComplete
		return nil
	}

	e.round = Round{Number: e.round.Number + 1, Target: e.cfg.Selector.Pick()}
	e.phase = PhaseAwaitingGuess
	return nil
}

// Summary reports the final score and average distance. Only valid once
// the game is complete.
func (e *Engine) Summary() (Summary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseGameComplete {
		return Summary{}, ErrRoundActive
	}
	return Summary{
		Score:             e.score,
		TotalDistanceKM:   e.totalDistance,
		AverageDistanceKM: e.totalDistance / float64(e.cfg.Rounds),
	}, nil
}

// Panorama fetches the ground-level view of the current target. Imagery
// failures are recovered by substituting the placeholder image; they never
// fail the round.
func (e *Engine) Panorama(ctx context.Context) []byte {
	e.mu.Lock()
	target := e.round.Target
	src := e.cfg.Imagery
	e.mu.Unlock()

	if src == nil {
		return imagery.Placeholder
	}

	img, err := src.GroundView(ctx, imagery.Request{
		Lat:     target.Lat,
		Lng:     target.Lng,
		Heading: randHeading(),
		Pitch:   randPitch(),
		FOV:     90,
	})
	if err != nil {
		return imagery.Placeholder
	}
	return img
}
