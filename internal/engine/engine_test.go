package engine

import (
	"bytes"
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/geoparty/geoparty/internal/geo"
	"github.com/geoparty/geoparty/internal/imagery"
	"github.com/geoparty/geoparty/internal/scoring"
)

func newTestEngine(view RoundView) *Engine {
	return New(Config{
		Policy:   scoring.Exponential{},
		Selector: NewSelector(0, rand.New(rand.NewSource(1))),
		View:     view,
	})
}

// recordingView counts the notifications the engine emits.
type recordingView struct {
	placed   []geo.Point
	revealed int
	cleared  int
}

func (v *recordingView) GuessPlaced(p geo.Point)      { v.placed = append(v.placed, p) }
func (v *recordingView) RoundRevealed(_, _ geo.Point) { v.revealed++ }
func (v *recordingView) RoundCleared()                { v.cleared++ }

func TestSubmitWithoutGuessRejected(t *testing.T) {
	e := newTestEngine(nil)

	if _, err := e.SubmitGuess(); !errors.Is(err, ErrNoGuess) {
		t.Fatalf("SubmitGuess with no guess: got %v, want ErrNoGuess", err)
	}
	if e.Phase() != PhaseAwaitingGuess {
		t.Errorf("phase = %s, want %s", e.Phase(), PhaseAwaitingGuess)
	}
}

func TestLatestClickCounts(t *testing.T) {
	view := &recordingView{}
	e := newTestEngine(view)

	first := geo.Point{Lat: 10, Lng: 10}
	second := geo.Point{Lat: -20, Lng: 30}

	if err := e.PlaceGuess(first); err != nil {
		t.Fatalf("first PlaceGuess: %v", err)
	}
	if err := e.PlaceGuess(second); err != nil {
		t.Fatalf("second PlaceGuess: %v", err)
	}

	if got := e.CurrentRound().Guess; got == nil || *got != second {
		t.Errorf("pending guess = %v, want %v", got, second)
	}
	if len(view.placed) != 2 {
		t.Errorf("view notified %d times, want 2", len(view.placed))
	}
}

func TestPerfectGuessScoresMax(t *testing.T) {
	e := newTestEngine(nil)

	target := e.CurrentRound().Target
	if err := e.PlaceGuess(target.Point); err != nil {
		t.Fatalf("PlaceGuess: %v", err)
	}

	res, err := e.SubmitGuess()
	if err != nil {
		t.Fatalf("SubmitGuess: %v", err)
	}
	if res.DistanceKM != 0 {
		t.Errorf("distance = %v, want 0", res.DistanceKM)
	}
	if res.Points != 5000 {
		t.Errorf("points = %d, want 5000", res.Points)
	}
}

func TestCompletedRoundImmutable(t *testing.T) {
	e := newTestEngine(nil)

	e.PlaceGuess(geo.Point{Lat: 1, Lng: 1})
	res, err := e.SubmitGuess()
	if err != nil {
		t.Fatalf("SubmitGuess: %v", err)
	}

	if err := e.PlaceGuess(geo.Point{Lat: 2, Lng: 2}); !errors.Is(err, ErrRoundComplete) {
		t.Errorf("PlaceGuess after complete: got %v, want ErrRoundComplete", err)
	}
	if _, err := e.SubmitGuess(); !errors.Is(err, ErrRoundComplete) {
		t.Errorf("re-submit: got %v, want ErrRoundComplete", err)
	}

	round := e.CurrentRound()
	if round.Points != res.Points || round.DistanceKM != res.DistanceKM || *round.Guess != res.Guess {
		t.Error("completed round mutated after rejection")
	}
}

func TestFiveRoundGame(t *testing.T) {
	view := &recordingView{}
	e := newTestEngine(view)

	wantScore := 0
	wantDistance := 0.0

	for round := 1; round <= 5; round++ {
		if got := e.CurrentRound().Number; got != round {
			t.Fatalf("round number = %d, want %d", got, round)
		}

		// Guess a fixed offset from the target so each round scores
		// deterministically below the maximum.
		target := e.CurrentRound().Target
		guess := geo.Point{Lat: target.Lat + 1, Lng: target.Lng}
		if err := e.PlaceGuess(guess); err != nil {
			t.Fatalf("round %d PlaceGuess: %v", round, err)
		}

		res, err := e.SubmitGuess()
		if err != nil {
			t.Fatalf("round %d SubmitGuess: %v", round, err)
		}
		wantScore += res.Points
		wantDistance += res.DistanceKM

		if err := e.NextRound(); err != nil {
			t.Fatalf("round %d NextRound: %v", round, err)
		}
	}

	if e.Phase() != PhaseGameComplete {
		t.Fatalf("phase after round 5 = %s, want %s", e.Phase(), PhaseGameComplete)
	}
	if err := e.NextRound(); !errors.Is(err, ErrGameComplete) {
		t.Errorf("NextRound after game: got %v, want ErrGameComplete", err)
	}
	if err := e.PlaceGuess(geo.Point{}); !errors.Is(err, ErrGameComplete) {
		t.Errorf("PlaceGuess after game: got %v, want ErrGameComplete", err)
	}

	sum, err := e.Summary()
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.Score != wantScore {
		t.Errorf("score = %d, want %d (sum of round points)", sum.Score, wantScore)
	}
	if sum.Score > 25000 {
		t.Errorf("score = %d exceeds 5 rounds × 5000", sum.Score)
	}
	if math.Abs(sum.AverageDistanceKM-wantDistance/5) > 1e-9 {
		t.Errorf("average distance = %v, want %v", sum.AverageDistanceKM, wantDistance/5)
	}
	if view.revealed != 5 || view.cleared != 5 {
		t.Errorf("view notified revealed=%d cleared=%d, want 5/5", view.revealed, view.cleared)
	}
}

func TestNextRoundRequiresCompletedRound(t *testing.T) {
	e := newTestEngine(nil)

	if err := e.NextRound(); !errors.Is(err, ErrRoundActive) {
		t.Errorf("NextRound before submit: got %v, want ErrRoundActive", err)
	}
	if _, err := e.Summary(); !errors.Is(err, ErrRoundActive) {
		t.Errorf("Summary mid-game: got %v, want ErrRoundActive", err)
	}
}

func TestSelectorJitterBounded(t *testing.T) {
	const jitter = 0.075
	s := NewSelector(jitter, rand.New(rand.NewSource(42)))

	for i := 0; i < 1000; i++ {
		loc := s.Pick()

		// The jittered point must stay within the bound of some candidate.
		ok := false
		for _, c := range candidates {
			if math.Abs(loc.Lat-c.Lat) <= jitter && math.Abs(loc.Lng-c.Lng) <= jitter {
				ok = true
				break
			}
		}
		if !ok {
			t.Fatalf("pick %d: %v outside jitter bound of every candidate", i, loc.Point)
		}
		if loc.Name == "" {
			t.Fatalf("pick %d: missing place name", i)
		}
	}
}

// failingSource always errors, as when the street-view capability is down.
type failingSource struct{}

func (failingSource) GroundView(context.Context, imagery.Request) ([]byte, error) {
	return nil, errors.New("upstream unavailable")
}

func TestPanoramaFallsBackToPlaceholder(t *testing.T) {
	e := New(Config{
		Policy:   scoring.Exponential{},
		Selector: NewSelector(0, rand.New(rand.NewSource(1))),
		Imagery:  failingSource{},
	})

	img := e.Panorama(context.Background())
	if !bytes.Equal(img, imagery.Placeholder) {
		t.Error("expected placeholder image when imagery fails")
	}

	// The round proceeds regardless.
	e.PlaceGuess(geo.Point{Lat: 0, Lng: 0})
	if _, err := e.SubmitGuess(); err != nil {
		t.Errorf("round failed after imagery error: %v", err)
	}
}
