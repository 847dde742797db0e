// Command play runs a solo game in the terminal: five rounds of guessing a
// hidden location by coordinates. It exercises the same round engine and
// scoring policies the web clients use.
package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/geoparty/geoparty/internal/config"
	"github.com/geoparty/geoparty/internal/engine"
	"github.com/geoparty/geoparty/internal/geo"
	"github.com/geoparty/geoparty/internal/imagery"
	"github.com/geoparty/geoparty/internal/scoring"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	policy, err := scoring.FromName(cfg.ScoringPolicy)
	if err != nil {
		return err
	}

	var src imagery.Source
	if cfg.StreetViewURL != "" {
		src = imagery.NewClient(cfg.StreetViewURL)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	e := engine.New(engine.Config{
		Policy:   policy,
		Selector: engine.NewSelector(cfg.JitterDegrees, rng),
		View:     terminalView{},
		Imagery:  src,
	})

	fmt.Printf("GeoParty solo game, %s scoring. Enter guesses as \"lat lng\".\n\n", policy.Name())

	in := bufio.NewScanner(os.Stdin)
	for e.Phase() != engine.PhaseGameComplete {
		round := e.CurrentRound()
		fmt.Printf("Round %d. Where is this?\n> ", round.Number)

		if !in.Scan() {
			return in.Err()
		}
		guess, err := parseGuess(in.Text())
		if err != nil {
			fmt.Println(err)
			continue
		}

		if err := e.PlaceGuess(guess); err != nil {
			return err
		}
		res, err := e.SubmitGuess()
		if err != nil {
			return err
		}

		fmt.Printf("It was %s. You were %.0f km off: %d points (total %d).\n\n",
			res.Target.Name, res.DistanceKM, res.Points, e.Score())

		if err := e.NextRound(); err != nil {
			return err
		}
	}

	summary, err := e.Summary()
	if err != nil {
		return err
	}
	fmt.Printf("Game over. Final score %d, average miss %.0f km.\n",
		summary.Score, summary.AverageDistanceKM)
	return nil
}

func parseGuess(line string) (geo.Point, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return geo.Point{}, fmt.Errorf("expected \"lat lng\", got %q", line)
	}
	lat, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("bad latitude %q", fields[0])
	}
	lng, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("bad longitude %q", fields[1])
	}
	return geo.Point{Lat: lat, Lng: lng}, nil
}

// terminalView prints transitions instead of moving map markers.
type terminalView struct{}

func (terminalView) GuessPlaced(p geo.Point) {
	fmt.Printf("Pin placed at %.2f, %.2f.\n", p.Lat, p.Lng)
}

func (terminalView) RoundRevealed(guess, actual geo.Point) {}

func (terminalView) RoundCleared() {}
