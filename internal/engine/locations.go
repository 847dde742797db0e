package engine

import (
	"math/rand"

	"github.com/geoparty/geoparty/internal/geo"
)

// Location is a round's ground truth: a coordinate known to have
// street-level imagery coverage, optionally with a place name.
type Location struct {
	geo.Point
	Name string
}

// Candidate locations with guaranteed ground-level imagery coverage.
// Jitter keeps rounds from always starting on the exact same spot, but
// stays small enough that imagery remains obtainable nearby.
var candidates = []Location{
	{geo.Point{Lat: 51.5074, Lng: -0.1278}, "London"},
	{geo.Point{Lat: 48.8566, Lng: 2.3522}, "Paris"},
	{geo.Point{Lat: 35.6762, Lng: 139.6503}, "Tokyo"},
	{geo.Point{Lat: -33.8688, Lng: 151.2093}, "Sydney"},
	{geo.Point{Lat: 40.7128, Lng: -74.0060}, "New York"},
	{geo.Point{Lat: 37.7749, Lng: -122.4194}, "San Francisco"},
	{geo.Point{Lat: 52.5200, Lng: 13.4050}, "Berlin"},
	{geo.Point{Lat: 41.9028, Lng: 12.4964}, "Rome"},
	{geo.Point{Lat: 39.9526, Lng: 116.4074}, "Beijing"},
	{geo.Point{Lat: 1.3521, Lng: 103.8198}, "Singapore"},
	{geo.Point{Lat: 55.7558, Lng: 37.6173}, "Moscow"},
	{geo.Point{Lat: 34.0522, Lng: -118.2437}, "Los Angeles"},
	{geo.Point{Lat: 43.2965, Lng: 5.3698}, "Marseille"},
	{geo.Point{Lat: 50.1109, Lng: 14.4094}, "Prague"},
	{geo.Point{Lat: 59.3293, Lng: 18.0686}, "Stockholm"},
	{geo.Point{Lat: 48.2082, Lng: 16.3738}, "Vienna"},
	{geo.Point{Lat: 52.2297, Lng: 21.0122}, "Warsaw"},
	{geo.Point{Lat: 47.4979, Lng: 19.0402}, "Budapest"},
	{geo.Point{Lat: 38.7223, Lng: -9.1393}, "Lisbon"},
	{geo.Point{Lat: 40.4168, Lng: -3.7038}, "Madrid"},
	{geo.Point{Lat: 45.5017, Lng: -122.6750}, "Portland"},
	{geo.Point{Lat: 47.6062, Lng: -122.3321}, "Seattle"},
	{geo.Point{Lat: 39.7392, Lng: -104.9903}, "Denver"},
	{geo.Point{Lat: 41.8781, Lng: -87.6298}, "Chicago"},
	{geo.Point{Lat: 25.7617, Lng: -80.1918}, "Miami"},
	{geo.Point{Lat: -23.5505, Lng: -46.6333}, "São Paulo"},
	{geo.Point{Lat: -33.8688, Lng: 18.4241}, "Cape Town"},
	{geo.Point{Lat: 31.2357, Lng: 30.4415}, "Cairo"},
	{geo.Point{Lat: 28.6139, Lng: 77.2090}, "New Delhi"},
	{geo.Point{Lat: 13.7563, Lng: 100.5018}, "Bangkok"},
}

// DefaultJitterDegrees bounds the random offset applied per axis.
const DefaultJitterDegrees = 0.075

// Selector produces target locations for new rounds: a uniform random pick
// from the candidate table plus a bounded random offset on each axis.
// It holds no persisted state.
type Selector struct {
	table  []Location
	jitter float64
	rng    *rand.Rand
}

// NewSelector builds a selector with the given jitter bound in degrees.
// A non-positive jitter disables the offset. rng may be nil, in which case
// an unseeded source is used.
func NewSelector(jitterDeg float64, rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	if jitterDeg < 0 {
		jitterDeg = 0
	}
	return &Selector{table: candidates, jitter: jitterDeg, rng: rng}
}

// Pick returns a fresh target location.
func (s *Selector) Pick() Location {
	loc := s.table[s.rng.Intn(len(s.table))]
	loc.Lat += (s.rng.Float64() - 0.5) * 2 * s.jitter
	loc.Lng += (s.rng.Float64() - 0.5) * 2 * s.jitter
	return loc
}

// Random camera orientation for a panorama request.
func randHeading() int { return rand.Intn(360) }
func randPitch() int   { return rand.Intn(60) - 30 }
