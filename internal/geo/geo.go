// Package geo provides great-circle distance math for scoring guesses.
package geo

import "math"

// EarthRadiusKM is the mean Earth radius used by the haversine formula.
const EarthRadiusKM = 6371

// Point is a WGS84 coordinate in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Distance returns the great-circle distance between a and b in kilometers
// using the haversine formula. It is symmetric, zero for identical points,
// and well-defined for antipodal points.
func Distance(a, b Point) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	// Clamp before Atan2: floating point can push h a hair above 1 for
	// near-antipodal inputs, which would make Sqrt(1-h) NaN.
	if h > 1 {
		h = 1
	}

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKM * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
