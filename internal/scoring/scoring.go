// Package scoring converts guess distances into round points.
//
// Two interchangeable policies exist; which one a deployment uses is
// configuration, so both live behind the Policy interface rather than
// being hard-coded at call sites.
package scoring

import (
	"fmt"
	"math"
)

// MaxPoints is awarded for a perfect (zero-distance) guess.
const MaxPoints = 5000

// equatorKM is the Earth's circumference, the decay scale of the
// exponential policy.
const equatorKM = 40075

// A Policy maps a non-negative distance in kilometers to points.
// Implementations must be monotonically non-increasing in distance and
// return values in [0, MaxPoints].
type Policy interface {
	Points(distanceKM float64) int
	Name() string
}

// FromName resolves a configured policy name.
func FromName(name string) (Policy, error) {
	switch name {
	case "exponential", "":
		return Exponential{}, nil
	case "tiered":
		return Tiered{}, nil
	}
	return nil, fmt.Errorf("unknown scoring policy %q", name)
}

// Exponential decays smoothly: round(5000 * e^(-10d/40075)).
// Distance 0 scores 5000 and the score approaches 0 asymptotically,
// never going negative.
type Exponential struct{}

func (Exponential) Name() string { return "exponential" }

func (Exponential) Points(distanceKM float64) int {
	pts := int(math.Round(MaxPoints * math.Exp(-10*distanceKM/equatorKM)))
	if pts < 0 {
		return 0
	}
	return pts
}

// Tiered awards fixed points per distance band, with a linear falloff
// past 5000 km.
type Tiered struct{}

func (Tiered) Name() string { return "tiered" }

func (Tiered) Points(distanceKM float64) int {
	switch {
	case distanceKM < 1:
		return 5000
	case distanceKM < 10:
		return 4500
	case distanceKM < 50:
		return 4000
	case distanceKM < 100:
		return 3500
	case distanceKM < 500:
		return 3000
	case distanceKM < 1000:
		return 2500
	case distanceKM < 2500:
		return 2000
	case distanceKM < 5000:
		return 1500
	}
	pts := MaxPoints - int(math.Floor(distanceKM/2))
	if pts < 0 {
		return 0
	}
	return pts
}
