// Package orbit computes body positions from simulation time.
//
// Orbits are circles around the star at the world origin; there is no
// gravity or eccentricity.
package orbit

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/litescript/ls-orrery/internal/bodies"
)

// Position returns the world-space position of b at simulation time t.
func Position(b bodies.Body, t float64) r2.Vec {
	if b.IsStar() {
		return r2.Vec{}
	}
	angle := t * b.AngularSpeed
	return r2.Vec{
		X: math.Cos(angle) * b.OrbitDistance,
		Y: math.Sin(angle) * b.OrbitDistance,
	}
}

// Period returns the simulation seconds for one full orbit, or 0 for a
// body that does not move.
func Period(b bodies.Body) float64 {
	if b.AngularSpeed == 0 {
		return 0
	}
	return 2 * math.Pi / math.Abs(b.AngularSpeed)
}

// AngleToStar returns the direction from a world position toward the star
// at the origin, in radians.
func AngleToStar(p r2.Vec) float64 {
	return math.Atan2(-p.Y, -p.X)
}
