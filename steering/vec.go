// Package steering provides the stateless steering kernels used by the flock.
//
// Every kernel maps geometric and kinematic inputs to a single desired
// velocity. Kernels never allocate, never use randomness and return the same
// bits for the same inputs.
package steering

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// smallNumber is the squared-length threshold below which a vector is
// treated as having no direction.
const smallNumber = 1e-8

// SafeUnit returns the unit vector colinear to v, or the zero vector when v
// is too short to have a meaningful direction.
func SafeUnit(v r3.Vec) r3.Vec {
	n2 := r3.Norm2(v)
	if n2 <= smallNumber {
		return r3.Vec{}
	}
	if n2 == 1 {
		return v
	}
	return r3.Scale(1/math.Sqrt(n2), v)
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b r3.Vec) float64 {
	return r3.Norm(r3.Sub(b, a))
}

// Clamp01 clamps v to the [0, 1] range.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// IsZero reports whether every component of v is exactly zero.
func IsZero(v r3.Vec) bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}
