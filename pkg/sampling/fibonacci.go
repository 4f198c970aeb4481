// Package sampling generates deterministic, near-uniform unit directions on
// the sphere using the Fibonacci (golden angle) lattice.
package sampling

import (
	"errors"
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// GoldenAngle is the angular step between consecutive samples, in radians.
var GoldenAngle = math.Pi * (math.Sqrt(5) - 1)

// MinSamples is the smallest sample count the lattice is defined for.
const MinSamples = 2

// ErrInvalidSampleCount is returned when fewer than MinSamples directions are requested.
var ErrInvalidSampleCount = errors.New("invalid sample count")

// Directions returns n unit directions spiralling from +Y (i=0) to -Y (i=n-1).
// The same n always yields the same sequence.
func Directions(n int) ([]v3.Vec, error) {
	if err := CheckCount(n); err != nil {
		return nil, err
	}
	dirs := make([]v3.Vec, n)
	for i := range dirs {
		dirs[i] = Direction(i, n)
	}
	return dirs, nil
}

// Direction returns the i-th direction of an n-sample lattice. The caller
// must ensure n >= MinSamples and 0 <= i < n.
func Direction(i, n int) v3.Vec {
	y := 1 - 2*float64(i)/float64(n-1)
	r := math.Sqrt(math.Max(0, 1-y*y))
	theta := GoldenAngle * float64(i)
	return v3.Vec{
		X: math.Cos(theta) * r,
		Y: y,
		Z: math.Sin(theta) * r,
	}
}

// CheckCount reports whether n is a usable sample count.
func CheckCount(n int) error {
	if n < MinSamples {
		return fmt.Errorf("%w: need at least %d, got %d", ErrInvalidSampleCount, MinSamples, n)
	}
	return nil
}
