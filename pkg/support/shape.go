// Package support defines convex shapes by their support function: the map
// from a direction to the point of the shape farthest along that direction.
//
// The set of shapes is closed. Every variant implements Shape through an
// unexported marker method, so callers can switch exhaustively on the
// concrete type the same way they would on a tagged union.
package support

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Kind enumerates the shape variants.
type Kind int

const (
	KindBall Kind = iota
	KindCuboid
	KindCapsule
	KindCone
	KindTaperedCapsule
	KindCompound
	KindTranslated
)

func (k Kind) String() string {
	switch k {
	case KindBall:
		return "ball"
	case KindCuboid:
		return "cuboid"
	case KindCapsule:
		return "capsule"
	case KindCone:
		return "cone"
	case KindTaperedCapsule:
		return "tapered-capsule"
	case KindCompound:
		return "compound"
	case KindTranslated:
		return "translated"
	default:
		return "unknown"
	}
}

// Shape is a convex shape described by its support function.
type Shape interface {
	// Support returns the point of the shape that maximises dot(p, dir).
	// dir does not need to be normalised; the zero vector maps to FallbackAxis.
	Support(dir v3.Vec) v3.Vec
	Kind() Kind
	String() string
	shape() // marker method restricting implementations to this package
}

// Compile-time interface checks.
var (
	_ Shape = Ball{}
	_ Shape = Cuboid{}
	_ Shape = Capsule{}
	_ Shape = Cone{}
	_ Shape = TaperedCapsule{}
	_ Shape = Compound{}
	_ Shape = Translated{}
)

// Support evaluates s at dir. It is the free-function form of Shape.Support.
func Support(s Shape, dir v3.Vec) v3.Vec {
	return s.Support(dir)
}

// ---------------------------------------------------------------------------
// Ball
// ---------------------------------------------------------------------------

// Ball is a sphere centred at the origin.
type Ball struct {
	Radius float64 `json:"radius"`
}

func (b Ball) Support(dir v3.Vec) v3.Vec {
	return Direction(dir).MulScalar(b.Radius)
}

func (Ball) Kind() Kind { return KindBall }

func (b Ball) String() string { return fmt.Sprintf("ball(r=%g)", b.Radius) }

func (Ball) shape() {}

// ---------------------------------------------------------------------------
// Cuboid
// ---------------------------------------------------------------------------

// Cuboid is an axis-aligned box centred at the origin.
type Cuboid struct {
	HalfExtents v3.Vec `json:"half_extents"`
}

// Support picks the corner independently per axis. A zero component keeps the
// positive side, so every coordinate is always ±HalfExtents.
func (c Cuboid) Support(dir v3.Vec) v3.Vec {
	d := Direction(dir)
	return v3.Vec{
		X: math.Copysign(c.HalfExtents.X, d.X),
		Y: math.Copysign(c.HalfExtents.Y, d.Y),
		Z: math.Copysign(c.HalfExtents.Z, d.Z),
	}
}

func (Cuboid) Kind() Kind { return KindCuboid }

func (c Cuboid) String() string {
	return fmt.Sprintf("cuboid(h=%g,%g,%g)", c.HalfExtents.X, c.HalfExtents.Y, c.HalfExtents.Z)
}

func (Cuboid) shape() {}

// ---------------------------------------------------------------------------
// Capsule
// ---------------------------------------------------------------------------

// Capsule is the set of points within Radius of the segment A-B.
type Capsule struct {
	A      v3.Vec  `json:"a"`
	B      v3.Vec  `json:"b"`
	Radius float64 `json:"radius"`
}

// Support returns the farther endpoint pushed out by the radius. When both
// endpoints project equally either is a valid answer; A is chosen.
func (c Capsule) Support(dir v3.Vec) v3.Vec {
	d := Direction(dir)
	end := c.B
	if d.Dot(c.A) >= d.Dot(c.B) {
		end = c.A
	}
	return end.Add(d.MulScalar(c.Radius))
}

func (Capsule) Kind() Kind { return KindCapsule }

func (c Capsule) String() string {
	return fmt.Sprintf("capsule(a=%v,b=%v,r=%g)", c.A, c.B, c.Radius)
}

func (Capsule) shape() {}

// ---------------------------------------------------------------------------
// Cone
// ---------------------------------------------------------------------------

// Cone is a right circular cone along Y, centred at the origin: the apex is
// at y=+Height/2 and the base disc of the given Radius at y=-Height/2.
type Cone struct {
	Height float64 `json:"height"`
	Radius float64 `json:"radius"`
}

func (c Cone) Support(dir v3.Vec) v3.Vec {
	d := Direction(dir)
	half := c.Height / 2
	apex := v3.Vec{Y: half}

	ring := v3.Vec{Y: -half}
	xz := math.Hypot(d.X, d.Z)
	if xz > 0 {
		ring.X = d.X / xz * c.Radius
		ring.Z = d.Z / xz * c.Radius
	}

	if d.Dot(apex) >= d.Dot(ring) {
		return apex
	}
	return ring
}

func (Cone) Kind() Kind { return KindCone }

func (c Cone) String() string { return fmt.Sprintf("cone(h=%g,r=%g)", c.Height, c.Radius) }

func (Cone) shape() {}

// ---------------------------------------------------------------------------
// TaperedCapsule
// ---------------------------------------------------------------------------

// TaperedCapsule joins a sphere of RadiusA at A and a sphere of RadiusB at B.
//
// The support choice compares only the segment endpoints and then offsets by
// that end's radius. This is exact when the radii match, and an approximation
// otherwise: near the silhouette the true farthest point can belong to the
// other sphere. It is good enough for visualization, not for collision work.
type TaperedCapsule struct {
	A       v3.Vec  `json:"a"`
	B       v3.Vec  `json:"b"`
	RadiusA float64 `json:"radius_a"`
	RadiusB float64 `json:"radius_b"`
}

func (c TaperedCapsule) Support(dir v3.Vec) v3.Vec {
	d := Direction(dir)
	if d.Dot(c.A) > d.Dot(c.B) {
		return c.A.Add(d.MulScalar(c.RadiusA))
	}
	return c.B.Add(d.MulScalar(c.RadiusB))
}

func (TaperedCapsule) Kind() Kind { return KindTaperedCapsule }

func (c TaperedCapsule) String() string {
	return fmt.Sprintf("tapered-capsule(a=%v,b=%v,ra=%g,rb=%g)", c.A, c.B, c.RadiusA, c.RadiusB)
}

func (TaperedCapsule) shape() {}

// ---------------------------------------------------------------------------
// Composites
// ---------------------------------------------------------------------------

// Compound is the convex hull of the union of its shapes.
type Compound struct {
	Shapes []Shape `json:"shapes"`
}

// Support returns the child support point with the largest projection on
// dir. Ties keep the earliest child. An empty compound is the origin.
func (c Compound) Support(dir v3.Vec) v3.Vec {
	d := Direction(dir)
	var best v3.Vec
	bestDot := math.Inf(-1)
	for _, s := range c.Shapes {
		p := s.Support(d)
		if dot := d.Dot(p); dot > bestDot {
			best, bestDot = p, dot
		}
	}
	return best
}

func (Compound) Kind() Kind { return KindCompound }

func (c Compound) String() string { return fmt.Sprintf("compound(%d shapes)", len(c.Shapes)) }

func (Compound) shape() {}

// Translated moves a shape by Offset.
type Translated struct {
	Shape  Shape  `json:"shape"`
	Offset v3.Vec `json:"offset"`
}

func (t Translated) Support(dir v3.Vec) v3.Vec {
	return t.Shape.Support(dir).Add(t.Offset)
}

func (Translated) Kind() Kind { return KindTranslated }

func (t Translated) String() string { return fmt.Sprintf("translated(%v by %v)", t.Shape, t.Offset) }

func (Translated) shape() {}
