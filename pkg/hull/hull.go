// Package hull computes the 3-D convex hull of an unstructured point set.
//
// The result is a closed triangulated polyhedron whose vertices are a subset
// of the input points and whose faces wind counter-clockwise when seen from
// outside, so the right-hand-rule normal of every face points away from the
// hull interior.
package hull

import (
	"errors"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

var (
	// ErrInsufficientPoints is returned when fewer than 4 points are supplied.
	ErrInsufficientPoints = errors.New("insufficient points for a 3-D hull")
	// ErrDegenerateInput is returned when the points are coincident, collinear
	// or coplanar, so no solid hull exists.
	ErrDegenerateInput = errors.New("degenerate input: points do not span 3-D space")
)

// Hull is a convex polyhedron built from a point cloud.
type Hull struct {
	// Vertices are the input points that lie on the hull, in input order.
	Vertices []v3.Vec `json:"vertices"`
	// Source maps each vertex back to its index in the input slice.
	Source []int `json:"source"`
	// Faces are vertex index triples with outward winding.
	Faces [][3]int `json:"faces"`
}

// VertexCount returns the number of hull vertices.
func (h *Hull) VertexCount() int {
	return len(h.Vertices)
}

// FaceCount returns the number of triangular faces.
func (h *Hull) FaceCount() int {
	return len(h.Faces)
}

// Triangle returns the corner positions of face i.
func (h *Hull) Triangle(i int) sdf.Triangle3 {
	f := h.Faces[i]
	return sdf.Triangle3{h.Vertices[f[0]], h.Vertices[f[1]], h.Vertices[f[2]]}
}

// Normal returns the unit outward normal of face i.
func (h *Hull) Normal(i int) v3.Vec {
	t := h.Triangle(i)
	return t.Normal()
}

// SignedDistance returns the distance of p from the plane of face i,
// positive outside the hull.
func (h *Hull) SignedDistance(i int, p v3.Vec) float64 {
	return h.Normal(i).Dot(p.Sub(h.Vertices[h.Faces[i][0]]))
}

// Contains reports whether p lies inside the hull or within tol of its
// boundary.
func (h *Hull) Contains(p v3.Vec, tol float64) bool {
	for i := range h.Faces {
		if h.SignedDistance(i, p) > tol {
			return false
		}
	}
	return true
}

// Centroid returns the mean of the hull vertices. For a convex hull this is
// always an interior point.
func (h *Hull) Centroid() v3.Vec {
	var c v3.Vec
	if len(h.Vertices) == 0 {
		return c
	}
	for _, v := range h.Vertices {
		c = c.Add(v)
	}
	return c.MulScalar(1 / float64(len(h.Vertices)))
}

// BoundingBox returns the axis-aligned bounding box of the hull.
func (h *Hull) BoundingBox() sdf.Box3 {
	if len(h.Vertices) == 0 {
		return sdf.Box3{}
	}
	bb := sdf.Box3{Min: h.Vertices[0], Max: h.Vertices[0]}
	for _, v := range h.Vertices[1:] {
		bb.Min = bb.Min.Min(v)
		bb.Max = bb.Max.Max(v)
	}
	return bb
}

// roundoff is the relative size of float64 rounding in plane distance
// tests, taken as a few dozen units in the last place.
const roundoff = 64 * 0x1p-52

// epsilon is the plane distance tolerance for points: tol times the
// diagonal of their bounding box, but never below the rounding noise of
// their largest coordinate. A small shape far from the origin keeps its
// detail.
func epsilon(points []v3.Vec, tol float64) float64 {
	lo, hi := points[0], points[0]
	var mag float64
	for _, p := range points {
		lo = lo.Min(p)
		hi = hi.Max(p)
		mag = math.Max(mag, math.Max(math.Abs(p.X), math.Max(math.Abs(p.Y), math.Abs(p.Z))))
	}
	return math.Max(tol*hi.Sub(lo).Length(), roundoff*mag)
}
