// Package pointcloud samples a support shape into a cloud of surface points.
package pointcloud

import (
	"github.com/chazu/supportmesh/pkg/sampling"
	"github.com/chazu/supportmesh/pkg/support"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Generate evaluates s at each of the n lattice directions and returns the
// support points in sample order. Duplicates are kept; the hull builder
// tolerates them.
func Generate(s support.Shape, n int) ([]v3.Vec, error) {
	if err := sampling.CheckCount(n); err != nil {
		return nil, err
	}
	points := make([]v3.Vec, n)
	for i := range points {
		points[i] = s.Support(sampling.Direction(i, n))
	}
	return points, nil
}

// Bounds returns the axis-aligned bounding box of points. An empty cloud
// yields the zero box.
func Bounds(points []v3.Vec) sdf.Box3 {
	if len(points) == 0 {
		return sdf.Box3{}
	}
	bb := sdf.Box3{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		bb.Min = bb.Min.Min(p)
		bb.Max = bb.Max.Max(p)
	}
	return bb
}
