// Package sampled implements the kernel.Kernel interface by sampling a
// shape's support function along Fibonacci-sphere directions and taking the
// convex hull of the resulting points.
package sampled

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/chazu/supportmesh/pkg/hull"
	"github.com/chazu/supportmesh/pkg/kernel"
	"github.com/chazu/supportmesh/pkg/logging"
	"github.com/chazu/supportmesh/pkg/pointcloud"
	"github.com/chazu/supportmesh/pkg/support"
	"github.com/chazu/supportmesh/pkg/tessellate"
)

// Compile-time interface check.
var _ kernel.Kernel = (*Kernel)(nil)

// Kernel holds no per-call state; calls may run concurrently.
type Kernel struct {
	Builder *hull.Builder
	Logger  *log.Logger
}

// New returns a Kernel using the default hull tolerance and the shared logger.
func New() *Kernel {
	return &Kernel{
		Builder: hull.NewBuilder(),
		Logger:  logging.Logger(),
	}
}

// WithTolerance returns a Kernel whose hull builder uses the given relative
// tolerance.
func WithTolerance(tol float64) *Kernel {
	k := New()
	k.Builder = &hull.Builder{Tolerance: tol}
	return k
}

// Hull samples s along n directions and returns the hull of the points.
func (k *Kernel) Hull(s support.Shape, n int) (*hull.Hull, error) {
	if err := support.Validate(s); err != nil {
		return nil, err
	}
	points, err := pointcloud.Generate(s, n)
	if err != nil {
		return nil, fmt.Errorf("sampling %v: %w", s, err)
	}
	k.logger().Debug("point cloud", "shape", s.Kind(), "samples", n, "bounds", pointcloud.Bounds(points))

	h, err := k.builder().Build(points)
	if err != nil {
		return nil, fmt.Errorf("hull of %v: %w", s, err)
	}
	k.logger().Debug("hull", "shape", s.Kind(), "vertices", h.VertexCount(), "faces", h.FaceCount())
	return h, nil
}

// ToMesh builds the hull of s and tessellates it into a flat-shaded mesh.
func (k *Kernel) ToMesh(s support.Shape, n int) (*kernel.Mesh, error) {
	h, err := k.Hull(s, n)
	if err != nil {
		return nil, err
	}
	return tessellate.FromHull(h), nil
}

func (k *Kernel) builder() *hull.Builder {
	if k.Builder == nil {
		return hull.NewBuilder()
	}
	return k.Builder
}

func (k *Kernel) logger() *log.Logger {
	if k.Logger == nil {
		return logging.Logger()
	}
	return k.Logger
}
