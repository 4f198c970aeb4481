// Package kernel defines the geometry kernel interface that turns a support
// shape into a renderable mesh. Implementations (see kernel/sampled) decide
// how the shape's surface is discovered; the rest of the system only sees
// this interface and the Mesh it produces.
package kernel

import (
	"github.com/chazu/supportmesh/pkg/hull"
	"github.com/chazu/supportmesh/pkg/support"
)

// Kernel is the abstract geometry kernel interface.
// Implementations must be safe to call repeatedly; every call owns its output.
type Kernel interface {
	// Hull samples the shape's support function and returns the convex
	// hull of the resulting points.
	Hull(s support.Shape, samples int) (*hull.Hull, error)

	// Mesh output
	ToMesh(s support.Shape, samples int) (*Mesh, error)
}
