// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library. Shapes are converted to
// signed distance fields and meshed with marching cubes, which makes this a
// reference backend for checking the sampled kernel against an independent
// surface extraction.
package sdfx

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/supportmesh/pkg/hull"
	"github.com/chazu/supportmesh/pkg/kernel"
	"github.com/chazu/supportmesh/pkg/support"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// ErrUnsupported is returned for shapes that have no exact distance field.
var ErrUnsupported = errors.New("shape has no sdfx equivalent")

// DefaultMeshCells controls marching cubes tessellation resolution.
const DefaultMeshCells = 64

// SdfxKernel implements kernel.Kernel using sdfx. The samples argument of
// Hull and ToMesh is ignored; Cells sets the resolution instead.
type SdfxKernel struct {
	Cells int
}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{Cells: DefaultMeshCells}
}

// SDF converts a support shape to an sdfx solid.
func SDF(s support.Shape) (sdf.SDF3, error) {
	switch v := s.(type) {
	case support.Ball:
		return sdf.Sphere3D(v.Radius)
	case support.Cuboid:
		return sdf.Box3D(v.HalfExtents.MulScalar(2), 0)
	case support.Cone:
		// sdf.Cone3D runs along Z with r0 at the bottom; turn +Z into +Y.
		c, err := sdf.Cone3D(v.Height, v.Radius, 0, 0)
		if err != nil {
			return nil, err
		}
		return sdf.Transform3D(c, sdf.RotateX(-math.Pi/2)), nil
	case support.Capsule:
		return capsule(v)
	case support.Translated:
		child, err := SDF(v.Shape)
		if err != nil {
			return nil, err
		}
		return sdf.Transform3D(child, sdf.Translate3d(v.Offset)), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, s)
	}
}

// capsule is two end spheres joined by a cylinder along the segment.
func capsule(c support.Capsule) (sdf.SDF3, error) {
	a, err := sdf.Sphere3D(c.Radius)
	if err != nil {
		return nil, err
	}
	axis := c.B.Sub(c.A)
	length := axis.Length()
	if length == 0 {
		return sdf.Transform3D(a, sdf.Translate3d(c.A)), nil
	}
	body, err := sdf.Cylinder3D(length, c.Radius, 0)
	if err != nil {
		return nil, err
	}
	mid := c.A.Add(c.B).MulScalar(0.5)
	m := sdf.Translate3d(mid).Mul(sdf.RotateToVector(v3.Vec{Z: 1}, axis.Normalize()))
	return sdf.Union3D(
		sdf.Transform3D(a, sdf.Translate3d(c.A)),
		sdf.Transform3D(a, sdf.Translate3d(c.B)),
		sdf.Transform3D(body, m),
	), nil
}

func (k *SdfxKernel) cells() int {
	if k.Cells > 0 {
		return k.Cells
	}
	return DefaultMeshCells
}

// triangles meshes s with marching cubes.
func (k *SdfxKernel) triangles(s support.Shape) ([]*sdf.Triangle3, error) {
	if err := support.Validate(s); err != nil {
		return nil, err
	}
	sdf3, err := SDF(s)
	if err != nil {
		return nil, fmt.Errorf("sdfx: %w", err)
	}
	renderer := render.NewMarchingCubesUniform(k.cells())
	return render.ToTriangles(sdf3, renderer), nil
}

// Hull returns the convex hull of the marching cubes vertices.
func (k *SdfxKernel) Hull(s support.Shape, samples int) (*hull.Hull, error) {
	tris, err := k.triangles(s)
	if err != nil {
		return nil, err
	}
	points := make([]v3.Vec, 0, 3*len(tris))
	for _, t := range tris {
		points = append(points, t[0], t[1], t[2])
	}
	h, err := hull.Build(points)
	if err != nil {
		return nil, fmt.Errorf("sdfx: hull of %v: %w", s, err)
	}
	return h, nil
}

// ToMesh converts a shape to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s support.Shape, samples int) (*kernel.Mesh, error) {
	triangles, err := k.triangles(s)
	if err != nil {
		return nil, err
	}

	numVerts := len(triangles) * 3
	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for _, tri := range triangles {
		var corners [3]v3.Vec
		for j := 0; j < 3; j++ {
			corners[j] = v3.Vec{
				X: float64(float32(tri[j].X)),
				Y: float64(float32(tri[j].Y)),
				Z: float64(float32(tri[j].Z)),
			}
		}
		// Slivers can collapse once narrowed to float32.
		if corners[1].Sub(corners[0]).Cross(corners[2].Sub(corners[0])).Length() == 0 {
			continue
		}

		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			indices = append(indices, uint32(len(vertices)/3))
			vertices = append(vertices, float32(corners[j].X), float32(corners[j].Y), float32(corners[j].Z))
			normals = append(normals, nx, ny, nz)
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}
