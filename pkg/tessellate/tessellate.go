// Package tessellate turns convex hulls into flat-shaded triangle meshes and
// walks a scene to produce one mesh per named shape.
package tessellate

import (
	"fmt"

	"github.com/chazu/supportmesh/pkg/hull"
	"github.com/chazu/supportmesh/pkg/kernel"
	"github.com/chazu/supportmesh/pkg/scene"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// FromHull emits three fresh vertices per hull face, each carrying the
// face's unit normal, so faces shade flat. Indices run 0..3F-1 in emitted
// order. Sliver faces whose corners collapse to zero area once narrowed to
// float32 are skipped.
func FromHull(h *hull.Hull) *kernel.Mesh {
	n := h.FaceCount()
	m := &kernel.Mesh{
		Vertices: make([]float32, 0, 9*n),
		Normals:  make([]float32, 0, 9*n),
		Indices:  make([]uint32, 0, 3*n),
	}
	for i := 0; i < n; i++ {
		tri := h.Triangle(i)
		var corners [3][3]float32
		for j, p := range tri {
			corners[j] = [3]float32{float32(p.X), float32(p.Y), float32(p.Z)}
		}
		if collapsed(corners) {
			continue
		}
		normal := tri.Normal()
		for _, c := range corners {
			m.Indices = append(m.Indices, uint32(len(m.Vertices)/3))
			m.Vertices = append(m.Vertices, c[0], c[1], c[2])
			m.Normals = append(m.Normals, float32(normal.X), float32(normal.Y), float32(normal.Z))
		}
	}
	return m
}

// collapsed reports whether the narrowed triangle has zero area.
func collapsed(c [3][3]float32) bool {
	var p [3]v3.Vec
	for j := range c {
		p[j] = v3.Vec{X: float64(c[j][0]), Y: float64(c[j][1]), Z: float64(c[j][2])}
	}
	return p[1].Sub(p[0]).Cross(p[2].Sub(p[0])).Length() == 0
}

// Tessellate walks the scene and produces one mesh per entry using the
// provided kernel. Meshes are named after their entries and returned in scene
// order. The tessellator is read-only and never mutates the scene.
func Tessellate(s *scene.Scene, k kernel.Kernel) ([]*kernel.Mesh, error) {
	if s == nil {
		return nil, nil
	}

	meshes := make([]*kernel.Mesh, 0, s.Len())
	for i, e := range s.Entries {
		mesh, err := k.ToMesh(e.Shape, s.Samples(e))
		if err != nil {
			return nil, fmt.Errorf("tessellate: ToMesh failed for shape %s: %w", entryLabel(e, i), err)
		}
		mesh.Name = entryLabel(e, i)
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

// entryLabel prefers the entry's name, falling back to its position.
func entryLabel(e *scene.Entry, i int) string {
	if e.Name != "" {
		return e.Name
	}
	return fmt.Sprintf("#%d", i)
}
