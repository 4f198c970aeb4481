package kernel

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Mesh is a flat-shaded triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
// Vertices are never shared between triangles, so each can carry its
// face's normal.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Name     string    `json:"name"`     // which scene entry this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Validate checks the contract a renderer relies on: one normal per vertex,
// indices grouped in threes and in range, and every triangle made of three
// distinct vertices with nonzero area.
func (m *Mesh) Validate() error {
	if len(m.Vertices)%3 != 0 {
		return fmt.Errorf("mesh %q: vertex array length %d is not a multiple of 3", m.Name, len(m.Vertices))
	}
	if len(m.Normals) != len(m.Vertices) {
		return fmt.Errorf("mesh %q: %d normal floats for %d vertex floats", m.Name, len(m.Normals), len(m.Vertices))
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh %q: index count %d is not a multiple of 3", m.Name, len(m.Indices))
	}
	n := uint32(m.VertexCount())
	for t := 0; t < m.TriangleCount(); t++ {
		a, b, c := m.Indices[3*t], m.Indices[3*t+1], m.Indices[3*t+2]
		if a >= n || b >= n || c >= n {
			return fmt.Errorf("mesh %q: triangle %d references vertex out of range", m.Name, t)
		}
		if a == b || b == c || a == c {
			return fmt.Errorf("mesh %q: triangle %d repeats a vertex", m.Name, t)
		}
		if m.area2(a, b, c) == 0 {
			return fmt.Errorf("mesh %q: triangle %d has zero area", m.Name, t)
		}
	}
	return nil
}

// area2 is twice the triangle's area.
func (m *Mesh) area2(a, b, c uint32) float64 {
	pa, pb, pc := m.vertex(a), m.vertex(b), m.vertex(c)
	return pb.Sub(pa).Cross(pc.Sub(pa)).Length()
}

// vertex returns vertex i widened to float64.
func (m *Mesh) vertex(i uint32) v3.Vec {
	return v3.Vec{
		X: float64(m.Vertices[3*i]),
		Y: float64(m.Vertices[3*i+1]),
		Z: float64(m.Vertices[3*i+2]),
	}
}
