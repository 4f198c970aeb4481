package kernel

import (
	"strings"
	"testing"

	"github.com/chazu/supportmesh/pkg/hull"
	"github.com/chazu/supportmesh/pkg/support"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// --- Mesh helper method tests ---

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float32{1, 2, 3}, 1},
		{"four vertices", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
		want    int
	}{
		{"empty", nil, 0},
		{"one triangle", []uint32{0, 1, 2}, 1},
		{"two triangles", []uint32{0, 1, 2, 2, 3, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: tt.indices}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	t.Run("empty mesh", func(t *testing.T) {
		m := &Mesh{}
		if !m.IsEmpty() {
			t.Error("IsEmpty() = false for empty mesh, want true")
		}
	})
	t.Run("non-empty mesh", func(t *testing.T) {
		m := &Mesh{Vertices: []float32{1, 2, 3}}
		if m.IsEmpty() {
			t.Error("IsEmpty() = true for non-empty mesh, want false")
		}
	})
}

func TestMeshValidate(t *testing.T) {
	// Two triangles of a unit square, flat shaded.
	square := func() *Mesh {
		return &Mesh{
			Name:     "square",
			Vertices: []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 0, 0, 1, 1, 0, 0, 1, 0},
			Normals:  []float32{0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1},
			Indices:  []uint32{0, 1, 2, 3, 4, 5},
		}
	}

	tests := []struct {
		name    string
		mutate  func(m *Mesh)
		wantErr string
	}{
		{"valid", func(m *Mesh) {}, ""},
		{"empty", func(m *Mesh) { *m = Mesh{} }, ""},
		{"ragged vertices", func(m *Mesh) { m.Vertices = m.Vertices[:17] }, "not a multiple of 3"},
		{"missing normals", func(m *Mesh) { m.Normals = m.Normals[:9] }, "normal floats"},
		{"ragged indices", func(m *Mesh) { m.Indices = m.Indices[:5] }, "index count"},
		{"out of range", func(m *Mesh) { m.Indices[5] = 6 }, "out of range"},
		{"repeated vertex", func(m *Mesh) { m.Indices[1] = 0 }, "repeats a vertex"},
		{"zero area", func(m *Mesh) { copy(m.Vertices[6:9], []float32{2, 0, 0}) }, "zero area"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := square()
			tt.mutate(m)
			err := m.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

// --- Compile-time interface check with a stub kernel ---

// stubKernel is a minimal Kernel implementation that proves the interface
// is satisfiable. It always returns a unit tetrahedron.
type stubKernel struct{}

func (k *stubKernel) Hull(_ support.Shape, _ int) (*hull.Hull, error) {
	return hull.Build([]v3.Vec{{}, {X: 1}, {Y: 1}, {Z: 1}})
}

func (k *stubKernel) ToMesh(_ support.Shape, _ int) (*Mesh, error) {
	return &Mesh{}, nil
}

// Compile-time check that the stub implements the interface.
var _ Kernel = (*stubKernel)(nil)

func TestStubKernelHull(t *testing.T) {
	var k Kernel = &stubKernel{}
	h, err := k.Hull(support.Ball{Radius: 1}, 10)
	if err != nil {
		t.Fatalf("Hull() error = %v", err)
	}
	if h.VertexCount() != 4 || h.FaceCount() != 4 {
		t.Errorf("Hull() = %d vertices, %d faces, want 4 and 4", h.VertexCount(), h.FaceCount())
	}
}

func TestStubKernelToMesh(t *testing.T) {
	var k Kernel = &stubKernel{}
	m, err := k.ToMesh(support.Ball{Radius: 1}, 10)
	if err != nil {
		t.Fatalf("ToMesh() error = %v", err)
	}
	if m == nil {
		t.Fatal("ToMesh() returned nil mesh")
	}
	if !m.IsEmpty() {
		t.Error("stub ToMesh() should return empty mesh")
	}
}
