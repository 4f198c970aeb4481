// Package export writes meshes to files for viewers outside this process.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chazu/supportmesh/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Triangles converts a mesh back into sdfx triangles, one per index triple.
func Triangles(m *kernel.Mesh) []*sdf.Triangle3 {
	tris := make([]*sdf.Triangle3, 0, m.TriangleCount())
	for t := 0; t < m.TriangleCount(); t++ {
		var tri sdf.Triangle3
		for c := 0; c < 3; c++ {
			i := m.Indices[3*t+c]
			tri[c] = v3.Vec{
				X: float64(m.Vertices[3*i]),
				Y: float64(m.Vertices[3*i+1]),
				Z: float64(m.Vertices[3*i+2]),
			}
		}
		tris = append(tris, &tri)
	}
	return tris
}

// WriteSTL saves m as a binary STL file at path.
func WriteSTL(path string, m *kernel.Mesh) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := render.SaveSTL(path, Triangles(m)); err != nil {
		return fmt.Errorf("export: writing %s: %w", path, err)
	}
	return nil
}

// document is the JSON layout written by WriteJSON.
type document struct {
	Meshes []*kernel.Mesh `json:"meshes"`
}

// WriteJSON encodes meshes as a single JSON document.
func WriteJSON(w io.Writer, meshes []*kernel.Mesh) error {
	if meshes == nil {
		meshes = []*kernel.Mesh{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(document{Meshes: meshes}); err != nil {
		return fmt.Errorf("export: encoding json: %w", err)
	}
	return nil
}

// ReadJSON decodes a document written by WriteJSON.
func ReadJSON(r io.Reader) ([]*kernel.Mesh, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("export: decoding json: %w", err)
	}
	return doc.Meshes, nil
}

// FileName returns the output file for a named mesh in dir.
func FileName(dir, name, format string) string {
	return filepath.Join(dir, name+"."+format)
}

// WriteFile writes m to dir in the given format ("stl" or "json") and
// returns the path written.
func WriteFile(dir string, m *kernel.Mesh, format string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	path := FileName(dir, m.Name, format)
	switch format {
	case "stl":
		return path, WriteSTL(path, m)
	case "json":
		f, err := os.Create(path)
		if err != nil {
			return "", fmt.Errorf("export: %w", err)
		}
		defer f.Close()
		return path, WriteJSON(f, []*kernel.Mesh{m})
	default:
		return "", fmt.Errorf("export: unknown format %q", format)
	}
}
