package main

import (
	"github.com/charmbracelet/log"
	"github.com/chazu/supportmesh/pkg/config"
	"github.com/chazu/supportmesh/pkg/engine"
	"github.com/chazu/supportmesh/pkg/kernel"
	"github.com/chazu/supportmesh/pkg/kernel/sampled"
	"github.com/chazu/supportmesh/pkg/kernel/sdfx"
	"github.com/chazu/supportmesh/pkg/logging"
	"github.com/chazu/supportmesh/pkg/scene"
	"github.com/chazu/supportmesh/pkg/tessellate"
	"github.com/google/uuid"
)

// colorPalette is a default palette used to assign distinct colors to shapes.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App ties the shape engine to the geometry kernel. A viewer calls Evaluate
// and renders the returned meshes.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
	logger *log.Logger
}

// MeshData is the JSON-serializable mesh format handed to a viewer.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
}

// Mesh converts d back into a kernel mesh.
func (d MeshData) Mesh() *kernel.Mesh {
	return &kernel.Mesh{
		Vertices: d.Vertices,
		Normals:  d.Normals,
		Indices:  d.Indices,
		Name:     d.Name,
	}
}

// EvalErrorData is a JSON-serializable eval error or warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
	Shape   string `json:"shape,omitempty"`
}

// EvalResult is the full result of one evaluation. ID correlates the result
// with its log lines.
type EvalResult struct {
	ID       string          `json:"id"`
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// OK reports whether the evaluation produced no errors.
func (r EvalResult) OK() bool {
	return len(r.Errors) == 0
}

// NewApp creates a new App with default settings.
func NewApp() *App {
	return NewAppWithConfig(config.Default())
}

// NewAppWithConfig creates an App whose engine and kernel follow cfg.
func NewAppWithConfig(cfg config.Config) *App {
	eng := engine.NewEngine()
	eng.DefaultSamples = cfg.Samples
	eng.Timeout = cfg.EvalTimeout.Duration
	return &App{
		engine: eng,
		kernel: newKernel(cfg),
		logger: logging.Logger(),
	}
}

// newKernel picks the geometry backend named by cfg.Kernel.
func newKernel(cfg config.Config) kernel.Kernel {
	switch cfg.Kernel {
	case config.KernelSdfx:
		return &sdfx.SdfxKernel{Cells: cfg.MeshCells}
	default:
		return sampled.WithTolerance(cfg.Tolerance)
	}
}

func newResult() EvalResult {
	return EvalResult{
		ID:       uuid.NewString(),
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}
}

// Evaluate takes shape script source and returns mesh data + errors.
func (a *App) Evaluate(source string) EvalResult {
	result := newResult()
	logger := a.logger.With("eval", result.ID)

	// Step 1: Evaluate the Lisp source into a scene.
	s, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		logger.Error("evaluate fatal error", "err", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	// Step 2: Convert eval errors to the result format.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		logger.Debug("evaluate failed", "errors", len(evalErrs))
		return result
	}

	a.build(logger, s, &result)
	return result
}

// EvaluateScene meshes a scene that was built without the engine.
func (a *App) EvaluateScene(s *scene.Scene) EvalResult {
	result := newResult()
	a.build(a.logger.With("eval", result.ID), s, &result)
	return result
}

// build validates and tessellates s into result.
func (a *App) build(logger *log.Logger, s *scene.Scene, result *EvalResult) {
	// Step 3: Validate the scene; errors block meshing, warnings pass through.
	findings := scene.Validate(s)
	for _, f := range findings {
		d := EvalErrorData{Message: f.Message, Shape: f.Entry}
		if f.Severity == scene.SeverityError {
			result.Errors = append(result.Errors, d)
		} else {
			result.Warnings = append(result.Warnings, d)
		}
	}
	if len(result.Errors) > 0 {
		logger.Debug("scene invalid", "errors", len(result.Errors))
		return
	}

	// Step 4: Tessellate the scene into triangle meshes.
	meshes, err := tessellate.Tessellate(s, a.kernel)
	if err != nil {
		logger.Error("tessellate error", "err", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		return
	}

	// Step 5: Convert kernel meshes to the MeshData format.
	for i, m := range meshes {
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			Name:     m.Name,
			Color:    colorPalette[i%len(colorPalette)],
		})
	}
	logger.Debug("evaluated", "shapes", s.Len(), "warnings", len(result.Warnings))
}
