package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Empty and comment-only sources.
// ---------------------------------------------------------------------------

func TestE2EEmptySourceExtended(t *testing.T) {
	app := NewApp()
	result := app.Evaluate("")

	if len(result.Errors) != 0 {
		t.Errorf("expected 0 errors for empty source, got %d", len(result.Errors))
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected 0 warnings for empty source, got %d", len(result.Warnings))
	}
	// Slices must be non-nil so JSON serializes them as [] not null.
	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"meshes":[]`, `"errors":[]`, `"warnings":[]`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("JSON %s should contain %s", data, key)
		}
	}
}

func TestE2ECommentsOnly(t *testing.T) {
	app := NewApp()
	result := app.Evaluate(";; a comment\n; another one\n")
	if !result.OK() {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes, got %d", len(result.Meshes))
	}
}

func TestE2EWhitespaceOnly(t *testing.T) {
	app := NewApp()
	result := app.Evaluate("  \n\t\n ")
	if !result.OK() || len(result.Meshes) != 0 {
		t.Errorf("expected an empty, error-free result, got %+v", result)
	}
}

// ---------------------------------------------------------------------------
// Syntax and reference errors.
// ---------------------------------------------------------------------------

func TestE2ESyntaxErrorWithLineInfo(t *testing.T) {
	app := NewApp()

	// Valid code on line 1, broken code on line 2 so line info is meaningful.
	source := "(+ 1 2)\n(defshape \"test\""
	result := app.Evaluate(source)

	if len(result.Errors) == 0 {
		t.Fatal("expected at least one eval error for unmatched parens")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on syntax error, got %d", len(result.Meshes))
	}
	if result.Errors[0].Message == "" {
		t.Error("syntax error should have a non-empty message")
	}
}

func TestE2EUndefinedShapeReference(t *testing.T) {
	app := NewApp()
	result := app.Evaluate(`(defshape "moved" (translate (shape "missing") :by (vec3 1 0 0)))`)

	if len(result.Errors) == 0 {
		t.Fatal("expected an error for an undefined shape")
	}
	if !strings.Contains(result.Errors[0].Message, "missing") {
		t.Errorf("error should name the missing shape, got %q", result.Errors[0].Message)
	}
}

func TestE2EUndefinedFunction(t *testing.T) {
	app := NewApp()
	result := app.Evaluate(`(torus 1 0.25)`)
	if len(result.Errors) == 0 {
		t.Fatal("expected an error for an undefined function")
	}
}

// ---------------------------------------------------------------------------
// Degenerate and invalid shapes.
// ---------------------------------------------------------------------------

func TestE2EZeroRadiusBall(t *testing.T) {
	// Every support point coincides, so no solid hull exists.
	app := NewApp()
	result := app.Evaluate(`(defshape "dot" (ball 0))`)

	if len(result.Errors) == 0 {
		t.Fatal("expected a tessellation error for a zero-radius ball")
	}
	if !strings.Contains(result.Errors[0].Message, "tessellation failed") {
		t.Errorf("unexpected error: %q", result.Errors[0].Message)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected no meshes, got %d", len(result.Meshes))
	}
}

func TestE2EFlatCuboid(t *testing.T) {
	app := NewApp()
	result := app.Evaluate(`(defshape "sheet" (cuboid :half-extents (vec3 1 1 0)))`)
	if len(result.Errors) == 0 {
		t.Fatal("expected an error for a coplanar point cloud")
	}
	if !strings.Contains(result.Errors[0].Message, "degenerate") {
		t.Errorf("unexpected error: %q", result.Errors[0].Message)
	}
}

func TestE2ENegativeRadius(t *testing.T) {
	app := NewApp()
	result := app.Evaluate(`(defshape "bad" (ball -0.5))`)
	if len(result.Errors) == 0 {
		t.Fatal("expected an error for a negative radius")
	}
}

func TestE2ETooFewSamples(t *testing.T) {
	app := NewApp()
	result := app.Evaluate(`(defshape "b" (ball 1) :samples 3)`)
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 validation error, got %v", result.Errors)
	}
	if result.Errors[0].Shape != "b" {
		t.Errorf("error should name shape b, got %q", result.Errors[0].Shape)
	}
}

func TestE2EDuplicateNames(t *testing.T) {
	app := NewApp()
	result := app.Evaluate(`
(defshape "a" (ball 1))
(defshape "a" (cone 1 1))
`)
	if len(result.Errors) == 0 {
		t.Fatal("expected a duplicate name error")
	}
	if !strings.Contains(result.Errors[0].Message, "duplicate") {
		t.Errorf("unexpected error: %q", result.Errors[0].Message)
	}
}

// ---------------------------------------------------------------------------
// Rapid re-evaluation, as a watching viewer would do.
// ---------------------------------------------------------------------------

func TestE2ERapidEvaluationAlternating(t *testing.T) {
	// zygomys has global state that is not safe for concurrent sandbox
	// creation, so calls are sequential; the engine mutex serializes them
	// in production anyway.
	app := NewApp()

	sources := []string{
		`(defshape "ok" (ball 0.5) :samples 100)`,
		`(defshape "broken"`,
		``,
		`(shape "missing")`,
		`(defshape "also-ok" (cone 1 0.5) :samples 100)`,
		`(+ 1 2)`,
		`;; just a comment`,
		`(defshape "fine" (capsule :radius 0.2) :samples 100)`,
		`(undefined-func 1 2 3)`,
		`(defshape "last" (cuboid :size (vec3 1 2 3)) :samples 100)`,
	}

	for i, source := range sources {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("iteration %d panicked on source %q: %v", i, source, r)
				}
			}()
			_ = app.Evaluate(source)
		}()
	}

	// The app recovers cleanly after errors.
	if result := app.Evaluate(`(defshape "after" (ball 1) :samples 50)`); !result.OK() {
		t.Errorf("evaluation after errors failed: %v", result.Errors)
	}
}

// ---------------------------------------------------------------------------
// Scale and arithmetic.
// ---------------------------------------------------------------------------

func TestE2ELargeCoordinates(t *testing.T) {
	app := NewApp()
	result := app.Evaluate(`(defshape "far" (translate (ball 10) :by (vec3 100000 -50000 25000)) :samples 400)`)
	if !result.OK() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if err := result.Meshes[0].Mesh().Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestE2EArithmeticParameters(t *testing.T) {
	app := NewApp()
	result := app.Evaluate(`
(def h 2)
(def r (/ h 4.0))
(defshape "cone" (cone :height h :radius (* r 2)))
`)
	if !result.OK() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(result.Meshes))
	}
}

func TestE2EColorPaletteWrapping(t *testing.T) {
	app := NewApp()

	var b strings.Builder
	n := len(colorPalette) + 1
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "(defshape \"s%d\" (translate (ball 0.4) :by (vec3 %d 0 0)) :samples 60)\n", i, i)
	}
	result := app.Evaluate(b.String())

	if !result.OK() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Meshes) != n {
		t.Fatalf("expected %d meshes, got %d", n, len(result.Meshes))
	}
	for i, m := range result.Meshes {
		if m.Color != colorPalette[i%len(colorPalette)] {
			t.Errorf("mesh %q color %s, want %s", m.Name, m.Color, colorPalette[i%len(colorPalette)])
		}
	}
	if result.Meshes[0].Color != result.Meshes[n-1].Color {
		t.Error("palette should wrap around")
	}
}
