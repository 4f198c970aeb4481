package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/supportmesh/pkg/scene"
	"github.com/chazu/supportmesh/pkg/support"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms shape script source before passing it to
// zygomys. It performs three transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: tapered-capsule -> tapered_capsule
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator).
//
//  3. Line comments: ; and ;; become //, which is what zygomys expects.
//
// All transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, kwPrefix...)
				result = append(result, b[i+1:j]...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Only a hyphen between identifier characters is kebab-case; anything
		// else is a minus sign or a negative literal.
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpShape wraps a support.Shape so it can flow between builtins.
type sexpShape struct {
	shape support.Shape
	name  string // set when the value came from defshape or shape
}

func (s *sexpShape) SexpString(ps *zygo.PrintState) string {
	if s.name != "" {
		return fmt.Sprintf("(shape %q)", s.name)
	}
	return fmt.Sprintf("(%v)", s.shape)
}
func (s *sexpShape) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a v3.Vec.
type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as a flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// arg returns the keyword value if present, else the positional argument at
// index pos, else nil.
func (a kwArgs) arg(kw string, pos int) zygo.Sexp {
	if v, ok := a.kw[kw]; ok {
		return v
	}
	if pos >= 0 && pos < len(a.positional) {
		return a.positional[pos]
	}
	return nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts a whole number from a Sexp.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a v3.Vec from a sexpVec3.
func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toShape extracts a support.Shape from a sexpShape.
func toShape(s zygo.Sexp) (support.Shape, error) {
	if v, ok := s.(*sexpShape); ok {
		return v.shape, nil
	}
	return nil, fmt.Errorf("expected shape, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// floatArg reads a required number, by keyword or position.
func floatArg(pa kwArgs, fn, kw string, pos int) (float64, error) {
	v := pa.arg(kw, pos)
	if v == nil {
		return 0, fmt.Errorf("%s: missing %s", fn, kw)
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %s: %w", fn, kw, err)
	}
	return f, nil
}

// vecArg reads an optional vec3, by keyword or position, falling back to def.
func vecArg(pa kwArgs, fn, kw string, pos int, def v3.Vec) (v3.Vec, error) {
	v := pa.arg(kw, pos)
	if v == nil {
		return def, nil
	}
	vec, err := toVec3(v)
	if err != nil {
		return v3.Vec{}, fmt.Errorf("%s: %s: %w", fn, kw, err)
	}
	return vec, nil
}

// Default segment endpoints for capsules declared without :a and :b.
var (
	defaultSegmentA = v3.Vec{Y: 0.5}
	defaultSegmentB = v3.Vec{Y: -0.5}
)

// newShape validates s and wraps it for the interpreter.
func newShape(fn string, s support.Shape) (zygo.Sexp, error) {
	if err := support.Validate(s); err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
	}
	return &sexpShape{shape: s}, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs all shape DSL builtins into a zygomys environment.
// The builtins operate on the provided Scene, populating it during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, s *scene.Scene) {

	// (vec3 1 2 3)
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}

		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: z: %w", err)
		}

		return &sexpVec3{vec: v3.Vec{X: x, Y: y, Z: z}}, nil
	})

	// (ball 0.5) or (ball :radius 0.5)
	env.AddFunction("ball", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		r, err := floatArg(pa, "ball", "radius", 0)
		if err != nil {
			return zygo.SexpNull, err
		}
		return newShape("ball", support.Ball{Radius: r})
	})

	// (cuboid :half-extents (vec3 0.5 0.5 0.5)) or (cuboid :size (vec3 1 1 1))
	env.AddFunction("cuboid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if v, ok := pa.kw["size"]; ok {
			size, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cuboid: size: %w", err)
			}
			return newShape("cuboid", support.Cuboid{HalfExtents: size.MulScalar(0.5)})
		}
		if pa.arg("half-extents", 0) == nil {
			return zygo.SexpNull, fmt.Errorf("cuboid: missing half-extents or size")
		}
		h, err := vecArg(pa, "cuboid", "half-extents", 0, v3.Vec{})
		if err != nil {
			return zygo.SexpNull, err
		}
		return newShape("cuboid", support.Cuboid{HalfExtents: h})
	})

	// (capsule :a (vec3 0 0.5 0) :b (vec3 0 -0.5 0) :radius 0.5)
	env.AddFunction("capsule", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		a, err := vecArg(pa, "capsule", "a", -1, defaultSegmentA)
		if err != nil {
			return zygo.SexpNull, err
		}
		b, err := vecArg(pa, "capsule", "b", -1, defaultSegmentB)
		if err != nil {
			return zygo.SexpNull, err
		}
		r, err := floatArg(pa, "capsule", "radius", 0)
		if err != nil {
			return zygo.SexpNull, err
		}
		return newShape("capsule", support.Capsule{A: a, B: b, Radius: r})
	})

	// (cone :height 1 :radius 0.5)
	env.AddFunction("cone", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		h, err := floatArg(pa, "cone", "height", 0)
		if err != nil {
			return zygo.SexpNull, err
		}
		r, err := floatArg(pa, "cone", "radius", 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		return newShape("cone", support.Cone{Height: h, Radius: r})
	})

	// (tapered-capsule :a (vec3 0 0.5 0) :b (vec3 0 -0.5 0) :radius-a 0.5 :radius-b 0.2)
	//
	// Registered as "tapered_capsule" because the preprocessor converts
	// kebab-case identifiers to underscore form.
	env.AddFunction("tapered_capsule", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		a, err := vecArg(pa, "tapered-capsule", "a", -1, defaultSegmentA)
		if err != nil {
			return zygo.SexpNull, err
		}
		b, err := vecArg(pa, "tapered-capsule", "b", -1, defaultSegmentB)
		if err != nil {
			return zygo.SexpNull, err
		}
		ra, err := floatArg(pa, "tapered-capsule", "radius-a", 0)
		if err != nil {
			return zygo.SexpNull, err
		}
		rb, err := floatArg(pa, "tapered-capsule", "radius-b", 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		return newShape("tapered-capsule", support.TaperedCapsule{A: a, B: b, RadiusA: ra, RadiusB: rb})
	})

	// (compound (ball 1) (translate (ball 1) :by (vec3 2 0 0)))
	// Lists of shapes are flattened.
	env.AddFunction("compound", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		var shapes []support.Shape
		for i, arg := range args {
			if sh, err := toShape(arg); err == nil {
				shapes = append(shapes, sh)
				continue
			}
			items, err := sexpListToSlice(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("compound: argument %d: expected shape or list of shapes, got %T (%s)",
					i, arg, arg.SexpString(nil))
			}
			for _, item := range items {
				sh, err := toShape(item)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("compound: argument %d: %w", i, err)
				}
				shapes = append(shapes, sh)
			}
		}
		return newShape("compound", support.Compound{Shapes: shapes})
	})

	// (translate (ball 1) :by (vec3 1 2 3)) or (translate (ball 1) (vec3 1 2 3))
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("translate requires a shape as first argument")
		}
		sh, err := toShape(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: shape: %w", err)
		}
		if pa.arg("by", 1) == nil {
			return zygo.SexpNull, fmt.Errorf("translate: missing offset")
		}
		offset, err := vecArg(pa, "translate", "by", 1, v3.Vec{})
		if err != nil {
			return zygo.SexpNull, err
		}
		return newShape("translate", support.Translated{Shape: sh, Offset: offset})
	})

	// (defshape "name" (ball 0.5) :samples 500)
	env.AddFunction("defshape", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 2 {
			return zygo.SexpNull, fmt.Errorf("defshape requires a name and a shape expression")
		}

		shapeName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defshape: name: %w", err)
		}
		sh, err := toShape(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defshape: %w", err)
		}

		entry := &scene.Entry{Name: shapeName, Shape: sh}
		if v, ok := pa.kw["samples"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("defshape: samples: %w", err)
			}
			entry.Samples = n
		}
		s.Add(entry)

		return &sexpShape{shape: sh, name: shapeName}, nil
	})

	// (shape "name")
	env.AddFunction("shape", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("shape requires a name argument")
		}

		shapeName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("shape: name: %w", err)
		}

		e := s.Lookup(shapeName)
		if e == nil {
			return zygo.SexpNull, fmt.Errorf("shape: no shape named %q", shapeName)
		}

		return &sexpShape{shape: e.Shape, name: shapeName}, nil
	})
}
