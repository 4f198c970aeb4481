package support

import (
	"errors"
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrInvalidShape is wrapped by every error returned from Validate.
var ErrInvalidShape = errors.New("invalid shape")

// Validate checks that a shape's parameters describe a real convex body:
// finite values, non-negative radii and extents, non-empty compounds.
func Validate(s Shape) error {
	switch v := s.(type) {
	case nil:
		return fmt.Errorf("%w: nil shape", ErrInvalidShape)
	case Ball:
		return checkRadius("ball", "radius", v.Radius)
	case Cuboid:
		if err := checkVec("cuboid", "half-extents", v.HalfExtents); err != nil {
			return err
		}
		if v.HalfExtents.X < 0 || v.HalfExtents.Y < 0 || v.HalfExtents.Z < 0 {
			return fmt.Errorf("%w: cuboid: half-extents must be non-negative, got %v", ErrInvalidShape, v.HalfExtents)
		}
		return nil
	case Capsule:
		if err := checkVec("capsule", "a", v.A); err != nil {
			return err
		}
		if err := checkVec("capsule", "b", v.B); err != nil {
			return err
		}
		return checkRadius("capsule", "radius", v.Radius)
	case Cone:
		if err := checkRadius("cone", "height", v.Height); err != nil {
			return err
		}
		return checkRadius("cone", "radius", v.Radius)
	case TaperedCapsule:
		if err := checkVec("tapered-capsule", "a", v.A); err != nil {
			return err
		}
		if err := checkVec("tapered-capsule", "b", v.B); err != nil {
			return err
		}
		if err := checkRadius("tapered-capsule", "radius-a", v.RadiusA); err != nil {
			return err
		}
		return checkRadius("tapered-capsule", "radius-b", v.RadiusB)
	case Compound:
		if len(v.Shapes) == 0 {
			return fmt.Errorf("%w: compound: no shapes", ErrInvalidShape)
		}
		for i, child := range v.Shapes {
			if err := Validate(child); err != nil {
				return fmt.Errorf("compound: shape %d: %w", i, err)
			}
		}
		return nil
	case Translated:
		if err := checkVec("translate", "offset", v.Offset); err != nil {
			return err
		}
		if err := Validate(v.Shape); err != nil {
			return fmt.Errorf("translate: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: unsupported shape type %T", ErrInvalidShape, s)
	}
}

func checkRadius(shape, field string, r float64) error {
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return fmt.Errorf("%w: %s: %s must be finite, got %g", ErrInvalidShape, shape, field, r)
	}
	if r < 0 {
		return fmt.Errorf("%w: %s: %s must be non-negative, got %g", ErrInvalidShape, shape, field, r)
	}
	return nil
}

func checkVec(shape, field string, v v3.Vec) error {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("%w: %s: %s must be finite, got %v", ErrInvalidShape, shape, field, v)
		}
	}
	return nil
}
