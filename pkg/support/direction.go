package support

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// FallbackAxis replaces a zero-length direction.
var FallbackAxis = v3.Vec{X: 0, Y: 1, Z: 0}

// Direction returns dir scaled to unit length. A zero vector, or one whose
// length is not a usable number, yields FallbackAxis instead of NaNs.
func Direction(dir v3.Vec) v3.Vec {
	l := dir.Length()
	if !(l > 0) || l > maxLength {
		return FallbackAxis
	}
	return dir.MulScalar(1 / l)
}

// maxLength guards against Inf lengths; 1/Inf would collapse to zero.
const maxLength = 1e300
