package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Vector3 is an immutable 3-component float32 value used for positions and normals
type Vector3 struct {
	mgl32.Vec3
}

// Vector3Key is the comparable hash key of a Vector3
type Vector3Key [3]uint32

// NewVector3 creates a new 3D vector
func NewVector3(x, y, z float32) Vector3 {
	return Vector3{mgl32.Vec3{x, y, z}}
}

// Equal reports whether both vectors have the same component bits.
// +0 equals -0, and NaN equals a NaN with the same payload.
func (v Vector3) Equal(other Vector3) bool {
	return v.Key() == other.Key()
}

// Key returns the bit-exact key of the vector. Equal vectors always have equal keys.
func (v Vector3) Key() Vector3Key {
	return Vector3Key{floatBits(v.X()), floatBits(v.Y()), floatBits(v.Z())}
}

// floatBits returns the IEEE-754 bits of f with negative zero folded onto positive zero
func floatBits(f float32) uint32 {
	if f == 0 {
		return 0
	}
	return math.Float32bits(f)
}
