package geometry

import "github.com/go-gl/mathgl/mgl32"

// Vector2 is an immutable 2-component float32 value used for texture coordinates
type Vector2 struct {
	mgl32.Vec2
}

// Vector2Key is the comparable hash key of a Vector2
type Vector2Key [2]uint32

// NewVector2 creates a new 2D vector
func NewVector2(u, v float32) Vector2 {
	return Vector2{mgl32.Vec2{u, v}}
}

// Equal reports whether both vectors have the same component bits.
// +0 equals -0, and NaN equals a NaN with the same payload.
func (v Vector2) Equal(other Vector2) bool {
	return v.Key() == other.Key()
}

// Key returns the bit-exact key of the vector
func (v Vector2) Key() Vector2Key {
	return Vector2Key{floatBits(v.X()), floatBits(v.Y())}
}
