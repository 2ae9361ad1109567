package types

import "math"

// Cuboid is a width and height pair.
type Cuboid[T float32 | uint32] struct {
	Width  T
	Height T
}

// AABB is an axis-aligned rectangle on the sprite sheet, positioned by its
// translation.
type AABB struct {
	Rect Cuboid[uint32]
	X, Y uint32
}

// Translate moves the rectangle by (dx, dy). The position is clamped to the
// uint32 range, so a box never wraps past the sheet origin.
func (a *AABB) Translate(dx, dy int32) {
	a.X = shift(a.X, dx)
	a.Y = shift(a.Y, dy)
}

func shift(v uint32, d int32) uint32 {
	n := int64(v) + int64(d)
	switch {
	case n < 0:
		return 0
	case n > math.MaxUint32:
		return math.MaxUint32
	}
	return uint32(n)
}

// BoundingBox is an oriented rectangle: a size plus a rigid transform made of
// a translation and a rotation angle in radians.
type BoundingBox struct {
	Rect  Cuboid[float32]
	X, Y  float32
	Angle float32
}

// NewBoundingBox returns an unrotated box of the given size at (x, y).
func NewBoundingBox(x, y, width, height float32) BoundingBox {
	return BoundingBox{Rect: Cuboid[float32]{Width: width, Height: height}, X: x, Y: y}
}

// Translate appends a translation to the transform.
func (b *BoundingBox) Translate(dx, dy float32) {
	b.X += dx
	b.Y += dy
}

// Rotate turns the box about its own position. The stored angle is kept in
// (-pi, pi].
func (b *BoundingBox) Rotate(angle float32) {
	a := math.Remainder(float64(b.Angle)+float64(angle), 2*math.Pi)
	if a == -math.Pi {
		a = math.Pi
	}
	b.Angle = float32(a)
}
