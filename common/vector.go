package common

import "github.com/jakecoffman/cp"

// Vec2 is a mutable 2D vector. It shares its layout with cp.Vector so the
// chipmunk helpers can be used without copying.
type Vec2 cp.Vector

func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Set overwrites both components.
func (v *Vec2) Set(x, y float64) *Vec2 {
	v.X = x
	v.Y = y
	return v
}

// Add adds o in place.
func (v *Vec2) Add(o Vec2) *Vec2 {
	*v = Vec2(cp.Vector(*v).Add(cp.Vector(o)))
	return v
}

// Scale multiplies both components in place.
func (v *Vec2) Scale(s float64) *Vec2 {
	*v = Vec2(cp.Vector(*v).Mult(s))
	return v
}

func (v Vec2) Plus(o Vec2) Vec2 {
	return Vec2(cp.Vector(v).Add(cp.Vector(o)))
}

func (v Vec2) Times(s float64) Vec2 {
	return Vec2(cp.Vector(v).Mult(s))
}

func (v Vec2) Len() float64 {
	return cp.Vector(v).Length()
}

func (v Vec2) CP() cp.Vector {
	return cp.Vector(v)
}
