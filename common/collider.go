package common

import "github.com/jakecoffman/cp"

// ColliderKind selects which shape a Collider describes.
type ColliderKind uint8

const (
	ColliderRect ColliderKind = iota
	ColliderLine
)

// Collider is either an axis-aligned rectangle anchored at its bottom-left
// corner or a line segment from Pos to Pos+End. Offset is applied when the
// collider is snapped to its owner.
type Collider struct {
	Kind    ColliderKind
	Pos     Vec2
	Width   float64
	Height  float64
	End     Vec2
	OffsetX float64
	OffsetY float64
}

// NewRect builds a rectangle collider whose bottom-left corner sits offX/offY
// away from the owner position.
func NewRect(width, height, offX, offY float64) Collider {
	return Collider{Kind: ColliderRect, Width: width, Height: height, OffsetX: offX, OffsetY: offY}
}

// NewLine builds a segment from a to b in world space.
func NewLine(a, b Vec2) Collider {
	return Collider{Kind: ColliderLine, Pos: a, End: V(b.X-a.X, b.Y-a.Y)}
}

// Snap moves the collider to its owner position.
func (c *Collider) Snap(owner Vec2) {
	c.Pos.Set(owner.X+c.OffsetX, owner.Y+c.OffsetY)
}

// A and B return the segment end points of a line collider.
func (c Collider) A() Vec2 { return c.Pos }
func (c Collider) B() Vec2 { return c.Pos.Plus(c.End) }

// BB returns the bounding box of the collider.
func (c Collider) BB() cp.BB {
	if c.Kind == ColliderLine {
		a, b := c.A(), c.B()
		return cp.BB{L: min(a.X, b.X), B: min(a.Y, b.Y), R: max(a.X, b.X), T: max(a.Y, b.Y)}
	}
	return cp.BB{L: c.Pos.X, B: c.Pos.Y, R: c.Pos.X + c.Width, T: c.Pos.Y + c.Height}
}

// Center returns the middle of the collider.
func (c Collider) Center() Vec2 {
	bb := c.BB()
	return V((bb.L+bb.R)/2, (bb.B+bb.T)/2)
}

// Contains reports whether the point lies inside a rectangle collider.
// Lines contain nothing.
func (c Collider) Contains(p Vec2) bool {
	if c.Kind != ColliderRect {
		return false
	}
	return c.BB().ContainsVect(p.CP())
}

// Intersects is symmetric: rect/rect is AABB overlap, rect/line is a
// segment query against the rectangle, line/line is a proper segment test.
func (c Collider) Intersects(o Collider) bool {
	switch {
	case c.Kind == ColliderRect && o.Kind == ColliderRect:
		return c.BB().Intersects(o.BB())
	case c.Kind == ColliderRect && o.Kind == ColliderLine:
		return c.BB().IntersectsSegment(o.A().CP(), o.B().CP())
	case c.Kind == ColliderLine && o.Kind == ColliderRect:
		return o.BB().IntersectsSegment(c.A().CP(), c.B().CP())
	default:
		return segmentsIntersect(c.A(), c.B(), o.A(), o.B())
	}
}

func segmentsIntersect(p1, p2, p3, p4 Vec2) bool {
	d1 := orient(p3, p4, p1)
	d2 := orient(p3, p4, p2)
	d3 := orient(p1, p2, p3)
	d4 := orient(p1, p2, p4)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) && ((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	switch {
	case d1 == 0 && onSegment(p3, p4, p1):
		return true
	case d2 == 0 && onSegment(p3, p4, p2):
		return true
	case d3 == 0 && onSegment(p1, p2, p3):
		return true
	case d4 == 0 && onSegment(p1, p2, p4):
		return true
	}
	return false
}

func orient(a, b, c Vec2) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

func onSegment(a, b, p Vec2) bool {
	return min(a.X, b.X) <= p.X && p.X <= max(a.X, b.X) && min(a.Y, b.Y) <= p.Y && p.Y <= max(a.Y, b.Y)
}
