package terrain

import (
	"math"

	"github.com/milk9111/scavenger/common"
	"github.com/milk9111/scavenger/ecs"
)

// ShapeKind selects the height function of a layer.
type ShapeKind uint8

const (
	ShapeConstant ShapeKind = iota
	ShapeLinear
	ShapeCosine
	shapeKindCount
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeConstant:
		return "constant"
	case ShapeLinear:
		return "linear"
	case ShapeCosine:
		return "cosine"
	default:
		return "unknown"
	}
}

// Shape parameterises a layer height function. Base is the absolute height
// of the layer; Slope applies to linear shapes and Amplitude/Frequency to
// cosine shapes.
type Shape struct {
	Kind      ShapeKind
	Base      float64
	Slope     float64
	Amplitude float64
	Frequency float64
}

// Layer is one horizontal band of ground plus the objects registered on it.
type Layer struct {
	Cell  Cell
	Shape Shape
	Left  common.Vec2
	Right common.Vec2

	width   float64
	objects []ecs.Entity
}

func newLayer(cell Cell, shape Shape, width float64) *Layer {
	l := &Layer{Cell: cell, Shape: shape, width: width}
	left, right := ColumnBounds(cell.Col, width)
	l.Left = common.V(left, l.GroundHeight(left))
	l.Right = common.V(right, l.GroundHeight(right))
	return l
}

// ColumnBounds returns the world-space x range of a column.
func ColumnBounds(col int, width float64) (left, right float64) {
	center := float64(col) * width
	return center - width/2, center + width/2
}

// GroundHeight evaluates the layer height function at x. Values outside the
// layer boundaries are extrapolated.
func (l *Layer) GroundHeight(x float64) float64 {
	s := l.Shape
	switch s.Kind {
	case ShapeLinear:
		center := float64(l.Cell.Col) * l.width
		return s.Base + s.Slope*(x-center)
	case ShapeCosine:
		left, _ := ColumnBounds(l.Cell.Col, l.width)
		return s.Base + s.Amplitude*math.Cos(2*math.Pi*s.Frequency*(x-left)/l.width)
	default:
		return s.Base
	}
}

// Width returns the horizontal extent of the layer.
func (l *Layer) Width() float64 {
	return l.width
}

// Contains reports whether x lies within the layer boundaries.
func (l *Layer) Contains(x float64) bool {
	return x >= l.Left.X && x <= l.Right.X
}

// Objects returns the registered objects in registration order.
func (l *Layer) Objects() []ecs.Entity {
	return l.objects
}

// Register appends e unless it is already registered.
func (l *Layer) Register(e ecs.Entity) {
	for _, o := range l.objects {
		if o == e {
			return
		}
	}
	l.objects = append(l.objects, e)
}

// Deregister removes e keeping the order of the remaining objects.
func (l *Layer) Deregister(e ecs.Entity) bool {
	for i, o := range l.objects {
		if o == e {
			l.objects = append(l.objects[:i], l.objects[i+1:]...)
			return true
		}
	}
	return false
}
