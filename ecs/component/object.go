package component

import (
	"github.com/google/uuid"
	"github.com/milk9111/scavenger/common"
	"github.com/milk9111/scavenger/ecs"
	"github.com/milk9111/scavenger/terrain"
)

// ObjectKind tags the variant of a world object. Per-frame updates dispatch on
// it once per entity.
type ObjectKind uint8

const (
	KindPlayer ObjectKind = iota
	KindZombie
	KindTree
	KindBox
	KindItem
)

func (k ObjectKind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindZombie:
		return "zombie"
	case KindTree:
		return "tree"
	case KindBox:
		return "box"
	case KindItem:
		return "item"
	default:
		return "unknown"
	}
}

// Object is the part every simulated entity shares: where it is, which layer
// owns it and what it collides with.
type Object struct {
	Kind     ObjectKind
	ID       uuid.UUID
	Cell     terrain.Cell
	Position common.Vec2
	Collider common.Collider
}

// Snap re-syncs the collider to the object position.
func (o *Object) Snap() {
	o.Collider.Snap(o.Position)
}

var ObjectComponent = ecs.NewComponent[Object]()

// Mobility carries the integrator state of objects that move.
type Mobility struct {
	Velocity     common.Vec2
	Acceleration common.Vec2
}

// Stop zeroes velocity and acceleration.
func (m *Mobility) Stop() {
	m.Velocity = common.Vec2{}
	m.Acceleration = common.Vec2{}
}

var MobilityComponent = ecs.NewComponent[Mobility]()
