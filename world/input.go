package world

import (
	"github.com/milk9111/scavenger/common"
	"github.com/milk9111/scavenger/ecs"
	"github.com/milk9111/scavenger/ecs/component"
	"github.com/milk9111/scavenger/loot"
)

// The methods below are the contract of the input collaborator. They are
// called between frames and return whether the request was applied; invalid
// requests are ignored.

func (w *World) Walk(e ecs.Entity, dir component.Facing) bool {
	if !w.mode.Simulating() {
		return false
	}
	return w.scene.Walk(e, dir)
}

func (w *World) StopMoving(e ecs.Entity) bool {
	if !w.mode.Simulating() {
		return false
	}
	return w.scene.StopMoving(e)
}

func (w *World) SetTarget(e, target ecs.Entity) bool {
	if w.mode != Exploring {
		return false
	}
	return w.scene.SetTarget(e, target)
}

func (w *World) Jump() bool {
	if !w.mode.Simulating() {
		return false
	}
	ok, err := w.scene.Jump(w.scene.Player)
	if err != nil {
		w.log.Error("jump failed", "error", err)
		return false
	}
	return ok
}

func (w *World) Fall() bool {
	if w.mode != Exploring {
		return false
	}
	ok, err := w.scene.Fall(w.scene.Player)
	if err != nil {
		w.log.Error("fall failed", "error", err)
		return false
	}
	return ok
}

func (w *World) Attack() bool {
	if w.mode != Combat {
		return false
	}
	return w.scene.Attack()
}

func (w *World) Fire() bool {
	if w.mode != Combat {
		return false
	}
	return w.scene.Fire()
}

func (w *World) Consume(kind loot.ItemKind) bool {
	if !w.mode.Simulating() {
		return false
	}
	return w.scene.Consume(kind)
}

// TouchUp handles a tap at world coordinates. It returns the object that was
// hit, if any, and whether the tap did something.
func (w *World) TouchUp(x, y float64) (ecs.Entity, bool) {
	if w.mode != Exploring {
		return 0, false
	}
	return w.scene.TouchUp(x, y)
}

// AcknowledgeSpawn is the presentation layer confirming a spawn animation
// finished.
func (w *World) AcknowledgeSpawn(e ecs.Entity) bool {
	return w.scene.AcknowledgeSpawn(e)
}

// SetZombieHitBoxes overrides the arm and charge boxes of a zombie for the
// next frame.
func (w *World) SetZombieHitBoxes(e ecs.Entity, arm, charge common.Collider) bool {
	z, ok := ecs.Get(w.ecs, e, component.ZombieComponent.Kind())
	if !ok {
		return false
	}
	z.ArmCollider = arm
	z.ChargeCollider = charge
	z.HitBoxesSet = true
	return true
}
