package system

import (
	"github.com/milk9111/scavenger/ecs"
	"github.com/milk9111/scavenger/ecs/component"
)

// Integrate advances obj by one semi-implicit Euler step and re-snaps its
// collider: v += a*dt, pos += (v_old+v_new)/2*dt.
func Integrate(obj *component.Object, mob *component.Mobility, dt float64) {
	old := mob.Velocity
	mob.Velocity.Add(mob.Acceleration.Times(dt))
	obj.Position.Add(old.Plus(mob.Velocity).Times(0.5 * dt))
	obj.Snap()
}

// GroundHeight returns the ground under obj for the level its mode uses.
func (s *Scene) GroundHeight(obj *component.Object, mode component.Mode) (float64, error) {
	if mode == component.Combat {
		return s.Arena.GroundHeight(obj.Position.X), nil
	}
	return s.Level.GroundHeight(obj.Cell, obj.Position.X)
}

// Landed reports whether a falling object reached the ground.
func Landed(obj *component.Object, mob *component.Mobility, ground float64) bool {
	return mob.Velocity.Y < 0 && obj.Position.Y <= ground
}

// LockToGround snaps obj onto the ground. Calling it twice without moving
// yields the same height.
func LockToGround(obj *component.Object, ground float64) {
	obj.Position.Y = ground
	obj.Snap()
}

// Land stops a human on the ground and returns it to idle.
func Land(obj *component.Object, mob *component.Mobility, h *component.Human, ground float64) {
	mob.Stop()
	LockToGround(obj, ground)
	h.SetState(component.StateIdle)
}

// ObjectSystem ticks trees and boxes: state time, collider snapping and
// dropping the click highlight once the player targets something else.
type ObjectSystem struct {
	scene *Scene
}

func NewObjectSystem(s *Scene) *ObjectSystem {
	return &ObjectSystem{scene: s}
}

func (sys *ObjectSystem) Update(w *ecs.World, dt float64) error {
	ecs.ForEach2(w, component.ObjectComponent.Kind(), component.InteractiveComponent.Kind(), func(e ecs.Entity, obj *component.Object, inter *component.Interactive) {
		_ = Guard(sys.scene, e, func() error {
			inter.StateTime += dt
			if inter.State == component.InteractiveClicked && !sys.targetedByPlayer(e) {
				inter.SetState(component.InteractiveIdle)
			}
			if mob, ok := ecs.Get(w, e, component.MobilityComponent.Kind()); ok {
				Integrate(obj, mob, dt)
				return nil
			}
			obj.Snap()
			return nil
		})
	})
	return nil
}

func (sys *ObjectSystem) targetedByPlayer(e ecs.Entity) bool {
	h, ok := ecs.Get(sys.scene.World, sys.scene.Player, component.HumanComponent.Kind())
	return ok && h.Target == e
}
