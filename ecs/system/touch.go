package system

import (
	"github.com/milk9111/scavenger/common"
	"github.com/milk9111/scavenger/ecs"
	"github.com/milk9111/scavenger/ecs/component"
)

// HitTest returns the front-most clickable object of the player's row under
// (x, y). Objects drawn last are tested first.
func (s *Scene) HitTest(x, y float64) (ecs.Entity, bool) {
	obj, ok := ecs.Get(s.World, s.Player, component.ObjectComponent.Kind())
	if !ok {
		return 0, false
	}
	var candidates []ecs.Entity
	for _, layer := range s.Level.Row(obj.Cell.Row) {
		candidates = append(candidates, layer.Objects()...)
	}
	p := common.V(x, y)
	for i := len(candidates) - 1; i >= 0; i-- {
		e := candidates[i]
		o, ok := ecs.Get(s.World, e, component.ObjectComponent.Kind())
		if !ok || !s.clickable(e, o) {
			continue
		}
		if o.Collider.Contains(p) {
			return e, true
		}
	}
	return 0, false
}

func (s *Scene) clickable(e ecs.Entity, obj *component.Object) bool {
	if obj.Kind == component.KindItem {
		item, ok := ecs.Get(s.World, e, component.ItemObjectComponent.Kind())
		return ok && item.State == component.ItemGrounded
	}
	return s.CanTarget(e)
}

// TouchUp handles a tap: a grounded item is collected, anything else the
// player can target becomes the target.
func (s *Scene) TouchUp(x, y float64) (ecs.Entity, bool) {
	e, ok := s.HitTest(x, y)
	if !ok {
		return 0, false
	}
	if ecs.Has(s.World, e, component.ItemObjectComponent.Kind()) {
		return e, s.Collect(e)
	}
	if !s.SetTarget(s.Player, e) {
		return e, false
	}
	if inter, ok := ecs.Get(s.World, e, component.InteractiveComponent.Kind()); ok && inter.State == component.InteractiveIdle {
		inter.SetState(component.InteractiveClicked)
	}
	return e, true
}
