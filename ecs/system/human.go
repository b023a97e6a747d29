package system

import (
	"github.com/milk9111/scavenger/ecs"
	"github.com/milk9111/scavenger/ecs/component"
	"github.com/milk9111/scavenger/prefabs"
	"github.com/milk9111/scavenger/terrain"
)

// TakeDamage subtracts amount from health. Lethal damage forces Dead even in
// the air; otherwise a grounded human is sent to Hit. Both start the
// invulnerability window. Callers decide whether invulnerability blocks the
// hit. It reports whether the human is dead.
func TakeDamage(h *component.Human, stats *component.CombatStats, amount float64) bool {
	stats.Health -= amount
	if stats.IsDead() {
		h.SetState(component.StateDead)
		h.ClearTarget()
	} else if !h.State.Airborne() {
		h.SetState(component.StateHit)
	}
	stats.MakeInvulnerable()
	return stats.IsDead()
}

// damage applies TakeDamage to e unless it is invulnerable and emits the
// result.
func (s *Scene) damage(e ecs.Entity, amount float64) (applied, dead bool) {
	h, okH := ecs.Get(s.World, e, component.HumanComponent.Kind())
	stats, okS := ecs.Get(s.World, e, component.CombatStatsComponent.Kind())
	if !okH || !okS || stats.IsInvulnerable() || h.State == component.StateDead {
		return false, false
	}
	dead = TakeDamage(h, stats, amount)
	if mob, ok := ecs.Get(s.World, e, component.MobilityComponent.Kind()); ok && !h.State.Airborne() {
		mob.Velocity.X = 0
	}
	s.Log.Debug("damaged", "entity", e, "amount", amount, "health", stats.Health, "dead", dead)
	s.emit(EventDamaged, DamagedEvent{Entity: e, Amount: amount, Health: stats.Health, Dead: dead})
	return true, dead
}

// commandable reports whether a human accepts movement commands in its
// current state.
func commandable(h *component.Human) bool {
	switch h.State {
	case component.StateIdle, component.StateWalk, component.StateChopTree:
		return true
	}
	return false
}

// AbortChop returns the tree being chopped to idle and drops the target.
func (s *Scene) AbortChop(h *component.Human) {
	if h.State != component.StateChopTree || h.Target == 0 {
		return
	}
	if inter, ok := ecs.Get(s.World, h.Target, component.InteractiveComponent.Kind()); ok && inter.State == component.InteractiveHit {
		inter.SetState(component.InteractiveIdle)
	}
	h.ClearTarget()
}

// Walk starts e walking in dir. An explicit walk drops any target.
func (s *Scene) Walk(e ecs.Entity, dir component.Facing) bool {
	h, ok := ecs.Get(s.World, e, component.HumanComponent.Kind())
	if !ok || !commandable(h) {
		return false
	}
	s.clearTargetted(e)
	s.AbortChop(h)
	h.ClearTarget()
	h.Direction = dir
	h.SetState(component.StateWalk)
	return true
}

// StopMoving halts a walking human.
func (s *Scene) StopMoving(e ecs.Entity) bool {
	h, ok := ecs.Get(s.World, e, component.HumanComponent.Kind())
	if !ok || h.State != component.StateWalk {
		return false
	}
	s.clearTargetted(e)
	h.ClearTarget()
	h.SetState(component.StateIdle)
	if mob, ok := ecs.Get(s.World, e, component.MobilityComponent.Kind()); ok {
		mob.Velocity.X = 0
	}
	return true
}

// CanTarget reports whether target may be walked to. Zombies can always be
// targeted; trees and boxes until they are scavenged.
func (s *Scene) CanTarget(target ecs.Entity) bool {
	obj, ok := ecs.Get(s.World, target, component.ObjectComponent.Kind())
	if !ok {
		return false
	}
	switch obj.Kind {
	case component.KindZombie:
		return true
	case component.KindTree, component.KindBox:
		inter, ok := ecs.Get(s.World, target, component.InteractiveComponent.Kind())
		return ok && inter.CanTarget()
	}
	return false
}

// SetTarget makes e walk toward target. Targets on another row are refused.
func (s *Scene) SetTarget(e, target ecs.Entity) bool {
	if e == target || !s.CanTarget(target) {
		return false
	}
	h, okH := ecs.Get(s.World, e, component.HumanComponent.Kind())
	obj, okO := ecs.Get(s.World, e, component.ObjectComponent.Kind())
	tobj, okT := ecs.Get(s.World, target, component.ObjectComponent.Kind())
	if !okH || !okO || !okT || h.Mode != component.Exploring || !commandable(h) {
		return false
	}
	if tobj.Cell.Row != obj.Cell.Row {
		return false
	}
	s.AbortChop(h)
	s.clearTargetted(e)
	h.Target = target
	h.TargetReached = false
	h.Direction = component.FacingOf(tobj.Position.X - obj.Position.X)
	h.SetState(component.StateWalk)
	if z, ok := ecs.Get(s.World, target, component.ZombieComponent.Kind()); ok && e == s.Player {
		z.Targetted = true
	}
	return true
}

func (s *Scene) clearTargetted(e ecs.Entity) {
	if e != s.Player {
		return
	}
	h, ok := ecs.Get(s.World, e, component.HumanComponent.Kind())
	if !ok || h.Target == 0 {
		return
	}
	if z, ok := ecs.Get(s.World, h.Target, component.ZombieComponent.Kind()); ok {
		z.Targetted = false
	}
}

// Jump launches e. Exploring jumps climb one row and need a row above;
// combat jumps stay on the arena and a second jump while rising becomes a
// double jump.
func (s *Scene) Jump(e ecs.Entity) (bool, error) {
	h, okH := ecs.Get(s.World, e, component.HumanComponent.Kind())
	obj, okO := ecs.Get(s.World, e, component.ObjectComponent.Kind())
	mob, okM := ecs.Get(s.World, e, component.MobilityComponent.Kind())
	if !okH || !okO || !okM {
		return false, nil
	}
	spec := s.humanSpec(e)

	if h.Mode == component.Combat {
		switch h.State {
		case component.StateIdle, component.StateWalk:
			mob.Velocity.Y = spec.CombatJumpSpeed
			h.SetState(component.StateJump)
			return true, nil
		case component.StateJump:
			mob.Velocity.Y = spec.CombatJumpSpeed
			h.SetState(component.StateDoubleJump)
			return true, nil
		}
		return false, nil
	}

	if !commandable(h) || obj.Cell.Row+1 >= s.Level.Config().Rows {
		return false, nil
	}
	if ok, err := s.changeRow(e, obj, terrain.Up); !ok || err != nil {
		return false, err
	}
	s.AbortChop(h)
	s.clearTargetted(e)
	h.ClearTarget()
	mob.Velocity.Y = spec.ExploringJumpSpeed
	h.SetState(component.StateJump)
	return true, nil
}

// Fall drops e through its layer to the row below.
func (s *Scene) Fall(e ecs.Entity) (bool, error) {
	h, okH := ecs.Get(s.World, e, component.HumanComponent.Kind())
	obj, okO := ecs.Get(s.World, e, component.ObjectComponent.Kind())
	mob, okM := ecs.Get(s.World, e, component.MobilityComponent.Kind())
	if !okH || !okO || !okM {
		return false, nil
	}
	if h.Mode != component.Exploring || h.State != component.StateIdle || obj.Cell.Row-1 < 0 {
		return false, nil
	}
	if ok, err := s.changeRow(e, obj, terrain.Down); !ok || err != nil {
		return false, err
	}
	h.ClearTarget()
	mob.Velocity.Set(0, s.humanSpec(e).FallSpeed)
	h.SetState(component.StateFall)
	return true, nil
}

// changeRow moves e one row up or down, shifting the window for the player.
func (s *Scene) changeRow(e ecs.Entity, obj *component.Object, dir terrain.Direction) (bool, error) {
	if e == s.Player {
		return s.ShiftPlayer(dir)
	}
	from, err := s.Level.LayerAt(obj.Cell)
	if err != nil {
		return false, err
	}
	to, err := s.Level.LayerAt(obj.Cell.Neighbor(dir))
	if err != nil {
		return false, nil
	}
	from.Deregister(e)
	to.Register(e)
	obj.Cell = to.Cell
	return true, nil
}

func (s *Scene) humanSpec(e ecs.Entity) prefabs.HumanSpec {
	if e == s.Player {
		return s.Tuning.Player.HumanSpec
	}
	return s.Tuning.Zombie.HumanSpec
}

// AcknowledgeSpawn moves a spawned human or interactive object to idle.
func (s *Scene) AcknowledgeSpawn(e ecs.Entity) bool {
	if h, ok := ecs.Get(s.World, e, component.HumanComponent.Kind()); ok && h.State == component.StateSpawn {
		return h.SetState(component.StateIdle)
	}
	if inter, ok := ecs.Get(s.World, e, component.InteractiveComponent.Kind()); ok && inter.State == component.InteractiveSpawn {
		return inter.SetState(component.InteractiveIdle)
	}
	return false
}

// AcknowledgeAll acknowledges every pending spawn.
func (s *Scene) AcknowledgeAll() {
	for _, e := range ecs.Entities(s.World) {
		s.AcknowledgeSpawn(e)
	}
}
