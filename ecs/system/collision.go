package system

import (
	"github.com/milk9111/scavenger/ecs"
	"github.com/milk9111/scavenger/ecs/component"
)

// checkTarget resolves the player's arrival at its target. Trees start a
// chop, boxes are scavenged at once and zombies start a fight.
func (s *Scene) checkTarget(obj *component.Object, mob *component.Mobility, h *component.Human) {
	if h.Target == 0 || h.TargetReached {
		return
	}
	target := h.Target
	tobj, ok := ecs.Get(s.World, target, component.ObjectComponent.Kind())
	if !ok || !s.CanTarget(target) {
		h.ClearTarget()
		if h.State == component.StateWalk {
			h.SetState(component.StateIdle)
			mob.Velocity.X = 0
		}
		return
	}
	if h.State == component.StateWalk {
		h.Direction = component.FacingOf(tobj.Position.X - obj.Position.X)
	}
	if !obj.Collider.Intersects(tobj.Collider) {
		return
	}

	h.TargetReached = true
	mob.Velocity.X = 0
	h.SetState(component.StateIdle)

	switch tobj.Kind {
	case component.KindTree:
		if inter, ok := ecs.Get(s.World, target, component.InteractiveComponent.Kind()); ok {
			inter.SetState(component.InteractiveHit)
		}
		h.SetState(component.StateChopTree)
	case component.KindBox:
		h.ClearTarget()
		s.Scavenge(target)
	case component.KindZombie:
		if z, ok := ecs.Get(s.World, target, component.ZombieComponent.Kind()); ok {
			z.Targetted = false
		}
		h.ClearTarget()
		s.RequestEngage(target)
	}
}

// RequestEngage asks the orchestrator to start a fight with zombie.
func (s *Scene) RequestEngage(zombie ecs.Entity) {
	if ecs.Has(s.World, s.Player, component.EngageRequestComponent.Kind()) {
		return
	}
	_ = ecs.Add(s.World, s.Player, component.EngageRequestComponent.Kind(), &component.EngageRequest{Zombie: zombie})
}

// resolveCombat runs the player/zombie collisions of the arena: a descending
// player stomps the zombie head, a charging zombie hurts the player.
func (s *Scene) resolveCombat() {
	pobj, pmob, ph, ok := s.PlayerParts()
	if !ok {
		return
	}
	p, ok := ecs.Get(s.World, s.Player, component.PlayerComponent.Kind())
	if !ok {
		return
	}
	zombie := p.Engaged
	zobj, okO := ecs.Get(s.World, zombie, component.ObjectComponent.Kind())
	zh, okH := ecs.Get(s.World, zombie, component.HumanComponent.Kind())
	z, okZ := ecs.Get(s.World, zombie, component.ZombieComponent.Kind())
	if !okO || !okH || !okZ || zh.State == component.StateDead {
		return
	}

	if ph.State.Airborne() && pmob.Velocity.Y < 0 && pobj.Collider.Intersects(zobj.Collider) {
		if applied, dead := s.damage(zombie, s.Tuning.Player.StompDamage); applied && !dead {
			zh.SetState(component.StateHitHead)
		}
		pmob.Velocity.Y = s.Tuning.Player.StompBounce
	}

	if zh.State == component.StateCharge && z.ChargeCollider.Intersects(pobj.Collider) {
		s.damage(s.Player, z.ChargeDamage)
	}
}
