package system

import (
	"fmt"

	"github.com/milk9111/scavenger/common"
	"github.com/milk9111/scavenger/ecs"
	"github.com/milk9111/scavenger/ecs/component"
	"github.com/milk9111/scavenger/loot"
)

// PlayerSystem drives the controllable human in both modes.
type PlayerSystem struct {
	scene *Scene
}

func NewPlayerSystem(s *Scene) *PlayerSystem {
	return &PlayerSystem{scene: s}
}

func (sys *PlayerSystem) Update(w *ecs.World, dt float64) error {
	s := sys.scene
	obj, mob, h, ok := s.PlayerParts()
	if !ok {
		return fmt.Errorf("system: player %v: %w", s.Player, ecs.ErrEntityNotAlive)
	}
	stats, ok := ecs.Get(w, s.Player, component.CombatStatsComponent.Kind())
	if !ok {
		return fmt.Errorf("system: player %v has no combat stats", s.Player)
	}

	return Guard(s, s.Player, func() error {
		h.StateTime += dt
		stats.Tick(dt)
		if h.Mode == component.Combat {
			sys.updateCombat(obj, mob, h, dt)
			return nil
		}
		return sys.updateExploring(obj, mob, h, dt)
	})
}

func (sys *PlayerSystem) updateExploring(obj *component.Object, mob *component.Mobility, h *component.Human, dt float64) error {
	s := sys.scene
	spec := s.Tuning.Player
	s.checkTarget(obj, mob, h)

	switch {
	case h.State.Airborne():
		mob.Acceleration.Set(0, s.Tuning.World.ExplorationGravity)
		Integrate(obj, mob, dt)
		if _, err := s.SwitchLayer(s.Player, obj); err != nil {
			return err
		}
		ground, err := s.GroundHeight(obj, component.Exploring)
		if err != nil {
			return err
		}
		if Landed(obj, mob, ground) {
			Land(obj, mob, h, ground)
		}
	case h.State == component.StateWalk:
		mob.Acceleration.Set(0, 0)
		mob.Velocity.Set(h.Direction.Sign()*h.WalkSpeed, 0)
		Integrate(obj, mob, dt)
		if _, err := s.SwitchLayer(s.Player, obj); err != nil {
			return err
		}
		ground, err := s.GroundHeight(obj, component.Exploring)
		if err != nil {
			return err
		}
		LockToGround(obj, ground)
	default:
		obj.Snap()
	}

	switch h.State {
	case component.StateHit, component.StateHitHead:
		if h.StateTime >= spec.HitDuration {
			h.SetState(component.StateIdle)
		}
	case component.StateChopTree:
		if h.StateTime >= spec.ChopDuration {
			tree := h.Target
			h.ClearTarget()
			h.SetState(component.StateIdle)
			s.Scavenge(tree)
		}
	}
	return nil
}

func (sys *PlayerSystem) updateCombat(obj *component.Object, mob *component.Mobility, h *component.Human, dt float64) {
	s := sys.scene
	spec := s.Tuning.Player

	switch {
	case h.State.Airborne():
		mob.Acceleration.Set(0, s.Tuning.World.CombatGravity)
		Integrate(obj, mob, dt)
		s.clampToArena(obj, mob)
		if ground := s.Arena.GroundHeight(obj.Position.X); Landed(obj, mob, ground) {
			Land(obj, mob, h, ground)
		}
	case h.State == component.StateWalk:
		mob.Acceleration.Set(0, 0)
		mob.Velocity.Set(h.Direction.Sign()*h.WalkSpeed, 0)
		Integrate(obj, mob, dt)
		s.clampToArena(obj, mob)
	default:
		obj.Snap()
	}

	switch h.State {
	case component.StateHit, component.StateHitHead:
		if h.StateTime >= spec.HitDuration {
			h.SetState(component.StateIdle)
		}
	case component.StateMelee:
		sys.resolveMelee(obj, h)
		if h.StateTime >= spec.MeleeDuration {
			h.SetState(component.StateIdle)
		}
	case component.StateFire:
		if h.StateTime >= spec.FireDuration {
			h.SetState(component.StateIdle)
		}
	}

	s.resolveCombat()
}

// resolveMelee scores the current swing once, after the windup.
func (sys *PlayerSystem) resolveMelee(obj *component.Object, h *component.Human) {
	s := sys.scene
	p, ok := ecs.Get(s.World, s.Player, component.PlayerComponent.Kind())
	if !ok || p.MeleeResolved || h.StateTime < s.Tuning.Player.MeleeWindup {
		return
	}
	p.MeleeResolved = true

	zobj, ok := ecs.Get(s.World, p.Engaged, component.ObjectComponent.Kind())
	if !ok || !h.IsFacing(obj.Position.X, zobj.Position.X) {
		return
	}
	if MeleeHitBox(obj, h.Direction, s.Tuning.Player.MeleeRange).Intersects(zobj.Collider) {
		s.damage(p.Engaged, s.Tuning.Player.MeleeDamage)
	}
}

// MeleeHitBox is a rectangle reaching rng in front of the body.
func MeleeHitBox(obj *component.Object, dir component.Facing, rng float64) common.Collider {
	half := obj.Collider.Width / 2
	off := half
	if dir == component.Left {
		off = -half - rng
	}
	box := common.NewRect(rng, obj.Collider.Height, off, 0)
	box.Snap(obj.Position)
	return box
}

func (s *Scene) clampToArena(obj *component.Object, mob *component.Mobility) {
	x := s.Arena.Clamp(obj.Position.X)
	if x != obj.Position.X {
		obj.Position.X = x
		mob.Velocity.X = 0
		obj.Snap()
	}
}

// Attack starts a melee swing in combat. Exploring attacks happen through
// targets instead.
func (s *Scene) Attack() bool {
	_, mob, h, ok := s.PlayerParts()
	if !ok || h.Mode != component.Combat {
		return false
	}
	if h.State != component.StateIdle && h.State != component.StateWalk {
		return false
	}
	p, ok := ecs.Get(s.World, s.Player, component.PlayerComponent.Kind())
	if !ok || p.Loadout.Melee == "" {
		return false
	}
	p.MeleeResolved = false
	mob.Velocity.X = 0
	return h.SetState(component.StateMelee)
}

// Fire spends one ammo and shoots a line from the player to the arena edge
// in the facing direction.
func (s *Scene) Fire() bool {
	obj, mob, h, ok := s.PlayerParts()
	if !ok || h.Mode != component.Combat {
		return false
	}
	if h.State != component.StateIdle && h.State != component.StateWalk {
		return false
	}
	p, okP := ecs.Get(s.World, s.Player, component.PlayerComponent.Kind())
	inv, okI := ecs.Get(s.World, s.Player, component.InventoryComponent.Kind())
	if !okP || !okI || p.Loadout.Ranged == "" || !inv.Items.Take(loot.Ammo, 1) {
		return false
	}
	mob.Velocity.X = 0
	h.SetState(component.StateFire)

	shot := ShotLine(obj, h.Direction, s.Arena.Left, s.Arena.Right)
	if zobj, ok := ecs.Get(s.World, p.Engaged, component.ObjectComponent.Kind()); ok && shot.Intersects(zobj.Collider) {
		s.damage(p.Engaged, s.Tuning.Player.FireDamage)
	}
	return true
}

// ShotLine runs from the body centre to the arena edge in front of it.
func ShotLine(obj *component.Object, dir component.Facing, left, right float64) common.Collider {
	from := obj.Collider.Center()
	edge := right
	if dir == component.Left {
		edge = left
	}
	return common.NewLine(from, common.V(edge, from.Y))
}

// Consume uses one consumable item to restore health.
func (s *Scene) Consume(kind loot.ItemKind) bool {
	heal := s.Tuning.Items.Heal(kind)
	if heal <= 0 {
		return false
	}
	stats, okS := ecs.Get(s.World, s.Player, component.CombatStatsComponent.Kind())
	inv, okI := ecs.Get(s.World, s.Player, component.InventoryComponent.Kind())
	if !okS || !okI || stats.IsDead() || stats.Health >= stats.MaxHealth {
		return false
	}
	if !inv.Items.Take(kind, 1) {
		return false
	}
	return stats.Heal(heal)
}
