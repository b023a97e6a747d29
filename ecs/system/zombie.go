package system

import (
	"math"

	"github.com/milk9111/scavenger/common"
	"github.com/milk9111/scavenger/ecs"
	"github.com/milk9111/scavenger/ecs/component"
)

// ZombieSystem runs the zombie AI. The exploring instance patrols and alerts
// zombies in the level; the combat instance drives the engaged zombie.
type ZombieSystem struct {
	scene  *Scene
	combat bool
}

func NewZombieSystem(s *Scene, combat bool) *ZombieSystem {
	return &ZombieSystem{scene: s, combat: combat}
}

func (sys *ZombieSystem) Update(w *ecs.World, dt float64) error {
	// A paused frame must not advance state time.
	if dt == 0 {
		return nil
	}
	s := sys.scene
	ecs.ForEach(w, component.ZombieComponent.Kind(), func(e ecs.Entity, z *component.Zombie) {
		obj, okO := ecs.Get(w, e, component.ObjectComponent.Kind())
		mob, okM := ecs.Get(w, e, component.MobilityComponent.Kind())
		h, okH := ecs.Get(w, e, component.HumanComponent.Kind())
		stats, okS := ecs.Get(w, e, component.CombatStatsComponent.Kind())
		if !okO || !okM || !okH || !okS {
			return
		}
		if (h.Mode == component.Combat) != sys.combat {
			return
		}
		_ = Guard(s, e, func() error {
			h.StateTime += dt
			stats.Tick(dt)
			if sys.combat {
				sys.updateCombat(obj, mob, h, z, dt)
			} else if err := sys.updateExploring(e, obj, mob, h, z, dt); err != nil {
				return err
			}
			if !z.HitBoxesSet {
				DefaultHitBoxes(obj, h.Direction, z, s.Tuning.Zombie.ArmReach)
			}
			z.HitBoxesSet = false
			return nil
		})
	})
	return nil
}

func (sys *ZombieSystem) updateExploring(e ecs.Entity, obj *component.Object, mob *component.Mobility, h *component.Human, z *component.Zombie, dt float64) error {
	s := sys.scene
	spec := s.Tuning.Zombie
	if h.State == component.StateSpawn || h.State == component.StateDead {
		return nil
	}

	sys.detect(e, obj, h, z)

	layer, err := s.Level.LayerAt(obj.Cell)
	if err != nil {
		return err
	}

	switch h.State {
	case component.StateAlerted:
		mob.Velocity.X = 0
		if h.StateTime > spec.AlertedDuration {
			h.SetState(component.StateWalk)
		}
	case component.StateHit, component.StateHitHead:
		mob.Velocity.X = 0
		if h.StateTime >= spec.HitDuration {
			h.SetState(component.StateIdle)
		}
	case component.StateIdle, component.StateWalk:
		if z.Alerted {
			h.SetState(component.StateWalk)
			break
		}
		edge := layer.Right.X
		if h.Direction == component.Left {
			edge = layer.Left.X
		}
		in := BrainInput{
			State:     h.State,
			StateTime: h.StateTime,
			Alerted:   z.Alerted,
			NearEdge:  math.Abs(edge-obj.Position.X) <= spec.EdgeMargin,
			Direction: h.Direction,
		}
		cmd, err := s.brain(z.Brain).Decide(in)
		if err != nil {
			s.Log.Warn("zombie brain failed, using builtin", "entity", e, "script", z.Brain, "error", err)
			s.brains.fail(z.Brain)
			cmd, _ = s.brains.builtin.Decide(in)
		}
		switch cmd {
		case BrainTurn:
			h.Direction = h.Direction.Opposite()
			h.SetState(component.StateWalk)
		case BrainWalk:
			h.SetState(component.StateWalk)
		case BrainIdle:
			h.SetState(component.StateIdle)
		}
	}

	if h.State != component.StateWalk {
		mob.Velocity.X = 0
		obj.Snap()
		return nil
	}

	speed := h.WalkSpeed
	if z.Alerted {
		speed *= spec.AlertSpeedMultiplier
		if pobj, ok := ecs.Get(s.World, s.Player, component.ObjectComponent.Kind()); ok {
			h.Direction = component.FacingOf(pobj.Position.X - obj.Position.X)
		}
	}
	mob.Acceleration.Set(0, 0)
	mob.Velocity.Set(h.Direction.Sign()*speed, 0)
	Integrate(obj, mob, dt)

	if !z.Alerted {
		// Patrols never leave their home layer.
		if obj.Position.X > layer.Right.X || obj.Position.X < layer.Left.X {
			obj.Position.X = common.Clamp(obj.Position.X, layer.Left.X, layer.Right.X)
			h.Direction = h.Direction.Opposite()
		}
	} else if _, err := s.SwitchLayer(e, obj); err != nil {
		return err
	}

	ground, err := s.GroundHeight(obj, component.Exploring)
	if err != nil {
		return err
	}
	LockToGround(obj, ground)

	if z.Alerted && h.Target == s.Player {
		if pobj, ok := ecs.Get(s.World, s.Player, component.ObjectComponent.Kind()); ok && obj.Collider.Intersects(pobj.Collider) {
			h.TargetReached = true
			mob.Velocity.X = 0
			h.SetState(component.StateIdle)
			s.RequestEngage(e)
		}
	}
	return nil
}

// detect raises and drops the alert from the player's distance on the same
// row.
func (sys *ZombieSystem) detect(e ecs.Entity, obj *component.Object, h *component.Human, z *component.Zombie) {
	s := sys.scene
	spec := s.Tuning.Zombie
	pobj, ok := ecs.Get(s.World, s.Player, component.ObjectComponent.Kind())
	if !ok {
		return
	}
	sameRow := pobj.Cell.Row == obj.Cell.Row
	dist := math.Abs(pobj.Position.X - obj.Position.X)

	switch {
	case !z.Alerted && sameRow && dist <= spec.AlertRange:
		z.Alerted = true
		h.Target = s.Player
		h.TargetReached = false
		h.Direction = component.FacingOf(pobj.Position.X - obj.Position.X)
		h.SetState(component.StateAlerted)
		s.Log.Debug("zombie alerted", "entity", e, "cell", obj.Cell)
	case z.Alerted && (!sameRow || dist > spec.LoseRange):
		z.Alerted = false
		h.ClearTarget()
		if h.State == component.StateWalk || h.State == component.StateAlerted {
			h.SetState(component.StateIdle)
		}
		s.Log.Debug("zombie lost the player", "entity", e)
	}
}

func (sys *ZombieSystem) updateCombat(obj *component.Object, mob *component.Mobility, h *component.Human, z *component.Zombie, dt float64) {
	s := sys.scene
	spec := s.Tuning.Zombie
	pobj, ok := ecs.Get(s.World, s.Player, component.ObjectComponent.Kind())
	if !ok {
		return
	}

	switch h.State {
	case component.StateIdle, component.StateWalk:
		mob.Velocity.X = 0
		h.Direction = component.FacingOf(pobj.Position.X - obj.Position.X)
		if h.StateTime > spec.ChargeCooldown {
			h.SetState(component.StateChargeStart)
		}
	case component.StateChargeStart:
		h.Direction = component.FacingOf(pobj.Position.X - obj.Position.X)
		if h.StateTime > spec.ChargeWindup {
			h.SetState(component.StateCharge)
		}
	case component.StateCharge:
		mob.Velocity.Set(h.Direction.Sign()*spec.ChargeSpeed, 0)
		Integrate(obj, mob, dt)
		if x := s.Arena.Clamp(obj.Position.X); x != obj.Position.X {
			obj.Position.X = x
			mob.Stop()
			h.SetState(component.StateSmash)
		}
	case component.StateSmash:
		mob.Velocity.X = 0
		if h.StateTime >= spec.SmashDuration {
			h.SetState(component.StateIdle)
		}
	case component.StateHit, component.StateHitHead:
		mob.Velocity.X = 0
		if h.StateTime >= spec.HitDuration {
			h.SetState(component.StateIdle)
		}
	}
	LockToGround(obj, s.Arena.GroundY)
}

// DefaultHitBoxes derives the charge box from the body and the arm box from a
// rectangle reaching in front of it.
func DefaultHitBoxes(obj *component.Object, dir component.Facing, z *component.Zombie, armReach float64) {
	z.ChargeCollider = obj.Collider
	z.ChargeCollider.Snap(obj.Position)
	z.ArmCollider = MeleeHitBox(obj, dir, armReach)
}
