package main

import (
	"math"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/milk9111/scavenger/ecs"
	"github.com/milk9111/scavenger/ecs/component"
	"github.com/milk9111/scavenger/loot"
	"github.com/milk9111/scavenger/world"
)

const (
	animationTime = 1.0
	thinkInterval = 0.5
)

// bot plays the world through its input API the way a person tapping the
// viewer would.
type bot struct {
	w     *world.World
	rng   *rand.Rand
	log   *log.Logger
	anim  float64
	think float64
}

func newBot(w *world.World, rng *rand.Rand, logger *log.Logger) *bot {
	return &bot{w: w, rng: rng, log: logger}
}

func (b *bot) step(dt float64) {
	switch b.w.Mode() {
	case world.VersusAnimation, world.KoAnimation:
		b.anim += dt
		if b.anim >= animationTime {
			b.anim = 0
			b.w.AnimationFinished()
		}
		return
	case world.GameOver:
		return
	}
	b.anim = 0

	b.think -= dt
	if b.think > 0 {
		return
	}
	b.think = thinkInterval

	b.heal()
	if b.w.Mode() == world.Combat {
		b.fight()
		return
	}
	b.explore()
}

func (b *bot) player() (*component.Object, *component.Human, bool) {
	obj, okO := ecs.Get(b.w.ECS(), b.w.Player(), component.ObjectComponent.Kind())
	h, okH := ecs.Get(b.w.ECS(), b.w.Player(), component.HumanComponent.Kind())
	return obj, h, okO && okH
}

func (b *bot) heal() {
	stats, ok := ecs.Get(b.w.ECS(), b.w.Player(), component.CombatStatsComponent.Kind())
	if !ok || stats.Health > stats.MaxHealth/2 {
		return
	}
	for _, kind := range []loot.ItemKind{loot.Medkit, loot.Food, loot.Water} {
		if b.w.Consume(kind) {
			b.log.Debug("healed", "item", kind, "health", stats.Health)
			return
		}
	}
}

func (b *bot) explore() {
	obj, h, ok := b.player()
	if !ok || h.Target != 0 || h.State == component.StateChopTree || h.State.Airborne() {
		return
	}

	if b.collect(obj) {
		return
	}
	if target, ok := b.nearestTarget(obj); ok && b.w.SetTarget(b.w.Player(), target) {
		b.log.Debug("targeting", "entity", target)
		return
	}

	switch r := b.rng.Float64(); {
	case r < 0.1:
		b.w.Jump()
	case r < 0.2:
		b.w.StopMoving(b.w.Player())
		b.w.Fall()
	case r < 0.6 && h.State == component.StateWalk:
		// keep walking
	default:
		dir := component.Right
		if b.rng.Intn(2) == 0 {
			dir = component.Left
		}
		b.w.Walk(b.w.Player(), dir)
	}
}

// collect taps the first grounded item on the player's row.
func (b *bot) collect(pobj *component.Object) bool {
	tapped := false
	ecs.ForEach2(b.w.ECS(), component.ObjectComponent.Kind(), component.ItemObjectComponent.Kind(), func(_ ecs.Entity, obj *component.Object, item *component.ItemObject) {
		if tapped || item.State != component.ItemGrounded || obj.Cell.Row != pobj.Cell.Row {
			return
		}
		c := obj.Collider.Center()
		if _, ok := b.w.TouchUp(c.X, c.Y); ok {
			tapped = true
		}
	})
	return tapped
}

// nearestTarget picks the closest unscavenged tree or box on the player's row.
func (b *bot) nearestTarget(pobj *component.Object) (ecs.Entity, bool) {
	var (
		best  ecs.Entity
		found bool
		dist  = math.Inf(1)
	)
	ecs.ForEach2(b.w.ECS(), component.ObjectComponent.Kind(), component.InteractiveComponent.Kind(), func(e ecs.Entity, obj *component.Object, inter *component.Interactive) {
		if !inter.CanTarget() || obj.Cell.Row != pobj.Cell.Row {
			return
		}
		if d := math.Abs(obj.Position.X - pobj.Position.X); d < dist {
			best, dist, found = e, d, true
		}
	})
	return best, found
}

func (b *bot) fight() {
	obj, h, ok := b.player()
	zombie, engaged := b.w.Engaged()
	if !ok || !engaged || h.State == component.StateDead {
		return
	}
	zobj, okO := ecs.Get(b.w.ECS(), zombie, component.ObjectComponent.Kind())
	zh, okH := ecs.Get(b.w.ECS(), zombie, component.HumanComponent.Kind())
	if !okO || !okH {
		return
	}

	if zh.State == component.StateChargeStart || zh.State == component.StateCharge {
		b.w.Jump()
		return
	}
	dx := zobj.Position.X - obj.Position.X
	if math.Abs(dx) > b.w.Tuning().Player.MeleeRange {
		if b.rng.Float64() < 0.3 && b.w.Fire() {
			return
		}
		b.w.Walk(b.w.Player(), component.FacingOf(dx))
		return
	}
	b.w.StopMoving(b.w.Player())
	b.w.Attack()
}
