package system

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/milk9111/scavenger/common"
	"github.com/milk9111/scavenger/ecs"
	"github.com/milk9111/scavenger/ecs/component"
	"github.com/milk9111/scavenger/loot"
	"github.com/milk9111/scavenger/terrain"
)

// objectNamespace roots the deterministic identities of layer occupants.
var objectNamespace = uuid.MustParse("6f1c7d52-3a7e-4f4e-9d55-2b1f0c8a9e31")

// ObjectID returns the stable identity of the slot-th object of kind spawned
// on cell for seed.
func ObjectID(seed int64, cell terrain.Cell, kind component.ObjectKind, slot int) uuid.UUID {
	name := fmt.Sprintf("%d/%d/%d/%s/%d", seed, cell.Row, cell.Col, kind, slot)
	return uuid.NewSHA1(objectNamespace, []byte(name))
}

// PopulateLayer spawns the trees, boxes and zombies of a freshly created
// layer. The layout only depends on the seed and the cell.
func (s *Scene) PopulateLayer(layer *terrain.Layer) {
	seed := s.Profile.Seed()
	cell := layer.Cell
	rng := rand.New(rand.NewSource(int64(terrain.Hash2(uint32(seed), int32(cell.Row), int32(cell.Col)))))
	pop := s.Tuning.World.Population

	place := func() float64 {
		lo, hi := layer.Left.X+pop.Margin, layer.Right.X-pop.Margin
		return lo + rng.Float64()*(hi-lo)
	}

	trees := rng.Intn(pop.MaxTrees + 1)
	for i := range trees {
		s.SpawnInteractive(layer, component.KindTree, ObjectID(seed, cell, component.KindTree, i), place())
	}
	boxes := rng.Intn(pop.MaxBoxes + 1)
	for i := range boxes {
		s.SpawnInteractive(layer, component.KindBox, ObjectID(seed, cell, component.KindBox, i), place())
	}
	zombies := rng.Intn(pop.MaxZombies + 1)
	if cell == s.Spawn {
		zombies = 0
	}
	for i := range zombies {
		dir := component.Right
		if rng.Intn(2) == 0 {
			dir = component.Left
		}
		s.SpawnZombie(layer, ObjectID(seed, cell, component.KindZombie, i), place(), dir)
	}
}

// SpawnInteractive adds a tree or box to layer at x.
func (s *Scene) SpawnInteractive(layer *terrain.Layer, kind component.ObjectKind, id uuid.UUID, x float64) ecs.Entity {
	spec := s.Tuning.Interactive.Box
	if kind == component.KindTree {
		spec = s.Tuning.Interactive.Tree
	}
	e := ecs.CreateEntity(s.World)
	obj := &component.Object{
		Kind:     kind,
		ID:       id,
		Cell:     layer.Cell,
		Position: common.V(x, layer.GroundHeight(x)),
		Collider: common.NewRect(spec.Width, spec.Height, -spec.Width/2, 0),
	}
	obj.Snap()
	inter := &component.Interactive{State: component.InteractiveSpawn, Drops: s.DropTableFor(kind)}
	if s.Profile.IsScavenged(id.String()) {
		inter.State = component.InteractiveScavenged
	}
	_ = ecs.Add(s.World, e, component.ObjectComponent.Kind(), obj)
	_ = ecs.Add(s.World, e, component.InteractiveComponent.Kind(), inter)
	layer.Register(e)
	return e
}

// SpawnZombie creates a zombie standing on layer at x.
func (s *Scene) SpawnZombie(layer *terrain.Layer, id uuid.UUID, x float64, dir component.Facing) ecs.Entity {
	spec := s.Tuning.Zombie
	e := ecs.CreateEntity(s.World)
	obj := &component.Object{
		Kind:     component.KindZombie,
		ID:       id,
		Cell:     layer.Cell,
		Position: common.V(x, layer.GroundHeight(x)),
		Collider: common.NewRect(spec.Width, spec.Height, -spec.Width/2, 0),
	}
	obj.Snap()
	stats := component.NewCombatStats(spec.MaxHealth, spec.InvulnerabilityDuration)
	_ = ecs.Add(s.World, e, component.ObjectComponent.Kind(), obj)
	_ = ecs.Add(s.World, e, component.MobilityComponent.Kind(), &component.Mobility{})
	_ = ecs.Add(s.World, e, component.HumanComponent.Kind(), &component.Human{
		Mode:      component.Exploring,
		State:     component.StateSpawn,
		Direction: dir,
		WalkSpeed: spec.WalkSpeed,
	})
	_ = ecs.Add(s.World, e, component.CombatStatsComponent.Kind(), &stats)
	zombie := &component.Zombie{ChargeDamage: spec.ChargeDamage, Brain: spec.Script}
	DefaultHitBoxes(obj, dir, zombie, spec.ArmReach)
	_ = ecs.Add(s.World, e, component.ZombieComponent.Kind(), zombie)
	layer.Register(e)
	return e
}

// DiscardLayer despawns every occupant of a layer leaving the window.
func (s *Scene) DiscardLayer(layer *terrain.Layer) {
	for _, e := range append([]ecs.Entity(nil), layer.Objects()...) {
		s.destroy(e)
	}
}

// Despawn removes e from its layer and frees its slot. The player is never
// despawned.
func (s *Scene) Despawn(e ecs.Entity) {
	if e == s.Player {
		return
	}
	if obj, ok := ecs.Get(s.World, e, component.ObjectComponent.Kind()); ok {
		if layer, err := s.Level.LayerAt(obj.Cell); err == nil {
			layer.Deregister(e)
		}
	}
	s.destroy(e)
}

func (s *Scene) destroy(e ecs.Entity) {
	if h, ok := ecs.Get(s.World, s.Player, component.HumanComponent.Kind()); ok && h.Target == e {
		h.ClearTarget()
	}
	ecs.DestroyEntity(s.World, e)
}

// SwitchLayer moves obj to the neighbouring column when it crossed its layer
// boundary. For the player the whole window shifts; other objects change
// layer membership, or are clamped and turned when the next layer is outside
// the window. It reports whether the cell changed.
func (s *Scene) SwitchLayer(e ecs.Entity, obj *component.Object) (bool, error) {
	layer, err := s.Level.LayerAt(obj.Cell)
	if err != nil {
		return false, err
	}

	var (
		dir      terrain.Direction
		boundary float64
	)
	switch {
	case obj.Position.X > layer.Right.X:
		dir, boundary = terrain.Right, layer.Right.X
	case obj.Position.X < layer.Left.X:
		dir, boundary = terrain.Left, layer.Left.X
	default:
		return false, nil
	}

	if e == s.Player {
		return s.ShiftPlayer(dir)
	}

	next, err := s.Level.LayerAt(obj.Cell.Neighbor(dir))
	if err != nil {
		obj.Position.X = boundary
		obj.Snap()
		if mob, ok := ecs.Get(s.World, e, component.MobilityComponent.Kind()); ok {
			mob.Velocity.X = 0
		}
		if h, ok := ecs.Get(s.World, e, component.HumanComponent.Kind()); ok {
			h.Direction = h.Direction.Opposite()
		}
		return false, nil
	}
	layer.Deregister(e)
	next.Register(e)
	obj.Cell = next.Cell
	return true, nil
}

// ShiftPlayer re-centres the window one cell in dir and moves the player's
// cell with it, keeping the two equal.
func (s *Scene) ShiftPlayer(dir terrain.Direction) (bool, error) {
	obj, ok := ecs.Get(s.World, s.Player, component.ObjectComponent.Kind())
	if !ok {
		return false, fmt.Errorf("system: shift %v: %w", dir, ecs.ErrEntityNotAlive)
	}
	if obj.Cell != s.Level.Center() {
		return false, fmt.Errorf("system: player %v off window center %v", obj.Cell, s.Level.Center())
	}
	if !s.Level.Shift(dir) {
		return false, nil
	}
	obj.Cell.Move(dir)

	s.Log.Debug("window shifted", "direction", dir, "cell", obj.Cell)
	s.Metrics.WindowShifted(dir.String())
	s.emit(EventWindowShifted, obj.Cell)
	if err := s.Profile.SaveCell(obj.Cell.Row, obj.Cell.Col); err != nil {
		s.Log.Warn("save cell failed", "cell", obj.Cell, "error", err)
	}
	return true, nil
}

// SpawnPlayer creates the player standing at x on the window centre.
func (s *Scene) SpawnPlayer(x float64) (ecs.Entity, error) {
	spec := s.Tuning.Player
	cell := s.Level.Center()
	ground, err := s.Level.GroundHeight(cell, x)
	if err != nil {
		return 0, err
	}
	e := ecs.CreateEntity(s.World)
	obj := &component.Object{
		Kind:     component.KindPlayer,
		Cell:     cell,
		Position: common.V(x, ground),
		Collider: common.NewRect(spec.Width, spec.Height, -spec.Width/2, 0),
	}
	obj.Snap()
	stats := component.NewCombatStats(spec.MaxHealth, spec.InvulnerabilityDuration)
	inv := &component.Inventory{}
	for name, n := range spec.Inventory {
		kind, err := loot.ParseItemKind(name)
		if err != nil {
			return 0, fmt.Errorf("system: player inventory: %w", err)
		}
		inv.Items.Add(loot.Item{Kind: kind, Quantity: n})
	}
	_ = ecs.Add(s.World, e, component.ObjectComponent.Kind(), obj)
	_ = ecs.Add(s.World, e, component.MobilityComponent.Kind(), &component.Mobility{})
	_ = ecs.Add(s.World, e, component.HumanComponent.Kind(), &component.Human{
		Mode:      component.Exploring,
		State:     component.StateSpawn,
		Direction: component.Right,
		WalkSpeed: spec.WalkSpeed,
	})
	_ = ecs.Add(s.World, e, component.CombatStatsComponent.Kind(), &stats)
	_ = ecs.Add(s.World, e, component.PlayerComponent.Kind(), &component.Player{
		Loadout: component.Loadout{Melee: spec.Loadout.Melee, Ranged: spec.Loadout.Ranged},
	})
	_ = ecs.Add(s.World, e, component.InventoryComponent.Kind(), inv)
	s.Player = e
	return e, nil
}
