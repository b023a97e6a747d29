package system

import (
	"github.com/milk9111/scavenger/common"
	"github.com/milk9111/scavenger/ecs"
	"github.com/milk9111/scavenger/ecs/component"
	"github.com/milk9111/scavenger/loot"
)

// Scavenge depletes an interactive object, records it with the profile and
// spawns its loot. Already scavenged objects are ignored.
func (s *Scene) Scavenge(e ecs.Entity) []ecs.Entity {
	obj, okO := ecs.Get(s.World, e, component.ObjectComponent.Kind())
	inter, okI := ecs.Get(s.World, e, component.InteractiveComponent.Kind())
	if !okO || !okI || !inter.SetState(component.InteractiveScavenged) {
		return nil
	}

	items := s.SpawnItems(e)
	if err := s.Profile.MarkScavenged(obj.ID.String()); err != nil {
		s.Log.Warn("record scavenge failed", "entity", e, "id", obj.ID, "error", err)
	}
	s.Log.Info("scavenged", "kind", obj.Kind, "cell", obj.Cell, "items", len(items))
	s.Metrics.Scavenged()
	s.emit(EventScavenged, ScavengedEvent{Entity: e, Kind: obj.Kind, ID: obj.ID, Items: items})
	return items
}

// SpawnItems rolls the drop table of source once per entry and launches one
// item per hit from the source position. Later items fly further, in the
// direction the player faces.
func (s *Scene) SpawnItems(source ecs.Entity) []ecs.Entity {
	obj, okO := ecs.Get(s.World, source, component.ObjectComponent.Kind())
	inter, okI := ecs.Get(s.World, source, component.InteractiveComponent.Kind())
	if !okO || !okI {
		return nil
	}
	kinds := inter.Drops.Roll(s.Rand)
	if len(kinds) == 0 {
		return nil
	}

	dir := 1.0
	if h, ok := ecs.Get(s.World, s.Player, component.HumanComponent.Kind()); ok {
		dir = h.Direction.Sign()
	}
	launch := s.Tuning.World.Launch.Launch()
	layer, err := s.Level.LayerAt(obj.Cell)
	if err != nil {
		s.Log.Warn("loot source outside window", "entity", source, "cell", obj.Cell, "error", err)
		return nil
	}

	out := make([]ecs.Entity, 0, len(kinds))
	for n, kind := range kinds {
		item := loot.Item{Kind: kind, Quantity: s.Tuning.Items.Quantity(kind)}
		e := s.spawnItem(item, obj, launch.Velocity(n, dir))
		layer.Register(e)
		out = append(out, e)
		s.Metrics.ItemSpawned(kind.String())
		s.emit(EventItemSpawned, e)
	}
	return out
}

func (s *Scene) spawnItem(item loot.Item, source *component.Object, velocity common.Vec2) ecs.Entity {
	spec := s.Tuning.Items
	e := ecs.CreateEntity(s.World)
	obj := &component.Object{
		Kind:     component.KindItem,
		Cell:     source.Cell,
		Position: source.Position,
		Collider: common.NewRect(spec.Width, spec.Height, -spec.Width/2, 0),
	}
	obj.Snap()
	_ = ecs.Add(s.World, e, component.ObjectComponent.Kind(), obj)
	_ = ecs.Add(s.World, e, component.MobilityComponent.Kind(), &component.Mobility{Velocity: velocity})
	_ = ecs.Add(s.World, e, component.ItemObjectComponent.Kind(), &component.ItemObject{Item: item, State: component.ItemFly})
	return e
}

// Collect moves a grounded item into the player's inventory.
func (s *Scene) Collect(e ecs.Entity) bool {
	item, ok := ecs.Get(s.World, e, component.ItemObjectComponent.Kind())
	if !ok || item.State != component.ItemGrounded {
		return false
	}
	inv, ok := ecs.Get(s.World, s.Player, component.InventoryComponent.Kind())
	if !ok {
		return false
	}
	item.SetState(component.ItemClicked)
	inv.Items.Add(item.Item)
	s.Log.Debug("collected", "item", item.Item)
	s.emit(EventItemCollected, item.Item)
	s.Despawn(e)
	return true
}

// ItemSystem flies spawned loot under exploration gravity until it lands.
type ItemSystem struct {
	scene *Scene
}

func NewItemSystem(s *Scene) *ItemSystem {
	return &ItemSystem{scene: s}
}

func (sys *ItemSystem) Update(w *ecs.World, dt float64) error {
	s := sys.scene
	ecs.ForEach2(w, component.ObjectComponent.Kind(), component.ItemObjectComponent.Kind(), func(e ecs.Entity, obj *component.Object, item *component.ItemObject) {
		_ = Guard(s, e, func() error {
			item.StateTime += dt
			if item.State != component.ItemFly {
				return nil
			}
			mob, ok := ecs.Get(w, e, component.MobilityComponent.Kind())
			if !ok {
				item.SetState(component.ItemGrounded)
				return nil
			}
			mob.Acceleration.Set(0, s.Tuning.World.ExplorationGravity)
			Integrate(obj, mob, dt)
			if _, err := s.SwitchLayer(e, obj); err != nil {
				return err
			}
			ground, err := s.GroundHeight(obj, component.Exploring)
			if err != nil {
				return err
			}
			if Landed(obj, mob, ground) {
				mob.Stop()
				LockToGround(obj, ground)
				item.SetState(component.ItemGrounded)
			}
			return nil
		})
	})
	return nil
}
