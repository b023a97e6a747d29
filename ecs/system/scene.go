package system

import (
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/milk9111/scavenger/ecs"
	"github.com/milk9111/scavenger/ecs/component"
	"github.com/milk9111/scavenger/loot"
	"github.com/milk9111/scavenger/metrics"
	"github.com/milk9111/scavenger/prefabs"
	"github.com/milk9111/scavenger/profile"
	"github.com/milk9111/scavenger/terrain"
)

// Event types pushed to the world event queue.
const (
	EventModeChanged   = "mode_changed"
	EventWindowShifted = "window_shifted"
	EventScavenged     = "scavenged"
	EventItemSpawned   = "item_spawned"
	EventItemCollected = "item_collected"
	EventDamaged       = "damaged"
	EventFault         = "fault"
)

// ScavengedEvent is the payload of EventScavenged.
type ScavengedEvent struct {
	Entity ecs.Entity
	Kind   component.ObjectKind
	ID     uuid.UUID
	Items  []ecs.Entity
}

// DamagedEvent is the payload of EventDamaged.
type DamagedEvent struct {
	Entity ecs.Entity
	Amount float64
	Health float64
	Dead   bool
}

// FaultEvent is the payload of EventFault.
type FaultEvent struct {
	Entity ecs.Entity
	Err    error
}

// Scene is the state every system shares. The orchestrator owns it and is
// the only writer of the window and layer membership outside the systems it
// schedules.
type Scene struct {
	World   *ecs.World
	Level   *terrain.Level
	Arena   *terrain.CombatLevel
	Tuning  *prefabs.Tuning
	Log     *log.Logger
	Rand    *rand.Rand
	Profile profile.Profile
	Metrics *metrics.Metrics
	Drops   map[component.ObjectKind]loot.DropTable

	Player ecs.Entity
	// Spawn is the cell the player started in; no zombies spawn there.
	Spawn terrain.Cell

	brains *brainRegistry
}

func (s *Scene) emit(typ string, data any) {
	s.World.Events().Push(ecs.Event{Type: typ, Data: data})
}

func (s *Scene) gravity(mode component.Mode) float64 {
	if mode == component.Combat {
		return s.Tuning.World.CombatGravity
	}
	return s.Tuning.World.ExplorationGravity
}

// PlayerParts returns the player's core components.
func (s *Scene) PlayerParts() (*component.Object, *component.Mobility, *component.Human, bool) {
	obj, ok1 := ecs.Get(s.World, s.Player, component.ObjectComponent.Kind())
	mob, ok2 := ecs.Get(s.World, s.Player, component.MobilityComponent.Kind())
	h, ok3 := ecs.Get(s.World, s.Player, component.HumanComponent.Kind())
	return obj, mob, h, ok1 && ok2 && ok3
}

// DropTableFor returns the drops of an interactive kind.
func (s *Scene) DropTableFor(kind component.ObjectKind) loot.DropTable {
	return s.Drops[kind]
}
