package component

import (
	"github.com/milk9111/scavenger/common"
	"github.com/milk9111/scavenger/ecs"
	"github.com/milk9111/scavenger/loot"
	"github.com/milk9111/scavenger/terrain"
)

// Loadout names the equipped weapons. An empty Ranged means the player cannot
// fire.
type Loadout struct {
	Melee  string
	Ranged string
}

// Player holds what only the controllable human has.
type Player struct {
	Loadout Loadout
	// Engaged is the zombie the player fights or is about to fight.
	Engaged ecs.Entity
	// SavedPosition and SavedCell restore the exploring position after a won
	// fight.
	SavedPosition common.Vec2
	SavedCell     terrain.Cell
	// MeleeResolved is set once the current melee swing has been scored.
	MeleeResolved bool
}

var PlayerComponent = ecs.NewComponent[Player]()

// Inventory counts collected items per kind.
type Inventory struct {
	Items loot.Counts
}

var InventoryComponent = ecs.NewComponent[Inventory]()

// EngageRequest asks the orchestrator to start a fight with Zombie.
type EngageRequest struct {
	Zombie ecs.Entity
}

var EngageRequestComponent = ecs.NewComponent[EngageRequest]()
