package component

import (
	"github.com/milk9111/scavenger/ecs"
	"github.com/milk9111/scavenger/loot"
)

type ItemState uint8

const (
	ItemSpawn ItemState = iota
	ItemFly
	ItemGrounded
	ItemClicked
)

func (s ItemState) String() string {
	switch s {
	case ItemSpawn:
		return "spawn"
	case ItemFly:
		return "fly"
	case ItemGrounded:
		return "grounded"
	case ItemClicked:
		return "clicked"
	default:
		return "unknown"
	}
}

// ItemObject is loot lying in the world.
type ItemObject struct {
	Item      loot.Item
	State     ItemState
	StateTime float64
}

func (i *ItemObject) SetState(s ItemState) bool {
	if i.State == s {
		return false
	}
	i.State = s
	i.StateTime = 0
	return true
}

var ItemObjectComponent = ecs.NewComponent[ItemObject]()
