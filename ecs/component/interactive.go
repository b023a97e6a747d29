package component

import (
	"github.com/milk9111/scavenger/ecs"
	"github.com/milk9111/scavenger/loot"
)

type InteractiveState uint8

const (
	InteractiveSpawn InteractiveState = iota
	InteractiveIdle
	InteractiveClicked
	InteractiveHit
	InteractiveScavenged
)

func (s InteractiveState) String() string {
	switch s {
	case InteractiveSpawn:
		return "spawn"
	case InteractiveIdle:
		return "idle"
	case InteractiveClicked:
		return "clicked"
	case InteractiveHit:
		return "hit"
	case InteractiveScavenged:
		return "scavenged"
	default:
		return "unknown"
	}
}

// Interactive is a tree or box the player can scavenge once.
type Interactive struct {
	State         InteractiveState
	PreviousState InteractiveState
	StateTime     float64
	Drops         loot.DropTable
}

// SetState moves to s. Scavenged is terminal.
func (i *Interactive) SetState(s InteractiveState) bool {
	if i.State == s || i.State == InteractiveScavenged {
		return false
	}
	i.PreviousState = i.State
	i.State = s
	i.StateTime = 0
	return true
}

func (i *Interactive) CanTarget() bool {
	return i.State != InteractiveScavenged
}

var InteractiveComponent = ecs.NewComponent[Interactive]()
