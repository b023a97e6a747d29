package system

import (
	"fmt"

	"github.com/milk9111/scavenger/ecs"
)

// Guard runs fn for one entity and converts a panic into an error. Faults of
// entities other than the player are logged, counted and despawned so the
// rest of the frame proceeds; the player's error is returned to the caller.
func Guard(s *Scene, e ecs.Entity, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("system: entity %v panicked: %v", e, r)
		}
		if err != nil && e != s.Player {
			s.fault(e, err)
			err = nil
		}
	}()
	return fn()
}

func (s *Scene) fault(e ecs.Entity, err error) {
	s.Log.Error("entity update failed", "entity", e, "error", err)
	s.Metrics.EntityFault()
	s.emit(EventFault, FaultEvent{Entity: e, Err: err})
	s.Despawn(e)
}
