package loot

import "github.com/milk9111/scavenger/common"

// DropEntry is an independent chance to drop one item of Kind.
type DropEntry struct {
	Kind        ItemKind
	Probability float64
}

// DropTable lists entries in the order they are sampled.
type DropTable []DropEntry

// Sampler draws uniform values in [0,1). *rand.Rand satisfies it.
type Sampler interface {
	Float64() float64
}

// Roll samples every entry once and returns the kinds that dropped, in table
// order. A nil table drops nothing.
func (t DropTable) Roll(s Sampler) []ItemKind {
	if len(t) == 0 || s == nil {
		return nil
	}
	var out []ItemKind
	for _, entry := range t {
		if !entry.Kind.Valid() {
			continue
		}
		if s.Float64() < entry.Probability {
			out = append(out, entry.Kind)
		}
	}
	return out
}

// Launch describes how spawned items leave their source.
type Launch struct {
	X    float64
	Step float64
	Y    float64
}

// Velocity returns the launch velocity of the n-th item of one scavenge event
// for a player facing dir (-1 or 1).
func (l Launch) Velocity(n int, dir float64) common.Vec2 {
	return common.V(dir*(l.X+float64(n)*l.Step), l.Y)
}
