package component

import (
	"github.com/milk9111/scavenger/common"
	"github.com/milk9111/scavenger/ecs"
)

// Zombie holds AI flags and the hit-boxes the presentation layer derives from
// the skeleton.
type Zombie struct {
	Alerted bool
	// Targetted is set while the player walks toward this zombie. It only
	// tints the sprite.
	Targetted      bool
	ArmCollider    common.Collider
	ChargeCollider common.Collider
	// HitBoxesSet marks colliders provided from outside for this frame.
	HitBoxesSet  bool
	ChargeDamage float64
	// Brain names a script. Empty uses the builtin brain.
	Brain string
}

var ZombieComponent = ecs.NewComponent[Zombie]()
