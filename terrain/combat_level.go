package terrain

import "github.com/milk9111/scavenger/common"

// CombatLevel is the single-line arena used while fighting.
type CombatLevel struct {
	GroundY float64
	Left    float64
	Right   float64
	Ground  common.Collider
}

func NewCombatLevel(groundY, left, right float64) *CombatLevel {
	return &CombatLevel{
		GroundY: groundY,
		Left:    left,
		Right:   right,
		Ground:  common.NewLine(common.V(left, groundY), common.V(right, groundY)),
	}
}

// GroundHeight is constant across the arena.
func (c *CombatLevel) GroundHeight(float64) float64 {
	return c.GroundY
}

// Clamp keeps x inside the arena.
func (c *CombatLevel) Clamp(x float64) float64 {
	return common.Clamp(x, c.Left, c.Right)
}
