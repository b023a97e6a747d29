package component

import (
	"github.com/milk9111/scavenger/ecs"
)

type Mode uint8

const (
	Exploring Mode = iota
	Combat
)

func (m Mode) String() string {
	if m == Combat {
		return "combat"
	}
	return "exploring"
}

type HumanState uint8

const (
	StateSpawn HumanState = iota
	StateIdle
	StateWalk
	StateJump
	StateDoubleJump
	StateFall
	StateChopTree
	StateMelee
	StateChargeStart
	StateCharge
	StateSmash
	StateFire
	StateAlerted
	StateHit
	StateHitHead
	StateDead
	StateTeleport
	StateWin
)

var humanStateNames = [...]string{
	StateSpawn:       "spawn",
	StateIdle:        "idle",
	StateWalk:        "walk",
	StateJump:        "jump",
	StateDoubleJump:  "double_jump",
	StateFall:        "fall",
	StateChopTree:    "chop_tree",
	StateMelee:       "melee",
	StateChargeStart: "charge_start",
	StateCharge:      "charge",
	StateSmash:       "smash",
	StateFire:        "fire",
	StateAlerted:     "alerted",
	StateHit:         "hit",
	StateHitHead:     "hit_head",
	StateDead:        "dead",
	StateTeleport:    "teleport",
	StateWin:         "win",
}

func (s HumanState) String() string {
	if int(s) < len(humanStateNames) {
		return humanStateNames[s]
	}
	return "unknown"
}

// Airborne reports whether the state is driven by gravity.
func (s HumanState) Airborne() bool {
	return s == StateJump || s == StateDoubleJump || s == StateFall
}

// Attacking reports whether the state is one of the attack variants.
func (s HumanState) Attacking() bool {
	switch s {
	case StateChopTree, StateMelee, StateChargeStart, StateCharge, StateSmash, StateFire:
		return true
	}
	return false
}

// Facing is the horizontal direction a human looks at.
type Facing int8

const (
	Left  Facing = -1
	Right Facing = 1
)

func (f Facing) String() string {
	if f == Left {
		return "left"
	}
	return "right"
}

// Sign returns -1 or 1.
func (f Facing) Sign() float64 {
	if f == Left {
		return -1
	}
	return 1
}

func (f Facing) Opposite() Facing {
	if f == Left {
		return Right
	}
	return Left
}

func FacingOf(dx float64) Facing {
	if dx < 0 {
		return Left
	}
	return Right
}

// Human is the behavioural state of a player or zombie.
type Human struct {
	Mode          Mode
	State         HumanState
	PreviousState HumanState
	StateTime     float64
	Direction     Facing
	// Target is zero when the human has nothing to walk to.
	Target        ecs.Entity
	TargetReached bool
	WalkSpeed     float64
}

// SetState moves to s. Re-entering the current state is a no-op so state time
// keeps accumulating. Dead is terminal.
func (h *Human) SetState(s HumanState) bool {
	if h.State == s || h.State == StateDead {
		return false
	}
	h.PreviousState = h.State
	h.State = s
	h.StateTime = 0
	return true
}

func (h *Human) ClearTarget() {
	h.Target = 0
	h.TargetReached = false
}

// IsFacing reports whether x lies in front of a human standing at from.
func (h *Human) IsFacing(from, x float64) bool {
	if h.Direction == Left {
		return x <= from
	}
	return x >= from
}

var HumanComponent = ecs.NewComponent[Human]()

// CombatStats tracks health and the invulnerability window.
type CombatStats struct {
	Health                  float64
	MaxHealth               float64
	InvulnerabilityTimer    float64
	InvulnerabilityDuration float64
}

func NewCombatStats(maxHealth, invulnerability float64) CombatStats {
	return CombatStats{Health: maxHealth, MaxHealth: maxHealth, InvulnerabilityDuration: invulnerability}
}

func (c *CombatStats) IsDead() bool {
	return c.Health <= 0
}

func (c *CombatStats) IsInvulnerable() bool {
	return c.InvulnerabilityTimer > 0
}

func (c *CombatStats) MakeInvulnerable() {
	c.InvulnerabilityTimer = c.InvulnerabilityDuration
}

// Tick counts the invulnerability timer down toward zero. Negative dt is
// ignored so the timer never grows.
func (c *CombatStats) Tick(dt float64) {
	if dt <= 0 || c.InvulnerabilityTimer <= 0 {
		return
	}
	c.InvulnerabilityTimer -= dt
	if c.InvulnerabilityTimer < 0 {
		c.InvulnerabilityTimer = 0
	}
}

// Heal restores health up to the maximum. The dead stay dead.
func (c *CombatStats) Heal(amount float64) bool {
	if amount <= 0 || c.IsDead() || c.Health >= c.MaxHealth {
		return false
	}
	c.Health = min(c.MaxHealth, c.Health+amount)
	return true
}

var CombatStatsComponent = ecs.NewComponent[CombatStats]()
