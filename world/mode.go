package world

// Mode is the top-level state of the world.
type Mode uint8

const (
	Exploring Mode = iota
	VersusAnimation
	Combat
	KoAnimation
	GameOver
)

func (m Mode) String() string {
	switch m {
	case Exploring:
		return "exploring"
	case VersusAnimation:
		return "versus_animation"
	case Combat:
		return "combat"
	case KoAnimation:
		return "ko_animation"
	case GameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Simulating reports whether frames advance the simulation in m.
func (m Mode) Simulating() bool {
	return m == Exploring || m == Combat
}

// ModeChange is the payload of mode_changed events.
type ModeChange struct {
	From Mode
	To   Mode
}
