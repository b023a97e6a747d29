package prefabs

import (
	"fmt"

	"github.com/milk9111/scavenger/loot"
	"gopkg.in/yaml.v3"
)

// Tuning groups every YAML file the simulation reads.
type Tuning struct {
	World       WorldSpec
	Player      PlayerSpec
	Zombie      ZombieSpec
	Interactive InteractiveSpec
	Items       ItemsSpec
}

type WorldSpec struct {
	LayerWidth         float64        `yaml:"layer_width"`
	RowHeight          float64        `yaml:"row_height"`
	Rows               int            `yaml:"rows"`
	RowRadius          int            `yaml:"row_radius"`
	ColRadius          int            `yaml:"col_radius"`
	MaxAmplitude       float64        `yaml:"max_amplitude"`
	ExplorationGravity float64        `yaml:"exploration_gravity"`
	CombatGravity      float64        `yaml:"combat_gravity"`
	Arena              ArenaSpec      `yaml:"arena"`
	Population         PopulationSpec `yaml:"population"`
	Launch             LaunchSpec     `yaml:"launch"`
}

type ArenaSpec struct {
	GroundY float64 `yaml:"ground_y"`
	Left    float64 `yaml:"left"`
	Right   float64 `yaml:"right"`
	// Gap is the distance between the combatants when the fight starts.
	Gap float64 `yaml:"gap"`
}

type PopulationSpec struct {
	MaxTrees   int     `yaml:"max_trees"`
	MaxBoxes   int     `yaml:"max_boxes"`
	MaxZombies int     `yaml:"max_zombies"`
	Margin     float64 `yaml:"margin"`
}

type LaunchSpec struct {
	X    float64 `yaml:"x"`
	Step float64 `yaml:"step"`
	Y    float64 `yaml:"y"`
}

func (l LaunchSpec) Launch() loot.Launch {
	return loot.Launch{X: l.X, Step: l.Step, Y: l.Y}
}

// HumanSpec holds what players and zombies share.
type HumanSpec struct {
	Width                   float64 `yaml:"width"`
	Height                  float64 `yaml:"height"`
	WalkSpeed               float64 `yaml:"walk_speed"`
	ExploringJumpSpeed      float64 `yaml:"exploring_jump_speed"`
	CombatJumpSpeed         float64 `yaml:"combat_jump_speed"`
	FallSpeed               float64 `yaml:"fall_speed"`
	MaxHealth               float64 `yaml:"max_health"`
	InvulnerabilityDuration float64 `yaml:"invulnerability_duration"`
	HitDuration             float64 `yaml:"hit_duration"`
}

type PlayerSpec struct {
	HumanSpec     `yaml:",inline"`
	ChopDuration  float64        `yaml:"chop_duration"`
	MeleeDuration float64        `yaml:"melee_duration"`
	MeleeWindup   float64        `yaml:"melee_windup"`
	MeleeRange    float64        `yaml:"melee_range"`
	MeleeDamage   float64        `yaml:"melee_damage"`
	FireDuration  float64        `yaml:"fire_duration"`
	FireDamage    float64        `yaml:"fire_damage"`
	StompDamage   float64        `yaml:"stomp_damage"`
	StompBounce   float64        `yaml:"stomp_bounce"`
	WinDuration   float64        `yaml:"win_duration"`
	Loadout       LoadoutSpec    `yaml:"loadout"`
	Inventory     map[string]int `yaml:"inventory"`
}

type LoadoutSpec struct {
	Melee  string `yaml:"melee"`
	Ranged string `yaml:"ranged"`
}

type ZombieSpec struct {
	HumanSpec            `yaml:",inline"`
	IdleThreshold        float64 `yaml:"idle_threshold"`
	MinWalk              float64 `yaml:"min_walk"`
	EdgeMargin           float64 `yaml:"edge_margin"`
	AlertRange           float64 `yaml:"alert_range"`
	LoseRange            float64 `yaml:"lose_range"`
	AlertedDuration      float64 `yaml:"alerted_duration"`
	AlertSpeedMultiplier float64 `yaml:"alert_speed_multiplier"`
	ChargeCooldown       float64 `yaml:"charge_cooldown"`
	ChargeWindup         float64 `yaml:"charge_windup"`
	ChargeSpeed          float64 `yaml:"charge_speed"`
	ChargeDamage         float64 `yaml:"charge_damage"`
	SmashDuration        float64 `yaml:"smash_duration"`
	ArmReach             float64 `yaml:"arm_reach"`
	// Script names a tengo brain under scripts/. Empty uses the builtin brain.
	Script string `yaml:"script"`
}

type InteractiveSpec struct {
	Tree ObjectSpec `yaml:"tree"`
	Box  ObjectSpec `yaml:"box"`
}

type ObjectSpec struct {
	Width  float64    `yaml:"width"`
	Height float64    `yaml:"height"`
	Drops  []DropSpec `yaml:"drops"`
}

type DropSpec struct {
	Item        string  `yaml:"item"`
	Probability float64 `yaml:"probability"`
}

// DropTable converts the YAML drops keeping their order.
func (o ObjectSpec) DropTable() (loot.DropTable, error) {
	table := make(loot.DropTable, 0, len(o.Drops))
	for _, d := range o.Drops {
		kind, err := loot.ParseItemKind(d.Item)
		if err != nil {
			return nil, err
		}
		if d.Probability < 0 || d.Probability > 1 {
			return nil, fmt.Errorf("prefabs: drop %s probability %v outside [0,1]", d.Item, d.Probability)
		}
		table = append(table, loot.DropEntry{Kind: kind, Probability: d.Probability})
	}
	return table, nil
}

type ItemsSpec struct {
	Width  float64             `yaml:"width"`
	Height float64             `yaml:"height"`
	Kinds  map[string]ItemSpec `yaml:"kinds"`
}

type ItemSpec struct {
	Quantity int     `yaml:"quantity"`
	Heal     float64 `yaml:"heal"`
}

// Quantity returns the pickup size of kind, at least one.
func (s ItemsSpec) Quantity(kind loot.ItemKind) int {
	if spec, ok := s.Kinds[kind.String()]; ok && spec.Quantity > 0 {
		return spec.Quantity
	}
	return 1
}

// Heal returns the health restored by consuming kind. Zero means the kind
// cannot be consumed.
func (s ItemsSpec) Heal(kind loot.ItemKind) float64 {
	return s.Kinds[kind.String()].Heal
}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// LoadTuning reads every tuning file, preferring copies on disk.
func LoadTuning() (*Tuning, error) {
	var (
		t   Tuning
		err error
	)
	if t.World, err = LoadSpec[WorldSpec]("world.yaml"); err != nil {
		return nil, err
	}
	if t.Player, err = LoadSpec[PlayerSpec]("player.yaml"); err != nil {
		return nil, err
	}
	if t.Zombie, err = LoadSpec[ZombieSpec]("zombie.yaml"); err != nil {
		return nil, err
	}
	if t.Interactive, err = LoadSpec[InteractiveSpec]("interactive.yaml"); err != nil {
		return nil, err
	}
	if t.Items, err = LoadSpec[ItemsSpec]("items.yaml"); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// MustLoadTuning panics when the embedded defaults are broken.
func MustLoadTuning() *Tuning {
	t, err := LoadTuning()
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Tuning) Validate() error {
	if t.World.LayerWidth <= 0 {
		return fmt.Errorf("prefabs: world.layer_width must be positive")
	}
	if t.World.RowHeight <= 0 {
		return fmt.Errorf("prefabs: world.row_height must be positive")
	}
	if t.World.Rows < 1 {
		return fmt.Errorf("prefabs: world.rows must be at least 1")
	}
	if t.World.Arena.Left >= t.World.Arena.Right {
		return fmt.Errorf("prefabs: world.arena left must be below right")
	}
	if t.World.ExplorationGravity >= 0 || t.World.CombatGravity >= 0 {
		return fmt.Errorf("prefabs: gravity must point down (negative)")
	}
	if t.Player.MaxHealth <= 0 || t.Zombie.MaxHealth <= 0 {
		return fmt.Errorf("prefabs: max_health must be positive")
	}
	for name, obj := range map[string]ObjectSpec{"tree": t.Interactive.Tree, "box": t.Interactive.Box} {
		if _, err := obj.DropTable(); err != nil {
			return fmt.Errorf("prefabs: interactive.%s: %w", name, err)
		}
	}
	for name := range t.Items.Kinds {
		if _, err := loot.ParseItemKind(name); err != nil {
			return fmt.Errorf("prefabs: items: %w", err)
		}
	}
	return nil
}

// Clone returns a deep copy so callers can tweak values without touching
// shared tuning.
func (t *Tuning) Clone() *Tuning {
	c := *t
	c.Player.Inventory = make(map[string]int, len(t.Player.Inventory))
	for k, v := range t.Player.Inventory {
		c.Player.Inventory[k] = v
	}
	c.Interactive.Tree.Drops = append([]DropSpec(nil), t.Interactive.Tree.Drops...)
	c.Interactive.Box.Drops = append([]DropSpec(nil), t.Interactive.Box.Drops...)
	c.Items.Kinds = make(map[string]ItemSpec, len(t.Items.Kinds))
	for k, v := range t.Items.Kinds {
		c.Items.Kinds[k] = v
	}
	return &c
}
