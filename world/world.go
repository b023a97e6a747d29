// Package world is the orchestrator of the simulation: it owns the entity
// arena and the terrain window, runs the per-frame systems and drives the
// world mode machine.
package world

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/milk9111/scavenger/common"
	"github.com/milk9111/scavenger/ecs"
	"github.com/milk9111/scavenger/ecs/component"
	"github.com/milk9111/scavenger/ecs/system"
	"github.com/milk9111/scavenger/loot"
	"github.com/milk9111/scavenger/metrics"
	"github.com/milk9111/scavenger/prefabs"
	"github.com/milk9111/scavenger/profile"
	"github.com/milk9111/scavenger/terrain"
)

// Options wires the collaborators of a World. Zero values get defaults.
type Options struct {
	Logger    *log.Logger
	Profile   profile.Profile
	Metrics   *metrics.Metrics
	Tuning    *prefabs.Tuning
	Generator terrain.Generator
	Rand      *rand.Rand
	// Seed is used when no Profile is given.
	Seed int64
	// AutoAcknowledgeSpawn moves spawned objects to idle on the next frame,
	// for runs without a presentation layer.
	AutoAcknowledgeSpawn bool
}

type World struct {
	ecs       *ecs.World
	scene     *system.Scene
	mode      Mode
	autoAck   bool
	log       *log.Logger
	metrics   *metrics.Metrics
	exploring *ecs.Scheduler
	combat    *ecs.Scheduler
}

func New(opts Options) (*World, error) {
	tuning := opts.Tuning
	if tuning == nil {
		t, err := prefabs.LoadTuning()
		if err != nil {
			return nil, err
		}
		tuning = t
	} else if err := tuning.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default().WithPrefix("world")
	}
	prof := opts.Profile
	if prof == nil {
		prof = profile.NewMemory(opts.Seed)
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(prof.Seed()))
	}
	ws := tuning.World
	gen := opts.Generator
	if gen == nil {
		gen = terrain.NewNoiseGenerator(prof.Seed(), ws.RowHeight, ws.LayerWidth, ws.MaxAmplitude)
	}

	center := terrain.Cell{}
	if row, col, ok := prof.LastCell(); ok && row >= 0 && row < ws.Rows {
		center = terrain.Cell{Row: row, Col: col}
	}

	drops, err := dropTables(tuning)
	if err != nil {
		return nil, err
	}

	ew := ecs.NewWorld()
	scene := &system.Scene{
		World:   ew,
		Tuning:  tuning,
		Log:     logger,
		Rand:    rng,
		Profile: prof,
		Metrics: opts.Metrics,
		Drops:   drops,
		Spawn:   center,
		Arena:   terrain.NewCombatLevel(ws.Arena.GroundY, ws.Arena.Left, ws.Arena.Right),
	}
	scene.ResetBrains()

	level, err := terrain.NewLevel(terrain.Config{
		LayerWidth: ws.LayerWidth,
		Rows:       ws.Rows,
		RowRadius:  ws.RowRadius,
		ColRadius:  ws.ColRadius,
	}, gen, center, terrain.Hooks{
		OnCreate:  scene.PopulateLayer,
		OnDiscard: scene.DiscardLayer,
	})
	if err != nil {
		return nil, fmt.Errorf("world: %w", err)
	}
	scene.Level = level

	if _, err := scene.SpawnPlayer(float64(center.Col) * ws.LayerWidth); err != nil {
		return nil, fmt.Errorf("world: spawn player: %w", err)
	}

	w := &World{
		ecs:     ew,
		scene:   scene,
		mode:    Exploring,
		autoAck: opts.AutoAcknowledgeSpawn,
		log:     logger,
		metrics: opts.Metrics,
		exploring: ecs.NewScheduler(
			system.NewPlayerSystem(scene),
			system.NewZombieSystem(scene, false),
			system.NewItemSystem(scene),
			system.NewObjectSystem(scene),
		),
		combat: ecs.NewScheduler(
			system.NewPlayerSystem(scene),
			system.NewZombieSystem(scene, true),
		),
	}
	logger.Info("world ready", "seed", prof.Seed(), "cell", center, "entities", len(ecs.Entities(ew)))
	return w, nil
}

func dropTables(t *prefabs.Tuning) (map[component.ObjectKind]loot.DropTable, error) {
	tree, err := t.Interactive.Tree.DropTable()
	if err != nil {
		return nil, fmt.Errorf("world: tree drops: %w", err)
	}
	box, err := t.Interactive.Box.DropTable()
	if err != nil {
		return nil, fmt.Errorf("world: box drops: %w", err)
	}
	return map[component.ObjectKind]loot.DropTable{
		component.KindTree: tree,
		component.KindBox:  box,
	}, nil
}

// Update advances one frame. Outside Exploring and Combat the simulation is
// frozen. An error means the player's own update violated the window
// contract; faults of other entities are isolated.
func (w *World) Update(dt float64) error {
	w.ecs.Events().Reset()
	if !w.mode.Simulating() {
		return nil
	}
	if dt < 0 {
		dt = 0
	}
	w.metrics.Frame()
	if w.autoAck {
		w.scene.AcknowledgeAll()
	}

	sched := w.exploring
	if w.mode == Combat {
		sched = w.combat
	}
	if err := sched.Update(w.ecs, dt); err != nil {
		return fmt.Errorf("world: update: %w", err)
	}

	switch w.mode {
	case Exploring:
		if req, ok := ecs.Get(w.ecs, w.scene.Player, component.EngageRequestComponent.Kind()); ok {
			zombie := req.Zombie
			ecs.Remove(w.ecs, w.scene.Player, component.EngageRequestComponent.Kind())
			w.engage(zombie)
		}
	case Combat:
		w.checkKnockout()
	}
	w.metrics.SetEntities(len(ecs.Entities(w.ecs)))
	return nil
}

func (w *World) setMode(m Mode) {
	if w.mode == m {
		return
	}
	from := w.mode
	w.mode = m
	w.log.Debug("mode changed", "from", from, "to", m)
	w.metrics.ModeChanged(m.String())
	w.ecs.Events().Push(ecs.Event{Type: system.EventModeChanged, Data: ModeChange{From: from, To: m}})
}

// engage freezes exploring and starts the versus animation against zombie.
func (w *World) engage(zombie ecs.Entity) {
	s := w.scene
	if !ecs.IsAlive(w.ecs, zombie) {
		return
	}
	obj, mob, h, ok := s.PlayerParts()
	p, okP := ecs.Get(w.ecs, s.Player, component.PlayerComponent.Kind())
	if !ok || !okP {
		return
	}
	p.Engaged = zombie
	p.SavedPosition = obj.Position
	p.SavedCell = obj.Cell
	s.AbortChop(h)
	h.ClearTarget()
	mob.Stop()
	if zmob, ok := ecs.Get(w.ecs, zombie, component.MobilityComponent.Kind()); ok {
		zmob.Stop()
	}
	if z, ok := ecs.Get(w.ecs, zombie, component.ZombieComponent.Kind()); ok {
		z.Alerted = false
		z.Targetted = false
	}
	w.log.Info("engaged", "zombie", zombie, "cell", obj.Cell)
	w.setMode(VersusAnimation)
}

// AnimationFinished is called by the presentation layer between frames when
// the versus or knockout animation ends. Other calls are ignored.
func (w *World) AnimationFinished() bool {
	switch w.mode {
	case VersusAnimation:
		w.enterCombat()
		return true
	case KoAnimation:
		stats, ok := ecs.Get(w.ecs, w.scene.Player, component.CombatStatsComponent.Kind())
		if !ok || stats.IsDead() {
			w.setMode(GameOver)
			return true
		}
		w.leaveCombat()
		return true
	}
	return false
}

func (w *World) enterCombat() {
	s := w.scene
	p, ok := ecs.Get(w.ecs, s.Player, component.PlayerComponent.Kind())
	if !ok {
		return
	}
	arena := s.Tuning.World.Arena
	mid := (arena.Left + arena.Right) / 2
	place := func(e ecs.Entity, x float64, dir component.Facing) {
		obj, okO := ecs.Get(w.ecs, e, component.ObjectComponent.Kind())
		mob, okM := ecs.Get(w.ecs, e, component.MobilityComponent.Kind())
		h, okH := ecs.Get(w.ecs, e, component.HumanComponent.Kind())
		if !okO || !okM || !okH {
			return
		}
		obj.Position = common.V(x, arena.GroundY)
		obj.Snap()
		mob.Stop()
		h.Mode = component.Combat
		h.Direction = dir
		h.ClearTarget()
		if h.State != component.StateDead {
			h.SetState(component.StateIdle)
			h.StateTime = 0
		}
	}
	place(s.Player, mid-arena.Gap/2, component.Right)
	place(p.Engaged, mid+arena.Gap/2, component.Left)
	w.setMode(Combat)
}

func (w *World) checkKnockout() {
	s := w.scene
	p, okP := ecs.Get(w.ecs, s.Player, component.PlayerComponent.Kind())
	ph, okH := ecs.Get(w.ecs, s.Player, component.HumanComponent.Kind())
	pstats, okS := ecs.Get(w.ecs, s.Player, component.CombatStatsComponent.Kind())
	if !okP || !okH || !okS {
		return
	}
	zstats, ok := ecs.Get(w.ecs, p.Engaged, component.CombatStatsComponent.Kind())
	zombieDown := !ok || zstats.IsDead()
	if !pstats.IsDead() && !zombieDown {
		return
	}
	if !pstats.IsDead() {
		ph.SetState(component.StateWin)
		w.log.Info("zombie knocked out", "zombie", p.Engaged)
	} else {
		w.log.Info("player knocked out")
	}
	w.setMode(KoAnimation)
}

// leaveCombat restores the exploring position of the winner and removes the
// defeated zombie.
func (w *World) leaveCombat() {
	s := w.scene
	obj, mob, h, ok := s.PlayerParts()
	p, okP := ecs.Get(w.ecs, s.Player, component.PlayerComponent.Kind())
	if !ok || !okP {
		return
	}
	obj.Position = p.SavedPosition
	obj.Cell = p.SavedCell
	obj.Snap()
	mob.Stop()
	h.Mode = component.Exploring
	h.SetState(component.StateIdle)
	s.Despawn(p.Engaged)
	p.Engaged = 0
	w.setMode(Exploring)
}

// SetTuning swaps the tuning used from the next frame. Layers already in the
// window keep their geometry and occupants.
func (w *World) SetTuning(t *prefabs.Tuning) error {
	if t == nil {
		return errors.New("world: nil tuning")
	}
	if err := t.Validate(); err != nil {
		return err
	}
	if t.World.LayerWidth != w.scene.Tuning.World.LayerWidth || t.World.Rows != w.scene.Tuning.World.Rows {
		return errors.New("world: layer geometry cannot change while running")
	}
	drops, err := dropTables(t)
	if err != nil {
		return err
	}
	w.scene.Tuning = t
	w.scene.Drops = drops
	w.scene.ResetBrains()
	w.log.Info("tuning reloaded")
	return nil
}

func (w *World) Mode() Mode { return w.mode }
func (w *World) Player() ecs.Entity { return w.scene.Player }
func (w *World) ECS() *ecs.World { return w.ecs }
func (w *World) Level() *terrain.Level { return w.scene.Level }
func (w *World) Arena() *terrain.CombatLevel { return w.scene.Arena }
func (w *World) Tuning() *prefabs.Tuning { return w.scene.Tuning }
func (w *World) Profile() profile.Profile { return w.scene.Profile }
func (w *World) Scene() *system.Scene { return w.scene }

// Events returns what happened during the last Update.
func (w *World) Events() []ecs.Event {
	return w.ecs.Events().Peek()
}

// Engaged returns the zombie the player fights, if any.
func (w *World) Engaged() (ecs.Entity, bool) {
	p, ok := ecs.Get(w.ecs, w.scene.Player, component.PlayerComponent.Kind())
	if !ok || !ecs.IsAlive(w.ecs, p.Engaged) {
		return 0, false
	}
	return p.Engaged, true
}
