package main

import (
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/scavenger/ecs"
	"github.com/milk9111/scavenger/ecs/component"
	"github.com/milk9111/scavenger/prefabs"
	"github.com/milk9111/scavenger/profile"
	"github.com/milk9111/scavenger/world"
)

const (
	baseWidth  = 1280
	baseHeight = 720
	// pixels per metre
	baseZoom = 80

	spawnAnimationTime  = 0.3
	versusAnimationTime = 1.2
	koAnimationTime     = 1.5
)

type GameOptions struct {
	Seed   int64
	DBPath string
	Debug  bool
	Logger *log.Logger
}

// Game is the ebiten front end: it renders the world, feeds it input and
// plays the animations the world waits for.
type Game struct {
	frames int
	debug  bool
	log    *log.Logger

	world   *world.World
	store   *profile.SQLiteStore
	watcher *prefabs.Watcher
	input   *Input
	camera  *Camera

	// spawning tracks how long each entity has shown its spawn animation.
	spawning map[ecs.Entity]float64
	anim     float64
	lastMode world.Mode
}

func NewGame(opts GameOptions) (*Game, error) {
	g := &Game{
		debug:    opts.Debug,
		log:      opts.Logger,
		spawning: make(map[ecs.Entity]float64),
	}

	var prof profile.Profile = profile.NewMemory(opts.Seed)
	if opts.DBPath != "" {
		store, err := profile.OpenSQLite(opts.DBPath, opts.Seed)
		if err != nil {
			return nil, err
		}
		g.store = store
		prof = store
	}

	w, err := world.New(world.Options{Logger: opts.Logger.WithPrefix("world"), Profile: prof})
	if err != nil {
		g.Close()
		return nil, err
	}
	g.world = w
	g.lastMode = w.Mode()

	g.camera = NewCamera(baseWidth, baseHeight, baseZoom)
	if obj, ok := ecs.Get(w.ECS(), w.Player(), component.ObjectComponent.Kind()); ok {
		g.camera.Jump(obj.Position.X, obj.Position.Y+1)
	}
	g.input = NewInput(g.camera)

	if watcher, err := prefabs.NewWatcher(prefabDirs()...); err != nil {
		g.log.Warn("tuning hot reload disabled", "error", err)
	} else {
		g.watcher = watcher
	}
	return g, nil
}

// prefabDirs lists the on-disk prefab directories present next to the binary.
func prefabDirs() []string {
	var dirs []string
	for _, dir := range []string{"prefabs", "prefabs/scripts"} {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	if g.store != nil {
		if err := g.store.Close(); err != nil {
			g.log.Warn("closing profile failed", "error", err)
		}
	}
}

func (g *Game) Update() error {
	g.frames++
	dt := 1.0 / float64(ebiten.TPS())

	g.reloadTuning()
	g.input.Update(g.world)
	g.playAnimations(dt)

	if err := g.world.Update(dt); err != nil {
		return err
	}
	for _, ev := range g.world.Events() {
		g.log.Debug("event", "type", ev.Type, "data", ev.Data)
	}

	g.followPlayer()
	if g.world.Mode() == world.GameOver && g.lastMode != world.GameOver {
		g.log.Info("game over", "frames", g.frames)
	}
	g.lastMode = g.world.Mode()
	return nil
}

// playAnimations stands in for sprite animations: spawns are acknowledged
// and the versus/knockout screens finish after fixed times.
func (g *Game) playAnimations(dt float64) {
	w := g.world
	for _, e := range ecs.Entities(w.ECS()) {
		if !spawningNow(w, e) {
			delete(g.spawning, e)
			continue
		}
		g.spawning[e] += dt
		if g.spawning[e] >= spawnAnimationTime {
			w.AcknowledgeSpawn(e)
			delete(g.spawning, e)
		}
	}
	for e := range g.spawning {
		if !ecs.IsAlive(w.ECS(), e) {
			delete(g.spawning, e)
		}
	}

	var limit float64
	switch w.Mode() {
	case world.VersusAnimation:
		limit = versusAnimationTime
	case world.KoAnimation:
		limit = koAnimationTime
	default:
		g.anim = 0
		return
	}
	g.anim += dt
	if g.anim >= limit {
		g.anim = 0
		w.AnimationFinished()
		g.snapCamera()
	}
}

func spawningNow(w *world.World, e ecs.Entity) bool {
	if h, ok := ecs.Get(w.ECS(), e, component.HumanComponent.Kind()); ok {
		return h.State == component.StateSpawn
	}
	if inter, ok := ecs.Get(w.ECS(), e, component.InteractiveComponent.Kind()); ok {
		return inter.State == component.InteractiveSpawn
	}
	return false
}

func (g *Game) followPlayer() {
	if obj, ok := ecs.Get(g.world.ECS(), g.world.Player(), component.ObjectComponent.Kind()); ok {
		g.camera.Update(obj.Position.X, obj.Position.Y+1)
	}
}

func (g *Game) snapCamera() {
	if obj, ok := ecs.Get(g.world.ECS(), g.world.Player(), component.ObjectComponent.Kind()); ok {
		g.camera.Jump(obj.Position.X, obj.Position.Y+1)
	}
}

// reloadTuning applies edited prefab files without restarting.
func (g *Game) reloadTuning() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			t, err := prefabs.LoadTuning()
			if err == nil {
				err = g.world.SetTuning(t)
			}
			if err != nil {
				g.log.Warn("tuning reload rejected", "file", name, "error", err)
				continue
			}
			g.log.Info("tuning reloaded", "file", name)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			if !errors.Is(err, os.ErrClosed) {
				g.log.Warn("prefab watcher", "error", err)
			}
		default:
			return
		}
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
