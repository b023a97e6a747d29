package system

import (
	"io"
	"math/rand"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/milk9111/scavenger/ecs"
	"github.com/milk9111/scavenger/ecs/component"
	"github.com/milk9111/scavenger/loot"
	"github.com/milk9111/scavenger/prefabs"
	"github.com/milk9111/scavenger/profile"
	"github.com/milk9111/scavenger/terrain"
)

// newTestScene builds an empty flat world with an acknowledged player at the
// origin.
func newTestScene(t *testing.T, mutate func(*prefabs.Tuning)) *Scene {
	t.Helper()
	tuning := prefabs.MustLoadTuning().Clone()
	tuning.World.Population = prefabs.PopulationSpec{}
	if mutate != nil {
		mutate(tuning)
	}
	ws := tuning.World
	s := &Scene{
		World:   ecs.NewWorld(),
		Tuning:  tuning,
		Log:     log.New(io.Discard),
		Rand:    rand.New(rand.NewSource(1)),
		Profile: profile.NewMemory(1),
		Arena:   terrain.NewCombatLevel(ws.Arena.GroundY, ws.Arena.Left, ws.Arena.Right),
		Drops: map[component.ObjectKind]loot.DropTable{
			component.KindTree: {{Kind: loot.Wood, Probability: 1}},
			component.KindBox:  {{Kind: loot.Food, Probability: 1}, {Kind: loot.Ammo, Probability: 0}},
		},
	}
	s.ResetBrains()
	lvl, err := terrain.NewLevel(terrain.Config{
		LayerWidth: ws.LayerWidth,
		Rows:       ws.Rows,
		RowRadius:  ws.RowRadius,
		ColRadius:  ws.ColRadius,
	}, terrain.FlatGenerator{RowHeight: ws.RowHeight}, terrain.Cell{}, terrain.Hooks{
		OnCreate:  s.PopulateLayer,
		OnDiscard: s.DiscardLayer,
	})
	if err != nil {
		t.Fatalf("NewLevel: %v", err)
	}
	s.Level = lvl
	if _, err := s.SpawnPlayer(0); err != nil {
		t.Fatalf("SpawnPlayer: %v", err)
	}
	s.AcknowledgeSpawn(s.Player)
	return s
}

func mustLayer(t *testing.T, s *Scene, cell terrain.Cell) *terrain.Layer {
	t.Helper()
	layer, err := s.Level.LayerAt(cell)
	if err != nil {
		t.Fatalf("LayerAt(%v): %v", cell, err)
	}
	return layer
}

func addInteractive(t *testing.T, s *Scene, kind component.ObjectKind, cell terrain.Cell, x float64) ecs.Entity {
	t.Helper()
	e := s.SpawnInteractive(mustLayer(t, s, cell), kind, uuid.New(), x)
	s.AcknowledgeSpawn(e)
	return e
}

func addZombie(t *testing.T, s *Scene, cell terrain.Cell, x float64, dir component.Facing) ecs.Entity {
	t.Helper()
	e := s.SpawnZombie(mustLayer(t, s, cell), uuid.New(), x, dir)
	s.AcknowledgeSpawn(e)
	return e
}

func get[T any](t *testing.T, s *Scene, e ecs.Entity, h ecs.ComponentHandle[T]) *T {
	t.Helper()
	v, ok := ecs.Get(s.World, e, h.Kind())
	if !ok {
		t.Fatalf("entity %v has no %T", e, *new(T))
	}
	return v
}

func run(t *testing.T, s *Scene, sys ecs.System, frames int, dt float64) {
	t.Helper()
	for i := range frames {
		if err := sys.Update(s.World, dt); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}
}

func countEvents(s *Scene, typ string) int {
	n := 0
	for _, ev := range s.World.Events().Peek() {
		if ev.Type == typ {
			n++
		}
	}
	return n
}
