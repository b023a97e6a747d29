package system

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/milk9111/scavenger/ecs/component"
	"github.com/milk9111/scavenger/prefabs"
	"github.com/milk9111/scavenger/terrain"
)

func TestWalkAcrossLayerBoundaryShiftsOnce(t *testing.T) {
	s := newTestScene(t, nil)
	if !s.Walk(s.Player, component.Right) {
		t.Fatalf("Walk refused")
	}
	run(t, s, NewPlayerSystem(s), 50, 0.01)

	obj := get(t, s, s.Player, component.ObjectComponent)
	if math.Abs(obj.Position.X-3) > 1e-9 {
		t.Fatalf("expected x=3, got %v", obj.Position.X)
	}
	if obj.Cell != (terrain.Cell{Row: 0, Col: 1}) {
		t.Fatalf("expected cell (0,1), got %v", obj.Cell)
	}
	if s.Level.Center() != obj.Cell {
		t.Fatalf("window center %v does not follow player %v", s.Level.Center(), obj.Cell)
	}
	if n := countEvents(s, EventWindowShifted); n != 1 {
		t.Fatalf("expected exactly one window shift, got %d", n)
	}
	if row, col, ok := s.Profile.LastCell(); !ok || row != 0 || col != 1 {
		t.Fatalf("profile cell not saved: %d %d %v", row, col, ok)
	}
}

func TestShiftSequenceKeepsPlayerCentered(t *testing.T) {
	s := newTestScene(t, nil)
	obj := get(t, s, s.Player, component.ObjectComponent)
	rng := rand.New(rand.NewSource(3))
	dirs := []terrain.Direction{terrain.Up, terrain.Down, terrain.Left, terrain.Right}
	for i := range 300 {
		if _, err := s.ShiftPlayer(dirs[rng.Intn(len(dirs))]); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if obj.Cell != s.Level.Center() {
			t.Fatalf("step %d: player %v, center %v", i, obj.Cell, s.Level.Center())
		}
		if obj.Cell.Row < 0 || obj.Cell.Row >= s.Tuning.World.Rows {
			t.Fatalf("step %d: row %d out of bounds", i, obj.Cell.Row)
		}
	}
}

func TestGroundLockIsIdempotent(t *testing.T) {
	s := newTestScene(t, nil)
	gen := terrain.NewNoiseGenerator(9, 1.5, 4, 0.2)
	lvl, err := terrain.NewLevel(terrain.Config{LayerWidth: 4, Rows: 3, RowRadius: 1, ColRadius: 1}, gen, terrain.Cell{Row: 1}, terrain.Hooks{})
	if err != nil {
		t.Fatalf("NewLevel: %v", err)
	}
	s.Level = lvl
	obj := &component.Object{Cell: terrain.Cell{Row: 1}}
	for _, x := range []float64{-1.7, -0.3, 0, 0.9, 1.99} {
		obj.Position.X = x
		g1, err := s.GroundHeight(obj, component.Exploring)
		if err != nil {
			t.Fatalf("GroundHeight: %v", err)
		}
		LockToGround(obj, g1)
		first := obj.Position.Y
		g2, _ := s.GroundHeight(obj, component.Exploring)
		LockToGround(obj, g2)
		if obj.Position.Y != first {
			t.Fatalf("x=%v: ground lock drifted from %v to %v", x, first, obj.Position.Y)
		}
	}
}

func TestJumpClimbsAndFallDescends(t *testing.T) {
	s := newTestScene(t, nil)
	sys := NewPlayerSystem(s)
	obj := get(t, s, s.Player, component.ObjectComponent)
	h := get(t, s, s.Player, component.HumanComponent)

	if ok, err := s.Jump(s.Player); !ok || err != nil {
		t.Fatalf("Jump: %v %v", ok, err)
	}
	if h.State != component.StateJump || obj.Cell.Row != 1 || s.Level.Center().Row != 1 {
		t.Fatalf("jump did not move up a row: state %v cell %v", h.State, obj.Cell)
	}
	if ok, _ := s.Jump(s.Player); ok {
		t.Fatalf("jumping while airborne must be ignored")
	}
	run(t, s, sys, 200, 0.01)
	if h.State != component.StateIdle || obj.Position.Y != 1.5 {
		t.Fatalf("expected to land on row 1 at 1.5, got %v at %v", h.State, obj.Position.Y)
	}

	if ok, _ := s.Fall(s.Player); !ok {
		t.Fatalf("Fall refused")
	}
	if obj.Cell.Row != 0 {
		t.Fatalf("fall must move down a row, got %v", obj.Cell)
	}
	run(t, s, sys, 200, 0.01)
	if h.State != component.StateIdle || obj.Position.Y != 0 {
		t.Fatalf("expected to land on row 0, got %v at %v", h.State, obj.Position.Y)
	}
	if ok, _ := s.Fall(s.Player); ok {
		t.Fatalf("falling below row 0 must be refused")
	}
}

func TestJumpRefusedOnTopRow(t *testing.T) {
	s := newTestScene(t, func(tu *prefabs.Tuning) { tu.World.Rows = 1 })
	if ok, _ := s.Jump(s.Player); ok {
		t.Fatalf("jump without a row above must be ignored")
	}
}

func TestDeathIsTerminal(t *testing.T) {
	s := newTestScene(t, nil)
	z := addZombie(t, s, terrain.Cell{Col: 1}, 5, component.Left)
	h := get(t, s, z, component.HumanComponent)
	stats := get(t, s, z, component.CombatStatsComponent)
	if stats.Health != 100 {
		t.Fatalf("expected 100 health, got %v", stats.Health)
	}

	if !TakeDamage(h, stats, 100) || h.State != component.StateDead {
		t.Fatalf("lethal damage must kill, state %v", h.State)
	}
	TakeDamage(h, stats, 100)
	if h.State != component.StateDead || stats.Health != -100 {
		t.Fatalf("expected dead at -100, got %v at %v", h.State, stats.Health)
	}
	if s.Walk(z, component.Right) {
		t.Fatalf("the dead cannot walk")
	}
}

func TestDamageRespectsInvulnerability(t *testing.T) {
	s := newTestScene(t, nil)
	stats := get(t, s, s.Player, component.CombatStatsComponent)
	h := get(t, s, s.Player, component.HumanComponent)

	if applied, _ := s.damage(s.Player, 10); !applied {
		t.Fatalf("first hit must apply")
	}
	if h.State != component.StateHit {
		t.Fatalf("grounded hit must enter Hit, got %v", h.State)
	}
	if applied, _ := s.damage(s.Player, 10); applied {
		t.Fatalf("hit during invulnerability must be ignored")
	}
	if stats.Health != 90 {
		t.Fatalf("expected 90 health, got %v", stats.Health)
	}

	sys := NewPlayerSystem(s)
	prev := stats.InvulnerabilityTimer
	for _, dt := range []float64{0.1, 0, 0.3, 0.05, 0.7} {
		run(t, s, sys, 1, dt)
		if stats.InvulnerabilityTimer > prev {
			t.Fatalf("invulnerability grew from %v to %v", prev, stats.InvulnerabilityTimer)
		}
		if stats.IsInvulnerable() != (stats.InvulnerabilityTimer > 0) {
			t.Fatalf("IsInvulnerable disagrees with timer %v", stats.InvulnerabilityTimer)
		}
		prev = stats.InvulnerabilityTimer
	}
	if stats.IsInvulnerable() {
		t.Fatalf("invulnerability should have expired")
	}
	if h.State != component.StateIdle {
		t.Fatalf("hit should have worn off, got %v", h.State)
	}
}

func TestPlayerFaultIsReturned(t *testing.T) {
	s := newTestScene(t, nil)
	obj := get(t, s, s.Player, component.ObjectComponent)
	s.Walk(s.Player, component.Right)
	obj.Cell = terrain.Cell{Row: 0, Col: 40}

	err := NewPlayerSystem(s).Update(s.World, 0.01)
	if !errors.Is(err, terrain.ErrLayerNotFound) {
		t.Fatalf("expected ErrLayerNotFound, got %v", err)
	}
}
