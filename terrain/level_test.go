package terrain

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/milk9111/scavenger/common"
)

func newTestLevel(t *testing.T, center Cell, hooks Hooks) *Level {
	t.Helper()
	lvl, err := NewLevel(Config{LayerWidth: 4, Rows: 3, RowRadius: 1, ColRadius: 1}, FlatGenerator{RowHeight: 1.5}, center, hooks)
	if err != nil {
		t.Fatalf("NewLevel: %v", err)
	}
	return lvl
}

func TestLevelWindowClipsRows(t *testing.T) {
	var created int
	lvl := newTestLevel(t, Cell{}, Hooks{OnCreate: func(*Layer) { created++ }})
	// Row -1 is outside the grid, so only rows 0 and 1 are materialised.
	if created != 6 {
		t.Fatalf("expected 6 layers, got %d", created)
	}
	if _, err := lvl.LayerAt(Cell{Row: -1, Col: 0}); !errors.Is(err, ErrLayerNotFound) {
		t.Fatalf("expected ErrLayerNotFound, got %v", err)
	}
	if _, err := lvl.LayerAt(Cell{Row: 0, Col: 2}); !errors.Is(err, ErrLayerNotFound) {
		t.Fatalf("expected ErrLayerNotFound outside the window, got %v", err)
	}
	if got := len(lvl.Layers()); got != 6 {
		t.Fatalf("Layers: expected 6, got %d", got)
	}
}

func TestLevelShiftKeepsCenter(t *testing.T) {
	lvl := newTestLevel(t, Cell{}, Hooks{})
	player := Cell{}

	moves := []Direction{Right, Right, Up, Left, Up, Up, Down, Down, Down, Down, Left}
	for i, d := range moves {
		if lvl.Shift(d) {
			player.Move(d)
		}
		if player != lvl.Center() {
			t.Fatalf("step %d (%v): player %v, center %v", i, d, player, lvl.Center())
		}
		if !lvl.InWindow(player) {
			t.Fatalf("step %d: center %v not materialised", i, player)
		}
	}
	if player.Row != 0 {
		t.Fatalf("rows must stay inside [0,3), got %v", player)
	}
}

func TestLevelShiftBounds(t *testing.T) {
	lvl := newTestLevel(t, Cell{Row: 2}, Hooks{})
	if lvl.ShiftUp() {
		t.Fatalf("shift above the top row must fail")
	}
	if lvl.Center() != (Cell{Row: 2}) {
		t.Fatalf("failed shift changed the center: %v", lvl.Center())
	}
	if !lvl.ShiftDown() || !lvl.ShiftDown() {
		t.Fatalf("shift down inside the grid must succeed")
	}
	if lvl.ShiftDown() {
		t.Fatalf("shift below row 0 must fail")
	}
}

func TestLevelShiftHooks(t *testing.T) {
	var created, discarded []Cell
	lvl := newTestLevel(t, Cell{Row: 1}, Hooks{
		OnCreate:  func(l *Layer) { created = append(created, l.Cell) },
		OnDiscard: func(l *Layer) { discarded = append(discarded, l.Cell) },
	})
	created = nil

	lvl.ShiftRight()
	if len(created) != 3 || len(discarded) != 3 {
		t.Fatalf("expected 3 created and 3 discarded, got %v / %v", created, discarded)
	}
	for _, c := range created {
		if c.Col != 2 {
			t.Fatalf("created layer outside the new trailing edge: %v", c)
		}
	}
	for _, c := range discarded {
		if c.Col != -1 {
			t.Fatalf("discarded layer outside the old leading edge: %v", c)
		}
	}
	if !slices.IsSortedFunc(discarded, compareCells) {
		t.Fatalf("discard hooks should run in row order: %v", discarded)
	}
}

func TestLevelRegenerationIsDeterministic(t *testing.T) {
	gen := NewNoiseGenerator(42, 1.5, 4, 0.4)
	lvl, err := NewLevel(Config{LayerWidth: 4, Rows: 3, RowRadius: 1, ColRadius: 1}, gen, Cell{Row: 1}, Hooks{})
	if err != nil {
		t.Fatalf("NewLevel: %v", err)
	}
	before, _ := lvl.LayerAt(Cell{Row: 1, Col: -1})
	lvl.ShiftRight()
	lvl.ShiftRight()
	lvl.ShiftLeft()
	lvl.ShiftLeft()
	after, err := lvl.LayerAt(Cell{Row: 1, Col: -1})
	if err != nil {
		t.Fatalf("LayerAt: %v", err)
	}
	if before == after {
		t.Fatalf("layer should have been regenerated")
	}
	if before.Shape != after.Shape {
		t.Fatalf("shape changed after regeneration: %+v vs %+v", before.Shape, after.Shape)
	}
}

func TestLayerGroundHeight(t *testing.T) {
	cases := []struct {
		name  string
		cell  Cell
		shape Shape
		x     float64
		want  float64
	}{
		{"constant", Cell{Row: 1}, Shape{Kind: ShapeConstant, Base: 1.5}, 1.3, 1.5},
		{"linear_centre", Cell{Col: 1}, Shape{Kind: ShapeLinear, Base: 0, Slope: 0.25}, 4, 0},
		{"linear_right_edge", Cell{Col: 1}, Shape{Kind: ShapeLinear, Base: 0, Slope: 0.25}, 6, 0.5},
		{"cosine_left_edge", Cell{}, Shape{Kind: ShapeCosine, Base: 1, Amplitude: 0.5, Frequency: 1}, -2, 1.5},
		{"cosine_middle", Cell{}, Shape{Kind: ShapeCosine, Base: 1, Amplitude: 0.5, Frequency: 1}, 0, 0.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := newLayer(tc.cell, tc.shape, 4)
			if got := l.GroundHeight(tc.x); math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestLayerBoundsAndRegistration(t *testing.T) {
	l := newLayer(Cell{}, Shape{}, 4)
	if l.Left.X != -2 || l.Right.X != 2 {
		t.Fatalf("column 0 must span [-2,2], got [%v,%v]", l.Left.X, l.Right.X)
	}
	if !l.Contains(2) || l.Contains(2.01) {
		t.Fatalf("Contains is inclusive of the boundary only")
	}

	l.Register(1)
	l.Register(2)
	l.Register(1)
	l.Register(3)
	if got := l.Objects(); len(got) != 3 {
		t.Fatalf("duplicate registration: %v", got)
	}
	if !l.Deregister(2) || l.Deregister(2) {
		t.Fatalf("Deregister must succeed exactly once")
	}
	if got := l.Objects(); got[0] != 1 || got[1] != 3 {
		t.Fatalf("order not preserved: %v", got)
	}
}

func TestCombatLevel(t *testing.T) {
	c := NewCombatLevel(0, -5, 5)
	if c.GroundHeight(3) != 0 {
		t.Fatalf("arena ground must be flat")
	}
	if c.Clamp(7) != 5 || c.Clamp(-9) != -5 {
		t.Fatalf("Clamp did not bound to the arena")
	}
	if c.Ground.Kind != common.ColliderLine {
		t.Fatalf("arena ground must be a line collider")
	}
}

func TestCellNeighbor(t *testing.T) {
	c := Cell{Row: 1, Col: 1}
	if n := c.Neighbor(Left); n != (Cell{Row: 1, Col: 0}) || c.Col != 1 {
		t.Fatalf("Neighbor must not mutate the receiver")
	}
	c.Move(Up)
	if c != (Cell{Row: 2, Col: 1}) {
		t.Fatalf("Move(Up) = %v", c)
	}
}
