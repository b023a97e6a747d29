package terrain

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// ErrLayerNotFound is returned when a cell is outside the materialised window.
var ErrLayerNotFound = errors.New("terrain: layer not found")

// Config sizes the window and the grid.
type Config struct {
	LayerWidth float64
	// Rows bounds the grid to [0, Rows-1]. Zero means unbounded.
	Rows      int
	RowRadius int
	ColRadius int
}

// Hooks are invoked when layers enter or leave the window.
type Hooks struct {
	OnCreate  func(*Layer)
	OnDiscard func(*Layer)
}

// Level is a sliding window of layers centred on (CenterRow, CenterCol).
type Level struct {
	cfg       Config
	gen       Generator
	hooks     Hooks
	centerRow int
	centerCol int
	layers    map[Cell]*Layer
}

// NewLevel materialises the window around center. Hooks run for every
// initial layer.
func NewLevel(cfg Config, gen Generator, center Cell, hooks Hooks) (*Level, error) {
	if cfg.LayerWidth <= 0 {
		return nil, fmt.Errorf("terrain: layer width must be positive, got %v", cfg.LayerWidth)
	}
	if gen == nil {
		return nil, errors.New("terrain: nil generator")
	}
	lvl := &Level{
		cfg:       cfg,
		gen:       gen,
		hooks:     hooks,
		centerRow: center.Row,
		centerCol: center.Col,
		layers:    make(map[Cell]*Layer),
	}
	if !lvl.rowInBounds(center.Row) {
		return nil, fmt.Errorf("terrain: center row %d outside [0,%d)", center.Row, cfg.Rows)
	}
	lvl.recenter(center.Row, center.Col)
	return lvl, nil
}

func (l *Level) Config() Config { return l.cfg }

// Center returns the window centre cell.
func (l *Level) Center() Cell {
	return Cell{Row: l.centerRow, Col: l.centerCol}
}

// LayerAt returns the layer for cell or a wrapped ErrLayerNotFound.
func (l *Level) LayerAt(cell Cell) (*Layer, error) {
	if layer, ok := l.layers[cell]; ok {
		return layer, nil
	}
	return nil, fmt.Errorf("terrain: cell %v: %w", cell, ErrLayerNotFound)
}

// GroundHeight delegates to the layer owning cell.
func (l *Level) GroundHeight(cell Cell, x float64) (float64, error) {
	layer, err := l.LayerAt(cell)
	if err != nil {
		return 0, err
	}
	return layer.GroundHeight(x), nil
}

// Row returns the materialised layers of one row ordered by column.
func (l *Level) Row(row int) []*Layer {
	out := make([]*Layer, 0, 2*l.cfg.ColRadius+1)
	for col := l.centerCol - l.cfg.ColRadius; col <= l.centerCol+l.cfg.ColRadius; col++ {
		if layer, ok := l.layers[Cell{Row: row, Col: col}]; ok {
			out = append(out, layer)
		}
	}
	return out
}

// Layers returns every materialised layer ordered by row then column.
func (l *Level) Layers() []*Layer {
	out := make([]*Layer, 0, len(l.layers))
	for row := l.centerRow - l.cfg.RowRadius; row <= l.centerRow+l.cfg.RowRadius; row++ {
		out = append(out, l.Row(row)...)
	}
	return out
}

// InWindow reports whether cell is materialised.
func (l *Level) InWindow(cell Cell) bool {
	_, ok := l.layers[cell]
	return ok
}

// CanShift reports whether the window may move one cell in d.
func (l *Level) CanShift(d Direction) bool {
	switch d {
	case Up:
		return l.rowInBounds(l.centerRow + 1)
	case Down:
		return l.rowInBounds(l.centerRow - 1)
	default:
		return true
	}
}

func (l *Level) ShiftRight() bool { return l.Shift(Right) }
func (l *Level) ShiftLeft() bool  { return l.Shift(Left) }
func (l *Level) ShiftUp() bool    { return l.Shift(Up) }
func (l *Level) ShiftDown() bool  { return l.Shift(Down) }

// Shift re-centres the window one cell in d. Layers that leave the window are
// discarded and the trailing edge is regenerated.
func (l *Level) Shift(d Direction) bool {
	if !l.CanShift(d) {
		return false
	}
	next := l.Center().Neighbor(d)
	l.recenter(next.Row, next.Col)
	return true
}

func (l *Level) recenter(row, col int) {
	l.centerRow, l.centerCol = row, col

	want := make(map[Cell]struct{}, len(l.layers))
	for r := row - l.cfg.RowRadius; r <= row+l.cfg.RowRadius; r++ {
		if !l.rowInBounds(r) {
			continue
		}
		for c := col - l.cfg.ColRadius; c <= col+l.cfg.ColRadius; c++ {
			want[Cell{Row: r, Col: c}] = struct{}{}
		}
	}

	for _, layer := range l.sorted() {
		if _, keep := want[layer.Cell]; keep {
			continue
		}
		delete(l.layers, layer.Cell)
		if l.hooks.OnDiscard != nil {
			l.hooks.OnDiscard(layer)
		}
	}

	for r := row - l.cfg.RowRadius; r <= row+l.cfg.RowRadius; r++ {
		for c := col - l.cfg.ColRadius; c <= col+l.cfg.ColRadius; c++ {
			cell := Cell{Row: r, Col: c}
			if _, ok := want[cell]; !ok {
				continue
			}
			if _, ok := l.layers[cell]; ok {
				continue
			}
			layer := newLayer(cell, l.gen.Shape(cell), l.cfg.LayerWidth)
			l.layers[cell] = layer
			if l.hooks.OnCreate != nil {
				l.hooks.OnCreate(layer)
			}
		}
	}
}

// sorted returns the layers ordered by row then column so hook order is
// deterministic.
func (l *Level) sorted() []*Layer {
	out := make([]*Layer, 0, len(l.layers))
	for _, layer := range l.layers {
		out = append(out, layer)
	}
	slices.SortFunc(out, func(a, b *Layer) int {
		return compareCells(a.Cell, b.Cell)
	})
	return out
}

func compareCells(a, b Cell) int {
	if c := cmp.Compare(a.Row, b.Row); c != 0 {
		return c
	}
	return cmp.Compare(a.Col, b.Col)
}

func (l *Level) rowInBounds(row int) bool {
	if l.cfg.Rows <= 0 {
		return true
	}
	return row >= 0 && row < l.cfg.Rows
}
