package terrain

import "fmt"

// Cell addresses one terrain layer. Row grows upward, Col grows to the right.
type Cell struct {
	Row int
	Col int
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

func (c *Cell) MoveUp()    { c.Row++ }
func (c *Cell) MoveDown()  { c.Row-- }
func (c *Cell) MoveLeft()  { c.Col-- }
func (c *Cell) MoveRight() { c.Col++ }

// Move steps the cell one unit in d.
func (c *Cell) Move(d Direction) {
	switch d {
	case Up:
		c.MoveUp()
	case Down:
		c.MoveDown()
	case Left:
		c.MoveLeft()
	case Right:
		c.MoveRight()
	}
}

// Neighbor returns the adjacent cell in d without mutating c.
func (c Cell) Neighbor(d Direction) Cell {
	n := c
	n.Move(d)
	return n
}

// Direction is a window shift or cell step direction.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}
