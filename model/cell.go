package model

import (
	"encoding/json"
	"fmt"
	"math"
)

// Cell is a grid coordinate. Identity is positional.
type Cell struct {
	X int
	Y int
}

func (c Cell) String() string { return fmt.Sprintf("[%d,%d]", c.X, c.Y) }

// Offset returns the cell shifted by (dx, dy).
func (c Cell) Offset(dx, dy int) Cell { return Cell{X: c.X + dx, Y: c.Y + dy} }

// Distance is the euclidean distance the engine uses for range checks.
func (c Cell) Distance(o Cell) float64 {
	dx := float64(c.X - o.X)
	dy := float64(c.Y - o.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// MarshalJSON encodes a cell as the engine's [x, y] pair.
func (c Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{c.X, c.Y})
}

func (c *Cell) UnmarshalJSON(b []byte) error {
	var pair []int
	if err := json.Unmarshal(b, &pair); err != nil {
		return fmt.Errorf("unmarshal cell: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("unmarshal cell: want 2 coordinates, got %d", len(pair))
	}
	c.X, c.Y = pair[0], pair[1]
	return nil
}

// Path is the ordered sequence of cells a mobile unit walks from its launch
// cell to an edge. Paths come from the engine and are never modified.
type Path []Cell

// Start returns the launch cell, or false for an empty path.
func (p Path) Start() (Cell, bool) {
	if len(p) == 0 {
		return Cell{}, false
	}
	return p[0], true
}

// End returns the final cell, or false for an empty path.
func (p Path) End() (Cell, bool) {
	if len(p) == 0 {
		return Cell{}, false
	}
	return p[len(p)-1], true
}

// Contains reports whether c lies on the path.
func (p Path) Contains(c Cell) bool {
	for _, pc := range p {
		if pc == c {
			return true
		}
	}
	return false
}
