package model

import "sort"

// The arena is a 28x28 diamond. Self owns rows 0..13, the enemy rows 14..27.
const (
	ArenaSize = 28
	HalfArena = ArenaSize / 2
)

// Edge identifies one of the four diagonal borders of the diamond.
type Edge int

const (
	EdgeBottomLeft  Edge = iota // x+y == 13, self side
	EdgeBottomRight             // x-y == 14, self side
	EdgeTopLeft                 // y-x == 14, enemy side
	EdgeTopRight                // x+y == 41, enemy side
)

func (e Edge) String() string {
	switch e {
	case EdgeBottomLeft:
		return "bottom_left"
	case EdgeBottomRight:
		return "bottom_right"
	case EdgeTopLeft:
		return "top_left"
	case EdgeTopRight:
		return "top_right"
	}
	return "unknown"
}

// InArena reports whether c lies inside the diamond.
func InArena(c Cell) bool {
	if c.Y < 0 || c.Y >= ArenaSize {
		return false
	}
	if c.Y < HalfArena {
		return c.X >= HalfArena-1-c.Y && c.X <= HalfArena+c.Y
	}
	return c.X >= c.Y-HalfArena && c.X <= ArenaSize-1+HalfArena-c.Y
}

// SideOf returns the owner of the half the cell sits in.
func SideOf(c Cell) Owner {
	if c.Y < HalfArena {
		return Self
	}
	return Enemy
}

// EdgeCells returns the cells of one edge, ordered from the outer corner
// towards the centre line.
func EdgeCells(e Edge) []Cell {
	out := make([]Cell, 0, HalfArena)
	for i := 0; i < HalfArena; i++ {
		switch e {
		case EdgeBottomLeft:
			out = append(out, Cell{X: i, Y: HalfArena - 1 - i})
		case EdgeBottomRight:
			out = append(out, Cell{X: ArenaSize - 1 - i, Y: HalfArena - 1 - i})
		case EdgeTopLeft:
			out = append(out, Cell{X: i, Y: HalfArena + i})
		case EdgeTopRight:
			out = append(out, Cell{X: ArenaSize - 1 - i, Y: HalfArena + i})
		}
	}
	return out
}

// LaunchEdges returns every launch cell for owner: both edges of its half.
func LaunchEdges(owner Owner) []Cell {
	if owner == Enemy {
		return append(EdgeCells(EdgeTopLeft), EdgeCells(EdgeTopRight)...)
	}
	return append(EdgeCells(EdgeBottomLeft), EdgeCells(EdgeBottomRight)...)
}

// EdgeOf returns the edge a cell lies on, or false if it is interior.
func EdgeOf(c Cell) (Edge, bool) {
	switch {
	case c.Y < HalfArena && c.X+c.Y == HalfArena-1:
		return EdgeBottomLeft, true
	case c.Y < HalfArena && c.X-c.Y == HalfArena:
		return EdgeBottomRight, true
	case c.Y >= HalfArena && c.Y-c.X == HalfArena:
		return EdgeTopLeft, true
	case c.Y >= HalfArena && c.X+c.Y == ArenaSize-1+HalfArena:
		return EdgeTopRight, true
	}
	return 0, false
}

// CellsInRange returns the arena cells within radius of center, nearest
// first, ties broken by lower y then lower x.
func CellsInRange(center Cell, radius float64) []Cell {
	r := int(radius) + 1
	var out []Cell
	for y := center.Y - r; y <= center.Y+r; y++ {
		for x := center.X - r; x <= center.X+r; x++ {
			c := Cell{X: x, Y: y}
			if !InArena(c) || c.Distance(center) > radius {
				continue
			}
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].Distance(center), out[j].Distance(center)
		if di != dj {
			return di < dj
		}
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}
