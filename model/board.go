package model

import "sort"

// Defender is a stationary unit on the board.
type Defender struct {
	Location Cell
	Kind     StructureKind
	Health   float64
	Upgraded bool
	Owner    Owner
}

// Defenders is a board snapshot keyed by cell. A cell holds at most one
// stationary unit.
type Defenders map[Cell]Defender

// Clone returns an independent copy. Simulations mutate clones only.
func (d Defenders) Clone() Defenders {
	out := make(Defenders, len(d))
	for c, def := range d {
		out[c] = def
	}
	return out
}

// Occupied reports whether any stationary unit sits on c.
func (d Defenders) Occupied(c Cell) bool {
	_, ok := d[c]
	return ok
}

// Count returns how many defenders of kind belong to owner.
func (d Defenders) Count(owner Owner, kind StructureKind) int {
	n := 0
	for _, def := range d {
		if def.Owner == owner && def.Kind == kind {
			n++
		}
	}
	return n
}

// Cells returns the occupied cells in row-major order, for deterministic iteration.
func (d Defenders) Cells() []Cell {
	out := make([]Cell, 0, len(d))
	for c := range d {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// Unblocked filters cells to those with no stationary unit.
func (d Defenders) Unblocked(cells []Cell) []Cell {
	var out []Cell
	for _, c := range cells {
		if !d.Occupied(c) {
			out = append(out, c)
		}
	}
	return out
}
