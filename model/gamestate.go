package model

import (
	"errors"
	"fmt"
)

// ErrInvalidState marks a turn state the agent cannot plan against.
var ErrInvalidState = errors.New("invalid turn state")

// TurnState is the per-turn report sent by the engine.
type TurnState struct {
	Turn      int            `json:"turn"`
	Self      PlayerState    `json:"self"`
	Enemy     PlayerState    `json:"enemy"`
	Defenders []DefenderInfo `json:"defenders"`
	Paths     []PathInfo     `json:"paths"`
	Targets   []TargetInfo   `json:"targets"`
}

// PlayerState holds one player's health and the two resource pools:
// SP pays for structures, MP for mobile units.
type PlayerState struct {
	Health float64 `json:"health"`
	SP     float64 `json:"sp"`
	MP     float64 `json:"mp"`
}

type DefenderInfo struct {
	Cell     Cell    `json:"cell"`
	Kind     string  `json:"kind"`
	Health   float64 `json:"health"`
	Upgraded bool    `json:"upgraded"`
	Owner    Owner   `json:"owner"`
}

// PathInfo is the engine's pathfinding result for a launch cell on the
// current board.
type PathInfo struct {
	Start Cell `json:"start"`
	Cells Path `json:"cells"`
}

// TargetInfo is the engine's target selection for a mobile unit of Owner
// standing on At. Target is the stationary unit it would shoot.
type TargetInfo struct {
	At     Cell  `json:"at"`
	Owner  Owner `json:"owner"`
	Target Cell  `json:"target"`
}

// TargetKey indexes the engine target feed.
type TargetKey struct {
	At    Cell
	Owner Owner
}

// Validate rejects garbled engine reports before any planning happens.
func (ts TurnState) Validate() error {
	if ts.Turn < 0 {
		return fmt.Errorf("%w: negative turn %d", ErrInvalidState, ts.Turn)
	}
	for _, p := range []PlayerState{ts.Self, ts.Enemy} {
		if p.SP < 0 || p.MP < 0 {
			return fmt.Errorf("%w: negative resources sp=%v mp=%v", ErrInvalidState, p.SP, p.MP)
		}
	}
	for _, p := range ts.Paths {
		if len(p.Cells) > 0 && p.Cells[0] != p.Start {
			return fmt.Errorf("%w: path for %v starts at %v", ErrInvalidState, p.Start, p.Cells[0])
		}
	}
	return nil
}

// Board builds the defender snapshot from the report.
func (ts TurnState) Board() (Defenders, error) {
	board := make(Defenders, len(ts.Defenders))
	for _, d := range ts.Defenders {
		kind, err := ParseStructureKind(d.Kind)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
		}
		if !InArena(d.Cell) {
			return nil, fmt.Errorf("%w: defender outside arena at %v", ErrInvalidState, d.Cell)
		}
		if d.Owner != Self && d.Owner != Enemy {
			return nil, fmt.Errorf("%w: unknown owner %q at %v", ErrInvalidState, d.Owner, d.Cell)
		}
		if d.Health <= 0 {
			return nil, fmt.Errorf("%w: non-positive health at %v", ErrInvalidState, d.Cell)
		}
		if _, dup := board[d.Cell]; dup {
			return nil, fmt.Errorf("%w: two defenders at %v", ErrInvalidState, d.Cell)
		}
		board[d.Cell] = Defender{
			Location: d.Cell,
			Kind:     kind,
			Health:   d.Health,
			Upgraded: d.Upgraded,
			Owner:    d.Owner,
		}
	}
	return board, nil
}

// PathTable indexes the reported paths by launch cell.
func (ts TurnState) PathTable() map[Cell]Path {
	out := make(map[Cell]Path, len(ts.Paths))
	for _, p := range ts.Paths {
		out[p.Start] = p.Cells
	}
	return out
}

// TargetTable indexes the reported target selections.
func (ts TurnState) TargetTable() map[TargetKey]Cell {
	out := make(map[TargetKey]Cell, len(ts.Targets))
	for _, t := range ts.Targets {
		out[TargetKey{At: t.At, Owner: t.Owner}] = t.Target
	}
	return out
}
