package sim

import (
	"github.com/nstehr/rampart/config"
	"github.com/nstehr/rampart/model"
)

// Oracle answers the engine's pathing and targeting questions. Board is
// always the caller's working copy, so answers reflect defenders the
// simulation has already destroyed or hypothetically added.
type Oracle interface {
	// Path returns the engine path from a launch cell.
	Path(start model.Cell) (model.Path, bool)
	// Target returns the defender a unit of kind owned by owner standing on
	// at would shoot.
	Target(at model.Cell, owner model.Owner, kind model.MobileKind, board model.Defenders) (model.Cell, bool)
	// Attackers returns the live defenders opposing owner that can fire on at,
	// in row-major order.
	Attackers(at model.Cell, owner model.Owner, board model.Defenders) []model.Defender
}

// FeedOracle serves the engine's per-turn pathing and targeting feed. When
// the feed has no answer for a board (a cell the engine did not report, or a
// board holding hypothetical defenders near the query) it falls back to the
// engine's documented targeting rule using range data from the unit table.
type FeedOracle struct {
	paths   map[model.Cell]model.Path
	targets map[model.TargetKey]model.Cell
	real    model.Defenders
	units   config.Units
}

// NewFeedOracle indexes the engine feed of one turn. real is the snapshot the
// feed was computed against.
func NewFeedOracle(ts model.TurnState, real model.Defenders, units config.Units) *FeedOracle {
	return &FeedOracle{
		paths:   ts.PathTable(),
		targets: ts.TargetTable(),
		real:    real,
		units:   units,
	}
}

func (o *FeedOracle) Path(start model.Cell) (model.Path, bool) {
	p, ok := o.paths[start]
	if !ok || len(p) == 0 {
		return nil, false
	}
	return p, true
}

func (o *FeedOracle) Target(at model.Cell, owner model.Owner, kind model.MobileKind, board model.Defenders) (model.Cell, bool) {
	rng := o.units.Mobile[kind].Range
	if hint, ok := o.targets[model.TargetKey{At: at, Owner: owner}]; ok && !o.hypotheticalInRange(at, rng, board) {
		if d, alive := board[hint]; alive && d.Owner != owner {
			return hint, true
		}
	}
	return SelectTarget(at, owner, rng, board)
}

func (o *FeedOracle) Attackers(at model.Cell, owner model.Owner, board model.Defenders) []model.Defender {
	var out []model.Defender
	for _, c := range board.Cells() {
		d := board[c]
		if d.Owner == owner {
			continue
		}
		rng := o.units.Structures[d.Kind].RangeFor(d.Upgraded)
		if rng > 0 && c.Distance(at) <= rng {
			out = append(out, d)
		}
	}
	return out
}

// hypotheticalInRange reports whether board holds a defender the engine never
// saw within rng of at. The engine's answer for at is stale in that case.
func (o *FeedOracle) hypotheticalInRange(at model.Cell, rng float64, board model.Defenders) bool {
	for c := range board {
		if _, seen := o.real[c]; !seen && c.Distance(at) <= rng {
			return true
		}
	}
	return false
}

// SelectTarget applies the engine's target rule: among live defenders not
// owned by owner and within rng of at, pick the closest, then the lowest
// health, then the lowest row, then the leftmost column.
func SelectTarget(at model.Cell, owner model.Owner, rng float64, board model.Defenders) (model.Cell, bool) {
	var (
		best  model.Defender
		bestD float64
		found bool
	)
	for c, d := range board {
		if d.Owner == owner {
			continue
		}
		dist := c.Distance(at)
		if dist > rng {
			continue
		}
		if !found || preferTarget(d, dist, best, bestD) {
			best, bestD, found = d, dist, true
		}
	}
	return best.Location, found
}

func preferTarget(d model.Defender, dist float64, best model.Defender, bestDist float64) bool {
	if dist != bestDist {
		return dist < bestDist
	}
	if d.Health != best.Health {
		return d.Health < best.Health
	}
	if d.Location.Y != best.Location.Y {
		return d.Location.Y < best.Location.Y
	}
	return d.Location.X < best.Location.X
}
