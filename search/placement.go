package search

import (
	"fmt"

	"github.com/nstehr/rampart/model"
	"github.com/nstehr/rampart/sim"
)

type PlacementOptions struct {
	Radius        float64
	MaxCandidates int
	TurretHealth  float64
	TurretDamage  float64 // base damage, for the launch risk proxy
}

// Placement is the recommended cell for a new turret.
type Placement struct {
	Cell        model.Cell
	Survivors   int        // attacker survivors with the turret in place
	Baseline    int        // attacker survivors on the current board
	ScoringCell model.Cell // where the attacker is expected to breach
	Path        model.Path
}

// PlacementCandidates lists the cells near scoring worth testing for a new
// turret: on the defender's half, empty, off the predicted path and off the
// defender's own launch edges. Nearest first, capped at limit.
func PlacementCandidates(scoring model.Cell, path model.Path, board model.Defenders, side model.Owner, radius float64, limit int) []model.Cell {
	var out []model.Cell
	for _, c := range model.CellsInRange(scoring, radius) {
		if len(out) >= limit {
			break
		}
		if model.SideOf(c) != side || board.Occupied(c) || path.Contains(c) {
			continue
		}
		if _, edge := model.EdgeOf(c); edge {
			continue
		}
		out = append(out, c)
	}
	return out
}

// BestDefensePlacement predicts where attacker will breach, then tries a
// full-health turret on each nearby candidate cell and keeps the one that
// leaves the fewest attacker survivors. ok is false when the attacker has no
// usable launch or no candidate cell exists.
func BestDefensePlacement(s *sim.Simulator, board model.Defenders, attacker sim.Wave, opts PlacementOptions) (Placement, bool, error) {
	o := s.Oracle()
	launch, ok := SafestLaunch(o, model.LaunchEdges(attacker.Owner), board, attacker.Owner, opts.TurretDamage)
	if !ok {
		return Placement{}, false, nil
	}
	scoring, _ := launch.Path.End()

	baseline, err := s.Run(launch.Path, attacker, board)
	if err != nil {
		return Placement{}, false, fmt.Errorf("baseline simulation: %w", err)
	}

	side := attacker.Owner.Opponent()
	candidates := PlacementCandidates(scoring, launch.Path, board, side, opts.Radius, opts.MaxCandidates)
	survivors := make(map[model.Cell]int, len(candidates))
	for _, c := range candidates {
		hypo := board.Clone()
		hypo[c] = model.Defender{Location: c, Kind: model.Turret, Health: opts.TurretHealth, Owner: side}
		res, err := s.Run(launch.Path, attacker, hypo)
		if err != nil {
			return Placement{}, false, fmt.Errorf("simulate turret at %v: %w", c, err)
		}
		survivors[c] = res.Survivors
	}

	best, _, ok := SelectBest(candidates, func(c model.Cell) float64 { return float64(survivors[c]) }, Minimize)
	if !ok {
		return Placement{}, false, nil
	}
	return Placement{
		Cell:        best,
		Survivors:   survivors[best],
		Baseline:    baseline.Survivors,
		ScoringCell: scoring,
		Path:        launch.Path,
	}, true, nil
}
