package search

import (
	"github.com/nstehr/rampart/model"
	"github.com/nstehr/rampart/sim"
)

// Launch is a candidate launch cell with the engine path it induces.
type Launch struct {
	Cell model.Cell
	Path model.Path
	Risk float64
}

// LaunchOptions lists the unblocked launch cells that have an engine path.
func LaunchOptions(o sim.Oracle, launches []model.Cell, board model.Defenders) []Launch {
	var out []Launch
	for _, c := range board.Unblocked(launches) {
		p, ok := o.Path(c)
		if !ok {
			continue
		}
		out = append(out, Launch{Cell: c, Path: p})
	}
	return out
}

// PathRisk is the cheap damage proxy: for each path cell, the number of live
// opposing turrets able to fire on it times the base turret damage.
func PathRisk(o sim.Oracle, path model.Path, owner model.Owner, board model.Defenders, turretDamage float64) float64 {
	risk := 0.0
	for _, c := range path {
		for _, a := range o.Attackers(c, owner, board) {
			if a.Kind == model.Turret {
				risk += turretDamage
			}
		}
	}
	return risk
}

// SafestLaunch picks the launch cell whose path is least exposed to opposing
// turrets. Used when only a launch point is needed, not a survivor estimate.
func SafestLaunch(o sim.Oracle, launches []model.Cell, board model.Defenders, owner model.Owner, turretDamage float64) (Launch, bool) {
	options := LaunchOptions(o, launches, board)
	for i := range options {
		options[i].Risk = PathRisk(o, options[i].Path, owner, board, turretDamage)
	}
	best, _, ok := SelectBest(options, func(l Launch) float64 { return l.Risk }, Minimize)
	return best, ok
}
