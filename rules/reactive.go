package rules

import (
	"github.com/nstehr/rampart/config"
	"github.com/nstehr/rampart/model"
)

// ReactiveCell returns where to answer a breach at c: one row up towards the
// centre and one column inward, so the edge cell itself stays open as a
// launch lane.
func ReactiveCell(c model.Cell) model.Cell {
	if c.X < model.HalfArena {
		return c.Offset(1, 1)
	}
	return c.Offset(-1, 1)
}

// ApplyReactiveDefense orders one turret per breached cell. Cells that are
// taken, off self's half or unaffordable are skipped. It returns the cells
// that received a turret.
func ApplyReactiveDefense(history []model.Cell, b *Batch) []model.Cell {
	var placed []model.Cell
	seen := make(map[model.Cell]bool, len(history))
	for _, c := range history {
		at := ReactiveCell(c)
		if seen[at] {
			continue
		}
		seen[at] = true
		if b.Place(model.Turret, at) {
			placed = append(placed, at)
		}
	}
	return placed
}

// PlaceSupport puts a support beside the launch cell so the wave walks past
// it. The support is upgraded while SP stays above the plan's threshold and,
// when the plan says so, flagged for removal so it does not block the lane
// next turn. ok is false when nothing was placed or already stood there.
func PlaceSupport(launch model.Cell, plan config.SupportPlan, b *Batch) (model.Cell, bool) {
	if !plan.Enabled {
		return model.Cell{}, false
	}
	off, ok := supportOffset(launch, plan)
	if !ok {
		return model.Cell{}, false
	}
	at := launch.Offset(off[0], off[1])

	if !b.Place(model.Support, at) {
		d, exists := b.Board()[at]
		if !exists || d.Owner != model.Self || d.Kind != model.Support {
			return model.Cell{}, false
		}
	}
	if b.SP() > plan.UpgradeAboveSP {
		b.Upgrade(at)
	}
	if plan.RemoveAfterLaunch {
		b.Remove(at)
	}
	return at, true
}

// SupportQuadrant names the quarter of a launch edge that c lies on, such as
// bottom_left_outer. The inner half of an edge is the rows nearer the
// arena's corner at y = 0, the outer half the rows nearer the centre line.
func SupportQuadrant(c model.Cell) (string, bool) {
	edge, ok := model.EdgeOf(c)
	if !ok {
		return "", false
	}
	half := "inner"
	if c.Y >= model.HalfArena/2 {
		half = "outer"
	}
	return edge.String() + "_" + half, true
}

// supportOffset looks up the offset for launch by quadrant, then by edge.
func supportOffset(launch model.Cell, plan config.SupportPlan) (config.XY, bool) {
	quad, ok := SupportQuadrant(launch)
	if !ok {
		return config.XY{}, false
	}
	if off, ok := plan.Offsets[quad]; ok {
		return off, true
	}
	edge, _ := model.EdgeOf(launch)
	off, ok := plan.Offsets[edge.String()]
	return off, ok
}
