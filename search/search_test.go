package search

import (
	"testing"

	"github.com/nstehr/rampart/config"
	"github.com/nstehr/rampart/model"
	"github.com/nstehr/rampart/sim"
)

func TestSelectBestFirstMinimum(t *testing.T) {
	cells := []model.Cell{{X: 1, Y: 13}, {X: 2, Y: 13}, {X: 3, Y: 13}}
	scores := map[model.Cell]float64{cells[0]: 6, cells[1]: 4, cells[2]: 4}

	for i := 0; i < 3; i++ {
		got, idx, ok := SelectBest(cells, func(c model.Cell) float64 { return scores[c] }, Minimize)
		if !ok || idx != 1 || got != cells[1] {
			t.Fatalf("SelectBest = %v, %d, %v, want %v at index 1", got, idx, ok, cells[1])
		}
	}
}

func TestSelectBestMaximize(t *testing.T) {
	vals := []int{3, 9, 1, 9}
	got, idx, ok := SelectBest(vals, func(v int) float64 { return float64(v) }, Maximize)
	if !ok || idx != 1 || got != 9 {
		t.Errorf("SelectBest(max) = %d, %d, %v, want 9 at index 1", got, idx, ok)
	}
}

func TestSelectBestEmpty(t *testing.T) {
	_, idx, ok := SelectBest([]int(nil), func(int) float64 { return 0 }, Minimize)
	if ok || idx != -1 {
		t.Errorf("SelectBest(empty) = %d, %v, want -1, false", idx, ok)
	}
}

func testUnits(turretDamage float64) config.Units {
	return config.Units{
		Structures: map[model.StructureKind]config.StructureStats{
			model.Turret:  {Health: 75, Damage: turretDamage, Range: 2.5},
			model.Wall:    {Health: 60},
			model.Support: {Health: 30},
		},
		Mobile: map[model.MobileKind]config.MobileStats{
			model.Scout:      {Cost: 1, Health: 12, Damage: 2, Range: 4.5},
			model.Demolisher: {Cost: 3, Health: 5, Damage: 8, Range: 4.5, StructureMultiplier: 2},
		},
	}
}

// column returns the straight path down x from row `from` to row `to`.
func column(x, from, to int) model.Path {
	var p model.Path
	step := 1
	if to < from {
		step = -1
	}
	for y := from; ; y += step {
		p = append(p, model.Cell{X: x, Y: y})
		if y == to {
			break
		}
	}
	return p
}

func TestSafestLaunch(t *testing.T) {
	left := model.Cell{X: 13, Y: 0}
	right := model.Cell{X: 14, Y: 0}
	blocked := model.Cell{X: 12, Y: 1}
	board := model.Defenders{
		{X: 12, Y: 16}: {Location: model.Cell{X: 12, Y: 16}, Kind: model.Turret, Health: 75, Owner: model.Enemy},
		blocked:        {Location: blocked, Kind: model.Wall, Health: 60, Owner: model.Self},
	}
	ts := model.TurnState{Paths: []model.PathInfo{
		{Start: left, Cells: column(13, 0, 27)},
		{Start: right, Cells: column(14, 0, 27)},
		{Start: blocked, Cells: column(12, 1, 20)},
	}}
	o := sim.NewFeedOracle(ts, board, testUnits(6))

	got, ok := SafestLaunch(o, []model.Cell{blocked, left, right}, board, model.Self, 6)
	if !ok {
		t.Fatal("SafestLaunch found nothing")
	}
	if got.Cell != right {
		t.Errorf("SafestLaunch = %v (risk %v), want %v", got.Cell, got.Risk, right)
	}
	// Column 14 passes within 2.5 of [12,16] on rows 15..17 only.
	if got.Risk != 18 {
		t.Errorf("Risk = %v, want 18", got.Risk)
	}
}

func TestSafestLaunchNoCandidates(t *testing.T) {
	o := sim.NewFeedOracle(model.TurnState{}, nil, testUnits(6))
	if _, ok := SafestLaunch(o, model.LaunchEdges(model.Self), nil, model.Self, 6); ok {
		t.Error("SafestLaunch with no engine paths returned a launch")
	}
}

func placementFixture(turretDamage float64) (*sim.Simulator, model.Defenders) {
	board := model.Defenders{}
	ts := model.TurnState{Paths: []model.PathInfo{
		{Start: model.Cell{X: 13, Y: 27}, Cells: column(13, 27, 0)},
	}}
	o := sim.NewFeedOracle(ts, board, testUnits(turretDamage))
	return sim.New(o, testUnits(turretDamage)), board
}

func TestPlacementCandidates(t *testing.T) {
	path := column(13, 27, 0)
	got := PlacementCandidates(model.Cell{X: 13, Y: 0}, path, model.Defenders{}, model.Self, 3, 10)
	want := []model.Cell{{X: 14, Y: 1}, {X: 12, Y: 2}, {X: 14, Y: 2}, {X: 15, Y: 2}}
	if len(got) != len(want) {
		t.Fatalf("PlacementCandidates = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("candidate %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBestDefensePlacement(t *testing.T) {
	s, board := placementFixture(12)
	stats := testUnits(12).Mobile[model.Scout]
	attacker := sim.NewWave(model.Scout, model.Enemy, 5, stats)

	got, ok, err := BestDefensePlacement(s, board, attacker, PlacementOptions{
		Radius: 3, MaxCandidates: 10, TurretHealth: 75, TurretDamage: 12,
	})
	if err != nil {
		t.Fatalf("BestDefensePlacement: %v", err)
	}
	if !ok {
		t.Fatal("BestDefensePlacement found nothing")
	}
	// [12,2] covers five path cells and kills the wave; [14,2] ties later.
	if got.Cell != (model.Cell{X: 12, Y: 2}) {
		t.Errorf("Cell = %v, want [12,2]", got.Cell)
	}
	if got.Survivors != 0 || got.Baseline != 5 {
		t.Errorf("Survivors, Baseline = %d, %d, want 0, 5", got.Survivors, got.Baseline)
	}
	if got.ScoringCell != (model.Cell{X: 13, Y: 0}) {
		t.Errorf("ScoringCell = %v, want [13,0]", got.ScoringCell)
	}
	if len(board) != 0 {
		t.Errorf("board mutated: %v", board)
	}
}

func TestBestDefensePlacementCapped(t *testing.T) {
	s, board := placementFixture(12)
	attacker := sim.NewWave(model.Scout, model.Enemy, 5, testUnits(12).Mobile[model.Scout])

	got, ok, err := BestDefensePlacement(s, board, attacker, PlacementOptions{
		Radius: 3, MaxCandidates: 1, TurretHealth: 75, TurretDamage: 12,
	})
	if err != nil || !ok {
		t.Fatalf("BestDefensePlacement = %v, %v", ok, err)
	}
	if got.Cell != (model.Cell{X: 14, Y: 1}) || got.Survivors != 1 {
		t.Errorf("capped placement = %v with %d survivors, want [14,1] with 1", got.Cell, got.Survivors)
	}
}

func TestBestDefensePlacementFirstOfTiedMinimum(t *testing.T) {
	s, board := placementFixture(17)
	// A harmless wave: only the turret's shots change the outcome. [14,1]
	// covers four path cells, [12,2] and [14,2] five each.
	attacker := sim.Wave{Kind: model.Scout, Owner: model.Enemy, Count: 11, UnitHealth: 12}

	got, ok, err := BestDefensePlacement(s, board, attacker, PlacementOptions{
		Radius: 3, MaxCandidates: 3, TurretHealth: 75, TurretDamage: 17,
	})
	if err != nil || !ok {
		t.Fatalf("BestDefensePlacement = %v, %v", ok, err)
	}
	// Survivors per candidate are 6, 4, 4; the first 4 wins.
	if got.Cell != (model.Cell{X: 12, Y: 2}) || got.Survivors != 4 {
		t.Errorf("placement = %v with %d survivors, want [12,2] with 4", got.Cell, got.Survivors)
	}
	if got.Baseline != 11 {
		t.Errorf("Baseline = %d, want 11", got.Baseline)
	}

	capped, _, _ := BestDefensePlacement(s, board, attacker, PlacementOptions{
		Radius: 3, MaxCandidates: 1, TurretHealth: 75, TurretDamage: 17,
	})
	if capped.Cell != (model.Cell{X: 14, Y: 1}) || capped.Survivors != 6 {
		t.Errorf("first candidate = %v with %d survivors, want [14,1] with 6", capped.Cell, capped.Survivors)
	}
}

func TestBestDefensePlacementInvalidWave(t *testing.T) {
	s, board := placementFixture(12)
	_, _, err := BestDefensePlacement(s, board, sim.Wave{Owner: model.Enemy, Count: 5}, PlacementOptions{
		Radius: 3, MaxCandidates: 10, TurretHealth: 75, TurretDamage: 12,
	})
	if err == nil {
		t.Error("BestDefensePlacement accepted a wave with zero unit health")
	}
}

func TestBestWave(t *testing.T) {
	wall := model.Cell{X: 13, Y: 15}
	board := model.Defenders{wall: {Location: wall, Kind: model.Wall, Health: 20, Owner: model.Enemy}}
	ts := model.TurnState{Paths: []model.PathInfo{{Start: model.Cell{X: 13, Y: 0}, Cells: column(13, 0, 27)}}}
	units := testUnits(6)
	s := sim.New(sim.NewFeedOracle(ts, board, units), units)

	scouts := sim.NewWave(model.Scout, model.Self, 3, units.Mobile[model.Scout])
	demos := sim.NewWave(model.Demolisher, model.Self, 3, units.Mobile[model.Demolisher])
	empty := sim.NewWave(model.Scout, model.Self, 0, units.Mobile[model.Scout])

	got, ok, err := BestWave(s, column(13, 0, 27), board, []sim.Wave{empty, scouts, demos})
	if err != nil || !ok {
		t.Fatalf("BestWave = %v, %v", ok, err)
	}
	// No turrets: both waves survive whole and break the wall, so the first wins.
	if got.Wave.Kind != model.Scout || got.Result.Survivors != 3 {
		t.Errorf("BestWave = %s with %d survivors, want scout with 3", got.Wave.Kind, got.Result.Survivors)
	}

	if _, ok, _ := BestWave(s, column(13, 0, 27), board, []sim.Wave{empty}); ok {
		t.Error("BestWave picked an empty wave")
	}
}
