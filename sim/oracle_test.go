package sim

import (
	"testing"

	"github.com/nstehr/rampart/config"
	"github.com/nstehr/rampart/model"
)

func enemyAt(x, y int, kind model.StructureKind, health float64) model.Defender {
	return model.Defender{Location: model.Cell{X: x, Y: y}, Kind: kind, Health: health, Owner: model.Enemy}
}

func boardOf(defs ...model.Defender) model.Defenders {
	b := make(model.Defenders, len(defs))
	for _, d := range defs {
		b[d.Location] = d
	}
	return b
}

func TestSelectTarget(t *testing.T) {
	at := model.Cell{X: 13, Y: 13}
	tests := []struct {
		name  string
		board model.Defenders
		want  model.Cell
	}{
		{
			"closest wins",
			boardOf(enemyAt(13, 15, model.Wall, 10), enemyAt(13, 14, model.Turret, 75)),
			model.Cell{X: 13, Y: 14},
		},
		{
			"lowest health on equal distance",
			boardOf(enemyAt(12, 14, model.Turret, 75), enemyAt(14, 14, model.Wall, 30)),
			model.Cell{X: 14, Y: 14},
		},
		{
			"lowest row on equal health",
			boardOf(enemyAt(13, 15, model.Wall, 30), enemyAt(13, 11, model.Wall, 30)),
			model.Cell{X: 13, Y: 11},
		},
		{
			"leftmost on equal row",
			boardOf(enemyAt(14, 14, model.Wall, 30), enemyAt(12, 14, model.Wall, 30)),
			model.Cell{X: 12, Y: 14},
		},
	}
	for _, tc := range tests {
		got, ok := SelectTarget(at, model.Self, 4.5, tc.board)
		if !ok || got != tc.want {
			t.Errorf("%s: SelectTarget = %v, %v, want %v", tc.name, got, ok, tc.want)
		}
	}
}

func TestSelectTargetIgnoresOwnAndOutOfRange(t *testing.T) {
	own := model.Defender{Location: model.Cell{X: 13, Y: 12}, Kind: model.Wall, Health: 1, Owner: model.Self}
	far := enemyAt(13, 20, model.Wall, 1)
	_, ok := SelectTarget(model.Cell{X: 13, Y: 13}, model.Self, 4.5, boardOf(own, far))
	if ok {
		t.Error("SelectTarget found a target among own and out-of-range defenders")
	}
}

func feedFixture() (*FeedOracle, model.Defenders) {
	near := enemyAt(13, 14, model.Wall, 60)
	hinted := enemyAt(14, 16, model.Turret, 75)
	board := boardOf(near, hinted)
	ts := model.TurnState{
		Paths: []model.PathInfo{
			{Start: model.Cell{X: 13, Y: 0}, Cells: model.Path{{X: 13, Y: 0}, {X: 13, Y: 1}}},
		},
		Targets: []model.TargetInfo{
			{At: model.Cell{X: 13, Y: 13}, Owner: model.Self, Target: hinted.Location},
		},
	}
	units := config.Units{
		Structures: map[model.StructureKind]config.StructureStats{
			model.Turret: {Damage: 6, Range: 2.5, UpgradedRange: 3.5},
			model.Wall:   {},
		},
		Mobile: map[model.MobileKind]config.MobileStats{
			model.Scout: {Health: 12, Damage: 2, Range: 4.5, Cost: 1},
		},
	}
	return NewFeedOracle(ts, board, units), board
}

func TestFeedOracleUsesEngineTarget(t *testing.T) {
	o, board := feedFixture()
	got, ok := o.Target(model.Cell{X: 13, Y: 13}, model.Self, model.Scout, board)
	if !ok || got != (model.Cell{X: 14, Y: 16}) {
		t.Errorf("Target = %v, %v, want engine hint [14,16]", got, ok)
	}
}

func TestFeedOracleFallsBackWhenHintDestroyed(t *testing.T) {
	o, board := feedFixture()
	working := board.Clone()
	delete(working, model.Cell{X: 14, Y: 16})

	got, ok := o.Target(model.Cell{X: 13, Y: 13}, model.Self, model.Scout, working)
	if !ok || got != (model.Cell{X: 13, Y: 14}) {
		t.Errorf("Target = %v, %v, want fallback [13,14]", got, ok)
	}
}

func TestFeedOracleFallsBackNearHypothetical(t *testing.T) {
	o, board := feedFixture()
	working := board.Clone()
	extra := enemyAt(12, 13, model.Turret, 30)
	working[extra.Location] = extra

	got, ok := o.Target(model.Cell{X: 13, Y: 13}, model.Self, model.Scout, working)
	if !ok || got != extra.Location {
		t.Errorf("Target = %v, %v, want hypothetical %v", got, ok, extra.Location)
	}
}

func TestFeedOracleAttackers(t *testing.T) {
	o, board := feedFixture()

	// The wall has no range; the turret at [14,16] is 2.24 away from [13,14].
	got := o.Attackers(model.Cell{X: 13, Y: 14}, model.Self, board)
	if len(got) != 1 || got[0].Location != (model.Cell{X: 14, Y: 16}) {
		t.Errorf("Attackers = %v, want only the turret", got)
	}

	// 3.16 away: only reachable once upgraded.
	at := model.Cell{X: 13, Y: 13}
	if got := o.Attackers(at, model.Self, board); len(got) != 0 {
		t.Errorf("Attackers(%v) = %v, want none before upgrade", at, got)
	}
	up := board.Clone()
	d := up[model.Cell{X: 14, Y: 16}]
	d.Upgraded = true
	up[d.Location] = d
	if got := o.Attackers(at, model.Self, up); len(got) != 1 {
		t.Errorf("Attackers(%v) = %v, want the upgraded turret", at, got)
	}

	if got := o.Attackers(at, model.Enemy, board); len(got) != 0 {
		t.Errorf("Attackers for enemy-owned wave = %v, want none", got)
	}
}

func TestFeedOraclePath(t *testing.T) {
	o, _ := feedFixture()
	if p, ok := o.Path(model.Cell{X: 13, Y: 0}); !ok || len(p) != 2 {
		t.Errorf("Path([13,0]) = %v, %v, want 2 cells", p, ok)
	}
	if _, ok := o.Path(model.Cell{X: 14, Y: 0}); ok {
		t.Error("Path([14,0]) found, want none")
	}
}
