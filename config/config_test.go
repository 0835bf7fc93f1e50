package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nstehr/rampart/model"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	turret := c.Units.Structures[model.Turret]
	if turret.DamageFor(false) != 6 || turret.DamageFor(true) != 14 {
		t.Errorf("turret damage = %v/%v, want 6/14", turret.DamageFor(false), turret.DamageFor(true))
	}
	if got := c.Units.Mobile[model.Demolisher].StructureMultiplier; got != model.DemolisherStructureMultiplier {
		t.Errorf("demolisher multiplier = %v, want %v", got, model.DemolisherStructureMultiplier)
	}
	if got := c.Units.Mobile[model.Scout].StructureMultiplier; got != 1 {
		t.Errorf("scout multiplier = %v, want 1", got)
	}
	if c.Cadence != (Cadence{FirstAttackTurn: 1, ShortInterval: 2, LongInterval: 3, SurvivalThreshold: 0.7}) {
		t.Errorf("cadence = %+v", c.Cadence)
	}
	names := make([]string, len(c.BuildLists))
	for i, bl := range c.BuildLists {
		names[i] = bl.Name
	}
	if strings.Join(names, ",") != "initial,priority,corners" {
		t.Errorf("build lists = %v", names)
	}
}

func TestRangeFor(t *testing.T) {
	s := StructureStats{Range: 2.5, UpgradedRange: 3.5}
	tests := []struct {
		stats    StructureStats
		upgraded bool
		want     float64
	}{
		{s, false, 2.5},
		{s, true, 3.5},
		{StructureStats{Range: 2.5}, true, 2.5},
	}
	for _, tt := range tests {
		if got := tt.stats.RangeFor(tt.upgraded); got != tt.want {
			t.Errorf("RangeFor(%v) = %v, want %v", tt.upgraded, got, tt.want)
		}
	}
}

const minimal = `
units:
  structures:
    turret: {cost: 2, health: 75, damage: 6, range: 2.5}
  mobile:
    scout: {cost: 1, health: 12, damage: 2, range: 4.5}
`

func TestParseClamps(t *testing.T) {
	c, err := Parse([]byte(minimal + `
cadence: {first_attack_turn: -3, short_interval: 0, long_interval: 99, survival_threshold: 1.5}
search: {placement_radius: 40, max_candidates: 0}
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := Cadence{FirstAttackTurn: 0, ShortInterval: 1, LongInterval: 20, SurvivalThreshold: 1}
	if c.Cadence != want {
		t.Errorf("cadence = %+v, want %+v", c.Cadence, want)
	}
	if c.Search.PlacementRadius != model.HalfArena || c.Search.MaxCandidates != 1 {
		t.Errorf("search = %+v", c.Search)
	}
	if len(c.Attack.Kinds) != 1 || c.Attack.Kinds[0] != model.Scout {
		t.Errorf("attack kinds = %v, want [scout]", c.Attack.Kinds)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"not yaml", "units: ["},
		{"no turret", "units: {mobile: {scout: {cost: 1, health: 12}}}"},
		{"dead scout", `
units:
  structures: {turret: {damage: 6, range: 2.5}}
  mobile: {scout: {cost: 1, health: 0}}`},
		{"attack kind without stats", minimal + "attack: {kinds: [demolisher]}"},
		{"step outside arena", minimal + `
build_lists:
  - name: bad
    steps:
      - {cell: [0, 0], action: wall}`},
	}
	for _, tt := range tests {
		if _, err := Parse([]byte(tt.yaml)); err == nil {
			t.Errorf("%s: Parse succeeded, want error", tt.name)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rampart.yaml")
	if err := os.WriteFile(path, []byte(minimal+"cadence: {short_interval: 4, long_interval: 6}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if c.Cadence.ShortInterval != 4 || c.Cadence.LongInterval != 6 {
		t.Errorf("cadence = %+v", c.Cadence)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadFile(missing) succeeded")
	}
	if c, err := LoadFile(""); err != nil || len(c.BuildLists) == 0 {
		t.Errorf("LoadFile(\"\") = %v, %v, want embedded default", c, err)
	}
}
