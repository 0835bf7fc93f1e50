package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nstehr/rampart/model"
)

//go:embed default.yaml
var defaultYAML []byte

// Config is the full agent configuration: unit stats mirrored from the
// engine's unit table, attack cadence, search bounds and the build lists.
type Config struct {
	Units      Units       `yaml:"units"`
	Cadence    Cadence     `yaml:"cadence"`
	Search     Search      `yaml:"search"`
	Support    SupportPlan `yaml:"support"`
	Attack     Attack      `yaml:"attack"`
	BuildLists []BuildList `yaml:"build_lists"`
}

type Units struct {
	Structures map[model.StructureKind]StructureStats `yaml:"structures"`
	Mobile     map[model.MobileKind]MobileStats       `yaml:"mobile"`
}

type StructureStats struct {
	Cost           float64 `yaml:"cost"`
	UpgradeCost    float64 `yaml:"upgrade_cost"`
	Health         float64 `yaml:"health"`
	Damage         float64 `yaml:"damage"`
	UpgradedDamage float64 `yaml:"upgraded_damage"`
	Range          float64 `yaml:"range"`
	UpgradedRange  float64 `yaml:"upgraded_range"`
}

// DamageFor returns the per-shot damage for the upgrade level.
func (s StructureStats) DamageFor(upgraded bool) float64 {
	if upgraded && s.UpgradedDamage > 0 {
		return s.UpgradedDamage
	}
	return s.Damage
}

// RangeFor returns the attack range for the upgrade level.
func (s StructureStats) RangeFor(upgraded bool) float64 {
	if upgraded && s.UpgradedRange > 0 {
		return s.UpgradedRange
	}
	return s.Range
}

type MobileStats struct {
	Cost                float64 `yaml:"cost"`
	Health              float64 `yaml:"health"`
	Damage              float64 `yaml:"damage"`
	Range               float64 `yaml:"range"`
	StructureMultiplier float64 `yaml:"structure_multiplier"`
}

// Cadence controls when the planner attacks. After an attack the next one is
// ShortInterval turns away if at least SurvivalThreshold of the wave was
// predicted to survive, LongInterval otherwise.
type Cadence struct {
	FirstAttackTurn   int     `yaml:"first_attack_turn"`
	ShortInterval     int     `yaml:"short_interval"`
	LongInterval      int     `yaml:"long_interval"`
	SurvivalThreshold float64 `yaml:"survival_threshold"`
}

type Search struct {
	PlacementRadius float64 `yaml:"placement_radius"`
	MaxCandidates   int     `yaml:"max_candidates"`
}

// SupportPlan places a support next to the launch cell on attack turns.
type SupportPlan struct {
	Enabled           bool          `yaml:"enabled"`
	Offsets           map[string]XY `yaml:"offsets"` // by quadrant (bottom_left_outer), else by edge (bottom_left)
	UpgradeAboveSP    float64       `yaml:"upgrade_above_sp"`
	RemoveAfterLaunch bool          `yaml:"remove_after_launch"`
}

type Attack struct {
	Kinds        []model.MobileKind `yaml:"kinds"`
	MinSurvivors int                `yaml:"min_survivors"`
}

type BuildList struct {
	Name  string      `yaml:"name"`
	Steps []BuildStep `yaml:"steps"`
}

// BuildStep is one build-order entry. When is an optional expr condition.
type BuildStep struct {
	Cell   XY     `yaml:"cell"`
	Action string `yaml:"action"`
	When   string `yaml:"when,omitempty"`
}

// XY is a cell as written in YAML: [x, y].
type XY [2]int

func (xy XY) Cell() model.Cell { return model.Cell{X: xy[0], Y: xy[1]} }

// Default returns the embedded configuration.
func Default() (*Config, error) {
	return Parse(defaultYAML)
}

// LoadFile reads a YAML config from disk. An empty path yields the embedded default.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes and validates a YAML config.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects configs the simulator cannot run with and clamps the
// tuning knobs to sane ranges.
func (c *Config) Validate() error {
	turret, ok := c.Units.Structures[model.Turret]
	if !ok || turret.Damage <= 0 || turret.Range <= 0 {
		return fmt.Errorf("config: turret stats need positive damage and range")
	}
	for kind, s := range c.Units.Mobile {
		if s.Health <= 0 || s.Cost <= 0 {
			return fmt.Errorf("config: mobile unit %q needs positive health and cost", kind)
		}
		if s.StructureMultiplier <= 0 {
			s.StructureMultiplier = 1
			if kind == model.Demolisher {
				s.StructureMultiplier = model.DemolisherStructureMultiplier
			}
		}
		c.Units.Mobile[kind] = s
	}
	if len(c.Attack.Kinds) == 0 {
		c.Attack.Kinds = []model.MobileKind{model.Scout}
	}
	for _, k := range c.Attack.Kinds {
		if _, ok := c.Units.Mobile[k]; !ok {
			return fmt.Errorf("config: attack kind %q has no stats", k)
		}
	}
	for _, bl := range c.BuildLists {
		for i, s := range bl.Steps {
			if !model.InArena(s.Cell.Cell()) {
				return fmt.Errorf("config: build list %q step %d outside arena at %v", bl.Name, i, s.Cell.Cell())
			}
		}
	}

	c.Cadence.FirstAttackTurn = max(c.Cadence.FirstAttackTurn, 0)
	c.Cadence.ShortInterval = clampInt(c.Cadence.ShortInterval, 1, 10)
	c.Cadence.LongInterval = clampInt(c.Cadence.LongInterval, c.Cadence.ShortInterval, 20)
	c.Cadence.SurvivalThreshold = clamp(c.Cadence.SurvivalThreshold, 0, 1)
	c.Search.PlacementRadius = clamp(c.Search.PlacementRadius, 1, model.HalfArena)
	c.Search.MaxCandidates = clampInt(c.Search.MaxCandidates, 1, 64)
	c.Attack.MinSurvivors = max(c.Attack.MinSurvivors, 0)
	return nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
