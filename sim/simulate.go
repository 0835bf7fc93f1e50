// Package sim predicts how a wave of mobile units fares walking a path through
// stationary defenders.
package sim

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/nstehr/rampart/config"
	"github.com/nstehr/rampart/model"
)

// ErrInvalidWave is returned for waves that break the simulator's contract.
var ErrInvalidWave = errors.New("invalid wave")

// Wave is a group of identical mobile units launched together.
type Wave struct {
	Kind                model.MobileKind
	Owner               model.Owner
	Count               int
	UnitHealth          float64
	UnitDamage          float64
	StructureMultiplier float64 // 0 means 1
}

// NewWave builds a wave of count units from the unit table entry.
func NewWave(kind model.MobileKind, owner model.Owner, count int, stats config.MobileStats) Wave {
	return Wave{
		Kind:                kind,
		Owner:               owner,
		Count:               count,
		UnitHealth:          stats.Health,
		UnitDamage:          stats.Damage,
		StructureMultiplier: stats.StructureMultiplier,
	}
}

func (w Wave) validate() error {
	if w.Count < 0 {
		return fmt.Errorf("%w: negative count %d", ErrInvalidWave, w.Count)
	}
	if w.UnitHealth <= 0 {
		return fmt.Errorf("%w: non-positive unit health %v", ErrInvalidWave, w.UnitHealth)
	}
	if w.UnitDamage < 0 || w.StructureMultiplier < 0 {
		return fmt.Errorf("%w: negative damage", ErrInvalidWave)
	}
	return nil
}

func (w Wave) multiplier() float64 {
	if w.StructureMultiplier == 0 {
		return 1
	}
	return w.StructureMultiplier
}

// Result is the predicted outcome of one traversal.
type Result struct {
	Survivors   int
	Destroyed   []model.Cell // in destruction order, no duplicates
	DamageDealt float64      // damage absorbed by defenders, capped at their health
	DamageTaken float64
}

// WasDestroyed reports whether the defender on c fell during the traversal.
func (r Result) WasDestroyed(c model.Cell) bool {
	return slices.Contains(r.Destroyed, c)
}

// Simulator steps waves along engine paths. It holds no per-call state and
// is safe to reuse across calls.
type Simulator struct {
	oracle Oracle
	turret config.StructureStats
}

func New(oracle Oracle, units config.Units) *Simulator {
	return &Simulator{oracle: oracle, turret: units.Structures[model.Turret]}
}

// Oracle exposes the oracle the simulator queries.
func (s *Simulator) Oracle() Oracle { return s.oracle }

// Run walks w along path against a private copy of defenders. At each cell
// the wave first hits its target, then every live opposing turret in range
// fires once. The surviving count is recomputed from pooled health after
// every cell, so a shrinking wave hits softer on later cells.
func (s *Simulator) Run(path model.Path, w Wave, defenders model.Defenders) (Result, error) {
	if err := w.validate(); err != nil {
		return Result{}, err
	}
	if w.Count == 0 {
		return Result{}, nil
	}

	working := defenders.Clone()
	count := w.Count
	total := float64(count) * w.UnitHealth
	var res Result

	for _, c := range path {
		if tc, ok := s.oracle.Target(c, w.Owner, w.Kind, working); ok {
			d := working[tc]
			hit := float64(count) * w.UnitDamage * w.multiplier()
			res.DamageDealt += math.Min(hit, d.Health)
			d.Health -= hit
			if d.Health <= 0 {
				delete(working, tc)
				res.Destroyed = append(res.Destroyed, tc)
			} else {
				working[tc] = d
			}
		}

		for _, a := range s.oracle.Attackers(c, w.Owner, working) {
			if a.Kind != model.Turret {
				continue
			}
			dmg := s.turret.DamageFor(a.Upgraded)
			total -= dmg
			res.DamageTaken += dmg
		}

		count = int(math.Ceil(total / w.UnitHealth))
		if total <= 0 || count <= 0 {
			count = 0
			break
		}
	}

	res.Survivors = max(count, 0)
	return res, nil
}
