package rules

import (
	"github.com/nstehr/rampart/model"
)

// BuildEnv wraps the turn state and exposes helper methods callable from
// build step conditions. Cell queries see the batch's pending placements,
// so a step can depend on an earlier step of the same turn.
type BuildEnv struct {
	State    model.TurnState
	Batch    *Batch
	Breached []model.Cell // cells where self has been scored on this match
}

func (e BuildEnv) Turn() int        { return e.State.Turn }
func (e BuildEnv) MP() float64      { return e.State.Self.MP }
func (e BuildEnv) EnemyMP() float64 { return e.State.Enemy.MP }
func (e BuildEnv) EnemySP() float64 { return e.State.Enemy.SP }
func (e BuildEnv) Health() float64  { return e.State.Self.Health }
func (e BuildEnv) Breaches() int    { return len(e.Breached) }

// SP is what is left to spend after the orders issued so far.
func (e BuildEnv) SP() float64 {
	if e.Batch == nil {
		return e.State.Self.SP
	}
	return e.Batch.SP()
}

func (e BuildEnv) board() model.Defenders {
	if e.Batch == nil {
		return nil
	}
	return e.Batch.Board()
}

func (e BuildEnv) Occupied(x, y int) bool {
	return e.board().Occupied(model.Cell{X: x, Y: y})
}

func (e BuildEnv) Upgraded(x, y int) bool {
	d, ok := e.board()[model.Cell{X: x, Y: y}]
	return ok && d.Upgraded
}

// HealthAt returns the health of the unit on [x, y], or 0 for an empty cell.
func (e BuildEnv) HealthAt(x, y int) float64 {
	return e.board()[model.Cell{X: x, Y: y}].Health
}

func (e BuildEnv) EnemyTurrets() int {
	return e.board().Count(model.Enemy, model.Turret)
}

// BreachedNear reports whether any breach happened within r of [x, y].
func (e BuildEnv) BreachedNear(x, y int, r float64) bool {
	at := model.Cell{X: x, Y: y}
	for _, c := range e.Breached {
		if c.Distance(at) <= r {
			return true
		}
	}
	return false
}
