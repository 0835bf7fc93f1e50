package rules

import (
	"fmt"

	"github.com/expr-lang/expr/vm"
	"github.com/nstehr/rampart/model"
)

// Action is what a build step does to its cell.
type Action string

const (
	ActionWall    Action = "wall"
	ActionTurret  Action = "turret"
	ActionSupport Action = "support"
	ActionUpgrade Action = "upgrade"
	ActionRemove  Action = "remove"
)

// ParseAction validates a build step action name.
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionWall, ActionTurret, ActionSupport, ActionUpgrade, ActionRemove:
		return a, nil
	}
	return "", fmt.Errorf("unknown build action %q", s)
}

// Rule is one compiled build step: an optional condition guarding an order
// on a fixed cell.
type Rule struct {
	Name         string // list name and step index, for logs
	Cell         model.Cell
	Action       Action
	ConditionSrc string      // expr source, empty means always
	program      *vm.Program // compiled bytecode, nil when unconditional
}

// apply issues the step's order and reports whether the batch accepted it.
func (r *Rule) apply(b *Batch) bool {
	switch r.Action {
	case ActionWall:
		return b.Place(model.Wall, r.Cell)
	case ActionTurret:
		return b.Place(model.Turret, r.Cell)
	case ActionSupport:
		return b.Place(model.Support, r.Cell)
	case ActionUpgrade:
		return b.Upgrade(r.Cell)
	case ActionRemove:
		return b.Remove(r.Cell)
	}
	return false
}
