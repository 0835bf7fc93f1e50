package rules

import (
	"fmt"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/nstehr/rampart/config"
)

// Engine replays the configured build lists each turn. Lists run in config
// order and steps in list order; a step whose condition is false is skipped
// for this turn only.
// An Engine is read-only after construction and may be shared by matches.
type Engine struct {
	rules []*Rule
}

// NewEngine compiles every step condition into expr bytecode.
func NewEngine(lists []config.BuildList) (*Engine, error) {
	compiled, err := compileLists(lists)
	if err != nil {
		return nil, err
	}
	return &Engine{rules: compiled}, nil
}

// Rules returns the compiled steps in replay order.
func (e *Engine) Rules() []*Rule { return e.rules }

// ReplayBuildList walks every step against env and issues the orders through
// b. It returns how many orders the batch accepted.
func (e *Engine) ReplayBuildList(env BuildEnv, b *Batch) int {
	env.Batch = b
	issued := 0
	for _, r := range e.Rules() {
		if r.program != nil {
			result, err := vm.Run(r.program, env)
			if err != nil {
				slog.Warn("build condition error", "rule", r.Name, "error", err)
				continue
			}
			if match, ok := result.(bool); !ok || !match {
				continue
			}
		}
		if r.apply(b) {
			issued++
			slog.Debug("build step fired", "rule", r.Name, "action", r.Action, "cell", r.Cell)
		}
	}
	return issued
}

func compileLists(lists []config.BuildList) ([]*Rule, error) {
	var rules []*Rule
	for _, bl := range lists {
		for i, s := range bl.Steps {
			name := fmt.Sprintf("%s#%d", bl.Name, i)
			action, err := ParseAction(s.Action)
			if err != nil {
				return nil, fmt.Errorf("build step %s: %w", name, err)
			}
			r := &Rule{Name: name, Cell: s.Cell.Cell(), Action: action, ConditionSrc: s.When}
			if s.When != "" {
				prog, err := expr.Compile(s.When, expr.Env(BuildEnv{}), expr.AsBool())
				if err != nil {
					return nil, fmt.Errorf("compile build step %s: %w", name, err)
				}
				r.program = prog
			}
			rules = append(rules, r)
		}
	}
	return rules, nil
}
