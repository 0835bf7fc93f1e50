package agent

import (
	"fmt"
	"log/slog"

	"github.com/nstehr/rampart/config"
	"github.com/nstehr/rampart/model"
	"github.com/nstehr/rampart/rules"
	"github.com/nstehr/rampart/search"
	"github.com/nstehr/rampart/sim"
)

// Planner turns one turn state into one batch of orders. It is read-only
// after construction and may be shared by every match.
type Planner struct {
	cfg    *config.Config
	engine *rules.Engine
}

func NewPlanner(cfg *config.Config, engine *rules.Engine) *Planner {
	return &Planner{cfg: cfg, engine: engine}
}

func (p *Planner) Config() *config.Config { return p.cfg }

// attackPlan is the outcome of the attack checks, decided before any order is
// issued so a failed check leaves the batch untouched.
type attackPlan struct {
	launch search.Launch
	wave   search.WaveOption
}

// PlanTurn decides this turn's orders and advances mc.Plan. A turn state that
// fails validation is rejected before any state changes.
func (p *Planner) PlanTurn(mc *MatchContext, ts model.TurnState) (*rules.Batch, error) {
	if err := ts.Validate(); err != nil {
		return nil, fmt.Errorf("plan turn %d: %w", ts.Turn, err)
	}
	board, err := ts.Board()
	if err != nil {
		return nil, fmt.Errorf("plan turn %d: %w", ts.Turn, err)
	}

	mc.absorbBreaches()
	snap := takeSnapshot(ts, board)
	events := detectEvents(mc.last, snap)
	if len(events) > 0 {
		slog.Info("turn events", "match", mc.ID, "turn", ts.Turn, "events", formatEvents(events))
	}

	units := p.cfg.Units
	s := sim.New(sim.NewFeedOracle(ts, board, units), units)
	batch := rules.NewBatch(board, ts.Self, units)
	env := rules.BuildEnv{State: ts, Breached: mc.Plan.ScoredOnLocations}
	summary := TurnSummary{Turn: ts.Turn, Mode: ModeBuild, Events: events}
	next := mc.Plan.NextAttackTurn

	var attack *attackPlan
	if ts.Turn >= mc.Plan.NextAttackTurn {
		attack, summary.Skipped = p.planAttack(s, board, batch)
		if attack == nil {
			next = ts.Turn + p.cfg.Cadence.LongInterval
			slog.Info("attack skipped", "match", mc.ID, "turn", ts.Turn, "reason", summary.Skipped, "next", next)
		}
	}

	// The wave is ordered before the build list so no build step can take
	// the launch cell.
	if attack != nil {
		summary.Mode = ModeAttack
		launch := attack.launch.Cell
		summary.Launch = &launch
		if at, ok := rules.PlaceSupport(launch, p.cfg.Support, batch); ok {
			slog.Debug("support placed", "match", mc.ID, "cell", at)
		}
		w := attack.wave.Wave
		deployed := batch.Deploy(w.Kind, launch, w.Count)
		survived := p.deployedSurvivors(s, board, attack, deployed)
		next = NextAttackTurn(ts.Turn, deployed, survived, p.cfg.Cadence)
		mc.Plan.LastAttackDeployed = deployed
		mc.Plan.LastAttackSurvived = survived
		summary.Wave = string(w.Kind)
		summary.Deployed = deployed
		summary.Predicted = survived
		slog.Info("attack ordered", "match", mc.ID, "turn", ts.Turn,
			"launch", launch, "unit", w.Kind, "count", deployed,
			"predicted", survived, "next", next)
	}

	p.engine.ReplayBuildList(env, batch)
	if placed := rules.ApplyReactiveDefense(mc.Plan.ScoredOnLocations, batch); len(placed) > 0 {
		slog.Info("reactive turrets ordered", "match", mc.ID, "cells", placed)
	}

	if attack == nil {
		if c, ok := p.placeDefense(mc, s, ts.Enemy, batch); ok {
			summary.Placement = &c
		}
	}

	for _, c := range batch.Removing() {
		snap.removing[c] = true
	}
	mc.last = &snap
	mc.Plan.Mode = summary.Mode
	mc.Plan.NextAttackTurn = next
	summary.Commands = batch.Len()
	mc.publish(summary)
	return batch, nil
}

// planAttack picks the launch and the wave. It returns nil with a reason when
// the turn has to fall back to building.
func (p *Planner) planAttack(s *sim.Simulator, board model.Defenders, batch *rules.Batch) (*attackPlan, string) {
	turret := p.cfg.Units.Structures[model.Turret]
	launch, ok := search.SafestLaunch(s.Oracle(), model.LaunchEdges(model.Self), board, model.Self, turret.Damage)
	if !ok {
		return nil, "no open launch cell"
	}

	var waves []sim.Wave
	for _, kind := range p.cfg.Attack.Kinds {
		waves = append(waves, sim.NewWave(kind, model.Self, batch.Affordable(kind), p.cfg.Units.Mobile[kind]))
	}
	best, ok, err := search.BestWave(s, launch.Path, board, waves)
	if err != nil {
		slog.Error("wave simulation failed", "error", err)
		return nil, "simulation failed"
	}
	if !ok {
		return nil, "no affordable wave"
	}
	if best.Result.Survivors < p.cfg.Attack.MinSurvivors {
		return nil, fmt.Sprintf("only %d predicted survivors", best.Result.Survivors)
	}
	return &attackPlan{launch: launch, wave: best}, ""
}

// deployedSurvivors returns the predicted survivors of the units actually
// ordered. The planned prediction only holds when the full wave went out;
// a short wave is simulated again at its real size.
func (p *Planner) deployedSurvivors(s *sim.Simulator, board model.Defenders, attack *attackPlan, deployed int) int {
	w := attack.wave.Wave
	if deployed == w.Count {
		return attack.wave.Result.Survivors
	}
	if deployed <= 0 {
		return 0
	}
	w.Count = deployed
	res, err := s.Run(attack.launch.Path, w, board)
	if err != nil {
		slog.Error("wave simulation failed", "error", err)
		return 0
	}
	return res.Survivors
}

// placeDefense orders one turret where it best stops the scout wave the
// enemy could afford this turn. The search runs on the board as it will be
// after this turn's other placements.
func (p *Planner) placeDefense(mc *MatchContext, s *sim.Simulator, enemy model.PlayerState, batch *rules.Batch) (model.Cell, bool) {
	stats := p.cfg.Units.Mobile[model.Scout]
	turret := p.cfg.Units.Structures[model.Turret]
	if stats.Cost <= 0 || batch.SP() < turret.Cost {
		return model.Cell{}, false
	}
	count := int(enemy.MP / stats.Cost)
	if count <= 0 {
		return model.Cell{}, false
	}

	attacker := sim.NewWave(model.Scout, model.Enemy, count, stats)
	pl, ok, err := search.BestDefensePlacement(s, batch.Board(), attacker, search.PlacementOptions{
		Radius:        p.cfg.Search.PlacementRadius,
		MaxCandidates: p.cfg.Search.MaxCandidates,
		TurretHealth:  turret.Health,
		TurretDamage:  turret.Damage,
	})
	if err != nil {
		slog.Error("defense simulation failed", "match", mc.ID, "error", err)
		return model.Cell{}, false
	}
	if !ok || !batch.Place(model.Turret, pl.Cell) {
		return model.Cell{}, false
	}
	slog.Info("defense turret ordered", "match", mc.ID, "cell", pl.Cell,
		"scoring", pl.ScoringCell, "baseline", pl.Baseline, "survivors", pl.Survivors)
	return pl.Cell, true
}

// NextAttackTurn schedules the next attack from the predicted outcome of this
// one. A wave that mostly survives earns the short interval; anything else,
// including an empty wave, waits the long one.
func NextAttackTurn(turn, deployed, survived int, c config.Cadence) int {
	ratio := 0.0
	if deployed > 0 {
		ratio = float64(survived) / float64(deployed)
	}
	if deployed > 0 && ratio >= c.SurvivalThreshold {
		return turn + c.ShortInterval
	}
	return turn + c.LongInterval
}
