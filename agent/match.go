package agent

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nstehr/rampart/config"
	"github.com/nstehr/rampart/model"
)

// Mode is the planner state for one turn.
type Mode string

const (
	ModeBuild  Mode = "build"
	ModeAttack Mode = "attack"
)

// TurnPlanState carries the planner's memory from one turn to the next.
// Only the planner writes it, once at the end of each turn.
type TurnPlanState struct {
	Mode               Mode
	NextAttackTurn     int
	LastAttackDeployed int
	LastAttackSurvived int          // predicted, not observed
	ScoredOnLocations  []model.Cell // unique, in first-breach order
}

// TurnSummary describes what the last planned turn decided.
type TurnSummary struct {
	Turn      int         `json:"turn"`
	Mode      Mode        `json:"mode"`
	Launch    *model.Cell `json:"launch,omitempty"`
	Wave      string      `json:"wave,omitempty"`
	Deployed  int         `json:"deployed"`
	Predicted int         `json:"predicted_survivors"`
	Placement *model.Cell `json:"placement,omitempty"`
	Commands  int         `json:"commands"`
	Skipped   string      `json:"skipped,omitempty"`
	Events    []Event     `json:"events,omitempty"`
}

// MatchStatus is the read-only view served by the status server.
type MatchStatus struct {
	ID             string       `json:"id"`
	PlayerIndex    int          `json:"player_index"`
	Started        time.Time    `json:"started"`
	NextAttackTurn int          `json:"next_attack_turn"`
	ScoredOn       []model.Cell `json:"scored_on"`
	Turns          int          `json:"turns_planned"`
	Last           *TurnSummary `json:"last_turn,omitempty"`
}

// MatchContext holds everything the agent keeps for one match. The planner
// owns Plan; breach callbacks only touch the pending queue, and the status
// server only reads the published snapshot.
type MatchContext struct {
	ID          string
	PlayerIndex int
	Started     time.Time
	Plan        TurnPlanState

	last    *turnSnapshot // planner-owned, previous turn
	mu      sync.Mutex
	pending []model.Cell
	status  MatchStatus
}

func NewMatchContext(playerIndex int, cadence config.Cadence) *MatchContext {
	m := &MatchContext{
		ID:          uuid.NewString(),
		PlayerIndex: playerIndex,
		Started:     time.Now(),
		Plan: TurnPlanState{
			Mode:           ModeBuild,
			NextAttackTurn: cadence.FirstAttackTurn,
		},
	}
	m.status = MatchStatus{
		ID:             m.ID,
		PlayerIndex:    playerIndex,
		Started:        m.Started,
		NextAttackTurn: cadence.FirstAttackTurn,
	}
	return m
}

// RecordBreach queues a breach reported during the action phase. Breaches
// where the opponent was scored on are ignored. It reports whether the breach
// was kept.
func (m *MatchContext) RecordBreach(c model.Cell, defender model.Owner) bool {
	if defender != model.Self {
		return false
	}
	m.mu.Lock()
	m.pending = append(m.pending, c)
	m.mu.Unlock()
	slog.Debug("breach recorded", "match", m.ID, "cell", c)
	return true
}

// absorbBreaches moves queued breaches into the plan state.
func (m *MatchContext) absorbBreaches() {
	m.mu.Lock()
	pending := m.pending
	m.pending = nil
	m.mu.Unlock()

	for _, c := range pending {
		if !slices.Contains(m.Plan.ScoredOnLocations, c) {
			m.Plan.ScoredOnLocations = append(m.Plan.ScoredOnLocations, c)
		}
	}
}

func (m *MatchContext) publish(s TurnSummary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status.NextAttackTurn = m.Plan.NextAttackTurn
	m.status.ScoredOn = slices.Clone(m.Plan.ScoredOnLocations)
	m.status.Turns++
	m.status.Last = &s
}

// Status returns a copy of the last published snapshot.
func (m *MatchContext) Status() MatchStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.status
	s.ScoredOn = slices.Clone(s.ScoredOn)
	if s.Last != nil {
		last := *s.Last
		last.Events = slices.Clone(last.Events)
		s.Last = &last
	}
	return s
}
