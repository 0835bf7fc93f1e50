package agent

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nstehr/rampart/model"
)

// EventKind identifies something that changed between two consecutive turns.
type EventKind string

const (
	EventDefenseLost      EventKind = "defense_lost"
	EventEnemyDefenseLost EventKind = "enemy_defense_lost"
	EventHealthLost       EventKind = "health_lost"
	EventEnemyStockpile   EventKind = "enemy_stockpile"
)

// Event is a notable change detected by diffing consecutive turn states.
// Events are logged and shown on the status server.
type Event struct {
	Kind   EventKind `json:"kind"`
	Turn   int       `json:"turn"`
	Detail string    `json:"detail"`
}

// stockpileMP is the enemy MP at which a large wave becomes affordable.
const stockpileMP = 10

// turnSnapshot captures the diffable fields of one turn.
type turnSnapshot struct {
	turn     int
	health   float64
	enemyMP  float64
	self     map[model.Cell]model.StructureKind
	enemy    map[model.Cell]model.StructureKind
	removing map[model.Cell]bool // cells self flagged for removal that turn
}

func takeSnapshot(ts model.TurnState, board model.Defenders) turnSnapshot {
	snap := turnSnapshot{
		turn:     ts.Turn,
		health:   ts.Self.Health,
		enemyMP:  ts.Enemy.MP,
		self:     make(map[model.Cell]model.StructureKind),
		enemy:    make(map[model.Cell]model.StructureKind),
		removing: make(map[model.Cell]bool),
	}
	for c, d := range board {
		if d.Owner == model.Self {
			snap.self[c] = d.Kind
		} else {
			snap.enemy[c] = d.Kind
		}
	}
	return snap
}

// detectEvents compares the current turn against the previous snapshot.
// Returns nil if prev is nil (first turn).
func detectEvents(prev *turnSnapshot, cur turnSnapshot) []Event {
	if prev == nil {
		return nil
	}
	var events []Event

	// Units self removed on purpose are not losses.
	if lost := missing(prev.self, cur.self, prev.removing); len(lost) > 0 {
		events = append(events, Event{
			Kind:   EventDefenseLost,
			Turn:   cur.turn,
			Detail: fmt.Sprintf("%d destroyed: %s", len(lost), strings.Join(lost, ", ")),
		})
	}
	if lost := missing(prev.enemy, cur.enemy, nil); len(lost) > 0 {
		events = append(events, Event{
			Kind:   EventEnemyDefenseLost,
			Turn:   cur.turn,
			Detail: fmt.Sprintf("%d destroyed: %s", len(lost), strings.Join(lost, ", ")),
		})
	}
	if cur.health < prev.health {
		events = append(events, Event{
			Kind:   EventHealthLost,
			Turn:   cur.turn,
			Detail: fmt.Sprintf("health %.0f -> %.0f", prev.health, cur.health),
		})
	}
	if cur.enemyMP >= stockpileMP && prev.enemyMP < stockpileMP {
		events = append(events, Event{
			Kind:   EventEnemyStockpile,
			Turn:   cur.turn,
			Detail: fmt.Sprintf("enemy MP %.1f", cur.enemyMP),
		})
	}
	return events
}

// missing lists the cells present in prev but gone from cur, skipping the
// ones in except, as "kind@[x,y]" in row-major order.
func missing(prev, cur map[model.Cell]model.StructureKind, except map[model.Cell]bool) []string {
	var cells []model.Cell
	for c := range prev {
		if _, ok := cur[c]; !ok && !except[c] {
			cells = append(cells, c)
		}
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Y != cells[j].Y {
			return cells[i].Y < cells[j].Y
		}
		return cells[i].X < cells[j].X
	})
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = fmt.Sprintf("%s@%s", prev[c], c)
	}
	return out
}

func formatEvents(events []Event) string {
	parts := make([]string, len(events))
	for i, e := range events {
		parts[i] = fmt.Sprintf("%s (%s)", e.Kind, e.Detail)
	}
	return strings.Join(parts, "; ")
}
