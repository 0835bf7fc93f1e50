package rules

import (
	"log/slog"
	"math"

	"github.com/nstehr/rampart/config"
	"github.com/nstehr/rampart/ipc"
	"github.com/nstehr/rampart/model"
)

// Batch collects one turn's orders. It tracks the resources left and the
// cells already claimed so every order it accepts is one the engine would
// accept. Orders that cannot be carried out are dropped silently.
type Batch struct {
	sp, mp   float64
	units    config.Units
	board    model.Defenders // current board plus this turn's placements
	removing map[model.Cell]bool
	launches map[model.Cell]bool // cells with a deploy order this turn
	commands []ipc.Command
}

// NewBatch starts a turn with self's resources on the reported board.
// The board is cloned.
func NewBatch(board model.Defenders, self model.PlayerState, units config.Units) *Batch {
	return &Batch{
		sp:       self.SP,
		mp:       self.MP,
		units:    units,
		board:    board.Clone(),
		removing: make(map[model.Cell]bool),
		launches: make(map[model.Cell]bool),
	}
}

func (b *Batch) SP() float64 { return b.sp }
func (b *Batch) MP() float64 { return b.mp }

// Board returns the board as it will look once the placements land.
func (b *Batch) Board() model.Defenders { return b.board }

// Commands returns the accepted orders in issue order.
func (b *Batch) Commands() []ipc.Command {
	out := make([]ipc.Command, len(b.commands))
	copy(out, b.commands)
	return out
}

func (b *Batch) Len() int { return len(b.commands) }

// Removing returns the cells flagged for removal this turn.
func (b *Batch) Removing() []model.Cell {
	out := make([]model.Cell, 0, len(b.removing))
	for c := range b.removing {
		out = append(out, c)
	}
	return out
}

// Place orders a stationary unit on c. It is a no-op when c is off self's
// half, already holds a unit, is a launch cell with a deploy order, or SP
// falls short.
func (b *Batch) Place(kind model.StructureKind, c model.Cell) bool {
	stats, ok := b.units.Structures[kind]
	if !ok || !model.InArena(c) || model.SideOf(c) != model.Self {
		return false
	}
	if b.board.Occupied(c) || b.launches[c] || b.sp < stats.Cost {
		return false
	}
	b.sp -= stats.Cost
	b.board[c] = model.Defender{Location: c, Kind: kind, Health: stats.Health, Owner: model.Self}
	b.commands = append(b.commands, ipc.Command{Op: ipc.OpPlace, Unit: string(kind), X: c.X, Y: c.Y})
	slog.Debug("order placed", "unit", kind, "cell", c, "sp", b.sp)
	return true
}

// Upgrade orders an upgrade of self's unit on c. Empty cells, enemy units
// and units already upgraded are skipped.
func (b *Batch) Upgrade(c model.Cell) bool {
	d, ok := b.board[c]
	if !ok || d.Owner != model.Self || d.Upgraded {
		return false
	}
	cost := b.units.Structures[d.Kind].UpgradeCost
	if b.sp < cost {
		return false
	}
	b.sp -= cost
	d.Upgraded = true
	b.board[c] = d
	b.commands = append(b.commands, ipc.Command{Op: ipc.OpUpgrade, X: c.X, Y: c.Y})
	return true
}

// Remove flags self's unit on c for removal at the end of the turn. The unit
// keeps its cell this turn. Each cell is flagged once.
func (b *Batch) Remove(c model.Cell) bool {
	d, ok := b.board[c]
	if !ok || d.Owner != model.Self || b.removing[c] {
		return false
	}
	b.removing[c] = true
	b.commands = append(b.commands, ipc.Command{Op: ipc.OpRemove, X: c.X, Y: c.Y})
	return true
}

// Affordable returns how many units of kind the remaining MP pays for.
func (b *Batch) Affordable(kind model.MobileKind) int {
	stats, ok := b.units.Mobile[kind]
	if !ok || stats.Cost <= 0 {
		return 0
	}
	return int(math.Floor(b.mp / stats.Cost))
}

// Deploy orders up to count mobile units onto launch cell c and returns how
// many were ordered. c must be an unblocked self edge cell. Once units are
// ordered onto c, later placements on c are refused: the engine lays
// structures down before it spawns units, so a structure there would block
// the wave.
func (b *Batch) Deploy(kind model.MobileKind, c model.Cell, count int) int {
	if _, edge := model.EdgeOf(c); !edge || model.SideOf(c) != model.Self || b.board.Occupied(c) {
		return 0
	}
	n := min(count, b.Affordable(kind))
	if n <= 0 {
		return 0
	}
	b.mp -= float64(n) * b.units.Mobile[kind].Cost
	b.launches[c] = true
	b.commands = append(b.commands, ipc.Command{Op: ipc.OpPlace, Unit: string(kind), X: c.X, Y: c.Y, Count: n})
	slog.Debug("wave ordered", "unit", kind, "cell", c, "count", n, "mp", b.mp)
	return n
}
