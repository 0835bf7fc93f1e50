package agent

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nstehr/rampart/ipc"
	"github.com/nstehr/rampart/model"
)

// Agent owns the decision-making for a single match session.
type Agent struct {
	Conn     *ipc.Connection
	Planner  *Planner
	Match    *MatchContext
	registry *Registry
}

func New(conn *ipc.Connection, planner *Planner, registry *Registry) *Agent {
	return &Agent{Conn: conn, Planner: planner, registry: registry}
}

// Serve runs one engine session over t until the engine hangs up.
func Serve(t ipc.Transport, planner *Planner, registry *Registry) {
	c := ipc.NewConnection(t, nil)
	a := New(c, planner, registry)
	c.RegisterHandler(ipc.TypeHello, a.HandleHello)
	c.RegisterHandler(ipc.TypeTurnState, a.HandleTurnState)
	c.RegisterHandler(ipc.TypeActionFrame, a.HandleActionFrame)
	c.ReadLoop()
	a.Close()
}

// HandleHello opens a match and tells the engine which id it got.
func (a *Agent) HandleHello(env ipc.Envelope) (*ipc.Envelope, error) {
	var hello ipc.HelloMessage
	if err := json.Unmarshal(env.Data, &hello); err != nil {
		return nil, fmt.Errorf("unmarshal hello: %w", err)
	}

	a.startMatch(hello.PlayerIndex)
	slog.Info("match started", "match", a.Match.ID, "player", hello.PlayerIndex, "engine", hello.Engine)

	ack, err := ipc.NewEnvelope(ipc.TypeAck, ipc.AckMessage{
		Status:      "ok",
		PlayerIndex: a.Match.PlayerIndex,
		MatchID:     a.Match.ID,
	})
	if err != nil {
		return nil, err
	}
	return &ack, nil
}

// HandleTurnState plans the turn and replies with its orders. A report the
// planner cannot use still gets a reply, with no orders, so the engine's
// turn clock keeps moving.
func (a *Agent) HandleTurnState(env ipc.Envelope) (*ipc.Envelope, error) {
	if a.Match == nil {
		slog.Warn("turn state before hello, starting match implicitly")
		a.startMatch(0)
	}

	reply := ipc.TurnCommands{Commands: []ipc.Command{}}
	var ts model.TurnState
	if err := json.Unmarshal(env.Data, &ts); err != nil {
		slog.Error("turn skipped", "match", a.Match.ID, "error", fmt.Errorf("unmarshal turn state: %w", err))
		return a.reply(reply)
	}
	reply.Turn = ts.Turn

	slog.Info("turn state received",
		"match", a.Match.ID,
		"turn", ts.Turn,
		"health", ts.Self.Health,
		"sp", ts.Self.SP,
		"mp", ts.Self.MP,
		"enemyMP", ts.Enemy.MP,
		"defenders", len(ts.Defenders),
		"paths", len(ts.Paths),
	)

	batch, err := a.Planner.PlanTurn(a.Match, ts)
	if err != nil {
		slog.Error("turn skipped", "match", a.Match.ID, "turn", ts.Turn, "error", err)
		return a.reply(reply)
	}
	reply.Commands = batch.Commands()
	return a.reply(reply)
}

// HandleActionFrame queues the frame's breaches for the next turn. It never replies.
func (a *Agent) HandleActionFrame(env ipc.Envelope) (*ipc.Envelope, error) {
	var frame ipc.ActionFrame
	if err := json.Unmarshal(env.Data, &frame); err != nil {
		return nil, fmt.Errorf("unmarshal action frame: %w", err)
	}
	if a.Match == nil {
		return nil, nil
	}
	for _, b := range frame.Breaches {
		a.Match.RecordBreach(b.Cell, b.Defender)
	}
	return nil, nil
}

// Close drops the match from the status registry.
func (a *Agent) Close() {
	if a.Match == nil {
		return
	}
	a.registry.Remove(a.Match.ID)
	slog.Info("match ended", "match", a.Match.ID)
}

func (a *Agent) startMatch(playerIndex int) {
	if a.Match != nil {
		a.registry.Remove(a.Match.ID)
	}
	a.Match = NewMatchContext(playerIndex, a.Planner.Config().Cadence)
	a.Conn.Match = a.Match.ID
	a.registry.Add(a.Match)
}

func (a *Agent) reply(tc ipc.TurnCommands) (*ipc.Envelope, error) {
	env, err := ipc.NewEnvelope(ipc.TypeTurnCommands, tc)
	if err != nil {
		return nil, err
	}
	return &env, nil
}
