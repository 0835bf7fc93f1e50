package ipc

import "github.com/nstehr/rampart/model"

// Message types exchanged with the engine.
const (
	TypeHello        = "hello"
	TypeAck          = "ack"
	TypeTurnState    = "turn_state"
	TypeTurnCommands = "turn_commands"
	TypeActionFrame  = "action_frame"
)

// HelloMessage opens a match. PlayerIndex is 1 or 2 as assigned by the engine.
type HelloMessage struct {
	PlayerIndex int    `json:"player_index"`
	Engine      string `json:"engine,omitempty"`
}

type AckMessage struct {
	Status      string `json:"status"`
	PlayerIndex int    `json:"player_index"`
	MatchID     string `json:"match_id"`
}

// TurnCommands is the agent's reply to a turn state. An empty list ends the
// turn without orders.
type TurnCommands struct {
	Turn     int       `json:"turn"`
	Commands []Command `json:"commands"`
}

// ActionFrame is a replay frame from the action phase. Only breaches are read.
type ActionFrame struct {
	Turn     int      `json:"turn"`
	Breaches []Breach `json:"breaches"`
}

// Breach is a mobile unit reaching the far edge. Defender is the player that
// was scored on.
type Breach struct {
	Cell     model.Cell  `json:"cell"`
	Defender model.Owner `json:"defender"`
}
