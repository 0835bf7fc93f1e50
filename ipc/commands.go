package ipc

import "fmt"

// Command ops understood by the engine.
const (
	OpPlace   = "place"
	OpUpgrade = "upgrade"
	OpRemove  = "remove"
)

// Command is one order in a turn_commands reply. Unit is empty for upgrade
// and remove; Count is only set for mobile placements.
type Command struct {
	Op    string `json:"op"`
	Unit  string `json:"unit,omitempty"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Count int    `json:"count,omitempty"`
}

func (c Command) String() string {
	if c.Count > 0 {
		return fmt.Sprintf("%s %dx%s@[%d,%d]", c.Op, c.Count, c.Unit, c.X, c.Y)
	}
	if c.Unit != "" {
		return fmt.Sprintf("%s %s@[%d,%d]", c.Op, c.Unit, c.X, c.Y)
	}
	return fmt.Sprintf("%s [%d,%d]", c.Op, c.X, c.Y)
}
