package model

import (
	"fmt"
	"strings"
)

// Owner identifies which player a unit belongs to, from the agent's point of view.
type Owner string

const (
	Self  Owner = "self"
	Enemy Owner = "enemy"
)

// Opponent returns the other player.
func (o Owner) Opponent() Owner {
	if o == Enemy {
		return Self
	}
	return Enemy
}

// StructureKind is a stationary defender type.
type StructureKind string

const (
	Wall    StructureKind = "wall"
	Turret  StructureKind = "turret"
	Support StructureKind = "support"
)

// MobileKind is a mobile unit type.
type MobileKind string

const (
	Scout       MobileKind = "scout"
	Demolisher  MobileKind = "demolisher"
	Interceptor MobileKind = "interceptor"
)

// ParseStructureKind accepts the long names and the engine shorthands (FF, DF, EF).
func ParseStructureKind(s string) (StructureKind, error) {
	switch strings.ToLower(s) {
	case "wall", "ff":
		return Wall, nil
	case "turret", "df":
		return Turret, nil
	case "support", "ef":
		return Support, nil
	}
	return "", fmt.Errorf("unknown structure kind %q", s)
}

// ParseMobileKind accepts the long names and the engine shorthands (PI, EI, SI).
func ParseMobileKind(s string) (MobileKind, error) {
	switch strings.ToLower(s) {
	case "scout", "pi":
		return Scout, nil
	case "demolisher", "ei":
		return Demolisher, nil
	case "interceptor", "si":
		return Interceptor, nil
	}
	return "", fmt.Errorf("unknown mobile kind %q", s)
}

// DemolisherStructureMultiplier scales demolisher damage against stationary
// defenders. It applies whenever the unit table does not set a multiplier.
const DemolisherStructureMultiplier = 2.0
