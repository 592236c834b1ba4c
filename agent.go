package agentlogic

import (
	"fmt"

	orb "github.com/paulmach/orb"
)

// DroneState is what the game reports about a drone each turn
type DroneState struct {
	ID        int
	X, Y      int
	Emergency bool
	Battery   int
}

// Point - the drone position as an orb point
func (d DroneState) Point() orb.Point {
	return orb.Point{float64(d.X), float64(d.Y)}
}

// Policy is the read-only context shared by every agent of a match.
type Policy struct {
	Catalog *Catalog
	Params  Params
}

// NewPolicy checks the parameters and bundles them with the catalog.
func NewPolicy(cat *Catalog, p Params) (*Policy, error) {
	if cat == nil {
		return nil, fmt.Errorf("policy needs a catalog")
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}
	return &Policy{Catalog: cat, Params: p}, nil
}

// Agent is the memory one drone keeps between turns. Only Advance mutates it.
type Agent struct {
	Index int
	State DroneState

	Direction int
	Debounce  int
	Blips     []RadarBlip

	Escaping     bool
	EscapeTarget orb.Point

	SaveCommitted bool

	Mode  Mode
	Trace string

	policy *Policy
}

// NewAgent creates the agent for the index-th drone of the team.
func NewAgent(pol *Policy, index int, state DroneState) *Agent {
	return &Agent{
		Index:     index,
		State:     state,
		Direction: InitialDirection(index),
		Debounce:  pol.Params.InitialDebounce,
		policy:    pol,
	}
}

// Clone returns an independent copy sharing the same policy.
func (a *Agent) Clone() *Agent {
	c := *a
	if a.Blips != nil {
		c.Blips = append([]RadarBlip(nil), a.Blips...)
	}
	return &c
}
