package agentlogic

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrUnknownDrone means a snapshot names one of our drones that was never registered.
var ErrUnknownDrone = errors.New("unknown drone")

// Registry owns one Agent per drone of our team, keyed by drone id.
type Registry struct {
	policy *Policy
	agents map[int]*Agent
	order  []int
	log    zerolog.Logger
}

// NewRegistry creates an empty registry. Agents are created by the first Decide call.
func NewRegistry(pol *Policy, log zerolog.Logger) *Registry {
	return &Registry{
		policy: pol,
		agents: make(map[int]*Agent),
		log:    log,
	}
}

// Agent returns the agent for a drone id.
func (r *Registry) Agent(id int) (*Agent, error) {
	a, ok := r.agents[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDrone, id)
	}
	return a, nil
}

// Len is the number of registered agents.
func (r *Registry) Len() int {
	return len(r.agents)
}

// IDs returns the registered drone ids in registration order.
func (r *Registry) IDs() []int {
	return append([]int(nil), r.order...)
}

// register creates agents for the roster of the first snapshot.
func (r *Registry) register(drones []DroneState) {
	for _, d := range drones {
		if _, ok := r.agents[d.ID]; ok {
			continue
		}
		r.agents[d.ID] = NewAgent(r.policy, len(r.order), d)
		r.order = append(r.order, d.ID)
	}
}

// Decide returns one command per drone of ours, in snapshot order.
func (r *Registry) Decide(s *Snapshot) ([]Command, error) {
	if len(r.agents) == 0 {
		r.register(s.MyDrones)
		r.log.Info().Ints("drones", r.order).Msg("Registered drones")
	}

	if err := ValidateLedger(s, r.policy.Catalog); err != nil {
		return nil, fmt.Errorf("turn %d: %w", s.Turn, err)
	}

	cmds := make([]Command, 0, len(s.MyDrones))
	for _, d := range s.MyDrones {
		a, err := r.Agent(d.ID)
		if err != nil {
			return nil, fmt.Errorf("turn %d: %w", s.Turn, err)
		}
		cmd, err := a.Advance(s)
		if err != nil {
			return nil, fmt.Errorf("turn %d: %w", s.Turn, err)
		}
		r.log.Debug().
			Int("turn", s.Turn).
			Int("drone", d.ID).
			Stringer("mode", a.Mode).
			Bool("save", a.SaveCommitted).
			Int("direction", a.Direction).
			Int("debounce", a.Debounce).
			Bool("escaping", a.Escaping).
			Int("blips", len(a.Blips)).
			Str("trace", a.Trace).
			Msg("Decided")
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}
