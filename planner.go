package agentlogic

import (
	"errors"
	"fmt"
	"math"
	"strings"

	orb "github.com/paulmach/orb"
)

// ErrDroneMissing means the snapshot has no state for an agent's drone.
var ErrDroneMissing = errors.New("drone missing from snapshot")

// Advance runs one turn of the planner for this drone and returns its command.
//
// Candidates override each other in this order: sweep, seek, escape, return to surface.
// The light is decided on its own and is always off while escaping or returning.
func (a *Agent) Advance(s *Snapshot) (Command, error) {
	state, ok := findDrone(s.MyDrones, a.State.ID)
	if !ok {
		return Command{}, fmt.Errorf("%w: drone %d", ErrDroneMissing, a.State.ID)
	}
	p := a.policy.Params
	a.State = state
	a.Blips = s.BlipsFor(state, p.DetectionRadius)

	if state.Emergency {
		return a.disabled(), nil
	}

	cat := a.policy.Catalog
	pos := state.Point()
	var trace []string

	own := OwnScans(s)
	full, err := FourOfAKind(own, cat)
	if err != nil {
		return Command{}, fmt.Errorf("drone %d: %w", state.ID, err)
	}

	next, dir := SweepStep(pos, a.Direction, p)
	a.Direction = dir
	mode := Searching

	targets := SelectTargets(cat, own)
	if a.Index < len(targets) {
		want := targets[a.Index]
		for _, b := range a.Blips {
			if b.CreatureID != want {
				continue
			}
			dx, dy := b.Quadrant.Step()
			next = orb.Point{pos[0] + p.SeekStep*float64(dx), pos[1] + p.SeekStep*float64(dy)}
			mode = Seeking
			trace = append(trace, fmt.Sprintf("seek %d %s", want, b.Quadrant))
			break
		}
	}

	threats := SenseMonsters(pos, s.Visible, cat, p)
	for _, t := range threats {
		trace = append(trace, fmt.Sprintf("%d!", t.Monster.ID))
	}
	if len(threats) > 0 {
		a.EscapeTarget = EscapePoint(pos, threats[0].Monster, p)
		a.Escaping = true
		a.Debounce -= p.DebouncePenalty
	}
	if a.Escaping {
		next = a.EscapeTarget
		mode = Escaping
		trace = append(trace, fmt.Sprintf("escaping to %d %d", int(a.EscapeTarget[0]), int(a.EscapeTarget[1])))
		if reachedEscape(pos, a.EscapeTarget, p.EscapeTolerance) {
			a.Escaping = false
		}
	}

	if full || a.SaveCommitted {
		a.SaveCommitted = true
		if state.Y < p.SurfacedY {
			a.SaveCommitted = false
		}
		next = orb.Point{pos[0], float64(p.SurfaceY)}
		mode = Returning
		trace = append(trace, "save!")
	}

	a.Debounce++
	light := false
	// mode rather than the flag: the rendezvous turn still counts as escaping
	if mode != Returning && mode != Escaping &&
		state.Battery > p.MinBattery && state.Y > p.LightDepth && a.Debounce > p.DebounceThreshold {
		light = true
		a.Debounce = 0
		trace = append(trace, "flash!")
	}
	if mode == Searching {
		trace = append(trace, "searching")
	}

	next = clampTo(p.Arena(), next)
	a.Mode = mode
	a.Trace = strings.Join(trace, " ")

	return Command{
		DroneID: state.ID,
		Kind:    Move,
		X:       int(math.Round(next[0])),
		Y:       int(math.Round(next[1])),
		Light:   light,
		Mode:    mode,
		Trace:   a.Trace,
	}, nil
}

// disabled handles a drone in emergency: it cannot act and has lost its cargo.
func (a *Agent) disabled() Command {
	a.Escaping = false
	a.SaveCommitted = false
	a.Debounce++
	a.Mode = Disabled
	a.Trace = "emergency"
	return Command{
		DroneID: a.State.ID,
		Kind:    Wait,
		Mode:    Disabled,
		Trace:   a.Trace,
	}
}

func findDrone(drones []DroneState, id int) (DroneState, bool) {
	for _, d := range drones {
		if d.ID == id {
			return d, true
		}
	}
	return DroneState{}, false
}
