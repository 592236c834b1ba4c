package agentlogic

import (
	"fmt"
	"strings"
)

// Mode is the implicit state the planner ended up in for a turn.
type Mode int

// Planner modes, lowest priority first.
const (
	Searching Mode = iota
	Seeking
	Escaping
	Returning
	Disabled
)

func (m Mode) String() string {
	switch m {
	case Searching:
		return "searching"
	case Seeking:
		return "seeking"
	case Escaping:
		return "escaping"
	case Returning:
		return "returning"
	case Disabled:
		return "disabled"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// CommandKind is the verb of an output line.
type CommandKind int

// Command verbs
const (
	Move CommandKind = iota
	Wait
)

// Command is one drone's order for the turn.
type Command struct {
	DroneID int
	Kind    CommandKind
	X, Y    int
	Light   bool
	Mode    Mode
	Trace   string
}

// String renders the command as a protocol line, trace included.
func (c Command) String() string {
	light := 0
	if c.Light {
		light = 1
	}

	var line string
	switch c.Kind {
	case Wait:
		line = fmt.Sprintf("WAIT %d", light)
	default:
		line = fmt.Sprintf("MOVE %d %d %d", c.X, c.Y, light)
	}

	if trace := strings.TrimSpace(sanitizeTrace(c.Trace)); trace != "" {
		line += " " + trace
	}
	return line
}

// sanitizeTrace keeps the trace on one line.
func sanitizeTrace(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return ' '
		}
		return r
	}, s)
}
