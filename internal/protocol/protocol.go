// Package protocol reads the game's text feed and writes drone commands.
// The feed is whitespace separated, every list is prefixed by its length.
package protocol

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	orb "github.com/paulmach/orb"
	agentlogic "github.com/skovsen/D2D_ScanLogic"
)

// ErrMalformed is returned when a token cannot be parsed.
var ErrMalformed = errors.New("malformed input")

// Decoder reads the init payload and then one snapshot per turn.
type Decoder struct {
	sc   *bufio.Scanner
	turn int
}

// NewDecoder wraps r.
func NewDecoder(r io.Reader) *Decoder {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)
	return &Decoder{sc: sc}
}

func (d *Decoder) token(field string) (string, error) {
	if !d.sc.Scan() {
		if err := d.sc.Err(); err != nil {
			return "", fmt.Errorf("reading %s: %w", field, err)
		}
		return "", io.EOF
	}
	return d.sc.Text(), nil
}

func (d *Decoder) readInt(field string) (int, error) {
	tok, err := d.token(field)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", ErrMalformed, field, tok)
	}
	return n, nil
}

// count reads a list length. A missing count mid-turn is malformed, not EOF.
func (d *Decoder) count(field string) (int, error) {
	n, err := d.readInt(field)
	if errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("%w: truncated before %s", ErrMalformed, field)
	}
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: negative %s %d", ErrMalformed, field, n)
	}
	return n, nil
}

// ints reads n integers. EOF inside a record is malformed.
func (d *Decoder) ints(field string, n int) ([]int, error) {
	out := make([]int, n)
	for i := range out {
		v, err := d.readInt(field)
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: truncated %s", ErrMalformed, field)
		}
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ReadCatalog reads the creature list sent once before the first turn.
func (d *Decoder) ReadCatalog() (*agentlogic.Catalog, error) {
	n, err := d.readInt("creature count")
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative creature count %d", ErrMalformed, n)
	}

	creatures := make([]agentlogic.Creature, 0, n)
	for i := 0; i < n; i++ {
		v, err := d.ints("creature", 3)
		if err != nil {
			return nil, err
		}
		t, err := agentlogic.ParseCreatureType(v[2])
		if err != nil {
			return nil, fmt.Errorf("creature %d: %w", v[0], err)
		}
		creatures = append(creatures, agentlogic.Creature{ID: v[0], Color: v[1], Type: t})
	}
	return agentlogic.NewCatalog(creatures)
}

// ReadTurn reads one snapshot. It returns io.EOF when the feed ends between turns.
func (d *Decoder) ReadTurn() (*agentlogic.Snapshot, error) {
	myScore, err := d.readInt("my score")
	if err != nil {
		return nil, err
	}

	s := &agentlogic.Snapshot{Turn: d.turn, MyScore: myScore}
	if s.FoeScore, err = d.mustInt("foe score"); err != nil {
		return nil, err
	}
	if s.MySaved, err = d.idList("my scan"); err != nil {
		return nil, err
	}
	if s.FoeSaved, err = d.idList("foe scan"); err != nil {
		return nil, err
	}
	if s.MyDrones, err = d.drones("my drone"); err != nil {
		return nil, err
	}
	if s.FoeDrones, err = d.drones("foe drone"); err != nil {
		return nil, err
	}

	n, err := d.count("drone scan count")
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		v, err := d.ints("drone scan", 2)
		if err != nil {
			return nil, err
		}
		s.Scans = append(s.Scans, agentlogic.ScanRecord{DroneID: v[0], CreatureID: v[1]})
	}

	if n, err = d.count("visible creature count"); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		v, err := d.ints("visible creature", 5)
		if err != nil {
			return nil, err
		}
		s.Visible = append(s.Visible, agentlogic.VisibleCreature{
			ID:       v[0],
			Position: orb.Point{float64(v[1]), float64(v[2])},
			Velocity: orb.Point{float64(v[3]), float64(v[4])},
		})
	}

	if n, err = d.count("radar blip count"); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		v, err := d.ints("radar blip", 2)
		if err != nil {
			return nil, err
		}
		tok, err := d.token("radar quadrant")
		if err != nil {
			return nil, fmt.Errorf("%w: truncated radar blip", ErrMalformed)
		}
		q, err := agentlogic.ParseQuadrant(tok)
		if err != nil {
			return nil, err
		}
		s.Blips = append(s.Blips, agentlogic.RadarBlip{DroneID: v[0], CreatureID: v[1], Quadrant: q})
	}

	d.turn++
	return s, nil
}

func (d *Decoder) mustInt(field string) (int, error) {
	v, err := d.ints(field, 1)
	if err != nil {
		return 0, err
	}
	return v[0], nil
}

func (d *Decoder) idList(field string) ([]int, error) {
	n, err := d.count(field + " count")
	if err != nil {
		return nil, err
	}
	return d.ints(field, n)
}

func (d *Decoder) drones(field string) ([]agentlogic.DroneState, error) {
	n, err := d.count(field + " count")
	if err != nil {
		return nil, err
	}
	out := make([]agentlogic.DroneState, 0, n)
	for i := 0; i < n; i++ {
		v, err := d.ints(field, 5)
		if err != nil {
			return nil, err
		}
		out = append(out, agentlogic.DroneState{
			ID:        v[0],
			X:         v[1],
			Y:         v[2],
			Emergency: v[3] == 1,
			Battery:   v[4],
		})
	}
	return out, nil
}

// Encoder writes one line per command and flushes after each turn.
type Encoder struct {
	w *bufio.Writer
}

// NewEncoder wraps w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w)}
}

// WriteTurn writes the commands of a turn and flushes them.
func (e *Encoder) WriteTurn(cmds []agentlogic.Command) error {
	for _, c := range cmds {
		if _, err := fmt.Fprintln(e.w, c.String()); err != nil {
			return fmt.Errorf("writing command for drone %d: %w", c.DroneID, err)
		}
	}
	return e.w.Flush()
}
