package agentlogic

import (
	"errors"
	"fmt"

	orb "github.com/paulmach/orb"
)

// Errors returned when the catalog or the radar feed carries a value we cannot map.
var (
	ErrUnknownCreatureType = errors.New("unknown creature type")
	ErrUnknownCreature     = errors.New("unknown creature")
	ErrUnknownQuadrant     = errors.New("unknown radar quadrant")
)

// CreatureType is the classification of a creature in the catalog
type CreatureType int

// The creature types. Codes match the game's init payload.
const (
	Monster CreatureType = -1
	TypeA   CreatureType = 0
	TypeB   CreatureType = 1
	TypeC   CreatureType = 2
)

// TypeCap is how many creatures of each collectible type live in the ocean.
const TypeCap = 4

// CollectibleTypes lists the types that count towards scans, in code order.
var CollectibleTypes = []CreatureType{TypeA, TypeB, TypeC}

// ParseCreatureType converts a type code from the init payload.
func ParseCreatureType(code int) (CreatureType, error) {
	switch CreatureType(code) {
	case Monster, TypeA, TypeB, TypeC:
		return CreatureType(code), nil
	}
	return 0, fmt.Errorf("%w: code %d", ErrUnknownCreatureType, code)
}

func (t CreatureType) String() string {
	switch t {
	case Monster:
		return "monster"
	case TypeA:
		return "A"
	case TypeB:
		return "B"
	case TypeC:
		return "C"
	}
	return fmt.Sprintf("CreatureType(%d)", int(t))
}

// Creature is one entry of the catalog. Color is cosmetic.
type Creature struct {
	ID    int
	Color int
	Type  CreatureType
}

// Catalog holds every creature of the match, in load order.
type Catalog struct {
	creatures []Creature
	index     map[int]int
}

// NewCatalog builds a catalog. Duplicate ids are rejected.
func NewCatalog(creatures []Creature) (*Catalog, error) {
	c := &Catalog{
		creatures: make([]Creature, 0, len(creatures)),
		index:     make(map[int]int, len(creatures)),
	}
	for _, cr := range creatures {
		if _, ok := c.index[cr.ID]; ok {
			return nil, fmt.Errorf("duplicate creature %d in catalog", cr.ID)
		}
		if _, err := ParseCreatureType(int(cr.Type)); err != nil {
			return nil, fmt.Errorf("creature %d: %w", cr.ID, err)
		}
		c.index[cr.ID] = len(c.creatures)
		c.creatures = append(c.creatures, cr)
	}
	return c, nil
}

// Lookup returns the creature with the given id.
func (c *Catalog) Lookup(id int) (Creature, error) {
	i, ok := c.index[id]
	if !ok {
		return Creature{}, fmt.Errorf("%w: %d", ErrUnknownCreature, id)
	}
	return c.creatures[i], nil
}

// IsMonster reports whether id is a catalogued monster. Unknown ids are not monsters.
func (c *Catalog) IsMonster(id int) bool {
	cr, err := c.Lookup(id)
	return err == nil && cr.Type == Monster
}

// Creatures returns the catalog in load order. The slice must not be modified.
func (c *Catalog) Creatures() []Creature {
	return c.creatures
}

// Len is the number of catalogued creatures.
func (c *Catalog) Len() int {
	return len(c.creatures)
}

// VisibleCreature is a creature inside sensor range this turn.
type VisibleCreature struct {
	ID       int
	Position orb.Point
	Velocity orb.Point
}

// Quadrant is the coarse bearing of a radar blip relative to its drone.
type Quadrant int

// Radar quadrants. Top is shallower (smaller y).
const (
	TopLeft Quadrant = iota
	TopRight
	BottomLeft
	BottomRight
)

// ParseQuadrant converts the radar token (TL, TR, BL, BR).
func ParseQuadrant(token string) (Quadrant, error) {
	switch token {
	case "TL":
		return TopLeft, nil
	case "TR":
		return TopRight, nil
	case "BL":
		return BottomLeft, nil
	case "BR":
		return BottomRight, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownQuadrant, token)
}

func (q Quadrant) String() string {
	switch q {
	case TopLeft:
		return "TL"
	case TopRight:
		return "TR"
	case BottomLeft:
		return "BL"
	case BottomRight:
		return "BR"
	}
	return fmt.Sprintf("Quadrant(%d)", int(q))
}

// Step returns the unit offset pointing into the quadrant.
func (q Quadrant) Step() (dx, dy int) {
	switch q {
	case TopLeft:
		return -1, -1
	case TopRight:
		return 1, -1
	case BottomLeft:
		return -1, 1
	case BottomRight:
		return 1, 1
	}
	return 0, 0
}

// RadarBlip is a directional hint for a creature the drone cannot see.
type RadarBlip struct {
	DroneID    int
	CreatureID int
	Quadrant   Quadrant
}
