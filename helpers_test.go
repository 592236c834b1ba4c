package agentlogic

import (
	"testing"

	orb "github.com/paulmach/orb"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// testCatalog: ids 0-3 type A, 4-7 type B, 8-11 type C, 12-13 monsters.
func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	var creatures []Creature
	for id := 0; id < 12; id++ {
		creatures = append(creatures, Creature{ID: id, Color: id % 4, Type: CreatureType(id / 4)})
	}
	creatures = append(creatures,
		Creature{ID: 12, Color: -1, Type: Monster},
		Creature{ID: 13, Color: -1, Type: Monster},
	)
	cat, err := NewCatalog(creatures)
	require.NoError(t, err)
	return cat
}

func testPolicy(t *testing.T) *Policy {
	t.Helper()
	pol, err := NewPolicy(testCatalog(t), DefaultParams())
	require.NoError(t, err)
	return pol
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewRegistry(testPolicy(t), zerolog.Nop())
}

func drone(id, x, y, battery int) DroneState {
	return DroneState{ID: id, X: x, Y: y, Battery: battery}
}

func monster(id int, x, y float64) VisibleCreature {
	return VisibleCreature{ID: id, Position: orb.Point{x, y}}
}

func scans(droneID int, creatures ...int) []ScanRecord {
	out := make([]ScanRecord, 0, len(creatures))
	for _, c := range creatures {
		out = append(out, ScanRecord{DroneID: droneID, CreatureID: c})
	}
	return out
}

// agentAt builds an agent for drone 0 sitting at (x, y) and the matching one-drone snapshot.
func agentAt(t *testing.T, x, y, battery int) (*Agent, *Snapshot) {
	t.Helper()
	state := drone(0, x, y, battery)
	a := NewAgent(testPolicy(t), 0, state)
	return a, &Snapshot{MyDrones: []DroneState{state}}
}
