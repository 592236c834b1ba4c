package agentlogic

import "github.com/paulmach/orb/planar"

// ScanRecord says that a drone carries a scan of a creature.
type ScanRecord struct {
	DroneID    int
	CreatureID int
}

// Snapshot is everything the game tells us in one turn. Nothing mutates it once decoded.
type Snapshot struct {
	Turn      int
	MyScore   int
	FoeScore  int
	MySaved   []int
	FoeSaved  []int
	MyDrones  []DroneState
	FoeDrones []DroneState
	Scans     []ScanRecord
	Visible   []VisibleCreature
	Blips     []RadarBlip
}

// OwnsDrone reports whether id is one of our drones this turn.
func (s *Snapshot) OwnsDrone(id int) bool {
	for _, d := range s.MyDrones {
		if d.ID == id {
			return true
		}
	}
	return false
}

// BlipsFor returns the blips of one drone, minus those for creatures within radius of
// that drone. A creature lit up by a teammate keeps its blip.
func (s *Snapshot) BlipsFor(d DroneState, radius float64) []RadarBlip {
	pos := d.Point()
	near := make(map[int]struct{}, len(s.Visible))
	for _, v := range s.Visible {
		if planar.Distance(pos, v.Position) <= radius {
			near[v.ID] = struct{}{}
		}
	}

	var out []RadarBlip
	for _, b := range s.Blips {
		if b.DroneID != d.ID {
			continue
		}
		if _, seen := near[b.CreatureID]; seen {
			continue
		}
		out = append(out, b)
	}
	return out
}
