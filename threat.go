package agentlogic

import (
	"math"

	orb "github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Threat is a monster close enough to run from.
type Threat struct {
	Monster  VisibleCreature
	Distance float64
}

// SenseMonsters returns the visible monsters within the detection radius of pos,
// nearest first. The radius is inclusive.
func SenseMonsters(pos orb.Point, visible []VisibleCreature, cat *Catalog, p Params) []Threat {
	var threats []Threat
	for _, v := range visible {
		if !cat.IsMonster(v.ID) {
			continue
		}
		d := planar.Distance(pos, v.Position)
		if d > p.DetectionRadius {
			continue
		}
		threats = append(threats, Threat{Monster: v, Distance: d})
	}

	// insertion sort, a handful of monsters at most
	for i := 1; i < len(threats); i++ {
		for j := i; j > 0 && nearer(threats[j], threats[j-1]); j-- {
			threats[j], threats[j-1] = threats[j-1], threats[j]
		}
	}
	return threats
}

func nearer(a, b Threat) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	return a.Monster.ID < b.Monster.ID
}

// EscapePoint pushes away from the monster and keeps the result off the walls.
// The result has integer coordinates.
func EscapePoint(pos orb.Point, m VisibleCreature, p Params) orb.Point {
	away := orb.Point{m.Position[0] - pos[0], m.Position[1] - pos[1]}
	if p.VelocityAware {
		away[0] += m.Velocity[0]
		away[1] += m.Velocity[1]
	}

	target := orb.Point{pos[0] - p.EscapeScale*away[0], pos[1] - p.EscapeScale*away[1]}
	target = clampTo(p.SafeZone(), target)
	return orb.Point{math.Round(target[0]), math.Round(target[1])}
}

// reachedEscape reports whether pos is at the escape point, within tolerance.
// With zero tolerance only exact arrival counts, so a drone that overshoots keeps escaping.
func reachedEscape(pos, target orb.Point, tolerance float64) bool {
	if tolerance <= 0 {
		return pos.Equal(target)
	}
	return planar.Distance(pos, target) <= tolerance
}
