package agentlogic

import (
	"math"

	orb "github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// SweepDirection returns the horizontal direction after bouncing off the arena edges.
func SweepDirection(x float64, dir int, p Params) int {
	if x+p.EdgeMargin > p.ArenaSize {
		return -1
	}
	if x-p.EdgeMargin < 0 {
		return 1
	}
	return dir
}

// SweepStep is the next point of the zig-zag search pattern: one step along x,
// y following a sine of x mirrored by the direction.
func SweepStep(pos orb.Point, dir int, p Params) (orb.Point, int) {
	dir = SweepDirection(pos[0], dir, p)
	nextX := pos[0] + p.SweepStep*float64(dir)
	y := float64(dir)*p.Amplitude*math.Sin(2*math.Pi/p.Period*nextX) + p.Offset
	return orb.Point{nextX, y}, dir
}

// SweepPath generates the path a drone would follow from start if nothing interrupted
// the search pattern. Points are clamped to the arena.
func SweepPath(start orb.Point, dir int, steps int, p Params) orb.LineString {
	arena := p.Arena()
	path := orb.LineString{start}
	pos := start
	for i := 0; i < steps; i++ {
		pos, dir = SweepStep(pos, dir, p)
		pos = clampTo(arena, pos)
		path = append(path, pos)
	}
	return path
}

// SweepFeatures wraps the arena, safe zone and one path per start point in a
// feature collection, for viewing in any GeoJSON tool.
func SweepFeatures(starts []orb.Point, steps int, p Params) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	arena := geojson.NewFeature(p.Arena().ToPolygon())
	arena.Properties["name"] = "arena"
	fc.Append(arena)

	safe := geojson.NewFeature(p.SafeZone().ToPolygon())
	safe.Properties["name"] = "safe zone"
	fc.Append(safe)

	for i, s := range starts {
		dir := InitialDirection(i)
		f := geojson.NewFeature(SweepPath(s, dir, steps, p))
		f.Properties["index"] = i
		f.Properties["direction"] = dir
		fc.Append(f)
	}
	return fc
}

// InitialDirection alternates the first sweep direction so two drones fan out.
func InitialDirection(index int) int {
	if index%2 == 0 {
		return -1
	}
	return 1
}
