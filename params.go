package agentlogic

import (
	"fmt"

	orb "github.com/paulmach/orb"
)

// Params holds every tunable of the policy. Distances are in game units.
type Params struct {
	ArenaSize float64 `mapstructure:"arenaSize"`

	// Sweep
	EdgeMargin float64 `mapstructure:"edgeMargin"`
	SweepStep  float64 `mapstructure:"sweepStep"`
	Amplitude  float64 `mapstructure:"amplitude"`
	Period     float64 `mapstructure:"period"`
	Offset     float64 `mapstructure:"offset"`

	// Seek
	SeekStep float64 `mapstructure:"seekStep"`

	// Escape
	DetectionRadius float64 `mapstructure:"detectionRadius"`
	EscapeScale     float64 `mapstructure:"escapeScale"`
	SafeMin         float64 `mapstructure:"safeMin"`
	SafeMax         float64 `mapstructure:"safeMax"`
	EscapeTolerance float64 `mapstructure:"escapeTolerance"`
	VelocityAware   bool    `mapstructure:"velocityAware"`

	// Surface
	SurfaceY  int `mapstructure:"surfaceY"`
	SurfacedY int `mapstructure:"surfacedY"`

	// Light
	InitialDebounce   int `mapstructure:"initialDebounce"`
	DebounceThreshold int `mapstructure:"debounceThreshold"`
	DebouncePenalty   int `mapstructure:"debouncePenalty"`
	MinBattery        int `mapstructure:"minBattery"`
	LightDepth        int `mapstructure:"lightDepth"`
}

// DefaultParams are the values the bot plays with.
func DefaultParams() Params {
	return Params{
		ArenaSize:         10000,
		EdgeMargin:        600,
		SweepStep:         600,
		Amplitude:         3000,
		Period:            5000,
		Offset:            6500,
		SeekStep:          600,
		DetectionRadius:   2000,
		EscapeScale:       2,
		SafeMin:           500,
		SafeMax:           9500,
		EscapeTolerance:   0,
		SurfaceY:          450,
		SurfacedY:         500,
		InitialDebounce:   10,
		DebounceThreshold: 10,
		DebouncePenalty:   5,
		MinBattery:        5,
		LightDepth:        3000,
	}
}

// Validate catches settings that would make the planner emit nonsense.
func (p Params) Validate() error {
	if p.ArenaSize <= 0 {
		return fmt.Errorf("arenaSize must be positive, got %v", p.ArenaSize)
	}
	if p.Period <= 0 {
		return fmt.Errorf("period must be positive, got %v", p.Period)
	}
	if p.SafeMin > p.SafeMax {
		return fmt.Errorf("safeMin %v above safeMax %v", p.SafeMin, p.SafeMax)
	}
	if p.SafeMin < 0 || p.SafeMax > p.ArenaSize {
		return fmt.Errorf("safe zone [%v, %v] outside arena", p.SafeMin, p.SafeMax)
	}
	if p.DetectionRadius < 0 || p.EscapeTolerance < 0 {
		return fmt.Errorf("radii must not be negative")
	}
	return nil
}

// Arena is the extent commands are clamped to.
func (p Params) Arena() orb.Bound {
	return orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{p.ArenaSize - 1, p.ArenaSize - 1}}
}

// SafeZone is the interior escape targets are clamped to.
func (p Params) SafeZone() orb.Bound {
	return orb.Bound{Min: orb.Point{p.SafeMin, p.SafeMin}, Max: orb.Point{p.SafeMax, p.SafeMax}}
}

// clampTo pins p inside b.
func clampTo(b orb.Bound, p orb.Point) orb.Point {
	return orb.Point{clamp(p[0], b.Min[0], b.Max[0]), clamp(p[1], b.Min[1], b.Max[1])}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
