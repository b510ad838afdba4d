package combat

import (
	"math/rand"

	"github.com/rs/zerolog"
)

// TestSim is a headless harness used by tests and the batch reporter. It
// builds a World from options in a fixed order and steps it at 60 Hz.
type TestSim struct {
	World    *World
	Events   *CombatLog
	Vehicles []Handle
	Ground   []Handle

	cfg     Config
	terrain Terrain
	rng     *rand.Rand
	logger  zerolog.Logger
	spawn   bool
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra  simOptionKind = iota // config, terrain, seed; applied before the World exists
	simOptEntity                      // player pose, vehicles, installations, towers
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithConfig replaces the stock tuning.
func WithConfig(cfg Config) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.cfg = cfg }}
}

// WithTuning edits the tuning in place.
func WithTuning(fn func(*Config)) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { fn(&ts.cfg) }}
}

// WithTerrain sets the terrain oracle. The default is flat ground at zero.
func WithTerrain(t Terrain) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.terrain = t }}
}

// WithSeed sets the RNG seed and enables the airborne spawner.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- test harness
		ts.spawn = true
	}}
}

// WithSimLogger routes the world's operator log.
func WithSimLogger(l zerolog.Logger) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.logger = l }}
}

// WithPlayer places the player at pos facing heading, level.
func WithPlayer(pos Vec3, heading float64) SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) {
		p := ts.World.Player
		p.Pos = pos
		p.Heading = heading
		p.Pitch = 0
		p.Roll = 0
	}}
}

// WithInvulnerable sets the player's invulnerable flag.
func WithInvulnerable(v bool) SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) { ts.World.Player.Invulnerable = v }}
}

// WithVehicle adds a hovering fighter at pos.
func WithVehicle(pos Vec3) SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) {
		v := NewVehicle(VehicleFighter, PatternHover, pos, 0, ts.cfg.Vehicles[VehicleFighter], ts.cfg.BaseRadius)
		ts.Vehicles = append(ts.Vehicles, ts.World.AddVehicle(v))
	}}
}

// WithMovingVehicle adds a vehicle of type t flying pattern from pos.
func WithMovingVehicle(t VehicleType, pattern MovementPattern, pos Vec3, heading float64) SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) {
		v := NewVehicle(t, pattern, pos, heading, ts.cfg.Vehicles[t], ts.cfg.BaseRadius)
		ts.Vehicles = append(ts.Vehicles, ts.World.AddVehicle(v))
	}}
}

// WithInstallation places a ground installation of cat at (x, y).
func WithInstallation(cat Category, x, y float64) SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) {
		ts.Ground = append(ts.Ground, ts.World.AddInstallation(cat, x, y))
	}}
}

// WithTower places a tower at (x, y).
func WithTower(x, y float64, hostile bool) SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) { ts.World.AddTower(x, y, hostile) }}
}

// WithTowerAA mounts a battery on the tower added by the index-th WithTower
// option, at bearing radians. The tower option must come first.
func WithTowerAA(index int, bearing float64) SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) {
		ts.Ground = append(ts.Ground, ts.World.AddTowerAA(ts.World.Towers[index], bearing))
	}}
}

// NewTestSim constructs a TestSim from options in two ordered passes:
//  1. Infrastructure (config, terrain, seed)
//  2. Entities
func NewTestSim(opts ...SimOption) *TestSim {
	ts := &TestSim{
		cfg:     DefaultConfig(),
		terrain: FlatTerrain{},
		Events:  NewCombatLog(),
		logger:  zerolog.Nop(),
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}
	wopts := []Option{WithLogger(ts.logger), WithCombatLog(ts.Events)}
	if ts.spawn {
		wopts = append(wopts, WithRand(ts.rng))
	}
	ts.World = NewWorld(ts.cfg, ts.terrain, wopts...)
	for _, o := range opts {
		if o.kind == simOptEntity {
			o.fn(ts)
		}
	}
	return ts
}

// Dt is the harness frame length.
const Dt = 1.0 / 60.0

// Steady holds the stick centred at the given throttle.
func Steady(throttle float64) Controls { return Controls{Throttle: throttle} }

// RunFrames steps n frames with the same controls.
func (ts *TestSim) RunFrames(n int, in Controls) {
	for i := 0; i < n; i++ {
		ts.World.Step(Dt, in)
	}
}

// RunUntil steps up to maxFrames with in, stopping early when predicate
// holds. It returns the frame at which it held, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, in Controls, maxFrames int) int {
	for i := 0; i < maxFrames; i++ {
		ts.World.Step(Dt, in)
		if predicate(ts) {
			return i + 1
		}
	}
	return -1
}

// RunUntilFunc is RunUntil with per-frame controls computed by pilot.
func (ts *TestSim) RunUntilFunc(pilot func(*World) Controls, predicate func(*TestSim) bool, maxFrames int) int {
	for i := 0; i < maxFrames; i++ {
		ts.World.Step(Dt, pilot(ts.World))
		if predicate(ts) {
			return i + 1
		}
	}
	return -1
}

// Press steps one frame with a command set and then returns.
func (ts *TestSim) Press(in Controls) { ts.World.Step(Dt, in) }

// Lookup resolves a handle, reporting whether the entity still exists.
func (ts *TestSim) Lookup(h Handle) (Target, bool) { return ts.World.Registry.Lookup(h) }

// WithOrbiter adds a vehicle of type t circling centre at radius.
func WithOrbiter(t VehicleType, center Vec3, radius, phase float64) SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) {
		v := NewOrbiter(t, center, radius, phase, ts.cfg.Vehicles[t], ts.cfg.BaseRadius)
		ts.Vehicles = append(ts.Vehicles, ts.World.AddVehicle(v))
	}}
}
