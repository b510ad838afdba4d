package combat

import "math"

// airborne spawn and movement tuning
const (
	spawnMinAGL     = 300.0 // metres above ground
	spawnMaxAGL     = 900.0
	minAGL          = 60.0 // vehicles climb when lower than this
	climbRate       = 25.0 // m/s
	orbitMinRadius  = 800.0
	orbitMaxRadius  = 2200.0
	weaveAmplitude  = 0.5 // radians
	weaveFrequency  = 0.8 // rad/s
	spawnEdgeMargin = 0.85
)

// NewVehicle builds an airborne vehicle of type t at pos, sized from spec.
func NewVehicle(t VehicleType, pattern MovementPattern, pos Vec3, heading float64, spec VehicleSpec, baseRadius float64) *Vehicle {
	return &Vehicle{
		hull:    hull{HP: spec.MaxHP, MaxHP: spec.MaxHP},
		Type:    t,
		Pattern: pattern,
		Pos:     pos,
		Heading: heading,
		Speed:   spec.Speed,
		Radius:  baseRadius * spec.RadiusScale,
		Center:  pos,
		base:    heading,
	}
}

// NewOrbiter builds a vehicle circling centre at radius, starting at angle phase.
func NewOrbiter(t VehicleType, center Vec3, radius, phase float64, spec VehicleSpec, baseRadius float64) *Vehicle {
	pos := center.Add(Vec3{X: radius * math.Cos(phase), Y: radius * math.Sin(phase)})
	v := NewVehicle(t, PatternOrbit, pos, phase+math.Pi/2, spec, baseRadius)
	v.Center = center
	v.orbitR = radius
	v.phase = phase
	return v
}

// move advances a vehicle along its pattern.
func (v *Vehicle) move(dt float64, terrain Terrain) {
	v.age += dt
	switch v.Pattern {
	case PatternOrbit:
		if v.orbitR > 0 {
			v.phase += v.Speed / v.orbitR * dt
			v.Pos.X = v.Center.X + v.orbitR*math.Cos(v.phase)
			v.Pos.Y = v.Center.Y + v.orbitR*math.Sin(v.phase)
			v.Heading = normalizeAngle(v.phase + math.Pi/2)
			v.Roll = math.Atan(v.Speed * v.Speed / (v.orbitR * 9.8))
		}
	case PatternPatrol:
		v.Pos = v.Pos.Add(Forward(v.Heading, 0).Scale(v.Speed * dt))
	case PatternWeave:
		v.Heading = normalizeAngle(v.base + weaveAmplitude*math.Sin(v.age*weaveFrequency))
		v.Roll = -weaveAmplitude * math.Cos(v.age*weaveFrequency)
		v.Pos = v.Pos.Add(Forward(v.Heading, 0).Scale(v.Speed * dt))
	case PatternHover:
	}

	if terrain != nil {
		floor := terrain.Height(v.Pos.X, v.Pos.Y) + minAGL
		if v.Pos.Z < floor {
			v.Pos.Z = math.Min(floor, v.Pos.Z+climbRate*dt+(floor-v.Pos.Z)*0.5)
			v.Pitch = 0.2
		} else {
			v.Pitch = 0
		}
	}
}

// moveVehicles steps every live vehicle; one that flies into a tower column
// is destroyed.
func (w *World) moveVehicles(dt float64) {
	for _, v := range w.Registry.Vehicles() {
		if v.Dead() {
			continue
		}
		v.move(dt, w.Terrain)
		for _, t := range w.Towers {
			if t.Contains(v.Pos) {
				v.HP = 0
				w.log.Debug().Str("vehicle", v.Handle().String()).Msg("flew into tower")
				w.events.Add(w.frame, "air", "tower_crash", v.Handle().String(), 0)
				break
			}
		}
	}
}

// spawnVehicles tops the airborne population up to the cap, one per interval.
func (w *World) spawnVehicles(dt float64) {
	if w.cfg.MaxVehicles <= 0 || w.cfg.SpawnInterval <= 0 || w.rng == nil {
		return
	}
	w.spawnTimer -= dt
	if w.spawnTimer > 0 {
		return
	}
	w.spawnTimer = w.cfg.SpawnInterval
	if w.Registry.Count(CategoryAir) >= w.cfg.MaxVehicles {
		return
	}

	rng := w.rng
	t := VehicleType(rng.Intn(3))
	spec := w.cfg.Vehicles[t]
	span := w.cfg.Bounds * spawnEdgeMargin
	x := (rng.Float64()*2 - 1) * span
	y := (rng.Float64()*2 - 1) * span
	agl := spawnMinAGL + rng.Float64()*(spawnMaxAGL-spawnMinAGL)
	ground := 0.0
	if w.Terrain != nil {
		ground = w.Terrain.Height(x, y)
	}
	pos := Vec3{X: x, Y: y, Z: ground + agl}

	var v *Vehicle
	switch pattern := MovementPattern(rng.Intn(3)); pattern {
	case PatternOrbit:
		r := orbitMinRadius + rng.Float64()*(orbitMaxRadius-orbitMinRadius)
		v = NewOrbiter(t, pos, r, rng.Float64()*2*math.Pi, spec, w.cfg.BaseRadius)
	default:
		// head roughly toward the middle so the contact crosses the area
		heading := math.Atan2(-y, -x) + (rng.Float64()-0.5)*0.8
		v = NewVehicle(t, pattern, pos, heading, spec, w.cfg.BaseRadius)
	}
	h := w.Registry.AddVehicle(v)
	w.log.Debug().Str("vehicle", h.String()).Str("type", t.String()).Msg("spawn")
	w.events.Add(w.frame, "spawn", t.String(), h.String(), 0)
}
