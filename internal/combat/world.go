package combat

import (
	"math"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/Garsondee/Air-Sense/internal/logging"
)

// player flight tuning
const (
	playerMaxPitch      = 80 * math.Pi / 180
	playerCrashLift     = 5.0 // metres above terrain when an invulnerable player touches down
	playerRollToYaw     = 0.6 // yaw rate gained per radian of bank, rad/s
	playerRollReturn    = 1.5 // 1/s, wings-level tendency with no roll input
	playerStartAltitude = 600.0
)

// tower tuning
const (
	towerMountGap    = 1.0 // metres between a battery and its tower wall
	towerLoiterDecay = 0.5 // loiter seconds lost per second spent out of range
)

// Controls is one frame of input from the control layer. Commands are
// edge-triggered: set them for exactly one frame.
type Controls struct {
	Pitch    float64 // -1..1, nose up positive
	Roll     float64 // -1..1, right positive
	Yaw      float64 // -1..1, left positive
	Throttle float64 // 0..1

	Fire        bool
	CycleTarget int       // +1 next, -1 previous, 0 none
	SelectSlot  int       // slot index + 1; 0 leaves the selection alone
	SelectKey   WeaponKey // alternative to SelectSlot
	DeployDecoy bool
}

// World is the simulation context: it owns every entity list, the loadout,
// the lock records and the score, and steps them once per frame.
type World struct {
	cfg Config

	Terrain  Terrain
	Registry *Registry
	Player   *Player
	Towers   []*Tower
	CM       *Countermeasures
	Loadout  *Loadout

	sel         *Selector
	projectiles []*Projectile
	flak        []*Flak
	locks       map[WeaponKey]*LockState
	effects     []Effect

	hits       int
	kills      int
	frame      uint64
	clock      float64
	nextRound  uint64
	spawnTimer float64

	rng     *rand.Rand
	log     zerolog.Logger
	events  *CombatLog
	metrics *metrics
}

// Option customises a World at construction.
type Option func(*World)

// WithLogger routes operator messages to l.
func WithLogger(l zerolog.Logger) Option {
	return func(w *World) { w.log = l }
}

// WithCombatLog records structured events into cl.
func WithCombatLog(cl *CombatLog) Option {
	return func(w *World) { w.events = cl }
}

// WithRand seeds the airborne spawner. Without it no vehicles are spawned
// automatically.
func WithRand(r *rand.Rand) Option {
	return func(w *World) { w.rng = r }
}

// NewWorld builds a world over terrain with the player at the origin.
func NewWorld(cfg Config, terrain Terrain, opts ...Option) *World {
	if cfg.MaxFrameDt <= 0 {
		cfg.MaxFrameDt = defaultMaxFrameDt
	}
	w := &World{
		cfg:      cfg,
		Terrain:  terrain,
		Registry: NewRegistry(),
		CM:       NewCountermeasures(cfg.DecoyStock, cfg.DecoyLifetime, cfg.DecoyCooldown),
		Loadout:  NewLoadout(cfg.WeaponOrder, cfg.Weapons),
		locks:    make(map[WeaponKey]*LockState),
		log:      zerolog.Nop(),
	}
	for _, o := range opts {
		o(w)
	}
	w.log = w.log.Hook(logging.FrameHook(w.Frame))
	w.sel = &Selector{Registry: w.Registry, Terrain: terrain, EyeHeight: cfg.EyeHeight, Clearance: cfg.LOSClearance}

	ground := 0.0
	if terrain != nil {
		ground = terrain.Height(0, 0)
	}
	w.Player = &Player{
		hull:         hull{HP: cfg.PlayerMaxHP, MaxHP: cfg.PlayerMaxHP},
		Pos:          Vec3{Z: ground + playerStartAltitude},
		Speed:        cfg.PlayerMinSpeed,
		Throttle:     0,
		Radius:       cfg.PlayerRadius,
		Invulnerable: cfg.PlayerInvulnerable,
	}
	w.metrics = newMetrics(w)
	return w
}

// Config returns the world's tuning.
func (w *World) Config() Config { return w.cfg }

// Selector returns the world's candidate selector.
func (w *World) Selector() *Selector { return w.sel }

// Frame returns the number of frames stepped.
func (w *World) Frame() uint64 { return w.frame }

// Clock returns simulated seconds elapsed.
func (w *World) Clock() float64 { return w.clock }

// Hits returns the running hit counter.
func (w *World) Hits() int { return w.hits }

// Kills returns entities destroyed by any cause.
func (w *World) Kills() int { return w.kills }

// Projectiles returns the live round list. Do not retain across frames.
func (w *World) Projectiles() []*Projectile { return w.projectiles }

// Flak returns the live ballistic round list.
func (w *World) Flak() []*Flak { return w.flak }

// Events returns the structured combat log, which may be nil.
func (w *World) Events() *CombatLog { return w.events }

// AddTower places a tower obstacle on the ground at (x, y).
func (w *World) AddTower(x, y float64, hostile bool) *Tower {
	z := 0.0
	if w.Terrain != nil {
		z = w.Terrain.Height(x, y)
	}
	t := &Tower{
		Pos:     Vec3{X: x, Y: y, Z: z},
		Radius:  w.cfg.TowerRadius,
		Height:  w.cfg.TowerHeight,
		Hostile: hostile,
		lastHit: math.Inf(-1),
	}
	w.Towers = append(w.Towers, t)
	return t
}

// AddTowerAA mounts a gun battery on host's shaft at bearing (radians from
// +x), just outside the column wall.
func (w *World) AddTowerAA(host *Tower, bearing float64) Handle {
	r := host.Radius + towerMountGap
	base := host.Pos.Add(Vec3{X: r * math.Cos(bearing), Y: r * math.Sin(bearing)})
	h := w.Registry.AddInstallation(CategoryTowerAA, base, w.cfg.Installations[CategoryTowerAA])
	if g := w.Registry.towerAA; len(g) > 0 && g[len(g)-1].id == h.ID {
		g[len(g)-1].Host = host
	}
	return h
}

// AddInstallation places a ground installation of cat on the terrain at (x, y).
func (w *World) AddInstallation(cat Category, x, y float64) Handle {
	z := 0.0
	if w.Terrain != nil {
		z = w.Terrain.Height(x, y)
	}
	return w.Registry.AddInstallation(cat, Vec3{X: x, Y: y, Z: z}, w.cfg.Installations[cat])
}

// AddVehicle registers an airborne vehicle.
func (w *World) AddVehicle(v *Vehicle) Handle { return w.Registry.AddVehicle(v) }

// Lock returns the lock record of the selected weapon.
func (w *World) Lock() LockState { return *w.lockFor(w.Loadout.Selected()) }

func (w *World) lockFor(key WeaponKey) *LockState {
	l, ok := w.locks[key]
	if !ok {
		l = &LockState{Weapon: key}
		w.locks[key] = l
	}
	return l
}

// SelectWeapon switches the active slot (0-based).
func (w *World) SelectWeapon(slot int) error {
	if err := w.Loadout.Select(slot); err != nil {
		return err
	}
	w.events.Add(w.frame, "weapon", "select", string(w.Loadout.Selected()), float64(slot))
	return nil
}

// CycleTarget steps the selected weapon's lock to the next or previous candidate.
func (w *World) CycleTarget(dir int) error {
	key := w.Loadout.Selected()
	spec, ok := w.cfg.Weapon(key)
	if !ok {
		return ErrUnknownWeapon
	}
	l := w.lockFor(key)
	err := l.Cycle(w.sel, w.Player.Pose(), spec, deg(w.cfg.CycleMarginDeg), dir)
	w.events.Add(w.frame, "lock", "cycle", l.Status.String()+" "+l.Target.String(), float64(dir))
	return err
}

// DeployDecoy releases a countermeasure.
func (w *World) DeployDecoy() error {
	if w.Player == nil || w.Player.Dead() {
		return ErrPlayerDown
	}
	d, err := w.CM.Deploy(w.Player)
	if err != nil {
		return err
	}
	w.events.Add(w.frame, "decoy", "deploy", d.Pos.String(), float64(w.CM.Stock))
	return nil
}

// Step advances the simulation by one frame. dt is clamped to the
// configured maximum so a slow frame cannot tunnel rounds through targets.
func (w *World) Step(dt float64, in Controls) {
	if dt <= 0 {
		return
	}
	if dt > w.cfg.MaxFrameDt {
		dt = w.cfg.MaxFrameDt
	}
	w.frame++
	w.clock += dt
	w.metrics.frame()

	// 1. Player control, airborne movement, player collision.
	w.integratePlayer(dt, in)
	w.moveVehicles(dt)
	w.ramVehicles(dt)

	// 2. Weapons: commands, lock, decoys, guided rounds.
	w.applyCommands(in)
	w.updateLock(dt)
	w.CM.Update(dt)
	w.updateProjectiles(dt)

	// 3. Ground defenses and their ballistic rounds.
	w.runDefenses(dt)
	w.updateFlak(dt)

	// 4. Prune destroyed entities.
	w.Registry.Prune(w.cfg.Bounds, w.onRemoved)

	// 5. Bookkeeping.
	w.updateTowers(dt)
	w.spawnVehicles(dt)
	w.metrics.setLive(len(w.projectiles))
}

func (w *World) applyCommands(in Controls) {
	if in.SelectKey != "" {
		if err := w.Loadout.SelectKey(in.SelectKey); err == nil {
			w.events.Add(w.frame, "weapon", "select", string(in.SelectKey), float64(w.Loadout.SelectedSlot()))
		}
	} else if in.SelectSlot > 0 {
		_ = w.SelectWeapon(in.SelectSlot - 1)
	}
	if in.CycleTarget != 0 {
		_ = w.CycleTarget(in.CycleTarget)
	}
	if in.DeployDecoy {
		_ = w.DeployDecoy()
	}
	if in.Fire {
		_, _ = w.Fire()
	}
}

// updateLock runs the automatic lock evaluation for the selected weapon.
func (w *World) updateLock(dt float64) {
	if w.Player == nil || w.Player.Dead() {
		return
	}
	key := w.Loadout.Selected()
	spec, ok := w.cfg.Weapon(key)
	if !ok {
		return
	}
	l := w.lockFor(key)
	prev, prevTarget := l.Status, l.Target
	l.Update(w.sel, w.Player.Pose(), spec, deg(w.cfg.StickyMarginDeg), dt)
	if l.Status != prev || l.Target != prevTarget {
		w.log.Debug().Str("weapon", string(key)).Str("state", l.Status.String()).
			Str("target", l.Target.String()).Msg("lock")
		w.events.Add(w.frame, "lock", "state", prev.String()+" -> "+l.Status.String()+" "+l.Target.String(), l.Timer)
	}
}

// updateProjectiles guides, integrates and fuses every round, then replaces
// the live list with the survivors.
func (w *World) updateProjectiles(dt float64) {
	g := guidance{
		reg:       w.Registry,
		cm:        w.CM,
		player:    w.Player,
		seekerCos: cosDeg(w.cfg.SeekerHalfAngDeg),
	}
	kept := make([]*Projectile, 0, len(w.projectiles))
	for _, p := range w.projectiles {
		g.step(p, dt, w.cfg.TrailLength)
		hit := w.checkCollision(p)
		if hit.Kind == HitNone {
			kept = append(kept, p)
			continue
		}
		if hit.Kind == HitDecoy {
			w.CM.Consume(hit.Decoy)
		}
		det := w.detonate(p, hit.Struck, hit.HitPlayer)
		w.events.Add(w.frame, "hit", hit.Kind.String(), string(p.Weapon)+" "+det.Pos.String(), float64(len(det.Damaged)))
	}
	w.projectiles = kept
}

// onRemoved handles the side effects of pruning one entity.
func (w *World) onRemoved(t Target, killed bool) {
	if !killed {
		w.events.Add(w.frame, "spawn", "exit", t.Handle().String(), 0)
		return
	}
	w.kills++
	c := t.Handle().Category
	w.metrics.kill(c)
	size := 2.0
	if c == CategoryAir {
		if v, ok := t.(*Vehicle); ok {
			size = v.Radius / 4
		}
	} else if spec, ok := w.cfg.Installations[c]; ok && spec.ExplosionFx > 0 {
		size = spec.ExplosionFx
	}
	w.emit(Effect{Kind: EffectKill, Pos: t.AimPoint(), Size: size, Category: c})
	w.log.Info().Str("target", t.Handle().String()).Msg("destroyed")
	w.events.Add(w.frame, "kill", c.String(), t.Handle().String(), 0)
}

func (w *World) emit(e Effect) {
	e.Frame = w.frame
	w.effects = append(w.effects, e)
}

// DrainEffects returns and clears the queued cosmetic events.
func (w *World) DrainEffects() []Effect {
	out := w.effects
	w.effects = nil
	return out
}

// integratePlayer applies stick input, keeps the player inside the bounds,
// and resolves terrain and tower contact.
func (w *World) integratePlayer(dt float64, in Controls) {
	p := w.Player
	if p == nil || p.Dead() {
		return
	}
	cfg := w.cfg

	p.Throttle = clamp01(in.Throttle)
	p.Speed = cfg.PlayerMinSpeed + p.Throttle*(cfg.PlayerMaxSpeed-cfg.PlayerMinSpeed)

	roll := clamp(in.Roll, -1, 1)
	if roll != 0 {
		p.Roll = clamp(p.Roll+roll*cfg.PlayerRollRate*dt, -math.Pi/2, math.Pi/2)
	} else {
		p.Roll -= p.Roll * math.Min(1, playerRollReturn*dt)
	}
	p.Pitch = clamp(p.Pitch+clamp(in.Pitch, -1, 1)*cfg.PlayerPitchRate*dt, -playerMaxPitch, playerMaxPitch)
	// Bank turns right (clockwise seen from above); yaw input is left-positive.
	p.Heading = normalizeAngle(p.Heading + clamp(in.Yaw, -1, 1)*cfg.PlayerYawRate*dt - p.Roll*playerRollToYaw*dt)

	p.Pos = p.Pos.Add(p.Velocity().Scale(dt))
	if b := cfg.Bounds; b > 0 {
		p.Pos.X = clamp(p.Pos.X, -b, b)
		p.Pos.Y = clamp(p.Pos.Y, -b, b)
	}

	for _, t := range w.Towers {
		if !t.Contains(p.Pos) {
			continue
		}
		// push out radially to the column wall
		d := Vec3{X: p.Pos.X - t.Pos.X, Y: p.Pos.Y - t.Pos.Y}
		if d.LenSq() < 1e-9 {
			d = Vec3{X: 1}
		}
		edge := d.Norm().Scale(t.Radius + p.Radius)
		p.Pos.X, p.Pos.Y = t.Pos.X+edge.X, t.Pos.Y+edge.Y
		w.events.Add(w.frame, "player", "obstacle", t.Pos.String(), 0)
		w.damagePlayer(cfg.TowerContactDamage)
	}
	if p.Dead() {
		return
	}

	if w.Terrain == nil {
		return
	}
	ground := w.Terrain.Height(p.Pos.X, p.Pos.Y)
	if p.Pos.Z > ground+cfg.TerrainMargin {
		return
	}
	if p.Invulnerable {
		p.Pos.Z = ground + playerCrashLift
		if p.Pitch < 0 {
			p.Pitch = 0
		}
		return
	}
	w.log.Warn().Msg("player hit terrain")
	w.events.Add(w.frame, "player", "crash", p.Pos.String(), 0)
	p.HP = 0
	w.emit(Effect{Kind: EffectKill, Pos: p.Pos, Size: 3})
}

// ramVehicles grinds the player and every vehicle it overlaps, both taking
// the ram rate for this frame.
func (w *World) ramVehicles(dt float64) {
	p := w.Player
	if p == nil || p.Dead() || w.cfg.RamDamageRate <= 0 {
		return
	}
	dmg := w.cfg.RamDamageRate * dt
	for _, v := range w.Registry.Vehicles() {
		if v.Dead() {
			continue
		}
		r := p.Radius + v.Radius
		if DistSq(p.Pos, v.Pos) > r*r {
			continue
		}
		v.Damage(dmg)
		w.damagePlayer(dmg)
		w.emit(Effect{Kind: EffectImpact, Pos: v.Pos, Size: 1})
		if p.Dead() {
			return
		}
	}
}

// markTowerHit records a player blast on t, turning it hostile and
// restarting its loiter count.
func (w *World) markTowerHit(t *Tower) {
	t.lastHit = w.clock
	t.loiter = 0
	if t.Hostile {
		return
	}
	t.Hostile = true
	w.log.Info().Float64("x", t.Pos.X).Float64("y", t.Pos.Y).Msg("tower turned hostile")
	w.events.Add(w.frame, "tower", "hostile", t.Pos.String(), 0)
}

// updateTowers accrues loiter time for towers near the player and reverts
// hostile ones that have gone long enough without a hit.
func (w *World) updateTowers(dt float64) {
	p := w.Player
	if p == nil || p.Dead() {
		return
	}
	for _, t := range w.Towers {
		if Dist2D(p.Pos, t.Pos) > w.cfg.TowerLoiterRange {
			t.loiter = math.Max(0, t.loiter-dt*towerLoiterDecay)
			continue
		}
		t.loiter += dt
		if t.Hostile && t.loiter >= w.cfg.TowerRevertTime && w.clock-t.lastHit > w.cfg.TowerRevertTime {
			t.Hostile = false
			w.log.Info().Float64("x", t.Pos.X).Float64("y", t.Pos.Y).Msg("tower reverted to friendly")
			w.events.Add(w.frame, "tower", "friendly", t.Pos.String(), t.loiter)
		}
	}
}
