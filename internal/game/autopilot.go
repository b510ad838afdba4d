package game

import (
	"math"

	"github.com/Garsondee/Air-Sense/internal/combat"
)

// autopilot tuning
const (
	apSteerGain     = 2.0
	apMaxClimb      = 0.5 // rad
	apFloorAGL      = 180.0
	apAimTolerance  = 0.05 // rad, unguided release
	apThreatRange   = 1500.0
	apDefaultGunGap = 6 // frames between gun bursts
)

// Autopilot flies a scripted sortie: it picks a weapon for the nearest
// target, steers onto it, fires on lock (or on aim for unguided weapons) and
// drops decoys when a seeker closes in. Used by demo mode and batch runs.
type Autopilot struct {
	Throttle float64
	GunGap   int

	frames   int
	lastFire int
}

// NewAutopilot creates an autopilot at cruise throttle.
func NewAutopilot() *Autopilot {
	return &Autopilot{Throttle: 0.7, GunGap: apDefaultGunGap, lastFire: -1 << 30}
}

// Controls computes this frame's input for w.
func (a *Autopilot) Controls(w *combat.World) combat.Controls {
	a.frames++
	in := combat.Controls{Throttle: a.Throttle}
	p := w.Player
	if p == nil || p.Dead() {
		return in
	}

	key, target, ok := a.pickTarget(w)
	if ok && key != w.Loadout.Selected() {
		in.SelectKey = key
	}

	floor := 0.0
	if w.Terrain != nil {
		floor = w.Terrain.Height(p.Pos.X, p.Pos.Y)
	}
	agl := p.Pos.Z - floor

	wantPitch := 0.0
	if ok {
		to := target.Sub(p.Pos)
		in.Yaw = clampUnit(wrapAngle(math.Atan2(to.Y, to.X)-p.Heading) * apSteerGain)
		wantPitch = math.Atan2(to.Z, math.Hypot(to.X, to.Y))
		wantPitch = math.Max(-apMaxClimb, math.Min(apMaxClimb, wantPitch))
		in.Fire = a.shouldFire(w, key, to)
	}
	if agl < apFloorAGL {
		wantPitch = apMaxClimb
	}
	in.Pitch = clampUnit((wantPitch - p.Pitch) * apSteerGain)
	in.Roll = clampUnit(-p.Roll)

	if a.threatened(w) && w.CM.Ready() {
		in.DeployDecoy = true
	}
	if in.Fire {
		a.lastFire = a.frames
	}
	return in
}

// pickTarget chooses the aim point (the selected weapon's lock target when
// it has one, otherwise the nearest entity) and the best weapon for it.
func (a *Autopilot) pickTarget(w *combat.World) (combat.WeaponKey, combat.Vec3, bool) {
	cfg := w.Config()
	if l := w.Lock(); l.Target.Valid() {
		if t, ok := w.Registry.Lookup(l.Target); ok {
			return a.weaponFor(w, cfg, t.Handle().Category), t.AimPoint(), true
		}
	}

	var (
		best     combat.Vec3
		bestCat  combat.Category
		bestDist = math.MaxFloat64
		found    bool
	)
	w.Registry.Each(combat.AllCategories, func(t combat.Target) bool {
		d := combat.DistSq(t.AimPoint(), w.Player.Pos)
		if d < bestDist {
			best, bestCat, bestDist, found = t.AimPoint(), t.Handle().Category, d, true
		}
		return true
	})
	if !found {
		return "", combat.Vec3{}, false
	}
	return a.weaponFor(w, cfg, bestCat), best, true
}

// weaponFor prefers guided weapons with ammo, then rockets, then the gun.
func (a *Autopilot) weaponFor(w *combat.World, cfg combat.Config, cat combat.Category) combat.WeaponKey {
	prefs := []combat.WeaponKey{combat.WeaponIR, combat.WeaponRadar, combat.WeaponGun}
	if cat.Ground() {
		prefs = []combat.WeaponKey{combat.WeaponAGM, combat.WeaponRocket, combat.WeaponGun}
	}
	for _, k := range prefs {
		spec, ok := cfg.Weapons[k]
		if !ok || w.Loadout.Ammo(k) <= 0 || !hitsCategory(spec, cat) {
			continue
		}
		return k
	}
	return combat.WeaponGun
}

func (a *Autopilot) shouldFire(w *combat.World, key combat.WeaponKey, to combat.Vec3) bool {
	if key != w.Loadout.Selected() || w.Loadout.Ammo(key) <= 0 {
		return false
	}
	cfg := w.Config()
	spec, ok := cfg.Weapon(key)
	if !ok {
		return false
	}
	if spec.Guided() && spec.LockTime > 0 {
		return w.Lock().Status == combat.LockLocked
	}
	if spec.LockRange > 0 && to.Len() > spec.LockRange {
		return false
	}
	if key == combat.WeaponGun && a.frames-a.lastFire < a.GunGap {
		return false
	}
	cos := to.Norm().Dot(w.Player.Forward())
	return cos >= math.Cos(apAimTolerance)
}

// threatened reports a player-seeking round inside the threat radius.
func (a *Autopilot) threatened(w *combat.World) bool {
	for _, p := range w.Projectiles() {
		if p.PlayerSeeking && combat.DistSq(p.Pos, w.Player.Pos) < apThreatRange*apThreatRange {
			return true
		}
	}
	return false
}

func hitsCategory(spec combat.WeaponSpec, cat combat.Category) bool {
	if len(spec.Categories) == 0 {
		return true
	}
	for _, c := range spec.Categories {
		if c == cat {
			return true
		}
	}
	return false
}

func wrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
