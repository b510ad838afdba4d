package combat

import "math"

// Owner records who fired a round.
type Owner int

const (
	OwnerPlayer Owner = iota
	OwnerHostile
)

// Projectile is a live round, guided or not.
type Projectile struct {
	ID     uint64
	Weapon WeaponKey
	Owner  Owner

	Pos Vec3
	Vel Vec3 // magnitude fixed at Speed; direction steerable

	Speed        float64
	TurnRate     float64
	Lifetime     float64
	Damage       float64
	DirectDamage float64
	AOERadius    float64
	Falloff      Falloff
	HitRadius    float64
	Seeker       Seeker
	Age          float64

	// Steering state.
	Original      Handle
	Current       Handle
	Decoy         *Decoy
	PlayerSeeking bool

	// Trail is a bounded history of recent positions, newest last.
	Trail []Vec3
}

func newProjectile(id uint64, spec WeaponSpec, owner Owner, pos, dir Vec3) *Projectile {
	return &Projectile{
		ID:           id,
		Weapon:       spec.Key,
		Owner:        owner,
		Pos:          pos,
		Vel:          dir.Norm().Scale(spec.Speed),
		Speed:        spec.Speed,
		TurnRate:     spec.TurnRate,
		Lifetime:     spec.Lifetime,
		Damage:       spec.Damage,
		DirectDamage: spec.DirectDamage,
		AOERadius:    spec.AOERadius,
		Falloff:      spec.Falloff,
		HitRadius:    spec.HitRadius,
		Seeker:       spec.Seeker,
	}
}

// Dir is the unit direction of travel.
func (p *Projectile) Dir() Vec3 { return p.Vel.Norm() }

// Guided reports whether the round can change heading at all.
func (p *Projectile) Guided() bool { return p.TurnRate > 0 }

// guidance resolves a projectile's desired heading each frame. It reads the
// registry, the countermeasure list and the player but mutates only the
// projectile's own steering state.
type guidance struct {
	reg       *Registry
	cm        *Countermeasures
	player    *Player
	seekerCos float64 // cosine of the IR seeker half-angle
}

// desired returns the point the round should fly toward this frame, or false
// to hold the current heading.
func (g *guidance) desired(p *Projectile) (Vec3, bool) {
	if p.PlayerSeeking {
		if g.player == nil {
			return Vec3{}, false
		}
		return g.player.Pos, true
	}

	lostDecoy := false
	if p.Seeker == SeekerIR {
		switch {
		case p.Decoy != nil && p.Decoy.Gone():
			lostDecoy = true
		case p.Decoy == nil:
			if d := g.cm.Nearest(p.Pos, p.Dir(), g.seekerCos); d != nil {
				p.Decoy = d
				p.Current = NoHandle
			}
		}
	}

	if p.Decoy != nil && !lostDecoy {
		return p.Decoy.Pos, true
	}
	if lostDecoy {
		p.Decoy = nil
		if p.Original.Valid() {
			p.Current = p.Original
		}
	}

	if p.Current.Valid() {
		if t, ok := g.reg.Lookup(p.Current); ok {
			return t.AimPoint(), true
		}
	}
	return Vec3{}, false
}

// step steers and integrates one projectile.
func (g *guidance) step(p *Projectile, dt float64, trailLen int) {
	if p.Guided() {
		if target, ok := g.desired(p); ok {
			p.Vel = SteerToward(p.Dir(), target.Sub(p.Pos), p.TurnRate*dt).Scale(p.Speed)
		}
	}
	p.Pos = p.Pos.Add(p.Vel.Scale(dt))
	p.Age += dt

	if trailLen > 0 {
		if len(p.Trail) >= trailLen {
			copy(p.Trail, p.Trail[1:])
			p.Trail = p.Trail[:len(p.Trail)-1]
		}
		p.Trail = append(p.Trail, p.Pos)
	}
}

// SteerToward rotates the unit vector cur toward desired by at most maxTurn
// radians, interpolating along the great circle when the turn is limited.
func SteerToward(cur, desired Vec3, maxTurn float64) Vec3 {
	want := desired.Norm()
	if want.LenSq() == 0 {
		return cur
	}
	dot := clamp(cur.Dot(want), -1, 1)
	ang := math.Acos(dot)
	if ang <= maxTurn || ang < 1e-9 {
		return want
	}
	if maxTurn <= 0 {
		return cur
	}
	s := math.Sin(ang)
	if s < 1e-6 {
		// Target directly behind: any perpendicular turn axis will do.
		axis := BasisFromDir(cur).Up
		return cur.Scale(math.Cos(maxTurn)).Add(axis.Scale(math.Sin(maxTurn))).Norm()
	}
	t := maxTurn / ang
	a := math.Sin((1-t)*ang) / s
	b := math.Sin(t*ang) / s
	return cur.Scale(a).Add(want.Scale(b)).Norm()
}
