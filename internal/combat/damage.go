package combat

import "math"

// FalloffDamage returns the damage dealt at dist from a detonation of base
// damage over radius using mode.
func FalloffDamage(base, radius, dist float64, mode Falloff) float64 {
	if radius <= 0 || base <= 0 || dist > radius {
		return 0
	}
	switch mode {
	case FalloffNone:
		return base
	case FalloffLinear:
		return base * math.Max(0, 1-dist/radius)
	case FalloffShallow:
		return base * math.Sqrt(math.Max(0, 1-dist/radius))
	default:
		return 0
	}
}

// EffectKind types a cosmetic event for the renderer.
type EffectKind int

const (
	EffectExplosion EffectKind = iota // detonation of a round
	EffectKill                        // an entity destroyed
	EffectImpact                      // small hit spark
	EffectLaunch                      // installation launch flash
)

func (k EffectKind) String() string {
	switch k {
	case EffectExplosion:
		return "explosion"
	case EffectKill:
		return "kill"
	case EffectImpact:
		return "impact"
	case EffectLaunch:
		return "launch"
	default:
		return "unknown"
	}
}

// Effect is a cosmetic event queued for the front end.
type Effect struct {
	Kind     EffectKind `json:"kind"`
	Pos      Vec3       `json:"pos"`
	Size     float64    `json:"size"`
	Category Category   `json:"category"`
	Frame    uint64     `json:"frame"`
}

// Detonation is the outcome of one round's detonation.
type Detonation struct {
	Pos       Vec3
	Weapon    WeaponKey
	Owner     Owner
	Damaged   []Handle // entities given nonzero damage, once each
	PlayerHit float64  // damage taken by the player
}

// detonate applies a round's direct and area damage. struck is the entity
// that tripped a body or proximity fuse, if any; hitPlayer marks a hostile
// round that struck the player.
func (w *World) detonate(p *Projectile, struck Target, hitPlayer bool) Detonation {
	det := Detonation{Pos: p.Pos, Weapon: p.Weapon, Owner: p.Owner}
	damaged := make(map[Handle]bool)

	if struck != nil && p.DirectDamage > 0 {
		struck.Damage(p.DirectDamage)
		damaged[struck.Handle()] = true
		det.Damaged = append(det.Damaged, struck.Handle())
	}
	if hitPlayer && p.DirectDamage > 0 {
		det.PlayerHit += w.damagePlayer(p.DirectDamage)
	}

	if p.AOERadius > 0 && p.Damage > 0 {
		for _, v := range w.Registry.Vehicles() {
			if v.Dead() {
				continue
			}
			dmg := FalloffDamage(p.Damage, p.AOERadius, math.Sqrt(DistSq(v.Pos, p.Pos)), p.Falloff)
			if dmg <= 0 {
				continue
			}
			v.Damage(dmg)
			if !damaged[v.Handle()] {
				damaged[v.Handle()] = true
				det.Damaged = append(det.Damaged, v.Handle())
			}
		}

		if w.Player != nil && !w.Player.Invulnerable {
			d := math.Sqrt(DistSq(w.Player.Pos, p.Pos))
			if dmg := FalloffDamage(p.Damage, p.AOERadius, d, p.Falloff); dmg > 0 {
				det.PlayerHit += w.damagePlayer(dmg)
			}
		}

		w.Registry.Each(GroundCategories, func(t Target) bool {
			dmg := FalloffDamage(p.Damage, p.AOERadius, Dist2D(t.Position(), p.Pos), p.Falloff)
			if dmg <= 0 {
				return true
			}
			t.Damage(dmg)
			if !damaged[t.Handle()] {
				damaged[t.Handle()] = true
				det.Damaged = append(det.Damaged, t.Handle())
			}
			return true
		})

		if p.Owner == OwnerPlayer {
			for _, tw := range w.Towers {
				if towerDistance(tw, p.Pos) <= p.AOERadius {
					w.markTowerHit(tw)
				}
			}
		}
	}

	if p.Owner == OwnerPlayer && len(det.Damaged) > 0 {
		w.hits += len(det.Damaged)
		w.metrics.hit(len(det.Damaged))
	}

	size := p.AOERadius
	if size <= 0 {
		size = p.HitRadius * 2
	}
	w.emit(Effect{Kind: EffectExplosion, Pos: p.Pos, Size: size})
	return det
}

// damagePlayer applies damage to the player and returns the amount taken.
func (w *World) damagePlayer(amount float64) float64 {
	if w.Player == nil || w.Player.Invulnerable || amount <= 0 || w.Player.Dead() {
		return 0
	}
	w.Player.Damage(amount)
	w.events.Add(w.frame, "player", "damage", "", amount)
	if w.Player.Dead() {
		w.log.Warn().Msg("player destroyed")
		w.events.Add(w.frame, "player", "destroyed", "", 0)
		w.emit(Effect{Kind: EffectKill, Pos: w.Player.Pos, Size: 3})
	}
	return amount
}

// towerDistance is the distance from p to the nearest point of the tower body.
func towerDistance(t *Tower, p Vec3) float64 {
	horiz := math.Max(0, Dist2D(p, t.Pos)-t.Radius)
	var vert float64
	switch {
	case p.Z < t.Pos.Z:
		vert = t.Pos.Z - p.Z
	case p.Z > t.Pos.Z+t.Height:
		vert = p.Z - (t.Pos.Z + t.Height)
	}
	return math.Hypot(horiz, vert)
}
