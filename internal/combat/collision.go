package combat

import "math"

// HitKind says which fuse condition retired a round.
type HitKind int

const (
	HitNone      HitKind = iota
	HitBody              // direct body contact with an airborne vehicle or the player
	HitProximity         // proximity fuse on an airborne vehicle or the player
	HitGround            // proximity to a ground installation
	HitDecoy             // IR round flew into a decoy
	HitTerrain           // ground impact
	HitObstacle          // flew into a tower column
	HitExpired           // lifetime exhausted
)

func (k HitKind) String() string {
	switch k {
	case HitNone:
		return "none"
	case HitBody:
		return "body"
	case HitProximity:
		return "proximity"
	case HitGround:
		return "ground"
	case HitDecoy:
		return "decoy"
	case HitTerrain:
		return "terrain"
	case HitObstacle:
		return "obstacle"
	case HitExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Hit describes the first fuse condition a round satisfied this frame.
type Hit struct {
	Kind      HitKind
	Struck    Target // vehicle or installation that tripped the fuse
	HitPlayer bool
	Decoy     *Decoy
}

// proxFuse returns the proximity fuse radius against a body of radius r.
func (w *World) proxFuse(r float64) float64 {
	return math.Max(w.cfg.MinProxFuse, w.cfg.ProxFuseScale*r)
}

// checkCollision evaluates fuse conditions in fixed order and returns the
// first that holds. Rounds fired by installations only look for the player.
func (w *World) checkCollision(p *Projectile) Hit {
	body := p.HitRadius + 1
	bodySq := body * body

	if p.PlayerSeeking || p.Owner == OwnerHostile {
		if pl := w.Player; pl != nil && !pl.Dead() {
			d2 := DistSq(p.Pos, pl.Pos)
			if d2 <= bodySq {
				return Hit{Kind: HitBody, HitPlayer: true}
			}
			f := w.proxFuse(pl.Radius)
			if d2 <= f*f {
				return Hit{Kind: HitProximity, HitPlayer: true}
			}
		}
	} else {
		vehicles := w.Registry.Vehicles()
		for _, v := range vehicles {
			if !v.Dead() && DistSq(p.Pos, v.Pos) <= bodySq {
				return Hit{Kind: HitBody, Struck: v}
			}
		}
		for _, v := range vehicles {
			if v.Dead() {
				continue
			}
			f := w.proxFuse(v.Radius)
			if DistSq(p.Pos, v.Pos) <= f*f {
				return Hit{Kind: HitProximity, Struck: v}
			}
		}

		fuseSq := w.cfg.GroundFuseRadius * w.cfg.GroundFuseRadius
		var ground Target
		w.Registry.Each(GroundCategories, func(t Target) bool {
			if DistSq(p.Pos, t.AimPoint()) <= fuseSq {
				ground = t
				return false
			}
			return true
		})
		if ground != nil {
			return Hit{Kind: HitGround, Struck: ground}
		}
	}

	if p.Seeker == SeekerIR && !p.PlayerSeeking {
		r2 := w.cfg.DecoyHitRadius * w.cfg.DecoyHitRadius
		for _, d := range w.CM.Live() {
			if !d.Gone() && DistSq(p.Pos, d.Pos) <= r2 {
				return Hit{Kind: HitDecoy, Decoy: d}
			}
		}
	}

	if w.Terrain != nil && p.Pos.Z <= w.Terrain.Height(p.Pos.X, p.Pos.Y)+w.cfg.TerrainMargin {
		return Hit{Kind: HitTerrain}
	}

	for _, t := range w.Towers {
		if t.Contains(p.Pos) {
			return Hit{Kind: HitObstacle}
		}
	}

	if p.Age >= p.Lifetime {
		return Hit{Kind: HitExpired}
	}
	return Hit{}
}
