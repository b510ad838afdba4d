package combat

// Flak is an unguided ballistic round from a gun installation.
type Flak struct {
	Pos      Vec3
	Vel      Vec3
	Age      float64
	Lifetime float64
	Damage   float64
	Radius   float64
	Source   Handle
}

// samLaunchOffset is how far ahead of the launcher a SAM round appears.
const samLaunchOffset = 10.0

// runDefenses steps every installation's fire control once.
func (w *World) runDefenses(dt float64) {
	pl := w.Player
	if pl == nil || pl.Dead() {
		return
	}
	clearance := w.cfg.LOSClearance

	samSpec := w.cfg.Installations[CategorySAM]
	for _, s := range w.Registry.SAMSites() {
		if s.Dead() {
			continue
		}
		muzzle := s.AimPoint()
		inRange := DistSq(muzzle, pl.Pos) <= samSpec.Range*samSpec.Range
		s.Aiming = inRange && Visible(w.Terrain, muzzle, pl.Pos, clearance)

		s.Cooldown -= dt
		if s.Cooldown <= 0 {
			s.Cooldown = 0
			s.Loaded = true
		}
		if s.Aiming && s.Loaded && s.Cooldown <= 0 {
			w.launchSAM(s)
			s.Cooldown = samSpec.Reload
			s.Loaded = false
		}
	}

	towerSpec := w.cfg.Installations[CategoryTowerAA]
	for _, g := range w.Registry.TowerAAs() {
		if g.Dead() {
			continue
		}
		w.gunBattery(&g.Installation, &g.battery, towerSpec, !w.towerGunsFree(g.Host), dt)
	}
	fieldSpec := w.cfg.Installations[CategoryScatteredAA]
	for _, g := range w.Registry.ScatteredAAs() {
		if g.Dead() {
			continue
		}
		w.gunBattery(&g.Installation, &g.battery, fieldSpec, false, dt)
	}
}

// gunBattery runs the shared AA gun rule: in range, not held, and with line
// of sight the cooldown runs down and a round is fired at zero.
func (w *World) gunBattery(in *Installation, b *battery, spec InstallationSpec, hold bool, dt float64) {
	pl := w.Player
	muzzle := in.AimPoint()
	inRange := DistSq(muzzle, pl.Pos) <= spec.Range*spec.Range
	b.Aiming = inRange && !hold && Visible(w.Terrain, muzzle, pl.Pos, w.cfg.LOSClearance)
	if !b.Aiming {
		return
	}
	b.Cooldown -= dt
	if b.Cooldown > 0 {
		b.Loaded = false
		return
	}
	b.Loaded = true
	dir := pl.Pos.Sub(muzzle).Norm()
	w.flak = append(w.flak, &Flak{
		Pos:      muzzle,
		Vel:      dir.Scale(spec.RoundSpeed),
		Lifetime: spec.RoundLife,
		Damage:   spec.RoundDamage,
		Radius:   spec.RoundRadius,
		Source:   in.Handle(),
	})
	b.Cooldown = spec.Reload
}

// towerGunsFree reports whether the batteries on host may engage: the tower
// is hostile and the player is outside its no-fire bubble.
func (w *World) towerGunsFree(host *Tower) bool {
	return host != nil && host.Hostile && Dist2D(w.Player.Pos, host.Pos) >= w.cfg.NoFireRadius
}

func (w *World) launchSAM(s *SAMSite) {
	spec := w.cfg.Weapons[WeaponSAM]
	muzzle := s.AimPoint()
	dir := w.Player.Pos.Sub(muzzle).Norm()
	w.nextRound++
	p := newProjectile(w.nextRound, spec, OwnerHostile, muzzle.Add(dir.Scale(samLaunchOffset)), dir)
	p.PlayerSeeking = true
	w.projectiles = append(w.projectiles, p)
	w.emit(Effect{Kind: EffectLaunch, Pos: muzzle, Size: 2, Category: CategorySAM})
	w.log.Info().Str("site", s.Handle().String()).Msg("sam launch")
	w.events.Add(w.frame, "defense", "sam_launch", s.Handle().String(), 0)
}

// updateFlak integrates ballistic rounds, resolves player hits and expiry,
// and replaces the list with the survivors.
func (w *World) updateFlak(dt float64) {
	kept := make([]*Flak, 0, len(w.flak))
	for _, f := range w.flak {
		prev := f.Pos
		f.Pos = f.Pos.Add(f.Vel.Scale(dt))
		f.Age += dt
		if pl := w.Player; pl != nil && !pl.Dead() && !pl.Invulnerable &&
			pointSegmentDistSq(pl.Pos, prev, f.Pos) <= f.Radius*f.Radius {
			w.damagePlayer(f.Damage)
			w.emit(Effect{Kind: EffectImpact, Pos: f.Pos, Size: 1})
			continue
		}
		if f.Age >= f.Lifetime {
			continue
		}
		if w.Terrain != nil && f.Pos.Z <= w.Terrain.Height(f.Pos.X, f.Pos.Y) {
			continue
		}
		kept = append(kept, f)
	}
	w.flak = kept
}

// pointSegmentDistSq is the squared distance from p to the segment a-b.
func pointSegmentDistSq(p, a, b Vec3) float64 {
	ab := b.Sub(a)
	l2 := ab.LenSq()
	if l2 < 1e-12 {
		return DistSq(p, a)
	}
	t := clamp01(p.Sub(a).Dot(ab) / l2)
	return DistSq(p, a.Add(ab.Scale(t)))
}
