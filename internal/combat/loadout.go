package combat

// playerMuzzleOffset is how far beyond the player's hit sphere new rounds appear.
const playerMuzzleOffset = 4.0

// Loadout is the player's ammunition inventory and weapon selection.
type Loadout struct {
	order    []WeaponKey
	ammo     map[WeaponKey]int
	selected int
}

// NewLoadout stocks every weapon in order from its spec.
func NewLoadout(order []WeaponKey, specs map[WeaponKey]WeaponSpec) *Loadout {
	l := &Loadout{order: append([]WeaponKey(nil), order...), ammo: make(map[WeaponKey]int, len(order))}
	for _, k := range order {
		l.ammo[k] = specs[k].Ammo
	}
	return l
}

// Selected returns the current weapon key.
func (l *Loadout) Selected() WeaponKey {
	if len(l.order) == 0 {
		return ""
	}
	return l.order[l.selected]
}

// SelectedSlot returns the current slot index.
func (l *Loadout) SelectedSlot() int { return l.selected }

// Slots returns the weapon keys in slot order.
func (l *Loadout) Slots() []WeaponKey { return l.order }

// Select switches to slot i.
func (l *Loadout) Select(i int) error {
	if i < 0 || i >= len(l.order) {
		return ErrUnknownWeapon
	}
	l.selected = i
	return nil
}

// SelectKey switches to the slot holding key.
func (l *Loadout) SelectKey(key WeaponKey) error {
	for i, k := range l.order {
		if k == key {
			l.selected = i
			return nil
		}
	}
	return ErrUnknownWeapon
}

// Ammo returns the remaining stock for key.
func (l *Loadout) Ammo(key WeaponKey) int { return l.ammo[key] }

// SetAmmo overrides the stock for key.
func (l *Loadout) SetAmmo(key WeaponKey, n int) {
	if n < 0 {
		n = 0
	}
	l.ammo[key] = n
}

// Counts returns a copy of every stock.
func (l *Loadout) Counts() map[WeaponKey]int {
	out := make(map[WeaponKey]int, len(l.ammo))
	for k, v := range l.ammo {
		out[k] = v
	}
	return out
}

// take removes one round of key, failing on an empty slot.
func (l *Loadout) take(key WeaponKey) error {
	if l.ammo[key] <= 0 {
		return ErrNoAmmo
	}
	l.ammo[key]--
	return nil
}

// Fire launches the selected weapon from the player. A round fired while the
// slot is LOCKed carries the locked handle as both original and current
// target; otherwise it flies unguided. The slot's lock is then reseeded on
// the best in-range candidate.
func (w *World) Fire() (*Projectile, error) {
	if w.Player == nil || w.Player.Dead() {
		return nil, ErrPlayerDown
	}
	key := w.Loadout.Selected()
	spec, ok := w.cfg.Weapon(key)
	if !ok {
		return nil, ErrUnknownWeapon
	}
	if err := w.Loadout.take(key); err != nil {
		return nil, err
	}

	fwd := w.Player.Forward()
	muzzle := w.Player.Pos.Add(fwd.Scale(w.Player.Radius + playerMuzzleOffset))
	w.nextRound++
	p := newProjectile(w.nextRound, spec, OwnerPlayer, muzzle, fwd)

	lock := w.lockFor(key)
	if lock.Status == LockLocked {
		p.Original = lock.Target
		p.Current = lock.Target
	}
	w.projectiles = append(w.projectiles, p)
	w.metrics.fired(key)

	w.log.Debug().Str("weapon", string(key)).Str("target", p.Original.String()).
		Int("ammo", w.Loadout.Ammo(key)).Msg("fire")
	w.events.Add(w.frame, "weapon", "fire", string(key)+" "+p.Original.String(), float64(w.Loadout.Ammo(key)))

	lock.Reseed(w.sel, w.Player.Pose(), spec)
	return p, nil
}
