package combat

// LockStatus is the lock state machine's state.
type LockStatus int

const (
	LockNone LockStatus = iota
	LockAcquiring
	LockLocked
	LockOut // target in cone but beyond lock range
)

func (s LockStatus) String() string {
	switch s {
	case LockNone:
		return "NONE"
	case LockAcquiring:
		return "ACQ"
	case LockLocked:
		return "LOCK"
	case LockOut:
		return "OUT"
	default:
		return "?"
	}
}

// LockState is the lock record for one weapon slot.
type LockState struct {
	Weapon WeaponKey
	Target Handle
	Timer  float64 // seconds of continuous eligible time on Target
	Status LockStatus
	Aim    Vec3    // last resolved aim point, for reticles
	Dist   float64 // last resolved distance
}

func (l *LockState) reset() {
	l.Target = NoHandle
	l.Timer = 0
	l.Status = LockNone
	l.Dist = 0
}

// retarget switches to a new handle, restarting the timer.
func (l *LockState) retarget(c Candidate) {
	l.Target = c.Handle
	l.Timer = 0
	l.Status = LockNone
	l.Aim = c.Aim
	l.Dist = c.Dist
}

// Update runs one frame of automatic lock evaluation. Membership ignores
// range so the reticle stays on distant contacts; range only decides OUT.
// stickyMargin widens the cone (radians) for the handle already held.
func (l *LockState) Update(sel *Selector, p Pose, w WeaponSpec, stickyMargin, dt float64) LockStatus {
	half := deg(w.LockConeDeg)

	var cand Candidate
	held := false
	if l.Target.Valid() && (l.Status == LockAcquiring || l.Status == LockLocked) {
		if c, err := sel.Qualifies(p, l.Target, half+stickyMargin, 0); err == nil {
			cand, held = c, true
		}
	}
	if !held {
		cs := sel.Select(p, half, 0, w.Categories)
		if len(cs) == 0 {
			l.reset()
			return l.Status
		}
		cand = cs[0]
		if cand.Handle != l.Target {
			l.retarget(cand)
			return l.classify(w, 0)
		}
	}
	l.Aim = cand.Aim
	l.Dist = cand.Dist
	return l.classify(w, dt)
}

// classify applies the range gate and advances the timer by dt.
func (l *LockState) classify(w WeaponSpec, dt float64) LockStatus {
	if l.Dist > w.LockRange {
		l.Status = LockOut
		l.Timer = 0
		return l.Status
	}
	if l.Status == LockOut {
		// back in range: accumulation restarts from zero on the next frame
		dt = 0
		l.Timer = 0
	}
	if l.Status == LockLocked {
		l.Timer += dt
		return l.Status
	}
	l.Timer += dt
	if l.Timer >= w.LockTime {
		l.Status = LockLocked
	} else {
		l.Status = LockAcquiring
	}
	return l.Status
}

// Cycle steps to the next (dir > 0) or previous (dir < 0) candidate in ranked
// order, wrapping, and classifies it at once as ACQ or OUT. cycleMargin
// widens the cone (radians) independently of the sticky margin.
func (l *LockState) Cycle(sel *Selector, p Pose, w WeaponSpec, cycleMargin float64, dir int) error {
	cs := sel.Select(p, deg(w.LockConeDeg)+cycleMargin, 0, w.Categories)
	if len(cs) == 0 {
		l.reset()
		return ErrEmptyCandidateSet
	}
	idx := -1
	for i, c := range cs {
		if c.Handle == l.Target {
			idx = i
			break
		}
	}
	n := len(cs)
	var next int
	switch {
	case idx < 0 && dir < 0:
		next = n - 1
	case idx < 0:
		next = 0
	case dir < 0:
		next = (idx - 1 + n) % n
	default:
		next = (idx + 1) % n
	}
	c := cs[next]
	l.retarget(c)
	if c.Dist > w.LockRange {
		l.Status = LockOut
		return ErrOutOfRange
	}
	l.Status = LockAcquiring
	return nil
}

// Reseed points the lock at the best in-range candidate after a shot,
// ignoring stickiness. The new record starts in ACQ with a zero timer.
func (l *LockState) Reseed(sel *Selector, p Pose, w WeaponSpec) {
	cs := sel.Select(p, deg(w.LockConeDeg), w.LockRange, w.Categories)
	if len(cs) == 0 {
		l.reset()
		return
	}
	l.retarget(cs[0])
	l.Status = LockAcquiring
}
