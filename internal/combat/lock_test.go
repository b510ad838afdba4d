package combat

import (
	"errors"
	"testing"
)

func irSim(t *testing.T, opts ...SimOption) *TestSim {
	t.Helper()
	ts := NewTestSim(append([]SimOption{WithPlayer(V(0, 0, 500), 0)}, opts...)...)
	if err := ts.World.SelectWeapon(2); err != nil {
		t.Fatalf("select ir: %v", err)
	}
	if ts.World.Loadout.Selected() != WeaponIR {
		t.Fatalf("slot 2 is %s, want ir", ts.World.Loadout.Selected())
	}
	return ts
}

func vehicleAt(t *testing.T, ts *TestSim, h Handle) *Vehicle {
	t.Helper()
	tgt, ok := ts.Lookup(h)
	if !ok {
		t.Fatalf("%s not found", h)
	}
	return tgt.(*Vehicle)
}

func TestLock_ProgressesToLock(t *testing.T) {
	ts := irSim(t, WithVehicle(V(2000, 0, 502)))

	ts.RunFrames(1, Steady(0))
	l := ts.World.Lock()
	if l.Status != LockAcquiring || l.Target != ts.Vehicles[0] || l.Timer != 0 {
		t.Fatalf("first frame: got %s %s t=%.3f, want ACQ on %s t=0", l.Status, l.Target, l.Timer, ts.Vehicles[0])
	}

	ts.RunFrames(29, Steady(0))
	if l = ts.World.Lock(); l.Status != LockAcquiring {
		t.Fatalf("after 0.5s: got %s, want ACQ", l.Status)
	}

	ts.RunFrames(30, Steady(0))
	if l = ts.World.Lock(); l.Status != LockLocked {
		t.Fatalf("after 1s: got %s t=%.3f, want LOCK", l.Status, l.Timer)
	}
}

func TestLock_LeavingConeResets(t *testing.T) {
	ts := irSim(t, WithVehicle(V(2000, 0, 502)))
	ts.RunFrames(60, Steady(0))
	if ts.World.Lock().Status != LockLocked {
		t.Fatal("setup: expected LOCK")
	}

	vehicleAt(t, ts, ts.Vehicles[0]).Pos = V(0, 2000, 502)
	ts.RunFrames(1, Steady(0))
	l := ts.World.Lock()
	if l.Status != LockNone || l.Timer != 0 || l.Target.Valid() {
		t.Fatalf("got %s %s t=%.3f, want NONE t=0", l.Status, l.Target, l.Timer)
	}
}

func TestLock_LeavingConeDemotesToOther(t *testing.T) {
	ts := irSim(t,
		WithVehicle(V(2000, 0, 502)),
		WithVehicle(V(2000, 400, 502)),
	)
	ts.RunFrames(60, Steady(0))
	if l := ts.World.Lock(); l.Status != LockLocked || l.Target != ts.Vehicles[0] {
		t.Fatalf("setup: expected LOCK on first vehicle, got %s %s", l.Status, l.Target)
	}

	vehicleAt(t, ts, ts.Vehicles[0]).Pos = V(0, -2000, 502)
	ts.RunFrames(1, Steady(0))
	l := ts.World.Lock()
	if l.Status != LockAcquiring || l.Target != ts.Vehicles[1] || l.Timer != 0 {
		t.Fatalf("got %s %s t=%.3f, want ACQ on %s t=0", l.Status, l.Target, l.Timer, ts.Vehicles[1])
	}
}

func TestLock_RangeDemotionRestartsFromZero(t *testing.T) {
	ts := irSim(t, WithVehicle(V(5000, 0, 502)))
	ts.RunFrames(60, Steady(0))
	if ts.World.Lock().Status != LockLocked {
		t.Fatal("setup: expected LOCK")
	}

	v := vehicleAt(t, ts, ts.Vehicles[0])
	v.Pos = V(8000, 0, 502)
	ts.RunFrames(1, Steady(0))
	if l := ts.World.Lock(); l.Status != LockOut || l.Timer != 0 {
		t.Fatalf("beyond range: got %s t=%.3f, want OUT t=0", l.Status, l.Timer)
	}
	ts.RunFrames(30, Steady(0))
	if l := ts.World.Lock(); l.Status != LockOut || l.Timer != 0 {
		t.Fatalf("still beyond range: got %s t=%.3f, want OUT t=0", l.Status, l.Timer)
	}

	v.Pos = V(3000, 0, 502)
	ts.RunFrames(1, Steady(0))
	if l := ts.World.Lock(); l.Status != LockAcquiring || l.Timer != 0 {
		t.Fatalf("back in range: got %s t=%.3f, want ACQ t=0", l.Status, l.Timer)
	}
	ts.RunFrames(30, Steady(0))
	if l := ts.World.Lock(); l.Status != LockAcquiring {
		t.Fatalf("lock must not resume instantly, got %s t=%.3f", l.Status, l.Timer)
	}
	ts.RunFrames(30, Steady(0))
	if l := ts.World.Lock(); l.Status != LockLocked {
		t.Fatalf("expected LOCK after a full lock time, got %s t=%.3f", l.Status, l.Timer)
	}
}

func TestLock_StickyRetainsHeldTarget(t *testing.T) {
	ts := irSim(t,
		WithVehicle(V(2000, 0, 502)),
		WithVehicle(V(2000, 30, 502)),
	)
	w := ts.World
	spec, _ := w.cfg.Weapon(WeaponIR)
	l := &LockState{Weapon: WeaponIR}

	pose := Pose{Pos: V(0, 0, 500)}
	l.Update(w.Selector(), pose, spec, deg(5), Dt)
	if l.Target != ts.Vehicles[0] {
		t.Fatalf("setup: expected first vehicle, got %s", l.Target)
	}

	// Swing the nose onto the second vehicle; the first stays in the widened cone.
	pose.Heading = 30.0 / 2000.0
	l.Update(w.Selector(), pose, spec, deg(5), Dt)
	if l.Target != ts.Vehicles[0] || l.Timer <= 0 {
		t.Fatalf("held target should be retained and keep accumulating, got %s t=%.3f", l.Target, l.Timer)
	}

	// Without a held state the nominal top candidate wins.
	fresh := &LockState{Weapon: WeaponIR}
	fresh.Update(w.Selector(), pose, spec, deg(5), Dt)
	if fresh.Target != ts.Vehicles[1] {
		t.Fatalf("fresh lock should take the top candidate, got %s", fresh.Target)
	}
}

func TestLock_StaleTargetResets(t *testing.T) {
	ts := irSim(t, WithVehicle(V(2000, 0, 502)))
	ts.RunFrames(10, Steady(0))
	v := vehicleAt(t, ts, ts.Vehicles[0])
	v.Damage(v.MaxHP)
	ts.RunFrames(1, Steady(0))
	if l := ts.World.Lock(); l.Status != LockNone || l.Target.Valid() {
		t.Fatalf("got %s %s, want NONE", l.Status, l.Target)
	}
}

func TestCycle_WrapsInRankOrder(t *testing.T) {
	ts := irSim(t,
		WithVehicle(V(2000, -200, 502)),
		WithVehicle(V(2000, 0, 502)),
		WithVehicle(V(2000, 100, 502)),
	)
	w := ts.World
	want := []Handle{ts.Vehicles[1], ts.Vehicles[2], ts.Vehicles[0], ts.Vehicles[1]}
	for i, h := range want {
		if err := w.CycleTarget(1); err != nil {
			t.Fatalf("cycle %d: %v", i, err)
		}
		l := w.Lock()
		if l.Target != h || l.Status != LockAcquiring || l.Timer != 0 {
			t.Fatalf("cycle %d: got %s %s t=%.3f, want ACQ on %s", i, l.Status, l.Target, l.Timer, h)
		}
	}
	if err := w.CycleTarget(-1); err != nil {
		t.Fatal(err)
	}
	if l := w.Lock(); l.Target != ts.Vehicles[0] {
		t.Fatalf("cycle back: got %s want %s", l.Target, ts.Vehicles[0])
	}
}

func TestCycle_OutOfRangeAndEmpty(t *testing.T) {
	ts := irSim(t, WithVehicle(V(7000, 0, 502)))
	w := ts.World
	if err := w.CycleTarget(1); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if l := w.Lock(); l.Status != LockOut || l.Target != ts.Vehicles[0] {
		t.Fatalf("got %s %s, want OUT", l.Status, l.Target)
	}

	empty := irSim(t)
	if err := empty.World.CycleTarget(1); !errors.Is(err, ErrEmptyCandidateSet) {
		t.Fatalf("expected ErrEmptyCandidateSet, got %v", err)
	}
	if empty.World.Lock().Status != LockNone {
		t.Fatal("empty cycle should leave NONE")
	}
}

func TestCycle_UsesWiderConeThanSticky(t *testing.T) {
	// 22 degrees off the nose: outside 15+5 but inside 15+12.
	ts := irSim(t, WithVehicle(V(2000, 808, 502)))
	w := ts.World
	ts.RunFrames(1, Steady(0))
	if w.Lock().Status != LockNone {
		t.Fatal("automatic evaluation should not see the contact")
	}
	if err := w.CycleTarget(1); err != nil {
		t.Fatalf("cycle should reach the contact: %v", err)
	}
}
