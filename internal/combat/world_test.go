package combat

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestStep_ClampsFrameTime(t *testing.T) {
	ts := NewTestSim()
	w := ts.World
	w.Step(1.0, Steady(0))
	if math.Abs(w.Clock()-1.0/60.0) > 1e-12 {
		t.Fatalf("clock advanced %.4f, want one 60 Hz tick", w.Clock())
	}
	w.Step(0, Steady(0))
	w.Step(-1, Steady(0))
	if w.Frame() != 1 {
		t.Fatalf("non-positive dt should not step, frame=%d", w.Frame())
	}
}

func TestPlayer_CrashesIntoTerrain(t *testing.T) {
	ts := NewTestSim(WithPlayer(V(0, 0, 0.5), 0))
	ts.RunFrames(1, Steady(0))
	if !ts.World.Player.Dead() {
		t.Fatal("player at ground level should be destroyed")
	}
	if !ts.Events.HasEntry("player", "crash", "") {
		t.Fatal("expected a crash event")
	}
	if _, err := ts.World.Fire(); !errors.Is(err, ErrPlayerDown) {
		t.Fatalf("fire after death: got %v want ErrPlayerDown", err)
	}
}

func TestPlayer_InvulnerableIsLifted(t *testing.T) {
	ts := NewTestSim(WithPlayer(V(0, 0, 0.5), 0), WithInvulnerable(true))
	ts.RunFrames(1, Steady(0))
	p := ts.World.Player
	if p.Dead() || p.Pos.Z != 5 {
		t.Fatalf("invulnerable player should sit 5 m above ground, z=%.2f dead=%v", p.Pos.Z, p.Dead())
	}
}

func TestPlayer_PushedOutOfTower(t *testing.T) {
	ts := NewTestSim(WithPlayer(V(990, 0, 60), 0), WithTower(1000, 0, false))
	ts.RunFrames(1, Steady(0))
	p := ts.World.Player
	if d := Dist2D(p.Pos, V(1000, 0, 0)); d < 25 {
		t.Fatalf("player still inside tower column, d=%.2f", d)
	}
	if want := p.MaxHP - ts.World.cfg.TowerContactDamage; p.HP != want {
		t.Fatalf("tower contact: hp=%.1f want %.1f", p.HP, want)
	}
}

func TestPlayer_InvulnerableTowerContactIsFree(t *testing.T) {
	ts := NewTestSim(WithPlayer(V(990, 0, 60), 0), WithInvulnerable(true), WithTower(1000, 0, false))
	ts.RunFrames(1, Steady(0))
	if p := ts.World.Player; p.HP != p.MaxHP {
		t.Fatalf("invulnerable player took %.1f from the tower", p.MaxHP-p.HP)
	}
}

func TestPlayer_RamDamagesBoth(t *testing.T) {
	ts := NewTestSim(
		WithPlayer(V(0, 0, 600), 0),
		WithVehicle(V(30, 0, 600)),
	)
	w := ts.World
	v := w.Registry.Vehicles()[0]
	ts.RunFrames(60, Steady(0))

	playerLoss := w.Player.MaxHP - w.Player.HP
	vehicleLoss := v.MaxHP - v.HP
	if playerLoss <= 0 || vehicleLoss <= 0 {
		t.Fatalf("ram: player lost %.2f, vehicle lost %.2f", playerLoss, vehicleLoss)
	}
	if math.Abs(playerLoss-vehicleLoss) > 1e-9 {
		t.Fatalf("ram is symmetric: player lost %.4f, vehicle %.4f", playerLoss, vehicleLoss)
	}
	// 28 m of overlap at 90 m/s is about 0.31 s of grinding.
	if playerLoss > w.cfg.RamDamageRate*0.4 {
		t.Fatalf("ram damage %.2f exceeds the overlap time", playerLoss)
	}
}

func TestPlayer_InvulnerableRamStillHurtsVehicle(t *testing.T) {
	ts := NewTestSim(
		WithPlayer(V(0, 0, 600), 0),
		WithInvulnerable(true),
		WithVehicle(V(30, 0, 600)),
	)
	w := ts.World
	v := w.Registry.Vehicles()[0]
	ts.RunFrames(60, Steady(0))
	if w.Player.HP != w.Player.MaxHP {
		t.Fatal("invulnerable player took ram damage")
	}
	if v.HP >= v.MaxHP {
		t.Fatal("vehicle should take ram damage")
	}
}

func TestVehicle_FlyingIntoTowerCrashes(t *testing.T) {
	ts := NewTestSim(
		WithPlayer(V(0, 0, 600), 0),
		WithTower(200, 0, false),
		WithMovingVehicle(VehicleFighter, PatternPatrol, V(100, 0, 80), 0),
	)
	ts.RunFrames(40, Steady(0))
	if n := ts.World.Registry.Count(CategoryAir); n != 0 {
		t.Fatalf("vehicle survived the tower: %d airborne", n)
	}
	if ts.Events.Count("air", "tower_crash") != 1 {
		t.Fatal("expected one air/tower_crash event")
	}
	if !ts.Events.HasEntry("kill", "air", "") {
		t.Fatal("crash should be pruned as a kill")
	}
	if ts.World.Hits() != 0 {
		t.Fatal("a crash is not a scored hit")
	}
}

func TestTower_RevertsAfterLoiter(t *testing.T) {
	// Player cruises toward the tower at 90 m/s, inside loiter range throughout.
	ts := NewTestSim(
		WithPlayer(V(0, 0, 600), 0),
		WithTower(3000, 0, true),
	)
	tw := ts.World.Towers[0]
	ts.RunFrames(1180, Steady(0))
	if !tw.Hostile {
		t.Fatalf("tower reverted early at loiter %.2f s", tw.loiter)
	}
	ts.RunFrames(80, Steady(0))
	if tw.Hostile {
		t.Fatalf("tower still hostile after %.2f s of loiter", tw.loiter)
	}
	if ts.Events.Count("tower", "friendly") != 1 {
		t.Fatal("expected one tower/friendly event")
	}
}

func TestTower_HitRestartsLoiter(t *testing.T) {
	ts := NewTestSim(
		WithPlayer(V(0, 0, 600), 0),
		WithTower(3000, 0, true),
	)
	w := ts.World
	tw := w.Towers[0]
	ts.RunFrames(600, Steady(0))
	w.markTowerHit(tw)
	ts.RunFrames(660, Steady(0)) // 21 s total, 11 s since the hit
	if !tw.Hostile {
		t.Fatal("a recent hit should keep the tower hostile")
	}
	ts.RunFrames(600, Steady(0)) // 31 s total, 21 s since the hit
	if tw.Hostile {
		t.Fatal("tower should revert once the player loiters unprovoked")
	}
}

func TestTower_LoiterDecaysOutOfRange(t *testing.T) {
	ts := NewTestSim(
		WithPlayer(V(-9000, 0, 600), math.Pi),
		WithTower(0, 0, true),
	)
	tw := ts.World.Towers[0]
	tw.loiter = 10
	ts.RunFrames(120, Steady(0))
	if math.Abs(tw.loiter-9) > 1e-6 {
		t.Fatalf("loiter %.4f, want 9 after 2 s out of range", tw.loiter)
	}
	if !tw.Hostile {
		t.Fatal("tower must not revert while the player is away")
	}
}

func TestPlayer_StaysInBounds(t *testing.T) {
	ts := NewTestSim(
		WithTuning(func(c *Config) { c.Bounds = 100 }),
		WithPlayer(V(90, 0, 500), 0),
	)
	ts.RunFrames(60, Steady(1))
	if x := ts.World.Player.Pos.X; x > 100 {
		t.Fatalf("player left the bounds: x=%.1f", x)
	}
}

func TestPlayer_ThrottleSetsSpeed(t *testing.T) {
	ts := NewTestSim(WithPlayer(V(0, 0, 500), 0))
	ts.RunFrames(1, Steady(1))
	if got := ts.World.Player.Speed; got != ts.World.cfg.PlayerMaxSpeed {
		t.Fatalf("full throttle speed %.0f", got)
	}
	ts.RunFrames(1, Steady(0))
	if got := ts.World.Player.Speed; got != ts.World.cfg.PlayerMinSpeed {
		t.Fatalf("idle speed %.0f", got)
	}
}

func TestCommands_SelectAndDecoy(t *testing.T) {
	ts := NewTestSim(WithPlayer(V(0, 0, 500), 0))
	w := ts.World

	ts.Press(Controls{SelectSlot: 4})
	if w.Loadout.Selected() != WeaponRadar {
		t.Fatalf("slot 4 selects %s, want radar", w.Loadout.Selected())
	}
	ts.Press(Controls{SelectKey: WeaponAGM})
	if w.Loadout.Selected() != WeaponAGM {
		t.Fatalf("selected %s, want agm", w.Loadout.Selected())
	}
	if err := w.SelectWeapon(99); !errors.Is(err, ErrUnknownWeapon) {
		t.Fatalf("bad slot: got %v", err)
	}

	stock := w.CM.Stock
	ts.Press(Controls{DeployDecoy: true})
	if w.CM.Stock != stock-1 || len(w.CM.Live()) != 1 {
		t.Fatalf("decoy not deployed: stock=%d live=%d", w.CM.Stock, len(w.CM.Live()))
	}
	ts.Press(Controls{DeployDecoy: true})
	if w.CM.Stock != stock-1 {
		t.Fatal("second deploy inside the cooldown should be refused")
	}
}

func TestFire_NoAmmoIsNoOp(t *testing.T) {
	ts := NewTestSim(WithPlayer(V(0, 0, 500), 0))
	w := ts.World
	w.Loadout.SetAmmo(WeaponGun, 0)
	if _, err := w.Fire(); !errors.Is(err, ErrNoAmmo) {
		t.Fatalf("got %v want ErrNoAmmo", err)
	}
	ts.Press(Controls{Fire: true})
	if len(w.Projectiles()) != 0 || w.Loadout.Ammo(WeaponGun) != 0 {
		t.Fatal("empty slot should not fire")
	}
}

func TestSpawner_RespectsCap(t *testing.T) {
	ts := NewTestSim(
		WithSeed(7),
		WithTuning(func(c *Config) {
			c.MaxVehicles = 3
			c.SpawnInterval = 0.5
			c.Bounds = 20000
		}),
		WithPlayer(V(0, 0, 3000), 0),
		WithInvulnerable(true),
	)
	w := ts.World
	for i := 0; i < 600; i++ {
		ts.RunFrames(1, Steady(0))
		if n := w.Registry.Count(CategoryAir); n > 3 {
			t.Fatalf("frame %d: %d vehicles above cap", i, n)
		}
	}
	if n := w.Registry.Count(CategoryAir); n != 3 {
		t.Fatalf("expected the cap to be reached, got %d", n)
	}
	for _, v := range w.Registry.Vehicles() {
		if agl := v.Pos.Z; agl < minAGL {
			t.Fatalf("vehicle below the floor: z=%.1f", agl)
		}
	}
}

func TestSpawner_OffWithoutSeed(t *testing.T) {
	ts := NewTestSim()
	ts.RunFrames(600, Steady(0))
	if n := ts.World.Registry.Count(CategoryAir); n != 0 {
		t.Fatalf("spawned %d vehicles without a seed", n)
	}
}

func TestVehicle_ExitingBoundsIsPrunedWithoutKill(t *testing.T) {
	ts := NewTestSim(
		WithTuning(func(c *Config) { c.Bounds = 1000 }),
		WithMovingVehicle(VehicleFighter, PatternPatrol, V(990, 0, 500), 0),
	)
	ts.RunFrames(10, Steady(0))
	w := ts.World
	if w.Registry.Count(CategoryAir) != 0 {
		t.Fatal("vehicle outside bounds should be pruned")
	}
	if w.Kills() != 0 {
		t.Fatal("leaving the area is not a kill")
	}
}

func TestVehicle_OrbitKeepsRadius(t *testing.T) {
	spec := DefaultConfig().Vehicles[VehicleBomber]
	v := NewOrbiter(VehicleBomber, V(0, 0, 800), 1000, 0, spec, 8)
	for i := 0; i < 300; i++ {
		v.move(Dt, FlatTerrain{})
	}
	if r := Dist2D(v.Pos, v.Center); math.Abs(r-1000) > 1e-6 {
		t.Fatalf("orbit radius drifted to %.3f", r)
	}
	if v.Radius != 8*spec.RadiusScale {
		t.Fatalf("radius %.1f", v.Radius)
	}
}

func TestSnapshot_CopiesState(t *testing.T) {
	ts := irSim(t,
		WithVehicle(V(2000, 0, 502)),
		WithInstallation(CategoryBunker, 3000, 500),
		WithTower(-2000, 0, false),
	)
	w := ts.World
	ts.RunFrames(5, Steady(0))
	ts.Press(Controls{Fire: true})

	s := w.Snapshot()
	if len(s.Projectiles) != 1 || len(s.Entities) != 2 || len(s.Towers) != 1 {
		t.Fatalf("snapshot counts: proj=%d ent=%d towers=%d", len(s.Projectiles), len(s.Entities), len(s.Towers))
	}
	if s.Lock.Weapon != WeaponIR || s.Lock.Status != "ACQ" {
		t.Fatalf("lock view %+v", s.Lock)
	}
	if s.Ammo[WeaponIR] != w.cfg.Weapons[WeaponIR].Ammo-1 {
		t.Fatalf("ammo view %d", s.Ammo[WeaponIR])
	}

	s.Ammo[WeaponIR] = 99
	s.Projectiles[0].Pos = V(0, 0, 0)
	if w.Loadout.Ammo(WeaponIR) == 99 || w.Projectiles()[0].Pos == V(0, 0, 0) {
		t.Fatal("snapshot shares memory with the world")
	}

	if _, err := json.Marshal(s); err != nil {
		t.Fatalf("marshal: %v", err)
	}
}

func TestSummary_Reports(t *testing.T) {
	ts := NewTestSim(WithVehicle(V(2000, 0, 600)))
	ts.RunFrames(3, Steady(0))
	sum := ts.Events.Summary(ts.World)
	if sum == "" {
		t.Fatal("empty summary")
	}
}
