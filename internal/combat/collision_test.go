package combat

import (
	"math"
	"testing"
)

func TestGunRound_OneHitPerBullet(t *testing.T) {
	// The round's 11th position lands at x=194.83; both vehicles are within
	// body contact of it in the same frame.
	ts := NewTestSim(
		WithPlayer(V(0, 0, 500), 0),
		WithVehicle(V(195, 0, 500)),
		WithVehicle(V(195, 0.5, 500)),
	)
	w := ts.World
	ts.Press(Controls{Fire: true})
	if len(w.Projectiles()) != 1 {
		t.Fatalf("expected one round in flight, got %d", len(w.Projectiles()))
	}
	frame := ts.RunUntil(func(ts *TestSim) bool { return len(ts.World.Projectiles()) == 0 }, Steady(0), 60)
	if frame < 0 {
		t.Fatal("round never retired")
	}

	a := w.Registry.Vehicles()[0]
	b := w.Registry.Vehicles()[1]
	damaged := 0
	for _, v := range []*Vehicle{a, b} {
		if v.HP < v.MaxHP {
			damaged++
		}
	}
	if damaged != 1 {
		t.Fatalf("round damaged %d vehicles, want exactly 1 (a=%.0f b=%.0f)", damaged, a.HP, b.HP)
	}
	if a.HP != a.MaxHP-10 {
		t.Fatalf("first vehicle in registry order should take the direct hit, hp=%.0f", a.HP)
	}
	if w.Hits() != 1 {
		t.Fatalf("hits: got %d want 1", w.Hits())
	}
	if !ts.Events.HasEntry("hit", "body", "gun") {
		t.Fatal("expected a body hit event")
	}
}

func TestCollision_FuseOrder(t *testing.T) {
	ts := NewTestSim(
		WithPlayer(V(-5000, 0, 500), 0),
		WithVehicle(V(0, 0, 500)),
		WithInstallation(CategoryBunker, 500, 0),
		WithTower(1000, 0, false),
	)
	w := ts.World

	cases := []struct {
		name string
		pos  Vec3
		age  float64
		want HitKind
	}{
		{"body", V(2, 0, 500), 0, HitBody},
		{"proximity", V(6, 0, 500), 0, HitProximity},
		{"ground installation aim point", V(500, 5, 3), 0, HitGround},
		{"terrain", V(300, 0, 0.5), 0, HitTerrain},
		{"tower", V(1000, 10, 60), 0, HitObstacle},
		{"expired", V(3000, 0, 500), 100, HitExpired},
		{"clear", V(3000, 0, 500), 0, HitNone},
	}
	for _, c := range cases {
		p := playerRound(w, WeaponRocket, c.pos)
		p.Age = c.age
		if got := w.checkCollision(p).Kind; got != c.want {
			t.Fatalf("%s: got %s want %s", c.name, got, c.want)
		}
	}
}

func TestCollision_HostileRoundsOnlySeekPlayer(t *testing.T) {
	ts := NewTestSim(
		WithPlayer(V(0, 0, 500), 0),
		WithVehicle(V(1000, 0, 500)),
		WithInstallation(CategoryBunker, 2000, 0),
	)
	w := ts.World
	spec := w.cfg.Weapons[WeaponSAM]

	p := newProjectile(1, spec, OwnerHostile, V(1000, 0, 500), V(1, 0, 0))
	p.PlayerSeeking = true
	if got := w.checkCollision(p).Kind; got != HitNone {
		t.Fatalf("hostile round fused on a vehicle: %s", got)
	}
	p.Pos = V(2000, 0, 3)
	if got := w.checkCollision(p).Kind; got != HitNone {
		t.Fatalf("hostile round fused on an installation: %s", got)
	}
	p.Pos = V(4.5, 0, 500)
	if hit := w.checkCollision(p); hit.Kind != HitProximity || !hit.HitPlayer {
		t.Fatalf("expected a proximity hit on the player, got %+v", hit)
	}
}

func TestCollision_DecoyOnlyForIR(t *testing.T) {
	ts := NewTestSim(WithPlayer(V(-5000, 0, 500), 0))
	w := ts.World
	d := w.CM.Spawn(V(0, 0, 500))

	ir := playerRound(w, WeaponIR, V(2, 0, 500))
	if hit := w.checkCollision(ir); hit.Kind != HitDecoy || hit.Decoy != d {
		t.Fatalf("IR round should hit the decoy, got %s", hit.Kind)
	}
	radar := playerRound(w, WeaponRadar, V(2, 0, 500))
	if got := w.checkCollision(radar).Kind; got != HitNone {
		t.Fatalf("radar round should ignore decoys, got %s", got)
	}
	sam := newProjectile(1, w.cfg.Weapons[WeaponSAM], OwnerHostile, V(2, 0, 500), V(1, 0, 0))
	sam.PlayerSeeking = true
	if got := w.checkCollision(sam).Kind; got != HitNone {
		t.Fatalf("player-seeking round should ignore decoys, got %s", got)
	}
}

func TestDecoyHit_ConsumesDecoy(t *testing.T) {
	ts := NewTestSim(WithPlayer(V(-5000, 3000, 500), 0))
	w := ts.World
	w.CM.Spawn(V(15, 0, 500))
	w.projectiles = append(w.projectiles, playerRound(w, WeaponIR, V(0, 0, 500)))

	ts.RunFrames(2, Steady(0))
	if len(w.Projectiles()) != 0 {
		t.Fatal("IR round should detonate on the decoy")
	}
	if len(w.CM.Live()) != 0 {
		t.Fatal("decoy should be consumed")
	}
}

func TestProxFuse(t *testing.T) {
	w := NewWorld(DefaultConfig(), FlatTerrain{})
	if got := w.proxFuse(2); got != 4 {
		t.Fatalf("small body: got %f want 4", got)
	}
	if got := w.proxFuse(14.4); math.Abs(got-11.52) > 1e-9 {
		t.Fatalf("bomber: got %f want 11.52", got)
	}
}
