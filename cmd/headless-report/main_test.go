package main

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Garsondee/Air-Sense/internal/combat"
	"github.com/Garsondee/Air-Sense/internal/game"
)

func TestOutcome(t *testing.T) {
	cases := []struct {
		name string
		rs   runStats
		want string
	}{
		{"down", runStats{stats: game.SortieStats{PlayerDown: true}, playerHP: 0}, "shot_down"},
		{"zero hp", runStats{playerHP: 0, groundLeft: 3}, "shot_down"},
		{"cleared", runStats{playerHP: 80}, "area_cleared"},
		{"winchester", runStats{playerHP: 80, groundLeft: 2, ammoLeft: 0}, "winchester"},
		{"time out", runStats{playerHP: 80, airLeft: 1, ammoLeft: 12}, "time_out"},
	}
	for _, tc := range cases {
		if got := outcome(tc.rs); got != tc.want {
			t.Fatalf("%s: outcome = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestAggregateRuns(t *testing.T) {
	all := []runStats{
		{playerHP: 100, hits: 4, kills: 2, airLeft: 1, ammoLeft: 5, stats: game.SortieStats{
			Fired: map[string]int{"ir": 2}, KillsBy: map[string]int{"air": 2},
			FirstLockFrame: 40, FirstKillFrame: 200, PlayerDamage: 10, DecoysDropped: 3,
		}},
		{playerHP: 0, hits: 2, kills: 0, stats: game.SortieStats{
			Fired: map[string]int{"ir": 1, "gun": 30}, PlayerDown: true, FirstLockFrame: 60, PlayerDamage: 100,
		}},
	}
	a := aggregateRuns(all)
	if a.runs != 2 || a.hits != 6 || a.kills != 2 {
		t.Fatalf("totals runs=%d hits=%d kills=%d", a.runs, a.hits, a.kills)
	}
	if a.fired["ir"] != 3 || a.fired["gun"] != 30 {
		t.Fatalf("fired = %v", a.fired)
	}
	if a.outcomes["time_out"] != 1 || a.outcomes["shot_down"] != 1 {
		t.Fatalf("outcomes = %v", a.outcomes)
	}
	if got := avgFrameString(a.firstLocks); got != "50.0" {
		t.Fatalf("avg first lock = %s, want 50.0", got)
	}
	if got := avgFrameString(a.firstKills); got != "200.0" {
		t.Fatalf("avg first kill = %s, want 200.0", got)
	}
	if avgFloat(a.damage, a.runs) != 55 {
		t.Fatalf("avg damage = %.1f", avgFloat(a.damage, a.runs))
	}
}

func TestPrintAggregate(t *testing.T) {
	var b strings.Builder
	printAggregate(&b, []runStats{{playerHP: 50, ammoLeft: 1, groundLeft: 1, stats: game.SortieStats{}}})
	out := b.String()
	for _, want := range []string{"runs=1 outcomes: time_out=1", "fired_total: none", "first_lock=n/a"} {
		if !strings.Contains(out, want) {
			t.Fatalf("aggregate missing %q:\n%s", want, out)
		}
	}
}

func TestRunSortie_StopsWhenAreaCleared(t *testing.T) {
	rs, err := runSortie(1, "intercept", combat.DefaultConfig(), 0, 60, zerolog.Nop(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if rs.frames != 60 {
		t.Fatalf("frames = %d, want the full 60 with targets left", rs.frames)
	}
	if rs.airLeft != 4 {
		t.Fatalf("air left = %d, want 4", rs.airLeft)
	}

	if _, err := runSortie(1, "nowhere", combat.DefaultConfig(), 0, 60, zerolog.Nop(), nil); err == nil {
		t.Fatal("expected an unknown scenario error")
	}
}

type countingPublisher struct{ snaps, events int }

func (c *countingPublisher) Publish(combat.Snapshot)                 { c.snaps++ }
func (c *countingPublisher) PublishEvents(e []combat.CombatLogEntry) { c.events += len(e) }

func TestRunSortie_Publishes(t *testing.T) {
	pub := &countingPublisher{}
	rs, err := runSortie(1, "sam-belt", combat.DefaultConfig(), 0, 12, zerolog.Nop(), pub)
	if err != nil {
		t.Fatal(err)
	}
	if pub.snaps != 2 {
		t.Fatalf("snapshots = %d, want 2 over 12 frames", pub.snaps)
	}
	if pub.events < rs.stats.SAMLaunches {
		t.Fatalf("published %d events, fewer than %d SAM launches", pub.events, rs.stats.SAMLaunches)
	}
}
