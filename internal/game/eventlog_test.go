package game

import (
	"testing"

	"github.com/Garsondee/Air-Sense/internal/combat"
)

func TestEventLog_RingOverwritesOldest(t *testing.T) {
	el := NewEventLog()
	for i := range logMaxEntries + 5 {
		el.Add(combat.CombatLogEntry{Frame: uint64(i)})
	}
	got := el.Recent()
	if len(got) != logMaxEntries {
		t.Fatalf("len = %d, want %d", len(got), logMaxEntries)
	}
	if got[0].Frame != 5 || got[len(got)-1].Frame != logMaxEntries+4 {
		t.Fatalf("window = %d..%d, want 5..%d", got[0].Frame, got[len(got)-1].Frame, logMaxEntries+4)
	}
}

func TestEventLog_SyncPullsOnlyNewEntries(t *testing.T) {
	cl := combat.NewCombatLog()
	el := NewEventLog()
	cl.Add(1, "weapon", "fire", "gun", 0)
	cl.Add(2, "hit", "body", "air#1", 10)

	if fresh := el.Sync(cl); len(fresh) != 2 {
		t.Fatalf("first sync = %d entries, want 2", len(fresh))
	}
	if fresh := el.Sync(cl); len(fresh) != 0 {
		t.Fatalf("second sync = %d entries, want 0", len(fresh))
	}
	cl.Add(3, "kill", "air", "air#1", 0)
	fresh := el.Sync(cl)
	if len(fresh) != 1 || fresh[0].Category != "kill" {
		t.Fatalf("third sync = %+v, want one kill", fresh)
	}
	if n := len(el.Recent()); n != 3 {
		t.Fatalf("panel holds %d, want 3", n)
	}
}

func TestEventLog_SyncNilLog(t *testing.T) {
	el := NewEventLog()
	if fresh := el.Sync(nil); len(fresh) != 0 {
		t.Fatalf("nil log gave %d entries", len(fresh))
	}
}
