package game

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Garsondee/Air-Sense/internal/combat"
)

// SortieStats condenses a combat log into per-sortie totals.
type SortieStats struct {
	Fired          map[string]int // rounds by weapon
	HitsByKind     map[string]int // detonations by fuse kind
	KillsBy        map[string]int // kills by category
	Locks          int            // transitions into LOCK
	LocksLost      int            // transitions out of LOCK
	DecoysDropped  int
	SAMLaunches    int
	TowerFlips     int
	PlayerDamage   float64
	PlayerDown     bool
	FirstLockFrame uint64 // 0 when it never happened
	FirstKillFrame uint64
}

// SummarizeEvents folds combat log entries into SortieStats.
func SummarizeEvents(entries []combat.CombatLogEntry) SortieStats {
	s := SortieStats{
		Fired:      map[string]int{},
		HitsByKind: map[string]int{},
		KillsBy:    map[string]int{},
	}
	for _, e := range entries {
		switch e.Category {
		case "weapon":
			if e.Key == "fire" {
				weapon, _, _ := strings.Cut(e.Value, " ")
				s.Fired[weapon]++
			}
		case "hit":
			s.HitsByKind[e.Key]++
		case "kill":
			s.KillsBy[e.Key]++
			if s.FirstKillFrame == 0 {
				s.FirstKillFrame = e.Frame
			}
		case "lock":
			if e.Key != "state" {
				continue
			}
			from, to, ok := lockTransition(e.Value)
			if !ok {
				continue
			}
			if to == "LOCK" {
				s.Locks++
				if s.FirstLockFrame == 0 {
					s.FirstLockFrame = e.Frame
				}
			} else if from == "LOCK" {
				s.LocksLost++
			}
		case "decoy":
			if e.Key == "deploy" {
				s.DecoysDropped++
			}
		case "defense":
			if e.Key == "sam_launch" {
				s.SAMLaunches++
			}
		case "tower":
			if e.Key == "hostile" {
				s.TowerFlips++
			}
		case "player":
			switch e.Key {
			case "damage":
				s.PlayerDamage += e.NumVal
			case "destroyed", "crash":
				s.PlayerDown = true
			}
		}
	}
	return s
}

// lockTransition parses "ACQ -> LOCK air#3".
func lockTransition(v string) (from, to string, ok bool) {
	from, rest, ok := strings.Cut(v, " -> ")
	if !ok {
		return "", "", false
	}
	to, _, _ = strings.Cut(rest, " ")
	return from, to, true
}

// SortieReport renders a plain-text combat report: the world summary, the
// sortie totals and the event timeline of the last lastFrames frames.
func SortieReport(w *combat.World, scenario string, seed int64, lastFrames int) string {
	if lastFrames <= 0 {
		lastFrames = 600
	}
	cl := w.Events()
	toFrame := w.Frame()
	fromFrame := uint64(0)
	if toFrame > uint64(lastFrames) {
		fromFrame = toFrame - uint64(lastFrames) + 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- Air-Sense sortie report ---\n")
	fmt.Fprintf(&b, "scenario=%s seed=%d frame_range=[%d..%d]\n", scenario, seed, fromFrame, toFrame)
	b.WriteString(cl.Summary(w))

	s := SummarizeEvents(cl.Entries())
	fmt.Fprintf(&b, "fired: %s\n", formatCounts(s.Fired))
	fmt.Fprintf(&b, "detonations: %s\n", formatCounts(s.HitsByKind))
	fmt.Fprintf(&b, "kills: %s\n", formatCounts(s.KillsBy))
	fmt.Fprintf(&b, "locks=%d lost=%d first_lock=%s first_kill=%s\n",
		s.Locks, s.LocksLost, frameString(s.FirstLockFrame), frameString(s.FirstKillFrame))
	fmt.Fprintf(&b, "decoys=%d sam_launches=%d tower_flips=%d player_damage=%.0f down=%t\n",
		s.DecoysDropped, s.SAMLaunches, s.TowerFlips, s.PlayerDamage, s.PlayerDown)

	timeline := cl.FilterFrameRange(fromFrame, toFrame)
	b.WriteString("timeline:\n")
	if len(timeline) == 0 {
		b.WriteString("  (no events)\n")
	}
	for _, e := range timeline {
		b.WriteString("  ")
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}

func formatCounts(m map[string]int) string {
	if len(m) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, m[k])
	}
	return strings.Join(parts, " ")
}

func frameString(f uint64) string {
	if f == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%d", f)
}
