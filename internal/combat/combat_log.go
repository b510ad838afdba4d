package combat

import (
	"fmt"
	"strings"
)

// CombatLogEntry is one recorded combat event.
type CombatLogEntry struct {
	Frame    uint64
	Category string  // weapon, lock, hit, kill, defense, decoy, tower, player
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[F=00042] lock     state            ACQ -> LOCK air#3
func (e CombatLogEntry) String() string {
	return fmt.Sprintf("[F=%05d] %-8s %-16s %s", e.Frame, e.Category, e.Key, e.Value)
}

// CombatLog collects structured events for tests and reports. Unlike the
// zerolog stream it is unbounded and machine-readable. A nil *CombatLog
// discards everything.
type CombatLog struct {
	entries []CombatLogEntry
}

// NewCombatLog creates an empty log.
func NewCombatLog() *CombatLog {
	return &CombatLog{}
}

// Add records a new entry.
func (cl *CombatLog) Add(frame uint64, category, key, value string, numVal float64) {
	if cl == nil {
		return
	}
	cl.entries = append(cl.entries, CombatLogEntry{
		Frame:    frame,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// Entries returns all recorded entries.
func (cl *CombatLog) Entries() []CombatLogEntry {
	if cl == nil {
		return nil
	}
	return cl.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (cl *CombatLog) Filter(category, key string) []CombatLogEntry {
	var out []CombatLogEntry
	for _, e := range cl.Entries() {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterFrameRange returns entries within [from, to] inclusive.
func (cl *CombatLog) FilterFrameRange(from, to uint64) []CombatLogEntry {
	var out []CombatLogEntry
	for _, e := range cl.Entries() {
		if e.Frame >= from && e.Frame <= to {
			out = append(out, e)
		}
	}
	return out
}

// Count returns how many entries match the given category and key.
func (cl *CombatLog) Count(category, key string) int {
	return len(cl.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (cl *CombatLog) LastOf(category, key string) (CombatLogEntry, bool) {
	entries := cl.Filter(category, key)
	if len(entries) == 0 {
		return CombatLogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (cl *CombatLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range cl.Entries() {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (cl *CombatLog) Format() string {
	var sb strings.Builder
	for _, e := range cl.Entries() {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary returns a short human-readable summary of the world state.
func (cl *CombatLog) Summary(w *World) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at F=%05d (t=%.1fs) ---\n", w.frame, w.clock)
	if w.Player != nil {
		hp, max := w.Player.Health()
		fmt.Fprintf(&sb, "Player: hp=%.0f/%.0f pos=%s\n", hp, max, w.Player.Pos)
	}
	fmt.Fprintf(&sb, "Alive: air=%d tower_aa=%d scattered_aa=%d sam=%d bunker=%d\n",
		w.Registry.Count(CategoryAir), w.Registry.Count(CategoryTowerAA),
		w.Registry.Count(CategoryScatteredAA), w.Registry.Count(CategorySAM),
		w.Registry.Count(CategoryBunker))
	fmt.Fprintf(&sb, "Score: hits=%d kills=%d\n", w.hits, w.kills)

	var ammo []string
	for _, k := range w.Loadout.Slots() {
		ammo = append(ammo, fmt.Sprintf("%s=%d", k, w.Loadout.Ammo(k)))
	}
	fmt.Fprintf(&sb, "Ammo: %s  decoys=%d\n", strings.Join(ammo, " "), w.CM.Stock)

	lock := w.lockFor(w.Loadout.Selected())
	fmt.Fprintf(&sb, "Lock: %s %s %s t=%.2f\n", lock.Weapon, lock.Status, lock.Target, lock.Timer)
	return sb.String()
}
