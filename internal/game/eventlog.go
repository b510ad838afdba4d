package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Air-Sense/internal/combat"
)

const (
	logPanelWidth = 360
	logMaxEntries = 60
	logLineHeight = 14
)

var hudFace = text.NewGoXFace(basicfont.Face7x13)

// categoryColors tints the panel's marker per event category.
var categoryColors = map[string]color.RGBA{
	"weapon":  {R: 230, G: 200, B: 80, A: 255},
	"lock":    {R: 90, G: 200, B: 240, A: 255},
	"hit":     {R: 240, G: 140, B: 60, A: 255},
	"kill":    {R: 240, G: 70, B: 70, A: 255},
	"defense": {R: 200, G: 90, B: 200, A: 255},
	"decoy":   {R: 250, G: 250, B: 250, A: 255},
	"tower":   {R: 255, G: 60, B: 160, A: 255},
	"player":  {R: 120, G: 240, B: 120, A: 255},
}

// EventLog is a ring buffer of recent combat events rendered on-screen.
type EventLog struct {
	entries []combat.CombatLogEntry
	head    int
	count   int
	seen    int // entries already pulled from the world's combat log
}

// NewEventLog creates an event log with a fixed capacity.
func NewEventLog() *EventLog {
	return &EventLog{entries: make([]combat.CombatLogEntry, logMaxEntries)}
}

// Add appends an entry, overwriting the oldest when full.
func (el *EventLog) Add(e combat.CombatLogEntry) {
	el.entries[el.head] = e
	el.head = (el.head + 1) % logMaxEntries
	if el.count < logMaxEntries {
		el.count++
	}
}

// Sync pulls entries recorded since the last call and returns them.
func (el *EventLog) Sync(cl *combat.CombatLog) []combat.CombatLogEntry {
	all := cl.Entries()
	if el.seen > len(all) {
		el.seen = 0
	}
	fresh := all[el.seen:]
	for _, e := range fresh {
		el.Add(e)
	}
	el.seen = len(all)
	return fresh
}

// Recent returns entries in chronological order (oldest first).
func (el *EventLog) Recent() []combat.CombatLogEntry {
	result := make([]combat.CombatLogEntry, el.count)
	for i := 0; i < el.count; i++ {
		idx := (el.head - el.count + i + logMaxEntries) % logMaxEntries
		result[i] = el.entries[idx]
	}
	return result
}

// Draw renders the event panel at panelX.
func (el *EventLog) Draw(screen *ebiten.Image, panelX, panelH int) {
	px := float32(panelX)
	vector.FillRect(screen, px, 0, logPanelWidth, float32(panelH), color.RGBA{R: 10, G: 12, B: 16, A: 248}, false)
	vector.StrokeLine(screen, px, 0, px, float32(panelH), 1.0, color.RGBA{R: 50, G: 60, B: 80, A: 255}, false)

	vector.FillRect(screen, px, 0, logPanelWidth, 18, color.RGBA{R: 20, G: 26, B: 36, A: 255}, false)
	drawText(screen, "COMBAT LOG", panelX+8, 2, color.White)

	entries := el.Recent()
	maxVisible := (panelH - 24) / logLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}
	recent := 3

	y := 22
	for i, e := range entries {
		isRecent := i >= len(entries)-recent
		if isRecent {
			vector.FillRect(screen, px+2, float32(y), logPanelWidth-4, logLineHeight, color.RGBA{R: 30, G: 36, B: 50, A: 160}, false)
		}
		dot, ok := categoryColors[e.Category]
		if !ok {
			dot = color.RGBA{R: 150, G: 150, B: 150, A: 255}
		}
		vector.FillRect(screen, px+5, float32(y+4), 3, 6, dot, false)

		textCol := color.RGBA{R: 170, G: 170, B: 170, A: 255}
		if isRecent {
			textCol = color.RGBA{R: 255, G: 255, B: 255, A: 255}
		}
		drawText(screen, fmt.Sprintf("%5d %-7s %s", e.Frame, e.Key, e.Value), panelX+12, y, textCol)
		y += logLineHeight
	}
}

// drawText draws s with its top-left corner at (x, y).
func drawText(dst *ebiten.Image, s string, x, y int, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(c)
	text.Draw(dst, s, hudFace, op)
}
