package game

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Air-Sense/internal/combat"
)

const (
	terrainCell = 40 // pixels per terrain shade sample
	gridMetres  = 1000.0
	fxLifetime  = 45 // frames
)

var (
	colPlayer   = color.RGBA{R: 110, G: 240, B: 120, A: 255}
	colFriendly = color.RGBA{R: 80, G: 140, B: 255, A: 255}
	colHostile  = color.RGBA{R: 240, G: 70, B: 60, A: 255}
	colPlayerRd = color.RGBA{R: 250, G: 220, B: 90, A: 255}
	colFlak     = color.RGBA{R: 255, G: 150, B: 40, A: 255}
	colDecoy    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// categoryFill colours installation markers.
var categoryFill = map[combat.Category]color.RGBA{
	combat.CategoryTowerAA:     {R: 220, G: 120, B: 60, A: 255},
	combat.CategoryScatteredAA: {R: 230, G: 170, B: 60, A: 255},
	combat.CategorySAM:         {R: 230, G: 60, B: 160, A: 255},
	combat.CategoryBunker:      {R: 150, G: 140, B: 120, A: 255},
}

// lockColors colours the lock box by state.
var lockColors = map[combat.LockStatus]color.RGBA{
	combat.LockAcquiring: {R: 250, G: 220, B: 90, A: 255},
	combat.LockLocked:    {R: 240, G: 60, B: 60, A: 255},
	combat.LockOut:       {R: 140, G: 140, B: 140, A: 255},
}

// fxSprite is an expanding ring for an explosion, kill, impact or launch.
type fxSprite struct {
	e   combat.Effect
	age int
}

func newFxSprite(e combat.Effect) fxSprite { return fxSprite{e: e} }

func (g *Game) ageEffects() {
	kept := g.fx[:0]
	for _, f := range g.fx {
		f.age++
		if f.age < fxLifetime {
			kept = append(kept, f)
		}
	}
	g.fx = kept
}

// camera maps world metres to map pixels centred on the player, +Y up.
type camera struct {
	cx, cy float64 // world centre
	zoom   float64
}

func (c camera) toScreen(p combat.Vec3) (float32, float32) {
	return float32(mapWidth/2 + (p.X-c.cx)*c.zoom), float32(screenHeight/2 - (p.Y-c.cy)*c.zoom)
}

func (c camera) toWorld(sx, sy float64) (float64, float64) {
	return c.cx + (sx-mapWidth/2)/c.zoom, c.cy - (sy-screenHeight/2)/c.zoom
}

func (g *Game) camera() camera {
	c := camera{zoom: g.camZoom}
	if p := g.world.Player; p != nil {
		c.cx, c.cy = p.Pos.X, p.Pos.Y
	}
	return c
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 12, G: 14, B: 18, A: 255})
	cam := g.camera()

	g.drawTerrain(screen, cam)
	g.drawGrid(screen, cam)
	g.drawTowers(screen, cam)
	g.drawTargets(screen, cam)
	g.drawRounds(screen, cam)
	g.drawEffects(screen, cam)
	g.drawPlayer(screen, cam)
	g.drawLock(screen, cam)

	g.events.Draw(screen, mapWidth, screenHeight)
	if g.showHUD {
		g.drawHUD(screen)
	}
	if g.statusTTL > 0 {
		drawText(screen, g.status, 12, 10, color.White)
	}
}

// drawTerrain shades coarse cells by elevation.
func (g *Game) drawTerrain(screen *ebiten.Image, cam camera) {
	if g.world.Terrain == nil {
		return
	}
	for sy := 0; sy < screenHeight; sy += terrainCell {
		for sx := 0; sx < mapWidth; sx += terrainCell {
			wx, wy := cam.toWorld(float64(sx+terrainCell/2), float64(sy+terrainCell/2))
			h := g.world.Terrain.Height(wx, wy)
			shade := uint8(max(0, min(60, 30+h/8)))
			vector.FillRect(screen, float32(sx), float32(sy), terrainCell, terrainCell,
				color.RGBA{R: 20 + shade/3, G: 30 + shade, B: 22 + shade/4, A: 255}, false)
		}
	}
}

func (g *Game) drawGrid(screen *ebiten.Image, cam camera) {
	step := gridMetres * cam.zoom
	if step < 8 {
		return
	}
	col := color.RGBA{R: 60, G: 80, B: 60, A: 120}
	x0, y0 := cam.toWorld(0, 0)
	for x := math.Floor(x0/gridMetres) * gridMetres; ; x += gridMetres {
		sx, _ := cam.toScreen(combat.V(x, 0, 0))
		if sx > mapWidth {
			break
		}
		vector.StrokeLine(screen, sx, 0, sx, screenHeight, 1, col, false)
	}
	for y := math.Ceil(y0/gridMetres) * gridMetres; ; y -= gridMetres {
		_, sy := cam.toScreen(combat.V(0, y, 0))
		if sy > screenHeight {
			break
		}
		vector.StrokeLine(screen, 0, sy, mapWidth, sy, 1, col, false)
	}
}

func (g *Game) drawTowers(screen *ebiten.Image, cam camera) {
	cfg := g.world.Config()
	for _, t := range g.world.Towers {
		x, y := cam.toScreen(t.Pos)
		col, ring := colFriendly, color.RGBA{R: 80, G: 140, B: 255, A: 90}
		if t.Hostile {
			col, ring = colHostile, color.RGBA{R: 255, G: 90, B: 80, A: 90}
		}
		// the tower's own guns hold fire inside this ring
		vector.StrokeCircle(screen, x, y, float32(cfg.NoFireRadius*cam.zoom), 1, ring, true)
		vector.FillCircle(screen, x, y, max(3, float32(t.Radius*cam.zoom)), col, true)
	}
}

// drawTargets draws installations and airborne vehicles with health bars.
func (g *Game) drawTargets(screen *ebiten.Image, cam camera) {
	g.world.Registry.Each(combat.AllCategories, func(t combat.Target) bool {
		x, y := cam.toScreen(t.Position())
		cat := t.Handle().Category
		if cat == combat.CategoryAir {
			v := t.(*combat.Vehicle)
			drawArrow(screen, x, y, v.Heading, max(5, float32(v.Radius*cam.zoom)), colHostile)
		} else {
			vector.FillRect(screen, x-4, y-4, 8, 8, categoryFill[cat], false)
			vector.StrokeRect(screen, x-4, y-4, 8, 8, 1, color.Black, false)
		}
		hp, maxHP := t.Health()
		if maxHP > 0 && hp < maxHP {
			frac := float32(max(0, hp/maxHP))
			vector.FillRect(screen, x-8, y+7, 16, 2, color.RGBA{R: 60, G: 20, B: 20, A: 255}, false)
			vector.FillRect(screen, x-8, y+7, 16*frac, 2, colPlayer, false)
		}
		return true
	})
}

func (g *Game) drawRounds(screen *ebiten.Image, cam camera) {
	for _, p := range g.world.Projectiles() {
		col := colPlayerRd
		if p.Owner != combat.OwnerPlayer {
			col = colHostile
		}
		trail := color.RGBA{R: col.R, G: col.G, B: col.B, A: 90}
		for i := 1; i < len(p.Trail); i++ {
			x0, y0 := cam.toScreen(p.Trail[i-1])
			x1, y1 := cam.toScreen(p.Trail[i])
			vector.StrokeLine(screen, x0, y0, x1, y1, 1, trail, true)
		}
		x, y := cam.toScreen(p.Pos)
		vector.FillCircle(screen, x, y, 2, col, true)
	}
	for _, f := range g.world.Flak() {
		x, y := cam.toScreen(f.Pos)
		vector.FillCircle(screen, x, y, 1.5, colFlak, false)
	}
	for _, d := range g.world.CM.Live() {
		if d.Gone() {
			continue
		}
		x, y := cam.toScreen(d.Pos)
		vector.FillCircle(screen, x, y, 2.5, colDecoy, true)
	}
}

func (g *Game) drawEffects(screen *ebiten.Image, cam camera) {
	for _, f := range g.fx {
		x, y := cam.toScreen(f.e.Pos)
		t := float32(f.age) / fxLifetime
		r := max(3, float32(f.e.Size*cam.zoom)*4) * (0.3 + t)
		col := colFlak
		switch f.e.Kind {
		case combat.EffectKill:
			col = colHostile
			r *= 2
		case combat.EffectImpact:
			col = colDecoy
		case combat.EffectLaunch:
			col = categoryFill[combat.CategorySAM]
		}
		col.A = uint8(255 * (1 - t))
		vector.StrokeCircle(screen, x, y, r, 2, col, true)
	}
}

func (g *Game) drawPlayer(screen *ebiten.Image, cam camera) {
	p := g.world.Player
	if p == nil {
		return
	}
	x, y := cam.toScreen(p.Pos)
	col := colPlayer
	if p.Dead() {
		col = color.RGBA{R: 90, G: 90, B: 90, A: 255}
	}
	drawArrow(screen, x, y, p.Heading, 8, col)
}

// drawLock draws the selected weapon's cone and the lock box.
func (g *Game) drawLock(screen *ebiten.Image, cam camera) {
	p := g.world.Player
	if p == nil || p.Dead() {
		return
	}
	cfg := g.world.Config()
	spec, ok := cfg.Weapon(g.world.Loadout.Selected())
	if !ok {
		return
	}
	x, y := cam.toScreen(p.Pos)
	reach := spec.LockRange
	if reach <= 0 {
		reach = 3000
	}
	cone := spec.LockConeDeg * math.Pi / 180
	coneCol := color.RGBA{R: 110, G: 240, B: 120, A: 60}
	for _, side := range []float64{-1, 1} {
		h := p.Heading + side*cone
		ex, ey := cam.toScreen(p.Pos.Add(combat.V(math.Cos(h)*reach, math.Sin(h)*reach, 0)))
		vector.StrokeLine(screen, x, y, ex, ey, 1, coneCol, true)
	}

	l := g.world.Lock()
	if !l.Target.Valid() {
		return
	}
	col, ok := lockColors[l.Status]
	if !ok {
		return
	}
	tx, ty := cam.toScreen(l.Aim)
	vector.StrokeRect(screen, tx-9, ty-9, 18, 18, 1.5, col, false)
	if l.Status == combat.LockAcquiring && spec.LockTime > 0 {
		frac := float32(min(1, l.Timer/spec.LockTime))
		vector.FillRect(screen, tx-9, ty+11, 18*frac, 2, col, false)
	}
}

// drawArrow draws a heading triangle; heading is counter-clockwise from +X.
func drawArrow(dst *ebiten.Image, x, y float32, heading float64, size float32, col color.Color) {
	pt := func(a float64, r float32) (float32, float32) {
		return x + r*float32(math.Cos(a)), y - r*float32(math.Sin(a))
	}
	nx, ny := pt(heading, size)
	lx, ly := pt(heading+2.5, size*0.7)
	rx, ry := pt(heading-2.5, size*0.7)
	vector.StrokeLine(dst, nx, ny, lx, ly, 1.5, col, true)
	vector.StrokeLine(dst, lx, ly, rx, ry, 1.5, col, true)
	vector.StrokeLine(dst, rx, ry, nx, ny, 1.5, col, true)
}

// hudLines is the cockpit readout.
func (g *Game) hudLines() []string {
	w := g.world
	p := w.Player
	floor := 0.0
	if w.Terrain != nil {
		floor = w.Terrain.Height(p.Pos.X, p.Pos.Y)
	}
	hp, maxHP := p.Health()
	sel := w.Loadout.Selected()
	l := w.Lock()

	var slots []string
	for i, k := range w.Loadout.Slots() {
		mark := " "
		if k == sel {
			mark = ">"
		}
		slots = append(slots, fmt.Sprintf("%s%d %s:%d", mark, i+1, k, w.Loadout.Ammo(k)))
	}

	speed := "1x"
	switch {
	case g.simSpeed == 0:
		speed = "PAUSED"
	case g.simSpeed != 1:
		speed = fmt.Sprintf("%.1fx", g.simSpeed)
	}

	lines := []string{
		fmt.Sprintf("SORTIE %s  F=%d  %s  auto=%s", g.scenario, w.Frame(), speed, onOff(g.autoOn)),
		fmt.Sprintf("HP %3.0f/%3.0f  SPD %3.0f  ALT %4.0f AGL %4.0f", hp, maxHP, p.Speed, p.Pos.Z, p.Pos.Z-floor),
		strings.Join(slots, " "),
		fmt.Sprintf("LOCK %-4s %s  t=%.2f  d=%.0f", l.Status, l.Target, l.Timer, l.Dist),
		fmt.Sprintf("DECOYS %d  HITS %d  KILLS %d", w.CM.Stock, w.Hits(), w.Kills()),
	}
	if g.missileWarning() {
		lines = append(lines, "!! MISSILE !!")
	}
	lines = append(lines,
		"arrows/AD stick  QE rudder  WS throttle",
		"SPACE fire  TAB cycle  1-5 weapon  F decoy",
		"T auto  P pause  ,/. speed  C copy  R restart  H hud",
	)
	return lines
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	lines := g.hudLines()

	const lineH = 14
	const charW = 7
	const padX, padY = 5, 4
	maxLen := 0
	for _, l := range lines {
		maxLen = max(maxLen, len(l))
	}
	boxW := float32(maxLen*charW + padX*2)
	boxH := float32(len(lines)*lineH + padY*2)

	if g.hudBuf == nil {
		g.hudBuf = ebiten.NewImage(mapWidth/hudScale, screenHeight/hudScale)
	}
	bufH := float32(screenHeight / hudScale)
	bx := float32(4)
	by := bufH - boxH - 4

	// Render at 1x, then scale up.
	g.hudBuf.Clear()
	vector.FillRect(g.hudBuf, bx, by, boxW, boxH, color.RGBA{R: 6, G: 8, B: 12, A: 210}, false)
	vector.StrokeRect(g.hudBuf, bx, by, boxW, boxH, 1.0, color.RGBA{R: 60, G: 90, B: 130, A: 180}, false)
	for i, line := range lines {
		col := color.Color(color.White)
		if strings.HasPrefix(line, "!!") {
			col = colHostile
		}
		drawText(g.hudBuf, line, int(bx)+padX, int(by)+padY+i*lineH, col)
	}

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(hudScale, hudScale)
	screen.DrawImage(g.hudBuf, opts)
}
