package game

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"github.com/Garsondee/Air-Sense/internal/combat"
)

const (
	screenWidth  = 1280
	screenHeight = 800
	mapWidth     = screenWidth - logPanelWidth

	// hudScale is the integer upscale factor applied to the HUD text buffer.
	hudScale = 2

	frameDt          = 1.0 / 60.0
	publishEvery     = 6 // frames between spectator snapshots
	warningRange     = 3000.0
	defaultZoom      = 0.08 // pixels per metre
	zoomMin, zoomMax = 0.01, 1.0
)

var simSpeeds = []float64{0, 0.5, 1, 2, 4}

// ToneSink receives the cockpit tone state once per frame.
type ToneSink interface {
	Update(lock combat.LockState, lockTime float64, warning bool)
}

// Publisher streams the run to spectators.
type Publisher interface {
	Publish(s combat.Snapshot)
	PublishEvents(entries []combat.CombatLogEntry)
}

// Game is the windowed front end: keyboard in, top-down tactical view out.
type Game struct {
	scenario string
	seed     int64
	cfg      combat.Config
	log      zerolog.Logger

	sim    *combat.TestSim
	world  *combat.World
	events *EventLog
	fx     []fxSprite

	keys      keySource
	pilot     pilotInput
	autopilot *Autopilot
	autoOn    bool

	tones     ToneSink
	publisher Publisher

	showHUD   bool
	camZoom   float64
	simSpeed  float64
	tickAccum float64
	status    string
	statusTTL int

	hudBuf *ebiten.Image
}

// Option customises a Game.
type Option func(*Game)

// WithScenario picks the sortie and spawner seed (0 disables spawning).
func WithScenario(name string, seed int64) Option {
	return func(g *Game) { g.scenario, g.seed = name, seed }
}

// WithCombatConfig replaces the stock tuning.
func WithCombatConfig(cfg combat.Config) Option {
	return func(g *Game) { g.cfg = cfg }
}

// WithLogger routes simulation logs.
func WithLogger(l zerolog.Logger) Option {
	return func(g *Game) { g.log = l }
}

// WithTones attaches the lock tone player.
func WithTones(t ToneSink) Option {
	return func(g *Game) { g.tones = t }
}

// WithPublisher streams snapshots and events.
func WithPublisher(p Publisher) Option {
	return func(g *Game) { g.publisher = p }
}

// WithAutopilot starts the sortie in demo mode.
func WithAutopilot(on bool) Option {
	return func(g *Game) { g.autoOn = on }
}

// New builds the front end and its first sortie.
func New(opts ...Option) (*Game, error) {
	g := &Game{
		scenario:  "strike",
		seed:      1,
		cfg:       combat.DefaultConfig(),
		log:       zerolog.Nop(),
		keys:      ebitenKeys{},
		autopilot: NewAutopilot(),
		showHUD:   true,
		camZoom:   defaultZoom,
		simSpeed:  1,
	}
	for _, o := range opts {
		o(g)
	}
	if err := g.restart(); err != nil {
		return nil, err
	}
	return g, nil
}

// restart rebuilds the sortie from scratch.
func (g *Game) restart() error {
	sim, err := NewSortie(g.scenario, g.cfg, g.seed, combat.WithSimLogger(g.log))
	if err != nil {
		return err
	}
	g.sim = sim
	g.world = sim.World
	g.events = NewEventLog()
	g.fx = nil
	g.pilot = pilotInput{}
	g.autopilot = NewAutopilot()
	g.log.Info().Str("scenario", g.scenario).Int64("seed", g.seed).Msg("sortie started")
	return nil
}

// World exposes the running simulation.
func (g *Game) World() *combat.World { return g.world }

// Report renders the current sortie report.
func (g *Game) Report() string {
	return SortieReport(g.world, g.scenario, g.seed, 600)
}

func (g *Game) Update() error {
	// Input is handled every frame regardless of sim speed.
	if err := g.handleInput(); err != nil {
		return err
	}
	if g.statusTTL > 0 {
		g.statusTTL--
	}
	if g.simSpeed <= 0 {
		g.ageEffects()
		return nil
	}

	// Speeds above 1 run several ticks per frame; below 1 accumulate.
	g.tickAccum += g.simSpeed
	for g.tickAccum >= 1.0 {
		g.tickAccum -= 1.0
		g.simTick()
	}
	return nil
}

// simTick runs one simulation frame and fans its results out.
func (g *Game) simTick() {
	var in combat.Controls
	if g.autoOn {
		in = g.autopilot.Controls(g.world)
	} else {
		in = g.pilot.read(g.keys, g.world.Loadout.Selected(), frameDt)
	}
	g.world.Step(frameDt, in)

	fresh := g.events.Sync(g.world.Events())
	for _, e := range g.world.DrainEffects() {
		g.fx = append(g.fx, newFxSprite(e))
	}
	g.ageEffects()

	if g.tones != nil {
		lockTime := 0.0
		cfg := g.world.Config()
		if spec, ok := cfg.Weapon(g.world.Loadout.Selected()); ok {
			lockTime = spec.LockTime
		}
		g.tones.Update(g.world.Lock(), lockTime, g.missileWarning())
	}
	if g.publisher != nil {
		g.publisher.PublishEvents(fresh)
		if g.world.Frame()%publishEvery == 0 {
			g.publisher.Publish(g.world.Snapshot())
		}
	}
}

// missileWarning reports a player-seeking round inside warning range.
func (g *Game) missileWarning() bool {
	p := g.world.Player
	if p == nil || p.Dead() {
		return false
	}
	for _, pr := range g.world.Projectiles() {
		if pr.PlayerSeeking && combat.DistSq(pr.Pos, p.Pos) < warningRange*warningRange {
			return true
		}
	}
	return false
}

// handleInput processes the front end's own keys (edge-triggered).
func (g *Game) handleInput() error {
	k := g.keys
	if k.JustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if k.JustPressed(ebiten.KeyT) {
		g.autoOn = !g.autoOn
		g.setStatus(fmt.Sprintf("autopilot %s", onOff(g.autoOn)))
	}
	if k.JustPressed(ebiten.KeyR) {
		if err := g.restart(); err != nil {
			return err
		}
		g.setStatus("sortie restarted")
	}
	if k.JustPressed(ebiten.KeyC) {
		if err := CopyReport(g.Report()); err != nil {
			g.log.Warn().Err(err).Msg("report not copied")
			g.setStatus("clipboard unavailable")
		} else {
			g.setStatus("report copied to clipboard")
		}
	}

	// Camera zoom: mouse wheel or =/- keys.
	if _, wy := ebiten.Wheel(); wy != 0 {
		g.camZoom *= math.Pow(1.12, wy)
	}
	if k.JustPressed(ebiten.KeyEqual) {
		g.camZoom *= 1.25
	}
	if k.JustPressed(ebiten.KeyMinus) {
		g.camZoom /= 1.25
	}
	g.camZoom = max(zoomMin, min(zoomMax, g.camZoom))

	// Sim speed: P=pause/resume, ,=slower, .=faster.
	if k.JustPressed(ebiten.KeyP) {
		if g.simSpeed > 0 {
			g.simSpeed = 0
		} else {
			g.simSpeed = 1
		}
	}
	if k.JustPressed(ebiten.KeyComma) {
		for i, s := range simSpeeds {
			if s >= g.simSpeed && i > 0 {
				g.simSpeed = simSpeeds[i-1]
				break
			}
		}
	}
	if k.JustPressed(ebiten.KeyPeriod) {
		for _, s := range simSpeeds {
			if s > g.simSpeed {
				g.simSpeed = s
				break
			}
		}
	}
	return nil
}

func (g *Game) setStatus(s string) {
	g.status = s
	g.statusTTL = 180
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (g *Game) Layout(_, _ int) (int, int) {
	return screenWidth, screenHeight
}
