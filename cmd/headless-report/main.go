package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Garsondee/Air-Sense/internal/combat"
	"github.com/Garsondee/Air-Sense/internal/config"
	"github.com/Garsondee/Air-Sense/internal/feed"
	"github.com/Garsondee/Air-Sense/internal/game"
	"github.com/Garsondee/Air-Sense/internal/logging"
)

type runStats struct {
	runIndex int
	seed     int64
	frames   uint64

	stats      game.SortieStats
	hits       int
	kills      int
	playerHP   float64
	ammoLeft   int
	groundLeft int
	airLeft    int
}

// publisher is the subset of the spectator hub a run streams to.
type publisher interface {
	Publish(s combat.Snapshot)
	PublishEvents(entries []combat.CombatLogEntry)
}

func main() {
	var (
		runs       int
		frames     int
		seedBase   int64
		seedStep   int64
		scenario   string
		configPath string
		copyOut    bool
		serve      string
		logLevel   string
	)
	flag.IntVar(&runs, "runs", 5, "number of headless sorties")
	flag.IntVar(&frames, "frames", 3600, "frames per sortie (60 per second)")
	flag.Int64Var(&seedBase, "seed-base", 42, "spawner seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenario, "scenario", "strike", "scenario name ("+game.ScenarioNames()+")")
	flag.StringVar(&configPath, "config", "", "tuning file (yaml, json or toml)")
	flag.BoolVar(&copyOut, "copy", false, "copy the report to the clipboard")
	flag.StringVar(&serve, "serve", "", "stream runs in real time to a spectator feed on this address")
	flag.StringVar(&logLevel, "log-level", "WARN", "simulation log level")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if frames <= 0 {
		fmt.Println("error: -frames must be > 0")
		return
	}
	cfg, err := config.Load(configPath)
	if err != nil && !errors.Is(err, config.ErrNotFound) {
		fmt.Printf("error: %v\n", err)
		return
	}
	if _, err := game.NewSortie(scenario, cfg.Combat, 0); err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	logger := logging.Setup(logging.Options{Level: logLevel, Console: os.Stderr})

	var pub publisher
	if serve != "" {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		hub := feed.NewHub(logger)
		go hub.Run(ctx)
		mux := http.NewServeMux()
		mux.HandleFunc("/ws", hub.HandleWebSocket)
		go func() {
			if err := http.ListenAndServe(serve, mux); err != nil {
				logger.Error().Err(err).Msg("spectator feed stopped")
			}
		}()
		logger.Info().Str("addr", serve).Msg("spectator feed listening")
		pub = hub
	}

	var out strings.Builder
	w := io.MultiWriter(os.Stdout, &out)

	fmt.Fprintf(w, "=== Headless Sortie Report ===\n")
	fmt.Fprintf(w, "scenario=%s runs=%d frames=%d seed_base=%d seed_step=%d\n\n", scenario, runs, frames, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		rs, err := runSortie(i+1, scenario, cfg.Combat, seed, frames, logger, pub)
		if err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
			return
		}
		all = append(all, rs)
		printRun(w, rs)
	}
	printAggregate(w, all)

	if copyOut {
		if err := game.CopyReport(out.String()); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		} else {
			fmt.Fprintln(os.Stderr, "report copied to clipboard")
		}
	}
}

// runSortie flies one autopilot sortie. With a publisher the run is paced
// at 60 Hz so spectators can follow it.
func runSortie(runIndex int, scenario string, cfg combat.Config, seed int64, frames int, logger zerolog.Logger, pub publisher) (runStats, error) {
	ts, err := game.NewSortie(scenario, cfg, seed, combat.WithSimLogger(logger))
	if err != nil {
		return runStats{}, err
	}
	ap := game.NewAutopilot()

	var tick *time.Ticker
	if pub != nil {
		tick = time.NewTicker(time.Second / 60)
		defer tick.Stop()
	}
	seen := 0
	for i := 0; i < frames; i++ {
		ts.World.Step(combat.Dt, ap.Controls(ts.World))
		if pub != nil {
			entries := ts.Events.Entries()
			pub.PublishEvents(entries[seen:])
			seen = len(entries)
			if i%6 == 0 {
				pub.Publish(ts.World.Snapshot())
			}
			<-tick.C
		}
		if ts.World.Player.Dead() || remainingTargets(ts.World) == 0 {
			break
		}
	}
	return collectStats(runIndex, seed, ts.World), nil
}

func collectStats(runIndex int, seed int64, w *combat.World) runStats {
	hp, _ := w.Player.Health()
	ammo := 0
	for _, n := range w.Loadout.Counts() {
		ammo += n
	}
	return runStats{
		runIndex:   runIndex,
		seed:       seed,
		frames:     w.Frame(),
		stats:      game.SummarizeEvents(w.Events().Entries()),
		hits:       w.Hits(),
		kills:      w.Kills(),
		playerHP:   hp,
		ammoLeft:   ammo,
		groundLeft: countCategories(w, combat.GroundCategories),
		airLeft:    countCategories(w, []combat.Category{combat.CategoryAir}),
	}
}

func countCategories(w *combat.World, cats []combat.Category) int {
	n := 0
	for _, c := range cats {
		n += w.Registry.Count(c)
	}
	return n
}

func remainingTargets(w *combat.World) int {
	return countCategories(w, combat.AllCategories)
}

// outcome classifies how a sortie ended.
func outcome(rs runStats) string {
	switch {
	case rs.stats.PlayerDown || rs.playerHP <= 0:
		return "shot_down"
	case rs.groundLeft == 0 && rs.airLeft == 0:
		return "area_cleared"
	case rs.ammoLeft == 0:
		return "winchester"
	default:
		return "time_out"
	}
}

func printRun(w io.Writer, rs runStats) {
	s := rs.stats
	fmt.Fprintf(w, "--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Fprintf(w, "outcome=%s frames=%d hp=%.0f hits=%d kills=%d remaining: ground=%d air=%d ammo=%d\n",
		outcome(rs), rs.frames, rs.playerHP, rs.hits, rs.kills, rs.groundLeft, rs.airLeft, rs.ammoLeft)
	fmt.Fprintf(w, "fired: %s\n", formatCounts(s.Fired))
	fmt.Fprintf(w, "kills_by: %s\n", formatCounts(s.KillsBy))
	fmt.Fprintf(w, "locks=%d lost=%d first_lock=%s first_kill=%s\n",
		s.Locks, s.LocksLost, frameString(s.FirstLockFrame), frameString(s.FirstKillFrame))
	fmt.Fprintf(w, "defense: sam_launches=%d decoys=%d tower_flips=%d player_damage=%.0f\n\n",
		s.SAMLaunches, s.DecoysDropped, s.TowerFlips, s.PlayerDamage)
}

type aggregate struct {
	runs        int
	outcomes    map[string]int
	fired       map[string]int
	killsBy     map[string]int
	hits, kills int
	damage      float64
	decoys      int
	firstLocks  []uint64
	firstKills  []uint64
}

func aggregateRuns(all []runStats) aggregate {
	a := aggregate{
		runs:     len(all),
		outcomes: map[string]int{},
		fired:    map[string]int{},
		killsBy:  map[string]int{},
	}
	for _, rs := range all {
		a.outcomes[outcome(rs)]++
		for k, n := range rs.stats.Fired {
			a.fired[k] += n
		}
		for k, n := range rs.stats.KillsBy {
			a.killsBy[k] += n
		}
		a.hits += rs.hits
		a.kills += rs.kills
		a.damage += rs.stats.PlayerDamage
		a.decoys += rs.stats.DecoysDropped
		if rs.stats.FirstLockFrame > 0 {
			a.firstLocks = append(a.firstLocks, rs.stats.FirstLockFrame)
		}
		if rs.stats.FirstKillFrame > 0 {
			a.firstKills = append(a.firstKills, rs.stats.FirstKillFrame)
		}
	}
	return a
}

func printAggregate(w io.Writer, all []runStats) {
	a := aggregateRuns(all)
	fmt.Fprintln(w, "=== Aggregate ===")
	fmt.Fprintf(w, "runs=%d outcomes: %s\n", a.runs, formatCounts(a.outcomes))
	fmt.Fprintf(w, "avg_per_run: hits=%.1f kills=%.1f decoys=%.1f player_damage=%.1f\n",
		avg(a.hits, a.runs), avg(a.kills, a.runs), avg(a.decoys, a.runs), avgFloat(a.damage, a.runs))
	fmt.Fprintf(w, "fired_total: %s\n", formatCounts(a.fired))
	fmt.Fprintf(w, "kills_total: %s\n", formatCounts(a.killsBy))
	fmt.Fprintf(w, "phase_marker_avg_frames: first_lock=%s first_kill=%s\n",
		avgFrameString(a.firstLocks), avgFrameString(a.firstKills))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgFloat(sum float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return sum / float64(n)
}

func avgFrameString(vals []uint64) string {
	if len(vals) == 0 {
		return "n/a"
	}
	var sum uint64
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func frameString(f uint64) string {
	if f == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%d", f)
}

func formatCounts(m map[string]int) string {
	if len(m) == 0 {
		return "none"
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
	return strings.Join(parts, ",")
}
