package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Garsondee/Air-Sense/internal/audio"
	"github.com/Garsondee/Air-Sense/internal/config"
	"github.com/Garsondee/Air-Sense/internal/feed"
	"github.com/Garsondee/Air-Sense/internal/game"
	"github.com/Garsondee/Air-Sense/internal/logging"
)

func main() {
	var (
		configPath string
		scenario   string
		seed       int64
		serve      string
		auto       bool
		mute       bool
	)
	flag.StringVar(&configPath, "config", "", "tuning file (yaml, json or toml)")
	flag.StringVar(&scenario, "scenario", "strike", "sortie: "+game.ScenarioNames())
	flag.Int64Var(&seed, "seed", -1, "spawner seed (0 disables spawning, -1 uses the config value)")
	flag.StringVar(&serve, "serve", "", "spectator feed address, e.g. :8080")
	flag.BoolVar(&auto, "auto", false, "start in autopilot demo mode")
	flag.BoolVar(&mute, "mute", false, "disable lock tones")
	flag.Parse()

	cfg, cfgErr := config.Load(configPath)
	if cfgErr != nil && !errors.Is(cfgErr, config.ErrNotFound) {
		log.Fatal().Err(cfgErr).Msg("load config")
	}

	opts := logging.Options{Level: cfg.LogLevel, Console: os.Stderr}
	if cfg.LogFile != "" {
		logFile, err := logging.OpenFile(cfg.LogFile)
		if err != nil {
			log.Fatal().Err(err).Msg("open log file")
		}
		defer logFile.Close()
		opts.File = logFile
	}
	logger := logging.Setup(opts)
	if errors.Is(cfgErr, config.ErrNotFound) {
		logger.Warn().Str("path", configPath).Msg("config file not found, using defaults")
	}
	if seed < 0 {
		seed = cfg.Seed
	}

	gopts := []game.Option{
		game.WithScenario(scenario, seed),
		game.WithCombatConfig(cfg.Combat),
		game.WithLogger(logger),
		game.WithAutopilot(auto),
	}

	if !mute {
		tones := audio.NewCockpit()
		if err := tones.Initialize(); err != nil {
			logger.Warn().Err(err).Msg("audio unavailable, lock tones disabled")
		} else {
			defer tones.Close()
			gopts = append(gopts, game.WithTones(tones))
		}
	}

	if serve == "" {
		serve = cfg.Feed
	}
	if serve != "" {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		hub := feed.NewHub(logger)
		go hub.Run(ctx)
		mux := http.NewServeMux()
		mux.HandleFunc("/ws", hub.HandleWebSocket)
		go func() {
			logger.Info().Str("addr", serve).Msg("spectator feed listening")
			if err := http.ListenAndServe(serve, mux); err != nil {
				logger.Error().Err(err).Msg("spectator feed stopped")
			}
		}()
		gopts = append(gopts, game.WithPublisher(hub))
	}

	g, err := game.New(gopts...)
	if err != nil {
		logger.Fatal().Err(err).Msg("start sortie")
	}

	ebiten.SetWindowTitle("Air Sense")
	ebiten.SetWindowSize(1280, 800)
	if err := ebiten.RunGame(g); err != nil {
		logger.WithLevel(zerolog.FatalLevel).Err(err).Msg("game loop")
		os.Exit(1)
	}
}
