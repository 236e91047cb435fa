package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-racer/audio"
	"github.com/lixenwraith/vi-racer/clock"
	"github.com/lixenwraith/vi-racer/config"
	"github.com/lixenwraith/vi-racer/core"
	"github.com/lixenwraith/vi-racer/game"
	"github.com/lixenwraith/vi-racer/platform"
	"github.com/lixenwraith/vi-racer/quality"
	"github.com/lixenwraith/vi-racer/render"
	"github.com/lixenwraith/vi-racer/status"
)

var (
	configFlag  = flag.String("config", "", "Path to a TOML config file")
	debugFlag   = flag.Bool("debug", false, "Write a debug log to logs/vi-racer.log")
	vehicleFlag = flag.String("vehicle", "", "Preselect a vehicle preset by name")
	qualityFlag = flag.String("quality", "", "Initial quality tier: auto, low, medium, high")
	bridgeFlag  = flag.String("bridge", "", "Host bridge websocket URL, e.g. ws://127.0.0.1:9000/bridge")
	playerFlag  = flag.String("player", "", "Player name shown in shared results")
	fpsFlag     = flag.Int("fps", 0, "Target frame rate")
	muteFlag    = flag.Bool("mute", false, "Start with sound off")
)

func main() {
	// Panic Recovery: Ensure terminal is reset even if the game crashes
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	flag.Parse()

	logFile := setupLogging(*debugFlag)
	if logFile != nil {
		defer logFile.Close()
	}
	logger := newLogger(logFile)

	cfg, err := loadConfig()
	if err != nil {
		fatal(logger, "configuration", err)
	}
	presets, err := cfg.Presets()
	if err != nil {
		fatal(logger, "vehicle presets", err)
	}
	keys, err := cfg.KeyMap()
	if err != nil {
		fatal(logger, "key bindings", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fatal(logger, "terminal", err)
	}
	if err := screen.Init(); err != nil {
		fatal(logger, "terminal", err)
	}
	core.RegisterTerminal(screen)
	// Normal exit terminal cleanup
	defer func() {
		core.RegisterTerminal(nil)
		screen.Fini()
	}()
	screen.SetStyle(render.StyleBackground)
	screen.HideCursor()

	// Audio failure is not fatal: the game runs silent
	haptics := audio.NewHaptics(cfg.AudioConfig(), logger)
	if err := haptics.Start(); err != nil {
		logger.Warn("audio start failed, continuing without audio", "err", err)
	}
	defer haptics.Stop()

	platforms := platform.Multi{haptics}
	var publisher game.Publisher
	if cfg.Bridge.URL != "" {
		bridge := connectBridge(cfg.BridgeConfig(), logger)
		defer bridge.Close()
		platforms = append(platforms, bridge)
		publisher = bridge
	}

	caps := quality.DetectCapabilities()
	tier := cfg.InitialTier(caps)
	logger.Info("starting",
		"cores", caps.CoreCount, "memory", caps.EstimatedMemory, "tier", tier,
		"vehicle", cfg.Race.Vehicle, "laps", cfg.Race.Laps, "bridge", cfg.Bridge.URL != "")

	renderer := render.NewTerminal(screen, logger)
	session, err := game.NewSession(game.Options{
		Physics:   cfg.PhysicsParams(),
		Presets:   presets,
		Vehicle:   cfg.Race.Vehicle,
		TotalLaps: cfg.Race.Laps,
		Player:    cfg.Player.Name,
		Hold:      cfg.Hold(),
		KeyMap:    keys,
		Platform:  platforms,
		Publisher: publisher,
		Audio:     haptics,
		Renderer:  renderer,
		Tier:      tier,
		Status:    status.NewRegistry(),
		Logger:    logger,
	})
	if err != nil {
		screen.Fini()
		fatal(logger, "session", err)
	}

	run(screen, session, renderer, cfg.Race.TargetFPS)
	logger.Info("exit", "frames", session.FrameNumber(), "faults", session.Faults())
}

// loadConfig layers flags over the file and environment configuration
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configFlag)
	if err != nil {
		return nil, err
	}
	if *vehicleFlag != "" {
		cfg.Race.Vehicle = *vehicleFlag
	}
	if *qualityFlag != "" {
		cfg.Quality.Tier = strings.ToLower(*qualityFlag)
	}
	if *bridgeFlag != "" {
		cfg.Bridge.URL = *bridgeFlag
	}
	if *playerFlag != "" {
		cfg.Player.Name = *playerFlag
	}
	if *fpsFlag > 0 {
		cfg.Race.TargetFPS = *fpsFlag
	}
	if *muteFlag {
		cfg.Audio.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// connectBridge dials the host once; an unreachable host leaves the bridge as a no-op
func connectBridge(cfg platform.BridgeConfig, logger *log.Logger) *platform.Bridge {
	bridge := platform.NewBridge(cfg, logger)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HandshakeTimeout)
	defer cancel()
	if err := bridge.Connect(ctx); err != nil {
		logger.Warn("host bridge unavailable", "url", cfg.URL, "err", err)
	}
	return bridge
}

// run is the main loop: terminal events and frame pacing multiplexed on one goroutine
func run(screen tcell.Screen, session *game.Session, renderer *render.Terminal, targetFPS int) {
	eventChan := make(chan tcell.Event, 256)
	// poller exits when the screen is finalized
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	})

	limiter := clock.NewFrameLimiter(nil, targetFPS)
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case ev := <-eventChan:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !session.HandleKey(ev) {
					return
				}
			case *tcell.EventResize:
				renderer.Resize()
			}

		case <-timer.C:
			if limiter.ShouldRender() {
				session.Frame()
			}
			timer.Reset(max(limiter.Wait(), time.Millisecond))
		}
	}
}

// fatal reports a startup error once on stderr and exits 1
func fatal(logger *log.Logger, what string, err error) {
	logger.Error("startup failed", "stage", what, "err", err)
	fmt.Fprintf(os.Stderr, "vi-racer: %s: %v\n", what, err)
	os.Exit(1)
}
