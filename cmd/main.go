package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/scheerer/wiz-lights/internal/config"
	"github.com/scheerer/wiz-lights/internal/effects"
	"github.com/scheerer/wiz-lights/internal/lights"
	"github.com/scheerer/wiz-lights/internal/lights/lifx"
	"github.com/scheerer/wiz-lights/internal/logging"
	"github.com/scheerer/wiz-lights/internal/runner"
	"github.com/scheerer/wiz-lights/internal/session"
	"github.com/scheerer/wiz-lights/internal/store"
	"github.com/scheerer/wiz-lights/internal/ui"
	"github.com/scheerer/wiz-lights/internal/wiz"
)

var logger = logging.New("main")

func main() {
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.With(zap.Error(err)).Fatal("Failed to load configuration")
	}
	logging.GetLeveler().SetAll(logging.ParseLevel(cfg.LogLevel))

	logger.With(zap.Any("config", cfg)).Debug("Starting wiz lights")
	logger.Debug("Adjust WIZ_BASE_IP or base_ip in WIZ_CONFIG_FILE to scan a different /24 prefix.")
	logger.Debug("Set LIFX_GROUP_NAME to mirror the lead bulb onto a LIFX group.")
	logger.Debug("Adjust COLOR_ALGO and PIXEL_GRID_SIZE for the screen effect. Valid algorithms are: [AVERAGE, SQUARED_AVERAGE, MEDIAN, MODE]")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdown
		logger.Info("Shutting down")
		cancel()
	}()

	if err := run(ctx, cfg); err != nil {
		logger.With(zap.Error(err)).Error("Exiting")
		logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	transport := wiz.UDPTransport{}

	var mirrors []lights.Mirror
	if cfg.LifxGroupName != "" {
		m, err := lifx.New(lifx.Config{
			GroupName:     cfg.LifxGroupName,
			MinBrightness: cfg.MinBrightness,
			MaxBrightness: cfg.MaxBrightness,
		})
		if err != nil {
			logger.With(zap.Error(err)).Warn("Failed to create LIFX client, not mirroring")
		} else {
			m.Start(ctx)
			defer m.Stop()
			mirrors = append(mirrors, m)
		}
	}

	commander := wiz.NewCommander(transport, cfg.SendTimeout, mirrors...)
	if err := commander.Check(); err != nil {
		return err
	}

	registry, err := effects.Builtin(effects.ScreenOptions{
		CaptureInterval: cfg.CaptureInterval,
		ColorAlgo:       cfg.ColorAlgo,
		PixelGridSize:   cfg.PixelGridSize,
		ScreenNumber:    cfg.ScreenNumber,
	})
	if err != nil {
		return err
	}

	sess := session.New(
		wiz.NewScanner(transport, wiz.WithAttempts(cfg.ScanAttempts)),
		store.NewFileCache(cfg.CacheFile),
		ui.NewTerminal(os.Stdin, os.Stdout),
		runner.New(commander),
		commander,
		registry,
		session.Settings{
			Range:          cfg.ScanRange(),
			ProbeTimeout:   cfg.ProbeTimeout,
			Workers:        cfg.ScanWorkers,
			StopGrace:      cfg.StopGrace,
			EffectDuration: cfg.EffectDuration,
		},
	)
	return sess.Run(ctx)
}
