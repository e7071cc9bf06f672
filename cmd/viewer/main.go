package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/zeusync/vecview/internal/assets"
	"github.com/zeusync/vecview/internal/config"
	"github.com/zeusync/vecview/internal/core/bootstrap"
	"github.com/zeusync/vecview/internal/core/gesture"
	"github.com/zeusync/vecview/internal/core/module"
	"github.com/zeusync/vecview/internal/core/observability/log"
	"github.com/zeusync/vecview/internal/core/platform"
	"github.com/zeusync/vecview/internal/core/renderer"
	"github.com/zeusync/vecview/internal/core/transform"
	"github.com/zeusync/vecview/internal/host/desktop"
	"github.com/zeusync/vecview/internal/viewer"
)

// Native hosts have every primitive a variant may need.
var nativeCapabilities = platform.Capabilities{SharedMemory: true, SIMD: true}

func main() {
	configPath := flag.String("config", "", "path to a YAML configuration file")
	image := flag.String("image", "", "asset to show instead of the default image")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading configuration:", err)
		os.Exit(1)
	}
	if *image != "" {
		cfg.Assets.DefaultImage = *image
	}

	logger := log.New(cfg.Level())
	defer func() { _ = logger.Sync() }()

	if err = run(cfg, logger); err != nil {
		logger.Error("Viewer failed", log.Error(err))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger log.Log) error {
	profile := platform.Resolve(platform.Client{
		UserAgent:    "vecview-desktop",
		PixelRatio:   1,
		Capabilities: nativeCapabilities,
	}, cfg.PlatformSettings())

	store := assets.NewDir(cfg.Assets.Dir, logger)
	loader := module.NewLoader(cfg.Bootstrap.Variants, profile.Capabilities, logger)

	var v *viewer.Viewer
	ready := func(variant string, m transform.Renderer) {
		v = viewer.New(profile, m, logger, gesture.WithNoiseThreshold(cfg.Gesture.NoiseThreshold))
		a, err := store.Fetch(cfg.Assets.DefaultImage)
		if err != nil {
			logger.Warn("Default image unavailable", log.String("name", cfg.Assets.DefaultImage), log.Error(err))
			return
		}
		if err = v.Install(a.Data); err != nil {
			logger.Warn("Failed to install image", log.Error(err))
		}
	}
	fatal := bootstrap.FatalFunc(func() {
		fmt.Fprintln(os.Stderr, "The renderer could not be started on this machine.")
	})

	seq := bootstrap.NewSequencer(loader, fatal, ready, logger)
	m, err := seq.Run(context.Background(), profile.Plan())
	if err != nil {
		return err
	}

	canvas, ok := m.(*renderer.Canvas)
	if !ok {
		return errors.New("module has no drawable canvas")
	}
	return desktop.Run(cfg.Desktop, desktop.NewGame(v, canvas, logger))
}
