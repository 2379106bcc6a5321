package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"zbuf-renderer/internal/config"
	"zbuf-renderer/internal/dump"
	"zbuf-renderer/internal/raster"
	"zbuf-renderer/internal/scene"
	"zbuf-renderer/internal/session"
)

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	scale := flag.Int("scale", 0, "Window scale factor (default: 1)")
	dumpAfter := flag.Int("dump", 0, "Dump buffer text once N polygons are shown (-1 disables, default: 1)")
	flipY := flag.Bool("flip", false, "Put buffer row 0 at the bottom of the window")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	raster.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{
		Scenes:    flag.Args(),
		Scale:     *scale,
		DumpAfter: *dumpAfter,
		FlipY:     *flipY,
	})

	sc := scene.Demo()
	if len(cfg.Scenes) > 0 {
		var err error
		sc, err = scene.Load(cfg.Scenes[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading scene: %v\n", err)
			os.Exit(1)
		}
	}

	bg := raster.Background{Depth: cfg.MaxDepth, Color: *cfg.Background}
	if sc.MaxDepth > 0 {
		bg.Depth = sc.MaxDepth
	}
	if sc.Background != nil {
		bg.Color = *sc.Background
	}
	if err := sc.Validate(bg.Depth); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	width, height := cfg.Width, cfg.Height
	if sc.Width > 0 {
		width = sc.Width
	}
	if sc.Height > 0 {
		height = sc.Height
	}
	buf, err := raster.NewDepthBuffer(width, height, bg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var hook *dump.Hook
	if cfg.DumpAfter > 0 {
		hook = &dump.Hook{After: cfg.DumpAfter, Path: cfg.DumpFile}
	}
	s := session.New(buf, sc.Polygons(), hook)

	fmt.Printf("%s: %d polygons. Space reveals the next one, R resets, P saves a PNG, Esc quits.\n",
		sc.Name, s.Len())

	if err := runWindow(s, viewOptions{
		title:     "Z-Buffer: " + sc.Name,
		scale:     cfg.Scale,
		flipY:     cfg.FlipY,
		outputDir: cfg.OutputDir,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type viewOptions struct {
	title     string
	scale     int
	flipY     bool
	outputDir string
}
