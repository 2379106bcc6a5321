package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"zbuf-renderer/internal/batch"
	"zbuf-renderer/internal/config"
	"zbuf-renderer/internal/raster"
	"zbuf-renderer/internal/scene"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	outputDir := flag.String("output", "", "Output directory (default: renders)")
	format := flag.String("format", "", "Image format: png, webp, tga, bmp (default: png)")
	scale := flag.Int("scale", 0, "Integer upscale factor (default: 1)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	reveal := flag.Int("reveal", 0, "Draw only the first N polygons of each scene")
	dumpAfter := flag.Int("dump", 0, "Dump buffer text once N polygons are drawn (-1 disables, default: 1)")
	dumpFile := flag.String("dumpfile", "", "Dump file path; scene names prefix it when rendering several (default: <output>/zbuffer_output.txt)")
	flipY := flag.Bool("flip", false, "Put buffer row 0 at the bottom of the image")
	demo := flag.Bool("demo", false, "Render the built-in demo scene")
	verbose := flag.Bool("v", false, "Debug logging")

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	raster.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		Scenes:    flag.Args(),
		OutputDir: *outputDir,
		Format:    *format,
		Scale:     *scale,
		Workers:   *workers,
		DumpAfter: *dumpAfter,
		DumpFile:  *dumpFile,
		FlipY:     *flipY,
	})

	var scenes []*scene.Scene
	if *demo || len(cfg.Scenes) == 0 {
		scenes = append(scenes, scene.Demo())
	}
	for _, path := range cfg.Scenes {
		sc, err := scene.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading scene: %v\n", err)
			os.Exit(1)
		}
		scenes = append(scenes, sc)
	}

	fmt.Printf("Z-buffer renderer → %s\n", cfg.Format)
	fmt.Printf("Scenes: %d, Size: %dx%d, Workers: %d\n", len(scenes), cfg.Width, cfg.Height, cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	results := batch.Run(batch.Config{
		Width:      cfg.Width,
		Height:     cfg.Height,
		MaxDepth:   cfg.MaxDepth,
		Background: *cfg.Background,
		OutputDir:  cfg.OutputDir,
		Format:     cfg.Format,
		Scale:      cfg.Scale,
		FlipY:      cfg.FlipY,
		Workers:    cfg.Workers,
		Reveal:     *reveal,
		DumpAfter:  cfg.DumpAfter,
		DumpFile:   cfg.DumpFile,
	}, scenes)

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.2fs\n", time.Since(start).Seconds())

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
			fmt.Printf("  %s: %s\n", r.Name, r.Error)
			continue
		}
		fmt.Printf("  %s: %d/%d polygons, %d pixels → %s\n", r.Name, r.Accepted, r.Polygons, r.Written, r.Image)
		if r.Dump != "" {
			fmt.Printf("    dump: %s\n", r.Dump)
		}
	}
	fmt.Printf("Rendered: %d/%d\n", len(results)-failed, len(results))

	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	} else if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
