package batch

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"zbuf-renderer/internal/dump"
	"zbuf-renderer/internal/geom"
	"zbuf-renderer/internal/present"
	"zbuf-renderer/internal/raster"
	"zbuf-renderer/internal/scene"
	"zbuf-renderer/internal/session"
)

// Config holds the settings shared by every job in a batch run.
type Config struct {
	Width      int
	Height     int
	MaxDepth   float64
	Background geom.Color
	OutputDir  string
	Format     string
	Scale      int
	FlipY      bool
	Workers    int
	// Reveal limits each scene to its first N polygons; <= 0 draws all.
	Reveal int
	// DumpAfter writes a text dump once N polygons are drawn; <= 0 disables.
	DumpAfter int
	// DumpFile names the text dump. A single-scene run writes exactly this
	// path; with several scenes each file's base name gets the scene's output
	// stem as a prefix. Empty means OutputDir/<stem>_zbuffer.txt.
	DumpFile string
	Progress time.Duration
}

// Result holds the outcome of rendering one scene.
type Result struct {
	Name     string
	Image    string
	Dump     string
	Polygons int
	Accepted int
	Written  int
	Success  bool
	Error    string
}

// Run renders every scene using a worker pool. Each job gets its own depth
// buffer, so workers never share state.
func Run(cfg Config, scenes []*scene.Scene) []Result {
	total := len(scenes)
	results := make([]Result, total)
	var processed atomic.Int64

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	interval := cfg.Progress
	if interval <= 0 {
		interval = 2 * time.Second
	}

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					raster.Logger().Info("batch progress", "done", p, "total", total, "rate", fmt.Sprintf("%.1f/s", rate))
				}
			}
		}
	}()

	stems := outputStems(scenes)
	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = processScene(cfg, scenes[idx], stems[idx], total)
				processed.Add(1)
			}
		}()
	}

	for i := range scenes {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	close(done)

	return results
}

func processScene(cfg Config, sc *scene.Scene, stem string, total int) Result {
	res := Result{Name: sc.Name, Polygons: len(sc.Defs)}
	fail := func(err error) Result {
		res.Error = err.Error()
		raster.Logger().Warn("batch: scene failed", "scene", sc.Name, "err", err)
		return res
	}

	width, height := cfg.Width, cfg.Height
	if sc.Width > 0 {
		width = sc.Width
	}
	if sc.Height > 0 {
		height = sc.Height
	}
	bg := raster.Background{Depth: cfg.MaxDepth, Color: cfg.Background}
	if sc.MaxDepth > 0 {
		bg.Depth = sc.MaxDepth
	}
	if sc.Background != nil {
		bg.Color = *sc.Background
	}

	if err := sc.Validate(bg.Depth); err != nil {
		return fail(err)
	}

	buf, err := raster.NewDepthBuffer(width, height, bg)
	if err != nil {
		return fail(err)
	}

	var hook *dump.Hook
	if cfg.DumpAfter > 0 {
		res.Dump = dumpPath(cfg, stem, total)
		hook = &dump.Hook{After: cfg.DumpAfter, Path: res.Dump}
	}

	s := session.New(buf, sc.Polygons(), hook)
	s.RevealAll()
	if cfg.Reveal > 0 {
		s.SetShown(cfg.Reveal)
	}

	pass, err := s.Render()
	if err != nil {
		return fail(err)
	}
	res.Accepted = pass.Accepted
	res.Written = pass.Written
	if !pass.Dumped {
		res.Dump = ""
	}

	img := present.Scale(present.Image(buf, cfg.FlipY), cfg.Scale)
	res.Image = stem + "." + cfg.Format
	if err := present.Save(filepath.Join(cfg.OutputDir, res.Image), img); err != nil {
		return fail(err)
	}

	res.Success = true
	return res
}

// outputStems gives every scene a distinct file stem. Repeated names get a
// numeric suffix in submission order: x, x_2, x_3. Comparison ignores case
// so the stems stay distinct on case-insensitive filesystems.
func outputStems(scenes []*scene.Scene) []string {
	stems := make([]string, len(scenes))
	used := make(map[string]bool, len(scenes))
	for i, sc := range scenes {
		stem := sc.Name
		for n := 2; used[strings.ToLower(stem)]; n++ {
			stem = fmt.Sprintf("%s_%d", sc.Name, n)
		}
		used[strings.ToLower(stem)] = true
		stems[i] = stem
	}
	return stems
}

func dumpPath(cfg Config, stem string, total int) string {
	if cfg.DumpFile == "" {
		return filepath.Join(cfg.OutputDir, stem+"_zbuffer.txt")
	}
	if total == 1 {
		return cfg.DumpFile
	}
	return filepath.Join(filepath.Dir(cfg.DumpFile), stem+"_"+filepath.Base(cfg.DumpFile))
}
