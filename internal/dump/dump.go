// Package dump writes a text snapshot of depth buffer cells for diagnostics.
package dump

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"zbuf-renderer/internal/raster"
)

// Write emits one line per row of rect, each cell as "(depth, colorhex) ".
// rect is intersected with the buffer first.
func Write(w io.Writer, buf *raster.DepthBuffer, rect image.Rectangle) error {
	rect = rect.Intersect(image.Rect(0, 0, buf.Width(), buf.Height()))
	bw := bufio.NewWriter(w)
	for row := rect.Min.Y; row < rect.Max.Y; row++ {
		cells := buf.Row(row)
		for col := rect.Min.X; col < rect.Max.X; col++ {
			c := cells[col]
			fmt.Fprintf(bw, "(%g, %s) ", c.Depth, c.Color)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteFile writes the dump to path, creating parent directories.
func WriteFile(path string, buf *raster.DepthBuffer, rect image.Rectangle) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("dump: mkdir %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dump: create %s: %w", path, err)
	}
	if err := Write(f, buf, rect); err != nil {
		f.Close()
		return fmt.Errorf("dump: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("dump: close %s: %w", path, err)
	}
	return nil
}

// Hook dumps the buffer once, when the count of drawn polygons first
// reaches After. The zero Hook never fires. Later passes, including ones
// that redraw the same count after a reset, leave the file untouched; use a
// fresh Hook to dump again.
type Hook struct {
	After int
	Path  string

	fired bool
}

// Maybe writes the dump if drawn equals h.After and the hook has not fired
// yet. It reports whether a dump was written.
func (h *Hook) Maybe(drawn int, buf *raster.DepthBuffer, rect image.Rectangle) (bool, error) {
	if h == nil || h.fired || h.After <= 0 || drawn != h.After || h.Path == "" {
		return false, nil
	}
	h.fired = true
	if err := WriteFile(h.Path, buf, rect); err != nil {
		return false, err
	}
	raster.Logger().Info("dump written", "path", h.Path, "polygons", drawn, "rect", rect)
	return true, nil
}

// Fired reports whether the hook has already written its dump.
func (h *Hook) Fired() bool { return h != nil && h.fired }
