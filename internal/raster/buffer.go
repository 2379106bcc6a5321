package raster

import (
	"fmt"
	"math"

	"zbuf-renderer/internal/geom"
)

// Cell is the per-pixel state: nearest depth seen so far and its color.
type Cell struct {
	Depth float64
	Color geom.Color
}

// Background is the state every cell returns to on Clear.
// Depth must exceed every depth the scene can produce.
type Background struct {
	Depth float64
	Color geom.Color
}

// DefaultBackground is a white background behind a maximum scene depth of 1000.
var DefaultBackground = Background{Depth: 1000, Color: 0xFFFFFF}

// DepthBuffer holds the rendering target as one flat slice for cache locality.
// Cell (row, col) lives at cells[row*width+col]; row 0 is the top.
type DepthBuffer struct {
	width  int
	height int
	bg     Background
	cells  []Cell
}

// NewDepthBuffer allocates a width×height grid and clears it to bg.
func NewDepthBuffer(width, height int, bg Background) (*DepthBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("raster: invalid buffer size %dx%d", width, height)
	}
	if width > math.MaxInt32/height {
		return nil, fmt.Errorf("raster: buffer size %dx%d too large", width, height)
	}
	b := &DepthBuffer{
		width:  width,
		height: height,
		bg:     bg,
		cells:  make([]Cell, width*height),
	}
	b.Clear()
	return b, nil
}

// Clear resets every cell to the background depth and color.
func (b *DepthBuffer) Clear() {
	c := Cell{Depth: b.bg.Depth, Color: b.bg.Color}
	for i := range b.cells {
		b.cells[i] = c
	}
}

func (b *DepthBuffer) Width() int             { return b.width }
func (b *DepthBuffer) Height() int            { return b.height }
func (b *DepthBuffer) Background() Background { return b.bg }

// At returns the cell at (row, col). Coordinates are not range-checked
// beyond the slice bound.
func (b *DepthBuffer) At(row, col int) Cell {
	return b.cells[row*b.width+col]
}

func (b *DepthBuffer) ColorAt(row, col int) geom.Color {
	return b.cells[row*b.width+col].Color
}

func (b *DepthBuffer) DepthAt(row, col int) float64 {
	return b.cells[row*b.width+col].Depth
}

// Row returns the cells of one row. The slice aliases the buffer and must
// be treated as read-only.
func (b *DepthBuffer) Row(row int) []Cell {
	off := row * b.width
	return b.cells[off : off+b.width]
}

// Snapshot copies the whole grid, row-major.
func (b *DepthBuffer) Snapshot() []Cell {
	return append([]Cell(nil), b.cells...)
}
