package raster

import (
	"cmp"
	"image"
	"math"
	"slices"

	"zbuf-renderer/internal/geom"
)

// Result describes what a Fill did to the buffer.
type Result struct {
	// Accepted is false when the vertex count was outside
	// [geom.MinVertices, geom.MaxVertices]; nothing was touched.
	Accepted bool
	// Written counts cells that passed the depth test.
	Written int
	// Bounds is the polygon's screen bounding box clamped to the buffer,
	// max exclusive. Empty when the polygon lies outside the buffer.
	Bounds image.Rectangle
}

// Crossing is where a polygon edge meets a scanline.
type Crossing struct {
	X     int
	Depth float64
}

// projected holds vertex coordinates truncated to the pixel grid. Depth keeps
// full precision.
type projected struct {
	n int
	x [geom.MaxVertices]int
	y [geom.MaxVertices]int
	z [geom.MaxVertices]float64
}

// coordLimit bounds projected screen coordinates so the conversion to int
// and every difference between two coordinates stay defined.
const coordLimit = 1 << 30

func project(p geom.Polygon) *projected {
	pr := &projected{n: len(p.Points)}
	for i, pt := range p.Points {
		pr.x[i] = truncCoord(pt.X)
		pr.y[i] = truncCoord(pt.Y)
		pr.z[i] = pt.Z
	}
	return pr
}

func truncCoord(v float64) int {
	return int(math.Max(-coordLimit, math.Min(coordLimit, v)))
}

// bounds clamps x against width and y against height independently.
func (pr *projected) bounds(width, height int) image.Rectangle {
	xmin, xmax := pr.x[0], pr.x[0]
	ymin, ymax := pr.y[0], pr.y[0]
	for i := 1; i < pr.n; i++ {
		xmin = min(xmin, pr.x[i])
		xmax = max(xmax, pr.x[i])
		ymin = min(ymin, pr.y[i])
		ymax = max(ymax, pr.y[i])
	}
	r := image.Rectangle{
		Min: image.Pt(clampInt(xmin, 0, width), clampInt(ymin, 0, height)),
		Max: image.Pt(clampInt(xmax, 0, width), clampInt(ymax, 0, height)),
	}
	if r.Empty() {
		return image.Rectangle{}
	}
	return r
}

// crossings appends to dst every edge intersection with row y, sorted by x.
// Horizontal edges are skipped and an edge's upper endpoint row is
// exclusive, so a shared vertex is counted once.
func (pr *projected) crossings(y int, dst []Crossing) []Crossing {
	for i := 0; i < pr.n; i++ {
		j := (i + 1) % pr.n
		yi, yj := pr.y[i], pr.y[j]
		if yi == yj {
			continue
		}
		if y < min(yi, yj) || y >= max(yi, yj) {
			continue
		}
		t := float64(y-yi) / float64(yj-yi)
		dst = append(dst, Crossing{
			X:     int(float64(pr.x[i]) + t*float64(pr.x[j]-pr.x[i])),
			Depth: pr.z[i] + t*(pr.z[j]-pr.z[i]),
		})
	}
	slices.SortFunc(dst, func(a, b Crossing) int {
		if c := cmp.Compare(a.X, b.X); c != 0 {
			return c
		}
		return cmp.Compare(a.Depth, b.Depth)
	})
	return dst
}

// Crossings returns the sorted edge intersections of p with row y, or nil
// when p would be rejected by Fill.
func Crossings(p geom.Polygon, y int) []Crossing {
	if !p.Accepted() {
		return nil
	}
	return project(p).crossings(y, nil)
}

// Fill scan-converts p into buf, keeping at each pixel the surface with the
// strictly smaller depth. Depth is interpolated linearly in screen space,
// first along edges and then across each span.
//
// Polygons with fewer than 3 or more than 6 vertices are ignored and
// reported with Accepted == false.
func Fill(buf *DepthBuffer, p geom.Polygon) Result {
	if !p.Accepted() {
		Logger().Debug("raster: polygon rejected", "vertices", len(p.Points))
		return Result{}
	}

	pr := project(p)
	bounds := pr.bounds(buf.width, buf.height)

	// At most one crossing per edge.
	var scratch [geom.MaxVertices]Crossing
	written := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		xs := pr.crossings(y, scratch[:0])
		if len(xs)%2 != 0 {
			Logger().Debug("raster: odd crossing count", "row", y, "crossings", len(xs))
		}
		row := buf.cells[y*buf.width : (y+1)*buf.width]
		for k := 0; k+1 < len(xs); k += 2 {
			written += fillSpan(row, xs[k], xs[k+1], p.Color)
		}
	}

	Logger().Debug("raster: polygon filled",
		"vertices", pr.n, "color", p.Color.String(), "written", written, "bounds", bounds)
	return Result{Accepted: true, Written: written, Bounds: bounds}
}

// fillSpan depth-tests the columns [a.X, b.X) clamped to the row. The
// interpolation parameter is taken over the unclamped span.
func fillSpan(row []Cell, a, b Crossing, c geom.Color) int {
	if a.X == b.X {
		return 0
	}
	span := float64(b.X - a.X)
	dz := b.Depth - a.Depth
	n := 0
	for x := max(0, a.X); x < min(len(row), b.X); x++ {
		z := a.Depth + float64(x-a.X)/span*dz
		if z < row[x].Depth {
			row[x] = Cell{Depth: z, Color: c}
			n++
		}
	}
	return n
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
