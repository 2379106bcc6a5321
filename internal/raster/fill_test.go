package raster

import (
	"image"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zbuf-renderer/internal/geom"
)

func tri(c geom.Color, pts ...geom.Point3d) geom.Polygon {
	return geom.Polygon{Points: pts, Color: c}
}

func TestFillSingleTriangle(t *testing.T) {
	buf := newTestBuffer(t, 10, 10)
	res := Fill(buf, tri(0xFF0000, geom.Point3d{X: 2, Y: 2, Z: 0}, geom.Point3d{X: 8, Y: 2, Z: 0}, geom.Point3d{X: 5, Y: 8, Z: 0}))
	require.True(t, res.Accepted)
	assert.Equal(t, image.Rect(2, 2, 8, 8), res.Bounds)

	// Spans per row after truncating edge crossings.
	spans := map[int][2]int{
		2: {2, 8},
		3: {2, 7},
		4: {3, 7},
		5: {3, 6},
		6: {4, 6},
		7: {4, 5},
	}
	inside := 0
	for row := 0; row < 10; row++ {
		for col := 0; col < 10; col++ {
			c := buf.At(row, col)
			s, ok := spans[row]
			if ok && col >= s[0] && col < s[1] {
				inside++
				assert.Equal(t, 0.0, c.Depth, "(%d,%d)", row, col)
				assert.Equal(t, geom.Color(0xFF0000), c.Color, "(%d,%d)", row, col)
				continue
			}
			assert.Equal(t, DefaultBackground.Depth, c.Depth, "(%d,%d)", row, col)
			assert.Equal(t, DefaultBackground.Color, c.Color, "(%d,%d)", row, col)
		}
	}
	assert.Equal(t, inside, res.Written)

	// Pixels well inside the triangle are covered.
	for _, p := range [][2]int{{3, 4}, {4, 5}, {5, 4}, {6, 5}} {
		assert.Equal(t, geom.Color(0xFF0000), buf.ColorAt(p[0], p[1]), "row %d col %d", p[0], p[1])
	}
}

func TestFillVertexCountGate(t *testing.T) {
	ring := []geom.Point3d{
		{X: 1, Y: 1, Z: 3}, {X: 6, Y: 0, Z: 3}, {X: 9, Y: 3, Z: 3}, {X: 9, Y: 7, Z: 3}, {X: 5, Y: 9, Z: 3}, {X: 1, Y: 8, Z: 3}, {X: 0, Y: 4, Z: 3},
	}
	tests := []struct {
		name     string
		n        int
		accepted bool
	}{
		{"two", 2, false},
		{"three", 3, true},
		{"four", 4, true},
		{"five", 5, true},
		{"six", 6, true},
		{"seven", 7, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf := newTestBuffer(t, 10, 10)
			before := buf.Snapshot()
			res := Fill(buf, geom.Polygon{Points: ring[:tc.n], Color: 0x00FF00})
			assert.Equal(t, tc.accepted, res.Accepted)
			if !tc.accepted {
				assert.Equal(t, Result{}, res)
				assert.Equal(t, before, buf.Snapshot())
				return
			}
			assert.Positive(t, res.Written)
			assert.NotEqual(t, before, buf.Snapshot())
		})
	}
}

// square covers cols [1,8) of rows [1,8) at a constant depth.
func square(z float64, c geom.Color) geom.Polygon {
	return geom.Polygon{
		Points: []geom.Point3d{{X: 1, Y: 1, Z: z}, {X: 8, Y: 1, Z: z}, {X: 8, Y: 8, Z: z}, {X: 1, Y: 8, Z: z}},
		Color:  c,
	}
}

func TestFillOcclusionOrder(t *testing.T) {
	a := tri(0xAA0000, geom.Point3d{X: 0, Y: 0, Z: 5}, geom.Point3d{X: 9, Y: 0, Z: 5}, geom.Point3d{X: 0, Y: 9, Z: 5})
	b := tri(0x0000BB, geom.Point3d{X: 9, Y: 9, Z: 2}, geom.Point3d{X: 0, Y: 1, Z: 2}, geom.Point3d{X: 9, Y: 0, Z: 2})

	for _, order := range [][]geom.Polygon{{a, b}, {b, a}} {
		buf := newTestBuffer(t, 10, 10)
		for _, p := range order {
			require.True(t, Fill(buf, p).Accepted)
		}
		assert.Equal(t, geom.Color(0x0000BB), buf.ColorAt(2, 5))
		assert.Equal(t, 2.0, buf.DepthAt(2, 5))
	}
}

func TestFillTieKeepsFirst(t *testing.T) {
	buf := newTestBuffer(t, 10, 10)
	first := Fill(buf, square(4, 0x111111))
	second := Fill(buf, square(4, 0x222222))
	assert.Positive(t, first.Written)
	assert.Zero(t, second.Written)
	assert.Equal(t, geom.Color(0x111111), buf.ColorAt(4, 4))
	assert.Equal(t, 4.0, buf.DepthAt(4, 4))
}

func TestFillInterpolatesDepth(t *testing.T) {
	buf := newTestBuffer(t, 20, 4)
	// Depth runs 0 at x=0 to 20 at x=20 on every row.
	Fill(buf, geom.Polygon{
		Points: []geom.Point3d{{X: 0, Y: 0, Z: 0}, {X: 20, Y: 0, Z: 20}, {X: 20, Y: 4, Z: 20}, {X: 0, Y: 4, Z: 0}},
		Color:  0xABCDEF,
	})
	for col := 0; col < 20; col++ {
		assert.InDelta(t, float64(col), buf.DepthAt(1, col), 1e-9, "col %d", col)
	}
}

func TestFillEdgeDepthUsesUnroundedZ(t *testing.T) {
	buf := newTestBuffer(t, 10, 10)
	Fill(buf, geom.Polygon{
		Points: []geom.Point3d{{X: 0.9, Y: 0.9, Z: 0.25}, {X: 9.9, Y: 0.9, Z: 0.25}, {X: 9.9, Y: 9.9, Z: 0.25}, {X: 0.9, Y: 9.9, Z: 0.25}},
		Color:  0x010203,
	})
	assert.Equal(t, 0.25, buf.DepthAt(0, 0))
	assert.Equal(t, 0.25, buf.DepthAt(8, 8))
	assert.Equal(t, DefaultBackground.Color, buf.ColorAt(9, 9))
}

func TestFillClampsToBuffer(t *testing.T) {
	buf := newTestBuffer(t, 10, 6)
	res := Fill(buf, geom.Polygon{
		Points: []geom.Point3d{{X: -20, Y: -20, Z: 1}, {X: 30, Y: -20, Z: 1}, {X: 30, Y: 30, Z: 1}, {X: -20, Y: 30, Z: 1}},
		Color:  0x00FFFF,
	})
	require.True(t, res.Accepted)
	assert.Equal(t, image.Rect(0, 0, 10, 6), res.Bounds)
	assert.Equal(t, 60, res.Written)

	// Wider than tall: the horizontal extent clamps against the width.
	wide := newTestBuffer(t, 20, 4)
	res = Fill(wide, geom.Polygon{
		Points: []geom.Point3d{{X: 2, Y: 0, Z: 1}, {X: 18, Y: 0, Z: 1}, {X: 18, Y: 4, Z: 1}, {X: 2, Y: 4, Z: 1}},
		Color:  0x00FFFF,
	})
	assert.Equal(t, image.Rect(2, 0, 18, 4), res.Bounds)
	assert.Equal(t, geom.Color(0x00FFFF), wide.ColorAt(3, 17))
}

func TestFillHugeCoordinates(t *testing.T) {
	tests := []struct {
		name string
		y    float64
	}{
		{"large", 1e6},
		{"beyond int range", 1e300},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf := newTestBuffer(t, 10, 10)
			res := Fill(buf, tri(0x00AA00, geom.Point3d{X: 2, Y: 2, Z: 0}, geom.Point3d{X: 8, Y: 2, Z: 0}, geom.Point3d{X: 8, Y: tc.y, Z: 0}))
			require.True(t, res.Accepted)
			assert.Equal(t, image.Rect(2, 2, 8, 10), res.Bounds)
			assert.Equal(t, 48, res.Written)
			for row := 0; row < 2; row++ {
				for col := 0; col < 10; col++ {
					assert.Equal(t, DefaultBackground.Color, buf.ColorAt(row, col), "(%d,%d)", row, col)
				}
			}
			for row := 2; row < 10; row++ {
				assert.Equal(t, geom.Color(0x00AA00), buf.ColorAt(row, 7), "row %d", row)
				assert.Equal(t, DefaultBackground.Color, buf.ColorAt(row, 8), "row %d", row)
			}
		})
	}

	// Far left and far right vertices clamp without wrapping around.
	buf := newTestBuffer(t, 10, 10)
	res := Fill(buf, geom.Polygon{
		Points: []geom.Point3d{{X: -1e300, Y: 0, Z: 1}, {X: 1e300, Y: 0, Z: 1}, {X: 1e300, Y: 10, Z: 1}, {X: -1e300, Y: 10, Z: 1}},
		Color:  0x0A0A0A,
	})
	assert.Equal(t, 100, res.Written)
}

func TestFillOutsideBuffer(t *testing.T) {
	buf := newTestBuffer(t, 10, 10)
	before := buf.Snapshot()
	res := Fill(buf, tri(0xFF00FF, geom.Point3d{X: 20, Y: 20, Z: 0}, geom.Point3d{X: 30, Y: 20, Z: 0}, geom.Point3d{X: 25, Y: 30, Z: 0}))
	assert.True(t, res.Accepted)
	assert.Zero(t, res.Written)
	assert.True(t, res.Bounds.Empty())
	assert.Equal(t, before, buf.Snapshot())
}

func TestFillDegenerate(t *testing.T) {
	buf := newTestBuffer(t, 10, 10)
	before := buf.Snapshot()
	// All on one row: every edge is horizontal.
	res := Fill(buf, tri(0xFF00FF, geom.Point3d{X: 1, Y: 5, Z: 0}, geom.Point3d{X: 8, Y: 5, Z: 0}, geom.Point3d{X: 4, Y: 5, Z: 0}))
	assert.True(t, res.Accepted)
	assert.Zero(t, res.Written)
	// Vertical sliver: crossings coincide, zero-width spans.
	res = Fill(buf, tri(0xFF00FF, geom.Point3d{X: 4, Y: 1, Z: 0}, geom.Point3d{X: 4, Y: 8, Z: 0}, geom.Point3d{X: 4.5, Y: 4, Z: 0}))
	assert.True(t, res.Accepted)
	assert.Zero(t, res.Written)
	assert.Equal(t, before, buf.Snapshot())
}

func TestDepthMonotonicity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	buf := newTestBuffer(t, 32, 32)
	prev := buf.Snapshot()
	for i := 0; i < 200; i++ {
		n := geom.MinVertices + rng.Intn(geom.MaxVertices-geom.MinVertices+1)
		pts := make([]geom.Point3d, n)
		for k := range pts {
			pts[k] = geom.Point3d{
				X: rng.Float64()*48 - 8,
				Y: rng.Float64()*48 - 8,
				Z: rng.Float64()*1998 - 999,
			}
		}
		Fill(buf, geom.Polygon{Points: pts, Color: geom.Color(rng.Intn(0xFFFFFF))})
		cur := buf.Snapshot()
		for k := range cur {
			if cur[k].Depth > prev[k].Depth {
				t.Fatalf("fill %d: cell %d depth rose from %v to %v", i, k, prev[k].Depth, cur[k].Depth)
			}
			if cur[k].Depth == prev[k].Depth && cur[k].Color != prev[k].Color {
				t.Fatalf("fill %d: cell %d recolored without a nearer depth", i, k)
			}
		}
		prev = cur
	}
}

func TestCrossingsEvenForConvex(t *testing.T) {
	convex := []geom.Polygon{
		tri(1, geom.Point3d{X: 2, Y: 2, Z: 0}, geom.Point3d{X: 8, Y: 2, Z: 0}, geom.Point3d{X: 5, Y: 8, Z: 0}),
		square(0, 2),
		{Points: []geom.Point3d{{X: 300, Y: 260, Z: 50}, {X: 560, Y: 280, Z: -50}, {X: 480, Y: 340, Z: 0}}, Color: 3},
		{Points: []geom.Point3d{{X: 380, Y: 300, Z: -50}, {X: 480, Y: 381, Z: -50}, {X: 500, Y: 230, Z: 100}, {X: 420, Y: 220, Z: 100}}, Color: 4},
		{Points: []geom.Point3d{{X: 10, Y: 0, Z: 0}, {X: 20, Y: 5, Z: 0}, {X: 20, Y: 15, Z: 0}, {X: 10, Y: 20, Z: 0}, {X: 0, Y: 15, Z: 0}, {X: 0, Y: 5, Z: 0}}, Color: 5},
	}
	for i, p := range convex {
		ymin, ymax := int(p.Points[0].Y), int(p.Points[0].Y)
		for _, pt := range p.Points {
			ymin = min(ymin, int(pt.Y))
			ymax = max(ymax, int(pt.Y))
		}
		for y := ymin - 2; y < ymax+2; y++ {
			xs := Crossings(p, y)
			require.Zero(t, len(xs)%2, "polygon %d row %d: %v", i, y, xs)
			if y < ymin || y >= ymax {
				assert.Empty(t, xs, "polygon %d row %d", i, y)
			}
			for k := 1; k < len(xs); k++ {
				assert.LessOrEqual(t, xs[k-1].X, xs[k].X)
			}
		}
	}
	assert.Nil(t, Crossings(geom.Polygon{Points: make([]geom.Point3d, 2)}, 0))
}

func TestFillConcavePairsSpans(t *testing.T) {
	// Notch from the bottom: row 6 crosses at x = 0, 2, 7, 9.
	p := geom.Polygon{
		Points: []geom.Point3d{{X: 0, Y: 0, Z: 0}, {X: 9, Y: 0, Z: 0}, {X: 9, Y: 9, Z: 0}, {X: 5, Y: 3, Z: 0}, {X: 0, Y: 9, Z: 0}},
		Color:  0x404040,
	}
	xs := Crossings(p, 6)
	require.Len(t, xs, 4)
	assert.Equal(t, []int{0, 2, 7, 9}, []int{xs[0].X, xs[1].X, xs[2].X, xs[3].X})

	buf := newTestBuffer(t, 10, 10)
	Fill(buf, p)
	assert.Equal(t, geom.Color(0x404040), buf.ColorAt(6, 1))
	assert.Equal(t, DefaultBackground.Color, buf.ColorAt(6, 4))
	assert.Equal(t, geom.Color(0x404040), buf.ColorAt(6, 8))
}

func TestFillSpanPairsOnly(t *testing.T) {
	row := make([]Cell, 10)
	for i := range row {
		row[i] = Cell{Depth: DefaultBackground.Depth}
	}
	n := fillSpan(row, Crossing{X: -5, Depth: 0}, Crossing{X: 5, Depth: 10}, 0x0F0F0F)
	assert.Equal(t, 5, n)
	// t is measured over the unclamped span, so column 0 sits halfway.
	assert.InDelta(t, 5.0, row[0].Depth, 1e-9)
	assert.Zero(t, fillSpan(row, Crossing{X: 3}, Crossing{X: 3}, 1))
}
