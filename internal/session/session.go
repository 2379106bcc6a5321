// Package session drives incremental rendering: a fixed polygon list of
// which the first N are drawn on each pass.
package session

import (
	"image"

	"zbuf-renderer/internal/dump"
	"zbuf-renderer/internal/geom"
	"zbuf-renderer/internal/raster"
)

// Session owns a depth buffer and the polygons to reveal into it.
// It is not safe for concurrent use.
type Session struct {
	buf      *raster.DepthBuffer
	polygons []geom.Polygon
	shown    int
	hook     *dump.Hook
}

// Pass summarizes one Render call.
type Pass struct {
	Drawn    int // polygons submitted
	Accepted int // polygons the rasterizer accepted
	Written  int // cells that passed the depth test
	Dumped   bool
}

// New creates a session with nothing revealed. hook may be nil.
func New(buf *raster.DepthBuffer, polygons []geom.Polygon, hook *dump.Hook) *Session {
	return &Session{buf: buf, polygons: polygons, hook: hook}
}

func (s *Session) Buffer() *raster.DepthBuffer { return s.buf }
func (s *Session) Shown() int                  { return s.shown }
func (s *Session) Len() int                    { return len(s.polygons) }

// Reveal makes one more polygon visible. It returns false once all are shown.
func (s *Session) Reveal() bool {
	if s.shown >= len(s.polygons) {
		return false
	}
	s.shown++
	return true
}

// RevealAll shows every polygon.
func (s *Session) RevealAll() { s.shown = len(s.polygons) }

// SetShown clamps n into [0, Len()].
func (s *Session) SetShown(n int) {
	s.shown = max(0, min(n, len(s.polygons)))
}

// Render clears the buffer and fills the revealed polygons in order. After
// the last one the dump hook gets the buffer, restricted to that polygon's
// bounds. A dump failure is returned with the pass still complete.
func (s *Session) Render() (Pass, error) {
	s.buf.Clear()

	var p Pass
	var last image.Rectangle
	for _, poly := range s.polygons[:s.shown] {
		res := raster.Fill(s.buf, poly)
		p.Drawn++
		if res.Accepted {
			p.Accepted++
			p.Written += res.Written
		}
		last = res.Bounds
	}
	raster.Logger().Debug("session: pass rendered",
		"drawn", p.Drawn, "accepted", p.Accepted, "written", p.Written)

	dumped, err := s.hook.Maybe(p.Drawn, s.buf, last)
	p.Dumped = dumped
	return p, err
}
