//go:build cgo

package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"zbuf-renderer/internal/present"
	"zbuf-renderer/internal/raster"
	"zbuf-renderer/internal/session"
)

// runWindow shows the session's buffer and blocks until the window closes.
func runWindow(s *session.Session, opts viewOptions) error {
	buf := s.Buffer()
	g := &viewer{s: s, opts: opts, dirty: true}
	ebiten.SetWindowTitle(opts.title)
	ebiten.SetWindowSize(buf.Width()*max(1, opts.scale), buf.Height()*max(1, opts.scale))
	ebiten.SetTPS(60)
	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

type viewer struct {
	s     *session.Session
	opts  viewOptions
	fbImg *ebiten.Image
	dirty bool
	shots int
}

func (v *viewer) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		v.dirty = v.s.Reveal() || v.dirty
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		v.s.SetShown(0)
		v.dirty = true
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		v.shots++
		path := filepath.Join(v.opts.outputDir, fmt.Sprintf("zview_%03d.png", v.shots))
		if err := present.Save(path, present.Image(v.s.Buffer(), v.opts.flipY)); err != nil {
			raster.Logger().Warn("zview: screenshot failed", "err", err)
		} else {
			raster.Logger().Info("zview: screenshot saved", "path", path)
		}
	}

	if v.dirty {
		pass, err := v.s.Render()
		if err != nil {
			raster.Logger().Warn("zview: dump failed", "err", err)
		}
		raster.Logger().Info("zview: pass", "shown", v.s.Shown(), "accepted", pass.Accepted, "written", pass.Written)
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	buf := v.s.Buffer()
	if v.fbImg == nil {
		v.fbImg = ebiten.NewImage(buf.Width(), buf.Height())
	}
	if v.dirty {
		// Opaque pixels: NRGBA and premultiplied RGBA coincide.
		v.fbImg.WritePixels(present.Image(buf, v.opts.flipY).Pix)
		v.dirty = false
	}
	screen.DrawImage(v.fbImg, nil)
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.s.Buffer().Width(), v.s.Buffer().Height()
}
