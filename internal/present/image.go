// Package present turns a depth buffer into an image and encodes it.
package present

import (
	"image"

	"golang.org/x/image/draw"

	"zbuf-renderer/internal/raster"
)

// Image copies every cell's color into an opaque NRGBA image. With flipY,
// row 0 of the buffer lands on the bottom image row, as with a bottom-up
// orthographic projection.
func Image(buf *raster.DepthBuffer, flipY bool) *image.NRGBA {
	w, h := buf.Width(), buf.Height()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for row := 0; row < h; row++ {
		dy := row
		if flipY {
			dy = h - 1 - row
		}
		off := dy * img.Stride
		for col, c := range buf.Row(row) {
			r, g, b := c.Color.RGB()
			i := off + col*4
			img.Pix[i] = r
			img.Pix[i+1] = g
			img.Pix[i+2] = b
			img.Pix[i+3] = 255
		}
	}
	return img
}

// Scale enlarges img by an integer factor with nearest-neighbour sampling so
// pixel edges stay crisp. factor <= 1 returns img unchanged.
func Scale(img *image.NRGBA, factor int) *image.NRGBA {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
