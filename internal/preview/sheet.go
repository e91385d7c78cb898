// Package preview lays decomposed skin layers out on one image for quick
// inspection.
package preview

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

const (
	gap     = 2 // in source pixels
	checker = 4 // checkerboard cell, in output pixels
)

var (
	checkerLight = color.NRGBA{R: 0xCC, G: 0xCC, B: 0xCC, A: 0xFF}
	checkerDark  = color.NRGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xFF}
)

// Upscale enlarges img by an integer factor without smoothing.
func Upscale(img image.Image, scale int) *image.NRGBA {
	if scale < 1 {
		scale = 1
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Sheet places the layers left to right, each upscaled by scale, over a
// checkerboard so transparent pixels stay visible.
func Sheet(layers []*image.NRGBA, scale int) *image.NRGBA {
	if scale < 1 {
		scale = 1
	}
	w, h := gap*scale, 0
	for _, l := range layers {
		w += (l.Bounds().Dx() + gap) * scale
		h = max(h, l.Bounds().Dy()*scale)
	}
	h += 2 * gap * scale

	out := imaging.New(w, h, color.NRGBA{A: 0xFF})
	x := gap * scale
	for _, l := range layers {
		up := Upscale(l, scale)
		at := image.Pt(x, gap*scale)
		bg := checkerboard(up.Bounds().Dx(), up.Bounds().Dy())
		out = imaging.Paste(out, bg, at)
		draw.Draw(out, up.Bounds().Add(at), up, image.Point{}, draw.Over)
		x += up.Bounds().Dx() + gap*scale
	}
	return out
}

func checkerboard(w, h int) *image.NRGBA {
	img := imaging.New(w, h, checkerLight)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/checker+y/checker)%2 == 1 {
				img.SetNRGBA(x, y, checkerDark)
			}
		}
	}
	return img
}

// Thumbnail shrinks img to fit in size x size with premultiplied-alpha-aware
// CatmullRom filtering. Smaller images are returned unchanged.
func Thumbnail(img *image.NRGBA, size int) *image.NRGBA {
	b := img.Bounds()
	if size <= 0 || (b.Dx() <= size && b.Dy() <= size) {
		return img
	}
	tw, th := size, b.Dy()*size/b.Dx()
	if b.Dy() > b.Dx() {
		tw, th = b.Dx()*size/b.Dy(), size
	}
	tw, th = max(tw, 1), max(th, 1)

	// Premultiply so transparent edges do not darken.
	premul := image.NewRGBA(b)
	draw.Draw(premul, b, img, b.Min, draw.Src)

	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.CatmullRom.Scale(dst, dst.Bounds(), premul, b, draw.Src, nil)

	result := image.NewNRGBA(dst.Bounds())
	draw.Draw(result, result.Bounds(), dst, image.Point{}, draw.Src)
	return result
}
