// Package capefmt converts the compact Ears cape image into the standard
// 64x32 cape texture layout.
package capefmt

import (
	"image"
	"image/color"

	"ears-workbench/internal/skinerr"

	"github.com/disintegration/imaging"
)

// Legacy is the size of a compact cape: front on the left, back on the right.
var Legacy = image.Pt(20, 16)

// Target is the size of a standard cape texture.
var Target = image.Pt(64, 32)

const (
	faceW = 10
	faceH = 16
)

// Convert returns img in the standard layout. Images already at least
// Target in size are returned as a copy.
func Convert(img image.Image) (*image.NRGBA, error) {
	size := img.Bounds().Size()
	if size.X >= Target.X && size.Y >= Target.Y {
		return imaging.Clone(img), nil
	}
	if size != Legacy {
		return nil, skinerr.Decodef("capefmt: convert", "cape is %dx%d, want %dx%d or at least %dx%d",
			size.X, size.Y, Legacy.X, Legacy.Y, Target.X, Target.Y)
	}

	src := imaging.Clone(img)
	front := imaging.Crop(src, image.Rect(0, 0, faceW, faceH))
	back := imaging.Crop(src, image.Rect(faceW, 0, 2*faceW, faceH))

	out := imaging.New(Target.X, Target.Y, color.NRGBA{})
	out = imaging.Paste(out, front, image.Pt(1, 1))
	out = imaging.Paste(out, back, image.Pt(faceW+2, 1))

	// The compact form has no edge faces; extend the front's borders.
	out = imaging.Paste(out, imaging.Crop(front, image.Rect(0, 0, faceW, 1)), image.Pt(1, 0))
	out = imaging.Paste(out, imaging.Crop(front, image.Rect(0, faceH-1, faceW, faceH)), image.Pt(faceW+1, 0))
	out = imaging.Paste(out, imaging.Crop(front, image.Rect(0, 0, 1, faceH)), image.Pt(0, 1))
	out = imaging.Paste(out, imaging.Crop(front, image.Rect(faceW-1, 0, faceW, faceH)), image.Pt(faceW+1, 1))
	return out, nil
}
