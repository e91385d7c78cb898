// Package emissive reads and writes the emissive palette of a skin and
// derives glow overlays from it.
//
// The palette lives in a 4x4 block of the unused skin area at (52,32).
// Every opaque pixel of the block, in row order, is one palette color.
package emissive

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"ears-workbench/internal/skinerr"
)

// MaxColors is the number of palette slots in the block.
const MaxColors = 16

// Block is the palette area of a 64x64 skin.
var Block = image.Rect(52, 32, 56, 36)

const skinSize = 64

// Palette is an ordered list of emissive colors. Alpha is ignored.
type Palette []color.RGBA

// Contains reports whether c's RGB matches a palette entry.
func (p Palette) Contains(c color.NRGBA) bool {
	for _, e := range p {
		if e.R == c.R && e.G == c.G && e.B == c.B {
			return true
		}
	}
	return false
}

func (p Palette) String() string {
	parts := make([]string, len(p))
	for i, c := range p {
		parts[i] = fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func isSkin(img *image.NRGBA) bool {
	b := img.Bounds()
	return b.Dx() == skinSize && b.Dy() == skinSize
}

// Extract reads the palette from img. It returns nil when the block holds
// no colors or img is not a 64x64 skin.
func Extract(img *image.NRGBA) (Palette, error) {
	if !isSkin(img) {
		return nil, nil
	}
	o := img.Rect.Min
	var p Palette
	for y := Block.Min.Y; y < Block.Max.Y; y++ {
		for x := Block.Min.X; x < Block.Max.X; x++ {
			c := img.NRGBAAt(o.X+x, o.Y+y)
			switch c.A {
			case 0:
			case 0xFF:
				p = append(p, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF})
			default:
				return nil, skinerr.Decodef("emissive: extract", "palette pixel (%d,%d) has alpha %d", x, y, c.A)
			}
		}
	}
	return p, nil
}

// Apply returns a new image with the bounds of img holding only the pixels
// whose color is in p; every other pixel is fully transparent.
func Apply(img *image.NRGBA, p Palette) (*image.NRGBA, error) {
	if len(p) == 0 {
		return nil, skinerr.Encodef("emissive: apply", "empty palette")
	}
	b := img.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			if c.A != 0 && p.Contains(c) {
				out.SetNRGBA(x, y, c)
			}
		}
	}
	return out, nil
}

// Write clears the palette block of img and stores p in it.
func Write(img *image.NRGBA, p Palette) error {
	const op = "emissive: write"
	if !isSkin(img) {
		return skinerr.Encodef(op, "skin is %dx%d, need %dx%d", img.Bounds().Dx(), img.Bounds().Dy(), skinSize, skinSize)
	}
	if len(p) > MaxColors {
		return skinerr.Encodef(op, "%d colors, block holds %d", len(p), MaxColors)
	}
	Clear(img)
	o := img.Rect.Min
	for i, c := range p {
		x, y := Block.Min.X+i%Block.Dx(), Block.Min.Y+i/Block.Dx()
		img.SetNRGBA(o.X+x, o.Y+y, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xFF})
	}
	return nil
}

// Clear makes the palette block fully transparent.
func Clear(img *image.NRGBA) {
	if !isSkin(img) {
		return
	}
	o := img.Rect.Min
	for y := Block.Min.Y; y < Block.Max.Y; y++ {
		for x := Block.Min.X; x < Block.Max.X; x++ {
			img.SetNRGBA(o.X+x, o.Y+y, color.NRGBA{})
		}
	}
}

// ToHex packs c as 0xFFRRGGBB.
func ToHex(c color.RGBA) uint32 {
	return 0xFF<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// FromHex unpacks the RGB bytes of hex; the top byte is ignored.
func FromHex(hex uint32) color.RGBA {
	return color.RGBA{R: uint8(hex >> 16), G: uint8(hex >> 8), B: uint8(hex), A: 0xFF}
}
