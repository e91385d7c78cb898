// Package featurefmt reads and writes the flat feature record stored in a
// 4x4 block of the unused skin area at (0,32).
//
// The first pixel of the block holds a magic color naming the layout
// generation. v0 packs one field group per pixel into RGB bytes; v1 packs
// a bit stream across the RGB bytes of the other 15 pixels.
package featurefmt

import (
	"image"
	"image/color"
	"math"

	"ears-workbench/internal/features"
	"ears-workbench/internal/skinerr"
)

// Layout generations.
const (
	V0 uint8 = 0
	V1 uint8 = 1
)

// Block is the record area of a 64x64 skin.
var Block = image.Rect(0, 32, 4, 36)

const skinSize = 64

var magics = map[uint8]color.NRGBA{
	V0: {R: 0x3F, G: 0x23, B: 0xD8, A: 0xFF},
	V1: {R: 0xEA, G: 0x25, B: 0x01, A: 0xFF},
}

func isSkin(img *image.NRGBA) bool {
	b := img.Bounds()
	return b.Dx() == skinSize && b.Dy() == skinSize
}

// pixels returns the pix offsets of the block in row order.
func pixels(img *image.NRGBA) []int {
	o := img.Rect.Min
	out := make([]int, 0, Block.Dx()*Block.Dy())
	for y := Block.Min.Y; y < Block.Max.Y; y++ {
		for x := Block.Min.X; x < Block.Max.X; x++ {
			out = append(out, img.PixOffset(o.X+x, o.Y+y))
		}
	}
	return out
}

// Parse reads the record from img. It returns nil when img is not a 64x64
// skin or carries no record. Enumeration values are returned as stored;
// features.ToModel validates them.
func Parse(img *image.NRGBA) (*features.Raw, error) {
	if !isSkin(img) {
		return nil, nil
	}
	px := pixels(img)
	head := img.Pix[px[0] : px[0]+4]
	for version, m := range magics {
		if head[0] != m.R || head[1] != m.G || head[2] != m.B || head[3] != m.A {
			continue
		}
		var (
			r   features.Raw
			err error
		)
		switch version {
		case V0:
			r = parseV0(img, px[1:])
		case V1:
			r, err = parseV1(img, px[1:])
		}
		if err != nil {
			return nil, err
		}
		r.DataVersion = version
		return &r, nil
	}
	return nil, nil
}

// Write stores r in img using the given layout generation. r.DataVersion
// is ignored.
func Write(img *image.NRGBA, r features.Raw, version uint8) error {
	const op = "featurefmt: write"
	if !isSkin(img) {
		b := img.Bounds()
		return skinerr.Encodef(op, "skin is %dx%d, need %dx%d", b.Dx(), b.Dy(), skinSize, skinSize)
	}
	m, ok := magics[version]
	if !ok {
		return skinerr.Encodef(op, "unknown data version %d", version)
	}

	px := pixels(img)
	for _, i := range px {
		copy(img.Pix[i:i+4], []uint8{0, 0, 0, 0xFF})
	}
	copy(img.Pix[px[0]:], []uint8{m.R, m.G, m.B, m.A})

	switch version {
	case V0:
		writeV0(img, px[1:], r)
	case V1:
		if err := writeV1(img, px[1:], r); err != nil {
			return err
		}
	}
	return nil
}

// Clear makes the record block fully transparent.
func Clear(img *image.NRGBA) {
	if !isSkin(img) {
		return
	}
	for _, i := range pixels(img) {
		copy(img.Pix[i:i+4], []uint8{0, 0, 0, 0})
	}
}

func quantizeChest(v float32) uint8 {
	return uint8(math.Round(float64(clamp(v, 0, 1)) * 255))
}

func dequantizeChest(v uint8) float32 {
	return float32(v) / 255
}

func quantizeBend(v float32) int8 {
	return int8(math.Round(float64(clamp(v, math.MinInt8, math.MaxInt8))))
}

func clamp(v, lo, hi float32) float32 {
	return max(lo, min(v, hi))
}

func bool2u8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
