package featurefmt

import (
	"image"

	"ears-workbench/internal/features"
)

const (
	protrusionClaws = 1 << 0
	protrusionHorn  = 1 << 1
)

// v0 pixel slots, after the magic pixel.
const (
	v0Ears = iota
	v0Tail
	v0Bends
	v0BendSnout
	v0SnoutSize
	v0SnoutChestWing
	v0Flags
)

func parseV0(img *image.NRGBA, px []int) features.Raw {
	at := func(slot int) []uint8 { return img.Pix[px[slot] : px[slot]+3] }

	var r features.Raw
	p := at(v0Ears)
	r.EarMode, r.EarAnchor = features.EarMode(p[0]), features.EarAnchor(p[1])
	r.Claws, r.Horn = p[2]&protrusionClaws != 0, p[2]&protrusionHorn != 0

	p = at(v0Tail)
	r.TailMode, r.TailSegments = features.TailMode(p[0]), p[1]
	p = at(v0Bends)
	for i := 0; i < 3; i++ {
		r.TailBends[i] = float32(int8(p[i]))
	}
	p = at(v0BendSnout)
	r.TailBends[3] = float32(int8(p[0]))
	r.SnoutStatus = features.SnoutStatus(p[1])

	p = at(v0SnoutSize)
	r.SnoutWidth, r.SnoutHeight, r.SnoutDepth = p[0], p[1], p[2]
	p = at(v0SnoutChestWing)
	r.SnoutOffset, r.ChestSize, r.WingMode = p[0], dequantizeChest(p[1]), features.WingMode(p[2])

	p = at(v0Flags)
	r.WingAnimations = features.WingAnimations(p[0])
	r.CapeEnabled, r.Emissive = p[1] != 0, p[2] != 0
	return r
}

func writeV0(img *image.NRGBA, px []int, r features.Raw) {
	set := func(slot int, v ...uint8) { copy(img.Pix[px[slot]:px[slot]+3], v) }

	var prot uint8
	if r.Claws {
		prot |= protrusionClaws
	}
	if r.Horn {
		prot |= protrusionHorn
	}
	b := r.TailBends
	set(v0Ears, uint8(r.EarMode), uint8(r.EarAnchor), prot)
	set(v0Tail, uint8(r.TailMode), r.TailSegments)
	set(v0Bends, uint8(quantizeBend(b[0])), uint8(quantizeBend(b[1])), uint8(quantizeBend(b[2])))
	set(v0BendSnout, uint8(quantizeBend(b[3])), uint8(r.SnoutStatus))
	set(v0SnoutSize, r.SnoutWidth, r.SnoutHeight, r.SnoutDepth)
	set(v0SnoutChestWing, r.SnoutOffset, quantizeChest(r.ChestSize), uint8(r.WingMode))
	set(v0Flags, uint8(r.WingAnimations), bool2u8(r.CapeEnabled), bool2u8(r.Emissive))
}
