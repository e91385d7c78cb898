package featurefmt

import (
	"image"

	"ears-workbench/internal/bitstream"
	"ears-workbench/internal/features"
	"ears-workbench/internal/skinerr"
)

// field is one entry of the v1 bit layout.
type field struct {
	name  string
	width uint8
	get   func(*features.Raw) uint64
	set   func(*features.Raw, uint64)
}

func bend(i int) field {
	return field{
		name:  "tail bend",
		width: 8,
		get:   func(r *features.Raw) uint64 { return uint64(uint8(quantizeBend(r.TailBends[i]))) },
		set:   func(r *features.Raw, v uint64) { r.TailBends[i] = float32(int8(v)) },
	}
}

func flag(name string, p func(*features.Raw) *bool) field {
	return field{
		name:  name,
		width: 1,
		get:   func(r *features.Raw) uint64 { return uint64(bool2u8(*p(r))) },
		set:   func(r *features.Raw, v uint64) { *p(r) = v != 0 },
	}
}

func byteField(name string, p func(*features.Raw) *uint8) field {
	return field{
		name:  name,
		width: 8,
		get:   func(r *features.Raw) uint64 { return uint64(*p(r)) },
		set:   func(r *features.Raw, v uint64) { *p(r) = uint8(v) },
	}
}

var v1Layout = []field{
	{"ear mode", 4,
		func(r *features.Raw) uint64 { return uint64(r.EarMode) },
		func(r *features.Raw, v uint64) { r.EarMode = features.EarMode(v) }},
	{"ear anchor", 2,
		func(r *features.Raw) uint64 { return uint64(r.EarAnchor) },
		func(r *features.Raw, v uint64) { r.EarAnchor = features.EarAnchor(v) }},
	flag("claws", func(r *features.Raw) *bool { return &r.Claws }),
	flag("horn", func(r *features.Raw) *bool { return &r.Horn }),
	{"tail mode", 3,
		func(r *features.Raw) uint64 { return uint64(r.TailMode) },
		func(r *features.Raw, v uint64) { r.TailMode = features.TailMode(v) }},
	{"tail segments", 3,
		func(r *features.Raw) uint64 { return uint64(r.TailSegments) },
		func(r *features.Raw, v uint64) { r.TailSegments = uint8(v) }},
	bend(0), bend(1), bend(2), bend(3),
	{"snout status", 1,
		func(r *features.Raw) uint64 { return uint64(r.SnoutStatus) },
		func(r *features.Raw, v uint64) { r.SnoutStatus = features.SnoutStatus(v) }},
	byteField("snout width", func(r *features.Raw) *uint8 { return &r.SnoutWidth }),
	byteField("snout height", func(r *features.Raw) *uint8 { return &r.SnoutHeight }),
	byteField("snout depth", func(r *features.Raw) *uint8 { return &r.SnoutDepth }),
	byteField("snout offset", func(r *features.Raw) *uint8 { return &r.SnoutOffset }),
	{"chest size", 8,
		func(r *features.Raw) uint64 { return uint64(quantizeChest(r.ChestSize)) },
		func(r *features.Raw, v uint64) { r.ChestSize = dequantizeChest(uint8(v)) }},
	{"wing mode", 3,
		func(r *features.Raw) uint64 { return uint64(r.WingMode) },
		func(r *features.Raw, v uint64) { r.WingMode = features.WingMode(v) }},
	{"wing animations", 1,
		func(r *features.Raw) uint64 { return uint64(r.WingAnimations) },
		func(r *features.Raw, v uint64) { r.WingAnimations = features.WingAnimations(v) }},
	flag("cape", func(r *features.Raw) *bool { return &r.CapeEnabled }),
	flag("emissive", func(r *features.Raw) *bool { return &r.Emissive }),
}

func parseV1(img *image.NRGBA, px []int) (features.Raw, error) {
	data := make([]byte, 0, len(px)*3)
	for _, i := range px {
		data = append(data, img.Pix[i:i+3]...)
	}
	br := bitstream.NewReader(data)

	var r features.Raw
	for _, f := range v1Layout {
		v, err := br.ReadBits(f.width)
		if err != nil {
			return features.Raw{}, skinerr.Wrap(skinerr.ErrDecode, "featurefmt: v1 "+f.name, err)
		}
		f.set(&r, v)
	}
	return r, nil
}

func writeV1(img *image.NRGBA, px []int, r features.Raw) error {
	var bw bitstream.Writer
	for _, f := range v1Layout {
		v := f.get(&r)
		if v >= 1<<f.width {
			return skinerr.Encodef("featurefmt: write v1", "%s %d does not fit in %d bits", f.name, v, f.width)
		}
		bw.WriteBits(v, f.width)
	}
	data := bw.Bytes()
	for n, i := range px {
		if 3*n >= len(data) {
			break
		}
		copy(img.Pix[i:i+3], data[3*n:])
	}
	return nil
}
