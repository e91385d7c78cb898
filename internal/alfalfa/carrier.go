package alfalfa

import (
	"bytes"
	"encoding/binary"
	"image"

	"ears-workbench/internal/bitstream"
	"ears-workbench/internal/skinerr"

	"github.com/klauspost/compress/zstd"
)

// SkinSize is the only skin dimension that can carry a container.
const SkinSize = 64

// Each carrier pixel holds 7 payload bits in its alpha: 0x80 | bits.
const (
	bitsPerPixel = 7
	dataFlag     = 0x80
)

const flagZstd = 1 << 0

var magic = [2]byte{0xEA, 0x1F}

// carrierFaces are the base-layer faces of a 64x64 skin, in storage order.
// Vanilla renderers force these opaque, so their alpha is free to hold data.
var carrierFaces = []image.Rectangle{
	// head: top, bottom, sides
	image.Rect(8, 0, 16, 8), image.Rect(16, 0, 24, 8), image.Rect(0, 8, 32, 16),
	// right leg
	image.Rect(4, 16, 8, 20), image.Rect(8, 16, 12, 20), image.Rect(0, 20, 16, 32),
	// body
	image.Rect(20, 16, 28, 20), image.Rect(28, 16, 36, 20), image.Rect(16, 20, 40, 32),
	// right arm
	image.Rect(44, 16, 48, 20), image.Rect(48, 16, 52, 20), image.Rect(40, 20, 56, 32),
	// left leg
	image.Rect(20, 48, 24, 52), image.Rect(24, 48, 28, 52), image.Rect(16, 52, 32, 64),
	// left arm
	image.Rect(36, 48, 40, 52), image.Rect(40, 48, 44, 52), image.Rect(32, 52, 48, 64),
}

var (
	zenc, _ = zstd.NewWriter(nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
	)
	zdec, _ = zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(1<<20),
	)
)

// Capacity returns the number of frame bytes the carrier can hold.
func Capacity() int {
	return carrierPixels() * bitsPerPixel / 8
}

func carrierPixels() int {
	n := 0
	for _, r := range carrierFaces {
		n += r.Dx() * r.Dy()
	}
	return n
}

// forEachCarrier visits the alpha offset of every carrier pixel in order.
func forEachCarrier(img *image.NRGBA, fn func(i int)) {
	o := img.Rect.Min
	for _, r := range carrierFaces {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				fn(img.PixOffset(o.X+x, o.Y+y) + 3)
			}
		}
	}
}

func isSkin(img *image.NRGBA) bool {
	b := img.Bounds()
	return b.Dx() == SkinSize && b.Dy() == SkinSize
}

// Read extracts the container hidden in img. It returns nil without error
// when the image carries no container.
func Read(img *image.NRGBA) (*Data, error) {
	const op = "alfalfa: read"
	if !isSkin(img) {
		return nil, nil
	}

	var w bitstream.Writer
	forEachCarrier(img, func(i int) {
		w.WriteBits(uint64(img.Pix[i]&^dataFlag), bitsPerPixel)
	})
	raw := w.Bytes()

	if !bytes.HasPrefix(raw, magic[:]) {
		return nil, nil
	}
	r := bytes.NewReader(raw[len(magic):])
	flags, err := r.ReadByte()
	if err != nil {
		return nil, skinerr.Wrap(skinerr.ErrDecode, op, err)
	}
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, skinerr.Wrap(skinerr.ErrDecode, op, err)
	}
	if n > uint64(r.Len()) {
		return nil, skinerr.Decodef(op, "payload length %d exceeds carrier", n)
	}
	payload := make([]byte, n)
	r.Read(payload)

	if flags&flagZstd != 0 {
		payload, err = zdec.DecodeAll(payload, nil)
		if err != nil {
			return nil, skinerr.Wrap(skinerr.ErrDecode, op+": zstd", err)
		}
	}

	d := New()
	if err := d.UnmarshalBinary(payload); err != nil {
		return nil, err
	}
	return d, nil
}

// Write hides d in the alpha channel of img, replacing any previous
// container. Carrier pixels beyond the payload are reset to opaque.
func Write(d *Data, img *image.NRGBA) error {
	const op = "alfalfa: write"
	if !isSkin(img) {
		b := img.Bounds()
		return skinerr.Encodef(op, "skin is %dx%d, need %dx%d", b.Dx(), b.Dy(), SkinSize, SkinSize)
	}

	payload, err := d.MarshalBinary()
	if err != nil {
		return err
	}
	var flags byte
	if packed := zenc.EncodeAll(payload, nil); len(packed) < len(payload) {
		payload = packed
		flags |= flagZstd
	}

	frame := make([]byte, 0, len(magic)+1+binary.MaxVarintLen64+len(payload))
	frame = append(frame, magic[:]...)
	frame = append(frame, flags)
	frame = binary.AppendUvarint(frame, uint64(len(payload)))
	frame = append(frame, payload...)

	if len(frame) > Capacity() {
		return skinerr.Encodef(op, "container needs %d bytes, carrier holds %d", len(frame), Capacity())
	}

	br := bitstream.NewReader(frame)
	forEachCarrier(img, func(i int) {
		if br.Remaining() <= 0 {
			img.Pix[i] = 0xFF
			return
		}
		n := uint8(bitsPerPixel)
		if rem := br.Remaining(); rem < bitsPerPixel {
			n = uint8(rem)
		}
		v, _ := br.ReadBits(n)
		img.Pix[i] = dataFlag | byte(v<<(bitsPerPixel-n))
	})
	return nil
}

// StripAlpha makes every carrier pixel opaque, removing any hidden
// container. Only valid when there is nothing left to hide.
func StripAlpha(img *image.NRGBA) {
	if !isSkin(img) {
		return
	}
	forEachCarrier(img, func(i int) {
		img.Pix[i] = 0xFF
	})
}
