package erase

import (
	"fmt"
	"image"

	"ears-workbench/internal/skinerr"
)

// RecordSize is the encoded width of one region.
const RecordSize = 4

// Region marks a rectangle of the base texture that downstream consumers
// treat as fully transparent. Coordinates are bounded by the 0-255 range of
// the encoding; a zero width or height is a legal no-op region.
type Region struct {
	X      uint8 `json:"x"`
	Y      uint8 `json:"y"`
	Width  uint8 `json:"width"`
	Height uint8 `json:"height"`
}

// NewRegion validates integer coordinates and builds a Region.
func NewRegion(x, y, width, height int) (Region, error) {
	for _, v := range [...]struct {
		name string
		val  int
	}{{"x", x}, {"y", y}, {"width", width}, {"height", height}} {
		if v.val < 0 || v.val > 255 {
			return Region{}, &skinerr.Error{
				Kind: skinerr.ErrEncode,
				Op:   "erase: region",
				Msg:  fmt.Sprintf("%s=%d outside 0..255", v.name, v.val),
				Err:  skinerr.ErrInvalidArgument,
			}
		}
	}
	return Region{X: uint8(x), Y: uint8(y), Width: uint8(width), Height: uint8(height)}, nil
}

// Rect returns the region as an image rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(int(r.X), int(r.Y), int(r.X)+int(r.Width), int(r.Y)+int(r.Height))
}

// Empty reports whether the region covers no pixels.
func (r Region) Empty() bool {
	return r.Width == 0 || r.Height == 0
}

func (r Region) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", r.X, r.Y, r.Width, r.Height)
}

// Encode packs regions into fixed-width records, preserving order.
// An empty sequence encodes to an empty blob.
func Encode(regions []Region) []byte {
	buf := make([]byte, 0, len(regions)*RecordSize)
	for _, r := range regions {
		buf = append(buf, r.X, r.Y, r.Width, r.Height)
	}
	return buf
}

// Decode unpacks a blob produced by Encode.
func Decode(blob []byte) ([]Region, error) {
	if len(blob)%RecordSize != 0 {
		return nil, skinerr.Decodef("erase: decode", "blob length %d is not a multiple of %d", len(blob), RecordSize)
	}
	regions := make([]Region, 0, len(blob)/RecordSize)
	for off := 0; off < len(blob); off += RecordSize {
		regions = append(regions, Region{
			X:      blob[off],
			Y:      blob[off+1],
			Width:  blob[off+2],
			Height: blob[off+3],
		})
	}
	return regions, nil
}

// Apply clears every pixel covered by regions to fully transparent.
// Regions are clipped to the image bounds.
func Apply(img *image.NRGBA, regions []Region) {
	b := img.Bounds()
	for _, r := range regions {
		rect := r.Rect().Add(b.Min).Intersect(b)
		if rect.Empty() {
			continue
		}
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			i := img.PixOffset(rect.Min.X, y)
			row := img.Pix[i : i+rect.Dx()*4]
			for j := range row {
				row[j] = 0
			}
		}
	}
}
