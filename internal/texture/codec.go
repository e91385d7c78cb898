// Package texture decodes and encodes skin and layer images.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"ears-workbench/internal/skinerr"

	"github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
)

// Format names an output encoding.
type Format string

const (
	PNG  Format = "png"
	WebP Format = "webp"
	TGA  Format = "tga"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case PNG, WebP, TGA:
		return f, nil
	}
	return "", fmt.Errorf("texture: unknown format %q", s)
}

// Ext returns the file extension for f, with the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// Decode reads a PNG, TGA, BMP or WebP image into an NRGBA buffer.
// Non-premultiplied inputs keep their exact channel values.
//
// The tga package registers with an empty magic that matches any input,
// so image.Decode sniffing cannot be used; formats are picked here and
// TGA, which has no magic, is the fallback.
func Decode(data []byte) (*image.NRGBA, error) {
	img, err := sniff(data)(bytes.NewReader(data))
	if err != nil {
		return nil, skinerr.Wrap(skinerr.ErrDecode, "texture: decode", err)
	}
	return toNRGBA(img), nil
}

func sniff(data []byte) func(io.Reader) (image.Image, error) {
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return png.Decode
	case bytes.HasPrefix(data, []byte("BM")):
		return bmp.Decode
	case len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return webp.Decode
	}
	return tga.Decode
}

// LoadFile reads and decodes the image at path.
func LoadFile(path string) (*image.NRGBA, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", path, err)
	}
	img, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("texture: %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

// toNRGBA returns src as an NRGBA image with its origin at (0,0).
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	return imaging.Clone(src)
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, f Format) error {
	var err error
	switch f {
	case PNG:
		err = png.Encode(w, img)
	case WebP:
		err = nativewebp.Encode(w, img, nil)
	case TGA:
		err = tga.Encode(w, img)
	default:
		return skinerr.Encodef("texture: encode", "unknown format %q", f)
	}
	if err != nil {
		return skinerr.Wrap(skinerr.ErrEncode, "texture: encode "+string(f), err)
	}
	return nil
}

// EncodePNG returns img as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile encodes img into path, creating parent directories.
func WriteFile(path string, img image.Image, f Format) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(out, img, f); err != nil {
		out.Close()
		return fmt.Errorf("texture: write %s: %w", path, err)
	}
	return out.Close()
}
