package capefmt

import (
	"image"
	"image/color"
	"testing"

	"ears-workbench/internal/skinerr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func legacy() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, Legacy.X, Legacy.Y))
	for y := 0; y < Legacy.Y; y++ {
		for x := 0; x < Legacy.X; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 7, A: 255})
		}
	}
	return img
}

func TestConvert_Legacy(t *testing.T) {
	src := legacy()
	out, err := Convert(src)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 32), out.Bounds())

	// front and back faces
	assert.Equal(t, src.NRGBAAt(0, 0), out.NRGBAAt(1, 1))
	assert.Equal(t, src.NRGBAAt(9, 15), out.NRGBAAt(10, 16))
	assert.Equal(t, src.NRGBAAt(10, 0), out.NRGBAAt(12, 1))
	assert.Equal(t, src.NRGBAAt(19, 15), out.NRGBAAt(21, 16))

	// extended edges
	assert.Equal(t, src.NRGBAAt(4, 0), out.NRGBAAt(5, 0))
	assert.Equal(t, src.NRGBAAt(4, 15), out.NRGBAAt(15, 0))
	assert.Equal(t, src.NRGBAAt(0, 8), out.NRGBAAt(0, 9))
	assert.Equal(t, src.NRGBAAt(9, 8), out.NRGBAAt(11, 9))

	assert.Equal(t, uint8(0), out.NRGBAAt(40, 20).A)
}

func TestConvert_PassThrough(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 64, 32))
	src.SetNRGBA(3, 3, color.NRGBA{R: 1, A: 255})
	out, err := Convert(src)
	require.NoError(t, err)
	assert.Equal(t, src.Pix, out.Pix)
	assert.NotSame(t, src, out)
}

func TestConvert_BadSize(t *testing.T) {
	_, err := Convert(image.NewNRGBA(image.Rect(0, 0, 30, 10)))
	assert.ErrorIs(t, err, skinerr.ErrDecode)
}
