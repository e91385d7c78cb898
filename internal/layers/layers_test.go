package layers

import (
	"fmt"
	"image"
	"image/color"
	"testing"

	"ears-workbench/internal/alfalfa"
	"ears-workbench/internal/emissive"
	"ears-workbench/internal/erase"
	"ears-workbench/internal/featurefmt"
	"ears-workbench/internal/features"
	"ears-workbench/internal/skinerr"
	"ears-workbench/internal/texture"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red  = color.NRGBA{R: 255, A: 255}
	gray = color.NRGBA{R: 90, G: 90, B: 90, A: 255}
)

func fill(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	b, err := texture.EncodePNG(img)
	require.NoError(t, err)
	return b
}

func baseSkin() *image.NRGBA {
	img := fill(64, 64, gray)
	img.SetNRGBA(10, 10, red)
	return img
}

func wingImage() *image.NRGBA {
	img := fill(8, 8, gray)
	img.SetNRGBA(2, 3, red)
	return img
}

func fullModel() features.Model {
	return features.Model{
		Ear:         features.Ear{Mode: features.EarAbove, Anchor: features.AnchorCenter},
		Tail:        &features.Tail{Mode: features.TailDown, Segments: 2, Bends: [4]float32{15, -15, 0, 0}},
		Wing:        &features.Wing{Mode: features.WingSymmetricDual, Animated: true},
		Claws:       true,
		CapeEnabled: true,
		Emissive:    true,
		DataVersion: 1,
	}
}

// fullSkin builds a skin using every feature plus a custom entry.
func fullSkin(t *testing.T) []byte {
	t.Helper()
	s, err := OpenImage(baseSkin())
	require.NoError(t, err)

	s.SetFeatures(fullModel())
	s.SetWing(pngBytes(t, wingImage()))
	s.SetCape(pngBytes(t, fill(20, 16, gray)))
	s.SetPalette(emissive.Palette{{R: 255, A: 255}})
	s.SetRegions([]erase.Region{{X: 8, Y: 8, Width: 2, Height: 2}})
	require.NoError(t, s.SetEntry("mymod:extra", []byte{1, 2, 3}))

	skin, err := s.Save()
	require.NoError(t, err)
	return skin
}

func TestRepair_Idempotent(t *testing.T) {
	for mask := 0; mask < 8; mask++ {
		wingMissing, capeMissing, paletteMissing := mask&1 != 0, mask&2 != 0, mask&4 != 0
		name := fmt.Sprintf("wing_missing=%v/cape_missing=%v/palette_missing=%v", wingMissing, capeMissing, paletteMissing)
		t.Run(name, func(t *testing.T) {
			d := alfalfa.New()
			if !wingMissing {
				require.NoError(t, d.Set(alfalfa.KeyWing, []byte("w")))
			}
			if !capeMissing {
				require.NoError(t, d.Set(alfalfa.KeyCape, []byte("c")))
			}
			var p emissive.Palette
			if !paletteMissing {
				p = emissive.Palette{{R: 1, A: 255}}
			}

			once := fullModel()
			Repair(&once, d, p)
			twice := once.Clone()
			Repair(&twice, d, p)

			assert.Equal(t, once, twice)
			assert.Equal(t, wingMissing, once.Wing == nil)
			assert.Equal(t, !capeMissing, once.CapeEnabled)
			assert.Equal(t, !paletteMissing, once.Emissive)
			assert.NoError(t, Check(once, d, p))
		})
	}
}

func TestRepair_WingWithoutImage(t *testing.T) {
	m := features.Model{Wing: &features.Wing{Mode: features.WingSymmetricDual, Animated: true}}
	Repair(&m, alfalfa.New(), nil)
	assert.Nil(t, m.Wing)
	assert.Equal(t, features.WingNone, features.FromModel(m).WingMode)
}

func TestRepair_KeepsOtherFields(t *testing.T) {
	m := fullModel()
	Repair(&m, alfalfa.New(), nil)
	assert.Equal(t, features.EarAbove, m.Ear.Mode)
	assert.True(t, m.Claws)
	assert.NotNil(t, m.Tail)
}

func TestCheck_Inconsistent(t *testing.T) {
	err := Check(fullModel(), alfalfa.New(), nil)
	assert.ErrorIs(t, err, skinerr.ErrInconsistentState)
}

func TestSession_WingDroppedWithoutImage(t *testing.T) {
	s, err := OpenImage(baseSkin())
	require.NoError(t, err)
	s.SetFeatures(features.Model{Wing: &features.Wing{Mode: features.WingSymmetricDual, Animated: true}})

	skin, err := s.Save()
	require.NoError(t, err)
	assert.Nil(t, s.Features().Wing)

	reopened, err := Open(skin)
	require.NoError(t, err)
	assert.True(t, reopened.HasFeatures())
	assert.Nil(t, reopened.Features().Wing)
}

func TestSession_RoundTrip(t *testing.T) {
	s, err := Open(fullSkin(t))
	require.NoError(t, err)

	assert.Equal(t, fullModel(), s.Features())
	assert.Equal(t, []erase.Region{{X: 8, Y: 8, Width: 2, Height: 2}}, s.Regions())
	assert.Equal(t, emissive.Palette{{R: 255, A: 255}}, s.Palette())
	assert.NotEmpty(t, s.Wing())
	assert.NotEmpty(t, s.Cape())

	v, ok := s.Entry("mymod:extra")
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, v)
}

func TestSession_CustomEntrySurvivesEdits(t *testing.T) {
	s, err := Open(fullSkin(t))
	require.NoError(t, err)

	m := s.Features()
	m.Wing = nil
	m.CapeEnabled = false
	s.SetFeatures(m)
	s.SetRegions(nil)

	skin, err := s.Save()
	require.NoError(t, err)

	img, err := texture.Decode(skin)
	require.NoError(t, err)
	d, err := alfalfa.Read(img)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, []string{"mymod:extra"}, d.Keys())

	wing, cape := features.FromContainer(d)
	assert.Nil(t, wing)
	assert.Nil(t, cape)
}

func TestSession_EmptyContainerStripsAlpha(t *testing.T) {
	s, err := OpenImage(baseSkin())
	require.NoError(t, err)
	s.SetRegions([]erase.Region{{X: 0, Y: 0, Width: 4, Height: 4}})
	skin, err := s.Save()
	require.NoError(t, err)

	s, err = Open(skin)
	require.NoError(t, err)
	require.Len(t, s.Regions(), 1)
	s.SetRegions(nil)

	img, err := s.Compose()
	require.NoError(t, err)
	d, err := alfalfa.Read(img)
	require.NoError(t, err)
	assert.Nil(t, d)
	assert.Equal(t, uint8(255), img.NRGBAAt(8, 8).A)
	assert.Equal(t, uint8(255), img.NRGBAAt(30, 25).A)
}

func TestSession_ReservedEntries(t *testing.T) {
	s, err := OpenImage(baseSkin())
	require.NoError(t, err)
	for _, k := range []string{alfalfa.KeyWing, alfalfa.KeyCape, alfalfa.KeyErase, alfalfa.KeyEnd} {
		assert.ErrorIs(t, s.SetEntry(k, []byte{1}), skinerr.ErrInvalidArgument, k)
	}
}

func TestSession_ClearFeatures(t *testing.T) {
	s, err := Open(fullSkin(t))
	require.NoError(t, err)
	s.ClearFeatures()

	skin, err := s.Save()
	require.NoError(t, err)
	s, err = Open(skin)
	require.NoError(t, err)
	assert.False(t, s.HasFeatures())
	assert.Empty(t, s.Palette())
}

func TestDecompose_AllLayers(t *testing.T) {
	res, err := Decompose(fullSkin(t))
	require.NoError(t, err)

	assert.Equal(t, Order, res.Names())
	assert.Equal(t, image.Rect(0, 0, 64, 32), res.Layers[Cape].Bounds())
	assert.Equal(t, image.Rect(0, 0, 8, 8), res.Layers[Wing].Bounds())

	base := res.Layers[Base]
	assert.Equal(t, uint8(0), base.NRGBAAt(8, 8).A, "erased")
	assert.Equal(t, uint8(0), base.NRGBAAt(9, 9).A, "erased")
	assert.Equal(t, gray, base.NRGBAAt(12, 12), "carrier alpha stripped")
	assert.Equal(t, red, base.NRGBAAt(10, 10))

	assert.Equal(t, red, res.Layers[EmissiveBase].NRGBAAt(10, 10))
	assert.Equal(t, uint8(0), res.Layers[EmissiveBase].NRGBAAt(12, 12).A)
	assert.Equal(t, red, res.Layers[EmissiveWing].NRGBAAt(2, 3))
	assert.Equal(t, uint8(0), res.Layers[EmissiveWing].NRGBAAt(0, 0).A)
	assert.Equal(t, res.Layers[Cape].Bounds(), res.Layers[EmissiveCape].Bounds())
}

func TestDecompose_GlowSkipsDataBlocks(t *testing.T) {
	res, err := Decompose(fullSkin(t))
	require.NoError(t, err)

	glow := res.Layers[EmissiveBase]
	for _, blk := range []image.Rectangle{emissive.Block, featurefmt.Block} {
		for y := blk.Min.Y; y < blk.Max.Y; y++ {
			for x := blk.Min.X; x < blk.Max.X; x++ {
				assert.Equal(t, uint8(0), glow.NRGBAAt(x, y).A, "(%d,%d)", x, y)
			}
		}
	}
	assert.Equal(t, red, glow.NRGBAAt(10, 10))
}

func TestSession_EmptyImagesAreAbsent(t *testing.T) {
	s, err := Open(fullSkin(t))
	require.NoError(t, err)
	s.SetCape([]byte{})
	s.SetWing([]byte{})

	skin, err := s.Save()
	require.NoError(t, err)
	assert.False(t, s.Features().CapeEnabled)
	assert.Nil(t, s.Features().Wing)

	res, err := Decompose(skin)
	require.NoError(t, err)
	assert.NotContains(t, res.Names(), Cape)
	assert.NotContains(t, res.Names(), Wing)
	assert.False(t, res.Container.Has(alfalfa.KeyCape))
	assert.False(t, res.Container.Has(alfalfa.KeyWing))
	assert.True(t, res.Container.Has("mymod:extra"))
}

func TestDecompose_PlainSkin(t *testing.T) {
	res, err := Decompose(pngBytes(t, baseSkin()))
	require.NoError(t, err)
	assert.Equal(t, []Name{Base}, res.Names())
	assert.False(t, res.HasFeatures)
	assert.True(t, res.Container.IsEmpty())
}

func TestDecompose_LegacySize(t *testing.T) {
	res, err := Decompose(pngBytes(t, fill(64, 32, gray)))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 32), res.Layers[Base].Bounds())
}

func TestDecompose_Corrupt(t *testing.T) {
	_, err := Decompose([]byte("garbage"))
	assert.ErrorIs(t, err, skinerr.ErrDecode)
	assert.True(t, skinerr.IsCorrupt(err))
}

func TestDecompose_CorruptWing(t *testing.T) {
	s, err := OpenImage(baseSkin())
	require.NoError(t, err)
	s.SetFeatures(features.Model{Wing: &features.Wing{Mode: features.WingSymmetricSingle}})
	s.SetWing([]byte("not a png"))

	_, err = s.Layers()
	assert.ErrorIs(t, err, skinerr.ErrDecode)
}

func TestParseName(t *testing.T) {
	n, err := ParseName(" Emissive-Wing ")
	require.NoError(t, err)
	assert.Equal(t, EmissiveWing, n)

	_, err = ParseName("wings")
	assert.ErrorIs(t, err, skinerr.ErrInvalidArgument)
}
