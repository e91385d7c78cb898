package featurefmt

import (
	"image"
	"testing"

	"ears-workbench/internal/features"
	"ears-workbench/internal/skinerr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blank() *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, 64, 64))
}

func sample() features.Raw {
	return features.Raw{
		EarMode:        features.EarTall,
		EarAnchor:      features.AnchorFront,
		TailMode:       features.TailBack,
		TailSegments:   4,
		TailBends:      [4]float32{-90, 45, 0, 127},
		SnoutStatus:    features.SnoutEnabled,
		SnoutWidth:     6,
		SnoutHeight:    2,
		SnoutDepth:     5,
		SnoutOffset:    3,
		WingMode:       features.WingAsymmetricRight,
		WingAnimations: features.WingAnimationsNormal,
		Claws:          true,
		ChestSize:      float32(51) / 255,
		CapeEnabled:    true,
		Emissive:       true,
	}
}

func TestWriteParse(t *testing.T) {
	for _, version := range []uint8{V0, V1} {
		t.Run(map[uint8]string{V0: "v0", V1: "v1"}[version], func(t *testing.T) {
			img := blank()
			want := sample()
			require.NoError(t, Write(img, want, version))

			got, err := Parse(img)
			require.NoError(t, err)
			require.NotNil(t, got)

			want.DataVersion = version
			assert.Equal(t, want, *got)
		})
	}
}

func TestWriteParse_ThroughModel(t *testing.T) {
	m := features.Model{
		Ear:         features.Ear{Mode: features.EarAround},
		Wing:        &features.Wing{Mode: features.WingSymmetricDual, Animated: true},
		Horn:        true,
		DataVersion: V1,
	}
	img := blank()
	require.NoError(t, Write(img, features.FromModel(m), m.DataVersion))

	raw, err := Parse(img)
	require.NoError(t, err)
	got, err := features.ToModel(*raw)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestParse_NoRecord(t *testing.T) {
	got, err := Parse(blank())
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = Parse(image.NewNRGBA(image.Rect(0, 0, 64, 32)))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestParse_OutOfRangeSurvives(t *testing.T) {
	img := blank()
	r := sample()
	r.EarMode = 12
	require.NoError(t, Write(img, r, V1))

	got, err := Parse(img)
	require.NoError(t, err)
	_, err = features.ToModel(*got)
	assert.ErrorIs(t, err, skinerr.ErrDecode)
}

func TestWrite_Errors(t *testing.T) {
	assert.ErrorIs(t, Write(blank(), sample(), 7), skinerr.ErrEncode)
	assert.ErrorIs(t, Write(image.NewNRGBA(image.Rect(0, 0, 64, 32)), sample(), V0), skinerr.ErrEncode)

	r := sample()
	r.EarMode = 16
	assert.ErrorIs(t, Write(blank(), r, V1), skinerr.ErrEncode)
}

func TestWrite_StaysInBlock(t *testing.T) {
	img := blank()
	require.NoError(t, Write(img, sample(), V1))
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if image.Pt(x, y).In(Block) {
				continue
			}
			assert.Equal(t, uint8(0), img.NRGBAAt(x, y).A)
		}
	}

	Clear(img)
	got, err := Parse(img)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestQuantize(t *testing.T) {
	assert.Equal(t, int8(127), quantizeBend(300))
	assert.Equal(t, int8(-128), quantizeBend(-300))
	assert.Equal(t, uint8(255), quantizeChest(2))
	assert.Equal(t, uint8(0), quantizeChest(-1))
}
