package alfalfa

import (
	"encoding/json"
	"image"
	"image/color"
	"math/rand"
	"testing"

	"ears-workbench/internal/erase"
	"ears-workbench/internal/skinerr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSkin() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, SkinSize, SkinSize))
	for y := 0; y < SkinSize; y++ {
		for x := 0; x < SkinSize; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 4), G: uint8(y * 4), B: 90, A: 255})
		}
	}
	return img
}

func TestData_GetSetOverwrite(t *testing.T) {
	assert := assert.New(t)

	d := New()
	assert.Equal(uint8(0), d.Version())
	assert.True(d.IsEmpty())

	require.NoError(t, d.Set("mymod:extra", []byte{1, 2, 3}))
	require.NoError(t, d.Set("mymod:extra", []byte{4}))
	v, ok := d.Get("mymod:extra")
	assert.True(ok)
	assert.Equal([]byte{4}, v)

	require.NoError(t, d.Set("empty", nil))
	v, ok = d.Get("empty")
	assert.True(ok, "empty blob is present")
	assert.Empty(v)
	assert.Equal([]string{"empty", "mymod:extra"}, d.Keys())

	d.Delete("empty")
	assert.False(d.Has("empty"))
	assert.False(d.IsEmpty())
}

func TestData_IsEmptyIgnoresVersion(t *testing.T) {
	assert.True(t, NewVersion(7).IsEmpty())
}

func TestData_SetRejectsReservedTerminator(t *testing.T) {
	d := New()
	assert.ErrorIs(t, d.Set(KeyEnd, []byte{1}), skinerr.ErrInvalidArgument)
	assert.ErrorIs(t, d.Set("", []byte{1}), skinerr.ErrInvalidArgument)
}

func TestData_SetCopiesBlob(t *testing.T) {
	blob := []byte{1, 2}
	d := New()
	require.NoError(t, d.Set("k", blob))
	blob[0] = 9
	v, _ := d.Get("k")
	assert.Equal(t, []byte{1, 2}, v)
}

func TestData_EraseRegionsScenario(t *testing.T) {
	d := NewVersion(1)
	want := []erase.Region{{X: 0, Y: 0, Width: 8, Height: 8}, {X: 8, Y: 8, Width: 4, Height: 4}}
	require.NoError(t, d.Set(KeyErase, erase.Encode(want)))

	got, ok, err := d.EraseRegions()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestData_SetEraseRegionsEmptyRemovesKey(t *testing.T) {
	d := New()
	d.SetEraseRegions([]erase.Region{{X: 1, Y: 1, Width: 1, Height: 1}})
	assert.True(t, d.Has(KeyErase))

	empty, err := erase.Decode(erase.Encode(nil))
	require.NoError(t, err)
	d.SetEraseRegions(empty)
	assert.False(t, d.Has(KeyErase))

	_, ok, err := d.EraseRegions()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, d.IsEmpty())
}

func TestData_EraseRegionsBadLength(t *testing.T) {
	d := New()
	require.NoError(t, d.Set(KeyErase, []byte{1, 2, 3}))
	_, _, err := d.EraseRegions()
	assert.ErrorIs(t, err, skinerr.ErrDecode)
}

func TestData_BinaryRoundTrip(t *testing.T) {
	d := NewVersion(3)
	require.NoError(t, d.Set("a", []byte("alpha")))
	require.NoError(t, d.Set("b", []byte{}))
	require.NoError(t, d.Set(KeyWing, []byte{0x89, 'P', 'N', 'G'}))

	b, err := d.MarshalBinary()
	require.NoError(t, err)

	var got Data
	require.NoError(t, got.UnmarshalBinary(b))
	assert.True(t, d.Equal(&got))
	assert.True(t, got.Has("b"))
}

func TestData_UnmarshalCorrupt(t *testing.T) {
	d := New()
	require.NoError(t, d.Set("key", []byte("value")))
	b, err := d.MarshalBinary()
	require.NoError(t, err)

	for name, data := range map[string][]byte{
		"empty":     {},
		"truncated": b[:len(b)-2],
		"trailing":  append(append([]byte{}, b...), 0),
		"no_end":    b[:len(b)-4],
	} {
		t.Run(name, func(t *testing.T) {
			var got Data
			assert.ErrorIs(t, got.UnmarshalBinary(data), skinerr.ErrDecode)
		})
	}
}

func TestCarrier_RoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name  string
		build func(*Data)
	}{
		{name: "empty", build: func(*Data) {}},
		{name: "reserved_and_custom", build: func(d *Data) {
			d.SetEraseRegions([]erase.Region{{X: 0, Y: 0, Width: 8, Height: 8}, {X: 8, Y: 8, Width: 4, Height: 4}})
			d.Set(KeyWing, []byte("wing-image"))
			d.Set(KeyCape, []byte("cape-image"))
			d.Set("mymod:extra", []byte{1, 2, 3})
			d.Set("mymod:empty", []byte{})
		}},
		{name: "compressible", build: func(d *Data) {
			d.Set("zeros", make([]byte, 2000))
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			d := NewVersion(1)
			tc.build(d)

			img := newSkin()
			require.NoError(t, Write(d, img))

			got, err := Read(img)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.True(t, d.Equal(got), "want %v got %v", d.Keys(), got.Keys())
		})
	}
}

func TestCarrier_PreservesColor(t *testing.T) {
	img := newSkin()
	orig := newSkin()
	d := New()
	require.NoError(t, d.Set("k", []byte("v")))
	require.NoError(t, Write(d, img))

	for i := 0; i < len(img.Pix); i += 4 {
		assert.Equal(t, orig.Pix[i:i+3], img.Pix[i:i+3])
	}
}

func TestCarrier_NoContainer(t *testing.T) {
	got, err := Read(newSkin())
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = Read(image.NewNRGBA(image.Rect(0, 0, 64, 32)))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCarrier_Overflow(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	blob := make([]byte, Capacity())
	rnd.Read(blob)

	d := New()
	require.NoError(t, d.Set("big", blob))
	err := Write(d, newSkin())
	assert.ErrorIs(t, err, skinerr.ErrEncode)
}

func TestCarrier_WrongSize(t *testing.T) {
	err := Write(New(), image.NewNRGBA(image.Rect(0, 0, 64, 32)))
	assert.ErrorIs(t, err, skinerr.ErrEncode)
}

func TestStripAlpha(t *testing.T) {
	img := newSkin()
	d := New()
	require.NoError(t, d.Set("k", []byte("v")))
	require.NoError(t, Write(d, img))

	StripAlpha(img)
	got, err := Read(img)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, uint8(255), img.NRGBAAt(8, 8).A)
}

func TestEntries_TaggedView(t *testing.T) {
	d := NewVersion(2)
	d.SetEraseRegions([]erase.Region{{X: 1, Y: 2, Width: 3, Height: 4}})
	require.NoError(t, d.Set(KeyCape, []byte{7}))
	require.NoError(t, d.Set("custom", []byte{8}))

	entries, err := d.Entries()
	require.NoError(t, err)
	assert.Equal(t, Entry{Kind: KindErase, Regions: []erase.Region{{X: 1, Y: 2, Width: 3, Height: 4}}}, entries[KeyErase])
	assert.Equal(t, Entry{Kind: KindImage, Data: []byte{7}}, entries[KeyCape])
	assert.Equal(t, Entry{Kind: KindBinary, Data: []byte{8}}, entries["custom"])

	back, err := FromEntries(d.Version(), entries)
	require.NoError(t, err)
	assert.True(t, d.Equal(back))
}

func TestEntry_JSON(t *testing.T) {
	in := map[string]Entry{
		KeyErase: {Kind: KindErase, Regions: []erase.Region{{X: 0, Y: 0, Width: 8, Height: 8}}},
		KeyWing:  {Kind: KindImage, Data: []byte{1, 2}},
		"x":      {Kind: KindBinary, Data: []byte{}},
	}
	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"type":"erase"`)

	var out map[string]Entry
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)

	var bad Entry
	assert.Error(t, json.Unmarshal([]byte(`{"type":"nope","value":1}`), &bad))
	assert.Error(t, json.Unmarshal([]byte(`{"type":"erase","value":[{"x":300}]}`), &bad))
}

func TestData_ZeroValue(t *testing.T) {
	var d Data
	assert.True(t, d.IsEmpty())
	require.NoError(t, d.Set("k", []byte{1}))
	d.SetEraseRegions([]erase.Region{{X: 1, Y: 2, Width: 3, Height: 4}})
	assert.Equal(t, []string{"erase", "k"}, d.Keys())
	d.Delete("k")
	assert.Equal(t, 1, d.Len())
}
