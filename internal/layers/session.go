package layers

import (
	"fmt"
	"image"

	"ears-workbench/internal/alfalfa"
	"ears-workbench/internal/emissive"
	"ears-workbench/internal/erase"
	"ears-workbench/internal/featurefmt"
	"ears-workbench/internal/features"
	"ears-workbench/internal/skinerr"
	"ears-workbench/internal/texture"

	"github.com/disintegration/imaging"
)

// Session is one decode, edit, encode cycle over a skin. It is not safe
// for concurrent use.
type Session struct {
	img         *image.NRGBA
	data        *alfalfa.Data // as read; wing, cape and erase are tracked separately
	model       features.Model
	hasFeatures bool
	wing, cape  []byte
	palette     emissive.Palette
	regions     []erase.Region
}

// Open decodes skin and loads its container, features and palette.
// The feature flags are repaired before Open returns.
func Open(skin []byte) (*Session, error) {
	img, err := texture.Decode(skin)
	if err != nil {
		return nil, err
	}
	return OpenImage(img)
}

// OpenImage starts a session over an already decoded skin. img is not
// retained.
func OpenImage(img *image.NRGBA) (*Session, error) {
	s := &Session{img: imaging.Clone(img)}

	d, err := alfalfa.Read(s.img)
	if err != nil {
		return nil, err
	}
	if d == nil {
		d = alfalfa.New()
	}
	s.data = d
	s.wing, s.cape = features.FromContainer(d)
	if s.regions, _, err = d.EraseRegions(); err != nil {
		return nil, err
	}

	raw, err := featurefmt.Parse(s.img)
	if err != nil {
		return nil, err
	}
	if raw != nil {
		if s.model, err = features.ToModel(*raw); err != nil {
			return nil, err
		}
		s.hasFeatures = true

		// The palette block is only meaningful next to a feature record.
		if s.palette, err = emissive.Extract(s.img); err != nil {
			return nil, err
		}
	}
	if s.model, err = repaired(s.model, d, s.palette); err != nil {
		return nil, err
	}
	return s, nil
}

// HasFeatures reports whether the skin carries a feature record.
func (s *Session) HasFeatures() bool { return s.hasFeatures }

// Features returns a copy of the feature model.
func (s *Session) Features() features.Model { return s.model.Clone() }

// SetFeatures replaces the feature model. Flags without backing data are
// cleared on the next Layers or Save.
func (s *Session) SetFeatures(m features.Model) {
	s.model = m.Clone()
	s.hasFeatures = true
}

// ClearFeatures drops the feature record and palette from the skin.
func (s *Session) ClearFeatures() {
	s.model = features.Model{}
	s.hasFeatures = false
	featurefmt.Clear(s.img)
	emissive.Clear(s.img)
}

func (s *Session) Wing() []byte { return s.wing }

// SetWing stages the wing image; nil or empty removes it.
func (s *Session) SetWing(b []byte) { s.wing = clone(b) }

func (s *Session) Cape() []byte { return s.cape }

// SetCape stages the cape image; nil or empty removes it.
func (s *Session) SetCape(b []byte) { s.cape = clone(b) }

func (s *Session) Palette() emissive.Palette { return append(emissive.Palette(nil), s.palette...) }

func (s *Session) SetPalette(p emissive.Palette) { s.palette = append(emissive.Palette(nil), p...) }

func (s *Session) Regions() []erase.Region { return append([]erase.Region(nil), s.regions...) }

func (s *Session) SetRegions(regions []erase.Region) {
	s.regions = append([]erase.Region(nil), regions...)
}

// EntryKeys returns the custom container keys in sorted order.
func (s *Session) EntryKeys() []string {
	var keys []string
	for _, k := range s.data.Keys() {
		if !reserved(k) {
			keys = append(keys, k)
		}
	}
	return keys
}

// ContainerVersion returns the container format revision.
func (s *Session) ContainerVersion() uint8 { return s.data.Version() }

// SetContainerVersion migrates the container to another revision.
func (s *Session) SetContainerVersion(v uint8) { s.data.SetVersion(v) }

// Entry returns a custom container entry.
func (s *Session) Entry(key string) ([]byte, bool) {
	if reserved(key) {
		return nil, false
	}
	return s.data.Get(key)
}

// SetEntry stores a custom container entry. Reserved keys are managed
// through their own setters and are rejected here.
func (s *Session) SetEntry(key string, blob []byte) error {
	if reserved(key) {
		return &skinerr.Error{Kind: skinerr.ErrInvalidArgument, Op: "layers: set entry", Msg: fmt.Sprintf("key %q is reserved", key)}
	}
	return s.data.Set(key, blob)
}

func (s *Session) DeleteEntry(key string) {
	if !reserved(key) {
		s.data.Delete(key)
	}
}

// Image returns a copy of the base image as loaded or last set.
func (s *Session) Image() *image.NRGBA { return imaging.Clone(s.img) }

// SetImage replaces the base pixels. The hidden data is rewritten on Save.
func (s *Session) SetImage(img image.Image) { s.img = imaging.Clone(img) }

// Container returns the container Save would write.
func (s *Session) Container() (*alfalfa.Data, error) {
	_, d, err := s.prepare()
	return d, err
}

// Layers decomposes the current state into render layers.
func (s *Session) Layers() (*Result, error) {
	m, d, err := s.prepare()
	if err != nil {
		return nil, err
	}
	layers, err := decompose(s.img, m, d, s.palette, s.regions)
	if err != nil {
		return nil, err
	}
	return &Result{
		Features:    m,
		HasFeatures: s.hasFeatures,
		Container:   d,
		Palette:     s.Palette(),
		Regions:     s.Regions(),
		Layers:      layers,
	}, nil
}

// Save writes the edited state into a new skin and returns it as PNG.
func (s *Session) Save() ([]byte, error) {
	img, err := s.Compose()
	if err != nil {
		return nil, err
	}
	return texture.EncodePNG(img)
}

// Compose writes the edited state into a copy of the base image.
func (s *Session) Compose() (*image.NRGBA, error) {
	m, d, err := s.prepare()
	if err != nil {
		return nil, err
	}

	img := imaging.Clone(s.img)
	if s.hasFeatures {
		if err := featurefmt.Write(img, features.FromModel(m), m.DataVersion); err != nil {
			return nil, err
		}
		if !m.Emissive {
			emissive.Clear(img)
		} else if err := emissive.Write(img, s.palette); err != nil {
			return nil, err
		}
	}

	if d.IsEmpty() {
		alfalfa.StripAlpha(img)
	} else if err := alfalfa.Write(d, img); err != nil {
		return nil, err
	}

	s.model, s.data = m, d
	return img, nil
}

// prepare repairs the model against the staged data and builds the
// container to write.
func (s *Session) prepare() (features.Model, *alfalfa.Data, error) {
	staged := s.data.Clone()
	staged.Delete(alfalfa.KeyWing)
	staged.Delete(alfalfa.KeyCape)
	if len(s.wing) > 0 {
		if err := staged.Set(alfalfa.KeyWing, s.wing); err != nil {
			return features.Model{}, nil, err
		}
	}
	if len(s.cape) > 0 {
		if err := staged.Set(alfalfa.KeyCape, s.cape); err != nil {
			return features.Model{}, nil, err
		}
	}

	m, err := repaired(s.model, staged, s.palette)
	if err != nil {
		return features.Model{}, nil, err
	}
	d, err := features.ToContainer(m, s.data, s.wing, s.cape)
	if err != nil {
		return features.Model{}, nil, err
	}
	d.SetEraseRegions(s.regions)
	return m, d, nil
}

func reserved(key string) bool {
	switch key {
	case alfalfa.KeyErase, alfalfa.KeyWing, alfalfa.KeyCape, alfalfa.KeyEnd:
		return true
	}
	return false
}

func clone(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return append([]byte{}, b...)
}
