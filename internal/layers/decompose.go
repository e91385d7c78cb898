package layers

import (
	"fmt"
	"image"
	"strings"

	"ears-workbench/internal/alfalfa"
	"ears-workbench/internal/capefmt"
	"ears-workbench/internal/emissive"
	"ears-workbench/internal/erase"
	"ears-workbench/internal/featurefmt"
	"ears-workbench/internal/features"
	"ears-workbench/internal/skinerr"
	"ears-workbench/internal/texture"

	"github.com/disintegration/imaging"
	"golang.org/x/exp/slices"
)

// Name identifies a render layer.
type Name string

const (
	Base         Name = "base"
	Wing         Name = "wing"
	Cape         Name = "cape"
	EmissiveBase Name = "emissive-base"
	EmissiveWing Name = "emissive-wing"
	EmissiveCape Name = "emissive-cape"
)

// Order is the canonical layer order.
var Order = []Name{Base, Wing, Cape, EmissiveBase, EmissiveWing, EmissiveCape}

// ParseName validates a layer name.
func ParseName(s string) (Name, error) {
	n := Name(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Order, n) {
		return "", &skinerr.Error{Kind: skinerr.ErrInvalidArgument, Op: "layers: parse name", Msg: fmt.Sprintf("unknown layer %q", s)}
	}
	return n, nil
}

// Result is a decomposed skin ready to render.
type Result struct {
	Features    features.Model // repaired
	HasFeatures bool
	Container   *alfalfa.Data
	Palette     emissive.Palette
	Regions     []erase.Region
	Layers      map[Name]*image.NRGBA
}

// Names returns the present layers in canonical order.
func (r *Result) Names() []Name {
	var out []Name
	for _, n := range Order {
		if _, ok := r.Layers[n]; ok {
			out = append(out, n)
		}
	}
	return out
}

// Decompose decodes skin and splits it into named layers.
func Decompose(skin []byte) (*Result, error) {
	s, err := Open(skin)
	if err != nil {
		return nil, err
	}
	return s.Layers()
}

// decompose builds the layers of one skin. m must already be repaired
// against d and p.
func decompose(img *image.NRGBA, m features.Model, d *alfalfa.Data, p emissive.Palette, regions []erase.Region) (map[Name]*image.NRGBA, error) {
	out := make(map[Name]*image.NRGBA)
	glow := m.Emissive && len(p) > 0

	addGlow := func(name Name, src *image.NRGBA) error {
		if !glow {
			return nil
		}
		layer, err := emissive.Apply(src, p)
		if err != nil {
			return err
		}
		out[name] = layer
		return nil
	}

	wingBlob, capeBlob := features.FromContainer(d)
	if m.WingEnabled() {
		wing, err := texture.Decode(wingBlob)
		if err != nil {
			return nil, fmt.Errorf("layers: wing: %w", err)
		}
		out[Wing] = wing
		if err := addGlow(EmissiveWing, wing); err != nil {
			return nil, err
		}
	}
	if m.CapeEnabled {
		raw, err := texture.Decode(capeBlob)
		if err != nil {
			return nil, fmt.Errorf("layers: cape: %w", err)
		}
		cape, err := capefmt.Convert(raw)
		if err != nil {
			return nil, err
		}
		out[Cape] = cape
		if err := addGlow(EmissiveCape, cape); err != nil {
			return nil, err
		}
	}

	// Auxiliary layers are stored separately and are not affected by
	// the base erase regions.
	base := imaging.Clone(img)
	alfalfa.StripAlpha(base)
	erase.Apply(base, regions)
	out[Base] = base
	if err := addGlow(EmissiveBase, base); err != nil {
		return nil, err
	}
	// The record and palette blocks are data, not texture.
	if g, ok := out[EmissiveBase]; ok {
		featurefmt.Clear(g)
		emissive.Clear(g)
	}
	return out, nil
}
