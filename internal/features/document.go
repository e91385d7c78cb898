package features

import (
	"ears-workbench/internal/alfalfa"
	"ears-workbench/internal/emissive"
	"ears-workbench/internal/skinerr"
)

// Document is the JSON interchange form of a skin's settings, used by the
// manipulate tool. Images are base64 strings.
type Document struct {
	Ears        EarsDoc      `json:"ears"`
	Protrusions []Protrusion `json:"protrusions"`
	Tail        TailDoc      `json:"tail"`
	Snout       *SnoutDoc    `json:"snout"`
	Wings       WingsDoc     `json:"wings"`
	Cape        []byte       `json:"cape"`
	ChestSize   float32      `json:"chestSize"`
	Alfalfa     *AlfalfaDoc  `json:"alfalfa"`
	Emissives   EmissiveDoc  `json:"emissives"`
	DataVersion uint8        `json:"dataVersion"`
}

type EarsDoc struct {
	Mode   EarMode   `json:"mode"`
	Anchor EarAnchor `json:"anchor"`
}

type TailDoc struct {
	Mode     TailMode   `json:"mode"`
	Segments uint8      `json:"segments"`
	Bends    [4]float32 `json:"bends"`
}

type SnoutDoc struct {
	Width  uint8 `json:"width"`
	Height uint8 `json:"height"`
	Length uint8 `json:"length"`
	Offset uint8 `json:"offset"`
}

type WingsDoc struct {
	Mode       WingMode       `json:"mode"`
	Animations WingAnimations `json:"animations"`
	Wings      []byte         `json:"wings"`
}

// AlfalfaDoc carries the raw container. Wing and cape entries are folded
// into WingsDoc.Wings and Document.Cape when the document is built.
type AlfalfaDoc struct {
	Version uint8             `json:"version"`
	Data    map[string][]byte `json:"data"`
}

type EmissiveDoc struct {
	Enabled bool     `json:"enabled"`
	Palette []uint32 `json:"palette"`
}

// NewDocument builds the document for m. Cape is left empty until
// WithAlfalfa supplies the image.
func NewDocument(m Model) *Document {
	r := FromModel(m)
	doc := &Document{
		Ears:        EarsDoc{Mode: r.EarMode, Anchor: r.EarAnchor},
		Protrusions: []Protrusion{},
		Tail:        TailDoc{Mode: r.TailMode, Segments: r.TailSegments, Bends: r.TailBends},
		Wings:       WingsDoc{Mode: r.WingMode, Animations: r.WingAnimations},
		ChestSize:   r.ChestSize,
		Emissives:   EmissiveDoc{Enabled: r.Emissive, Palette: []uint32{}},
		DataVersion: r.DataVersion,
	}
	if r.Claws {
		doc.Protrusions = append(doc.Protrusions, ProtrusionClaws)
	}
	if r.Horn {
		doc.Protrusions = append(doc.Protrusions, ProtrusionHorns)
	}
	if m.Snout != nil {
		doc.Snout = &SnoutDoc{Width: r.SnoutWidth, Height: r.SnoutHeight, Length: r.SnoutDepth, Offset: r.SnoutOffset}
	}
	return doc
}

// WithAlfalfa attaches the container and lifts its wing and cape images.
func (doc *Document) WithAlfalfa(d *alfalfa.Data) *Document {
	if d == nil {
		doc.Alfalfa, doc.Wings.Wings, doc.Cape = nil, nil, nil
		return doc
	}
	doc.Wings.Wings, doc.Cape = FromContainer(d)
	a := &AlfalfaDoc{Version: d.Version(), Data: make(map[string][]byte, d.Len())}
	for _, k := range d.Keys() {
		a.Data[k], _ = d.Get(k)
	}
	doc.Alfalfa = a
	return doc
}

// WithEmissive replaces the palette.
func (doc *Document) WithEmissive(p emissive.Palette) *Document {
	doc.Emissives.Palette = make([]uint32, len(p))
	for i, c := range p {
		doc.Emissives.Palette[i] = emissive.ToHex(c)
	}
	return doc
}

// Raw returns the flat record described by the document. An unknown
// protrusion is a decode error.
func (doc *Document) Raw() (Raw, error) {
	r := Raw{
		EarMode:        doc.Ears.Mode,
		EarAnchor:      doc.Ears.Anchor,
		TailMode:       doc.Tail.Mode,
		WingMode:       doc.Wings.Mode,
		WingAnimations: doc.Wings.Animations,
		ChestSize:      doc.ChestSize,
		CapeEnabled:    len(doc.Cape) > 0,
		Emissive:       doc.Emissives.Enabled,
		DataVersion:    doc.DataVersion,
	}
	if r.TailMode != TailNone {
		r.TailSegments, r.TailBends = doc.Tail.Segments, doc.Tail.Bends
	}
	if s := doc.Snout; s != nil {
		r.SnoutStatus = SnoutEnabled
		r.SnoutWidth, r.SnoutHeight, r.SnoutDepth, r.SnoutOffset = s.Width, s.Height, s.Length, s.Offset
	}
	for _, p := range doc.Protrusions {
		switch p {
		case ProtrusionClaws:
			r.Claws = true
		case ProtrusionHorns:
			r.Horn = true
		default:
			return Raw{}, skinerr.Decodef("features: document", "protrusion %d out of range", p)
		}
	}
	return r, nil
}

// Model validates and converts the document into a feature model.
func (doc *Document) Model() (Model, error) {
	r, err := doc.Raw()
	if err != nil {
		return Model{}, err
	}
	return ToModel(r)
}

// Container returns the document's container with its wing and cape
// images stored under the reserved keys. Empty images are left out.
func (doc *Document) Container() (*alfalfa.Data, error) {
	d := alfalfa.New()
	if a := doc.Alfalfa; a != nil {
		d = alfalfa.NewVersion(a.Version)
		for k, v := range a.Data {
			if err := d.Set(k, v); err != nil {
				return nil, err
			}
		}
	}
	if len(doc.Cape) > 0 {
		if err := d.Set(alfalfa.KeyCape, doc.Cape); err != nil {
			return nil, err
		}
	}
	if len(doc.Wings.Wings) > 0 {
		if err := d.Set(alfalfa.KeyWing, doc.Wings.Wings); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Palette returns the emissive palette.
func (doc *Document) Palette() emissive.Palette {
	if len(doc.Emissives.Palette) == 0 {
		return nil
	}
	p := make(emissive.Palette, len(doc.Emissives.Palette))
	for i, hex := range doc.Emissives.Palette {
		p[i] = emissive.FromHex(hex)
	}
	return p
}
