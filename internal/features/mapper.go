package features

import (
	"ears-workbench/internal/alfalfa"
	"ears-workbench/internal/skinerr"
)

// MaxTailSegments is the largest segment count a tail can have.
const MaxTailSegments = 4

// ToModel converts a flat record into the typed model. Disabled modes drop
// their sub-structure. Out-of-range enum values are reported as decode
// errors rather than defaulted.
func ToModel(r Raw) (Model, error) {
	const op = "features: to model"
	switch {
	case !r.EarMode.Valid():
		return Model{}, skinerr.Decodef(op, "ear mode %d out of range", r.EarMode)
	case !r.EarAnchor.Valid():
		return Model{}, skinerr.Decodef(op, "ear anchor %d out of range", r.EarAnchor)
	case !r.TailMode.Valid():
		return Model{}, skinerr.Decodef(op, "tail mode %d out of range", r.TailMode)
	case !r.SnoutStatus.Valid():
		return Model{}, skinerr.Decodef(op, "snout status %d out of range", r.SnoutStatus)
	case !r.WingMode.Valid():
		return Model{}, skinerr.Decodef(op, "wing mode %d out of range", r.WingMode)
	case !r.WingAnimations.Valid():
		return Model{}, skinerr.Decodef(op, "wing animations %d out of range", r.WingAnimations)
	}

	m := Model{
		Ear:         Ear{Mode: r.EarMode, Anchor: r.EarAnchor},
		Claws:       r.Claws,
		Horn:        r.Horn,
		ChestSize:   r.ChestSize,
		CapeEnabled: r.CapeEnabled,
		Emissive:    r.Emissive,
		DataVersion: r.DataVersion,
	}
	if r.TailMode != TailNone {
		if r.TailSegments < 1 || r.TailSegments > MaxTailSegments {
			return Model{}, skinerr.Decodef(op, "tail segments %d out of range", r.TailSegments)
		}
		m.Tail = &Tail{Mode: r.TailMode, Segments: r.TailSegments, Bends: r.TailBends}
	}
	if r.SnoutStatus == SnoutEnabled {
		m.Snout = &Snout{Width: r.SnoutWidth, Height: r.SnoutHeight, Depth: r.SnoutDepth, Offset: r.SnoutOffset}
	}
	if r.WingMode != WingNone {
		m.Wing = &Wing{Mode: r.WingMode, Animated: r.WingAnimations == WingAnimationsNormal}
	}
	return m, nil
}

// FromModel flattens the model. Absent sub-structures become their
// disabled variant with zeroed fields.
func FromModel(m Model) Raw {
	r := Raw{
		EarMode:        m.Ear.Mode,
		EarAnchor:      m.Ear.Anchor,
		WingAnimations: WingAnimationsNone,
		Claws:          m.Claws,
		Horn:           m.Horn,
		ChestSize:      m.ChestSize,
		CapeEnabled:    m.CapeEnabled,
		Emissive:       m.Emissive,
		DataVersion:    m.DataVersion,
	}
	if t := m.Tail; t != nil && t.Mode != TailNone {
		r.TailMode, r.TailSegments, r.TailBends = t.Mode, t.Segments, t.Bends
	}
	if s := m.Snout; s != nil {
		r.SnoutStatus = SnoutEnabled
		r.SnoutWidth, r.SnoutHeight, r.SnoutDepth, r.SnoutOffset = s.Width, s.Height, s.Depth, s.Offset
	}
	if m.WingEnabled() {
		r.WingMode = m.Wing.Mode
		if m.Wing.Animated {
			r.WingAnimations = WingAnimationsNormal
		}
	}
	return r
}

// ToContainer builds the container to save next to m. Everything in base
// except the wing and cape keys is carried over verbatim; wing and cape
// are stored only when the model enables them and non-empty bytes are
// supplied. The emissive palette is not a container entry.
func ToContainer(m Model, base *alfalfa.Data, wing, cape []byte) (*alfalfa.Data, error) {
	d := base.Clone()
	d.Delete(alfalfa.KeyWing)
	d.Delete(alfalfa.KeyCape)

	if m.WingEnabled() && len(wing) > 0 {
		if err := d.Set(alfalfa.KeyWing, wing); err != nil {
			return nil, err
		}
	}
	if m.CapeEnabled && len(cape) > 0 {
		if err := d.Set(alfalfa.KeyCape, cape); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// FromContainer returns the wing and cape blobs, nil when absent.
func FromContainer(d *alfalfa.Data) (wing, cape []byte) {
	wing, _ = d.Get(alfalfa.KeyWing)
	cape, _ = d.Get(alfalfa.KeyCape)
	return wing, cape
}
