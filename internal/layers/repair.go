// Package layers splits an Ears skin into its render layers and saves
// edited skins back, keeping the feature flags consistent with the data
// that backs them.
package layers

import (
	"ears-workbench/internal/alfalfa"
	"ears-workbench/internal/emissive"
	"ears-workbench/internal/features"
	"ears-workbench/internal/skinerr"
)

// Repair clears every flag in m whose backing data is missing: wings
// without a wing image, a cape without a cape image, emissive without a
// palette. It never invents data and is idempotent.
func Repair(m *features.Model, d *alfalfa.Data, p emissive.Palette) {
	if m.Wing != nil && (m.Wing.Mode == features.WingNone || !d.Has(alfalfa.KeyWing)) {
		m.Wing = nil
	}
	if m.CapeEnabled && !d.Has(alfalfa.KeyCape) {
		m.CapeEnabled = false
	}
	if m.Emissive && len(p) == 0 {
		m.Emissive = false
	}
}

// Check reports the first flag in m that disagrees with its backing data.
// After Repair it always returns nil.
func Check(m features.Model, d *alfalfa.Data, p emissive.Palette) error {
	const op = "layers: check"
	switch {
	case m.WingEnabled() && !d.Has(alfalfa.KeyWing):
		return &skinerr.Error{Kind: skinerr.ErrInconsistentState, Op: op, Msg: "wings enabled without a wing image"}
	case m.CapeEnabled && !d.Has(alfalfa.KeyCape):
		return &skinerr.Error{Kind: skinerr.ErrInconsistentState, Op: op, Msg: "cape enabled without a cape image"}
	case m.Emissive && len(p) == 0:
		return &skinerr.Error{Kind: skinerr.ErrInconsistentState, Op: op, Msg: "emissive enabled without a palette"}
	}
	return nil
}

// repaired runs Repair on a copy of m and verifies the result.
func repaired(m features.Model, d *alfalfa.Data, p emissive.Palette) (features.Model, error) {
	m = m.Clone()
	Repair(&m, d, p)
	if err := Check(m, d, p); err != nil {
		return features.Model{}, err
	}
	return m, nil
}
