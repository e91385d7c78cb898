// Package features holds the avatar feature model and maps it to and from
// the flat on-image record and the alfalfa container.
package features

// Model is the typed avatar customization state. Optional parts are nil
// when disabled.
type Model struct {
	Ear         Ear
	Tail        *Tail
	Snout       *Snout
	Wing        *Wing
	Claws       bool
	Horn        bool
	ChestSize   float32
	CapeEnabled bool
	Emissive    bool
	DataVersion uint8
}

type Ear struct {
	Mode   EarMode
	Anchor EarAnchor
}

type Tail struct {
	Mode     TailMode
	Segments uint8 // 1..4
	Bends    [4]float32
}

type Snout struct {
	Width  uint8
	Height uint8
	Depth  uint8
	Offset uint8
}

type Wing struct {
	Mode     WingMode
	Animated bool
}

// WingEnabled reports whether the model declares wings.
func (m *Model) WingEnabled() bool {
	return m.Wing != nil && m.Wing.Mode != WingNone
}

// Clone returns a deep copy.
func (m Model) Clone() Model {
	if m.Tail != nil {
		t := *m.Tail
		m.Tail = &t
	}
	if m.Snout != nil {
		s := *m.Snout
		m.Snout = &s
	}
	if m.Wing != nil {
		w := *m.Wing
		m.Wing = &w
	}
	return m
}

// Raw is the flat feature record as stored on the image: every mode is
// always present and disabled parts carry zeroed fields.
type Raw struct {
	EarMode   EarMode
	EarAnchor EarAnchor

	TailMode     TailMode
	TailSegments uint8
	TailBends    [4]float32

	SnoutStatus SnoutStatus
	SnoutWidth  uint8
	SnoutHeight uint8
	SnoutDepth  uint8
	SnoutOffset uint8

	WingMode       WingMode
	WingAnimations WingAnimations

	Claws       bool
	Horn        bool
	ChestSize   float32
	CapeEnabled bool
	Emissive    bool
	DataVersion uint8
}
