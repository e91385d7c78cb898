package features

import "fmt"

// EarMode selects the ear geometry.
type EarMode uint8

const (
	EarNone EarMode = iota
	EarAbove
	EarSides
	EarBehind
	EarAround
	EarFloppy
	EarOut
	EarCross
	EarTall
	EarTallCross
	earModeCount
)

var earModeNames = [...]string{"None", "Above", "Sides", "Behind", "Around", "Floppy", "Out", "Cross", "Tall", "TallCross"}

func (m EarMode) Valid() bool { return m < earModeCount }

func (m EarMode) String() string {
	if m.Valid() {
		return earModeNames[m]
	}
	return fmt.Sprintf("EarMode(%d)", uint8(m))
}

// EarAnchor selects where ears attach on the head.
type EarAnchor uint8

const (
	AnchorCenter EarAnchor = iota
	AnchorFront
	AnchorBack
	earAnchorCount
)

func (a EarAnchor) Valid() bool { return a < earAnchorCount }

func (a EarAnchor) String() string {
	switch a {
	case AnchorCenter:
		return "Center"
	case AnchorFront:
		return "Front"
	case AnchorBack:
		return "Back"
	}
	return fmt.Sprintf("EarAnchor(%d)", uint8(a))
}

// TailMode selects the tail direction.
type TailMode uint8

const (
	TailNone TailMode = iota
	TailDown
	TailBack
	TailUp
	TailVertical
	tailModeCount
)

var tailModeNames = [...]string{"None", "Down", "Back", "Up", "Vertical"}

func (m TailMode) Valid() bool { return m < tailModeCount }

func (m TailMode) String() string {
	if m.Valid() {
		return tailModeNames[m]
	}
	return fmt.Sprintf("TailMode(%d)", uint8(m))
}

// WingMode selects the wing arrangement.
type WingMode uint8

const (
	WingNone WingMode = iota
	WingSymmetricDual
	WingSymmetricSingle
	WingAsymmetricLeft
	WingAsymmetricRight
	wingModeCount
)

var wingModeNames = [...]string{"None", "SymmetricDual", "SymmetricSingle", "AsymmetricLeft", "AsymmetricRight"}

func (m WingMode) Valid() bool { return m < wingModeCount }

func (m WingMode) String() string {
	if m.Valid() {
		return wingModeNames[m]
	}
	return fmt.Sprintf("WingMode(%d)", uint8(m))
}

// WingAnimations is the flat form of Wing.Animated.
type WingAnimations uint8

const (
	WingAnimationsNormal WingAnimations = iota
	WingAnimationsNone
	wingAnimationsCount
)

func (a WingAnimations) Valid() bool { return a < wingAnimationsCount }

// SnoutStatus is the flat presence flag of the snout.
type SnoutStatus uint8

const (
	SnoutDisabled SnoutStatus = iota
	SnoutEnabled
	snoutStatusCount
)

func (s SnoutStatus) Valid() bool { return s < snoutStatusCount }

// Protrusion names a boolean head/hand protrusion in the document form.
type Protrusion uint8

const (
	ProtrusionClaws Protrusion = iota
	ProtrusionHorns
	protrusionCount
)

func (p Protrusion) Valid() bool { return p < protrusionCount }
