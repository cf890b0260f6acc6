// Package engine implements the stateful gesture recognition core: frame
// state, the reference-point tracker, the step builder, the gesture
// matcher and the dispatch/repetition controller.
package engine

import (
	"gestured/internal/catalog"
	"gestured/internal/geometry"
)

// Slot is the kernel-assigned identifier for a concurrent touch contact.
// Opaque and not assumed to be contiguously allocated.
type Slot int

// FrameState is a mapping from slot id to position for one synchronization
// frame. The empty mapping means "all fingers lifted".
type FrameState map[Slot]geometry.Position

// Centroid returns the component-wise arithmetic mean of the frame's
// positions. Must not be called on an empty FrameState.
func (f FrameState) Centroid() geometry.Position {
	var sx, sy int
	for _, p := range f {
		sx += int(p.X)
		sy += int(p.Y)
	}
	n := len(f)
	return geometry.Position{X: uint16(sx / n), Y: uint16(sy / n)}
}

func (f FrameState) clone() FrameState {
	out := make(FrameState, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

func slotSet(slots ...Slot) map[Slot]struct{} {
	out := make(map[Slot]struct{}, len(slots))
	for _, s := range slots {
		out[s] = struct{}{}
	}
	return out
}

// StepKind mirrors catalog.StepKind for runtime (performed) steps.
type StepKind = catalog.StepKind

const (
	StepTouchDown = catalog.StepTouchDown
	StepTouchUp   = catalog.StepTouchUp
	StepMove      = catalog.StepMove
)

// PerformedSequenceStep is the runtime-built mirror of
// catalog.DefinedSequenceStep: it carries a set of slot ids instead of a
// finger count, and a Move carries an observed normalized distance.
type PerformedSequenceStep struct {
	Kind      StepKind
	Slots     map[Slot]struct{}
	Direction geometry.Direction
	Distance  float64
}

func (s PerformedSequenceStep) fingerCount() int { return len(s.Slots) }

// Equal implements the cross-type equality relation between a defined and
// a performed step: variants match, finger counts equal slot
// set sizes, directions match where applicable, and observed distance is
// at least the defined minimum when present.
func Equal(defined catalog.DefinedSequenceStep, performed PerformedSequenceStep) bool {
	if defined.Kind != performed.Kind {
		return false
	}
	if defined.Fingers != performed.fingerCount() {
		return false
	}
	switch defined.Kind {
	case StepMove:
		if defined.Direction != performed.Direction {
			return false
		}
		if defined.HasMinDistance() && performed.Distance < *defined.MinDistance {
			return false
		}
	}
	return true
}

// MatchMode is the repetition mode a matcher invocation is run under.
type MatchMode int

const (
	ModeNone MatchMode = iota
	ModeTap
	ModeSlide
)

func (m MatchMode) String() string {
	switch m {
	case ModeTap:
		return "tap"
	case ModeSlide:
		return "slide"
	default:
		return "none"
	}
}

// requiredRepeat returns the catalog.RepeatMode bit a candidate gesture
// must declare for this match mode to be eligible, or 0 if the mode does
// not restrict on repeat_mode (ModeNone).
func (m MatchMode) requiredRepeat() catalog.RepeatMode {
	switch m {
	case ModeTap:
		return catalog.RepeatTap
	case ModeSlide:
		return catalog.RepeatSlide
	default:
		return catalog.RepeatNone
	}
}

// state is the full set of bookkeeping the recognizer owns between
// frames. It is mutated exclusively by UpdateState.
type state struct {
	previousState          FrameState
	touchDownState         FrameState
	sequenceStepStartState FrameState
	performedSequence      []PerformedSequenceStep
	repeatMode             MatchMode
	previousDirection      geometry.Direction
	startingEdge           geometry.Edge
	gestureInProgress      bool
	stateDirections        map[Slot]geometry.Direction
}

func newState() state {
	return state{
		previousState:          FrameState{},
		touchDownState:         FrameState{},
		sequenceStepStartState: FrameState{},
		performedSequence:      nil,
		repeatMode:             ModeNone,
		previousDirection:      geometry.None,
		startingEdge:           geometry.NoEdge,
		gestureInProgress:      false,
		stateDirections:        map[Slot]geometry.Direction{},
	}
}

func (s *state) reset() {
	*s = newState()
}

func (s *state) lastStep() *PerformedSequenceStep {
	if len(s.performedSequence) == 0 {
		return nil
	}
	return &s.performedSequence[len(s.performedSequence)-1]
}
