// Package catalog holds the gesture catalog data model: gestures,
// options, edge options, repeat mode and distance bindings, plus a YAML
// loader that resolves the declarative YAML document into this model.
package catalog

import (
	"fmt"
	"regexp"

	"gestured/internal/geometry"
)

// RepeatMode is a bitset: a gesture may declare it is tap-repeatable,
// slide-repeatable, both, or neither.
type RepeatMode uint8

const (
	RepeatNone  RepeatMode = 0
	RepeatTap   RepeatMode = 1 << 0
	RepeatSlide RepeatMode = 1 << 1
)

func (m RepeatMode) Has(flag RepeatMode) bool { return m&flag != 0 }

func (m RepeatMode) String() string {
	switch {
	case m.Has(RepeatTap) && m.Has(RepeatSlide):
		return "tap+slide"
	case m.Has(RepeatTap):
		return "tap"
	case m.Has(RepeatSlide):
		return "slide"
	default:
		return "none"
	}
}

// StepKind tags the variant of a DefinedSequenceStep.
type StepKind int

const (
	StepTouchDown StepKind = iota
	StepTouchUp
	StepMove
)

// DefinedSequenceStep is one step of a gesture's declared sequence.
type DefinedSequenceStep struct {
	Kind        StepKind
	Fingers     int
	Direction   geometry.Direction
	MinDistance *float64 // nil means no minimum; 0 is equivalent to no minimum
}

// HasMinDistance reports whether this step enforces a non-trivial minimum
// distance (min_distance = 0 is defined to behave like "no minimum").
func (s DefinedSequenceStep) HasMinDistance() bool {
	return s.MinDistance != nil && *s.MinDistance > 0
}

// Gesture is a named, ordered sequence with edge/repeat qualifiers and the
// shell command to dispatch on a match.
type Gesture struct {
	Name       string
	Sequence   []DefinedSequenceStep
	Edge       geometry.Edge // geometry.NoEdge means "no edge requirement"
	RepeatMode RepeatMode
	Command    string
}

// MaxMinDistance returns the largest min_distance declared across the
// gesture's Move steps, used for tie-breaking (0 if none declared).
func (g Gesture) MaxMinDistance() float64 {
	max := 0.0
	for _, s := range g.Sequence {
		if s.Kind == StepMove && s.MinDistance != nil && *s.MinDistance > max {
			max = *s.MinDistance
		}
	}
	return max
}

// Binding pairs a compiled regex with the gestures it unlocks.
type Binding struct {
	ClassRe *regexp.Regexp
	TitleRe *regexp.Regexp
	Raw     string // original key, for diagnostics
	Gestures []Gesture
}

// Matches reports whether the binding applies to the given active window.
func (b Binding) Matches(class, title string) bool {
	if b.ClassRe != nil && !b.ClassRe.MatchString(class) {
		return false
	}
	if b.TitleRe != nil && !b.TitleRe.MatchString(title) {
		return false
	}
	return b.ClassRe != nil || b.TitleRe != nil
}

// ApplicationBindings holds the two ordered lists of application-scoped
// gesture bindings. Order is configuration insertion order.
type ApplicationBindings struct {
	ByClass []Binding
	ByTitle []Binding
}

// EdgeOptions mirrors geometry.EdgeOptions but lives in the catalog's
// config surface (defaults applied by the loader).
type EdgeOptions struct {
	Threshold   float64
	Sensitivity float64
}

// Options is the top-level tunables block.
type Options struct {
	MoveThreshold  float64
	Edge           EdgeOptions
	RunAllMatches  bool
	Distance       map[string]float64
}

// DefaultOptions returns the catalog's built-in option defaults.
func DefaultOptions() Options {
	return Options{
		MoveThreshold: 0.15,
		Edge: EdgeOptions{
			Threshold:   0.05,
			Sensitivity: 0.5,
		},
		RunAllMatches: false,
		Distance:      map[string]float64{},
	}
}

// Catalog is the immutable, swappable snapshot the engine reads once per
// frame. A Catalog value must never be mutated after Load returns it.
type Catalog struct {
	Options              Options
	Gestures             []Gesture
	ApplicationGestures  ApplicationBindings
}

// AllCandidates returns, in stable tie-break order, the global gestures
// followed by every by_class binding's gestures (in binding order) whose
// regex matches class, then every by_title binding's gestures whose regex
// matches title.
func (c *Catalog) AllCandidates(class, title string) []Gesture {
	out := make([]Gesture, 0, len(c.Gestures))
	out = append(out, c.Gestures...)
	for _, b := range c.ApplicationGestures.ByClass {
		if b.Matches(class, title) {
			out = append(out, b.Gestures...)
		}
	}
	for _, b := range c.ApplicationGestures.ByTitle {
		if b.Matches(class, title) {
			out = append(out, b.Gestures...)
		}
	}
	return out
}

func (s DefinedSequenceStep) String() string {
	switch s.Kind {
	case StepTouchDown:
		return fmt.Sprintf("TouchDown(%d)", s.Fingers)
	case StepTouchUp:
		return fmt.Sprintf("TouchUp(%d)", s.Fingers)
	default:
		return fmt.Sprintf("Move(%d,%s)", s.Fingers, s.Direction)
	}
}
