package engine

import (
	"github.com/rs/zerolog"

	"gestured/internal/catalog"
	"gestured/internal/geometry"
)

// ActiveWindowProvider is read by the matcher at the start of each match to
// learn which application the performed sequence should be checked against.
// Implementations must be safe to call from the event-loop goroutine
// without blocking; implementations are expected to publish the active
// window via a lock-free atomic handle.
type ActiveWindowProvider interface {
	Get() (class, title string)
}

// Dispatcher runs a matched gesture's command. Implementations are
// expected to be fire-and-forget: Dispatch must not block the
// caller waiting for the command to finish.
type Dispatcher interface {
	Dispatch(command string)
}

// CatalogSource hands the engine the live catalog snapshot. A single call
// to Current() per frame is what gives the frame its atomicity: the engine
// never refetches mid-frame, so a frame observes one complete catalog.
type CatalogSource interface {
	Current() *catalog.Catalog
}

// Engine is the single-writer gesture recognizer. All exported mutation
// happens through UpdateState, which is expected to be called
// only from the event-loop goroutine.
type Engine struct {
	size       geometry.Size
	catalogSrc CatalogSource
	window     ActiveWindowProvider
	dispatcher Dispatcher
	log        zerolog.Logger

	st state
}

// New builds an Engine for a touchpad of the given geometry.
func New(size geometry.Size, catalogSrc CatalogSource, window ActiveWindowProvider, dispatcher Dispatcher, log zerolog.Logger) *Engine {
	return &Engine{
		size:       size,
		catalogSrc: catalogSrc,
		window:     window,
		dispatcher: dispatcher,
		log:        log,
		st:         newState(),
	}
}

// UpdateState consumes one frame's worth of active finger positions and
// advances the recognizer, running the step-builder stages in order and
// reading the catalog snapshot exactly once so that every decision in this
// frame is consistent with a single catalog swap.
func (e *Engine) UpdateState(frame FrameState) {
	cat := e.catalogSrc.Current()

	if len(frame) == 0 {
		e.evictLiftedSlots(frame)
		if e.st.repeatMode == ModeNone {
			e.matchGestures(cat, ModeNone)
		} else {
			e.st.repeatMode = ModeNone
		}
		e.st.reset()
		return
	}

	edgeOpts := geometry.EdgeOptions{
		Threshold:   cat.Options.Edge.Threshold,
		Sensitivity: cat.Options.Edge.Sensitivity,
	}

	e.insertNewSlots(frame, edgeOpts)
	if e.evictLiftedSlots(frame) {
		e.matchGestures(cat, ModeTap)
	}

	centroid := frame.Centroid()
	touchDownCentroid := e.st.touchDownState.Centroid()
	atEdge := geometry.AtEdge(touchDownCentroid, e.size, edgeOpts) != geometry.NoEdge
	scale := geometry.EllipseScale(atEdge, edgeOpts.Sensitivity)
	ellipse := geometry.NewEllipse(touchDownCentroid, e.size, cat.Options.MoveThreshold)
	direction := ellipse.Side(centroid)

	e.applyDirectionChange(direction, atEdge)

	if ellipse.Outside(centroid, scale) {
		e.commitMove(cat, frame, direction)
	}

	e.refineTrailingDistance(frame)
	e.handleFingerAddition(cat, frame)

	e.st.previousState = frame.clone()
}
