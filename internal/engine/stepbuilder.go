package engine

import (
	"gestured/internal/catalog"
	"gestured/internal/geometry"
)

// insertNewSlots seats slots seen for the first time this gesture into
// touch_down_state and sequence_step_start_state, and records the starting
// edge the first time any such slot lands on a touchpad border.
func (e *Engine) insertNewSlots(frame FrameState, edgeOpts geometry.EdgeOptions) {
	for slot, pos := range frame {
		if _, tracked := e.st.touchDownState[slot]; tracked {
			continue
		}
		e.st.touchDownState[slot] = pos
		e.st.sequenceStepStartState[slot] = pos

		if !e.st.gestureInProgress {
			if edge := geometry.AtEdge(pos, e.size, edgeOpts); edge != geometry.NoEdge {
				e.st.startingEdge = edge
			}
		}
	}
	e.st.gestureInProgress = true
}

// evictLiftedSlots handles a slot disappearing from the frame: it either
// extends a trailing TouchUp step, starts a new one (only while not
// mid-repeat), or — under tap/slide repeat — is dropped from bookkeeping
// without recording a step at all, letting the slide continue until a
// genuinely empty frame.
func (e *Engine) evictLiftedSlots(frame FrameState) (evicted bool) {
	for slot := range e.st.previousState {
		if _, stillDown := frame[slot]; stillDown {
			continue
		}
		evicted = true

		if last := e.st.lastStep(); last != nil && last.Kind == StepTouchUp {
			last.Slots[slot] = struct{}{}
		} else if e.st.repeatMode == ModeNone {
			e.st.performedSequence = append(e.st.performedSequence, PerformedSequenceStep{
				Kind:  StepTouchUp,
				Slots: slotSet(slot),
			})
			for s2, p2 := range frame {
				e.st.touchDownState[s2] = p2
			}
		}

		delete(e.st.touchDownState, slot)
		delete(e.st.sequenceStepStartState, slot)
		delete(e.st.stateDirections, slot)
	}
	return evicted
}

// applyDirectionChange handles the case where the provisional direction
// differs from the previous one: the in-progress Move step is considered
// closed for accounting purposes (step-start positions are re-seated), and
// an edge-originated gesture may re-aim its trailing Move in place instead
// of opening a new step.
func (e *Engine) applyDirectionChange(direction geometry.Direction, atEdge bool) {
	if direction == e.st.previousDirection {
		return
	}

	// Re-seated from touch_down_state rather than the raw incoming frame:
	// touch_down_state is the quiescent reference the ellipse test already
	// uses, so this is a no-op until a Move has actually been committed,
	// and only pulls the step start forward to the point of the *previous*
	// commit once one has. Re-seating from the frame itself would zero out
	// the very commit this direction change is about to produce.
	for s2, p2 := range e.st.touchDownState {
		e.st.sequenceStepStartState[s2] = p2
	}

	if last := e.st.lastStep(); last != nil && last.Kind == StepMove && last.Direction != direction && atEdge {
		last.Direction = direction
	}

	e.st.previousDirection = direction
}

// commitMove runs once the centroid has travelled outside the
// move-threshold ellipse: it extends or opens a Move step, re-seats
// touch_down_state so the ellipse test restarts from here, and drives
// slide-mode repetition.
func (e *Engine) commitMove(cat *catalog.Catalog, frame FrameState, direction geometry.Direction) {
	for slot := range frame {
		e.st.stateDirections[slot] = direction
	}

	stepStartCentroid := e.st.sequenceStepStartState.Centroid()
	centroid := frame.Centroid()
	distance := geometry.NormalizedDistance(centroid, stepStartCentroid, e.size, direction)

	if last := e.st.lastStep(); last != nil && last.Kind == StepMove && last.Direction == direction {
		last.Slots = slotSetFromFrame(frame)
		last.Distance = distance
	} else {
		e.st.performedSequence = append(e.st.performedSequence, PerformedSequenceStep{
			Kind:      StepMove,
			Slots:     slotSetFromFrame(frame),
			Direction: direction,
			Distance:  distance,
		})
	}

	for s2, p2 := range frame {
		e.st.touchDownState[s2] = p2
	}

	e.matchGestures(cat, ModeSlide)
}

// refineTrailingDistance lets a finger that joined an in-progress Move
// contribute its own axis-aligned displacement, so a gesture whose minimum
// distance is only reached by the later finger can still match.
func (e *Engine) refineTrailingDistance(frame FrameState) {
	last := e.st.lastStep()
	if last == nil || last.Kind != StepMove {
		return
	}

	for slot, pos := range frame {
		dir, tracked := e.st.stateDirections[slot]
		if !tracked || dir != last.Direction {
			continue
		}
		startPos, ok := e.st.sequenceStepStartState[slot]
		if !ok {
			continue
		}
		disp := geometry.NormalizedDistance(pos, startPos, e.size, dir)

		last.Slots[slot] = struct{}{}
		if disp > last.Distance {
			last.Distance = disp
		}
	}
}

// handleFingerAddition handles a finger added after the previous frame:
// it either extends a trailing TouchDown step or opens a new one, and
// drives tap-mode repetition.
//
// Unlike original_source/src/gestures.rs's equivalent branch, this does not
// additionally require performed_sequence to be non-empty first. There,
// touch_down is never a catalog-declarable step, so the very first press
// is deliberately left out of performed_sequence and a tap is expressed
// using only its closing touch_up. Here touch_down is a first-class step
// kind a gesture can declare (catalog.StepTouchDown), so the opening press
// itself must land in performed_sequence[0] the same way a later one does;
// gating that on a non-empty performed_sequence would make the opening
// touch_down of every gesture unrecordable.
func (e *Engine) handleFingerAddition(cat *catalog.Catalog, frame FrameState) {
	if len(frame) <= len(e.st.previousState) {
		return
	}

	added := false
	for slot := range frame {
		if _, already := e.st.previousState[slot]; already {
			continue
		}
		added = true
		if last := e.st.lastStep(); last != nil && last.Kind == StepTouchDown {
			last.Slots[slot] = struct{}{}
		} else {
			e.st.performedSequence = append(e.st.performedSequence, PerformedSequenceStep{
				Kind:  StepTouchDown,
				Slots: slotSet(slot),
			})
		}
	}

	if added {
		e.matchGestures(cat, ModeTap)
	}
}

func slotSetFromFrame(frame FrameState) map[Slot]struct{} {
	out := make(map[Slot]struct{}, len(frame))
	for slot := range frame {
		out[slot] = struct{}{}
	}
	return out
}
