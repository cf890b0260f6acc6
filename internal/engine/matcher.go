package engine

import "gestured/internal/catalog"

// matchGestures evaluates the candidate set in catalog order (globals,
// by_class, by_title) and either dispatches the winning match(es) or
// leaves performed_sequence untouched for the next frame to try again.
func (e *Engine) matchGestures(cat *catalog.Catalog, mode MatchMode) bool {
	class, title := "", ""
	if e.window != nil {
		class, title = e.window.Get()
	}

	var matched []catalog.Gesture
	for _, g := range cat.AllCandidates(class, title) {
		if e.gestureMatches(g, mode) {
			matched = append(matched, g)
		}
	}

	if len(matched) == 0 {
		return false
	}

	winners := matched
	if !cat.Options.RunAllMatches {
		winners = []catalog.Gesture{pickBestMatch(matched)}
	}

	for _, g := range winners {
		e.dispatchGesture(g)
	}

	e.st.repeatMode = mode
	return true
}

// matchWindow returns the slice of performed_sequence a gesture of this
// shape should be compared against. A touch transient (TouchDown/TouchUp)
// at either end of performed_sequence is incidental noise to a gesture
// that doesn't itself declare that boundary — e.g. the TouchDown that
// starts every gesture, or the TouchUp that ends one on release — so it is
// trimmed away on each side where the gesture's own first/last declared
// step is a Move. A side where the gesture declares a TouchDown/TouchUp
// step is left untrimmed.
func matchWindow(performed []PerformedSequenceStep, g catalog.Gesture) []PerformedSequenceStep {
	if len(g.Sequence) == 0 {
		return performed
	}

	start := 0
	if g.Sequence[0].Kind == StepMove {
		for start < len(performed) && isTransient(performed[start].Kind) {
			start++
		}
	}

	end := len(performed)
	if g.Sequence[len(g.Sequence)-1].Kind == StepMove {
		for end > start && isTransient(performed[end-1].Kind) {
			end--
		}
	}

	return performed[start:end]
}

func isTransient(k StepKind) bool {
	return k == StepTouchDown || k == StepTouchUp
}

// gestureMatches checks shape, edge, the mode-specific repeat_mode
// requirement (enforced symmetrically for both tap and slide), and a
// step-by-step Equal comparison against the trimmed performed window.
func (e *Engine) gestureMatches(g catalog.Gesture, mode MatchMode) bool {
	window := matchWindow(e.st.performedSequence, g)
	if len(g.Sequence) != len(window) {
		return false
	}
	if g.Edge != e.st.startingEdge {
		return false
	}
	if required := mode.requiredRepeat(); required != catalog.RepeatNone && !g.RepeatMode.Has(required) {
		return false
	}
	for i, defined := range g.Sequence {
		if !Equal(defined, window[i]) {
			return false
		}
	}
	return true
}

// pickBestMatch resolves ties: the candidate with the
// largest declared min_distance wins, first candidate wins further ties,
// and candidates are already in stable catalog order (globals, by_class,
// by_title).
func pickBestMatch(matched []catalog.Gesture) catalog.Gesture {
	best := matched[0]
	bestVal := best.MaxMinDistance()
	for _, g := range matched[1:] {
		if v := g.MaxMinDistance(); v > bestVal {
			best, bestVal = g, v
		}
	}
	return best
}

func (e *Engine) dispatchGesture(g catalog.Gesture) {
	e.log.Info().Str("component", "engine").Str("gesture", g.Name).Msg("gesture matched")
	if e.dispatcher != nil {
		e.dispatcher.Dispatch(g.Command)
	}
}
