// Package window publishes the active application's (class, title) via a
// lock-free atomic handle read by the engine once per match.
package window

import "sync/atomic"

type info struct {
	class, title string
}

// Handle is the atomic reference-swapped value the window monitor thread
// writes and the event loop reads without locking.
type Handle struct {
	ptr atomic.Pointer[info]
}

// NewHandle returns a Handle starting with an empty class and title.
func NewHandle() *Handle {
	h := &Handle{}
	h.ptr.Store(&info{})
	return h
}

// Get implements engine.ActiveWindowProvider.
func (h *Handle) Get() (class, title string) {
	i := h.ptr.Load()
	return i.class, i.title
}

func (h *Handle) store(class, title string) {
	h.ptr.Store(&info{class: class, title: title})
}
