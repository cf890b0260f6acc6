// Package config resolves the catalog file location and keeps the loaded
// catalog fresh across the daemon's lifetime via a filesystem watcher that
// swaps an atomic handle the engine reads as its CatalogSource.
package config

import (
	"sync/atomic"

	"gestured/internal/catalog"
)

// Handle is the lock-free, swappable catalog reference shared between the
// config watcher thread (writer) and the event loop (reader). A single
// pointer store is what gives a frame its all-old-or-all-new observation of
// a catalog swap.
type Handle struct {
	ptr atomic.Pointer[catalog.Catalog]
}

// NewHandle builds a Handle already holding the given catalog.
func NewHandle(initial *catalog.Catalog) *Handle {
	h := &Handle{}
	h.ptr.Store(initial)
	return h
}

// Current implements engine.CatalogSource.
func (h *Handle) Current() *catalog.Catalog {
	return h.ptr.Load()
}

func (h *Handle) store(cat *catalog.Catalog) {
	h.ptr.Store(cat)
}
