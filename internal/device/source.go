package device

import (
	"fmt"

	"github.com/gvalkov/golang-evdev"

	"gestured/internal/engine"
	"gestured/internal/geometry"
)

// Source reads raw evdev multitouch events from a touchpad device and
// assembles them into engine.FrameState values, one per SYN_REPORT. The
// slot/tracking-id/position bookkeeping mirrors the standard multitouch
// protocol B event sequence.
type Source struct {
	dev         *evdev.InputDevice
	currentSlot int
	frame       engine.FrameState
}

// Open opens the touchpad device at path for reading.
func Open(path string) (*Source, error) {
	dev, err := evdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening touchpad device %q: %w", path, err)
	}
	return &Source{dev: dev, frame: engine.FrameState{}}, nil
}

// Close releases the underlying device file.
func (s *Source) Close() error {
	return s.dev.Close()
}

// Run blocks reading events from the device, calling onFrame once per
// completed SYN_REPORT with a snapshot of the accumulated FrameState. It
// returns only when the device read fails, which the caller treats as a
// setup/runtime error (e.g. the touchpad was unplugged).
func (s *Source) Run(onFrame func(engine.FrameState)) error {
	for {
		events, err := s.dev.Read()
		if err != nil {
			return fmt.Errorf("reading touchpad events: %w", err)
		}
		for i := range events {
			s.handleEvent(&events[i], onFrame)
		}
	}
}

func (s *Source) handleEvent(event *evdev.InputEvent, onFrame func(engine.FrameState)) {
	switch event.Type {
	case evdev.EV_SYN:
		if event.Code == evdev.SYN_REPORT {
			onFrame(s.snapshot())
		}
	case evdev.EV_ABS:
		s.handleAbsEvent(event)
	}
}

func (s *Source) handleAbsEvent(event *evdev.InputEvent) {
	switch event.Code {
	case evdev.ABS_MT_SLOT:
		s.currentSlot = int(event.Value)
	case evdev.ABS_MT_TRACKING_ID:
		slot := engine.Slot(s.currentSlot)
		if event.Value == -1 {
			delete(s.frame, slot)
		} else if _, ok := s.frame[slot]; !ok {
			s.frame[slot] = geometry.Position{}
		}
	case evdev.ABS_MT_POSITION_X:
		s.setAxis(func(p *geometry.Position) { p.X = uint16(event.Value) })
	case evdev.ABS_MT_POSITION_Y:
		s.setAxis(func(p *geometry.Position) { p.Y = uint16(event.Value) })
	}
}

func (s *Source) setAxis(set func(*geometry.Position)) {
	slot := engine.Slot(s.currentSlot)
	pos := s.frame[slot]
	set(&pos)
	s.frame[slot] = pos
}

func (s *Source) snapshot() engine.FrameState {
	out := make(engine.FrameState, len(s.frame))
	for k, v := range s.frame {
		out[k] = v
	}
	return out
}
