// Package pointer turns polled input state into gesture events for hosts
// that sample devices once per tick instead of receiving callbacks.
package pointer

import (
	"slices"

	"github.com/zeusync/vecview/internal/core/gesture"
	"github.com/zeusync/vecview/internal/core/touch"
)

// DefaultWheelStep is the pixel distance of one wheel notch, matching what
// browsers report for line-based wheels.
const DefaultWheelStep = 100.0

// Snapshot is the device state sampled at one tick. Wheel offsets follow
// the desktop convention: positive WheelY scrolls up.
type Snapshot struct {
	CursorX, CursorY float64
	Primary          bool
	WheelX, WheelY   float64
	Ctrl             bool
	Touches          []touch.Raw
	Width, Height    int
}

type Tracker struct {
	wheelStep float64
	prev      Snapshot
	primed    bool
}

func NewTracker(wheelStep float64) *Tracker {
	if wheelStep <= 0 {
		wheelStep = DefaultWheelStep
	}
	return &Tracker{wheelStep: wheelStep}
}

// Events returns the events that explain the change from the previous
// snapshot, in the order a browser would deliver them.
func (t *Tracker) Events(s Snapshot) []gesture.Event {
	var events []gesture.Event

	if !t.primed || s.Width != t.prev.Width || s.Height != t.prev.Height {
		if s.Width > 0 && s.Height > 0 {
			events = append(events, gesture.Resize{Width: s.Width, Height: s.Height})
		}
	}

	if (len(s.Touches) > 0 || len(t.prev.Touches) > 0) && !slices.Equal(s.Touches, t.prev.Touches) {
		events = append(events, gesture.TouchUpdate{Touches: slices.Clone(s.Touches)})
	}

	if t.primed && len(s.Touches) == 0 && s.Primary && t.prev.Primary {
		dx, dy := s.CursorX-t.prev.CursorX, s.CursorY-t.prev.CursorY
		if dx != 0 || dy != 0 {
			events = append(events, gesture.PointerMove{DX: dx, DY: dy, Buttons: 1})
		}
	}

	if s.WheelX != 0 || s.WheelY != 0 {
		events = append(events, gesture.Wheel{
			DX:   -s.WheelX * t.wheelStep,
			DY:   -s.WheelY * t.wheelStep,
			X:    s.CursorX,
			Y:    s.CursorY,
			Ctrl: s.Ctrl,
		})
	}

	s.Touches = slices.Clone(s.Touches)
	t.prev = s
	t.primed = true
	return events
}
