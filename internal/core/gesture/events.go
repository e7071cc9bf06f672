package gesture

import "github.com/zeusync/vecview/internal/core/touch"

// Event is one raw input batch.
type Event interface {
	event()
}

// PointerMove is relative pointer motion. Buttons is the pressed-button mask;
// 1 means the primary button alone.
type PointerMove struct {
	DX, DY  float64
	Buttons int
}

// Wheel is a scroll step at pointer position (X, Y). Ctrl is the pinch
// modifier that trackpads synthesize for pinch gestures.
type Wheel struct {
	DX, DY float64
	X, Y   float64
	Ctrl   bool
}

// TouchUpdate carries every contact currently on the surface.
type TouchUpdate struct {
	Touches []touch.Raw
}

// GestureStart, GestureChange and GestureEnd come from platform pinch APIs
// that report a scale relative to the start of the gesture.
type GestureStart struct{}

type GestureChange struct {
	Scale float64
	X, Y  float64
}

type GestureEnd struct{}

// Resize reports a new viewport size in device pixels.
type Resize struct {
	Width, Height int
}

func (PointerMove) event()   {}
func (Wheel) event()         {}
func (TouchUpdate) event()   {}
func (GestureStart) event()  {}
func (GestureChange) event() {}
func (GestureEnd) event()    {}
func (Resize) event()        {}
