package pointer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/vecview/internal/core/gesture"
	"github.com/zeusync/vecview/internal/core/touch"
)

func TestFirstSnapshotReportsSize(t *testing.T) {
	tr := NewTracker(0)
	events := tr.Events(Snapshot{Width: 800, Height: 600, Primary: true, CursorX: 10})
	assert.Equal(t, []gesture.Event{gesture.Resize{Width: 800, Height: 600}}, events)

	assert.Empty(t, tr.Events(Snapshot{Width: 800, Height: 600}))
	assert.Equal(t, []gesture.Event{gesture.Resize{Width: 640, Height: 480}},
		tr.Events(Snapshot{Width: 640, Height: 480}))
}

func TestDragNeedsButtonHeldOnBothSamples(t *testing.T) {
	tr := NewTracker(0)
	tr.Events(Snapshot{Width: 1, Height: 1, CursorX: 0, CursorY: 0})

	assert.Empty(t, tr.Events(Snapshot{Width: 1, Height: 1, CursorX: 5, CursorY: 5, Primary: true}),
		"press sample carries no motion")

	events := tr.Events(Snapshot{Width: 1, Height: 1, CursorX: 8, CursorY: 1, Primary: true})
	assert.Equal(t, []gesture.Event{gesture.PointerMove{DX: 3, DY: -4, Buttons: 1}}, events)

	assert.Empty(t, tr.Events(Snapshot{Width: 1, Height: 1, CursorX: 20, CursorY: 20}))
}

func TestWheelConvention(t *testing.T) {
	tr := NewTracker(50)
	events := tr.Events(Snapshot{CursorX: 3, CursorY: 4, WheelY: 1, Ctrl: true})
	require.Len(t, events, 1)
	assert.Equal(t, gesture.Wheel{DX: 0, DY: -50, X: 3, Y: 4, Ctrl: true}, events[0])
}

func TestTouchesReportedOnChangeAndRelease(t *testing.T) {
	tr := NewTracker(0)
	two := []touch.Raw{{ID: 1, X: 0, Y: 0}, {ID: 2, X: 10, Y: 0}}

	events := tr.Events(Snapshot{Touches: two})
	require.Len(t, events, 1)
	assert.Equal(t, gesture.TouchUpdate{Touches: two}, events[0])

	assert.Empty(t, tr.Events(Snapshot{Touches: two}), "unchanged touches are not repeated")

	events = tr.Events(Snapshot{})
	require.Len(t, events, 1)
	assert.Equal(t, gesture.TouchUpdate{Touches: nil}, events[0])
}

func TestTouchesSuppressMouseDrag(t *testing.T) {
	tr := NewTracker(0)
	tr.Events(Snapshot{Primary: true, Touches: []touch.Raw{{ID: 1}}})
	events := tr.Events(Snapshot{Primary: true, CursorX: 5, Touches: []touch.Raw{{ID: 1, X: 5}}})
	require.Len(t, events, 1)
	assert.IsType(t, gesture.TouchUpdate{}, events[0])
}

func TestSnapshotTouchesAreCopied(t *testing.T) {
	tr := NewTracker(0)
	raw := []touch.Raw{{ID: 1, X: 1}}
	tr.Events(Snapshot{Touches: raw})
	raw[0].X = 99

	assert.Empty(t, tr.Events(Snapshot{Touches: []touch.Raw{{ID: 1, X: 1}}}))
}
