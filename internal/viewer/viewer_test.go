package viewer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/vecview/internal/core/gesture"
	"github.com/zeusync/vecview/internal/core/observability/log"
	"github.com/zeusync/vecview/internal/core/platform"
	"github.com/zeusync/vecview/internal/core/renderer"
	"github.com/zeusync/vecview/internal/core/touch"
	"github.com/zeusync/vecview/internal/core/transform"
)

func desktop() platform.Profile {
	return platform.Resolve(platform.Client{
		UserAgent:  "Mozilla/5.0 (X11; Linux x86_64) Firefox/128.0",
		PixelRatio: 1,
	}, platform.DefaultSettings())
}

func TestHandleDragMovesCanvas(t *testing.T) {
	canvas := renderer.New(renderer.Options{Variant: "index-2"})
	v := New(desktop(), canvas, log.NewNop())

	cmds := v.Handle(gesture.PointerMove{DX: 5, DY: -3, Buttons: 1})
	require.Equal(t, []transform.Command{transform.Translate{DX: 5, DY: -3}}, cmds)

	st := canvas.State()
	assert.Equal(t, 5.0, st.TranslateX)
	assert.Equal(t, -3.0, st.TranslateY)
	assert.Equal(t, uint64(1), v.Frames())
	assert.False(t, canvas.NeedsRendering())
}

func TestHandleIgnoredEventProducesNoFrame(t *testing.T) {
	canvas := renderer.New(renderer.Options{})
	canvas.RenderFrame()
	v := New(desktop(), canvas, log.NewNop())

	assert.Empty(t, v.Handle(gesture.PointerMove{DX: 5, Buttons: 0}))
	assert.Equal(t, uint64(0), v.Frames())
	assert.Equal(t, uint64(1), v.Events())
}

func TestPinchZoomsCanvas(t *testing.T) {
	canvas := renderer.New(renderer.Options{})
	v := New(desktop(), canvas, log.NewNop())

	v.Handle(gesture.TouchUpdate{Touches: []touch.Raw{{ID: 1, X: 0, Y: 0}, {ID: 2, X: 10, Y: 0}}})
	v.Handle(gesture.TouchUpdate{Touches: []touch.Raw{{ID: 1, X: -5, Y: 0}, {ID: 2, X: 15, Y: 0}}})

	assert.InDelta(t, 2.0, canvas.State().Scale, 1e-9)
}

func TestRunStopsWhenChannelCloses(t *testing.T) {
	canvas := renderer.New(renderer.Options{})
	v := New(desktop(), canvas, log.NewNop())

	events := make(chan gesture.Event, 3)
	events <- gesture.Resize{Width: 800, Height: 600}
	events <- gesture.PointerMove{DX: 1, DY: 1, Buttons: 1}
	events <- gesture.PointerMove{DX: 1, DY: 1, Buttons: 1}
	close(events)

	require.NoError(t, v.Run(context.Background(), events))
	assert.Equal(t, uint64(3), v.Events())

	w, h := v.Dispatcher().Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
	assert.Equal(t, 2.0, canvas.State().TranslateX)
}

func TestRunStopsOnCancel(t *testing.T) {
	v := New(desktop(), renderer.New(renderer.Options{}), log.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- v.Run(ctx, make(chan gesture.Event)) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("viewer did not stop")
	}
}

func TestInstallResetsView(t *testing.T) {
	canvas := renderer.New(renderer.Options{})
	v := New(desktop(), canvas, log.NewNop())
	v.Handle(gesture.PointerMove{DX: 9, DY: 9, Buttons: 1})

	require.NoError(t, v.Install([]byte("image")))
	st := canvas.State()
	assert.Equal(t, 0.0, st.TranslateX)
	assert.Equal(t, 5, st.ImageSize)
	assert.Equal(t, uint64(2), v.Frames())

	assert.ErrorIs(t, v.Install(nil), renderer.ErrEmptyImage)
}
