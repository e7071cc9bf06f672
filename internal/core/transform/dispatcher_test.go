package transform

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zeusync/vecview/internal/core/observability/log"
)

type recordingRenderer struct {
	calls []string
}

func (r *recordingRenderer) RenderFrame() { r.calls = append(r.calls, "RenderFrame") }

func (r *recordingRenderer) TranslateCanvas(dx, dy float64) {
	r.calls = append(r.calls, fmt.Sprintf("TranslateCanvas(%g,%g)", dx, dy))
}

func (r *recordingRenderer) ScaleCanvas(factor, cx, cy float64) {
	r.calls = append(r.calls, fmt.Sprintf("ScaleCanvas(%g,%g,%g)", factor, cx, cy))
}

func (r *recordingRenderer) InstallVectorImage(image []byte) error {
	r.calls = append(r.calls, fmt.Sprintf("InstallVectorImage(%d)", len(image)))
	return nil
}

type resizingRenderer struct {
	recordingRenderer
}

func (r *resizingRenderer) Resize(w, h int) {
	r.calls = append(r.calls, fmt.Sprintf("Resize(%d,%d)", w, h))
}

func TestDispatchOneCallPerCommand(t *testing.T) {
	r := &recordingRenderer{}
	d := NewDispatcher(r, log.NewNop())

	d.DispatchAll([]Command{
		Translate{DX: -10, DY: 5},
		Scale{Factor: 1.5, CX: 100, CY: 200},
		Translate{DX: 1, DY: 1},
		Render{},
	})

	assert.Equal(t, []string{
		"TranslateCanvas(-10,5)",
		"ScaleCanvas(1.5,100,200)",
		"TranslateCanvas(1,1)",
		"RenderFrame",
	}, r.calls)
	assert.Equal(t, uint64(4), d.Dispatched())
}

func TestDispatchResizeRequestsFrame(t *testing.T) {
	r := &resizingRenderer{}
	d := NewDispatcher(r, log.NewNop())

	d.Dispatch(Resize{Width: 800, Height: 600})
	d.Dispatch(Resize{Width: 800, Height: 600})
	d.Dispatch(Resize{Width: 1024, Height: 600})

	assert.Equal(t, []string{
		"Resize(800,600)", "RenderFrame",
		"Resize(1024,600)", "RenderFrame",
	}, r.calls)

	w, h := d.Size()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 600, h)
}

func TestDispatchResizeWithoutResizer(t *testing.T) {
	r := &recordingRenderer{}
	d := NewDispatcher(r, log.NewNop())

	d.Dispatch(Resize{Width: 10, Height: 10})
	assert.Equal(t, []string{"RenderFrame"}, r.calls)
}

func TestCommandStrings(t *testing.T) {
	assert.Equal(t, "translate(-10, -10)", Translate{DX: -10, DY: -10}.String())
	assert.Equal(t, "scale(1.5 @ 3, 4)", Scale{Factor: 1.5, CX: 3, CY: 4}.String())
	assert.Equal(t, "resize(2x3)", Resize{Width: 2, Height: 3}.String())
	assert.Equal(t, "render", Render{}.String())
}
