package transform

import (
	"github.com/zeusync/vecview/internal/core/observability/log"
)

// Dispatcher forwards commands to a renderer one call at a time. It never
// batches or coalesces; that is left to the renderer.
type Dispatcher struct {
	renderer Renderer
	logger   log.Log

	width, height int
	dispatched    uint64
}

func NewDispatcher(renderer Renderer, logger log.Log) *Dispatcher {
	return &Dispatcher{
		renderer: renderer,
		logger:   logger.With(log.String("component", "dispatcher")),
	}
}

// Dispatch issues the renderer call for cmd synchronously.
func (d *Dispatcher) Dispatch(cmd Command) {
	switch c := cmd.(type) {
	case Translate:
		d.renderer.TranslateCanvas(c.DX, c.DY)
	case Scale:
		d.renderer.ScaleCanvas(c.Factor, c.CX, c.CY)
	case Render:
		d.renderer.RenderFrame()
	case Resize:
		if c.Width == d.width && c.Height == d.height {
			return
		}
		d.width, d.height = c.Width, c.Height
		if r, ok := d.renderer.(Resizer); ok {
			r.Resize(c.Width, c.Height)
		}
		d.renderer.RenderFrame()
	default:
		d.logger.Warn("Unknown command", log.Any("command", cmd))
		return
	}
	d.dispatched++
	d.logger.Debug("Command dispatched", log.String("command", cmd.String()))
}

// DispatchAll dispatches cmds in order.
func (d *Dispatcher) DispatchAll(cmds []Command) {
	for _, cmd := range cmds {
		d.Dispatch(cmd)
	}
}

// Size returns the last viewport size seen.
func (d *Dispatcher) Size() (int, int) {
	return d.width, d.height
}

// Dispatched counts commands forwarded so far.
func (d *Dispatcher) Dispatched() uint64 {
	return d.dispatched
}
