// Package viewer drives one viewport: raw input goes through the gesture
// interpreter and the resulting commands are dispatched to the renderer in
// order, one event at a time.
package viewer

import (
	"context"

	"github.com/zeusync/vecview/internal/core/gesture"
	"github.com/zeusync/vecview/internal/core/observability/log"
	"github.com/zeusync/vecview/internal/core/platform"
	"github.com/zeusync/vecview/internal/core/transform"
)

// Ticker is implemented by renderers that defer drawing until the next
// frame opportunity.
type Ticker interface {
	Tick() bool
}

type Viewer struct {
	interpreter *gesture.Interpreter
	dispatcher  *transform.Dispatcher
	renderer    transform.Renderer
	logger      log.Log

	events uint64
	frames uint64
}

func New(profile platform.Profile, renderer transform.Renderer, logger log.Log, opts ...gesture.Option) *Viewer {
	logger = logger.With(log.String("component", "viewer"))
	return &Viewer{
		interpreter: gesture.NewInterpreter(profile, opts...),
		dispatcher:  transform.NewDispatcher(renderer, logger),
		renderer:    renderer,
		logger:      logger,
	}
}

// Handle processes ev to completion and returns the commands it produced.
// Renderers implementing Ticker get a frame opportunity afterwards.
func (v *Viewer) Handle(ev gesture.Event) []transform.Command {
	v.events++
	cmds := v.interpreter.Handle(ev)
	v.dispatcher.DispatchAll(cmds)
	v.tick()
	return cmds
}

func (v *Viewer) tick() {
	if t, ok := v.renderer.(Ticker); ok && t.Tick() {
		v.frames++
	}
}

// Install replaces the displayed image and renders it.
func (v *Viewer) Install(image []byte) error {
	if err := v.renderer.InstallVectorImage(image); err != nil {
		return err
	}
	v.tick()
	return nil
}

// Run handles events until the channel closes or ctx is done.
func (v *Viewer) Run(ctx context.Context, events <-chan gesture.Event) error {
	v.logger.Debug("Viewer loop started")
	defer v.logger.Debug("Viewer loop stopped", log.Uint64("events", v.events), log.Uint64("frames", v.frames))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			v.Handle(ev)
		}
	}
}

func (v *Viewer) Interpreter() *gesture.Interpreter {
	return v.interpreter
}

func (v *Viewer) Dispatcher() *transform.Dispatcher {
	return v.dispatcher
}

// Events counts handled events.
func (v *Viewer) Events() uint64 {
	return v.events
}

// Frames counts frames produced through Ticker.
func (v *Viewer) Frames() uint64 {
	return v.frames
}
