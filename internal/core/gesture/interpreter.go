// Package gesture turns raw pointer, wheel and touch input into viewport
// transform commands.
//
// The interpreter is a synchronous state machine: Handle consumes one input
// batch and returns every command for it before the next batch is looked at.
// It never fails; inputs that would require dividing by a value at or below
// the noise threshold simply produce no scale command.
package gesture

import (
	"math"

	"github.com/zeusync/vecview/internal/core/platform"
	"github.com/zeusync/vecview/internal/core/touch"
	"github.com/zeusync/vecview/internal/core/transform"
)

// MachineEpsilon is the float64 machine epsilon.
var MachineEpsilon = math.Nextafter(1, 2) - 1

// DefaultNoiseThreshold is the distance, in client pixels, at or below which
// touch geometry is treated as zero.
const DefaultNoiseThreshold = 1e-9

const primaryButton = 1

type Option func(*Interpreter)

// WithNoiseThreshold overrides the threshold under which distance changes
// and divisors are treated as zero.
func WithNoiseThreshold(eps float64) Option {
	return func(in *Interpreter) {
		if eps > 0 {
			in.epsilon = eps
		}
	}
}

type Interpreter struct {
	profile platform.Profile
	epsilon float64

	touches *touch.Set

	// pivot is the gesture centroid. It is recomputed from current
	// positions only when membership changes and then follows the drag.
	pivot    touch.Point
	hasPivot bool

	// baseline is the last relative scale seen from a platform pinch API.
	baseline float64
}

func NewInterpreter(profile platform.Profile, opts ...Option) *Interpreter {
	in := &Interpreter{
		profile:  profile,
		epsilon:  DefaultNoiseThreshold,
		touches:  touch.NewSet(),
		baseline: 1,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Handle interprets one input batch.
func (in *Interpreter) Handle(ev Event) []transform.Command {
	switch e := ev.(type) {
	case PointerMove:
		return in.pointerMove(e)
	case Wheel:
		return in.wheel(e)
	case TouchUpdate:
		return in.touchUpdate(e)
	case GestureStart, GestureEnd:
		in.baseline = 1
		return nil
	case GestureChange:
		return in.gestureChange(e)
	case Resize:
		return []transform.Command{transform.Resize{Width: e.Width, Height: e.Height}}
	default:
		return nil
	}
}

// Touches exposes the tracked touch set.
func (in *Interpreter) Touches() *touch.Set {
	return in.touches
}

// Pivot returns the tracked gesture centroid in client coordinates.
func (in *Interpreter) Pivot() (touch.Point, bool) {
	return in.pivot, in.hasPivot
}

func (in *Interpreter) pointerMove(e PointerMove) []transform.Command {
	if e.Buttons != primaryButton {
		return nil
	}
	r := in.profile.PixelRatio
	return []transform.Command{transform.Translate{DX: e.DX * r, DY: e.DY * r}}
}

func (in *Interpreter) wheel(e Wheel) []transform.Command {
	if !e.Ctrl {
		return []transform.Command{transform.Translate{DX: -e.DX, DY: -e.DY}}
	}

	r := in.profile.PixelRatio
	delta := -(in.profile.WheelFactor * e.DY) * r
	factor := 1 + delta
	if factor <= in.epsilon {
		return nil
	}
	return []transform.Command{transform.Scale{Factor: factor, CX: e.X * r, CY: e.Y * r}}
}

func (in *Interpreter) touchUpdate(e TouchUpdate) []transform.Command {
	if in.touches.Apply(e.Touches) {
		in.resync()
		return nil
	}

	a, b, ok := in.touches.PairwiseSample()
	if !ok {
		return nil
	}

	r := in.profile.PixelRatio
	cmds := make([]transform.Command, 0, 2)

	distancePrev := a.Previous.Distance(b.Previous)
	distanceCurr := a.Current.Distance(b.Current)
	if math.Abs(distanceCurr-distancePrev) > in.epsilon && distancePrev > in.epsilon {
		cmds = append(cmds, transform.Scale{
			Factor: distanceCurr / distancePrev,
			CX:     in.pivot.X * r,
			CY:     in.pivot.Y * r,
		})
	}

	prev, _ := in.touches.CentroidOfPrevious()
	curr, _ := in.touches.CentroidOfCurrent()
	drag := prev.Sub(curr)

	cmds = append(cmds, transform.Translate{DX: -drag.X * r, DY: -drag.Y * r})
	in.pivot = in.pivot.Sub(drag)

	return cmds
}

func (in *Interpreter) gestureChange(e GestureChange) []transform.Command {
	if in.baseline <= in.epsilon || e.Scale <= in.epsilon {
		return nil
	}
	factor := e.Scale / in.baseline
	in.baseline = e.Scale

	r := in.profile.PixelRatio
	return []transform.Command{transform.Scale{Factor: factor, CX: e.X * r, CY: e.Y * r}}
}

// resync marks a membership change: no transform, fresh baselines.
func (in *Interpreter) resync() {
	in.baseline = 1
	in.pivot, in.hasPivot = in.touches.CentroidOfCurrent()
}
