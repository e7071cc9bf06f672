// Package bootstrap brings up the rendering module by trying an ordered
// plan of variants, most capable first, until one initializes.
//
// The Loader decides how a failure is reported. An error returned from
// Load itself means the host is missing a primitive that every variant
// depends on: the sequencer goes straight to Failed without touching the
// rest of the plan. An error delivered through the result channel is a
// per-variant failure: the variant is unlinked and the next one is tried.
//
// Failed is terminal. The fatal notifier fires at most once and nothing
// ever retries.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/zeusync/vecview/internal/core/events/bus"
	"github.com/zeusync/vecview/internal/core/observability/log"
	"github.com/zeusync/vecview/internal/core/transform"
)

type State uint8

const (
	StateIdle State = iota
	StatePending
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the asynchronous outcome of one load attempt.
type Result struct {
	Module transform.Renderer
	Err    error
}

// Loader loads and initializes module variants.
type Loader interface {
	// Load starts initializing variant. A returned error is an environment
	// failure; per-variant failures are delivered on the channel.
	Load(ctx context.Context, variant string) (<-chan Result, error)
	// Unlink releases whatever a failed attempt left behind.
	Unlink(variant string)
}

// FatalNotifier surfaces the persistent, user-visible error state.
// Implementations must be idempotent.
type FatalNotifier interface {
	ShowFatal()
}

// FatalFunc adapts a function to FatalNotifier.
type FatalFunc func()

func (f FatalFunc) ShowFatal() { f() }

// ReadyFunc wires a freshly initialized module into the viewport. It runs
// exactly once per successful bootstrap.
type ReadyFunc func(variant string, module transform.Renderer)

type Option func(*Sequencer)

// WithEventBus publishes attempt, failure, ready and fatal events on b.
func WithEventBus(b bus.EventBus, source string) Option {
	return func(s *Sequencer) {
		s.bus = b
		s.source = source
	}
}

// Sequencer owns the bootstrap state machine. It is driven by a single flow
// and is not safe for concurrent use.
type Sequencer struct {
	loader Loader
	fatal  FatalNotifier
	ready  ReadyFunc
	logger log.Log

	bus    bus.EventBus
	source string

	state    State
	variant  string
	module   transform.Renderer
	attempts []string
	err      error
}

func NewSequencer(loader Loader, fatal FatalNotifier, ready ReadyFunc, logger log.Log, opts ...Option) *Sequencer {
	s := &Sequencer{
		loader: loader,
		fatal:  fatal,
		ready:  ready,
		logger: logger.With(log.String("component", "bootstrap")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run walks plan left to right and returns the first module that
// initializes. On failure the returned error wraps ErrPlanExhausted or
// ErrEnvironmentIncompatible. Cancelling ctx abandons the wait for an
// in-flight attempt and leaves the sequencer Pending.
func (s *Sequencer) Run(ctx context.Context, plan []string) (transform.Renderer, error) {
	if s.state != StateIdle {
		return nil, ErrAlreadyStarted
	}
	s.state = StatePending

	plan = append([]string(nil), plan...)
	s.logger.Info("Bootstrap started", log.Strings("plan", plan))

	var lastErr error
	for len(plan) > 0 {
		variant := plan[0]
		plan = plan[1:]

		s.attempts = append(s.attempts, variant)
		attempt := len(s.attempts)
		s.publish(bus.TypeBootstrapAttempt, bus.VariantEvent{Variant: variant, Attempt: attempt})
		s.logger.Debug("Loading module variant", log.String("variant", variant), log.Int("attempt", attempt))

		results, err := s.loader.Load(ctx, variant)
		if err != nil {
			return nil, s.fail(fmt.Errorf("%w: variant %s: %w", ErrEnvironmentIncompatible, variant, err))
		}

		var res Result
		select {
		case r, ok := <-results:
			if !ok {
				r = Result{Err: ErrNoResult}
			}
			res = r
		case <-ctx.Done():
			s.logger.Warn("Bootstrap abandoned while loading", log.String("variant", variant), log.Error(ctx.Err()))
			return nil, ctx.Err()
		}

		if res.Err == nil && res.Module == nil {
			res.Err = ErrNoResult
		}
		if res.Err != nil {
			lastErr = fmt.Errorf("variant %s: %w", variant, res.Err)
			s.loader.Unlink(variant)
			s.publish(bus.TypeVariantFailed, bus.VariantEvent{Variant: variant, Attempt: attempt, Err: res.Err})
			s.logger.Warn("Module variant failed to initialize",
				log.String("variant", variant),
				log.Int("remaining", len(plan)),
				log.Error(res.Err))
			continue
		}

		s.state = StateSucceeded
		s.variant = variant
		s.module = res.Module
		s.publish(bus.TypeBootstrapReady, bus.VariantEvent{Variant: variant, Attempt: attempt})
		s.logger.Info("Module ready", log.String("variant", variant), log.Int("attempts", attempt))

		if s.ready != nil {
			s.ready(variant, res.Module)
		}
		return res.Module, nil
	}

	if lastErr != nil {
		return nil, s.fail(fmt.Errorf("%w: %w", ErrPlanExhausted, lastErr))
	}
	return nil, s.fail(ErrPlanExhausted)
}

func (s *Sequencer) State() State {
	return s.state
}

// Module returns the initialized module and its variant once Succeeded.
func (s *Sequencer) Module() (string, transform.Renderer, bool) {
	return s.variant, s.module, s.state == StateSucceeded
}

// Attempts lists the variants tried, in order.
func (s *Sequencer) Attempts() []string {
	return append([]string(nil), s.attempts...)
}

// Err is the terminal error once Failed.
func (s *Sequencer) Err() error {
	return s.err
}

func (s *Sequencer) fail(err error) error {
	s.state = StateFailed
	s.err = err
	s.publish(bus.TypeBootstrapFatal, bus.VariantEvent{Attempt: len(s.attempts), Err: err})
	s.logger.Error("Bootstrap failed", log.Int("attempts", len(s.attempts)), log.Error(err))
	if s.fatal != nil {
		s.fatal.ShowFatal()
	}
	return err
}

func (s *Sequencer) publish(typ string, data bus.VariantEvent) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(bus.NewEvent(typ, s.source, data)); err != nil {
		s.logger.Warn("Lifecycle handler failed", log.String("event", typ), log.Error(err))
	}
}
