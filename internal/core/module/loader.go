package module

import (
	"context"
	"fmt"
	"sort"

	"github.com/zeusync/vecview/internal/core/bootstrap"
	"github.com/zeusync/vecview/internal/core/observability/log"
	"github.com/zeusync/vecview/internal/core/platform"
	"github.com/zeusync/vecview/internal/core/renderer"
)

var _ bootstrap.Loader = (*Loader)(nil)

// Loader instantiates reference renderer canvases for the variants a host
// can run.
//
// A variant that needs shared memory on a host without it fails inside
// Load, before initialization starts, the same way a threaded build fails
// to even construct its worker pool. Missing SIMD is only discovered while
// initializing and is reported on the result channel.
type Loader struct {
	variants map[string]Variant
	caps     platform.Capabilities
	logger   log.Log

	linked map[string]*renderer.Canvas
}

func NewLoader(variants []Variant, caps platform.Capabilities, logger log.Log) *Loader {
	byName := make(map[string]Variant, len(variants))
	for _, v := range variants {
		byName[v.Name] = v
	}
	return &Loader{
		variants: byName,
		caps:     caps,
		logger:   logger.With(log.String("component", "module_loader")),
		linked:   make(map[string]*renderer.Canvas),
	}
}

func (l *Loader) Load(ctx context.Context, name string) (<-chan bootstrap.Result, error) {
	results := make(chan bootstrap.Result, 1)

	v, ok := l.variants[name]
	if !ok {
		results <- bootstrap.Result{Err: fmt.Errorf("%w: %s", ErrUnknownVariant, name)}
		close(results)
		return results, nil
	}

	if v.RequiresSharedMemory && !l.caps.SharedMemory {
		return nil, ErrSharedMemoryUnavailable
	}

	canvas := renderer.New(renderer.Options{Variant: v.Name, Workers: v.Workers})
	l.linked[name] = canvas
	caps := l.caps

	go func() {
		defer close(results)

		if v.RequiresSIMD && !caps.SIMD {
			results <- bootstrap.Result{Err: fmt.Errorf("%w: SIMD is not available", ErrVariantUnsupported)}
			return
		}
		if err := ctx.Err(); err != nil {
			results <- bootstrap.Result{Err: err}
			return
		}
		results <- bootstrap.Result{Module: canvas}
	}()

	l.logger.Debug("Module variant linked", log.String("variant", name), log.Int("workers", v.Workers))
	return results, nil
}

// Unlink closes and forgets the canvas of a failed variant.
func (l *Loader) Unlink(name string) {
	canvas, ok := l.linked[name]
	if !ok {
		return
	}
	canvas.Close()
	delete(l.linked, name)
	l.logger.Debug("Module variant unlinked", log.String("variant", name))
}

// Linked lists the variants that currently hold a canvas.
func (l *Loader) Linked() []string {
	names := make([]string, 0, len(l.linked))
	for name := range l.linked {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
