package module

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/vecview/internal/core/bootstrap"
	"github.com/zeusync/vecview/internal/core/observability/log"
	"github.com/zeusync/vecview/internal/core/platform"
	"github.com/zeusync/vecview/internal/core/renderer"
	"github.com/zeusync/vecview/internal/core/transform"
)

func run(t *testing.T, caps platform.Capabilities, plan []string) (*bootstrap.Sequencer, *Loader, int, error) {
	t.Helper()
	loader := NewLoader(DefaultVariants(), caps, log.NewNop())
	fatal := 0
	s := bootstrap.NewSequencer(loader, bootstrap.FatalFunc(func() { fatal++ }), nil, log.NewNop())
	_, err := s.Run(context.Background(), plan)
	return s, loader, fatal, err
}

func TestFullyCapableHostGetsBestVariant(t *testing.T) {
	s, loader, fatal, err := run(t, platform.Capabilities{SharedMemory: true, SIMD: true}, Names(DefaultVariants()))
	require.NoError(t, err)
	assert.Equal(t, 0, fatal)

	variant, m, ok := s.Module()
	require.True(t, ok)
	assert.Equal(t, "index-0", variant)
	assert.Equal(t, 4, m.(*renderer.Canvas).Workers())
	assert.Equal(t, []string{"index-0"}, loader.Linked())
}

func TestMissingSIMDFallsBack(t *testing.T) {
	s, loader, fatal, err := run(t, platform.Capabilities{SharedMemory: true}, Names(DefaultVariants()))
	require.NoError(t, err)
	assert.Equal(t, 0, fatal)

	assert.Equal(t, []string{"index-0", "index-1"}, s.Attempts())
	variant, _, _ := s.Module()
	assert.Equal(t, "index-1", variant)
	assert.Equal(t, []string{"index-1"}, loader.Linked(), "failed variant is unlinked")
}

func TestMissingSharedMemoryIsFatal(t *testing.T) {
	s, loader, fatal, err := run(t, platform.Capabilities{}, Names(DefaultVariants()))
	require.Error(t, err)
	assert.ErrorIs(t, err, bootstrap.ErrEnvironmentIncompatible)
	assert.ErrorIs(t, err, ErrSharedMemoryUnavailable)
	assert.Equal(t, 1, fatal)
	assert.Equal(t, []string{"index-0"}, s.Attempts())
	assert.Empty(t, loader.Linked())
}

func TestConservativePlanWorksEverywhere(t *testing.T) {
	s, _, fatal, err := run(t, platform.Capabilities{}, []string{"index-2"})
	require.NoError(t, err)
	assert.Equal(t, 0, fatal)
	_, m, ok := s.Module()
	require.True(t, ok)
	var _ transform.Renderer = m
}

func TestUnknownVariantIsPerVariantFailure(t *testing.T) {
	s, _, fatal, err := run(t, platform.Capabilities{}, []string{"index-9", "index-2"})
	require.NoError(t, err)
	assert.Equal(t, 0, fatal)
	assert.Equal(t, []string{"index-9", "index-2"}, s.Attempts())
}

func TestUnlinkClosesCanvas(t *testing.T) {
	loader := NewLoader(DefaultVariants(), platform.Capabilities{SharedMemory: true, SIMD: true}, log.NewNop())
	ch, err := loader.Load(context.Background(), "index-1")
	require.NoError(t, err)
	res := <-ch
	require.NoError(t, res.Err)

	loader.Unlink("index-1")
	loader.Unlink("index-1")
	assert.True(t, res.Module.(*renderer.Canvas).Closed())
	assert.Empty(t, loader.Linked())
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(DefaultVariants()))
	assert.ErrorIs(t, Validate([]Variant{{Name: ""}}), ErrUnnamedVariant)
	assert.ErrorIs(t, Validate([]Variant{{Name: "a"}, {Name: "a"}}), ErrDuplicateVariant)
}

func TestSupports(t *testing.T) {
	v := DefaultVariants()
	caps := platform.Capabilities{SharedMemory: true}
	assert.False(t, v[0].Supports(caps))
	assert.True(t, v[1].Supports(caps))
	assert.True(t, v[2].Supports(platform.Capabilities{}))
}

func TestMissingSIMDIsReportedAsynchronously(t *testing.T) {
	loader := NewLoader(DefaultVariants(), platform.Capabilities{SharedMemory: true}, log.NewNop())
	ch, err := loader.Load(context.Background(), "index-0")
	require.NoError(t, err)

	res, ok := <-ch
	require.True(t, ok)
	assert.ErrorIs(t, res.Err, ErrVariantUnsupported)
	assert.Nil(t, res.Module)
}

func TestLoadHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loader := NewLoader(DefaultVariants(), platform.Capabilities{}, log.NewNop())
	ch, err := loader.Load(ctx, "index-2")
	require.NoError(t, err)
	res := <-ch
	assert.ErrorIs(t, res.Err, context.Canceled)
}
