package server

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/vecview/internal/core/events/bus"
	"github.com/zeusync/vecview/internal/core/observability/log"
)

func TestDeliveryObserverReportsFailuresAndSlowHandlers(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	obs := &deliveryObserver{logger: log.NewWithCore(core, log.LevelDebug), slow: slowDelivery}

	obs.OnDelivered(bus.TypeBootstrapReady, 1, nil, 10)
	assert.Zero(t, logs.Len())

	obs.OnDelivered(bus.TypeImageInstalled, 2, errors.New("boom"), 10)
	obs.OnDelivered(bus.TypeBootstrapReady, 1, nil, (10 * time.Millisecond).Microseconds())

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "Lifecycle handler failed", entries[0].Message)
	assert.Equal(t, bus.TypeImageInstalled, entries[0].ContextMap()["event"])
	assert.Equal(t, "Slow lifecycle delivery", entries[1].Message)
	assert.Equal(t, 10*time.Millisecond, entries[1].ContextMap()["duration"])
}

func TestObserverKeepsBusMetricsLive(t *testing.T) {
	srv, _ := testServer(t, nil)

	require.NoError(t, srv.bus.Publish(bus.NewEvent(bus.TypeImageInstalled, "test", bus.ImageEvent{Name: "x"})))

	stats := srv.Stats()
	assert.Equal(t, uint64(1), stats.Events.Published)
	assert.Equal(t, uint64(1), stats.Events.DeliveredHandlers)
	assert.Equal(t, uint64(1), stats.Images)
}
