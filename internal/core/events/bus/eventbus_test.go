package bus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testObserver struct {
	delivered int
	lastErr   error
}

func (o *testObserver) OnDelivered(_ string, handlers int, err error, _ int64) {
	o.delivered += handlers
	o.lastErr = err
}

func TestPublishSubscribe(t *testing.T) {
	b := New()

	var got []Event
	_, err := b.Subscribe(TypeBootstrapReady, func(e Event) error {
		got = append(got, e)
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, b.Publish(NewEvent(TypeBootstrapReady, "session-1", VariantEvent{Variant: "index-1", Attempt: 2})))
	require.NoError(t, b.Publish(NewEvent(TypeBootstrapFatal, "session-1", nil)))

	require.Len(t, got, 1)
	assert.Equal(t, "session-1", got[0].Source)
	assert.Equal(t, "index-1", got[0].Data.(VariantEvent).Variant)
	assert.False(t, got[0].Timestamp.IsZero())
}

func TestPublishJoinsHandlerErrors(t *testing.T) {
	b := New()
	errA := errors.New("a")
	errB := errors.New("b")
	_, _ = b.Subscribe("x", func(Event) error { return errA })
	_, _ = b.Subscribe("x", func(Event) error { return errB })

	err := b.Publish(NewEvent("x", "src", nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
}

func TestCancelStopsDelivery(t *testing.T) {
	b := New()
	count := 0
	sub, err := b.Subscribe("x", func(Event) error { count++; return nil })
	require.NoError(t, err)

	_ = b.Publish(NewEvent("x", "src", nil))
	require.NoError(t, b.Unsubscribe(sub))
	require.NoError(t, sub.Cancel(), "second cancel is a no-op")
	_ = b.Publish(NewEvent("x", "src", nil))

	assert.Equal(t, 1, count)
	assert.False(t, sub.IsActive())
	assert.NoError(t, b.Unsubscribe(nil))
}

func TestSubscribeRejectsNilHandler(t *testing.T) {
	_, err := New().Subscribe("x", nil)
	assert.ErrorIs(t, err, ErrNilHandler)
}

func TestMetricsOnlyWithObserver(t *testing.T) {
	b := New()
	_, _ = b.Subscribe("x", func(Event) error { return nil })

	_ = b.Publish(NewEvent("x", "src", nil))
	assert.Equal(t, uint64(0), b.GetMetrics().Published)

	obs := &testObserver{}
	b.AddObserver(obs)
	_ = b.Publish(NewEvent("x", "src", nil))
	_ = b.Publish(NewEvent("y", "src", nil))

	m := b.GetMetrics()
	assert.Equal(t, uint64(2), m.Published)
	assert.Equal(t, uint64(1), m.DeliveredHandlers)
	assert.Equal(t, uint64(1), m.SubscribersActive)
	assert.Equal(t, 1, obs.delivered)

	b.RemoveObserver(obs)
	_ = b.Publish(NewEvent("x", "src", nil))
	assert.Equal(t, uint64(2), b.GetMetrics().Published)
}
