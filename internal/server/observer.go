package server

import (
	"time"

	"github.com/zeusync/vecview/internal/core/observability/log"
)

// Handlers run on the session goroutine, so a slow one stalls input.
const slowDelivery = 5 * time.Millisecond

// deliveryObserver keeps the bus metrics live and reports failing or slow
// lifecycle handlers.
type deliveryObserver struct {
	logger log.Log
	slow   time.Duration
}

func (o *deliveryObserver) OnDelivered(eventType string, handlers int, err error, durationMicros int64) {
	if err != nil {
		o.logger.Warn("Lifecycle handler failed",
			log.String("event", eventType),
			log.Int("handlers", handlers),
			log.Error(err))
		return
	}
	if d := time.Duration(durationMicros) * time.Microsecond; d > o.slow {
		o.logger.Warn("Slow lifecycle delivery",
			log.String("event", eventType),
			log.Int("handlers", handlers),
			log.Duration("duration", d))
	}
}
