package bus

import "time"

// Lifecycle event types.
const (
	TypeBootstrapAttempt = "bootstrap.attempt"
	TypeVariantFailed    = "bootstrap.variant_failed"
	TypeBootstrapReady   = "bootstrap.ready"
	TypeBootstrapFatal   = "bootstrap.fatal"
	TypeImageInstalled   = "viewer.image_installed"
)

// EventBus is an in-process pub/sub bus for viewer lifecycle notifications.
//
// Delivery is synchronous in the publisher's goroutine. Handler errors are
// joined and returned from Publish. All methods are safe for concurrent use,
// since several sessions share one bus.
type EventBus interface {
	// Publish delivers event to every active subscriber of event.Type.
	Publish(event Event) error
	// Subscribe registers handler for eventType.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels sub. Nil is ignored.
	Unsubscribe(sub Subscription) error

	AddObserver(obs Observer)
	RemoveObserver(obs Observer)
	// GetMetrics returns counters; they only move while an observer is registered.
	GetMetrics() Metrics
}

// Event is an immutable notification.
type Event struct {
	Type      string
	Source    string
	Timestamp time.Time
	Data      any
}

// NewEvent stamps an event with the current time.
func NewEvent(typ, source string, data any) Event {
	return Event{Type: typ, Source: source, Timestamp: time.Now(), Data: data}
}

type EventHandler func(event Event) error

// Subscription is a registered handler. Cancel is idempotent.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	Cancel() error
}

// Observer is told about every publish; implementations must return quickly.
type Observer interface {
	OnDelivered(eventType string, handlers int, err error, durationMicros int64)
}

type Metrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	SubscribersActive uint64
}

// VariantEvent is the payload of bootstrap events.
type VariantEvent struct {
	Variant string
	Attempt int
	Err     error
}

// ImageEvent is the payload of TypeImageInstalled.
type ImageEvent struct {
	Name string
	Size int
	Hash uint64
}
