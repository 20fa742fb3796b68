// Package eventbus provides the in-process publish/subscribe fabric that
// connects the status watcher to its consumers: history recorders, metrics
// collectors and the MQTT mirror.
package eventbus

// subscriberBuffer is the channel depth given to every subscriber. A
// subscriber that falls this many events behind starts losing events
// rather than stalling the publisher.
const subscriberBuffer = 8

// Event represents an arbitrary event passed on the bus.
type Event interface{}

// EventBus implements a simple publish/subscribe event bus.
type EventBus interface {
	Publish(Event)
	Subscribe() <-chan Event
	Unsubscribe(<-chan Event)
	Close()
}

// Bus is the default EventBus implementation. It carries mixed event types,
// subscribers type-switch on the ones they consume. Delivery never blocks, a
// subscriber with a full buffer misses the event, so the poll loop keeps its
// cadence no matter how slow a recorder or mirror is.
type Bus struct {
	inner TypedBus[Event]
}

// New creates a new Bus.
func New() *Bus { return &Bus{} }

// Publish sends the event to all subscribers.
func (b *Bus) Publish(e Event) { b.inner.Publish(e) }

// Subscribe registers a new subscriber and returns its channel. The channel
// is closed when the bus closes or the subscriber unsubscribes.
func (b *Bus) Subscribe() <-chan Event { return b.inner.Subscribe() }

// Unsubscribe removes the subscriber and closes its channel.
func (b *Bus) Unsubscribe(sub <-chan Event) { b.inner.Unsubscribe(sub) }

// Close closes all subscriber channels. Publish and Subscribe become no-ops
// afterwards.
func (b *Bus) Close() { b.inner.Close() }
