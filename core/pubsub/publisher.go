// Package pubsub is the abstract event channel boundary. The dispatch core
// publishes through it; concrete transports (in-process bus, MQTT) live in
// their own packages.
package pubsub

import "github.com/openhail/dispatchd/core/events"

// Publisher pushes an event to a single target. Delivery is fire-and-forget:
// implementations must not block on slow or unreachable subscribers, and a
// returned error never fails the transaction that triggered the publish.
type Publisher interface {
	Publish(target events.Target, event any) error
}

// Subscriber receives events addressed to a target. Broadcast targets are
// delivered to every subscriber of the broadcast channel.
type Subscriber interface {
	Subscribe(target events.Target) (<-chan any, error)
	Unsubscribe(target events.Target, ch <-chan any)
}
