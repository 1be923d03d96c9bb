// Package eventbus provides the in-process event channel implementation:
// an addressed publish/subscribe bus with per-target fan-out channels.
package eventbus

import (
	"sync"

	"github.com/openhail/dispatchd/core/events"
	"github.com/openhail/dispatchd/core/pubsub"
)

// Bus routes events to subscribers by target key. Delivery is non-blocking:
// a subscriber whose buffer is full misses the event rather than stalling
// the publisher.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string][]chan any
	closed bool
}

// New creates a new Bus.
func New() *Bus { return &Bus{subs: make(map[string][]chan any)} }

// Publish sends the event to every subscriber of the target. Publishing to
// a target nobody subscribed to is a no-op.
func (b *Bus) Publish(target events.Target, event any) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return pubsub.ErrClosed
	}
	for _, ch := range b.subs[target.String()] {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

// Subscribe registers a new subscriber for the target and returns its channel.
func (b *Bus) Subscribe(target events.Target) (<-chan any, error) {
	ch := make(chan any, 8)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch, pubsub.ErrClosed
	}
	key := target.String()
	b.subs[key] = append(b.subs[key], ch)
	return ch, nil
}

// Unsubscribe removes the subscriber and closes its channel.
func (b *Bus) Unsubscribe(target events.Target, sub <-chan any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := target.String()
	for i, ch := range b.subs[key] {
		if ch == sub {
			b.subs[key] = append(b.subs[key][:i], b.subs[key][i+1:]...)
			if !b.closed {
				close(ch)
			}
			return
		}
	}
}

// Close closes all subscriber channels and clears the registry.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for _, chans := range b.subs {
		for _, ch := range chans {
			close(ch)
		}
	}
	b.subs = nil
	b.mu.Unlock()
}
