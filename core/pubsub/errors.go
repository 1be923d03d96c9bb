package pubsub

import "errors"

// ErrClosed is returned when publishing on a closed channel implementation.
var ErrClosed = errors.New("pubsub: channel closed")
