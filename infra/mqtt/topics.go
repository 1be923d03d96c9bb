package mqtt

import "github.com/openhail/dispatchd/core/events"

// topic maps a typed channel target onto the broker topic tree. The prefix
// isolates deployments sharing a broker.
func topic(prefix string, t events.Target) string {
	return prefix + "/" + t.String()
}
