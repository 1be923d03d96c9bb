package events

// Target is a typed event channel address. Constructors below are the only
// way to build one, which keeps raw string concatenation out of call sites
// and rules out collisions between user and driver namespaces.
type Target struct {
	kind string
	id   string
}

const (
	kindBroadcast = "drivers"
	kindUser      = "user"
	kindDriver    = "driver"
)

// AllDrivers addresses every connected driver.
func AllDrivers() Target { return Target{kind: kindBroadcast} }

// User addresses a single user's channel.
func User(id string) Target { return Target{kind: kindUser, id: id} }

// Driver addresses a single driver's channel.
func Driver(id string) Target { return Target{kind: kindDriver, id: id} }

// Broadcast reports whether the target addresses the whole driver pool.
func (t Target) Broadcast() bool { return t.kind == kindBroadcast }

// ID returns the addressed party identifier, empty for broadcasts.
func (t Target) ID() string { return t.id }

// String renders the target as a stable channel key.
func (t Target) String() string {
	if t.id == "" {
		return t.kind
	}
	return t.kind + "/" + t.id
}
