package certmint

// CheckResult captures any non-error check outcome to make sure people
// use error for error cases.
type CheckResult struct {
	// GasAllocated is the maximum units of work we allow this tx to
	// perform.
	GasAllocated int64
}

// DeliverResult captures the result of a successful delivery.
type DeliverResult struct {
	// Data is a machine-parseable return value, like the id of a newly
	// created entity.
	Data []byte

	// Log is a human readable success message.
	Log string

	// Events are emitted for every successful state transition and
	// carry entity keys and resulting amounts for off-chain indexing.
	Events []Event
}

// Event is one structured notification emitted by a handler.
type Event struct {
	Type       string
	Attributes []EventAttribute
}

// EventAttribute is a single key-value entry of an event.
type EventAttribute struct {
	Key   string
	Value string
}

// NewEvent builds an event from a type and a flat list of key-value
// pairs. An odd number of pairs means the last key carries an empty
// value.
func NewEvent(typ string, pairs ...string) Event {
	ev := Event{Type: typ}
	for i := 0; i < len(pairs); i += 2 {
		attr := EventAttribute{Key: pairs[i]}
		if i+1 < len(pairs) {
			attr.Value = pairs[i+1]
		}
		ev.Attributes = append(ev.Attributes, attr)
	}
	return ev
}
