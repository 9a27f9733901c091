package shared

// Event is a structured occurrence the engine reports for observability:
// a repricing tick, a committed trade, a rejected operation. Sinks decide
// how to surface it (metrics, structured logs); the engine stays unaware
// of what consumes it.
type Event struct {
	Name   string
	Fields map[string]interface{}
}

// NewEvent builds an Event from a name and its field map, defaulting a nil
// map to empty so callers never need a nil check.
func NewEvent(name string, fields map[string]interface{}) Event {
	if fields == nil {
		fields = map[string]interface{}{}
	}
	return Event{Name: name, Fields: fields}
}

// EventSink receives structured events emitted by the engine. The engine
// emits events and stays unaware of what consumes them; implementations
// live in internal/adapters/metrics, and domain and application code
// depend only on this interface.
type EventSink interface {
	Emit(Event)
}

// NoopEventSink discards every event. Used where no sink is configured.
type NoopEventSink struct{}

// Emit implements EventSink by doing nothing.
func (NoopEventSink) Emit(Event) {}
