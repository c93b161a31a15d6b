package motion

// EventType identifies a lifecycle event.
type EventType uint8

const (
	EventAnimationStart EventType = iota // an entity started an animation run
	EventAnimationEnd                    // an entity's animation run finished or was stopped
	EventExitStart                       // an entity was asked to exit
	EventExitEnd                         // an entity finished exiting
	EventGroupExitStart                  // a group went from no exits in flight to at least one
	EventGroupExitEnd                    // a group's last in-flight exit finished
	EventRerender                        // a group requested a forced re-evaluation
)

var eventTypeNames = [...]string{
	EventAnimationStart: "animation_start",
	EventAnimationEnd:   "animation_end",
	EventExitStart:      "exit_start",
	EventExitEnd:        "exit_end",
	EventGroupExitStart: "group_exit_start",
	EventGroupExitEnd:   "group_exit_end",
	EventRerender:       "rerender",
}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return "unknown"
}

// Event carries lifecycle data to an EventSink. Handle is set for animation
// events only.
type Event struct {
	Type    EventType
	GroupID string
	Key     string
	Handle  Handle
}

// EventSink receives lifecycle events from entities and groups.
type EventSink interface {
	EmitEvent(event Event)
}

// SinkFunc adapts a function to EventSink.
type SinkFunc func(Event)

// EmitEvent calls f(event).
func (f SinkFunc) EmitEvent(event Event) { f(event) }

type multiSink []EventSink

func (m multiSink) EmitEvent(event Event) {
	for _, s := range m {
		s.EmitEvent(event)
	}
}

// Sinks fans events out to every non-nil sink, in order. It returns nil when
// no sink is given.
func Sinks(sinks ...EventSink) EventSink {
	out := make(multiSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	}
	return out
}
