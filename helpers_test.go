package motion

// fakeEngine records every Start and leaves completion to the test.
type fakeEngine struct {
	starts []*fakeHandle
}

type fakeHandle struct {
	target     Target
	frames     *KeyframeSet
	transition *Transition
	finished   *Signal
	stopped    bool
}

func (e *fakeEngine) Start(target Target, frames *KeyframeSet, transition *Transition) Handle {
	h := &fakeHandle{target: target, frames: frames, transition: transition, finished: NewSignal()}
	e.starts = append(e.starts, h)
	return h
}

// last returns the most recently started handle, or nil.
func (e *fakeEngine) last() *fakeHandle {
	if len(e.starts) == 0 {
		return nil
	}
	return e.starts[len(e.starts)-1]
}

// finishAll completes every handle started so far, including ones started
// by continuations of earlier completions.
func (e *fakeEngine) finishAll() {
	for i := 0; i < len(e.starts); i++ {
		e.starts[i].finished.Resolve()
	}
}

func (h *fakeHandle) Finished() *Signal { return h.finished }

func (h *fakeHandle) Stop() {
	h.stopped = true
	h.finished.Resolve()
}

// recorder is an EventSink that keeps every event.
type recorder struct {
	events []Event
}

func (r *recorder) EmitEvent(ev Event) { r.events = append(r.events, ev) }

func (r *recorder) types() []EventType {
	out := make([]EventType, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

func set(values Keyframes) *KeyframeSet {
	return NewKeyframeSet(values, nil)
}
