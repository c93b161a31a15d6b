package motion

// Signal is a one-shot completion signal. Continuations registered with Then
// run, in registration order, when the signal resolves; a continuation added
// after resolution runs immediately.
//
// Like the rest of the package, Signal is single-threaded: resolve it and
// register continuations from the goroutine that drives the frame loop.
type Signal struct {
	resolved bool
	waiters  []func()
}

// NewSignal returns an unresolved signal.
func NewSignal() *Signal {
	return &Signal{}
}

// ResolvedSignal returns a signal that has already resolved.
func ResolvedSignal() *Signal {
	return &Signal{resolved: true}
}

// Resolve marks the signal as resolved and runs pending continuations.
// Subsequent calls are no-ops.
func (s *Signal) Resolve() {
	if s.resolved {
		return
	}
	s.resolved = true
	waiters := s.waiters
	s.waiters = nil
	for _, fn := range waiters {
		fn()
	}
}

// Resolved reports whether the signal has resolved.
func (s *Signal) Resolved() bool {
	return s.resolved
}

// Then registers fn to run once the signal resolves.
func (s *Signal) Then(fn func()) {
	if s.resolved {
		fn()
		return
	}
	s.waiters = append(s.waiters, fn)
}

// All returns a signal that resolves once every given signal has resolved.
// With no arguments it is already resolved.
func All(signals ...*Signal) *Signal {
	out := NewSignal()
	remaining := len(signals)
	if remaining == 0 {
		out.Resolve()
		return out
	}
	for _, s := range signals {
		s.Then(func() {
			remaining--
			if remaining == 0 {
				out.Resolve()
			}
		})
	}
	return out
}

// InSequence runs each step only after the signal returned by the previous step
// has resolved, and returns a signal that resolves after the last one. A step
// returning nil counts as already resolved.
func InSequence(steps ...func() *Signal) *Signal {
	out := NewSignal()
	var run func(i int)
	run = func(i int) {
		if i == len(steps) {
			out.Resolve()
			return
		}
		s := steps[i]()
		if s == nil {
			run(i + 1)
			return
		}
		s.Then(func() { run(i + 1) })
	}
	run(0)
	return out
}
