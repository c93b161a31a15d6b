package motion

import "sort"

// Coordination lets groups report, by identifier, whether they are
// currently exiting children, so an ancestor or sibling can observe or
// await them without reaching into a group. Create one per subtree root and
// Close it when the subtree is torn down. Identifiers are independent of one
// another.
type Coordination struct {
	states  map[string]bool
	waiters []coordinationWaiter
	closed  bool
}

type coordinationWaiter struct {
	ids    []string
	signal *Signal
}

// NewCoordination creates an empty coordination context.
func NewCoordination() *Coordination {
	return &Coordination{states: make(map[string]bool)}
}

// Register makes id known with a not-exiting state. Registering an id that
// is already known leaves its state unchanged.
func (c *Coordination) Register(id string) {
	if c.closed {
		return
	}
	if _, ok := c.states[id]; !ok {
		c.states[id] = false
	}
}

// MarkExiting records that id's group has exits in flight.
func (c *Coordination) MarkExiting(id string) {
	if c.closed {
		return
	}
	c.states[id] = true
}

// MarkDone records that id's group has no exits in flight and releases any
// Wait that no longer has an exiting id.
func (c *Coordination) MarkDone(id string) {
	if c.closed {
		return
	}
	c.states[id] = false
	c.release()
}

// State reports whether id is exiting. known is false for an id that was
// never registered or marked.
func (c *Coordination) State(id string) (exiting, known bool) {
	exiting, known = c.states[id]
	return exiting, known
}

// AnyExiting reports whether any known id is exiting.
func (c *Coordination) AnyExiting() bool {
	for _, exiting := range c.states {
		if exiting {
			return true
		}
	}
	return false
}

// ExitingIDs returns the exiting ids in sorted order.
func (c *Coordination) ExitingIDs() []string {
	var ids []string
	for id, exiting := range c.states {
		if exiting {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Wait returns a signal that resolves once none of ids is exiting. With no
// ids it waits for every id. Unknown ids count as not exiting.
func (c *Coordination) Wait(ids ...string) *Signal {
	s := NewSignal()
	if !c.exiting(ids) {
		s.Resolve()
		return s
	}
	c.waiters = append(c.waiters, coordinationWaiter{ids: ids, signal: s})
	return s
}

// Close resolves every pending Wait and forgets all ids.
func (c *Coordination) Close() {
	if c.closed {
		return
	}
	c.closed = true
	waiters := c.waiters
	c.waiters = nil
	clear(c.states)
	for _, w := range waiters {
		w.signal.Resolve()
	}
}

func (c *Coordination) exiting(ids []string) bool {
	if len(ids) == 0 {
		return c.AnyExiting()
	}
	for _, id := range ids {
		if c.states[id] {
			return true
		}
	}
	return false
}

func (c *Coordination) release() {
	var ready []*Signal
	pending := c.waiters[:0]
	for _, w := range c.waiters {
		if c.exiting(w.ids) {
			pending = append(pending, w)
			continue
		}
		ready = append(ready, w.signal)
	}
	for i := len(pending); i < len(c.waiters); i++ {
		c.waiters[i] = coordinationWaiter{}
	}
	c.waiters = pending
	for _, s := range ready {
		s.Resolve()
	}
}
