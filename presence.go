package motion

import (
	"slices"

	"github.com/rs/zerolog"
)

// Policy selects how a Group sequences entering and exiting children.
type Policy uint8

const (
	// PolicyConcurrent shows entering children immediately while removed
	// children play their exit.
	PolicyConcurrent Policy = iota
	// PolicyExitBeforeEnter withholds entering children until every exit in
	// flight has finished.
	PolicyExitBeforeEnter
)

func (p Policy) String() string {
	if p == PolicyExitBeforeEnter {
		return "exit-before-enter"
	}
	return "concurrent"
}

// Kind discriminates the children passed to Group.Update.
type Kind uint8

const (
	KindGap        Kind = iota // placeholder for a conditionally omitted child
	KindAnimatable             // keyed animatable child
)

// Child describes one requested child. Construct with Animatable or Gap.
type Child struct {
	Kind  Kind
	Key   string
	Props Props
	Data  any
}

// Animatable returns a keyed animatable child.
func Animatable(key string, props Props) Child {
	return Child{Kind: KindAnimatable, Key: key, Props: props}
}

// Gap returns a placeholder that holds a position without rendering anything.
func Gap() Child {
	return Child{Kind: KindGap}
}

// WithData returns a copy of c carrying renderer payload d.
func (c Child) WithData(d any) Child {
	c.Data = d
	return c
}

// Rendered is one element of a Group's output. The renderer binds Entity to
// its target when it commits the element.
type Rendered struct {
	Key     string
	Entity  *Entity
	Data    any
	Exiting bool
}

// GroupOptions configures a Group.
type GroupOptions struct {
	// ID names the group in its Coordination and in lifecycle events.
	ID     string
	Policy Policy
	// Initial set to false suppresses the initial animation of the children
	// present on the first Update.
	Initial      *bool
	Coordination *Coordination
	// OnExitEnd runs when the group's last in-flight exit finishes.
	OnExitEnd func()
	// OnRerender is the forced re-evaluation hook: the renderer should call
	// Refresh (or Update) on its next pass. It is never called while Update
	// is running.
	OnRerender func()
	// Logger defaults to a no-op logger.
	Logger *zerolog.Logger
	Sink   EventSink
}

// Group reconciles successive renders of a keyed set of children. It keeps
// the ordering it last emitted as the previous set, requests exits for
// removed keys, and decides where exiting and entering children appear.
type Group struct {
	opts   GroupOptions
	engine Engine
	log    zerolog.Logger

	previous  []*Entity
	entities  map[string]*Entity
	exiting   map[string]*Entity
	data      map[string]any
	requested []Child

	initialized      bool
	updating         bool
	needsRefresh     bool
	rerenderDeferred bool
	closed           bool
}

// NewGroup creates a group whose entities animate through engine.
func NewGroup(engine Engine, opts GroupOptions) *Group {
	base := zerolog.Nop()
	if opts.Logger != nil {
		base = *opts.Logger
	}
	g := &Group{
		opts:     opts,
		engine:   engine,
		log:      base.With().Str("group", opts.ID).Logger(),
		entities: make(map[string]*Entity),
		exiting:  make(map[string]*Entity),
		data:     make(map[string]any),
	}
	if opts.Coordination != nil && opts.ID != "" {
		opts.Coordination.Register(opts.ID)
	}
	return g
}

// ID returns the group's identifier.
func (g *Group) ID() string { return g.opts.ID }

// Policy returns the group's sequencing policy.
func (g *Group) Policy() Policy { return g.opts.Policy }

// Update diffs next against the previous set and returns what to render.
// Removed children are asked to exit and stay in the output until their exit
// finishes. The emitted ordering becomes the new previous set.
func (g *Group) Update(next []Child) []Rendered {
	if g.closed {
		return nil
	}
	g.updating = true
	g.needsRefresh = false
	items := g.normalize(next)
	g.requested = items

	var order, exiting []*Entity
	if !g.initialized {
		g.initialized = true
		suppress := g.opts.Initial != nil && !*g.opts.Initial
		for _, c := range items {
			if c.Kind == KindGap {
				continue
			}
			props := c.Props
			if suppress {
				props.SkipInitial = true
			}
			order = append(order, g.newEntity(c.Key, props))
			g.data[c.Key] = c.Data
		}
	} else {
		order, exiting = g.diff(items)
	}

	g.setPrevious(order)
	for _, e := range g.beginExits(exiting) {
		g.requestExit(e)
	}
	if globalDebug {
		debugCheckExiting(g)
	}

	out := make([]Rendered, len(order))
	for i, e := range order {
		out[i] = Rendered{Key: e.key, Entity: e, Data: g.data[e.key], Exiting: e.exit != nil}
	}

	g.updating = false
	if g.rerenderDeferred {
		g.rerenderDeferred = false
		if g.opts.OnRerender != nil {
			g.opts.OnRerender()
		}
	}
	return out
}

// Refresh re-runs Update with the most recently requested children. It is
// the forced re-evaluation a renderer performs after OnRerender.
func (g *Group) Refresh() []Rendered {
	return g.Update(g.requested)
}

// NeedsRefresh reports whether a forced re-evaluation was requested since
// the last Update.
func (g *Group) NeedsRefresh() bool {
	return g.needsRefresh
}

// Previous returns the keys of the remembered previous set, in order.
func (g *Group) Previous() []string {
	keys := make([]string, len(g.previous))
	for i, e := range g.previous {
		keys[i] = e.key
	}
	return keys
}

// Exiting returns the keys with exits in flight, in previous-set order.
func (g *Group) Exiting() []string {
	var keys []string
	for _, e := range g.previous {
		if g.exiting[e.key] == e {
			keys = append(keys, e.key)
		}
	}
	return keys
}

// Entity returns the live entity for key.
func (g *Group) Entity(key string) (*Entity, bool) {
	e, ok := g.entities[key]
	return e, ok
}

// ExitInSequence exits every entity of the previous set one after another,
// in order, and returns a signal that resolves after the last exit. The group
// behaves as if it had been rendered with no children: nothing is revived.
// The whole sequence counts as a single group exit.
func (g *Group) ExitInSequence() *Signal {
	g.requested = nil
	batch := slices.Clone(g.previous)
	g.beginExits(batch)
	steps := make([]func() *Signal, 0, len(batch))
	for _, e := range batch {
		steps = append(steps, func() *Signal {
			if e.exit != nil {
				return e.exit
			}
			return g.requestExit(e)
		})
	}
	return InSequence(steps...)
}

// Close tears the group down. Exits still in flight finish on their
// entities but no longer affect the group.
func (g *Group) Close() {
	if g.closed {
		return
	}
	g.closed = true
	if len(g.exiting) > 0 && g.opts.Coordination != nil && g.opts.ID != "" {
		g.opts.Coordination.MarkDone(g.opts.ID)
	}
	g.previous = nil
	g.requested = nil
	clear(g.entities)
	clear(g.exiting)
	clear(g.data)
}

// diff computes the ordering to emit for items and the entities that must
// exit.
func (g *Group) diff(items []Child) (order, exiting []*Entity) {
	lookup := make(map[string]Child, len(items))
	for _, c := range items {
		if c.Kind == KindAnimatable {
			lookup[c.Key] = c
		}
	}

	prevKeys := make(map[string]bool, len(g.previous))
	for _, e := range g.previous {
		prevKeys[e.key] = true
		if c, ok := lookup[e.key]; ok {
			e.SetProps(c.Props)
			g.data[e.key] = c.Data
			continue
		}
		exiting = append(exiting, e)
	}

	if g.opts.Policy == PolicyExitBeforeEnter && len(exiting) > 0 {
		// Entering children wait for a later update.
		return append(order, g.previous...), exiting
	}

	queue := exiting
	for _, c := range items {
		if c.Kind == KindGap {
			if g.opts.Policy == PolicyConcurrent && len(queue) > 0 {
				order = append(order, queue[0])
				queue = queue[1:]
			}
			continue
		}
		if prevKeys[c.Key] {
			order = append(order, g.entities[c.Key])
			continue
		}
		g.data[c.Key] = c.Data
		order = append(order, g.newEntity(c.Key, c.Props))
	}
	return append(order, queue...), exiting
}

func (g *Group) normalize(next []Child) []Child {
	items := make([]Child, 0, len(next))
	seen := make(map[string]bool, len(next))
	for _, c := range next {
		if c.Kind != KindAnimatable {
			items = append(items, Gap())
			continue
		}
		if c.Key == "" {
			if globalDebug {
				g.log.Warn().Msg("animatable child without key treated as a gap")
			}
			items = append(items, Gap())
			continue
		}
		if seen[c.Key] {
			g.log.Warn().Str("key", c.Key).Msg("duplicate key, keeping first occurrence")
			continue
		}
		seen[c.Key] = true
		if err := c.Props.Validate(); err != nil {
			g.log.Error().Err(err).Str("key", c.Key).Msg("invalid keyframes dropped")
			c.Props = stripInvalid(c.Props)
		}
		items = append(items, c)
	}
	return items
}

func (g *Group) setPrevious(order []*Entity) {
	g.previous = order
	clear(g.entities)
	for _, e := range order {
		g.entities[e.key] = e
	}
}

func (g *Group) newEntity(key string, props Props) *Entity {
	return NewEntity(key, g.engine, props,
		WithLogger(g.log),
		WithSink(g.opts.Sink),
		withGroupID(g.opts.ID),
	)
}

// beginExits registers every entity of batch that is not already exiting
// and returns them. The whole batch is registered before any exit is
// requested, so an exit that completes at once cannot end the group's exit
// while its batch-mates are still pending.
func (g *Group) beginExits(batch []*Entity) []*Entity {
	var fresh []*Entity
	for _, e := range batch {
		if e.exit == nil && g.exiting[e.key] != e {
			fresh = append(fresh, e)
		}
	}
	if len(fresh) == 0 {
		return nil
	}
	if len(g.exiting) == 0 {
		if g.opts.Coordination != nil && g.opts.ID != "" {
			g.opts.Coordination.MarkExiting(g.opts.ID)
		}
		g.emit(EventGroupExitStart)
	}
	for _, e := range fresh {
		g.exiting[e.key] = e
	}
	return fresh
}

// requestExit asks a registered entity to exit.
func (g *Group) requestExit(e *Entity) *Signal {
	g.log.Debug().Str("key", e.key).Msg("exit requested")
	done := e.RequestExit()
	done.Then(func() { g.exitDone(e) })
	return done
}

// exitDone drops e from the previous set, or replaces it with a fresh entity
// when its key was requested again while it was exiting. When it was the
// last exit in flight the group reports completion and asks for a forced
// re-evaluation.
func (g *Group) exitDone(e *Entity) {
	if g.closed {
		return
	}
	if g.exiting[e.key] == e {
		delete(g.exiting, e.key)
	}

	revived := false
	for _, c := range g.requested {
		if c.Kind == KindAnimatable && c.Key == e.key {
			g.replacePrevious(e, g.newEntity(c.Key, c.Props))
			revived = true
			break
		}
	}
	if !revived {
		g.removePrevious(e)
	}
	g.log.Debug().Str("key", e.key).Bool("revived", revived).Msg("exit finished")

	if len(g.exiting) > 0 {
		return
	}
	if g.opts.Coordination != nil && g.opts.ID != "" {
		g.opts.Coordination.MarkDone(g.opts.ID)
	}
	g.emit(EventGroupExitEnd)
	if g.opts.OnExitEnd != nil {
		g.opts.OnExitEnd()
	}
	g.requestRerender()
}

func (g *Group) removePrevious(e *Entity) {
	for i, p := range g.previous {
		if p == e {
			g.previous = append(g.previous[:i:i], g.previous[i+1:]...)
			break
		}
	}
	if g.entities[e.key] == e {
		delete(g.entities, e.key)
		delete(g.data, e.key)
	}
}

func (g *Group) replacePrevious(old, fresh *Entity) {
	for i, p := range g.previous {
		if p == old {
			g.previous[i] = fresh
			g.entities[fresh.key] = fresh
			return
		}
	}
}

func (g *Group) requestRerender() {
	g.needsRefresh = true
	g.emit(EventRerender)
	if g.updating {
		g.rerenderDeferred = true
		return
	}
	if g.opts.OnRerender != nil {
		g.opts.OnRerender()
	}
}

func (g *Group) emit(t EventType) {
	if g.opts.Sink == nil {
		return
	}
	g.opts.Sink.EmitEvent(Event{Type: t, GroupID: g.opts.ID})
}

// stripInvalid drops every keyframe set of p that fails validation.
func stripInvalid(p Props) Props {
	for _, set := range []**KeyframeSet{&p.Initial, &p.Animate, &p.Hover, &p.Press, &p.Exit} {
		if Validate(*set) != nil {
			*set = nil
		}
	}
	return p
}
