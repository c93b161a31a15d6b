package motion

import (
	"fmt"

	"github.com/rs/zerolog"
)

// EntityState is the lifecycle state of an Entity.
type EntityState uint8

const (
	StateUnbound   EntityState = iota // no render target bound
	StateBound                        // target bound, nothing running
	StateAnimating                    // an animation run is in flight
	StateExited                       // exit finished; terminal
)

func (s EntityState) String() string {
	switch s {
	case StateUnbound:
		return "unbound"
	case StateBound:
		return "bound"
	case StateAnimating:
		return "animating"
	case StateExited:
		return "exited"
	}
	return "unknown"
}

// Trigger selects the keyframe set used by a momentary animation.
type Trigger uint8

const (
	TriggerHover Trigger = iota
	TriggerPress
)

// Phase selects the direction of a momentary animation: PhaseStart plays
// towards the trigger's keyframes, PhaseEnd plays back to the steady state.
type Phase uint8

const (
	PhaseStart Phase = iota
	PhaseEnd
)

// Props are the declarative inputs of an Entity.
type Props struct {
	// Initial is the state an entity animates from on its first bind. When
	// InitialFromAnimate is set instead, Animate itself is played on first
	// bind. SkipInitial suppresses both.
	Initial            *KeyframeSet
	InitialFromAnimate bool
	SkipInitial        bool

	Animate *KeyframeSet // steady state
	Hover   *KeyframeSet
	Press   *KeyframeSet
	Exit    *KeyframeSet

	// Transition is the default for sets that carry none.
	Transition *Transition

	// Optional deferred playback of the initial animation. Passed through to
	// engines implementing VisibilityRunner or ScrollDriver. The two are
	// exclusive: when both are set the initial animation is not played.
	InView *InViewOptions
	Scroll *ScrollOptions

	OnAnimationStart func(Handle)
	OnAnimationEnd   func(Handle)
	OnHoverStart     func()
	OnHoverEnd       func()
	OnPressStart     func()
	OnPressEnd       func()
}

// Validate checks every keyframe set in p.
func (p Props) Validate() error {
	sets := []struct {
		name string
		set  *KeyframeSet
	}{
		{"initial", p.Initial},
		{"animate", p.Animate},
		{"hover", p.Hover},
		{"press", p.Press},
		{"exit", p.Exit},
	}
	for _, s := range sets {
		if err := Validate(s.set); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

// EntityOption configures an Entity.
type EntityOption func(*Entity)

// WithLogger sets the logger used for scheduling diagnostics.
func WithLogger(l zerolog.Logger) EntityOption {
	return func(e *Entity) { e.log = l }
}

// WithSink sets the sink receiving the entity's lifecycle events.
func WithSink(s EventSink) EntityOption {
	return func(e *Entity) { e.sink = s }
}

func withGroupID(id string) EntityOption {
	return func(e *Entity) { e.groupID = id }
}

// Entity is one animatable element. It serializes every animation on its
// target: a new request always waits for the previous one to finish
// (single-flight), whether it comes from a prop change, a pointer trigger, or
// an exit.
type Entity struct {
	key    string
	props  Props
	engine Engine
	target Target
	state  EntityState

	// pending resolves when the most recently scheduled request is done.
	pending *Signal
	current Handle

	bound       bool
	lastAnimate *KeyframeSet
	exit        *Signal

	groupID string
	sink    EventSink
	log     zerolog.Logger
}

// NewEntity creates an unbound entity.
func NewEntity(key string, engine Engine, props Props, opts ...EntityOption) *Entity {
	e := &Entity{
		key:     key,
		props:   props,
		engine:  engine,
		pending: ResolvedSignal(),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Key returns the entity's key.
func (e *Entity) Key() string { return e.key }

// Props returns the entity's current inputs.
func (e *Entity) Props() Props { return e.props }

// Target returns the bound target, or nil.
func (e *Entity) Target() Target { return e.target }

// State returns the lifecycle state.
func (e *Entity) State() EntityState { return e.state }

// Exiting reports whether an exit has been requested and has not finished.
func (e *Entity) Exiting() bool {
	return e.exit != nil && !e.exit.Resolved()
}

// Idle reports whether no request is running or queued.
func (e *Entity) Idle() bool {
	return e.pending.Resolved()
}

// SetProps replaces the entity's inputs. A changed Animate set is played on
// the next Bind, which the renderer calls when it commits.
func (e *Entity) SetProps(p Props) {
	if e.state == StateExited {
		return
	}
	e.props = p
}

// Bind attaches target. On the first bind it plays the initial animation;
// on later binds it plays the transition from the previously bound steady
// state to the current one, if that changed. A nil target unbinds.
func (e *Entity) Bind(target Target) {
	if target == nil {
		e.Unbind()
		return
	}
	if e.state == StateExited {
		return
	}
	e.target = target
	if e.state == StateUnbound {
		e.state = StateBound
	}

	if !e.bound {
		e.bound = true
		e.lastAnimate = e.props.Animate
		if e.props.Scroll != nil && e.props.InView != nil {
			e.log.Warn().Str("key", e.key).Msg("both scroll and in-view set, initial animation skipped")
			return
		}
		if kf := e.initialKeyframes(); kf != nil {
			e.schedule("initial", kf, e.passThrough)
		}
		return
	}

	if Equal(e.lastAnimate, e.props.Animate) {
		return
	}
	from := e.lastAnimate
	e.lastAnimate = e.props.Animate
	if e.props.Animate == nil {
		return
	}
	e.schedule("animate", KeyframesFromTo(from, e.props.Animate, e.props.Transition), nil)
}

// Unbind releases the target and stops the running animation. Requests that
// start while unbound are skipped.
func (e *Entity) Unbind() {
	e.target = nil
	if e.state != StateExited {
		e.state = StateUnbound
	}
	e.Interrupt()
}

// Interrupt stops the running animation. Its completion signal resolves, so
// the next queued request starts straight away.
func (e *Entity) Interrupt() {
	if e.current != nil {
		e.current.Stop()
	}
}

// TriggerMomentary plays the hover or press keyframes forwards (PhaseStart)
// or back to the steady state (PhaseEnd) once the pending animation is done.
// The returned signal resolves when the triggered run finishes.
func (e *Entity) TriggerMomentary(kind Trigger, phase Phase) *Signal {
	event := e.props.Hover
	if kind == TriggerPress {
		event = e.props.Press
	}
	kf := EventKeyframes(e.props.Animate, event, e.props.Transition, phase == PhaseEnd)
	if kf == nil {
		return ResolvedSignal()
	}
	return e.schedule(momentaryReason(kind, phase), kf, nil)
}

// HoverStart runs OnHoverStart and plays the hover keyframes.
func (e *Entity) HoverStart() {
	if e.props.OnHoverStart != nil {
		e.props.OnHoverStart()
	}
	e.TriggerMomentary(TriggerHover, PhaseStart)
}

// HoverEnd runs OnHoverEnd and plays back from the hover keyframes.
func (e *Entity) HoverEnd() {
	if e.props.OnHoverEnd != nil {
		e.props.OnHoverEnd()
	}
	e.TriggerMomentary(TriggerHover, PhaseEnd)
}

// PressStart runs OnPressStart and plays the press keyframes.
func (e *Entity) PressStart() {
	if e.props.OnPressStart != nil {
		e.props.OnPressStart()
	}
	e.TriggerMomentary(TriggerPress, PhaseStart)
}

// PressEnd runs OnPressEnd and plays back from the press keyframes.
func (e *Entity) PressEnd() {
	if e.props.OnPressEnd != nil {
		e.props.OnPressEnd()
	}
	e.TriggerMomentary(TriggerPress, PhaseEnd)
}

// RequestExit plays the exit keyframes once the pending animation is done
// and returns a signal that resolves when the exit run finishes. Without exit
// keyframes the signal is already resolved. Calling it again returns the
// same signal.
func (e *Entity) RequestExit() *Signal {
	if e.exit != nil {
		return e.exit
	}
	e.exit = NewSignal()
	e.emit(EventExitStart, nil)

	if e.props.Exit == nil {
		e.finishExit()
		return e.exit
	}
	kf := KeyframesFromTo(e.props.Animate, e.props.Exit, e.props.Transition)
	e.schedule("exit", kf, nil).Then(e.finishExit)
	return e.exit
}

func (e *Entity) finishExit() {
	e.state = StateExited
	e.current = nil
	e.emit(EventExitEnd, nil)
	e.exit.Resolve()
}

func (e *Entity) initialKeyframes() *KeyframeSet {
	switch {
	case e.props.SkipInitial:
		return nil
	case e.props.Initial != nil:
		return KeyframesFromTo(e.props.Initial, e.props.Animate, e.props.Transition)
	case e.props.InitialFromAnimate && e.props.Animate != nil:
		return KeyframesFromTo(nil, e.props.Animate, e.props.Transition)
	}
	return nil
}

// schedule queues kf behind the pending request and makes the new request
// the pending one. after, when set, receives the started handle (nil if the
// run was skipped).
func (e *Entity) schedule(reason string, kf *KeyframeSet, after func(Handle)) *Signal {
	prev := e.pending
	slot := NewSignal()
	e.pending = slot
	prev.Then(func() {
		h := e.start(reason, kf)
		if after != nil {
			after(h)
		}
		if h == nil {
			slot.Resolve()
			return
		}
		h.Finished().Then(slot.Resolve)
	})
	return slot
}

func (e *Entity) start(reason string, kf *KeyframeSet) Handle {
	if e.target == nil || e.state == StateExited {
		e.log.Debug().Str("key", e.key).Str("reason", reason).Msg("no target, animation skipped")
		return nil
	}
	t := kf.Transition
	if t == nil {
		t = e.props.Transition
	}
	h := e.engine.Start(e.target, kf, t)
	e.current = h
	e.state = StateAnimating
	e.log.Debug().Str("key", e.key).Str("reason", reason).Int("properties", kf.Len()).Msg("animation started")

	e.emit(EventAnimationStart, h)
	if e.props.OnAnimationStart != nil {
		e.props.OnAnimationStart(h)
	}
	h.Finished().Then(func() {
		if e.current == h {
			e.current = nil
			if e.state == StateAnimating {
				e.state = StateBound
			}
		}
		e.emit(EventAnimationEnd, h)
		if e.props.OnAnimationEnd != nil {
			e.props.OnAnimationEnd(h)
		}
	})
	return h
}

func (e *Entity) passThrough(h Handle) {
	if h == nil {
		return
	}
	switch {
	case e.props.Scroll != nil:
		if d, ok := e.engine.(ScrollDriver); ok {
			d.DriveByScroll(h, e.props.Scroll)
		}
	case e.props.InView != nil:
		if v, ok := e.engine.(VisibilityRunner); ok {
			v.RunWhenVisible(e.target, h, e.props.InView)
		}
	}
}

func (e *Entity) emit(t EventType, h Handle) {
	if e.sink == nil {
		return
	}
	e.sink.EmitEvent(Event{Type: t, GroupID: e.groupID, Key: e.key, Handle: h})
}

func momentaryReason(kind Trigger, phase Phase) string {
	name := "hover"
	if kind == TriggerPress {
		name = "press"
	}
	if phase == PhaseEnd {
		return name + "-end"
	}
	return name + "-start"
}
