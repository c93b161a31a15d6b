package motion

import (
	"sort"
	"strings"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// DefaultDuration is the run length, in seconds, used when no transition is
// supplied.
const DefaultDuration = 0.3

// TweenEngine is an Engine that interpolates numeric properties with gween
// tweens. Call Update(dt) once per frame; runs complete, and their Finished
// signals resolve, only from Update.
//
// There is no global animation manager; users call Update themselves.
type TweenEngine struct {
	runs []*tweenRun
}

// NewTweenEngine creates an engine with no active runs.
func NewTweenEngine() *TweenEngine {
	return &TweenEngine{}
}

// tweenRun is the Handle returned by TweenEngine.Start.
type tweenRun struct {
	target   Target
	tracks   []*tweenTrack
	finished *Signal
	done     bool
}

// tweenTrack animates one property through consecutive segments.
type tweenTrack struct {
	property    string
	delay       float32
	segments    []tweenSegment
	current     int
	discrete    any
	hasDiscrete bool
	hold        float32 // time left before discrete is applied
}

// tweenSegment interpolates towards to. A nil tween jumps straight there.
type tweenSegment struct {
	tween *gween.Tween
	to    float32
}

// Start begins animating target towards frames. Sequences are played as
// consecutive segments sharing the property's duration; a single numeric
// value animates from the target's current value. Non-numeric values are
// applied once the property's duration has elapsed.
func (e *TweenEngine) Start(target Target, frames *KeyframeSet, transition *Transition) Handle {
	run := &tweenRun{target: target, finished: NewSignal()}
	if target != nil && frames != nil {
		flat := make(map[string]any, len(frames.Values))
		flattenProperties(flat, "", frames.Values)
		names := make([]string, 0, len(flat))
		for name := range flat {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			run.tracks = append(run.tracks, newTweenTrack(target, name, flat[name], transition.For(name)))
		}
	}
	e.runs = append(e.runs, run)
	return run
}

// Update advances every run by dt seconds. Runs whose target has been
// disposed stop without further writes.
func (e *TweenEngine) Update(dt float32) {
	var completed []*tweenRun
	live := e.runs[:0]
	for _, r := range e.runs {
		if r.done {
			continue
		}
		if d, ok := r.target.(disposable); ok && d.IsDisposed() {
			r.done = true
			completed = append(completed, r)
			continue
		}
		if r.step(dt) {
			r.done = true
			completed = append(completed, r)
			continue
		}
		live = append(live, r)
	}
	for i := len(live); i < len(e.runs); i++ {
		e.runs[i] = nil
	}
	e.runs = live

	// Continuations may start new runs; they join e.runs and first advance
	// on the next Update.
	for _, r := range completed {
		r.finished.Resolve()
	}
}

// Active returns the number of runs that have not finished. Stopped runs
// are not counted even before the next Update drops them.
func (e *TweenEngine) Active() int {
	n := 0
	for _, r := range e.runs {
		if !r.done {
			n++
		}
	}
	return n
}

// Finished returns the run's completion signal.
func (r *tweenRun) Finished() *Signal {
	return r.finished
}

// Stop ends the run where it is and resolves Finished.
func (r *tweenRun) Stop() {
	if r.done {
		return
	}
	r.done = true
	r.finished.Resolve()
}

func (r *tweenRun) step(dt float32) bool {
	allDone := true
	for _, t := range r.tracks {
		if !t.update(r.target, dt) {
			allDone = false
		}
	}
	return allDone
}

func newTweenTrack(target Target, name string, v any, t *Transition) *tweenTrack {
	duration := float32(DefaultDuration)
	var fn ease.TweenFunc = ease.Linear
	track := &tweenTrack{property: name}
	if t != nil {
		duration = float32(t.Duration)
		track.delay = float32(t.Delay)
		fn = EaseFunc(t.Easing)
	}

	values, ok := v.(Sequence)
	if !ok {
		values = Sequence{v}
	}
	nums := make([]float32, 0, len(values)+1)
	for _, x := range values {
		f, ok := toFloat(x)
		if !ok {
			track.discrete = values[len(values)-1]
			track.hasDiscrete = true
			track.hold = duration
			return track
		}
		nums = append(nums, float32(f))
	}
	if len(nums) == 0 {
		return track
	}
	if len(nums) == 1 {
		from := nums[0]
		if cur, ok := target.Property(name); ok {
			if f, ok := toFloat(cur); ok {
				from = float32(f)
			}
		}
		nums = []float32{from, nums[0]}
	}

	segDuration := duration / float32(len(nums)-1)
	for i := 1; i < len(nums); i++ {
		seg := tweenSegment{to: nums[i]}
		if segDuration > 0 {
			seg.tween = gween.New(nums[i-1], nums[i], segDuration, fn)
		}
		track.segments = append(track.segments, seg)
	}
	return track
}

// update advances the track by dt and reports whether it has finished.
func (t *tweenTrack) update(target Target, dt float32) bool {
	if t.delay > 0 {
		t.delay -= dt
		if t.delay > 0 {
			return false
		}
		dt = -t.delay
		t.delay = 0
	}
	if t.hold > 0 {
		t.hold -= dt
		if t.hold > 0 {
			return false
		}
	}
	for t.current < len(t.segments) {
		seg := t.segments[t.current]
		if seg.tween == nil {
			target.SetProperty(t.property, float64(seg.to))
			t.current++
			continue
		}
		val, finished := seg.tween.Update(dt)
		if !finished {
			target.SetProperty(t.property, float64(val))
			return false
		}
		target.SetProperty(t.property, float64(seg.to))
		t.current++
		if t.current < len(t.segments) {
			// Leftover time is dropped; the next segment starts next frame.
			return false
		}
	}
	if t.hasDiscrete {
		target.SetProperty(t.property, t.discrete)
		t.hasDiscrete = false
	}
	return true
}

func flattenProperties(dst map[string]any, prefix string, kf Keyframes) {
	for key, v := range kf {
		name := joinPath(prefix, key)
		if nested, ok := v.(Keyframes); ok {
			flattenProperties(dst, name, nested)
			continue
		}
		if v != nil {
			dst[name] = v
		}
	}
}

var easeFuncs = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"in-quad":      ease.InQuad,
	"out-quad":     ease.OutQuad,
	"in-out-quad":  ease.InOutQuad,
	"in-cubic":     ease.InCubic,
	"out-cubic":    ease.OutCubic,
	"in-out-cubic": ease.InOutCubic,
	"in-sine":      ease.InSine,
	"out-sine":     ease.OutSine,
	"in-out-sine":  ease.InOutSine,
	"out-bounce":   ease.OutBounce,
	"ease-in":      ease.InQuad,
	"ease-out":     ease.OutQuad,
	"ease-in-out":  ease.InOutQuad,
	"ease":         ease.InOutQuad,
}

// EaseFunc returns the gween easing function registered under name
// (case-insensitive, "in-out-quad" style). Unknown names fall back to linear.
func EaseFunc(name string) ease.TweenFunc {
	if fn, ok := easeFuncs[strings.ToLower(name)]; ok {
		return fn
	}
	return ease.Linear
}
