package motion

import (
	"fmt"
	"reflect"
)

// Merge computes the keyframes that take an element from the state described
// by from to the state described by to.
//
// When exactly one side is nil the other is returned unchanged (the same
// pointer). When both are nil an empty set is returned. Otherwise, for every
// property of to:
//
//   - if either side is a Sequence, the result is the flattened sequence
//     [from..., to...] with nil entries dropped;
//   - if both sides are Keyframes, they are merged recursively;
//   - if both sides are scalars, the result is Sequence{from, to};
//   - if only one side defines the property, its value is kept as is.
//
// Properties present only in from are copied verbatim. The transition of the
// result is to.Transition; see KeyframesFromTo for default handling.
//
// Merge panics if either input contains cyclic nesting. Use Validate to check
// untrusted input first.
func Merge(from, to *KeyframeSet) *KeyframeSet {
	switch {
	case from == nil && to == nil:
		return NewKeyframeSet(nil, nil)
	case from == nil:
		return to
	case to == nil:
		return from
	}
	values := mergeKeyframes(from.Values, to.Values, "", ancestry{}, ancestry{})
	return &KeyframeSet{Values: values, Transition: to.Transition}
}

// KeyframesFromTo merges from and to and sets the transition of the result to
// to.Transition, falling back to def. Inputs are never modified.
func KeyframesFromTo(from, to *KeyframeSet, def *Transition) *KeyframeSet {
	merged := Merge(from, to)
	t := def
	if to != nil && to.Transition != nil {
		t = to.Transition
	}
	if merged.Transition == t {
		return merged
	}
	return merged.WithTransition(t)
}

// EventKeyframes computes the keyframes for a momentary trigger such as hover
// or press. Forward merges initial into event; reverse merges event back into
// initial to restore the base state. Either way the event's own transition is
// used, falling back to def. A nil event yields nil: nothing to run.
func EventKeyframes(initial, event *KeyframeSet, def *Transition, reverse bool) *KeyframeSet {
	if event == nil {
		return nil
	}
	t := def
	if event.Transition != nil {
		t = event.Transition
	}
	var merged *KeyframeSet
	if reverse {
		merged = Merge(event, initial)
	} else {
		merged = Merge(initial, event)
	}
	if merged.Transition == t {
		return merged
	}
	return merged.WithTransition(t)
}

// ancestry records the Keyframes maps on the current recursion path of one
// merge operand.
type ancestry map[uintptr]bool

func mergeKeyframes(from, to Keyframes, path string, fromSeen, toSeen ancestry) Keyframes {
	fromSeen.enter(from, path)
	toSeen.enter(to, path)
	defer fromSeen.leave(from)
	defer toSeen.leave(to)

	out := make(Keyframes, len(from)+len(to))
	for key, tv := range to {
		fv := from[key]
		if v := mergeValue(fv, tv, joinPath(path, key), fromSeen, toSeen); v != nil {
			out[key] = v
		}
	}
	for key, fv := range from {
		if _, ok := to[key]; !ok {
			out[key] = fv
		}
	}
	return out
}

func mergeValue(fv, tv any, path string, fromSeen, toSeen ancestry) any {
	_, fromSeq := fv.(Sequence)
	_, toSeq := tv.(Sequence)
	if fromSeq || toSeq {
		seq := make(Sequence, 0, 4)
		seq = flatten(seq, fv, 0)
		return flatten(seq, tv, 0)
	}

	fk, fromSet := fv.(Keyframes)
	tk, toSet := tv.(Keyframes)
	if fromSet && toSet {
		return mergeKeyframes(fk, tk, path, fromSeen, toSeen)
	}

	switch {
	case fv == nil:
		return tv
	case tv == nil:
		return fv
	}
	return Sequence{fv, tv}
}

// maxFlattenDepth bounds sequence nesting so a self-referencing Sequence
// fails fast instead of recursing forever.
const maxFlattenDepth = 32

func flatten(dst Sequence, v any, depth int) Sequence {
	if depth > maxFlattenDepth {
		panic(fmt.Sprintf("motion: %v", ErrCyclicKeyframes))
	}
	switch val := v.(type) {
	case nil:
		return dst
	case Sequence:
		for _, item := range val {
			dst = flatten(dst, item, depth+1)
		}
		return dst
	default:
		return append(dst, val)
	}
}

func (a ancestry) enter(kf Keyframes, path string) {
	if kf == nil {
		return
	}
	ptr := reflect.ValueOf(kf).Pointer()
	if a[ptr] {
		panic(fmt.Sprintf("motion: merging %s: %v", displayPath(path), ErrCyclicKeyframes))
	}
	a[ptr] = true
}

func (a ancestry) leave(kf Keyframes) {
	if kf == nil {
		return
	}
	delete(a, reflect.ValueOf(kf).Pointer())
}
