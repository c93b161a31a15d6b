package motion

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
)

// Keyframes maps an animatable property name to its value. A value is a
// scalar (float64, int, string, bool), a Sequence of explicit interpolation
// steps, a nested Keyframes for composite properties, or nil (absent).
type Keyframes map[string]any

// Sequence is an ordered list of keyframe values for one property.
type Sequence []any

// KeyframeSet is a partial description of a visual end state plus an optional
// transition. A KeyframeSet is never mutated after construction; every
// operation in this package returns a new set instead.
type KeyframeSet struct {
	Values     Keyframes   `yaml:"values" toml:"values"`
	Transition *Transition `yaml:"transition,omitempty" toml:"transition,omitempty"`
}

// Transition configures how a KeyframeSet is played. Durations are seconds,
// matching the dt passed to TweenEngine.Update.
type Transition struct {
	Duration  float64                `yaml:"duration" toml:"duration"`
	Delay     float64                `yaml:"delay,omitempty" toml:"delay,omitempty"`
	Easing    string                 `yaml:"easing,omitempty" toml:"easing,omitempty"`
	Overrides map[string]*Transition `yaml:"overrides,omitempty" toml:"overrides,omitempty"`
}

// For returns the transition that applies to the named property: its
// override when one exists, otherwise t itself. Safe on a nil receiver.
func (t *Transition) For(property string) *Transition {
	if t == nil {
		return nil
	}
	if o, ok := t.Overrides[property]; ok && o != nil {
		return o
	}
	return t
}

// Sentinel errors for structurally invalid keyframe input.
var (
	ErrCyclicKeyframes = errors.New("keyframes contain a cycle")
	ErrInvalidValue    = errors.New("unsupported keyframe value")
)

// NewKeyframeSet creates a KeyframeSet. A nil values map is replaced by an
// empty one.
func NewKeyframeSet(values Keyframes, transition *Transition) *KeyframeSet {
	if values == nil {
		values = Keyframes{}
	}
	return &KeyframeSet{Values: values, Transition: transition}
}

// Get returns the value stored for property.
func (k *KeyframeSet) Get(property string) (any, bool) {
	if k == nil {
		return nil, false
	}
	v, ok := k.Values[property]
	return v, ok
}

// Len returns the number of properties in the set.
func (k *KeyframeSet) Len() int {
	if k == nil {
		return 0
	}
	return len(k.Values)
}

// Keys returns the property names in sorted order.
func (k *KeyframeSet) Keys() []string {
	if k == nil {
		return nil
	}
	keys := make([]string, 0, len(k.Values))
	for key := range k.Values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// WithTransition returns a shallow copy of k carrying t.
func (k *KeyframeSet) WithTransition(t *Transition) *KeyframeSet {
	if k == nil {
		return &KeyframeSet{Values: Keyframes{}, Transition: t}
	}
	return &KeyframeSet{Values: k.Values, Transition: t}
}

// Equal reports whether a and b describe the same values and transition.
func Equal(a, b *KeyframeSet) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return reflect.DeepEqual(a.Values, b.Values) && reflect.DeepEqual(a.Transition, b.Transition)
}

// Validate reports structural problems in k: cyclic nesting or values of an
// unsupported type. A nil set is valid.
func Validate(k *KeyframeSet) error {
	if k == nil {
		return nil
	}
	return validateKeyframes(k.Values, "", map[uintptr]bool{})
}

func validateKeyframes(kf Keyframes, path string, seen map[uintptr]bool) error {
	if kf == nil {
		return nil
	}
	ptr := reflect.ValueOf(kf).Pointer()
	if seen[ptr] {
		return fmt.Errorf("%s: %w", displayPath(path), ErrCyclicKeyframes)
	}
	seen[ptr] = true
	defer delete(seen, ptr)

	for key, v := range kf {
		p := joinPath(path, key)
		switch val := v.(type) {
		case nil, float64, float32, int, int64, int32, string, bool:
		case Sequence:
			if err := validateSequence(val, p, seen); err != nil {
				return err
			}
		case Keyframes:
			if err := validateKeyframes(val, p, seen); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%s (%T): %w", p, v, ErrInvalidValue)
		}
	}
	return nil
}

func validateSequence(seq Sequence, path string, seen map[uintptr]bool) error {
	if len(seq) == 0 {
		return nil
	}
	ptr := reflect.ValueOf(seq).Pointer()
	if seen[ptr] {
		return fmt.Errorf("%s: %w", path, ErrCyclicKeyframes)
	}
	seen[ptr] = true
	defer delete(seen, ptr)

	for i, v := range seq {
		switch val := v.(type) {
		case nil, float64, float32, int, int64, int32, string, bool:
		case Sequence:
			if err := validateSequence(val, fmt.Sprintf("%s[%d]", path, i), seen); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%s[%d] (%T): %w", path, i, v, ErrInvalidValue)
		}
	}
	return nil
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func displayPath(path string) string {
	if path == "" {
		return "keyframes"
	}
	return path
}

// toFloat converts numeric keyframe values to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	}
	return 0, false
}
