package motion

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnknownVariant is returned when a PropSets names a set that the
// Variants do not define.
var ErrUnknownVariant = errors.New("unknown variant")

// Variants is a named collection of keyframe sets loaded from a file, with
// an optional default transition.
//
// YAML:
//
//	transition: {duration: 0.25, easing: out-cubic}
//	sets:
//	  hidden: {values: {opacity: 0, y: 20}}
//	  visible: {values: {opacity: 1, y: 0}}
type Variants struct {
	Transition *Transition             `yaml:"transition,omitempty" toml:"transition,omitempty"`
	Sets       map[string]*KeyframeSet `yaml:"sets" toml:"sets"`
}

// PropSets selects variants by name for each keyframe slot of Props. Empty
// names leave the slot unset.
type PropSets struct {
	Initial            string `yaml:"initial,omitempty" json:"initial,omitempty" toml:"initial,omitempty"`
	Animate            string `yaml:"animate,omitempty" json:"animate,omitempty" toml:"animate,omitempty"`
	Hover              string `yaml:"hover,omitempty" json:"hover,omitempty" toml:"hover,omitempty"`
	Press              string `yaml:"press,omitempty" json:"press,omitempty" toml:"press,omitempty"`
	Exit               string `yaml:"exit,omitempty" json:"exit,omitempty" toml:"exit,omitempty"`
	InitialFromAnimate bool   `yaml:"initialFromAnimate,omitempty" json:"initialFromAnimate,omitempty" toml:"initialFromAnimate,omitempty"`
}

// LoadVariants parses YAML (or JSON, which YAML accepts) variant data.
func LoadVariants(data []byte) (*Variants, error) {
	var v Variants
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("parse variants: %w", err)
	}
	return v.normalize()
}

// LoadVariantsTOML parses TOML variant data.
func LoadVariantsTOML(data []byte) (*Variants, error) {
	var v Variants
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("parse variants: %w", err)
	}
	return v.normalize()
}

// LoadVariantsFile reads path and parses it as TOML when its extension is
// .toml, and as YAML otherwise.
func LoadVariantsFile(path string) (*Variants, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read variants: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return LoadVariantsTOML(data)
	}
	return LoadVariants(data)
}

// Names returns the set names in sorted order.
func (v *Variants) Names() []string {
	names := make([]string, 0, len(v.Sets))
	for name := range v.Sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Set returns the named keyframe set.
func (v *Variants) Set(name string) (*KeyframeSet, error) {
	set, ok := v.Sets[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownVariant, name)
	}
	return set, nil
}

// Props builds entity Props from the named sets. The Variants'
// default transition becomes Props.Transition.
func (v *Variants) Props(names PropSets) (Props, error) {
	p := Props{Transition: v.Transition, InitialFromAnimate: names.InitialFromAnimate}
	slots := []struct {
		name string
		dst  **KeyframeSet
	}{
		{names.Initial, &p.Initial},
		{names.Animate, &p.Animate},
		{names.Hover, &p.Hover},
		{names.Press, &p.Press},
		{names.Exit, &p.Exit},
	}
	for _, s := range slots {
		if s.name == "" {
			continue
		}
		set, err := v.Set(s.name)
		if err != nil {
			return Props{}, err
		}
		*s.dst = set
	}
	return p, nil
}

// normalize converts decoded values into the package's keyframe types and
// validates every set.
func (v *Variants) normalize() (*Variants, error) {
	if v.Sets == nil {
		v.Sets = make(map[string]*KeyframeSet)
	}
	for _, name := range v.Names() {
		set := v.Sets[name]
		if set == nil {
			set = NewKeyframeSet(nil, nil)
			v.Sets[name] = set
		}
		values, err := normalizeKeyframes(set.Values, name)
		if err != nil {
			return nil, fmt.Errorf("parse variants: %w", err)
		}
		set.Values = values
		if err := Validate(set); err != nil {
			return nil, fmt.Errorf("parse variants: set %q: %w", name, err)
		}
	}
	return v, nil
}

func normalizeKeyframes(m map[string]any, path string) (Keyframes, error) {
	out := make(Keyframes, len(m))
	for key, raw := range m {
		val, err := normalizeValue(raw, joinPath(path, key))
		if err != nil {
			return nil, err
		}
		out[key] = val
	}
	return out, nil
}

func normalizeValue(raw any, path string) (any, error) {
	switch x := raw.(type) {
	case nil, string, bool, float64:
		return x, nil
	case Keyframes:
		return normalizeKeyframes(x, path)
	case map[string]any:
		return normalizeKeyframes(x, path)
	case []any:
		seq := make(Sequence, len(x))
		for i, item := range x {
			val, err := normalizeValue(item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			seq[i] = val
		}
		return seq, nil
	}
	if f, ok := toFloat(raw); ok {
		return f, nil
	}
	return nil, fmt.Errorf("%s: %w: %T", path, ErrInvalidValue, raw)
}
