package motion

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// scriptStep represents a single action in a script.
type scriptStep struct {
	Action  string   `yaml:"action" json:"action"`
	Keys    []string `yaml:"keys,omitempty" json:"keys,omitempty"`
	Key     string   `yaml:"key,omitempty" json:"key,omitempty"`
	Seconds float64  `yaml:"seconds,omitempty" json:"seconds,omitempty"`
	Frames  int      `yaml:"frames,omitempty" json:"frames,omitempty"`
}

// Script is a scripted simulation: a variant collection, the variant names
// every child uses, a group policy and a list of steps. JSON is accepted
// since it is valid YAML.
//
//	sets:
//	  hidden: {values: {opacity: 0}}
//	  shown: {values: {opacity: 1}}
//	props: {initial: hidden, animate: shown, exit: hidden}
//	policy: exit-before-enter
//	steps:
//	  - {action: render, keys: [a, b, c]}
//	  - {action: advance, seconds: 0.5}
//	  - {action: render, keys: [a, c, d]}
//	  - {action: settle}
type Script struct {
	Variants     `yaml:",inline"`
	VariantsFile string       `yaml:"variantsFile,omitempty"`
	Props        PropSets     `yaml:"props"`
	Policy       string       `yaml:"policy,omitempty"`
	Initial      *bool        `yaml:"initial,omitempty"`
	FrameRate    int          `yaml:"frameRate,omitempty"`
	Trace        bool         `yaml:"trace,omitempty"`
	Steps        []scriptStep `yaml:"steps"`
}

// Script step errors.
var (
	ErrNoSteps       = errors.New("no steps")
	ErrUnknownAction = errors.New("unknown action")
)

// DefaultFrameRate is the simulated frame rate when a script sets none.
const DefaultFrameRate = 60

// maxRefreshPasses bounds the forced re-evaluations served in one frame.
const maxRefreshPasses = 8

// slotWidth is the width of each rendered element in the simulated layout.
// Elements are laid out left to right in output order.
const slotWidth = 100.0

// LoadScript parses a YAML or JSON script. A VariantsFile reference is left
// unresolved; use LoadScriptFile to resolve it relative to the script.
func LoadScript(data []byte) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("parse script: %w", ErrNoSteps)
	}
	for i, st := range s.Steps {
		if !knownAction(st.Action) {
			return nil, fmt.Errorf("parse script: step %d: %w %q", i, ErrUnknownAction, st.Action)
		}
	}
	if _, err := parsePolicy(s.Policy); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if _, err := s.Variants.normalize(); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	return &s, nil
}

// LoadScriptFile reads and parses the script at path. When the script names
// a VariantsFile, it is loaded relative to the script's directory and its
// sets are added to the inline ones, with inline sets taking precedence.
func LoadScriptFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	s, err := LoadScript(data)
	if err != nil {
		return nil, err
	}
	if s.VariantsFile == "" {
		return s, nil
	}
	vpath := s.VariantsFile
	if !filepath.IsAbs(vpath) {
		vpath = filepath.Join(filepath.Dir(path), vpath)
	}
	v, err := LoadVariantsFile(vpath)
	if err != nil {
		return nil, err
	}
	for name, set := range v.Sets {
		if _, ok := s.Sets[name]; !ok {
			s.Sets[name] = set
		}
	}
	if s.Transition == nil {
		s.Transition = v.Transition
	}
	return s, nil
}

func knownAction(action string) bool {
	switch action {
	case "render", "hover", "unhover", "press", "release", "advance", "wait", "settle":
		return true
	}
	return false
}

func parsePolicy(name string) (Policy, error) {
	switch strings.ToLower(name) {
	case "", "concurrent":
		return PolicyConcurrent, nil
	case "exit-before-enter", "wait":
		return PolicyExitBeforeEnter, nil
	}
	return PolicyConcurrent, fmt.Errorf("unknown policy %q", name)
}

// syntheticPointerEvent is one queued pointer sample. The pointer is placed
// over the element rendered for key, or outside every element when key is
// empty.
type syntheticPointerEvent struct {
	key     string
	pressed bool
}

// ScriptOptions configures a ScriptRunner.
type ScriptOptions struct {
	Logger *zerolog.Logger
	// Sink receives lifecycle events in addition to the transcript.
	Sink         EventSink
	Coordination *Coordination
}

// ScriptRunner plays a Script frame by frame against a TweenEngine and a
// Group. It plays the renderer's part: it binds a Node to every rendered
// entity, routes synthetic pointer input through a PointerRouter and serves
// forced re-evaluations. Everything observable is written to a transcript.
type ScriptRunner struct {
	script *Script
	props  Props
	dt     float32

	engine *TweenEngine
	group  *Group
	router *PointerRouter
	log    zerolog.Logger

	rendered    []Rendered
	nodes       map[*Entity]*Node
	injectQueue []syntheticPointerEvent
	pressed     bool

	cursor     int
	waitCount  int
	settling   bool
	frame      int
	done       bool
	transcript []string
}

// NewScriptRunner prepares s for playback.
func NewScriptRunner(s *Script, opts ScriptOptions) (*ScriptRunner, error) {
	props, err := s.Variants.Props(s.Props)
	if err != nil {
		return nil, fmt.Errorf("script props: %w", err)
	}
	policy, err := parsePolicy(s.Policy)
	if err != nil {
		return nil, err
	}
	fps := s.FrameRate
	if fps <= 0 {
		fps = DefaultFrameRate
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	r := &ScriptRunner{
		script: s,
		props:  props,
		dt:     1 / float32(fps),
		engine: NewTweenEngine(),
		log:    log,
		nodes:  make(map[*Entity]*Node),
	}
	r.router = NewPointerRouter(r.hit)
	r.group = NewGroup(r.engine, GroupOptions{
		ID:           "script",
		Policy:       policy,
		Initial:      s.Initial,
		Coordination: opts.Coordination,
		Logger:       &log,
		Sink:         Sinks(SinkFunc(r.record), opts.Sink),
	})
	return r, nil
}

// Group returns the group driven by the runner.
func (r *ScriptRunner) Group() *Group { return r.group }

// Engine returns the engine driven by the runner.
func (r *ScriptRunner) Engine() *TweenEngine { return r.engine }

// Done reports whether all steps in the script have been executed.
func (r *ScriptRunner) Done() bool { return r.done }

// Frame returns the number of frames played so far.
func (r *ScriptRunner) Frame() int { return r.frame }

// Transcript returns the recorded lines, oldest first.
func (r *ScriptRunner) Transcript() []string { return r.transcript }

// Rendered returns the most recently committed output.
func (r *ScriptRunner) Rendered() []Rendered { return r.rendered }

// Node returns the node bound to the rendered element with key.
func (r *ScriptRunner) Node(key string) (*Node, bool) {
	for _, el := range r.rendered {
		if el.Key == key {
			n, ok := r.nodes[el.Entity]
			return n, ok
		}
	}
	return nil, false
}

// Run plays frames until the script is done. It fails if that takes more
// than maxFrames frames.
func (r *ScriptRunner) Run(maxFrames int) error {
	for !r.done {
		if r.frame >= maxFrames {
			return fmt.Errorf("script did not finish within %d frames", maxFrames)
		}
		r.Step()
	}
	return nil
}

// Step plays one frame: it consumes one queued pointer event, or counts down
// a wait, or executes the next step; then it advances the engine by one frame
// and serves any forced re-evaluation the group requested.
func (r *ScriptRunner) Step() {
	if r.done {
		return
	}
	switch {
	case len(r.injectQueue) > 0:
		evt := r.injectQueue[0]
		copy(r.injectQueue, r.injectQueue[1:])
		r.injectQueue = r.injectQueue[:len(r.injectQueue)-1]
		r.router.Process(0, r.slotX(evt.key), 0, evt.pressed)
	case r.waitCount > 0:
		r.waitCount--
	case r.settling:
		if r.engine.Active() == 0 && len(r.group.Exiting()) == 0 {
			r.settling = false
		}
	case r.cursor < len(r.script.Steps):
		st := r.script.Steps[r.cursor]
		r.cursor++
		r.exec(st)
	}

	r.engine.Update(r.dt)
	r.frame++
	for i := 0; i < maxRefreshPasses && r.group.NeedsRefresh(); i++ {
		r.commit(r.group.Refresh())
	}

	if r.cursor >= len(r.script.Steps) && r.waitCount == 0 && !r.settling && len(r.injectQueue) == 0 {
		r.done = true
	}
}

func (r *ScriptRunner) exec(st scriptStep) {
	r.log.Debug().Int("frame", r.frame).Str("action", st.Action).Msg("script step")
	switch st.Action {
	case "render":
		children := make([]Child, len(st.Keys))
		for i, key := range st.Keys {
			if key == "" {
				children[i] = Gap()
				continue
			}
			children[i] = Animatable(key, r.props)
		}
		r.commit(r.group.Update(children))
	case "hover":
		r.inject(st.Key, r.pressed)
	case "unhover":
		r.inject("", r.pressed)
	case "press":
		r.pressed = true
		r.inject(st.Key, true)
	case "release":
		r.pressed = false
		r.inject(st.Key, false)
	case "advance":
		if n := int(math.Ceil(st.Seconds * float64(r.fps()))); n > 0 {
			r.waitCount = n - 1 // this frame counts as one
		}
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1
		}
	case "settle":
		r.settling = true
	}
}

func (r *ScriptRunner) inject(key string, pressed bool) {
	r.injectQueue = append(r.injectQueue, syntheticPointerEvent{key: key, pressed: pressed})
}

// commit binds a node to every rendered entity and releases the entities that
// are no longer rendered.
func (r *ScriptRunner) commit(out []Rendered) {
	live := make(map[*Entity]bool, len(out))
	for _, el := range out {
		live[el.Entity] = true
		n, ok := r.nodes[el.Entity]
		if !ok {
			n = NewNode(el.Key)
			r.nodes[el.Entity] = n
		}
		el.Entity.Bind(n)
	}
	for e, n := range r.nodes {
		if live[e] {
			continue
		}
		r.router.Forget(e)
		e.Unbind()
		n.Dispose()
		delete(r.nodes, e)
	}
	r.rendered = out

	parts := make([]string, len(out))
	for i, el := range out {
		parts[i] = el.Key
		if el.Exiting {
			parts[i] += "~"
		}
	}
	r.write("render " + strings.Join(parts, " "))
}

func (r *ScriptRunner) hit(x, _ float64) *Entity {
	if x < 0 {
		return nil
	}
	i := int(x / slotWidth)
	if i >= len(r.rendered) {
		return nil
	}
	return r.rendered[i].Entity
}

func (r *ScriptRunner) slotX(key string) float64 {
	for i, el := range r.rendered {
		if el.Key == key {
			return (float64(i) + 0.5) * slotWidth
		}
	}
	return -1
}

func (r *ScriptRunner) fps() int {
	if r.script.FrameRate > 0 {
		return r.script.FrameRate
	}
	return DefaultFrameRate
}

func (r *ScriptRunner) record(ev Event) {
	switch ev.Type {
	case EventAnimationStart, EventAnimationEnd:
		if !r.script.Trace {
			return
		}
	}
	line := ev.Type.String()
	if ev.Key != "" {
		line += " " + ev.Key
	}
	r.write(line)
}

func (r *ScriptRunner) write(line string) {
	r.transcript = append(r.transcript, fmt.Sprintf("%d %s", r.frame, line))
}
