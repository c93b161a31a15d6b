package motion

import "sort"

// Target is the render-side object an animation writes to. Property returns
// the current value of a property; SetProperty writes one. Property names of
// nested keyframes are joined with dots ("transform.x").
type Target interface {
	Property(name string) (any, bool)
	SetProperty(name string, value any)
}

// disposable is implemented by targets that can be torn down while an
// animation is still running against them.
type disposable interface {
	IsDisposed() bool
}

// nodeIDCounter is a plain counter (no atomic; motion is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is a retained property-bag Target. It is what the scripted runner and
// the examples bind entities to; real renderers usually adapt their own
// element type instead.
type Node struct {
	// Identity
	ID   uint32
	Name string

	// Metadata
	UserData any

	props    map[string]any
	disposed bool
}

// nodeDefaults sets the property values every new node starts from.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.props = map[string]any{
		"x":       0.0,
		"y":       0.0,
		"scale":   1.0,
		"rotate":  0.0,
		"opacity": 1.0,
	}
}

// NewNode creates a node with default transform and opacity properties.
func NewNode(name string) *Node {
	n := &Node{Name: name}
	nodeDefaults(n)
	return n
}

// Property returns the value stored for name.
func (n *Node) Property(name string) (any, bool) {
	v, ok := n.props[name]
	return v, ok
}

// Float returns a numeric property as float64, or 0 when it is missing or
// not numeric.
func (n *Node) Float(name string) float64 {
	f, _ := toFloat(n.props[name])
	return f
}

// SetProperty stores value under name. Writes to a disposed node are ignored;
// in debug mode they panic.
func (n *Node) SetProperty(name string, value any) {
	if n.disposed {
		if globalDebug {
			debugCheckDisposed(n, "SetProperty")
		}
		return
	}
	n.props[name] = value
}

// Properties returns the property names in sorted order.
func (n *Node) Properties() []string {
	names := make([]string, 0, len(n.props))
	for name := range n.props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispose marks the node as disposed and drops its properties. Animations
// still running against it stop on the engine's next update.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.disposed = true
	n.ID = 0
	n.props = nil
	n.UserData = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}
