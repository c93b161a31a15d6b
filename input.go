package motion

// maxPointers bounds the pointer slots tracked by a PointerRouter
// (pointer 0 = mouse, 1-9 = touch).
const maxPointers = 10

// HitFunc returns the entity under the point (x, y), or nil.
type HitFunc func(x, y float64) *Entity

// --- Per-pointer state ---

type pointerState struct {
	down      bool
	hoverNode *Entity // last entity the pointer was hovering over (for enter/leave)
	hitNode   *Entity // entity pressed at press time
}

// PointerRouter turns raw pointer samples into hover and press triggers on
// entities. Hit testing is left to the caller.
type PointerRouter struct {
	hit      HitFunc
	pointers [maxPointers]pointerState
}

// NewPointerRouter creates a router that resolves positions with hit.
func NewPointerRouter(hit HitFunc) *PointerRouter {
	return &PointerRouter{hit: hit}
}

// Process runs the pointer state machine for one pointer sample. Out of
// range pointer ids are ignored.
func (r *PointerRouter) Process(pointerID int, x, y float64, pressed bool) {
	if pointerID < 0 || pointerID >= maxPointers {
		return
	}
	ps := &r.pointers[pointerID]

	target := r.hit(x, y)
	if target != nil && target.State() == StateExited {
		if globalDebug {
			debugLogger.Warn().Str("key", target.Key()).Msg("pointer over exited entity ignored")
		}
		target = nil
	}

	// Fire hover enter/leave when the hovered entity changes.
	if target != ps.hoverNode {
		if ps.hoverNode != nil {
			ps.hoverNode.HoverEnd()
		}
		if target != nil {
			target.HoverStart()
		}
		ps.hoverNode = target
	}

	if pressed && !ps.down {
		ps.down = true
		ps.hitNode = target
		if target != nil {
			target.PressStart()
		}
	} else if !pressed && ps.down {
		// Release goes to the entity pressed, wherever the pointer is now.
		if ps.hitNode != nil {
			ps.hitNode.PressEnd()
		}
		ps.down = false
		ps.hitNode = nil
	}
}

// Hovered returns the entity pointerID is hovering over, or nil.
func (r *PointerRouter) Hovered(pointerID int) *Entity {
	if pointerID < 0 || pointerID >= maxPointers {
		return nil
	}
	return r.pointers[pointerID].hoverNode
}

// Forget drops every reference to e, without firing triggers. Call it when
// the renderer stops rendering e.
func (r *PointerRouter) Forget(e *Entity) {
	for i := range r.pointers {
		ps := &r.pointers[i]
		if ps.hoverNode == e {
			ps.hoverNode = nil
		}
		if ps.hitNode == e {
			ps.hitNode = nil
		}
	}
}
