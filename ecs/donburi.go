// Package ecs provides ECS adapters for motion lifecycle events.
package ecs

import (
	"github.com/phanxgames/motion"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// LifecycleEventType is the Donburi event type for motion lifecycle events.
// Subscribe to this in your ECS systems to receive animation, exit and
// re-render events.
var LifecycleEventType = events.NewEventType[motion.Event]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Lifecycle
// events are published to LifecycleEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) motion.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event motion.Event) {
	LifecycleEventType.Publish(s.world, event)
}
