// Package ecs provides ECS adapters for motion's lifecycle events.
//
// The primary adapter is [NewDonburiSink], which bridges entity and group
// lifecycle events (animation start/end, exit start/end, forced re-render)
// into a [Donburi] world as typed events. Subscribe to [LifecycleEventType]
// in your ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	group := motion.NewGroup(engine, motion.GroupOptions{ID: "list", Sink: sink})
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
