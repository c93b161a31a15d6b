// Package motion orchestrates declarative animations for keyed, retained
// trees of animatable things.
//
// Motion does not draw anything. A renderer (an [Ebitengine] game, an ECS, a
// terminal UI) owns the visual nodes and reports them to motion through the
// [Target] interface; motion decides which animation runs on which target and
// when.
//
// # Keyframes
//
// A [KeyframeSet] maps property names to values. Nested [Keyframes] describe
// grouped properties and a [Sequence] describes a multi-stop animation.
// [Merge] overlays one set onto another, [KeyframesFromTo] computes the
// minimal delta to animate between two states, and [EventKeyframes] builds
// the keyframes for entering or leaving a hover or press state.
//
//	rest := motion.NewKeyframeSet(motion.Keyframes{"opacity": 1.0, "y": 0.0}, nil)
//	lift := motion.NewKeyframeSet(motion.Keyframes{"y": -12.0}, nil)
//	hover := motion.EventKeyframes(rest, lift, nil, false)
//
// # Entities
//
// An [Entity] is the scheduler for a single animatable element. It plays the
// initial animation when first bound, reacts to hover and press, and plays an
// exit animation on request. Requests are single-flight: each one waits for
// the previous run to finish before it starts.
//
//	e := motion.NewEntity("card", engine, props)
//	e.Bind(node)
//	e.HoverStart()
//	e.RequestExit().Then(func() { node.Dispose() })
//
// # Presence
//
// A [Group] reconciles successive renders of keyed children. Removed
// children stay rendered while their exit plays. [PolicyConcurrent] shows
// entering children immediately; [PolicyExitBeforeEnter] withholds them until
// every exit has finished. Groups that share a [Coordination] can observe
// each other's exits.
//
//	g := motion.NewGroup(engine, motion.GroupOptions{ID: "cards"})
//	out := g.Update([]motion.Child{
//		motion.Animatable("a", props),
//		motion.Gap(),
//		motion.Animatable("b", props),
//	})
//
// When an exit finishes the group sets [Group.NeedsRefresh] and calls
// OnRerender; call [Group.Refresh] on the next pass.
//
// # Animation
//
// [TweenEngine] is the default [Engine]. It interpolates numeric properties
// with [gween] tweens and must be advanced once per frame with
// [TweenEngine.Update]. Motion is single-threaded: call every method from the
// goroutine that runs the frame loop.
//
// # Variants and scripts
//
// [LoadVariants] reads named keyframe sets from YAML (or TOML with
// [LoadVariantsTOML]). [ScriptRunner] replays a scripted sequence of renders
// and pointer events against a [Group] and records a transcript; the
// motionctl command wraps it.
//
// Lifecycle events are reported to an [EventSink]. The prom subpackage
// exports them as Prometheus metrics and the ecs module publishes them on a
// [Donburi] world.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package motion
