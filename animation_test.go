package motion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanema/gween/ease"
)

func TestTweenSingleValueAnimatesFromCurrent(t *testing.T) {
	e := NewTweenEngine()
	node := NewNode("n")
	node.SetProperty("x", 10.0)

	h := e.Start(node, set(Keyframes{"x": 110.0}), &Transition{Duration: 1})

	// Exact halves avoid float32 accumulation drift.
	e.Update(0.5)
	assert.InDelta(t, 60, node.Float("x"), 0.01)
	assert.False(t, h.Finished().Resolved())

	e.Update(0.5)
	assert.InDelta(t, 110, node.Float("x"), 0.01)
	assert.True(t, h.Finished().Resolved())
	assert.Equal(t, 0, e.Active())
}

func TestTweenSequencePlaysSegments(t *testing.T) {
	e := NewTweenEngine()
	node := NewNode("n")

	h := e.Start(node, set(Keyframes{"x": Sequence{0.0, 10.0, 20.0}}), &Transition{Duration: 1})

	e.Update(0.25)
	assert.InDelta(t, 5, node.Float("x"), 0.01)
	e.Update(0.25)
	assert.InDelta(t, 10, node.Float("x"), 0.01)
	e.Update(0.5)
	assert.InDelta(t, 20, node.Float("x"), 0.01)
	assert.True(t, h.Finished().Resolved())
}

func TestTweenDelay(t *testing.T) {
	e := NewTweenEngine()
	node := NewNode("n")

	h := e.Start(node, set(Keyframes{"x": Sequence{0.0, 100.0}}), &Transition{Duration: 0.5, Delay: 0.25})

	e.Update(0.25)
	assert.InDelta(t, 0, node.Float("x"), 0.01)
	e.Update(0.25)
	assert.InDelta(t, 50, node.Float("x"), 0.01)
	e.Update(0.25)
	assert.True(t, h.Finished().Resolved())
}

func TestTweenDiscreteValuesApplyAtEnd(t *testing.T) {
	e := NewTweenEngine()
	node := NewNode("n")

	e.Start(node, set(Keyframes{"color": Sequence{"red", "blue"}, "x": 10.0}), &Transition{Duration: 0.5})

	e.Update(0.25)
	_, ok := node.Property("color")
	assert.False(t, ok)

	e.Update(0.25)
	color, ok := node.Property("color")
	require.True(t, ok)
	assert.Equal(t, "blue", color)
}

func TestTweenZeroDurationJumps(t *testing.T) {
	e := NewTweenEngine()
	node := NewNode("n")

	h := e.Start(node, set(Keyframes{"opacity": 0.0}), &Transition{Duration: 0})
	assert.False(t, h.Finished().Resolved(), "completion is never synchronous with Start")

	e.Update(0.016)
	assert.Equal(t, 0.0, node.Float("opacity"))
	assert.True(t, h.Finished().Resolved())
}

func TestTweenNestedPropertyNames(t *testing.T) {
	e := NewTweenEngine()
	node := NewNode("n")

	e.Start(node, set(Keyframes{"transform": Keyframes{"x": 5.0}}), &Transition{Duration: 0})
	e.Update(0.016)
	assert.Equal(t, 5.0, node.Float("transform.x"))
}

func TestTweenPerPropertyOverride(t *testing.T) {
	e := NewTweenEngine()
	node := NewNode("n")

	tr := &Transition{
		Duration:  1,
		Overrides: map[string]*Transition{"opacity": {Duration: 0}},
	}
	e.Start(node, set(Keyframes{"opacity": 0.0, "x": 100.0}), tr)

	e.Update(0.5)
	assert.Equal(t, 0.0, node.Float("opacity"))
	assert.InDelta(t, 50, node.Float("x"), 0.01)
}

func TestTweenDefaultDuration(t *testing.T) {
	e := NewTweenEngine()
	node := NewNode("n")

	h := e.Start(node, set(Keyframes{"x": 1.0}), nil)
	e.Update(DefaultDuration / 2)
	assert.False(t, h.Finished().Resolved())
	e.Update(DefaultDuration / 2)
	assert.True(t, h.Finished().Resolved())
}

func TestTweenStopResolvesAndFreezes(t *testing.T) {
	e := NewTweenEngine()
	node := NewNode("n")

	h := e.Start(node, set(Keyframes{"x": 100.0}), &Transition{Duration: 1})
	e.Update(0.5)
	h.Stop()
	assert.True(t, h.Finished().Resolved())
	assert.Equal(t, 0, e.Active(), "stopped runs are not active")

	e.Update(0.5)
	assert.InDelta(t, 50, node.Float("x"), 0.01)
	assert.Equal(t, 0, e.Active())
}

func TestTweenDisposedTargetStops(t *testing.T) {
	e := NewTweenEngine()
	node := NewNode("n")

	h := e.Start(node, set(Keyframes{"x": 100.0}), &Transition{Duration: 1})
	node.Dispose()
	e.Update(0.5)

	assert.True(t, h.Finished().Resolved())
	assert.Equal(t, 0, e.Active())
}

func TestTweenContinuationStartsNextRun(t *testing.T) {
	e := NewTweenEngine()
	node := NewNode("n")

	first := e.Start(node, set(Keyframes{"x": 10.0}), &Transition{Duration: 0.5})
	var second Handle
	first.Finished().Then(func() {
		second = e.Start(node, set(Keyframes{"x": 20.0}), &Transition{Duration: 0.5})
	})

	e.Update(0.5)
	require.NotNil(t, second)
	assert.Equal(t, 1, e.Active())
	assert.InDelta(t, 10, node.Float("x"), 0.01)

	e.Update(0.5)
	assert.True(t, second.Finished().Resolved())
	assert.InDelta(t, 20, node.Float("x"), 0.01)
}

func TestEaseFunc(t *testing.T) {
	assert.Equal(t, ease.OutQuad(0.5, 0, 1, 1), EaseFunc("OUT-QUAD")(0.5, 0, 1, 1))
	assert.Equal(t, ease.InOutCubic(0.3, 0, 1, 1), EaseFunc("in-out-cubic")(0.3, 0, 1, 1))
	assert.Equal(t, ease.Linear(0.3, 0, 1, 1), EaseFunc("no-such-easing")(0.3, 0, 1, 1))
}
