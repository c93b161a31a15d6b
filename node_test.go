package motion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewNodeDefaults(t *testing.T) {
	n := NewNode("card")
	assert.Equal(t, "card", n.Name)
	assert.NotZero(t, n.ID)
	assert.Equal(t, 1.0, n.Float("scale"))
	assert.Equal(t, 1.0, n.Float("opacity"))
	assert.Equal(t, 0.0, n.Float("x"))
	assert.Equal(t, []string{"opacity", "rotate", "scale", "x", "y"}, n.Properties())
}

func TestNodeIDsAreUnique(t *testing.T) {
	a, b := NewNode("a"), NewNode("b")
	assert.NotEqual(t, a.ID, b.ID)
}

func TestNodeSetProperty(t *testing.T) {
	n := NewNode("n")
	n.SetProperty("color", "red")
	v, ok := n.Property("color")
	assert.True(t, ok)
	assert.Equal(t, "red", v)
	assert.Equal(t, 0.0, n.Float("color"), "non-numeric reads as zero")
}

func TestNodeDispose(t *testing.T) {
	n := NewNode("n")
	n.Dispose()
	assert.True(t, n.IsDisposed())
	assert.Zero(t, n.ID)

	// Writes after dispose are dropped.
	n.SetProperty("x", 5.0)
	_, ok := n.Property("x")
	assert.False(t, ok)

	n.Dispose()
}
