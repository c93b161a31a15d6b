package motion

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestDebugWriteToDisposedNodePanics(t *testing.T) {
	SetDebugMode(true)
	defer SetDebugMode(false)

	n := NewNode("gone")
	n.Dispose()
	assert.PanicsWithValue(t, `motion debug: SetProperty on disposed node "gone" (ID was 0)`, func() {
		n.SetProperty("x", 1.0)
	})
}

func TestDebugModeOffDropsWrite(t *testing.T) {
	SetDebugMode(false)
	n := NewNode("gone")
	n.Dispose()
	assert.NotPanics(t, func() { n.SetProperty("x", 1.0) })
	assert.False(t, DebugMode())
}

func TestDebugWarnsOnManyExits(t *testing.T) {
	SetDebugMode(true)
	defer SetDebugMode(false)

	var buf bytes.Buffer
	log := zerolog.New(&buf)
	eng := &fakeEngine{}
	g := NewGroup(eng, GroupOptions{ID: "big", Logger: &log})

	keys := make([]string, debugMaxExiting+1)
	for i := range keys {
		keys[i] = fmt.Sprintf("k%d", i)
	}
	commit(g.Update(children(keys...)))
	g.Update(nil)

	assert.Contains(t, buf.String(), "many exits in flight")
	assert.Contains(t, buf.String(), `"group":"big"`)
}

func TestDebugWarnsOnUnkeyedChild(t *testing.T) {
	SetDebugMode(true)
	defer SetDebugMode(false)

	var buf bytes.Buffer
	log := zerolog.New(&buf)
	g := NewGroup(&fakeEngine{}, GroupOptions{Logger: &log})
	g.Update([]Child{{Kind: KindAnimatable}})

	assert.Contains(t, buf.String(), "without key")
}
