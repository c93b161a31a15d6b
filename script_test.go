package motion

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const presenceScript = `
sets:
  hidden: {values: {opacity: 0}}
  shown: {values: {opacity: 1}}
  lifted: {values: {y: -10}}
transition: {duration: 0.1}
props: {initial: hidden, animate: shown, exit: hidden, hover: lifted}
policy: %s
frameRate: 10
steps:
  - {action: render, keys: [A, B, C]}
  - {action: advance, seconds: 0.2}
  - {action: render, keys: [A, C, D]}
  - {action: settle}
`

func loadTestScript(t *testing.T, policy string) *ScriptRunner {
	t.Helper()
	s, err := LoadScript([]byte(fmt.Sprintf(presenceScript, policy)))
	require.NoError(t, err)
	r, err := NewScriptRunner(s, ScriptOptions{})
	require.NoError(t, err)
	return r
}

// lines strips the frame numbers from a transcript.
func lines(transcript []string) []string {
	out := make([]string, len(transcript))
	for i, l := range transcript {
		_, out[i], _ = strings.Cut(l, " ")
	}
	return out
}

func TestScriptConcurrent(t *testing.T) {
	r := loadTestScript(t, "concurrent")
	require.NoError(t, r.Run(200))

	assert.Equal(t, []string{
		"render A B C",
		"group_exit_start",
		"exit_start B",
		"render A C D B~",
		"exit_end B",
		"group_exit_end",
		"rerender",
		"render A C D",
	}, lines(r.Transcript()))

	n, ok := r.Node("D")
	require.True(t, ok)
	assert.Equal(t, 1.0, n.Float("opacity"))
	assert.Equal(t, []string{"A", "C", "D"}, r.Group().Previous())
}

func TestScriptExitBeforeEnter(t *testing.T) {
	r := loadTestScript(t, "exit-before-enter")
	require.NoError(t, r.Run(200))

	assert.Equal(t, []string{
		"render A B C",
		"group_exit_start",
		"exit_start B",
		"render A B~ C",
		"exit_end B",
		"group_exit_end",
		"rerender",
		"render A C D",
	}, lines(r.Transcript()))
}

func TestScriptPointerSteps(t *testing.T) {
	s, err := LoadScript([]byte(`
sets:
  shown: {values: {y: 0}}
  lifted: {values: {y: -10}}
transition: {duration: 0.1}
props: {animate: shown, hover: lifted}
frameRate: 10
trace: true
steps:
  - {action: render, keys: [A, B]}
  - {action: hover, key: B}
  - {action: advance, seconds: 0.2}
  - {action: unhover}
  - {action: settle}
`))
	require.NoError(t, err)
	r, err := NewScriptRunner(s, ScriptOptions{})
	require.NoError(t, err)
	require.NoError(t, r.Run(100))

	assert.Equal(t, []string{
		"render A B",
		"animation_start B",
		"animation_end B",
		"animation_start B",
		"animation_end B",
	}, lines(r.Transcript()))
	n, _ := r.Node("B")
	assert.Equal(t, 0.0, n.Float("y"))
}

func TestScriptRunFailsOnTimeout(t *testing.T) {
	s, err := LoadScript([]byte(`
props: {}
steps:
  - {action: wait, frames: 100}
`))
	require.NoError(t, err)
	r, err := NewScriptRunner(s, ScriptOptions{})
	require.NoError(t, err)
	assert.ErrorContains(t, r.Run(10), "did not finish within 10 frames")
	assert.False(t, r.Done())
}

func TestLoadScriptErrors(t *testing.T) {
	_, err := LoadScript([]byte(`{"steps": []}`))
	assert.ErrorIs(t, err, ErrNoSteps)

	_, err = LoadScript([]byte(`{"steps": [{"action": "jump"}]}`))
	assert.ErrorIs(t, err, ErrUnknownAction)

	_, err = LoadScript([]byte("policy: sideways\nsteps: [{action: wait}]"))
	assert.ErrorContains(t, err, "unknown policy")

	_, err = LoadScript([]byte(`not: [valid`))
	assert.ErrorContains(t, err, "parse script")

	s, err := LoadScript([]byte("props: {animate: missing}\nsteps: [{action: wait}]"))
	require.NoError(t, err)
	_, err = NewScriptRunner(s, ScriptOptions{})
	assert.ErrorIs(t, err, ErrUnknownVariant)
}

func TestLoadScriptFileResolvesVariants(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "v.toml"), []byte(`
[sets.shown.values]
opacity = 1

[sets.hidden.values]
opacity = 0.5
`), 0o644))
	path := filepath.Join(dir, "script.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
variantsFile: v.toml
sets:
  hidden: {values: {opacity: 0}}
props: {initial: hidden, animate: shown}
steps:
  - {action: render, keys: [A]}
  - {action: settle}
`), 0o644))

	s, err := LoadScriptFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.Sets["hidden"].Values["opacity"], "inline sets win")
	assert.Equal(t, 1.0, s.Sets["shown"].Values["opacity"])

	r, err := NewScriptRunner(s, ScriptOptions{})
	require.NoError(t, err)
	require.NoError(t, r.Run(100))
	n, ok := r.Node("A")
	require.True(t, ok)
	assert.Equal(t, 1.0, n.Float("opacity"))
}
