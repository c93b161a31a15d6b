package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVariants = `
transition: {duration: 0.2}
sets:
  hidden: {values: {opacity: 0}}
  shown: {values: {opacity: 1}}
  hover: {values: {scale: 1.1}}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidate(t *testing.T) {
	path := writeFile(t, "variants.yaml", testVariants)
	out, err := run(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok (hidden, hover, shown)")
}

func TestValidate_Invalid(t *testing.T) {
	path := writeFile(t, "bad.yaml", "sets: [1, 2")
	_, err := run(t, "validate", path)
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	path := writeFile(t, "variants.yaml", testVariants)
	out, err := run(t, "merge", path, "hidden", "shown")
	require.NoError(t, err)
	assert.Contains(t, out, "opacity:")
	assert.Contains(t, out, "duration: 0.2")
}

func TestMerge_UnknownVariant(t *testing.T) {
	path := writeFile(t, "variants.yaml", testVariants)
	_, err := run(t, "merge", path, "hidden", "missing")
	assert.ErrorContains(t, err, "unknown variant")
}

func TestMerge_EventReverse(t *testing.T) {
	path := writeFile(t, "variants.yaml", testVariants)
	out, err := run(t, "merge", path, "shown", "hover", "--event", "--reverse")
	require.NoError(t, err)
	assert.Contains(t, out, "scale:")
	assert.Contains(t, out, "opacity:")
}

func TestSimulate(t *testing.T) {
	path := writeFile(t, "script.yaml", `
sets:
  hidden: {values: {opacity: 0}}
  shown: {values: {opacity: 1}}
transition: {duration: 0.1}
props: {initial: hidden, animate: shown, exit: hidden}
steps:
  - {action: render, keys: [a, b]}
  - {action: advance, seconds: 0.2}
  - {action: render, keys: [a]}
  - {action: settle}
`)
	out, err := run(t, "simulate", path, "--metrics")
	require.NoError(t, err)
	assert.Contains(t, out, "render a b")
	assert.Contains(t, out, "exit_end b")
	assert.Contains(t, out, "node a opacity=1")
	assert.Contains(t, out, "motion_events_total")
}

func TestSimulate_MaxFramesFromEnv(t *testing.T) {
	path := writeFile(t, "script.yaml", `
sets:
  shown: {values: {opacity: 1}}
props: {animate: shown}
steps:
  - {action: render, keys: [a]}
  - {action: wait, frames: 50}
`)
	t.Setenv("MOTIONCTL_MAX_FRAMES", "10")
	_, err := run(t, "simulate", path)
	assert.ErrorContains(t, err, "did not finish within 10 frames")
}
