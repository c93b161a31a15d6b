package motion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const variantsYAML = `
transition:
  duration: 0.25
  easing: out-cubic
  overrides:
    opacity: {duration: 0.1}
sets:
  hidden:
    values: {opacity: 0, y: 20}
  shown:
    values: {opacity: 1, y: 0}
  pulse:
    values:
      scale: [1, 1.2, 1]
      transform: {rotate: 45}
    transition: {duration: 0.5}
`

const variantsTOML = `
[transition]
duration = 0.25
easing = "out-cubic"

[transition.overrides.opacity]
duration = 0.1

[sets.hidden.values]
opacity = 0
y = 20

[sets.shown.values]
opacity = 1
y = 0

[sets.pulse.values]
scale = [1, 1.2, 1]
transform = { rotate = 45 }

[sets.pulse.transition]
duration = 0.5
`

func TestLoadVariantsYAML(t *testing.T) {
	v, err := LoadVariants([]byte(variantsYAML))
	require.NoError(t, err)

	assert.Equal(t, []string{"hidden", "pulse", "shown"}, v.Names())
	assert.Equal(t, 0.25, v.Transition.Duration)
	assert.Equal(t, 0.1, v.Transition.For("opacity").Duration)

	hidden, err := v.Set("hidden")
	require.NoError(t, err)
	assert.Equal(t, Keyframes{"opacity": 0.0, "y": 20.0}, hidden.Values)

	pulse, err := v.Set("pulse")
	require.NoError(t, err)
	assert.Equal(t, Sequence{1.0, 1.2, 1.0}, pulse.Values["scale"])
	assert.Equal(t, Keyframes{"rotate": 45.0}, pulse.Values["transform"])
	assert.Equal(t, 0.5, pulse.Transition.Duration)
}

func TestLoadVariantsJSON(t *testing.T) {
	v, err := LoadVariants([]byte(`{"sets": {"shown": {"values": {"opacity": 1}}}}`))
	require.NoError(t, err)
	shown, err := v.Set("shown")
	require.NoError(t, err)
	assert.Equal(t, 1.0, shown.Values["opacity"])
}

func TestLoadVariantsYAMLAndTOMLAgree(t *testing.T) {
	fromYAML, err := LoadVariants([]byte(variantsYAML))
	require.NoError(t, err)
	fromTOML, err := LoadVariantsTOML([]byte(variantsTOML))
	require.NoError(t, err)

	assert.Equal(t, fromYAML.Transition, fromTOML.Transition)
	for _, name := range fromYAML.Names() {
		assert.True(t, Equal(fromYAML.Sets[name], fromTOML.Sets[name]), name)
	}
}

func TestLoadVariantsErrors(t *testing.T) {
	_, err := LoadVariants([]byte("sets: [unterminated"))
	assert.ErrorContains(t, err, "parse variants")

	_, err = LoadVariants([]byte("sets: {a: {values: {x: 1}}}\nunknown: 1\n"))
	assert.Error(t, err, "unknown fields are rejected")

	_, err = LoadVariantsTOML([]byte("[sets.a.values]\nx = 1970-01-01T00:00:00Z\n"))
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestLoadVariantsFileDispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "v.yaml")
	tomlPath := filepath.Join(dir, "v.TOML")
	require.NoError(t, os.WriteFile(yamlPath, []byte(variantsYAML), 0o644))
	require.NoError(t, os.WriteFile(tomlPath, []byte(variantsTOML), 0o644))

	fromYAML, err := LoadVariantsFile(yamlPath)
	require.NoError(t, err)
	fromTOML, err := LoadVariantsFile(tomlPath)
	require.NoError(t, err)
	assert.Equal(t, fromYAML.Names(), fromTOML.Names())

	_, err = LoadVariantsFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "read variants")
}

func TestVariantsProps(t *testing.T) {
	v, err := LoadVariants([]byte(variantsYAML))
	require.NoError(t, err)

	p, err := v.Props(PropSets{Initial: "hidden", Animate: "shown", Exit: "hidden", Hover: "pulse"})
	require.NoError(t, err)
	assert.Same(t, v.Sets["hidden"], p.Initial)
	assert.Same(t, v.Sets["shown"], p.Animate)
	assert.Same(t, v.Sets["pulse"], p.Hover)
	assert.Nil(t, p.Press)
	assert.Same(t, v.Transition, p.Transition)

	_, err = v.Props(PropSets{Animate: "nope"})
	assert.ErrorIs(t, err, ErrUnknownVariant)
}
