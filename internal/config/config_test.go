package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withDefaults(t *testing.T) {
	t.Helper()
	prev := Current()
	Apply(Defaults())
	t.Cleanup(func() { Apply(prev) })
}

func TestLoadEmptyPath(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.yaml")
	data := []byte(`
window:
  width: 1920
logLevel: debug
stereo: true
shadowMapSize: 64
fpsLimit: 1000
eyeSeparation: 0.07
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1920, s.Window.Width)
	assert.Equal(t, 720, s.Window.Height, "unset keys keep defaults")
	assert.Equal(t, "modelviewer", s.Window.Title)
	assert.Equal(t, "debug", s.LogLevel)
	assert.True(t, s.Stereo)
	assert.True(t, s.WatchShaders)
	assert.Equal(t, 256, s.ShadowMapSize, "clamped to minimum")
	assert.Equal(t, 240, s.FPSLimit, "clamped to maximum")
	assert.InDelta(t, 0.07, s.EyeSeparation, 1e-6)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window: [1, 2"), 0o644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "parse config")
}

func TestApplyAndAccessors(t *testing.T) {
	withDefaults(t)

	s := Defaults()
	s.ShaderDir = "shaders"
	s.StateCache = false
	s.ShadowMapSize = 2048
	Apply(s)

	assert.Equal(t, "shaders", ShaderDir())
	assert.False(t, StateCache())
	assert.Equal(t, 2048, ShadowMapSize())
	assert.Equal(t, "info", LogLevel())
	assert.Equal(t, 1280, Window().Width)
}

func TestToggles(t *testing.T) {
	withDefaults(t)

	assert.False(t, Stereo())
	assert.True(t, ToggleStereo())
	assert.True(t, Stereo())
	SetStereo(false)
	assert.False(t, Stereo())

	assert.True(t, ToggleDebugShadowMap())
	SetDebugShadowMap(false)
	assert.False(t, DebugShadowMap())
}

func TestSetterClamping(t *testing.T) {
	withDefaults(t)

	SetEyeSeparation(-1)
	assert.Zero(t, EyeSeparation())
	SetEyeSeparation(5)
	assert.Equal(t, float32(1), EyeSeparation())

	SetFPSLimit(-30)
	assert.Zero(t, FPSLimit())
	SetFPSLimit(500)
	assert.Equal(t, 240, FPSLimit())
}
