package config

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// WindowSettings describes the initial window.
type WindowSettings struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// Settings is the on-disk configuration. Missing keys keep their defaults.
type Settings struct {
	Window         WindowSettings `yaml:"window"`
	LogLevel       string         `yaml:"logLevel"`
	ShaderDir      string         `yaml:"shaderDir"`
	WatchShaders   bool           `yaml:"watchShaders"`
	StateCache     bool           `yaml:"stateCache"`
	FPSLimit       int            `yaml:"fpsLimit"`
	ShadowMapSize  int            `yaml:"shadowMapSize"`
	Stereo         bool           `yaml:"stereo"`
	EyeSeparation  float32        `yaml:"eyeSeparation"`
	DebugShadowMap bool           `yaml:"debugShadowMap"`
}

// Defaults returns the built-in configuration.
func Defaults() Settings {
	return Settings{
		Window:         WindowSettings{Width: 1280, Height: 720, Title: "modelviewer"},
		LogLevel:       "info",
		ShaderDir:      "assets/shaders",
		WatchShaders:   true,
		StateCache:     true,
		FPSLimit:       60,
		ShadowMapSize:  1024,
		EyeSeparation:  0.065,
		DebugShadowMap: false,
	}
}

// Load reads a yaml file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Settings, error) {
	s := Defaults()
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	s.normalize()
	return s, nil
}

func (s *Settings) normalize() {
	d := Defaults()
	if s.Window.Width <= 0 {
		s.Window.Width = d.Window.Width
	}
	if s.Window.Height <= 0 {
		s.Window.Height = d.Window.Height
	}
	if s.Window.Title == "" {
		s.Window.Title = d.Window.Title
	}
	if s.LogLevel == "" {
		s.LogLevel = d.LogLevel
	}
	if s.ShaderDir == "" {
		s.ShaderDir = d.ShaderDir
	}
	s.FPSLimit = clampFPS(s.FPSLimit)
	s.ShadowMapSize = clampShadowMapSize(s.ShadowMapSize)
	s.EyeSeparation = clampEyeSeparation(s.EyeSeparation)
}

// RenderSettings holds the live render configuration
type RenderSettings struct {
	mu       sync.RWMutex
	settings Settings
}

var globalRenderSettings = &RenderSettings{
	settings: Defaults(),
}

// Apply replaces the live configuration
func Apply(s Settings) {
	s.normalize()
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.settings = s
}

// Current returns a copy of the live configuration
func Current() Settings {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.settings
}

// Window returns the initial window settings
func Window() WindowSettings {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.settings.Window
}

// LogLevel returns the zap level name
func LogLevel() string {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.settings.LogLevel
}

// ShaderDir returns the directory shader sources are loaded from
func ShaderDir() string {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.settings.ShaderDir
}

// WatchShaders reports whether shader files are hot reloaded
func WatchShaders() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.settings.WatchShaders
}

// StateCache reports whether redundant device calls are filtered
func StateCache() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.settings.StateCache
}

// FPSLimit returns the frame cap, 0 for uncapped
func FPSLimit() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.settings.FPSLimit
}

// SetFPSLimit sets the frame cap
func SetFPSLimit(fps int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.settings.FPSLimit = clampFPS(fps)
}

// ShadowMapSize returns the shadow map edge in pixels
func ShadowMapSize() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.settings.ShadowMapSize
}

func clampFPS(fps int) int {
	// 0 means uncapped
	if fps < 0 {
		return 0
	}
	if fps > 240 {
		return 240
	}
	return fps
}

func clampShadowMapSize(size int) int {
	if size < 256 {
		return 256
	}
	if size > 8192 {
		return 8192
	}
	return size
}
