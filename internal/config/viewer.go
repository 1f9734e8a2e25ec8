package config

// Runtime toggles flipped from the keyboard.

// Stereo reports whether side-by-side stereo is on
func Stereo() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.settings.Stereo
}

// SetStereo turns side-by-side stereo on or off
func SetStereo(enabled bool) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.settings.Stereo = enabled
}

// ToggleStereo flips stereo and returns the new state
func ToggleStereo() bool {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.settings.Stereo = !globalRenderSettings.settings.Stereo
	return globalRenderSettings.settings.Stereo
}

// EyeSeparation returns the interocular distance in world units
func EyeSeparation() float32 {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.settings.EyeSeparation
}

// SetEyeSeparation sets the interocular distance
func SetEyeSeparation(d float32) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.settings.EyeSeparation = clampEyeSeparation(d)
}

// DebugShadowMap reports whether the shadow map overlay is drawn
func DebugShadowMap() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.settings.DebugShadowMap
}

// SetDebugShadowMap shows or hides the shadow map overlay
func SetDebugShadowMap(enabled bool) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.settings.DebugShadowMap = enabled
}

// ToggleDebugShadowMap flips the overlay and returns the new state
func ToggleDebugShadowMap() bool {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.settings.DebugShadowMap = !globalRenderSettings.settings.DebugShadowMap
	return globalRenderSettings.settings.DebugShadowMap
}

func clampEyeSeparation(d float32) float32 {
	if d < 0 {
		return 0
	}
	if d > 1 {
		return 1
	}
	return d
}
