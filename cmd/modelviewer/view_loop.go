package main

import (
	"time"

	"modelviewer/internal/config"
	"modelviewer/internal/input"
	"modelviewer/internal/logger"
	"modelviewer/internal/profiling"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

const (
	moveSpeed = 3.0
	fastScale = 4.0
)

// ViewLoop manages the main loop state
type ViewLoop struct {
	window       *glfw.Window
	viewer       *Viewer
	inputManager *input.InputManager
	fpsLimiter   *FPSLimiter
	budget       *profiling.Budget

	showProfiling bool

	// Timing
	frames           int
	lastFPSCheckTime time.Time
	lastTime         time.Time
}

// NewViewLoop creates a loop over an initialized viewer
func NewViewLoop(window *glfw.Window, v *Viewer) *ViewLoop {
	im := input.NewInputManager()
	im.SetKeyCallback(window)
	return &ViewLoop{
		window:           window,
		viewer:           v,
		inputManager:     im,
		fpsLimiter:       NewFPSLimiter(),
		budget:           profiling.NewBudget(config.FPSLimit()),
		lastFPSCheckTime: time.Now(),
		lastTime:         time.Now(),
	}
}

// Run renders until the window closes or quit is pressed
func (l *ViewLoop) Run() {
	for !l.window.ShouldClose() {
		l.tick()
	}
}

func (l *ViewLoop) tick() {
	l.budget.Begin()
	now := time.Now()
	dt := now.Sub(l.lastTime).Seconds()
	l.lastTime = now

	func() { defer profiling.Track("glfw.PollEvents")(); glfw.PollEvents() }()

	l.handleActions()
	l.moveCamera(float32(dt))
	l.reloadShaders()

	v := l.viewer
	v.Pivot.SetOrientation(v.Tracker.Orientation())
	v.Scene.SetEyeSeparation(config.EyeSeparation())
	v.Renderer.SetStereo(config.Stereo())
	v.Renderer.Render(v.Scene, dt)

	func() { defer profiling.Track("glfw.SwapBuffers")(); l.window.SwapBuffers() }()

	// Clear edge flags at end of frame
	l.inputManager.PostUpdate()

	l.budget.End()
	l.reportFPS()
	l.fpsLimiter.Wait()
}

func (l *ViewLoop) handleActions() {
	im := l.inputManager
	if im.JustPressed(input.ActionQuit) {
		l.window.SetShouldClose(true)
	}
	if im.JustPressed(input.ActionToggleStereo) {
		logger.Log.Info("stereo", zap.Bool("enabled", config.ToggleStereo()))
	}
	if im.JustPressed(input.ActionToggleShadowDebug) {
		logger.Log.Info("shadow map overlay", zap.Bool("enabled", config.ToggleDebugShadowMap()))
	}
	if im.JustPressed(input.ActionResetTracker) {
		l.viewer.Tracker.Reset(mgl32.QuatIdent())
	}
	if im.JustPressed(input.ActionToggleProfiling) {
		l.showProfiling = !l.showProfiling
	}
}

func (l *ViewLoop) moveCamera(dt float32) {
	x, y, z := l.inputManager.MoveAxis()
	if x == 0 && y == 0 && z == 0 {
		return
	}
	speed := float32(moveSpeed)
	if l.inputManager.IsActive(input.ActionFast) {
		speed *= fastScale
	}

	cam := l.viewer.Renderer.Camera()
	dir := cam.Right().Mul(x).
		Add(mgl32.Vec3{0, y, 0}).
		Add(cam.Forward().Mul(-z))
	cam.Position = cam.Position.Add(dir.Mul(speed * dt))
	l.viewer.Renderer.SetCamera(cam)
}

func (l *ViewLoop) reloadShaders() {
	if l.viewer.Watcher == nil {
		return
	}
	for _, path := range l.viewer.Watcher.Changed() {
		n, err := l.viewer.Library.Reload(path)
		if err != nil {
			// Library already logged the failure and kept the old program
			continue
		}
		if n > 0 {
			logger.Log.Info("shader reloaded", zap.String("path", path), zap.Int("programs", n))
		}
	}
}

func (l *ViewLoop) reportFPS() {
	l.frames++
	if time.Since(l.lastFPSCheckTime) < time.Second {
		return
	}
	if l.showProfiling {
		frames, slow := l.budget.Stats()
		logger.Log.Info("frame stats",
			zap.Int("fps", l.frames),
			zap.Int("frames", frames),
			zap.Int("slow", slow),
			zap.String("top", profiling.TopN(5)),
		)
	}
	l.frames = 0
	l.lastFPSCheckTime = time.Now()
}
