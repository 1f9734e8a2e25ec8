package main

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"modelviewer/internal/assets"
	"modelviewer/internal/config"
	"modelviewer/internal/graphics"
	"modelviewer/internal/graphics/gpu"
	"modelviewer/internal/graphics/gpu/glbackend"
	"modelviewer/internal/graphics/renderer"
	"modelviewer/internal/logger"
	"modelviewer/internal/scene"
	"modelviewer/internal/tracking"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

func setupWindow(ws config.WindowSettings) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(ws.Width, ws.Height, ws.Title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()

	// Disable V-Sync; we'll use our own FPS limiter
	glfw.SwapInterval(0)

	return window, nil
}

// Viewer holds everything the view loop drives
type Viewer struct {
	Device   gpu.Device
	backend  *glbackend.Device
	cache    *gpu.StateCache
	Library  *graphics.ProgramLibrary
	Textures *graphics.TextureRegistry
	Scene    *scene.Manager
	Renderer *renderer.Renderer
	Tracker  *tracking.Tracker
	Watcher  *assets.ShaderWatcher

	// Pivot follows the tracker orientation
	Pivot *scene.Node

	meshes []*graphics.Mesh
}

func setupViewer(window *glfw.Window) (*Viewer, error) {
	backend, err := glbackend.Init()
	if err != nil {
		return nil, fmt.Errorf("init gl: %w", err)
	}
	logger.Log.Info("opengl ready", zap.String("version", backend.Version()))

	v := &Viewer{
		Device:   backend,
		backend:  backend,
		Textures: graphics.NewTextureRegistry(),
	}
	if config.StateCache() {
		v.cache = gpu.NewStateCache(backend)
		v.Device = v.cache
	}

	shaderDir := config.ShaderDir()
	v.Library = graphics.NewProgramLibrary(v.Device, os.DirFS(shaderDir))
	phong, err := v.Library.Load("phong", "phong.vert", "phong.frag")
	if err != nil {
		v.Release()
		return nil, err
	}
	depth, err := v.Library.Load("depth", "depth.vert", "depth.frag")
	if err != nil {
		v.Release()
		return nil, err
	}

	v.Scene = scene.NewManager(v.Device)
	v.Scene.SetEyeSeparation(config.EyeSeparation())
	if err := v.buildScene(phong); err != nil {
		v.Release()
		return nil, err
	}

	shadow := renderer.NewShadowPass(v.Device, config.ShadowMapSize(), depth)
	width, height := window.GetFramebufferSize()
	v.Renderer, err = renderer.NewRenderer(v.Device, width, height,
		shadow,
		renderer.NewScenePass(v.Device, shadow, phong),
		renderer.NewDebugPass(v.Device, shadow, config.DebugShadowMap),
	)
	if err != nil {
		v.Release()
		return nil, err
	}
	v.Renderer.SetCamera(v.Renderer.Camera().
		WithPosition(mgl32.Vec3{0, 2, 6}).
		LookAt(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0}))

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		v.Renderer.SetViewport(width, height)
	})

	v.Tracker = tracking.NewTracker(tracking.ConstantRate{Rate: mgl32.Vec3{0, 0.6, 0}}, tracking.DefaultOptions())
	v.Tracker.Start()

	if config.WatchShaders() {
		v.Watcher, err = assets.WatchShaders(shaderDir)
		if err != nil {
			// Hot reload is a convenience; run without it
			logger.Log.Warn("shader watch unavailable", zap.String("dir", shaderDir), zap.Error(err))
		}
	}
	return v, nil
}

// buildScene fills the world graph with a textured floor and a group of
// cubes, and the view graph with a small compass cube.
func (v *Viewer) buildScene(phong *graphics.Program) error {
	checker, err := v.Textures.Get("checker", func() (*graphics.Texture, error) {
		return graphics.NewTextureFromImage(v.Device, checkerboard(256, 32), 512), nil
	})
	if err != nil {
		return err
	}

	cube := graphics.NewCube(v.Device, 1)
	v.meshes = append(v.meshes, cube)
	if err := cube.Verify(); err != nil {
		return err
	}

	floorMat := v.litMaterial(phong, mgl32.Vec4{0.9, 0.9, 0.9, 1})
	floorMat.SetTexture(0, checker)
	floorMat.Uniforms().Set("useTexture", graphics.Int(1))

	floor := v.Scene.World().CreateChild("floor")
	floor.SetPosition(mgl32.Vec3{0, -1, 0})
	floor.SetScale(mgl32.Vec3{12, 0.2, 12})
	floor.Attach(graphics.NewModel(cube, floorMat))

	v.Pivot = v.Scene.World().CreateChild("pivot")
	colors := []mgl32.Vec4{
		{0.85, 0.25, 0.2, 1},
		{0.2, 0.7, 0.3, 1},
		{0.25, 0.4, 0.9, 1},
	}
	for i, c := range colors {
		n := v.Pivot.CreateChild(fmt.Sprintf("cube%d", i))
		n.SetPosition(mgl32.Vec3{float32(i-1) * 2, 0, 0})
		n.SetScale(mgl32.Vec3{0.8, 0.8 + float32(i)*0.4, 0.8})
		n.Attach(graphics.NewModel(cube, v.litMaterial(phong, c)))
	}

	compassMat := v.litMaterial(phong, mgl32.Vec4{1, 0.8, 0.1, 1})
	compassMat.Emission = mgl32.Vec4{0.3, 0.25, 0, 1}
	compass := v.Scene.View().CreateChild("compass")
	compass.SetPosition(mgl32.Vec3{0, 0, -3})
	compass.SetScale(mgl32.Vec3{0.05, 0.05, 0.4})
	compass.Attach(graphics.NewModel(cube, compassMat))

	light := v.Scene.CreateLight()
	light.Position = mgl32.Vec3{6, 10, 4}
	light.Direction = mgl32.Vec3{-6, -10, -4}.Normalize()
	light.Ambient = mgl32.Vec4{0.25, 0.25, 0.3, 1}
	return nil
}

func (v *Viewer) litMaterial(phong *graphics.Program, diffuse mgl32.Vec4) *graphics.Material {
	m := graphics.NewMaterial()
	m.Diffuse = diffuse
	m.Specular = mgl32.Vec4{0.3, 0.3, 0.3, 1}
	m.Shininess = 24
	m.Enable(gpu.DepthTest)
	m.Enable(gpu.CullFace)
	m.Disable(gpu.Blend)
	m.Disable(gpu.PolygonOffsetFill)
	m.SetProgram(phong)
	m.Uniforms().Set("diffuseMap", graphics.Int(0))
	m.Uniforms().Set("useTexture", graphics.Int(0))
	graphics.AddStereoUniforms(m.Uniforms())
	return m
}

func checkerboard(size, cell int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	light := color.RGBA{220, 220, 220, 255}
	dark := color.RGBA{70, 70, 80, 255}
	for y := range size {
		for x := range size {
			c := dark
			if (x/cell+y/cell)%2 == 0 {
				c = light
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// Release frees GPU resources and stops background work
func (v *Viewer) Release() {
	if v.Watcher != nil {
		v.Watcher.Close()
	}
	if v.Tracker != nil {
		v.Tracker.Stop()
	}
	if v.Renderer != nil {
		v.Renderer.Dispose()
	}
	if v.Scene != nil {
		v.Scene.Clear()
	}
	for _, m := range v.meshes {
		m.Release()
	}
	v.Textures.Release()
	if v.Library != nil {
		v.Library.Release()
	}
	graphics.ReleaseQuadRenderer(v.Device)
	v.backend.Release()
}
