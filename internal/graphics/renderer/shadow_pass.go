package renderer

import (
	"modelviewer/internal/graphics"
	"modelviewer/internal/graphics/gpu"
	"modelviewer/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

// ShadowPass renders the world from the first shadow casting light into an
// off-screen target with a depth-only override material.
type ShadowPass struct {
	dev     gpu.Device
	size    int
	program *graphics.Program

	// Extent, Near and Far bound the light's orthographic volume.
	Extent float32
	Near   float32
	Far    float32

	material *graphics.Material
	target   *graphics.Framebuffer
	matrix   mgl32.Mat4
	active   bool
}

// NewShadowPass creates a pass rendering a size x size shadow map with
// program. A nil program leaves the override without a shader.
func NewShadowPass(dev gpu.Device, size int, program *graphics.Program) *ShadowPass {
	return &ShadowPass{
		dev:     dev,
		size:    size,
		program: program,
		Extent:  20,
		Near:    0.1,
		Far:     50,
		matrix:  mgl32.Ident4(),
	}
}

func (s *ShadowPass) Init() error {
	s.target = graphics.NewFramebuffer(s.dev, s.size, s.size)

	m := graphics.NewMaterial()
	m.Enable(gpu.DepthTest)
	m.Enable(gpu.PolygonOffsetFill)
	m.Disable(gpu.Blend)
	m.Disable(gpu.CullFace)
	if s.program != nil {
		m.SetProgram(s.program)
	}
	s.material = m
	return nil
}

func (s *ShadowPass) Render(ctx FrameContext) {
	defer profiling.Track("renderer.ShadowPass")()

	light := ctx.Scene.ShadowLight()
	if light == nil {
		s.active = false
		return
	}

	restore := s.target.Scope()
	s.dev.Viewport(0, 0, int32(s.size), int32(s.size))
	s.dev.DepthMask(true)
	s.dev.Clear(gpu.ColorBufferBit | gpu.DepthBufferBit)

	prev := ctx.Scene.OverrideMaterial()
	ctx.Scene.SetOverrideMaterial(s.material)
	ctx.Scene.RenderWorld(light.Camera(s.Extent, s.Near, s.Far), true, graphics.StereoOff)
	ctx.Scene.SetOverrideMaterial(prev)

	restore()
	s.dev.Viewport(0, 0, int32(ctx.Width), int32(ctx.Height))

	s.matrix = light.ShadowMatrix(s.Extent, s.Near, s.Far)
	s.active = true
}

func (s *ShadowPass) Dispose() {
	if s.target == nil {
		return
	}
	s.target.ColorTexture().Release()
	s.target.DepthTexture().Release()
	s.target.Release()
	s.target = nil
}

func (s *ShadowPass) SetViewport(width, height int) {}

// Active reports whether the last frame rendered a shadow map.
func (s *ShadowPass) Active() bool { return s.active }

// Matrix maps world space to shadow map texture space.
func (s *ShadowPass) Matrix() mgl32.Mat4 { return s.matrix }

// Target is the framebuffer holding the shadow map.
func (s *ShadowPass) Target() *graphics.Framebuffer { return s.target }
