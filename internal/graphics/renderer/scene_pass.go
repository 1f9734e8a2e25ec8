package renderer

import (
	"modelviewer/internal/graphics"
	"modelviewer/internal/graphics/gpu"
	"modelviewer/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

// ShadowUnit is the texture unit the shadow map is bound to.
const ShadowUnit = 7

// ScenePass draws the scene to the default target, once for mono output or
// once per eye into the two halves of the viewport for stereo.
type ScenePass struct {
	dev      gpu.Device
	shadow   *ShadowPass
	programs []*graphics.Program

	ClearColor mgl32.Vec4
}

// NewScenePass creates the pass. Per-frame light and shadow uniforms are
// uploaded to programs directly, whether or not they are current.
func NewScenePass(dev gpu.Device, shadow *ShadowPass, programs ...*graphics.Program) *ScenePass {
	return &ScenePass{
		dev:        dev,
		shadow:     shadow,
		programs:   programs,
		ClearColor: mgl32.Vec4{0.1, 0.1, 0.12, 1},
	}
}

func (p *ScenePass) Init() error { return nil }

func (p *ScenePass) Render(ctx FrameContext) {
	defer profiling.Track("renderer.ScenePass")()

	c := p.ClearColor
	p.dev.ClearColor(c[0], c[1], c[2], c[3])
	p.dev.DepthMask(true)
	p.dev.Clear(gpu.ColorBufferBit | gpu.DepthBufferBit)

	p.uploadFrameUniforms(ctx)

	if !ctx.Stereo {
		p.dev.Viewport(0, 0, int32(ctx.Width), int32(ctx.Height))
		ctx.Scene.Render(ctx.Camera, false, graphics.StereoOff)
		return
	}

	half := ctx.Width / 2
	cam := ctx.Camera
	if ctx.Height > 0 && half > 0 {
		cam.AspectRatio = float32(half) / float32(ctx.Height)
	}

	p.dev.Viewport(0, 0, int32(half), int32(ctx.Height))
	ctx.Scene.Render(cam, false, graphics.StereoLeft)
	p.dev.Viewport(int32(half), 0, int32(ctx.Width-half), int32(ctx.Height))
	ctx.Scene.Render(cam, false, graphics.StereoRight)

	p.dev.Viewport(0, 0, int32(ctx.Width), int32(ctx.Height))
}

func (p *ScenePass) uploadFrameUniforms(ctx FrameContext) {
	shadowed := p.shadow != nil && p.shadow.Active()
	if shadowed {
		p.dev.ActiveTexture(gpu.Texture0 + ShadowUnit)
		p.dev.BindTexture(gpu.Texture2D, p.shadow.Target().DepthTexture().Handle())
		p.dev.ActiveTexture(gpu.Texture0)
	}

	var light struct {
		dir     mgl32.Vec3
		diffuse mgl32.Vec4
		ambient mgl32.Vec4
	}
	light.dir = mgl32.Vec3{0, -1, 0}
	light.diffuse = mgl32.Vec4{1, 1, 1, 1}
	if lights := ctx.Scene.Lights(); len(lights) > 0 {
		light.dir = lights[0].Direction
		light.diffuse = lights[0].Diffuse
		light.ambient = lights[0].Ambient
	}

	for _, prog := range p.programs {
		prog.SetUniform("lightDirection", graphics.Vec3(light.dir))
		prog.SetUniform("lightDiffuse", graphics.Vec4(light.diffuse))
		prog.SetUniform("lightAmbient", graphics.Vec4(light.ambient))
		prog.SetUniform("shadowMap", graphics.Int(ShadowUnit))
		if shadowed {
			prog.SetUniform("shadowMatrix", graphics.Mat4(p.shadow.Matrix()))
			prog.SetUniform("shadowEnabled", graphics.Int(1))
		} else {
			prog.SetUniform("shadowEnabled", graphics.Int(0))
		}
	}
}

func (p *ScenePass) Dispose() {}

func (p *ScenePass) SetViewport(width, height int) {}
